// Package gmail_tools provides the Gmail tools of the MCP server:
//
//   - list_messages: recent messages matching an optional search query
//   - send_message: send a plain-text message (omitted in read-only mode)
//
// Handlers read the mail client from the server context on every call, so
// a server started without credentials answers "Gmail service not
// initialized" instead of failing to start.
package gmail_tools
