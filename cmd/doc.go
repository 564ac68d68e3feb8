// Package cmd implements the command-line interface for inboxroute.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio or streamable HTTP
//   - version: Display version information
//   - tools: List the registered tools as text, markdown or JSON
package cmd
