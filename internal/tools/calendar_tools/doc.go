// Package calendar_tools provides the Google Calendar tools of the MCP server:
//
//   - list_events: upcoming events of a calendar, soonest first
//   - create_event: create an event in the primary calendar (omitted in
//     read-only mode)
//
// Event times are ISO-8601 instants supplied by the caller and stored in UTC
// without conversion.
package calendar_tools
