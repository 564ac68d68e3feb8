package google

import (
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"
)

// DefaultScopes are requested when the credential file does not list its own.
//
//   - Gmail: read and send
//   - Calendar: full access plus events
var DefaultScopes = []string{
	gmail.GmailReadonlyScope,
	gmail.GmailSendScope,
	calendar.CalendarScope,
	calendar.CalendarEventsScope,
}
