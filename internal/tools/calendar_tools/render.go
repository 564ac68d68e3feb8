package calendar_tools

import (
	"fmt"
	"strings"

	"github.com/teemow/inboxroute/internal/calendar"
)

var eventSeparator = strings.Repeat("-", 50)

// RenderEvents formats summaries as the list_events text. Location and
// Description lines appear only when set.
func RenderEvents(summaries []calendar.EventSummary) string {
	var b strings.Builder
	b.WriteString("Upcoming Calendar Events:\n\n")
	for _, ev := range summaries {
		fmt.Fprintf(&b, "Title: %s\n", ev.Title)
		fmt.Fprintf(&b, "Start: %s\n", ev.Start)
		fmt.Fprintf(&b, "End: %s\n", ev.End)
		if ev.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", ev.Location)
		}
		if ev.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", ev.Description)
		}
		b.WriteString(eventSeparator)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderCreated formats the create_event confirmation.
func RenderCreated(created *calendar.CreatedEvent) string {
	return fmt.Sprintf("Event created successfully! Event ID: %s", created.ID)
}
