package calendar

import (
	"fmt"

	calendar "google.golang.org/api/calendar/v3"
)

// DefaultTitle is shown for events without a summary.
const DefaultTitle = "No Title"

// EventTimeZone is attached to every created event. Start and end instants
// are passed through unchanged.
const EventTimeZone = "UTC"

// EventSummary is the normalized view of an event used for display.
// Start and End hold the upstream dateTime, or the date for all-day events.
type EventSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	HTMLLink    string   `json:"html_link,omitempty"`
}

// CreatedEvent confirms a created event.
type CreatedEvent struct {
	ID       string `json:"id"`
	HTMLLink string `json:"html_link,omitempty"`
}

// EventInput holds the fields for creating an event.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       string // ISO-8601 instant
	End         string // ISO-8601 instant
	Attendees   []string
}

// Validate reports the first missing required field.
func (in EventInput) Validate() error {
	switch {
	case in.Summary == "":
		return fmt.Errorf("summary is required")
	case in.Start == "":
		return fmt.Errorf("start time is required")
	case in.End == "":
		return fmt.Errorf("end time is required")
	}
	return nil
}

// ToEvent converts the input to an API event in the UTC time zone.
func (in EventInput) ToEvent() *calendar.Event {
	ev := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       &calendar.EventDateTime{DateTime: in.Start, TimeZone: EventTimeZone},
		End:         &calendar.EventDateTime{DateTime: in.End, TimeZone: EventTimeZone},
	}
	for _, email := range in.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: email})
	}
	return ev
}

// ToEventSummary normalizes ev. A missing summary becomes DefaultTitle;
// start and end fall back from dateTime to date, then to "".
func ToEventSummary(ev *calendar.Event) EventSummary {
	if ev == nil {
		return EventSummary{Title: DefaultTitle}
	}

	s := EventSummary{
		ID:          ev.Id,
		Title:       ev.Summary,
		Start:       eventTime(ev.Start),
		End:         eventTime(ev.End),
		Location:    ev.Location,
		Description: ev.Description,
		HTMLLink:    ev.HtmlLink,
	}
	if s.Title == "" {
		s.Title = DefaultTitle
	}
	for _, a := range ev.Attendees {
		if a != nil && a.Email != "" {
			s.Attendees = append(s.Attendees, a.Email)
		}
	}

	return s
}

// ToEventSummaries normalizes events, preserving order.
func ToEventSummaries(events []*calendar.Event) []EventSummary {
	out := make([]EventSummary, 0, len(events))
	for _, ev := range events {
		out = append(out, ToEventSummary(ev))
	}
	return out
}

func eventTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
