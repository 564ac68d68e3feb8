package calendar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	calendar "google.golang.org/api/calendar/v3"
)

func TestToEventSummary(t *testing.T) {
	tests := []struct {
		name  string
		event *calendar.Event
		want  EventSummary
	}{
		{
			name: "timed event",
			event: &calendar.Event{
				Id:          "e1",
				Summary:     "Planning",
				Description: "Q3",
				Location:    "Room 4",
				HtmlLink:    "https://calendar.example/e1",
				Start:       &calendar.EventDateTime{DateTime: "2024-03-01T09:00:00Z"},
				End:         &calendar.EventDateTime{DateTime: "2024-03-01T10:00:00Z"},
				Attendees:   []*calendar.EventAttendee{{Email: "a@example.com"}, {}, nil},
			},
			want: EventSummary{
				ID: "e1", Title: "Planning", Description: "Q3", Location: "Room 4",
				HTMLLink: "https://calendar.example/e1",
				Start:    "2024-03-01T09:00:00Z", End: "2024-03-01T10:00:00Z",
				Attendees: []string{"a@example.com"},
			},
		},
		{
			name:  "all-day event without title",
			event: &calendar.Event{Id: "e2", Start: &calendar.EventDateTime{Date: "2024-03-02"}, End: &calendar.EventDateTime{Date: "2024-03-03"}},
			want:  EventSummary{ID: "e2", Title: "No Title", Start: "2024-03-02", End: "2024-03-03"},
		},
		{
			name:  "no times",
			event: &calendar.Event{Id: "e3", Summary: "Floating"},
			want:  EventSummary{ID: "e3", Title: "Floating"},
		},
		{
			name:  "nil event",
			event: nil,
			want:  EventSummary{Title: "No Title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ToEventSummary(tt.event)); diff != "" {
				t.Errorf("ToEventSummary() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEventInput_ToEvent(t *testing.T) {
	ev := EventInput{Summary: "S", Start: "2024-01-01T10:00:00Z", End: "2024-01-01T11:00:00Z"}.ToEvent()

	if ev.Start.TimeZone != EventTimeZone || ev.End.TimeZone != EventTimeZone {
		t.Errorf("expected UTC time zone, got %q / %q", ev.Start.TimeZone, ev.End.TimeZone)
	}
	if ev.Start.DateTime != "2024-01-01T10:00:00Z" {
		t.Errorf("start = %q", ev.Start.DateTime)
	}
	if len(ev.Attendees) != 0 {
		t.Errorf("expected no attendees, got %d", len(ev.Attendees))
	}
}
