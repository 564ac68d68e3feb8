package calendar_tools

import (
	"context"

	"github.com/teemow/inboxroute/internal/calendar"
	"github.com/teemow/inboxroute/internal/instrumentation"
	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

func listEventsDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        ListEventsTool,
		Description: "List upcoming calendar events",
		Service:     instrumentation.ServiceCalendar,
		Operation:   instrumentation.OperationList,
		ReadOnly:    true,
		Params: []registry.Param{
			{
				Name:        "calendar_id",
				Kind:        registry.KindString,
				Default:     calendar.PrimaryCalendarID,
				Description: "Calendar ID (default: 'primary')",
			},
			{
				Name:        "max_results",
				Kind:        registry.KindNumber,
				Default:     DefaultMaxResults,
				Description: "Maximum number of events to return (default: 10)",
			},
		},
	}
}

func createEventDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        CreateEventTool,
		Description: "Create a new calendar event",
		Service:     instrumentation.ServiceCalendar,
		Operation:   instrumentation.OperationCreate,
		Params: []registry.Param{
			{Name: "summary", Kind: registry.KindString, Required: true, Description: "Event title"},
			{Name: "start_time", Kind: registry.KindString, Required: true, Description: "Start time in ISO format (e.g., '2024-01-15T10:00:00Z')"},
			{Name: "end_time", Kind: registry.KindString, Required: true, Description: "End time in ISO format (e.g., '2024-01-15T11:00:00Z')"},
			{Name: "description", Kind: registry.KindString, Default: "", Description: "Event description"},
			{Name: "location", Kind: registry.KindString, Default: "", Description: "Event location"},
			{Name: "attendees", Kind: registry.KindStringList, Default: []string{}, Description: "Attendee email addresses; a comma-separated string is accepted"},
		},
	}
}

// eventList is the structured content of list_events.
type eventList struct {
	Events []calendar.EventSummary `json:"events"`
}

func calendarClient(sc *server.ServerContext) (server.CalendarClient, error) {
	client := sc.Calendar()
	if client == nil {
		return nil, &registry.NotInitializedError{Service: server.FamilyCalendar}
	}
	return client, nil
}

func handleListEvents(sc *server.ServerContext) registry.Handler {
	return func(ctx context.Context, args registry.Args) (registry.Result, error) {
		client, err := calendarClient(sc)
		if err != nil {
			return registry.Result{}, err
		}

		calendarID, err := args.String("calendar_id")
		if err != nil {
			return registry.Result{}, err
		}
		if calendarID == "" {
			calendarID = calendar.PrimaryCalendarID
		}
		maxResults, err := args.Int("max_results")
		if err != nil {
			return registry.Result{}, err
		}
		if maxResults < 1 {
			return registry.Result{}, &registry.ValidationError{Message: "max_results must be at least 1"}
		}

		events, err := client.UpcomingEvents(ctx, calendarID, int64(maxResults))
		if err != nil {
			return registry.Result{}, registry.Remote(instrumentation.ServiceCalendar, err)
		}

		summaries := calendar.ToEventSummaries(events)
		return registry.OkStructured(RenderEvents(summaries), eventList{Events: summaries}), nil
	}
}

func handleCreateEvent(sc *server.ServerContext) registry.Handler {
	return func(ctx context.Context, args registry.Args) (registry.Result, error) {
		client, err := calendarClient(sc)
		if err != nil {
			return registry.Result{}, err
		}

		input, err := eventInput(args)
		if err != nil {
			return registry.Result{}, err
		}

		created, err := client.InsertEvent(ctx, input)
		if err != nil {
			return registry.Result{}, registry.Remote(instrumentation.ServiceCalendar, err)
		}

		return registry.OkStructured(RenderCreated(created), created), nil
	}
}

func eventInput(args registry.Args) (calendar.EventInput, error) {
	var (
		in  calendar.EventInput
		err error
	)
	if in.Summary, err = args.String("summary"); err != nil {
		return in, err
	}
	if in.Start, err = args.String("start_time"); err != nil {
		return in, err
	}
	if in.End, err = args.String("end_time"); err != nil {
		return in, err
	}
	if in.Description, err = args.String("description"); err != nil {
		return in, err
	}
	if in.Location, err = args.String("location"); err != nil {
		return in, err
	}
	if in.Attendees, err = args.StringList("attendees"); err != nil {
		return in, err
	}
	return in, nil
}
