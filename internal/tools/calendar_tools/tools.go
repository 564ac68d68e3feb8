package calendar_tools

import (
	"fmt"

	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

// Tool names.
const (
	ListEventsTool  = "list_events"
	CreateEventTool = "create_event"
)

// DefaultMaxResults is the number of events listed when max_results is omitted.
const DefaultMaxResults = 10

// Register adds the Calendar tools to reg. In read-only mode create_event
// is not registered.
func Register(reg *registry.Registry, sc *server.ServerContext, readOnly bool) error {
	if err := reg.Register(listEventsDescriptor(), handleListEvents(sc)); err != nil {
		return fmt.Errorf("failed to register %s: %w", ListEventsTool, err)
	}

	if readOnly {
		return nil
	}

	if err := reg.Register(createEventDescriptor(), handleCreateEvent(sc)); err != nil {
		return fmt.Errorf("failed to register %s: %w", CreateEventTool, err)
	}

	return nil
}
