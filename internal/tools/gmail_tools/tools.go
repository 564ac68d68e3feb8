package gmail_tools

import (
	"fmt"

	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

// Tool names.
const (
	ListMessagesTool = "list_messages"
	SendMessageTool  = "send_message"
)

// DefaultMaxResults is the number of messages listed when max_results is omitted.
const DefaultMaxResults = 10

// Register adds the Gmail tools to reg. In read-only mode send_message is
// not registered.
func Register(reg *registry.Registry, sc *server.ServerContext, readOnly bool) error {
	if err := reg.Register(listMessagesDescriptor(), handleListMessages(sc)); err != nil {
		return fmt.Errorf("failed to register %s: %w", ListMessagesTool, err)
	}

	if readOnly {
		return nil
	}

	if err := reg.Register(sendMessageDescriptor(), handleSendMessage(sc)); err != nil {
		return fmt.Errorf("failed to register %s: %w", SendMessageTool, err)
	}

	return nil
}
