package gmail_tools

import (
	"context"
	"log/slog"

	"github.com/teemow/inboxroute/internal/gmail"
	"github.com/teemow/inboxroute/internal/instrumentation"
	"github.com/teemow/inboxroute/internal/logging"
	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

func listMessagesDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        ListMessagesTool,
		Description: "List recent Gmail messages with optional search query",
		Service:     instrumentation.ServiceGmail,
		Operation:   instrumentation.OperationList,
		ReadOnly:    true,
		Params: []registry.Param{
			{
				Name:        "query",
				Kind:        registry.KindString,
				Default:     "",
				Description: "Gmail search query (e.g., 'is:unread', 'from:someone@example.com')",
			},
			{
				Name:        "max_results",
				Kind:        registry.KindNumber,
				Default:     DefaultMaxResults,
				Description: "Maximum number of messages to return (default: 10)",
			},
		},
	}
}

func sendMessageDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        SendMessageTool,
		Description: "Send a Gmail message",
		Service:     instrumentation.ServiceGmail,
		Operation:   instrumentation.OperationSend,
		Params: []registry.Param{
			{Name: "to", Kind: registry.KindString, Required: true, Description: "Recipient email address"},
			{Name: "subject", Kind: registry.KindString, Required: true, Description: "Email subject"},
			{Name: "body", Kind: registry.KindString, Required: true, Description: "Plain-text email body"},
		},
	}
}

// messageList is the structured content of list_messages.
type messageList struct {
	Messages []gmail.MessageSummary `json:"messages"`
}

func mailClient(sc *server.ServerContext) (server.MailClient, error) {
	client := sc.Mail()
	if client == nil {
		return nil, &registry.NotInitializedError{Service: server.FamilyGmail}
	}
	return client, nil
}

func handleListMessages(sc *server.ServerContext) registry.Handler {
	return func(ctx context.Context, args registry.Args) (registry.Result, error) {
		client, err := mailClient(sc)
		if err != nil {
			return registry.Result{}, err
		}

		query, err := args.String("query")
		if err != nil {
			return registry.Result{}, err
		}
		maxResults, err := args.Int("max_results")
		if err != nil {
			return registry.Result{}, err
		}
		if maxResults < 1 {
			return registry.Result{}, &registry.ValidationError{Message: "max_results must be at least 1"}
		}

		msgs, err := client.ListMessages(ctx, query, int64(maxResults))
		if err != nil {
			return registry.Result{}, registry.Remote(instrumentation.ServiceGmail, err)
		}

		summaries := gmail.ToMessageSummaries(msgs)
		return registry.OkStructured(RenderMessages(summaries), messageList{Messages: summaries}), nil
	}
}

func handleSendMessage(sc *server.ServerContext) registry.Handler {
	return func(ctx context.Context, args registry.Args) (registry.Result, error) {
		client, err := mailClient(sc)
		if err != nil {
			return registry.Result{}, err
		}

		var msg gmail.OutgoingMessage
		if msg.To, err = args.String("to"); err != nil {
			return registry.Result{}, err
		}
		if msg.Subject, err = args.String("subject"); err != nil {
			return registry.Result{}, err
		}
		if msg.Body, err = args.String("body"); err != nil {
			return registry.Result{}, err
		}

		sent, err := client.SendMessage(ctx, msg)
		if err != nil {
			return registry.Result{}, registry.Remote(instrumentation.ServiceGmail, err)
		}
		sc.Logger().Info("message sent",
			logging.Service(instrumentation.ServiceGmail),
			logging.UserHash(msg.To),
			slog.String("message_id", sent.ID))

		return registry.OkStructured(RenderSent(sent), sent), nil
	}
}
