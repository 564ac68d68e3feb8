package gmail_tools

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailv1 "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxroute/internal/gmail"
	"github.com/teemow/inboxroute/internal/logging"
	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

// fakeMail records calls and returns canned responses.
type fakeMail struct {
	messages []*gmailv1.Message
	sent     *gmail.SentMessage
	err      error

	listCalls int
	sendCalls int
	query     string
	max       int64
	outgoing  gmail.OutgoingMessage
}

func (f *fakeMail) ListMessages(_ context.Context, query string, maxResults int64) ([]*gmailv1.Message, error) {
	f.listCalls++
	f.query, f.max = query, maxResults
	return f.messages, f.err
}

func (f *fakeMail) SendMessage(_ context.Context, msg gmail.OutgoingMessage) (*gmail.SentMessage, error) {
	f.sendCalls++
	f.outgoing = msg
	if f.err != nil {
		return nil, f.err
	}
	return f.sent, nil
}

func newDispatcher(t *testing.T, mail server.MailClient, readOnly bool) *registry.Dispatcher {
	t.Helper()
	sc := server.NewServerContext(context.Background())
	t.Cleanup(func() { _ = sc.Shutdown() })
	if mail != nil {
		sc.SetMail(mail)
	}

	reg := registry.New()
	require.NoError(t, Register(reg, sc, readOnly))
	return registry.NewDispatcher(reg, nil)
}

func message(id string, headers map[string]string, snippet string) *gmailv1.Message {
	m := &gmailv1.Message{Id: id, Snippet: snippet, Payload: &gmailv1.MessagePart{}}
	for _, name := range []string{"From", "Subject", "Date"} {
		if v, ok := headers[name]; ok {
			m.Payload.Headers = append(m.Payload.Headers, &gmailv1.MessagePartHeader{Name: name, Value: v})
		}
	}
	return m
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
		want     []string
	}{
		{"read-write", false, []string{ListMessagesTool, SendMessageTool}},
		{"read-only", true, []string{ListMessagesTool}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDispatcher(t, nil, tt.readOnly)

			var names []string
			for _, desc := range d.Registry().List() {
				names = append(names, desc.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestListMessages_NotInitialized(t *testing.T) {
	d := newDispatcher(t, nil, false)

	res := d.Invoke(context.Background(), ListMessagesTool, map[string]any{})

	assert.True(t, res.IsError())
	assert.Equal(t, "Error: Gmail service not initialized", res.String())
}

func TestListMessages(t *testing.T) {
	mail := &fakeMail{messages: []*gmailv1.Message{
		message("m1", map[string]string{"From": "ada@example.com", "Subject": "Lunch", "Date": "Mon, 1 Jan 2024 12:00:00 +0000"}, "Are you free?"),
		message("m2", map[string]string{"From": "bob@example.com"}, ""),
	}}
	d := newDispatcher(t, mail, false)

	res := d.Invoke(context.Background(), ListMessagesTool, map[string]any{"query": "is:unread"})

	require.False(t, res.IsError(), res.String())
	sep := strings.Repeat("-", 50)
	want := "Recent Gmail Messages:\n\n" +
		"From: ada@example.com\nSubject: Lunch\nDate: Mon, 1 Jan 2024 12:00:00 +0000\nSnippet: Are you free?\n" + sep + "\n" +
		"From: bob@example.com\nSubject: No Subject\nDate: \nSnippet: \n" + sep + "\n"
	assert.Equal(t, want, res.String())

	assert.Equal(t, "is:unread", mail.query)
	assert.Equal(t, int64(10), mail.max, "max_results defaults to 10")

	list, ok := res.Structured().(messageList)
	require.True(t, ok)
	assert.Len(t, list.Messages, 2)
	assert.Equal(t, "m1", list.Messages[0].ID)
}

func TestListMessages_Empty(t *testing.T) {
	d := newDispatcher(t, &fakeMail{}, false)

	res := d.Invoke(context.Background(), ListMessagesTool, map[string]any{"max_results": float64(5)})

	assert.Equal(t, "Recent Gmail Messages:\n\n", res.String())
}

func TestListMessages_InvalidMaxResults(t *testing.T) {
	mail := &fakeMail{}
	d := newDispatcher(t, mail, false)

	res := d.Invoke(context.Background(), ListMessagesTool, map[string]any{"max_results": float64(0)})
	assert.Equal(t, "Error: max_results must be at least 1", res.String())

	res = d.Invoke(context.Background(), ListMessagesTool, map[string]any{"max_results": "lots"})
	assert.Equal(t, "Error: argument max_results must be a number", res.String())

	assert.Equal(t, 0, mail.listCalls)
}

func TestListMessages_RemoteError(t *testing.T) {
	d := newDispatcher(t, &fakeMail{err: errors.New("googleapi: Error 401: Invalid Credentials")}, false)

	res := d.Invoke(context.Background(), ListMessagesTool, nil)

	assert.Equal(t, "Error: googleapi: Error 401: Invalid Credentials", res.String())
}

func TestSendMessage(t *testing.T) {
	mail := &fakeMail{sent: &gmail.SentMessage{ID: "18c2f", ThreadID: "18c2f"}}
	d := newDispatcher(t, mail, false)

	res := d.Invoke(context.Background(), SendMessageTool, map[string]any{
		"to":      "ada@example.com",
		"subject": "Hello",
		"body":    "See you at noon.",
	})

	require.False(t, res.IsError(), res.String())
	assert.Equal(t, "Message sent successfully! Message ID: 18c2f", res.String())
	assert.Equal(t, gmail.OutgoingMessage{To: "ada@example.com", Subject: "Hello", Body: "See you at noon."}, mail.outgoing)
	assert.Equal(t, mail.sent, res.Structured())
}

func TestSendMessage_LogsHashedRecipient(t *testing.T) {
	var logs bytes.Buffer
	sc := server.NewServerContext(context.Background(),
		server.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	t.Cleanup(func() { _ = sc.Shutdown() })
	sc.SetMail(&fakeMail{sent: &gmail.SentMessage{ID: "18c2f"}})
	reg := registry.New()
	require.NoError(t, Register(reg, sc, false))

	res := registry.NewDispatcher(reg, nil).Invoke(context.Background(), SendMessageTool, map[string]any{
		"to":      "ada@example.com",
		"subject": "Hello",
		"body":    "hi",
	})

	require.False(t, res.IsError(), res.String())
	assert.Contains(t, logs.String(), "user_hash="+logging.AnonymizeEmail("ada@example.com"))
	assert.Contains(t, logs.String(), "message_id=18c2f")
	assert.NotContains(t, logs.String(), "ada@example.com")
}

func TestSendMessage_MissingArgumentsMakeNoCall(t *testing.T) {
	mail := &fakeMail{sent: &gmail.SentMessage{ID: "x"}}
	d := newDispatcher(t, mail, false)

	res := d.Invoke(context.Background(), SendMessageTool, map[string]any{"to": "ada@example.com", "body": ""})

	assert.Equal(t, "Error: missing required arguments: subject, body", res.String())
	assert.Equal(t, 0, mail.sendCalls)
}

func TestSendMessage_ReadOnly(t *testing.T) {
	d := newDispatcher(t, &fakeMail{}, true)

	res := d.Invoke(context.Background(), SendMessageTool, map[string]any{"to": "a", "subject": "b", "body": "c"})

	assert.Equal(t, "Error: unknown tool: send_message", res.String())
}
