package gmail

import (
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// Defaults for headers a message does not carry.
const (
	DefaultSubject = "No Subject"
	DefaultSender  = "Unknown"
)

// MessageSummary is the normalized view of a message used for display.
type MessageSummary struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	Sender   string `json:"sender"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet"`
}

// SentMessage confirms a sent message.
type SentMessage struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
}

// ToMessageSummary normalizes m. Missing Subject and From headers get
// DefaultSubject and DefaultSender; a missing Date or snippet is empty.
func ToMessageSummary(m *gmail.Message) MessageSummary {
	if m == nil {
		return MessageSummary{Sender: DefaultSender, Subject: DefaultSubject}
	}

	s := MessageSummary{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		Sender:   DefaultSender,
		Subject:  DefaultSubject,
		Snippet:  m.Snippet,
	}
	if v, ok := lookupHeader(m, "From"); ok {
		s.Sender = v
	}
	if v, ok := lookupHeader(m, "Subject"); ok {
		s.Subject = v
	}
	s.Date, _ = lookupHeader(m, "Date")

	return s
}

// ToMessageSummaries normalizes msgs, preserving order.
func ToMessageSummaries(msgs []*gmail.Message) []MessageSummary {
	out := make([]MessageSummary, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ToMessageSummary(m))
	}
	return out
}

func lookupHeader(m *gmail.Message, header string) (string, bool) {
	if m == nil || m.Payload == nil {
		return "", false
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value, true
		}
	}
	return "", false
}
