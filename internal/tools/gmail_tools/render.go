package gmail_tools

import (
	"fmt"
	"strings"

	"github.com/teemow/inboxroute/internal/gmail"
)

var messageSeparator = strings.Repeat("-", 50)

// RenderMessages formats summaries as the list_messages text.
func RenderMessages(summaries []gmail.MessageSummary) string {
	var b strings.Builder
	b.WriteString("Recent Gmail Messages:\n\n")
	for _, m := range summaries {
		fmt.Fprintf(&b, "From: %s\n", m.Sender)
		fmt.Fprintf(&b, "Subject: %s\n", m.Subject)
		fmt.Fprintf(&b, "Date: %s\n", m.Date)
		fmt.Fprintf(&b, "Snippet: %s\n", m.Snippet)
		b.WriteString(messageSeparator)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderSent formats the send_message confirmation.
func RenderSent(sent *gmail.SentMessage) string {
	return fmt.Sprintf("Message sent successfully! Message ID: %s", sent.ID)
}
