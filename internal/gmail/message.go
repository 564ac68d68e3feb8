package gmail

import (
	"fmt"
	"mime"
	"strings"
)

// OutgoingMessage is a plain-text message to send.
type OutgoingMessage struct {
	To      string
	Subject string
	Body    string
}

// Validate reports the first missing or malformed field. Header values must
// be single lines; a CR or LF would start a new header.
func (m OutgoingMessage) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("at least one recipient is required")
	}
	if strings.ContainsAny(m.To, "\r\n") {
		return fmt.Errorf("recipient must not contain line breaks")
	}
	if strings.ContainsAny(m.Subject, "\r\n") {
		return fmt.Errorf("subject must not contain line breaks")
	}
	return nil
}

// RFC2822 renders the message as an RFC 2822 document with CRLF line endings.
func (m OutgoingMessage) RFC2822() string {
	var b strings.Builder

	b.WriteString("To: ")
	b.WriteString(m.To)
	b.WriteString("\r\n")

	// Non-ASCII subjects (umlauts, emoji) need RFC 2047 encoding.
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(m.Subject))
	b.WriteString("\r\n")

	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Body)

	return b.String()
}

// encodeRFC2047 encodes s for use in a header if it contains non-ASCII characters.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
