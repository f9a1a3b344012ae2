// Package email defines the narrow outbound-mail interface the identity
// service depends on. Real transport lives outside this repository; the
// default sender just logs, which is enough for development and tests.
package email

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// Message is a plain-text outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. Implementations must not block on retries.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender records outbound mail in the application log instead of
// delivering it.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.Logger.InfoContext(ctx, "outbound email",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}

// DeriveNameFromEmail extracts a display name from an address local part.
func DeriveNameFromEmail(email string) string {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "User"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
