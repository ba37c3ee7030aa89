package mailer

import (
	"context"
	"log/slog"
)

// Message is one outbound email. Both bodies are always populated so the
// receiving client can pick its preferred part.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers a message synchronously. A non-nil error means the message
// was not accepted by the provider and the caller must run its compensating
// action (e.g. deleting the invitation row that triggered the send).
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes mail to the log instead of dialing SMTP. Used in
// development and tests.
type LogMailer struct {
	Logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{Logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.Logger.Info("mail (log sender)",
		"to", msg.To,
		"subject", msg.Subject,
		"text_body", msg.TextBody)
	return nil
}
