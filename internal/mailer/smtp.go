package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/frahmantamala/hr-management/internal"
)

// SMTPMailer sends through an SMTP relay using go-mail. Each Send dials a
// fresh connection; volume here is a handful of transactional messages per
// request at most.
type SMTPMailer struct {
	cfg  internal.MailConfig
	opts []mail.Option
}

func NewSMTPMailer(cfg internal.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg: cfg,
		opts: []mail.Option{
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithSSL(),
			mail.WithPort(cfg.Port),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
			mail.WithTimeout(cfg.DialTimeout),
		},
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	message := mail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return fmt.Errorf("mailer: invalid from address: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("mailer: invalid recipient address: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	message.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)

	client, err := mail.NewClient(m.cfg.Host, m.opts...)
	if err != nil {
		return fmt.Errorf("mailer: create client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", msg.To, err)
	}
	return nil
}
