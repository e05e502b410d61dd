// Package mail sends notification email over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	mailerport "github.com/family-archive/family-tree-api/internal/ports/out/mailer"
	"github.com/family-archive/family-tree-api/internal/platform/config"
)

// SMTPMailer delivers messages through a configured SMTP relay.
// Port 465 uses implicit TLS; other ports use STARTTLS when enabled.
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg mailerport.Message) error {
	if !m.cfg.Configured() {
		return fmt.Errorf("mail server not configured")
	}
	if len(msg.Recipients) == 0 {
		return nil
	}

	opts := []gomail.Option{gomail.WithPort(m.cfg.Port)}
	switch {
	case m.cfg.Port == 465:
		opts = append(opts, gomail.WithSSL())
	case m.cfg.UseTLS:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.Server, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	out := gomail.NewMsg()
	if err := out.From(m.cfg.Sender); err != nil {
		return fmt.Errorf("sender address: %w", err)
	}
	if err := out.To(msg.Recipients...); err != nil {
		return fmt.Errorf("recipient addresses: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextPlain, msg.Body)

	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
