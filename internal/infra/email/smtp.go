package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// smtpSender abstracts the go-mail client so tests can substitute a fake
// transport.
type smtpSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// smtpMailer delivers email over direct SMTP. Connections are cheap and
// created per call rather than pooled.
type smtpMailer struct {
	fromAddress string
	fromName    string
	newSender   func() (smtpSender, error)
}

func newSMTPMailer(cfg Config) *smtpMailer {
	return &smtpMailer{
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		newSender: func() (smtpSender, error) {
			return mail.NewClient(cfg.SMTPHost,
				mail.WithPort(cfg.SMTPPort),
				mail.WithSMTPAuth(mail.SMTPAuthPlain),
				mail.WithUsername(cfg.SMTPUsername),
				mail.WithPassword(cfg.SMTPPassword),
				mail.WithTLSPolicy(mail.TLSOpportunistic),
			)
		},
	}
}

// send builds and delivers one message over SMTP.
func (m *smtpMailer) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	msg := mail.NewMsg()

	if m.fromName != "" {
		if err := msg.FromFormat(m.fromName, m.fromAddress); err != nil {
			return fmt.Errorf("invalid from address: %w", err)
		}
	} else {
		if err := msg.From(m.fromAddress); err != nil {
			return fmt.Errorf("invalid from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	if textBody != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, textBody)
	}

	sender, err := m.newSender()
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending via smtp: %w", err)
	}

	return nil
}
