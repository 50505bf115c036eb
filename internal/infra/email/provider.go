package email

import (
	"context"
	"log/slog"

	"herald/internal/common"
	"herald/internal/domain/notification"
)

var _ notification.EmailProvider = (*Provider)(nil)

// mode is the transport strategy, fixed for the provider's lifetime.
type mode int

const (
	modeDisabled mode = iota
	modeAPI
	modeSMTP
)

// Config holds the email transport settings.
type Config struct {
	APIKey       string
	FromAddress  string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// Provider sends email through one of two strategies selected once at
// construction: the Resend transactional API when an API key is present,
// otherwise direct SMTP when a host is configured. A call never retries
// across strategies.
type Provider struct {
	mode     mode
	api      *resendClient
	smtp     *smtpMailer
	renderer notification.TemplateRenderer
}

// New creates an email provider, choosing the transport from configuration
// presence.
func New(cfg Config, renderer notification.TemplateRenderer) *Provider {
	p := &Provider{renderer: renderer}

	switch {
	case cfg.APIKey != "":
		p.mode = modeAPI
		p.api = newResendClient(cfg.APIKey, cfg.FromAddress, cfg.FromName)
	case cfg.SMTPHost != "":
		p.mode = modeSMTP
		p.smtp = newSMTPMailer(cfg)
		slog.Warn("email API key not set, using SMTP transport", "host", cfg.SMTPHost)
	default:
		p.mode = modeDisabled
		slog.Warn("email transport not configured, email provider disabled")
	}

	return p
}

// Enabled reports whether a transport was configured at construction.
func (p *Provider) Enabled() bool {
	return p.mode != modeDisabled
}

// Send delivers one email. textBody is an optional plain-text alternative.
func (p *Provider) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	switch p.mode {
	case modeAPI:
		return p.api.send(ctx, to, subject, htmlBody, textBody)
	case modeSMTP:
		return p.smtp.send(ctx, to, subject, htmlBody, textBody)
	default:
		return common.NewProviderError("email", "transport not configured")
	}
}

// SendTemplate renders the subject, HTML body, and plain-text fallback for
// the template and delivers them. The sms_body slot doubles as the
// plain-text alternative.
func (p *Provider) SendTemplate(ctx context.Context, to, templateName string, vars notification.Variables) error {
	subject, err := p.renderer.Render(templateName, notification.SlotSubject, vars)
	if err != nil {
		return err
	}
	htmlBody, err := p.renderer.Render(templateName, notification.SlotEmailBody, vars)
	if err != nil {
		return err
	}
	textBody, err := p.renderer.Render(templateName, notification.SlotSMSBody, vars)
	if err != nil {
		return err
	}

	return p.Send(ctx, to, subject, htmlBody, textBody)
}
