package notification

import "context"

// EmailProvider delivers rendered email. Implementations live in
// infra/email and pick their transport strategy once at construction.
type EmailProvider interface {
	// SendTemplate renders the subject and body slots for the template and
	// delivers them to the given address.
	SendTemplate(ctx context.Context, to, templateName string, vars Variables) error

	// Enabled reports whether a transport was configured at construction.
	Enabled() bool
}

// SMSProvider delivers rendered SMS. Implementations live in infra/sms.
type SMSProvider interface {
	SendTemplate(ctx context.Context, toPhone, templateName string, vars Variables) error
	Enabled() bool
}

// PushProvider delivers rendered push notifications to one or more device
// tokens per call. Implementations live in infra/push.
type PushProvider interface {
	SendTemplate(ctx context.Context, deviceTokens []string, templateName string, vars Variables) error
	Enabled() bool
}

// TemplateRenderer maps (template, slot) pairs to rendered strings.
// The implementation lives in infra/template.
//
// Rendering is pure and deterministic. Variables referenced by a template
// but absent from vars render as empty string; an unknown template name or
// slot is an error. This asymmetry is deliberate: a missing variable is a
// forward-compatible data condition, a missing template is a code/deploy
// mismatch.
type TemplateRenderer interface {
	Render(templateName, slot string, vars Variables) (string, error)

	// Has reports whether a template name is registered.
	Has(templateName string) bool
}
