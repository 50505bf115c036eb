package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"herald/internal/common"
)

// Features holds the per-channel feature flags fixed at construction.
type Features struct {
	Email bool
	SMS   bool
	Push  bool
}

// Manager decides which channels to attempt for one recipient and one
// logical event, dispatches to the channel providers, and aggregates the
// per-channel results.
//
// Notify never returns an error for provider-level failures; those become
// SendResult entries. It returns an error only for programmer errors: an
// unknown template name or a malformed channel list.
type Manager struct {
	renderer    TemplateRenderer
	email       EmailProvider
	sms         SMSProvider
	push        PushProvider
	features    Features
	sendTimeout time.Duration
}

// NewManager creates a notification manager. sendTimeout bounds each
// outbound provider call; zero disables the bound.
func NewManager(renderer TemplateRenderer, email EmailProvider, sms SMSProvider, push PushProvider, features Features, sendTimeout time.Duration) *Manager {
	return &Manager{
		renderer:    renderer,
		email:       email,
		sms:         sms,
		push:        push,
		features:    features,
		sendTimeout: sendTimeout,
	}
}

// Validate checks the template name and channel list without dispatching.
// Both the single and bulk paths fail fast on these before touching any
// provider.
func (m *Manager) Validate(templateName string, channels []Channel) error {
	if !m.renderer.Has(templateName) {
		return common.NewTemplateNotFoundError(templateName)
	}
	for _, ch := range channels {
		if !IsValidChannel(ch) {
			return common.NewValidationError(fmt.Sprintf("unsupported channel: %s", ch))
		}
	}
	return nil
}

// Notify dispatches one notification to one recipient over the requested
// channels and returns one SendResult per requested channel. An empty
// channel list defaults to email only.
//
// Channels are attempted in the fixed order email, sms, push. A channel is
// attempted only when its feature flag is on, the recipient has not opted
// out, and the recipient carries the address data the channel needs;
// otherwise the result records a skip reason.
func (m *Manager) Notify(ctx context.Context, rcpt Recipient, templateName string, vars Variables, channels []Channel) (map[Channel]SendResult, error) {
	if len(channels) == 0 {
		channels = []Channel{ChannelEmail}
	}
	if err := m.Validate(templateName, channels); err != nil {
		return nil, err
	}

	merged := m.mergeVariables(rcpt, vars)
	requested := make(map[Channel]bool, len(channels))
	for _, ch := range channels {
		requested[ch] = true
	}

	results := make(map[Channel]SendResult, len(channels))
	for _, ch := range channelOrder {
		if !requested[ch] {
			continue
		}

		switch {
		case !m.featureEnabled(ch):
			results[ch] = SendResult{Channel: ch, Skipped: true, Reason: ReasonFeatureDisabled}
		case !rcpt.OptedIn(ch):
			results[ch] = SendResult{Channel: ch, Skipped: true, Reason: ReasonOptedOut}
		case !rcpt.HasAddress(ch):
			results[ch] = SendResult{Channel: ch, Skipped: true, Reason: ReasonMissingAddress}
		default:
			results[ch] = m.attempt(ctx, ch, rcpt, templateName, merged)
		}
	}

	return results, nil
}

// attempt invokes one channel provider and folds any transport error into
// the result.
func (m *Manager) attempt(ctx context.Context, ch Channel, rcpt Recipient, templateName string, vars Variables) SendResult {
	if m.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.sendTimeout)
		defer cancel()
	}

	var err error
	switch ch {
	case ChannelEmail:
		err = m.email.SendTemplate(ctx, rcpt.Email, templateName, vars)
	case ChannelSMS:
		err = m.sms.SendTemplate(ctx, rcpt.Phone, templateName, vars)
	case ChannelPush:
		err = m.push.SendTemplate(ctx, rcpt.DeviceTokens, templateName, vars)
	}

	if err != nil {
		slog.Error("notification delivery failed",
			"channel", ch,
			"template", templateName,
			"recipient", rcpt.ID,
			"error", err,
		)
		return SendResult{Channel: ch, Success: false, Error: err.Error()}
	}

	return SendResult{Channel: ch, Success: true}
}

// mergeVariables combines caller-supplied variables with recipient-derived
// common variables. Caller keys win on conflict except for the reserved
// identity keys, which always come from the recipient record.
func (m *Manager) mergeVariables(rcpt Recipient, vars Variables) Variables {
	merged := make(Variables, len(vars)+2)
	for k, v := range vars {
		merged[k] = v
	}
	merged[VarUserName] = rcpt.DisplayName()
	merged[VarUserEmail] = rcpt.Email
	return merged
}

func (m *Manager) featureEnabled(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return m.features.Email
	case ChannelSMS:
		return m.features.SMS
	case ChannelPush:
		return m.features.Push
	}
	return false
}
