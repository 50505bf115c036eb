package notification

// Channel represents a notification delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// channelOrder is the fixed dispatch order for every notify call.
var channelOrder = []Channel{ChannelEmail, ChannelSMS, ChannelPush}

// validChannels is the set of all recognized channels.
var validChannels = map[Channel]bool{
	ChannelEmail: true,
	ChannelSMS:   true,
	ChannelPush:  true,
}

// IsValidChannel checks whether a channel name is recognized.
func IsValidChannel(ch Channel) bool {
	return validChannels[ch]
}

// Template slot names. These are the rendering targets every template in
// the registry provides; the TemplateRenderer contract is defined in terms
// of them.
const (
	SlotSubject   = "subject"
	SlotEmailBody = "email_body"
	SlotSMSBody   = "sms_body"
	SlotPushTitle = "push_title"
	SlotPushBody  = "push_body"
)

// Variables is a flat mapping from template variable name to a
// display-ready value. Assembled by the caller; the dispatcher only
// substitutes, it never fabricates values.
type Variables map[string]any

// Reserved variable keys derived from the recipient. Caller-supplied
// values for these keys are always overwritten so recipient identity
// cannot be spoofed through template data.
const (
	VarUserName  = "user_name"
	VarUserEmail = "user_email"
)

// Recipient is the addressed target of a notification. It is owned by the
// external member directory and passed in by value; the dispatcher never
// mutates or persists it.
type Recipient struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone,omitempty"`
	DeviceTokens []string         `json:"device_tokens,omitempty"`
	Preferences  map[Channel]bool `json:"preferences,omitempty"`
	Active       bool             `json:"active"`
}

// OptedIn reports the recipient's preference for a channel.
// An absent preference key means opted in.
func (r Recipient) OptedIn(ch Channel) bool {
	if r.Preferences == nil {
		return true
	}
	enabled, ok := r.Preferences[ch]
	if !ok {
		return true
	}
	return enabled
}

// HasAddress reports whether the recipient carries the address data a
// channel needs.
func (r Recipient) HasAddress(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return r.Email != ""
	case ChannelSMS:
		return r.Phone != ""
	case ChannelPush:
		return len(r.DeviceTokens) > 0
	}
	return false
}

// DisplayName returns the name used for the user_name template variable.
func (r Recipient) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return "Member"
}

// Skip reasons recorded on a SendResult when a channel is not attempted.
const (
	ReasonFeatureDisabled = "feature-disabled"
	ReasonOptedOut        = "recipient-opted-out"
	ReasonMissingAddress  = "missing-address"
)

// SendResult is the outcome of one (recipient, channel) delivery attempt.
// Skipped distinguishes channels that were never attempted (feature flag,
// preference, missing address) from attempted-but-failed deliveries.
type SendResult struct {
	Channel Channel `json:"channel"`
	Success bool    `json:"success"`
	Skipped bool    `json:"skipped,omitempty"`
	Reason  string  `json:"reason,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Summary aggregates a campaign run. A recipient counts as success when at
// least one requested channel succeeded, failed when at least one channel
// was attempted and none succeeded, and skipped when no channel applied.
type Summary struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Total returns the number of recipients accounted for.
func (s Summary) Total() int {
	return s.Success + s.Failed + s.Skipped
}

// NotifyRequest is the API payload for a single-recipient dispatch.
type NotifyRequest struct {
	Recipient Recipient `json:"recipient" binding:"required"`
	Template  string    `json:"template" binding:"required"`
	Variables Variables `json:"variables"`
	Channels  []Channel `json:"channels"`
}

// CampaignRequest is the API payload for launching a bulk dispatch.
// Empty RecipientIDs means every active member in the directory.
type CampaignRequest struct {
	Template     string    `json:"template" binding:"required"`
	Variables    Variables `json:"variables"`
	Channels     []Channel `json:"channels"`
	RecipientIDs []string  `json:"recipient_ids"`
}

// CampaignResponse is returned after a campaign is enqueued.
type CampaignResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CampaignReport is the stored outcome of a finished campaign.
type CampaignReport struct {
	ID      string  `json:"id"`
	Status  string  `json:"status"`
	Summary Summary `json:"summary"`
}

// Campaign statuses.
const (
	CampaignStatusDispatched = "dispatched"
	CampaignStatusCompleted  = "completed"
)
