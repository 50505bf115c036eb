package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"herald/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRenderer serves a fixed template set without touching the real
// registry.
type stubRenderer struct {
	known map[string]bool
}

func newStubRenderer(names ...string) *stubRenderer {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	return &stubRenderer{known: known}
}

func (r *stubRenderer) Has(name string) bool { return r.known[name] }

func (r *stubRenderer) Render(name, slot string, vars Variables) (string, error) {
	if !r.known[name] {
		return "", common.NewTemplateNotFoundError(name)
	}
	return "rendered:" + name + ":" + slot, nil
}

// spyEmail records calls and returns a scripted error.
type spyEmail struct {
	calls   int
	lastTo  string
	lastVar Variables
	err     error
}

func (s *spyEmail) SendTemplate(ctx context.Context, to, templateName string, vars Variables) error {
	s.calls++
	s.lastTo = to
	s.lastVar = vars
	return s.err
}

func (s *spyEmail) Enabled() bool { return true }

type spySMS struct {
	calls int
	err   error
}

func (s *spySMS) SendTemplate(ctx context.Context, toPhone, templateName string, vars Variables) error {
	s.calls++
	return s.err
}

func (s *spySMS) Enabled() bool { return true }

type spyPush struct {
	calls      int
	lastTokens []string
	err        error
}

func (s *spyPush) SendTemplate(ctx context.Context, tokens []string, templateName string, vars Variables) error {
	s.calls++
	s.lastTokens = tokens
	return s.err
}

func (s *spyPush) Enabled() bool { return true }

type managerFixture struct {
	manager *Manager
	email   *spyEmail
	sms     *spySMS
	push    *spyPush
}

func newFixture(features Features) *managerFixture {
	f := &managerFixture{
		email: &spyEmail{},
		sms:   &spySMS{},
		push:  &spyPush{},
	}
	f.manager = NewManager(newStubRenderer("event_created"), f.email, f.sms, f.push, features, time.Second)
	return f
}

func allFeatures() Features {
	return Features{Email: true, SMS: true, Push: true}
}

func testRecipient() Recipient {
	return Recipient{
		ID:           "m-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		Phone:        "+15550001111",
		DeviceTokens: []string{"tok-1"},
		Active:       true,
	}
}

func TestNotifyDefaultsToEmail(t *testing.T) {
	f := newFixture(allFeatures())

	results, err := f.manager.Notify(context.Background(), testRecipient(), "event_created", nil, nil)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.True(t, results[ChannelEmail].Success)
	assert.Equal(t, 1, f.email.calls)
	assert.Zero(t, f.sms.calls)
	assert.Zero(t, f.push.calls)
}

func TestNotifyResultPerRequestedChannel(t *testing.T) {
	f := newFixture(allFeatures())

	channels := []Channel{ChannelEmail, ChannelSMS, ChannelPush}
	results, err := f.manager.Notify(context.Background(), testRecipient(), "event_created", nil, channels)
	require.NoError(t, err)

	require.Len(t, results, len(channels))
	for _, ch := range channels {
		res, ok := results[ch]
		require.True(t, ok, "missing result for channel %s", ch)
		assert.Equal(t, ch, res.Channel)
		assert.True(t, res.Success)
	}
}

func TestNotifyFeatureDisabled(t *testing.T) {
	f := newFixture(Features{Email: true, SMS: false, Push: true})

	results, err := f.manager.Notify(context.Background(), testRecipient(), "event_created", nil,
		[]Channel{ChannelEmail, ChannelSMS})
	require.NoError(t, err)

	sms := results[ChannelSMS]
	assert.False(t, sms.Success)
	assert.True(t, sms.Skipped)
	assert.Equal(t, ReasonFeatureDisabled, sms.Reason)
	assert.Zero(t, f.sms.calls, "disabled channel must not reach the provider")
	assert.True(t, results[ChannelEmail].Success)
}

func TestNotifyRecipientOptedOut(t *testing.T) {
	f := newFixture(allFeatures())

	rcpt := testRecipient()
	rcpt.Preferences = map[Channel]bool{ChannelSMS: false}

	results, err := f.manager.Notify(context.Background(), rcpt, "event_created", nil,
		[]Channel{ChannelEmail, ChannelSMS})
	require.NoError(t, err)

	sms := results[ChannelSMS]
	assert.False(t, sms.Success)
	assert.Equal(t, ReasonOptedOut, sms.Reason)
	assert.Zero(t, f.sms.calls, "opted-out channel must not reach the provider")
	assert.Equal(t, 1, f.email.calls)
}

func TestNotifyAbsentPreferenceMeansOptedIn(t *testing.T) {
	f := newFixture(allFeatures())

	rcpt := testRecipient()
	rcpt.Preferences = map[Channel]bool{ChannelEmail: true} // sms/push keys absent

	results, err := f.manager.Notify(context.Background(), rcpt, "event_created", nil,
		[]Channel{ChannelSMS, ChannelPush})
	require.NoError(t, err)

	assert.True(t, results[ChannelSMS].Success)
	assert.True(t, results[ChannelPush].Success)
}

func TestNotifyMissingAddress(t *testing.T) {
	f := newFixture(allFeatures())

	rcpt := testRecipient()
	rcpt.Phone = ""
	rcpt.DeviceTokens = nil

	results, err := f.manager.Notify(context.Background(), rcpt, "event_created", nil,
		[]Channel{ChannelSMS, ChannelPush})
	require.NoError(t, err)

	assert.Equal(t, ReasonMissingAddress, results[ChannelSMS].Reason)
	assert.Equal(t, ReasonMissingAddress, results[ChannelPush].Reason)
	assert.Zero(t, f.sms.calls)
	assert.Zero(t, f.push.calls)
}

func TestNotifyMissingEmailAddress(t *testing.T) {
	f := newFixture(allFeatures())

	rcpt := testRecipient()
	rcpt.Email = ""

	results, err := f.manager.Notify(context.Background(), rcpt, "event_created", nil, []Channel{ChannelEmail})
	require.NoError(t, err)

	assert.Equal(t, ReasonMissingAddress, results[ChannelEmail].Reason)
	assert.Zero(t, f.email.calls)
}

func TestNotifyProviderFailureIsRecordedNotRaised(t *testing.T) {
	f := newFixture(allFeatures())
	f.sms.err = errors.New("twilio: auth rejected")

	results, err := f.manager.Notify(context.Background(), testRecipient(), "event_created", nil,
		[]Channel{ChannelEmail, ChannelSMS})
	require.NoError(t, err, "transport failures must not escape Notify")

	sms := results[ChannelSMS]
	assert.False(t, sms.Success)
	assert.False(t, sms.Skipped)
	assert.Contains(t, sms.Error, "auth rejected")
	assert.True(t, results[ChannelEmail].Success)
}

func TestNotifyUnknownTemplateFailsFast(t *testing.T) {
	f := newFixture(allFeatures())

	_, err := f.manager.Notify(context.Background(), testRecipient(), "nope", nil, []Channel{ChannelEmail})
	var notFound *common.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Zero(t, f.email.calls)
}

func TestNotifyUnknownChannelFailsFast(t *testing.T) {
	f := newFixture(allFeatures())

	_, err := f.manager.Notify(context.Background(), testRecipient(), "event_created", nil,
		[]Channel{"carrier-pigeon"})
	var validation *common.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestNotifyReservedVariablesNotSpoofable(t *testing.T) {
	f := newFixture(allFeatures())

	vars := Variables{
		"user_name":   "Impostor",
		"user_email":  "attacker@example.com",
		"event_title": "Alumni Night",
	}

	_, err := f.manager.Notify(context.Background(), testRecipient(), "event_created", vars, []Channel{ChannelEmail})
	require.NoError(t, err)

	require.NotNil(t, f.email.lastVar)
	assert.Equal(t, "Ada", f.email.lastVar[VarUserName])
	assert.Equal(t, "ada@example.com", f.email.lastVar[VarUserEmail])
	assert.Equal(t, "Alumni Night", f.email.lastVar["event_title"], "non-reserved caller keys pass through")

	// The caller's map itself is never mutated.
	assert.Equal(t, "Impostor", vars["user_name"])
}

func TestNotifyIsIdempotent(t *testing.T) {
	f := newFixture(allFeatures())
	rcpt := testRecipient()
	channels := []Channel{ChannelEmail, ChannelSMS, ChannelPush}

	first, err := f.manager.Notify(context.Background(), rcpt, "event_created", Variables{"k": "v"}, channels)
	require.NoError(t, err)
	second, err := f.manager.Notify(context.Background(), rcpt, "event_created", Variables{"k": "v"}, channels)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical calls must yield structurally identical results")
}

func TestRecipientDisplayNameFallback(t *testing.T) {
	rcpt := Recipient{ID: "m-2", Email: "x@example.com"}
	assert.Equal(t, "Member", rcpt.DisplayName())
}
