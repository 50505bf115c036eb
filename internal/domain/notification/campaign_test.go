package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"herald/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkRecipients(n int) []Recipient {
	recipients := make([]Recipient, 0, n)
	for i := 0; i < n; i++ {
		recipients = append(recipients, Recipient{
			ID:     fmt.Sprintf("m-%d", i),
			Name:   fmt.Sprintf("Member %d", i),
			Email:  fmt.Sprintf("member%d@example.com", i),
			Active: true,
		})
	}
	return recipients
}

func TestNotifyManyCountsMissingAddressesAsSkipped(t *testing.T) {
	f := newFixture(allFeatures())
	runner := NewCampaignRunner(f.manager, 1)

	recipients := bulkRecipients(5)
	recipients[1].Email = ""
	recipients[3].Email = ""

	summary, err := runner.NotifyMany(context.Background(), recipients, "event_created", nil, []Channel{ChannelEmail})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Success)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, len(recipients), summary.Total())
	assert.Equal(t, 3, f.email.calls)
}

func TestNotifyManyCountsProviderFailures(t *testing.T) {
	f := newFixture(allFeatures())
	f.email.err = errors.New("smtp: connection refused")
	runner := NewCampaignRunner(f.manager, 1)

	summary, err := runner.NotifyMany(context.Background(), bulkRecipients(4), "event_created", nil, nil)
	require.NoError(t, err, "per-recipient failures are tallied, not propagated")

	assert.Equal(t, 0, summary.Success)
	assert.Equal(t, 4, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)
}

func TestNotifyManySkipsInactiveRecipients(t *testing.T) {
	f := newFixture(allFeatures())
	runner := NewCampaignRunner(f.manager, 1)

	recipients := bulkRecipients(3)
	recipients[0].Active = false

	summary, err := runner.NotifyMany(context.Background(), recipients, "event_created", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Success)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, f.email.calls, "inactive recipients never reach a provider")
}

func TestNotifyManyAnyChannelSuccessCountsRecipientAsSuccess(t *testing.T) {
	f := newFixture(allFeatures())
	f.email.err = errors.New("mailbox full")
	runner := NewCampaignRunner(f.manager, 1)

	recipients := bulkRecipients(1)
	recipients[0].Phone = "+15550002222"

	summary, err := runner.NotifyMany(context.Background(), recipients, "event_created", nil,
		[]Channel{ChannelEmail, ChannelSMS})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Success, "sms delivery rescues the recipient despite the email failure")
	assert.Equal(t, 0, summary.Failed)
}

func TestNotifyManyAllChannelsSkippedCountsRecipientAsSkipped(t *testing.T) {
	f := newFixture(Features{Email: true, SMS: false, Push: false})
	runner := NewCampaignRunner(f.manager, 1)

	// SMS requested but the feature is off, so nothing applies.
	summary, err := runner.NotifyMany(context.Background(), bulkRecipients(2), "event_created", nil,
		[]Channel{ChannelSMS})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Success)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Skipped)
}

func TestNotifyManyValidatesTemplateUpFront(t *testing.T) {
	f := newFixture(allFeatures())
	runner := NewCampaignRunner(f.manager, 1)

	summary, err := runner.NotifyMany(context.Background(), bulkRecipients(3), "no_such_template", nil, nil)
	var notFound *common.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 0, summary.Total(), "nothing is counted when validation fails")
	assert.Zero(t, f.email.calls)
}

func TestNotifyManyEmptyRecipientList(t *testing.T) {
	f := newFixture(allFeatures())
	runner := NewCampaignRunner(f.manager, 1)

	summary, err := runner.NotifyMany(context.Background(), nil, "event_created", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestNotifyManyConcurrentTotalsAreDeterministic(t *testing.T) {
	f := newFixture(allFeatures())
	runner := NewCampaignRunner(f.manager, 8)

	recipients := bulkRecipients(40)
	for i := range recipients {
		if i%4 == 0 {
			recipients[i].Email = ""
		}
	}

	summary, err := runner.NotifyMany(context.Background(), recipients, "event_created", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 30, summary.Success)
	assert.Equal(t, 10, summary.Skipped)
	assert.Equal(t, 40, summary.Total())
}

func TestNotifyManyCancelledContextReturnsPartialSummary(t *testing.T) {
	f := newFixture(allFeatures())
	runner := NewCampaignRunner(f.manager, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := runner.NotifyMany(ctx, bulkRecipients(10), "event_created", nil, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Total(), "no recipient is started after cancellation")
}

func TestNewCampaignRunnerClampsConcurrency(t *testing.T) {
	f := newFixture(allFeatures())
	runner := NewCampaignRunner(f.manager, 0)

	summary, err := runner.NotifyMany(context.Background(), bulkRecipients(2), "event_created", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Success)
}

func TestNotifyManySequentialPreservesOrder(t *testing.T) {
	order := &orderedEmail{}
	manager := NewManager(newStubRenderer("event_created"), order, &spySMS{}, &spyPush{}, allFeatures(), time.Second)
	runner := NewCampaignRunner(manager, 1)

	recipients := bulkRecipients(5)
	_, err := runner.NotifyMany(context.Background(), recipients, "event_created", nil, nil)
	require.NoError(t, err)

	want := make([]string, 0, len(recipients))
	for _, r := range recipients {
		want = append(want, r.Email)
	}
	assert.Equal(t, want, order.seen)
}

type orderedEmail struct {
	seen []string
}

func (o *orderedEmail) SendTemplate(ctx context.Context, to, templateName string, vars Variables) error {
	o.seen = append(o.seen, to)
	return nil
}

func (o *orderedEmail) Enabled() bool { return true }
