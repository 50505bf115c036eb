package notification

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CampaignRunner fans one logical event out to many recipients. Each
// recipient is processed independently; no recipient's failure blocks the
// others, and all failures are counted rather than propagated.
type CampaignRunner struct {
	manager     *Manager
	concurrency int
}

// NewCampaignRunner creates a campaign runner. Concurrency bounds the
// worker pool; 1 gives strictly sequential in-order processing.
func NewCampaignRunner(manager *Manager, concurrency int) *CampaignRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &CampaignRunner{manager: manager, concurrency: concurrency}
}

// NotifyMany dispatches the template to every recipient and tallies the
// outcomes. Recipients are scheduled in the order given; totals are
// deterministic regardless of concurrency.
//
// The template name and channel list are validated once up front — an
// unknown template is a programmer error and fails the whole call rather
// than counting every recipient as failed. Cancellation is cooperative at
// the per-recipient boundary: recipients not yet started when ctx is done
// are left uncounted and ctx.Err is returned alongside the partial summary.
func (r *CampaignRunner) NotifyMany(ctx context.Context, recipients []Recipient, templateName string, vars Variables, channels []Channel) (Summary, error) {
	if len(channels) == 0 {
		channels = []Channel{ChannelEmail}
	}
	if err := r.manager.Validate(templateName, channels); err != nil {
		return Summary{}, err
	}

	var (
		mu      sync.Mutex
		summary Summary
	)

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for _, rcpt := range recipients {
		if ctx.Err() != nil {
			break
		}

		rcpt := rcpt
		g.Go(func() error {
			outcome := r.processOne(ctx, rcpt, templateName, vars, channels)
			mu.Lock()
			switch outcome {
			case outcomeSuccess:
				summary.Success++
			case outcomeFailed:
				summary.Failed++
			case outcomeSkipped:
				summary.Skipped++
			}
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		slog.Warn("campaign interrupted",
			"template", templateName,
			"processed", summary.Total(),
			"total", len(recipients),
		)
		return summary, err
	}

	return summary, nil
}

type recipientOutcome int

const (
	outcomeSuccess recipientOutcome = iota
	outcomeFailed
	outcomeSkipped
)

// processOne runs one recipient through the manager and classifies the
// result map. A recipient succeeds when any requested channel succeeded,
// fails when at least one channel was attempted and none succeeded, and is
// skipped when no channel applied at all. Inactive recipients are skipped
// without dispatch.
func (r *CampaignRunner) processOne(ctx context.Context, rcpt Recipient, templateName string, vars Variables, channels []Channel) recipientOutcome {
	if !rcpt.Active {
		return outcomeSkipped
	}

	results, err := r.manager.Notify(ctx, rcpt, templateName, vars, channels)
	if err != nil {
		// Validate ran up front, so this is a malformed recipient record or
		// similar; count it and keep going.
		slog.Error("campaign recipient failed",
			"recipient", rcpt.ID,
			"template", templateName,
			"error", err,
		)
		return outcomeFailed
	}

	attempted := false
	for _, res := range results {
		if res.Success {
			return outcomeSuccess
		}
		if !res.Skipped {
			attempted = true
		}
	}
	if attempted {
		return outcomeFailed
	}
	return outcomeSkipped
}
