package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Worker processes campaign dispatch tasks from the queue. It resolves the
// recipient list from the directory, runs the campaign runner, and stores
// the aggregate report.
type Worker struct {
	directory RecipientDirectory
	runner    *CampaignRunner
	reports   ReportStore
}

// NewWorker creates a new campaign worker.
func NewWorker(directory RecipientDirectory, runner *CampaignRunner, reports ReportStore) *Worker {
	return &Worker{
		directory: directory,
		runner:    runner,
		reports:   reports,
	}
}

// ProcessCampaign handles one campaign dispatch task.
func (w *Worker) ProcessCampaign(ctx context.Context, payload *CampaignPayload) error {
	start := time.Now()

	recipients, err := w.resolveRecipients(ctx, payload.RecipientIDs)
	if err != nil {
		return fmt.Errorf("resolving recipients for campaign %s: %w", payload.CampaignID, err)
	}

	summary, runErr := w.runner.NotifyMany(ctx, recipients, payload.Template, payload.Variables, payload.Channels)

	report := &CampaignReport{
		ID:      payload.CampaignID,
		Status:  CampaignStatusCompleted,
		Summary: summary,
	}
	if err := w.reports.Save(ctx, report); err != nil {
		slog.Error("failed to save campaign report",
			"campaign_id", payload.CampaignID,
			"error", err,
		)
	}

	if runErr != nil {
		return fmt.Errorf("campaign %s interrupted: %w", payload.CampaignID, runErr)
	}

	slog.Info("campaign completed",
		"campaign_id", payload.CampaignID,
		"template", payload.Template,
		"success", summary.Success,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"duration", time.Since(start),
	)

	return nil
}

// resolveRecipients loads the campaign audience: the named members when
// IDs were given, otherwise every active member.
func (w *Worker) resolveRecipients(ctx context.Context, ids []string) ([]Recipient, error) {
	if len(ids) > 0 {
		return w.directory.GetByIDs(ctx, ids)
	}
	return w.directory.ListActive(ctx)
}
