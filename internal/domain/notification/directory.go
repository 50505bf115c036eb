package notification

import "context"

// RecipientDirectory is the external member directory. The dispatcher
// reads Recipient records from it and nothing else; it never writes.
// Implementations live in infra/store/.
type RecipientDirectory interface {
	// ListActive retrieves every active member.
	ListActive(ctx context.Context) ([]Recipient, error)

	// GetByIDs retrieves the members with the given IDs. Unknown IDs are
	// silently absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]Recipient, error)
}

// ReportStore persists campaign summaries so callers can read back
// aggregate counts. Implementations live in infra/report/.
type ReportStore interface {
	// Save stores the report for a campaign.
	Save(ctx context.Context, report *CampaignReport) error

	// Get retrieves a campaign report. Returns nil, nil when no report
	// exists for the ID.
	Get(ctx context.Context, campaignID string) (*CampaignReport, error)
}

// Enqueuer hands a campaign off for asynchronous processing.
// This decouples the service from the specific queue implementation.
type Enqueuer interface {
	EnqueueCampaign(payload *CampaignPayload) error
}
