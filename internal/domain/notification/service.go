package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"herald/internal/common"
)

// Service owns the campaign surface: validate a request, assign an ID,
// enqueue the dispatch task, and read reports back for callers.
type Service struct {
	manager  *Manager
	enqueuer Enqueuer
	reports  ReportStore
}

// NewService creates a new campaign service.
func NewService(manager *Manager, enqueuer Enqueuer, reports ReportStore) *Service {
	return &Service{
		manager:  manager,
		enqueuer: enqueuer,
		reports:  reports,
	}
}

// Launch validates a campaign request and enqueues it for asynchronous
// fan-out. The task is fire-and-forget: it is enqueued without retries and
// the aggregate counts are the only delivery signal.
func (s *Service) Launch(ctx context.Context, req *CampaignRequest) (*CampaignResponse, error) {
	channels := req.Channels
	if len(channels) == 0 {
		channels = []Channel{ChannelEmail}
	}
	if err := s.manager.Validate(req.Template, channels); err != nil {
		return nil, err
	}

	payload := &CampaignPayload{
		CampaignID:   uuid.New().String(),
		Template:     req.Template,
		Variables:    req.Variables,
		Channels:     channels,
		RecipientIDs: req.RecipientIDs,
	}

	if err := s.enqueuer.EnqueueCampaign(payload); err != nil {
		return nil, fmt.Errorf("enqueuing campaign: %w", err)
	}

	slog.Info("campaign enqueued",
		"campaign_id", payload.CampaignID,
		"template", payload.Template,
		"channels", payload.Channels,
		"recipients", len(payload.RecipientIDs),
	)

	return &CampaignResponse{
		ID:     payload.CampaignID,
		Status: CampaignStatusDispatched,
	}, nil
}

// GetReport retrieves the stored report for a campaign.
func (s *Service) GetReport(ctx context.Context, campaignID string) (*CampaignReport, error) {
	report, err := s.reports.Get(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("fetching campaign report: %w", err)
	}
	if report == nil {
		return nil, common.NewNotFoundError("campaign", campaignID)
	}
	return report, nil
}
