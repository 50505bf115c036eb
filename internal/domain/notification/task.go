package notification

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskTypeDispatchCampaign is the asynq task type for running a campaign.
const TaskTypeDispatchCampaign = "campaign:dispatch"

// CampaignPayload is the serialized payload for a campaign dispatch task.
// Empty RecipientIDs means every active member in the directory.
type CampaignPayload struct {
	CampaignID   string    `json:"campaign_id"`
	Template     string    `json:"template"`
	Variables    Variables `json:"variables,omitempty"`
	Channels     []Channel `json:"channels,omitempty"`
	RecipientIDs []string  `json:"recipient_ids,omitempty"`
}

// NewDispatchCampaignTask creates a new asynq task for running a campaign.
func NewDispatchCampaignTask(payload *CampaignPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling task payload: %w", err)
	}
	return asynq.NewTask(TaskTypeDispatchCampaign, data), nil
}

// ParseCampaignPayload deserializes the task payload.
func ParseCampaignPayload(data []byte) (*CampaignPayload, error) {
	var p CampaignPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling task payload: %w", err)
	}
	return &p, nil
}
