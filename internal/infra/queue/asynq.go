package queue

import (
	"fmt"

	"herald/internal/domain/notification"

	"github.com/hibiken/asynq"
)

const campaignQueue = "campaigns"

// NewClient creates a new asynq client connected to Redis.
func NewClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
}

// NewServer creates a new asynq server connected to Redis.
func NewServer(redisAddr, password string, db int, concurrency int) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				campaignQueue: 10, // priority weight
				"default":     1,
			},
		},
	)
}

// EnqueueCampaign enqueues a campaign dispatch task. Campaigns are
// fire-and-forget: the task runs at most once and failed recipients are
// counted, not redelivered.
func EnqueueCampaign(client *asynq.Client, payload *notification.CampaignPayload) error {
	task, err := notification.NewDispatchCampaignTask(payload)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	_, err = client.Enqueue(task,
		asynq.MaxRetry(0),
		asynq.Queue(campaignQueue),
	)
	if err != nil {
		return fmt.Errorf("enqueuing task: %w", err)
	}

	return nil
}
