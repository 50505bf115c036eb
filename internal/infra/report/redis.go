package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"herald/internal/domain/notification"

	"github.com/redis/go-redis/v9"
)

var _ notification.ReportStore = (*RedisStore)(nil)

const keyPrefix = "herald:campaign:"

// RedisStore keeps campaign reports in Redis under a TTL. Reports exist so
// the calling layer can surface aggregate counts ("Notifications sent to N
// users"); they are not delivery receipts and expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed campaign report store.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStore{client: client, ttl: ttl}
}

// Save stores the report for a campaign.
func (s *RedisStore) Save(ctx context.Context, report *notification.CampaignReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling campaign report: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+report.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing campaign report: %w", err)
	}

	return nil
}

// Get retrieves a campaign report. Returns nil, nil when no report exists
// for the ID or it has expired.
func (s *RedisStore) Get(ctx context.Context, campaignID string) (*notification.CampaignReport, error) {
	data, err := s.client.Get(ctx, keyPrefix+campaignID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching campaign report: %w", err)
	}

	var report notification.CampaignReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing campaign report: %w", err)
	}

	return &report, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
