package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	webhookEventPrefix = "webhook:event:"
	webhookEventTTL    = 24 * time.Hour
)

// EventStore remembers processed webhook event ids for a day.
type EventStore struct {
	client *redis.Client
}

func NewEventStore(client *redis.Client) *EventStore {
	return &EventStore{client: client}
}

func (s *EventStore) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, webhookEventPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("checking webhook event: %w", err)
	}
	return n > 0, nil
}

func (s *EventStore) MarkSeen(ctx context.Context, eventID string) error {
	if err := s.client.Set(ctx, webhookEventPrefix+eventID, 1, webhookEventTTL).Err(); err != nil {
		return fmt.Errorf("recording webhook event: %w", err)
	}
	return nil
}
