package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	orderLockPrefix   = "lock:order:"
	lockRetryInterval = 25 * time.Millisecond
)

// releaseLockScript deletes the key only while it still holds our token, so a
// holder whose lease expired cannot release a lock someone else acquired.
var releaseLockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// OrderLocker serialises work on a single order across processes.
type OrderLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewOrderLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *OrderLocker {
	return &OrderLocker{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Lock blocks until the lease for orderID is acquired or ctx is done.
func (l *OrderLocker) Lock(ctx context.Context, orderID string) (func(), error) {
	key := orderLockPrefix + orderID
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquiring order lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquiring order lock: %w", ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseLockScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release order lock", zap.String("orderId", orderID), zap.Error(err))
		}
	}, nil
}
