package redisstore

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	return client
}

func TestOrderLocker_MutualExclusion(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	locker := NewOrderLocker(client, 5*time.Second, zap.NewNop())
	orderID := "ORD-" + uuid.NewString()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), orderID)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestOrderLocker_ContextCancelled(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	locker := NewOrderLocker(client, 5*time.Second, zap.NewNop())
	orderID := "ORD-" + uuid.NewString()

	unlock, err := locker.Lock(context.Background(), orderID)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, orderID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOrderLocker_ReleaseKeepsForeignLease(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	locker := NewOrderLocker(client, 5*time.Second, zap.NewNop())
	orderID := "ORD-" + uuid.NewString()
	key := orderLockPrefix + orderID

	unlock, err := locker.Lock(ctx, orderID)
	require.NoError(t, err)

	// Simulate lease expiry followed by another holder.
	require.NoError(t, client.Set(ctx, key, "someone-else", time.Minute).Err())
	unlock()

	val, err := client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)
	client.Del(ctx, key)
}

func TestEventStore_SeenAfterMark(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewEventStore(client)
	eventID := "evt_" + uuid.NewString()

	seen, err := store.Seen(ctx, eventID)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.MarkSeen(ctx, eventID))

	seen, err = store.Seen(ctx, eventID)
	require.NoError(t, err)
	assert.True(t, seen)

	ttl, err := client.TTL(ctx, webhookEventPrefix+eventID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 23*time.Hour)
	client.Del(ctx, webhookEventPrefix+eventID)
}
