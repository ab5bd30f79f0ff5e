package idempotency

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "idem:order:"

// Guard records idempotency keys in Redis so a retried order submission is
// rejected instead of creating a second order. Keys expire after TTL.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuard builds a Guard with the given key lifetime.
func NewGuard(client *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Guard{client: client, ttl: ttl}
}

// FirstUse atomically claims the key. It returns false when the key was
// already claimed within the TTL window.
func (g *Guard) FirstUse(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, keyPrefix+key, 1, g.ttl).Result()
}
