package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// pingTimeout bounds one /health round trip to the cache.
const pingTimeout = 2 * time.Second

// CacheHealth reports whether the backend behind the dashboard cache, the
// webhook nonce store and the rate limiter answers.
type CacheHealth struct {
	client  goredis.UniversalClient
	timeout time.Duration
}

func NewCacheHealth(client goredis.UniversalClient) *CacheHealth {
	return &CacheHealth{client: client, timeout: pingTimeout}
}

func (h *CacheHealth) Name() string { return "redis" }

// Ping fails when the cache does not answer within the timeout.
func (h *CacheHealth) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := h.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache backend unreachable: %w", err)
	}
	return nil
}
