package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const clearBatchSize = 100

// CacheStore implements ports.CacheStore using Redis.
type CacheStore struct {
	client *goredis.Client
}

// NewCacheStore creates a new Redis-backed cache store.
func NewCacheStore(client *goredis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Get retrieves a cached value.
// Returns nil, nil if the key does not exist.
func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis cache get: %w", err)
	}
	return val, nil
}

// Set stores a value with TTL.
func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis cache set: %w", err)
	}
	return nil
}

// Clear deletes every key under prefix. Keys are walked with SCAN so the
// server is never blocked by KEYS.
func (s *CacheStore) Clear(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, escapeGlob(prefix)+"*", clearBatchSize).Iterator()

	batch := make([]string, 0, clearBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatchSize {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis cache clear: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis cache scan: %w", err)
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis cache clear: %w", err)
		}
	}
	return nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
