package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"defi-portfolio-lab/internal/domain"
)

// RedisCache is a Cache backed by redis, for deployments with more than
// one serving instance. Snapshots are stored as JSON; decimal fields
// round-trip as strings without precision loss.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing redis client. The caller owns the
// client's lifecycle.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (*domain.Snapshot, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: redis get %s: %w", key, err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: decode cached %s: %w", key, err)
	}
	return &snap, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, snap *domain.Snapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("snapshot: redis set %s: %w", key, err)
	}
	return nil
}
