package snapshot

import (
	"context"
	"errors"
	"time"

	"defi-portfolio-lab/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("snapshot: cache miss")

// Cache stores built snapshots for a bounded time. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.Snapshot, error)
	Set(ctx context.Context, key string, snap *domain.Snapshot, ttl time.Duration) error
}

// Cache keys. User snapshots append the lowercased address.
const (
	PoolsKey      = "snapshot:pools"
	UserKeyPrefix = "snapshot:user:"
)
