package snapshot

import (
	"context"
	"sync"
	"time"

	"defi-portfolio-lab/internal/domain"
)

type memoryEntry struct {
	snap      *domain.Snapshot
	expiresAt time.Time
}

// MemoryCache is an in-process Cache. Suitable for single-instance
// deployments and tests; expired entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (*domain.Snapshot, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return entry.snap, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, snap *domain.Snapshot, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{snap: snap, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
