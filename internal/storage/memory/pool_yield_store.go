// Package memory provides in-memory store implementations for tests and
// single-process runs without external databases.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"defi-portfolio-lab/internal/storage"
)

// PoolYieldHistoryStore is an in-memory implementation of
// storage.PoolYieldHistoryStore.
type PoolYieldHistoryStore struct {
	mu   sync.RWMutex
	data map[string]*storage.PoolYieldRecord // keyed by (pool_id, block)
}

// NewPoolYieldHistoryStore creates an empty store.
func NewPoolYieldHistoryStore() *PoolYieldHistoryStore {
	return &PoolYieldHistoryStore{
		data: make(map[string]*storage.PoolYieldRecord),
	}
}

var _ storage.PoolYieldHistoryStore = (*PoolYieldHistoryStore)(nil)

func yieldKey(poolID string, block int64) string {
	return fmt.Sprintf("%s|%d", poolID, block)
}

// InsertBulk appends one refresh cycle's observations. Fails the entire
// batch on a duplicate (pool_id, block).
func (s *PoolYieldHistoryStore) InsertBulk(_ context.Context, records []*storage.PoolYieldRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.PoolID == "" {
			return storage.ErrInvalidInput
		}
		key := yieldKey(r.PoolID, r.Block)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		recordCopy := *r
		s.data[yieldKey(r.PoolID, r.Block)] = &recordCopy
	}
	return nil
}

// GetByPoolID retrieves all observations for a pool, ordered by block ASC.
func (s *PoolYieldHistoryStore) GetByPoolID(_ context.Context, poolID string) ([]*storage.PoolYieldRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.PoolYieldRecord
	for _, r := range s.data {
		if r.PoolID == poolID {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}
	sortByBlock(result)
	return result, nil
}

// GetByTimeRange retrieves observations for a pool within [start, end].
func (s *PoolYieldHistoryStore) GetByTimeRange(_ context.Context, poolID string, start, end time.Time) ([]*storage.PoolYieldRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.PoolYieldRecord
	for _, r := range s.data {
		if r.PoolID == poolID && !r.ObservedAt.Before(start) && !r.ObservedAt.After(end) {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}
	sortByBlock(result)
	return result, nil
}

func sortByBlock(records []*storage.PoolYieldRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Block < records[j].Block
	})
}
