package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"defi-portfolio-lab/internal/storage"
)

// PortfolioSnapshotStore is an in-memory implementation of
// storage.PortfolioSnapshotStore.
type PortfolioSnapshotStore struct {
	mu   sync.RWMutex
	data map[string][]*storage.PortfolioSnapshot // keyed by user, unordered
}

// NewPortfolioSnapshotStore creates an empty store.
func NewPortfolioSnapshotStore() *PortfolioSnapshotStore {
	return &PortfolioSnapshotStore{
		data: make(map[string][]*storage.PortfolioSnapshot),
	}
}

var _ storage.PortfolioSnapshotStore = (*PortfolioSnapshotStore)(nil)

// Insert adds one snapshot. Returns ErrDuplicateKey if (user, block) exists.
func (s *PortfolioSnapshotStore) Insert(_ context.Context, snap *storage.PortfolioSnapshot) error {
	if snap == nil || snap.User == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data[snap.User] {
		if existing.Block == snap.Block {
			return storage.ErrDuplicateKey
		}
	}
	snapCopy := *snap
	s.data[snap.User] = append(s.data[snap.User], &snapCopy)
	return nil
}

// GetLatest retrieves the user's most recent snapshot by block.
func (s *PortfolioSnapshotStore) GetLatest(_ context.Context, user string) (*storage.PortfolioSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *storage.PortfolioSnapshot
	for _, snap := range s.data[user] {
		if latest == nil || snap.Block > latest.Block {
			latest = snap
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	snapCopy := *latest
	return &snapCopy, nil
}

// GetByUser retrieves the user's snapshots taken within [start, end].
func (s *PortfolioSnapshotStore) GetByUser(_ context.Context, user string, start, end time.Time) ([]*storage.PortfolioSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.PortfolioSnapshot
	for _, snap := range s.data[user] {
		if !snap.TakenAt.Before(start) && !snap.TakenAt.After(end) {
			snapCopy := *snap
			result = append(result, &snapCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Block < result[j].Block
	})
	return result, nil
}
