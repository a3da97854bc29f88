package memory

import (
	"context"
	"sync"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// RewardDistributionStore is an in-memory implementation of
// storage.RewardDistributionStore. Pages accumulate per (run, day);
// repeated inserts for the same page append, matching the
// analytics-store semantics where dedupe is the caller's job.
type RewardDistributionStore struct {
	mu   sync.RWMutex
	data map[dayKey][]*domain.RewardDistribution
}

// NewRewardDistributionStore creates a new in-memory distribution store.
func NewRewardDistributionStore() *RewardDistributionStore {
	return &RewardDistributionStore{
		data: make(map[dayKey][]*domain.RewardDistribution),
	}
}

// InsertBulk adds one day's distributions.
func (s *RewardDistributionStore) InsertBulk(_ context.Context, runID string, day int, dists []*domain.RewardDistribution) error {
	if runID == "" || day < 0 {
		return storage.ErrInvalidInput
	}
	for _, d := range dists {
		if d == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey{runID, day}
	for _, d := range dists {
		distCopy := *d
		s.data[key] = append(s.data[key], &distCopy)
	}
	return nil
}

// GetByRunDay retrieves all distributions for one run day, in insertion order.
func (s *RewardDistributionStore) GetByRunDay(_ context.Context, runID string, day int) ([]*domain.RewardDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.data[dayKey{runID, day}]
	result := make([]*domain.RewardDistribution, 0, len(stored))
	for _, d := range stored {
		distCopy := *d
		result = append(result, &distCopy)
	}
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.RewardDistributionStore = (*RewardDistributionStore)(nil)
