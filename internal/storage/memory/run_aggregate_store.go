package memory

import (
	"context"
	"sort"
	"sync"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// RunAggregateStore is an in-memory implementation of storage.RunAggregateStore.
type RunAggregateStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RunAggregate // keyed by run_id
}

// NewRunAggregateStore creates a new in-memory aggregate store.
func NewRunAggregateStore() *RunAggregateStore {
	return &RunAggregateStore{
		data: make(map[string]*domain.RunAggregate),
	}
}

// Insert adds a new aggregate. Returns ErrDuplicateKey if run_id exists.
func (s *RunAggregateStore) Insert(_ context.Context, a *domain.RunAggregate) error {
	if a == nil || a.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	aggCopy := *a
	s.data[a.RunID] = &aggCopy
	return nil
}

// GetByRunID retrieves the aggregate for a run. Returns ErrNotFound if not exists.
func (s *RunAggregateStore) GetByRunID(_ context.Context, runID string) (*domain.RunAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	aggCopy := *a
	return &aggCopy, nil
}

// GetByScenario retrieves all aggregates for a scenario.
func (s *RunAggregateStore) GetByScenario(_ context.Context, scenarioID string) ([]*domain.RunAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RunAggregate
	for _, a := range s.data {
		if a.ScenarioID == scenarioID {
			aggCopy := *a
			result = append(result, &aggCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RunID < result[j].RunID
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.RunAggregateStore = (*RunAggregateStore)(nil)
