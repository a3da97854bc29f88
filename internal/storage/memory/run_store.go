// Package memory provides in-memory store implementations used by
// tests and single-process runs that do not need persistence.
package memory

import (
	"context"
	"sort"
	"sync"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// SimulationRunStore is an in-memory implementation of storage.SimulationRunStore.
type SimulationRunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SimulationRun // keyed by run_id
}

// NewSimulationRunStore creates a new in-memory run store.
func NewSimulationRunStore() *SimulationRunStore {
	return &SimulationRunStore{
		data: make(map[string]*domain.SimulationRun),
	}
}

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *SimulationRunStore) Insert(_ context.Context, r *domain.SimulationRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	runCopy := *r
	s.data[r.RunID] = &runCopy
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *SimulationRunStore) GetByID(_ context.Context, runID string) (*domain.SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	runCopy := *r
	return &runCopy, nil
}

// GetByScenario retrieves all runs for a scenario, ordered by created_at ASC.
func (s *SimulationRunStore) GetByScenario(_ context.Context, scenarioID string) ([]*domain.SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SimulationRun
	for _, r := range s.data {
		if r.ScenarioID == scenarioID {
			runCopy := *r
			result = append(result, &runCopy)
		}
	}

	sortRunsByCreatedAt(result)
	return result, nil
}

// GetAll retrieves all runs, ordered by created_at ASC.
func (s *SimulationRunStore) GetAll(_ context.Context) ([]*domain.SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SimulationRun, 0, len(s.data))
	for _, r := range s.data {
		runCopy := *r
		result = append(result, &runCopy)
	}

	sortRunsByCreatedAt(result)
	return result, nil
}

func sortRunsByCreatedAt(runs []*domain.SimulationRun) {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt != runs[j].CreatedAt {
			return runs[i].CreatedAt < runs[j].CreatedAt
		}
		return runs[i].RunID < runs[j].RunID
	})
}

// Verify interface compliance at compile time.
var _ storage.SimulationRunStore = (*SimulationRunStore)(nil)
