package memory

import (
	"context"
	"sort"
	"sync"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// ValuationStore is an in-memory implementation of storage.ValuationStore.
type ValuationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ValuationRecord // keyed by valuation_id
}

// NewValuationStore creates a new in-memory valuation store.
func NewValuationStore() *ValuationStore {
	return &ValuationStore{
		data: make(map[string]*domain.ValuationRecord),
	}
}

// Insert adds a new valuation. Returns ErrDuplicateKey if valuation_id exists.
func (s *ValuationStore) Insert(_ context.Context, v *domain.ValuationRecord) error {
	if v == nil || v.ValuationID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[v.ValuationID]; exists {
		return storage.ErrDuplicateKey
	}

	recCopy := *v
	s.data[v.ValuationID] = &recCopy
	return nil
}

// GetByID retrieves a valuation by its ID. Returns ErrNotFound if not exists.
func (s *ValuationStore) GetByID(_ context.Context, valuationID string) (*domain.ValuationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, exists := s.data[valuationID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recCopy := *v
	return &recCopy, nil
}

// GetByScenario retrieves all valuations for a scenario, ordered by created_at ASC.
func (s *ValuationStore) GetByScenario(_ context.Context, scenarioID string) ([]*domain.ValuationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ValuationRecord
	for _, v := range s.data {
		if v.ScenarioID == scenarioID {
			recCopy := *v
			result = append(result, &recCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ValuationID < result[j].ValuationID
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.ValuationStore = (*ValuationStore)(nil)
