package memory

import (
	"context"
	"sort"
	"sync"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

type dayKey struct {
	runID string
	day   int
}

// DayRecordStore is an in-memory implementation of storage.DayRecordStore.
type DayRecordStore struct {
	mu   sync.RWMutex
	data map[dayKey]*domain.DayRecord
}

// NewDayRecordStore creates a new in-memory day record store.
func NewDayRecordStore() *DayRecordStore {
	return &DayRecordStore{
		data: make(map[dayKey]*domain.DayRecord),
	}
}

// Insert adds a single day record. Returns ErrDuplicateKey if (run_id, day) exists.
func (s *DayRecordStore) Insert(_ context.Context, runID string, rec *domain.DayRecord) error {
	if runID == "" || rec == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(runID, rec)
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *DayRecordStore) InsertBulk(_ context.Context, runID string, recs []*domain.DayRecord) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before mutating anything
	for _, rec := range recs {
		if rec == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[dayKey{runID, rec.Day}]; exists {
			return storage.ErrDuplicateKey
		}
	}

	for _, rec := range recs {
		if err := s.insertLocked(runID, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *DayRecordStore) insertLocked(runID string, rec *domain.DayRecord) error {
	key := dayKey{runID, rec.Day}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	recCopy := copyDayRecord(rec)
	s.data[key] = recCopy
	return nil
}

// GetByRun retrieves all records for a run, ordered by day ASC.
func (s *DayRecordStore) GetByRun(_ context.Context, runID string) ([]*domain.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DayRecord
	for key, rec := range s.data {
		if key.runID == runID {
			result = append(result, copyDayRecord(rec))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})
	return result, nil
}

// GetByDayRange retrieves records for a run within [start, end] (inclusive).
func (s *DayRecordStore) GetByDayRange(_ context.Context, runID string, start, end int) ([]*domain.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DayRecord
	for key, rec := range s.data {
		if key.runID == runID && key.day >= start && key.day <= end {
			result = append(result, copyDayRecord(rec))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})
	return result, nil
}

// copyDayRecord deep-copies a record including its distribution slice.
func copyDayRecord(rec *domain.DayRecord) *domain.DayRecord {
	recCopy := *rec
	if rec.Distributions != nil {
		recCopy.Distributions = make([]*domain.RewardDistribution, len(rec.Distributions))
		for i, d := range rec.Distributions {
			distCopy := *d
			recCopy.Distributions[i] = &distCopy
		}
	}
	return &recCopy
}

// Verify interface compliance at compile time.
var _ storage.DayRecordStore = (*DayRecordStore)(nil)
