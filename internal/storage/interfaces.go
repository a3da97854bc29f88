package storage

import (
	"context"

	"viwo-token-lab/internal/domain"
)

// SimulationRunStore provides access to simulation_runs storage.
type SimulationRunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.SimulationRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.SimulationRun, error)

	// GetByScenario retrieves all runs for a scenario, ordered by created_at ASC.
	GetByScenario(ctx context.Context, scenarioID string) ([]*domain.SimulationRun, error)

	// GetAll retrieves all runs, ordered by created_at ASC.
	GetAll(ctx context.Context) ([]*domain.SimulationRun, error)
}

// DayRecordStore provides access to day_records storage.
type DayRecordStore interface {
	// Insert adds a single day record. Returns ErrDuplicateKey if (run_id, day) exists.
	Insert(ctx context.Context, runID string, rec *domain.DayRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, runID string, recs []*domain.DayRecord) error

	// GetByRun retrieves all records for a run, ordered by day ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.DayRecord, error)

	// GetByDayRange retrieves records for a run within [start, end] (inclusive).
	GetByDayRange(ctx context.Context, runID string, start, end int) ([]*domain.DayRecord, error)
}

// RunAggregateStore provides access to run_aggregates storage.
type RunAggregateStore interface {
	// Insert adds a new aggregate. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, a *domain.RunAggregate) error

	// GetByRunID retrieves the aggregate for a run. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.RunAggregate, error)

	// GetByScenario retrieves all aggregates for a scenario.
	GetByScenario(ctx context.Context, scenarioID string) ([]*domain.RunAggregate, error)
}

// RewardDistributionStore provides access to reward_distributions storage.
// Per-item breakdowns are high-volume append-only data; reads always
// address one (run, day) page.
type RewardDistributionStore interface {
	// InsertBulk adds one day's distributions. Duplicate (run_id, day)
	// pages are the caller's responsibility; the store does not dedupe.
	InsertBulk(ctx context.Context, runID string, day int, dists []*domain.RewardDistribution) error

	// GetByRunDay retrieves all distributions for one run day, in insertion order.
	GetByRunDay(ctx context.Context, runID string, day int) ([]*domain.RewardDistribution, error)
}

// ValuationStore provides access to valuations storage.
type ValuationStore interface {
	// Insert adds a new valuation. Returns ErrDuplicateKey if valuation_id exists.
	Insert(ctx context.Context, v *domain.ValuationRecord) error

	// GetByID retrieves a valuation by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, valuationID string) (*domain.ValuationRecord, error)

	// GetByScenario retrieves all valuations for a scenario, ordered by created_at ASC.
	GetByScenario(ctx context.Context, scenarioID string) ([]*domain.ValuationRecord, error)
}
