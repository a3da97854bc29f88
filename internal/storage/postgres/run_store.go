package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// SimulationRunStore implements storage.SimulationRunStore using PostgreSQL.
type SimulationRunStore struct {
	pool *Pool
}

// NewSimulationRunStore creates a new SimulationRunStore.
func NewSimulationRunStore(pool *Pool) *SimulationRunStore {
	return &SimulationRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SimulationRunStore = (*SimulationRunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *SimulationRunStore) Insert(ctx context.Context, r *domain.SimulationRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO simulation_runs (
			run_id, scenario_id, seed, days,
			initial_supply, initial_price, staked_supply, params_hash, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID,
		r.ScenarioID,
		r.Seed,
		r.Days,
		r.InitialSupply,
		r.InitialPrice,
		r.StakedSupply,
		r.ParamsHash,
		r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert simulation run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *SimulationRunStore) GetByID(ctx context.Context, runID string) (*domain.SimulationRun, error) {
	query := `
		SELECT run_id, scenario_id, seed, days,
		       initial_supply, initial_price, staked_supply, params_hash, created_at
		FROM simulation_runs
		WHERE run_id = $1
	`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return r, nil
}

// GetByScenario retrieves all runs for a scenario, ordered by created_at ASC.
func (s *SimulationRunStore) GetByScenario(ctx context.Context, scenarioID string) ([]*domain.SimulationRun, error) {
	query := `
		SELECT run_id, scenario_id, seed, days,
		       initial_supply, initial_price, staked_supply, params_hash, created_at
		FROM simulation_runs
		WHERE scenario_id = $1
		ORDER BY created_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("get runs by scenario: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetAll retrieves all runs, ordered by created_at ASC.
func (s *SimulationRunStore) GetAll(ctx context.Context) ([]*domain.SimulationRun, error) {
	query := `
		SELECT run_id, scenario_id, seed, days,
		       initial_supply, initial_price, staked_supply, params_hash, created_at
		FROM simulation_runs
		ORDER BY created_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// scanRun scans a single row into a SimulationRun.
func scanRun(row pgx.Row) (*domain.SimulationRun, error) {
	var r domain.SimulationRun

	err := row.Scan(
		&r.RunID,
		&r.ScenarioID,
		&r.Seed,
		&r.Days,
		&r.InitialSupply,
		&r.InitialPrice,
		&r.StakedSupply,
		&r.ParamsHash,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// scanRuns scans multiple rows into a slice of SimulationRun.
func scanRuns(rows pgx.Rows) ([]*domain.SimulationRun, error) {
	var runs []*domain.SimulationRun

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}
