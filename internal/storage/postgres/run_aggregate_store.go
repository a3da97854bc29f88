package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// RunAggregateStore implements storage.RunAggregateStore using PostgreSQL.
type RunAggregateStore struct {
	pool *Pool
}

// NewRunAggregateStore creates a new RunAggregateStore.
func NewRunAggregateStore(pool *Pool) *RunAggregateStore {
	return &RunAggregateStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunAggregateStore = (*RunAggregateStore)(nil)

const runAggregateColumns = `
	run_id, scenario_id, days,
	initial_price, final_price, price_return,
	price_min, price_max, price_median,
	price_p10, price_p25, price_p75, price_p90, max_price_drawdown,
	initial_supply, final_supply, supply_change_pct, total_minted, total_burned,
	mean_inflation, peak_inflation, mean_velocity
`

// Insert adds a new aggregate. Returns ErrDuplicateKey if run_id exists.
func (s *RunAggregateStore) Insert(ctx context.Context, a *domain.RunAggregate) error {
	if a == nil || a.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO run_aggregates (` + runAggregateColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		          $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := s.pool.Exec(ctx, query,
		a.RunID, a.ScenarioID, a.Days,
		a.InitialPrice, a.FinalPrice, a.PriceReturn,
		a.PriceMin, a.PriceMax, a.PriceMedian,
		a.PriceP10, a.PriceP25, a.PriceP75, a.PriceP90, a.MaxPriceDrawdown,
		a.InitialSupply, a.FinalSupply, a.SupplyChangePct, a.TotalMinted, a.TotalBurned,
		a.MeanInflation, a.PeakInflation, a.MeanVelocity,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run aggregate: %w", err)
	}
	return nil
}

// GetByRunID retrieves the aggregate for a run. Returns ErrNotFound if not exists.
func (s *RunAggregateStore) GetByRunID(ctx context.Context, runID string) (*domain.RunAggregate, error) {
	query := `
		SELECT ` + runAggregateColumns + `
		FROM run_aggregates
		WHERE run_id = $1
	`

	row := s.pool.QueryRow(ctx, query, runID)
	a, err := scanRunAggregate(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get aggregate by run id: %w", err)
	}
	return a, nil
}

// GetByScenario retrieves all aggregates for a scenario.
func (s *RunAggregateStore) GetByScenario(ctx context.Context, scenarioID string) ([]*domain.RunAggregate, error) {
	query := `
		SELECT ` + runAggregateColumns + `
		FROM run_aggregates
		WHERE scenario_id = $1
		ORDER BY run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("get aggregates by scenario: %w", err)
	}
	defer rows.Close()

	var aggs []*domain.RunAggregate
	for rows.Next() {
		a, err := scanRunAggregate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan aggregate row: %w", err)
		}
		aggs = append(aggs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregate rows: %w", err)
	}

	return aggs, nil
}

// scanRunAggregate scans a single row into a RunAggregate.
func scanRunAggregate(row pgx.Row) (*domain.RunAggregate, error) {
	var a domain.RunAggregate

	err := row.Scan(
		&a.RunID, &a.ScenarioID, &a.Days,
		&a.InitialPrice, &a.FinalPrice, &a.PriceReturn,
		&a.PriceMin, &a.PriceMax, &a.PriceMedian,
		&a.PriceP10, &a.PriceP25, &a.PriceP75, &a.PriceP90, &a.MaxPriceDrawdown,
		&a.InitialSupply, &a.FinalSupply, &a.SupplyChangePct, &a.TotalMinted, &a.TotalBurned,
		&a.MeanInflation, &a.PeakInflation, &a.MeanVelocity,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
