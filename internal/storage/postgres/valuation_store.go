package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// ValuationStore implements storage.ValuationStore using PostgreSQL.
type ValuationStore struct {
	pool *Pool
}

// NewValuationStore creates a new ValuationStore.
func NewValuationStore(pool *Pool) *ValuationStore {
	return &ValuationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ValuationStore = (*ValuationStore)(nil)

const valuationColumns = `
	valuation_id, scenario_id, params_hash,
	daily_revenue, daily_active_users, initial_supply, development_cost, annual_operating_cost,
	revenue_multiple_price, utility_demand_price, comparable_analysis_price,
	cost_basis_price, network_value_price,
	weight_revenue_multiple, weight_utility_demand, weight_comparable_analysis,
	weight_cost_basis, weight_network_value,
	recommended_price, confidence_low, confidence_high,
	created_at
`

// Insert adds a new valuation. Returns ErrDuplicateKey if valuation_id exists.
func (s *ValuationStore) Insert(ctx context.Context, v *domain.ValuationRecord) error {
	if v == nil || v.ValuationID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO valuations (` + valuationColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		          $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := s.pool.Exec(ctx, query,
		v.ValuationID, v.ScenarioID, v.ParamsHash,
		v.Projection.DailyRevenue, v.Projection.DailyActiveUsers, v.Projection.InitialSupply,
		v.Projection.DevelopmentCost, v.Projection.AnnualOperatingCost,
		v.Result.RevenueMultiplePrice, v.Result.UtilityDemandPrice, v.Result.ComparableAnalysisPrice,
		v.Result.CostBasisPrice, v.Result.NetworkValuePrice,
		v.Result.Weights.RevenueMultiple, v.Result.Weights.UtilityDemand, v.Result.Weights.ComparableAnalysis,
		v.Result.Weights.CostBasis, v.Result.Weights.NetworkValue,
		v.Result.RecommendedPrice, v.Result.ConfidenceLow, v.Result.ConfidenceHigh,
		v.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert valuation: %w", err)
	}
	return nil
}

// GetByID retrieves a valuation by its ID. Returns ErrNotFound if not exists.
func (s *ValuationStore) GetByID(ctx context.Context, valuationID string) (*domain.ValuationRecord, error) {
	query := `
		SELECT ` + valuationColumns + `
		FROM valuations
		WHERE valuation_id = $1
	`

	row := s.pool.QueryRow(ctx, query, valuationID)
	v, err := scanValuation(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get valuation by id: %w", err)
	}
	return v, nil
}

// GetByScenario retrieves all valuations for a scenario, ordered by created_at ASC.
func (s *ValuationStore) GetByScenario(ctx context.Context, scenarioID string) ([]*domain.ValuationRecord, error) {
	query := `
		SELECT ` + valuationColumns + `
		FROM valuations
		WHERE scenario_id = $1
		ORDER BY created_at ASC, valuation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("get valuations by scenario: %w", err)
	}
	defer rows.Close()

	var vals []*domain.ValuationRecord
	for rows.Next() {
		v, err := scanValuation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan valuation row: %w", err)
		}
		vals = append(vals, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate valuation rows: %w", err)
	}

	return vals, nil
}

// scanValuation scans a single row into a ValuationRecord.
func scanValuation(row pgx.Row) (*domain.ValuationRecord, error) {
	var v domain.ValuationRecord

	err := row.Scan(
		&v.ValuationID, &v.ScenarioID, &v.ParamsHash,
		&v.Projection.DailyRevenue, &v.Projection.DailyActiveUsers, &v.Projection.InitialSupply,
		&v.Projection.DevelopmentCost, &v.Projection.AnnualOperatingCost,
		&v.Result.RevenueMultiplePrice, &v.Result.UtilityDemandPrice, &v.Result.ComparableAnalysisPrice,
		&v.Result.CostBasisPrice, &v.Result.NetworkValuePrice,
		&v.Result.Weights.RevenueMultiple, &v.Result.Weights.UtilityDemand, &v.Result.Weights.ComparableAnalysis,
		&v.Result.Weights.CostBasis, &v.Result.Weights.NetworkValue,
		&v.Result.RecommendedPrice, &v.Result.ConfidenceLow, &v.Result.ConfidenceHigh,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
