// Package main provides the standalone cold-start valuation entry
// point: price a token launch from platform projections without
// running a simulation.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"viwo-token-lab/internal/config"
	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/idhash"
	"viwo-token-lab/internal/observability"
	"viwo-token-lab/internal/storage"
	"viwo-token-lab/internal/storage/migrations"
	pgstore "viwo-token-lab/internal/storage/postgres"
	"viwo-token-lab/internal/valuation"
)

// ValuationOutput is the JSON shape printed with --json.
type ValuationOutput struct {
	ValuationID string `json:"valuation_id"`
	ScenarioID  string `json:"scenario_id"`
	ParamsHash  string `json:"params_hash"`

	DailyRevenue     float64 `json:"daily_revenue"`
	DailyActiveUsers int64   `json:"daily_active_users"`
	InitialSupply    float64 `json:"initial_supply"`

	RevenueMultiplePrice    float64 `json:"revenue_multiple_price"`
	UtilityDemandPrice      float64 `json:"utility_demand_price"`
	ComparableAnalysisPrice float64 `json:"comparable_analysis_price"`
	CostBasisPrice          float64 `json:"cost_basis_price"`
	NetworkValuePrice       float64 `json:"network_value_price"`

	RecommendedPrice float64 `json:"recommended_price"`
	ConfidenceLow    float64 `json:"confidence_low"`
	ConfidenceHigh   float64 `json:"confidence_high"`
}

func main() {
	scenarioID := flag.String("scenario", domain.ScenarioBaseline, "Growth scenario supplying revenue/user defaults")
	revenue := flag.Float64("daily-revenue", 0, "Projected daily revenue in USD (0 = scenario default)")
	users := flag.Int64("daily-users", 0, "Projected daily active users (0 = scenario default)")
	supply := flag.Float64("initial-supply", 1_000_000_000, "Circulating supply at launch (tokens)")
	devCost := flag.Float64("dev-cost", 2_000_000, "Development cost (USD)")
	opexCost := flag.Float64("opex-cost", 5_000_000, "Annual operating cost (USD)")
	paramsFile := flag.String("params", "", "TOML parameter overrides (empty = calibrated defaults)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "Persist the valuation to PostgreSQL (empty = print only)")
	asJSON := flag.Bool("json", false, "Print the result as JSON")
	flag.Parse()

	params, err := loadParams(*paramsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading params: %v\n", err)
		os.Exit(1)
	}

	scenario, ok := domain.ScenarioByID(*scenarioID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown scenario %q (want conservative, baseline or aggressive)\n", *scenarioID)
		os.Exit(1)
	}

	projection := domain.PlatformProjection{
		DailyRevenue:        *revenue,
		DailyActiveUsers:    *users,
		InitialSupply:       *supply,
		DevelopmentCost:     *devCost,
		AnnualOperatingCost: *opexCost,
	}
	if projection.DailyRevenue == 0 {
		projection.DailyRevenue = scenario.BaseDailyRevenue
	}
	if projection.DailyActiveUsers == 0 {
		projection.DailyActiveUsers = scenario.MaxUsers / 10
	}

	result := valuation.NewValuator(params).Valuate(projection)
	observability.RecordValuation(scenario.ScenarioID, result.RecommendedPrice)

	record := &domain.ValuationRecord{
		ValuationID: idhash.ComputeRunID(scenario.ScenarioID, 0, 0, params.Hash()),
		ScenarioID:  scenario.ScenarioID,
		ParamsHash:  params.Hash(),
		Projection:  projection,
		Result:      *result,
		CreatedAt:   time.Now().UTC().UnixMilli(),
	}

	if *postgresDSN != "" {
		if err := persist(context.Background(), *postgresDSN, record); err != nil {
			fmt.Fprintf(os.Stderr, "Error persisting valuation: %v\n", err)
			os.Exit(1)
		}
	}

	if *asJSON {
		printJSON(record)
		return
	}
	printTable(record)
}

func loadParams(path string) (*config.Params, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// persist writes the valuation to PostgreSQL. An identical valuation
// already on record is not an error.
func persist(ctx context.Context, dsn string, record *domain.ValuationRecord) error {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return fmt.Errorf("postgres migrations: %w", err)
	}

	err = pgstore.NewValuationStore(pool).Insert(ctx, record)
	if errors.Is(err, storage.ErrDuplicateKey) {
		fmt.Fprintf(os.Stderr, "Valuation %s already recorded, skipping insert\n", record.ValuationID)
		return nil
	}
	return err
}

func printJSON(record *domain.ValuationRecord) {
	out := ValuationOutput{
		ValuationID: record.ValuationID,
		ScenarioID:  record.ScenarioID,
		ParamsHash:  record.ParamsHash,

		DailyRevenue:     record.Projection.DailyRevenue,
		DailyActiveUsers: record.Projection.DailyActiveUsers,
		InitialSupply:    record.Projection.InitialSupply,

		RevenueMultiplePrice:    record.Result.RevenueMultiplePrice,
		UtilityDemandPrice:      record.Result.UtilityDemandPrice,
		ComparableAnalysisPrice: record.Result.ComparableAnalysisPrice,
		CostBasisPrice:          record.Result.CostBasisPrice,
		NetworkValuePrice:       record.Result.NetworkValuePrice,

		RecommendedPrice: record.Result.RecommendedPrice,
		ConfidenceLow:    record.Result.ConfidenceLow,
		ConfidenceHigh:   record.Result.ConfidenceHigh,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func printTable(record *domain.ValuationRecord) {
	r := record.Result

	fmt.Println("=== Cold-Start Valuation ===")
	fmt.Printf("Scenario: %s\n", record.ScenarioID)
	fmt.Printf("Inputs:   $%.0f/day revenue, %d DAU, %.0f tokens\n",
		record.Projection.DailyRevenue, record.Projection.DailyActiveUsers, record.Projection.InitialSupply)

	fmt.Println("\nMethod prices:")
	fmt.Printf("  Revenue multiple:    $%.6f (weight %.0f%%)\n", r.RevenueMultiplePrice, r.Weights.RevenueMultiple*100)
	fmt.Printf("  Utility demand:      $%.6f (weight %.0f%%)\n", r.UtilityDemandPrice, r.Weights.UtilityDemand*100)
	fmt.Printf("  Comparable analysis: $%.6f (weight %.0f%%)\n", r.ComparableAnalysisPrice, r.Weights.ComparableAnalysis*100)
	fmt.Printf("  Cost basis:          $%.6f (weight %.0f%%)\n", r.CostBasisPrice, r.Weights.CostBasis*100)
	fmt.Printf("  Network value:       $%.6f (weight %.0f%%)\n", r.NetworkValuePrice, r.Weights.NetworkValue*100)

	fmt.Printf("\nRecommended price: $%.6f\n", r.RecommendedPrice)
	fmt.Printf("Confidence band:   $%.6f - $%.6f\n", r.ConfidenceLow, r.ConfidenceHigh)
}
