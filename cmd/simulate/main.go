// Package main provides the simulation entry point.
// Executes: valuation → day-by-day simulation → aggregation → persistence
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"viwo-token-lab/internal/config"
	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/observability"
	"viwo-token-lab/internal/orchestrator"
	"viwo-token-lab/internal/reporting"
	"viwo-token-lab/internal/storage"
	chstore "viwo-token-lab/internal/storage/clickhouse"
	"viwo-token-lab/internal/storage/memory"
	"viwo-token-lab/internal/storage/migrations"
	pgstore "viwo-token-lab/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	runStore          storage.SimulationRunStore
	dayRecordStore    storage.DayRecordStore
	aggregateStore    storage.RunAggregateStore
	distributionStore storage.RewardDistributionStore
	valuationStore    storage.ValuationStore
}

func main() {
	// Parse flags (env vars as defaults)
	scenarioID := flag.String("scenario", domain.ScenarioBaseline, "Growth scenario: conservative, baseline, aggressive")
	seed := flag.Int64("seed", 42, "Deterministic RNG seed")
	days := flag.Int("days", 365, "Number of days to simulate")
	initialSupply := flag.Float64("initial-supply", 1_000_000_000, "Circulating supply at launch (tokens)")
	initialPrice := flag.Float64("initial-price", 0, "Launch price override (0 = use cold-start valuation)")
	stakedSupply := flag.Float64("staked-supply", 100_000_000, "Staked supply excluded from velocity (tokens)")
	devCost := flag.Float64("dev-cost", 2_000_000, "Development cost for the cost-basis valuation (USD)")
	opexCost := flag.Float64("opex-cost", 5_000_000, "Annual operating cost for the cost-basis valuation (USD)")
	paramsFile := flag.String("params", "", "TOML parameter overrides (empty = calibrated defaults)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for per-item distributions")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	outputDir := flag.String("output-dir", "", "Write day records CSV here (empty = skip)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling run...\n", sig)
		cancel()
	}()

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

	if !*useMemory && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "--postgres-dsn is required for persistent runs (use --use-memory for in-memory storage)")
		os.Exit(1)
	}

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating stores: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	orch, err := orchestrator.New(orchestrator.Options{
		Params:        params,
		Scenario:      scenario,
		Seed:          *seed,
		Days:          *days,
		InitialSupply: *initialSupply,
		InitialPrice:  *initialPrice,
		StakedSupply:  *stakedSupply,
		Projection: domain.PlatformProjection{
			DevelopmentCost:     *devCost,
			AnnualOperatingCost: *opexCost,
		},
		RunStore:          stores.runStore,
		DayRecordStore:    stores.dayRecordStore,
		AggregateStore:    stores.aggregateStore,
		DistributionStore: stores.distributionStore,
		ValuationStore:    stores.valuationStore,
		Verbose:           *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Token Economy Simulation ===")
	observability.RecordRunStarted(scenario.ScenarioID)
	start := time.Now()

	result, err := orch.Run(ctx)
	if err != nil {
		observability.RecordRunFailed(scenario.ScenarioID)
		fmt.Fprintf(os.Stderr, "Run error: %v\n", err)
		os.Exit(1)
	}

	agg := result.Aggregate
	observability.RecordRunCompleted(scenario.ScenarioID, time.Since(start).Seconds(), agg.TotalMinted, agg.TotalBurned)

	printResult(result)

	if *outputDir != "" {
		if err := writeDayRecords(*outputDir, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing day records: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nDay records written to %s\n", filepath.Join(*outputDir, result.Run.RunID+".csv"))
	}

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// loadParams returns the calibrated defaults or overrides from a file.
func loadParams(path string) (*config.Params, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// createStores creates all required stores.
// ClickHouse is optional even in persistent mode; without it per-item
// reward distributions are simply not persisted.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			runStore:          memory.NewSimulationRunStore(),
			dayRecordStore:    memory.NewDayRecordStore(),
			aggregateStore:    memory.NewRunAggregateStore(),
			distributionStore: memory.NewRewardDistributionStore(),
			valuationStore:    memory.NewValuationStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	stores := &allStores{
		runStore:       pgstore.NewSimulationRunStore(pool),
		dayRecordStore: pgstore.NewDayRecordStore(pool),
		aggregateStore: pgstore.NewRunAggregateStore(pool),
		valuationStore: pgstore.NewValuationStore(pool),
	}

	cleanup := func() { pool.Close() }

	// ClickHouse (analytics)
	if clickhouseDSN != "" {
		chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		stores.distributionStore = chstore.NewRewardDistributionStore(chConn)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
	}

	return stores, cleanup, nil
}

// printResult writes a human-readable run summary to stdout.
func printResult(result *orchestrator.RunResult) {
	run := result.Run
	agg := result.Aggregate
	val := result.Valuation

	fmt.Printf("Run completed:\n")
	fmt.Printf("  Run ID:   %s\n", run.RunID)
	fmt.Printf("  Scenario: %s (seed %d, %d days)\n", run.ScenarioID, run.Seed, run.Days)

	fmt.Printf("\nValuation:\n")
	fmt.Printf("  Recommended price: $%.6f (confidence $%.6f - $%.6f)\n",
		val.Result.RecommendedPrice, val.Result.ConfidenceLow, val.Result.ConfidenceHigh)
	fmt.Printf("  Launch price used: $%.6f\n", run.InitialPrice)

	fmt.Printf("\nPrice:\n")
	fmt.Printf("  Final:    $%.6f (return %+.2f%%)\n", agg.FinalPrice, agg.PriceReturn*100)
	fmt.Printf("  Range:    $%.6f - $%.6f (median $%.6f)\n", agg.PriceMin, agg.PriceMax, agg.PriceMedian)
	fmt.Printf("  Drawdown: %.2f%%\n", agg.MaxPriceDrawdown*100)

	fmt.Printf("\nSupply:\n")
	fmt.Printf("  Final:  %.0f tokens (%+.2f%%)\n", agg.FinalSupply, agg.SupplyChangePct*100)
	fmt.Printf("  Minted: %.0f  Burned: %.0f\n", agg.TotalMinted, agg.TotalBurned)
	fmt.Printf("  Mean inflation: %.2f%%  Mean velocity: %.2f\n", agg.MeanInflation*100, agg.MeanVelocity)

	if len(result.Errors) > 0 {
		fmt.Printf("\nPersistence errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

// writeDayRecords dumps the run's day records as CSV.
func writeDayRecords(dir string, result *orchestrator.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	csv := reporting.RenderDayRecordsCSV(result.Run.RunID, result.Records)
	name := filepath.Join(dir, result.Run.RunID+".csv")
	return os.WriteFile(name, []byte(csv), 0o644)
}
