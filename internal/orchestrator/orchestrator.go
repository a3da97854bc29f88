// Package orchestrator provides end-to-end run orchestration.
// It coordinates: valuation → simulation → aggregation → persistence
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"viwo-token-lab/internal/activity"
	"viwo-token-lab/internal/config"
	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/engine"
	"viwo-token-lab/internal/idhash"
	"viwo-token-lab/internal/metrics"
	"viwo-token-lab/internal/storage"
	"viwo-token-lab/internal/valuation"
)

// Orchestrator coordinates one full simulation run.
// Flow: valuation → day-by-day simulation → metrics aggregation
type Orchestrator struct {
	params   *config.Params
	scenario domain.GrowthScenario
	seed     int64
	days     int

	initialSupply float64
	initialPrice  float64
	stakedSupply  float64
	projection    domain.PlatformProjection

	// Stores; any of them may be nil, which skips that persistence step
	runStore          storage.SimulationRunStore
	dayRecordStore    storage.DayRecordStore
	aggregateStore    storage.RunAggregateStore
	distributionStore storage.RewardDistributionStore
	valuationStore    storage.ValuationStore

	onDay   func(*domain.DayRecord) // optional per-day hook (live streaming)
	now     func() time.Time        // Injectable clock for deterministic run IDs
	verbose bool
}

// Options for creating Orchestrator.
type Options struct {
	// Required
	Params   *config.Params
	Scenario domain.GrowthScenario
	Seed     int64
	Days     int

	// Launch state. InitialPrice of zero means price from the
	// cold-start valuation.
	InitialSupply float64
	InitialPrice  float64
	StakedSupply  float64

	// Cold-start projection. DevelopmentCost and AnnualOperatingCost
	// come from here; revenue and users default from the scenario.
	Projection domain.PlatformProjection

	// Optional stores
	RunStore          storage.SimulationRunStore
	DayRecordStore    storage.DayRecordStore
	AggregateStore    storage.RunAggregateStore
	DistributionStore storage.RewardDistributionStore
	ValuationStore    storage.ValuationStore

	// Optional per-day callback, invoked after each simulated day
	OnDay func(*domain.DayRecord)

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Params == nil {
		return nil, errors.New("orchestrator: params required")
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if opts.Scenario.ScenarioID == "" {
		return nil, errors.New("orchestrator: scenario required")
	}
	if opts.Days <= 0 {
		return nil, errors.New("orchestrator: days must be positive")
	}
	if opts.InitialSupply <= 0 {
		return nil, errors.New("orchestrator: initial supply must be positive")
	}

	projection := opts.Projection
	if projection.DailyRevenue == 0 {
		projection.DailyRevenue = opts.Scenario.BaseDailyRevenue
	}
	if projection.DailyActiveUsers == 0 {
		projection.DailyActiveUsers = opts.Scenario.MaxUsers / 10
	}
	if projection.InitialSupply == 0 {
		projection.InitialSupply = opts.InitialSupply
	}

	return &Orchestrator{
		params:            opts.Params,
		scenario:          opts.Scenario,
		seed:              opts.Seed,
		days:              opts.Days,
		initialSupply:     opts.InitialSupply,
		initialPrice:      opts.InitialPrice,
		stakedSupply:      opts.StakedSupply,
		projection:        projection,
		runStore:          opts.RunStore,
		dayRecordStore:    opts.DayRecordStore,
		aggregateStore:    opts.AggregateStore,
		distributionStore: opts.DistributionStore,
		valuationStore:    opts.ValuationStore,
		onDay:             opts.OnDay,
		now:               func() time.Time { return time.Now().UTC() },
		verbose:           opts.Verbose,
	}, nil
}

// WithClock sets a custom clock function for deterministic timestamps.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// RunResult contains the outcome of one orchestrated run.
type RunResult struct {
	Run       *domain.SimulationRun
	Valuation *domain.ValuationRecord
	Records   []*domain.DayRecord
	Aggregate *domain.RunAggregate

	// Non-fatal persistence errors; the in-memory result is complete
	// even when some writes failed.
	Errors []string
}

// Run executes the full pipeline.
// Phases:
//  1. Cold-start valuation (sets launch price unless overridden)
//  2. Register the run
//  3. Simulate day by day
//  4. Aggregate metrics
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}
	nowMs := o.now().UnixMilli()
	paramsHash := o.params.Hash()

	// Phase 1: Valuation
	o.log("Phase 1: Running cold-start valuation...")
	valResult := valuation.NewValuator(o.params).Valuate(o.projection)
	result.Valuation = &domain.ValuationRecord{
		ValuationID: idhash.ComputeRunID(o.scenario.ScenarioID, o.seed, 0, paramsHash),
		ScenarioID:  o.scenario.ScenarioID,
		ParamsHash:  paramsHash,
		Projection:  o.projection,
		Result:      *valResult,
		CreatedAt:   nowMs,
	}
	o.log("  Recommended price: %.6f", valResult.RecommendedPrice)

	initialPrice := o.initialPrice
	if initialPrice == 0 {
		initialPrice = valResult.RecommendedPrice
	}

	if o.valuationStore != nil {
		if err := o.valuationStore.Insert(ctx, result.Valuation); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			result.Errors = append(result.Errors, fmt.Sprintf("store valuation: %v", err))
		}
	}

	// Phase 2: Register run
	run := &domain.SimulationRun{
		RunID:         idhash.ComputeRunID(o.scenario.ScenarioID, o.seed, o.days, paramsHash),
		ScenarioID:    o.scenario.ScenarioID,
		Seed:          o.seed,
		Days:          o.days,
		InitialSupply: o.initialSupply,
		InitialPrice:  initialPrice,
		StakedSupply:  o.stakedSupply,
		ParamsHash:    paramsHash,
		CreatedAt:     nowMs,
	}
	result.Run = run
	o.log("Phase 2: Registered run %s (%s, seed %d, %d days)",
		run.RunID, run.ScenarioID, run.Seed, run.Days)

	if o.runStore != nil {
		if err := o.runStore.Insert(ctx, run); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				return nil, fmt.Errorf("run %s already exists", run.RunID)
			}
			return nil, fmt.Errorf("store run: %w", err)
		}
	}

	// Phase 3: Simulation
	o.log("Phase 3: Simulating %d days...", o.days)
	records, err := o.simulate(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("phase 3 (simulation) failed: %w", err)
	}
	result.Records = records

	if o.dayRecordStore != nil {
		if err := o.dayRecordStore.InsertBulk(ctx, run.RunID, records); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("store day records: %v", err))
		}
	}

	// Phase 4: Aggregation
	o.log("Phase 4: Computing aggregate...")
	result.Aggregate = metrics.ComputeRunAggregate(run, records)
	if o.aggregateStore != nil {
		if err := o.aggregateStore.Insert(ctx, result.Aggregate); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			result.Errors = append(result.Errors, fmt.Sprintf("store aggregate: %v", err))
		}
	}

	o.log("Run completed: final price %.6f, final supply %.0f (%d persistence errors)",
		result.Aggregate.FinalPrice, result.Aggregate.FinalSupply, len(result.Errors))

	return result, nil
}

// simulate advances the engine one day at a time, persisting per-item
// distributions as it goes so a long run does not hold them all.
func (o *Orchestrator) simulate(ctx context.Context, run *domain.SimulationRun) ([]*domain.DayRecord, error) {
	sim, err := engine.NewSimulator(engine.Options{
		Params:        o.params,
		InitialSupply: run.InitialSupply,
		InitialPrice:  run.InitialPrice,
		StakedSupply:  run.StakedSupply,
	})
	if err != nil {
		return nil, err
	}

	gen := activity.NewScenarioGenerator(o.scenario, run.Seed)

	records := make([]*domain.DayRecord, 0, run.Days)
	for day := 0; day < run.Days; day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := gen.Day(day)
		if err != nil {
			return nil, fmt.Errorf("generate day %d: %w", day, err)
		}

		rec, err := sim.AdvanceDay(batch)
		if err != nil {
			return nil, fmt.Errorf("advance day %d: %w", day, err)
		}

		if o.distributionStore != nil && len(rec.Distributions) > 0 {
			if err := o.distributionStore.InsertBulk(ctx, run.RunID, rec.Day, rec.Distributions); err != nil {
				return nil, fmt.Errorf("store distributions day %d: %w", day, err)
			}
		}

		if o.onDay != nil {
			o.onDay(rec)
		}

		records = append(records, rec)
	}

	return records, nil
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
