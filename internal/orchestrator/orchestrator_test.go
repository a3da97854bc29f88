package orchestrator

import (
	"context"
	"testing"
	"time"

	"viwo-token-lab/internal/config"
	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage/memory"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testOptions() Options {
	return Options{
		Params:        config.Default(),
		Scenario:      domain.ScenarioConfigBaseline,
		Seed:          42,
		Days:          10,
		InitialSupply: 1_000_000_000,
		StakedSupply:  100_000_000,
		Projection: domain.PlatformProjection{
			DevelopmentCost:     2_000_000,
			AnnualOperatingCost: 5_000_000,
		},
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"nil params", func(o *Options) { o.Params = nil }},
		{"empty scenario", func(o *Options) { o.Scenario = domain.GrowthScenario{} }},
		{"zero days", func(o *Options) { o.Days = 0 }},
		{"zero supply", func(o *Options) { o.InitialSupply = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			if _, err := New(opts); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestOrchestrator_Run_FullPipeline(t *testing.T) {
	ctx := context.Background()

	runStore := memory.NewSimulationRunStore()
	dayStore := memory.NewDayRecordStore()
	aggStore := memory.NewRunAggregateStore()
	distStore := memory.NewRewardDistributionStore()
	valStore := memory.NewValuationStore()

	opts := testOptions()
	opts.RunStore = runStore
	opts.DayRecordStore = dayStore
	opts.AggregateStore = aggStore
	opts.DistributionStore = distStore
	opts.ValuationStore = valStore

	o, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	o.WithClock(fixedClock)

	result, err := o.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("persistence errors: %v", result.Errors)
	}

	// Launch price comes from the valuation when not overridden
	if result.Valuation == nil {
		t.Fatal("expected valuation in result")
	}
	if result.Run.InitialPrice != result.Valuation.Result.RecommendedPrice {
		t.Errorf("InitialPrice = %f, want valuation price %f",
			result.Run.InitialPrice, result.Valuation.Result.RecommendedPrice)
	}

	if len(result.Records) != opts.Days {
		t.Fatalf("records = %d, want %d", len(result.Records), opts.Days)
	}
	if result.Aggregate == nil || result.Aggregate.Days != opts.Days {
		t.Fatalf("aggregate = %+v, want %d days", result.Aggregate, opts.Days)
	}

	// Everything persisted
	storedRun, err := runStore.GetByID(ctx, result.Run.RunID)
	if err != nil {
		t.Fatalf("run not persisted: %v", err)
	}
	if storedRun.ScenarioID != "baseline" {
		t.Errorf("stored scenario = %s, want baseline", storedRun.ScenarioID)
	}

	storedRecs, err := dayStore.GetByRun(ctx, result.Run.RunID)
	if err != nil {
		t.Fatalf("day records not persisted: %v", err)
	}
	if len(storedRecs) != opts.Days {
		t.Errorf("persisted records = %d, want %d", len(storedRecs), opts.Days)
	}

	if _, err := aggStore.GetByRunID(ctx, result.Run.RunID); err != nil {
		t.Errorf("aggregate not persisted: %v", err)
	}
	if _, err := valStore.GetByID(ctx, result.Valuation.ValuationID); err != nil {
		t.Errorf("valuation not persisted: %v", err)
	}

	// Per-item distributions landed in the analytics store
	dists, err := distStore.GetByRunDay(ctx, result.Run.RunID, 0)
	if err != nil {
		t.Fatalf("GetByRunDay failed: %v", err)
	}
	if len(dists) == 0 {
		t.Error("expected day 0 distributions to be persisted")
	}
}

func TestOrchestrator_Run_DuplicateRunRejected(t *testing.T) {
	ctx := context.Background()
	runStore := memory.NewSimulationRunStore()

	opts := testOptions()
	opts.RunStore = runStore

	first, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := first.Run(ctx); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}

	// Identical scenario/seed/days/params collide on run ID
	second, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := second.Run(ctx); err == nil {
		t.Error("expected duplicate run error, got nil")
	}
}

func TestOrchestrator_Run_Deterministic(t *testing.T) {
	ctx := context.Background()

	runOnce := func() *RunResult {
		o, err := New(testOptions())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		result, err := o.Run(ctx)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return result
	}

	a := runOnce()
	b := runOnce()

	if a.Run.RunID != b.Run.RunID {
		t.Errorf("run IDs differ: %s vs %s", a.Run.RunID, b.Run.RunID)
	}
	if len(a.Records) != len(b.Records) {
		t.Fatalf("record counts differ: %d vs %d", len(a.Records), len(b.Records))
	}
	for i := range a.Records {
		if a.Records[i].CurrentPrice != b.Records[i].CurrentPrice {
			t.Fatalf("day %d price differs: %f vs %f",
				i, a.Records[i].CurrentPrice, b.Records[i].CurrentPrice)
		}
		if a.Records[i].TotalSupply != b.Records[i].TotalSupply {
			t.Fatalf("day %d supply differs: %f vs %f",
				i, a.Records[i].TotalSupply, b.Records[i].TotalSupply)
		}
	}
}

func TestOrchestrator_Run_PriceOverride(t *testing.T) {
	opts := testOptions()
	opts.InitialPrice = 0.25

	o, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Run.InitialPrice != 0.25 {
		t.Errorf("InitialPrice = %f, want override 0.25", result.Run.InitialPrice)
	}
}

func TestOrchestrator_Run_OnDayHook(t *testing.T) {
	opts := testOptions()
	opts.Days = 5

	var seen []int
	opts.OnDay = func(rec *domain.DayRecord) {
		seen = append(seen, rec.Day)
	}

	o, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(seen) != 5 {
		t.Fatalf("hook invocations = %d, want 5", len(seen))
	}
	for i, day := range seen {
		if day != i {
			t.Errorf("hook day %d = %d, want %d", i, day, i)
		}
	}
}

func TestOrchestrator_Run_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, err := New(testOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := o.Run(ctx); err == nil {
		t.Error("expected context error, got nil")
	}
}
