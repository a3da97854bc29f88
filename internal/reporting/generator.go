// Package reporting produces human-readable summaries of stored
// simulation runs and valuations, as Markdown or CSV.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	runStore       storage.SimulationRunStore
	aggregateStore storage.RunAggregateStore
	valuationStore storage.ValuationStore
	now            func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. The valuation store may
// be nil; the report then omits the valuations section.
func NewGenerator(
	runStore storage.SimulationRunStore,
	aggStore storage.RunAggregateStore,
	valStore storage.ValuationStore,
) *Generator {
	return &Generator{
		runStore:       runStore,
		aggregateStore: aggStore,
		valuationStore: valStore,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete report over all stored runs.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	runs, err := g.runStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}

	summaries, err := g.generateRunSummaries(ctx, runs)
	if err != nil {
		return nil, err
	}

	comparison := compareScenarios(summaries)

	valuations, err := g.generateValuations(ctx, scenarioSet(runs))
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt:        g.now(),
		RunCount:           len(runs),
		ScenarioCount:      len(comparison),
		RunSummaries:       summaries,
		ScenarioComparison: comparison,
		Valuations:         valuations,
	}, nil
}

// generateRunSummaries joins each run with its aggregate. Runs without
// an aggregate (still simulating, or aggregation failed) are skipped.
func (g *Generator) generateRunSummaries(ctx context.Context, runs []*domain.SimulationRun) ([]RunSummaryRow, error) {
	var rows []RunSummaryRow
	for _, run := range runs {
		agg, err := g.aggregateStore.GetByRunID(ctx, run.RunID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load aggregate for run %s: %w", run.RunID, err)
		}

		rows = append(rows, RunSummaryRow{
			RunID:            run.RunID,
			ScenarioID:       run.ScenarioID,
			Seed:             run.Seed,
			Days:             run.Days,
			InitialPrice:     agg.InitialPrice,
			FinalPrice:       agg.FinalPrice,
			PriceReturn:      agg.PriceReturn,
			MaxPriceDrawdown: agg.MaxPriceDrawdown,
			SupplyChangePct:  agg.SupplyChangePct,
			TotalMinted:      agg.TotalMinted,
			TotalBurned:      agg.TotalBurned,
			MeanInflation:    agg.MeanInflation,
			MeanVelocity:     agg.MeanVelocity,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ScenarioID != rows[j].ScenarioID {
			return rows[i].ScenarioID < rows[j].ScenarioID
		}
		return rows[i].RunID < rows[j].RunID
	})
	return rows, nil
}

// compareScenarios groups summaries by scenario.
func compareScenarios(summaries []RunSummaryRow) []ScenarioComparisonRow {
	type acc struct {
		runs            int
		sumFinalPrice   float64
		sumPriceReturn  float64
		worstDrawdown   float64
		sumSupplyChange float64
	}

	byScenario := make(map[string]*acc)
	for _, s := range summaries {
		a, ok := byScenario[s.ScenarioID]
		if !ok {
			a = &acc{}
			byScenario[s.ScenarioID] = a
		}
		a.runs++
		a.sumFinalPrice += s.FinalPrice
		a.sumPriceReturn += s.PriceReturn
		a.sumSupplyChange += s.SupplyChangePct
		if s.MaxPriceDrawdown > a.worstDrawdown {
			a.worstDrawdown = s.MaxPriceDrawdown
		}
	}

	var rows []ScenarioComparisonRow
	for scenarioID, a := range byScenario {
		n := float64(a.runs)
		rows = append(rows, ScenarioComparisonRow{
			ScenarioID:          scenarioID,
			Runs:                a.runs,
			MeanFinalPrice:      a.sumFinalPrice / n,
			MeanPriceReturn:     a.sumPriceReturn / n,
			WorstDrawdown:       a.worstDrawdown,
			MeanSupplyChangePct: a.sumSupplyChange / n,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ScenarioID < rows[j].ScenarioID
	})
	return rows
}

// generateValuations loads valuations for every scenario of interest.
func (g *Generator) generateValuations(ctx context.Context, scenarios []string) ([]ValuationRow, error) {
	if g.valuationStore == nil {
		return nil, nil
	}

	var rows []ValuationRow
	for _, scenarioID := range scenarios {
		vals, err := g.valuationStore.GetByScenario(ctx, scenarioID)
		if err != nil {
			return nil, fmt.Errorf("load valuations for scenario %s: %w", scenarioID, err)
		}
		for _, v := range vals {
			rows = append(rows, ValuationRow{
				ValuationID:      v.ValuationID,
				ScenarioID:       v.ScenarioID,
				RecommendedPrice: v.Result.RecommendedPrice,
				ConfidenceLow:    v.Result.ConfidenceLow,
				ConfidenceHigh:   v.Result.ConfidenceHigh,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ScenarioID != rows[j].ScenarioID {
			return rows[i].ScenarioID < rows[j].ScenarioID
		}
		return rows[i].ValuationID < rows[j].ValuationID
	})
	return rows, nil
}

// scenarioSet collects scenario IDs seen in runs, merged with the
// predefined scenarios so valuations show up even before any run.
func scenarioSet(runs []*domain.SimulationRun) []string {
	set := map[string]struct{}{
		domain.ScenarioConservative: {},
		domain.ScenarioBaseline:     {},
		domain.ScenarioAggressive:   {},
	}
	for _, r := range runs {
		set[r.ScenarioID] = struct{}{}
	}

	scenarios := make([]string, 0, len(set))
	for id := range set {
		scenarios = append(scenarios, id)
	}
	sort.Strings(scenarios)
	return scenarios
}
