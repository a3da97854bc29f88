package reporting

import "time"

// Report represents the economics report structure.
type Report struct {
	// Metadata
	GeneratedAt   time.Time
	RunCount      int
	ScenarioCount int

	// Per-run summaries (sorted by scenario_id, run_id)
	RunSummaries []RunSummaryRow

	// Cross-scenario comparison (sorted by scenario_id)
	ScenarioComparison []ScenarioComparisonRow

	// Cold-start valuations (sorted by scenario_id, valuation_id)
	Valuations []ValuationRow
}

// RunSummaryRow represents one row in the run summaries table.
type RunSummaryRow struct {
	RunID            string
	ScenarioID       string
	Seed             int64
	Days             int
	InitialPrice     float64
	FinalPrice       float64
	PriceReturn      float64
	MaxPriceDrawdown float64
	SupplyChangePct  float64
	TotalMinted      float64
	TotalBurned      float64
	MeanInflation    float64
	MeanVelocity     float64
}

// ScenarioComparisonRow aggregates all runs of one scenario.
type ScenarioComparisonRow struct {
	ScenarioID      string
	Runs            int
	MeanFinalPrice  float64
	MeanPriceReturn float64
	WorstDrawdown   float64
	MeanSupplyChangePct float64
}

// ValuationRow represents one cold-start valuation in the report.
type ValuationRow struct {
	ValuationID      string
	ScenarioID       string
	RecommendedPrice float64
	ConfidenceLow    float64
	ConfidenceHigh   float64
}
