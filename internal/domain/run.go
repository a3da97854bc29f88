package domain

// SimulationRun identifies one complete multi-day simulation. The run
// ID is deterministic over (scenario, seed, days, params hash) so
// repeated runs with identical inputs collide instead of duplicating.
type SimulationRun struct {
	RunID      string
	ScenarioID string
	Seed       int64
	Days       int

	InitialSupply float64
	InitialPrice  float64
	StakedSupply  float64
	ParamsHash    string

	CreatedAt int64 // Unix ms
}

// RunAggregate summarizes one run's day records.
// Corresponds to the run_aggregates table.
type RunAggregate struct {
	RunID      string
	ScenarioID string
	Days       int

	// Price trajectory
	InitialPrice  float64
	FinalPrice    float64
	PriceReturn   float64 // final/initial - 1
	PriceMin      float64
	PriceMax      float64
	PriceMedian   float64
	PriceP10      float64 // 10th percentile
	PriceP25      float64 // 25th percentile
	PriceP75      float64 // 75th percentile
	PriceP90      float64 // 90th percentile
	MaxPriceDrawdown float64 // worst peak-to-trough fraction

	// Supply trajectory
	InitialSupply   float64
	FinalSupply     float64
	SupplyChangePct float64
	TotalMinted     float64
	TotalBurned     float64

	// Derived-metric summary
	MeanInflation float64
	PeakInflation float64
	MeanVelocity  float64
}
