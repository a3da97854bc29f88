package domain

// EconomicState is the platform's supply/price state. It is the only
// mutable long-lived value in the system, owned exclusively by one
// engine instance and mutated once per simulated day.
type EconomicState struct {
	TotalSupply       float64
	CirculatingSupply float64
	StakedSupply      float64
	CurrentPrice      float64

	// Exogenous daily figures, overwritten from each ActivityBatch
	DailyRevenue     float64
	DailyActiveUsers int64
	DailyContentCount int64
}

// BurnBreakdown itemizes one day's burns by source.
type BurnBreakdown struct {
	CommissionBurn float64
	NFTBurn        float64
	PromotionBurn  float64
	GovernanceBurn float64
	QualityBurn    float64
}

// Total returns the summed burn across all five sources.
func (b BurnBreakdown) Total() float64 {
	return b.CommissionBurn + b.NFTBurn + b.PromotionBurn + b.GovernanceBurn + b.QualityBurn
}

// DayRecord is the immutable summary of one simulated day. The engine
// emits it and retains no history; callers own the resulting sequence.
type DayRecord struct {
	Day int

	// State after the day's transition
	TotalSupply       float64
	CirculatingSupply float64
	CurrentPrice      float64

	// Flows
	TotalRewards float64
	TotalBurns   float64
	NetFlow      float64

	// Exogenous inputs applied this day
	DailyRevenue float64
	ActiveUsers  int64
	ContentCount int64

	// Derived metrics
	InflationRate float64 // annualized: netFlow/totalSupply*365
	Velocity      float64 // annualized: rewards/(circulating-staked)*365

	BurnBreakdown BurnBreakdown
	Distributions []*RewardDistribution
}
