package domain

// PlatformProjection holds the static projections the cold-start
// valuator prices against.
type PlatformProjection struct {
	DailyRevenue        float64 // USD
	DailyActiveUsers    int64
	InitialSupply       float64 // tokens
	DevelopmentCost     float64 // USD
	AnnualOperatingCost float64 // USD
}

// ValuationWeights are the fixed per-method blend weights. They must
// sum to 1.0; config validation enforces this at construction.
type ValuationWeights struct {
	RevenueMultiple    float64
	UtilityDemand      float64
	ComparableAnalysis float64
	CostBasis          float64
	NetworkValue       float64
}

// Sum returns the total of all five weights.
func (w ValuationWeights) Sum() float64 {
	return w.RevenueMultiple + w.UtilityDemand + w.ComparableAnalysis + w.CostBasis + w.NetworkValue
}

// ValuationResult is the output of one cold-start valuation: five
// independent per-method prices, their weights, the blended price and
// a fixed confidence band around it.
type ValuationResult struct {
	RevenueMultiplePrice    float64
	UtilityDemandPrice      float64
	ComparableAnalysisPrice float64
	CostBasisPrice          float64
	NetworkValuePrice       float64

	Weights          ValuationWeights
	RecommendedPrice float64
	ConfidenceLow    float64 // RecommendedPrice * 0.7
	ConfidenceHigh   float64 // RecommendedPrice * 1.3
}

// ValuationRecord is a persisted valuation: the inputs it was priced
// against, the result, and the parameter set that produced it.
type ValuationRecord struct {
	ValuationID string
	ScenarioID  string
	ParamsHash  string

	Projection PlatformProjection
	Result     ValuationResult

	CreatedAt int64 // Unix ms
}
