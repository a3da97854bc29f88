// Package valuation prices a token at launch by blending five
// independent methods over the same platform projection. The valuator
// is stateless and deterministic; it typically runs once, before the
// first simulated day, to seed the engine's starting price.
package valuation

import (
	"sort"

	"viwo-token-lab/internal/config"
	"viwo-token-lab/internal/domain"
)

// Valuator computes cold-start valuations.
type Valuator struct {
	params *config.Params
}

// NewValuator creates a valuator over a validated parameter set.
func NewValuator(params *config.Params) *Valuator {
	return &Valuator{params: params}
}

// Valuate runs all five methods and blends them by the fixed weights.
func (v *Valuator) Valuate(p domain.PlatformProjection) *domain.ValuationResult {
	weights := v.params.ValuationWeightSet()

	result := &domain.ValuationResult{
		RevenueMultiplePrice:    v.revenueMultiple(p),
		UtilityDemandPrice:      v.utilityDemand(p),
		ComparableAnalysisPrice: v.comparableAnalysis(),
		CostBasisPrice:          v.costBasis(p),
		NetworkValuePrice:       v.networkValue(p),
		Weights:                 weights,
	}

	result.RecommendedPrice = result.RevenueMultiplePrice*weights.RevenueMultiple +
		result.UtilityDemandPrice*weights.UtilityDemand +
		result.ComparableAnalysisPrice*weights.ComparableAnalysis +
		result.CostBasisPrice*weights.CostBasis +
		result.NetworkValuePrice*weights.NetworkValue

	result.ConfidenceLow = result.RecommendedPrice * 0.7
	result.ConfidenceHigh = result.RecommendedPrice * 1.3

	return result
}

// revenueMultiple values the token layer as a share of a revenue
// multiple on annualized platform revenue.
func (v *Valuator) revenueMultiple(p domain.PlatformProjection) float64 {
	c := v.params.Valuation

	annualRevenue := p.DailyRevenue * 365
	platformValue := annualRevenue * c.RevenueMultiple
	tokenLayerValue := platformValue * c.TokenLayerShare

	return tokenLayerValue / supply(p)
}

// utilityDemand derives the market cap needed to carry the platform's
// daily token flow at the target velocity.
func (v *Valuator) utilityDemand(p domain.PlatformProjection) float64 {
	c := v.params.Valuation
	r := v.params.Rewards

	dailyTokenFlow := p.DailyRevenue * r.RewardRatio
	requiredMarketCap := dailyTokenFlow * 365 / c.TargetVelocity
	price := requiredMarketCap / supply(p)

	if price < c.UtilityFloor {
		return c.UtilityFloor
	}
	if price > c.UtilityCeiling {
		return c.UtilityCeiling
	}
	return price
}

// comparableAnalysis takes the median of the reference price table and
// applies the utility premium.
func (v *Valuator) comparableAnalysis() float64 {
	c := v.params.Valuation

	prices := make([]float64, len(c.ComparablePrices))
	copy(prices, c.ComparablePrices)
	sort.Float64s(prices)

	median := prices[len(prices)/2]
	return median * c.UtilityPremium
}

// costBasis values infrastructure access against three years of
// platform cost.
func (v *Valuator) costBasis(p domain.PlatformProjection) float64 {
	c := v.params.Valuation

	totalCost := p.DevelopmentCost + p.AnnualOperatingCost*3
	infrastructureValue := totalCost * c.InfrastructureShare

	return infrastructureValue / supply(p)
}

// networkValue applies Metcalfe's law over daily active users.
func (v *Valuator) networkValue(p domain.PlatformProjection) float64 {
	c := v.params.Valuation

	users := float64(p.DailyActiveUsers)
	networkValue := c.MetcalfeK * users * users
	tokenShare := networkValue * c.NetworkShare

	price := tokenShare / supply(p)
	if price < c.NetworkPriceFloor {
		return c.NetworkPriceFloor
	}
	return price
}

// supply guards the per-token division against a zero projection.
func supply(p domain.PlatformProjection) float64 {
	if p.InitialSupply <= 0 {
		return 1
	}
	return p.InitialSupply
}
