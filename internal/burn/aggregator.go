// Package burn aggregates one day's token burns from five independent
// percentage-of-activity sources.
package burn

import (
	"viwo-token-lab/internal/config"
	"viwo-token-lab/internal/domain"
)

// Inputs are the day-level activity totals the burns derive from. The
// engine fills TotalRewards from the day's realized reward sum and the
// remaining figures from the activity batch.
type Inputs struct {
	TotalRewards        float64
	NFTVolume           float64
	PromotionSpend      float64
	GovernanceProposals int64
}

// Aggregator computes daily burns. Each source is independent; the
// total is a plain sum and no source can go negative.
type Aggregator struct {
	params *config.Params
}

// NewAggregator creates an aggregator over a validated parameter set.
func NewAggregator(params *config.Params) *Aggregator {
	return &Aggregator{params: params}
}

// Burns returns the total burn and its per-source breakdown. Zero
// activity in a source yields zero burn for that source; negative
// inputs clamp to zero before any rate applies.
func (a *Aggregator) Burns(in Inputs) (float64, domain.BurnBreakdown) {
	b := a.params.Burns
	r := a.params.Rewards

	rewards := nonNegative(in.TotalRewards)
	nftVolume := nonNegative(in.NFTVolume)
	promotion := nonNegative(in.PromotionSpend)
	proposals := in.GovernanceProposals
	if proposals < 0 {
		proposals = 0
	}

	breakdown := domain.BurnBreakdown{
		// Half of the platform commission leaves circulation
		CommissionBurn: rewards * r.CommissionFraction * b.CommissionBurnRate,

		// NFT trading fees, partially burned
		NFTBurn: nftVolume * b.NFTFeeRate * b.NFTBurnRate,

		// Promotion spend is fully destroyed
		PromotionBurn: promotion * b.PromotionBurnRate,

		// Flat fee per governance proposal
		GovernanceBurn: float64(proposals) * b.GovernanceBurnFlat,

		// Quality bonus pool funding exceptional content
		QualityBurn: rewards * b.QualityPoolRate * b.QualityBurnRate,
	}

	return breakdown.Total(), breakdown
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
