// Package reward converts one content item's engagement and quality
// attributes into a token reward and its distribution. Calculation is
// pure: no state, no I/O, and no input can produce an error.
package reward

import (
	"math"

	"viwo-token-lab/internal/config"
	"viwo-token-lab/internal/domain"
)

// Calculator computes per-item reward distributions. It holds only a
// validated parameter reference and is safe to share across calls.
type Calculator struct {
	params *config.Params
}

// NewCalculator creates a calculator over a validated parameter set.
func NewCalculator(params *config.Params) *Calculator {
	return &Calculator{params: params}
}

// Distribute computes the full reward distribution for one item.
// Steps:
//  1. Base reward from the daily pool, category and log-dampened
//     engagement/view factors
//  2. Quality multiplier from three independently clamped sub-scores
//  3. Distribution into creator cut, five engagement pools,
//     commission and royalty
func (c *Calculator) Distribute(item *domain.ContentItem, sizing domain.PoolSizing) *domain.RewardDistribution {
	base := c.baseReward(item, sizing)
	quality := c.QualityMultiplier(item)
	gross := base * quality

	return c.distribute(gross, item)
}

// baseReward computes the pre-quality reward for an item.
func (c *Calculator) baseReward(item *domain.ContentItem, sizing domain.PoolSizing) float64 {
	r := c.params.Rewards

	price := sizing.CurrentPrice
	if price <= 0 {
		price = c.params.Market.PriceFloor
	}
	dailyPool := (sizing.DailyRevenue * r.RewardRatio) / price
	perItem := dailyPool / float64(maxInt64(1, sizing.DailyContentCount))

	categoryMult, ok := r.CategoryMultipliers[string(item.Category)]
	if !ok {
		categoryMult = 1.0
	}

	// Logarithmic factors blunt the marginal value of count inflation.
	engagementFactor := 1.0 + math.Log10(float64(maxInt64(1, item.TotalEngagement())))/r.EngagementLogDivisor
	viewFactor := 1.0 + math.Log10(float64(maxInt64(1, item.Views)))/r.ViewLogDivisor

	return perItem * categoryMult * engagementFactor * viewFactor
}

// QualityMultiplier combines the three quality sub-multipliers and
// clamps the product to the configured global band.
func (c *Calculator) QualityMultiplier(item *domain.ContentItem) float64 {
	r := c.params.Rewards

	combined := c.credibilityMultiplier(item.CreatorCredibility) *
		linearMap(item.AccuracyRating, r.AccuracyMinMult, r.AccuracyMaxMult) *
		linearMap(item.EngagementQuality, r.EngQualityMinMult, r.EngQualityMaxMult)

	return clamp(combined, r.MinQualityMultiplier, r.MaxQualityMultiplier)
}

// credibilityMultiplier applies the step function over score bands.
// Bands tile the score range, so exactly one matches; an out-of-range
// score falls through to the neutral 1.0.
func (c *Calculator) credibilityMultiplier(score int) float64 {
	for _, band := range c.params.Rewards.CredibilityBands {
		if score >= band.Min && score <= band.Max {
			return band.Multiplier
		}
	}
	return 1.0
}

// distribute splits the gross reward into its components. The creator
// cut alone carries the accuracy bonus; TotalReward is the sum of what
// is actually paid, so the components always reconcile against it.
func (c *Calculator) distribute(gross float64, item *domain.ContentItem) *domain.RewardDistribution {
	r := c.params.Rewards

	accuracyBonus := 1.0 + (float64(clampInt(item.AccuracyRating, 0, 100))/100)*r.AccuracyBonusRate

	d := &domain.RewardDistribution{
		CreatorReward: gross * r.CreatorFraction * accuracyBonus,

		SharePool:   gross * r.ShareFraction,
		ReportPool:  gross * r.ReportFraction,
		LikePool:    gross * r.LikeFraction,
		DislikePool: gross * r.DislikeFraction,
		CommentPool: gross * r.CommentFraction,

		PlatformCommission: gross * r.CommissionFraction,
		NFTRoyaltyPool:     gross * r.RoyaltyFraction,
	}

	d.SharePerAction = d.SharePool / float64(maxInt64(1, item.Shares))
	d.ReportPerAction = d.ReportPool / float64(maxInt64(1, item.Reports))
	d.LikePerAction = d.LikePool / float64(maxInt64(1, item.Likes))
	d.DislikePerAction = d.DislikePool / float64(maxInt64(1, item.Dislikes))
	d.CommentPerAction = d.CommentPool / float64(maxInt64(1, item.Comments))

	d.TotalReward = d.CreatorReward + d.EngagementPoolSum() + d.PlatformCommission + d.NFTRoyaltyPool

	return d
}

// linearMap maps a 0-100 score onto [lo, hi], clamping out-of-range input.
func linearMap(score int, lo, hi float64) float64 {
	s := clampInt(score, 0, 100)
	return lo + (float64(s)/100)*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
