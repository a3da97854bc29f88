// Package config defines the validated parameter set shared by every
// economic component. A Params value is constructed once, validated,
// and passed by reference; no component reads ambient options.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"viwo-token-lab/internal/domain"
)

// CredibilityBand maps a contiguous creator-credibility score range to
// a step multiplier. Bands must tile [0, 500] without gaps or overlap.
type CredibilityBand struct {
	Min        int     `toml:"min"`
	Max        int     `toml:"max"`
	Multiplier float64 `toml:"multiplier"`
}

// RewardParams controls the content reward calculator.
type RewardParams struct {
	// Fixed fractions of the gross reward. Together with the five
	// engagement fractions these must sum to exactly 1.0.
	CreatorFraction    float64 `toml:"creator_fraction"`
	ShareFraction      float64 `toml:"share_fraction"`
	ReportFraction     float64 `toml:"report_fraction"`
	LikeFraction       float64 `toml:"like_fraction"`
	DislikeFraction    float64 `toml:"dislike_fraction"`
	CommissionFraction float64 `toml:"commission_fraction"`
	RoyaltyFraction    float64 `toml:"royalty_fraction"`
	CommentFraction    float64 `toml:"comment_fraction"`

	// Pool sizing
	RewardRatio float64 `toml:"reward_ratio"` // fraction of revenue converted to tokens

	// Logarithmic dampening divisors
	EngagementLogDivisor float64 `toml:"engagement_log_divisor"`
	ViewLogDivisor       float64 `toml:"view_log_divisor"`

	// Category effort multipliers; unknown categories fall back to 1.0
	CategoryMultipliers map[string]float64 `toml:"category_multipliers"`

	// Quality sub-multipliers
	CredibilityBands []CredibilityBand `toml:"credibility_bands"`
	AccuracyMinMult  float64           `toml:"accuracy_min_mult"`  // at rating 0
	AccuracyMaxMult  float64           `toml:"accuracy_max_mult"`  // at rating 100
	EngQualityMinMult float64          `toml:"eng_quality_min_mult"`
	EngQualityMaxMult float64          `toml:"eng_quality_max_mult"`

	// Global clamp on the combined quality multiplier
	MinQualityMultiplier float64 `toml:"min_quality_multiplier"`
	MaxQualityMultiplier float64 `toml:"max_quality_multiplier"`

	// Accuracy bonus applied to the creator's cut only
	AccuracyBonusRate float64 `toml:"accuracy_bonus_rate"`
}

// BurnParams controls the five burn sources.
type BurnParams struct {
	CommissionBurnRate float64 `toml:"commission_burn_rate"` // of platform commission
	NFTFeeRate         float64 `toml:"nft_fee_rate"`         // trading fee on NFT volume
	NFTBurnRate        float64 `toml:"nft_burn_rate"`        // of NFT fees
	PromotionBurnRate  float64 `toml:"promotion_burn_rate"`  // of promotion spend
	GovernanceBurnFlat float64 `toml:"governance_burn_flat"` // tokens per proposal
	QualityPoolRate    float64 `toml:"quality_pool_rate"`    // of daily rewards
	QualityBurnRate    float64 `toml:"quality_burn_rate"`    // of the quality pool
}

// MarketParams controls the price update step.
type MarketParams struct {
	PriceSensitivity float64 `toml:"price_sensitivity"`
	PriceFloor       float64 `toml:"price_floor"`
}

// ValuationParams controls the cold-start valuator.
type ValuationParams struct {
	WeightRevenueMultiple    float64 `toml:"weight_revenue_multiple"`
	WeightUtilityDemand      float64 `toml:"weight_utility_demand"`
	WeightComparableAnalysis float64 `toml:"weight_comparable_analysis"`
	WeightCostBasis          float64 `toml:"weight_cost_basis"`
	WeightNetworkValue       float64 `toml:"weight_network_value"`

	RevenueMultiple float64 `toml:"revenue_multiple"`
	TokenLayerShare float64 `toml:"token_layer_share"`

	TargetVelocity float64 `toml:"target_velocity"`
	UtilityFloor   float64 `toml:"utility_floor"`
	UtilityCeiling float64 `toml:"utility_ceiling"`

	ComparablePrices []float64 `toml:"comparable_prices"`
	UtilityPremium   float64   `toml:"utility_premium"`

	InfrastructureShare float64 `toml:"infrastructure_share"`

	MetcalfeK         float64 `toml:"metcalfe_k"`
	NetworkShare      float64 `toml:"network_share"`
	NetworkPriceFloor float64 `toml:"network_price_floor"`
}

// Params is the complete engine configuration.
type Params struct {
	Rewards   RewardParams    `toml:"rewards"`
	Burns     BurnParams      `toml:"burns"`
	Market    MarketParams    `toml:"market"`
	Valuation ValuationParams `toml:"valuation"`
}

const fractionTolerance = 1e-9

// Default returns the calibrated parameter set.
func Default() *Params {
	return &Params{
		Rewards: RewardParams{
			CreatorFraction:    0.40,
			ShareFraction:      0.15,
			ReportFraction:     0.05,
			LikeFraction:       0.08,
			DislikeFraction:    0.02,
			CommentFraction:    0.10,
			CommissionFraction: 0.10,
			RoyaltyFraction:    0.10,

			RewardRatio:          0.90,
			EngagementLogDivisor: 10,
			ViewLogDivisor:       15,

			CategoryMultipliers: map[string]float64{
				string(domain.CategoryPodcast):    3.0,
				string(domain.CategoryLongVideo):  2.5,
				string(domain.CategoryShortVideo): 1.5,
				string(domain.CategoryTextPost):   1.0,
			},

			CredibilityBands: []CredibilityBand{
				{Min: 450, Max: 500, Multiplier: 5.0},
				{Min: 400, Max: 449, Multiplier: 4.0},
				{Min: 350, Max: 399, Multiplier: 3.0},
				{Min: 300, Max: 349, Multiplier: 2.0},
				{Min: 250, Max: 299, Multiplier: 1.5},
				{Min: 200, Max: 249, Multiplier: 1.0},
				{Min: 0, Max: 199, Multiplier: 0.5},
			},

			AccuracyMinMult:   0.5,
			AccuracyMaxMult:   2.0,
			EngQualityMinMult: 0.7,
			EngQualityMaxMult: 2.0,

			MinQualityMultiplier: 0.1,
			MaxQualityMultiplier: 20.0,

			AccuracyBonusRate: 0.20,
		},

		Burns: BurnParams{
			CommissionBurnRate: 0.50,
			NFTFeeRate:         0.05,
			NFTBurnRate:        0.30,
			PromotionBurnRate:  1.00,
			GovernanceBurnFlat: 1000,
			QualityPoolRate:    0.05,
			QualityBurnRate:    0.25,
		},

		Market: MarketParams{
			PriceSensitivity: 0.05,
			PriceFloor:       0.001,
		},

		Valuation: ValuationParams{
			WeightRevenueMultiple:    0.25,
			WeightUtilityDemand:      0.30,
			WeightComparableAnalysis: 0.20,
			WeightCostBasis:          0.15,
			WeightNetworkValue:       0.10,

			RevenueMultiple: 15.0,
			TokenLayerShare: 0.25,

			TargetVelocity: 2.5,
			UtilityFloor:   0.01,
			UtilityCeiling: 1.0,

			// Reference prices of comparable tokenized social platforms
			ComparablePrices: []float64{3.50, 0.25, 0.15, 0.45, 1.20},
			UtilityPremium:   0.30,

			InfrastructureShare: 0.30,

			MetcalfeK:         0.0001,
			NetworkShare:      0.20,
			NetworkPriceFloor: 0.001,
		},
	}
}

// Load reads TOML overrides on top of the defaults and validates the
// result. A missing file is an error; callers wanting pure defaults
// use Default directly.
func Load(path string) (*Params, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	p := Default()
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return p, nil
}

// Validate fails fast on misconfiguration. A silently wrong parameter
// set produces economically meaningless output, so every structural
// assumption is checked here rather than at use sites.
func (p *Params) Validate() error {
	r := p.Rewards

	sum := r.CreatorFraction + r.ShareFraction + r.ReportFraction + r.LikeFraction +
		r.DislikeFraction + r.CommentFraction + r.CommissionFraction + r.RoyaltyFraction
	if math.Abs(sum-1.0) > fractionTolerance {
		return fmt.Errorf("reward fractions sum to %.12f, want 1.0", sum)
	}

	for _, f := range []struct {
		name string
		v    float64
	}{
		{"creator_fraction", r.CreatorFraction},
		{"share_fraction", r.ShareFraction},
		{"report_fraction", r.ReportFraction},
		{"like_fraction", r.LikeFraction},
		{"dislike_fraction", r.DislikeFraction},
		{"comment_fraction", r.CommentFraction},
		{"commission_fraction", r.CommissionFraction},
		{"royalty_fraction", r.RoyaltyFraction},
	} {
		if f.v < 0 {
			return fmt.Errorf("%s is negative: %f", f.name, f.v)
		}
	}

	if r.RewardRatio <= 0 || r.RewardRatio > 1 {
		return fmt.Errorf("reward_ratio %f outside (0, 1]", r.RewardRatio)
	}
	if r.EngagementLogDivisor <= 0 {
		return fmt.Errorf("engagement_log_divisor must be positive, got %f", r.EngagementLogDivisor)
	}
	if r.ViewLogDivisor <= 0 {
		return fmt.Errorf("view_log_divisor must be positive, got %f", r.ViewLogDivisor)
	}

	if r.AccuracyMinMult >= r.AccuracyMaxMult {
		return fmt.Errorf("accuracy multiplier bounds inverted: [%f, %f]", r.AccuracyMinMult, r.AccuracyMaxMult)
	}
	if r.EngQualityMinMult >= r.EngQualityMaxMult {
		return fmt.Errorf("engagement quality multiplier bounds inverted: [%f, %f]", r.EngQualityMinMult, r.EngQualityMaxMult)
	}
	if r.MinQualityMultiplier <= 0 || r.MinQualityMultiplier >= r.MaxQualityMultiplier {
		return fmt.Errorf("quality multiplier clamp inverted: [%f, %f]", r.MinQualityMultiplier, r.MaxQualityMultiplier)
	}
	if r.AccuracyBonusRate < 0 {
		return fmt.Errorf("accuracy_bonus_rate is negative: %f", r.AccuracyBonusRate)
	}

	if err := validateBands(r.CredibilityBands); err != nil {
		return err
	}

	b := p.Burns
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"commission_burn_rate", b.CommissionBurnRate},
		{"nft_fee_rate", b.NFTFeeRate},
		{"nft_burn_rate", b.NFTBurnRate},
		{"promotion_burn_rate", b.PromotionBurnRate},
		{"governance_burn_flat", b.GovernanceBurnFlat},
		{"quality_pool_rate", b.QualityPoolRate},
		{"quality_burn_rate", b.QualityBurnRate},
	} {
		if f.v < 0 {
			return fmt.Errorf("%s is negative: %f", f.name, f.v)
		}
	}

	if p.Market.PriceSensitivity < 0 {
		return fmt.Errorf("price_sensitivity is negative: %f", p.Market.PriceSensitivity)
	}
	if p.Market.PriceFloor <= 0 {
		return fmt.Errorf("price_floor must be positive, got %f", p.Market.PriceFloor)
	}

	v := p.Valuation
	wsum := v.WeightRevenueMultiple + v.WeightUtilityDemand + v.WeightComparableAnalysis +
		v.WeightCostBasis + v.WeightNetworkValue
	if math.Abs(wsum-1.0) > fractionTolerance {
		return fmt.Errorf("valuation weights sum to %.12f, want 1.0", wsum)
	}
	if v.TargetVelocity <= 0 {
		return fmt.Errorf("target_velocity must be positive, got %f", v.TargetVelocity)
	}
	if v.UtilityFloor >= v.UtilityCeiling {
		return fmt.Errorf("utility clamp inverted: [%f, %f]", v.UtilityFloor, v.UtilityCeiling)
	}
	if len(v.ComparablePrices) == 0 {
		return fmt.Errorf("comparable_prices is empty")
	}
	if v.NetworkPriceFloor <= 0 {
		return fmt.Errorf("network_price_floor must be positive, got %f", v.NetworkPriceFloor)
	}

	return nil
}

// validateBands checks that credibility bands tile [0, 500] with no
// gaps or overlap, so exactly one band matches any score.
func validateBands(bands []CredibilityBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("credibility_bands is empty")
	}

	sorted := make([]CredibilityBand, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	if sorted[0].Min != 0 {
		return fmt.Errorf("credibility bands must start at 0, got %d", sorted[0].Min)
	}
	for i, band := range sorted {
		if band.Min > band.Max {
			return fmt.Errorf("credibility band [%d, %d] inverted", band.Min, band.Max)
		}
		if i > 0 && band.Min != sorted[i-1].Max+1 {
			return fmt.Errorf("credibility bands have a gap or overlap at %d", band.Min)
		}
	}
	if sorted[len(sorted)-1].Max != 500 {
		return fmt.Errorf("credibility bands must end at 500, got %d", sorted[len(sorted)-1].Max)
	}
	return nil
}

// ValuationWeightSet assembles the weights struct from the flat fields.
func (p *Params) ValuationWeightSet() domain.ValuationWeights {
	v := p.Valuation
	return domain.ValuationWeights{
		RevenueMultiple:    v.WeightRevenueMultiple,
		UtilityDemand:      v.WeightUtilityDemand,
		ComparableAnalysis: v.WeightComparableAnalysis,
		CostBasis:          v.WeightCostBasis,
		NetworkValue:       v.WeightNetworkValue,
	}
}

// Hash returns a short digest of the full parameter set, used to make
// run IDs sensitive to configuration changes. fmt prints map keys in
// sorted order, so the digest is deterministic.
func (p *Params) Hash() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%+v", *p)))
	return hex.EncodeToString(h[:8])
}
