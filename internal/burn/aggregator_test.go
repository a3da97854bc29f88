package burn

import (
	"math"
	"testing"

	"viwo-token-lab/internal/config"
)

func TestBurns_ZeroActivityYieldsZero(t *testing.T) {
	agg := NewAggregator(config.Default())

	total, breakdown := agg.Burns(Inputs{})

	if total != 0 {
		t.Fatalf("expected zero total burn, got %f", total)
	}
	if breakdown.Total() != 0 {
		t.Fatalf("expected empty breakdown, got %+v", breakdown)
	}
}

func TestBurns_DefaultRates(t *testing.T) {
	agg := NewAggregator(config.Default())

	total, breakdown := agg.Burns(Inputs{
		TotalRewards:        100_000,
		NFTVolume:           20_000,
		PromotionSpend:      3_000,
		GovernanceProposals: 4,
	})

	// commission: 100000 * 0.10 * 0.50 = 5000
	if math.Abs(breakdown.CommissionBurn-5_000) > 1e-9 {
		t.Errorf("commission burn: got %f, want 5000", breakdown.CommissionBurn)
	}
	// nft: 20000 * 0.05 * 0.30 = 300
	if math.Abs(breakdown.NFTBurn-300) > 1e-9 {
		t.Errorf("nft burn: got %f, want 300", breakdown.NFTBurn)
	}
	// promotion: 3000 * 1.00 = 3000
	if math.Abs(breakdown.PromotionBurn-3_000) > 1e-9 {
		t.Errorf("promotion burn: got %f, want 3000", breakdown.PromotionBurn)
	}
	// governance: 4 * 1000 = 4000
	if math.Abs(breakdown.GovernanceBurn-4_000) > 1e-9 {
		t.Errorf("governance burn: got %f, want 4000", breakdown.GovernanceBurn)
	}
	// quality: 100000 * 0.05 * 0.25 = 1250
	if math.Abs(breakdown.QualityBurn-1_250) > 1e-9 {
		t.Errorf("quality burn: got %f, want 1250", breakdown.QualityBurn)
	}

	if math.Abs(total-breakdown.Total()) > 1e-9 {
		t.Errorf("total %f does not match breakdown sum %f", total, breakdown.Total())
	}
}

func TestBurns_SourcesAreIndependent(t *testing.T) {
	agg := NewAggregator(config.Default())

	// Only NFT volume present: every other source must stay zero.
	_, breakdown := agg.Burns(Inputs{NFTVolume: 10_000})

	if breakdown.CommissionBurn != 0 || breakdown.PromotionBurn != 0 ||
		breakdown.GovernanceBurn != 0 || breakdown.QualityBurn != 0 {
		t.Errorf("unrelated sources burned: %+v", breakdown)
	}
	if breakdown.NFTBurn <= 0 {
		t.Errorf("expected positive nft burn, got %f", breakdown.NFTBurn)
	}
}

func TestBurns_NegativeInputsClampToZero(t *testing.T) {
	agg := NewAggregator(config.Default())

	total, breakdown := agg.Burns(Inputs{
		TotalRewards:        -500,
		NFTVolume:           -100,
		PromotionSpend:      -10,
		GovernanceProposals: -3,
	})

	if total != 0 {
		t.Fatalf("expected zero burn for negative inputs, got %f (%+v)", total, breakdown)
	}
}
