package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default params failed validation: %v", err)
	}
}

func TestValidate_FractionsMustSumToOne(t *testing.T) {
	p := Default()
	p.Rewards.CreatorFraction = 0.45 // breaks the 1.0 sum

	if err := p.Validate(); err == nil {
		t.Fatal("expected error for fractions not summing to 1.0")
	}
}

func TestValidate_NegativeFractionRejected(t *testing.T) {
	p := Default()
	p.Rewards.DislikeFraction = -0.02
	p.Rewards.LikeFraction = 0.12 // keep the sum at 1.0

	if err := p.Validate(); err == nil {
		t.Fatal("expected error for negative fraction")
	}
}

func TestValidate_InvertedQualityClamp(t *testing.T) {
	p := Default()
	p.Rewards.MinQualityMultiplier = 25.0

	if err := p.Validate(); err == nil {
		t.Fatal("expected error for inverted quality clamp")
	}
}

func TestValidate_InvertedAccuracyBounds(t *testing.T) {
	p := Default()
	p.Rewards.AccuracyMinMult = 3.0

	if err := p.Validate(); err == nil {
		t.Fatal("expected error for inverted accuracy bounds")
	}
}

func TestValidate_CredibilityBandGap(t *testing.T) {
	p := Default()
	// Open a gap between 199 and 250
	for i, band := range p.Rewards.CredibilityBands {
		if band.Min == 200 {
			p.Rewards.CredibilityBands[i].Min = 250
		}
	}

	if err := p.Validate(); err == nil {
		t.Fatal("expected error for credibility band gap")
	}
}

func TestValidate_ValuationWeightsMustSumToOne(t *testing.T) {
	p := Default()
	p.Valuation.WeightNetworkValue = 0.20

	if err := p.Validate(); err == nil {
		t.Fatal("expected error for valuation weights not summing to 1.0")
	}
}

func TestValidate_PriceFloorMustBePositive(t *testing.T) {
	p := Default()
	p.Market.PriceFloor = 0

	if err := p.Validate(); err == nil {
		t.Fatal("expected error for zero price floor")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.toml")

	content := `
[market]
price_sensitivity = 0.10

[burns]
governance_burn_flat = 500
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if p.Market.PriceSensitivity != 0.10 {
		t.Errorf("expected overridden sensitivity 0.10, got %f", p.Market.PriceSensitivity)
	}
	if p.Burns.GovernanceBurnFlat != 500 {
		t.Errorf("expected overridden governance burn 500, got %f", p.Burns.GovernanceBurnFlat)
	}
	// Untouched values keep defaults
	if p.Rewards.CreatorFraction != 0.40 {
		t.Errorf("expected default creator fraction 0.40, got %f", p.Rewards.CreatorFraction)
	}
}

func TestLoad_RejectsInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.toml")

	content := `
[rewards]
creator_fraction = 0.90
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for broken fraction sum")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestHash_Deterministic(t *testing.T) {
	a := Default().Hash()
	b := Default().Hash()
	if a != b {
		t.Fatalf("hash not deterministic: %s vs %s", a, b)
	}

	p := Default()
	p.Market.PriceSensitivity = 0.06
	if p.Hash() == a {
		t.Fatal("hash did not change with parameters")
	}
}
