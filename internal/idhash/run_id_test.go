package idhash

import (
	"testing"
)

func TestComputeRunID(t *testing.T) {
	tests := []struct {
		name       string
		scenarioID string
		seed       int64
		days       int
		paramsHash string
	}{
		{
			name:       "baseline run",
			scenarioID: "baseline",
			seed:       42,
			days:       365,
			paramsHash: "a1b2c3d4e5f60718",
		},
		{
			name:       "aggressive run",
			scenarioID: "aggressive",
			seed:       1234,
			days:       730,
			paramsHash: "ffeeddccbbaa9988",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRunID(tt.scenarioID, tt.seed, tt.days, tt.paramsHash)

			if got == "" {
				t.Fatal("ComputeRunID() returned empty string")
			}
			// 16 bytes base58-encode to at most 22 characters
			if len(got) > 22 {
				t.Errorf("ComputeRunID() length = %d, want <= 22", len(got))
			}

			// Verify determinism: same inputs should produce same output
			got2 := ComputeRunID(tt.scenarioID, tt.seed, tt.days, tt.paramsHash)
			if got != got2 {
				t.Errorf("ComputeRunID() not deterministic: %s != %s", got, got2)
			}
		})
	}
}

func TestComputeRunID_DifferentInputs(t *testing.T) {
	base := ComputeRunID("baseline", 42, 365, "hash")

	// Different scenario should produce different ID
	diffScenario := ComputeRunID("conservative", 42, 365, "hash")
	if base == diffScenario {
		t.Error("Different scenario should produce different ID")
	}

	// Different seed should produce different ID
	diffSeed := ComputeRunID("baseline", 43, 365, "hash")
	if base == diffSeed {
		t.Error("Different seed should produce different ID")
	}

	// Different days should produce different ID
	diffDays := ComputeRunID("baseline", 42, 366, "hash")
	if base == diffDays {
		t.Error("Different days should produce different ID")
	}

	// Different params hash should produce different ID
	diffParams := ComputeRunID("baseline", 42, 365, "other_hash")
	if base == diffParams {
		t.Error("Different params hash should produce different ID")
	}
}

func TestComputeDayRecordID(t *testing.T) {
	got := ComputeDayRecordID("run123", 7)

	if len(got) != 64 {
		t.Errorf("ComputeDayRecordID() length = %d, want 64", len(got))
	}

	got2 := ComputeDayRecordID("run123", 7)
	if got != got2 {
		t.Errorf("ComputeDayRecordID() not deterministic: %s != %s", got, got2)
	}

	if got == ComputeDayRecordID("run123", 8) {
		t.Error("Different day should produce different ID")
	}
	if got == ComputeDayRecordID("run456", 7) {
		t.Error("Different run should produce different ID")
	}
}
