package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(scenario_id|seed|days|params_hash), first 16 bytes
// base58-encoded for a compact identifier safe in file names and URLs.
func ComputeRunID(
	scenarioID string,
	seed int64,
	days int,
	paramsHash string,
) string {
	data := fmt.Sprintf("%s|%d|%d|%s",
		scenarioID,
		seed,
		days,
		paramsHash,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:16])
}
