package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeDayRecordID computes a deterministic day_record_id using SHA256.
// Formula: SHA256(run_id|day)
// Returns hex-encoded hash (64 characters).
func ComputeDayRecordID(runID string, day int) string {
	data := fmt.Sprintf("%s|%d", runID, day)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
