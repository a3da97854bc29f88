// Package activity produces the exogenous daily input batches the
// engine consumes. All randomness in the system lives here, behind an
// explicitly seeded source, so the engine itself stays deterministic.
package activity

import (
	"errors"

	"viwo-token-lab/internal/domain"
)

// Generator errors
var (
	// ErrNoUsers is returned when a day's computed active-user count is
	// zero; the engine never sees such a day.
	ErrNoUsers = errors.New("activity batch has zero active users")

	// ErrDayOutOfRange is returned by fixture generators asked for a
	// day beyond their prepared batches.
	ErrDayOutOfRange = errors.New("day outside prepared fixture range")
)

// Generator supplies one pre-built activity batch per simulated day.
// Implementations must be deterministic for a fixed construction
// (seed, fixtures); the engine relies on that for reproducible runs.
type Generator interface {
	// Day returns the batch for the given day index (0-based).
	Day(day int) (*domain.ActivityBatch, error)
}
