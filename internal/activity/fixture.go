package activity

import "viwo-token-lab/internal/domain"

// FixtureGenerator replays a prepared sequence of batches. Used by
// tests and replay tooling in place of the stochastic generator.
type FixtureGenerator struct {
	batches []*domain.ActivityBatch
}

// NewFixtureGenerator wraps prepared batches.
func NewFixtureGenerator(batches []*domain.ActivityBatch) *FixtureGenerator {
	return &FixtureGenerator{batches: batches}
}

// Day returns the prepared batch for the day index.
func (g *FixtureGenerator) Day(day int) (*domain.ActivityBatch, error) {
	if day < 0 || day >= len(g.batches) {
		return nil, ErrDayOutOfRange
	}
	batch := g.batches[day]
	if batch.ActiveUsers < 1 {
		return nil, ErrNoUsers
	}
	return batch, nil
}

// Compile-time interface checks.
var (
	_ Generator = (*ScenarioGenerator)(nil)
	_ Generator = (*FixtureGenerator)(nil)
)
