package domain

// ActivityBatch is one day's pre-built exogenous input to the engine.
// Batches come from an activity generator (or a test fixture); the
// engine itself never draws randomness.
type ActivityBatch struct {
	Day int

	ActiveUsers int64
	NewUsers    int64
	Revenue     float64 // USD

	Items []*ContentItem

	// Auxiliary figures feeding the burn aggregator
	NFTVolume           float64 // token-denominated trading volume
	PromotionSpend      float64 // tokens spent boosting content
	GovernanceProposals int64
}

// ContentCount returns the number of items in the batch.
func (b *ActivityBatch) ContentCount() int64 {
	return int64(len(b.Items))
}
