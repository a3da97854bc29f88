package domain

// PoolSizing carries the platform-level figures that size the daily
// reward pool for a single item calculation.
type PoolSizing struct {
	DailyRevenue      float64 // USD
	CurrentPrice      float64 // USD per token
	DailyContentCount int64
}

// RewardDistribution is the full reward breakdown for one content item.
// TotalReward is the exact sum of all paid components, so
// creator + five pools + commission + royalty always reconciles.
type RewardDistribution struct {
	TotalReward   float64
	CreatorReward float64

	// Engagement pools (fixed fractions of the gross reward)
	SharePool   float64
	ReportPool  float64
	LikePool    float64
	DislikePool float64
	CommentPool float64

	// Per-action unit amounts; a zero-occurrence action leaves its
	// pool unclaimed rather than dividing by zero.
	SharePerAction   float64
	ReportPerAction  float64
	LikePerAction    float64
	DislikePerAction float64
	CommentPerAction float64

	PlatformCommission float64
	NFTRoyaltyPool     float64
}

// EngagementPoolSum returns the combined size of the five engagement pools.
func (d *RewardDistribution) EngagementPoolSum() float64 {
	return d.SharePool + d.ReportPool + d.LikePool + d.DislikePool + d.CommentPool
}
