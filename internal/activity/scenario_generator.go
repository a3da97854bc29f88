package activity

import (
	"math"
	"math/rand"

	"viwo-token-lab/internal/domain"
)

// Category sampling distribution: podcasts are rare, short video
// dominates.
var categoryDistribution = []struct {
	category domain.Category
	weight   float64
}{
	{domain.CategoryPodcast, 0.05},
	{domain.CategoryLongVideo, 0.15},
	{domain.CategoryShortVideo, 0.60},
	{domain.CategoryTextPost, 0.20},
}

// Per-category audience engagement rates.
var engagementRates = map[domain.Category]float64{
	domain.CategoryPodcast:    0.03,
	domain.CategoryLongVideo:  0.05,
	domain.CategoryShortVideo: 0.12,
	domain.CategoryTextPost:   0.08,
}

// Engagement action split over total engaged viewers.
const (
	shareSplit   = 0.15
	reportSplit  = 0.03
	likeSplit    = 0.65
	dislikeSplit = 0.07
	commentSplit = 0.20
)

// S-curve midpoint in days.
const growthMidpointDay = 365

// ScenarioGenerator draws daily activity from a growth scenario using
// an owned, explicitly seeded random source. Two generators built with
// the same scenario and seed produce identical batches. Day must be
// called with consecutive indices starting at 0: the random stream
// advances with each call.
type ScenarioGenerator struct {
	scenario domain.GrowthScenario
	rng      *rand.Rand
}

// NewScenarioGenerator creates a seeded generator for a scenario.
func NewScenarioGenerator(scenario domain.GrowthScenario, seed int64) *ScenarioGenerator {
	return &ScenarioGenerator{
		scenario: scenario,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Day builds the batch for one day. Days with no active users are
// rejected here so the engine never needs to handle them.
func (g *ScenarioGenerator) Day(day int) (*domain.ActivityBatch, error) {
	s := g.scenario

	users := g.usersAt(day)
	if users < 1 {
		return nil, ErrNoUsers
	}

	prevUsers := 0.0
	if day > 0 {
		prevUsers = g.usersAt(day - 1)
	}
	newUsers := math.Max(0, users-prevUsers)

	contentCount := int(users * s.ContentCreationRate)
	items := make([]*domain.ContentItem, 0, contentCount)
	for i := 0; i < contentCount; i++ {
		category := g.sampleCategory()
		items = append(items, g.contentItem(category, users))
	}

	// Revenue scales sublinearly with the audience
	revenue := s.BaseDailyRevenue * math.Pow(users/100_000, 0.8)

	proposals := int64(users) / s.UsersPerProposal
	if proposals < 1 {
		proposals = 1
	}

	return &domain.ActivityBatch{
		Day:         day,
		ActiveUsers: int64(users),
		NewUsers:    int64(newUsers),
		Revenue:     revenue,
		Items:       items,

		NFTVolume:           revenue * s.NFTVolumeShare,
		PromotionSpend:      revenue * s.PromotionShare,
		GovernanceProposals: proposals,
	}, nil
}

// usersAt evaluates the S-curve at a day index.
func (g *ScenarioGenerator) usersAt(day int) float64 {
	s := g.scenario
	return float64(s.MaxUsers) / (1 + math.Exp(-s.GrowthRate*float64(day-growthMidpointDay)))
}

// sampleCategory draws a category from the fixed distribution.
func (g *ScenarioGenerator) sampleCategory() domain.Category {
	roll := g.rng.Float64()
	cumulative := 0.0
	for _, entry := range categoryDistribution {
		cumulative += entry.weight
		if roll < cumulative {
			return entry.category
		}
	}
	return domain.CategoryTextPost
}

// contentItem draws engagement counters and quality scores for one item.
func (g *ScenarioGenerator) contentItem(category domain.Category, totalUsers float64) *domain.ContentItem {
	potentialAudience := totalUsers * 0.4
	views := int64(potentialAudience * engagementRates[category] * g.uniform(0.1, 5.0))

	engagementRate := g.uniform(0.05, 0.30)
	totalEngagement := float64(views) * engagementRate

	item := &domain.ContentItem{
		Category: category,
		Views:    views,

		Shares:   int64(totalEngagement * shareSplit),
		Reports:  int64(totalEngagement * reportSplit),
		Likes:    int64(totalEngagement * likeSplit),
		Dislikes: int64(totalEngagement * dislikeSplit),
		Comments: int64(totalEngagement * commentSplit),

		CreatorCredibility: g.intBetween(200, 500),
		AccuracyRating:     g.intBetween(60, 100),
		EngagementQuality:  g.intBetween(40, 95),
	}

	switch category {
	case domain.CategoryPodcast:
		item.DurationMinutes = g.uniform(15, 120)
	case domain.CategoryLongVideo:
		item.DurationMinutes = g.uniform(5, 60)
	case domain.CategoryShortVideo:
		item.DurationMinutes = g.uniform(0.25, 5)
	}

	return item
}

func (g *ScenarioGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *ScenarioGenerator) intBetween(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}
