package domain

// GrowthScenario parameterizes activity generation for one simulation
// run: S-curve user growth, content production and revenue scaling.
type GrowthScenario struct {
	ScenarioID string

	MaxUsers   int64   // S-curve ceiling
	GrowthRate float64 // S-curve steepness per day

	ContentCreationRate float64 // fraction of active users producing per day
	BaseDailyRevenue    float64 // USD at the 100k-user reference point

	NFTVolumeShare   float64 // NFT trading volume as fraction of revenue
	PromotionShare   float64 // promotion spend as fraction of revenue
	UsersPerProposal int64   // one governance proposal per this many users
}

// Scenario ID constants
const (
	ScenarioConservative = "conservative"
	ScenarioBaseline     = "baseline"
	ScenarioAggressive   = "aggressive"
)

// Predefined growth scenarios.
var (
	ScenarioConfigConservative = GrowthScenario{
		ScenarioID:          ScenarioConservative,
		MaxUsers:            500_000,
		GrowthRate:          0.005,
		ContentCreationRate: 0.03,
		BaseDailyRevenue:    30_000,
		NFTVolumeShare:      0.05,
		PromotionShare:      0.02,
		UsersPerProposal:    50_000,
	}

	ScenarioConfigBaseline = GrowthScenario{
		ScenarioID:          ScenarioBaseline,
		MaxUsers:            1_000_000,
		GrowthRate:          0.008,
		ContentCreationRate: 0.05,
		BaseDailyRevenue:    50_000,
		NFTVolumeShare:      0.05,
		PromotionShare:      0.02,
		UsersPerProposal:    50_000,
	}

	ScenarioConfigAggressive = GrowthScenario{
		ScenarioID:          ScenarioAggressive,
		MaxUsers:            5_000_000,
		GrowthRate:          0.012,
		ContentCreationRate: 0.08,
		BaseDailyRevenue:    100_000,
		NFTVolumeShare:      0.05,
		PromotionShare:      0.02,
		UsersPerProposal:    50_000,
	}
)

// ScenarioByID returns the predefined scenario for the given ID, or
// false if the ID is unknown.
func ScenarioByID(id string) (GrowthScenario, bool) {
	switch id {
	case ScenarioConservative:
		return ScenarioConfigConservative, true
	case ScenarioBaseline:
		return ScenarioConfigBaseline, true
	case ScenarioAggressive:
		return ScenarioConfigAggressive, true
	default:
		return GrowthScenario{}, false
	}
}
