// Package engine owns the platform's economic state and advances it
// one simulated day at a time. The engine is deterministic: all
// randomness lives in the activity generator feeding it batches.
package engine

import (
	"errors"

	"viwo-token-lab/internal/burn"
	"viwo-token-lab/internal/config"
	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/reward"
)

// Simulator errors
var (
	ErrNilBatch = errors.New("nil activity batch")
)

// Simulator holds the mutable economic state. One instance supports
// exactly one caller; parallel scenarios need one simulator each.
type Simulator struct {
	params *config.Params
	state  domain.EconomicState

	calc  *reward.Calculator
	burns *burn.Aggregator

	day int
}

// Options configures a new Simulator.
type Options struct {
	Params *config.Params

	InitialSupply float64
	InitialPrice  float64
	StakedSupply  float64
}

// NewSimulator validates the parameter set and seeds the initial state.
func NewSimulator(opts Options) (*Simulator, error) {
	if opts.Params == nil {
		return nil, errors.New("params required")
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if opts.InitialSupply <= 0 {
		return nil, errors.New("initial supply must be positive")
	}
	if opts.InitialPrice <= 0 {
		return nil, errors.New("initial price must be positive")
	}
	if opts.StakedSupply < 0 || opts.StakedSupply > opts.InitialSupply {
		return nil, errors.New("staked supply outside [0, initial supply]")
	}

	return &Simulator{
		params: opts.Params,
		state: domain.EconomicState{
			TotalSupply:       opts.InitialSupply,
			CirculatingSupply: opts.InitialSupply,
			StakedSupply:      opts.StakedSupply,
			CurrentPrice:      opts.InitialPrice,
		},
		calc:  reward.NewCalculator(opts.Params),
		burns: burn.NewAggregator(opts.Params),
	}, nil
}

// State returns a copy of the current economic state.
func (s *Simulator) State() domain.EconomicState {
	return s.state
}

// Day returns the number of days advanced so far.
func (s *Simulator) Day() int {
	return s.day
}

// AdvanceDay consumes one activity batch and returns the day's record.
// Steps, in strict order:
//  1. Overwrite exogenous inputs from the batch
//  2. Reward every content item, summing the day's total
//  3. Derive burn inputs and aggregate burns
//  4. Fold net flow into total and circulating supply
//  5. Update price from demand/supply pressure, clamp to the floor
//  6. Attach derived metrics
func (s *Simulator) AdvanceDay(batch *domain.ActivityBatch) (*domain.DayRecord, error) {
	if batch == nil {
		return nil, ErrNilBatch
	}

	// 1. Exogenous inputs
	s.state.DailyActiveUsers = batch.ActiveUsers
	s.state.DailyRevenue = batch.Revenue
	s.state.DailyContentCount = batch.ContentCount()

	// 2. Per-item rewards
	sizing := domain.PoolSizing{
		DailyRevenue:      s.state.DailyRevenue,
		CurrentPrice:      s.state.CurrentPrice,
		DailyContentCount: s.state.DailyContentCount,
	}

	totalRewards := 0.0
	distributions := make([]*domain.RewardDistribution, 0, len(batch.Items))
	for _, item := range batch.Items {
		d := s.calc.Distribute(item, sizing)
		distributions = append(distributions, d)
		totalRewards += d.TotalReward
	}

	// 3. Burns
	totalBurns, breakdown := s.burns.Burns(burn.Inputs{
		TotalRewards:        totalRewards,
		NFTVolume:           batch.NFTVolume,
		PromotionSpend:      batch.PromotionSpend,
		GovernanceProposals: batch.GovernanceProposals,
	})

	// 4. Supply
	netFlow := totalRewards - totalBurns
	s.state.TotalSupply += netFlow
	s.state.CirculatingSupply += netFlow

	// 5. Price
	supplyDenom := s.state.TotalSupply
	if supplyDenom < 1 {
		supplyDenom = 1
	}
	supplyPressure := netFlow / supplyDenom
	demandPressure := float64(batch.NewUsers) / float64(maxInt64(1, batch.ActiveUsers))
	s.state.CurrentPrice *= 1 + (demandPressure-supplyPressure)*s.params.Market.PriceSensitivity
	if s.state.CurrentPrice < s.params.Market.PriceFloor {
		s.state.CurrentPrice = s.params.Market.PriceFloor
	}

	s.day++

	// 6. Record with derived metrics
	return &domain.DayRecord{
		Day: s.day - 1,

		TotalSupply:       s.state.TotalSupply,
		CirculatingSupply: s.state.CirculatingSupply,
		CurrentPrice:      s.state.CurrentPrice,

		TotalRewards: totalRewards,
		TotalBurns:   totalBurns,
		NetFlow:      netFlow,

		DailyRevenue: s.state.DailyRevenue,
		ActiveUsers:  s.state.DailyActiveUsers,
		ContentCount: s.state.DailyContentCount,

		InflationRate: netFlow / supplyDenom * 365,
		Velocity:      s.velocity(totalRewards),

		BurnBreakdown: breakdown,
		Distributions: distributions,
	}, nil
}

// velocity annualizes the day's transacted amount against un-staked
// circulating supply.
func (s *Simulator) velocity(dailyVolume float64) float64 {
	activeSupply := s.state.CirculatingSupply - s.state.StakedSupply
	if activeSupply < 1 {
		activeSupply = 1
	}
	return dailyVolume / activeSupply * 365
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
