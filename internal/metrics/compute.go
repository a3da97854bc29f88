// Package metrics computes run-level aggregates over day records.
package metrics

import (
	"sort"

	"viwo-token-lab/internal/domain"
)

// ComputeRunAggregate summarizes a run's day records. Records are
// re-sorted by day index before order-dependent metrics (drawdown) so
// callers need not guarantee ordering. Starting price and supply come
// from the run metadata; the records only carry closing state.
func ComputeRunAggregate(run *domain.SimulationRun, records []*domain.DayRecord) *domain.RunAggregate {
	agg := &domain.RunAggregate{
		RunID:         run.RunID,
		ScenarioID:    run.ScenarioID,
		InitialPrice:  run.InitialPrice,
		InitialSupply: run.InitialSupply,
	}

	n := len(records)
	if n == 0 {
		return agg
	}

	sorted := make([]*domain.DayRecord, n)
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	prices := make([]float64, n)
	totalMinted := 0.0
	totalBurned := 0.0
	sumInflation := 0.0
	peakInflation := 0.0
	sumVelocity := 0.0
	for i, rec := range sorted {
		prices[i] = rec.CurrentPrice
		totalMinted += rec.TotalRewards
		totalBurned += rec.TotalBurns
		sumInflation += rec.InflationRate
		if rec.InflationRate > peakInflation {
			peakInflation = rec.InflationRate
		}
		sumVelocity += rec.Velocity
	}

	sortedPrices := make([]float64, n)
	copy(sortedPrices, prices)
	sort.Float64s(sortedPrices)

	last := sorted[n-1]

	agg.Days = n
	agg.FinalPrice = last.CurrentPrice
	agg.PriceMin = sortedPrices[0]
	agg.PriceMax = sortedPrices[n-1]
	agg.PriceMedian = computePercentile(sortedPrices, 0.50)
	agg.PriceP10 = computePercentile(sortedPrices, 0.10)
	agg.PriceP25 = computePercentile(sortedPrices, 0.25)
	agg.PriceP75 = computePercentile(sortedPrices, 0.75)
	agg.PriceP90 = computePercentile(sortedPrices, 0.90)
	agg.MaxPriceDrawdown = computeMaxDrawdown(prices)

	agg.FinalSupply = last.TotalSupply
	agg.TotalMinted = totalMinted
	agg.TotalBurned = totalBurned

	agg.MeanInflation = sumInflation / float64(n)
	agg.PeakInflation = peakInflation
	agg.MeanVelocity = sumVelocity / float64(n)

	if run.InitialPrice > 0 {
		agg.PriceReturn = last.CurrentPrice/run.InitialPrice - 1
	}
	if run.InitialSupply > 0 {
		agg.SupplyChangePct = (last.TotalSupply - run.InitialSupply) / run.InitialSupply
	}

	return agg
}

// computePercentile uses linear interpolation over pre-sorted values.
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// computeMaxDrawdown finds the worst relative peak-to-trough decline
// across the chronological price series.
func computeMaxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}

	peak := prices[0]
	maxDrawdown := 0.0
	for _, p := range prices {
		if p > peak {
			peak = p
		}
		if peak > 0 {
			drawdown := (peak - p) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}
