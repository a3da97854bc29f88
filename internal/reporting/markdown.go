package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Token Economics Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Runs: %d | Scenarios: %d\n\n", r.RunCount, r.ScenarioCount))

	// Run Summaries
	sb.WriteString("## Run Summaries\n\n")
	if len(r.RunSummaries) > 0 {
		sb.WriteString("| Run | Scenario | Seed | Days | Final Price | Return | MaxDD | Supply Δ% | Mean Inflation | Mean Velocity |\n")
		sb.WriteString("|-----|----------|------|------|-------------|--------|-------|-----------|----------------|---------------|\n")
		for _, s := range r.RunSummaries {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %.6f | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
				s.RunID, s.ScenarioID, s.Seed, s.Days,
				s.FinalPrice, s.PriceReturn, s.MaxPriceDrawdown, s.SupplyChangePct,
				s.MeanInflation, s.MeanVelocity))
		}
	} else {
		sb.WriteString("No runs available.\n")
	}
	sb.WriteString("\n")

	// Scenario Comparison
	sb.WriteString("## Scenario Comparison\n\n")
	if len(r.ScenarioComparison) > 0 {
		sb.WriteString("| Scenario | Runs | Mean Final Price | Mean Return | Worst Drawdown | Mean Supply Δ% |\n")
		sb.WriteString("|----------|------|------------------|-------------|----------------|----------------|\n")
		for _, c := range r.ScenarioComparison {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.6f | %.4f | %.4f | %.4f |\n",
				c.ScenarioID, c.Runs,
				c.MeanFinalPrice, c.MeanPriceReturn, c.WorstDrawdown, c.MeanSupplyChangePct))
		}
	} else {
		sb.WriteString("No scenario comparison available.\n")
	}
	sb.WriteString("\n")

	// Valuations
	sb.WriteString("## Cold-Start Valuations\n\n")
	if len(r.Valuations) > 0 {
		sb.WriteString("| Valuation | Scenario | Recommended Price | Confidence Low | Confidence High |\n")
		sb.WriteString("|-----------|----------|-------------------|----------------|----------------|\n")
		for _, v := range r.Valuations {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.6f | %.6f | %.6f |\n",
				v.ValuationID, v.ScenarioID,
				v.RecommendedPrice, v.ConfidenceLow, v.ConfidenceHigh))
		}
	} else {
		sb.WriteString("No valuations available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
