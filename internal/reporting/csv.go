package reporting

import (
	"fmt"
	"strings"

	"viwo-token-lab/internal/domain"
)

// RenderRunSummariesCSV renders run summaries as CSV string.
func RenderRunSummariesCSV(rows []RunSummaryRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("run_id,scenario_id,seed,days,initial_price,final_price,price_return,")
	sb.WriteString("max_price_drawdown,supply_change_pct,total_minted,total_burned,")
	sb.WriteString("mean_inflation,mean_velocity\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.2f,%.2f,%.6f,%.6f\n",
			r.RunID,
			r.ScenarioID,
			r.Seed,
			r.Days,
			r.InitialPrice,
			r.FinalPrice,
			r.PriceReturn,
			r.MaxPriceDrawdown,
			r.SupplyChangePct,
			r.TotalMinted,
			r.TotalBurned,
			r.MeanInflation,
			r.MeanVelocity,
		))
	}

	return sb.String()
}

// RenderDayRecordsCSV renders one run's day records as CSV string.
func RenderDayRecordsCSV(runID string, records []*domain.DayRecord) string {
	var sb strings.Builder

	sb.WriteString("run_id,day,total_supply,circulating_supply,current_price,")
	sb.WriteString("total_rewards,total_burns,net_flow,daily_revenue,active_users,content_count,")
	sb.WriteString("inflation_rate,velocity\n")

	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%s,%d,%.2f,%.2f,%.6f,%.2f,%.2f,%.2f,%.2f,%d,%d,%.6f,%.6f\n",
			runID,
			rec.Day,
			rec.TotalSupply,
			rec.CirculatingSupply,
			rec.CurrentPrice,
			rec.TotalRewards,
			rec.TotalBurns,
			rec.NetFlow,
			rec.DailyRevenue,
			rec.ActiveUsers,
			rec.ContentCount,
			rec.InflationRate,
			rec.Velocity,
		))
	}

	return sb.String()
}
