package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders product metrics as a CSV string.
func RenderCSV(metrics []ProductMetricRow) string {
	var sb strings.Builder

	sb.WriteString("product,trades,wins,losses,win_rate,total_profit,")
	sb.WriteString("profit_mean,profit_median,profit_p10,profit_p90,")
	sb.WriteString("max_drawdown,max_consecutive_losses\n")

	for _, m := range metrics {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%d\n",
			m.Product,
			m.Trades,
			m.Wins,
			m.Losses,
			m.WinRate,
			m.TotalProfit,
			m.ProfitMean,
			m.ProfitMedian,
			m.ProfitP10,
			m.ProfitP90,
			m.MaxDrawdown,
			m.MaxConsecutiveLosses,
		))
	}

	return sb.String()
}
