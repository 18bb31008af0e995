package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Signal Match Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Products: %d | Trades: %d\n\n", r.ProductCount, r.TradeCount))

	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Products | %d |\n", r.ProductCount))
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", r.TradeCount))
	sb.WriteString(fmt.Sprintf("| First Open Date | %s |\n", orNone(r.DateRangeStart)))
	sb.WriteString(fmt.Sprintf("| Last Open Date | %s |\n", orNone(r.DateRangeEnd)))
	sb.WriteString("\n")

	sb.WriteString("## Product Metrics\n\n")
	if len(r.ProductMetrics) > 0 {
		sb.WriteString("| Product | Trades | WinRate | Total | Mean | Median | P10 | P90 | MaxDD | MaxLoss |\n")
		sb.WriteString("|---------|--------|---------|-------|------|--------|-----|-----|-------|--------|\n")
		for _, m := range r.ProductMetrics {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %d |\n",
				m.Product, m.Trades, m.WinRate, m.TotalProfit,
				m.ProfitMean, m.ProfitMedian, m.ProfitP10, m.ProfitP90,
				m.MaxDrawdown, m.MaxConsecutiveLosses))
		}
	} else {
		sb.WriteString("No product metrics available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
