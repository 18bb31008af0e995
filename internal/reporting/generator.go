// Package reporting aggregates matched-signal results into per-product
// metrics and renders them as Markdown or CSV.
package reporting

import (
	"sort"
	"time"

	"futures-lab/internal/domain"
)

// Generator produces reports from matched signals.
type Generator struct {
	now func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the report over all matched signals.
func (g *Generator) Generate(matched []domain.MatchedSignal) *Report {
	byProduct := make(map[string][]domain.MatchedSignal)
	for _, m := range matched {
		byProduct[m.Product] = append(byProduct[m.Product], m)
	}

	products := make([]string, 0, len(byProduct))
	for p := range byProduct {
		products = append(products, p)
	}
	sort.Strings(products)

	report := &Report{
		GeneratedAt:  g.now(),
		ProductCount: len(products),
		TradeCount:   len(matched),
	}
	for _, m := range matched {
		if report.DateRangeStart == "" || m.OpenDate < report.DateRangeStart {
			report.DateRangeStart = m.OpenDate
		}
		if m.OpenDate > report.DateRangeEnd {
			report.DateRangeEnd = m.OpenDate
		}
	}

	for _, product := range products {
		report.ProductMetrics = append(report.ProductMetrics, productRow(product, byProduct[product]))
	}
	return report
}

// productRow computes one product's metrics. Trades are ordered by open
// date (then close date) before the order-dependent metrics.
func productRow(product string, trades []domain.MatchedSignal) ProductMetricRow {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].OpenDate != trades[j].OpenDate {
			return trades[i].OpenDate < trades[j].OpenDate
		}
		return trades[i].CloseDate < trades[j].CloseDate
	})

	profits := make([]float64, len(trades))
	wins := 0
	total := 0.0
	for i, t := range trades {
		profits[i] = t.TotalProfit.InexactFloat64()
		total += profits[i]
		if profits[i] > 0 {
			wins++
		}
	}
	sorted := sortedCopy(profits)

	row := ProductMetricRow{
		Product:              product,
		Trades:               len(trades),
		Wins:                 wins,
		Losses:               len(trades) - wins,
		TotalProfit:          total,
		ProfitMean:           mean(profits),
		ProfitMedian:         percentile(sorted, 0.50),
		ProfitP10:            percentile(sorted, 0.10),
		ProfitP90:            percentile(sorted, 0.90),
		MaxDrawdown:          maxDrawdown(profits),
		MaxConsecutiveLosses: maxConsecutiveLosses(profits),
	}
	if len(trades) > 0 {
		row.WinRate = float64(wins) / float64(len(trades))
	}
	return row
}
