package reporting

import "time"

// Report summarizes a batch of matched signals.
type Report struct {
	// Metadata
	GeneratedAt  time.Time
	ProductCount int
	TradeCount   int

	// Date range of the underlying signals (open dates, ISO).
	DateRangeStart string
	DateRangeEnd   string

	// Per-product metrics, sorted by product code.
	ProductMetrics []ProductMetricRow
}

// ProductMetricRow is one product's aggregate over its matched signals.
type ProductMetricRow struct {
	Product     string
	Trades      int
	Wins        int
	Losses      int
	WinRate     float64
	TotalProfit float64

	// Per-trade profit distribution.
	ProfitMean   float64
	ProfitMedian float64
	ProfitP10    float64
	ProfitP90    float64

	// Order-dependent over trades sorted by open date.
	MaxDrawdown          float64
	MaxConsecutiveLosses int
}
