package domain

import "sort"

// Bar represents one trading day's record for one contract.
// Corresponds to one row of a bar table CSV.
type Bar struct {
	Date         string   // trading day, canonical ISO form YYYY-MM-DD
	Contract     string   // exchange symbol, e.g. "IF2109"
	Product      string   // alphabetic prefix of Contract, upper-cased
	Exchange     string   // exchange code
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Settlement   *float64 // exchange settlement price (nullable, not all sources publish it)
	Volume       int64
	OpenInterest int64
}

// MarkPrice returns the settlement price when present, otherwise the close.
// Daily PnL marking uses settlement by convention; close is the fallback for
// sources that do not publish one.
func (b *Bar) MarkPrice() float64 {
	if b.Settlement != nil {
		return *b.Settlement
	}
	return b.Close
}

// SortBars orders bars by date ASC, contract ASC.
// ISO dates compare chronologically as strings.
func SortBars(bars []Bar) {
	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Date != bars[j].Date {
			return bars[i].Date < bars[j].Date
		}
		return bars[i].Contract < bars[j].Contract
	})
}

// TradingDays returns the sorted unique dates present in bars.
func TradingDays(bars []Bar) []string {
	seen := make(map[string]struct{}, len(bars))
	var days []string
	for i := range bars {
		if _, ok := seen[bars[i].Date]; ok {
			continue
		}
		seen[bars[i].Date] = struct{}{}
		days = append(days, bars[i].Date)
	}
	sort.Strings(days)
	return days
}
