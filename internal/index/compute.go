// Package index computes per-date weighted average price series across all
// of a product's contracts, weighted by volume and by open interest.
package index

import (
	"encoding/csv"
	"strconv"
	"strings"

	"futures-lab/internal/domain"
	"futures-lab/internal/table"
)

// PriceIndex holds one weight scheme's weighted OHLC averages for one date.
// Fields are nil when the date's total weight is zero (no index value).
type PriceIndex struct {
	Open  *float64
	High  *float64
	Low   *float64
	Close *float64
}

// Row is one date's product index values.
type Row struct {
	Date        string
	Exchange    string
	Product     string
	ByVolume    PriceIndex
	ByOI        PriceIndex
	TotalVolume int64
	TotalOI     int64
	Contracts   int // contracts contributing that date
}

// Compute builds the index series for one product's bar table. Rows with a
// zero weight are excluded from that weight scheme's average; dates are
// emitted in ascending order.
func Compute(bars []domain.Bar) []Row {
	byDate := make(map[string][]domain.Bar)
	for _, bar := range bars {
		byDate[bar.Date] = append(byDate[bar.Date], bar)
	}

	days := domain.TradingDays(bars)
	out := make([]Row, 0, len(days))
	for _, day := range days {
		dayBars := byDate[day]
		row := Row{Date: day, Contracts: len(dayBars)}
		if len(dayBars) > 0 {
			row.Exchange = dayBars[0].Exchange
			row.Product = dayBars[0].Product
		}
		for _, b := range dayBars {
			row.TotalVolume += b.Volume
			row.TotalOI += b.OpenInterest
		}
		row.ByVolume = weighted(dayBars, func(b domain.Bar) int64 { return b.Volume })
		row.ByOI = weighted(dayBars, func(b domain.Bar) int64 { return b.OpenInterest })
		out = append(out, row)
	}
	return out
}

// weighted computes the weight-proportional average of each OHLC field over
// the bars whose weight is positive.
func weighted(bars []domain.Bar, weight func(domain.Bar) int64) PriceIndex {
	var total int64
	for _, b := range bars {
		if w := weight(b); w > 0 {
			total += w
		}
	}
	if total == 0 {
		return PriceIndex{}
	}

	var open, high, low, last float64
	for _, b := range bars {
		w := weight(b)
		if w <= 0 {
			continue
		}
		frac := float64(w) / float64(total)
		open += b.Open * frac
		high += b.High * frac
		low += b.Low * frac
		last += b.Close * frac
	}
	return PriceIndex{Open: &open, High: &high, Low: &low, Close: &last}
}

// indexHeader mirrors the per-field weighted index column naming.
var indexHeader = []string{
	"date", "exchange", "product", "total_volume", "total_oi",
	"volume_open_index", "volume_high_index", "volume_low_index", "volume_close_index",
	"oi_open_index", "oi_high_index", "oi_low_index", "oi_close_index",
}

// OutputFilename names a product's index table.
func OutputFilename(exchange, product string) string {
	return strings.ToLower(exchange) + "_" + strings.ToLower(product) + "_index.csv"
}

// Write writes the index series CSV. Nil index values render as empty cells.
func Write(path string, rows []Row) error {
	return table.WriteAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(indexHeader); err != nil {
			return err
		}
		for i := range rows {
			r := &rows[i]
			record := []string{
				r.Date,
				r.Exchange,
				r.Product,
				strconv.FormatInt(r.TotalVolume, 10),
				strconv.FormatInt(r.TotalOI, 10),
				formatOpt(r.ByVolume.Open),
				formatOpt(r.ByVolume.High),
				formatOpt(r.ByVolume.Low),
				formatOpt(r.ByVolume.Close),
				formatOpt(r.ByOI.Open),
				formatOpt(r.ByOI.High),
				formatOpt(r.ByOI.Low),
				formatOpt(r.ByOI.Close),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

func formatOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return table.FormatPrice(*v)
}
