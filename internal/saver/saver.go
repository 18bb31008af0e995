// Package saver persists raw daily-bar packets fetched by the crawler.
// The crawler depends only on the PacketSaver interface; the concrete
// format (csv, json, parquet) is chosen at startup.
package saver

import (
	"errors"
	"fmt"
	"strings"

	"futures-lab/internal/domain"
)

// ErrUnknownFormat is returned by New for unsupported format names.
var ErrUnknownFormat = errors.New("unknown saver format")

// Record is the flat on-disk form of one daily bar. Settlement is optional:
// not every exchange publishes one.
type Record struct {
	Date         string   `json:"date" parquet:"date"`
	Contract     string   `json:"contract" parquet:"contract"`
	Exchange     string   `json:"exchange,omitempty" parquet:"exchange,optional"`
	Open         float64  `json:"open" parquet:"open"`
	High         float64  `json:"high" parquet:"high"`
	Low          float64  `json:"low" parquet:"low"`
	Close        float64  `json:"close" parquet:"close"`
	Settlement   *float64 `json:"settlement,omitempty" parquet:"settlement,optional"`
	Volume       int64    `json:"volume" parquet:"volume"`
	OpenInterest int64    `json:"open_interest" parquet:"open_interest"`
}

// FromBars converts domain bars into flat records.
func FromBars(bars []domain.Bar) []Record {
	records := make([]Record, len(bars))
	for i, b := range bars {
		records[i] = Record{
			Date:         b.Date,
			Contract:     b.Contract,
			Exchange:     b.Exchange,
			Open:         b.Open,
			High:         b.High,
			Low:          b.Low,
			Close:        b.Close,
			Settlement:   b.Settlement,
			Volume:       b.Volume,
			OpenInterest: b.OpenInterest,
		}
	}
	return records
}

// PacketSaver saves one packet of bars to a file.
type PacketSaver interface {
	Save(records []Record, path string) error
	Extension() string
}

// New creates a PacketSaver by format name (csv, json, parquet).
func New(format string) (PacketSaver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}, nil
	case "json":
		return JSONSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want csv, json or parquet)", ErrUnknownFormat, format)
	}
}
