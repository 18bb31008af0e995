package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"futures-lab/internal/domain"
)

// ReadStats counts what happened while reading one bar table.
type ReadStats struct {
	Rows    int // bars successfully decoded
	Skipped int // rows dropped (bad date, bad symbol, bad prices)
}

// Reader decodes bar table CSVs with alias-based schema resolution.
// A bad row is logged and skipped; only an unusable header fails the file.
type Reader struct {
	logger *log.Logger
}

// NewReader creates a bar table reader. A nil logger uses log.Default().
func NewReader(logger *log.Logger) *Reader {
	if logger == nil {
		logger = log.Default()
	}
	return &Reader{logger: logger}
}

// ReadFile reads one bar table CSV from disk.
func (r *Reader) ReadFile(path string) ([]domain.Bar, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("open bar table: %w", err)
	}
	defer f.Close()
	return r.Read(f, path)
}

// Read decodes a bar table from src. name is used in log context only.
func (r *Reader) Read(src io.Reader, name string) ([]domain.Bar, ReadStats, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ReadStats{}, nil
	}
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("read header of %s: %w", name, err)
	}

	schema, err := ResolveSchema(header)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("%s: %w", name, err)
	}

	var bars []domain.Bar
	var stats ReadStats
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			stats.Skipped++
			r.logger.Printf("skip %s:%d: %v", name, line, err)
			continue
		}

		bar, err := decodeBar(schema, record)
		if err != nil {
			stats.Skipped++
			r.logger.Printf("skip %s:%d: %v", name, line, err)
			continue
		}
		bars = append(bars, bar)
		stats.Rows++
	}
	return bars, stats, nil
}

func decodeBar(schema Schema, record []string) (domain.Bar, error) {
	get := func(field Field) string {
		i, ok := schema[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := domain.ParseDate(get(FieldDate))
	if err != nil {
		return domain.Bar{}, err
	}

	symbol := get(FieldContract)
	contract, err := domain.ParseContract(symbol)
	if err != nil {
		return domain.Bar{}, err
	}

	bar := domain.Bar{
		Date:     date,
		Contract: contract.Symbol,
		Product:  contract.Product,
		Exchange: get(FieldExchange),
	}

	prices := []struct {
		field Field
		dst   *float64
	}{
		{FieldOpen, &bar.Open},
		{FieldHigh, &bar.High},
		{FieldLow, &bar.Low},
		{FieldClose, &bar.Close},
	}
	for _, p := range prices {
		v, err := strconv.ParseFloat(get(p.field), 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("bad %s value %q", p.field, get(p.field))
		}
		*p.dst = v
	}

	if raw := get(FieldSettlement); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			bar.Settlement = &v
		}
	}

	bar.Volume = parseCount(get(FieldVolume))
	bar.OpenInterest = parseCount(get(FieldOpenInterest))
	return bar, nil
}

// parseCount reads a non-negative integer count. Sources occasionally write
// counts with a float rendering ("1200.0"); truncate rather than reject.
func parseCount(raw string) int64 {
	if raw == "" {
		return 0
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if v < 0 {
			return 0
		}
		return v
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 {
		return int64(f)
	}
	return 0
}
