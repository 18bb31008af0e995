// Command signals runs the cross-sectional momentum strategy over product
// index tables and writes the signal table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"futures-lab/internal/index"
	"futures-lab/internal/strategy"
)

func main() {
	indexDir := flag.String("index-dir", "data/out", "directory containing *_index.csv tables")
	out := flag.String("out", "data/out/signals.csv", "output signal CSV")
	strengthPct := flag.Float64("strength-pct", 0.1, "fraction of qualifying products taken per side")
	refDays := flag.Int("ref-days", 5, "trading days back for the reference close")
	volThreshold := flag.Int64("vol-threshold", 0, "minimum total volume per (date, product)")
	oiThreshold := flag.Int64("oi-threshold", 0, "minimum total open interest per (date, product)")
	tradeAmount := flag.Float64("trade-amount", 100000, "notional amount per signal")
	flag.Parse()

	logger := log.New(os.Stderr, "[signals] ", log.LstdFlags)

	s, err := strategy.NewCrossSectional(strategy.Options{
		StrengthPct:     *strengthPct,
		RefDays:         *refDays,
		VolumeThreshold: *volThreshold,
		OIThreshold:     *oiThreshold,
		TradeAmount:     *tradeAmount,
		Logger:          logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rows, err := readIndexDir(logger, *indexDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no index rows under %s\n", *indexDir)
		os.Exit(1)
	}

	signals := s.Generate(rows)
	if err := strategy.WriteSignals(*out, signals); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	logger.Printf("wrote %d signals -> %s", len(signals), *out)
}

// readIndexDir loads every *_index.csv under dir. A broken file is logged
// and skipped; the batch keeps going.
func readIndexDir(logger *log.Logger, dir string) ([]index.Row, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_index.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var rows []index.Row
	for _, path := range paths {
		fileRows, err := index.Read(path)
		if err != nil {
			logger.Printf("skip %s: %v", path, err)
			continue
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}
