// Command match opens positions from a signal table against majors tables
// and writes the ledger, the daily summaries and the matched signals.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"futures-lab/internal/domain"
	"futures-lab/internal/match"
	"futures-lab/internal/strategy"
	"futures-lab/internal/table"
)

func main() {
	signalsPath := flag.String("signals", "data/out/signals.csv", "signal table CSV")
	majorsDir := flag.String("majors-dir", "data/out", "directory containing *_major.csv tables")
	out := flag.String("out", "data/out", "output directory")
	holdingDays := flag.Int("holding-days", match.DefaultHoldingDays, "trading sessions to hold each position")
	flag.Parse()

	logger := log.New(os.Stderr, "[match] ", log.LstdFlags)

	signals, err := strategy.ReadSignals(*signalsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading signals: %v\n", err)
		os.Exit(1)
	}

	majors, err := readMajorsDir(logger, *majorsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading majors: %v\n", err)
		os.Exit(1)
	}
	if len(majors) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no majors rows under %s\n", *majorsDir)
		os.Exit(1)
	}

	tracker := match.NewTracker(majors, match.Options{
		HoldingDays: *holdingDays,
		Logger:      logger,
	})
	result := tracker.Run(signals)
	logger.Printf("matched=%d skipped=%d ledger_days_skipped=%d",
		result.Stats.SignalsMatched, result.Stats.SignalsSkipped, result.Stats.DaysSkipped)

	outputs := []struct {
		name  string
		write func(string) error
	}{
		{"ledger.csv", func(p string) error { return match.WriteLedger(p, result.Ledger) }},
		{"daily_summary.csv", func(p string) error { return match.WriteSummaries(p, result.Summaries) }},
		{"matched_signals.csv", func(p string) error { return match.WriteMatched(p, result.Matched) }},
	}
	for _, o := range outputs {
		path := filepath.Join(*out, o.name)
		if err := o.write(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		logger.Printf("wrote %s", path)
	}
}

// readMajorsDir loads every *_major.csv under dir into one bar slice.
func readMajorsDir(logger *log.Logger, dir string) ([]domain.Bar, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_major.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	reader := table.NewReader(logger)
	var bars []domain.Bar
	for _, path := range paths {
		fileBars, stats, err := reader.ReadFile(path)
		if err != nil {
			logger.Printf("skip %s: %v", path, err)
			continue
		}
		logger.Printf("read %s: %d rows, %d skipped", path, stats.Rows, stats.Skipped)
		bars = append(bars, fileBars...)
	}
	return bars, nil
}
