// Command continuous stitches a product's contract bars into a continuous
// series with the chosen roll strategy and price adjustment.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"futures-lab/internal/continuous"
	"futures-lab/internal/domain"
	"futures-lab/internal/table"
)

func main() {
	input := flag.String("input", "", "merged product bar table CSV")
	dir := flag.String("dir", "", "directory of per-contract CSVs to merge (alternative to -input)")
	out := flag.String("out", "data/out", "output directory")
	roll := flag.String("roll", "volume", "roll strategy: volume, open_interest, time, fixed")
	adjust := flag.String("adjust", "backward", "adjust method: difference, ratio, backward, forward, none")
	months := flag.String("months", "", "comma-separated contract months to include, e.g. 1,5,9 (empty = all)")
	dominantDays := flag.Int("dominant-days", 30, "days before expiry to roll under the time strategy")
	rolloverDays := flag.Int("rollover-days", 5, "days before expiry to roll under the fixed strategy")
	flag.Parse()

	logger := log.New(os.Stderr, "[continuous] ", log.LstdFlags)

	rollStrategy, err := continuous.ParseRollStrategy(*roll)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	adjustMethod, err := continuous.ParseAdjustMethod(*adjust)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	contractMonths, err := parseMonths(*months)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	bars, err := readBars(logger, *input, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(bars) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no bars in input")
		os.Exit(1)
	}

	opts := continuous.Options{
		RollStrategy:   rollStrategy,
		AdjustMethod:   adjustMethod,
		ContractMonths: contractMonths,
		DominantDays:   *dominantDays,
		RolloverDays:   *rolloverDays,
	}
	series, err := continuous.NewBuilder(opts, logger).Build(bars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building series: %v\n", err)
		os.Exit(1)
	}

	path, err := continuous.WriteSeries(*out, bars[0].Product, opts, series)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing series: %v\n", err)
		os.Exit(1)
	}
	logger.Printf("wrote %d bars -> %s", len(series), path)
}

func parseMonths(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var months []int
	for _, tok := range strings.Split(raw, ",") {
		m, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || m < 1 || m > 12 {
			return nil, fmt.Errorf("bad month %q in -months", tok)
		}
		months = append(months, m)
	}
	return months, nil
}

func readBars(logger *log.Logger, input, dir string) ([]domain.Bar, error) {
	reader := table.NewReader(logger)
	switch {
	case input != "" && dir != "":
		return nil, fmt.Errorf("use -input or -dir, not both")
	case input != "":
		bars, stats, err := reader.ReadFile(input)
		if err != nil {
			return nil, err
		}
		logger.Printf("read %s: %d rows, %d skipped", input, stats.Rows, stats.Skipped)
		return bars, nil
	case dir != "":
		bars, stats, err := reader.MergeDir(dir)
		if err != nil {
			return nil, err
		}
		logger.Printf("merged %s: %d files (%d bad), %d rows, %d skipped, %d duplicates",
			dir, stats.Files, stats.FilesBad, stats.Rows, stats.RowsSkip, stats.Duplicates)
		return bars, nil
	default:
		return nil, fmt.Errorf("one of -input or -dir is required")
	}
}
