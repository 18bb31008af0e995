// Command majors selects each trading day's dominant contract from a
// product's bar table and writes the majors table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"futures-lab/internal/domain"
	"futures-lab/internal/majors"
	"futures-lab/internal/table"
)

func main() {
	input := flag.String("input", "", "merged product bar table CSV")
	dir := flag.String("dir", "", "directory of per-contract CSVs to merge (alternative to -input)")
	out := flag.String("out", "data/out", "output directory")
	exchange := flag.String("exchange", "", "exchange code for the output filename (defaults to the table's exchange column)")
	flag.Parse()

	logger := log.New(os.Stderr, "[majors] ", log.LstdFlags)

	bars, err := readBars(logger, *input, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(bars) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no bars in input")
		os.Exit(1)
	}

	rows := majors.NewSelector(logger).Select(bars)

	ex := *exchange
	if ex == "" {
		ex = bars[0].Exchange
	}
	path := filepath.Join(*out, majors.OutputFilename(ex, bars[0].Product))
	if err := table.WriteBars(path, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
		os.Exit(1)
	}
	logger.Printf("wrote %d rows -> %s", len(rows), path)
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
