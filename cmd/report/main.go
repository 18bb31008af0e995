// Command report aggregates matched signals into per-product metrics and
// renders them as Markdown and CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"futures-lab/internal/match"
	"futures-lab/internal/reporting"
)

func main() {
	matchedPath := flag.String("matched", "data/out/matched_signals.csv", "matched signal table CSV")
	out := flag.String("out", "data/out", "output directory")
	flag.Parse()

	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	matched, err := match.ReadMatched(*matchedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading matched signals: %v\n", err)
		os.Exit(1)
	}

	report := reporting.NewGenerator().Generate(matched)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*out, "report.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", mdPath, err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*out, "product_metrics.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.ProductMetrics)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", csvPath, err)
		os.Exit(1)
	}

	logger.Printf("report over %d trades in %d products -> %s, %s",
		report.TradeCount, report.ProductCount, mdPath, csvPath)
}
