// Command crawl downloads daily bars for a list of contract symbols and
// saves the raw packets. With -cron it keeps running and crawls on the
// given schedule; otherwise it runs once and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"futures-lab/internal/config"
	"futures-lab/internal/crawl"
	"futures-lab/internal/domain"
	"futures-lab/internal/saver"
)

func main() {
	configPath := flag.String("config", "config.yaml", "YAML configuration file")
	symbols := flag.String("symbols", "", "comma-separated contract symbols (overrides config)")
	from := flag.String("from", "", "first date to fetch (YYYY-MM-DD, default 30 days ago)")
	to := flag.String("to", "", "last date to fetch (YYYY-MM-DD, default today)")
	out := flag.String("out", "data/raw/packets", "packet output directory")
	progress := flag.String("progress", "data/raw/progress.json", "resume file (empty disables resuming)")
	cronSpec := flag.String("cron", "", "cron schedule for repeated runs (overrides config)")
	flag.Parse()

	logger := log.New(os.Stderr, "[crawl] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	symbolList := cfg.Crawl.Symbols
	if *symbols != "" {
		symbolList = splitSymbols(*symbols)
	}
	if len(symbolList) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no symbols to crawl (set -symbols or crawl.symbols)")
		os.Exit(1)
	}
	if cfg.Crawl.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: crawl.base_url is required")
		os.Exit(1)
	}

	schedule := cfg.Crawl.Cron
	if *cronSpec != "" {
		schedule = *cronSpec
	}

	ps, err := saver.New(cfg.Crawl.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runner := crawl.NewRunner(
		crawl.NewHTTPProvider(cfg.Crawl.BaseURL, cfg.Data.Exchange),
		ps,
		crawl.Options{
			OutDir:       *out,
			ProgressPath: *progress,
			Delay:        time.Duration(cfg.Crawl.DelayMs) * time.Millisecond,
			Logger:       logger,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("received %v, stopping", sig)
		cancel()
	}()

	run := func() {
		start, end := dateRange(*from, *to)
		report, err := runner.Run(ctx, symbolList, start, end)
		if err != nil {
			logger.Printf("run aborted: %v", err)
			return
		}
		for _, f := range report.Failed {
			logger.Printf("failed: %s: %v", f.Symbol, f.Err)
		}
	}

	if schedule == "" {
		run()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad cron spec %q: %v\n", schedule, err)
		os.Exit(1)
	}
	logger.Printf("scheduled crawl: %s", schedule)
	c.Start()
	<-ctx.Done()
	c.Stop()
}

func splitSymbols(raw string) []string {
	var out []string
	for _, tok := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(tok); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// dateRange fills empty bounds: the last 30 days through today.
func dateRange(from, to string) (string, string) {
	now := time.Now()
	if to == "" {
		to = domain.FormatDate(now)
	}
	if from == "" {
		from = domain.FormatDate(now.AddDate(0, 0, -30))
	}
	return from, to
}
