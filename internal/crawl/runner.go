package crawl

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"futures-lab/internal/domain"
	"futures-lab/internal/saver"
)

// DefaultDelay between consecutive requests.
const DefaultDelay = 500 * time.Millisecond

// Options configures a crawl run.
type Options struct {
	// OutDir receives one packet file per symbol.
	OutDir string
	// ProgressPath is the resume file; empty disables resuming.
	ProgressPath string
	// Delay between consecutive requests; DefaultDelay when zero.
	Delay  time.Duration
	Logger *log.Logger
}

// SymbolError pairs a failed symbol with its error.
type SymbolError struct {
	Symbol string
	Err    error
}

// Report summarizes one crawl run.
type Report struct {
	Succeeded []string
	Failed    []SymbolError
	Bars      int
}

// Runner downloads symbols sequentially through a Provider and persists
// each symbol's bars as one packet.
type Runner struct {
	provider Provider
	saver    saver.PacketSaver
	opts     Options
	logger   *log.Logger
}

// NewRunner creates a crawl runner.
func NewRunner(provider Provider, ps saver.PacketSaver, opts Options) *Runner {
	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{provider: provider, saver: ps, opts: opts, logger: logger}
}

// Run fetches [from, to] for every symbol. One symbol failing never aborts
// the batch; failures are collected in the report. Progress is written
// after every successful symbol.
func (r *Runner) Run(ctx context.Context, symbols []string, from, to string) (*Report, error) {
	progress, err := r.loadProgress()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for i, symbol := range symbols {
		if i > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(r.opts.Delay):
			}
		}

		start := r.resumeFrom(progress, symbol, from)
		if start > to {
			r.logger.Printf("crawl: %s already fetched through %s, skipping", symbol, progress.LastFetched[symbol])
			report.Succeeded = append(report.Succeeded, symbol)
			continue
		}

		bars, err := r.fetchAndSave(ctx, symbol, start, to)
		if err != nil {
			r.logger.Printf("crawl: %s failed: %v", symbol, err)
			report.Failed = append(report.Failed, SymbolError{Symbol: symbol, Err: err})
			continue
		}

		report.Succeeded = append(report.Succeeded, symbol)
		report.Bars += len(bars)
		progress.LastFetched[symbol] = to
		if r.opts.ProgressPath != "" {
			if err := progress.Save(r.opts.ProgressPath); err != nil {
				return report, fmt.Errorf("save progress: %w", err)
			}
		}
	}

	r.logger.Printf("crawl: done provider=%s succeeded=%d failed=%d bars=%d",
		r.provider.Name(), len(report.Succeeded), len(report.Failed), report.Bars)
	return report, nil
}

func (r *Runner) fetchAndSave(ctx context.Context, symbol, from, to string) ([]domain.Bar, error) {
	bars, err := r.provider.FetchDaily(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(r.opts.OutDir, fmt.Sprintf("%s_%s_%s.%s", symbol, from, to, r.saver.Extension()))
	if err := r.saver.Save(saver.FromBars(bars), path); err != nil {
		return nil, fmt.Errorf("save packet: %w", err)
	}
	r.logger.Printf("crawl: %s fetched %d bars -> %s", symbol, len(bars), path)
	return bars, nil
}

func (r *Runner) loadProgress() (*Progress, error) {
	if r.opts.ProgressPath == "" {
		return &Progress{LastFetched: make(map[string]string)}, nil
	}
	progress, err := LoadProgress(r.opts.ProgressPath)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return progress, nil
}

// resumeFrom returns the first date still to fetch for symbol.
func (r *Runner) resumeFrom(progress *Progress, symbol, from string) string {
	last, ok := progress.LastFetched[symbol]
	if !ok || last < from {
		return from
	}
	t, err := domain.DateTime(last)
	if err != nil {
		return from
	}
	return domain.FormatDate(t.AddDate(0, 0, 1))
}
