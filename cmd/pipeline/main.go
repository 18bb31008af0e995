// Command pipeline runs the whole batch end to end from one YAML config:
// merge -> majors -> continuous -> index -> signals -> match -> report.
// A failure in one product never aborts the batch.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"futures-lab/internal/config"
	"futures-lab/internal/continuous"
	"futures-lab/internal/domain"
	"futures-lab/internal/index"
	"futures-lab/internal/majors"
	"futures-lab/internal/match"
	"futures-lab/internal/recorder"
	"futures-lab/internal/reporting"
	"futures-lab/internal/strategy"
	"futures-lab/internal/table"
)

func main() {
	configPath := flag.String("config", "config.yaml", "YAML configuration file")
	flag.Parse()

	logger := log.New(os.Stderr, "[pipeline] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rec, err := openRecorder(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run recorder: %v\n", err)
		os.Exit(1)
	}
	defer rec.Close()

	p := &pipeline{cfg: cfg, logger: logger, recorder: rec, reader: table.NewReader(logger)}
	if err := p.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openRecorder(cfg *config.Config, logger *log.Logger) (recorder.Recorder, error) {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder(), nil
	}
	logger.Printf("recording runs to %s", cfg.Database.SQLitePath)
	return recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
}

type pipeline struct {
	cfg      *config.Config
	logger   *log.Logger
	recorder recorder.Recorder
	reader   *table.Reader
}

// record logs the stage summary and persists it. Recorder failures are
// logged, never fatal.
func (p *pipeline) record(stage, product string, processed, skipped, failed int, start time.Time) {
	sum := &recorder.RunSummary{
		Stage:     stage,
		Product:   product,
		Processed: processed,
		Skipped:   skipped,
		Failed:    failed,
		Duration:  time.Since(start),
	}
	p.logger.Printf("%s%s: processed=%d skipped=%d failed=%d in %s",
		stage, productSuffix(product), processed, skipped, failed, sum.Duration.Round(time.Millisecond))
	if err := p.recorder.RecordRun(sum); err != nil {
		p.logger.Printf("record %s run: %v", stage, err)
	}
}

func productSuffix(product string) string {
	if product == "" {
		return ""
	}
	return " " + product
}

func (p *pipeline) run() error {
	products, err := p.products()
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return fmt.Errorf("no products under %s", p.cfg.Data.RawDir)
	}

	var allMajors []domain.Bar
	var allIndex []index.Row
	for _, product := range products {
		majorRows, indexRows, err := p.runProduct(product)
		if err != nil {
			p.logger.Printf("product %s failed: %v", product, err)
			continue
		}
		allMajors = append(allMajors, majorRows...)
		allIndex = append(allIndex, indexRows...)
	}
	if len(allMajors) == 0 {
		return fmt.Errorf("every product failed")
	}

	signals, err := p.runSignals(allIndex)
	if err != nil {
		return err
	}

	matched, err := p.runMatch(signals, allMajors)
	if err != nil {
		return err
	}

	return p.runReport(matched)
}

// products returns configured product codes, or the subdirectories of
// raw_dir when the config names none.
func (p *pipeline) products() ([]string, error) {
	if len(p.cfg.Data.Products) > 0 {
		return p.cfg.Data.Products, nil
	}

	entries, err := os.ReadDir(p.cfg.Data.RawDir)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var products []string
	for _, e := range entries {
		if e.IsDir() {
			products = append(products, e.Name())
		}
	}
	sort.Strings(products)
	return products, nil
}

// runProduct merges one product's contract files and derives its majors,
// continuous series and index tables.
func (p *pipeline) runProduct(product string) ([]domain.Bar, []index.Row, error) {
	start := time.Now()
	dir := filepath.Join(p.cfg.Data.RawDir, product)
	bars, stats, err := p.reader.MergeDir(dir)
	if err != nil {
		p.record("merge", product, 0, 0, 1, start)
		return nil, nil, err
	}
	if len(bars) == 0 {
		p.record("merge", product, 0, stats.RowsSkip, 0, start)
		return nil, nil, fmt.Errorf("no usable bars in %s", dir)
	}
	mergedPath := filepath.Join(p.cfg.Data.OutDir, bars[0].Product+"_table.csv")
	if err := table.WriteBars(mergedPath, bars); err != nil {
		p.record("merge", product, stats.Rows, stats.RowsSkip, 1, start)
		return nil, nil, err
	}
	p.record("merge", product, stats.Rows, stats.RowsSkip+stats.Duplicates, stats.FilesBad, start)

	exchange := p.cfg.Data.Exchange
	if exchange == "" {
		exchange = bars[0].Exchange
	}

	// Majors selection.
	start = time.Now()
	majorRows := majors.NewSelector(p.logger).Select(bars)
	majorsPath := filepath.Join(p.cfg.Data.OutDir, majors.OutputFilename(exchange, bars[0].Product))
	if err := table.WriteBars(majorsPath, majorRows); err != nil {
		p.record("majors", product, len(majorRows), 0, 1, start)
		return nil, nil, err
	}
	p.record("majors", product, len(majorRows), 0, 0, start)

	// Continuous series.
	start = time.Now()
	if err := p.runContinuous(bars); err != nil {
		p.record("continuous", product, 0, 0, 1, start)
		p.logger.Printf("continuous %s failed: %v", product, err)
	} else {
		p.record("continuous", product, len(bars), 0, 0, start)
	}

	// Product index.
	start = time.Now()
	indexRows := index.Compute(bars)
	indexPath := filepath.Join(p.cfg.Data.OutDir, index.OutputFilename(exchange, bars[0].Product))
	if err := index.Write(indexPath, indexRows); err != nil {
		p.record("index", product, len(indexRows), 0, 1, start)
		return nil, nil, err
	}
	p.record("index", product, len(indexRows), 0, 0, start)

	return majorRows, indexRows, nil
}

func (p *pipeline) runContinuous(bars []domain.Bar) error {
	rollStrategy, err := continuous.ParseRollStrategy(p.cfg.Continuous.RollStrategy)
	if err != nil {
		return err
	}
	adjustMethod, err := continuous.ParseAdjustMethod(p.cfg.Continuous.AdjustMethod)
	if err != nil {
		return err
	}
	opts := continuous.Options{
		RollStrategy:   rollStrategy,
		AdjustMethod:   adjustMethod,
		ContractMonths: p.cfg.Continuous.ContractMonths,
		DominantDays:   p.cfg.Continuous.DominantDays,
		RolloverDays:   p.cfg.Continuous.RolloverDays,
	}
	series, err := continuous.NewBuilder(opts, p.logger).Build(bars)
	if err != nil {
		return err
	}
	_, err = continuous.WriteSeries(p.cfg.Data.OutDir, bars[0].Product, opts, series)
	return err
}

func (p *pipeline) runSignals(rows []index.Row) ([]domain.Signal, error) {
	start := time.Now()
	s, err := strategy.NewCrossSectional(strategy.Options{
		StrengthPct:     p.cfg.Strategy.StrengthPct,
		RefDays:         p.cfg.Strategy.RefDays,
		VolumeThreshold: p.cfg.Strategy.VolumeThreshold,
		OIThreshold:     p.cfg.Strategy.OIThreshold,
		TradeAmount:     p.cfg.Strategy.TradeAmount,
		Logger:          p.logger,
	})
	if err != nil {
		return nil, err
	}

	signals := s.Generate(rows)
	path := filepath.Join(p.cfg.Data.OutDir, "signals.csv")
	if err := strategy.WriteSignals(path, signals); err != nil {
		p.record("signals", "", len(signals), 0, 1, start)
		return nil, err
	}
	p.record("signals", "", len(signals), 0, 0, start)
	return signals, nil
}

func (p *pipeline) runMatch(signals []domain.Signal, majorRows []domain.Bar) ([]domain.MatchedSignal, error) {
	start := time.Now()
	tracker := match.NewTracker(majorRows, match.Options{
		HoldingDays: p.cfg.Match.HoldingDays,
		Logger:      p.logger,
	})
	result := tracker.Run(signals)

	outputs := []struct {
		name  string
		write func(string) error
	}{
		{"ledger.csv", func(path string) error { return match.WriteLedger(path, result.Ledger) }},
		{"daily_summary.csv", func(path string) error { return match.WriteSummaries(path, result.Summaries) }},
		{"matched_signals.csv", func(path string) error { return match.WriteMatched(path, result.Matched) }},
	}
	for _, o := range outputs {
		if err := o.write(filepath.Join(p.cfg.Data.OutDir, o.name)); err != nil {
			p.record("match", "", result.Stats.SignalsMatched, result.Stats.SignalsSkipped, 1, start)
			return nil, err
		}
	}
	p.record("match", "", result.Stats.SignalsMatched, result.Stats.SignalsSkipped, 0, start)
	return result.Matched, nil
}

func (p *pipeline) runReport(matched []domain.MatchedSignal) error {
	start := time.Now()
	report := reporting.NewGenerator().Generate(matched)

	mdPath := filepath.Join(p.cfg.Data.OutDir, "report.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		p.record("report", "", report.TradeCount, 0, 1, start)
		return err
	}
	csvPath := filepath.Join(p.cfg.Data.OutDir, "product_metrics.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.ProductMetrics)), 0o644); err != nil {
		p.record("report", "", report.TradeCount, 0, 1, start)
		return err
	}
	p.record("report", "", report.TradeCount, 0, 0, start)
	return nil
}
