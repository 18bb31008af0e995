// Package config loads the pipeline configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the full pipeline configuration.
type Config struct {
	Data struct {
		// RawDir holds per-contract CSV files, one subdirectory per
		// product.
		RawDir string `yaml:"raw_dir"`
		// OutDir receives merged tables, majors, continuous series,
		// indices, signals and match results.
		OutDir string `yaml:"out_dir"`
		// Exchange code carried into output filenames.
		Exchange string `yaml:"exchange"`
		// Products to process; empty means every subdirectory of
		// RawDir.
		Products []string `yaml:"products"`
	} `yaml:"data"`

	Continuous struct {
		RollStrategy   string `yaml:"roll_strategy"`
		AdjustMethod   string `yaml:"adjust_method"`
		ContractMonths []int  `yaml:"contract_months"`
		DominantDays   int    `yaml:"dominant_days"`
		RolloverDays   int    `yaml:"rollover_days"`
	} `yaml:"continuous"`

	Strategy struct {
		StrengthPct     float64 `yaml:"strength_pct"`
		RefDays         int     `yaml:"ref_days"`
		VolumeThreshold int64   `yaml:"volume_threshold"`
		OIThreshold     int64   `yaml:"oi_threshold"`
		TradeAmount     float64 `yaml:"trade_amount"`
	} `yaml:"strategy"`

	Match struct {
		HoldingDays int `yaml:"holding_days"`
	} `yaml:"match"`

	Crawl struct {
		BaseURL string   `yaml:"base_url"`
		Symbols []string `yaml:"symbols"`
		DelayMs int      `yaml:"delay_ms"`
		Format  string   `yaml:"format"`
		// Cron is an optional schedule for repeated crawl runs; empty
		// means run once.
		Cron string `yaml:"cron"`
	} `yaml:"crawl"`

	Database struct {
		// SQLitePath is the run-summary database; empty disables
		// recording.
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FUTURES_RAW_DIR"); v != "" {
		cfg.Data.RawDir = v
	}
	if v := os.Getenv("FUTURES_OUT_DIR"); v != "" {
		cfg.Data.OutDir = v
	}
	if v := os.Getenv("FUTURES_EXCHANGE"); v != "" {
		cfg.Data.Exchange = v
	}
	if v := os.Getenv("FUTURES_CRAWL_BASE_URL"); v != "" {
		cfg.Crawl.BaseURL = v
	}
	if v := os.Getenv("FUTURES_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("FUTURES_HOLDING_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Match.HoldingDays = n
		}
	}

	// Defaults
	if cfg.Data.RawDir == "" {
		cfg.Data.RawDir = "data/raw"
	}
	if cfg.Data.OutDir == "" {
		cfg.Data.OutDir = "data/out"
	}
	if cfg.Continuous.RollStrategy == "" {
		cfg.Continuous.RollStrategy = "volume"
	}
	if cfg.Continuous.AdjustMethod == "" {
		cfg.Continuous.AdjustMethod = "backward"
	}
	if cfg.Continuous.DominantDays == 0 {
		cfg.Continuous.DominantDays = 30
	}
	if cfg.Continuous.RolloverDays == 0 {
		cfg.Continuous.RolloverDays = 5
	}
	if cfg.Strategy.StrengthPct == 0 {
		cfg.Strategy.StrengthPct = 0.1
	}
	if cfg.Strategy.RefDays == 0 {
		cfg.Strategy.RefDays = 5
	}
	if cfg.Strategy.TradeAmount == 0 {
		cfg.Strategy.TradeAmount = 100000
	}
	if cfg.Match.HoldingDays == 0 {
		cfg.Match.HoldingDays = 10
	}
	if cfg.Crawl.DelayMs == 0 {
		cfg.Crawl.DelayMs = 500
	}
	if cfg.Crawl.Format == "" {
		cfg.Crawl.Format = "csv"
	}

	return cfg, nil
}

// Validate checks field ranges beyond what defaults guarantee.
func (c *Config) Validate() error {
	if c.Strategy.StrengthPct <= 0 || c.Strategy.StrengthPct > 1 {
		return fmt.Errorf("strategy.strength_pct must be in (0, 1]")
	}
	if c.Strategy.RefDays <= 0 {
		return fmt.Errorf("strategy.ref_days must be positive")
	}
	if c.Strategy.TradeAmount <= 0 {
		return fmt.Errorf("strategy.trade_amount must be positive")
	}
	if c.Match.HoldingDays <= 0 {
		return fmt.Errorf("match.holding_days must be positive")
	}
	if c.Crawl.DelayMs < 0 {
		return fmt.Errorf("crawl.delay_ms must not be negative")
	}
	return nil
}
