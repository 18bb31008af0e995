package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Continuous.RollStrategy != "volume" {
		t.Fatalf("roll strategy = %q, want volume", cfg.Continuous.RollStrategy)
	}
	if cfg.Match.HoldingDays != 10 {
		t.Fatalf("holding days = %d, want 10", cfg.Match.HoldingDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
data:
  raw_dir: /tmp/raw
  exchange: CFFEX
  products: [IF, CU]
continuous:
  roll_strategy: oi
  adjust_method: ratio
strategy:
  strength_pct: 0.2
  ref_days: 3
match:
  holding_days: 15
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.RawDir != "/tmp/raw" || cfg.Data.Exchange != "CFFEX" {
		t.Fatalf("data section = %+v", cfg.Data)
	}
	if len(cfg.Data.Products) != 2 || cfg.Data.Products[0] != "IF" {
		t.Fatalf("products = %v", cfg.Data.Products)
	}
	if cfg.Continuous.RollStrategy != "oi" || cfg.Continuous.AdjustMethod != "ratio" {
		t.Fatalf("continuous section = %+v", cfg.Continuous)
	}
	if cfg.Strategy.StrengthPct != 0.2 || cfg.Strategy.RefDays != 3 {
		t.Fatalf("strategy section = %+v", cfg.Strategy)
	}
	if cfg.Match.HoldingDays != 15 {
		t.Fatalf("holding days = %d, want 15", cfg.Match.HoldingDays)
	}
	// Unset fields still fall back to defaults.
	if cfg.Data.OutDir != "data/out" {
		t.Fatalf("out dir = %q, want default", cfg.Data.OutDir)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FUTURES_OUT_DIR", "/tmp/out-override")
	t.Setenv("FUTURES_HOLDING_DAYS", "20")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.OutDir != "/tmp/out-override" {
		t.Fatalf("out dir = %q, want override", cfg.Data.OutDir)
	}
	if cfg.Match.HoldingDays != 20 {
		t.Fatalf("holding days = %d, want 20", cfg.Match.HoldingDays)
	}
}

func TestValidateRejectsBadRanges(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Strategy.StrengthPct = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("want error for strength_pct > 1")
	}
}
