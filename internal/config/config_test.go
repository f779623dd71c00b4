package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	if cfg.Scan.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Scan.Workers)
	}
	if cfg.Scan.Timeframe != "4h" {
		t.Errorf("Timeframe = %q, want 4h", cfg.Scan.Timeframe)
	}
	if !cfg.Trend.PermissiveOnIncomplete {
		t.Error("PermissiveOnIncomplete should default to true")
	}
	if cfg.Job.Schedule != "0 */4 * * *" {
		t.Errorf("Schedule = %q", cfg.Job.Schedule)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }},
		{"min score above 100", func(c *Config) { c.Scan.MinScore = 101 }},
		{"unknown trend mode", func(c *Config) { c.Trend.Mode = "aggressive" }},
		{"non-positive detector minimum", func(c *Config) { c.Patterns.BullFlag.MinBars = 0 }},
		{"ai enabled without key", func(c *Config) { c.AI.Enabled = true; c.AI.APIKey = "" }},
		{"email enabled without host", func(c *Config) { c.Email.Enabled = true; c.Email.To = []string{"a@b.c"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	toml := `
[scan]
workers = 4
min_score = 60
timeframe = "1d"

[trend]
mode = "strict"

[patterns.cup_handle]
min_bars = 80

[job]
schedule = "30 9 * * 1-5"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Scan.Workers != 4 || cfg.Scan.MinScore != 60 || cfg.Scan.Timeframe != "1d" {
		t.Errorf("Scan = %+v", cfg.Scan)
	}
	if cfg.Trend.Mode != "strict" {
		t.Errorf("Mode = %q, want strict", cfg.Trend.Mode)
	}
	if cfg.Patterns.CupHandle.MinBars != 80 {
		t.Errorf("CupHandle.MinBars = %d, want 80", cfg.Patterns.CupHandle.MinBars)
	}
	// Untouched sections keep their defaults.
	if cfg.Patterns.FlatBase.MinBars != 30 {
		t.Errorf("FlatBase.MinBars = %d, want the default 30", cfg.Patterns.FlatBase.MinBars)
	}
	if cfg.Job.Schedule != "30 9 * * 1-5" {
		t.Errorf("Schedule = %q", cfg.Job.Schedule)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Scan.Workers != Default().Scan.Workers {
		t.Errorf("Workers = %d, want the default", cfg.Scan.Workers)
	}
}

func TestLoadFromRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	toml := "[scan]\nworkers = 0\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(dir); err == nil {
		t.Error("LoadFrom accepted a config with zero workers")
	}
}

func TestDetectorsOrder(t *testing.T) {
	detectors := Default().Detectors()
	want := []analysis.Kind{
		analysis.KindCupHandle,
		analysis.KindInverseHS,
		analysis.KindBullFlag,
		analysis.KindFlatBase,
	}
	if len(detectors) != len(want) {
		t.Fatalf("detectors = %d, want %d", len(detectors), len(want))
	}
	for i, det := range detectors {
		if det.Kind() != want[i] {
			t.Errorf("detector %d = %v, want %v", i, det.Kind(), want[i])
		}
	}
}
