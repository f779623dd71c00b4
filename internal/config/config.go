// Package config loads scanner configuration from a TOML file under
// ~/.config/stock-scanner, with defaults and environment overrides. Every
// detector threshold and score weight lives here rather than as literals in
// the detectors.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/patterns"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/trend"
	"github.com/vivekvjoshi/StockScanner/internal/errors"
)

// Config is the root configuration for the scanner.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Trend    TrendConfig    `mapstructure:"trend"`
	Patterns PatternsConfig `mapstructure:"patterns"`
	AI       AIConfig       `mapstructure:"ai"`
	Email    EmailConfig    `mapstructure:"email"`
	Job      JobConfig      `mapstructure:"job"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// ScanConfig holds batch-scan settings.
type ScanConfig struct {
	Workers   int     `mapstructure:"workers"`
	MinScore  float64 `mapstructure:"min_score"`
	Timeframe string  `mapstructure:"timeframe"`
}

// TrendConfig holds trend-filter settings.
type TrendConfig struct {
	Mode                   string `mapstructure:"mode"`
	PermissiveOnIncomplete bool   `mapstructure:"permissive_on_incomplete"`
}

// ToFilter converts the loaded settings into a trend filter configuration.
func (t TrendConfig) ToFilter() trend.Config {
	return trend.Config{
		Mode:                   trend.Mode(t.Mode),
		PermissiveOnIncomplete: t.PermissiveOnIncomplete,
	}
}

// PatternsConfig holds per-detector thresholds.
type PatternsConfig struct {
	CupHandle patterns.CupHandleConfig `mapstructure:"cup_handle"`
	InverseHS patterns.InverseHSConfig `mapstructure:"inverse_hs"`
	BullFlag  patterns.BullFlagConfig  `mapstructure:"bull_flag"`
	FlatBase  patterns.FlatBaseConfig  `mapstructure:"flat_base"`
}

// AIConfig holds optional AI-validator settings.
type AIConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	BaseURL string  `mapstructure:"base_url"`
	APIKey  string  `mapstructure:"api_key"`
	Model   string  `mapstructure:"model"`
	Blend   float64 `mapstructure:"blend"` // weight of the AI score in the blended score
}

// EmailConfig holds SMTP alert settings.
type EmailConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// JobConfig holds scheduled-scan settings.
type JobConfig struct {
	Schedule string  `mapstructure:"schedule"`
	MinScore float64 `mapstructure:"min_score"`
}

// Default returns the canonical configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(home, ".config", "stock-scanner", "scanner.db"),
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
		Scan: ScanConfig{
			Workers:   8,
			MinScore:  0,
			Timeframe: "4h",
		},
		Trend: TrendConfig{
			Mode:                   string(trend.ModeStandard),
			PermissiveOnIncomplete: true,
		},
		Patterns: PatternsConfig{
			CupHandle: patterns.DefaultCupHandleConfig(),
			InverseHS: patterns.DefaultInverseHSConfig(),
			BullFlag:  patterns.DefaultBullFlagConfig(),
			FlatBase:  patterns.DefaultFlatBaseConfig(),
		},
		AI: AIConfig{
			Enabled: false,
			Model:   "gpt-4o",
			Blend:   0.5,
		},
		Email: EmailConfig{
			Enabled: false,
			Port:    587,
		},
		Job: JobConfig{
			Schedule: "0 */4 * * *",
			MinScore: 80,
		},
	}
}

// ConfigDir returns the directory holding the config file and database.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stock-scanner")
}

// Load reads config.toml from the config directory, layering it over the
// defaults. A missing file is not an error; the defaults apply.
func Load() (*Config, error) {
	return LoadFrom(ConfigDir())
}

// LoadFrom reads config.toml from the given directory.
func LoadFrom(dir string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("SCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	// Secrets prefer the environment over the file.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values the scanner cannot
// run with.
func (c *Config) Validate() error {
	if c.Scan.Workers < 1 {
		return errors.NewValidationError("scan.workers", c.Scan.Workers, "must be at least 1")
	}
	if c.Scan.MinScore < 0 || c.Scan.MinScore > 100 {
		return errors.NewValidationError("scan.min_score", c.Scan.MinScore, "must be in [0, 100]")
	}
	switch trend.Mode(c.Trend.Mode) {
	case trend.ModeStandard, trend.ModeStrict:
	default:
		return errors.NewValidationError("trend.mode", c.Trend.Mode, "must be standard or strict")
	}
	if c.Patterns.CupHandle.MinBars < 1 || c.Patterns.InverseHS.MinBars < 1 ||
		c.Patterns.BullFlag.MinBars < 1 || c.Patterns.FlatBase.MinBars < 1 {
		return errors.NewValidationError("patterns", nil, "detector minimum bars must be positive")
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return errors.NewValidationError("ai.api_key", "", "required when ai.enabled is true")
	}
	if c.Email.Enabled && (c.Email.Host == "" || len(c.Email.To) == 0) {
		return errors.NewValidationError("email", nil, "host and recipients required when email.enabled is true")
	}
	return nil
}

// Detectors builds the detector set from the configured thresholds, in
// canonical evaluation order.
func (c *Config) Detectors() []analysis.Detector {
	return []analysis.Detector{
		patterns.NewCupHandle(c.Patterns.CupHandle),
		patterns.NewInverseHS(c.Patterns.InverseHS),
		patterns.NewBullFlag(c.Patterns.BullFlag),
		patterns.NewFlatBase(c.Patterns.FlatBase),
	}
}
