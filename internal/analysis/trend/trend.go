// Package trend gates pattern detection on the prevailing uptrend.
package trend

import (
	"fmt"

	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
)

// Mode selects how strictly the filter reads the moving averages.
type Mode string

const (
	// ModeStandard requires the last close above the 200-bar average.
	ModeStandard Mode = "standard"
	// ModeStrict additionally requires close > SMA50 > SMA200.
	ModeStrict Mode = "strict"
)

// Config controls the trend filter.
type Config struct {
	Mode Mode
	// PermissiveOnIncomplete passes series long enough for detection but
	// too short for the slow average, instead of rejecting them. Absence
	// of history should not eliminate a candidate outright.
	PermissiveOnIncomplete bool
}

// DefaultConfig returns the standard filter configuration.
func DefaultConfig() Config {
	return Config{Mode: ModeStandard, PermissiveOnIncomplete: true}
}

// Check reports whether the series qualifies for pattern detection. When it
// does not, the returned reason names the failed condition.
func Check(series indicators.Enriched, cfg Config) (bool, string) {
	if series.Len() < 50 {
		return false, fmt.Sprintf("series too short for trend assessment: %d bars", series.Len())
	}

	lastClose := series.LastClose()

	sma200, ok := series.SMA200.Last()
	if !ok {
		if cfg.PermissiveOnIncomplete {
			return true, fmt.Sprintf("incomplete data: 200-bar average undefined at %d bars", series.Len())
		}
		return false, fmt.Sprintf("long-term average undefined: %d bars", series.Len())
	}
	if lastClose <= sma200 {
		return false, fmt.Sprintf("close %.2f at or below 200-bar average %.2f", lastClose, sma200)
	}

	if cfg.Mode == ModeStrict {
		sma50, ok := series.SMA50.Last()
		if !ok {
			return false, "50-bar average undefined"
		}
		if lastClose <= sma50 {
			return false, fmt.Sprintf("close %.2f at or below 50-bar average %.2f", lastClose, sma50)
		}
		if sma50 <= sma200 {
			return false, fmt.Sprintf("50-bar average %.2f at or below 200-bar average %.2f", sma50, sma200)
		}
	}

	return true, ""
}
