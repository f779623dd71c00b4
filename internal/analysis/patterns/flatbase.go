package patterns

import (
	"fmt"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
)

// FlatBaseConfig holds the tunable thresholds for the volatility-contraction
// flat-base detector.
type FlatBaseConfig struct {
	MinBars        int     `mapstructure:"min_bars"`
	Window         int     `mapstructure:"window"`          // trailing bars measured for contraction
	MaxWidth       float64 `mapstructure:"max_width"`       // (high-low)/low ceiling
	TargetMultiple float64 `mapstructure:"target_multiple"` // fixed projection above the pivot
	NearPivotPct   float64 `mapstructure:"near_pivot_pct"`
	VolumeMultiple float64 `mapstructure:"volume_multiple"`
	VolumeWindow   int     `mapstructure:"volume_window"`
}

// DefaultFlatBaseConfig returns the canonical thresholds.
func DefaultFlatBaseConfig() FlatBaseConfig {
	return FlatBaseConfig{
		MinBars:        30,
		Window:         20,
		MaxWidth:       0.12,
		TargetMultiple: 1.20,
		NearPivotPct:   0.02,
		VolumeMultiple: 1.35,
		VolumeWindow:   3,
	}
}

// FlatBase detects a tight sideways range after volatility has contracted.
type FlatBase struct {
	cfg FlatBaseConfig
}

// NewFlatBase returns a flat-base detector.
func NewFlatBase(cfg FlatBaseConfig) *FlatBase {
	return &FlatBase{cfg: cfg}
}

func (d *FlatBase) Kind() analysis.Kind { return analysis.KindFlatBase }

func (d *FlatBase) MinBars() int { return d.cfg.MinBars }

// Detect scans the trailing window for a tight contraction.
func (d *FlatBase) Detect(series indicators.Enriched) (*analysis.Descriptor, string) {
	n := series.Len()
	if n < d.cfg.MinBars {
		return nil, rejectInsufficientData
	}

	from := n - d.cfg.Window
	high := series.Candles[highestHigh(series, from, n)].High
	low := series.Candles[lowestLow(series, from, n)].Low

	width := (high - low) / low
	if width > d.cfg.MaxWidth {
		return nil, fmt.Sprintf("base too wide: %.1f%% range", width*100)
	}

	pivot := high
	stop := low
	target := pivot * d.cfg.TargetMultiple
	if !validLevels(stop, pivot, target) {
		return nil, "degenerate levels"
	}

	lastClose := series.LastClose()
	status := classifyStatus(lastClose, pivot, d.cfg.NearPivotPct)
	volConfirm := volumeConfirmed(series, d.cfg.VolumeWindow, d.cfg.VolumeMultiple)

	score := 60.0
	switch status {
	case analysis.StatusBreakout:
		score += 20
		if volConfirm {
			score += 15
		}
	case analysis.StatusNearPivot:
		score += 10
	}

	return &analysis.Descriptor{
		Kind:          analysis.KindFlatBase,
		Pivot:         pivot,
		StopLoss:      stop,
		Target:        target,
		Score:         clampScore(score),
		Status:        status,
		VolumeConfirm: volConfirm,
		Geometry: analysis.FlatBaseGeometry{
			WindowBars: d.cfg.Window,
			WindowHigh: high,
			WindowLow:  low,
			Width:      width,
		},
	}, ""
}
