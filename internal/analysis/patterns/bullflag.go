package patterns

import (
	"fmt"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
)

// BullFlagConfig holds the tunable thresholds for the Bull Flag detector.
type BullFlagConfig struct {
	MinBars        int     `mapstructure:"min_bars"`
	PoleLookback   int     `mapstructure:"pole_lookback"`   // trailing bars searched for the pole top
	BaseSearch     int     `mapstructure:"base_search"`     // bars before the top searched for the pole base
	MinAdvance     float64 `mapstructure:"min_advance"`     // pole rise as a fraction of the base
	MaxRetracement float64 `mapstructure:"max_retracement"` // flag give-back as a fraction of pole height
	NearPivotPct   float64 `mapstructure:"near_pivot_pct"`
	VolumeMultiple float64 `mapstructure:"volume_multiple"`
	VolumeWindow   int     `mapstructure:"volume_window"`
}

// DefaultBullFlagConfig returns the canonical thresholds.
func DefaultBullFlagConfig() BullFlagConfig {
	return BullFlagConfig{
		MinBars:        40,
		PoleLookback:   25,
		BaseSearch:     20,
		MinAdvance:     0.12,
		MaxRetracement: 0.50,
		NearPivotPct:   0.04,
		VolumeMultiple: 1.35,
		VolumeWindow:   3,
	}
}

// BullFlag detects a sharp advance followed by a shallow consolidation.
type BullFlag struct {
	cfg BullFlagConfig
}

// NewBullFlag returns a Bull Flag detector.
func NewBullFlag(cfg BullFlagConfig) *BullFlag {
	return &BullFlag{cfg: cfg}
}

func (d *BullFlag) Kind() analysis.Kind { return analysis.KindBullFlag }

func (d *BullFlag) MinBars() int { return d.cfg.MinBars }

// Detect scans the series for a bull-flag setup.
func (d *BullFlag) Detect(series indicators.Enriched) (*analysis.Descriptor, string) {
	n := series.Len()
	if n < d.cfg.MinBars {
		return nil, rejectInsufficientData
	}

	topIdx := highestHigh(series, n-d.cfg.PoleLookback, n)
	top := series.Candles[topIdx].High

	baseIdx := lowestLow(series, topIdx-d.cfg.BaseSearch, topIdx)
	if baseIdx < 0 {
		return nil, "no pole base before the top"
	}
	base := series.Candles[baseIdx].Low

	advance := (top - base) / base
	if advance < d.cfg.MinAdvance {
		return nil, fmt.Sprintf("pole weak: %.1f%% advance", advance*100)
	}
	poleHeight := top - base

	// Flag: everything after the pole top.
	flagLow := top
	if topIdx+1 < n {
		flagLow = series.Candles[lowestLow(series, topIdx+1, n)].Low
	}
	retracement := (top - flagLow) / poleHeight
	if retracement > d.cfg.MaxRetracement {
		return nil, fmt.Sprintf("flag too deep: %.0f%% of the pole", retracement*100)
	}

	pivot := top
	stop := flagLow
	target := pivot + poleHeight
	if !validLevels(stop, pivot, target) {
		return nil, "degenerate levels"
	}

	lastClose := series.LastClose()
	status := classifyStatus(lastClose, pivot, d.cfg.NearPivotPct)
	volConfirm := volumeConfirmed(series, d.cfg.VolumeWindow, d.cfg.VolumeMultiple)

	score := 65.0
	switch status {
	case analysis.StatusBreakout:
		score += 20
		if volConfirm {
			score += 10
		}
	case analysis.StatusNearPivot:
		score += 10
	}

	return &analysis.Descriptor{
		Kind:          analysis.KindBullFlag,
		Pivot:         pivot,
		StopLoss:      stop,
		Target:        target,
		Score:         clampScore(score),
		Status:        status,
		VolumeConfirm: volConfirm,
		Geometry: analysis.BullFlagGeometry{
			PoleBaseIndex: baseIdx,
			PoleBase:      base,
			PoleTopIndex:  topIdx,
			PoleTop:       top,
			FlagLow:       flagLow,
			Retracement:   retracement,
		},
	}, ""
}
