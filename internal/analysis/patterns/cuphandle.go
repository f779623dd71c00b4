package patterns

import (
	"fmt"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
)

// CupHandleConfig holds the tunable thresholds for the Cup & Handle detector.
type CupHandleConfig struct {
	MinBars          int     `mapstructure:"min_bars"`        // minimum series length
	RimWindow        int     `mapstructure:"rim_window"`      // trailing bars searched for the right rim
	MaxRimAge        int     `mapstructure:"max_rim_age"`     // bars since the right rim before the setup is stale
	RimGap           int     `mapstructure:"rim_gap"`         // bars between right rim and the left-rim search window
	LeftSearch       int     `mapstructure:"left_search"`     // how far back the left-rim search reaches
	MinBaseBars      int     `mapstructure:"min_base_bars"`   // minimum width of the left-rim search window
	RimRatioLow      float64 `mapstructure:"rim_ratio_low"`   // left/right rim ratio band
	RimRatioHigh     float64 `mapstructure:"rim_ratio_high"`
	MinCupDepth      float64 `mapstructure:"min_cup_depth"`
	MaxCupDepth      float64 `mapstructure:"max_cup_depth"`
	MaxHandleDepth   float64 `mapstructure:"max_handle_depth"`
	PriceFloor       float64 `mapstructure:"price_floor"`     // last close as a fraction of the right rim
	MinHandleBars    int     `mapstructure:"min_handle_bars"` // below this, stop blends bottom toward the rim
	StopBlend        float64 `mapstructure:"stop_blend"`      // fraction of cup height added to the bottom
	NearPivotPct     float64 `mapstructure:"near_pivot_pct"`
	VolumeMultiple   float64 `mapstructure:"volume_multiple"`
	VolumeWindow     int     `mapstructure:"volume_window"`
	DryUpRatio       float64 `mapstructure:"dry_up_ratio"` // handle 2nd-half / 1st-half volume ceiling
	IdealDepthLow    float64 `mapstructure:"ideal_depth_low"`
	IdealDepthHigh   float64 `mapstructure:"ideal_depth_high"`
	TightSymmetry    float64 `mapstructure:"tight_symmetry"`
	LooseSymmetry    float64 `mapstructure:"loose_symmetry"`
	TightHandleDepth float64 `mapstructure:"tight_handle_depth"`
	LooseHandleDepth float64 `mapstructure:"loose_handle_depth"`
}

// DefaultCupHandleConfig returns the canonical thresholds.
func DefaultCupHandleConfig() CupHandleConfig {
	return CupHandleConfig{
		MinBars:          60,
		RimWindow:        60,
		MaxRimAge:        45,
		RimGap:           8,
		LeftSearch:       250,
		MinBaseBars:      20,
		RimRatioLow:      0.75,
		RimRatioHigh:     1.35,
		MinCupDepth:      0.08,
		MaxCupDepth:      0.60,
		MaxHandleDepth:   0.22,
		PriceFloor:       0.88,
		MinHandleBars:    3,
		StopBlend:        0.30,
		NearPivotPct:     0.03,
		VolumeMultiple:   1.35,
		VolumeWindow:     3,
		DryUpRatio:       0.80,
		IdealDepthLow:    0.15,
		IdealDepthHigh:   0.33,
		TightSymmetry:    0.05,
		LooseSymmetry:    0.15,
		TightHandleDepth: 0.10,
		LooseHandleDepth: 0.15,
	}
}

// CupHandle detects a cup-shaped base with a shallow handle consolidation.
type CupHandle struct {
	cfg CupHandleConfig
}

// NewCupHandle returns a Cup & Handle detector with the given thresholds.
func NewCupHandle(cfg CupHandleConfig) *CupHandle {
	return &CupHandle{cfg: cfg}
}

func (d *CupHandle) Kind() analysis.Kind { return analysis.KindCupHandle }

func (d *CupHandle) MinBars() int { return d.cfg.MinBars }

// Detect scans the series for a Cup & Handle setup.
func (d *CupHandle) Detect(series indicators.Enriched) (*analysis.Descriptor, string) {
	n := series.Len()
	if n < d.cfg.MinBars {
		return nil, rejectInsufficientData
	}

	// Right rim: highest High in the trailing window, and recent enough
	// that the handle has not gone stale.
	rightIdx := highestHigh(series, n-d.cfg.RimWindow, n)
	rightRim := series.Candles[rightIdx].High
	if n-1-rightIdx > d.cfg.MaxRimAge {
		return nil, fmt.Sprintf("pattern stale: right rim %d bars old", n-1-rightIdx)
	}

	// Left rim: highest High in a window ending before the right rim.
	searchEnd := rightIdx - d.cfg.RimGap
	searchStart := searchEnd - d.cfg.LeftSearch
	if searchStart < 0 {
		searchStart = 0
	}
	if searchEnd-searchStart < d.cfg.MinBaseBars {
		return nil, fmt.Sprintf("base too short: %d bars before right rim", searchEnd-searchStart)
	}
	leftIdx := highestHigh(series, searchStart, searchEnd)
	leftRim := series.Candles[leftIdx].High

	ratio := leftRim / rightRim
	if ratio < d.cfg.RimRatioLow || ratio > d.cfg.RimRatioHigh {
		return nil, fmt.Sprintf("rim mismatch: ratio %.2f outside [%.2f, %.2f]", ratio, d.cfg.RimRatioLow, d.cfg.RimRatioHigh)
	}

	// Cup bottom strictly between the rims.
	bottomIdx := lowestLow(series, leftIdx+1, rightIdx)
	if bottomIdx < 0 {
		return nil, "no cup bottom between rims"
	}
	bottom := series.Candles[bottomIdx].Low
	maxRim := rightRim
	if leftRim > maxRim {
		maxRim = leftRim
	}
	depth := 1 - bottom/maxRim
	if depth < d.cfg.MinCupDepth || depth > d.cfg.MaxCupDepth {
		return nil, fmt.Sprintf("depth invalid: %.1f%% outside [%.0f%%, %.0f%%]", depth*100, d.cfg.MinCupDepth*100, d.cfg.MaxCupDepth*100)
	}

	// Handle: everything after the right rim.
	handleBars := n - 1 - rightIdx
	handleLow := rightRim
	handleDepth := 0.0
	if handleBars > 0 {
		handleLow = series.Candles[lowestLow(series, rightIdx+1, n)].Low
		handleDepth = 1 - handleLow/rightRim
	}
	if handleDepth > d.cfg.MaxHandleDepth {
		return nil, fmt.Sprintf("handle too deep: %.1f%%", handleDepth*100)
	}

	lastClose := series.LastClose()
	if lastClose < d.cfg.PriceFloor*rightRim {
		return nil, fmt.Sprintf("pattern broken: close %.2f below %.0f%% of right rim", lastClose, d.cfg.PriceFloor*100)
	}

	// Trade levels. A V-shaped cup with no real handle gets a blended
	// stop rather than one pinned to the rim itself.
	pivot := rightRim
	stop := handleLow
	if handleBars < d.cfg.MinHandleBars {
		stop = bottom + d.cfg.StopBlend*(rightRim-bottom)
	}
	target := pivot + (pivot - bottom)
	if !validLevels(stop, pivot, target) {
		return nil, "degenerate levels"
	}

	status := classifyStatus(lastClose, pivot, d.cfg.NearPivotPct)
	volConfirm := volumeConfirmed(series, d.cfg.VolumeWindow, d.cfg.VolumeMultiple)

	score := 50.0
	switch {
	case depth >= d.cfg.IdealDepthLow && depth <= d.cfg.IdealDepthHigh:
		score += 15
	default:
		score += 8
	}
	switch symm := abs(1 - ratio); {
	case symm <= d.cfg.TightSymmetry:
		score += 10
	case symm <= d.cfg.LooseSymmetry:
		score += 5
	}
	switch {
	case handleDepth < d.cfg.TightHandleDepth:
		score += 15
	case handleDepth < d.cfg.LooseHandleDepth:
		score += 10
	}
	switch status {
	case analysis.StatusBreakout:
		score += 20
		if volConfirm {
			score += 10
		}
	case analysis.StatusNearPivot:
		score += 10
	}
	if handleDriedUp(series, rightIdx+1, n, d.cfg.DryUpRatio) {
		score += 5
	}
	if sma50, ok := series.SMA50.Last(); ok && lastClose > sma50 {
		score += 3
	}
	if sma200, ok := series.SMA200.Last(); ok && lastClose > sma200 {
		score += 2
	}
	score += riskRewardBonus(stop, pivot, target)

	return &analysis.Descriptor{
		Kind:          analysis.KindCupHandle,
		Pivot:         pivot,
		StopLoss:      stop,
		Target:        target,
		Score:         clampScore(score),
		Status:        status,
		VolumeConfirm: volConfirm,
		Geometry: analysis.CupHandleGeometry{
			LeftRimIndex:   leftIdx,
			LeftRim:        leftRim,
			RightRimIndex:  rightIdx,
			RightRim:       rightRim,
			CupBottomIndex: bottomIdx,
			CupBottom:      bottom,
			CupDepth:       depth,
			HandleLow:      handleLow,
			HandleDepth:    handleDepth,
			HandleBars:     handleBars,
		},
	}, ""
}

// handleDriedUp reports whether volume in the second half of the handle runs
// below ratio × the first half's average. Supply drying up into the pivot is
// a quality signal.
func handleDriedUp(series indicators.Enriched, from, to int, ratio float64) bool {
	if to-from < 4 {
		return false
	}
	mid := from + (to-from)/2
	first := meanVolume(series, from, mid)
	second := meanVolume(series, mid, to)
	return first > 0 && second < ratio*first
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
