package patterns

import (
	"fmt"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
)

// InverseHSConfig holds the tunable thresholds for the Inverse Head &
// Shoulders detector.
type InverseHSConfig struct {
	MinBars        int     `mapstructure:"min_bars"`
	Lookback       int     `mapstructure:"lookback"`       // trailing bars searched for troughs
	ExtremumOrder  int     `mapstructure:"extremum_order"` // ±bars a trough must dominate
	MaxAsymmetry   float64 `mapstructure:"max_asymmetry"`  // |ls-rs|/rs ceiling
	HeadGuard      float64 `mapstructure:"head_guard"`     // head must close below this fraction of the shoulder average
	NearPivotPct   float64 `mapstructure:"near_pivot_pct"`
	VolumeMultiple float64 `mapstructure:"volume_multiple"`
	VolumeWindow   int     `mapstructure:"volume_window"`
}

// DefaultInverseHSConfig returns the canonical thresholds.
func DefaultInverseHSConfig() InverseHSConfig {
	return InverseHSConfig{
		MinBars:        60,
		Lookback:       250,
		ExtremumOrder:  5,
		MaxAsymmetry:   0.15,
		HeadGuard:      0.98,
		NearPivotPct:   0.05,
		VolumeMultiple: 1.35,
		VolumeWindow:   3,
	}
}

// InverseHS detects a three-trough reversal base with a neckline pivot.
type InverseHS struct {
	cfg InverseHSConfig
}

// NewInverseHS returns an Inverse Head & Shoulders detector.
func NewInverseHS(cfg InverseHSConfig) *InverseHS {
	return &InverseHS{cfg: cfg}
}

func (d *InverseHS) Kind() analysis.Kind { return analysis.KindInverseHS }

func (d *InverseHS) MinBars() int { return d.cfg.MinBars }

// Detect scans the series for an inverse head-and-shoulders base.
func (d *InverseHS) Detect(series indicators.Enriched) (*analysis.Descriptor, string) {
	n := series.Len()
	if n < d.cfg.MinBars {
		return nil, rejectInsufficientData
	}

	troughs := localMinima(series, n-d.cfg.Lookback, n, d.cfg.ExtremumOrder)
	if len(troughs) < 3 {
		return nil, fmt.Sprintf("not enough troughs: %d found", len(troughs))
	}

	// Head is the deepest interior trough; the edge troughs can only serve
	// as shoulders.
	headPos := 1
	for i := 2; i < len(troughs)-1; i++ {
		if series.Candles[troughs[i]].Close < series.Candles[troughs[headPos]].Close {
			headPos = i
		}
	}

	lsIdx := troughs[headPos-1]
	headIdx := troughs[headPos]
	rsIdx := troughs[headPos+1]
	ls := series.Candles[lsIdx].Close
	head := series.Candles[headIdx].Close
	rs := series.Candles[rsIdx].Close

	if head >= ls || head >= rs {
		return nil, "head not lowest"
	}
	if abs(ls-rs)/rs > d.cfg.MaxAsymmetry {
		return nil, fmt.Sprintf("shoulders asymmetrical: %.2f vs %.2f", ls, rs)
	}
	if head >= d.cfg.HeadGuard*(ls+rs)/2 {
		return nil, "head too shallow"
	}

	// Neckline: the higher of the two peaks flanking the head.
	leftPeak := highestClose(series, lsIdx+1, headIdx)
	rightPeak := highestClose(series, headIdx+1, rsIdx)
	neckline := leftPeak
	if rightPeak > neckline {
		neckline = rightPeak
	}
	if neckline <= 0 {
		return nil, "no neckline between troughs"
	}

	pivot := neckline
	stop := rs
	target := neckline + (neckline - head)
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
		Kind:          analysis.KindInverseHS,
		Pivot:         pivot,
		StopLoss:      stop,
		Target:        target,
		Score:         clampScore(score),
		Status:        status,
		VolumeConfirm: volConfirm,
		Geometry: analysis.InverseHSGeometry{
			LeftShoulderIndex:  lsIdx,
			LeftShoulder:       ls,
			HeadIndex:          headIdx,
			Head:               head,
			RightShoulderIndex: rsIdx,
			RightShoulder:      rs,
			Neckline:           neckline,
		},
	}, ""
}

// highestClose returns the highest Close in [from, to), or 0 on an empty
// range.
func highestClose(series indicators.Enriched, from, to int) float64 {
	if from < 0 {
		from = 0
	}
	if to > series.Len() {
		to = series.Len()
	}
	best := 0.0
	for i := from; i < to; i++ {
		if series.Candles[i].Close > best {
			best = series.Candles[i].Close
		}
	}
	return best
}
