// Package analysis provides the shared types for pattern detection:
// pattern descriptors, lifecycle statuses, and the detector contract.
package analysis

import (
	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
)

// Kind identifies a chart pattern.
type Kind string

const (
	KindCupHandle Kind = "Cup & Handle"
	KindInverseHS Kind = "Inverse H&S"
	KindBullFlag  Kind = "Bull Flag"
	KindFlatBase  Kind = "VCP / Flat Base"
)

// Status is the lifecycle stage of a detected pattern relative to its pivot.
type Status string

const (
	StatusForming   Status = "Forming"
	StatusNearPivot Status = "Near Pivot"
	StatusBreakout  Status = "Breakout"
)

// Descriptor is the normalized output of a successful detection.
// Invariant: StopLoss < Pivot <= Target and Score in [0, 100].
type Descriptor struct {
	Kind          Kind
	Pivot         float64
	StopLoss      float64
	Target        float64
	Score         float64
	Status        Status
	VolumeConfirm bool
	Geometry      Geometry
}

// Risk returns the initial risk per share (pivot entry to stop).
func (d *Descriptor) Risk() float64 {
	return d.Pivot - d.StopLoss
}

// Reward returns the projected reward per share (pivot entry to target).
func (d *Descriptor) Reward() float64 {
	return d.Target - d.Pivot
}

// RiskReward returns the reward-to-risk ratio, or 0 when risk is not positive.
func (d *Descriptor) RiskReward() float64 {
	risk := d.Risk()
	if risk <= 0 {
		return 0
	}
	return d.Reward() / risk
}

// Geometry is the pattern-specific payload attached to a Descriptor.
type Geometry interface {
	PatternKind() Kind
}

// CupHandleGeometry describes the rims, cup bottom, and handle.
type CupHandleGeometry struct {
	LeftRimIndex   int
	LeftRim        float64
	RightRimIndex  int
	RightRim       float64
	CupBottomIndex int
	CupBottom      float64
	CupDepth       float64 // 1 - bottom/max(rims)
	HandleLow      float64
	HandleDepth    float64 // 1 - handleLow/rightRim
	HandleBars     int
}

func (CupHandleGeometry) PatternKind() Kind { return KindCupHandle }

// InverseHSGeometry describes the three troughs and the neckline.
type InverseHSGeometry struct {
	LeftShoulderIndex  int
	LeftShoulder       float64
	HeadIndex          int
	Head               float64
	RightShoulderIndex int
	RightShoulder      float64
	Neckline           float64
}

func (InverseHSGeometry) PatternKind() Kind { return KindInverseHS }

// BullFlagGeometry describes the pole and the flag consolidation.
type BullFlagGeometry struct {
	PoleBaseIndex int
	PoleBase      float64
	PoleTopIndex  int
	PoleTop       float64
	FlagLow       float64
	Retracement   float64 // fraction of pole height given back
}

func (BullFlagGeometry) PatternKind() Kind { return KindBullFlag }

// FlatBaseGeometry describes the contraction window.
type FlatBaseGeometry struct {
	WindowBars int
	WindowHigh float64
	WindowLow  float64
	Width      float64 // (high-low)/low
}

func (FlatBaseGeometry) PatternKind() Kind { return KindFlatBase }

// Detector scans a preprocessed series for one pattern's geometric signature.
// On success it returns a fully populated Descriptor; on rejection it returns
// nil and a distinct, human-readable reason naming the failed gate.
// Implementations are stateless and safe for concurrent use.
type Detector interface {
	Kind() Kind
	MinBars() int
	Detect(series indicators.Enriched) (*Descriptor, string)
}
