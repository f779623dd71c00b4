package patterns

import (
	"math"
	"strings"
	"testing"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
)

// cleanIHSSeries: left shoulder 80 at bar 20, head 70 at bar 40, right
// shoulder 80.5 at bar 60, intervening peaks at 90, last price 88.
func cleanIHSSeries() []float64 {
	return priceLine(
		anchor{0, 100},
		anchor{20, 80},
		anchor{30, 90},
		anchor{40, 70},
		anchor{50, 90},
		anchor{60, 80.5},
		anchor{70, 88},
	)
}

func TestInverseHSCleanScenario(t *testing.T) {
	series := enrichPrices(t, cleanIHSSeries())
	det := NewInverseHS(DefaultInverseHSConfig())

	desc, reason := det.Detect(series)
	if desc == nil {
		t.Fatalf("Detect rejected the clean setup: %s", reason)
	}
	if desc.Kind != analysis.KindInverseHS {
		t.Errorf("Kind = %v", desc.Kind)
	}
	if math.Abs(desc.Pivot-90) > 1e-9 {
		t.Errorf("Pivot = %.4f, want neckline 90", desc.Pivot)
	}
	if math.Abs(desc.StopLoss-80.5) > 1e-9 {
		t.Errorf("StopLoss = %.4f, want right shoulder 80.5", desc.StopLoss)
	}
	if math.Abs(desc.Target-110) > 1e-9 {
		t.Errorf("Target = %.4f, want 90 + (90-70)", desc.Target)
	}
	if desc.Status != analysis.StatusNearPivot {
		t.Errorf("Status = %v, want Near Pivot (close 88 within 5%% of 90)", desc.Status)
	}
	if desc.Score < 70 {
		t.Errorf("Score = %.1f, want >= 70", desc.Score)
	}

	geom, ok := desc.Geometry.(analysis.InverseHSGeometry)
	if !ok {
		t.Fatalf("Geometry type = %T", desc.Geometry)
	}
	if geom.LeftShoulderIndex != 20 || geom.HeadIndex != 40 || geom.RightShoulderIndex != 60 {
		t.Errorf("trough indices = %d/%d/%d, want 20/40/60",
			geom.LeftShoulderIndex, geom.HeadIndex, geom.RightShoulderIndex)
	}
	if math.Abs(geom.Neckline-90) > 1e-9 {
		t.Errorf("Neckline = %.4f, want 90", geom.Neckline)
	}
}

func TestInverseHSShoulderAsymmetry(t *testing.T) {
	// Shoulders at 50 and 70 are 40% apart, far beyond tolerance.
	prices := priceLine(
		anchor{0, 100},
		anchor{15, 50},
		anchor{25, 80},
		anchor{35, 40},
		anchor{45, 80},
		anchor{55, 70},
		anchor{65, 75},
	)
	det := NewInverseHS(DefaultInverseHSConfig())
	desc, reason := det.Detect(enrichPrices(t, prices))
	if desc != nil {
		t.Fatal("Detect accepted asymmetrical shoulders")
	}
	if !strings.Contains(reason, "asymmetrical") {
		t.Errorf("reason = %q, want shoulder asymmetry", reason)
	}
}

func TestInverseHSTrailingTroughCannotBeHead(t *testing.T) {
	// A descending sequence puts the deepest trough at the end of the series.
	// Edge troughs only serve as shoulders, and the interior trough at 75 is
	// above the trailing 60, so there is no valid head.
	prices := priceLine(
		anchor{0, 100},
		anchor{15, 85},
		anchor{25, 95},
		anchor{40, 75},
		anchor{50, 92},
		anchor{65, 60},
	)
	det := NewInverseHS(DefaultInverseHSConfig())
	desc, reason := det.Detect(enrichPrices(t, prices))
	if desc != nil {
		t.Fatal("Detect accepted a base whose deepest trough trails the pattern")
	}
	if !strings.Contains(reason, "head not lowest") && !strings.Contains(reason, "troughs") {
		t.Errorf("reason = %q", reason)
	}
}

func TestInverseHSDeepLeadingTroughIgnored(t *testing.T) {
	// A capitulation low at bar 10 precedes the actual base. The head must
	// come from the interior troughs (62 at 35, 58 at 55), not the global
	// minimum at the edge of the trough list.
	prices := priceLine(
		anchor{0, 70},
		anchor{10, 50},
		anchor{22, 79},
		anchor{35, 62},
		anchor{45, 80},
		anchor{55, 58},
		anchor{65, 80},
		anchor{75, 61},
		anchor{85, 78},
	)
	det := NewInverseHS(DefaultInverseHSConfig())
	desc, reason := det.Detect(enrichPrices(t, prices))
	if desc == nil {
		t.Fatalf("Detect rejected a base preceded by a deeper trough: %s", reason)
	}

	geom, ok := desc.Geometry.(analysis.InverseHSGeometry)
	if !ok {
		t.Fatalf("Geometry type = %T", desc.Geometry)
	}
	if geom.LeftShoulderIndex != 35 || geom.HeadIndex != 55 || geom.RightShoulderIndex != 75 {
		t.Errorf("trough indices = %d/%d/%d, want 35/55/75",
			geom.LeftShoulderIndex, geom.HeadIndex, geom.RightShoulderIndex)
	}
	if math.Abs(desc.Pivot-80) > 1e-9 {
		t.Errorf("Pivot = %.4f, want neckline 80", desc.Pivot)
	}
	if math.Abs(desc.StopLoss-61) > 1e-9 {
		t.Errorf("StopLoss = %.4f, want right shoulder 61", desc.StopLoss)
	}
	if math.Abs(desc.Target-102) > 1e-9 {
		t.Errorf("Target = %.4f, want 80 + (80-58)", desc.Target)
	}
	if desc.Status != analysis.StatusNearPivot {
		t.Errorf("Status = %v, want Near Pivot (close 78 within 5%% of 80)", desc.Status)
	}
}

func TestInverseHSMinimumLength(t *testing.T) {
	det := NewInverseHS(DefaultInverseHSConfig())
	desc, reason := det.Detect(enrichPrices(t, cleanIHSSeries()[:59]))
	if desc != nil {
		t.Fatal("Detect accepted a series below the minimum length")
	}
	if !strings.Contains(reason, "insufficient data") {
		t.Errorf("reason = %q", reason)
	}
}
