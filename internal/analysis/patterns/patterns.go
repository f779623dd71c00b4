// Package patterns implements the four chart-pattern detectors: Cup & Handle,
// Inverse Head & Shoulders, Bull Flag, and the VCP-style flat base. Each
// detector is a stateless value satisfying analysis.Detector; rejections come
// back as (nil, reason) with a distinct reason per gate.
package patterns

import (
	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
)

// All returns the detectors in canonical evaluation order. The order matters:
// the best-match selector breaks score ties in favor of the first detector
// registered here.
func All() []analysis.Detector {
	return []analysis.Detector{
		NewCupHandle(DefaultCupHandleConfig()),
		NewInverseHS(DefaultInverseHSConfig()),
		NewBullFlag(DefaultBullFlagConfig()),
		NewFlatBase(DefaultFlatBaseConfig()),
	}
}

const rejectInsufficientData = "insufficient data"

// clampScore bounds an accumulated score to [0, 100].
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// classifyStatus derives the lifecycle status from the last close relative to
// the pivot. Breakout holds iff close > pivot; Near Pivot holds within
// tolerance (a fraction, e.g. 0.03) below it.
func classifyStatus(close, pivot, tolerance float64) analysis.Status {
	switch {
	case close > pivot:
		return analysis.StatusBreakout
	case close >= pivot*(1-tolerance):
		return analysis.StatusNearPivot
	default:
		return analysis.StatusForming
	}
}

// validLevels reports whether the trade levels form a usable long setup.
func validLevels(stop, pivot, target float64) bool {
	return stop < pivot && pivot <= target
}

// riskRewardBonus awards tiered points for the projected reward per unit of
// initial risk.
func riskRewardBonus(stop, pivot, target float64) float64 {
	risk := pivot - stop
	if risk <= 0 {
		return 0
	}
	rr := (target - pivot) / risk
	switch {
	case rr >= 3:
		return 10
	case rr >= 2:
		return 5
	case rr >= 1:
		return 2
	default:
		return 0
	}
}

// highestHigh returns the index of the highest High in [from, to).
// Ties resolve to the earliest bar. Returns -1 on an empty range.
func highestHigh(series indicators.Enriched, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > series.Len() {
		to = series.Len()
	}
	if from >= to {
		return -1
	}
	best := from
	for i := from + 1; i < to; i++ {
		if series.Candles[i].High > series.Candles[best].High {
			best = i
		}
	}
	return best
}

// lowestLow returns the index of the lowest Low in [from, to).
// Ties resolve to the earliest bar. Returns -1 on an empty range.
func lowestLow(series indicators.Enriched, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > series.Len() {
		to = series.Len()
	}
	if from >= to {
		return -1
	}
	best := from
	for i := from + 1; i < to; i++ {
		if series.Candles[i].Low < series.Candles[best].Low {
			best = i
		}
	}
	return best
}

// localMinima returns the indices in [from, to) whose Close is the strict
// minimum within ±order bars (clipped at the range edges).
func localMinima(series indicators.Enriched, from, to, order int) []int {
	if from < 0 {
		from = 0
	}
	if to > series.Len() {
		to = series.Len()
	}
	var out []int
	for i := from; i < to; i++ {
		lo := i - order
		if lo < from {
			lo = from
		}
		hi := i + order
		if hi >= to {
			hi = to - 1
		}
		isMin := true
		for j := lo; j <= hi; j++ {
			if j != i && series.Candles[j].Close <= series.Candles[i].Close {
				isMin = false
				break
			}
		}
		if isMin {
			out = append(out, i)
		}
	}
	return out
}

// meanVolume averages Volume over [from, to). Returns 0 on an empty range.
func meanVolume(series indicators.Enriched, from, to int) float64 {
	if from < 0 {
		from = 0
	}
	if to > series.Len() {
		to = series.Len()
	}
	if from >= to {
		return 0
	}
	var sum float64
	for i := from; i < to; i++ {
		sum += float64(series.Candles[i].Volume)
	}
	return sum / float64(to-from)
}

// volumeConfirmed reports whether any of the last n bars traded above
// multiple × the 50-bar average volume at that bar. Undefined averages never
// confirm.
func volumeConfirmed(series indicators.Enriched, n int, multiple float64) bool {
	for i := series.Len() - n; i < series.Len(); i++ {
		if i < 0 {
			continue
		}
		avg, ok := series.VolSMA.At(i)
		if !ok || avg <= 0 {
			continue
		}
		if float64(series.Candles[i].Volume) > multiple*avg {
			return true
		}
	}
	return false
}
