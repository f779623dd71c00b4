package patterns

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// candleGen generates valid candle data with realistic OHLCV values
func candleGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Candle{}), map[string]gopter.Gen{
		"Open":   gen.Float64Range(10.0, 1000.0),
		"High":   gen.Float64Range(10.0, 1000.0),
		"Low":    gen.Float64Range(10.0, 1000.0),
		"Close":  gen.Float64Range(10.0, 1000.0),
		"Volume": gen.Int64Range(1000, 10000000),
	}).Map(func(c models.Candle) models.Candle {
		c.High = math.Max(c.High, math.Max(c.Open, c.Close))
		c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
		if c.Low > c.High {
			c.Low, c.High = c.High, c.Low
		}
		return c
	})
}

func seriesGen(n int) gopter.Gen {
	return gen.SliceOfN(n, candleGen()).Map(func(candles []models.Candle) indicators.Enriched {
		start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
		for i := range candles {
			candles[i].Timestamp = start.Add(time.Duration(i) * 4 * time.Hour)
		}
		series, err := indicators.Preprocess(candles, indicators.DefaultWindows())
		if err != nil {
			panic(err)
		}
		return series
	})
}

func forEachDetector(series indicators.Enriched, check func(analysis.Detector, *analysis.Descriptor) bool) bool {
	for _, det := range All() {
		desc, _ := det.Detect(series)
		if !check(det, desc) {
			return false
		}
	}
	return true
}

func TestProperty_ScoreWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("every produced score lies in [0, 100]", prop.ForAll(
		func(series indicators.Enriched) bool {
			return forEachDetector(series, func(_ analysis.Detector, desc *analysis.Descriptor) bool {
				return desc == nil || (desc.Score >= 0 && desc.Score <= 100)
			})
		},
		seriesGen(90),
	))

	properties.TestingRun(t)
}

func TestProperty_TradeLevelOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("stop < pivot <= target for every detection", prop.ForAll(
		func(series indicators.Enriched) bool {
			return forEachDetector(series, func(_ analysis.Detector, desc *analysis.Descriptor) bool {
				return desc == nil || (desc.StopLoss < desc.Pivot && desc.Pivot <= desc.Target)
			})
		},
		seriesGen(90),
	))

	properties.TestingRun(t)
}

func TestProperty_BreakoutIff(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("status is Breakout iff the last close exceeds the pivot", prop.ForAll(
		func(series indicators.Enriched) bool {
			close := series.LastClose()
			return forEachDetector(series, func(_ analysis.Detector, desc *analysis.Descriptor) bool {
				if desc == nil {
					return true
				}
				return (desc.Status == analysis.StatusBreakout) == (close > desc.Pivot)
			})
		},
		seriesGen(90),
	))

	properties.TestingRun(t)
}

func TestProperty_DetectorsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("repeated detection yields identical descriptors", prop.ForAll(
		func(series indicators.Enriched) bool {
			for _, det := range All() {
				a, reasonA := det.Detect(series)
				b, reasonB := det.Detect(series)
				if reasonA != reasonB || !reflect.DeepEqual(a, b) {
					return false
				}
			}
			return true
		},
		seriesGen(80),
	))

	properties.TestingRun(t)
}

func TestProperty_MinimumLengthAlwaysRejects(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("series below a detector's minimum never match", prop.ForAll(
		func(series indicators.Enriched) bool {
			return forEachDetector(series, func(det analysis.Detector, _ *analysis.Descriptor) bool {
				if series.Len() >= det.MinBars() {
					return true
				}
				desc, reason := det.Detect(series)
				return desc == nil && reason != ""
			})
		},
		seriesGen(25),
	))

	properties.TestingRun(t)
}
