package indicators

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

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
		// Enforce OHLC constraints: High >= max(Open, Close), Low <= min(Open, Close)
		c.High = math.Max(c.High, math.Max(c.Open, c.Close))
		c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
		if c.Low > c.High {
			c.Low, c.High = c.High, c.Low
		}
		return c
	})
}

// candleSliceGen generates an ordered slice of valid candles
func candleSliceGen(n int) gopter.Gen {
	return gen.SliceOfN(n, candleGen()).Map(func(candles []models.Candle) []models.Candle {
		start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
		for i := range candles {
			candles[i].Timestamp = start.Add(time.Duration(i) * 4 * time.Hour)
		}
		return candles
	})
}

func TestProperty_SMAWithinCloseBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("defined SMA values lie within the min/max close of the series", prop.ForAll(
		func(candles []models.Candle) bool {
			series, err := Preprocess(candles, DefaultWindows())
			if err != nil {
				return false
			}
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, c := range candles {
				lo = math.Min(lo, c.Close)
				hi = math.Max(hi, c.Close)
			}
			for i := 0; i < series.Len(); i++ {
				if v, ok := series.SMA50.At(i); ok && (v < lo-1e-9 || v > hi+1e-9) {
					return false
				}
			}
			return true
		},
		candleSliceGen(120),
	))

	properties.TestingRun(t)
}

func TestProperty_ColumnDefinedExactlyAfterWarmup(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("SMA50 is defined at bar i iff i >= 49", prop.ForAll(
		func(candles []models.Candle) bool {
			series, err := Preprocess(candles, DefaultWindows())
			if err != nil {
				return false
			}
			for i := 0; i < series.Len(); i++ {
				_, ok := series.SMA50.At(i)
				if ok != (i >= 49) {
					return false
				}
			}
			return true
		},
		candleSliceGen(90),
	))

	properties.TestingRun(t)
}

func TestProperty_PreprocessDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("preprocessing the same series twice yields identical results", prop.ForAll(
		func(candles []models.Candle) bool {
			a, err1 := Preprocess(candles, DefaultWindows())
			b, err2 := Preprocess(candles, DefaultWindows())
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			return reflect.DeepEqual(a, b)
		},
		candleSliceGen(100),
	))

	properties.TestingRun(t)
}
