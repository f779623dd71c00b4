// Package indicators computes the trailing averages attached to a candle
// series before pattern detection runs. Averages are trailing-only: the
// value at bar i uses bars (i-period+1 .. i) and nothing later.
package indicators

import (
	"math"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// Windows holds the moving-average periods used during preprocessing.
type Windows struct {
	FastSMA int // close SMA, default 50
	SlowSMA int // close SMA, default 200
	VolSMA  int // volume SMA, default 50
}

// DefaultWindows returns the standard 50/200/50 configuration.
func DefaultWindows() Windows {
	return Windows{FastSMA: 50, SlowSMA: 200, VolSMA: 50}
}

// Column is a per-bar indicator series aligned with the candle series.
// Bars before the warm-up period hold no value: a short series produces a
// column that is defined nowhere, never one padded with zeros.
type Column struct {
	values []float64
	first  int // index of the first defined value; len(values) when none
}

// At returns the value at bar i and whether it is defined.
func (c Column) At(i int) (float64, bool) {
	if i < c.first || i >= len(c.values) {
		return 0, false
	}
	return c.values[i], true
}

// Last returns the value at the final bar and whether it is defined.
func (c Column) Last() (float64, bool) {
	return c.At(len(c.values) - 1)
}

// FirstDefined returns the index of the first defined bar, or -1 when the
// column is defined nowhere.
func (c Column) FirstDefined() int {
	if c.first >= len(c.values) {
		return -1
	}
	return c.first
}

// Len returns the number of bars the column spans (defined or not).
func (c Column) Len() int {
	return len(c.values)
}

// Enriched is a candle series with its preprocessing columns attached.
type Enriched struct {
	Candles []models.Candle
	SMA50   Column
	SMA200  Column
	VolSMA  Column
}

// Len returns the number of bars in the series.
func (e Enriched) Len() int {
	return len(e.Candles)
}

// LastClose returns the close of the final bar.
func (e Enriched) LastClose() float64 {
	return e.Candles[len(e.Candles)-1].Close
}

// Preprocess validates a candle series and attaches trailing SMA columns.
// The input is not modified; calling Preprocess on the candles of a
// previous result yields identical columns.
func Preprocess(candles []models.Candle, w Windows) (Enriched, error) {
	if len(candles) == 0 {
		return Enriched{}, errors.ErrNoCandles
	}
	for i, c := range candles {
		if err := validateCandle(c); err != nil {
			return Enriched{}, errors.NewDataError("candle", "", "invalid bar", errors.Wrapf(err, "bar %d", i))
		}
	}

	return Enriched{
		Candles: candles,
		SMA50:   smaClose(candles, w.FastSMA),
		SMA200:  smaClose(candles, w.SlowSMA),
		VolSMA:  smaVolume(candles, w.VolSMA),
	}, nil
}

func validateCandle(c models.Candle) error {
	switch {
	case c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0:
		return errors.NewValidationError("price", c, "prices must be positive")
	case c.Low > c.High:
		return errors.NewValidationError("range", c, "low above high")
	case c.Volume < 0:
		return errors.NewValidationError("volume", c.Volume, "volume must be non-negative")
	case math.IsNaN(c.Open) || math.IsNaN(c.High) || math.IsNaN(c.Low) || math.IsNaN(c.Close):
		return errors.NewValidationError("price", c, "price is NaN")
	}
	return nil
}

// smaClose computes a trailing simple moving average over closes.
func smaClose(candles []models.Candle, period int) Column {
	return smaOf(candles, period, func(c models.Candle) float64 { return c.Close })
}

// smaVolume computes a trailing simple moving average over volume.
func smaVolume(candles []models.Candle, period int) Column {
	return smaOf(candles, period, func(c models.Candle) float64 { return float64(c.Volume) })
}

func smaOf(candles []models.Candle, period int, value func(models.Candle) float64) Column {
	n := len(candles)
	col := Column{values: make([]float64, n), first: n}
	if period <= 0 || n < period {
		return col
	}

	col.first = period - 1
	var sum float64
	for i := 0; i < period; i++ {
		sum += value(candles[i])
	}
	col.values[period-1] = sum / float64(period)
	for i := period; i < n; i++ {
		sum += value(candles[i]) - value(candles[i-period])
		col.values[i] = sum / float64(period)
	}
	return col
}
