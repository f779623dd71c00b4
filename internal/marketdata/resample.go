// Package marketdata prepares candle series for the scanner: timeframe
// resampling and offline CSV import.
package marketdata

import (
	"time"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// Resample aggregates candles from a source interval into larger buckets
// aligned to wall-clock boundaries: Open = first, High = max, Low = min,
// Close = last, Volume = sum. A trailing bucket that the source series has
// not finished filling is dropped rather than emitted as a partial bar.
func Resample(candles []models.Candle, src, dst time.Duration) ([]models.Candle, error) {
	if dst <= 0 || src <= 0 || dst%src != 0 {
		return nil, errors.NewValidationError("interval", dst, "destination must be a positive multiple of the source")
	}
	if len(candles) == 0 {
		return nil, errors.ErrNoCandles
	}
	if dst == src {
		out := make([]models.Candle, len(candles))
		copy(out, candles)
		return out, nil
	}

	var out []models.Candle
	var cur models.Candle
	var bucket time.Time
	open := false

	for _, c := range candles {
		b := c.Timestamp.Truncate(dst)
		if !open || !b.Equal(bucket) {
			if open {
				out = append(out, cur)
			}
			bucket = b
			cur = models.Candle{
				Timestamp: b,
				Open:      c.Open,
				High:      c.High,
				Low:       c.Low,
				Close:     c.Close,
				Volume:    c.Volume,
			}
			open = true
			continue
		}
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}

	// Emit the trailing bucket only once the source has reached its end.
	last := candles[len(candles)-1]
	if open && !last.Timestamp.Add(src).Before(bucket.Add(dst)) {
		out = append(out, cur)
	}
	return out, nil
}

// FourHour resamples hourly candles into 4-hour candles.
func FourHour(candles []models.Candle) ([]models.Candle, error) {
	return Resample(candles, time.Hour, 4*time.Hour)
}
