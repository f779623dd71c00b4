package marketdata

import (
	"math"
	"testing"
	"time"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

func hourlyCandles(start time.Time, n int) []models.Candle {
	candles := make([]models.Candle, n)
	for i := range candles {
		base := 100.0 + float64(i)
		candles[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      base,
			High:      base + 2,
			Low:       base - 1,
			Close:     base + 1,
			Volume:    1000,
		}
	}
	return candles
}

func TestFourHourAggregation(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	out, err := FourHour(hourlyCandles(start, 8))
	if err != nil {
		t.Fatalf("FourHour: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("buckets = %d, want 2", len(out))
	}

	first := out[0]
	if !first.Timestamp.Equal(start) {
		t.Errorf("bucket timestamp = %v, want %v", first.Timestamp, start)
	}
	if first.Open != 100 {
		t.Errorf("Open = %v, want first bar's open", first.Open)
	}
	if first.Close != 104 {
		t.Errorf("Close = %v, want last bar's close (103+1)", first.Close)
	}
	if first.High != 105 {
		t.Errorf("High = %v, want max high (103+2)", first.High)
	}
	if first.Low != 99 {
		t.Errorf("Low = %v, want min low (100-1)", first.Low)
	}
	if first.Volume != 4000 {
		t.Errorf("Volume = %v, want summed 4000", first.Volume)
	}
}

func TestFourHourDropsIncompleteTrailingBucket(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	out, err := FourHour(hourlyCandles(start, 7))
	if err != nil {
		t.Fatalf("FourHour: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("buckets = %d, want 1 (trailing bucket has only 3 bars)", len(out))
	}
}

func TestFourHourAlignsToBucketBoundary(t *testing.T) {
	// Bars starting mid-bucket fill a short leading bucket; only the
	// trailing incomplete bucket is dropped.
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	out, err := FourHour(hourlyCandles(start, 6))
	if err != nil {
		t.Fatalf("FourHour: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("buckets = %d, want 2", len(out))
	}
	want := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if !out[0].Timestamp.Equal(want) {
		t.Errorf("first bucket = %v, want aligned to %v", out[0].Timestamp, want)
	}
}

func TestResampleSameIntervalCopies(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	in := hourlyCandles(start, 3)
	out, err := Resample(in, time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	out[0].Close = math.Inf(1)
	if in[0].Close == out[0].Close {
		t.Error("Resample must copy, not alias, the input")
	}
}

func TestResampleValidation(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if _, err := Resample(hourlyCandles(start, 4), time.Hour, 90*time.Minute); err == nil {
		t.Error("non-multiple interval should be rejected")
	}
	if _, err := Resample(nil, time.Hour, 4*time.Hour); !errors.Is(err, errors.ErrNoCandles) {
		t.Errorf("empty input error = %v, want ErrNoCandles", err)
	}
}
