package patterns

import (
	"testing"
	"time"

	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// anchor pins a price at a bar; prices between anchors are interpolated
// linearly.
type anchor struct {
	bar   int
	price float64
}

// priceLine builds a price path from anchors. The last anchor sets the
// series length.
func priceLine(anchors ...anchor) []float64 {
	n := anchors[len(anchors)-1].bar + 1
	prices := make([]float64, n)
	for k := 0; k < len(anchors)-1; k++ {
		a, b := anchors[k], anchors[k+1]
		span := b.bar - a.bar
		for i := a.bar; i <= b.bar; i++ {
			frac := 0.0
			if span > 0 {
				frac = float64(i-a.bar) / float64(span)
			}
			prices[i] = a.price + (b.price-a.price)*frac
		}
	}
	return prices
}

// flatCandles turns a price path into candles with High=Low=Close so the
// geometry under test is exact.
func flatCandles(prices []float64, volume int64) []models.Candle {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(prices))
	for i, p := range prices {
		candles[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * 4 * time.Hour),
			Open:      p,
			High:      p,
			Low:       p,
			Close:     p,
			Volume:    volume,
		}
	}
	return candles
}

func enrich(t *testing.T, candles []models.Candle) indicators.Enriched {
	t.Helper()
	series, err := indicators.Preprocess(candles, indicators.DefaultWindows())
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	return series
}

func enrichPrices(t *testing.T, prices []float64) indicators.Enriched {
	t.Helper()
	return enrich(t, flatCandles(prices, 1000))
}
