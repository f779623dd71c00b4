package marketdata

import (
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// csvTime parses the timestamp formats seen in exported candle files.
type csvTime struct {
	time.Time
}

var csvTimeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *csvTime) UnmarshalCSV(field string) error {
	for _, layout := range csvTimeFormats {
		if parsed, err := time.Parse(layout, field); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return errors.NewValidationError("timestamp", field, "unrecognized time format")
}

func (t csvTime) MarshalCSV() (string, error) {
	return t.Format(time.RFC3339), nil
}

type csvCandle struct {
	Timestamp csvTime `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    int64   `csv:"volume"`
}

// LoadCSV reads OHLCV candles from a CSV file with a
// timestamp,open,high,low,close,volume header. Rows come back sorted by
// timestamp ascending.
func LoadCSV(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	var rows []*csvCandle
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if len(rows) == 0 {
		return nil, errors.ErrNoCandles
	}

	candles := make([]models.Candle, len(rows))
	for i, r := range rows {
		candles[i] = models.Candle{
			Timestamp: r.Timestamp.Time,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		}
	}
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	return candles, nil
}

// SaveCSV writes candles to a CSV file in the format LoadCSV reads.
func SaveCSV(path string, candles []models.Candle) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	rows := make([]*csvCandle, len(candles))
	for i, c := range candles {
		rows[i] = &csvCandle{
			Timestamp: csvTime{c.Timestamp},
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	}
	return gocsv.MarshalFile(&rows, f)
}
