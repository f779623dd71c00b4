package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/logging"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// CandleProvider supplies the candle series for one symbol.
type CandleProvider func(ctx context.Context, symbol string) ([]models.Candle, error)

// Report is the outcome of a batch scan.
type Report struct {
	Results  []Result // matches at or above the minimum score, best first
	Failures []Result // per-symbol errors; the scan continues past them
	Scanned  int
	Elapsed  time.Duration
}

// Scanner runs the analyzer over a symbol universe with a worker pool.
type Scanner struct {
	analyzer *Analyzer
	workers  int
	minScore float64
	log      zerolog.Logger
}

// NewScanner builds a batch scanner. Workers below 1 are clamped to 1.
func NewScanner(analyzer *Analyzer, workers int, minScore float64, log zerolog.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		analyzer: analyzer,
		workers:  workers,
		minScore: minScore,
		log:      log,
	}
}

// ScanUniverse analyzes every symbol, fetching candles through the provider.
// Per-symbol failures are recorded and skipped; they never abort the batch.
// Matching results come back sorted by score descending, ties by symbol.
func (s *Scanner) ScanUniverse(ctx context.Context, symbols []string, provider CandleProvider) Report {
	start := time.Now()

	jobs := make(chan string)
	var mu sync.Mutex
	var report Report

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				res := s.scanOne(ctx, symbol, provider)
				mu.Lock()
				report.Scanned++
				if res.Err != nil {
					report.Failures = append(report.Failures, res)
				} else if res.Found() && res.Best.Score >= s.minScore {
					report.Results = append(report.Results, res)
				}
				mu.Unlock()
			}
		}()
	}

	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			report.Elapsed = time.Since(start)
			return report
		case jobs <- symbol:
		}
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(report.Results, func(i, j int) bool {
		if report.Results[i].Best.Score != report.Results[j].Best.Score {
			return report.Results[i].Best.Score > report.Results[j].Best.Score
		}
		return report.Results[i].Symbol < report.Results[j].Symbol
	})

	report.Elapsed = time.Since(start)
	logging.LogScanSummary(s.log, report.Scanned, len(report.Results), report.Elapsed)
	return report
}

func (s *Scanner) scanOne(ctx context.Context, symbol string, provider CandleProvider) Result {
	candles, err := provider(ctx, symbol)
	if err != nil {
		return Result{Symbol: symbol, Err: errors.NewScanError(symbol, "fetch", err)}
	}
	if len(candles) == 0 {
		return Result{Symbol: symbol, Err: errors.NewScanError(symbol, "fetch", errors.ErrNoCandles)}
	}
	return s.analyzer.Analyze(symbol, candles)
}
