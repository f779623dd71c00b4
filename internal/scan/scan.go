// Package scan runs the pattern detectors over candle series: a single-symbol
// analyzer, the best-match selector, and a worker-pool batch scanner.
package scan

import (
	"github.com/rs/zerolog"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/trend"
	"github.com/vivekvjoshi/StockScanner/internal/logging"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// Result is the outcome of analyzing one symbol.
type Result struct {
	Symbol      string
	Best        *analysis.Descriptor
	Matches     []*analysis.Descriptor
	Rejections  map[analysis.Kind]string
	TrendPass   bool
	TrendReason string
	Err         error
}

// Found reports whether any detector matched.
func (r Result) Found() bool {
	return r.Best != nil
}

// Analyzer runs the trend filter and all detectors over one series.
// It is stateless and safe for concurrent use.
type Analyzer struct {
	windows   indicators.Windows
	trendCfg  trend.Config
	detectors []analysis.Detector
	log       zerolog.Logger
}

// NewAnalyzer builds an analyzer over the given detector set. Detector order
// is the tie-break order for best-match selection.
func NewAnalyzer(windows indicators.Windows, trendCfg trend.Config, detectors []analysis.Detector, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		windows:   windows,
		trendCfg:  trendCfg,
		detectors: detectors,
		log:       log,
	}
}

// Analyze preprocesses the candles, applies the trend filter, and runs every
// detector. A failed trend check short-circuits detection.
func (a *Analyzer) Analyze(symbol string, candles []models.Candle) Result {
	res := Result{Symbol: symbol, Rejections: make(map[analysis.Kind]string)}

	series, err := indicators.Preprocess(candles, a.windows)
	if err != nil {
		res.Err = err
		return res
	}

	pass, reason := trend.Check(series, a.trendCfg)
	res.TrendPass = pass
	res.TrendReason = reason
	if !pass {
		logging.LogRejection(a.log, symbol, "trend", reason)
		return res
	}

	for _, det := range a.detectors {
		desc, why := det.Detect(series)
		if desc == nil {
			res.Rejections[det.Kind()] = why
			logging.LogRejection(a.log, symbol, string(det.Kind()), why)
			continue
		}
		res.Matches = append(res.Matches, desc)
		logging.LogDetection(a.log, symbol, string(desc.Kind), string(desc.Status), desc.Score, desc.Pivot)
	}

	res.Best = BestMatch(res.Matches)
	return res
}

// BestMatch returns the highest-scoring descriptor, or nil when the slice is
// empty. Ties go to the earliest descriptor, which preserves detector
// registration order.
func BestMatch(matches []*analysis.Descriptor) *analysis.Descriptor {
	var best *analysis.Descriptor
	for _, m := range matches {
		if best == nil || m.Score > best.Score {
			best = m
		}
	}
	return best
}
