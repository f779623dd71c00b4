package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vivekvjoshi/StockScanner/internal/ai"
	"github.com/vivekvjoshi/StockScanner/internal/analysis/indicators"
	"github.com/vivekvjoshi/StockScanner/internal/chart"
	"github.com/vivekvjoshi/StockScanner/internal/config"
	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/marketdata"
	"github.com/vivekvjoshi/StockScanner/internal/models"
	"github.com/vivekvjoshi/StockScanner/internal/notify"
	"github.com/vivekvjoshi/StockScanner/internal/scan"
	"github.com/vivekvjoshi/StockScanner/internal/universe"
)

// newAnalyzer builds the detector pipeline from the loaded configuration.
func (app *App) newAnalyzer() *scan.Analyzer {
	return scan.NewAnalyzer(
		indicators.DefaultWindows(),
		app.Config.Trend.ToFilter(),
		app.Config.Detectors(),
		app.Logger,
	)
}

// cacheStaleAfter is how old a cached series may grow before scans warn
// about it, one 4h bucket.
const cacheStaleAfter = 4 * time.Hour

// candleProvider reads candles from the store. When the requested timeframe
// is 4h and nothing is cached, it falls back to resampling cached 1h bars.
func (app *App) candleProvider(timeframe models.Timeframe) scan.CandleProvider {
	return func(ctx context.Context, symbol string) ([]models.Candle, error) {
		if app.Store == nil {
			return nil, errors.ErrDatabaseError
		}
		candles, err := app.Store.GetCandles(ctx, symbol, timeframe, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		if len(candles) > 0 {
			if at, err := app.Store.GetCandlesFreshness(ctx, symbol, timeframe); err == nil {
				if age := time.Since(at); age > cacheStaleAfter {
					app.Logger.Warn().
						Str("symbol", symbol).
						Str("timeframe", string(timeframe)).
						Dur("age", age).
						Msg("Cached candles are stale, re-import for current data")
				}
			}
			return candles, nil
		}
		if timeframe == models.TimeframeFourH {
			hourly, err := app.Store.GetCandles(ctx, symbol, models.TimeframeHourly, time.Time{}, time.Time{})
			if err != nil {
				return nil, err
			}
			if len(hourly) > 0 {
				return marketdata.FourHour(hourly)
			}
		}
		return nil, errors.NewDataError("candles", symbol, "no cached candles", errors.ErrDataNotFound)
	}
}

// resolveUniverse picks the symbol universe from the flags, preferring an
// explicit list, then a ticker file, then a watchlist.
func (app *App) resolveUniverse(ctx context.Context, symbols []string, file, watchlist string) ([]string, error) {
	var provider universe.Provider
	switch {
	case len(symbols) > 0:
		provider = universe.NewStatic("flags", symbols)
	case file != "":
		provider = universe.NewFile(file)
	default:
		if app.Store == nil {
			return nil, errors.ErrDatabaseError
		}
		provider = universe.NewWatchlist(app.Store, watchlist)
	}
	return universe.Symbols(ctx, provider)
}

// scanOptions control the post-detection pipeline.
type scanOptions struct {
	timeframe models.Timeframe
	minScore  float64
	charts    bool
	chartDir  string
	validate  bool
	persist   bool
}

func (app *App) defaultScanOptions() scanOptions {
	return scanOptions{
		timeframe: models.Timeframe(app.Config.Scan.Timeframe),
		minScore:  app.Config.Scan.MinScore,
		charts:    true,
		chartDir:  filepath.Join(config.ConfigDir(), "charts"),
		validate:  app.Config.AI.Enabled,
		persist:   true,
	}
}

// runScanPipeline scans the universe, then renders charts, runs the optional
// AI validator, and persists records for every match.
func (app *App) runScanPipeline(ctx context.Context, symbols []string, opts scanOptions) (scan.Report, []notify.Setup, error) {
	analyzer := app.newAnalyzer()
	scanner := scan.NewScanner(analyzer, app.Config.Scan.Workers, opts.minScore, app.Logger)
	report := scanner.ScanUniverse(ctx, symbols, app.candleProvider(opts.timeframe))

	var renderer chart.Renderer
	if opts.charts {
		renderer = chart.NewSnapshotRenderer(opts.chartDir)
	}

	var validator *ai.Validator
	if opts.validate {
		v, err := ai.NewValidator(app.Config.AI.APIKey, app.Config.AI.BaseURL, app.Config.AI.Model)
		if err != nil {
			app.Logger.Warn().Err(err).Msg("AI validator unavailable, continuing without it")
		} else {
			validator = v
		}
	}

	scannedAt := time.Now().UTC()
	setups := make([]notify.Setup, 0, len(report.Results))

	for i := range report.Results {
		res := &report.Results[i]
		desc := res.Best

		var chartPath string
		if renderer != nil {
			candles, err := app.candleProvider(opts.timeframe)(ctx, res.Symbol)
			if err == nil {
				chartPath, err = renderer.Render(res.Symbol, candles, desc)
				if err != nil {
					app.Logger.Warn().Str("symbol", res.Symbol).Err(err).Msg("Chart render failed")
				}
			}
		}

		rec := &models.ScanRecord{
			ID:        fmt.Sprintf("%s-%s-%d", res.Symbol, slug(string(desc.Kind)), scannedAt.Unix()),
			Symbol:    res.Symbol,
			Pattern:   string(desc.Kind),
			Score:     desc.Score,
			Status:    string(desc.Status),
			Pivot:     desc.Pivot,
			StopLoss:  desc.StopLoss,
			Target:    desc.Target,
			ChartPath: chartPath,
			ScannedAt: scannedAt,
		}

		if opts.persist && app.Store != nil {
			if err := app.Store.SaveScanRecord(ctx, rec); err != nil {
				app.Logger.Warn().Str("symbol", res.Symbol).Err(err).Msg("Failed to persist scan record")
			}
		}

		// The journal keeps the detector's own score; the AI verdict is
		// attached alongside it and the blend drives display and alerts.
		if validator != nil && chartPath != "" {
			verdict, err := validator.Validate(ctx, res.Symbol, desc, chartPath)
			if err != nil {
				app.Logger.Warn().Str("symbol", res.Symbol).Err(err).Msg("AI validation failed")
			} else {
				rec.AIScore = &verdict.Score
				rec.AIVerdict = verdict.Verdict
				desc.Score = ai.Blend(desc.Score, verdict.Score, app.Config.AI.Blend)
				if opts.persist && app.Store != nil {
					if err := app.Store.UpdateAIVerdict(ctx, rec.ID, verdict.Score, verdict.Verdict); err != nil {
						app.Logger.Warn().Str("symbol", res.Symbol).Err(err).Msg("Failed to attach AI verdict")
					}
				}
			}
		}

		setups = append(setups, notify.Setup{
			Symbol:    res.Symbol,
			Pattern:   string(desc.Kind),
			Status:    string(desc.Status),
			Score:     desc.Score,
			Pivot:     desc.Pivot,
			StopLoss:  desc.StopLoss,
			Target:    desc.Target,
			ChartPath: chartPath,
		})
	}

	return report, setups, nil
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+32)
		case r == ' ', r == '/', r == '&':
			if len(out) > 0 && out[len(out)-1] != '-' {
				out = append(out, '-')
			}
		}
	}
	return string(out)
}
