package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/marketdata"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

func parseTimeframe(s string) models.Timeframe {
	switch strings.ToLower(s) {
	case "1h":
		return models.TimeframeHourly
	case "1d", "d", "daily":
		return models.TimeframeDaily
	default:
		return models.TimeframeFourH
	}
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		csvFile   string
		timeframe string
	)

	cmd := &cobra.Command{
		Use:   "analyze <symbol>",
		Short: "Run all detectors over one symbol and explain the outcome",
		Long: `Analyze runs the trend filter and every pattern detector over a single
symbol, printing each detector's verdict including its rejection reason.
Candles come from the local cache, or from --csv for offline data.`,
		Example: `  scanner analyze AAPL
  scanner analyze NVDA --csv nvda_4h.csv
  scanner analyze MSFT --timeframe 1d --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()
			symbol := strings.ToUpper(args[0])

			var candles []models.Candle
			var err error
			if csvFile != "" {
				candles, err = marketdata.LoadCSV(csvFile)
			} else {
				tf := models.Timeframe(app.Config.Scan.Timeframe)
				if timeframe != "" {
					tf = parseTimeframe(timeframe)
				}
				candles, err = app.candleProvider(tf)(ctx, symbol)
			}
			if err != nil {
				return err
			}

			res := app.newAnalyzer().Analyze(symbol, candles)
			if res.Err != nil {
				return res.Err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":       res.Symbol,
					"bars":         len(candles),
					"trend_pass":   res.TrendPass,
					"trend_reason": res.TrendReason,
					"best":         res.Best,
					"matches":      res.Matches,
					"rejections":   res.Rejections,
				})
			}

			output.Bold("%s — %d bars", symbol, len(candles))
			if res.TrendPass {
				if res.TrendReason != "" {
					output.Warning("Trend filter: pass (%s)", res.TrendReason)
				} else {
					output.Success("Trend filter: pass")
				}
			} else {
				output.Error("Trend filter: fail — %s", res.TrendReason)
				return nil
			}
			output.Println()

			for _, m := range res.Matches {
				printDescriptor(output, m, m == res.Best)
			}
			for kind, reason := range res.Rejections {
				output.Dim("%-25s %s", string(kind)+":", reason)
			}
			if res.Best == nil {
				output.Println()
				output.Info("No pattern found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvFile, "csv", "", "read candles from a CSV file instead of the cache")
	cmd.Flags().StringVar(&timeframe, "timeframe", "", "candle timeframe (1h, 4h, 1d)")

	return cmd
}

func printDescriptor(output *Output, d *analysis.Descriptor, best bool) {
	marker := " "
	if best {
		marker = output.Green("★")
	}
	output.Printf("%s %s  %s  score %s\n", marker, output.ColoredString(ColorBold, string(d.Kind)),
		output.StatusTag(string(d.Status)), output.ScoreTag(d.Score))
	output.Printf("    Entry %.2f  Stop %.2f  Target %.2f  R:R %.1f\n",
		d.Pivot, d.StopLoss, d.Target, d.RiskReward())
	if d.VolumeConfirm {
		output.Printf("    Volume confirmed\n")
	}
}
