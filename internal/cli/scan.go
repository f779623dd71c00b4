package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCmd(app *App) *cobra.Command {
	var (
		symbols   []string
		file      string
		watchlist string
		minScore  float64
		timeframe string
		noCharts  bool
		noAI      bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a symbol universe for chart patterns",
		Long: `Scan runs every detector over each symbol's cached candles and reports
the best-scoring pattern per symbol, sorted by score.

The universe comes from --symbols, --file (a ticker CSV), or a stored
watchlist, in that order of preference.`,
		Example: `  scanner scan --symbols AAPL,MSFT,NVDA
  scanner scan --file tickers.csv --min-score 80
  scanner scan --watchlist growth --timeframe 4h --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			syms, err := app.resolveUniverse(ctx, symbols, file, watchlist)
			if err != nil {
				return err
			}

			opts := app.defaultScanOptions()
			if cmd.Flags().Changed("min-score") {
				opts.minScore = minScore
			}
			if timeframe != "" {
				opts.timeframe = parseTimeframe(timeframe)
			}
			opts.charts = !noCharts
			if noAI {
				opts.validate = false
			}

			report, setups, err := app.runScanPipeline(ctx, syms, opts)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"scanned":  report.Scanned,
					"matched":  len(setups),
					"failures": len(report.Failures),
					"elapsed":  report.Elapsed.String(),
					"setups":   setups,
				})
			}

			output.Bold("Scan: %d symbols, %d matches (%.1fs)", report.Scanned, len(setups), report.Elapsed.Seconds())
			output.Println()

			if len(setups) == 0 {
				output.Info("No patterns at or above score %.0f.", opts.minScore)
				return nil
			}

			table := NewTable(output, "SYMBOL", "PATTERN", "STATUS", "SCORE", "PIVOT", "STOP", "TARGET")
			for _, s := range setups {
				table.AddRow(
					s.Symbol,
					s.Pattern,
					output.StatusTag(s.Status),
					output.ScoreTag(s.Score),
					fmt.Sprintf("%.2f", s.Pivot),
					fmt.Sprintf("%.2f", s.StopLoss),
					fmt.Sprintf("%.2f", s.Target),
				)
			}
			table.Render()

			if len(report.Failures) > 0 {
				output.Println()
				output.Warning("%d symbol(s) skipped:", len(report.Failures))
				for _, f := range report.Failures {
					output.Dim("  %s: %v", f.Symbol, f.Err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "comma-separated symbols to scan")
	cmd.Flags().StringVar(&file, "file", "", "ticker CSV file (symbol,name,sector)")
	cmd.Flags().StringVar(&watchlist, "watchlist", "default", "watchlist name")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum score to report")
	cmd.Flags().StringVar(&timeframe, "timeframe", "", "candle timeframe (1h, 4h, 1d)")
	cmd.Flags().BoolVar(&noCharts, "no-charts", false, "skip chart artifact rendering")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "skip AI validation even when configured")

	return cmd
}
