package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/marketdata"
	"github.com/vivekvjoshi/StockScanner/internal/models"
	"github.com/vivekvjoshi/StockScanner/pkg/utils"
)

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Candle data management",
		Long:  "Import and inspect the local candle cache.",
	}

	cmd.AddCommand(newDataImportCmd(app))
	cmd.AddCommand(newDataShowCmd(app))
	cmd.AddCommand(newDataResampleCmd(app))

	return cmd
}

func newDataImportCmd(app *App) *cobra.Command {
	var (
		file      string
		timeframe string
	)

	cmd := &cobra.Command{
		Use:   "import <symbol>",
		Short: "Import candles from a CSV file into the cache",
		Example: `  scanner data import AAPL --file aapl_1h.csv --timeframe 1h
  scanner data import NVDA --file nvda_4h.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()
			symbol := strings.ToUpper(args[0])

			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			candles, err := marketdata.LoadCSV(file)
			if err != nil {
				return err
			}

			tf := parseTimeframe(timeframe)
			if err := app.Store.SaveCandles(ctx, symbol, tf, candles); err != nil {
				return err
			}
			if err := app.Store.SetLastSync("candles:"+symbol, time.Now().UTC()); err != nil {
				app.Logger.Warn().Err(err).Msg("Failed to record sync time")
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":    symbol,
					"timeframe": string(tf),
					"imported":  len(candles),
				})
			}
			output.Success("Imported %d %s candles for %s", len(candles), tf, symbol)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV file with timestamp,open,high,low,close,volume")
	cmd.Flags().StringVar(&timeframe, "timeframe", "4h", "candle timeframe (1h, 4h, 1d)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newDataShowCmd(app *App) *cobra.Command {
	var (
		timeframe string
		last      int
	)

	cmd := &cobra.Command{
		Use:   "show <symbol>",
		Short: "Show cached candles for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()
			symbol := strings.ToUpper(args[0])

			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			tf := parseTimeframe(timeframe)
			candles, err := app.Store.GetCandles(ctx, symbol, tf, time.Time{}, time.Time{})
			if err != nil {
				return err
			}
			if len(candles) == 0 {
				return errors.NewDataError("candles", symbol, "no cached candles", errors.ErrDataNotFound)
			}
			if last > 0 && len(candles) > last {
				candles = candles[len(candles)-last:]
			}

			if output.IsJSON() {
				return output.JSON(candles)
			}

			output.Bold("%s (%s) — %d candles", symbol, tf, len(candles))
			table := NewTable(output, "TIME", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
			for _, c := range candles {
				table.AddRow(
					c.Timestamp.Format("2006-01-02 15:04"),
					utils.FormatPrice(c.Open),
					utils.FormatPrice(c.High),
					utils.FormatPrice(c.Low),
					utils.FormatPrice(c.Close),
					utils.FormatVolume(c.Volume),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&timeframe, "timeframe", "4h", "candle timeframe (1h, 4h, 1d)")
	cmd.Flags().IntVar(&last, "last", 20, "show only the last N candles (0 for all)")

	return cmd
}

func newDataResampleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resample <symbol>",
		Short: "Resample cached 1h candles into 4h and cache the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()
			symbol := strings.ToUpper(args[0])

			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			hourly, err := app.Store.GetCandles(ctx, symbol, models.TimeframeHourly, time.Time{}, time.Time{})
			if err != nil {
				return err
			}
			resampled, err := marketdata.FourHour(hourly)
			if err != nil {
				return err
			}
			if err := app.Store.SaveCandles(ctx, symbol, models.TimeframeFourH, resampled); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol": symbol,
					"from":   len(hourly),
					"to":     len(resampled),
				})
			}
			output.Success("Resampled %d hourly candles into %d 4h candles for %s", len(hourly), len(resampled), symbol)
			return nil
		},
	}

	return cmd
}
