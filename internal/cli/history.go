package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	var (
		symbol   string
		pattern  string
		status   string
		minScore float64
		days     int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past scan results from the journal",
		Long: `History queries the scan journal. Every scan match is recorded with its
trade levels, score, and any AI verdict; history filters and lists them,
best scores first.`,
		Example: `  scanner history --min-score 80
  scanner history --symbol AAPL --days 7
  scanner history --pattern "Cup & Handle" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			filter := store.ScanFilter{
				Symbol:   strings.ToUpper(symbol),
				Pattern:  pattern,
				Status:   status,
				MinScore: minScore,
				Limit:    limit,
			}
			if days > 0 {
				filter.StartDate = time.Now().UTC().AddDate(0, 0, -days)
			}

			records, err := app.Store.GetScanRecords(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}
			if len(records) == 0 {
				output.Info("No scan records match.")
				return nil
			}

			table := NewTable(output, "TIME", "SYMBOL", "PATTERN", "STATUS", "SCORE", "PIVOT", "AI")
			for _, rec := range records {
				aiCol := "-"
				if rec.AIScore != nil {
					aiCol = fmt.Sprintf("%s %.0f", rec.AIVerdict, *rec.AIScore)
				}
				table.AddRow(
					rec.ScannedAt.Format("2006-01-02 15:04"),
					rec.Symbol,
					rec.Pattern,
					output.StatusTag(rec.Status),
					output.ScoreTag(rec.Score),
					fmt.Sprintf("%.2f", rec.Pivot),
					aiCol,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().StringVar(&pattern, "pattern", "", "filter by pattern name")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (Forming, Near Pivot, Breakout)")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum recorded score")
	cmd.Flags().IntVar(&days, "days", 0, "only records from the last N days")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum records to show (0 for all)")

	return cmd
}
