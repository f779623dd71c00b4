package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vivekvjoshi/StockScanner/internal/notify"
	"github.com/vivekvjoshi/StockScanner/internal/scheduler"
	"github.com/vivekvjoshi/StockScanner/pkg/utils"
)

func newJobCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Headless scheduled scanning",
		Long: `Job runs the scan pipeline without interaction: once with 'job run', or
on the configured cron schedule with 'job start'. Matches at or above the
job minimum score are emailed when email alerts are configured.`,
	}

	var watchlist string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one headless scan now",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			matched, err := app.runJob(cmd.Context(), watchlist)
			if err != nil {
				return err
			}
			output.Success("Job complete: %d setup(s) at or above score %.0f", matched, app.Config.Job.MinScore)
			return nil
		},
	}
	runCmd.Flags().StringVar(&watchlist, "watchlist", "default", "watchlist to scan")

	var startWatchlist string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Run scans on the configured cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			sched := scheduler.New(app.Logger)
			err := sched.Add(app.Config.Job.Schedule, "scan", func(ctx context.Context) error {
				_, err := app.runJob(ctx, startWatchlist)
				return err
			})
			if err != nil {
				return err
			}

			output.Info("Scheduler running (%s). Press Ctrl+C to stop.", app.Config.Job.Schedule)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			sched.Run(ctx)

			output.Println("Scheduler stopped.")
			return nil
		},
	}
	startCmd.Flags().StringVar(&startWatchlist, "watchlist", "default", "watchlist to scan")

	cmd.AddCommand(runCmd, startCmd)
	return cmd
}

// runJob executes one headless scan over a watchlist and dispatches alerts.
func (app *App) runJob(ctx context.Context, watchlist string) (int, error) {
	if status := utils.GetMarketStatus(); status != utils.MarketOpen {
		app.Logger.Info().Str("market", string(status)).Msg("Scanning outside the regular session")
	}

	symbols, err := app.resolveUniverse(ctx, nil, "", watchlist)
	if err != nil {
		return 0, err
	}

	opts := app.defaultScanOptions()
	opts.minScore = app.Config.Job.MinScore

	_, setups, err := app.runScanPipeline(ctx, symbols, opts)
	if err != nil {
		return 0, err
	}
	if len(setups) == 0 {
		return 0, nil
	}

	notifiers := []notify.Notifier{notify.NewTerminal()}
	if app.Config.Email.Enabled {
		email, err := notify.NewEmail(notify.EmailConfig{
			Host:     app.Config.Email.Host,
			Port:     app.Config.Email.Port,
			Username: app.Config.Email.Username,
			Password: app.Config.Email.Password,
			From:     app.Config.Email.From,
			To:       app.Config.Email.To,
		})
		if err != nil {
			app.Logger.Warn().Err(err).Msg("Email notifier unavailable")
		} else {
			notifiers = append(notifiers, email)
		}
	}

	for _, n := range notifiers {
		if err := n.Notify(ctx, setups); err != nil {
			app.Logger.Error().Err(err).Msg("Notification failed")
		}
	}
	return len(setups), nil
}
