// Package cli provides the command-line interface for the pattern scanner.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vivekvjoshi/StockScanner/internal/config"
	"github.com/vivekvjoshi/StockScanner/internal/logging"
	"github.com/vivekvjoshi/StockScanner/internal/store"
)

// Version information
const (
	Version   = "0.2.0"
	BuildDate = "2026-08-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store
	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "scanner",
		Short: "Stock pattern scanner - deterministic chart-pattern detection",
		Long: `Stock pattern scanner detects classic bullish chart patterns in OHLCV data:
Cup & Handle, Inverse Head & Shoulders, Bull Flag, and VCP-style flat bases.

Each detection carries trade levels (pivot, stop, target), a 0-100 quality
score, and a lifecycle status. Candle data comes from CSV imports cached in
a local SQLite database.

Use 'scanner help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newDataCmd(app))
	rootCmd.AddCommand(newWatchlistCmd(app))
	rootCmd.AddCommand(newJobCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Stock Scanner v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate scanner configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.ConfigDir()})
			} else {
				output.Println(config.ConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Scan Configuration")
	output.Printf("  Workers:       %d\n", cfg.Scan.Workers)
	output.Printf("  Min Score:     %.0f\n", cfg.Scan.MinScore)
	output.Printf("  Timeframe:     %s\n", cfg.Scan.Timeframe)
	output.Println()

	output.Bold("Trend Filter")
	output.Printf("  Mode:          %s\n", cfg.Trend.Mode)
	output.Printf("  Permissive:    %v\n", cfg.Trend.PermissiveOnIncomplete)
	output.Println()

	output.Bold("Detectors")
	output.Printf("  Cup & Handle:  min %d bars, rim window %d\n", cfg.Patterns.CupHandle.MinBars, cfg.Patterns.CupHandle.RimWindow)
	output.Printf("  Inverse H&S:   min %d bars, lookback %d\n", cfg.Patterns.InverseHS.MinBars, cfg.Patterns.InverseHS.Lookback)
	output.Printf("  Bull Flag:     min %d bars, pole lookback %d\n", cfg.Patterns.BullFlag.MinBars, cfg.Patterns.BullFlag.PoleLookback)
	output.Printf("  Flat Base:     min %d bars, window %d\n", cfg.Patterns.FlatBase.MinBars, cfg.Patterns.FlatBase.Window)
	output.Println()

	output.Bold("AI Validator")
	output.Printf("  Enabled:       %v\n", cfg.AI.Enabled)
	output.Printf("  Model:         %s\n", cfg.AI.Model)
	output.Println()

	output.Bold("Alerts")
	output.Printf("  Email:         %v\n", cfg.Email.Enabled)
	output.Printf("  Job Schedule:  %s\n", cfg.Job.Schedule)
	output.Printf("  Job Min Score: %.0f\n", cfg.Job.MinScore)

	return nil
}
