package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
)

func newWatchlistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watchlist",
		Aliases: []string{"wl"},
		Short:   "Manage scan watchlists",
	}

	var listName string

	addCmd := &cobra.Command{
		Use:   "add <symbol>...",
		Short: "Add symbols to a watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			for _, symbol := range args {
				if err := app.Store.AddToWatchlist(cmd.Context(), symbol, listName); err != nil {
					return err
				}
			}
			output.Success("Added %d symbol(s) to %s", len(args), listName)
			return nil
		},
	}
	addCmd.Flags().StringVar(&listName, "list", "default", "watchlist name")

	var rmList string
	removeCmd := &cobra.Command{
		Use:     "remove <symbol>",
		Aliases: []string{"rm"},
		Short:   "Remove a symbol from a watchlist",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			if err := app.Store.RemoveFromWatchlist(cmd.Context(), args[0], rmList); err != nil {
				return err
			}
			output.Success("Removed %s from %s", strings.ToUpper(args[0]), rmList)
			return nil
		},
	}
	removeCmd.Flags().StringVar(&rmList, "list", "default", "watchlist name")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show all watchlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			lists, err := app.Store.GetAllWatchlists(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(lists)
			}
			if len(lists) == 0 {
				output.Info("No watchlists yet. Add symbols with 'scanner watchlist add'.")
				return nil
			}
			for name, symbols := range lists {
				output.Bold("%s (%d)", name, len(symbols))
				output.Println("  " + strings.Join(symbols, ", "))
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, removeCmd, showCmd)
	return cmd
}
