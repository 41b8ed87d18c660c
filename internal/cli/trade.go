package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

// addTradeCommands adds trade lifecycle commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Trade lifecycle",
		Long:  "Plan, enter, exit, and cancel trades backed by a detailed analysis.",
	}

	cmd.AddCommand(newTradePlanCmd(app))
	cmd.AddCommand(newTradeEnterCmd(app))
	cmd.AddCommand(newTradeExitCmd(app))
	cmd.AddCommand(newTradeCancelCmd(app))
	cmd.AddCommand(newTradeShowCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeByAnalysisCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradePlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <symbol>",
		Short: "Plan a trade against an analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			analysisID, _ := cmd.Flags().GetInt64("analysis")
			// The analysis must exist before a trade can reference it.
			if _, err := app.Store.GetDetailedAnalysis(ctx, analysisID); err != nil {
				return err
			}

			trade := models.NewTrade(args[0], analysisID)
			id, err := app.Store.SaveTrade(ctx, trade)
			if err != nil {
				return err
			}
			logging.LogSaved(app.Logger, "trade", id)

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("Planned trade #%d for %s (analysis #%d)", id, trade.Symbol, analysisID)
			return nil
		},
	}

	cmd.Flags().Int64("analysis", 0, "Identifier of the owning analysis")
	cmd.MarkFlagRequired("analysis")
	return cmd
}

// loadTrade fetches a trade addressed by the first positional argument.
func loadTrade(ctx context.Context, s store.DataStore, arg string) (*models.Trade, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return s.GetTrade(ctx, id)
}

func newTradeEnterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enter <id>",
		Short: "Record the entry fill for a planned trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			trade, err := loadTrade(ctx, app.Store, args[0])
			if err != nil {
				return err
			}

			price, _ := cmd.Flags().GetFloat64("price")
			qty, _ := cmd.Flags().GetInt("qty")
			if err := trade.Enter(time.Now().UTC(), price, qty); err != nil {
				return err
			}
			if err := app.Store.UpdateTrade(ctx, trade); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("Trade #%d opened at %.2f x %d", *trade.ID, price, qty)
			return nil
		},
	}

	cmd.Flags().Float64("price", 0, "Entry price")
	cmd.Flags().Int("qty", 0, "Quantity")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("qty")
	return cmd
}

func newTradeExitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exit <id>",
		Short: "Close an open trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			trade, err := loadTrade(ctx, app.Store, args[0])
			if err != nil {
				return err
			}

			price, _ := cmd.Flags().GetFloat64("price")
			if err := trade.Exit(time.Now().UTC(), price); err != nil {
				return err
			}
			if err := app.Store.UpdateTrade(ctx, trade); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("Trade #%d closed at %.2f", *trade.ID, price)
			output.Printf("P&L: %s (%s)\n",
				output.FormatSigned(*trade.ProfitLoss), output.FormatPercent(*trade.PercentReturn))
			return nil
		},
	}

	cmd.Flags().Float64("price", 0, "Exit price")
	cmd.MarkFlagRequired("price")
	return cmd
}

func newTradeCancelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			trade, err := loadTrade(ctx, app.Store, args[0])
			if err != nil {
				return err
			}

			reason, _ := cmd.Flags().GetString("reason")
			if err := trade.Cancel(reason); err != nil {
				return err
			}
			if err := app.Store.UpdateTrade(ctx, trade); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Warning("Trade #%d cancelled: %s", *trade.ID, reason)
			return nil
		},
	}

	cmd.Flags().String("reason", "", "Reason for cancelling")
	cmd.MarkFlagRequired("reason")
	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			trade, err := loadTrade(ctx, app.Store, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			printTrade(output, trade, app.Config.UI.DateFormat)
			return nil
		},
	}
}

func newTradeListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			limit, _ := cmd.Flags().GetInt("limit")
			trades, err := app.Store.GetRecentTrades(ctx, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			renderTradeTable(output, trades, app.Config.UI.DateFormat)
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of entries")
	return cmd
}

func newTradeByAnalysisCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "by-analysis <analysis-id>",
		Short: "List trades belonging to an analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			analysisID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid analysis id %q: %w", args[0], err)
			}

			trades, err := app.Store.GetTradesByAnalysis(ctx, analysisID)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			renderTradeTable(output, trades, app.Config.UI.DateFormat)
			return nil
		},
	}
}

func renderTradeTable(output *Output, trades []models.Trade, dateFormat string) {
	table := NewTable(output, "ID", "DATE", "SYMBOL", "STATUS", "QTY", "ENTRY", "EXIT", "P&L")
	for _, t := range trades {
		entry, exit, pnl := "-", "-", "-"
		if t.EntryPrice != nil {
			entry = fmt.Sprintf("%.2f", *t.EntryPrice)
		}
		if t.ExitPrice != nil {
			exit = fmt.Sprintf("%.2f", *t.ExitPrice)
		}
		if t.ProfitLoss != nil {
			pnl = output.FormatSigned(*t.ProfitLoss)
		}
		table.AddRow(
			fmt.Sprintf("%d", *t.ID),
			t.Timestamp.Format(dateFormat),
			t.Symbol,
			string(t.Status),
			fmt.Sprintf("%d", t.Quantity),
			entry,
			exit,
			pnl,
		)
	}
	table.Render()
}

func printTrade(output *Output, t *models.Trade, dateFormat string) {
	output.Bold("Trade #%d - %s - %s", *t.ID, t.Symbol, t.Timestamp.Format(dateFormat))
	output.Printf("Analysis: #%d  Status: %s  Qty: %d\n", t.AnalysisID, t.Status, t.Quantity)
	if t.EntryTime != nil {
		output.Printf("Entered: %s at %.2f\n", t.EntryTime.Format(time.RFC3339), *t.EntryPrice)
	}
	if t.ExitTime != nil {
		output.Printf("Exited: %s at %.2f\n", t.ExitTime.Format(time.RFC3339), *t.ExitPrice)
	}
	if t.ProfitLoss != nil && t.PercentReturn != nil {
		output.Printf("P&L: %s (%s)\n",
			output.FormatSigned(*t.ProfitLoss), output.FormatPercent(*t.PercentReturn))
	}
	if t.Notes != nil {
		output.Printf("Notes: %s\n", *t.Notes)
	}
}
