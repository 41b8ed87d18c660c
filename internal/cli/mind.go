package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
)

// addMindCommands adds psychological state commands.
func addMindCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "mind",
		Short: "Psychological state tracking",
		Long:  "Record your state of mind before trading and review past entries.",
	}

	cmd.AddCommand(newMindLogCmd(app))
	cmd.AddCommand(newMindShowCmd(app))
	cmd.AddCommand(newMindRecentCmd(app))

	rootCmd.AddCommand(cmd)
}

func newMindLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record current psychological state",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			state := models.NewPsychologicalState()
			state.GainLossYesterday, _ = cmd.Flags().GetFloat64("gain-loss")
			state.EmotionalState, _ = cmd.Flags().GetInt("emotional")
			state.FOMO, _ = cmd.Flags().GetInt("fomo")
			state.MarketBias, _ = cmd.Flags().GetInt("bias")
			state.Hunger, _ = cmd.Flags().GetInt("hunger")
			state.HeadachePain, _ = cmd.Flags().GetInt("headache")

			factors, _ := cmd.Flags().GetStringSlice("factor")
			for _, f := range factors {
				name, score, err := parseFactor(f)
				if err != nil {
					return err
				}
				state.ExtraFactors[name] = score
			}

			id, err := app.Store.SavePsychologicalState(ctx, state)
			if err != nil {
				return err
			}
			logging.LogSaved(app.Logger, "psychological_state", id)

			if output.IsJSON() {
				return output.JSON(state)
			}
			output.Success("Recorded state #%d", id)
			output.Printf("Total risk score: %s\n", output.FormatSigned(state.TotalRiskScore))
			return nil
		},
	}

	cmd.Flags().Float64("gain-loss", 0, "Yesterday's gain/loss in percent")
	cmd.Flags().Int("emotional", 0, "Emotional state (-3 to +3)")
	cmd.Flags().Int("fomo", 0, "Fear of missing out (-3 to +3)")
	cmd.Flags().Int("bias", 0, "Market bias (-3 to +3)")
	cmd.Flags().Int("hunger", 0, "Hunger level (0 to +3)")
	cmd.Flags().Int("headache", 0, "Headache/pain level (0 to +3)")
	cmd.Flags().StringSlice("factor", nil, "Extra factor as name=score, repeatable")

	return cmd
}

// parseFactor splits a name=score pair.
func parseFactor(s string) (string, int, error) {
	name, value, found := strings.Cut(s, "=")
	if !found || name == "" {
		return "", 0, fmt.Errorf("invalid factor %q, expected name=score", s)
	}
	score, err := strconv.Atoi(value)
	if err != nil {
		return "", 0, fmt.Errorf("invalid factor score in %q: %w", s, err)
	}
	return name, score, nil
}

func newMindShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded psychological state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			state, err := app.Store.GetPsychologicalState(ctx, id)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(state)
			}
			printState(output, state, app.Config.UI.DateFormat)
			return nil
		},
	}
}

func newMindRecentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent psychological states",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			limit, _ := cmd.Flags().GetInt("limit")
			states, err := app.Store.GetRecentPsychologicalStates(ctx, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(states)
			}

			table := NewTable(output, "ID", "DATE", "P&L YDAY", "EMO", "FOMO", "BIAS", "RISK")
			for _, s := range states {
				table.AddRow(
					fmt.Sprintf("%d", *s.ID),
					s.Timestamp.Format(app.Config.UI.DateFormat),
					output.FormatPercent(s.GainLossYesterday),
					fmt.Sprintf("%d", s.EmotionalState),
					fmt.Sprintf("%d", s.FOMO),
					fmt.Sprintf("%d", s.MarketBias),
					output.FormatSigned(s.TotalRiskScore),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of entries")
	return cmd
}

func printState(output *Output, s *models.PsychologicalState, dateFormat string) {
	output.Bold("Psychological State #%d - %s", *s.ID, s.Timestamp.Format(dateFormat))
	output.Printf("Yesterday's P&L: %s\n", output.FormatPercent(s.GainLossYesterday))
	output.Printf("Emotional: %d  FOMO: %d  Bias: %d  Hunger: %d  Headache: %d\n",
		s.EmotionalState, s.FOMO, s.MarketBias, s.Hunger, s.HeadachePain)
	for name, score := range s.ExtraFactors {
		output.Printf("  %s: %d\n", name, score)
	}
	output.Printf("Total risk score: %s\n", output.FormatSigned(s.TotalRiskScore))
}
