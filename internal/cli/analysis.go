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
)

// addAnalysisCommands adds detailed analysis commands.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "analysis",
		Short: "Detailed trade analyses",
		Long:  "Record full trade plans: entry, stop, target, legs, and risk/reward.",
	}

	cmd.AddCommand(newAnalysisAddCmd(app))
	cmd.AddCommand(newAnalysisShowCmd(app))
	cmd.AddCommand(newAnalysisRecentCmd(app))

	rootCmd.AddCommand(cmd)
}

func newAnalysisAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <security>",
		Short: "Record a detailed analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			sector, _ := cmd.Flags().GetString("sector")
			analysis := models.NewDetailedAnalysis(args[0], sector)

			if bear, _ := cmd.Flags().GetBool("bear"); bear {
				analysis.BullBear = -1
			}
			analysis.Confidence, _ = cmd.Flags().GetInt("confidence")
			if trend, _ := cmd.Flags().GetString("trend"); trend != "" {
				t, err := models.ParseMarketTrend(trend)
				if err != nil {
					return err
				}
				analysis.MarketTrend = t
			}
			if pattern, _ := cmd.Flags().GetString("pattern"); pattern != "" {
				analysis.ChartPattern = models.ParseChartPattern(pattern)
			}
			analysis.Strategy, _ = cmd.Flags().GetString("strategy")
			analysis.MarketSentiment, _ = cmd.Flags().GetInt("market")
			analysis.SectorSentiment, _ = cmd.Flags().GetInt("sector-sentiment")
			analysis.Bought, _ = cmd.Flags().GetBool("bought")
			analysis.EntryReason, _ = cmd.Flags().GetString("entry-reason")
			analysis.EntryPrice, _ = cmd.Flags().GetFloat64("entry")
			analysis.StopLoss, _ = cmd.Flags().GetFloat64("stop")
			analysis.TargetPrice, _ = cmd.Flags().GetFloat64("target")
			if leg, _ := cmd.Flags().GetString("short-leg"); leg != "" {
				analysis.ShortLeg = &leg
			}
			if leg, _ := cmd.Flags().GetString("long-leg"); leg != "" {
				analysis.LongLeg = &leg
			}
			analysis.DebitCredit, _ = cmd.Flags().GetFloat64("debit-credit")
			analysis.Quantity, _ = cmd.Flags().GetInt("qty")
			analysis.Alerts, _ = cmd.Flags().GetStringSlice("alert")
			if reason, _ := cmd.Flags().GetString("skip-reason"); reason != "" {
				analysis.SkipReason = &reason
			}
			analysis.Delta = greekFlag(cmd, "delta")
			analysis.Theta = greekFlag(cmd, "theta")
			analysis.Gamma = greekFlag(cmd, "gamma")
			analysis.Vega = greekFlag(cmd, "vega")

			id, err := app.Store.SaveDetailedAnalysis(ctx, analysis)
			if err != nil {
				return err
			}
			logging.LogSaved(app.Logger, "detailed_analysis", id)

			if output.IsJSON() {
				return output.JSON(analysis)
			}
			output.Success("Recorded analysis #%d for %s", id, analysis.Security)
			output.Printf("Max risk: %.2f  Reward: %.2f\n", analysis.RiskMax, analysis.Reward)
			return nil
		},
	}

	cmd.Flags().String("sector", "", "Sector of the security")
	cmd.Flags().Bool("bear", false, "Bearish position (default bullish)")
	cmd.Flags().Int("confidence", 50, "Confidence (0-100)")
	cmd.Flags().String("trend", "", "Market trend (Uptrend|Downtrend|Sideways|Uncertain)")
	cmd.Flags().String("pattern", "", "Chart pattern name, free text allowed")
	cmd.Flags().String("strategy", "", "Planned strategy")
	cmd.Flags().Int("market", 0, "Market sentiment (-3 to +3)")
	cmd.Flags().Int("sector-sentiment", 0, "Sector sentiment (-3 to +3)")
	cmd.Flags().Bool("bought", false, "Directional equity trade (vs credit/debit instrument)")
	cmd.Flags().String("entry-reason", "", "Reason for entering")
	cmd.Flags().Float64("entry", 0, "Entry price")
	cmd.Flags().Float64("stop", 0, "Stop loss price")
	cmd.Flags().Float64("target", 0, "Target price")
	cmd.Flags().String("short-leg", "", "Short leg instrument")
	cmd.Flags().String("long-leg", "", "Long leg instrument")
	cmd.Flags().Float64("debit-credit", 0, "Net debit/credit (negative = credit received)")
	cmd.Flags().Int("qty", 0, "Quantity")
	cmd.Flags().StringSlice("alert", nil, "Alert note, repeatable")
	cmd.Flags().String("skip-reason", "", "Reason the trade was skipped")
	cmd.Flags().Float64("delta", 0, "Position delta")
	cmd.Flags().Float64("theta", 0, "Position theta")
	cmd.Flags().Float64("gamma", 0, "Position gamma")
	cmd.Flags().Float64("vega", 0, "Position vega")

	return cmd
}

// greekFlag returns the flag value only when the caller set it, so absent
// greeks stay NULL in storage.
func greekFlag(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func newAnalysisShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a detailed analysis",
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

			analysis, err := app.Store.GetDetailedAnalysis(ctx, id)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(analysis)
			}
			printAnalysis(output, analysis, app.Config.UI.DateFormat)
			return nil
		},
	}
}

func newAnalysisRecentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			limit, _ := cmd.Flags().GetInt("limit")
			analyses, err := app.Store.GetRecentDetailedAnalyses(ctx, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(analyses)
			}

			table := NewTable(output, "ID", "DATE", "SECURITY", "SECTOR", "ENTRY", "STOP", "RISK", "REWARD")
			for _, a := range analyses {
				table.AddRow(
					fmt.Sprintf("%d", *a.ID),
					a.Timestamp.Format(app.Config.UI.DateFormat),
					a.Security,
					a.Sector,
					fmt.Sprintf("%.2f", a.EntryPrice),
					fmt.Sprintf("%.2f", a.StopLoss),
					fmt.Sprintf("%.2f", a.RiskMax),
					fmt.Sprintf("%.2f", a.Reward),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of entries")
	return cmd
}

func printAnalysis(output *Output, a *models.DetailedAnalysis, dateFormat string) {
	output.Bold("Analysis #%d - %s - %s", *a.ID, a.Security, a.Timestamp.Format(dateFormat))
	output.Printf("Sector: %s\n", a.Sector)
	output.Printf("Trend: %s  Pattern: %s\n", a.MarketTrend, a.ChartPattern)
	direction := "Bull"
	if a.BullBear < 0 {
		direction = "Bear"
	}
	output.Printf("Direction: %s  Confidence: %d%%\n", direction, a.Confidence)
	if a.Bought {
		output.Printf("Entry: %.2f  Stop: %.2f  Target: %.2f  Qty: %d\n",
			a.EntryPrice, a.StopLoss, a.TargetPrice, a.Quantity)
	} else {
		output.Printf("Debit/credit: %.2f  Qty: %d\n", a.DebitCredit, a.Quantity)
		if a.ShortLeg != nil {
			output.Printf("Short leg: %s\n", *a.ShortLeg)
		}
		if a.LongLeg != nil {
			output.Printf("Long leg: %s\n", *a.LongLeg)
		}
	}
	output.Printf("Max risk: %.2f  Reward: %.2f\n", a.RiskMax, a.Reward)
	if a.Delta != nil || a.Theta != nil || a.Gamma != nil || a.Vega != nil {
		output.Printf("Greeks:")
		for _, g := range []struct {
			name  string
			value *float64
		}{{"delta", a.Delta}, {"theta", a.Theta}, {"gamma", a.Gamma}, {"vega", a.Vega}} {
			if g.value != nil {
				output.Printf("  %s %.3f", g.name, *g.value)
			}
		}
		output.Printf("\n")
	}
	if a.MaxGain != nil {
		output.Printf("Realized gain: %s\n", output.FormatSigned(*a.MaxGain))
	}
	if a.PercentProfit != nil {
		output.Printf("Profit: %s\n", output.FormatPercent(*a.PercentProfit))
	}
	for _, alert := range a.Alerts {
		output.Info("Alert: %s", alert)
	}
	if a.ExitReason != nil {
		output.Printf("Exit reason: %s\n", *a.ExitReason)
	}
	if a.SkipReason != nil {
		output.Warning("Skipped: %s", *a.SkipReason)
	}
}
