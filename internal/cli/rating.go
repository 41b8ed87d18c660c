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

// addRatingCommands adds stock rating commands.
func addRatingCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "rating",
		Short: "Stock ratings",
		Long:  "Rate securities by sentiment, trend, and chart pattern.",
	}

	cmd.AddCommand(newRatingAddCmd(app))
	cmd.AddCommand(newRatingShowCmd(app))
	cmd.AddCommand(newRatingSymbolCmd(app))
	cmd.AddCommand(newRatingRecentCmd(app))

	rootCmd.AddCommand(cmd)
}

func newRatingAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <symbol>",
		Short: "Record a stock rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			sector, _ := cmd.Flags().GetString("sector")
			rating := models.NewStockRating(args[0], sector)

			if name, _ := cmd.Flags().GetString("name"); name != "" {
				rating.SecurityName = &name
			}
			rating.MarketSentiment, _ = cmd.Flags().GetInt("market")
			rating.SectorSentiment, _ = cmd.Flags().GetInt("sector-sentiment")
			rating.SecuritySentiment, _ = cmd.Flags().GetInt("security")
			if bear, _ := cmd.Flags().GetBool("bear"); bear {
				rating.BullBear = -1
			}
			rating.Confidence, _ = cmd.Flags().GetInt("confidence")

			if trend, _ := cmd.Flags().GetString("trend"); trend != "" {
				t, err := models.ParseMarketTrend(trend)
				if err != nil {
					return err
				}
				rating.MarketTrend = t
			}
			if pattern, _ := cmd.Flags().GetString("pattern"); pattern != "" {
				rating.ChartPattern = models.ParseChartPattern(pattern)
			}
			rating.Strategy, _ = cmd.Flags().GetString("strategy")
			if notes, _ := cmd.Flags().GetString("notes"); notes != "" {
				rating.Notes = &notes
			}

			id, err := app.Store.SaveStockRating(ctx, rating)
			if err != nil {
				return err
			}
			logging.LogSaved(app.Logger, "stock_rating", id)

			if output.IsJSON() {
				return output.JSON(rating)
			}
			output.Success("Recorded rating #%d for %s", id, rating.Symbol)
			output.Printf("Overall score: %s\n", output.FormatSigned(float64(rating.OverallScore)))
			return nil
		},
	}

	cmd.Flags().String("sector", "", "Sector of the security")
	cmd.Flags().String("name", "", "Security name")
	cmd.Flags().Int("market", 0, "Market sentiment (-3 to +3)")
	cmd.Flags().Int("sector-sentiment", 0, "Sector sentiment (-3 to +3)")
	cmd.Flags().Int("security", 0, "Security sentiment (-3 to +3)")
	cmd.Flags().Bool("bear", false, "Bearish position (default bullish)")
	cmd.Flags().Int("confidence", 50, "Confidence (0-100)")
	cmd.Flags().String("trend", "", "Market trend (Uptrend|Downtrend|Sideways|Uncertain)")
	cmd.Flags().String("pattern", "", "Chart pattern name, free text allowed")
	cmd.Flags().String("strategy", "", "Planned strategy")
	cmd.Flags().String("notes", "", "Free-form notes")

	return cmd
}

func newRatingShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stock rating",
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

			rating, err := app.Store.GetStockRating(ctx, id)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(rating)
			}
			printRating(output, rating, app.Config.UI.DateFormat)
			return nil
		},
	}
}

func newRatingSymbolCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "symbol <symbol>",
		Short: "List ratings for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			ratings, err := app.Store.GetStockRatingsBySymbol(ctx, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(ratings)
			}
			renderRatingTable(output, ratings, app.Config.UI.DateFormat)
			return nil
		},
	}
}

func newRatingRecentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				return apperrors.ErrStoreUnavailable
			}

			limit, _ := cmd.Flags().GetInt("limit")
			ratings, err := app.Store.GetRecentStockRatings(ctx, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(ratings)
			}
			renderRatingTable(output, ratings, app.Config.UI.DateFormat)
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of entries")
	return cmd
}

func renderRatingTable(output *Output, ratings []models.StockRating, dateFormat string) {
	table := NewTable(output, "ID", "DATE", "SYMBOL", "SECTOR", "TREND", "PATTERN", "SCORE")
	for _, r := range ratings {
		table.AddRow(
			fmt.Sprintf("%d", *r.ID),
			r.Timestamp.Format(dateFormat),
			r.Symbol,
			r.Sector,
			string(r.MarketTrend),
			r.ChartPattern.String(),
			output.FormatSigned(float64(r.OverallScore)),
		)
	}
	table.Render()
}

func printRating(output *Output, r *models.StockRating, dateFormat string) {
	output.Bold("Rating #%d - %s - %s", *r.ID, r.Symbol, r.Timestamp.Format(dateFormat))
	if r.SecurityName != nil {
		output.Printf("Name: %s\n", *r.SecurityName)
	}
	output.Printf("Sector: %s\n", r.Sector)
	output.Printf("Sentiment (market/sector/security): %d / %d / %d\n",
		r.MarketSentiment, r.SectorSentiment, r.SecuritySentiment)
	direction := "Bull"
	if r.BullBear < 0 {
		direction = "Bear"
	}
	output.Printf("Direction: %s  Confidence: %d%%\n", direction, r.Confidence)
	output.Printf("Trend: %s  Pattern: %s\n", r.MarketTrend, r.ChartPattern)
	if r.Strategy != "" {
		output.Printf("Strategy: %s\n", r.Strategy)
	}
	if r.Notes != nil {
		output.Printf("Notes: %s\n", *r.Notes)
	}
	output.Printf("Overall score: %s\n", output.FormatSigned(float64(r.OverallScore)))
}
