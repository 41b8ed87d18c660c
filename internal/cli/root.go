// Package cli provides the command-line interface for the trading journal.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-journal/internal/config"
	"trade-journal/internal/store"
)

// Version information
const Version = "0.1.0"

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

	dataStore, err := store.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, commands will fail")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.DBPath()).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:     "journal",
		Short:   "Trading journal",
		Long:    "Record psychological state, stock ratings, trade analyses, and executed trades.",
		Version: Version,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Store != nil {
				app.Store.Close()
			}
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	addMindCommands(rootCmd, app)
	addRatingCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)

	return rootCmd
}
