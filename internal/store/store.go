// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"trade-journal/internal/models"
)

// DataStore defines the interface for journal persistence.
//
// Every save overwrites the record's timestamp with the current time,
// recomputes its derived metrics, and assigns the generated identifier
// exactly once. List reads are ordered by timestamp descending.
type DataStore interface {
	// Psychological states
	SavePsychologicalState(ctx context.Context, state *models.PsychologicalState) (int64, error)
	GetPsychologicalState(ctx context.Context, id int64) (*models.PsychologicalState, error)
	GetRecentPsychologicalStates(ctx context.Context, limit int) ([]models.PsychologicalState, error)

	// Stock ratings
	SaveStockRating(ctx context.Context, rating *models.StockRating) (int64, error)
	GetStockRating(ctx context.Context, id int64) (*models.StockRating, error)
	GetStockRatingsBySymbol(ctx context.Context, symbol string) ([]models.StockRating, error)
	GetRecentStockRatings(ctx context.Context, limit int) ([]models.StockRating, error)

	// Detailed analyses
	SaveDetailedAnalysis(ctx context.Context, analysis *models.DetailedAnalysis) (int64, error)
	GetDetailedAnalysis(ctx context.Context, id int64) (*models.DetailedAnalysis, error)
	GetRecentDetailedAnalyses(ctx context.Context, limit int) ([]models.DetailedAnalysis, error)

	// Trades
	SaveTrade(ctx context.Context, trade *models.Trade) (int64, error)
	UpdateTrade(ctx context.Context, trade *models.Trade) error
	GetTrade(ctx context.Context, id int64) (*models.Trade, error)
	GetTradesByAnalysis(ctx context.Context, analysisID int64) ([]models.Trade, error)
	GetRecentTrades(ctx context.Context, limit int) ([]models.Trade, error)

	// Lifecycle
	Close() error
}
