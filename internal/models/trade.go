package models

import (
	"time"

	apperrors "trade-journal/internal/errors"
)

// Trade is an executed (or planned) position belonging to exactly one
// DetailedAnalysis.
type Trade struct {
	ID            *int64      `json:"id"`
	AnalysisID    int64       `json:"analysis_id"`
	Timestamp     time.Time   `json:"timestamp"`
	Symbol        string      `json:"symbol"`
	Status        TradeStatus `json:"status"`
	EntryTime     *time.Time  `json:"entry_time"`
	ExitTime      *time.Time  `json:"exit_time"`
	EntryPrice    *float64    `json:"entry_price"`
	ExitPrice     *float64    `json:"exit_price"`
	Quantity      int         `json:"quantity"`
	ProfitLoss    *float64    `json:"profit_loss"`
	PercentReturn *float64    `json:"percent_return"`
	Notes         *string     `json:"notes"`
}

// NewTrade creates a planned trade for the given analysis.
func NewTrade(symbol string, analysisID int64) *Trade {
	return &Trade{
		AnalysisID: analysisID,
		Timestamp:  time.Now().UTC(),
		Symbol:     symbol,
		Status:     StatusPlanned,
	}
}

// Enter records the fill and moves the trade from Planned to Open.
func (t *Trade) Enter(entryTime time.Time, entryPrice float64, quantity int) error {
	if t.Status != StatusPlanned {
		return apperrors.Wrapf(apperrors.ErrInvalidState, "enter trade in status %s", t.Status)
	}
	t.EntryTime = &entryTime
	t.EntryPrice = &entryPrice
	t.Quantity = quantity
	t.Status = StatusOpen
	return nil
}

// Exit closes an open trade and computes realized P&L against the entry fill.
func (t *Trade) Exit(exitTime time.Time, exitPrice float64) error {
	if t.Status != StatusOpen {
		return apperrors.Wrapf(apperrors.ErrInvalidState, "exit trade in status %s", t.Status)
	}
	if t.EntryPrice == nil {
		return apperrors.Wrap(apperrors.ErrInvalidState, "exit trade without entry price")
	}
	t.ExitTime = &exitTime
	t.ExitPrice = &exitPrice
	t.Status = StatusClosed

	entry := *t.EntryPrice
	pl := (exitPrice - entry) * float64(t.Quantity)
	pct := (exitPrice - entry) / entry * 100.0
	t.ProfitLoss = &pl
	t.PercentReturn = &pct
	return nil
}

// Cancel abandons a trade from any non-terminal status, overwriting the
// notes with the reason.
func (t *Trade) Cancel(reason string) error {
	if t.Status.Terminal() {
		return apperrors.Wrapf(apperrors.ErrInvalidState, "cancel trade in status %s", t.Status)
	}
	t.Status = StatusCancelled
	t.Notes = &reason
	return nil
}
