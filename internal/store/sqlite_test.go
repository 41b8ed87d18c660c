package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSchemaIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := store.initSchema(); err != nil {
		t.Fatalf("second initSchema: %v", err)
	}

	ctx := context.Background()
	id, err := store.SavePsychologicalState(ctx, models.NewPsychologicalState())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	// Reopening the same file must keep existing rows intact.
	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetPsychologicalState(ctx, id); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func TestPsychologicalStateRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	state := models.NewPsychologicalState()
	state.GainLossYesterday = 50
	state.EmotionalState = 2
	state.FOMO = 1
	state.MarketBias = -1
	state.Hunger = 1
	state.ExtraFactors = map[string]int{"slept badly": 2, "good prep": -1}
	staleStamp := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	state.Timestamp = staleStamp

	id, err := store.SavePsychologicalState(ctx, state)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if state.ID == nil || *state.ID != id {
		t.Fatalf("id not assigned back: %v", state.ID)
	}
	if state.Timestamp.Equal(staleStamp) {
		t.Error("save must overwrite the caller timestamp")
	}
	if state.TotalRiskScore == 0 {
		t.Error("save must recompute the risk score")
	}

	got, err := store.GetPsychologicalState(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Timestamp.Equal(state.Timestamp) {
		t.Errorf("timestamp: got %v, want %v", got.Timestamp, state.Timestamp)
	}
	if got.GainLossYesterday != 50 || got.EmotionalState != 2 || got.FOMO != 1 ||
		got.MarketBias != -1 || got.Hunger != 1 || got.HeadachePain != 0 {
		t.Errorf("axes did not round trip: %+v", got)
	}
	if len(got.ExtraFactors) != 2 || got.ExtraFactors["slept badly"] != 2 || got.ExtraFactors["good prep"] != -1 {
		t.Errorf("extra factors did not round trip: %v", got.ExtraFactors)
	}
	if got.TotalRiskScore != state.TotalRiskScore {
		t.Errorf("risk score: got %v, want %v", got.TotalRiskScore, state.TotalRiskScore)
	}
}

func TestStockRatingRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rating := models.NewStockRating("AAPL", "Technology")
	name := "Apple Inc."
	rating.SecurityName = &name
	rating.MarketSentiment = 2
	rating.SectorSentiment = 1
	rating.Confidence = 80
	rating.MarketTrend = models.TrendUptrend
	rating.ChartPattern = models.ParseChartPattern("Cup")
	rating.Strategy = "breakout"

	id, err := store.SaveStockRating(ctx, rating)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rating.OverallScore != 5 {
		t.Errorf("save must recompute the overall score, got %d", rating.OverallScore)
	}

	got, err := store.GetStockRating(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Symbol != "AAPL" || got.Sector != "Technology" || got.Strategy != "breakout" {
		t.Errorf("fields did not round trip: %+v", got)
	}
	if got.SecurityName == nil || *got.SecurityName != "Apple Inc." {
		t.Errorf("SecurityName = %v", got.SecurityName)
	}
	if got.Notes != nil {
		t.Errorf("Notes = %q, want nil", *got.Notes)
	}
	if got.MarketTrend != models.TrendUptrend {
		t.Errorf("MarketTrend = %s", got.MarketTrend)
	}
	if got.ChartPattern.Name != models.PatternCup {
		t.Errorf("ChartPattern = %+v", got.ChartPattern)
	}
	if got.OverallScore != 5 {
		t.Errorf("OverallScore = %d, want 5", got.OverallScore)
	}
}

func TestStockRatingOtherPatternRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rating := models.NewStockRating("TSLA", "Automotive")
	rating.ChartPattern = models.OtherPattern("Bull Flag")

	id, err := store.SaveStockRating(ctx, rating)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.GetStockRating(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ChartPattern.Name != models.PatternOther || got.ChartPattern.Label != "Bull Flag" {
		t.Errorf("pattern label lost: %+v", got.ChartPattern)
	}
}

func TestGetStockRatingsBySymbol(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, symbol := range []string{"AAPL", "MSFT", "AAPL"} {
		if _, err := store.SaveStockRating(ctx, models.NewStockRating(symbol, "Technology")); err != nil {
			t.Fatalf("save %s: %v", symbol, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	ratings, err := store.GetStockRatingsBySymbol(ctx, "AAPL")
	if err != nil {
		t.Fatalf("get by symbol: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("got %d ratings, want 2", len(ratings))
	}
	if !ratings[0].Timestamp.After(ratings[1].Timestamp) {
		t.Error("ratings not newest first")
	}
}

func TestDetailedAnalysisRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	analysis := models.NewDetailedAnalysis("AAPL 2025-06-20 200C", "Technology")
	analysis.Bought = true
	analysis.EntryPrice = 100
	analysis.StopLoss = 90
	analysis.TargetPrice = 120
	analysis.Quantity = 10
	analysis.EntryReason = "base breakout with volume"
	delta := 0.55
	theta := -0.03
	analysis.Delta = &delta
	analysis.Theta = &theta
	analysis.Alerts = []string{"stop at 90", "scale at 110"}

	id, err := store.SaveDetailedAnalysis(ctx, analysis)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if analysis.RiskMax != 100 || analysis.Reward != 200 {
		t.Errorf("save must recompute risk/reward: risk=%v reward=%v", analysis.RiskMax, analysis.Reward)
	}

	got, err := store.GetDetailedAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Security != analysis.Security || !got.Bought || got.EntryReason != analysis.EntryReason {
		t.Errorf("fields did not round trip: %+v", got)
	}
	if got.RiskMax != 100 || got.Reward != 200 {
		t.Errorf("derived fields: risk=%v reward=%v", got.RiskMax, got.Reward)
	}
	if got.Delta == nil || *got.Delta != 0.55 || got.Theta == nil || *got.Theta != -0.03 {
		t.Errorf("greeks did not round trip: delta=%v theta=%v", got.Delta, got.Theta)
	}
	if got.Gamma != nil || got.Vega != nil {
		t.Errorf("absent greeks must stay nil: gamma=%v vega=%v", got.Gamma, got.Vega)
	}
	if len(got.Alerts) != 2 || got.Alerts[0] != "stop at 90" {
		t.Errorf("alerts did not round trip: %v", got.Alerts)
	}
	if !got.Time.Equal(analysis.Time) {
		t.Errorf("time: got %v, want %v", got.Time, analysis.Time)
	}
}

func TestTradeRoundTripAndUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	analysisID, err := store.SaveDetailedAnalysis(ctx, models.NewDetailedAnalysis("AAPL", "Technology"))
	if err != nil {
		t.Fatalf("save analysis: %v", err)
	}

	trade := models.NewTrade("AAPL", analysisID)
	id, err := store.SaveTrade(ctx, trade)
	if err != nil {
		t.Fatalf("save trade: %v", err)
	}

	got, err := store.GetTrade(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StatusPlanned || got.AnalysisID != analysisID {
		t.Fatalf("planned trade did not round trip: %+v", got)
	}
	if got.EntryTime != nil || got.EntryPrice != nil || got.ProfitLoss != nil {
		t.Fatalf("planned trade must have nil fill fields: %+v", got)
	}

	entry := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	if err := got.Enter(entry, 100, 10); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if err := got.Exit(entry.Add(24*time.Hour), 110); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if err := store.UpdateTrade(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	closed, err := store.GetTrade(ctx, id)
	if err != nil {
		t.Fatalf("get closed: %v", err)
	}
	if closed.Status != models.StatusClosed {
		t.Errorf("status = %s, want %s", closed.Status, models.StatusClosed)
	}
	if closed.EntryTime == nil || !closed.EntryTime.Equal(entry) {
		t.Errorf("EntryTime = %v, want %v", closed.EntryTime, entry)
	}
	if closed.ProfitLoss == nil || *closed.ProfitLoss != 100 {
		t.Errorf("ProfitLoss = %v, want 100", closed.ProfitLoss)
	}
	if closed.PercentReturn == nil || *closed.PercentReturn != 10 {
		t.Errorf("PercentReturn = %v, want 10", closed.PercentReturn)
	}
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetPsychologicalState(ctx, 999); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("psychological state: err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetStockRating(ctx, 999); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("stock rating: err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetDetailedAnalysis(ctx, 999); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("detailed analysis: err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetTrade(ctx, 999); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("trade: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateTradeConstraints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trade := models.NewTrade("AAPL", 1)
	err := store.UpdateTrade(ctx, trade)
	var cerr *apperrors.ConstraintError
	if !apperrors.As(err, &cerr) {
		t.Fatalf("update without id: err = %v, want ConstraintError", err)
	}

	missing := int64(999)
	trade.ID = &missing
	err = store.UpdateTrade(ctx, trade)
	if !apperrors.As(err, &cerr) {
		t.Fatalf("update of missing row: err = %v, want ConstraintError", err)
	}
}

func TestGetRecentOrderingAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 3; i++ {
		id, err := store.SavePsychologicalState(ctx, models.NewPsychologicalState())
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		last = id
		time.Sleep(2 * time.Millisecond)
	}

	states, err := store.GetRecentPsychologicalStates(ctx, 2)
	if err != nil {
		t.Fatalf("get recent: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("got %d states, want 2", len(states))
	}
	if states[0].ID == nil || *states[0].ID != last {
		t.Errorf("first result is not the newest save: %v", states[0].ID)
	}
	if !states[0].Timestamp.After(states[1].Timestamp) {
		t.Error("states not newest first")
	}
}

func TestGetRecentZeroLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveTrade(ctx, models.NewTrade("AAPL", 1)); err != nil {
		t.Fatalf("save: %v", err)
	}

	trades, err := store.GetRecentTrades(ctx, 0)
	if err != nil {
		t.Fatalf("limit 0 must not error: %v", err)
	}
	if trades == nil || len(trades) != 0 {
		t.Errorf("limit 0: got %v, want empty list", trades)
	}
}

func TestCorruptRowsSurfaceSerializationErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.Exec(`
		INSERT INTO psychological_states
		(timestamp, gain_loss_yesterday, emotional_state, fomo, market_bias, hunger, headache_pain, extra_factors, total_risk_score)
		VALUES ('not-a-timestamp', 0, 0, 0, 0, 0, 0, '{}', 0)
	`)
	if err != nil {
		t.Fatalf("raw insert: %v", err)
	}

	var serr *apperrors.SerializationError
	_, err = store.GetRecentPsychologicalStates(ctx, 10)
	if !apperrors.As(err, &serr) {
		t.Fatalf("bad timestamp: err = %v, want SerializationError", err)
	}

	_, err = store.db.Exec(`
		INSERT INTO stock_ratings
		(timestamp, symbol, sector, market_sentiment, sector_sentiment, security_sentiment,
		bull_bear, confidence, market_trend, chart_pattern, strategy, overall_score)
		VALUES ('2025-03-10T14:30:00.000000000Z', 'AAPL', 'Technology', 0, 0, 0, 1, 50, '"Moonshot"', '"Cup"', '', 0)
	`)
	if err != nil {
		t.Fatalf("raw insert: %v", err)
	}

	_, err = store.GetRecentStockRatings(ctx, 10)
	if !apperrors.As(err, &serr) {
		t.Fatalf("unknown enum tag: err = %v, want SerializationError", err)
	}
}
