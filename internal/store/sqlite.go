// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// SQLiteStore implements DataStore using a single local SQLite file. A
// mutex serializes access so only one operation touches the store at a
// time; the file is the only persisted state.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// schema exists. Safe to call on every process start.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer; the mutex serializes callers anyway.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the four backing tables and indexes. Idempotent.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS psychological_states (
		id INTEGER PRIMARY KEY,
		timestamp TEXT NOT NULL,
		gain_loss_yesterday REAL NOT NULL,
		emotional_state INTEGER NOT NULL,
		fomo INTEGER NOT NULL,
		market_bias INTEGER NOT NULL,
		hunger INTEGER NOT NULL,
		headache_pain INTEGER NOT NULL,
		extra_factors TEXT NOT NULL,
		total_risk_score REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stock_ratings (
		id INTEGER PRIMARY KEY,
		timestamp TEXT NOT NULL,
		symbol TEXT NOT NULL,
		security_name TEXT,
		sector TEXT NOT NULL,
		market_sentiment INTEGER NOT NULL,
		sector_sentiment INTEGER NOT NULL,
		security_sentiment INTEGER NOT NULL,
		bull_bear INTEGER NOT NULL,
		confidence INTEGER NOT NULL,
		market_trend TEXT NOT NULL,
		chart_pattern TEXT NOT NULL,
		strategy TEXT NOT NULL,
		overall_score INTEGER NOT NULL,
		notes TEXT
	);

	CREATE TABLE IF NOT EXISTS detailed_analyses (
		id INTEGER PRIMARY KEY,
		timestamp TEXT NOT NULL,
		bull_bear INTEGER NOT NULL,
		confidence INTEGER NOT NULL,
		market_trend TEXT NOT NULL,
		chart_pattern TEXT NOT NULL,
		strategy TEXT NOT NULL,
		overall_score INTEGER NOT NULL,
		market_sentiment INTEGER NOT NULL,
		sector_sentiment INTEGER NOT NULL,
		sector TEXT NOT NULL,
		security TEXT NOT NULL,
		bought INTEGER NOT NULL,
		entry_reason TEXT NOT NULL,
		time TEXT NOT NULL,
		entry_price REAL NOT NULL,
		stop_loss REAL NOT NULL,
		target_price REAL NOT NULL,
		short_leg TEXT,
		long_leg TEXT,
		debit_credit REAL NOT NULL,
		quantity INTEGER NOT NULL,
		risk_max REAL NOT NULL,
		reward REAL NOT NULL,
		max_gain REAL,
		percent_profit REAL,
		delta REAL,
		theta REAL,
		gamma REAL,
		vega REAL,
		alerts TEXT NOT NULL,
		exit_reason TEXT,
		skip_reason TEXT
	);

	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY,
		analysis_id INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		symbol TEXT NOT NULL,
		status TEXT NOT NULL,
		entry_time TEXT,
		exit_time TEXT,
		entry_price REAL,
		exit_price REAL,
		quantity INTEGER NOT NULL,
		profit_loss REAL,
		percent_return REAL,
		notes TEXT,
		FOREIGN KEY (analysis_id) REFERENCES detailed_analyses (id)
	);

	CREATE INDEX IF NOT EXISTS idx_states_timestamp ON psychological_states(timestamp);
	CREATE INDEX IF NOT EXISTS idx_ratings_symbol ON stock_ratings(symbol);
	CREATE INDEX IF NOT EXISTS idx_ratings_timestamp ON stock_ratings(timestamp);
	CREATE INDEX IF NOT EXISTS idx_analyses_timestamp ON detailed_analyses(timestamp);
	CREATE INDEX IF NOT EXISTS idx_trades_analysis ON trades(analysis_id);
	CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Serialization helpers
// ============================================================================

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Timestamps are stored as RFC 3339 text with a UTC offset, nanosecond
// precision, so the original instant round-trips exactly. The fractional
// part is fixed-width (RFC3339Nano would trim trailing zeros) so that
// lexicographic ORDER BY on the text column matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(entity, column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, apperrors.NewSerializationError(entity, column, err)
	}
	return t.UTC(), nil
}

// encodeJSON serializes enums and mappings to their stored textual form.
func encodeJSON(entity, column string, v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", apperrors.NewSerializationError(entity, column, err)
	}
	return string(data), nil
}

// decodeJSON deserializes a stored textual form. Malformed encodings and
// unknown enum tags are hard errors, never replaced with defaults.
func decodeJSON(entity, column, value string, v interface{}) error {
	if err := json.Unmarshal([]byte(value), v); err != nil {
		return apperrors.NewSerializationError(entity, column, err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func timePtr(entity, column string, ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(entity, column, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ============================================================================
// Psychological States Methods
// ============================================================================

// SavePsychologicalState recomputes the risk score, stamps the state with
// the current time, inserts it, and assigns the generated identifier.
func (s *SQLiteStore) SavePsychologicalState(ctx context.Context, state *models.PsychologicalState) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.UpdateRiskScore()
	state.Timestamp = time.Now().UTC()

	factors, err := encodeJSON("psychological_state", "extra_factors", state.ExtraFactors)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO psychological_states
		(timestamp, gain_loss_yesterday, emotional_state, fomo, market_bias, hunger, headache_pain, extra_factors, total_risk_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, formatTime(state.Timestamp), state.GainLossYesterday, state.EmotionalState, state.FOMO,
		state.MarketBias, state.Hunger, state.HeadachePain, factors, state.TotalRiskScore)
	if err != nil {
		return 0, fmt.Errorf("failed to save psychological state: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id: %w", err)
	}
	state.ID = &id
	return id, nil
}

func scanPsychologicalState(row rowScanner) (*models.PsychologicalState, error) {
	var st models.PsychologicalState
	var id int64
	var timestamp, factors string

	if err := row.Scan(&id, &timestamp, &st.GainLossYesterday, &st.EmotionalState, &st.FOMO,
		&st.MarketBias, &st.Hunger, &st.HeadachePain, &factors, &st.TotalRiskScore); err != nil {
		return nil, err
	}

	st.ID = &id
	ts, err := parseTime("psychological_state", "timestamp", timestamp)
	if err != nil {
		return nil, err
	}
	st.Timestamp = ts

	if err := decodeJSON("psychological_state", "extra_factors", factors, &st.ExtraFactors); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetPsychologicalState retrieves a single state by identifier.
func (s *SQLiteStore) GetPsychologicalState(ctx context.Context, id int64) (*models.PsychologicalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, gain_loss_yesterday, emotional_state, fomo, market_bias,
			hunger, headache_pain, extra_factors, total_risk_score
		FROM psychological_states
		WHERE id = ?
	`, id)

	state, err := scanPsychologicalState(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "psychological state %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get psychological state: %w", err)
	}
	return state, nil
}

// GetRecentPsychologicalStates retrieves at most limit states, newest first.
func (s *SQLiteStore) GetRecentPsychologicalStates(ctx context.Context, limit int) ([]models.PsychologicalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, gain_loss_yesterday, emotional_state, fomo, market_bias,
			hunger, headache_pain, extra_factors, total_risk_score
		FROM psychological_states
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query psychological states: %w", err)
	}
	defer rows.Close()

	states := []models.PsychologicalState{}
	for rows.Next() {
		state, err := scanPsychologicalState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan psychological state: %w", err)
		}
		states = append(states, *state)
	}
	return states, rows.Err()
}

// ============================================================================
// Stock Ratings Methods
// ============================================================================

// SaveStockRating recomputes the overall score, stamps the rating with the
// current time, inserts it, and assigns the generated identifier.
func (s *SQLiteStore) SaveStockRating(ctx context.Context, rating *models.StockRating) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rating.UpdateOverallScore()
	rating.Timestamp = time.Now().UTC()

	trend, err := encodeJSON("stock_rating", "market_trend", rating.MarketTrend)
	if err != nil {
		return 0, err
	}
	pattern, err := encodeJSON("stock_rating", "chart_pattern", rating.ChartPattern)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_ratings
		(timestamp, symbol, security_name, sector, market_sentiment, sector_sentiment, security_sentiment,
		bull_bear, confidence, market_trend, chart_pattern, strategy, overall_score, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, formatTime(rating.Timestamp), rating.Symbol, nullString(rating.SecurityName), rating.Sector,
		rating.MarketSentiment, rating.SectorSentiment, rating.SecuritySentiment,
		rating.BullBear, rating.Confidence, trend, pattern, rating.Strategy,
		rating.OverallScore, nullString(rating.Notes))
	if err != nil {
		return 0, fmt.Errorf("failed to save stock rating: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id: %w", err)
	}
	rating.ID = &id
	return id, nil
}

func scanStockRating(row rowScanner) (*models.StockRating, error) {
	var r models.StockRating
	var id int64
	var timestamp, trend, pattern string
	var securityName, notes sql.NullString

	if err := row.Scan(&id, &timestamp, &r.Symbol, &securityName, &r.Sector,
		&r.MarketSentiment, &r.SectorSentiment, &r.SecuritySentiment,
		&r.BullBear, &r.Confidence, &trend, &pattern, &r.Strategy,
		&r.OverallScore, &notes); err != nil {
		return nil, err
	}

	r.ID = &id
	ts, err := parseTime("stock_rating", "timestamp", timestamp)
	if err != nil {
		return nil, err
	}
	r.Timestamp = ts

	if err := decodeJSON("stock_rating", "market_trend", trend, &r.MarketTrend); err != nil {
		return nil, err
	}
	if err := decodeJSON("stock_rating", "chart_pattern", pattern, &r.ChartPattern); err != nil {
		return nil, err
	}
	r.SecurityName = stringPtr(securityName)
	r.Notes = stringPtr(notes)
	return &r, nil
}

const stockRatingColumns = `id, timestamp, symbol, security_name, sector, market_sentiment,
	sector_sentiment, security_sentiment, bull_bear, confidence, market_trend, chart_pattern,
	strategy, overall_score, notes`

// GetStockRating retrieves a single rating by identifier.
func (s *SQLiteStore) GetStockRating(ctx context.Context, id int64) (*models.StockRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+stockRatingColumns+`
		FROM stock_ratings
		WHERE id = ?
	`, id)

	rating, err := scanStockRating(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "stock rating %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock rating: %w", err)
	}
	return rating, nil
}

// GetStockRatingsBySymbol retrieves every rating for a symbol, newest first.
func (s *SQLiteStore) GetStockRatingsBySymbol(ctx context.Context, symbol string) ([]models.StockRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+stockRatingColumns+`
		FROM stock_ratings
		WHERE symbol = ?
		ORDER BY timestamp DESC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock ratings: %w", err)
	}
	defer rows.Close()

	return collectStockRatings(rows)
}

// GetRecentStockRatings retrieves at most limit ratings, newest first.
func (s *SQLiteStore) GetRecentStockRatings(ctx context.Context, limit int) ([]models.StockRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+stockRatingColumns+`
		FROM stock_ratings
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock ratings: %w", err)
	}
	defer rows.Close()

	return collectStockRatings(rows)
}

func collectStockRatings(rows *sql.Rows) ([]models.StockRating, error) {
	ratings := []models.StockRating{}
	for rows.Next() {
		rating, err := scanStockRating(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock rating: %w", err)
		}
		ratings = append(ratings, *rating)
	}
	return ratings, rows.Err()
}

// ============================================================================
// Detailed Analyses Methods
// ============================================================================

// SaveDetailedAnalysis recomputes risk/reward, stamps the analysis with the
// current time, inserts it, and assigns the generated identifier.
func (s *SQLiteStore) SaveDetailedAnalysis(ctx context.Context, analysis *models.DetailedAnalysis) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	analysis.CalculateRiskReward()
	analysis.Timestamp = time.Now().UTC()

	trend, err := encodeJSON("detailed_analysis", "market_trend", analysis.MarketTrend)
	if err != nil {
		return 0, err
	}
	pattern, err := encodeJSON("detailed_analysis", "chart_pattern", analysis.ChartPattern)
	if err != nil {
		return 0, err
	}
	alerts, err := encodeJSON("detailed_analysis", "alerts", analysis.Alerts)
	if err != nil {
		return 0, err
	}

	bought := 0
	if analysis.Bought {
		bought = 1
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO detailed_analyses
		(timestamp, bull_bear, confidence, market_trend, chart_pattern, strategy, overall_score,
		market_sentiment, sector_sentiment, sector, security, bought, entry_reason, time,
		entry_price, stop_loss, target_price, short_leg, long_leg, debit_credit, quantity,
		risk_max, reward, max_gain, percent_profit, delta, theta, gamma, vega, alerts,
		exit_reason, skip_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, formatTime(analysis.Timestamp), analysis.BullBear, analysis.Confidence, trend, pattern,
		analysis.Strategy, analysis.OverallScore, analysis.MarketSentiment, analysis.SectorSentiment,
		analysis.Sector, analysis.Security, bought, analysis.EntryReason, formatTime(analysis.Time),
		analysis.EntryPrice, analysis.StopLoss, analysis.TargetPrice,
		nullString(analysis.ShortLeg), nullString(analysis.LongLeg),
		analysis.DebitCredit, analysis.Quantity, analysis.RiskMax, analysis.Reward,
		nullFloat(analysis.MaxGain), nullFloat(analysis.PercentProfit),
		nullFloat(analysis.Delta), nullFloat(analysis.Theta), nullFloat(analysis.Gamma), nullFloat(analysis.Vega),
		alerts, nullString(analysis.ExitReason), nullString(analysis.SkipReason))
	if err != nil {
		return 0, fmt.Errorf("failed to save detailed analysis: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id: %w", err)
	}
	analysis.ID = &id
	return id, nil
}

func scanDetailedAnalysis(row rowScanner) (*models.DetailedAnalysis, error) {
	var a models.DetailedAnalysis
	var id, bought int64
	var timestamp, analysisTime, trend, pattern, alerts string
	var shortLeg, longLeg, exitReason, skipReason sql.NullString
	var maxGain, percentProfit, delta, theta, gamma, vega sql.NullFloat64

	if err := row.Scan(&id, &timestamp, &a.BullBear, &a.Confidence, &trend, &pattern,
		&a.Strategy, &a.OverallScore, &a.MarketSentiment, &a.SectorSentiment,
		&a.Sector, &a.Security, &bought, &a.EntryReason, &analysisTime,
		&a.EntryPrice, &a.StopLoss, &a.TargetPrice, &shortLeg, &longLeg,
		&a.DebitCredit, &a.Quantity, &a.RiskMax, &a.Reward,
		&maxGain, &percentProfit, &delta, &theta, &gamma, &vega,
		&alerts, &exitReason, &skipReason); err != nil {
		return nil, err
	}

	a.ID = &id
	a.Bought = bought == 1

	ts, err := parseTime("detailed_analysis", "timestamp", timestamp)
	if err != nil {
		return nil, err
	}
	a.Timestamp = ts

	at, err := parseTime("detailed_analysis", "time", analysisTime)
	if err != nil {
		return nil, err
	}
	a.Time = at

	if err := decodeJSON("detailed_analysis", "market_trend", trend, &a.MarketTrend); err != nil {
		return nil, err
	}
	if err := decodeJSON("detailed_analysis", "chart_pattern", pattern, &a.ChartPattern); err != nil {
		return nil, err
	}
	if err := decodeJSON("detailed_analysis", "alerts", alerts, &a.Alerts); err != nil {
		return nil, err
	}

	a.ShortLeg = stringPtr(shortLeg)
	a.LongLeg = stringPtr(longLeg)
	a.ExitReason = stringPtr(exitReason)
	a.SkipReason = stringPtr(skipReason)
	a.MaxGain = floatPtr(maxGain)
	a.PercentProfit = floatPtr(percentProfit)
	a.Delta = floatPtr(delta)
	a.Theta = floatPtr(theta)
	a.Gamma = floatPtr(gamma)
	a.Vega = floatPtr(vega)
	return &a, nil
}

const detailedAnalysisColumns = `id, timestamp, bull_bear, confidence, market_trend, chart_pattern,
	strategy, overall_score, market_sentiment, sector_sentiment, sector, security, bought,
	entry_reason, time, entry_price, stop_loss, target_price, short_leg, long_leg, debit_credit,
	quantity, risk_max, reward, max_gain, percent_profit, delta, theta, gamma, vega, alerts,
	exit_reason, skip_reason`

// GetDetailedAnalysis retrieves a single analysis by identifier.
func (s *SQLiteStore) GetDetailedAnalysis(ctx context.Context, id int64) (*models.DetailedAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+detailedAnalysisColumns+`
		FROM detailed_analyses
		WHERE id = ?
	`, id)

	analysis, err := scanDetailedAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "detailed analysis %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get detailed analysis: %w", err)
	}
	return analysis, nil
}

// GetRecentDetailedAnalyses retrieves at most limit analyses, newest first.
func (s *SQLiteStore) GetRecentDetailedAnalyses(ctx context.Context, limit int) ([]models.DetailedAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+detailedAnalysisColumns+`
		FROM detailed_analyses
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query detailed analyses: %w", err)
	}
	defer rows.Close()

	analyses := []models.DetailedAnalysis{}
	for rows.Next() {
		analysis, err := scanDetailedAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan detailed analysis: %w", err)
		}
		analyses = append(analyses, *analysis)
	}
	return analyses, rows.Err()
}

// ============================================================================
// Trades Methods
// ============================================================================

// SaveTrade stamps the trade with the current time, inserts it, and assigns
// the generated identifier. Derived P&L fields are written as computed by
// the lifecycle methods, never recomputed here.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.Trade) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trade.Timestamp = time.Now().UTC()

	status, err := encodeJSON("trade", "status", trade.Status)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO trades
		(analysis_id, timestamp, symbol, status, entry_time, exit_time, entry_price, exit_price,
		quantity, profit_loss, percent_return, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.AnalysisID, formatTime(trade.Timestamp), trade.Symbol, status,
		nullTime(trade.EntryTime), nullTime(trade.ExitTime),
		nullFloat(trade.EntryPrice), nullFloat(trade.ExitPrice),
		trade.Quantity, nullFloat(trade.ProfitLoss), nullFloat(trade.PercentReturn),
		nullString(trade.Notes))
	if err != nil {
		return 0, fmt.Errorf("failed to save trade: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id: %w", err)
	}
	trade.ID = &id
	return id, nil
}

// UpdateTrade overwrites every field of a stored trade except its identifier
// and owning analysis. Fails when the identifier has no row behind it.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, trade *models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trade.ID == nil {
		return apperrors.NewConstraintError("trade", 0, "update requires a stored identifier")
	}

	status, err := encodeJSON("trade", "status", trade.Status)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE trades
		SET status = ?, entry_time = ?, exit_time = ?, entry_price = ?, exit_price = ?,
		quantity = ?, profit_loss = ?, percent_return = ?, notes = ?
		WHERE id = ?
	`, status, nullTime(trade.EntryTime), nullTime(trade.ExitTime),
		nullFloat(trade.EntryPrice), nullFloat(trade.ExitPrice),
		trade.Quantity, nullFloat(trade.ProfitLoss), nullFloat(trade.PercentReturn),
		nullString(trade.Notes), *trade.ID)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	if rows == 0 {
		return apperrors.NewConstraintError("trade", *trade.ID, "no such row")
	}
	return nil
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var id int64
	var timestamp, status string
	var entryTime, exitTime, notes sql.NullString
	var entryPrice, exitPrice, profitLoss, percentReturn sql.NullFloat64

	if err := row.Scan(&id, &t.AnalysisID, &timestamp, &t.Symbol, &status,
		&entryTime, &exitTime, &entryPrice, &exitPrice,
		&t.Quantity, &profitLoss, &percentReturn, &notes); err != nil {
		return nil, err
	}

	t.ID = &id
	ts, err := parseTime("trade", "timestamp", timestamp)
	if err != nil {
		return nil, err
	}
	t.Timestamp = ts

	if err := decodeJSON("trade", "status", status, &t.Status); err != nil {
		return nil, err
	}

	if t.EntryTime, err = timePtr("trade", "entry_time", entryTime); err != nil {
		return nil, err
	}
	if t.ExitTime, err = timePtr("trade", "exit_time", exitTime); err != nil {
		return nil, err
	}
	t.EntryPrice = floatPtr(entryPrice)
	t.ExitPrice = floatPtr(exitPrice)
	t.ProfitLoss = floatPtr(profitLoss)
	t.PercentReturn = floatPtr(percentReturn)
	t.Notes = stringPtr(notes)
	return &t, nil
}

const tradeColumns = `id, analysis_id, timestamp, symbol, status, entry_time, exit_time,
	entry_price, exit_price, quantity, profit_loss, percent_return, notes`

// GetTrade retrieves a single trade by identifier.
func (s *SQLiteStore) GetTrade(ctx context.Context, id int64) (*models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE id = ?
	`, id)

	trade, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "trade %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return trade, nil
}

// GetTradesByAnalysis retrieves every trade of an analysis, newest first.
func (s *SQLiteStore) GetTradesByAnalysis(ctx context.Context, analysisID int64) ([]models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE analysis_id = ?
		ORDER BY timestamp DESC
	`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

// GetRecentTrades retrieves at most limit trades, newest first.
func (s *SQLiteStore) GetRecentTrades(ctx context.Context, limit int) ([]models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

func collectTrades(rows *sql.Rows) ([]models.Trade, error) {
	trades := []models.Trade{}
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *trade)
	}
	return trades, rows.Err()
}
