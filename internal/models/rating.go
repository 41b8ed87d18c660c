package models

import "time"

// StockRating captures a quick sentiment read on a single security.
type StockRating struct {
	ID                *int64       `json:"id"`
	Timestamp         time.Time    `json:"timestamp"`
	Symbol            string       `json:"symbol"`
	SecurityName      *string      `json:"security_name"`
	Sector            string       `json:"sector"`
	MarketSentiment   int          `json:"market_sentiment"`
	SectorSentiment   int          `json:"sector_sentiment"`
	SecuritySentiment int          `json:"security_sentiment"`
	BullBear          int          `json:"bull_bear"`
	Confidence        int          `json:"confidence"`
	MarketTrend       MarketTrend  `json:"market_trend"`
	ChartPattern      ChartPattern `json:"chart_pattern"`
	Strategy          string       `json:"strategy"`
	OverallScore      int          `json:"overall_score"`
	Notes             *string      `json:"notes"`
}

// NewStockRating creates a rating with neutral defaults: bull, 50% confidence,
// uncertain trend, no recognized pattern.
func NewStockRating(symbol, sector string) *StockRating {
	return &StockRating{
		Timestamp:    time.Now().UTC(),
		Symbol:       symbol,
		Sector:       sector,
		BullBear:     1,
		Confidence:   50,
		MarketTrend:  TrendUncertain,
		ChartPattern: OtherPattern("None"),
	}
}

// CalculateOverallScore derives the composite score. BullBear (+1 or -1)
// sign-flips the sum of the three sentiment axes plus a confidence factor
// truncated to [0, 3].
func (r *StockRating) CalculateOverallScore() int {
	confidenceFactor := int(float64(r.Confidence) / 100.0 * 3.0)
	sentimentSum := r.MarketSentiment + r.SectorSentiment + r.SecuritySentiment
	return r.BullBear * (sentimentSum + confidenceFactor)
}

// UpdateOverallScore writes the derived score back into the record.
func (r *StockRating) UpdateOverallScore() {
	r.OverallScore = r.CalculateOverallScore()
}
