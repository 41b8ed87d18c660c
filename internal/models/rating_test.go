package models

import "testing"

func TestCalculateOverallScore(t *testing.T) {
	tests := []struct {
		name       string
		bullBear   int
		confidence int
		market     int
		sector     int
		security   int
		want       int
	}{
		{"bull with confidence", 1, 80, 2, 1, 0, 5},
		{"bear flips the sign", -1, 80, 2, 1, 0, -5},
		{"confidence factor truncates", 1, 49, 0, 0, 0, 1},
		{"full confidence", 1, 100, 3, 3, 3, 12},
		{"zero confidence", 1, 0, 1, 0, 0, 1},
		{"negative sentiment sum", 1, 0, -2, -1, -1, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewStockRating("AAPL", "Technology")
			r.BullBear = tt.bullBear
			r.Confidence = tt.confidence
			r.MarketSentiment = tt.market
			r.SectorSentiment = tt.sector
			r.SecuritySentiment = tt.security

			if got := r.CalculateOverallScore(); got != tt.want {
				t.Errorf("CalculateOverallScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUpdateOverallScore(t *testing.T) {
	r := NewStockRating("MSFT", "Technology")
	r.MarketSentiment = 2
	r.Confidence = 100

	r.UpdateOverallScore()
	if r.OverallScore != 5 {
		t.Errorf("OverallScore = %d, want 5", r.OverallScore)
	}
}

func TestNewStockRatingDefaults(t *testing.T) {
	r := NewStockRating("TSLA", "Auto")
	if r.ID != nil {
		t.Error("new rating should have no identifier")
	}
	if r.BullBear != 1 || r.Confidence != 50 {
		t.Errorf("unexpected defaults: bull_bear=%d confidence=%d", r.BullBear, r.Confidence)
	}
	if r.MarketTrend != TrendUncertain {
		t.Errorf("default trend = %s, want %s", r.MarketTrend, TrendUncertain)
	}
	if r.ChartPattern != OtherPattern("None") {
		t.Errorf("default pattern = %v, want Other(None)", r.ChartPattern)
	}
}
