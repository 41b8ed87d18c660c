package models

import (
	"math"
	"time"
)

// DetailedAnalysis is a full trade plan for a security: the rating fields
// plus entry, stop, target, legs for spread positions, and the Greeks for
// options. Bought distinguishes a directional equity trade from a
// credit/debit instrument trade.
type DetailedAnalysis struct {
	ID              *int64       `json:"id"`
	Timestamp       time.Time    `json:"timestamp"`
	BullBear        int          `json:"bull_bear"`
	Confidence      int          `json:"confidence"`
	MarketTrend     MarketTrend  `json:"market_trend"`
	ChartPattern    ChartPattern `json:"chart_pattern"`
	Strategy        string       `json:"strategy"`
	OverallScore    int          `json:"overall_score"`
	MarketSentiment int          `json:"market_sentiment"`
	SectorSentiment int          `json:"sector_sentiment"`
	Sector          string       `json:"sector"`
	Security        string       `json:"security"`
	Bought          bool         `json:"bought"`
	EntryReason     string       `json:"entry_reason"`
	Time            time.Time    `json:"time"`
	EntryPrice      float64      `json:"entry_price"`
	StopLoss        float64      `json:"stop_loss"`
	TargetPrice     float64      `json:"target_price"`
	ShortLeg        *string      `json:"short_leg"`
	LongLeg         *string      `json:"long_leg"`
	DebitCredit     float64      `json:"debit_credit"`
	Quantity        int          `json:"quantity"`
	RiskMax         float64      `json:"risk_max"`
	Reward          float64      `json:"reward"`
	MaxGain         *float64     `json:"max_gain"`
	PercentProfit   *float64     `json:"percent_profit"`
	Delta           *float64     `json:"delta"`
	Theta           *float64     `json:"theta"`
	Gamma           *float64     `json:"gamma"`
	Vega            *float64     `json:"vega"`
	Alerts          []string     `json:"alerts"`
	ExitReason      *string      `json:"exit_reason"`
	SkipReason      *string      `json:"skip_reason"`
}

// NewDetailedAnalysis creates an analysis with neutral defaults.
func NewDetailedAnalysis(security, sector string) *DetailedAnalysis {
	now := time.Now().UTC()
	return &DetailedAnalysis{
		Timestamp:    now,
		BullBear:     1,
		Confidence:   50,
		MarketTrend:  TrendUncertain,
		ChartPattern: OtherPattern("None"),
		Sector:       sector,
		Security:     security,
		Time:         now,
		Alerts:       []string{},
	}
}

// CalculateRiskReward derives the maximum risk and the reward estimate.
//
// For a directional trade both come from the entry/stop/target triplet, and
// neither is touched without a valid entry/stop pair. For a credit/debit
// instrument the risk is the net cost of the position; reward is deliberately
// left unchanged in that branch.
func (a *DetailedAnalysis) CalculateRiskReward() {
	qty := float64(a.Quantity)
	if a.Bought {
		if a.EntryPrice > 0 && a.StopLoss > 0 {
			a.RiskMax = math.Abs(a.EntryPrice-a.StopLoss) * qty
			if a.TargetPrice > 0 {
				a.Reward = math.Abs(a.TargetPrice-a.EntryPrice) * qty
			}
		}
	} else {
		a.RiskMax = math.Abs(a.DebitCredit) * qty
	}
}

// UpdateProfit records the realized outcome once the position is exited.
func (a *DetailedAnalysis) UpdateProfit(exitPrice float64) {
	qty := float64(a.Quantity)
	if a.Bought {
		gain := (exitPrice - a.EntryPrice) * qty
		a.MaxGain = &gain
		if a.EntryPrice > 0 {
			pct := (exitPrice - a.EntryPrice) / a.EntryPrice * 100.0
			a.PercentProfit = &pct
		}
	} else {
		gain := exitPrice * qty
		a.MaxGain = &gain
		if a.DebitCredit != 0 {
			pct := (exitPrice - a.DebitCredit) / math.Abs(a.DebitCredit) * 100.0
			a.PercentProfit = &pct
		}
	}
}
