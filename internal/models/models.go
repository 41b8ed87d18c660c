// Package models provides domain models for the trading journal.
package models

import (
	"encoding/json"
	"fmt"
)

// MarketTrend represents the observed direction of the broader market.
type MarketTrend string

const (
	TrendUptrend   MarketTrend = "Uptrend"
	TrendDowntrend MarketTrend = "Downtrend"
	TrendSideways  MarketTrend = "Sideways"
	TrendUncertain MarketTrend = "Uncertain"
)

// Valid reports whether t is one of the known trend variants.
func (t MarketTrend) Valid() bool {
	switch t {
	case TrendUptrend, TrendDowntrend, TrendSideways, TrendUncertain:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown trend tags instead of accepting arbitrary text.
func (t *MarketTrend) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("market trend: %w", err)
	}
	if !MarketTrend(s).Valid() {
		return fmt.Errorf("unknown market trend: %q", s)
	}
	*t = MarketTrend(s)
	return nil
}

// ParseMarketTrend converts user input to a MarketTrend.
func ParseMarketTrend(s string) (MarketTrend, error) {
	if !MarketTrend(s).Valid() {
		return "", fmt.Errorf("unknown market trend: %q", s)
	}
	return MarketTrend(s), nil
}

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	StatusPlanned   TradeStatus = "Planned"
	StatusOpen      TradeStatus = "Open"
	StatusClosed    TradeStatus = "Closed"
	StatusCancelled TradeStatus = "Cancelled"
)

// Valid reports whether s is one of the known status variants.
func (s TradeStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusOpen, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves this status.
func (s TradeStatus) Terminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// UnmarshalJSON rejects unknown status tags.
func (s *TradeStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("trade status: %w", err)
	}
	if !TradeStatus(v).Valid() {
		return fmt.Errorf("unknown trade status: %q", v)
	}
	*s = TradeStatus(v)
	return nil
}

// Chart pattern names. PatternOther carries a free-text label for shapes
// outside the fixed set.
const (
	PatternHighBase                = "HighBase"
	PatternLowBase                 = "LowBase"
	PatternAscendingTriangle       = "AscendingTriangle"
	PatternDescendingTriangle      = "DescendingTriangle"
	PatternCup                     = "Cup"
	PatternHeadAndShoulders        = "HeadAndShoulders"
	PatternInverseHeadAndShoulders = "InverseHeadAndShoulders"
	PatternDoubleTop               = "DoubleTop"
	PatternDoubleBottom            = "DoubleBottom"
	PatternConsolidation           = "Consolidation"
	PatternBreakoutPullback        = "BreakoutPullback"
	PatternOther                   = "Other"
)

var fixedPatterns = map[string]bool{
	PatternHighBase:                true,
	PatternLowBase:                 true,
	PatternAscendingTriangle:       true,
	PatternDescendingTriangle:      true,
	PatternCup:                     true,
	PatternHeadAndShoulders:        true,
	PatternInverseHeadAndShoulders: true,
	PatternDoubleTop:               true,
	PatternDoubleBottom:            true,
	PatternConsolidation:           true,
	PatternBreakoutPullback:        true,
}

// ChartPattern is a tagged variant: one of the fixed pattern names, or
// PatternOther with a free-text label. Fixed names serialize as bare JSON
// strings, Other as {"Other":"<label>"} so the label survives a round trip.
type ChartPattern struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
}

// Pattern returns a ChartPattern for one of the fixed names.
func Pattern(name string) (ChartPattern, error) {
	if !fixedPatterns[name] {
		return ChartPattern{}, fmt.Errorf("unknown chart pattern: %q", name)
	}
	return ChartPattern{Name: name}, nil
}

// OtherPattern returns the fallback variant carrying a free-text label.
func OtherPattern(label string) ChartPattern {
	return ChartPattern{Name: PatternOther, Label: label}
}

// ParseChartPattern converts user input to a ChartPattern, falling back to
// OtherPattern for anything outside the fixed set.
func ParseChartPattern(s string) ChartPattern {
	if fixedPatterns[s] {
		return ChartPattern{Name: s}
	}
	return OtherPattern(s)
}

// String renders the pattern for display.
func (p ChartPattern) String() string {
	if p.Name == PatternOther {
		return fmt.Sprintf("Other (%s)", p.Label)
	}
	return p.Name
}

// MarshalJSON implements the tagged encoding.
func (p ChartPattern) MarshalJSON() ([]byte, error) {
	if p.Name == PatternOther {
		return json.Marshal(map[string]string{PatternOther: p.Label})
	}
	if !fixedPatterns[p.Name] {
		return nil, fmt.Errorf("unknown chart pattern: %q", p.Name)
	}
	return json.Marshal(p.Name)
}

// UnmarshalJSON implements the tagged decoding. Unknown tags are a hard
// error, never coerced to a default.
func (p *ChartPattern) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if !fixedPatterns[s] {
			return fmt.Errorf("unknown chart pattern: %q", s)
		}
		*p = ChartPattern{Name: s}
		return nil
	}

	var tagged map[string]string
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("chart pattern: %w", err)
	}
	label, ok := tagged[PatternOther]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("malformed chart pattern encoding: %s", data)
	}
	*p = OtherPattern(label)
	return nil
}
