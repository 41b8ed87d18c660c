package models

import "time"

// PsychologicalState records the trader's state of mind before a session.
// The mood axes are caller-validated: emotional state, FOMO and market bias
// range over [-3, +3], hunger and headache over [0, +3].
type PsychologicalState struct {
	ID                *int64         `json:"id"`
	Timestamp         time.Time      `json:"timestamp"`
	GainLossYesterday float64        `json:"gain_loss_yesterday"`
	EmotionalState    int            `json:"emotional_state"`
	FOMO              int            `json:"fomo"`
	MarketBias        int            `json:"market_bias"`
	Hunger            int            `json:"hunger"`
	HeadachePain      int            `json:"headache_pain"`
	ExtraFactors      map[string]int `json:"extra_factors"`
	TotalRiskScore    float64        `json:"total_risk_score"`
}

// NewPsychologicalState creates a neutral state stamped with the current time.
func NewPsychologicalState() *PsychologicalState {
	return &PsychologicalState{
		Timestamp:    time.Now().UTC(),
		ExtraFactors: make(map[string]int),
	}
}

// CalculateTotalRisk derives the composite risk score from the raw axes.
// Yesterday's P&L contributes at most +-3, clamped at +-100 percent.
func (s *PsychologicalState) CalculateTotalRisk() float64 {
	base := s.EmotionalState + s.FOMO + s.MarketBias
	physical := s.Hunger + s.HeadachePain

	pnlEffect := s.GainLossYesterday / 100.0
	if pnlEffect > 1.0 {
		pnlEffect = 1.0
	} else if pnlEffect < -1.0 {
		pnlEffect = -1.0
	}
	pnlEffect *= 3.0

	extras := 0
	for _, v := range s.ExtraFactors {
		extras += v
	}

	return (float64(base) + float64(physical) + pnlEffect + float64(extras)) / 3.0
}

// UpdateRiskScore writes the derived score back into the record. Called on
// every save so the stored score always matches the stored inputs.
func (s *PsychologicalState) UpdateRiskScore() {
	s.TotalRiskScore = s.CalculateTotalRisk()
}
