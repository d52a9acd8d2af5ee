package models

import "time"

// Direction is the resolved trading direction for a symbol.
type Direction string

const (
	DirectionLong     Direction = "long"
	DirectionShort    Direction = "short"
	DirectionSideways Direction = "sideways"
)

// Opposite reports whether two directions are strict opposites
// (long vs short). Sideways opposes nothing.
func (d Direction) Opposite(other Direction) bool {
	return (d == DirectionLong && other == DirectionShort) ||
		(d == DirectionShort && other == DirectionLong)
}

// SignalDecision is the engine output for one evaluation: the stable,
// guard-adjusted direction with its calibrated probability.
type SignalDecision struct {
	Symbol          string    `json:"symbol"`
	Direction       Direction `json:"direction"`
	Probability     float64   `json:"probability"`
	TotalScore      float64   `json:"total_score"`
	StrengthPercent float64   `json:"strength_percent"`
	ConfidenceLabel string    `json:"confidence_label"`
	FactorBreakdown []string  `json:"factor_breakdown,omitempty"`
	Warnings        []string  `json:"warnings,omitempty"`
	Changed         bool      `json:"changed"`
	Reason          string    `json:"reason,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// StabilityState is the per-symbol mutable state the stability manager
// reads and writes on every evaluation. Cleared only by explicit reset.
type StabilityState struct {
	Direction        Direction `json:"direction"`
	Score            float64   `json:"score"`
	SmoothedScore    float64   `json:"smoothed_score"`
	PendingDirection Direction `json:"pending_direction,omitempty"`
	Confirmations    int       `json:"confirmations"`
	LastChangeTime   time.Time `json:"last_change_time"`
}

// CorrelationAnchor is the market leader's last strong reading, consulted
// by dependent symbols until it expires.
type CorrelationAnchor struct {
	Symbol      string    `json:"symbol"`
	Direction   Direction `json:"direction"`
	Probability float64   `json:"probability"`
	TotalScore  float64   `json:"total_score"`
	TrendScore  float64   `json:"trend_score"`
	GeneratedAt time.Time `json:"generated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the anchor is past its TTL at the given time.
func (a *CorrelationAnchor) Expired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}
