package service

import (
	"SignalPulse/internal/domain/models"
)

// Aggregator turns per-category snapshots into a weighted score bundle.
type Aggregator interface {
	Aggregate(symbol string, snaps *models.FactorSnapshots) models.ScoreBundle
}

// DirectionResolver maps a score bundle to a direction and the effective
// total score after extreme-indicator overrides.
type DirectionResolver interface {
	Resolve(bundle *models.ScoreBundle, snaps *models.FactorSnapshots) (models.Direction, float64)
}

// ProbabilityCalibrator converts the resolved direction and score into a
// bounded confidence probability.
type ProbabilityCalibrator interface {
	Calibrate(direction models.Direction, effectiveScore float64, bundle *models.ScoreBundle) float64
}

// StabilityGate applies smoothing, cooldown, confirmation counting and
// hysteresis before a direction flip is allowed to surface.
type StabilityGate interface {
	Apply(symbol string, direction models.Direction, score float64) StabilityResult
	Reset()
	Last(symbol string) (models.StabilityState, bool)
}

// StabilityResult is the gate outcome: the direction and score the caller
// must emit, which may be the previous ones when the change was rejected.
type StabilityResult struct {
	Direction     models.Direction
	Score         float64
	SmoothedScore float64
	Changed       bool
	Reason        string
}

// CorrelationGuard adjusts a dependent symbol's outcome against the
// anchor asset's recent strong signal, and records new anchors.
type CorrelationGuard interface {
	Adjust(symbol string, direction models.Direction, score float64) (models.Direction, float64, []string)
	Record(symbol string, d *models.SignalDecision, trendScore float64)
	Anchor(symbol string) (models.CorrelationAnchor, bool)
}
