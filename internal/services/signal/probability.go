package signal

import (
	"math"

	"SignalPulse/internal/domain/models"
	domsvc "SignalPulse/internal/domain/service"
	"SignalPulse/internal/services/scoring"
	"SignalPulse/pkg/config"
	"SignalPulse/pkg/logger"
)

// Calibration constants. The base curve is smooth and strictly monotonic
// in |score|, so two different magnitudes never map to the same base
// probability. Bonuses are bounded and additive.
const (
	probFloor = 50.0

	// base = floor + baseSpan * (1 - exp(-|score|/baseScale))
	baseSpan  = 30.0
	baseScale = 60.0

	consensusBonusPerVote = 2.0
	consensusBonusMax     = 6.0
	consensusConflictCut  = 2.0
	coverageBonusMax      = 4.0
	trendMisalignCut      = 5.0
	weakSignalCap         = 55.0
)

// Calibrator converts a resolved direction and effective score into a
// bounded confidence probability.
type Calibrator struct {
	cfg *config.Config
	log *logger.Logger
}

func NewCalibrator(cfg *config.Config, log *logger.Logger) *Calibrator {
	return &Calibrator{cfg: cfg, log: log}
}

func (c *Calibrator) Calibrate(direction models.Direction, effectiveScore float64, bundle *models.ScoreBundle) float64 {
	t := math.Abs(effectiveScore)
	prob := probFloor + baseSpan*(1-math.Exp(-t/baseScale))

	prob += c.consensusBonus(direction, bundle)
	prob += coverageBonusMax * bundle.Coverage()
	prob -= c.trendMisalignment(direction, bundle)

	prob = math.Max(probFloor, math.Min(prob, c.cfg.Engine.MaxProbability))

	// Low-confidence ceilings. A "no clear move" call or a score inside
	// the dead zone never carries a confident probability.
	if direction == models.DirectionSideways {
		prob = math.Min(prob, c.cfg.Engine.SidewaysMaxProbability)
	}
	if t < c.cfg.DeadZoneFor(bundle.Symbol) {
		prob = math.Min(prob, weakSignalCap)
	}
	return prob
}

// consensusBonus rewards factor counts that agree with the resolved
// direction and docks counts that oppose it. Sideways gets nothing.
func (c *Calibrator) consensusBonus(direction models.Direction, bundle *models.ScoreBundle) float64 {
	var aligned int
	switch direction {
	case models.DirectionLong:
		aligned = bundle.BullishCount - bundle.BearishCount
	case models.DirectionShort:
		aligned = bundle.BearishCount - bundle.BullishCount
	default:
		return 0
	}
	if aligned > 1 {
		return math.Min(consensusBonusPerVote*float64(aligned), consensusBonusMax)
	}
	if aligned < 0 {
		return -consensusConflictCut
	}
	return 0
}

// trendMisalignment penalizes calls that fight the longer-term trend factor.
func (c *Calibrator) trendMisalignment(direction models.Direction, bundle *models.ScoreBundle) float64 {
	f, ok := bundle.Factor(scoring.FactorTrend)
	if !ok {
		return 0
	}
	if (direction == models.DirectionLong && f.Raw < -1) ||
		(direction == models.DirectionShort && f.Raw > 1) {
		return trendMisalignCut
	}
	return 0
}

var _ domsvc.ProbabilityCalibrator = (*Calibrator)(nil)
