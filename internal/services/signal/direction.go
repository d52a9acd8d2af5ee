package signal

import (
	"math"

	"SignalPulse/internal/domain/models"
	domsvc "SignalPulse/internal/domain/service"
	"SignalPulse/pkg/config"
	"SignalPulse/pkg/logger"
)

// Extreme RSI raises the effective score by this many points per RSI
// point beyond the bound.
const rsiOverrideGain = 1.5

// Adaptive threshold widening on mixed consensus.
const (
	moderateConflictStep = 0.5
	strongConflictStep   = 0.75
)

// Resolver maps a score bundle to {long, short, sideways}. It returns
// the effective total score, which downstream stages carry instead of
// the raw aggregate when an extreme override fired.
type Resolver struct {
	cfg *config.Config
	log *logger.Logger
}

func NewResolver(cfg *config.Config, log *logger.Logger) *Resolver {
	return &Resolver{cfg: cfg, log: log}
}

func (r *Resolver) Resolve(bundle *models.ScoreBundle, snaps *models.FactorSnapshots) (models.Direction, float64) {
	eff := r.applyRSIOverride(bundle.TotalScore, snaps)

	// Dead zone, boundary inclusive: an exact hit stays sideways.
	deadZone := r.cfg.DeadZoneFor(bundle.Symbol)
	if math.Abs(eff) <= deadZone {
		return models.DirectionSideways, eff
	}

	// Mixed consensus widens the weighted-score threshold.
	if threshold, mixed := r.conflictThreshold(bundle); mixed {
		if math.Abs(bundle.WeightedScore) <= threshold {
			if r.log != nil {
				r.log.Debug("consensus conflict forced sideways",
					logger.String("symbol", bundle.Symbol),
					logger.Float64("weighted_score", bundle.WeightedScore),
					logger.Float64("threshold", threshold),
				)
			}
			return models.DirectionSideways, eff
		}
	}

	if eff > 0 {
		return models.DirectionLong, eff
	}
	return models.DirectionShort, eff
}

// applyRSIOverride pushes the effective score toward the extreme's
// direction without bypassing the dead zone: a deeply oversold RSI can
// only make the score less bearish, never instantly long.
func (r *Resolver) applyRSIOverride(total float64, snaps *models.FactorSnapshots) float64 {
	if snaps == nil || snaps.Technical == nil || snaps.Technical.RSI == nil {
		return total
	}
	rsi := *snaps.Technical.RSI
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return total
	}
	rsi = math.Max(0, math.Min(100, rsi))

	low := r.cfg.Engine.RSILowExtreme
	high := r.cfg.Engine.RSIHighExtreme
	switch {
	case rsi <= low:
		return math.Max(total, 0) + (low-rsi)*rsiOverrideGain
	case rsi >= high:
		return math.Min(total, 0) - (rsi-high)*rsiOverrideGain
	}
	return total
}

// conflictThreshold returns the widened weighted-score threshold when
// bullish/bearish counts are mixed, and false when consensus is clear.
func (r *Resolver) conflictThreshold(bundle *models.ScoreBundle) (float64, bool) {
	base := r.cfg.Engine.BaseThreshold
	b, s := bundle.BullishCount, bundle.BearishCount
	diff := b - s
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 1:
		return base + moderateConflictStep, true
	case b == s && b >= 2:
		return base + strongConflictStep, true
	}
	return 0, false
}

var _ domsvc.DirectionResolver = (*Resolver)(nil)
