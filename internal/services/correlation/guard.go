package correlation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"SignalPulse/internal/domain/models"
	domsvc "SignalPulse/internal/domain/service"
	"SignalPulse/pkg/config"
	"SignalPulse/pkg/logger"
)

// Guard keeps a dependent asset from strongly contradicting the anchor
// asset's fresh strong signal. Absent, expired or weak anchors make the
// guard a no-op.
type Guard struct {
	cfg     *config.Config
	log     *logger.Logger
	anchors *AnchorStore
	now     func() time.Time
}

func NewGuard(cfg *config.Config, log *logger.Logger) *Guard {
	return &Guard{
		cfg:     cfg,
		log:     log,
		anchors: NewAnchorStore(),
		now:     time.Now,
	}
}

// Adjust returns the possibly corrected direction and score plus any
// warnings for downstream display.
func (g *Guard) Adjust(symbol string, direction models.Direction, score float64) (models.Direction, float64, []string) {
	anchorSym := g.cfg.Engine.Correlation.AnchorSymbol
	if strings.EqualFold(symbol, anchorSym) {
		return direction, score, nil
	}

	anchor, ok := g.anchors.Get(anchorSym, g.now())
	if !ok || math.Abs(anchor.TotalScore) < g.cfg.Engine.Correlation.StrongScore {
		return direction, score, nil
	}

	switch {
	case anchor.Direction.Opposite(direction):
		adjusted := score + anchor.TotalScore*g.cfg.Engine.Correlation.AdjustFactor
		warnings := []string{fmt.Sprintf("%s anchor is strongly %s, %s signal pulled toward neutral",
			anchorSym, anchor.Direction, direction)}

		// Still on the forbidden side after the pull: clamp to the sign
		// boundary so the outcome is at worst sideways.
		if sameSide(adjusted, direction) {
			g.logOverride(symbol, direction, score, 0)
			return models.DirectionSideways, 0, warnings
		}
		newDir := g.directionFor(symbol, adjusted)
		g.logOverride(symbol, direction, score, adjusted)
		return newDir, adjusted, warnings

	case direction == anchor.Direction && direction != models.DirectionSideways:
		reinforced := score + anchor.TotalScore*g.cfg.Engine.Correlation.ReinforceFactor
		maxTotal := g.cfg.Engine.MaxTotalScore
		reinforced = math.Max(-maxTotal, math.Min(maxTotal, reinforced))
		return direction, reinforced, nil
	}
	return direction, score, nil
}

// Record stores the symbol's fresh reading as a correlation anchor.
func (g *Guard) Record(symbol string, d *models.SignalDecision, trendScore float64) {
	now := g.now()
	g.anchors.Put(models.CorrelationAnchor{
		Symbol:      symbol,
		Direction:   d.Direction,
		Probability: d.Probability,
		TotalScore:  d.TotalScore,
		TrendScore:  trendScore,
		GeneratedAt: now,
		ExpiresAt:   now.Add(g.cfg.Engine.Correlation.TTL),
	})
}

// Anchor exposes the stored anchor for inspection endpoints.
func (g *Guard) Anchor(symbol string) (models.CorrelationAnchor, bool) {
	return g.anchors.Get(symbol, g.now())
}

func (g *Guard) directionFor(symbol string, score float64) models.Direction {
	if math.Abs(score) <= g.cfg.DeadZoneFor(symbol) {
		return models.DirectionSideways
	}
	if score > 0 {
		return models.DirectionLong
	}
	return models.DirectionShort
}

// sameSide reports whether the score still points where the original
// direction did.
func sameSide(score float64, direction models.Direction) bool {
	return (direction == models.DirectionLong && score > 0) ||
		(direction == models.DirectionShort && score < 0)
}

func (g *Guard) logOverride(symbol string, dir models.Direction, before, after float64) {
	if g.log == nil {
		return
	}
	g.log.Info("correlation guard adjusted signal",
		logger.String("symbol", symbol),
		logger.String("direction", string(dir)),
		logger.Float64("score_before", before),
		logger.Float64("score_after", after),
	)
}

var _ domsvc.CorrelationGuard = (*Guard)(nil)
