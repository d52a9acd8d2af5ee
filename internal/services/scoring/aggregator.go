package scoring

import (
	"SignalPulse/internal/domain/models"
	domsvc "SignalPulse/internal/domain/service"
	"SignalPulse/pkg/config"
	"SignalPulse/pkg/logger"
)

// Bullish/bearish tally bands on the raw score.
const (
	bullishBand = 1.0
	bearishBand = -1.0
)

// WeightedAggregator applies the configured weight table to every factor
// that produced a score and folds them into an immutable ScoreBundle.
type WeightedAggregator struct {
	cfg     *config.Config
	log     *logger.Logger
	factors []factorDef
}

func NewWeightedAggregator(cfg *config.Config, log *logger.Logger) *WeightedAggregator {
	return &WeightedAggregator{
		cfg:     cfg,
		log:     log,
		factors: factorTable(),
	}
}

func (a *WeightedAggregator) Aggregate(symbol string, snaps *models.FactorSnapshots) models.ScoreBundle {
	maxSingle := a.cfg.Engine.MaxSingleFactorScore
	maxTotal := a.cfg.Engine.MaxTotalScore
	// With Σweights = 1 and raw in ±10, the scale stretches the weighted
	// sum over the full ±MaxTotalScore range.
	totalScale := maxTotal / RawMax

	bundle := models.ScoreBundle{
		Symbol:       symbol,
		TotalSources: len(a.factors),
	}
	if snaps == nil {
		return bundle
	}

	var total, weighted float64
	for _, def := range a.factors {
		raw, ok := def.score(snaps)
		if !ok {
			continue
		}
		raw = clampRaw(sanitize(raw))
		w := a.cfg.Engine.Weights[def.name]
		contribution := clamp(raw*w, -maxSingle, maxSingle)

		weighted += contribution
		total += raw * w * totalScale

		switch {
		case raw > bullishBand:
			bundle.BullishCount++
		case raw < bearishBand:
			bundle.BearishCount++
		default:
			bundle.NeutralCount++
		}
		bundle.DataSourcesCount++

		bundle.Factors = append(bundle.Factors, models.FactorScore{
			Name:         def.name,
			Category:     def.category,
			Raw:          raw,
			Weight:       w,
			Contribution: contribution,
		})
	}

	bundle.TotalScore = clamp(total, -maxTotal, maxTotal)
	bundle.WeightedScore = weighted

	if a.log != nil {
		a.log.Debug("aggregated factors",
			logger.String("symbol", symbol),
			logger.Float64("total_score", bundle.TotalScore),
			logger.Float64("weighted_score", bundle.WeightedScore),
			logger.Int("scored", bundle.DataSourcesCount),
			logger.Int("bullish", bundle.BullishCount),
			logger.Int("bearish", bundle.BearishCount),
		)
	}
	return bundle
}

var _ domsvc.Aggregator = (*WeightedAggregator)(nil)
