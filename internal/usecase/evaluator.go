package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"SignalPulse/internal/domain/models"
	domrepo "SignalPulse/internal/domain/repository"
	domsvc "SignalPulse/internal/domain/service"
	svccache "SignalPulse/internal/service/cache"
	"SignalPulse/internal/services/scoring"
	"SignalPulse/pkg/config"
	"SignalPulse/pkg/logger"
)

// Coverage below this ratio earns a staleness warning on the decision.
const lowCoverageRatio = 0.5

// SignalEvaluator runs the full pipeline for one symbol:
// score, aggregate, resolve, stabilize, guard, calibrate, emit.
type SignalEvaluator struct {
	cfg        *config.Config
	log        *logger.Logger
	aggregator domsvc.Aggregator
	resolver   domsvc.DirectionResolver
	calibrator domsvc.ProbabilityCalibrator
	gate       domsvc.StabilityGate
	guard      domsvc.CorrelationGuard
	publishers []domrepo.Publisher
	journal    domrepo.DecisionJournal
	decisions  *svccache.DecisionCache
	metrics    domrepo.Metrics
	egressWait time.Duration
}

func NewSignalEvaluator(
	cfg *config.Config,
	log *logger.Logger,
	aggregator domsvc.Aggregator,
	resolver domsvc.DirectionResolver,
	calibrator domsvc.ProbabilityCalibrator,
	gate domsvc.StabilityGate,
	guard domsvc.CorrelationGuard,
	publishers []domrepo.Publisher,
	journal domrepo.DecisionJournal,
	decisions *svccache.DecisionCache,
	metrics domrepo.Metrics,
) *SignalEvaluator {
	return &SignalEvaluator{
		cfg:        cfg,
		log:        log,
		aggregator: aggregator,
		resolver:   resolver,
		calibrator: calibrator,
		gate:       gate,
		guard:      guard,
		publishers: publishers,
		journal:    journal,
		decisions:  decisions,
		metrics:    metrics,
		egressWait: 5 * time.Second,
	}
}

// Evaluate turns one symbol's snapshots into a stable SignalDecision.
// The computation itself is pure CPU; all egress (publish, journal,
// cache) is best-effort and never fails the evaluation.
func (e *SignalEvaluator) Evaluate(ctx context.Context, symbol string, snaps *models.FactorSnapshots) (*models.SignalDecision, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}

	bundle := e.aggregator.Aggregate(symbol, snaps)
	direction, effective := e.resolver.Resolve(&bundle, snaps)

	stab := e.gate.Apply(symbol, direction, effective)
	if !stab.Changed && stab.Direction != direction && e.metrics != nil {
		e.metrics.RecordBlockedFlip(symbol, "gated")
	}

	finalDir, finalScore, warnings := e.guard.Adjust(symbol, stab.Direction, stab.Score)
	if len(warnings) > 0 && e.metrics != nil {
		e.metrics.RecordAnchorOverride(symbol)
	}

	probability := e.calibrator.Calibrate(finalDir, finalScore, &bundle)
	warnings = append(warnings, e.consistencyWarnings(finalDir, &bundle)...)

	decision := &models.SignalDecision{
		Symbol:          symbol,
		Direction:       finalDir,
		Probability:     probability,
		TotalScore:      finalScore,
		StrengthPercent: e.strengthPercent(finalScore),
		ConfidenceLabel: confidenceLabel(probability),
		FactorBreakdown: breakdown(&bundle),
		Warnings:        warnings,
		Changed:         stab.Changed,
		Reason:          stab.Reason,
		GeneratedAt:     time.Now(),
	}

	trend := 0.0
	if f, ok := bundle.Factor(scoring.FactorTrend); ok {
		trend = f.Raw
	}
	e.guard.Record(symbol, decision, trend)

	if e.metrics != nil {
		e.metrics.RecordEvaluation(symbol, string(finalDir))
		e.metrics.RecordProbability(symbol, probability)
	}
	e.emit(ctx, decision)

	return decision, nil
}

// Last returns the cached decision for a symbol without recomputation.
func (e *SignalEvaluator) Last(ctx context.Context, symbol string) (*models.SignalDecision, bool, error) {
	return e.decisions.Last(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}

// Reset clears all per-symbol stability state.
func (e *SignalEvaluator) Reset() {
	e.gate.Reset()
	if e.log != nil {
		e.log.Info("stability state cleared")
	}
}

// Anchor exposes the correlation anchor recorded for a symbol.
func (e *SignalEvaluator) Anchor(symbol string) (models.CorrelationAnchor, bool) {
	return e.guard.Anchor(strings.ToUpper(strings.TrimSpace(symbol)))
}

// History reads journaled decisions for a symbol.
func (e *SignalEvaluator) History(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.SignalDecision, error) {
	if e.journal == nil {
		return nil, fmt.Errorf("decision journal not configured")
	}
	return e.journal.Query(ctx, strings.ToUpper(strings.TrimSpace(symbol)), from, to, limit)
}

// emit fans the decision out to cache, publishers and the journal.
// Failures are logged and counted, never surfaced to the caller.
func (e *SignalEvaluator) emit(ctx context.Context, d *models.SignalDecision) {
	ectx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.egressWait)
	defer cancel()

	if e.decisions != nil {
		if err := e.decisions.Store(ectx, d); err != nil {
			e.recordEgressError("cache", d.Symbol, err)
		}
	}
	for _, p := range e.publishers {
		if err := p.Publish(ectx, d); err != nil {
			e.recordEgressError("publish", d.Symbol, err)
		}
	}
	if e.journal != nil {
		if err := e.journal.Append(ectx, d); err != nil {
			e.recordEgressError("journal", d.Symbol, err)
		}
	}
}

func (e *SignalEvaluator) recordEgressError(kind, symbol string, err error) {
	if e.metrics != nil {
		e.metrics.RecordError(kind)
	}
	if e.log != nil {
		e.log.Error("decision egress failed",
			logger.String("kind", kind),
			logger.String("symbol", symbol),
			logger.Error(err),
		)
	}
}

// consistencyWarnings surfaces internally inconsistent outcomes instead
// of failing: a direction fighting the dominant consensus, or a cycle
// with most factor categories missing.
func (e *SignalEvaluator) consistencyWarnings(direction models.Direction, bundle *models.ScoreBundle) []string {
	var w []string
	diff := bundle.BullishCount - bundle.BearishCount
	if (direction == models.DirectionLong && diff < -1) ||
		(direction == models.DirectionShort && diff > 1) {
		w = append(w, fmt.Sprintf("direction %s disagrees with factor consensus (%d bullish / %d bearish)",
			direction, bundle.BullishCount, bundle.BearishCount))
	}
	if bundle.Coverage() < lowCoverageRatio {
		w = append(w, fmt.Sprintf("low factor coverage: %d of %d sources reported",
			bundle.DataSourcesCount, bundle.TotalSources))
	}
	return w
}

func (e *SignalEvaluator) strengthPercent(score float64) float64 {
	maxTotal := e.cfg.Engine.MaxTotalScore
	if maxTotal <= 0 {
		return 0
	}
	return math.Min(math.Abs(score)/maxTotal*100, 100)
}

func confidenceLabel(probability float64) string {
	switch {
	case probability >= 75:
		return "high"
	case probability >= 65:
		return "medium"
	default:
		return "low"
	}
}

// breakdown folds the per-factor contributions into per-category lines
// for downstream display. Formatting stays plain; message rendering is
// not this service's job.
func breakdown(bundle *models.ScoreBundle) []string {
	type agg struct {
		contribution float64
		count        int
	}
	byCat := make(map[string]*agg)
	for _, f := range bundle.Factors {
		a, ok := byCat[f.Category]
		if !ok {
			a = &agg{}
			byCat[f.Category] = a
		}
		a.contribution += f.Contribution
		a.count++
	}

	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	lines := make([]string, 0, len(cats))
	for _, c := range cats {
		a := byCat[c]
		lines = append(lines, fmt.Sprintf("%s: %+.2f (%d factors)", c, a.contribution, a.count))
	}
	return lines
}
