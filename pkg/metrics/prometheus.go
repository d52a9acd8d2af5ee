package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations     *prometheus.CounterVec
	blockedFlips    *prometheus.CounterVec
	anchorOverrides *prometheus.CounterVec
	probability     *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalpulse_evaluations_total",
				Help: "Total signal evaluations by emitted direction",
			},
			[]string{"symbol", "direction"},
		),
		blockedFlips: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalpulse_blocked_flips_total",
				Help: "Direction changes rejected by the stability gate",
			},
			[]string{"symbol", "reason"},
		),
		anchorOverrides: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalpulse_anchor_overrides_total",
				Help: "Signals adjusted by the correlation guard",
			},
			[]string{"symbol"},
		),
		probability: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalpulse_decision_probability",
				Help:    "Calibrated probability of emitted decisions",
				Buckets: prometheus.LinearBuckets(50, 5, 8),
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordEvaluation records one completed evaluation.
func (r *Recorder) RecordEvaluation(symbol string, direction string) {
	r.evaluations.WithLabelValues(symbol, direction).Inc()
}

// RecordBlockedFlip records a direction change the stability gate rejected.
func (r *Recorder) RecordBlockedFlip(symbol string, reason string) {
	r.blockedFlips.WithLabelValues(symbol, reason).Inc()
}

// RecordAnchorOverride records a correlation-guard adjustment.
func (r *Recorder) RecordAnchorOverride(symbol string) {
	r.anchorOverrides.WithLabelValues(symbol).Inc()
}

// RecordProbability records the calibrated probability of a decision.
func (r *Recorder) RecordProbability(symbol string, probability float64) {
	r.probability.WithLabelValues(symbol).Observe(probability)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
