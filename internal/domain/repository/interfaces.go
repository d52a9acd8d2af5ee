package repository

import (
	"context"
	"time"

	"SignalPulse/internal/domain/models"
)

// Publisher emits accepted decisions to downstream consumers
// (notification/formatting layers live outside this service).
type Publisher interface {
	Publish(ctx context.Context, d *models.SignalDecision) error
	Close() error
}

// DecisionJournal is the append-only audit log of emitted decisions.
// Outcome (win/loss) scoring is a separate system reading this log.
type DecisionJournal interface {
	Init(ctx context.Context) error // ensure tables
	Append(ctx context.Context, d *models.SignalDecision) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.SignalDecision, error)
	Health(ctx context.Context) error
	Close() error
}

// StateStore owns per-symbol stability state. One instance per service,
// passed by injection; there are no package-level state maps.
type StateStore interface {
	Get(symbol string) (models.StabilityState, bool)
	Put(symbol string, st models.StabilityState)
	Reset()
	// WithLock runs fn while holding the symbol's lock, so concurrent
	// evaluations of the same symbol are mutually exclusive.
	WithLock(symbol string, fn func())
}

// Metrics records engine observability signals.
type Metrics interface {
	RecordEvaluation(symbol string, direction string)
	RecordBlockedFlip(symbol string, reason string)
	RecordAnchorOverride(symbol string)
	RecordProbability(symbol string, probability float64)
	RecordError(kind string)
}
