package stability

import (
	"fmt"
	"math"
	"time"

	"SignalPulse/internal/domain/models"
	"SignalPulse/internal/domain/repository"
	domsvc "SignalPulse/internal/domain/service"
	"SignalPulse/pkg/config"
	"SignalPulse/pkg/logger"
)

// Service gates direction changes with smoothing, cooldown, confirmation
// counting and hysteresis. State lives in the injected StateStore; the
// service itself is stateless and safe for concurrent use.
type Service struct {
	cfg   *config.Config
	log   *logger.Logger
	store repository.StateStore
	now   func() time.Time
}

func NewService(cfg *config.Config, log *logger.Logger, store repository.StateStore) *Service {
	return &Service{cfg: cfg, log: log, store: store, now: time.Now}
}

// Apply runs one evaluation's direction/score through the gate and
// returns what the caller must emit. State mutation is all-or-nothing
// under the symbol's lock.
func (s *Service) Apply(symbol string, direction models.Direction, score float64) domsvc.StabilityResult {
	var res domsvc.StabilityResult
	s.store.WithLock(symbol, func() {
		res = s.apply(symbol, direction, score)
	})
	return res
}

func (s *Service) apply(symbol string, direction models.Direction, score float64) domsvc.StabilityResult {
	now := s.now()
	st, ok := s.store.Get(symbol)
	if !ok {
		// First evaluation for this symbol: accept as-is, no smoothing.
		s.store.Put(symbol, models.StabilityState{
			Direction:      direction,
			Score:          score,
			SmoothedScore:  score,
			LastChangeTime: now,
		})
		return domsvc.StabilityResult{
			Direction:     direction,
			Score:         score,
			SmoothedScore: score,
			Changed:       true,
			Reason:        "first signal",
		}
	}

	alpha := s.cfg.Engine.Stability.SmoothingAlpha
	smoothed := alpha*score + (1-alpha)*st.SmoothedScore

	// Hysteresis: a weak long/short reversal is downgraded to sideways
	// before any gating, so noise can never swing pole to pole.
	candidate := direction
	if candidate.Opposite(st.Direction) && math.Abs(score) < s.cfg.Engine.Stability.ReversalThreshold {
		candidate = models.DirectionSideways
		if s.log != nil {
			s.log.Debug("weak reversal downgraded to sideways",
				logger.String("symbol", symbol),
				logger.Float64("score", score),
			)
		}
	}

	if candidate == st.Direction {
		// Same direction always refreshes, no gating.
		st.Score = score
		st.SmoothedScore = smoothed
		st.PendingDirection = ""
		st.Confirmations = 0
		s.store.Put(symbol, st)
		return domsvc.StabilityResult{
			Direction:     candidate,
			Score:         score,
			SmoothedScore: smoothed,
			Changed:       false,
			Reason:        "direction unchanged",
		}
	}

	cooldownPassed := now.Sub(st.LastChangeTime) >= s.cfg.Engine.Stability.Cooldown

	scoreJump := true
	if st.Score != 0 {
		change := math.Abs(score-st.Score) / math.Abs(st.Score)
		scoreJump = change >= s.cfg.Engine.Stability.ScoreChangeThreshold
	}

	if st.PendingDirection == candidate {
		st.Confirmations++
	} else {
		st.PendingDirection = candidate
		st.Confirmations = 1
	}
	confirmed := st.Confirmations >= s.cfg.Engine.Stability.ConfirmationsRequired

	if cooldownPassed || scoreJump || confirmed {
		prev := st.Direction
		st.Direction = candidate
		st.Score = score
		st.SmoothedScore = smoothed
		st.LastChangeTime = now
		st.PendingDirection = ""
		st.Confirmations = 0
		s.store.Put(symbol, st)

		reason := changeReason(cooldownPassed, scoreJump, confirmed)
		if s.log != nil {
			s.log.Info("signal direction changed",
				logger.String("symbol", symbol),
				logger.String("from", string(prev)),
				logger.String("to", string(candidate)),
				logger.String("reason", reason),
			)
		}
		return domsvc.StabilityResult{
			Direction:     candidate,
			Score:         score,
			SmoothedScore: smoothed,
			Changed:       true,
			Reason:        reason,
		}
	}

	// Rejected: keep the previous direction and score, but persist the
	// smoothing and the pending confirmation counters.
	st.SmoothedScore = smoothed
	s.store.Put(symbol, st)
	return domsvc.StabilityResult{
		Direction:     st.Direction,
		Score:         st.Score,
		SmoothedScore: smoothed,
		Changed:       false,
		Reason: fmt.Sprintf("change to %s blocked: cooldown active, score change below threshold, confirmations %d/%d",
			candidate, st.Confirmations, s.cfg.Engine.Stability.ConfirmationsRequired),
	}
}

func changeReason(cooldown, jump, confirmed bool) string {
	switch {
	case confirmed:
		return "confirmations reached"
	case jump:
		return "significant score change"
	case cooldown:
		return "cooldown elapsed"
	}
	return "conditions met"
}

// Reset clears all per-symbol state.
func (s *Service) Reset() {
	s.store.Reset()
}

// Last returns the stored state for a symbol without evaluating.
func (s *Service) Last(symbol string) (models.StabilityState, bool) {
	return s.store.Get(symbol)
}

var _ domsvc.StabilityGate = (*Service)(nil)
