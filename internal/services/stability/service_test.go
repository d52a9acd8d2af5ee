package stability

import (
	"testing"
	"time"

	"SignalPulse/internal/domain/models"
	"SignalPulse/pkg/config"
)

func testService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	svc := NewService(cfg, nil, NewMemoryStore())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, &now
}

// disableScoreJump widens the relative-change threshold so only cooldown
// and confirmations can admit a flip. A pole-to-pole flip always looks
// like a huge relative change, so the default threshold would mask them.
func disableScoreJump(svc *Service) {
	svc.cfg.Engine.Stability.ScoreChangeThreshold = 100
}

func TestApplyFirstSignalAccepted(t *testing.T) {
	svc, _ := testService(t)

	res := svc.Apply("BTC", models.DirectionLong, 40)
	if !res.Changed || res.Direction != models.DirectionLong {
		t.Fatalf("first signal must be accepted: %+v", res)
	}
	if res.Reason != "first signal" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
	if res.SmoothedScore != 40 {
		t.Fatalf("first signal takes the raw score unsmoothed, got %v", res.SmoothedScore)
	}
}

func TestApplySameDirectionRefreshes(t *testing.T) {
	svc, _ := testService(t)

	svc.Apply("BTC", models.DirectionLong, 40)
	res := svc.Apply("BTC", models.DirectionLong, 50)
	if res.Changed {
		t.Fatalf("same direction must not report a change")
	}
	if res.Reason != "direction unchanged" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
	if res.Score != 50 {
		t.Fatalf("score should refresh, got %v", res.Score)
	}
	// smoothed = 0.4*50 + 0.6*40
	if res.SmoothedScore != 44 {
		t.Fatalf("smoothed score %v, want 44", res.SmoothedScore)
	}
}

func TestApplyFlipBlockedInsideCooldown(t *testing.T) {
	svc, now := testService(t)
	disableScoreJump(svc)

	svc.Apply("BTC", models.DirectionLong, 40)
	*now = now.Add(10 * time.Minute)

	res := svc.Apply("BTC", models.DirectionShort, -41)
	if res.Changed {
		t.Fatalf("flip inside cooldown must be blocked")
	}
	if res.Direction != models.DirectionLong {
		t.Fatalf("blocked flip keeps the old direction, got %s", res.Direction)
	}
	if res.Score != 40 {
		t.Fatalf("blocked flip keeps the old score, got %v", res.Score)
	}
}

func TestApplyFlipAcceptedAfterCooldown(t *testing.T) {
	svc, now := testService(t)
	disableScoreJump(svc)

	svc.Apply("BTC", models.DirectionLong, 40)
	*now = now.Add(61 * time.Minute)

	res := svc.Apply("BTC", models.DirectionShort, -42)
	if !res.Changed || res.Direction != models.DirectionShort {
		t.Fatalf("flip after cooldown should pass: %+v", res)
	}
	if res.Reason != "cooldown elapsed" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
}

func TestApplyConfirmationsFlip(t *testing.T) {
	svc, now := testService(t)
	disableScoreJump(svc)

	svc.Apply("BTC", models.DirectionLong, 40)

	for i := 0; i < 2; i++ {
		*now = now.Add(time.Minute)
		res := svc.Apply("BTC", models.DirectionShort, -41)
		if res.Changed {
			t.Fatalf("confirmation %d should still be blocked", i+1)
		}
	}
	*now = now.Add(time.Minute)
	res := svc.Apply("BTC", models.DirectionShort, -41)
	if !res.Changed || res.Direction != models.DirectionShort {
		t.Fatalf("third confirmation should flip: %+v", res)
	}
	if res.Reason != "confirmations reached" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
}

func TestApplyDifferingCandidateResetsConfirmations(t *testing.T) {
	svc, now := testService(t)
	disableScoreJump(svc)

	svc.Apply("BTC", models.DirectionLong, 40)
	*now = now.Add(time.Minute)

	svc.Apply("BTC", models.DirectionShort, -41) // pending short, 1
	svc.Apply("BTC", models.DirectionSideways, 5)

	st, ok := svc.Last("BTC")
	if !ok {
		t.Fatalf("state missing")
	}
	if st.PendingDirection != models.DirectionSideways || st.Confirmations != 1 {
		t.Fatalf("pending should reset on a different candidate: %+v", st)
	}
}

func TestApplyScoreJumpBypassesGate(t *testing.T) {
	svc, now := testService(t)

	svc.Apply("BTC", models.DirectionLong, 40)
	*now = now.Add(time.Minute)

	// |-60 - 40| / 40 is far past the 0.30 threshold.
	res := svc.Apply("BTC", models.DirectionShort, -60)
	if !res.Changed || res.Direction != models.DirectionShort {
		t.Fatalf("significant score change should flip immediately: %+v", res)
	}
	if res.Reason != "significant score change" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
}

func TestApplySmallDriftBlocked(t *testing.T) {
	svc, now := testService(t)

	svc.Apply("BTC", models.DirectionLong, 40)
	*now = now.Add(time.Minute)

	// Drift to sideways with the score barely moving: every gate holds.
	res := svc.Apply("BTC", models.DirectionSideways, 35)
	if res.Changed {
		t.Fatalf("small drift must be blocked: %+v", res)
	}
	if res.Direction != models.DirectionLong || res.Score != 40 {
		t.Fatalf("blocked drift keeps prior state: %+v", res)
	}
}

func TestApplyWeakReversalDowngradedToSideways(t *testing.T) {
	svc, now := testService(t)

	svc.Apply("BTC", models.DirectionLong, 80)
	*now = now.Add(2 * time.Hour) // cooldown long past

	// |score| below the reversal threshold: the flip becomes sideways
	// even though gating alone would have allowed it.
	res := svc.Apply("BTC", models.DirectionShort, -20)
	if res.Direction == models.DirectionShort {
		t.Fatalf("weak reversal must not swing pole to pole")
	}
	if res.Direction != models.DirectionSideways {
		t.Fatalf("expected sideways downgrade, got %s", res.Direction)
	}
}

func TestApplyStrongReversalSurvivesHysteresis(t *testing.T) {
	svc, now := testService(t)

	svc.Apply("BTC", models.DirectionLong, 80)
	*now = now.Add(2 * time.Hour)

	res := svc.Apply("BTC", models.DirectionShort, -50)
	if !res.Changed || res.Direction != models.DirectionShort {
		t.Fatalf("strong reversal past cooldown should flip: %+v", res)
	}
}

func TestApplyZeroOldScoreAlwaysSignificant(t *testing.T) {
	svc, now := testService(t)

	svc.Apply("BTC", models.DirectionSideways, 0)
	*now = now.Add(time.Minute)

	res := svc.Apply("BTC", models.DirectionLong, 15)
	if !res.Changed || res.Direction != models.DirectionLong {
		t.Fatalf("change from zero score is always significant: %+v", res)
	}
}

func TestResetClearsState(t *testing.T) {
	svc, _ := testService(t)

	svc.Apply("BTC", models.DirectionLong, 40)
	svc.Reset()
	if _, ok := svc.Last("BTC"); ok {
		t.Fatalf("reset should clear state")
	}

	res := svc.Apply("BTC", models.DirectionShort, -40)
	if !res.Changed || res.Reason != "first signal" {
		t.Fatalf("post-reset evaluation is a first signal again: %+v", res)
	}
}

func TestApplyIndependentSymbols(t *testing.T) {
	svc, now := testService(t)

	svc.Apply("BTC", models.DirectionLong, 40)
	*now = now.Add(time.Minute)

	res := svc.Apply("ETH", models.DirectionShort, -40)
	if !res.Changed || res.Reason != "first signal" {
		t.Fatalf("symbols must not share state: %+v", res)
	}
}
