package correlation

import (
	"testing"
	"time"

	"SignalPulse/internal/domain/models"
	"SignalPulse/pkg/config"
)

func testGuard(t *testing.T) (*Guard, *time.Time) {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	g := NewGuard(cfg, nil)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	return g, &now
}

func recordAnchor(g *Guard, direction models.Direction, score float64) {
	g.Record("BTC", &models.SignalDecision{
		Symbol:     "BTC",
		Direction:  direction,
		TotalScore: score,
	}, 0)
}

func TestAdjustNoAnchorIsNoop(t *testing.T) {
	g, _ := testGuard(t)

	dir, score, warnings := g.Adjust("ETH", models.DirectionLong, 50)
	if dir != models.DirectionLong || score != 50 || warnings != nil {
		t.Fatalf("missing anchor must not adjust: %s %v %v", dir, score, warnings)
	}
}

func TestAdjustWeakAnchorIsNoop(t *testing.T) {
	g, _ := testGuard(t)
	recordAnchor(g, models.DirectionShort, -20) // below the strong threshold

	dir, score, _ := g.Adjust("ETH", models.DirectionLong, 50)
	if dir != models.DirectionLong || score != 50 {
		t.Fatalf("weak anchor must not adjust: %s %v", dir, score)
	}
}

func TestAdjustExpiredAnchorIsNoop(t *testing.T) {
	g, now := testGuard(t)
	recordAnchor(g, models.DirectionShort, -50)
	*now = now.Add(11 * time.Minute) // past the 600s TTL

	dir, score, _ := g.Adjust("ETH", models.DirectionLong, 50)
	if dir != models.DirectionLong || score != 50 {
		t.Fatalf("expired anchor must not adjust: %s %v", dir, score)
	}
}

func TestAdjustOppositionForcesSideways(t *testing.T) {
	g, _ := testGuard(t)
	recordAnchor(g, models.DirectionShort, -50)

	// 50 + (-50 * 0.7) = 15, still long, so the guard clamps to sideways.
	dir, score, warnings := g.Adjust("ETH", models.DirectionLong, 50)
	if dir == models.DirectionLong {
		t.Fatalf("dependent must not stay long against a strong short anchor")
	}
	if dir != models.DirectionSideways || score != 0 {
		t.Fatalf("expected sideways at 0, got %s %v", dir, score)
	}
	if len(warnings) == 0 {
		t.Fatalf("an override must carry a warning")
	}
}

func TestAdjustOppositionCanFlip(t *testing.T) {
	g, _ := testGuard(t)
	recordAnchor(g, models.DirectionShort, -90)

	// 20 + (-90 * 0.7) = -43: the pull crosses the axis and clears the
	// dead zone, so the dependent follows the anchor short.
	dir, score, warnings := g.Adjust("ETH", models.DirectionLong, 20)
	if dir != models.DirectionShort {
		t.Fatalf("expected short after a strong pull, got %s (%v)", dir, score)
	}
	if len(warnings) == 0 {
		t.Fatalf("an override must carry a warning")
	}
}

func TestAdjustAgreementReinforces(t *testing.T) {
	g, _ := testGuard(t)
	recordAnchor(g, models.DirectionShort, -50)

	// -50 + (-50 * 0.3) = -65
	dir, score, warnings := g.Adjust("ETH", models.DirectionShort, -50)
	if dir != models.DirectionShort || score != -65 {
		t.Fatalf("agreement should reinforce: %s %v", dir, score)
	}
	if warnings != nil {
		t.Fatalf("reinforcement is not a warning condition")
	}
}

func TestAdjustReinforcementClamped(t *testing.T) {
	g, _ := testGuard(t)
	recordAnchor(g, models.DirectionLong, 120)

	dir, score, _ := g.Adjust("ETH", models.DirectionLong, 125)
	if dir != models.DirectionLong || score != 130 {
		t.Fatalf("reinforced score should clamp at the total cap: %s %v", dir, score)
	}
}

func TestAdjustAnchorSymbolNeverAdjusted(t *testing.T) {
	g, _ := testGuard(t)
	recordAnchor(g, models.DirectionShort, -90)

	dir, score, warnings := g.Adjust("BTC", models.DirectionLong, 50)
	if dir != models.DirectionLong || score != 50 || warnings != nil {
		t.Fatalf("anchor symbol must pass through untouched: %s %v %v", dir, score, warnings)
	}
}

func TestAdjustSidewaysDependentUntouched(t *testing.T) {
	g, _ := testGuard(t)
	recordAnchor(g, models.DirectionShort, -50)

	dir, score, _ := g.Adjust("ETH", models.DirectionSideways, 3)
	if dir != models.DirectionSideways || score != 3 {
		t.Fatalf("sideways neither opposes nor agrees: %s %v", dir, score)
	}
}

func TestAnchorLookupAndExpiry(t *testing.T) {
	g, now := testGuard(t)
	recordAnchor(g, models.DirectionLong, 60)

	a, ok := g.Anchor("BTC")
	if !ok || a.TotalScore != 60 {
		t.Fatalf("expected stored anchor, got %+v ok=%v", a, ok)
	}

	*now = now.Add(time.Hour)
	if _, ok := g.Anchor("BTC"); ok {
		t.Fatalf("expired anchor should be gone")
	}
}
