package signal

import (
	"math"
	"testing"

	"SignalPulse/internal/domain/models"
	"SignalPulse/internal/services/scoring"
)

func consensusBundle(symbol string, total float64, bullish, bearish, scored int) *models.ScoreBundle {
	return &models.ScoreBundle{
		Symbol:           symbol,
		TotalScore:       total,
		BullishCount:     bullish,
		BearishCount:     bearish,
		DataSourcesCount: scored,
		TotalSources:     21,
	}
}

func TestCalibrateBounds(t *testing.T) {
	cfg := testConfig(t)
	c := NewCalibrator(cfg, nil)

	for _, score := range []float64{0, 5, 13, 40, 90, 130, 500} {
		b := consensusBundle("BTC", score, 10, 0, 21)
		p := c.Calibrate(models.DirectionLong, score, b)
		if p < 50 || p > cfg.Engine.MaxProbability {
			t.Fatalf("score %v: probability %v out of [50, %v]", score, p, cfg.Engine.MaxProbability)
		}
	}
}

func TestCalibrateBaseMonotonic(t *testing.T) {
	c := NewCalibrator(testConfig(t), nil)

	prev := -1.0
	for score := 11.0; score <= 130; score += 1 {
		b := consensusBundle("BTC", score, 6, 0, 21)
		p := c.Calibrate(models.DirectionLong, score, b)
		if p < prev {
			t.Fatalf("probability regressed at score %v: %v < %v", score, p, prev)
		}
		prev = p
	}
}

func TestCalibrateModerateScore(t *testing.T) {
	c := NewCalibrator(testConfig(t), nil)

	// Base at |13.05| is ~55.9; a slim consensus edge adds nothing and
	// partial coverage adds under two points, never a confident call.
	b := consensusBundle("BTC", 13.05, 2, 1, 10)
	p := c.Calibrate(models.DirectionLong, 13.05, b)
	if p < 51 || p > 61 {
		t.Fatalf("moderate score should land near 56, got %v", p)
	}
}

func TestCalibrateSidewaysCapped(t *testing.T) {
	cfg := testConfig(t)
	c := NewCalibrator(cfg, nil)

	b := consensusBundle("BTC", 120, 10, 0, 21)
	p := c.Calibrate(models.DirectionSideways, 120, b)
	if p > cfg.Engine.SidewaysMaxProbability {
		t.Fatalf("sideways probability %v exceeds cap %v", p, cfg.Engine.SidewaysMaxProbability)
	}
}

func TestCalibrateWeakSignalCapped(t *testing.T) {
	c := NewCalibrator(testConfig(t), nil)

	b := consensusBundle("BTC", 4, 10, 0, 21)
	p := c.Calibrate(models.DirectionSideways, 4, b)
	if p < 50 || p > 55 {
		t.Fatalf("dead-zone score should stay in [50, 55], got %v", p)
	}
}

func TestCalibrateConsensusBonusBounded(t *testing.T) {
	c := NewCalibrator(testConfig(t), nil)

	aligned := c.Calibrate(models.DirectionLong, 60, consensusBundle("BTC", 60, 12, 0, 21))
	split := c.Calibrate(models.DirectionLong, 60, consensusBundle("BTC", 60, 5, 4, 21))
	if aligned <= split {
		t.Fatalf("strong consensus should add confidence: %v vs %v", aligned, split)
	}
	if aligned-split > 6.5 {
		t.Fatalf("consensus bonus should be bounded, diff %v", aligned-split)
	}
}

func TestCalibrateOpposingConsensusDocked(t *testing.T) {
	c := NewCalibrator(testConfig(t), nil)

	with := c.Calibrate(models.DirectionLong, 60, consensusBundle("BTC", 60, 5, 5, 21))
	against := c.Calibrate(models.DirectionLong, 60, consensusBundle("BTC", 60, 2, 6, 21))
	if against >= with {
		t.Fatalf("opposing consensus should dock probability: %v vs %v", against, with)
	}
}

func TestCalibrateTrendMisalignmentCut(t *testing.T) {
	c := NewCalibrator(testConfig(t), nil)

	aligned := consensusBundle("BTC", 60, 6, 0, 21)
	aligned.Factors = []models.FactorScore{{Name: scoring.FactorTrend, Raw: 3}}

	fighting := consensusBundle("BTC", 60, 6, 0, 21)
	fighting.Factors = []models.FactorScore{{Name: scoring.FactorTrend, Raw: -4}}

	pa := c.Calibrate(models.DirectionLong, 60, aligned)
	pf := c.Calibrate(models.DirectionLong, 60, fighting)
	if math.Abs((pa-pf)-5) > 1e-9 {
		t.Fatalf("trend misalignment should cut 5 points, got %v", pa-pf)
	}
}

func TestCalibrateCoverageBonus(t *testing.T) {
	c := NewCalibrator(testConfig(t), nil)

	full := c.Calibrate(models.DirectionLong, 60, consensusBundle("BTC", 60, 4, 4, 21))
	thin := c.Calibrate(models.DirectionLong, 60, consensusBundle("BTC", 60, 4, 4, 7))
	if full <= thin {
		t.Fatalf("full coverage should score higher: %v vs %v", full, thin)
	}
}
