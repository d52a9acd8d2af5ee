package scoring

import (
	"math"
	"testing"

	"SignalPulse/internal/domain/models"
	"SignalPulse/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	return cfg
}

func fullSnapshots() *models.FactorSnapshots {
	return &models.FactorSnapshots{
		Technical: &models.TechnicalSnapshot{
			RSI: f(40), RSI4h: f(42), StochRSIK: f(30),
			MACDHistogram: f(0.4), MACDPrevHistogram: f(0.2),
			EMAFast: f(101), EMASlow: f(100), ADX: f(28),
			BBPosition: f(0.3), BBWidthPercent: f(4), ATRPercent: f(2),
			VolumeRatio: f(1.4), PriceChange1h: f(1.2), PriceChange4h: f(2.5),
		},
		Whale: &models.WhaleSnapshot{
			ExchangeNetflowUSD: f(-10e6), LargeTxNetUSD: f(6e6),
			AccumulationVolumeRatio: f(1.8), AccumulationPriceMove: f(0.5),
		},
		Derivatives: &models.DerivativesSnapshot{
			OIChangePercent: f(8), PriceChangePercent: f(3), FundingRate: f(0.0001),
			LongLiquidationsUSD: f(1e6), ShortLiquidationsUSD: f(4e6), LongShortRatio: f(0.9),
		},
		Sentiment: &models.SentimentSnapshot{FearGreedIndex: f(35), SocialScore: f(60)},
		Macro:     &models.MacroSnapshot{DXYChangePercent: f(-0.5), SP500ChangePercent: f(1.0)},
		Options:   &models.OptionsSnapshot{PutCallRatio: f(1.2), IVSkew: f(2)},
	}
}

func TestDefaultWeightsCoverEveryFactor(t *testing.T) {
	weights := config.DefaultWeights()
	var sum float64
	for _, def := range factorTable() {
		w, ok := weights[def.name]
		if !ok {
			t.Fatalf("factor %s has no weight", def.name)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights sum to %v, want 1.0", sum)
	}
	if len(weights) != len(factorTable()) {
		t.Fatalf("weight table has %d entries, factors %d", len(weights), len(factorTable()))
	}
}

func TestAggregateInvariants(t *testing.T) {
	cfg := testConfig(t)
	agg := NewWeightedAggregator(cfg, nil)

	bundle := agg.Aggregate("BTC", fullSnapshots())

	if bundle.TotalSources != len(factorTable()) {
		t.Fatalf("total sources %d", bundle.TotalSources)
	}
	if bundle.DataSourcesCount != len(bundle.Factors) {
		t.Fatalf("scored count %d vs %d factors", bundle.DataSourcesCount, len(bundle.Factors))
	}
	if got := bundle.BullishCount + bundle.BearishCount + bundle.NeutralCount; got != bundle.DataSourcesCount {
		t.Fatalf("tally %d does not cover scored %d", got, bundle.DataSourcesCount)
	}
	if math.Abs(bundle.TotalScore) > cfg.Engine.MaxTotalScore {
		t.Fatalf("total score %v exceeds cap", bundle.TotalScore)
	}
	for _, fs := range bundle.Factors {
		if math.Abs(fs.Contribution) > cfg.Engine.MaxSingleFactorScore {
			t.Fatalf("factor %s contribution %v exceeds cap", fs.Name, fs.Contribution)
		}
		if fs.Raw < RawMin || fs.Raw > RawMax {
			t.Fatalf("factor %s raw %v out of band", fs.Name, fs.Raw)
		}
	}
}

func TestAggregateFullCoverage(t *testing.T) {
	cfg := testConfig(t)
	agg := NewWeightedAggregator(cfg, nil)

	bundle := agg.Aggregate("BTC", fullSnapshots())
	if bundle.DataSourcesCount != bundle.TotalSources {
		t.Fatalf("expected all %d factors scored, got %d", bundle.TotalSources, bundle.DataSourcesCount)
	}
	if bundle.Coverage() != 1.0 {
		t.Fatalf("coverage %v", bundle.Coverage())
	}
}

func TestAggregateMissingCategories(t *testing.T) {
	cfg := testConfig(t)
	agg := NewWeightedAggregator(cfg, nil)

	snaps := &models.FactorSnapshots{
		Sentiment: &models.SentimentSnapshot{FearGreedIndex: f(20)},
	}
	bundle := agg.Aggregate("DOGE", snaps)
	if bundle.DataSourcesCount != 1 {
		t.Fatalf("expected one scored factor, got %d", bundle.DataSourcesCount)
	}
	if bundle.Coverage() >= 0.5 {
		t.Fatalf("coverage should be low: %v", bundle.Coverage())
	}
}

func TestAggregateNilSnapshots(t *testing.T) {
	cfg := testConfig(t)
	agg := NewWeightedAggregator(cfg, nil)

	bundle := agg.Aggregate("BTC", nil)
	if bundle.DataSourcesCount != 0 || bundle.TotalScore != 0 {
		t.Fatalf("nil snapshots should score nothing: %+v", bundle)
	}
}

func TestAggregateTotalScaleStretchesRange(t *testing.T) {
	cfg := testConfig(t)
	agg := NewWeightedAggregator(cfg, nil)

	// Every factor pinned maximally bullish drives the total near the cap.
	s := &models.FactorSnapshots{
		Technical: &models.TechnicalSnapshot{
			RSI: f(1), RSI4h: f(1), StochRSIK: f(0),
			MACDHistogram: f(5), MACDPrevHistogram: f(1),
			EMAFast: f(200), EMASlow: f(100), ADX: f(60),
			BBPosition: f(0), BBWidthPercent: f(0), ATRPercent: f(0),
			VolumeRatio: f(50), PriceChange1h: f(50), PriceChange4h: f(50),
		},
		Whale: &models.WhaleSnapshot{
			ExchangeNetflowUSD: f(-1e9), LargeTxNetUSD: f(1e9),
			AccumulationVolumeRatio: f(10), AccumulationPriceMove: f(0),
		},
		Derivatives: &models.DerivativesSnapshot{
			OIChangePercent: f(50), PriceChangePercent: f(50), FundingRate: f(-1),
			LongLiquidationsUSD: f(1e9), ShortLiquidationsUSD: f(0), LongShortRatio: f(0.01),
		},
		Sentiment: &models.SentimentSnapshot{FearGreedIndex: f(0), SocialScore: f(100)},
		Macro:     &models.MacroSnapshot{DXYChangePercent: f(-5), SP500ChangePercent: f(5)},
		Options:   &models.OptionsSnapshot{PutCallRatio: f(3), IVSkew: f(20)},
	}
	bundle := agg.Aggregate("BTC", s)
	if bundle.TotalScore < cfg.Engine.MaxTotalScore*0.9 {
		t.Fatalf("all-bullish snapshot should approach the cap, got %v", bundle.TotalScore)
	}
}
