package scoring

import (
	"math"
	"testing"

	"SignalPulse/internal/domain/models"
)

func f(v float64) *float64 { return &v }

func TestMomentumScoreBlendsTimeframes(t *testing.T) {
	s := &models.TechnicalSnapshot{PriceChange1h: f(2), PriceChange4h: f(4)}
	got, ok := MomentumScore(s)
	if !ok {
		t.Fatalf("expected scored")
	}
	want := 0.6*4 + 0.4*2
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMomentumScoreSingleTimeframe(t *testing.T) {
	s := &models.TechnicalSnapshot{PriceChange1h: f(3)}
	got, ok := MomentumScore(s)
	if !ok || got != 3 {
		t.Fatalf("got %v ok=%v", got, ok)
	}
}

func TestMomentumScoreAbsent(t *testing.T) {
	if _, ok := MomentumScore(nil); ok {
		t.Fatalf("nil snapshot should be absent")
	}
	if _, ok := MomentumScore(&models.TechnicalSnapshot{}); ok {
		t.Fatalf("empty snapshot should be absent")
	}
}

func TestMomentumScoreClamped(t *testing.T) {
	s := &models.TechnicalSnapshot{PriceChange4h: f(80)}
	got, _ := MomentumScore(s)
	if got != RawMax {
		t.Fatalf("got %v want %v", got, RawMax)
	}
}

func TestMomentumScoreNaNIsNeutral(t *testing.T) {
	s := &models.TechnicalSnapshot{PriceChange1h: f(math.NaN())}
	got, ok := MomentumScore(s)
	if !ok || got != 0 {
		t.Fatalf("NaN input should score neutral, got %v ok=%v", got, ok)
	}
}

func TestTrendScoreADXScaling(t *testing.T) {
	base := &models.TechnicalSnapshot{EMAFast: f(102), EMASlow: f(100)}
	weak, _ := TrendScore(base)

	strong := &models.TechnicalSnapshot{EMAFast: f(102), EMASlow: f(100), ADX: f(50)}
	got, _ := TrendScore(strong)
	if got <= weak {
		t.Fatalf("strong ADX should amplify the trend: %v vs %v", got, weak)
	}
	if math.Abs(got-6) > 1e-9 {
		t.Fatalf("got %v want 6", got)
	}
}

func TestTrendScoreMissingEMA(t *testing.T) {
	s := &models.TechnicalSnapshot{EMAFast: f(102)}
	if _, ok := TrendScore(s); ok {
		t.Fatalf("expected absent without slow EMA")
	}
}

func TestMACDScoreCrossover(t *testing.T) {
	s := &models.TechnicalSnapshot{MACDHistogram: f(0.5), MACDPrevHistogram: f(-0.2)}
	got, ok := MACDScore(s)
	if !ok || got != 7 {
		t.Fatalf("got %v ok=%v want 7", got, ok)
	}
}

func TestBollingerScoreContrarian(t *testing.T) {
	lower, _ := BollingerScore(&models.TechnicalSnapshot{BBPosition: f(0)})
	upper, _ := BollingerScore(&models.TechnicalSnapshot{BBPosition: f(1)})
	if lower <= 0 || upper >= 0 {
		t.Fatalf("lower band should lean bullish, upper bearish: %v %v", lower, upper)
	}
}

func TestVolumeScoreThinVolumeNeutral(t *testing.T) {
	s := &models.TechnicalSnapshot{VolumeRatio: f(0.8), PriceChange1h: f(5)}
	got, ok := VolumeScore(s)
	if !ok || got != 0 {
		t.Fatalf("thin volume should be neutral, got %v", got)
	}
}

func TestVolumeScoreAmplifiesDirection(t *testing.T) {
	up, _ := VolumeScore(&models.TechnicalSnapshot{VolumeRatio: f(2), PriceChange1h: f(1)})
	down, _ := VolumeScore(&models.TechnicalSnapshot{VolumeRatio: f(2), PriceChange1h: f(-1)})
	if up <= 0 || down >= 0 {
		t.Fatalf("volume should follow the 1h move: %v %v", up, down)
	}
}

func TestMultiTimeframeAgreementAmplifies(t *testing.T) {
	agree, _ := MultiTimeframeScore(&models.TechnicalSnapshot{RSI: f(30), RSI4h: f(35)})
	solo, _ := MultiTimeframeScore(&models.TechnicalSnapshot{RSI4h: f(35)})
	if agree <= solo {
		t.Fatalf("agreement should amplify: %v vs %v", agree, solo)
	}
}

func TestAllScorersStayInRawBand(t *testing.T) {
	s := &models.FactorSnapshots{
		Technical: &models.TechnicalSnapshot{
			RSI: f(1), RSI4h: f(99), StochRSIK: f(0),
			MACDHistogram: f(100), MACDPrevHistogram: f(1),
			EMAFast: f(500), EMASlow: f(100), ADX: f(90),
			BBPosition: f(0), BBWidthPercent: f(50), ATRPercent: f(30),
			VolumeRatio: f(50), PriceChange1h: f(90), PriceChange4h: f(-90),
		},
		Whale: &models.WhaleSnapshot{
			ExchangeNetflowUSD: f(-9e9), LargeTxNetUSD: f(9e9),
			AccumulationVolumeRatio: f(50), AccumulationPriceMove: f(0),
		},
		Derivatives: &models.DerivativesSnapshot{
			OIChangePercent: f(90), PriceChangePercent: f(90), FundingRate: f(-1),
			LongLiquidationsUSD: f(9e9), ShortLiquidationsUSD: f(0), LongShortRatio: f(0.01),
		},
		Sentiment: &models.SentimentSnapshot{FearGreedIndex: f(0), SocialScore: f(100)},
		Macro:     &models.MacroSnapshot{DXYChangePercent: f(-10), SP500ChangePercent: f(10)},
		Options:   &models.OptionsSnapshot{PutCallRatio: f(5), IVSkew: f(50)},
	}
	for _, def := range factorTable() {
		raw, ok := def.score(s)
		if !ok {
			t.Fatalf("factor %s should have scored", def.name)
		}
		if raw < RawMin || raw > RawMax {
			t.Fatalf("factor %s out of band: %v", def.name, raw)
		}
	}
}
