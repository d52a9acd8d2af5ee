package scoring

import (
	"math"

	"SignalPulse/internal/domain/models"
)

// Technical factor scorers. Each maps a TechnicalSnapshot to a raw score
// in [-10, 10] or reports absent when the inputs it needs are missing.

// MomentumScore weighs 4h price change over 1h, treating +-10% as the
// saturation band.
func MomentumScore(s *models.TechnicalSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	c1h, ok1 := val(s.PriceChange1h)
	c4h, ok4 := val(s.PriceChange4h)
	if !ok1 && !ok4 {
		return 0, false
	}
	switch {
	case !ok4:
		return clampRaw(c1h), true
	case !ok1:
		return clampRaw(c4h), true
	}
	return clampRaw(0.6*c4h + 0.4*c1h), true
}

// TrendScore compares fast vs slow EMA, scaled by ADX trend strength
// when available.
func TrendScore(s *models.TechnicalSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	fast, okF := val(s.EMAFast)
	slow, okS := val(s.EMASlow)
	if !okF || !okS || slow == 0 {
		return 0, false
	}
	diffPct := (fast - slow) / math.Abs(slow) * 100
	raw := diffPct * 2

	if adx, ok := val(s.ADX); ok {
		// ADX below 20 means no trend to speak of, above 40 a strong one.
		strength := clamp(adx/25, 0.5, 1.5)
		raw *= strength
	}
	return clampRaw(raw), true
}

// MACDScore reads the histogram sign and whether momentum is building.
func MACDScore(s *models.TechnicalSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	h, ok := val(s.MACDHistogram)
	if !ok {
		return 0, false
	}
	sign := 0.0
	if h > 0 {
		sign = 1
	} else if h < 0 {
		sign = -1
	}
	raw := sign * 4

	if prev, okPrev := val(s.MACDPrevHistogram); okPrev {
		if math.Abs(h) > math.Abs(prev) && h*prev >= 0 {
			raw += sign * 3 // histogram expanding in its own direction
		}
		if h*prev < 0 {
			raw += sign * 3 // fresh crossover
		}
	}
	return clampRaw(raw), true
}

// BollingerScore is contrarian on band position: near the lower band
// leans bullish, near the upper band bearish.
func BollingerScore(s *models.TechnicalSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	pos, ok := val(s.BBPosition)
	if !ok {
		return 0, false
	}
	pos = clamp(pos, 0, 1)
	return clampRaw((0.5-pos)*20), true
}

// StochRSIScore is contrarian on %K extremes.
func StochRSIScore(s *models.TechnicalSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	k, ok := val(s.StochRSIK)
	if !ok {
		return 0, false
	}
	k = clamp(k, 0, 100)
	return clampRaw((50-k)/5), true
}

// VolumeScore confirms the short-term move: elevated volume amplifies
// the 1h direction, thin volume stays neutral.
func VolumeScore(s *models.TechnicalSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	ratio, ok := val(s.VolumeRatio)
	if !ok {
		return 0, false
	}
	if ratio <= 1 {
		return 0, true
	}
	c1h, okC := val(s.PriceChange1h)
	if !okC || c1h == 0 {
		return 0, true
	}
	dir := 1.0
	if c1h < 0 {
		dir = -1
	}
	return clampRaw(dir * math.Min((ratio-1)*4, RawMax)), true
}

// VolatilityScore rewards calm conditions: trend calls survive low ATR
// and tight bands, blow-off volatility argues for standing aside.
func VolatilityScore(s *models.TechnicalSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	atr, okA := val(s.ATRPercent)
	bw, okB := val(s.BBWidthPercent)
	if !okA && !okB {
		return 0, false
	}
	var raw float64
	if okA {
		raw += 1.5 * (3 - atr)
	}
	if okB {
		raw += 0.5 * (6 - bw)
	}
	return clampRaw(raw), true
}

// MultiTimeframeScore reads the 4h RSI contrarian band; agreement with
// the 1h RSI strengthens it, disagreement mutes it.
func MultiTimeframeScore(s *models.TechnicalSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	rsi4h, ok := val(s.RSI4h)
	if !ok {
		return 0, false
	}
	rsi4h = clamp(rsi4h, 0, 100)
	raw := (50 - rsi4h) / 5

	if rsi1h, ok1 := val(s.RSI); ok1 {
		rsi1h = clamp(rsi1h, 0, 100)
		if (50-rsi1h)*(50-rsi4h) > 0 {
			raw *= 1.5
		} else {
			raw *= 0.5
		}
	}
	return clampRaw(raw), true
}
