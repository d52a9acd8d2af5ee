package scoring

import "math"

// Raw factor scores live in [-10, 10]; positive leans bullish.
const (
	RawMin = -10.0
	RawMax = 10.0
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampRaw(v float64) float64 {
	return clamp(v, RawMin, RawMax)
}

// sanitize maps NaN/Inf to neutral zero so a bad upstream value degrades
// the factor instead of poisoning the aggregate.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// val dereferences an optional field, sanitized.
func val(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return sanitize(*p), true
}
