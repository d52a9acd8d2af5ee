package scoring

import "SignalPulse/internal/domain/models"

// Options factor scorers: positioning read contrarian.

// PutCallScore: an elevated put/call ratio signals hedged-up fear,
// which tends to mark bottoms; a depressed one marks complacency.
func PutCallScore(s *models.OptionsSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	pcr, ok := val(s.PutCallRatio)
	if !ok || pcr <= 0 {
		return 0, false
	}
	return clampRaw((pcr - 1) * 10), true
}

// IVSkewScore: expensive downside protection reflects fear already
// priced in, a mild contrarian bullish read.
func IVSkewScore(s *models.OptionsSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	skew, ok := val(s.IVSkew)
	if !ok {
		return 0, false
	}
	return clampRaw(skew * 0.8), true
}
