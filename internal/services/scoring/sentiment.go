package scoring

import "SignalPulse/internal/domain/models"

// Sentiment factor scorers.

// FearGreedScore is contrarian on the fear & greed index: extreme fear
// leans bullish, extreme greed bearish.
func FearGreedScore(s *models.SentimentSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	idx, ok := val(s.FearGreedIndex)
	if !ok {
		return 0, false
	}
	idx = clamp(idx, 0, 100)
	return clampRaw((50 - idx) / 5), true
}

// SocialScore follows social momentum mildly; it never dominates.
func SocialScore(s *models.SentimentSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	sc, ok := val(s.SocialScore)
	if !ok {
		return 0, false
	}
	sc = clamp(sc, 0, 100)
	return clampRaw((sc - 50) / 8), true
}
