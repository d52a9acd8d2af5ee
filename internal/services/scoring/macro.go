package scoring

import "SignalPulse/internal/domain/models"

// Macro factor scorers: traditional-market context.

// DXYScore: a strengthening dollar drains risk assets.
func DXYScore(s *models.MacroSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	dxy, ok := val(s.DXYChangePercent)
	if !ok {
		return 0, false
	}
	return clampRaw(-dxy * 5), true
}

// RiskScore follows equity risk appetite.
func RiskScore(s *models.MacroSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	sp, ok := val(s.SP500ChangePercent)
	if !ok {
		return 0, false
	}
	return clampRaw(sp * 3), true
}
