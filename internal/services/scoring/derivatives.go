package scoring

import (
	"math"

	"SignalPulse/internal/domain/models"
)

// Derivatives factor scorers: open interest, funding, liquidations and
// positioning ratios from the futures market.

// OpenInterestScore reads OI/price co-movement. Rising OI behind a move
// confirms it; falling OI fades whatever the move was.
func OpenInterestScore(s *models.DerivativesSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	oi, okOI := val(s.OIChangePercent)
	price, okP := val(s.PriceChangePercent)
	if !okOI || !okP {
		return 0, false
	}
	switch {
	case oi > 5 && price > 2:
		return clampRaw(math.Min(oi/2, RawMax)), true
	case oi > 5 && price < -2:
		return clampRaw(-math.Min(oi/2, RawMax)), true
	case oi < -5:
		// positions unwinding, the prior move is running out of fuel
		if price > 0 {
			return clampRaw(-math.Min(-oi/3, 5)), true
		}
		return clampRaw(math.Min(-oi/3, 5)), true
	}
	return 0, true
}

// FundingScore is contrarian on funding extremes: crowded longs paying
// heavy funding lean bearish, shorts paying lean bullish. Funding is in
// percent (0.01 means 0.01% per interval).
func FundingScore(s *models.DerivativesSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	funding, ok := val(s.FundingRate)
	if !ok {
		return 0, false
	}
	return clampRaw(-funding * 400), true
}

// LiquidationsScore is contrarian on liquidation cascades: a wipeout of
// longs usually marks local capitulation, and vice versa. Small totals
// carry no information.
func LiquidationsScore(s *models.DerivativesSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	longs, okL := val(s.LongLiquidationsUSD)
	shorts, okS := val(s.ShortLiquidationsUSD)
	if !okL || !okS {
		return 0, false
	}
	total := longs + shorts
	if total <= 0 {
		return 0, true
	}
	imbalance := (longs - shorts) / total
	weight := math.Min(total/5e6, 1)
	return clampRaw(imbalance * 8 * weight), true
}

// LongShortRatioScore fades the retail crowd: a ratio above 1 means the
// crowd is long.
func LongShortRatioScore(s *models.DerivativesSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	ratio, ok := val(s.LongShortRatio)
	if !ok || ratio <= 0 {
		return 0, false
	}
	return clampRaw((1 - ratio) * 8), true
}
