package scoring

import (
	"math"

	"SignalPulse/internal/domain/models"
)

// Whale factor scorers: exchange flows and large-holder behavior.

// NetflowScore reads net USD flow to exchanges. Coins moving onto
// exchanges are sell supply, coins leaving are being parked.
func NetflowScore(s *models.WhaleSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	netflow, ok := val(s.ExchangeNetflowUSD)
	if !ok {
		return 0, false
	}
	// $50M inflow saturates bearish, $50M outflow saturates bullish.
	return clampRaw(-netflow / 5e6), true
}

// WhaleTxScore reads the net direction of large transactions.
func WhaleTxScore(s *models.WhaleSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	net, ok := val(s.LargeTxNetUSD)
	if !ok {
		return 0, false
	}
	return clampRaw(net / 2e6), true
}

// AccumulationScore detects quiet accumulation: volume well above
// average while price barely moves. A volume surge into a falling price
// reads as distribution instead.
func AccumulationScore(s *models.WhaleSnapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	ratio, okR := val(s.AccumulationVolumeRatio)
	move, okM := val(s.AccumulationPriceMove)
	if !okR || !okM {
		return 0, false
	}
	if ratio <= 1.3 {
		return 0, true
	}
	if math.Abs(move) < 1.5 {
		return clampRaw((ratio - 1.3) * 6), true
	}
	if move < -2 {
		return clampRaw(-(ratio - 1.3) * 4), true
	}
	return 0, true
}
