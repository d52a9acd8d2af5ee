package models

// Per-category factor snapshots. Each category arrives pre-computed from the
// data-gathering layer; a nil category means "no data", which is distinct
// from a category full of zeroes. Individual fields are pointers for the
// same reason: scorers skip what was never measured.

// TechnicalSnapshot carries indicator values for one symbol.
type TechnicalSnapshot struct {
	RSI               *float64 `json:"rsi,omitempty"`
	RSI4h             *float64 `json:"rsi_4h,omitempty"`
	StochRSIK         *float64 `json:"stoch_rsi_k,omitempty"`
	MACDHistogram     *float64 `json:"macd_histogram,omitempty"`
	MACDPrevHistogram *float64 `json:"macd_prev_histogram,omitempty"`
	EMAFast           *float64 `json:"ema_fast,omitempty"`
	EMASlow           *float64 `json:"ema_slow,omitempty"`
	ADX               *float64 `json:"adx,omitempty"`
	BBPosition        *float64 `json:"bb_position,omitempty"`
	BBWidthPercent    *float64 `json:"bb_width_percent,omitempty"`
	ATRPercent        *float64 `json:"atr_percent,omitempty"`
	VolumeRatio       *float64 `json:"volume_ratio,omitempty"`
	PriceChange1h     *float64 `json:"price_change_1h,omitempty"`
	PriceChange4h     *float64 `json:"price_change_4h,omitempty"`
	PriceChange24h    *float64 `json:"price_change_24h,omitempty"`
}

// WhaleSnapshot carries on-chain and exchange-flow aggregates.
type WhaleSnapshot struct {
	ExchangeNetflowUSD      *float64 `json:"exchange_netflow_usd,omitempty"`
	LargeTxNetUSD           *float64 `json:"large_tx_net_usd,omitempty"`
	AccumulationVolumeRatio *float64 `json:"accumulation_volume_ratio,omitempty"`
	AccumulationPriceMove   *float64 `json:"accumulation_price_move,omitempty"`
}

// DerivativesSnapshot carries futures-market metrics.
type DerivativesSnapshot struct {
	OIChangePercent      *float64 `json:"oi_change_percent,omitempty"`
	PriceChangePercent   *float64 `json:"price_change_percent,omitempty"`
	FundingRate          *float64 `json:"funding_rate,omitempty"`
	LongLiquidationsUSD  *float64 `json:"long_liquidations_usd,omitempty"`
	ShortLiquidationsUSD *float64 `json:"short_liquidations_usd,omitempty"`
	LongShortRatio       *float64 `json:"long_short_ratio,omitempty"`
}

// SentimentSnapshot carries market-mood metrics.
type SentimentSnapshot struct {
	FearGreedIndex *float64 `json:"fear_greed_index,omitempty"`
	SocialScore    *float64 `json:"social_score,omitempty"`
}

// MacroSnapshot carries traditional-market context.
type MacroSnapshot struct {
	DXYChangePercent   *float64 `json:"dxy_change_percent,omitempty"`
	SP500ChangePercent *float64 `json:"sp500_change_percent,omitempty"`
}

// OptionsSnapshot carries options-market positioning.
type OptionsSnapshot struct {
	PutCallRatio *float64 `json:"put_call_ratio,omitempty"`
	IVSkew       *float64 `json:"iv_skew,omitempty"`
}

// FactorSnapshots groups the optional per-category payloads for one
// evaluation. Any category may be nil.
type FactorSnapshots struct {
	Technical   *TechnicalSnapshot   `json:"technical,omitempty"`
	Whale       *WhaleSnapshot       `json:"whale,omitempty"`
	Derivatives *DerivativesSnapshot `json:"derivatives,omitempty"`
	Sentiment   *SentimentSnapshot   `json:"sentiment,omitempty"`
	Macro       *MacroSnapshot       `json:"macro,omitempty"`
	Options     *OptionsSnapshot     `json:"options,omitempty"`
}
