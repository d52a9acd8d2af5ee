package scoring

import "SignalPulse/internal/domain/models"

// Factor categories, matching the snapshot payloads.
const (
	CategoryTechnical   = "technical"
	CategoryWhale       = "whale"
	CategoryDerivatives = "derivatives"
	CategorySentiment   = "sentiment"
	CategoryMacro       = "macro"
	CategoryOptions     = "options"
)

// Factor names, matching the weight table keys.
const (
	FactorMomentum       = "momentum"
	FactorTrend          = "trend"
	FactorMACD           = "macd"
	FactorBollinger      = "bollinger"
	FactorStochRSI       = "stoch_rsi"
	FactorVolume         = "volume"
	FactorVolatility     = "volatility"
	FactorMultiTF        = "multi_tf"
	FactorWhaleNetflow   = "whale_netflow"
	FactorWhaleTx        = "whale_tx"
	FactorAccumulation   = "accumulation"
	FactorOpenInterest   = "open_interest"
	FactorFunding        = "funding"
	FactorLiquidations   = "liquidations"
	FactorLongShort      = "long_short"
	FactorFearGreed      = "fear_greed"
	FactorSocial         = "social"
	FactorMacroDXY       = "macro_dxy"
	FactorMacroRisk      = "macro_risk"
	FactorPutCall        = "put_call"
	FactorIVSkew         = "iv_skew"
)

type factorDef struct {
	name     string
	category string
	score    func(*models.FactorSnapshots) (float64, bool)
}

// factorTable enumerates every factor the engine knows about. Its length
// is the total_sources denominator for coverage.
func factorTable() []factorDef {
	return []factorDef{
		{FactorMomentum, CategoryTechnical, func(s *models.FactorSnapshots) (float64, bool) { return MomentumScore(s.Technical) }},
		{FactorTrend, CategoryTechnical, func(s *models.FactorSnapshots) (float64, bool) { return TrendScore(s.Technical) }},
		{FactorMACD, CategoryTechnical, func(s *models.FactorSnapshots) (float64, bool) { return MACDScore(s.Technical) }},
		{FactorBollinger, CategoryTechnical, func(s *models.FactorSnapshots) (float64, bool) { return BollingerScore(s.Technical) }},
		{FactorStochRSI, CategoryTechnical, func(s *models.FactorSnapshots) (float64, bool) { return StochRSIScore(s.Technical) }},
		{FactorVolume, CategoryTechnical, func(s *models.FactorSnapshots) (float64, bool) { return VolumeScore(s.Technical) }},
		{FactorVolatility, CategoryTechnical, func(s *models.FactorSnapshots) (float64, bool) { return VolatilityScore(s.Technical) }},
		{FactorMultiTF, CategoryTechnical, func(s *models.FactorSnapshots) (float64, bool) { return MultiTimeframeScore(s.Technical) }},
		{FactorWhaleNetflow, CategoryWhale, func(s *models.FactorSnapshots) (float64, bool) { return NetflowScore(s.Whale) }},
		{FactorWhaleTx, CategoryWhale, func(s *models.FactorSnapshots) (float64, bool) { return WhaleTxScore(s.Whale) }},
		{FactorAccumulation, CategoryWhale, func(s *models.FactorSnapshots) (float64, bool) { return AccumulationScore(s.Whale) }},
		{FactorOpenInterest, CategoryDerivatives, func(s *models.FactorSnapshots) (float64, bool) { return OpenInterestScore(s.Derivatives) }},
		{FactorFunding, CategoryDerivatives, func(s *models.FactorSnapshots) (float64, bool) { return FundingScore(s.Derivatives) }},
		{FactorLiquidations, CategoryDerivatives, func(s *models.FactorSnapshots) (float64, bool) { return LiquidationsScore(s.Derivatives) }},
		{FactorLongShort, CategoryDerivatives, func(s *models.FactorSnapshots) (float64, bool) { return LongShortRatioScore(s.Derivatives) }},
		{FactorFearGreed, CategorySentiment, func(s *models.FactorSnapshots) (float64, bool) { return FearGreedScore(s.Sentiment) }},
		{FactorSocial, CategorySentiment, func(s *models.FactorSnapshots) (float64, bool) { return SocialScore(s.Sentiment) }},
		{FactorMacroDXY, CategoryMacro, func(s *models.FactorSnapshots) (float64, bool) { return DXYScore(s.Macro) }},
		{FactorMacroRisk, CategoryMacro, func(s *models.FactorSnapshots) (float64, bool) { return RiskScore(s.Macro) }},
		{FactorPutCall, CategoryOptions, func(s *models.FactorSnapshots) (float64, bool) { return PutCallScore(s.Options) }},
		{FactorIVSkew, CategoryOptions, func(s *models.FactorSnapshots) (float64, bool) { return IVSkewScore(s.Options) }},
	}
}
