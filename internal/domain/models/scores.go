package models

// FactorScore is one factor's scored output for a single evaluation.
// Raw is bounded to [-10, 10]; Contribution is the weighted value capped
// per factor. Created fresh each evaluation, never mutated.
type FactorScore struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Raw          float64 `json:"raw"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ScoreBundle is the aggregator output: the weighted view of all factors
// that produced a score this cycle. Immutable once produced.
type ScoreBundle struct {
	Symbol           string        `json:"symbol"`
	TotalScore       float64       `json:"total_score"`
	WeightedScore    float64       `json:"weighted_score"`
	BullishCount     int           `json:"bullish_count"`
	BearishCount     int           `json:"bearish_count"`
	NeutralCount     int           `json:"neutral_count"`
	DataSourcesCount int           `json:"data_sources_count"`
	TotalSources     int           `json:"total_sources"`
	Factors          []FactorScore `json:"factors,omitempty"`
}

// Factor looks up a scored factor by name.
func (b *ScoreBundle) Factor(name string) (FactorScore, bool) {
	for _, f := range b.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return FactorScore{}, false
}

// Coverage is the fraction of known factors that produced a score.
func (b *ScoreBundle) Coverage() float64 {
	if b.TotalSources == 0 {
		return 0
	}
	return float64(b.DataSourcesCount) / float64(b.TotalSources)
}
