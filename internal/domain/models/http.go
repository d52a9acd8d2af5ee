package models

// Requests for engine HTTP endpoints. Defined in domain for consistency and reuse.

type EvaluateRequest struct {
	Symbol    string          `json:"symbol" validate:"required,min=2,max=16"`
	Snapshots FactorSnapshots `json:"snapshots"`
}

type LastDecisionRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=2,max=16"`
}

type AnchorRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=2,max=16"`
}

type DecisionHistoryRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=2,max=16"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
