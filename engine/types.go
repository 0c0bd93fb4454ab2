// Package engine is the pricing core: backward induction for RCPS/CB/CPS
// (the "TF Engine") and for ESO, plus the straight-instrument Host DCF
// used to impute the embedded-derivative value by subtraction. Its
// Params-struct -> Validate -> build-function shape, and its
// fmt.Errorf-wrapped error chains, follow swap/api.go's
// InterestRateSwapParams -> InterestRateSwap -> *SwapTrade pattern in
// the teacher.
package engine

import "time"

// Flag records which decision branch produced a node's (D, E) values.
type Flag string

const (
	FlagHold            Flag = "HOLD"
	FlagConvert         Flag = "CONVERT"
	FlagCalled          Flag = "CALLED"
	FlagCalledForceConv Flag = "CALLED_FORCE_CONV"
	FlagPut             Flag = "PUT"
	FlagMatConvert      Flag = "MAT_CONVERT"
	FlagMatParticipate  Flag = "MAT_PARTICIPATE"
	FlagMatRedeem       Flag = "MAT_REDEEM"

	FlagMaturityExercise Flag = "MATURITY_EXERCISE"
	FlagMaturityLapse    Flag = "MATURITY_LAPSE"
	FlagExerciseSubopt   Flag = "EXERCISE_SUBOPT"
	FlagUnvested         Flag = "UNVESTED"
)

// NodeLog is one sampled lattice node, for diagnostics only (spec.md §6,
// §9 Q4: node_logs are not part of the stable interface).
type NodeLog struct {
	Step  int     `json:"step"`
	Index int     `json:"index"`
	S     float64 `json:"s"`
	D     float64 `json:"d"`
	E     float64 `json:"e"`
	Flag  Flag    `json:"flag"`
	CPEff float64 `json:"cp_eff,omitempty"` // zero for ESO
}

// Meta carries the lattice parameters and bookkeeping behind a pricing.
type Meta struct {
	Dt              float64   `json:"dt"`
	U               float64   `json:"u"`
	D               float64   `json:"d"`
	N               int       `json:"n"`
	ValuationDate   time.Time `json:"valuation_date"`
	MaturityDate    time.Time `json:"maturity_date"`
	UsedCurveSource string    `json:"used_curve_source"` // "curve" | "stepwise" | "flat"
	EffCPFinal      float64   `json:"eff_cp_final,omitempty"`
}

// PricingResult is the per-security output (spec.md §6).
type PricingResult struct {
	SecurityLabel string `json:"security_label"`

	FairValueTotal      float64 `json:"fair_value_total"`
	FairValuePerShare   float64 `json:"fair_value_per_share,omitempty"` // zero for CB
	FairValueHost       float64 `json:"fair_value_host"`
	FairValueDeriv      float64 `json:"fair_value_deriv"`
	FairValueDerivAsset float64 `json:"fair_value_deriv_asset"`
	FairValueDerivLiab  float64 `json:"fair_value_deriv_liab"`
	TFDebtComponent     float64 `json:"tf_debt_component"`
	TFEquityComponent   float64 `json:"tf_equity_component"`

	NodeLogs []NodeLog `json:"node_logs,omitempty"`
	Meta     Meta      `json:"meta"`
}
