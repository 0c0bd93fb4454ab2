// Package deal is the read-only input value model: a Deal and its ordered
// Securities. It carries no pricing logic — the tagged-union Security
// variants here mirror the teacher's LegConvention/SwapSpec shape (plain
// structs, typed-string enums, shared fields factored into a common,
// embedded record) rather than a runtime type string plus a map of
// interface{} fields.
package deal

import "fmt"

// SecurityKind discriminates the tagged union. The engine switches on this
// (or, equivalently, on the concrete type via a Go type switch) to select
// the RCPS/CB/CPS/ESO induction branch.
type SecurityKind string

const (
	KindRCPS SecurityKind = "RCPS"
	KindCB   SecurityKind = "CB"
	KindCPS  SecurityKind = "CPS"
	KindESO  SecurityKind = "ESO"
)

// Position is the sign applied once at the end of pricing; the engine
// always values the long (holder) position internally.
type Position string

const (
	PositionHolder Position = "HOLDER"
	PositionIssuer Position = "ISSUER"
)

// AntiDilutionType selects the refixing formula.
type AntiDilutionType string

const (
	AntiDilutionNone        AntiDilutionType = "NONE"
	AntiDilutionFullRatchet AntiDilutionType = "FULL_RATCHET"
	AntiDilutionWADownOnly  AntiDilutionType = "WA_DOWN_ONLY"
)

// ParticipationType controls RCPS terminal double-dip behavior.
type ParticipationType string

const (
	NonParticipating ParticipationType = "NON_PARTICIPATING"
	Participating    ParticipationType = "PARTICIPATING"
)

// ResetEvent is a single anti-dilution trigger, applied in date order.
type ResetEvent struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	NewIssuePrice  float64 `json:"new_issue_price"`
	NewIssueShares float64 `json:"new_issue_shares"`

	// SharesOutstandingBefore is "SO" in spec.md's WA_DOWN_ONLY formula.
	// Zero means "not provided"; the refixing schedule falls back to
	// config.GetConfig().WAFallbackSharesOutstanding and logs a warning.
	SharesOutstandingBefore float64 `json:"shares_outstanding_before,omitempty"`
}

// Window is an American-style exercise window with a fixed strike/call/put
// price, inclusive of both endpoints.
type Window struct {
	Price float64 `json:"price"`
	Start string  `json:"start,omitempty"` // YYYY-MM-DD
	End   string  `json:"end,omitempty"`   // YYYY-MM-DD
}

// TenorPoint is one (tenor in years, yield in percent) pillar of an input
// yield curve.
type TenorPoint struct {
	TenorYears float64 `json:"tenor_years"`
	YieldPct   float64 `json:"yield_pct"`
}

// Common carries the fields every Security variant shares. Deal-level
// fields are copied in here by engine.InjectDealFields before pricing when the
// security itself leaves them at the zero value, per spec.md §6.
type Common struct {
	Label string `json:"label,omitempty"`

	S0            float64 `json:"s0,omitempty"`
	Volatility    float64 `json:"volatility,omitempty"`
	ValuationDate string  `json:"valuation_date,omitempty"`
	MaturityDate  string  `json:"maturity_date"`

	// RiskFreeRate / CreditSpread are flat fallback rates, used to build
	// constant stepwise arrays when Stepwise* below are absent.
	RiskFreeRate float64 `json:"risk_free_rate,omitempty"`
	CreditSpread float64 `json:"credit_spread,omitempty"`

	// StepwiseRiskFreeRates / StepwiseCreditSpreads, if present with
	// length >= N, are used verbatim (truncated to N) instead of the
	// curve-derived or flat-fallback arrays.
	StepwiseRiskFreeRates []float64 `json:"stepwise_risk_free_rates,omitempty"`
	StepwiseCreditSpreads []float64 `json:"stepwise_credit_spreads,omitempty"`

	Position Position `json:"position"`
}

func (c Common) validate(where string) error {
	if c.S0 <= 0 {
		return fmt.Errorf("%s: S0 must be positive", where)
	}
	if c.Volatility < 0 {
		return fmt.Errorf("%s: Volatility must be non-negative", where)
	}
	if c.ValuationDate == "" {
		return fmt.Errorf("%s: ValuationDate is required", where)
	}
	if c.MaturityDate == "" {
		return fmt.Errorf("%s: MaturityDate is required", where)
	}
	if c.Position != PositionHolder && c.Position != PositionIssuer {
		return fmt.Errorf("%s: Position must be HOLDER or ISSUER, got %q", where, c.Position)
	}
	return nil
}

// HybridTerms carries the fields shared by RCPS, CB, and CPS: the
// host/derivative economics and embedded-option windows.
type HybridTerms struct {
	FaceTotal            float64 `json:"face_total"`
	ShareCount           float64 `json:"share_count,omitempty"` // unused for CB
	CouponRate           float64 `json:"coupon_rate,omitempty"`
	DividendRate         float64 `json:"dividend_rate,omitempty"` // 0 for CB
	RepaymentPremiumRate float64 `json:"repayment_premium_rate,omitempty"`

	InitialConversionPrice float64 `json:"initial_conversion_price"`

	// ConversionRatioOverride wins only when AntiDilutionType == NONE
	// (spec.md §4.5). Nil means "use face_per_unit / cp_eff[t]".
	ConversionRatioOverride *float64 `json:"conversion_ratio_override,omitempty"`

	AntiDilutionType AntiDilutionType `json:"anti_dilution_type,omitempty"`

	// RefixingFloor, if non-nil, clamps cp_eff from below after each event.
	RefixingFloor *float64     `json:"refixing_floor,omitempty"`
	ResetEvents   []ResetEvent `json:"reset_events,omitempty"`

	ParticipationType ParticipationType `json:"participation_type,omitempty"`
	// ParticipationCap is a multiple of FaceTotal/unit; nil means uncapped.
	ParticipationCap *float64 `json:"participation_cap,omitempty"`

	IssuerCall *Window `json:"issuer_call,omitempty"`
	HolderPut  *Window `json:"holder_put,omitempty"`
}

func (h HybridTerms) validate(where string) error {
	if h.FaceTotal <= 0 {
		return fmt.Errorf("%s: FaceTotal must be positive", where)
	}
	if h.InitialConversionPrice <= 0 {
		return fmt.Errorf("%s: InitialConversionPrice must be positive", where)
	}
	switch h.AntiDilutionType {
	case AntiDilutionNone, AntiDilutionFullRatchet, AntiDilutionWADownOnly:
	default:
		return fmt.Errorf("%s: unknown AntiDilutionType %q", where, h.AntiDilutionType)
	}
	switch h.ParticipationType {
	case NonParticipating, Participating, "":
	default:
		return fmt.Errorf("%s: unknown ParticipationType %q", where, h.ParticipationType)
	}
	return nil
}

// Security is the tagged-union interface. RCPS/CB/CPS/ESO are its only
// implementations; the engine exhaustively switches on the concrete type.
type Security interface {
	Kind() SecurityKind
	CommonFields() *Common
	Validate() error
}

// RCPS is redeemable convertible preferred stock, priced per share.
type RCPS struct {
	Common
	HybridTerms
}

func (s *RCPS) Kind() SecurityKind    { return KindRCPS }
func (s *RCPS) CommonFields() *Common { return &s.Common }
func (s *RCPS) Validate() error {
	if err := s.Common.validate("RCPS"); err != nil {
		return err
	}
	if err := s.HybridTerms.validate("RCPS"); err != nil {
		return err
	}
	if s.ShareCount <= 0 {
		return fmt.Errorf("RCPS: ShareCount must be positive")
	}
	return nil
}

// CPS is (non-redeemable) convertible preferred stock, priced per share.
type CPS struct {
	Common
	HybridTerms
}

func (s *CPS) Kind() SecurityKind    { return KindCPS }
func (s *CPS) CommonFields() *Common { return &s.Common }
func (s *CPS) Validate() error {
	if err := s.Common.validate("CPS"); err != nil {
		return err
	}
	if err := s.HybridTerms.validate("CPS"); err != nil {
		return err
	}
	if s.ShareCount <= 0 {
		return fmt.Errorf("CPS: ShareCount must be positive")
	}
	return nil
}

// CB is a convertible bond, priced per bond (ShareCount is unused).
type CB struct {
	Common
	HybridTerms
}

func (s *CB) Kind() SecurityKind    { return KindCB }
func (s *CB) CommonFields() *Common { return &s.Common }
func (s *CB) Validate() error {
	if err := s.Common.validate("CB"); err != nil {
		return err
	}
	return s.HybridTerms.validate("CB")
}

// ESO is an employee stock option, priced per option.
type ESO struct {
	Common

	OptionCount float64
	Strike      float64

	// VestingEnd, if empty, defaults to MaturityDate (spec.md §4.7).
	VestingEnd string

	// AnnualExitRate ("lambda") is the employee attrition hazard rate.
	AnnualExitRate float64

	// EarlyExerciseMultiple ("m") gates early exercise: S[t][i] >= m*K.
	// Zero means "use config.GetConfig().ESODefaultExerciseMultiple".
	EarlyExerciseMultiple float64
}

func (s *ESO) Kind() SecurityKind    { return KindESO }
func (s *ESO) CommonFields() *Common { return &s.Common }
func (s *ESO) Validate() error {
	if err := s.Common.validate("ESO"); err != nil {
		return err
	}
	if s.OptionCount <= 0 {
		return fmt.Errorf("ESO: OptionCount must be positive")
	}
	if s.Strike <= 0 {
		return fmt.Errorf("ESO: Strike must be positive")
	}
	if s.AnnualExitRate < 0 {
		return fmt.Errorf("ESO: AnnualExitRate must be non-negative")
	}
	return nil
}

// Deal is the top-level read-only input. Deal-level fields are injected
// into each Security's Common record before pricing when that field is
// left at its zero value (spec.md §6).
type Deal struct {
	DealName             string
	ValuationDate        string
	SharePriceCurrent    float64
	UnderlyingNumShares  float64
	Volatility           float64
	RiskFreeRate         float64
	CreditSpread         float64

	// RiskFreeCurve / CreditSpreadCurve are optional tenor-keyed yield
	// curves (spec.md §4.2). When present they take precedence over the
	// flat RiskFreeRate/CreditSpread for stepwise-rate construction.
	RiskFreeCurve     []TenorPoint
	CreditSpreadCurve []TenorPoint

	// RunID correlates logs/metrics for one pricing run. If empty,
	// aggregate.Aggregate fills in a fresh one.
	RunID string

	Securities []Security
}

// Validate checks deal-level fields. Per-security validation happens
// independently so a single bad security can be isolated (spec.md §7).
func (d *Deal) Validate() error {
	if d.ValuationDate == "" {
		return fmt.Errorf("Deal: ValuationDate is required")
	}
	if d.SharePriceCurrent < 0 {
		return fmt.Errorf("Deal: SharePriceCurrent must be non-negative")
	}
	if len(d.Securities) == 0 {
		return fmt.Errorf("Deal: at least one security is required")
	}
	return nil
}
