package engine

import (
	"fmt"
	"time"

	"github.com/meenmo/hybridlattice/daycount"
	"github.com/meenmo/hybridlattice/deal"
	"github.com/meenmo/hybridlattice/lattice"
	"github.com/meenmo/hybridlattice/ratecurve"
	"github.com/meenmo/hybridlattice/refixing"
	"github.com/meenmo/hybridlattice/timegrid"
)

// InjectDealFields copies Deal-level fields into a Security's Common
// record wherever the security left them at the zero value (spec.md §6:
// "common deal-level fields are injected before pricing").
func InjectDealFields(d *deal.Deal, sec deal.Security) {
	c := sec.CommonFields()
	if c.S0 == 0 {
		c.S0 = d.SharePriceCurrent
	}
	if c.Volatility == 0 {
		c.Volatility = d.Volatility
	}
	if c.ValuationDate == "" {
		c.ValuationDate = d.ValuationDate
	}
	if c.RiskFreeRate == 0 {
		c.RiskFreeRate = d.RiskFreeRate
	}
	if c.CreditSpread == 0 {
		c.CreditSpread = d.CreditSpread
	}
}

// prepared bundles the grid, lattice parameters, and per-step rate
// arrays common to every security type.
type prepared struct {
	grid          timegrid.Grid
	latticeParams lattice.Params
	rf            []float64 // length N
	cs            []float64 // length N
	s0            float64
	valuationDate time.Time
	maturityDate  time.Time
	curveSource   string
	degenerate    bool
}

func prepareCommon(d *deal.Deal, c *deal.Common) (prepared, error) {
	valDate, err := daycount.ParseDate(c.ValuationDate)
	if err != nil {
		return prepared{}, fmt.Errorf("prepareCommon: ValuationDate: %w", err)
	}
	matDate, err := daycount.ParseDate(c.MaturityDate)
	if err != nil {
		return prepared{}, fmt.Errorf("prepareCommon: MaturityDate: %w", err)
	}

	grid := timegrid.Build(valDate, matDate)
	latticeParams := lattice.Build(c.Volatility, grid.Dt)

	var rfCurve, csCurve *ratecurve.Curve
	source := "flat"
	if len(d.RiskFreeCurve) > 0 {
		rfCurve = ratecurve.New(d.RiskFreeCurve)
		source = "curve"
	}
	if len(d.CreditSpreadCurve) > 0 {
		csCurve = ratecurve.New(d.CreditSpreadCurve)
		source = "curve"
	}
	if len(c.StepwiseRiskFreeRates) >= grid.N || len(c.StepwiseCreditSpreads) >= grid.N {
		source = "stepwise"
	}

	rf := ratecurve.ResolveStepwise(c.StepwiseRiskFreeRates, rfCurve, c.RiskFreeRate, grid.N, grid.Dt)
	cs := ratecurve.ResolveStepwise(c.StepwiseCreditSpreads, csCurve, c.CreditSpread, grid.N, grid.Dt)

	return prepared{
		grid:          grid,
		latticeParams: latticeParams,
		rf:            rf,
		cs:            cs,
		s0:            c.S0,
		valuationDate: valDate,
		maturityDate:  matDate,
		curveSource:   source,
		degenerate:    grid.Degenerate,
	}, nil
}

// degenerateResult is the all-zero, meta-only PricingResult spec.md §7
// mandates for a maturity-at-or-before-valuation deal: no cashflow is
// possible, so every value field is zero and only the diagnostic Meta
// fields are populated.
func degenerateResult(label string, p prepared) PricingResult {
	return PricingResult{
		SecurityLabel: label,
		Meta: Meta{
			Dt:              p.grid.Dt,
			N:               p.grid.N,
			ValuationDate:   p.valuationDate,
			MaturityDate:    p.maturityDate,
			UsedCurveSource: p.curveSource,
		},
	}
}

func buildRefixing(p prepared, cp0 float64, antiDilution deal.AntiDilutionType, floor *float64, events []deal.ResetEvent) (refixing.Schedule, []refixing.Warning, error) {
	return refixing.Build(p.grid, cp0, antiDilution, floor, events)
}

// windowBounds is a *deal.Window with its date strings parsed once up
// front, so the per-node, per-step backward induction loop never does
// string parsing.
type windowBounds struct {
	price            float64
	start, end       time.Time
	hasStart, hasEnd bool
}

func resolveWindowBounds(w *deal.Window) (*windowBounds, error) {
	if w == nil {
		return nil, nil
	}
	wb := &windowBounds{price: w.Price, hasStart: w.Start != "", hasEnd: w.End != ""}
	var err error
	if wb.hasStart {
		wb.start, err = daycount.ParseDate(w.Start)
		if err != nil {
			return nil, fmt.Errorf("resolveWindowBounds: Start: %w", err)
		}
	}
	if wb.hasEnd {
		wb.end, err = daycount.ParseDate(w.End)
		if err != nil {
			return nil, fmt.Errorf("resolveWindowBounds: End: %w", err)
		}
	}
	return wb, nil
}

func (wb *windowBounds) active(p prepared, t int) bool {
	if wb == nil {
		return false
	}
	return p.grid.InWindow(t, wb.start, wb.end, wb.hasStart, wb.hasEnd)
}
