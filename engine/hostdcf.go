package engine

import "math"

// hostUnitValue discounts the straight-debt/preferred cash flow stream
// (periodic coupon/dividend plus terminal face+premium redemption) at the
// risky rate only, independent of the spot lattice (spec.md §4.6). The
// derivative component is then imputed by subtraction: deriv = hybrid - host.
func hostUnitValue(p prepared, cUnit, redemption float64) float64 {
	n := p.grid.N
	df := 1.0
	pv := 0.0
	for t := 0; t < n; t++ {
		r := p.rf[t]
		cs := p.cs[t]
		df *= math.Exp(-(r + cs) * p.grid.Dt)
		pv += cUnit * df
	}
	pv += redemption * df
	return pv
}
