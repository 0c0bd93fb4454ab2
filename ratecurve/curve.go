// Package ratecurve implements the Curve Interpolator and Zero Bootstrap
// components: piecewise-linear yield interpolation with flat
// extrapolation, and the documented identity zero-rate bootstrap
// (spec.md §4.2, §4.3). Interpolation/bracketing follows the shape of
// swap/curve.go's adjacentQuotedDates / findBracketOrBoundary in the
// teacher, generalized from calendar dates to plain tenor years.
package ratecurve

import (
	"math"
	"sort"

	"github.com/meenmo/hybridlattice/deal"
)

// StandardTenorGrid is the tenor grid spec.md §4.2 names for the
// Risk-Free and Credit-Spread curves.
var StandardTenorGrid = []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 2.5, 3, 4, 5, 7, 10}

// Curve is a piecewise-linear yield curve with flat extrapolation at
// both ends. Points are kept sorted ascending by tenor.
type Curve struct {
	tenors  []float64
	yields  []float64 // percent, e.g. 3.5 == 3.5%
}

// New builds a Curve from unordered tenor points, sorting them by tenor.
// Duplicate tenors keep the last value seen.
func New(points []deal.TenorPoint) *Curve {
	m := make(map[float64]float64, len(points))
	for _, p := range points {
		m[p.TenorYears] = p.YieldPct
	}
	tenors := make([]float64, 0, len(m))
	for t := range m {
		tenors = append(tenors, t)
	}
	sort.Float64s(tenors)
	yields := make([]float64, len(tenors))
	for i, t := range tenors {
		yields[i] = m[t]
	}
	return &Curve{tenors: tenors, yields: yields}
}

// YieldAt returns the interpolated (or flat-extrapolated) yield, in
// percent, at the given tenor in years.
func (c *Curve) YieldAt(tenor float64) float64 {
	n := len(c.tenors)
	if n == 0 {
		return 0
	}
	if n == 1 || tenor <= c.tenors[0] {
		return c.yields[0]
	}
	if tenor >= c.tenors[n-1] {
		return c.yields[n-1]
	}
	// First index with tenors[i] >= tenor.
	i := sort.Search(n, func(i int) bool { return c.tenors[i] >= tenor })
	if c.tenors[i] == tenor {
		return c.yields[i]
	}
	lo, hi := i-1, i
	t0, t1 := c.tenors[lo], c.tenors[hi]
	y0, y1 := c.yields[lo], c.yields[hi]
	w := (tenor - t0) / (t1 - t0)
	return y0 + w*(y1-y0)
}

// ZeroRateAt returns the zero rate (percent) at the given tenor under the
// documented V1 approximation: the bootstrap is the identity function
// (input yield == zero rate at that tenor). This is a deliberate,
// documented simplification (spec.md §4.3, §9 Q2), not a defect — a full
// recursive par-to-zero bootstrap is out of scope for this engine.
func (c *Curve) ZeroRateAt(tenor float64) float64 {
	return c.YieldAt(tenor)
}

// DF returns the discount factor at the given tenor: (1 + r)^(-tenor)
// where r is the (identity-bootstrapped) zero rate as a decimal.
func (c *Curve) DF(tenor float64) float64 {
	if tenor <= 0 {
		return 1
	}
	r := c.ZeroRateAt(tenor) / 100.0
	return math.Pow(1+r, -tenor)
}
