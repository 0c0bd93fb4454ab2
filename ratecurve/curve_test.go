package ratecurve_test

import (
	"math"
	"testing"

	"github.com/meenmo/hybridlattice/deal"
	"github.com/meenmo/hybridlattice/ratecurve"
	"github.com/stretchr/testify/assert"
)

func pts() []deal.TenorPoint {
	return []deal.TenorPoint{
		{TenorYears: 1, YieldPct: 3.0},
		{TenorYears: 3, YieldPct: 4.0},
		{TenorYears: 5, YieldPct: 5.0},
	}
}

func TestYieldAtInterpolatesLinearly(t *testing.T) {
	c := ratecurve.New(pts())
	assert.InDelta(t, 3.5, c.YieldAt(2), 1e-9)
}

func TestYieldAtFlatExtrapolates(t *testing.T) {
	c := ratecurve.New(pts())
	assert.Equal(t, 3.0, c.YieldAt(0.1))
	assert.Equal(t, 5.0, c.YieldAt(50))
}

func TestDFIdentityBootstrap(t *testing.T) {
	c := ratecurve.New([]deal.TenorPoint{{TenorYears: 1, YieldPct: 5.0}})
	// DF(1) = (1.05)^-1
	assert.InDelta(t, 1/1.05, c.DF(1), 1e-9)
}

func TestStepwiseForwardRatesMatchesDFRatio(t *testing.T) {
	c := ratecurve.New([]deal.TenorPoint{{TenorYears: 1, YieldPct: 3.0}, {TenorYears: 10, YieldPct: 3.0}})
	rates := ratecurve.StepwiseForwardRates(c, 4, 0.25)
	assert.Len(t, rates, 4)
	// Flat 3% annually compounded: DF(a)/DF(b) = 1.03^(b-a), so every
	// quarterly simple forward is (1.03^0.25 - 1) / 0.25, about 0.02967.
	want := (math.Pow(1.03, 0.25) - 1) / 0.25
	for _, r := range rates {
		assert.InDelta(t, want, r, 1e-6)
	}
}

func TestResolveStepwisePrefersUserSupplied(t *testing.T) {
	user := []float64{0.01, 0.02, 0.03}
	out := ratecurve.ResolveStepwise(user, nil, 0.05, 3, 0.25)
	assert.Equal(t, user, out)
}

func TestResolveStepwiseFlatFallback(t *testing.T) {
	out := ratecurve.ResolveStepwise(nil, nil, 0.035, 3, 0.25)
	assert.Equal(t, []float64{0.035, 0.035, 0.035}, out)
}
