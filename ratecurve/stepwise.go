package ratecurve

import "gonum.org/v1/gonum/floats"

// StepwiseForwardRates extracts the per-step forward rate implied by a
// Curve at each of the N steps of a dt-spaced grid (spec.md §4.4):
//
//	f_t = (DF(t*dt) / DF((t+1)*dt) - 1) / dt
//
// The two DF arrays are built first (one gonum/floats-friendly vector per
// leg of the grid) so the forward-rate pass is a simple element-wise
// divide-and-subtract, mirroring how aristath-sentinel leans on
// gonum/floats for bulk vector arithmetic instead of hand-rolled loops.
func StepwiseForwardRates(c *Curve, n int, dt float64) []float64 {
	if n <= 0 {
		return nil
	}
	dfStart := make([]float64, n)
	dfEnd := make([]float64, n)
	for t := 0; t < n; t++ {
		dfStart[t] = c.DF(float64(t) * dt)
		dfEnd[t] = c.DF(float64(t+1) * dt)
	}

	ratio := make([]float64, n)
	floats.DivTo(ratio, dfStart, dfEnd)

	out := make([]float64, n)
	for t := 0; t < n; t++ {
		out[t] = (ratio[t] - 1) / dt
	}
	return out
}

// ConstantRates fills an N-length array with a flat fallback rate.
func ConstantRates(n int, rate float64) []float64 {
	out := make([]float64, n)
	floats.AddConst(rate, out)
	return out
}

// ResolveStepwise picks the effective per-step rate array per spec.md
// §4.4: a user-supplied array of length >= n wins (truncated to n);
// otherwise curve-derived rates win if a curve is available; otherwise
// the flat scalar fallback populates a constant array.
func ResolveStepwise(userSupplied []float64, curve *Curve, flatFallback float64, n int, dt float64) []float64 {
	if len(userSupplied) >= n {
		return userSupplied[:n]
	}
	if curve != nil {
		return StepwiseForwardRates(curve, n, dt)
	}
	return ConstantRates(n, flatFallback)
}
