// Package lattice builds the CRR binomial tree parameters consumed by
// the engine: up/down share-price multipliers and the per-step
// risk-neutral up-probability. The tree itself is represented row by
// row (two rolling rows per leg, per spec.md §5/§9) rather than as a
// dense (N+1)x(N+1) matrix.
package lattice

import "math"

// Params are the CRR lattice constants for a single pricing: u = up
// multiplier, d = down multiplier = 1/u.
type Params struct {
	U float64
	D float64
}

// Build derives u, d from annual volatility and the step size dt.
func Build(sigma, dt float64) Params {
	u := math.Exp(sigma * math.Sqrt(dt))
	return Params{U: u, D: 1 / u}
}

// UpProbability returns q_t = (exp(r*dt) - d) / (u - d), the
// risk-neutral probability under the risk-free leg only (spec.md §3).
func (p Params) UpProbability(r, dt float64) float64 {
	return (math.Exp(r*dt) - p.D) / (p.U - p.D)
}

// SharePriceRow returns S[t][0..t]: S0 * u^i * d^(t-i) for i in [0, t].
func (p Params) SharePriceRow(s0 float64, t int) []float64 {
	row := make([]float64, t+1)
	for i := 0; i <= t; i++ {
		row[i] = s0 * math.Pow(p.U, float64(i)) * math.Pow(p.D, float64(t-i))
	}
	return row
}
