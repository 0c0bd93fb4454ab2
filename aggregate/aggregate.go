// Package aggregate runs every Security in a Deal through the pricing
// engine and rolls the per-security results up into a deal-level
// asset/liability view (spec.md §5, §7). The worker-pool shape — a jobs
// channel, a results channel keyed by index, and a WaitGroup closing the
// results channel — follows
// services/evaluator/internal/workers/pool.go's EvaluateBatch in the
// pack, generalized from sequence evaluation to per-security pricing.
package aggregate

import (
	"fmt"
	"math"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meenmo/hybridlattice/config"
	"github.com/meenmo/hybridlattice/deal"
	"github.com/meenmo/hybridlattice/engine"
	"github.com/meenmo/hybridlattice/obs"
)

// SecurityResult is one priced security, signed to the deal's perspective
// (a long/HOLDER position contributes a positive total; an ISSUER
// position's liability flips the sign, per spec.md §6).
type SecurityResult struct {
	Label       string            `json:"label"`
	Kind        deal.SecurityKind `json:"kind"`
	Position    deal.Position     `json:"position"`
	SignedTotal float64           `json:"signed_total"`
	engine.PricingResult
}

// SecurityFailure records a security that could not be priced, isolated
// from the rest of the deal (spec.md §7: a single bad security must not
// abort the whole run).
type SecurityFailure struct {
	Label string `json:"label"`
	Err   string `json:"error"`
}

// DealResult is the deal-level asset/liability rollup.
type DealResult struct {
	DealName string `json:"deal_name"`
	RunID    string `json:"run_id"`

	FairValueTotal     float64 `json:"fair_value_total"`
	FairValueAsset     float64 `json:"fair_value_asset"`
	FairValueLiability float64 `json:"fair_value_liability"`

	HostTotal  float64 `json:"host_total"`
	DerivTotal float64 `json:"deriv_total"`
	DerivAsset float64 `json:"deriv_asset"`
	DerivLiab  float64 `json:"deriv_liab"`

	PricePerShare float64 `json:"price_per_share,omitempty"`

	Securities []SecurityResult  `json:"securities"`
	Failures   []SecurityFailure `json:"failures,omitempty"`
}

// defaultWorkers mirrors NewWorkerPool's 10-worker fallback in the pack;
// a pricing run is CPU-bound per security, not I/O-bound, so a modest
// fixed pool is enough to overlap independent lattice sweeps without
// oversubscribing a small container.
const defaultWorkers = 10

type jobItem struct {
	index int
	sec   deal.Security
}

type resultItem struct {
	index  int
	result SecurityResult
	err    error
}

// Aggregate prices every security in d concurrently and rolls the
// results up into a DealResult. A panic or error in one security is
// isolated: it is recorded in Failures and the rest of the deal still
// aggregates (spec.md §7).
func Aggregate(d *deal.Deal) (DealResult, error) {
	if err := d.Validate(); err != nil {
		return DealResult{}, fmt.Errorf("Aggregate: %w", err)
	}
	if d.RunID == "" {
		d.RunID = uuid.NewString()
	}

	n := len(d.Securities)
	jobs := make(chan jobItem, n)
	results := make(chan resultItem, n)

	numWorkers := defaultWorkers
	if n < numWorkers {
		numWorkers = n
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(d, jobs, results)
		}()
	}

	for idx, sec := range d.Securities {
		jobs <- jobItem{index: idx, sec: sec}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	secResults := make([]*SecurityResult, n)
	failures := make([]*SecurityFailure, n)
	for r := range results {
		if r.err != nil {
			failures[r.index] = &SecurityFailure{Label: securityLabel(d.Securities[r.index]), Err: r.err.Error()}
			continue
		}
		secResults[r.index] = &r.result
	}

	out := rollUp(d, secResults, failures)
	obs.DealsAggregated.Inc()
	return out, nil
}

func worker(d *deal.Deal, jobs <-chan jobItem, results chan<- resultItem) {
	for job := range jobs {
		results <- priceOne(d, job)
	}
}

// priceOne prices a single security behind a recover(), turning a panic
// (a lattice bug, a nil-pointer in malformed input) into an isolated
// failure rather than a crashed worker.
func priceOne(d *deal.Deal, job jobItem) (out resultItem) {
	out.index = job.index
	defer func() {
		if r := recover(); r != nil {
			out.err = fmt.Errorf("panic pricing %s: %v\n%s", securityLabel(job.sec), r, debug.Stack())
		}
	}()

	start := time.Now()
	pr, err := engine.PriceSecurity(d, job.sec)
	obs.ObservePricing(string(job.sec.Kind()), start, err)
	if err != nil {
		out.err = err
		return out
	}

	common := job.sec.CommonFields()
	signed := pr.FairValueTotal
	if common.Position == deal.PositionIssuer {
		signed = -signed
	}

	out.result = SecurityResult{
		Label:         common.Label,
		Kind:          job.sec.Kind(),
		Position:      common.Position,
		SignedTotal:   signed,
		PricingResult: pr,
	}
	return out
}

func securityLabel(sec deal.Security) string {
	c := sec.CommonFields()
	if c.Label != "" {
		return c.Label
	}
	return string(sec.Kind())
}

func rollUp(d *deal.Deal, secResults []*SecurityResult, failures []*SecurityFailure) DealResult {
	res := DealResult{DealName: d.DealName, RunID: d.RunID}

	for _, f := range failures {
		if f != nil {
			res.Failures = append(res.Failures, *f)
		}
	}

	decimals := config.GetConfig().MoneyRoundingDecimals
	var total, host, derivAsset, derivLiab decimal.Decimal

	for _, sr := range secResults {
		if sr == nil {
			continue
		}
		res.Securities = append(res.Securities, *sr)

		signedHost := sr.FairValueHost
		signedDeriv := sr.FairValueDeriv
		if sr.Position == deal.PositionIssuer {
			signedHost = -signedHost
			signedDeriv = -signedDeriv
		}

		total = total.Add(decimal.NewFromFloat(sr.SignedTotal))
		host = host.Add(decimal.NewFromFloat(signedHost))
		derivAsset = derivAsset.Add(decimal.NewFromFloat(math.Max(signedDeriv, 0)))
		derivLiab = derivLiab.Add(decimal.NewFromFloat(math.Max(-signedDeriv, 0)))
	}

	res.FairValueTotal = round(total, decimals)
	res.HostTotal = round(host, decimals)
	res.DerivAsset = round(derivAsset, decimals)
	res.DerivLiab = round(derivLiab, decimals)
	res.DerivTotal = round(derivAsset.Sub(derivLiab), decimals)
	res.FairValueAsset = round(decimal.NewFromFloat(math.Max(res.FairValueTotal, 0)), decimals)
	res.FairValueLiability = round(decimal.NewFromFloat(math.Max(-res.FairValueTotal, 0)), decimals)

	if d.UnderlyingNumShares > 0 {
		res.PricePerShare = round(total.Div(decimal.NewFromFloat(d.UnderlyingNumShares)), decimals)
	}

	return res
}

func round(v decimal.Decimal, decimals uint32) float64 {
	f, _ := v.Round(int32(decimals)).Float64()
	return f
}
