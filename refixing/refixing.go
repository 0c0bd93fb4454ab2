// Package refixing pre-computes the effective conversion price at every
// lattice step under the anti-dilution reset schedule. Because reset
// events carry calendar dates independent of the lattice path, cp_eff is
// a vector computed once up front, not node-level state threaded through
// backward induction (spec.md §9 "Refixing as pre-computation").
//
// The forward sweep over sorted events is the same shape as
// swap/curve.go's buildDiscountFactors: walk a sorted list of pillars,
// carrying one running value forward, updating it in place.
package refixing

import (
	"sort"
	"time"

	"github.com/meenmo/hybridlattice/config"
	"github.com/meenmo/hybridlattice/daycount"
	"github.com/meenmo/hybridlattice/deal"
	"github.com/meenmo/hybridlattice/timegrid"
)

// Warning records a documented-approximation fallback applied while
// building the schedule, so the caller can surface it (spec.md §7, §9 Q3).
type Warning struct {
	EventDate string
	Message   string
}

// Schedule is the precomputed per-step effective conversion price.
type Schedule struct {
	CPEff []float64 // length N+1
}

// Build computes cp_eff[0..N] for a given anti-dilution policy, initial
// conversion price, floor, and ordered reset events (spec.md §4.5).
func Build(grid timegrid.Grid, cp0 float64, antiDilution deal.AntiDilutionType, floor *float64, events []deal.ResetEvent) (Schedule, []Warning, error) {
	cpEff := make([]float64, grid.N+1)
	if antiDilution == deal.AntiDilutionNone || len(events) == 0 {
		for t := range cpEff {
			cpEff[t] = cp0
		}
		return Schedule{CPEff: cpEff}, nil, nil
	}

	type parsedEvent struct {
		date deal.ResetEvent
		when time.Time
	}
	parsed := make([]parsedEvent, 0, len(events))
	for _, e := range events {
		d, err := daycount.ParseDate(e.Date)
		if err != nil {
			return Schedule{}, nil, err
		}
		parsed = append(parsed, parsedEvent{date: e, when: d})
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].when.Before(parsed[j].when) })

	var warnings []Warning
	currentCP := cp0
	idx := 0
	cfg := config.GetConfig()

	clamp := func() {
		if floor != nil && currentCP < *floor {
			currentCP = *floor
		}
	}

	for t := 0; t <= grid.N; t++ {
		nodeDate := grid.Nodes[t].Date
		for idx < len(parsed) && !parsed[idx].when.After(nodeDate) {
			ev := parsed[idx].date
			if ev.NewIssuePrice < currentCP {
				switch antiDilution {
				case deal.AntiDilutionFullRatchet:
					currentCP = ev.NewIssuePrice
				case deal.AntiDilutionWADownOnly:
					so := ev.SharesOutstandingBefore
					if so <= 0 {
						so = cfg.WAFallbackSharesOutstanding
						warnings = append(warnings, Warning{
							EventDate: ev.Date,
							Message:   "WA_DOWN_ONLY reset missing SharesOutstandingBefore; used fallback constant",
						})
					}
					currentCP = currentCP * (so + (ev.NewIssuePrice/currentCP)*ev.NewIssueShares) / (so + ev.NewIssueShares)
				}
				clamp()
			}
			idx++
		}
		cpEff[t] = currentCP
	}

	return Schedule{CPEff: cpEff}, warnings, nil
}

// ConversionRatio returns the effective conversion ratio at step t: an
// explicit override wins only when AntiDilutionType == NONE (spec.md
// §4.5); otherwise facePerUnit / cp_eff[t].
func (s Schedule) ConversionRatio(t int, facePerUnit float64, antiDilution deal.AntiDilutionType, override *float64) float64 {
	if override != nil && antiDilution == deal.AntiDilutionNone {
		return *override
	}
	return facePerUnit / s.CPEff[t]
}
