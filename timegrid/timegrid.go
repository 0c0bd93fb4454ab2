// Package timegrid builds the weekly step schedule the lattice walks,
// from valuation to maturity with a final stub pinned to the true
// maturity date. The "step forward, clamp to a horizon" shape mirrors
// swap/curve.generatePaymentDates in the teacher, generalized from a
// frequency-in-months stride to a fixed 7-day stride.
package timegrid

import (
	"time"

	"github.com/meenmo/hybridlattice/config"
	"github.com/meenmo/hybridlattice/daycount"
)

// Node is one point on the time grid.
type Node struct {
	Step  int
	Date  time.Time
	Years float64 // ACT/365F year fraction from valuation
}

// Grid is the full step schedule plus its derived lattice parameters.
type Grid struct {
	Nodes      []Node
	N          int     // number of steps (len(Nodes) - 1)
	T          float64 // years to maturity (Nodes[N].Years)
	Dt         float64 // T / N
	Degenerate bool    // true when maturity <= valuation (spec.md §3, §7)
}

const weekDays = 7

// Build constructs the grid for [valuation, maturity]. Maturity <=
// valuation is degenerate: spec.md §3 describes it as a two-point
// trivial grid with dt == config.GetConfig().MinYearsPerStep, while §7
// calls for an "N=0 branch" that returns an all-zero result. Build
// follows §3's literal grid shape (a real, if tiny, one-step tree) and
// sets Degenerate so callers can follow §7's all-zero-result behavior
// without needing a zero-length grid to do it (see DESIGN.md).
func Build(valuation, maturity time.Time) Grid {
	if !maturity.After(valuation) {
		dt := config.GetConfig().MinYearsPerStep
		return Grid{
			Nodes: []Node{
				{Step: 0, Date: valuation, Years: 0},
				{Step: 1, Date: valuation, Years: dt},
			},
			N:          1,
			T:          dt,
			Dt:         dt,
			Degenerate: true,
		}
	}

	nodes := []Node{{Step: 0, Date: valuation, Years: 0}}
	d := valuation
	step := 0
	for {
		next := d.AddDate(0, 0, weekDays)
		if !next.Before(maturity) {
			break
		}
		step++
		nodes = append(nodes, Node{Step: step, Date: next, Years: daycount.YearFraction(valuation, next)})
		d = next
	}

	step++
	nodes = append(nodes, Node{Step: step, Date: maturity, Years: daycount.YearFraction(valuation, maturity)})

	n := len(nodes) - 1
	t := nodes[n].Years
	return Grid{Nodes: nodes, N: n, T: t, Dt: t / float64(n)}
}

// StepIndexAtOrBefore returns the largest step index whose date is <= d,
// or -1 if every node's date is after d.
func (g Grid) StepIndexAtOrBefore(d time.Time) int {
	idx := -1
	for _, n := range g.Nodes {
		if !n.Date.After(d) {
			idx = n.Step
		} else {
			break
		}
	}
	return idx
}

// StepIndexAtOrAfter returns the smallest step index whose date is >= d,
// or N (the last step) if every node's date is before d.
func (g Grid) StepIndexAtOrAfter(d time.Time) int {
	for _, n := range g.Nodes {
		if !n.Date.Before(d) {
			return n.Step
		}
	}
	return g.N
}

// InWindow reports whether the grid node at step t falls within
// [start, end] inclusive. hasStart/hasEnd false marks that side as
// "not set": a missing start means open-ended from below, a missing
// end means open-ended through maturity.
func (g Grid) InWindow(t int, start, end time.Time, hasStart, hasEnd bool) bool {
	d := g.Nodes[t].Date
	if hasStart && d.Before(start) {
		return false
	}
	if hasEnd && d.After(end) {
		return false
	}
	return true
}
