package engine

import (
	"fmt"
	"math"

	"github.com/meenmo/hybridlattice/config"
	"github.com/meenmo/hybridlattice/daycount"
	"github.com/meenmo/hybridlattice/deal"
)

// PriceESO runs backward induction for an employee stock option: American
// early exercise gated by vesting and by a minimum in-the-moneyness
// multiple, with an attrition survival multiplier applied at every node
// after its exercise decision (spec.md §4.7).
func PriceESO(d *deal.Deal, sec *deal.ESO) (PricingResult, error) {
	common := sec.CommonFields()
	p, err := prepareCommon(d, common)
	if err != nil {
		return PricingResult{}, fmt.Errorf("PriceESO %s: %w", common.Label, err)
	}
	if p.degenerate {
		return degenerateResult(common.Label, p), nil
	}

	vestingEnd := sec.VestingEnd
	if vestingEnd == "" {
		vestingEnd = common.MaturityDate
	}
	vestDate, err := daycount.ParseDate(vestingEnd)
	if err != nil {
		return PricingResult{}, fmt.Errorf("PriceESO %s: VestingEnd: %w", common.Label, err)
	}
	vestStep := p.grid.StepIndexAtOrAfter(vestDate)

	multiple := sec.EarlyExerciseMultiple
	if multiple == 0 {
		multiple = config.GetConfig().ESODefaultExerciseMultiple
	}

	n := p.grid.N
	lp := p.latticeParams

	sRow := lp.SharePriceRow(p.s0, n)
	eRow := make([]float64, n+1)
	flagRow := make([]Flag, n+1)
	for i := 0; i <= n; i++ {
		intrinsic := math.Max(sRow[i]-sec.Strike, 0)
		eRow[i] = intrinsic
		if intrinsic > 0 {
			flagRow[i] = FlagMaturityExercise
		} else {
			flagRow[i] = FlagMaturityLapse
		}
	}

	var nodeLogs []NodeLog
	cfg := sampleCap(n)
	if n <= cfg {
		nodeLogs = appendNodeLogs(nodeLogs, n, sRow, eRow, eRow, flagRow, 0)
	}

	for t := n - 1; t >= 0; t-- {
		rf := p.rf[t]
		q := lp.UpProbability(rf, p.grid.Dt)
		df := math.Exp(-rf * p.grid.Dt)
		survival := math.Exp(-sec.AnnualExitRate * p.grid.Dt)

		sRow = lp.SharePriceRow(p.s0, t)
		newE := make([]float64, t+1)
		newFlag := make([]Flag, t+1)

		vested := t >= vestStep
		for i := 0; i <= t; i++ {
			continuation := df * (q*eRow[i+1] + (1-q)*eRow[i])

			var val float64
			var flag Flag
			switch {
			case !vested:
				val, flag = continuation, FlagUnvested
			case sRow[i] >= multiple*sec.Strike:
				intrinsic := sRow[i] - sec.Strike
				if intrinsic > continuation {
					val, flag = intrinsic, FlagExerciseSubopt
				} else {
					val, flag = continuation, FlagHold
				}
			default:
				val, flag = continuation, FlagHold
			}

			newE[i] = val * survival
			newFlag[i] = flag
		}

		eRow, flagRow = newE, newFlag
		if t <= cfg {
			nodeLogs = appendNodeLogs(nodeLogs, t, sRow, eRow, eRow, flagRow, 0)
		}
	}

	total := eRow[0] * sec.OptionCount
	return PricingResult{
		SecurityLabel:       common.Label,
		FairValueTotal:      total,
		FairValuePerShare:   eRow[0],
		FairValueDeriv:      total,
		FairValueDerivAsset: total,
		TFEquityComponent:   total,
		NodeLogs:            nodeLogs,
		Meta: Meta{
			Dt:              p.grid.Dt,
			U:               lp.U,
			D:               lp.D,
			N:               n,
			ValuationDate:   p.valuationDate,
			MaturityDate:    p.maturityDate,
			UsedCurveSource: p.curveSource,
		},
	}, nil
}

