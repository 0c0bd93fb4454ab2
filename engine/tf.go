package engine

import (
	"fmt"
	"math"

	"github.com/meenmo/hybridlattice/config"
	"github.com/meenmo/hybridlattice/deal"
	"github.com/meenmo/hybridlattice/refixing"
)

// unitEconomics are the per-unit cash-flow constants derived once from a
// hybrid security's face/coupon terms (spec.md §4.6). "Unit" is per-bond
// for CB, per-share for RCPS/CPS.
type unitEconomics struct {
	faceUnit      float64
	redemption    float64 // faceUnit * (1 + premium)
	couponUnit    float64 // per-step coupon/dividend accrual
	participating bool
	cap           float64 // faceUnit * ParticipationCap multiple, +Inf if uncapped
}

func deriveUnitEconomics(kind deal.SecurityKind, ht deal.HybridTerms, dt float64) unitEconomics {
	faceUnit := ht.FaceTotal
	if kind != deal.KindCB {
		faceUnit = ht.FaceTotal / ht.ShareCount
	}
	couponUnit := faceUnit * ht.CouponRate * dt
	if kind != deal.KindCB {
		couponUnit = faceUnit * (ht.CouponRate + ht.DividendRate) * dt
	}
	cap := math.Inf(1)
	if ht.ParticipationCap != nil {
		cap = faceUnit * (*ht.ParticipationCap)
	}
	return unitEconomics{
		faceUnit:      faceUnit,
		redemption:    faceUnit * (1 + ht.RepaymentPremiumRate),
		couponUnit:    couponUnit,
		participating: kind == deal.KindRCPS && ht.ParticipationType == deal.Participating,
		cap:           cap,
	}
}

// PriceTF runs the backward-induction "TF Engine" for RCPS, CB, and CPS
// (spec.md §4.6, §5). It returns the per-unit fair value split into a
// risky-discounted debt-like leg D and a risk-free-discounted equity-like
// leg E, alongside the host DCF value used to impute the embedded
// derivative by subtraction.
func PriceTF(d *deal.Deal, sec deal.Security) (PricingResult, []refixing.Warning, error) {
	ht, kind, err := hybridTermsOf(sec)
	if err != nil {
		return PricingResult{}, nil, err
	}
	common := sec.CommonFields()

	p, err := prepareCommon(d, common)
	if err != nil {
		return PricingResult{}, nil, fmt.Errorf("PriceTF %s: %w", common.Label, err)
	}
	if p.degenerate {
		return degenerateResult(common.Label, p), nil, nil
	}

	schedule, warnings, err := buildRefixing(p, ht.InitialConversionPrice, ht.AntiDilutionType, ht.RefixingFloor, ht.ResetEvents)
	if err != nil {
		return PricingResult{}, warnings, fmt.Errorf("PriceTF %s: %w", common.Label, err)
	}

	callBounds, err := resolveWindowBounds(ht.IssuerCall)
	if err != nil {
		return PricingResult{}, warnings, fmt.Errorf("PriceTF %s: %w", common.Label, err)
	}
	putBounds, err := resolveWindowBounds(ht.HolderPut)
	if err != nil {
		return PricingResult{}, warnings, fmt.Errorf("PriceTF %s: %w", common.Label, err)
	}

	u := deriveUnitEconomics(kind, ht, p.grid.Dt)
	n := p.grid.N
	lp := p.latticeParams

	ratio := func(t int) float64 {
		return schedule.ConversionRatio(t, u.faceUnit, ht.AntiDilutionType, ht.ConversionRatioOverride)
	}

	// Terminal row, t == n.
	sRow := lp.SharePriceRow(p.s0, n)
	dRow := make([]float64, n+1)
	eRow := make([]float64, n+1)
	flagRow := make([]Flag, n+1)
	r := ratio(n)
	hold := u.redemption + u.couponUnit
	for i := 0; i <= n; i++ {
		convBase := sRow[i] * r
		conv := convBase
		flag := FlagMatRedeem
		if u.participating {
			doubleDip := math.Min(hold+convBase, u.cap)
			if doubleDip > convBase {
				conv = doubleDip
				flag = FlagMatParticipate
			}
		}
		if conv > hold {
			if flag != FlagMatParticipate {
				flag = FlagMatConvert
			}
			dRow[i], eRow[i], flagRow[i] = 0, conv, flag
		} else {
			dRow[i], eRow[i], flagRow[i] = hold, 0, FlagMatRedeem
		}
	}

	var nodeLogs []NodeLog
	cfg := sampleCap(n)
	if n <= cfg {
		nodeLogs = appendNodeLogs(nodeLogs, n, sRow, dRow, eRow, flagRow, schedule.CPEff[n])
	}

	for t := n - 1; t >= 0; t-- {
		rf, cs := p.rf[t], p.cs[t]
		q := lp.UpProbability(rf, p.grid.Dt)
		dfRf := math.Exp(-rf * p.grid.Dt)
		dfRisky := math.Exp(-(rf + cs) * p.grid.Dt)

		sRow = lp.SharePriceRow(p.s0, t)
		newD := make([]float64, t+1)
		newE := make([]float64, t+1)
		newFlag := make([]Flag, t+1)
		rt := ratio(t)

		for i := 0; i <= t; i++ {
			dCont := dfRisky*(q*dRow[i+1]+(1-q)*dRow[i]) + u.couponUnit
			eCont := dfRf * (q*eRow[i+1] + (1-q)*eRow[i])
			vHold := dCont + eCont

			nd, ne, flag := dCont, eCont, FlagHold

			conv := sRow[i] * rt
			if conv > vHold {
				nd, ne, flag = 0, conv, FlagConvert
				vHold = conv
			}

			if callBounds.active(p, t) {
				callPrice := callBounds.price
				payoff := math.Max(callPrice, conv)
				if payoff < vHold {
					if conv > callPrice {
						nd, ne, flag = 0, conv, FlagCalledForceConv
					} else {
						nd, ne, flag = callPrice, 0, FlagCalled
					}
					vHold = payoff
				}
			}

			if putBounds.active(p, t) {
				putPrice := putBounds.price
				if putPrice > vHold {
					nd, ne, flag = putPrice, 0, FlagPut
				}
			}

			newD[i], newE[i], newFlag[i] = nd, ne, flag
		}

		dRow, eRow, flagRow = newD, newE, newFlag
		if t <= cfg {
			nodeLogs = appendNodeLogs(nodeLogs, t, sRow, dRow, eRow, flagRow, schedule.CPEff[t])
		}
	}

	hybridUnit := dRow[0] + eRow[0]
	hostUnit := hostUnitValue(p, u.couponUnit, u.redemption)
	derivUnit := hybridUnit - hostUnit

	scale := u.shareCountScale(kind, ht)
	res := PricingResult{
		SecurityLabel:       common.Label,
		FairValueTotal:      hybridUnit * scale,
		FairValueHost:       hostUnit * scale,
		FairValueDeriv:      derivUnit * scale,
		TFDebtComponent:     dRow[0] * scale,
		TFEquityComponent:   eRow[0] * scale,
		NodeLogs:            nodeLogs,
		Meta: Meta{
			Dt:              p.grid.Dt,
			U:               lp.U,
			D:               lp.D,
			N:               n,
			ValuationDate:   p.valuationDate,
			MaturityDate:    p.maturityDate,
			UsedCurveSource: p.curveSource,
			EffCPFinal:      schedule.CPEff[n],
		},
	}
	if derivUnit > 0 {
		res.FairValueDerivAsset = derivUnit * scale
	} else {
		res.FairValueDerivLiab = -derivUnit * scale
	}
	if kind != deal.KindCB {
		res.FairValuePerShare = hybridUnit
	}
	return res, warnings, nil
}

// shareCountScale converts the per-unit value to the security's reporting
// total: per-bond totals for CB need no scaling (FaceTotal already is the
// issue total), per-share totals for RCPS/CPS scale by ShareCount.
func (u unitEconomics) shareCountScale(kind deal.SecurityKind, ht deal.HybridTerms) float64 {
	if kind == deal.KindCB {
		return ht.FaceTotal / u.faceUnit
	}
	return ht.ShareCount
}

func hybridTermsOf(sec deal.Security) (deal.HybridTerms, deal.SecurityKind, error) {
	switch s := sec.(type) {
	case *deal.RCPS:
		return s.HybridTerms, deal.KindRCPS, nil
	case *deal.CPS:
		return s.HybridTerms, deal.KindCPS, nil
	case *deal.CB:
		return s.HybridTerms, deal.KindCB, nil
	default:
		return deal.HybridTerms{}, "", fmt.Errorf("hybridTermsOf: unsupported security type %T", sec)
	}
}

func sampleCap(n int) int {
	cfgCap := config.GetConfig().NodeLogMaxStep
	if cfgCap < n {
		return cfgCap
	}
	return n
}

func appendNodeLogs(logs []NodeLog, t int, s, d, e []float64, flags []Flag, cpEff float64) []NodeLog {
	for i := range s {
		logs = append(logs, NodeLog{Step: t, Index: i, S: s[i], D: d[i], E: e[i], Flag: flags[i], CPEff: cpEff})
	}
	return logs
}
