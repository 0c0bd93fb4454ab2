package aggregate_test

import (
	"testing"

	"github.com/meenmo/hybridlattice/aggregate"
	"github.com/meenmo/hybridlattice/config"
	"github.com/meenmo/hybridlattice/daycount"
	"github.com/meenmo/hybridlattice/deal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightCB(position deal.Position) *deal.CB {
	return &deal.CB{
		Common: deal.Common{
			S0: 10, Volatility: 0.35, ValuationDate: "2026-01-01", MaturityDate: "2029-01-01",
			RiskFreeRate: 0.035, CreditSpread: 0.02, Position: position,
		},
		HybridTerms: deal.HybridTerms{
			FaceTotal: 1_000_000_000, CouponRate: 0.02, RepaymentPremiumRate: 0.05,
			InitialConversionPrice: 20000, AntiDilutionType: deal.AntiDilutionNone,
		},
	}
}

func TestAggregateSingleSecurityRunIDAssigned(t *testing.T) {
	d := &deal.Deal{
		DealName: "test-deal", ValuationDate: "2026-01-01", SharePriceCurrent: 10,
		UnderlyingNumShares: 100_000,
		Securities:          []deal.Security{straightCB(deal.PositionHolder)},
	}

	res, err := aggregate.Aggregate(d)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Failures)
	require.Len(t, res.Securities, 1)
	// The deal total is rounded to MoneyRoundingDecimals; the per-security
	// total is reported unrounded.
	decimals := config.GetConfig().MoneyRoundingDecimals
	assert.Equal(t, daycount.RoundTo(res.Securities[0].FairValueTotal, decimals), res.FairValueTotal)
}

func TestAggregateAssetLiabilitySplitMatchesSignedTotal(t *testing.T) {
	d := &deal.Deal{
		ValuationDate: "2026-01-01", SharePriceCurrent: 10,
		Securities: []deal.Security{straightCB(deal.PositionIssuer)},
	}

	res, err := aggregate.Aggregate(d)
	require.NoError(t, err)
	assert.InDelta(t, res.FairValueAsset-res.FairValueLiability, res.FairValueTotal, 1e-6)
	assert.Less(t, res.FairValueTotal, 0.0, "issuer position on a positive-value bond is a liability")
}

func TestAggregateIssuerDerivativeFlipsToLiability(t *testing.T) {
	d := &deal.Deal{
		ValuationDate: "2026-01-01", SharePriceCurrent: 60000,
		Securities: []deal.Security{&deal.RCPS{
			Common: deal.Common{
				S0: 60000, Volatility: 0.35, ValuationDate: "2026-01-01", MaturityDate: "2029-01-01",
				RiskFreeRate: 0.035, CreditSpread: 0.02, Position: deal.PositionIssuer,
			},
			HybridTerms: deal.HybridTerms{
				FaceTotal: 1_000_000_000, ShareCount: 100_000, CouponRate: 0.02,
				RepaymentPremiumRate: 0.05, InitialConversionPrice: 20000,
				AntiDilutionType: deal.AntiDilutionNone,
			},
		}},
	}

	res, err := aggregate.Aggregate(d)
	require.NoError(t, err)
	require.Len(t, res.Securities, 1)

	sec := res.Securities[0]
	require.Greater(t, sec.FairValueDeriv, 0.0, "deep ITM RCPS should carry positive embedded-derivative value")

	// An issuer holding a positive-value embedded derivative owes it: it
	// must land in DerivLiab, not DerivAsset, and the asset/liability
	// split must still net to the security's signed derivative value.
	assert.Zero(t, res.DerivAsset)
	assert.Greater(t, res.DerivLiab, 0.0)
	assert.InDelta(t, res.DerivAsset-res.DerivLiab, -sec.FairValueDeriv, 1.0)
}

func TestAggregateIsolatesAFailingSecurity(t *testing.T) {
	good := straightCB(deal.PositionHolder)
	bad := &deal.CB{} // missing every required field; Validate() will reject it

	d := &deal.Deal{
		ValuationDate: "2026-01-01", SharePriceCurrent: 10,
		Securities: []deal.Security{good, bad},
	}

	res, err := aggregate.Aggregate(d)
	require.NoError(t, err)
	require.Len(t, res.Securities, 1)
	require.Len(t, res.Failures, 1)
}

func TestAggregatePricePerShareComputed(t *testing.T) {
	d := &deal.Deal{
		ValuationDate: "2026-01-01", SharePriceCurrent: 10,
		UnderlyingNumShares: 1000,
		Securities:          []deal.Security{straightCB(deal.PositionHolder)},
	}
	res, err := aggregate.Aggregate(d)
	require.NoError(t, err)
	decimals := config.GetConfig().MoneyRoundingDecimals
	assert.InDelta(t, daycount.RoundTo(res.FairValueTotal/1000, decimals), res.PricePerShare, 1e-6)
}
