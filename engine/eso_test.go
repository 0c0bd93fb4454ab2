package engine_test

import (
	"testing"

	"github.com/meenmo/hybridlattice/deal"
	"github.com/meenmo/hybridlattice/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseESO() *deal.ESO {
	return &deal.ESO{
		Common: deal.Common{
			S0: 20000, Volatility: 0.35, ValuationDate: "2026-01-01", MaturityDate: "2031-01-01",
			RiskFreeRate: 0.035, Position: deal.PositionHolder,
		},
		OptionCount: 10000, Strike: 20000, VestingEnd: "2028-01-01",
		AnnualExitRate: 0.05, EarlyExerciseMultiple: 2.0,
	}
}

func TestS6ESOPositiveValue(t *testing.T) {
	d := &deal.Deal{ValuationDate: "2026-01-01", SharePriceCurrent: 20000}
	res, err := engine.PriceESO(d, baseESO())
	require.NoError(t, err)
	assert.Greater(t, res.FairValueTotal, 0.0)
	assert.Equal(t, res.FairValueTotal, res.FairValueDeriv)
	assert.Equal(t, 0.0, res.FairValueHost)
}

func TestS6DoublingExitRateDecreasesValue(t *testing.T) {
	d := &deal.Deal{ValuationDate: "2026-01-01", SharePriceCurrent: 20000}

	base := baseESO()
	baseRes, err := engine.PriceESO(d, base)
	require.NoError(t, err)

	doubled := baseESO()
	doubled.AnnualExitRate = base.AnnualExitRate * 2
	doubledRes, err := engine.PriceESO(d, doubled)
	require.NoError(t, err)

	assert.Less(t, doubledRes.FairValueTotal, baseRes.FairValueTotal)
}

func TestS6UnboundedMultipleDoesNotIncreaseValue(t *testing.T) {
	d := &deal.Deal{ValuationDate: "2026-01-01", SharePriceCurrent: 20000}

	base := baseESO()
	baseRes, err := engine.PriceESO(d, base)
	require.NoError(t, err)

	unbounded := baseESO()
	unbounded.EarlyExerciseMultiple = 1e9
	unboundedRes, err := engine.PriceESO(d, unbounded)
	require.NoError(t, err)

	assert.LessOrEqual(t, unboundedRes.FairValueTotal, baseRes.FairValueTotal+1e-6)
}

func TestUnvestedNodesAreFlaggedUnvested(t *testing.T) {
	d := &deal.Deal{ValuationDate: "2026-01-01", SharePriceCurrent: 20000}
	res, err := engine.PriceESO(d, baseESO())
	require.NoError(t, err)

	found := false
	for _, nl := range res.NodeLogs {
		if nl.Flag == engine.FlagUnvested {
			found = true
			break
		}
	}
	assert.True(t, found, "early sampled steps (before vesting) should be flagged UNVESTED")
}
