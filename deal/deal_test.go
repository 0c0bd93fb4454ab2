package deal_test

import (
	"testing"

	"github.com/meenmo/hybridlattice/deal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRCPS() *deal.RCPS {
	return &deal.RCPS{
		Common: deal.Common{
			S0: 10000, Volatility: 0.3, ValuationDate: "2026-01-01",
			MaturityDate: "2031-01-01", Position: deal.PositionHolder,
		},
		HybridTerms: deal.HybridTerms{
			FaceTotal: 1_000_000_000, ShareCount: 100_000,
			InitialConversionPrice: 10000, AntiDilutionType: deal.AntiDilutionNone,
		},
	}
}

func TestRCPSValidatePasses(t *testing.T) {
	require.NoError(t, validRCPS().Validate())
}

func TestRCPSValidateRejectsZeroShareCount(t *testing.T) {
	s := validRCPS()
	s.ShareCount = 0
	assert.Error(t, s.Validate())
}

func TestCBValidateDoesNotRequireShareCount(t *testing.T) {
	cb := &deal.CB{
		Common: deal.Common{
			S0: 10000, ValuationDate: "2026-01-01", MaturityDate: "2031-01-01",
			Position: deal.PositionIssuer,
		},
		HybridTerms: deal.HybridTerms{
			FaceTotal: 1_000_000_000, InitialConversionPrice: 10000,
			AntiDilutionType: deal.AntiDilutionNone,
		},
	}
	assert.NoError(t, cb.Validate())
}

func TestCommonValidateRejectsBadPosition(t *testing.T) {
	s := validRCPS()
	s.Position = "LONG"
	assert.Error(t, s.Validate())
}

func TestHybridTermsValidateRejectsUnknownAntiDilution(t *testing.T) {
	s := validRCPS()
	s.AntiDilutionType = "BAD"
	assert.Error(t, s.Validate())
}

func TestESOValidateRequiresPositiveStrike(t *testing.T) {
	eso := &deal.ESO{
		Common: deal.Common{
			S0: 10000, Volatility: 0.3, ValuationDate: "2026-01-01",
			MaturityDate: "2031-01-01", Position: deal.PositionHolder,
		},
		OptionCount: 1000, Strike: 0,
	}
	assert.Error(t, eso.Validate())
}

func TestDealValidateRequiresAtLeastOneSecurity(t *testing.T) {
	d := &deal.Deal{ValuationDate: "2026-01-01"}
	assert.Error(t, d.Validate())
}

func TestDealValidatePasses(t *testing.T) {
	d := &deal.Deal{
		ValuationDate:     "2026-01-01",
		SharePriceCurrent: 10000,
		Securities:        []deal.Security{validRCPS()},
	}
	assert.NoError(t, d.Validate())
}
