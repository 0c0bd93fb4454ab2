package daycount_test

import (
	"testing"

	"github.com/meenmo/hybridlattice/daycount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRoundTrip(t *testing.T) {
	got, err := daycount.ParseDate("2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", daycount.FormatDate(got))
}

func TestParseDateInvalid(t *testing.T) {
	_, err := daycount.ParseDate("not-a-date")
	require.Error(t, err)
}

func TestYearFractionACT365F(t *testing.T) {
	start, _ := daycount.ParseDate("2026-01-01")
	end, _ := daycount.ParseDate("2027-01-01")
	assert.InDelta(t, 365.0/365.0, daycount.YearFraction(start, end), 1e-12)
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.23, daycount.RoundTo(1.2345, 2))
	assert.Equal(t, 1.235, daycount.RoundTo(1.23451, 3))
}
