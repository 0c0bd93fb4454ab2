package timegrid_test

import (
	"testing"

	"github.com/meenmo/hybridlattice/daycount"
	"github.com/meenmo/hybridlattice/timegrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWeeklyStrideWithMaturityStub(t *testing.T) {
	val, err := daycount.ParseDate("2026-01-01")
	require.NoError(t, err)
	mat, err := daycount.ParseDate("2026-01-20")
	require.NoError(t, err)

	g := timegrid.Build(val, mat)

	require.Equal(t, val, g.Nodes[0].Date)
	assert.Equal(t, 0.0, g.Nodes[0].Years)
	assert.Equal(t, mat, g.Nodes[g.N].Date)
	assert.Equal(t, g.T, g.Nodes[g.N].Years)
	assert.Equal(t, g.T/float64(g.N), g.Dt)

	// 2026-01-01 -> +7 -> 01-08, +7 -> 01-15, then stub to 01-20: 3 steps.
	assert.Equal(t, 3, g.N)
}

func TestBuildDegenerateFallsBackToMinDt(t *testing.T) {
	val, err := daycount.ParseDate("2026-01-01")
	require.NoError(t, err)

	g := timegrid.Build(val, val)
	assert.Equal(t, 1, g.N)
	assert.InDelta(t, 0.0027, g.Dt, 1e-9)
}

func TestStepIndexAtOrBeforeAndAtOrAfter(t *testing.T) {
	val, _ := daycount.ParseDate("2026-01-01")
	mat, _ := daycount.ParseDate("2026-01-20")
	g := timegrid.Build(val, mat)

	mid, _ := daycount.ParseDate("2026-01-10")
	assert.Equal(t, 1, g.StepIndexAtOrBefore(mid))
	assert.Equal(t, 2, g.StepIndexAtOrAfter(mid))
}

func TestInWindowOpenEnded(t *testing.T) {
	val, _ := daycount.ParseDate("2026-01-01")
	mat, _ := daycount.ParseDate("2026-01-20")
	g := timegrid.Build(val, mat)

	assert.True(t, g.InWindow(0, val, mat, false, false))
	start, _ := daycount.ParseDate("2026-01-08")
	assert.False(t, g.InWindow(0, start, mat, true, false))
	assert.True(t, g.InWindow(1, start, mat, true, false))
}
