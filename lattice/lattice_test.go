package lattice_test

import (
	"math"
	"testing"

	"github.com/meenmo/hybridlattice/lattice"
	"github.com/stretchr/testify/assert"
)

func TestBuildUDIdentity(t *testing.T) {
	p := lattice.Build(0.3, 0.25)
	assert.InDelta(t, 1.0, p.U*p.D, 1e-12)
	assert.Greater(t, p.U, 1.0)
}

func TestUpProbabilityInUnitInterval(t *testing.T) {
	p := lattice.Build(0.3, 0.25)
	q := p.UpProbability(0.03, 0.25)
	assert.Greater(t, q, 0.0)
	assert.Less(t, q, 1.0)
}

func TestSharePriceRowEndpoints(t *testing.T) {
	p := lattice.Build(0.3, 0.25)
	row := p.SharePriceRow(100, 3)
	assert.Len(t, row, 4)
	assert.InDelta(t, 100*math.Pow(p.D, 3), row[0], 1e-9)
	assert.InDelta(t, 100*math.Pow(p.U, 3), row[3], 1e-9)
}
