package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlend(t *testing.T) {
	lo := leafDeriv(0, 1, 0.25)
	hi := leafDeriv(5, 7, 0.5)

	vd := blend(lo, hi, 0.2)
	assert.Equal(t, []int{0, 1, 5, 7}, vd.Indices)
	assert.InDeltaSlice(t, []float64{0.6, 0.2, 0.1, 0.1}, vd.Partials, 1e-12)
	assert.Equal(t, 4, vd.Len())

	// Inputs are left alone.
	assert.Equal(t, []float64{0.75, 0.25}, lo.Partials)
	assert.Equal(t, []int{5, 7}, hi.Indices)
}

func TestValueDerivDense(t *testing.T) {
	vd := &ValueDeriv{
		Partials: []float64{0.5, 0.25, 0.25, 1},
		Indices:  []int{2, 0, 2, 3},
	}
	assert.Equal(t, []float64{0.25, 0, 0.75, 1}, vd.Dense(4))

	out := []float64{1, 1, 1, 1, 1}
	vd.Dense(5, out)
	assert.Equal(t, []float64{1.25, 1, 1.75, 2, 1}, out)

	assert.Panics(t, func() { vd.Dense(3) })
}
