package interpolate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ValueDeriv is a sparse derivative of an interpolated value with respect to
// the stored table values. Partials[i] is the derivative with respect to the
// stored value at flat index Indices[i].
//
// An index may appear more than once. The full derivative is the sum of all
// of its partials, which is what Dense computes.
type ValueDeriv struct {
	Partials []float64
	Indices  []int
}

// Len returns the number of stored entries touched.
func (vd *ValueDeriv) Len() int { return len(vd.Partials) }

// Dense scatters the partials into a dense gradient over n stored values.
// If an output array is given, the output is added to that array (the array
// is still returned as a convenience).
func (vd *ValueDeriv) Dense(n int, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, n)}
	}
	for i, j := range vd.Indices {
		if j < 0 || j >= n {
			panic(fmt.Sprintf("Stored index %d out of range [0, %d).", j, n))
		}
		out[0][j] += vd.Partials[i]
	}
	return out[0]
}

// leafDeriv is the derivative of a linear blend between two stored values
// with weights 1 - t and t.
func leafDeriv(lo, hi int, t float64) *ValueDeriv {
	return &ValueDeriv{
		Partials: []float64{1 - t, t},
		Indices:  []int{lo, hi},
	}
}

// blend combines the derivatives of the low and high branches of a node.
// The branches generally reference different stored values, so the results
// are concatenated rather than summed.
func blend(lo, hi *ValueDeriv, t float64) *ValueDeriv {
	nlo, nhi := len(lo.Partials), len(hi.Partials)
	out := &ValueDeriv{
		Partials: make([]float64, nlo+nhi),
		Indices:  make([]int, 0, nlo+nhi),
	}

	floats.ScaleTo(out.Partials[:nlo], 1-t, lo.Partials)
	floats.ScaleTo(out.Partials[nlo:], t, hi.Partials)
	out.Indices = append(out.Indices, lo.Indices...)
	out.Indices = append(out.Indices, hi.Indices...)

	return out
}
