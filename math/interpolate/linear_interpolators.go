package interpolate

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

///////////////////////////
// Linear Implementation //
///////////////////////////

// Linear is a multilinear interpolator on a structured grid. Each Linear
// handles one dimension and owns a single sub-node for the next dimension,
// which is shared by every interval of its axis.
type Linear struct {
	axis    []float64
	vals    *Values
	stride  int
	dims    int
	sub     *Linear
	bracket BracketFunc
}

// NewLinear creates a linear interpolator over the grid given by one axis per
// dimension. The trailing axes of vals must match the lengths of the grid
// axes, and any leading axes are treated as independent table instances.
//
// grid and vals must not be modified throughout the lifetime of the Linear.
func NewLinear(grid [][]float64, vals *Values, cfg Config) (*Linear, error) {
	if len(grid) == 0 {
		return nil, errors.Wrap(ErrShape, "grid has no dimensions")
	}
	for i, axis := range grid {
		if err := CheckAxis(axis); err != nil {
			return nil, errors.Wrapf(err, "grid dimension %d", i)
		}
	}
	if err := vals.checkGrid(grid); err != nil {
		return nil, err
	}

	return newLinear(grid, vals, len(vals.Shape)-len(grid), cfg.bracket()), nil
}

func newLinear(
	grid [][]float64, vals *Values, valAxis int, bracket BracketFunc,
) *Linear {
	lin := &Linear{
		axis:    grid[0],
		vals:    vals,
		stride:  vals.strides[valAxis],
		dims:    len(grid),
		bracket: bracket,
	}
	if len(grid) > 1 {
		lin.sub = newLinear(grid[1:], vals, valAxis+1, bracket)
	}
	return lin
}

// Dims returns the number of dimensions handled by lin and its sub-nodes.
func (lin *Linear) Dims() int { return lin.dims }

// Axis returns the grid coordinates along lin's dimension.
func (lin *Linear) Axis() []float64 { return lin.axis }

// Values returns the array lin interpolates over.
func (lin *Linear) Values() *Values { return lin.vals }

// Eval interpolates every table instance at x.
func (lin *Linear) Eval(x []float64) Result {
	return lin.Evaluate(x, lin.vals.All(lin.dims))
}

// EvalInstance interpolates the table instance at the given position along
// the leading batch axes of the values.
func (lin *Linear) EvalInstance(x []float64, batch ...int) Result {
	return lin.Evaluate(x, lin.vals.Instance(lin.dims, batch...))
}

// Evaluate brackets x[0] on lin's axis and interpolates the slabs in sel at x.
func (lin *Linear) Evaluate(x []float64, sel Selector) Result {
	lin.checkPoint(x)
	idx, _ := lin.bracket(lin.axis, x[0])
	return lin.Interpolate(x, idx, sel)
}

// Interpolate interpolates the slabs in sel at x, where idx is the bracket
// index of x[0] on lin's axis. Result.DValues and Result.DGrid are always
// nil.
//
// Interpolate panics if idx is not a valid bracket index, if len(x) is not
// Dims(), or if sel reaches outside the values.
func (lin *Linear) Interpolate(x []float64, idx int, sel Selector) Result {
	lin.checkPoint(x)
	lin.checkSelector(sel)
	vals, derivs := lin.interpolate(x, idx, sel)
	return Result{Vals: vals, DX: derivs}
}

func (lin *Linear) evaluate(x []float64, sel Selector) ([]float64, [][]float64) {
	idx, _ := lin.bracket(lin.axis, x[0])
	return lin.interpolate(x, idx, sel)
}

func (lin *Linear) interpolate(
	x []float64, idx int, sel Selector,
) ([]float64, [][]float64) {
	// Extrapolate high.
	idx = clampBracket(lin.axis, idx)

	h := 1 / (lin.axis[idx+1] - lin.axis[idx])
	dx0 := x[0] - lin.axis[idx]

	vals := make([]float64, len(sel))
	derivs := make([][]float64, len(sel))

	if lin.sub == nil {
		data := lin.vals.Data
		for i, off := range sel {
			lo := off + idx*lin.stride
			v1, v2 := data[lo], data[lo+lin.stride]
			slope := (v2 - v1) * h

			vals[i] = v1 + dx0*slope
			derivs[i] = []float64{slope}
		}
		return vals, derivs
	}

	// Interpolate the low and high slabs of every selected table in a single
	// call to the sub-node: slab 2i is low and slab 2i+1 is high.
	subSel := make(Selector, 2*len(sel))
	for i, off := range sel {
		subSel[2*i] = off + idx*lin.stride
		subSel[2*i+1] = off + (idx+1)*lin.stride
	}
	subVals, subDerivs := lin.sub.evaluate(x[1:], subSel)

	for i := range sel {
		lo, hi := subVals[2*i], subVals[2*i+1]
		dLo, dHi := subDerivs[2*i], subDerivs[2*i+1]
		slope := (hi - lo) * h

		d := make([]float64, len(x))
		d[0] = slope

		// The slope itself depends on the deeper coordinates.
		deep := d[1:]
		floats.SubTo(deep, dHi, dLo)
		floats.Scale(dx0*h, deep)
		floats.Add(deep, dLo)

		vals[i] = lo + dx0*slope
		derivs[i] = d
	}

	return vals, derivs
}

func (lin *Linear) checkPoint(x []float64) {
	if len(x) != lin.dims {
		panic(fmt.Sprintf(
			"Query point has %d coordinates, but the grid has %d dimensions.",
			len(x), lin.dims,
		))
	}
}

func (lin *Linear) checkSelector(sel Selector) {
	slab := lin.stride * len(lin.axis)
	for i, off := range sel {
		if off < 0 || off+slab > len(lin.vals.Data) {
			panic(fmt.Sprintf(
				"Selector offset %d = %d reaches outside values of length %d.",
				i, off, len(lin.vals.Data),
			))
		}
	}
}
