package interpolate

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

///////////////////////////////
// LinearSemi Implementation //
///////////////////////////////

// LinearSemi is a multilinear interpolator on a semi-structured grid. Each
// point along a LinearSemi's axis owns its own sub-node, so the grids of the
// remaining dimensions may differ from branch to branch.
type LinearSemi struct {
	axis []float64
	dims int

	// Only set for the last dimension. idx maps axis points to flat indices
	// in vals.
	vals []float64
	idx  []int

	subs []*LinearSemi

	computeDValues bool
	bracket        BracketFunc
}

// NewLinearSemi creates a linear interpolator for scattered points which lie
// on a semi-structured grid. points[i] holds the coordinates of the stored
// value vals[i]. Points may be given in any order.
//
// Every axis in the resulting tree, including the axis of each branch, needs
// at least two distinct points. ValueDeriv.Indices index into vals.
//
// points and vals must not be modified throughout the lifetime of the
// LinearSemi.
func NewLinearSemi(
	points [][]float64, vals []float64, cfg Config,
) (*LinearSemi, error) {
	if len(points) != len(vals) {
		return nil, errors.Wrapf(
			ErrShape, "len(points) = %d, but len(vals) = %d",
			len(points), len(vals),
		)
	} else if len(points) == 0 {
		return nil, errors.Wrap(ErrAxisLength, "no points given")
	}

	dims := len(points[0])
	if dims == 0 {
		return nil, errors.Wrap(ErrShape, "points have no coordinates")
	}
	for i, pt := range points {
		if len(pt) != dims {
			return nil, errors.Wrapf(
				ErrShape, "point %d has %d coordinates, but point 0 has %d",
				i, len(pt), dims,
			)
		}
		for j, x := range pt {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, errors.Wrapf(
					ErrAxisOrder, "coordinate %d of point %d is %g", j, i, x,
				)
			}
		}
	}

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return comparePoints(points[order[i]], points[order[j]]) < 0
	})
	for i := 1; i < len(order); i++ {
		if comparePoints(points[order[i-1]], points[order[i]]) == 0 {
			return nil, errors.Wrapf(
				ErrConfig, "points %d and %d are both at %v",
				order[i-1], order[i], points[order[i]],
			)
		}
	}

	return buildSemi(points, vals, order, 0, cfg.ComputeValueDerivatives,
		cfg.bracket())
}

// buildSemi builds the node for dimension dim over the points in order,
// which are sorted and share their first dim coordinates.
func buildSemi(
	points [][]float64, vals []float64, order []int, dim int,
	computeDValues bool, bracket BracketFunc,
) (*LinearSemi, error) {
	dims := len(points[order[0]])
	semi := &LinearSemi{
		dims:           dims - dim,
		computeDValues: computeDValues,
		bracket:        bracket,
	}

	// Group the points by their coordinate along this dimension.
	groups := [][]int{}
	for i, j := range order {
		x := points[j][dim]
		if i == 0 || x != semi.axis[len(semi.axis)-1] {
			semi.axis = append(semi.axis, x)
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], j)
	}

	if len(semi.axis) < 2 {
		return nil, errors.Wrapf(
			ErrAxisLength, "dimension %d at %v has %d distinct points, "+
				"but needs at least 2", dim, points[order[0]][:dim],
			len(semi.axis),
		)
	}

	if dim == dims-1 {
		semi.vals = vals
		semi.idx = make([]int, len(groups))
		for i, g := range groups {
			semi.idx[i] = g[0]
		}
		return semi, nil
	}

	semi.subs = make([]*LinearSemi, len(groups))
	for i, g := range groups {
		sub, err := buildSemi(points, vals, g, dim+1, computeDValues, bracket)
		if err != nil {
			return nil, err
		}
		semi.subs[i] = sub
	}

	return semi, nil
}

func comparePoints(p1, p2 []float64) int {
	for i := range p1 {
		if p1[i] < p2[i] {
			return -1
		} else if p1[i] > p2[i] {
			return +1
		}
	}
	return 0
}

// Dims returns the number of dimensions handled by semi and its sub-nodes.
func (semi *LinearSemi) Dims() int { return semi.dims }

// Axis returns the grid coordinates along semi's dimension.
func (semi *LinearSemi) Axis() []float64 { return semi.axis }

// Sub returns the sub-node owned by the i-th point of semi's axis, or nil if
// semi handles the last dimension.
func (semi *LinearSemi) Sub(i int) *LinearSemi {
	if semi.subs == nil {
		return nil
	}
	return semi.subs[i]
}

// Eval interpolates the table at x.
func (semi *LinearSemi) Eval(x []float64) Result {
	val, dx, dvalue := semi.Evaluate(x)
	return Result{Vals: []float64{val}, DX: [][]float64{dx}, DValues: dvalue}
}

// Evaluate brackets x[0] on semi's axis and interpolates the table at x. It
// returns the interpolated value, its derivative with respect to each
// coordinate of x and, if value derivatives were requested at construction,
// its derivative with respect to the stored values. Otherwise the last
// return value is nil.
//
// Evaluate panics if len(x) is not Dims().
func (semi *LinearSemi) Evaluate(x []float64) (float64, []float64, *ValueDeriv) {
	if len(x) != semi.dims {
		panic(fmt.Sprintf(
			"Query point has %d coordinates, but the grid has %d dimensions.",
			len(x), semi.dims,
		))
	}
	return semi.evaluate(x)
}

// Interpolate is identical to Evaluate, except that idx is the already
// computed bracket index of x[0] on semi's axis.
func (semi *LinearSemi) Interpolate(
	x []float64, idx int,
) (float64, []float64, *ValueDeriv) {
	if len(x) != semi.dims {
		panic(fmt.Sprintf(
			"Query point has %d coordinates, but the grid has %d dimensions.",
			len(x), semi.dims,
		))
	}
	return semi.interpolate(x, idx)
}

func (semi *LinearSemi) evaluate(x []float64) (float64, []float64, *ValueDeriv) {
	idx, _ := semi.bracket(semi.axis, x[0])
	return semi.interpolate(x, idx)
}

func (semi *LinearSemi) interpolate(
	x []float64, idx int,
) (float64, []float64, *ValueDeriv) {
	// Extrapolate high.
	idx = clampBracket(semi.axis, idx)

	h := 1 / (semi.axis[idx+1] - semi.axis[idx])
	dx0 := x[0] - semi.axis[idx]
	t := dx0 * h

	if semi.subs == nil {
		i1, i2 := semi.idx[idx], semi.idx[idx+1]
		v1, v2 := semi.vals[i1], semi.vals[i2]
		slope := (v2 - v1) * h

		var dvalue *ValueDeriv
		if semi.computeDValues {
			dvalue = leafDeriv(i1, i2, t)
		}
		return v1 + dx0*slope, []float64{slope}, dvalue
	}

	// The branches may have different grids, so each is evaluated with its
	// own sub-node.
	hi, dHi, dvHi := semi.subs[idx+1].evaluate(x[1:])
	lo, dLo, dvLo := semi.subs[idx].evaluate(x[1:])
	slope := (hi - lo) * h

	derivs := make([]float64, len(x))
	derivs[0] = slope

	// The slope itself depends on the deeper coordinates.
	deep := derivs[1:]
	floats.SubTo(deep, dHi, dLo)
	floats.Scale(t, deep)
	floats.Add(deep, dLo)

	var dvalue *ValueDeriv
	if semi.computeDValues {
		dvalue = blend(dvLo, dvHi, t)
	}

	return lo + dx0*slope, derivs, dvalue
}
