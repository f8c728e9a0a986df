package interpolate

import (
	"fmt"

	"github.com/pkg/errors"
)

// Values is a dense, row-major array of table values. The trailing axes of
// Shape correspond to the grid dimensions and any leading axes index
// independent table instances which share the same grid.
type Values struct {
	Data  []float64
	Shape []int

	strides []int
}

// Selector lists the flat offsets into Values.Data of the slabs being
// interpolated. Each slab spans the dimensions a node and its sub-nodes
// handle.
type Selector []int

// NewValues wraps data in a Values array with the given shape. data must not
// be modified throughout the lifetime of any table built from it.
func NewValues(data []float64, shape ...int) (*Values, error) {
	if len(shape) == 0 {
		return nil, errors.Wrap(ErrShape, "values need at least one axis")
	}

	n := 1
	for i, s := range shape {
		if s <= 0 {
			return nil, errors.Wrapf(
				ErrShape, "values axis %d has non-positive length %d", i, s,
			)
		}
		n *= s
	}
	if n != len(data) {
		return nil, errors.Wrapf(
			ErrShape, "len(data) = %d, but shape %v holds %d values",
			len(data), shape, n,
		)
	}

	vals := &Values{Data: data, Shape: shape}
	vals.strides = make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		vals.strides[i] = stride
		stride *= shape[i]
	}

	return vals, nil
}

// Dims returns the number of axes in the array.
func (vals *Values) Dims() int { return len(vals.Shape) }

// Strides returns the distance in Data between adjacent elements along each
// axis.
func (vals *Values) Strides() []int { return vals.strides }

// Instances returns the number of table instances in the array when its
// trailing gridDims axes are the grid.
func (vals *Values) Instances(gridDims int) int {
	n := 1
	for _, s := range vals.Shape[:vals.batchDims(gridDims)] {
		n *= s
	}
	return n
}

// All returns a Selector covering every table instance in the array.
func (vals *Values) All(gridDims int) Selector {
	n := vals.Instances(gridDims)
	slab := vals.slabSize(gridDims)
	sel := make(Selector, n)
	for i := range sel {
		sel[i] = i * slab
	}
	return sel
}

// Instance returns a Selector for the table instance at the given position
// along the leading batch axes.
//
// Panics if the position is not inside the batch shape.
func (vals *Values) Instance(gridDims int, batch ...int) Selector {
	nb := vals.batchDims(gridDims)
	if len(batch) != nb {
		panic(fmt.Sprintf(
			"Values have %d batch axes, but %d indices were given.",
			nb, len(batch),
		))
	}

	off := 0
	for i, b := range batch {
		if b < 0 || b >= vals.Shape[i] {
			panic(fmt.Sprintf(
				"Batch index %d = %d out of range [0, %d).",
				i, b, vals.Shape[i],
			))
		}
		off += b * vals.strides[i]
	}
	return Selector{off}
}

func (vals *Values) batchDims(gridDims int) int {
	nb := len(vals.Shape) - gridDims
	if nb < 0 {
		panic(fmt.Sprintf(
			"Values have %d axes, fewer than the %d grid dimensions.",
			len(vals.Shape), gridDims,
		))
	}
	return nb
}

func (vals *Values) slabSize(gridDims int) int {
	nb := vals.batchDims(gridDims)
	if nb == 0 {
		return len(vals.Data)
	}
	return vals.strides[nb-1]
}

// checkGrid returns an error if the trailing axes of vals don't match the
// lengths of the grid axes.
func (vals *Values) checkGrid(grid [][]float64) error {
	nb := len(vals.Shape) - len(grid)
	if nb < 0 {
		return errors.Wrapf(
			ErrShape, "values have %d axes, but the grid has %d dimensions",
			len(vals.Shape), len(grid),
		)
	}
	for i, axis := range grid {
		if vals.Shape[nb+i] != len(axis) {
			return errors.Wrapf(
				ErrShape, "values axis %d has length %d, but grid axis %d "+
					"has %d points", nb+i, vals.Shape[nb+i], i, len(axis),
			)
		}
	}
	return nil
}
