package interpolate

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrAxisOrder is the cause of errors for axes which are not finite and
	// strictly increasing.
	ErrAxisOrder = errors.New("axis not strictly increasing")
	// ErrAxisLength is the cause of errors for axes with fewer than two
	// points.
	ErrAxisLength = errors.New("axis too short")
	// ErrShape is the cause of errors for values which don't match the
	// shape of their grid.
	ErrShape = errors.New("values inconsistent with grid")
	// ErrConfig is the cause of errors for duplicate or conflicting
	// dimension configuration.
	ErrConfig = errors.New("conflicting dimension configuration")
)

// Extrapolation reports where a coordinate lies relative to an axis.
type Extrapolation int

const (
	Inside Extrapolation = iota
	Below
	Above
)

func (ext Extrapolation) String() string {
	switch ext {
	case Inside:
		return "Inside"
	case Below:
		return "Below"
	case Above:
		return "Above"
	}
	return fmt.Sprintf("Extrapolation(%d)", int(ext))
}

// BracketFunc finds the interval of a strictly increasing axis which contains
// x. See Bracket for the contract.
type BracketFunc func(axis []float64, x float64) (int, Extrapolation)

// Bracket returns the index of the left edge of the interval of axis
// containing x, along with a flag saying whether x lies outside the axis.
//
// Coordinates below the axis return 0 and coordinates at or above the last
// point return len(axis) - 1. Nodes clamp the latter onto the last interval,
// so both ends are extrapolated linearly.
//
// Lookups will occur in O(log |axis|), or O(1) if the axis is close to
// uniform. Bracket panics on NaN.
func Bracket(axis []float64, x float64) (int, Extrapolation) {
	n := len(axis)
	if math.IsNaN(x) {
		panic(fmt.Sprintf(
			"Cannot bracket NaN on axis [%g, %g].", axis[0], axis[n-1],
		))
	}

	if x < axis[0] {
		return 0, Below
	} else if x > axis[n-1] {
		return n - 1, Above
	} else if x == axis[n-1] {
		return n - 1, Inside
	}

	// Guess under the assumption of uniform spacing.
	dx := (axis[n-1] - axis[0]) / float64(n-1)
	guess := int((x - axis[0]) / dx)
	if guess >= 0 && guess < n-1 && axis[guess] <= x && x < axis[guess+1] {
		return guess, Inside
	}

	// Binary search.
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= axis[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo, Inside
}

// CheckAxis returns an error if axis has fewer than two points or is not
// finite and strictly increasing.
func CheckAxis(axis []float64) error {
	if len(axis) < 2 {
		return errors.Wrapf(
			ErrAxisLength, "axis has %d points, but needs at least 2",
			len(axis),
		)
	}

	for i, x := range axis {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errors.Wrapf(ErrAxisOrder, "axis[%d] = %g", i, x)
		}
		if i > 0 && x <= axis[i-1] {
			return errors.Wrapf(
				ErrAxisOrder, "axis[%d] = %g, but axis[%d] = %g",
				i, x, i-1, axis[i-1],
			)
		}
	}

	return nil
}

// clampBracket moves a bracket index at the last axis point onto the last
// interval, so points above the axis use its slope. Panics if idx is not a
// valid bracket index.
func clampBracket(axis []float64, idx int) int {
	if idx == len(axis)-1 {
		idx--
	}
	if idx < 0 || idx > len(axis)-2 {
		panic(fmt.Sprintf(
			"Bracket index %d out of range [0, %d] for axis of length %d.",
			idx, len(axis)-2, len(axis),
		))
	}
	return idx
}
