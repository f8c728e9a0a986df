package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/phil-mansfield/gridinterp/math/interpolate"
)

// WriteHeader writes the comment lines describing the columns written by
// WriteResults. dvalues is the number of (index, partial) pairs written per
// row, or 0 if value derivatives aren't written.
func WriteHeader(w io.Writer, names []string, dvalues int) error {
	lines := []string{}
	col := 0
	add := func(format string, args ...interface{}) {
		lines = append(lines,
			fmt.Sprintf("# Column %d: %s", col, fmt.Sprintf(format, args...)))
		col++
	}

	for _, name := range names {
		add("%s", name)
	}
	add("table instance")
	add("value")
	for _, name := range names {
		add("d(value)/d(%s)", name)
	}
	for i := 0; i < dvalues; i++ {
		add("stored value index %d", i)
		add("d(value)/d(stored value %d)", i)
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// WriteResults writes one row per query point and table instance: the query
// coordinates, the instance index, the interpolated value, its derivatives
// with respect to the coordinates and, if computed, the sparse derivatives
// with respect to the stored values.
func WriteResults(
	w io.Writer, xs [][]float64, results []interpolate.Result,
) error {
	if len(xs) != len(results) {
		panic(fmt.Sprintf(
			"len(xs) = %d, but len(results) = %d", len(xs), len(results),
		))
	}

	buf := bufio.NewWriter(w)
	for i, res := range results {
		for k := range res.Vals {
			for _, x := range xs[i] {
				fmt.Fprintf(buf, "%.10g ", x)
			}
			fmt.Fprintf(buf, "%d %.10g", k, res.Vals[k])
			for _, d := range res.DX[k] {
				fmt.Fprintf(buf, " %.10g", d)
			}
			if res.DValues != nil {
				for j := range res.DValues.Partials {
					fmt.Fprintf(buf, " %d %.10g",
						res.DValues.Indices[j], res.DValues.Partials[j])
				}
			}
			if _, err := fmt.Fprintln(buf); err != nil {
				return err
			}
		}
	}

	return buf.Flush()
}
