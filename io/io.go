/*package io reads interpolation tables and query points from configuration
files and whitespace-separated column files.
*/
package io

import (
	"fmt"

	"github.com/phil-mansfield/table"
	"github.com/pkg/errors"
)

// ReadColumns reads the first n columns of the text table in fname.
func ReadColumns(fname string, n int) ([][]float64, error) {
	colIdxs := make([]int, n)
	for i := range colIdxs {
		colIdxs[i] = i
	}

	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	if len(cols) != n {
		return nil, fmt.Errorf(
			"Expected %d columns in %s, found %d.", n, fname, len(cols),
		)
	}
	return cols, nil
}

// ReadColumn reads a single column of the text table in fname.
func ReadColumn(fname string, col int) ([]float64, error) {
	cols, err := table.ReadTable(fname, []int{col}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	return cols[0], nil
}

// ReadRows reads the first n columns of the text table in fname and returns
// them row by row.
func ReadRows(fname string, n int) ([][]float64, error) {
	cols, err := ReadColumns(fname, n)
	if err != nil {
		return nil, err
	}
	return Rows(cols), nil
}

// Rows transposes a set of equal-length columns into rows.
func Rows(cols [][]float64) [][]float64 {
	if len(cols) == 0 {
		return nil
	}

	rows := make([][]float64, len(cols[0]))
	buf := make([]float64, len(cols)*len(cols[0]))
	for i := range rows {
		rows[i] = buf[i*len(cols) : (i+1)*len(cols)]
		for j := range cols {
			rows[i][j] = cols[j][i]
		}
	}
	return rows
}
