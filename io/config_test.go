package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gridinterp/math/interpolate"
)

func writeFile(t *testing.T, dir, name, text string) string {
	fname := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))
	return fname
}

func TestExampleConfigs(t *testing.T) {
	wrap, err := ReadConfigString(ExampleStructuredFile)
	require.NoError(t, err)
	assert.Equal(t, "Structured", wrap.Table.Kind)
	assert.Equal(t, []string{"x", "y"}, wrap.Names())
	assert.Equal(t, 1, wrap.Table.Batch)
	assert.Equal(t, "0, 1, 2", wrap.Axis["x"].Points)

	wrap, err = ReadConfigString(ExampleSemiFile)
	require.NoError(t, err)
	assert.Equal(t, "Semi", wrap.Table.Kind)
	assert.Equal(t, []string{"mach", "altitude"}, wrap.Names())
	assert.False(t, wrap.Config().ComputeValueDerivatives)
}

func TestCheckInit(t *testing.T) {
	table := []struct {
		text  string
		valid bool
	}{
		{"[Table]\nValuesFile = v\n[Axis \"x\"]\nDim = 0\nPoints = 0 1", true},
		{"[Table]\nKind = Cubic\nValuesFile = v\n[Axis \"x\"]\nDim = 0\nPoints = 0 1", false},
		{"[Table]\nValuesFile = v", false},
		{"[Table]\n[Axis \"x\"]\nDim = 0\nPoints = 0 1", false},
		{"[Table]\nKind = Semi\n[Axis \"x\"]\nDim = 0", false},
		{"[Table]\nKind = Semi\nPointsFile = p\n[Axis \"x\"]\nDim = 0", true},
		{"[Table]\nKind = Semi\nPointsFile = p\nBatch = 2\n[Axis \"x\"]\nDim = 0", false},
		{"[Table]\nValuesFile = v\nBatch = 0\n[Axis \"x\"]\nDim = 0\nPoints = 0 1", false},
		{"[Table]\nValuesFile = v\nThreads = -1\n[Axis \"x\"]\nDim = 0\nPoints = 0 1", false},
		{"[Table]\nValuesFile = v\n[Axis \"x\"]\nDim = 0", false},
		{"[Table]\nValuesFile = v\n[Axis \"x\"]\nDim = -1\nPoints = 0 1", false},
	}

	for i, test := range table {
		_, err := ReadConfigString(test.text)
		if test.valid {
			assert.NoError(t, err, "%d)", i+1)
		} else {
			assert.Error(t, err, "%d)", i+1)
		}
	}
}

func TestCheckInitDimensions(t *testing.T) {
	table := []string{
		// Duplicate Dim.
		"[Table]\nValuesFile = v\n[Axis \"x\"]\nDim = 0\nPoints = 0 1\n" +
			"[Axis \"y\"]\nDim = 0\nPoints = 0 1",
		// Gap in Dim.
		"[Table]\nValuesFile = v\n[Axis \"x\"]\nDim = 0\nPoints = 0 1\n" +
			"[Axis \"y\"]\nDim = 2\nPoints = 0 1",
		// Conflicting coordinates.
		"[Table]\nValuesFile = v\n[Axis \"x\"]\nDim = 0\nPoints = 0 1\n" +
			"File = x.txt",
		// No axes.
		"[Table]\nValuesFile = v",
	}

	for i, text := range table {
		_, err := ReadConfigString(text)
		assert.ErrorIs(t, err, interpolate.ErrConfig, "%d)", i+1)
	}
}

func TestParseList(t *testing.T) {
	xs, err := ParseList("0, 1.5,2  3e2\t-4")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1.5, 2, 300, -4}, xs)

	_, err = ParseList("0, one")
	assert.Error(t, err)
}

func TestBuildStructuredTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "y.txt", "0\n1\n")
	writeFile(t, dir, "values.txt", "0\n1\n2\n4\n")
	writeFile(t, dir, "query.txt", "0.5 0.5\n1 0\n")
	fname := writeFile(t, dir, "table.cfg", `[Table]
ValuesFile = values.txt
QueryFile = query.txt

[Axis "y"]
Dim = 1
File = y.txt

[Axis "x"]
Dim = 0
Points = 0, 1`)

	wrap, err := ReadConfig(fname)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, wrap.Names())

	grid, err := wrap.Grid()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1}, {0, 1}}, grid)

	tab, err := wrap.BuildTable()
	require.NoError(t, err)
	xs, err := wrap.Queries()
	require.NoError(t, err)
	require.Len(t, xs, 2)

	res := tab.EvalAll(xs, wrap.Table.Threads)
	assert.InDelta(t, 1.75, res[0].Vals[0], 1e-12)
	assert.InDeltaSlice(t, []float64{2.5, 1.5}, res[0].DX[0], 1e-12)
	assert.InDelta(t, 2, res[1].Vals[0], 1e-12)
}

func TestBuildBatchTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "values.txt", "10\n20\n40\n0\n-1\n1\n")
	fname := writeFile(t, dir, "table.cfg", `[Table]
ValuesFile = values.txt
Batch = 2

[Axis "x"]
Dim = 0
Points = 0 1 2`)

	wrap, err := ReadConfig(fname)
	require.NoError(t, err)
	tab, err := wrap.BuildTable()
	require.NoError(t, err)

	res := tab.Eval([]float64{1.5})
	assert.InDeltaSlice(t, []float64{30, 0}, res.Vals, 1e-12)

	_, err = wrap.Queries()
	assert.Error(t, err)
}

func TestBuildSemiTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "points.txt", strings.Join([]string{
		"1 0 3", "1 3 12",
		"0 0 1", "0 2 7",
	}, "\n")+"\n")
	fname := writeFile(t, dir, "table.cfg", `[Table]
Kind = Semi
PointsFile = points.txt
ComputeValueDerivatives = true

[Axis "a"]
Dim = 0

[Axis "b"]
Dim = 1`)

	wrap, err := ReadConfig(fname)
	require.NoError(t, err)
	tab, err := wrap.BuildTable()
	require.NoError(t, err)

	// f(a, b) = 1 + 2a + 3b
	res := tab.Eval([]float64{0.5, 1})
	assert.InDelta(t, 5, res.Vals[0], 1e-12)
	assert.InDeltaSlice(t, []float64{2, 3}, res.DX[0], 1e-12)
	require.NotNil(t, res.DValues)
	assert.Equal(t, []int{2, 3, 0, 1}, res.DValues.Indices)

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, wrap.Names(), res.DValues.Len()))
	require.NoError(t, WriteResults(&buf, [][]float64{{0.5, 1}}, []interpolate.Result{res}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "# Column 0: a", lines[0])
	assert.Equal(t, "# Column 5: d(value)/d(b)", lines[5])
	assert.Len(t, lines, 15)
	assert.Equal(t, "0.5 1 0 5 2 3 2 0.25 3 0.25 0 0.3333333333 1 0.1666666667", lines[14])
}

func TestWriteResultsBatch(t *testing.T) {
	res := interpolate.Result{
		Vals: []float64{1, 2},
		DX:   [][]float64{{0.5}, {-1}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, [][]float64{{3}}, []interpolate.Result{res}))
	assert.Equal(t, "3 0 1 0.5\n3 1 2 -1\n", buf.String())

	assert.Panics(t, func() { WriteResults(&buf, nil, []interpolate.Result{res}) })
}

func TestRows(t *testing.T) {
	assert.Equal(t,
		[][]float64{{1, 3}, {2, 4}},
		Rows([][]float64{{1, 2}, {3, 4}}),
	)
	assert.Nil(t, Rows(nil))
}

func TestRanges(t *testing.T) {
	wrap, err := ReadConfigString(
		"[Table]\nValuesFile = v\n[Axis \"x\"]\nDim = 0\nPoints = 2, -1, 5",
	)
	require.NoError(t, err)
	ranges, err := wrap.Ranges()
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{-1, 5}}, ranges)

	dir := t.TempDir()
	writeFile(t, dir, "points.txt", "1 -2 3\n0 4 1\n1 1 0\n0 0 2\n")
	fname := writeFile(t, dir, "table.cfg",
		"[Table]\nKind = Semi\nPointsFile = points.txt\n"+
			"[Axis \"a\"]\nDim = 0\n[Axis \"b\"]\nDim = 1")
	wrap, err = ReadConfig(fname)
	require.NoError(t, err)
	ranges, err = wrap.Ranges()
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{0, 1}, {-2, 4}}, ranges)
}
