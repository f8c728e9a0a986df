package io

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gridinterp/math/interpolate"
)

const (
	ExampleStructuredFile = `[Table]

#######################
# Required Parameters #
#######################

# Kind is either Structured or Semi. Structured tables are full Cartesian
# grids: every dimension has a single axis, given by the [Axis] sections
# below.
Kind = Structured

# File containing the table values, one per line (only the first column is
# read). Values are in row-major order: the last axis varies fastest. If Batch
# is larger than 1, the file holds Batch tables one after another.
ValuesFile = path/to/values.txt

# File containing the points to evaluate the table at, one point per line with
# one column per dimension.
QueryFile = path/to/query.txt

#######################
# Optional Parameters #
#######################

# Number of independent tables stored in ValuesFile which share the same grid.
# All of them are evaluated at every query point. Default is 1.
# Batch = 1

# Number of threads used to evaluate query points. 0 means one per logical
# core. Default is 1.
# Threads = 1

# One [Axis] section per dimension. Dim gives the position of the axis in the
# grid, starting from 0. Grid coordinates are given either inline as a comma
# or space separated list with Points, or in a one-column file with File.
# Relative paths are relative to this file.

[Axis "x"]
Dim = 0
Points = 0, 1, 2

[Axis "y"]
Dim = 1
File = path/to/y_axis.txt`

	ExampleSemiFile = `[Table]

#######################
# Required Parameters #
#######################

# Semi tables are semi-structured grids, where the grid of the trailing
# dimensions may be different at each point along the leading dimensions.
Kind = Semi

# File containing the scattered table points, one per line. The first columns
# are the coordinates of the point (one per [Axis] section) and the last
# column is the stored value. Points may be in any order.
PointsFile = path/to/points.txt

# File containing the points to evaluate the table at, one point per line with
# one column per dimension.
QueryFile = path/to/query.txt

#######################
# Optional Parameters #
#######################

# Also compute the derivative of every interpolated value with respect to the
# stored values. Default is false.
# ComputeValueDerivatives = true

# Threads = 1

# For Semi tables, [Axis] sections only name the dimensions. Points and File
# are ignored.

[Axis "mach"]
Dim = 0

[Axis "altitude"]
Dim = 1`
)

// TableConfig is the [Table] section of a configuration file.
type TableConfig struct {
	Kind       string
	ValuesFile string
	PointsFile string
	QueryFile  string

	Batch                   int
	ComputeValueDerivatives bool
	Threads                 int
}

// AxisConfig is an [Axis "name"] section of a configuration file.
type AxisConfig struct {
	// Required
	Dim int

	// Optional
	Points string
	File   string

	Name string
}

// Wrapper holds every section of a configuration file.
type Wrapper struct {
	Table TableConfig
	Axis  map[string]*AxisConfig

	dir string
}

// DefaultWrapper returns a Wrapper with all optional values set to their
// defaults.
func DefaultWrapper() *Wrapper {
	cfg := TableConfig{Kind: "Structured", Batch: 1, Threads: 1}
	return &Wrapper{Table: cfg}
}

// ReadConfig reads and checks the configuration file fname. Relative paths in
// the file are taken relative to the file's directory.
func ReadConfig(fname string) (*Wrapper, error) {
	wrap := DefaultWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", fname)
	}
	wrap.dir = filepath.Dir(fname)

	if err := wrap.CheckInit(); err != nil {
		return nil, errors.Wrapf(err, "config file %s", fname)
	}
	return wrap, nil
}

// ReadConfigString is identical to ReadConfig, except that the configuration
// is given as text and relative paths are taken relative to the working
// directory.
func ReadConfigString(text string) (*Wrapper, error) {
	wrap := DefaultWrapper()
	if err := gcfg.ReadStringInto(wrap, text); err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	if err := wrap.CheckInit(); err != nil {
		return nil, err
	}
	return wrap, nil
}

func (con *TableConfig) ValidKind() bool {
	return con.Kind == "Structured" || con.Kind == "Semi"
}

func (con *TableConfig) ValidValuesFile() bool {
	return con.Kind != "Structured" || con.ValuesFile != ""
}

func (con *TableConfig) ValidPointsFile() bool {
	return con.Kind != "Semi" || con.PointsFile != ""
}

func (con *TableConfig) ValidQueryFile() bool {
	return con.QueryFile != ""
}

func (con *TableConfig) ValidBatch() bool {
	return con.Batch >= 1 && (con.Kind == "Structured" || con.Batch == 1)
}

func (con *TableConfig) ValidThreads() bool {
	return con.Threads >= 0
}

// CheckInit checks that the configuration describes a valid table. Query
// files are not required here, since not every mode evaluates them.
func (wrap *Wrapper) CheckInit() error {
	con := &wrap.Table
	con.Kind = strings.TrimSpace(con.Kind)

	if !con.ValidKind() {
		return fmt.Errorf(
			"Kind must be one of [Structured | Semi]. '%s' is not recognized.",
			con.Kind,
		)
	} else if !con.ValidValuesFile() {
		return fmt.Errorf("Structured tables need a 'ValuesFile'.")
	} else if !con.ValidPointsFile() {
		return fmt.Errorf("Semi tables need a 'PointsFile'.")
	} else if !con.ValidBatch() {
		return fmt.Errorf(
			"Invalid 'Batch' value, %d. Batch must be positive, and Semi "+
				"tables only support a Batch of 1.", con.Batch,
		)
	} else if !con.ValidThreads() {
		return fmt.Errorf("Invalid 'Threads' value, %d.", con.Threads)
	}

	if len(wrap.Axis) == 0 {
		return errors.Wrap(
			interpolate.ErrConfig, "need at least one [Axis] section",
		)
	}

	for name, axis := range wrap.Axis {
		if err := axis.CheckInit(name, con.Kind); err != nil {
			return err
		}
	}

	axes := wrap.Axes()
	for i, axis := range axes {
		if i > 0 && axis.Dim == axes[i-1].Dim {
			return errors.Wrapf(
				interpolate.ErrConfig, "Axes '%s' and '%s' both have Dim = %d",
				axes[i-1].Name, axis.Name, axis.Dim,
			)
		} else if axis.Dim != i {
			return errors.Wrapf(
				interpolate.ErrConfig, "no Axis has Dim = %d, but Axis '%s' "+
					"has Dim = %d", i, axis.Name, axis.Dim,
			)
		}
	}

	return nil
}

// CheckInit checks a single [Axis] section.
func (axis *AxisConfig) CheckInit(name, kind string) error {
	if axis.Dim < 0 {
		return fmt.Errorf("Axis '%s' has negative Dim, %d.", name, axis.Dim)
	}
	if kind == "Structured" {
		if axis.Points == "" && axis.File == "" {
			return fmt.Errorf("Axis '%s' needs either Points or File.", name)
		} else if axis.Points != "" && axis.File != "" {
			return errors.Wrapf(
				interpolate.ErrConfig, "Axis '%s' sets both Points and File",
				name,
			)
		}
	}

	axis.Name = name
	return nil
}

// Axes returns the [Axis] sections sorted by Dim.
func (wrap *Wrapper) Axes() []*AxisConfig {
	axes := make([]*AxisConfig, 0, len(wrap.Axis))
	for _, axis := range wrap.Axis {
		axes = append(axes, axis)
	}
	sort.Slice(axes, func(i, j int) bool {
		if axes[i].Dim != axes[j].Dim {
			return axes[i].Dim < axes[j].Dim
		}
		return axes[i].Name < axes[j].Name
	})
	return axes
}

// Names returns the names of the axes in Dim order.
func (wrap *Wrapper) Names() []string {
	axes := wrap.Axes()
	names := make([]string, len(axes))
	for i := range axes {
		names[i] = axes[i].Name
	}
	return names
}

// Grid reads the coordinates of every axis of a Structured table.
func (wrap *Wrapper) Grid() ([][]float64, error) {
	axes := wrap.Axes()
	grid := make([][]float64, len(axes))
	for i, axis := range axes {
		var err error
		if axis.File != "" {
			grid[i], err = ReadColumn(wrap.path(axis.File), 0)
		} else {
			grid[i], err = ParseList(axis.Points)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "Axis '%s'", axis.Name)
		}
	}
	return grid, nil
}

// Ranges returns the smallest and largest grid coordinate along each
// dimension. For Semi tables these are taken over every branch.
func (wrap *Wrapper) Ranges() ([][2]float64, error) {
	var cols [][]float64
	switch wrap.Table.Kind {
	case "Structured":
		grid, err := wrap.Grid()
		if err != nil {
			return nil, err
		}
		cols = grid
	case "Semi":
		points, err := ReadColumns(wrap.path(wrap.Table.PointsFile), len(wrap.Axis))
		if err != nil {
			return nil, err
		}
		cols = points
	}

	ranges := make([][2]float64, len(cols))
	for i, col := range cols {
		if len(col) == 0 {
			return nil, errors.Wrapf(
				interpolate.ErrAxisLength, "Axis '%s' is empty", wrap.Names()[i],
			)
		}
		ranges[i] = [2]float64{floats.Min(col), floats.Max(col)}
	}
	return ranges, nil
}

// Config returns the construction options for the table.
func (wrap *Wrapper) Config() interpolate.Config {
	return interpolate.Config{
		ComputeValueDerivatives: wrap.Table.ComputeValueDerivatives,
	}
}

// BuildTable reads the files named by the configuration and builds the
// interpolation table they describe.
func (wrap *Wrapper) BuildTable() (*interpolate.Table, error) {
	con := &wrap.Table
	switch con.Kind {
	case "Structured":
		grid, err := wrap.Grid()
		if err != nil {
			return nil, err
		}
		data, err := ReadColumn(wrap.path(con.ValuesFile), 0)
		if err != nil {
			return nil, err
		}

		shape := []int{}
		if con.Batch > 1 {
			shape = append(shape, con.Batch)
		}
		for _, axis := range grid {
			shape = append(shape, len(axis))
		}

		vals, err := interpolate.NewValues(data, shape...)
		if err != nil {
			return nil, errors.Wrapf(err, "ValuesFile %s", con.ValuesFile)
		}
		return interpolate.NewTable(grid, vals, wrap.Config())

	case "Semi":
		dims := len(wrap.Axis)
		rows, err := ReadRows(wrap.path(con.PointsFile), dims+1)
		if err != nil {
			return nil, err
		}

		points := make([][]float64, len(rows))
		vals := make([]float64, len(rows))
		for i, row := range rows {
			points[i], vals[i] = row[:dims], row[dims]
		}
		tab, err := interpolate.NewSemiTable(points, vals, wrap.Config())
		if err != nil {
			return nil, errors.Wrapf(err, "PointsFile %s", con.PointsFile)
		}
		return tab, nil
	}

	panic(fmt.Sprintf("Unrecognized table Kind '%s'.", con.Kind))
}

// Queries reads the query points named by the configuration.
func (wrap *Wrapper) Queries() ([][]float64, error) {
	if !wrap.Table.ValidQueryFile() {
		return nil, fmt.Errorf("Invalid/non-existent 'QueryFile' value.")
	}
	return ReadRows(wrap.path(wrap.Table.QueryFile), len(wrap.Axis))
}

func (wrap *Wrapper) path(fname string) string {
	if filepath.IsAbs(fname) || wrap.dir == "" {
		return fname
	}
	return filepath.Join(wrap.dir, fname)
}

// ParseList parses a comma or space separated list of numbers.
func ParseList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	xs := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d of list '%s'", i, s)
		}
		xs[i] = x
	}
	return xs, nil
}
