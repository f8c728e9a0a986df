package interpolate

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Table is the top-level evaluator for an interpolation tree. The kind of
// grid is fixed when the Table is built.
type Table struct {
	root Node
	cfg  Config
}

// NewTable creates a Table over a structured grid. See NewLinear.
//
// Derivatives with respect to the stored values are not computed for
// structured grids, and Result.DValues will always be nil.
func NewTable(grid [][]float64, vals *Values, cfg Config) (*Table, error) {
	lin, err := NewLinear(grid, vals, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ComputeValueDerivatives {
		logrus.Warnf(
			"Value derivatives are not computed for structured grids; "+
				"ignoring ComputeValueDerivatives for %d-dimensional table.",
			len(grid),
		)
	}
	logrus.Debugf(
		"Built structured table: %d dimensions, %d instances.",
		len(grid), vals.Instances(len(grid)),
	)

	return &Table{root: lin, cfg: cfg}, nil
}

// NewSemiTable creates a Table over a semi-structured grid. See
// NewLinearSemi.
func NewSemiTable(points [][]float64, vals []float64, cfg Config) (*Table, error) {
	semi, err := NewLinearSemi(points, vals, cfg)
	if err != nil {
		return nil, err
	}

	logrus.Debugf(
		"Built semi-structured table: %d dimensions, %d points.",
		semi.Dims(), len(vals),
	)

	return &Table{root: semi, cfg: cfg}, nil
}

// Root returns the node for the first dimension of the table.
func (tab *Table) Root() Node { return tab.root }

// Dims returns the number of dimensions in the table's grid.
func (tab *Table) Dims() int { return tab.root.Dims() }

// Config returns the options the table was built with.
func (tab *Table) Config() Config { return tab.cfg }

// Eval interpolates the table at x.
func (tab *Table) Eval(x []float64) Result { return tab.root.Eval(x) }

// EvalInstance interpolates a single table instance at x. Structured tables
// take one index per leading batch axis of their values. Semi-structured
// tables hold exactly one instance and take none.
func (tab *Table) EvalInstance(x []float64, batch ...int) Result {
	if lin, ok := tab.root.(*Linear); ok {
		return lin.EvalInstance(x, batch...)
	}
	if len(batch) != 0 {
		panic(fmt.Sprintf(
			"Semi-structured tables have no batch axes, but %d indices "+
				"were given.", len(batch),
		))
	}
	return tab.root.Eval(x)
}

// EvalAll evaluates the table at every point in xs using the given number of
// worker goroutines. If workers < 1, one worker per logical core is used.
// If an output array is given, the results are written to that array (the
// array is still returned as a convenience).
func (tab *Table) EvalAll(xs [][]float64, workers int, out ...[]Result) []Result {
	if len(out) == 0 {
		out = [][]Result{make([]Result, len(xs))}
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(xs) {
		workers = len(xs)
	}
	if workers <= 1 {
		for i, x := range xs {
			out[0][i] = tab.root.Eval(x)
		}
		return out[0]
	}

	done := make(chan int, workers)
	for id := 0; id < workers; id++ {
		go tab.chanEvalAll(id, workers, xs, out[0], done)
	}
	for i := 0; i < workers; i++ {
		<-done
	}

	return out[0]
}

func (tab *Table) chanEvalAll(
	worker, workers int, xs [][]float64, out []Result, done chan<- int,
) {
	for i := worker; i < len(xs); i += workers {
		out[i] = tab.root.Eval(xs[i])
	}
	done <- worker
}
