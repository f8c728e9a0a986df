/*package interpolate implements multilinear interpolation over structured and
semi-structured grids. Every evaluation returns the interpolated value along
with its exact derivatives with respect to the query coordinates and,
optionally, with respect to the stored table values.

Interpolation tables are built once and never modified afterwards, so a
single table can be evaluated from any number of goroutines at once.
*/
package interpolate

// Node is one dimension of an interpolation table along with the nodes which
// handle every dimension after it.
type Node interface {
	// Dims returns the number of dimensions handled by this node and all of
	// its sub-nodes.
	Dims() int
	// Axis returns the grid coordinates along this node's dimension.
	Axis() []float64
	// Eval interpolates the table at x. len(x) must equal Dims().
	Eval(x []float64) Result
}

var (
	_ Node = &Linear{}
	_ Node = &LinearSemi{}
)

// Result holds the output of an evaluation.
//
// Structured nodes return one value per selected table instance, so Vals and
// DX have one entry per instance. Semi-structured nodes always return
// exactly one.
type Result struct {
	// Vals are the interpolated values.
	Vals []float64
	// DX[i][j] is the derivative of Vals[i] with respect to the j-th query
	// coordinate.
	DX [][]float64
	// DValues is the derivative of the interpolated value with respect to the
	// stored values. nil means it was not computed, which is always the case
	// for structured grids.
	DValues *ValueDeriv
	// DGrid is reserved for derivatives with respect to the grid coordinates.
	// No node computes it yet, and it is always nil.
	DGrid [][]float64
}

// Config holds the construction-time options for a table.
type Config struct {
	// ComputeValueDerivatives requests the sparse derivative of interpolated
	// values with respect to the stored table values.
	ComputeValueDerivatives bool
	// Bracket locates query coordinates on an axis. nil selects Bracket.
	Bracket BracketFunc
}

func (cfg *Config) bracket() BracketFunc {
	if cfg.Bracket == nil {
		return Bracket
	}
	return cfg.Bracket
}
