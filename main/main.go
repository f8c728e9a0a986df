package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/gridinterp/io"
)

const (
	plotPoints = 200
	// Fraction of the axis range shown on each side of the grid in plots.
	plotMargin = 0.1
)

// FileGroup contains utility files for writing profiles to.
type FileGroup struct {
	prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.prof != nil {
		pprof.StopCPUProfile()
		if err := fg.prof.Close(); err != nil {
			logrus.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		evalStr, plotStr, exampleConfig string
		axisName, outFile, profFile     string
		threads                         int
		verbose                         bool
	)
	vars := map[string]*string{
		"Eval":          &evalStr,
		"Plot":          &plotStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&evalStr, "Eval", "",
		"Configuration file for [Eval] mode. Every point in the QueryFile "+
			"is evaluated and written to stdout along with its derivatives.",
	)
	flag.StringVar(
		&plotStr, "Plot", "",
		"Configuration file for [Plot] mode. The table and its derivative "+
			"are plotted along the axis given by -Axis.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. Accepted arguments are 'Structured' and 'Semi'.",
	)
	flag.StringVar(&axisName, "Axis", "", "Name of the axis swept in [Plot] mode.")
	flag.StringVar(&outFile, "Out", "table.png", "Output image in [Plot] mode.")
	flag.StringVar(&profFile, "ProfileFile", "", "Write a CPU profile here.")
	flag.IntVar(
		&threads, "Threads", -1,
		"Number of threads used. Overrides the Threads value of the "+
			"configuration file. 0 means one per logical core.",
	)
	flag.BoolVar(&verbose, "Verbose", false, "Log debugging information.")

	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	fg := &FileGroup{}
	defer fg.Close()
	if profFile != "" {
		f, err := os.Create(profFile)
		if err != nil {
			logrus.Fatal(err.Error())
		}
		fg.prof = f
		if err := pprof.StartCPUProfile(f); err != nil {
			logrus.Fatal(err.Error())
		}
	}

	modeName, err := getModeName(vars)
	if err != nil {
		logrus.Fatal(err.Error())
	}

	switch modeName {
	case "Eval":
		wrap, err := io.ReadConfig(evalStr)
		if err != nil {
			logrus.Fatal(err.Error())
		}
		if !wrap.Table.ValidQueryFile() {
			logrus.Fatal("Invalid/non-existent 'QueryFile' value.")
		}
		if threads >= 0 {
			wrap.Table.Threads = threads
		}
		evalMain(wrap)

	case "Plot":
		wrap, err := io.ReadConfig(plotStr)
		if err != nil {
			logrus.Fatal(err.Error())
		}
		if axisName == "" {
			logrus.Fatal("[Plot] mode needs an -Axis.")
		} else if _, ok := wrap.Axis[axisName]; !ok {
			logrus.Fatalf(
				"No Axis named '%s'. Axes are: %s.",
				axisName, strings.Join(wrap.Names(), ", "),
			)
		}
		plotMain(wrap, axisName, outFile)

	case "ExampleConfig":
		switch exampleConfig {
		case "Structured":
			fmt.Println(io.ExampleStructuredFile)
		case "Semi":
			fmt.Println(io.ExampleSemiFile)
		default:
			logrus.Fatalf(
				"Unrecognized ExampleConfig type '%s'. Accepted arguments "+
					"are 'Structured' and 'Semi'.", exampleConfig,
			)
		}
	}
}

// getModeName returns the name of the only mode flag which was set.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but gridinterp "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// evalMain evaluates the table at every query point and writes the results
// to stdout.
func evalMain(wrap *io.Wrapper) {
	t0 := time.Now()
	tab, err := wrap.BuildTable()
	if err != nil {
		logrus.Fatal(err.Error())
	}
	xs, err := wrap.Queries()
	if err != nil {
		logrus.Fatal(err.Error())
	}
	logrus.Debugf(
		"Read %s table with %d dimensions and %d query points in %s.",
		wrap.Table.Kind, tab.Dims(), len(xs), time.Since(t0),
	)

	t1 := time.Now()
	results := tab.EvalAll(xs, wrap.Table.Threads)
	logrus.Debugf(
		"Evaluated %d points with %d threads in %s.",
		len(xs), wrap.Table.Threads, time.Since(t1),
	)

	dvalues := 0
	if len(results) > 0 && results[0].DValues != nil {
		dvalues = results[0].DValues.Len()
	}
	if err := io.WriteHeader(os.Stdout, wrap.Names(), dvalues); err != nil {
		logrus.Fatal(err.Error())
	}
	if err := io.WriteResults(os.Stdout, xs, results); err != nil {
		logrus.Fatal(err.Error())
	}
}

// plotMain plots the value and derivative of every table instance along one
// axis, with the other coordinates held fixed at the first query point (or
// the middle of each axis if there is no QueryFile).
func plotMain(wrap *io.Wrapper, axisName, outFile string) {
	tab, err := wrap.BuildTable()
	if err != nil {
		logrus.Fatal(err.Error())
	}

	dim := wrap.Axis[axisName].Dim
	ranges, err := wrap.Ranges()
	if err != nil {
		logrus.Fatal(err.Error())
	}

	base := make([]float64, len(ranges))
	for i, r := range ranges {
		base[i] = (r[0] + r[1]) / 2
	}
	if wrap.Table.ValidQueryFile() {
		xs, err := wrap.Queries()
		if err != nil {
			logrus.Fatal(err.Error())
		} else if len(xs) > 0 {
			copy(base, xs[0])
		}
	}

	lo, hi := ranges[dim][0], ranges[dim][1]
	margin := plotMargin * (hi - lo)
	sweep := make([]float64, plotPoints)
	floats.Span(sweep, lo-margin, hi+margin)

	pts := make([][]float64, len(sweep))
	for i, x := range sweep {
		pts[i] = append([]float64{}, base...)
		pts[i][dim] = x
	}
	results := tab.EvalAll(pts, wrap.Table.Threads)
	instances := len(results[0].Vals)

	vals, derivs := make([]float64, len(sweep)), make([]float64, len(sweep))

	ext := filepath.Ext(outFile)
	derivFile := strings.TrimSuffix(outFile, ext) + "_deriv" + ext

	plt.Figure()
	for k := 0; k < instances; k++ {
		for i := range results {
			vals[i] = results[i].Vals[k]
		}
		plt.Plot(sweep, vals, plt.LW(2))
	}
	plt.Title(fmt.Sprintf("%s table at %v", wrap.Table.Kind, base))
	plt.XLabel(axisName, plt.FontSize(16))
	plt.YLabel("value", plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(outFile)

	plt.Figure()
	for k := 0; k < instances; k++ {
		for i := range results {
			derivs[i] = results[i].DX[k][dim]
		}
		plt.Plot(sweep, derivs, plt.LW(2))
	}
	plt.Title(fmt.Sprintf("%s table at %v", wrap.Table.Kind, base))
	plt.XLabel(axisName, plt.FontSize(16))
	plt.YLabel(fmt.Sprintf("d(value)/d(%s)", axisName), plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(derivFile)

	plt.Execute()
	logrus.Infof("Wrote %s and %s.", outFile, derivFile)
}
