package types

import (
	"path"
	"strconv"

	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/util"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Generic Dataset that contains information after processing the trials
type DataSet interface{}

// Analyzer compresses the information of every finished trial to a DataSet
type Analyzer interface {
	// Run, experiment, record and trace of the finished trial
	Analyze(int, string, *TrialRecord, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names.
// run, experiment names, datasets
type Comparator func(int, []string, []DataSet) error

func NoopComparator() Comparator {
	return func(int, []string, []DataSet) error { return nil }
}

// Series of values indexed by trial, split by phase
type Series struct {
	Training []float64 `json:"training"`
	Testing  []float64 `json:"testing"`
}

func NewSeries() *Series {
	return &Series{
		Training: make([]float64, 0),
		Testing:  make([]float64, 0),
	}
}

func (s *Series) add(testing bool, v float64) {
	if testing {
		s.Testing = append(s.Testing, v)
	} else {
		s.Training = append(s.Training, v)
	}
}

// RollingMean over the window ending at each point
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		from := i - window + 1
		if from < 0 {
			from = 0
		}
		out[i] = stat.Mean(values[from:i+1], nil)
	}
	return out
}

// seriesAnalyzer extracts one value per trial
type seriesAnalyzer struct {
	series  *Series
	extract func(*TrialRecord, *Trace) float64
}

func (a *seriesAnalyzer) Analyze(_ int, _ string, record *TrialRecord, trace *Trace) {
	a.series.add(record.Testing, a.extract(record, trace))
}

func (a *seriesAnalyzer) DataSet() DataSet {
	return a.series
}

func (a *seriesAnalyzer) Reset() {
	a.series = NewSeries()
}

// RewardAnalyzer records the average reward per action of every trial
func RewardAnalyzer() Analyzer {
	return &seriesAnalyzer{
		series: NewSeries(),
		extract: func(r *TrialRecord, _ *Trace) float64 {
			return r.AverageReward()
		},
	}
}

// BadActionAnalyzer records the frequency of violations and accidents of every trial
func BadActionAnalyzer() Analyzer {
	return &seriesAnalyzer{
		series: NewSeries(),
		extract: func(r *TrialRecord, _ *Trace) float64 {
			total := r.TotalActions()
			if total == 0 {
				return 0
			}
			return float64(r.BadActions()) / float64(total)
		},
	}
}

// ReliabilityAnalyzer records 1 for every successful trial and 0 otherwise
func ReliabilityAnalyzer() Analyzer {
	return &seriesAnalyzer{
		series: NewSeries(),
		extract: func(r *TrialRecord, _ *Trace) float64 {
			if r.Success {
				return 1
			}
			return 0
		},
	}
}

// ParameterDataSet holds the exploration and learning factors of every trial
type ParameterDataSet struct {
	Epsilon []float64 `json:"epsilon"`
	Alpha   []float64 `json:"alpha"`
}

type parameterAnalyzer struct {
	dataSet *ParameterDataSet
}

// ParameterAnalyzer records epsilon and alpha of every trial
func ParameterAnalyzer() Analyzer {
	a := &parameterAnalyzer{}
	a.Reset()
	return a
}

func (p *parameterAnalyzer) Analyze(_ int, _ string, r *TrialRecord, _ *Trace) {
	p.dataSet.Epsilon = append(p.dataSet.Epsilon, r.Epsilon)
	p.dataSet.Alpha = append(p.dataSet.Alpha, r.Alpha)
}

func (p *parameterAnalyzer) DataSet() DataSet {
	return p.dataSet
}

func (p *parameterAnalyzer) Reset() {
	p.dataSet = &ParameterDataSet{
		Epsilon: make([]float64, 0),
		Alpha:   make([]float64, 0),
	}
}

type coverageAnalyzer struct {
	states  map[string]bool
	covered []int
}

// CoverageAnalyzer records the number of distinct states visited after every trial
func CoverageAnalyzer() Analyzer {
	a := &coverageAnalyzer{}
	a.Reset()
	return a
}

func (c *coverageAnalyzer) Analyze(_ int, _ string, _ *TrialRecord, t *Trace) {
	for j := 0; j < t.Len(); j++ {
		step, _ := t.Get(j)
		c.states[step.State.Hash()] = true
	}
	c.covered = append(c.covered, len(c.states))
}

func (c *coverageAnalyzer) DataSet() DataSet {
	return c.covered
}

func (c *coverageAnalyzer) Reset() {
	c.states = make(map[string]bool)
	c.covered = make([]int, 0)
}

// JSONComparator writes every dataset to <savePath>/<run>_<experiment>_<name>.json
func JSONComparator(savePath, name string) Comparator {
	return func(run int, names []string, ds []DataSet) error {
		for i := 0; i < len(names); i++ {
			p := path.Join(savePath, strconv.Itoa(run)+"_"+names[i]+"_"+name+".json")
			if err := util.WriteJSON(p, ds[i]); err != nil {
				return err
			}
		}
		return nil
	}
}

// SeriesPlotter plots the rolling mean of the training series of every experiment
// in a single figure
func SeriesPlotter(plotPath, name, yLabel string, window int) Comparator {
	return func(run int, names []string, ds []DataSet) error {
		p := plot.New()
		p.Title.Text = name
		p.X.Label.Text = "Trial"
		p.Y.Label.Text = yLabel
		for i := 0; i < len(names); i++ {
			series, ok := ds[i].(*Series)
			if !ok {
				return errors.Errorf("dataset of %s is not a series", names[i])
			}
			if err := addLine(p, names[i], i, RollingMean(series.Training, window)); err != nil {
				return err
			}
		}
		return savePlot(p, plotPath, strconv.Itoa(run)+"_"+name+".png")
	}
}

// ParameterPlotter plots epsilon and alpha of every experiment
func ParameterPlotter(plotPath string) Comparator {
	return func(run int, names []string, ds []DataSet) error {
		p := plot.New()
		p.Title.Text = "Parameters"
		p.X.Label.Text = "Trial"
		p.Y.Label.Text = "Value"
		for i := 0; i < len(names); i++ {
			params, ok := ds[i].(*ParameterDataSet)
			if !ok {
				return errors.Errorf("dataset of %s is not a parameter dataset", names[i])
			}
			if err := addLine(p, names[i]+" epsilon", 2*i, params.Epsilon); err != nil {
				return err
			}
			if err := addLine(p, names[i]+" alpha", 2*i+1, params.Alpha); err != nil {
				return err
			}
		}
		return savePlot(p, plotPath, strconv.Itoa(run)+"_parameters.png")
	}
}

// CoveragePlotter plots the number of distinct states covered over the trials
func CoveragePlotter(plotPath string) Comparator {
	return func(run int, names []string, ds []DataSet) error {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Trial"
		p.Y.Label.Text = "States covered"
		for i := 0; i < len(names); i++ {
			covered, ok := ds[i].([]int)
			if !ok {
				return errors.Errorf("dataset of %s is not a coverage dataset", names[i])
			}
			values := make([]float64, len(covered))
			for j, v := range covered {
				values[j] = float64(v)
			}
			if err := addLine(p, names[i], i, values); err != nil {
				return err
			}
		}
		return savePlot(p, plotPath, strconv.Itoa(run)+"_coverage.png")
	}
}

func addLine(p *plot.Plot, name string, i int, values []float64) error {
	if len(values) == 0 {
		return nil
	}
	points := make(plotter.XYs, len(values))
	for j, v := range values {
		points[j] = plotter.XY{
			X: float64(j + 1),
			Y: v,
		}
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return errors.Wrapf(err, "plotting %s", name)
	}
	line.Color = plotutil.Color(i)
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func savePlot(p *plot.Plot, plotPath, file string) error {
	if err := util.EnsureDir(plotPath); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, file))
}
