package types

import (
	"context"
	"io"
	"path"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/util"
)

// SetupFunc builds a fresh world and its primary driver for the given run
type SetupFunc func(run int) (World, Driver, error)

// Experiment encapsulates how to configure a driver and its world
type Experiment struct {
	Name  string
	setup SetupFunc
	// description recorded with the comparison configuration
	Params interface{}
	// overrides the comparison tolerance when set
	tolerance *float64
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, setup SetupFunc, params interface{}) *Experiment {
	return &Experiment{
		Name:   name,
		setup:  setup,
		Params: params,
	}
}

// WithTolerance makes testing start once epsilon drops below t for this
// experiment, regardless of the comparison tolerance
func (e *Experiment) WithTolerance(t float64) *Experiment {
	e.tolerance = &t
	return e
}

// SinkFactory creates the sinks that receive the trials of an experiment run
type SinkFactory func(experiment string, run int) ([]Sink, error)

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs              int
	Tolerance         float64
	TestTrials        int
	MinTrainingTrials int
	MaxTrainingTrials int

	RecordPath   string // path to store the results, empty disables recording
	RecordTraces bool
	RecordTables bool

	Sinks    SinkFactory
	Logger   log.Logger
	Progress io.Writer
}

// ExperimentResult of a single run of an experiment
type ExperimentResult struct {
	Experiment string         `json:"experiment"`
	Run        int            `json:"run"`
	Rating     Rating         `json:"rating"`
	Rated      bool           `json:"rated"`
	Records    []*TrialRecord `json:"-"`
}

// Comparison contains the different experiments to compare.
// The trials obtained from the experiments are analyzed and
// the analyzed datasets are then compared
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
	results     []*ExperimentResult
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	if config.Runs <= 0 {
		config.Runs = 1
	}
	if config.Logger == nil {
		config.Logger = log.NewNopLogger()
	}
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		cConfig:     config,
		results:     make([]*ExperimentResult, 0),
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Results of every finished experiment run, in order
func (c *Comparison) Results() []*ExperimentResult {
	return c.results
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	out := make(map[string]interface{})
	out["runs"] = cfg.Runs
	out["tolerance"] = cfg.Tolerance
	out["test_trials"] = cfg.TestTrials
	out["min_training_trials"] = cfg.MinTrainingTrials
	out["max_training_trials"] = cfg.MaxTrainingTrials
	out["record_traces"] = cfg.RecordTraces
	out["record_tables"] = cfg.RecordTables

	experiments := make(map[string]interface{})
	for _, e := range c.Experiments {
		experiments[e.Name] = e.Params
	}
	out["experiments"] = experiments

	analyzers := make([]string, 0)
	for name := range c.analyzers {
		analyzers = append(analyzers, name)
	}
	out["analyzers"] = analyzers

	return util.WriteJSON(path.Join(cfg.RecordPath, "comparison_config.json"), out)
}

// Run the comparison. Every run executes all experiments in order and then
// hands the datasets of each analysis to its comparator
func (c *Comparison) Run(ctx context.Context) error {
	if c.cConfig.RecordPath != "" {
		if err := c.recordConfig(); err != nil {
			return errors.Wrap(err, "recording comparison config")
		}
	}

	for run := 0; run < c.cConfig.Runs; run++ {
		level.Info(c.cConfig.Logger).Log("msg", "starting run", "run", run+1)
		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := c.runExperiment(ctx, e, run)
			if err != nil {
				return errors.Wrapf(err, "experiment %s run %d", e.Name, run)
			}
			c.results = append(c.results, result)
			for name, a := range c.analyzers {
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
		}
		for name, comp := range c.comparators {
			if err := comp(run, names, datasets[name]); err != nil {
				level.Warn(c.cConfig.Logger).Log("msg", "comparator failed", "analysis", name, "err", err)
			}
		}
	}

	if c.cConfig.RecordPath != "" {
		return util.WriteJSON(path.Join(c.cConfig.RecordPath, "ratings.json"), c.results)
	}
	return nil
}

func (c *Comparison) runExperiment(ctx context.Context, e *Experiment, run int) (*ExperimentResult, error) {
	world, driver, err := e.setup(run)
	if err != nil {
		return nil, errors.Wrap(err, "setting up")
	}

	sinks := make([]Sink, 0)
	if c.cConfig.Sinks != nil {
		sinks, err = c.cConfig.Sinks(e.Name, run)
		if err != nil {
			return nil, errors.Wrap(err, "creating sinks")
		}
	}
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				level.Warn(c.cConfig.Logger).Log("msg", "closing sink", "err", err)
			}
		}
	}()

	analyzers := make([]Analyzer, 0, len(c.analyzers))
	for _, a := range c.analyzers {
		analyzers = append(analyzers, a)
	}

	tolerance := c.cConfig.Tolerance
	if e.tolerance != nil {
		tolerance = *e.tolerance
	}
	simConfig := &SimulatorConfig{
		Name:              e.Name,
		Run:               run,
		Tolerance:         tolerance,
		TestTrials:        c.cConfig.TestTrials,
		MinTrainingTrials: c.cConfig.MinTrainingTrials,
		MaxTrainingTrials: c.cConfig.MaxTrainingTrials,
		Sinks:             sinks,
		Analyzers:         analyzers,
		Logger:            c.cConfig.Logger,
		Progress:          c.cConfig.Progress,
	}
	if c.cConfig.RecordPath != "" && c.cConfig.RecordTraces {
		simConfig.TracePath = path.Join(c.cConfig.RecordPath, "traces", e.Name+"_"+strconv.Itoa(run)+".jsonl")
	}

	sim := NewSimulator(world, driver, simConfig)
	if err := sim.Run(ctx); err != nil {
		return nil, err
	}

	if c.cConfig.RecordPath != "" && c.cConfig.RecordTables {
		if snapshotter, ok := driver.(Snapshotter); ok {
			p := path.Join(c.cConfig.RecordPath, "tables", e.Name+"_"+strconv.Itoa(run)+".json")
			if err := util.WriteJSON(p, snapshotter.Snapshot()); err != nil {
				return nil, errors.Wrap(err, "recording table")
			}
		}
	}

	rating, rated := Ratings(sim.Records())
	return &ExperimentResult{
		Experiment: e.Name,
		Run:        run,
		Rating:     rating,
		Rated:      rated,
		Records:    sim.Records(),
	}, nil
}
