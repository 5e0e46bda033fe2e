package benchmarks

import (
	"context"
	"os"
	"path"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/zeu5/smartcab-rl/config"
	"github.com/zeu5/smartcab-rl/monitor"
	"github.com/zeu5/smartcab-rl/policies"
	"github.com/zeu5/smartcab-rl/sinks"
	"github.com/zeu5/smartcab-rl/smartcab"
	"github.com/zeu5/smartcab-rl/types"
)

// SmartcabExperiment creates a fresh grid world and learning agent for every run
func SmartcabExperiment(name string, cfg *config.Config) *types.Experiment {
	return types.NewExperiment(name, func(run int) (types.World, types.Driver, error) {
		worldSeed, agentSeed := cfg.RunSeed(run)
		env, err := smartcab.NewEnvironment(cfg.World.Smartcab(worldSeed))
		if err != nil {
			return nil, nil, err
		}
		agentConfig, err := cfg.LearningAgent(agentSeed)
		if err != nil {
			return nil, nil, err
		}
		agent, err := policies.NewLearningAgent(env, smartcab.NewPlanner(env), agentConfig)
		if err != nil {
			return nil, nil, err
		}
		env.SetPrimaryAgent(agent)
		return env, agent, nil
	}, cfg).WithTolerance(cfg.Simulation.Tolerance)
}

// addAnalyses registers the trial analyses, writing datasets as json and
// optionally as plots into the save folder
func addAnalyses(c *types.Comparison, cfg *config.Config) {
	savePath := cfg.Output.SavePath
	dataPath := path.Join(savePath, "data")
	plotPath := path.Join(savePath, "plots")

	comparator := func(name, yLabel string) types.Comparator {
		asJSON := types.JSONComparator(dataPath, name)
		if !cfg.Output.Plots {
			return asJSON
		}
		plotter := types.SeriesPlotter(plotPath, name, yLabel, 10)
		return both(asJSON, plotter)
	}

	c.AddAnalysis("reward", types.RewardAnalyzer(), comparator("reward", "Average reward per action"))
	c.AddAnalysis("bad_actions", types.BadActionAnalyzer(), comparator("bad_actions", "Frequency of bad actions"))
	c.AddAnalysis("reliability", types.ReliabilityAnalyzer(), comparator("reliability", "Rate of reliability"))

	parameters := types.JSONComparator(dataPath, "parameters")
	coverage := types.JSONComparator(dataPath, "coverage")
	visits := types.JSONComparator(dataPath, "visits")
	if cfg.Output.Plots {
		parameters = both(parameters, types.ParameterPlotter(plotPath))
		coverage = both(coverage, types.CoveragePlotter(plotPath))
		visits = both(visits, smartcab.VisitPlotter(plotPath))
	}
	c.AddAnalysis("parameters", types.ParameterAnalyzer(), parameters)
	c.AddAnalysis("coverage", types.CoverageAnalyzer(), coverage)
	c.AddAnalysis("visits", smartcab.VisitAnalyzer(cfg.World.Cols, cfg.World.Rows), visits)
	c.AddAnalysis("transitions", types.TransitionAnalyzer(), types.JSONComparator(dataPath, "transitions"))
}

func both(first, second types.Comparator) types.Comparator {
	return func(run int, names []string, ds []types.DataSet) error {
		if err := first(run, names, ds); err != nil {
			return err
		}
		return second(run, names, ds)
	}
}

// sinkFactory creates the csv log of every run plus the optional redis stream and monitor store
func sinkFactory(ctx context.Context, cfg *config.Config, store *monitor.Store, logger log.Logger) types.SinkFactory {
	return func(experiment string, run int) ([]types.Sink, error) {
		csvPath := path.Join(cfg.Output.SavePath, "logs", "sim_"+experiment+"_"+strconv.Itoa(run)+".csv")
		csvSink, err := sinks.NewCSVSink(csvPath)
		if err != nil {
			return nil, err
		}
		out := []types.Sink{csvSink}

		if cfg.Output.Redis.Addr != "" {
			redisSink, err := sinks.NewRedisSink(ctx, &sinks.RedisSinkConfig{
				Addr:       cfg.Output.Redis.Addr,
				Password:   cfg.Output.Redis.Password,
				DB:         cfg.Output.Redis.DB,
				Stream:     cfg.Output.Redis.Stream,
				Experiment: experiment,
				Run:        run,
			})
			if err != nil {
				level.Warn(logger).Log("msg", "redis sink disabled", "err", err)
			} else {
				out = append(out, redisSink)
			}
		}
		if store != nil {
			out = append(out, store.Sink(experiment, run))
		}
		return []types.Sink{sinks.Multi(out)}, nil
	}
}

// runComparison executes the experiments with the shared simulation settings of cfg
func runComparison(ctx context.Context, cfg *config.Config, logger log.Logger, experiments ...*types.Experiment) ([]*types.ExperimentResult, error) {
	var store *monitor.Store
	if cfg.Output.Serve != "" {
		store = monitor.NewStore()
		monitor.NewServer(ctx, cfg.Output.Serve, store, logger).Start()
	}

	c := types.NewComparison(&types.ComparisonConfig{
		Runs:              cfg.Simulation.Runs,
		Tolerance:         cfg.Simulation.Tolerance,
		TestTrials:        cfg.Simulation.TestTrials,
		MinTrainingTrials: cfg.Simulation.MinTrainingTrials,
		MaxTrainingTrials: cfg.Simulation.MaxTrainingTrials,
		RecordPath:        cfg.Output.SavePath,
		RecordTraces:      cfg.Output.RecordTraces,
		RecordTables:      cfg.Output.RecordTables,
		Sinks:             sinkFactory(ctx, cfg, store, logger),
		Logger:            logger,
		Progress:          os.Stdout,
	})
	addAnalyses(c, cfg)
	for _, e := range experiments {
		c.AddExperiment(e)
	}
	if err := c.Run(ctx); err != nil {
		return nil, err
	}
	return c.Results(), nil
}

func logResults(logger log.Logger, results []*types.ExperimentResult) {
	for _, r := range results {
		if !r.Rated {
			level.Warn(logger).Log("msg", "no testing trials", "experiment", r.Experiment, "run", r.Run)
			continue
		}
		level.Info(logger).Log("msg", "rating", "experiment", r.Experiment, "run", r.Run,
			"safety", r.Rating.Safety, "reliability", r.Rating.Reliability,
			"success_rate", r.Rating.SuccessRate, "trials", len(r.Records))
	}
}
