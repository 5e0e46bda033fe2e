package types

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gosuri/uilive"
	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/util"
)

const (
	// DefaultMinTrainingTrials before the simulator considers switching to testing
	DefaultMinTrainingTrials = 20
	// DefaultMaxTrainingTrials caps training when epsilon never drops below the tolerance
	DefaultMaxTrainingTrials = 2000
)

// SimulatorConfig configures a single run of training and testing trials
type SimulatorConfig struct {
	Name string
	Run  int

	// testing starts once epsilon drops below the tolerance
	Tolerance         float64
	TestTrials        int
	MinTrainingTrials int
	MaxTrainingTrials int

	// file where every trace is appended as a json line, empty disables
	TracePath string

	Sinks     []Sink
	Analyzers []Analyzer
	Logger    log.Logger
	// live progress output, nil disables
	Progress io.Writer
}

// Simulator drives a World trial by trial, deciding when training ends
// and testing begins
type Simulator struct {
	config  *SimulatorConfig
	world   World
	driver  Driver
	records []*TrialRecord
}

// NewSimulator creates a simulator for the world and its primary driver
func NewSimulator(world World, driver Driver, config *SimulatorConfig) *Simulator {
	if config.MinTrainingTrials <= 0 {
		config.MinTrainingTrials = DefaultMinTrainingTrials
	}
	if config.MaxTrainingTrials <= 0 {
		config.MaxTrainingTrials = DefaultMaxTrainingTrials
	}
	if config.Logger == nil {
		config.Logger = log.NewNopLogger()
	}
	return &Simulator{
		config:  config,
		world:   world,
		driver:  driver,
		records: make([]*TrialRecord, 0),
	}
}

// Records of all finished trials, in order
func (s *Simulator) Records() []*TrialRecord {
	return s.records
}

func (s *Simulator) parameters() Parameters {
	if t, ok := s.driver.(Tunable); ok {
		return t.Parameters()
	}
	return Parameters{}
}

// shouldTest decides, before a new trial, whether training is over
func (s *Simulator) shouldTest(trainingTrials int) bool {
	if trainingTrials < s.config.MinTrainingTrials {
		return false
	}
	params := s.parameters()
	if !params.Learning {
		return true
	}
	if params.Epsilon < s.config.Tolerance {
		return true
	}
	if trainingTrials >= s.config.MaxTrainingTrials {
		level.Warn(s.config.Logger).Log("msg", "training cap reached before epsilon dropped below tolerance",
			"experiment", s.config.Name, "epsilon", params.Epsilon, "tolerance", s.config.Tolerance)
		return true
	}
	return false
}

// Run executes training trials followed by testing trials.
// Returns the first error raised by the world or the driver, or the context error
func (s *Simulator) Run(ctx context.Context) error {
	logger := log.With(s.config.Logger, "experiment", s.config.Name, "run", s.config.Run)

	var progress *uilive.Writer
	if s.config.Progress != nil {
		progress = uilive.New()
		progress.Out = s.config.Progress
	}

	testing := false
	trainingTrials := 0
	testTrials := 0
	trial := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !testing && s.shouldTest(trainingTrials) {
			testing = true
			level.Info(logger).Log("msg", "switching to testing", "training_trials", trainingTrials)
		}
		if testing && testTrials >= s.config.TestTrials {
			break
		}

		trial += 1
		if err := s.runTrial(ctx, trial, testing); err != nil {
			return err
		}
		record := s.records[len(s.records)-1]
		if testing {
			testTrials += 1
		} else {
			trainingTrials += 1
		}
		level.Debug(logger).Log("msg", "trial finished", "trial", trial, "testing", testing,
			"success", record.Success, "net_reward", record.NetReward, "epsilon", record.Epsilon)

		if progress != nil {
			fmt.Fprintf(progress, "Exp:%s, Run:%d, Trial:%*d, Training:%d, Testing:%d/%d, Epsilon:%.4f\n",
				s.config.Name, s.config.Run, 5, trial, trainingTrials, testTrials, s.config.TestTrials, record.Epsilon)
			progress.Flush()
		}
	}

	if rating, ok := Ratings(s.records); ok {
		level.Info(logger).Log("msg", "testing finished", "safety", rating.Safety,
			"reliability", rating.Reliability, "success_rate", rating.SuccessRate)
	}
	return nil
}

func (s *Simulator) runTrial(ctx context.Context, trial int, testing bool) error {
	if err := s.world.Reset(testing); err != nil {
		return errors.Wrapf(err, "resetting trial %d", trial)
	}
	params := s.parameters()

	for !s.world.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.world.Step(); err != nil {
			return errors.Wrapf(err, "trial %d", trial)
		}
	}

	record := *s.world.Record()
	record.Trial = trial
	record.Testing = testing
	record.Epsilon = params.Epsilon
	record.Alpha = params.Alpha
	s.records = append(s.records, &record)

	trace := s.world.Trace()
	for _, a := range s.config.Analyzers {
		a.Analyze(s.config.Run, s.config.Name, &record, trace)
	}
	if s.config.TracePath != "" {
		s.recordTrace(trial, trace)
	}
	s.publish(&record)
	return nil
}

func (s *Simulator) recordTrace(trial int, trace *Trace) {
	bs, err := json.Marshal(map[string]interface{}{
		"trial": trial,
		"trace": trace,
	})
	if err != nil {
		level.Warn(s.config.Logger).Log("msg", "failed to encode trace", "trial", trial, "err", err)
		return
	}
	if err := util.AppendToFile(s.config.TracePath, string(bs)); err != nil {
		level.Warn(s.config.Logger).Log("msg", "failed to record trace", "path", s.config.TracePath, "err", err)
	}
}

func (s *Simulator) publish(record *TrialRecord) {
	var snapshot TableSnapshot
	for _, sink := range s.config.Sinks {
		if err := sink.Record(record); err != nil {
			level.Warn(s.config.Logger).Log("msg", "sink failed", "trial", strconv.Itoa(record.Trial), "err", err)
		}
		ss, ok := sink.(SnapshotSink)
		if !ok {
			continue
		}
		if snapshot == nil {
			snapshotter, ok := s.driver.(Snapshotter)
			if !ok {
				continue
			}
			snapshot = snapshotter.Snapshot()
		}
		ss.Publish(snapshot)
	}
}
