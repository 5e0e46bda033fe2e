package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/policies"
	"github.com/zeu5/smartcab-rl/smartcab"
	"github.com/zeu5/smartcab-rl/types"
	"gopkg.in/yaml.v3"
)

// Schedule kinds
const (
	ScheduleGompertz = "gompertz"
	ScheduleLinear   = "linear"
	ScheduleConstant = "constant"
)

// Config of a smartcab run
type Config struct {
	Agent      AgentConfig      `yaml:"agent" json:"agent"`
	Schedule   ScheduleConfig   `yaml:"schedule" json:"schedule"`
	World      WorldConfig      `yaml:"world" json:"world"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Output     OutputConfig     `yaml:"output" json:"output"`
}

type AgentConfig struct {
	Learning bool    `yaml:"learning" json:"learning"`
	Epsilon  float64 `yaml:"epsilon" json:"epsilon"`
	Alpha    float64 `yaml:"alpha" json:"alpha"`
}

// ScheduleConfig selects the exploration decay. Only the fields of the
// selected kind are read
type ScheduleConfig struct {
	Kind string `yaml:"kind" json:"kind"`

	Amplitude    float64 `yaml:"amplitude" json:"amplitude,omitempty"`
	Displacement float64 `yaml:"displacement" json:"displacement,omitempty"`
	Growth       float64 `yaml:"growth" json:"growth,omitempty"`

	Initial float64 `yaml:"initial" json:"initial,omitempty"`
	Rate    float64 `yaml:"rate" json:"rate,omitempty"`

	Value float64 `yaml:"value" json:"value,omitempty"`
}

type WorldConfig struct {
	Cols            int       `yaml:"cols" json:"cols"`
	Rows            int       `yaml:"rows" json:"rows"`
	TrafficDensity  float64   `yaml:"traffic_density" json:"traffic_density"`
	IntentWeights   []float64 `yaml:"intent_weights" json:"intent_weights"`
	EnforceDeadline bool      `yaml:"enforce_deadline" json:"enforce_deadline"`
	HardTimeLimit   int       `yaml:"hard_time_limit" json:"hard_time_limit"`
}

type SimulationConfig struct {
	Tolerance         float64 `yaml:"tolerance" json:"tolerance"`
	TestTrials        int     `yaml:"test_trials" json:"test_trials"`
	MinTrainingTrials int     `yaml:"min_training_trials" json:"min_training_trials"`
	MaxTrainingTrials int     `yaml:"max_training_trials" json:"max_training_trials"`
	Runs              int     `yaml:"runs" json:"runs"`
	// 0 seeds from the clock
	Seed uint64 `yaml:"seed" json:"seed"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"-"`
	DB       int    `yaml:"db" json:"db"`
	Stream   string `yaml:"stream" json:"stream"`
}

type OutputConfig struct {
	SavePath     string      `yaml:"save_path" json:"save_path"`
	RecordTraces bool        `yaml:"record_traces" json:"record_traces"`
	RecordTables bool        `yaml:"record_tables" json:"record_tables"`
	Plots        bool        `yaml:"plots" json:"plots"`
	LogLevel     string      `yaml:"log_level" json:"log_level"`
	Serve        string      `yaml:"serve" json:"serve"`
	Redis        RedisConfig `yaml:"redis" json:"redis"`
}

// Default is the optimized setup: Gompertz decay, alpha 0.2 and testing
// once epsilon falls below 8.8e-5
func Default() *Config {
	g := policies.DefaultGompertz()
	return &Config{
		Agent: AgentConfig{
			Learning: true,
			Epsilon:  1,
			Alpha:    0.2,
		},
		Schedule: ScheduleConfig{
			Kind:         ScheduleGompertz,
			Amplitude:    g.Amplitude,
			Displacement: g.Displacement,
			Growth:       g.Growth,
		},
		World: WorldConfig{
			Cols:            8,
			Rows:            6,
			TrafficDensity:  0.3,
			IntentWeights:   []float64{1, 1, 1},
			EnforceDeadline: true,
			HardTimeLimit:   smartcab.DefaultHardTimeLimit,
		},
		Simulation: SimulationConfig{
			Tolerance:         8.84230791089e-05,
			TestTrials:        10,
			MinTrainingTrials: types.DefaultMinTrainingTrials,
			MaxTrainingTrials: types.DefaultMaxTrainingTrials,
			Runs:              1,
		},
		Output: OutputConfig{
			SavePath: "results",
			Plots:    true,
			LogLevel: "info",
			Redis: RedisConfig{
				Stream: "smartcab:trials",
			},
		},
	}
}

// DefaultBaseline is the unoptimized setup: epsilon decreasing by 0.05 per trial,
// alpha 0.5 and testing once epsilon falls below 0.05
func DefaultBaseline() *Config {
	c := Default()
	c.Agent.Alpha = 0.5
	c.Schedule = ScheduleConfig{
		Kind:    ScheduleLinear,
		Initial: 1,
		Rate:    0.05,
	}
	c.Simulation.Tolerance = 0.05
	return c
}

// Load overlays the yaml file on the defaults and validates the result
func Load(path string) (*Config, error) {
	c := Default()
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(bs, c); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func invalid(field string, value interface{}, reason string) error {
	return &types.ConfigError{Field: field, Value: value, Reason: reason}
}

// Validate returns a *types.ConfigError for the first invalid field
func (c *Config) Validate() error {
	if err := types.CheckProbability("agent.epsilon", c.Agent.Epsilon); err != nil {
		return err
	}
	if err := types.CheckProbability("agent.alpha", c.Agent.Alpha); err != nil {
		return err
	}
	if _, err := c.BuildSchedule(); err != nil {
		return err
	}
	if err := c.World.Smartcab(0).Validate(); err != nil {
		return err
	}
	if err := types.CheckProbability("simulation.tolerance", c.Simulation.Tolerance); err != nil {
		return err
	}
	if c.Simulation.TestTrials < 0 {
		return invalid("simulation.test_trials", c.Simulation.TestTrials, "must not be negative")
	}
	if c.Simulation.MinTrainingTrials < 0 {
		return invalid("simulation.min_training_trials", c.Simulation.MinTrainingTrials, "must not be negative")
	}
	if c.Simulation.MaxTrainingTrials < c.Simulation.MinTrainingTrials {
		return invalid("simulation.max_training_trials", c.Simulation.MaxTrainingTrials, "must not be below the minimum")
	}
	if c.Simulation.Runs < 1 {
		return invalid("simulation.runs", c.Simulation.Runs, "must be positive")
	}
	return nil
}

// BuildSchedule creates the configured epsilon schedule
func (c *Config) BuildSchedule() (policies.Schedule, error) {
	s := c.Schedule
	switch s.Kind {
	case ScheduleGompertz, "":
		return policies.NewGompertz(s.Amplitude, s.Displacement, s.Growth)
	case ScheduleLinear:
		return policies.NewLinearDecay(s.Initial, s.Rate)
	case ScheduleConstant:
		if err := types.CheckProbability("schedule.value", s.Value); err != nil {
			return nil, err
		}
		return policies.Constant(s.Value), nil
	}
	return nil, invalid("schedule.kind", s.Kind, "expected gompertz, linear or constant")
}

// Smartcab world configuration seeded with seed
func (w WorldConfig) Smartcab(seed uint64) *smartcab.Config {
	weights := make([]float64, len(w.IntentWeights))
	copy(weights, w.IntentWeights)
	return &smartcab.Config{
		Cols:            w.Cols,
		Rows:            w.Rows,
		TrafficDensity:  w.TrafficDensity,
		IntentWeights:   weights,
		EnforceDeadline: w.EnforceDeadline,
		HardTimeLimit:   w.HardTimeLimit,
		Seed:            seed,
	}
}

// LearningAgent configuration seeded with seed
func (c *Config) LearningAgent(seed uint64) (*policies.AgentConfig, error) {
	schedule, err := c.BuildSchedule()
	if err != nil {
		return nil, err
	}
	return &policies.AgentConfig{
		Learning: c.Agent.Learning,
		Epsilon:  c.Agent.Epsilon,
		Alpha:    c.Agent.Alpha,
		Schedule: schedule,
		Seed:     seed,
	}, nil
}

// RunSeed derives the seeds of the world and the agent of a run.
// Both are 0 (clock seeded) when no seed is configured
func (c *Config) RunSeed(run int) (world uint64, agent uint64) {
	if c.Simulation.Seed == 0 {
		return 0, 0
	}
	base := c.Simulation.Seed + uint64(run)*1000
	return base, base + 500
}
