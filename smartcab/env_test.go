package smartcab

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/types"
	"golang.org/x/exp/rand"
)

func newSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// lawfulDriver follows the planner and waits whenever the move would break a rule
type lawfulDriver struct {
	env         *Environment
	planner     *Planner
	destination types.Location
	resets      int
	testing     bool
	idle        bool
}

func (d *lawfulDriver) Reset(destination types.Location, testing bool) {
	d.destination = destination
	d.testing = testing
	d.resets += 1
	d.planner.RouteTo(destination)
}

func (d *lawfulDriver) Update() error {
	action := types.ActionNone
	if !d.idle {
		action = d.planner.NextWaypoint()
		if Judge(action, d.env.Sense()) != types.NoViolation {
			action = types.ActionNone
		}
	}
	d.env.Act(action)
	return nil
}

func newTestEnvironment(t *testing.T, config *Config) (*Environment, *lawfulDriver) {
	env, err := NewEnvironment(config)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	driver := &lawfulDriver{env: env, planner: NewPlanner(env)}
	env.SetPrimaryAgent(driver)
	return env, driver
}

func TestConfigValidation(t *testing.T) {
	cases := []*Config{
		{Cols: 2, Rows: 2},
		{Cols: 8, Rows: 6, TrafficDensity: 1.5},
		{Cols: 8, Rows: 6, IntentWeights: []float64{1}},
		{Cols: 8, Rows: 6, HardTimeLimit: 5},
	}
	for _, c := range cases {
		if _, err := NewEnvironment(c); !errors.Is(err, types.ErrConfig) {
			t.Errorf("expected config error for %+v, got %v", c, err)
		}
	}
}

func TestResetWithoutAgent(t *testing.T) {
	env, err := NewEnvironment(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := env.Reset(false); err == nil {
		t.Errorf("expected an error without a primary agent")
	}
}

func TestResetPlansTrip(t *testing.T) {
	config := DefaultConfig()
	config.Seed = 7
	env, driver := newTestEnvironment(t, config)

	for i := 0; i < 50; i++ {
		if err := env.Reset(i%2 == 1); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		dist := distance(env.Location(), env.Destination())
		if dist < 4 {
			t.Errorf("trip too short: %d", dist)
		}
		if env.Deadline() != 5*dist || env.Record().InitialDeadline != 5*dist {
			t.Errorf("expected deadline %d, got %d", 5*dist, env.Deadline())
		}
		if driver.destination != env.Destination() || driver.testing != (i%2 == 1) {
			t.Errorf("driver not reset with the trip")
		}
		if env.Done() || env.Time() != 0 || env.Trace().Len() != 0 {
			t.Errorf("trial state not cleared")
		}
	}
	if driver.resets != 50 {
		t.Errorf("expected 50 driver resets, got %d", driver.resets)
	}
}

func TestDeadlineEndsTrial(t *testing.T) {
	config := DefaultConfig()
	config.Seed = 3
	config.TrafficDensity = 0
	env, driver := newTestEnvironment(t, config)
	driver.idle = true

	env.Reset(false)
	initial := env.Deadline()
	steps := 0
	for !env.Done() {
		if err := env.Step(); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		steps += 1
	}
	if steps != initial {
		t.Errorf("expected the trial to last %d steps, lasted %d", initial, steps)
	}
	record := env.Record()
	if record.Success || record.FinalDeadline != 0 || record.Steps != steps {
		t.Errorf("unexpected record %+v", record)
	}
	if record.TotalActions() != steps || env.Trace().Len() != steps {
		t.Errorf("every step should be recorded")
	}
}

func TestHardTimeLimit(t *testing.T) {
	config := DefaultConfig()
	config.Seed = 5
	config.TrafficDensity = 0
	config.EnforceDeadline = false
	config.HardTimeLimit = -10
	env, driver := newTestEnvironment(t, config)
	driver.idle = true

	env.Reset(false)
	for !env.Done() {
		env.Step()
	}
	if env.Deadline() != -10 || env.Record().Success {
		t.Errorf("expected the trial to stop at the hard limit, deadline %d", env.Deadline())
	}
}

func TestLawfulDriverArrives(t *testing.T) {
	config := DefaultConfig()
	config.Seed = 11
	config.TrafficDensity = 0
	config.EnforceDeadline = false
	env, _ := newTestEnvironment(t, config)

	for trial := 0; trial < 20; trial++ {
		env.Reset(false)
		for !env.Done() {
			if err := env.Step(); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
		}
		record := env.Record()
		if !record.Success {
			t.Fatalf("trial %d: lawful driver did not arrive: %+v", trial, record)
		}
		if record.BadActions() != 0 {
			t.Errorf("trial %d: lawful driver broke %d rules", trial, record.BadActions())
		}
		if env.Location() != env.Destination() {
			t.Errorf("trial %d: success outside of the destination", trial)
		}
	}
}

func TestActViolationKeepsPosition(t *testing.T) {
	config := DefaultConfig()
	config.Seed = 13
	env, _ := newTestEnvironment(t, config)
	env.Reset(false)

	env.inputs = types.Inputs{Light: types.LightRed, Left: types.ActionForward, Right: types.ActionNone, Oncoming: types.ActionNone}
	location, heading := env.Location(), env.Heading()
	reward := env.Act(types.ActionForward)
	if reward != -40 {
		t.Errorf("expected a major accident penalty, got %f", reward)
	}
	if env.Location() != location || env.Heading() != heading {
		t.Errorf("vehicle moved despite the violation")
	}
	if env.Record().Actions[types.MajorAccident] != 1 {
		t.Errorf("violation not recorded: %v", env.Record().Actions)
	}
	step, ok := env.Trace().Last()
	if !ok || step.Violation != types.MajorAccident || step.Location != location {
		t.Errorf("unexpected trace step %+v", step)
	}

	env.inputs = types.Inputs{Light: types.LightRed, Left: types.ActionNone, Right: types.ActionNone, Oncoming: types.ActionNone}
	env.Act(types.ActionRight)
	expected := types.Location{
		X: wrap(location.X+heading.Right().X, config.Cols),
		Y: wrap(location.Y+heading.Right().Y, config.Rows),
	}
	if env.Heading() != heading.Right() || env.Location() != expected {
		t.Errorf("right turn on red should be allowed: at %v heading %v", env.Location(), env.Heading())
	}
}

func TestWrap(t *testing.T) {
	cases := [][3]int{{0, 8, 8}, {9, 8, 1}, {1, 8, 1}, {8, 8, 8}, {-1, 6, 5}}
	for _, c := range cases {
		if got := wrap(c[0], c[1]); got != c[2] {
			t.Errorf("wrap(%d, %d): expected %d, got %d", c[0], c[1], c[2], got)
		}
	}
}

func TestVisitAnalyzer(t *testing.T) {
	config := DefaultConfig()
	config.Seed = 17
	config.TrafficDensity = 0
	env, driver := newTestEnvironment(t, config)
	driver.idle = true

	analyzer := VisitAnalyzer(config.Cols, config.Rows)
	env.Reset(false)
	start := env.Location()
	for !env.Done() {
		env.Step()
	}
	analyzer.Analyze(0, "idle", env.Record(), env.Trace())
	visits := analyzer.DataSet().(*VisitDataSet)
	if visits.Count(start) != env.Trace().Len() || visits.Max() != float64(env.Trace().Len()) {
		t.Errorf("expected all visits at the start, got %v", visits.Visits)
	}

	merged := MergeVisitDataSets([]types.DataSet{visits, visits})
	if merged.Count(start) != 2*visits.Count(start) {
		t.Errorf("merge should sum visits")
	}
	analyzer.Reset()
	if analyzer.DataSet().(*VisitDataSet).Max() != 0 {
		t.Errorf("reset should clear visits")
	}
}
