package smartcab

import (
	"time"

	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/types"
	"golang.org/x/exp/rand"
)

const (
	// DefaultHardTimeLimit ends a trial once the deadline falls this far below zero
	DefaultHardTimeLimit = -100
	// minimum Manhattan distance between start and destination
	minTripDistance = 4
	// deadline granted per unit of distance
	deadlineFactor = 5
)

// Config of the grid world
type Config struct {
	Cols int
	Rows int
	// probability that a car waits in each of the cross directions
	TrafficDensity float64
	// weights of the cross traffic intents forward, left and right
	IntentWeights   []float64
	EnforceDeadline bool
	HardTimeLimit   int
	// 0 seeds from the clock
	Seed uint64
}

// DefaultConfig is an 8x6 grid with moderate traffic and enforced deadlines
func DefaultConfig() *Config {
	return &Config{
		Cols:            8,
		Rows:            6,
		TrafficDensity:  0.3,
		IntentWeights:   []float64{1, 1, 1},
		EnforceDeadline: true,
		HardTimeLimit:   DefaultHardTimeLimit,
	}
}

func (c *Config) Validate() error {
	if c.Cols < 1 || c.Rows < 1 || (c.Cols-1)+(c.Rows-1) < minTripDistance {
		return &types.ConfigError{Field: "world.grid", Value: [2]int{c.Cols, c.Rows}, Reason: "grid too small for a trip of distance 4"}
	}
	if err := types.CheckProbability("world.traffic_density", c.TrafficDensity); err != nil {
		return err
	}
	if len(c.IntentWeights) != 0 && len(c.IntentWeights) != len(intents) {
		return &types.ConfigError{Field: "world.intent_weights", Value: c.IntentWeights, Reason: "expected three weights"}
	}
	if c.HardTimeLimit > 0 {
		return &types.ConfigError{Field: "world.hard_time_limit", Value: c.HardTimeLimit, Reason: "must not be positive"}
	}
	return nil
}

// Environment is a wraparound grid of signalled intersections with a single
// primary vehicle driven by a types.Driver
type Environment struct {
	config  *Config
	rand    *rand.Rand
	lights  map[types.Location]*TrafficLight
	traffic *TrafficGenerator
	driver  types.Driver

	t           int
	location    types.Location
	heading     Heading
	destination types.Location
	deadline    int
	inputs      types.Inputs
	testing     bool
	done        bool

	record *types.TrialRecord
	trace  *types.Trace
}

var _ types.Environment = &Environment{}
var _ types.World = &Environment{}

// NewEnvironment creates the grid and its traffic lights
func NewEnvironment(config *Config) (*Environment, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.HardTimeLimit == 0 {
		config.HardTimeLimit = DefaultHardTimeLimit
	}
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewSource(seed)

	e := &Environment{
		config:  config,
		rand:    rand.New(src),
		lights:  make(map[types.Location]*TrafficLight),
		traffic: NewTrafficGenerator(config.TrafficDensity, config.IntentWeights, rand.NewSource(seed+1)),
		record:  &types.TrialRecord{},
		trace:   types.NewTrace(),
		done:    true,
	}
	for x := 1; x <= config.Cols; x++ {
		for y := 1; y <= config.Rows; y++ {
			e.lights[types.Location{X: x, Y: y}] = NewTrafficLight(src)
		}
	}
	return e, nil
}

// SetPrimaryAgent registers the driver that Reset and Step act on
func (e *Environment) SetPrimaryAgent(driver types.Driver) {
	e.driver = driver
}

func (e *Environment) Location() types.Location {
	return e.location
}

func (e *Environment) Heading() Heading {
	return e.heading
}

func (e *Environment) Destination() types.Location {
	return e.destination
}

// Time steps elapsed in the current trial
func (e *Environment) Time() int {
	return e.t
}

func distance(a, b types.Location) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func (e *Environment) randomLocation() types.Location {
	return types.Location{
		X: e.rand.Intn(e.config.Cols) + 1,
		Y: e.rand.Intn(e.config.Rows) + 1,
	}
}

// Reset starts a new trial with a random trip
func (e *Environment) Reset(testing bool) error {
	if e.driver == nil {
		return errors.New("no primary agent set")
	}
	e.t = 0
	for _, l := range e.lights {
		l.Reset()
	}

	start := e.randomLocation()
	destination := e.randomLocation()
	for distance(start, destination) < minTripDistance {
		start = e.randomLocation()
		destination = e.randomLocation()
	}

	e.location = start
	e.destination = destination
	e.heading = AllHeadings[e.rand.Intn(len(AllHeadings))]
	e.deadline = distance(start, destination) * deadlineFactor
	e.testing = testing
	e.done = false
	e.sense()

	e.record = &types.TrialRecord{
		Testing:         testing,
		InitialDeadline: e.deadline,
		FinalDeadline:   e.deadline,
	}
	e.trace = types.NewTrace()

	e.driver.Reset(destination, testing)
	return nil
}

func (e *Environment) sense() {
	left, right, oncoming := e.traffic.Draw()
	e.inputs = types.Inputs{
		Light:    e.lights[e.location].LightFor(e.heading),
		Left:     left,
		Right:    right,
		Oncoming: oncoming,
	}
}

// Step advances the lights and the traffic and lets the driver act once
func (e *Environment) Step() error {
	if e.done {
		return nil
	}
	e.t += 1
	for _, l := range e.lights {
		l.Update(e.t)
	}
	e.sense()

	if err := e.driver.Update(); err != nil {
		return err
	}
	if e.done {
		return nil
	}

	e.deadline -= 1
	e.record.FinalDeadline = e.deadline
	if e.config.EnforceDeadline && e.deadline <= 0 {
		e.done = true
	} else if e.deadline <= e.config.HardTimeLimit {
		e.done = true
	}
	return nil
}

func (e *Environment) Sense() types.Inputs {
	return e.inputs
}

func (e *Environment) Deadline() int {
	return e.deadline
}

func (e *Environment) ValidActions() []types.Action {
	actions := make([]types.Action, len(types.AllActions))
	copy(actions, types.AllActions)
	return actions
}

// Act moves the vehicle unless the action breaks a rule and returns its reward
func (e *Environment) Act(action types.Action) float64 {
	if e.done {
		return 0
	}
	waypoint := NextWaypoint(e.location, e.heading, e.destination)
	state := types.EncodeState(waypoint, e.inputs)
	violation := Judge(action, e.inputs)
	reward := Reward(action, waypoint, e.inputs.Light, violation, Penalty(e.t, e.deadline))

	e.trace.Append(types.Step{
		Step:      e.trace.Len(),
		Location:  e.location,
		State:     state,
		Action:    action,
		Reward:    reward,
		Violation: violation,
		Deadline:  e.deadline,
	})

	if violation == types.NoViolation {
		e.move(action)
	}

	e.record.Actions[violation] += 1
	e.record.NetReward += reward
	e.record.Steps += 1

	if e.location == e.destination {
		e.done = true
		e.record.Success = true
	}
	return reward
}

func (e *Environment) move(action types.Action) {
	switch action {
	case types.ActionNone:
		return
	case types.ActionLeft:
		e.heading = e.heading.Left()
	case types.ActionRight:
		e.heading = e.heading.Right()
	}
	e.location = types.Location{
		X: wrap(e.location.X+e.heading.X, e.config.Cols),
		Y: wrap(e.location.Y+e.heading.Y, e.config.Rows),
	}
}

// wrap a 1-based coordinate into [1, size]
func wrap(v, size int) int {
	return ((v-1)%size+size)%size + 1
}

func (e *Environment) Done() bool {
	return e.done
}

func (e *Environment) Record() *types.TrialRecord {
	return e.record
}

func (e *Environment) Trace() *types.Trace {
	return e.trace
}
