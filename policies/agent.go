package policies

import (
	"time"

	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/types"
	"golang.org/x/exp/rand"
)

// AgentConfig configures a LearningAgent
type AgentConfig struct {
	// Learning enables the value table; without it the agent drives randomly
	Learning bool
	// Epsilon used until the first trial boundary
	Epsilon float64
	// Alpha is the learning rate for the whole run (until testing)
	Alpha float64
	// Schedule recomputes epsilon at every training trial, DefaultGompertz if nil
	Schedule Schedule
	// Seed of the action selection, 0 seeds from the clock
	Seed uint64
}

// LearningAgent drives the smartcab. At every step it encodes the state,
// adds it to the table, selects an action epsilon greedily, acts and
// learns from the immediate reward
type LearningAgent struct {
	env      types.Environment
	planner  types.RoutePlanner
	learning bool
	schedule Schedule

	table   *QTable
	policy  *EpsilonGreedy
	learner *Learner

	epsilon float64
	alpha   float64
	// number of training trials started so far
	trial   int
	testing bool
}

var _ types.Driver = &LearningAgent{}
var _ types.Tunable = &LearningAgent{}
var _ types.Snapshotter = &LearningAgent{}

// NewLearningAgent validates the configuration and queries the action set
// from the environment once
func NewLearningAgent(env types.Environment, planner types.RoutePlanner, config *AgentConfig) (*LearningAgent, error) {
	if err := types.CheckProbability("epsilon", config.Epsilon); err != nil {
		return nil, err
	}
	if err := types.CheckProbability("alpha", config.Alpha); err != nil {
		return nil, err
	}
	actions := env.ValidActions()
	if len(actions) == 0 {
		return nil, &types.ConfigError{Field: "valid actions", Value: actions, Reason: "environment offers no action"}
	}
	schedule := config.Schedule
	if schedule == nil {
		schedule = DefaultGompertz()
	}
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	table := NewQTable(actions)
	return &LearningAgent{
		env:      env,
		planner:  planner,
		learning: config.Learning,
		schedule: schedule,
		table:    table,
		policy:   NewEpsilonGreedy(table, rand.New(rand.NewSource(seed))),
		learner:  NewLearner(table),
		epsilon:  config.Epsilon,
		alpha:    config.Alpha,
	}, nil
}

// Reset is called at the start of every trial. Entering testing sets epsilon
// and alpha to 0 for the rest of the run. Otherwise the trial counter is
// incremented and epsilon is taken from the schedule at the previous index
func (a *LearningAgent) Reset(destination types.Location, testing bool) {
	a.planner.RouteTo(destination)

	if testing || a.testing {
		a.testing = true
		a.epsilon = 0
		a.alpha = 0
		return
	}
	a.trial += 1
	a.epsilon = a.schedule.Epsilon(a.trial - 1)
}

// BuildState encodes the current observation, the deadline is not part of it
func (a *LearningAgent) BuildState() types.State {
	return types.EncodeState(a.planner.NextWaypoint(), a.env.Sense())
}

// Update runs one decision step
func (a *LearningAgent) Update() error {
	state := a.BuildState()
	if a.learning {
		a.table.Ensure(state)
	}
	action, err := a.policy.ChooseAction(state, a.epsilon, a.learning)
	if err != nil {
		return errors.Wrap(err, "choosing action")
	}
	reward := a.env.Act(action)
	return errors.Wrap(a.Learn(state, action, reward), "learning")
}

// Learn updates the estimate of the state action pair with the reward.
// Does nothing when the agent is not learning
func (a *LearningAgent) Learn(state types.State, action types.Action, reward float64) error {
	if !a.learning {
		return nil
	}
	return a.learner.Update(state, action, reward, a.alpha)
}

// Parameters at the current trial
func (a *LearningAgent) Parameters() types.Parameters {
	return types.Parameters{
		Learning: a.learning,
		Testing:  a.testing,
		Trial:    a.trial,
		Epsilon:  a.epsilon,
		Alpha:    a.alpha,
	}
}

// Table owned by the agent
func (a *LearningAgent) Table() *QTable {
	return a.table
}

func (a *LearningAgent) Snapshot() types.TableSnapshot {
	return a.table.Snapshot()
}
