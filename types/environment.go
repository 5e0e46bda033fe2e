package types

import "fmt"

// Action is one of the driving decisions available at an intersection.
// The same values describe the intended move of cross traffic, where
// ActionNone means that no vehicle is waiting in that direction
type Action string

const (
	ActionNone    Action = "none"
	ActionForward Action = "forward"
	ActionLeft    Action = "left"
	ActionRight   Action = "right"
)

// AllActions in the order the environment reports them
var AllActions = []Action{ActionNone, ActionForward, ActionLeft, ActionRight}

func (a Action) String() string {
	return string(a)
}

// Light is the phase of the traffic light as seen by the sensing vehicle
type Light string

const (
	LightRed   Light = "red"
	LightGreen Light = "green"
)

// Inputs sensed at the current intersection
type Inputs struct {
	Light    Light
	Left     Action
	Right    Action
	Oncoming Action
}

// Location of an intersection on the grid
type Location struct {
	X int
	Y int
}

func (l Location) String() string {
	return fmt.Sprintf("(%d, %d)", l.X, l.Y)
}

// Environment as observed by the learning agent
type Environment interface {
	// Sense the light and the cross traffic at the current intersection
	Sense() Inputs
	// Steps remaining before the trial deadline
	Deadline() int
	// Act performs the action and returns the reward
	Act(Action) float64
	// ValidActions is the closed set of actions, queried once
	ValidActions() []Action
}

// RoutePlanner computes the next move towards a destination
type RoutePlanner interface {
	RouteTo(Location)
	NextWaypoint() Action
}

// Driver is invoked by the environment: Reset at every trial boundary
// and Update once per simulated step
type Driver interface {
	Reset(destination Location, testing bool)
	Update() error
}
