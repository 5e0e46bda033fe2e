package types

import "fmt"

// State is the discrete observation used to index the value table.
// The deadline is deliberately left out so that states generalize across trials
type State struct {
	Waypoint Action `json:"waypoint"`
	Light    Light  `json:"light"`
	Left     Action `json:"left"`
	Right    Action `json:"right"`
	Oncoming Action `json:"oncoming"`
}

// EncodeState builds the state from the planner's next waypoint and the sensed inputs
func EncodeState(waypoint Action, inputs Inputs) State {
	return State{
		Waypoint: waypoint,
		Light:    inputs.Light,
		Left:     inputs.Left,
		Right:    inputs.Right,
		Oncoming: inputs.Oncoming,
	}
}

// Hash is a deterministic string key for the state, used when recording tables
func (s State) Hash() string {
	return fmt.Sprintf("(%s, %s, %s, %s, %s)", s.Waypoint, s.Light, s.Left, s.Right, s.Oncoming)
}

func (s State) String() string {
	return s.Hash()
}
