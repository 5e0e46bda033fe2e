package smartcab

import (
	"math"

	"github.com/zeu5/smartcab-rl/types"
)

// Penalties for each violation class
var violationRewards = map[types.Violation]float64{
	types.MinorViolation: -5,
	types.MajorViolation: -10,
	types.MinorAccident:  -20,
	types.MajorAccident:  -40,
}

// Judge classifies the action against the traffic rules given the sensed inputs
func Judge(action types.Action, inputs types.Inputs) types.Violation {
	green := inputs.Light == types.LightGreen
	crossForward := inputs.Left == types.ActionForward || inputs.Right == types.ActionForward

	switch action {
	case types.ActionForward:
		if !green {
			if crossForward {
				return types.MajorAccident
			}
			return types.MajorViolation
		}
	case types.ActionLeft:
		if !green {
			if crossForward || inputs.Oncoming == types.ActionRight {
				return types.MajorAccident
			}
			return types.MajorViolation
		}
		if inputs.Oncoming == types.ActionForward || inputs.Oncoming == types.ActionRight {
			return types.MinorAccident
		}
	case types.ActionRight:
		if !green && inputs.Left == types.ActionForward {
			return types.MinorAccident
		}
	case types.ActionNone:
		if green && inputs.Oncoming != types.ActionLeft {
			return types.MinorViolation
		}
	}
	return types.NoViolation
}

// Penalty grows from 0 to 1 as the trial consumes its deadline
func Penalty(t, deadline int) float64 {
	f := 1.0
	if t+deadline > 0 {
		f = float64(t) / float64(t+deadline)
	}
	f = math.Max(0, math.Min(1, f))
	return (math.Pow(10, f) - 1) / 9
}

// Reward for the action given its violation class and the waypoint it should have followed
func Reward(action, waypoint types.Action, light types.Light, violation types.Violation, penalty float64) float64 {
	if violation != types.NoViolation {
		return violationRewards[violation]
	}
	switch {
	case action == waypoint:
		return 2 - penalty
	case action == types.ActionNone && light != types.LightGreen && waypoint == types.ActionRight:
		// could have turned right on red
		return 1 - penalty
	case action == types.ActionNone && light != types.LightGreen:
		return 2 - penalty
	}
	return 1 - penalty
}
