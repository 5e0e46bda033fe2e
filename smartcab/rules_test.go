package smartcab

import (
	"math"
	"testing"

	"github.com/zeu5/smartcab-rl/types"
)

func inputs(light types.Light, left, right, oncoming types.Action) types.Inputs {
	return types.Inputs{Light: light, Left: left, Right: right, Oncoming: oncoming}
}

func TestJudge(t *testing.T) {
	none := types.ActionNone
	cases := []struct {
		name     string
		action   types.Action
		inputs   types.Inputs
		expected types.Violation
	}{
		{"forward on green", types.ActionForward, inputs(types.LightGreen, none, none, none), types.NoViolation},
		{"forward on red", types.ActionForward, inputs(types.LightRed, none, none, none), types.MajorViolation},
		{"forward on red into cross traffic", types.ActionForward, inputs(types.LightRed, types.ActionForward, none, none), types.MajorAccident},
		{"left on red", types.ActionLeft, inputs(types.LightRed, none, none, types.ActionLeft), types.MajorViolation},
		{"left on red with oncoming right", types.ActionLeft, inputs(types.LightRed, none, none, types.ActionRight), types.MajorAccident},
		{"left on red into right traffic", types.ActionLeft, inputs(types.LightRed, none, types.ActionForward, none), types.MajorAccident},
		{"left on green", types.ActionLeft, inputs(types.LightGreen, none, none, types.ActionLeft), types.NoViolation},
		{"left on green across oncoming", types.ActionLeft, inputs(types.LightGreen, none, none, types.ActionForward), types.MinorAccident},
		{"right on red", types.ActionRight, inputs(types.LightRed, none, types.ActionForward, none), types.NoViolation},
		{"right on red into left traffic", types.ActionRight, inputs(types.LightRed, types.ActionForward, none, none), types.MinorAccident},
		{"right on green", types.ActionRight, inputs(types.LightGreen, types.ActionForward, none, none), types.NoViolation},
		{"idle on red", none, inputs(types.LightRed, none, none, none), types.NoViolation},
		{"idle on green", none, inputs(types.LightGreen, none, none, none), types.MinorViolation},
		{"idle on green yielding", none, inputs(types.LightGreen, none, none, types.ActionLeft), types.NoViolation},
	}
	for _, c := range cases {
		if got := Judge(c.action, c.inputs); got != c.expected {
			t.Errorf("%s: expected %s, got %s", c.name, c.expected, got)
		}
	}
}

func TestPenalty(t *testing.T) {
	if p := Penalty(0, 20); p != 0 {
		t.Errorf("expected no penalty at the start, got %f", p)
	}
	if p := Penalty(20, 0); math.Abs(p-1) > 1e-9 {
		t.Errorf("expected full penalty once the deadline is used, got %f", p)
	}
	if p := Penalty(30, -30); math.Abs(p-1) > 1e-9 {
		t.Errorf("expected full penalty past the deadline, got %f", p)
	}
	if p := Penalty(10, 10); math.Abs(p-(math.Sqrt(10)-1)/9) > 1e-9 {
		t.Errorf("unexpected penalty halfway: %f", p)
	}
}

func TestReward(t *testing.T) {
	cases := []struct {
		name      string
		action    types.Action
		waypoint  types.Action
		light     types.Light
		violation types.Violation
		expected  float64
	}{
		{"follows waypoint", types.ActionForward, types.ActionForward, types.LightGreen, types.NoViolation, 2},
		{"other valid move", types.ActionRight, types.ActionForward, types.LightGreen, types.NoViolation, 1},
		{"waits at red", types.ActionNone, types.ActionForward, types.LightRed, types.NoViolation, 2},
		{"waits at red instead of turning right", types.ActionNone, types.ActionRight, types.LightRed, types.NoViolation, 1},
		{"minor violation", types.ActionNone, types.ActionForward, types.LightGreen, types.MinorViolation, -5},
		{"major violation", types.ActionForward, types.ActionForward, types.LightRed, types.MajorViolation, -10},
		{"minor accident", types.ActionRight, types.ActionRight, types.LightRed, types.MinorAccident, -20},
		{"major accident", types.ActionLeft, types.ActionLeft, types.LightRed, types.MajorAccident, -40},
	}
	for _, c := range cases {
		if got := Reward(c.action, c.waypoint, c.light, c.violation, 0); got != c.expected {
			t.Errorf("%s: expected %f, got %f", c.name, c.expected, got)
		}
	}
	if got := Reward(types.ActionForward, types.ActionForward, types.LightGreen, types.NoViolation, 0.5); got != 1.5 {
		t.Errorf("penalty not applied: %f", got)
	}
}
