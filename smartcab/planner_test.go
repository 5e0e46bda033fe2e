package smartcab

import (
	"testing"

	"github.com/zeu5/smartcab-rl/types"
)

func TestHeadingTurns(t *testing.T) {
	if East.Left() != North || North.Left() != West || West.Left() != South || South.Left() != East {
		t.Errorf("left turns are not counter clockwise")
	}
	for _, h := range AllHeadings {
		if h.Left().Right() != h {
			t.Errorf("right does not undo left for %v", h)
		}
	}
}

func TestNextWaypoint(t *testing.T) {
	at := types.Location{X: 4, Y: 3}
	cases := []struct {
		name        string
		heading     Heading
		destination types.Location
		expected    types.Action
	}{
		{"arrived", East, at, types.ActionNone},
		{"ahead", East, types.Location{X: 6, Y: 1}, types.ActionForward},
		{"behind", East, types.Location{X: 1, Y: 3}, types.ActionRight},
		{"east while heading north", North, types.Location{X: 6, Y: 3}, types.ActionRight},
		{"east while heading south", South, types.Location{X: 6, Y: 3}, types.ActionLeft},
		{"south while heading east", East, types.Location{X: 4, Y: 5}, types.ActionRight},
		{"north while heading east", East, types.Location{X: 4, Y: 1}, types.ActionLeft},
		{"north while heading north", North, types.Location{X: 4, Y: 1}, types.ActionForward},
		{"north while heading south", South, types.Location{X: 4, Y: 1}, types.ActionRight},
	}
	for _, c := range cases {
		if got := NextWaypoint(at, c.heading, c.destination); got != c.expected {
			t.Errorf("%s: expected %s, got %s", c.name, c.expected, got)
		}
	}
}

func TestTrafficLight(t *testing.T) {
	l := &TrafficLight{Phase: true, Period: 3}
	if l.LightFor(North) != types.LightGreen || l.LightFor(East) != types.LightRed {
		t.Errorf("north/south phase should let north bound traffic through")
	}
	l.Update(2)
	if !l.Phase {
		t.Errorf("light flipped before its period")
	}
	l.Update(3)
	if l.Phase || l.LastUpdated != 3 {
		t.Errorf("light should flip once the period elapsed: %+v", l)
	}
	if l.LightFor(West) != types.LightGreen {
		t.Errorf("east/west phase should let west bound traffic through")
	}
}

func TestTrafficGeneratorDensity(t *testing.T) {
	empty := NewTrafficGenerator(0, nil, newSource(1))
	for i := 0; i < 100; i++ {
		left, right, oncoming := empty.Draw()
		if left != types.ActionNone || right != types.ActionNone || oncoming != types.ActionNone {
			t.Fatalf("empty roads produced traffic")
		}
	}
	onlyLeft := NewTrafficGenerator(1, []float64{0, 1, 0}, newSource(2))
	for i := 0; i < 100; i++ {
		left, right, oncoming := onlyLeft.Draw()
		if left != types.ActionLeft || right != types.ActionLeft || oncoming != types.ActionLeft {
			t.Fatalf("full roads with left intents only produced %s %s %s", left, right, oncoming)
		}
	}
}
