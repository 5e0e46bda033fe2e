package smartcab

import (
	"math"

	"github.com/zeu5/smartcab-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Heading of the vehicle as a unit vector; Y grows southwards
type Heading struct {
	X int
	Y int
}

var (
	East  = Heading{1, 0}
	North = Heading{0, -1}
	West  = Heading{-1, 0}
	South = Heading{0, 1}

	AllHeadings = []Heading{East, North, West, South}
)

// Left turn of the heading
func (h Heading) Left() Heading {
	return Heading{X: h.Y, Y: -h.X}
}

// Right turn of the heading
func (h Heading) Right() Heading {
	return Heading{X: -h.Y, Y: h.X}
}

// TrafficLight at an intersection. Phase true lets north/south traffic through
type TrafficLight struct {
	Phase       bool
	Period      int
	LastUpdated int
}

// NewTrafficLight with a random phase and a period in {3, 4, 5}
func NewTrafficLight(src rand.Source) *TrafficLight {
	period := distuv.Uniform{Min: 3, Max: 6, Src: src}.Rand()
	return &TrafficLight{
		Phase:  distuv.Bernoulli{P: 0.5, Src: src}.Rand() == 1,
		Period: int(math.Min(5, math.Floor(period))),
	}
}

// Reset at the start of a trial
func (l *TrafficLight) Reset() {
	l.LastUpdated = 0
}

// Update flips the phase once the period elapsed
func (l *TrafficLight) Update(t int) {
	if t-l.LastUpdated >= l.Period {
		l.Phase = !l.Phase
		l.LastUpdated = t
	}
}

// LightFor the vehicle approaching with the heading
func (l *TrafficLight) LightFor(h Heading) types.Light {
	if (l.Phase && h.Y != 0) || (!l.Phase && h.X != 0) {
		return types.LightGreen
	}
	return types.LightRed
}
