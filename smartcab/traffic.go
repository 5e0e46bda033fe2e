package smartcab

import (
	"github.com/zeu5/smartcab-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// intents of cross traffic, in the order of the weights
var intents = []types.Action{types.ActionForward, types.ActionLeft, types.ActionRight}

// TrafficGenerator draws the cross traffic waiting at the agent's intersection.
// Each direction independently holds a car with probability Density whose
// intended move is drawn with the given weights (forward, left, right)
type TrafficGenerator struct {
	Density float64
	Weights []float64
	src     rand.Source
}

func NewTrafficGenerator(density float64, weights []float64, src rand.Source) *TrafficGenerator {
	if len(weights) != len(intents) {
		weights = []float64{1, 1, 1}
	}
	return &TrafficGenerator{
		Density: density,
		Weights: weights,
		src:     src,
	}
}

// Draw cross traffic for the left, right and oncoming directions
func (g *TrafficGenerator) Draw() (left, right, oncoming types.Action) {
	return g.car(), g.car(), g.car()
}

func (g *TrafficGenerator) car() types.Action {
	if g.Density <= 0 {
		return types.ActionNone
	}
	present := distuv.Bernoulli{P: g.Density, Src: g.src}.Rand()
	if present != 1 {
		return types.ActionNone
	}
	i, ok := sampleuv.NewWeighted(g.Weights, g.src).Take()
	if !ok {
		return types.ActionNone
	}
	return intents[i]
}
