package policies

import (
	"math"

	"github.com/zeu5/smartcab-rl/types"
)

// Schedule gives the exploration probability for a (zero based) trial index.
// Implementations are pure and non-increasing in the trial index
type Schedule interface {
	Epsilon(trial int) float64
}

// Gompertz decays exploration along a mirrored Gompertz curve
//
//	epsilon(t) = Amplitude * (1 - exp(-Displacement * exp(-Growth * t)))
//
// Exploration stays close to Amplitude for the first trials, drops quickly
// around t = ln(Displacement) / Growth and then approaches 0
type Gompertz struct {
	Amplitude    float64
	Displacement float64
	Growth       float64
}

var _ Schedule = Gompertz{}

// DefaultGompertz starts at ~0.993 and is below 0.01 after ~125 trials
func DefaultGompertz() Gompertz {
	return Gompertz{
		Amplitude:    1.0,
		Displacement: 5.0,
		Growth:       0.05,
	}
}

// NewGompertz validates the curve parameters
func NewGompertz(amplitude, displacement, growth float64) (Gompertz, error) {
	if err := types.CheckProbability("gompertz amplitude", amplitude); err != nil {
		return Gompertz{}, err
	}
	if displacement < 0 || math.IsNaN(displacement) {
		return Gompertz{}, &types.ConfigError{Field: "gompertz displacement", Value: displacement, Reason: "must not be negative"}
	}
	if growth < 0 || math.IsNaN(growth) {
		return Gompertz{}, &types.ConfigError{Field: "gompertz growth", Value: growth, Reason: "must not be negative"}
	}
	return Gompertz{Amplitude: amplitude, Displacement: displacement, Growth: growth}, nil
}

func (g Gompertz) Epsilon(trial int) float64 {
	if trial < 0 {
		trial = 0
	}
	val := g.Amplitude * (1 - math.Exp(-g.Displacement*math.Exp(-g.Growth*float64(trial))))
	return clamp(val)
}

// LinearDecay subtracts Rate once per trial starting from Initial,
// so the first trial (index 0) already runs at Initial - Rate
type LinearDecay struct {
	Initial float64
	Rate    float64
}

var _ Schedule = LinearDecay{}

func NewLinearDecay(initial, rate float64) (LinearDecay, error) {
	if err := types.CheckProbability("linear initial epsilon", initial); err != nil {
		return LinearDecay{}, err
	}
	if rate < 0 || math.IsNaN(rate) {
		return LinearDecay{}, &types.ConfigError{Field: "linear decay rate", Value: rate, Reason: "must not be negative"}
	}
	return LinearDecay{Initial: initial, Rate: rate}, nil
}

func (l LinearDecay) Epsilon(trial int) float64 {
	if trial < 0 {
		trial = 0
	}
	return clamp(l.Initial - l.Rate*float64(trial+1))
}

// Constant exploration, used when the schedule should not decay at all
type Constant float64

var _ Schedule = Constant(0)

func (c Constant) Epsilon(_ int) float64 {
	return clamp(float64(c))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
