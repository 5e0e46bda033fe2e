package policies

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/types"
)

func checkNonIncreasing(t *testing.T, name string, s Schedule, trials int) {
	t.Helper()
	prev := s.Epsilon(0)
	for i := 0; i <= trials; i++ {
		e := s.Epsilon(i)
		if e < 0 || e > 1 {
			t.Fatalf("%s: epsilon(%d) = %f outside [0, 1]", name, i, e)
		}
		if e > prev {
			t.Fatalf("%s: epsilon(%d) = %f increased from %f", name, i, e, prev)
		}
		prev = e
	}
}

func TestSchedulesAreNonIncreasing(t *testing.T) {
	checkNonIncreasing(t, "gompertz", DefaultGompertz(), 1000)
	checkNonIncreasing(t, "steep gompertz", Gompertz{Amplitude: 0.8, Displacement: 20, Growth: 0.3}, 1000)
	checkNonIncreasing(t, "flat gompertz", Gompertz{Amplitude: 1, Displacement: 1, Growth: 0}, 100)
	checkNonIncreasing(t, "linear", LinearDecay{Initial: 1, Rate: 0.05}, 100)
	checkNonIncreasing(t, "constant", Constant(0.3), 100)
}

func TestGompertzShape(t *testing.T) {
	g := DefaultGompertz()

	start := g.Epsilon(0)
	expected := 1 - math.Exp(-5)
	if math.Abs(start-expected) > 1e-12 {
		t.Errorf("expected epsilon(0) = %f, got %f", expected, start)
	}
	if start < 0.99 {
		t.Errorf("epsilon(0) should be near 1, got %f", start)
	}
	if e := g.Epsilon(200); e >= 0.01 {
		t.Errorf("epsilon(200) should be below 0.01, got %f", e)
	}
	// slow start, fast middle
	early := g.Epsilon(0) - g.Epsilon(10)
	middle := g.Epsilon(30) - g.Epsilon(40)
	if early >= middle {
		t.Errorf("expected faster decay in the middle phase: early %f, middle %f", early, middle)
	}
}

func TestLinearDecayStartsAfterOneStep(t *testing.T) {
	l := LinearDecay{Initial: 1, Rate: 0.05}
	if e := l.Epsilon(0); math.Abs(e-0.95) > 1e-12 {
		t.Errorf("expected 0.95 for the first trial, got %f", e)
	}
	if e := l.Epsilon(19); e > 1e-12 {
		t.Errorf("expected 0 after 20 trials, got %f", e)
	}
	if e := l.Epsilon(50); e != 0 {
		t.Errorf("expected clamp at 0, got %f", e)
	}
}

func TestScheduleValidation(t *testing.T) {
	if _, err := NewGompertz(1.5, 5, 0.05); !errors.Is(err, types.ErrConfig) {
		t.Errorf("expected config error for amplitude, got %v", err)
	}
	if _, err := NewGompertz(1, -1, 0.05); !errors.Is(err, types.ErrConfig) {
		t.Errorf("expected config error for displacement, got %v", err)
	}
	if _, err := NewGompertz(1, 5, -0.1); !errors.Is(err, types.ErrConfig) {
		t.Errorf("expected config error for growth, got %v", err)
	}
	if _, err := NewLinearDecay(1, -0.05); !errors.Is(err, types.ErrConfig) {
		t.Errorf("expected config error for rate, got %v", err)
	}
	if _, err := NewGompertz(1, 5, 0.05); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}
