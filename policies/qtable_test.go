package policies

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/types"
)

var (
	actionA = types.Action("A")
	actionB = types.Action("B")

	redState = types.State{
		Waypoint: types.ActionForward,
		Light:    types.LightRed,
		Left:     types.ActionNone,
		Right:    types.ActionNone,
		Oncoming: types.ActionNone,
	}
	greenState = types.State{
		Waypoint: types.ActionLeft,
		Light:    types.LightGreen,
		Left:     types.ActionNone,
		Right:    types.ActionForward,
		Oncoming: types.ActionRight,
	}
)

func TestEnsureInitializesEveryAction(t *testing.T) {
	q := NewQTable(types.AllActions)
	q.Ensure(redState)

	for _, a := range types.AllActions {
		val, err := q.Get(redState, a)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if val != 0.0 {
			t.Errorf("action %s initialized to %f", a, val)
		}
	}
	best, err := q.BestValue(redState)
	if err != nil || best != 0.0 {
		t.Errorf("expected best value 0, got %f (%v)", best, err)
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	q := NewQTable(types.AllActions)
	q.Ensure(redState)
	if err := q.Set(redState, types.ActionRight, 3.5); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	q.Ensure(redState)

	val, _ := q.Get(redState, types.ActionRight)
	if val != 3.5 {
		t.Errorf("ensure overwrote an existing entry: %f", val)
	}
	if q.Len() != 1 {
		t.Errorf("expected 1 state, got %d", q.Len())
	}
}

func TestLookupErrors(t *testing.T) {
	q := NewQTable(types.AllActions)

	if _, err := q.Get(redState, types.ActionNone); !errors.Is(err, types.ErrLookup) {
		t.Errorf("expected lookup error on get, got %v", err)
	}
	if err := q.Set(redState, types.ActionNone, 1); !errors.Is(err, types.ErrLookup) {
		t.Errorf("expected lookup error on set, got %v", err)
	}
	if _, _, err := q.Best(redState); !errors.Is(err, types.ErrLookup) {
		t.Errorf("expected lookup error on best, got %v", err)
	}
	if _, err := q.BestValue(redState); !errors.Is(err, types.ErrLookup) {
		t.Errorf("expected lookup error on best value, got %v", err)
	}

	q.Ensure(redState)
	_, err := q.Get(redState, types.Action("reverse"))
	var lookupErr *types.LookupError
	if !errors.As(err, &lookupErr) || lookupErr.Action != "reverse" {
		t.Errorf("expected lookup error naming the action, got %v", err)
	}
}

func TestBestKeepsAllTies(t *testing.T) {
	cases := []struct {
		name     string
		values   map[types.Action]float64
		expected []types.Action
		max      float64
	}{
		{
			name:     "all zero",
			values:   map[types.Action]float64{},
			expected: types.AllActions,
			max:      0,
		},
		{
			name:     "single best",
			values:   map[types.Action]float64{types.ActionLeft: 2},
			expected: []types.Action{types.ActionLeft},
			max:      2,
		},
		{
			name:     "tie after a strictly greater value",
			values:   map[types.Action]float64{types.ActionNone: 1, types.ActionForward: 3, types.ActionRight: 3},
			expected: []types.Action{types.ActionForward, types.ActionRight},
			max:      3,
		},
		{
			name: "all negative",
			values: map[types.Action]float64{
				types.ActionNone: -1, types.ActionForward: -4, types.ActionLeft: -0.5, types.ActionRight: -0.5,
			},
			expected: []types.Action{types.ActionLeft, types.ActionRight},
			max:      -0.5,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := NewQTable(types.AllActions)
			q.Ensure(greenState)
			for a, v := range c.values {
				if err := q.Set(greenState, a, v); err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
			}
			max, best, err := q.Best(greenState)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if max != c.max {
				t.Errorf("expected max %f, got %f", c.max, max)
			}
			if diff := cmp.Diff(c.expected, best); diff != "" {
				t.Errorf("incorrect tie set (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	q := NewQTable([]types.Action{actionA, actionB})
	q.Ensure(redState)
	snapshot := q.Snapshot()

	expected := types.TableSnapshot{
		redState.Hash(): {"A": 0, "B": 0},
	}
	if diff := cmp.Diff(expected, snapshot); diff != "" {
		t.Errorf("incorrect snapshot (-want +got):\n%s", diff)
	}

	snapshot[redState.Hash()]["A"] = 10
	val, _ := q.Get(redState, actionA)
	if val != 0 {
		t.Errorf("snapshot shares memory with the table")
	}
}
