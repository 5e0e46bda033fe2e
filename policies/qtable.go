package policies

import (
	"fmt"
	"strings"

	"github.com/zeu5/smartcab-rl/types"
	"github.com/zeu5/smartcab-rl/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// QTable maps every encountered state to an estimate per action.
// A state is added with all the actions set to 0 and is never removed.
// Not safe for concurrent use: the owning agent serializes all access
type QTable struct {
	actions []types.Action
	table   map[types.State]map[types.Action]float64
}

// NewQTable creates an empty table over the given (closed) action set
func NewQTable(actions []types.Action) *QTable {
	a := make([]types.Action, len(actions))
	copy(a, actions)
	return &QTable{
		actions: a,
		table:   make(map[types.State]map[types.Action]float64),
	}
}

// Actions the table was created with
func (q *QTable) Actions() []types.Action {
	return q.actions
}

// Ensure adds the state with every action set to 0 if absent
func (q *QTable) Ensure(state types.State) {
	if _, ok := q.table[state]; ok {
		return
	}
	values := make(map[types.Action]float64, len(q.actions))
	for _, a := range q.actions {
		values[a] = 0.0
	}
	q.table[state] = values
}

func (q *QTable) HasState(state types.State) bool {
	_, ok := q.table[state]
	return ok
}

// Len is the number of states in the table
func (q *QTable) Len() int {
	return len(q.table)
}

// Get returns the estimate of the action under the state
func (q *QTable) Get(state types.State, action types.Action) (float64, error) {
	values, ok := q.table[state]
	if !ok {
		return 0, &types.LookupError{State: state}
	}
	val, ok := values[action]
	if !ok {
		return 0, &types.LookupError{State: state, Action: action}
	}
	return val, nil
}

// Set replaces the estimate of an existing state action pair
func (q *QTable) Set(state types.State, action types.Action, val float64) error {
	values, ok := q.table[state]
	if !ok {
		return &types.LookupError{State: state}
	}
	if _, ok := values[action]; !ok {
		return &types.LookupError{State: state, Action: action}
	}
	values[action] = val
	return nil
}

// Best returns the maximal estimate under the state and every action achieving it,
// in the order of the action set
func (q *QTable) Best(state types.State) (float64, []types.Action, error) {
	values, ok := q.table[state]
	if !ok {
		return 0, nil, &types.LookupError{State: state}
	}
	maxVal, maxActions := maxActions(q.actions, values)
	return maxVal, maxActions, nil
}

// BestValue returns only the maximal estimate under the state
func (q *QTable) BestValue(state types.State) (float64, error) {
	maxVal, _, err := q.Best(state)
	return maxVal, err
}

// maxActions folds over the actions keeping the running maximum and every
// action tied with it; the candidates restart on a strictly greater value
func maxActions(actions []types.Action, values map[types.Action]float64) (float64, []types.Action) {
	maxVal := 0.0
	candidates := make([]types.Action, 0, len(actions))
	for _, a := range actions {
		val := values[a]
		switch {
		case len(candidates) == 0 || val > maxVal:
			maxVal = val
			candidates = append(candidates[:0], a)
		case val == maxVal:
			candidates = append(candidates, a)
		}
	}
	return maxVal, candidates
}

// Snapshot copies the table keyed by state hash and action name
func (q *QTable) Snapshot() types.TableSnapshot {
	out := make(types.TableSnapshot, len(q.table))
	for state, values := range q.table {
		copied := make(map[string]float64, len(values))
		for a, v := range values {
			copied[a.String()] = v
		}
		out[state.Hash()] = copied
	}
	return out
}

// Record writes the table as json to the path
func (q *QTable) Record(filePath string) error {
	return util.WriteJSON(filePath, q.Snapshot())
}

// String renders the table one state per line, sorted by state
func (q *QTable) String() string {
	snapshot := q.Snapshot()
	keys := maps.Keys(snapshot)
	slices.Sort(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k + "\n")
		for _, a := range q.actions {
			fmt.Fprintf(&b, "    %-8s : %.2f\n", a, snapshot[k][a.String()])
		}
	}
	return b.String()
}
