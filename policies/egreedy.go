package policies

import (
	"github.com/zeu5/smartcab-rl/types"
	"golang.org/x/exp/rand"
)

// EpsilonGreedy selects actions over a QTable. With probability 1-epsilon
// it picks uniformly among the actions tied for the best value, otherwise
// uniformly among all the actions
type EpsilonGreedy struct {
	table   *QTable
	actions []types.Action
	rand    *rand.Rand
}

func NewEpsilonGreedy(table *QTable, rng *rand.Rand) *EpsilonGreedy {
	return &EpsilonGreedy{
		table:   table,
		actions: table.Actions(),
		rand:    rng,
	}
}

// ChooseAction returns the next action for the state. When learning is
// disabled the table is not consulted and the action is uniformly random.
// When learning, the state must already be in the table
func (p *EpsilonGreedy) ChooseAction(state types.State, epsilon float64, learning bool) (types.Action, error) {
	if !learning {
		return p.random(p.actions), nil
	}
	if p.rand.Float64() > epsilon {
		_, best, err := p.table.Best(state)
		if err != nil {
			return "", err
		}
		return p.random(best), nil
	}
	return p.random(p.actions), nil
}

func (p *EpsilonGreedy) random(actions []types.Action) types.Action {
	return actions[p.rand.Intn(len(actions))]
}
