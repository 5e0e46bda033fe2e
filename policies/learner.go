package policies

import "github.com/zeu5/smartcab-rl/types"

// Learner applies the discount free update
//
//	Q(s, a) <- alpha * reward + (1 - alpha) * Q(s, a)
//
// The value of the next state is ignored: the reward of a single decision
// is the whole learning signal
type Learner struct {
	table *QTable
}

func NewLearner(table *QTable) *Learner {
	return &Learner{table: table}
}

// Update moves the estimate of (state, action) towards the reward.
// With alpha 0 the table is left untouched
func (l *Learner) Update(state types.State, action types.Action, reward, alpha float64) error {
	if err := types.CheckProbability("alpha", alpha); err != nil {
		return err
	}
	if alpha == 0 {
		return nil
	}
	cur, err := l.table.Get(state, action)
	if err != nil {
		return err
	}
	return l.table.Set(state, action, alpha*reward+(1-alpha)*cur)
}
