package policies

import (
	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
)

// QLearning is off-policy TD control bootstrapping on the greedy successor value
type QLearning struct {
	learner
}

func NewQLearning(cfg Config, r *rand.Rand) *QLearning {
	return &QLearning{learner: newLearner(cfg, r)}
}

func (l *QLearning) Train(env types.Environment) *types.QTable {
	q := types.NewQTable(env.NumStates(), env.NumActions())
	for ep := 0; ep < l.cfg.Episodes; ep++ {
		epsilon := l.epsilon(ep)
		state := env.Reset()
		for {
			action := EpsilonGreedy(l.rand, q.Row(state), epsilon)
			next, reward, done, _ := env.Step(action)

			target := reward
			if !done {
				target += l.cfg.Gamma * q.Max(next)
			}
			q.Add(state, action, l.cfg.Alpha*(target-q.Get(state, action)))
			if done {
				break
			}
			state = next
		}
		l.report(ep)
	}
	return q
}
