package policies

import (
	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
)

// Sarsa is on-policy TD control, the next action is both taken and bootstrapped on
type Sarsa struct {
	learner
}

func NewSarsa(cfg Config, r *rand.Rand) *Sarsa {
	return &Sarsa{learner: newLearner(cfg, r)}
}

func (l *Sarsa) Train(env types.Environment) *types.QTable {
	q := types.NewQTable(env.NumStates(), env.NumActions())
	for ep := 0; ep < l.cfg.Episodes; ep++ {
		epsilon := l.epsilon(ep)
		state := env.Reset()
		action := EpsilonGreedy(l.rand, q.Row(state), epsilon)
		for {
			next, reward, done, _ := env.Step(action)
			nextAction := EpsilonGreedy(l.rand, q.Row(next), epsilon)

			target := reward
			if !done {
				target += l.cfg.Gamma * q.Get(next, nextAction)
			}
			q.Add(state, action, l.cfg.Alpha*(target-q.Get(state, action)))
			if done {
				break
			}
			state, action = next, nextAction
		}
		l.report(ep)
	}
	return q
}
