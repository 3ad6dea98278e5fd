package policies

import (
	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// DoubleQLearning keeps two tables, one picks the successor action and
// the other one values it
type DoubleQLearning struct {
	learner
	q1 *types.QTable
	q2 *types.QTable
}

func NewDoubleQLearning(cfg Config, r *rand.Rand) *DoubleQLearning {
	return &DoubleQLearning{learner: newLearner(cfg, r)}
}

// Train returns Q1 + Q2. The behaviour policy is epsilon greedy over the sum.
func (l *DoubleQLearning) Train(env types.Environment) *types.QTable {
	l.q1 = types.NewQTable(env.NumStates(), env.NumActions())
	l.q2 = types.NewQTable(env.NumStates(), env.NumActions())
	sum := make([]float64, env.NumActions())

	for ep := 0; ep < l.cfg.Episodes; ep++ {
		epsilon := l.epsilon(ep)
		state := env.Reset()
		for {
			floats.AddTo(sum, l.q1.Row(state), l.q2.Row(state))
			action := EpsilonGreedy(l.rand, sum, epsilon)
			next, reward, done, _ := env.Step(action)

			update, eval := l.q1, l.q2
			if l.rand.Float64() >= 0.5 {
				update, eval = l.q2, l.q1
			}
			target := reward
			if !done {
				target += l.cfg.Gamma * eval.Get(next, update.Argmax(next))
			}
			update.Add(state, action, l.cfg.Alpha*(target-update.Get(state, action)))
			if done {
				break
			}
			state = next
		}
		l.report(ep)
	}
	return l.q1.Plus(l.q2)
}

// Tables returns the two estimates of the last training run
func (l *DoubleQLearning) Tables() (*types.QTable, *types.QTable) {
	return l.q1, l.q2
}
