package policies

import (
	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
)

// TD0 estimates the state values of a fixed policy with one-step temporal differences
type TD0 struct {
	learner
}

func NewTD0(cfg Config, r *rand.Rand) *TD0 {
	return &TD0{learner: newLearner(cfg, r)}
}

// Evaluate runs the policy for the configured number of episodes and returns
// V. Episodes end early in a state where the policy is undefined.
func (t *TD0) Evaluate(env types.Environment, policy *types.Policy) types.ValueFunction {
	values := types.NewValueFunction(env.NumStates())
	for ep := 0; ep < t.cfg.Episodes; ep++ {
		state := env.Reset()
		for {
			action, ok := policy.Sample(state, t.rand)
			if !ok {
				break
			}
			next, reward, done, _ := env.Step(action)
			target := reward
			if !done {
				target += t.cfg.Gamma * values[next]
			}
			values[state] += t.cfg.Alpha * (target - values[state])
			if done {
				break
			}
			state = next
		}
		t.report(ep)
	}
	return values
}
