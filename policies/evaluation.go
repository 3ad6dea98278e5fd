package policies

import (
	"fmt"
	"math"

	"github.com/zeu5/thief-gridworld/types"
)

// Evaluation is the value function of a fixed policy
type Evaluation struct {
	Values types.ValueFunction
	// Deltas holds the largest per-state change of every sweep
	Deltas []float64
}

func (e *Evaluation) Sweeps() int {
	return len(e.Deltas)
}

// Lookahead is the expected one-step return of taking a in s under the model.
// Terminal successors contribute their reward only.
func Lookahead(model types.Model, values types.ValueFunction, s types.State, a types.Action, gamma float64) float64 {
	total := 0.0
	for _, tr := range model.Transitions(s, a) {
		if tr.Terminal {
			total += tr.Prob * tr.Reward
			continue
		}
		total += tr.Prob * (tr.Reward + gamma*values[tr.Next])
	}
	return total
}

// EvaluatePolicy computes the value function of the policy with synchronous sweeps
// over the decision states until the largest change drops below theta.
// After MaxSweeps the partial evaluation is returned with ErrNotConverged.
func EvaluatePolicy(model types.Model, policy *types.Policy, cfg DPConfig) (*Evaluation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if policy.NumStates() != model.NumStates() || policy.NumActions() != model.NumActions() {
		return nil, fmt.Errorf("%w: policy is %dx%d, model is %dx%d", ErrInvalidConfig,
			policy.NumStates(), policy.NumActions(), model.NumStates(), model.NumActions())
	}
	return evaluate(model, policy, types.NewValueFunction(model.NumStates()), cfg)
}

func evaluate(model types.Model, policy *types.Policy, values types.ValueFunction, cfg DPConfig) (*Evaluation, error) {
	eval := &Evaluation{Values: values, Deltas: make([]float64, 0)}
	for sweep := 0; sweep < cfg.MaxSweeps; sweep++ {
		next := eval.Values.Clone()
		delta := 0.0
		for i := 0; i < model.NumStates(); i++ {
			s := types.State(i)
			if !model.IsDecision(s) {
				continue
			}
			v := 0.0
			for a, prob := range policy.Probs[s] {
				if prob == 0 {
					continue
				}
				v += prob * Lookahead(model, eval.Values, s, types.Action(a), cfg.Gamma)
			}
			delta = math.Max(delta, math.Abs(v-eval.Values[s]))
			next[s] = v
		}
		eval.Values = next
		eval.Deltas = append(eval.Deltas, delta)
		if delta < cfg.Theta {
			return eval, nil
		}
	}
	return eval, fmt.Errorf("policy evaluation after %d sweeps: %w", cfg.MaxSweeps, ErrNotConverged)
}
