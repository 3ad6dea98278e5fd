package policies

import (
	"fmt"

	"github.com/zeu5/thief-gridworld/types"
	"gonum.org/v1/gonum/floats"
)

// action values closer than this are ties
const tieTolerance = 1e-9

// Iteration is the result of policy iteration
type Iteration struct {
	Policy     *types.Policy
	Values     types.ValueFunction
	Iterations int
}

// argmaxTies returns the lowest index whose value is within tieTolerance of the maximum
func argmaxTies(values []float64) types.Action {
	max := floats.Max(values)
	for i, v := range values {
		if v >= max-tieTolerance {
			return types.Action(i)
		}
	}
	return types.Action(floats.MaxIdx(values))
}

// GreedyAction picks the action with the best one-step lookahead
func GreedyAction(model types.Model, values types.ValueFunction, s types.State, gamma float64) types.Action {
	q := make([]float64, model.NumActions())
	for a := range q {
		q[a] = Lookahead(model, values, s, types.Action(a), gamma)
	}
	return argmaxTies(q)
}

// PolicyIteration alternates policy evaluation and greedy improvement, starting
// from the uniform policy, until no greedy action changes. Non decision states
// keep an undefined row.
func PolicyIteration(model types.Model, cfg DPConfig) (*Iteration, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy := types.UniformPolicy(model.NumStates(), model.NumActions())
	for i := 0; i < model.NumStates(); i++ {
		if !model.IsDecision(types.State(i)) {
			policy.Undefine(types.State(i))
		}
	}

	values := types.NewValueFunction(model.NumStates())
	for it := 1; it <= cfg.MaxIterations; it++ {
		eval, err := evaluate(model, policy, values, cfg)
		if err != nil {
			return &Iteration{Policy: policy, Values: eval.Values, Iterations: it}, err
		}
		values = eval.Values

		stable := true
		for i := 0; i < model.NumStates(); i++ {
			s := types.State(i)
			if !model.IsDecision(s) {
				continue
			}
			old := policy.Greedy(s)
			// the uniform start is never stable, its values belong to no deterministic policy
			deterministic := policy.Prob(s, old) == 1
			best := GreedyAction(model, values, s, cfg.Gamma)
			policy.SetGreedy(s, best)
			if old != best || !deterministic {
				stable = false
			}
		}
		if stable {
			return &Iteration{Policy: policy, Values: values, Iterations: it}, nil
		}
	}
	return &Iteration{Policy: policy, Values: values, Iterations: cfg.MaxIterations},
		fmt.Errorf("policy iteration after %d iterations: %w", cfg.MaxIterations, ErrNotConverged)
}
