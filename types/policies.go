package types

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Policy maps every state to a distribution over actions.
// A row that sums to zero is undefined (terminal and wall states).
type Policy struct {
	Probs [][]float64 `json:"probs"`
}

// NewPolicy returns a policy with every row undefined
func NewPolicy(states, actions int) *Policy {
	probs := make([][]float64, states)
	for s := range probs {
		probs[s] = make([]float64, actions)
	}
	return &Policy{Probs: probs}
}

// UniformPolicy assigns the same probability to every action in every state
func UniformPolicy(states, actions int) *Policy {
	p := NewPolicy(states, actions)
	for s := range p.Probs {
		for a := range p.Probs[s] {
			p.Probs[s][a] = 1 / float64(actions)
		}
	}
	return p
}

func (p *Policy) NumStates() int {
	return len(p.Probs)
}

func (p *Policy) NumActions() int {
	if len(p.Probs) == 0 {
		return 0
	}
	return len(p.Probs[0])
}

func (p *Policy) Prob(s State, a Action) float64 {
	return p.Probs[s][a]
}

// Set replaces the distribution of state s
func (p *Policy) Set(s State, dist []float64) {
	copy(p.Probs[s], dist)
}

// SetGreedy makes the distribution of s one-hot on a
func (p *Policy) SetGreedy(s State, a Action) {
	for i := range p.Probs[s] {
		p.Probs[s][i] = 0
	}
	p.Probs[s][a] = 1
}

// Undefine clears the row of state s
func (p *Policy) Undefine(s State) {
	for i := range p.Probs[s] {
		p.Probs[s][i] = 0
	}
}

func (p *Policy) Distribution(s State) []float64 {
	out := make([]float64, len(p.Probs[s]))
	copy(out, p.Probs[s])
	return out
}

func (p *Policy) Defined(s State) bool {
	return floats.Sum(p.Probs[s]) > 0
}

// Greedy returns the most probable action, lowest index on ties
func (p *Policy) Greedy(s State) Action {
	return Action(floats.MaxIdx(p.Probs[s]))
}

// Sample draws an action from the distribution of s.
// ok is false when the row is undefined.
func (p *Policy) Sample(s State, src rand.Source) (Action, bool) {
	if !p.Defined(s) {
		return 0, false
	}
	i, ok := sampleuv.NewWeighted(p.Probs[s], src).Take()
	if !ok {
		return 0, false
	}
	return Action(i), true
}

func (p *Policy) Clone() *Policy {
	c := NewPolicy(p.NumStates(), p.NumActions())
	for s := range p.Probs {
		copy(c.Probs[s], p.Probs[s])
	}
	return c
}

// ExtractPolicy converts an action-value table into a deterministic policy:
// one-hot on the argmax when the row has any non-zero value, uniform otherwise
func ExtractPolicy(q ActionValues, states int) *Policy {
	actions := q.NumActions()
	p := NewPolicy(states, actions)
	for s := 0; s < states; s++ {
		row := q.ActionValues(State(s))
		if !anyNonZero(row) {
			for a := range p.Probs[s] {
				p.Probs[s][a] = 1 / float64(actions)
			}
			continue
		}
		p.SetGreedy(State(s), Action(floats.MaxIdx(row)))
	}
	return p
}

func anyNonZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return true
		}
	}
	return false
}
