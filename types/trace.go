package types

// Trace of an episode as triplets (state, action, reward)
type Trace struct {
	States  []State   `json:"states"`
	Actions []Action  `json:"actions"`
	Rewards []float64 `json:"rewards"`
}

func NewTrace() *Trace {
	return &Trace{
		States:  make([]State, 0),
		Actions: make([]Action, 0),
		Rewards: make([]float64, 0),
	}
}

func (t *Trace) Append(state State, action Action, reward float64) {
	t.States = append(t.States, state)
	t.Actions = append(t.Actions, action)
	t.Rewards = append(t.Rewards, reward)
}

func (t *Trace) Len() int {
	return len(t.States)
}

func (t *Trace) Get(i int) (State, Action, float64, bool) {
	if i < 0 || i >= len(t.States) {
		return 0, 0, 0, false
	}
	return t.States[i], t.Actions[i], t.Rewards[i], true
}

func (t *Trace) Last() (State, Action, float64, bool) {
	return t.Get(len(t.States) - 1)
}

// TotalReward is the undiscounted sum of the rewards
func (t *Trace) TotalReward() float64 {
	total := 0.0
	for _, r := range t.Rewards {
		total += r
	}
	return total
}

// VisitReturn is the discounted return observed from the first
// visit of a state-action pair in an episode
type VisitReturn struct {
	State  State
	Action Action
	Return float64
}

type visitKey struct {
	s State
	a Action
}

// FirstVisitReturns walks the trace backwards accumulating the discounted return
// and keeps each (state, action) pair the first time the walk meets it, which is
// its latest occurrence in the episode. Ordered from the end of the episode to its start.
func (t *Trace) FirstVisitReturns(gamma float64) []VisitReturn {
	visited := make(map[visitKey]bool, len(t.States))
	out := make([]VisitReturn, 0, len(t.States))
	g := 0.0
	for i := len(t.States) - 1; i >= 0; i-- {
		g = t.Rewards[i] + gamma*g
		k := visitKey{t.States[i], t.Actions[i]}
		if visited[k] {
			continue
		}
		visited[k] = true
		out = append(out, VisitReturn{State: k.s, Action: k.a, Return: g})
	}
	return out
}

// EarliestVisitReturns keeps the return of the earliest occurrence of each
// (state, action) pair instead, ordered like FirstVisitReturns
func (t *Trace) EarliestVisitReturns(gamma float64) []VisitReturn {
	first := make(map[visitKey]int, len(t.States))
	for i := len(t.States) - 1; i >= 0; i-- {
		first[visitKey{t.States[i], t.Actions[i]}] = i
	}

	out := make([]VisitReturn, 0, len(first))
	g := 0.0
	for i := len(t.States) - 1; i >= 0; i-- {
		g = t.Rewards[i] + gamma*g
		k := visitKey{t.States[i], t.Actions[i]}
		if first[k] != i {
			continue
		}
		out = append(out, VisitReturn{State: k.s, Action: k.a, Return: g})
	}
	return out
}
