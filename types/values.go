package types

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ValueFunction is indexed by state
type ValueFunction []float64

func NewValueFunction(states int) ValueFunction {
	return make(ValueFunction, states)
}

func (v ValueFunction) Clone() ValueFunction {
	out := make(ValueFunction, len(v))
	copy(out, v)
	return out
}

// MaxDiff is the largest absolute per-state difference
func (v ValueFunction) MaxDiff(other ValueFunction) float64 {
	diff := 0.0
	for s := range v {
		diff = math.Max(diff, math.Abs(v[s]-other[s]))
	}
	return diff
}

// ActionValues is any action-value table a policy can be extracted from
type ActionValues interface {
	NumActions() int
	// ActionValues returns a copy of the row for the state
	ActionValues(State) []float64
}

// QTable is a dense action-value table
type QTable struct {
	Values [][]float64 `json:"values"`
}

var _ ActionValues = &QTable{}

func NewQTable(states, actions int) *QTable {
	values := make([][]float64, states)
	for s := range values {
		values[s] = make([]float64, actions)
	}
	return &QTable{Values: values}
}

func (q *QTable) NumStates() int {
	return len(q.Values)
}

func (q *QTable) NumActions() int {
	if len(q.Values) == 0 {
		return 0
	}
	return len(q.Values[0])
}

func (q *QTable) Get(s State, a Action) float64 {
	return q.Values[s][a]
}

func (q *QTable) Set(s State, a Action, val float64) {
	q.Values[s][a] = val
}

func (q *QTable) Add(s State, a Action, delta float64) {
	q.Values[s][a] += delta
}

// Row is the live row of s, callers must not keep it
func (q *QTable) Row(s State) []float64 {
	return q.Values[s]
}

func (q *QTable) ActionValues(s State) []float64 {
	out := make([]float64, len(q.Values[s]))
	copy(out, q.Values[s])
	return out
}

// Argmax breaks ties towards the lowest action index
func (q *QTable) Argmax(s State) Action {
	return Action(floats.MaxIdx(q.Values[s]))
}

func (q *QTable) Max(s State) float64 {
	return floats.Max(q.Values[s])
}

// Plus returns the element-wise sum of the two tables
func (q *QTable) Plus(other *QTable) *QTable {
	out := q.Clone()
	for s := range out.Values {
		floats.Add(out.Values[s], other.Values[s])
	}
	return out
}

func (q *QTable) Clone() *QTable {
	out := NewQTable(q.NumStates(), q.NumActions())
	for s := range q.Values {
		copy(out.Values[s], q.Values[s])
	}
	return out
}

// StateValues is the greedy value max_a Q(s, a) of every state
func (q *QTable) StateValues() ValueFunction {
	v := NewValueFunction(q.NumStates())
	for s := range q.Values {
		v[s] = q.Max(State(s))
	}
	return v
}

// SparseQTable only stores visited states. Unseen states read as
// the all-zero action vector without being inserted.
type SparseQTable struct {
	actions int
	table   map[State][]float64
}

var _ ActionValues = &SparseQTable{}

func NewSparseQTable(actions int) *SparseQTable {
	return &SparseQTable{
		actions: actions,
		table:   make(map[State][]float64),
	}
}

func (q *SparseQTable) NumActions() int {
	return q.actions
}

func (q *SparseQTable) Visited(s State) bool {
	_, ok := q.table[s]
	return ok
}

func (q *SparseQTable) Get(s State, a Action) float64 {
	row, ok := q.table[s]
	if !ok {
		return 0
	}
	return row[a]
}

// Update sets the value, creating the row on first write
func (q *SparseQTable) Update(s State, a Action, val float64) {
	row, ok := q.table[s]
	if !ok {
		row = make([]float64, q.actions)
		q.table[s] = row
	}
	row[a] = val
}

func (q *SparseQTable) ActionValues(s State) []float64 {
	out := make([]float64, q.actions)
	if row, ok := q.table[s]; ok {
		copy(out, row)
	}
	return out
}

// States lists the visited states in increasing order
func (q *SparseQTable) States() []State {
	states := make([]State, 0, len(q.table))
	for s := range q.table {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

func (q *SparseQTable) Len() int {
	return len(q.table)
}

// Dense copies the table into a QTable with the given number of states
func (q *SparseQTable) Dense(states int) *QTable {
	out := NewQTable(states, q.actions)
	for s, row := range q.table {
		if int(s) < states {
			copy(out.Values[s], row)
		}
	}
	return out
}
