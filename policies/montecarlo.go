package policies

import (
	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// MonteCarlo is on-policy Monte Carlo control with an epsilon-greedy behaviour
// policy. Returns are collected walking each episode backwards, one per
// (state, action) pair the first time the walk meets it.
type MonteCarlo struct {
	learner
	qTable  *types.SparseQTable
	returns map[types.State][][]float64
}

func NewMonteCarlo(cfg Config, r *rand.Rand) *MonteCarlo {
	return &MonteCarlo{learner: newLearner(cfg, r)}
}

// Train runs the configured number of episodes. Unvisited state-action
// pairs are absent from the returned table and read as zero.
func (m *MonteCarlo) Train(env types.Environment) *types.SparseQTable {
	m.qTable = types.NewSparseQTable(env.NumActions())
	m.returns = make(map[types.State][][]float64)

	for ep := 0; ep < m.cfg.Episodes; ep++ {
		epsilon := m.epsilon(ep)
		agent := types.NewAgent(env, func(s types.State) (types.Action, bool) {
			return EpsilonGreedy(m.rand, m.qTable.ActionValues(s), epsilon), true
		}, 0)
		trace, _ := agent.RunEpisode()

		for _, visit := range trace.FirstVisitReturns(m.cfg.Gamma) {
			m.observe(visit, env.NumActions())
		}
		m.report(ep)
	}
	return m.qTable
}

// observe records a return and sets Q to the mean of all the returns seen for the pair
func (m *MonteCarlo) observe(visit types.VisitReturn, actions int) {
	rows, ok := m.returns[visit.State]
	if !ok {
		rows = make([][]float64, actions)
		m.returns[visit.State] = rows
	}
	rows[visit.Action] = append(rows[visit.Action], visit.Return)
	m.qTable.Update(visit.State, visit.Action, stat.Mean(rows[visit.Action], nil))
}

// Returns is the number of returns observed for the pair
func (m *MonteCarlo) Returns(s types.State, a types.Action) int {
	rows, ok := m.returns[s]
	if !ok {
		return 0
	}
	return len(rows[a])
}
