package policies

import (
	"fmt"

	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
)

// PolicyIterationAlgorithm plans on the environment's model
type PolicyIterationAlgorithm struct {
	cfg DPConfig
}

var _ types.Algorithm = &PolicyIterationAlgorithm{}

func NewPolicyIterationAlgorithm(cfg DPConfig) *PolicyIterationAlgorithm {
	return &PolicyIterationAlgorithm{cfg: cfg}
}

func (p *PolicyIterationAlgorithm) Name() string {
	return "PolicyIteration"
}

func (p *PolicyIterationAlgorithm) Run(env types.ModelEnvironment) (*types.Outcome, error) {
	it, err := PolicyIteration(env, p.cfg)
	if err != nil {
		return nil, err
	}
	return &types.Outcome{Policy: it.Policy, Values: it.Values}, nil
}

// episodic adapts a learner's training loop to types.Algorithm
type episodic struct {
	name  string
	cfg   Config
	rand  *rand.Rand
	train func(l *episodic, env types.ModelEnvironment) (*types.Outcome, error)

	progress func(episode, total int)
}

var _ types.Algorithm = &episodic{}
var _ types.ProgressReporter = &episodic{}

func (e *episodic) Name() string {
	return e.name
}

// Config is the learner configuration the algorithm trains with
func (e *episodic) Config() Config {
	return e.cfg
}

func (e *episodic) SetProgress(f func(episode, total int)) {
	e.progress = f
}

func (e *episodic) Run(env types.ModelEnvironment) (*types.Outcome, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}
	return e.train(e, env)
}

// controlOutcome turns learned action values into a greedy policy
func controlOutcome(q *types.QTable) *types.Outcome {
	return &types.Outcome{
		Policy:  types.ExtractPolicy(q, q.NumStates()),
		Values:  q.StateValues(),
		QValues: q,
	}
}

func NewMonteCarloAlgorithm(cfg Config, r *rand.Rand) types.Algorithm {
	return &episodic{name: "MonteCarlo", cfg: cfg, rand: r, train: func(e *episodic, env types.ModelEnvironment) (*types.Outcome, error) {
		mc := NewMonteCarlo(e.cfg, e.rand)
		mc.SetProgress(e.progress)
		return controlOutcome(mc.Train(env).Dense(env.NumStates())), nil
	}}
}

// NewTD0Algorithm evaluates the uniform random policy, the outcome has no policy
func NewTD0Algorithm(cfg Config, r *rand.Rand) types.Algorithm {
	return &episodic{name: "TD0", cfg: cfg, rand: r, train: func(e *episodic, env types.ModelEnvironment) (*types.Outcome, error) {
		td := NewTD0(e.cfg, e.rand)
		td.SetProgress(e.progress)
		policy := types.UniformPolicy(env.NumStates(), env.NumActions())
		return &types.Outcome{Values: td.Evaluate(env, policy)}, nil
	}}
}

func NewSarsaAlgorithm(cfg Config, r *rand.Rand) types.Algorithm {
	return &episodic{name: "SARSA", cfg: cfg, rand: r, train: func(e *episodic, env types.ModelEnvironment) (*types.Outcome, error) {
		l := NewSarsa(e.cfg, e.rand)
		l.SetProgress(e.progress)
		return controlOutcome(l.Train(env)), nil
	}}
}

func NewQLearningAlgorithm(cfg Config, r *rand.Rand) types.Algorithm {
	return &episodic{name: "QLearning", cfg: cfg, rand: r, train: func(e *episodic, env types.ModelEnvironment) (*types.Outcome, error) {
		l := NewQLearning(e.cfg, e.rand)
		l.SetProgress(e.progress)
		return controlOutcome(l.Train(env)), nil
	}}
}

func NewDoubleQLearningAlgorithm(cfg Config, r *rand.Rand) types.Algorithm {
	return &episodic{name: "DoubleQLearning", cfg: cfg, rand: r, train: func(e *episodic, env types.ModelEnvironment) (*types.Outcome, error) {
		l := NewDoubleQLearning(e.cfg, e.rand)
		l.SetProgress(e.progress)
		return controlOutcome(l.Train(env)), nil
	}}
}

// Algorithms lists the algorithm constructors by their command line name
var Algorithms = map[string]func(Config, DPConfig, *rand.Rand) types.Algorithm{
	"pi": func(_ Config, dp DPConfig, _ *rand.Rand) types.Algorithm {
		return NewPolicyIterationAlgorithm(dp)
	},
	"mc": func(c Config, _ DPConfig, r *rand.Rand) types.Algorithm {
		return NewMonteCarloAlgorithm(c, r)
	},
	"td0": func(c Config, _ DPConfig, r *rand.Rand) types.Algorithm {
		return NewTD0Algorithm(c, r)
	},
	"sarsa": func(c Config, _ DPConfig, r *rand.Rand) types.Algorithm {
		return NewSarsaAlgorithm(c, r)
	},
	"q": func(c Config, _ DPConfig, r *rand.Rand) types.Algorithm {
		return NewQLearningAlgorithm(c, r)
	},
	"doubleq": func(c Config, _ DPConfig, r *rand.Rand) types.Algorithm {
		return NewDoubleQLearningAlgorithm(c, r)
	},
}
