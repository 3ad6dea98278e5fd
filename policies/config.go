package policies

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNotConverged is returned when a dynamic programming loop hits its safety cap
	ErrNotConverged = errors.New("did not converge")
	// ErrInvalidConfig is wrapped by every configuration error
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config of the episodic learners
type Config struct {
	Episodes int     `mapstructure:"episodes"`
	Alpha    float64 `mapstructure:"alpha"`
	Gamma    float64 `mapstructure:"gamma"`
	Epsilon  float64 `mapstructure:"epsilon"`
	// multiplicative decay applied to epsilon after every episode, 1 keeps it fixed
	EpsilonDecay float64 `mapstructure:"epsilon_decay"`
	EpsilonMin   float64 `mapstructure:"epsilon_min"`
}

func DefaultConfig() Config {
	return Config{
		Episodes:     10000,
		Alpha:        0.1,
		Gamma:        0.9,
		Epsilon:      0.1,
		EpsilonDecay: 1,
		EpsilonMin:   0,
	}
}

func (c Config) Validate() error {
	if c.Episodes < 0 {
		return fmt.Errorf("%w: episodes must not be negative (got %d)", ErrInvalidConfig, c.Episodes)
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be in (0, 1] (got %.3f)", ErrInvalidConfig, c.Alpha)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("%w: gamma must be in [0, 1] (got %.3f)", ErrInvalidConfig, c.Gamma)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("%w: epsilon must be in [0, 1] (got %.3f)", ErrInvalidConfig, c.Epsilon)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("%w: epsilon_decay must be in (0, 1] (got %.3f)", ErrInvalidConfig, c.EpsilonDecay)
	}
	if c.EpsilonMin < 0 || c.EpsilonMin > c.Epsilon {
		return fmt.Errorf("%w: epsilon_min must be in [0, epsilon] (got %.3f)", ErrInvalidConfig, c.EpsilonMin)
	}
	return nil
}

// DPConfig of policy evaluation and policy iteration
type DPConfig struct {
	Gamma float64 `mapstructure:"gamma"`
	Theta float64 `mapstructure:"theta"`
	// safety caps, the loops return ErrNotConverged when reached
	MaxSweeps     int `mapstructure:"max_sweeps"`
	MaxIterations int `mapstructure:"max_iterations"`
}

func DefaultDPConfig() DPConfig {
	return DPConfig{
		Gamma:         0.9,
		Theta:         1e-6,
		MaxSweeps:     100000,
		MaxIterations: 1000,
	}
}

func (c DPConfig) Validate() error {
	if c.Gamma <= 0 || c.Gamma > 1 {
		return fmt.Errorf("%w: gamma must be in (0, 1] (got %.3f)", ErrInvalidConfig, c.Gamma)
	}
	if c.Theta <= 0 {
		return fmt.Errorf("%w: theta must be positive (got %g)", ErrInvalidConfig, c.Theta)
	}
	if c.MaxSweeps < 1 || c.MaxIterations < 1 {
		return fmt.Errorf("%w: max_sweeps and max_iterations must be positive", ErrInvalidConfig)
	}
	return nil
}

// EpsilonGreedy explores with probability epsilon, otherwise picks
// the highest value with ties broken towards the lowest action index
func EpsilonGreedy(r *rand.Rand, values []float64, epsilon float64) types.Action {
	if r.Float64() < epsilon {
		return types.Action(r.Intn(len(values)))
	}
	return types.Action(floats.MaxIdx(values))
}

// learner holds what the episodic algorithms share
type learner struct {
	cfg      Config
	rand     *rand.Rand
	progress func(episode, total int)
}

func newLearner(cfg Config, r *rand.Rand) learner {
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	if cfg.EpsilonDecay == 0 {
		cfg.EpsilonDecay = 1
	}
	return learner{cfg: cfg, rand: r}
}

func (l *learner) SetProgress(f func(episode, total int)) {
	l.progress = f
}

func (l *learner) Config() Config {
	return l.cfg
}

// epsilon in use during the given zero based episode
func (l *learner) epsilon(episode int) float64 {
	if l.cfg.EpsilonDecay >= 1 {
		return l.cfg.Epsilon
	}
	return math.Max(l.cfg.EpsilonMin, l.cfg.Epsilon*math.Pow(l.cfg.EpsilonDecay, float64(episode)))
}

func (l *learner) report(episode int) {
	if l.progress != nil {
		l.progress(episode+1, l.cfg.Episodes)
	}
}
