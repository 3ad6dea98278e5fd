package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zeu5/thief-gridworld/util"
	"golang.org/x/exp/rand"
)

// Outcome is what an algorithm produced. Policy is nil for pure evaluators.
type Outcome struct {
	Policy  *Policy       `json:"policy,omitempty"`
	Values  ValueFunction `json:"values,omitempty"`
	QValues *QTable       `json:"q_values,omitempty"`
}

// Algorithm trains on a freshly reset environment and returns its outcome
type Algorithm interface {
	Name() string
	Run(ModelEnvironment) (*Outcome, error)
}

// ProgressReporter is implemented by the episodic learners
type ProgressReporter interface {
	SetProgress(func(episode, total int))
}

// EnvironmentFactory creates an isolated environment instance
type EnvironmentFactory func() (ModelEnvironment, error)

// Experiment pairs a display name with an algorithm
type Experiment struct {
	Name      string
	algorithm Algorithm
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, algorithm Algorithm) *Experiment {
	return &Experiment{
		Name:      name,
		algorithm: algorithm,
	}
}

func (e *Experiment) Algorithm() Algorithm {
	return e.algorithm
}

// Result of one experiment of a comparison
type Result struct {
	Name     string        `json:"name"`
	Outcome  *Outcome      `json:"outcome"`
	Stats    *RolloutStats `json:"stats,omitempty"` // nil when the outcome has no policy
	Duration time.Duration `json:"duration"`
}

// Comparator consumes the results of a run, dir is the run's record folder
// (empty when nothing is recorded)
type Comparator func(dir string, results []*Result) error

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	EvalEpisodes int    // episodes used to evaluate each policy
	Horizon      int    // step cap of an evaluation episode
	RecordPath   string // path to store the results, empty to disable recording
	Seed         uint64 // seed of the evaluation sampling
}

// Comparison trains the experiments one after the other, each on its own
// environment, and evaluates the resulting policies on a separate environment
type Comparison struct {
	Experiments []*Experiment
	comparators map[string]Comparator
	order       []string
	cConfig     *ComparisonConfig
	factory     EnvironmentFactory
	logger      zerolog.Logger
	printer     *TerminalPrinter

	// RunID identifies the last run, also the name of its record folder
	RunID string
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig, factory EnvironmentFactory, logger zerolog.Logger) *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		comparators: make(map[string]Comparator),
		order:       make([]string, 0),
		cConfig:     config,
		factory:     factory,
		logger:      logger,
	}
}

// AddComparator registers a comparator, they run in insertion order
func (c *Comparison) AddComparator(name string, comparator Comparator) {
	if _, ok := c.comparators[name]; !ok {
		c.order = append(c.order, name)
	}
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// SetPrinter enables live progress output for learners that report it
func (c *Comparison) SetPrinter(p *TerminalPrinter) {
	c.printer = p
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) ([]*Result, error) {
	c.RunID = uuid.NewString()
	logger := c.logger.With().Str("run", c.RunID).Logger()

	dir := ""
	if c.cConfig.RecordPath != "" {
		dir = path.Join(c.cConfig.RecordPath, c.RunID)
		if err := os.MkdirAll(dir, 0777); err != nil {
			return nil, fmt.Errorf("creating record folder: %w", err)
		}
		if err := c.recordConfig(dir); err != nil {
			return nil, err
		}
	}

	evalEnv, err := c.factory()
	if err != nil {
		return nil, fmt.Errorf("creating evaluation environment: %w", err)
	}
	evalRand := rand.New(rand.NewSource(c.cConfig.Seed))

	if c.printer != nil {
		c.printer.Start()
		defer c.printer.Stop()
	}

	results := make([]*Result, 0, len(c.Experiments))
	for i, e := range c.Experiments {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		logger.Info().Str("experiment", e.Name).Int("index", i+1).Int("total", len(c.Experiments)).Msg("training")
		result, err := c.runExperiment(e, evalEnv, evalRand)
		if err != nil {
			logger.Error().Err(err).Str("experiment", e.Name).Msg("experiment failed")
			return results, fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		event := logger.Info().Str("experiment", e.Name).Dur("duration", result.Duration)
		if result.Stats != nil {
			event = event.Float64("avg_reward", result.Stats.AvgReward).
				Float64("avg_length", result.Stats.AvgLength).
				Float64("success_rate", result.Stats.SuccessRate)
		}
		event.Msg("experiment done")

		if dir != "" {
			if err := recordResult(dir, result); err != nil {
				return results, err
			}
		}
		results = append(results, result)
	}

	var errs []error
	for _, name := range c.order {
		if err := c.comparators[name](dir, results); err != nil {
			logger.Error().Err(err).Str("comparator", name).Msg("comparator failed")
			errs = append(errs, fmt.Errorf("comparator %s: %w", name, err))
		}
	}
	return results, errors.Join(errs...)
}

func (c *Comparison) runExperiment(e *Experiment, evalEnv ModelEnvironment, evalRand *rand.Rand) (*Result, error) {
	env, err := c.factory()
	if err != nil {
		return nil, fmt.Errorf("creating environment: %w", err)
	}
	if reporter, ok := e.algorithm.(ProgressReporter); ok && c.printer != nil {
		reporter.SetProgress(func(episode, total int) {
			c.printer.Update(e.Name, episode, total)
		})
	}

	start := time.Now()
	outcome, err := e.algorithm.Run(env)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Name:     e.Name,
		Outcome:  outcome,
		Duration: time.Since(start),
	}
	if outcome.Policy != nil && c.cConfig.EvalEpisodes > 0 {
		stats := EvaluateRollouts(evalEnv, outcome.Policy, c.cConfig.EvalEpisodes, c.cConfig.Horizon, evalRand)
		result.Stats = &stats
	}
	return result, nil
}

// record the configuration of the comparison
func (c *Comparison) recordConfig(dir string) error {
	cfg := c.cConfig
	out := make(map[string]interface{})
	out["run"] = c.RunID
	out["eval_episodes"] = cfg.EvalEpisodes
	out["horizon"] = cfg.Horizon
	out["seed"] = cfg.Seed

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments
	out["comparators"] = c.order

	return util.WriteJSON(path.Join(dir, "comparison_config.json"), out)
}

func recordResult(dir string, result *Result) error {
	bs, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result %s: %w", result.Name, err)
	}
	return util.AppendToFile(path.Join(dir, "results.jsonl"), string(bs))
}
