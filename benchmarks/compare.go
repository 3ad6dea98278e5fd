package benchmarks

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zeu5/thief-gridworld/grid"
	"github.com/zeu5/thief-gridworld/policies"
	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
)

// NewThiefComparison lines up the six algorithms in their classic order.
// The model-free controllers get twice the base episodes, TD(0) half.
func NewThiefComparison(cfg *Config, logger zerolog.Logger) *types.Comparison {
	c := types.NewComparison(&types.ComparisonConfig{
		EvalEpisodes: cfg.EvalEpisodes,
		Horizon:      cfg.Horizon,
		RecordPath:   cfg.SaveDir,
		Seed:         cfg.Seed,
	}, gridFactory(cfg), logger)

	base := cfg.Learner
	mc := base
	mc.Episodes = 2 * base.Episodes
	mc.Epsilon = 0.2
	if mc.EpsilonMin > mc.Epsilon {
		mc.EpsilonMin = mc.Epsilon
	}
	td := base
	td.Episodes = base.Episodes / 2
	control := base
	control.Episodes = 2 * base.Episodes

	seed := cfg.Seed
	source := func() *rand.Rand {
		seed++
		return rand.New(rand.NewSource(seed * 7919))
	}

	c.AddExperiment(types.NewExperiment("PolicyIteration", policies.NewPolicyIterationAlgorithm(cfg.DP)))
	c.AddExperiment(types.NewExperiment("MonteCarlo", policies.NewMonteCarloAlgorithm(mc, source())))
	c.AddExperiment(types.NewExperiment("TD0", policies.NewTD0Algorithm(td, source())))
	c.AddExperiment(types.NewExperiment("SARSA", policies.NewSarsaAlgorithm(control, source())))
	c.AddExperiment(types.NewExperiment("QLearning", policies.NewQLearningAlgorithm(control, source())))
	c.AddExperiment(types.NewExperiment("DoubleQLearning", policies.NewDoubleQLearningAlgorithm(control, source())))

	c.AddComparator("summary", types.LogComparator(func(format string, args ...interface{}) {
		fmt.Printf(format, args...)
	}))
	c.AddComparator("bars", types.BarChartComparator())
	c.AddComparator("echarts", types.EChartsComparator())
	return c
}

// renderResults prints every outcome on the grid and saves its value heatmap
func renderResults(cfg *Config, dir string, results []*types.Result) error {
	env, err := grid.NewGridEnvironment(cfg.Grid, nil)
	if err != nil {
		return err
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}
	renderer := grid.NewRenderer(env, cfg.Colors)
	for _, r := range results {
		fmt.Printf("\n== %s ==\n", r.Name)
		if r.Outcome.Policy != nil {
			renderer.RenderPolicy(os.Stdout, r.Outcome.Policy)
			fmt.Println()
		}
		if r.Outcome.Values != nil {
			renderer.RenderValues(os.Stdout, r.Outcome.Values)
			if dir != "" {
				file := path.Join(dir, r.Name+"_values.png")
				if err := grid.SaveValueHeatmap(file, r.Name, env, r.Outcome.Values); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func runDir(cfg *Config, c *types.Comparison) string {
	if cfg.SaveDir == "" {
		return ""
	}
	return path.Join(cfg.SaveDir, c.RunID)
}

func CompareCommand() *cobra.Command {
	prof := &profiles{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Train and evaluate every algorithm on the thief grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, (*Config).Validate)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			stop, err := prof.start(cfg.SaveDir, logger)
			if err != nil {
				return err
			}
			defer stop()

			c := NewThiefComparison(cfg, logger)
			c.SetPrinter(types.NewTerminalPrinter(os.Stdout, 100))
			results, err := c.Run(ctx)
			if err != nil {
				return err
			}
			return renderResults(cfg, runDir(cfg, c), results)
		},
	}
	prof.addFlags(cmd)
	return cmd
}
