package benchmarks

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/thief-gridworld/grid"
	"github.com/zeu5/thief-gridworld/policies"
	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
)

func algorithmNames() []string {
	names := make([]string, 0, len(policies.Algorithms))
	for name := range policies.Algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TrainCommand() *cobra.Command {
	var algorithm string
	prof := &profiles{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a single algorithm and render what it learned",
		RunE: func(cmd *cobra.Command, args []string) error {
			build, ok := policies.Algorithms[algorithm]
			if !ok {
				return fmt.Errorf("unknown algorithm %q, expected one of %s", algorithm, strings.Join(algorithmNames(), ", "))
			}
			cfg, err := loadConfig(cmd, func(c *Config) error {
				return c.ValidateFor(algorithm)
			})
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			env, err := grid.NewGridEnvironment(cfg.Grid, rand.New(rand.NewSource(cfg.Seed)))
			if err != nil {
				return err
			}
			algo := build(cfg.Learner, cfg.DP, rand.New(rand.NewSource(cfg.Seed+1)))
			printer := types.NewTerminalPrinter(os.Stdout, 100)
			if reporter, ok := algo.(types.ProgressReporter); ok {
				reporter.SetProgress(func(episode, total int) {
					printer.Update(algo.Name(), episode, total)
				})
			}

			stop, err := prof.start(cfg.SaveDir, logger)
			if err != nil {
				return err
			}
			defer stop()

			logger.Info().Str("algorithm", algo.Name()).Msg("training")
			printer.Start()
			start := time.Now()
			outcome, err := algo.Run(env)
			printer.Stop()
			if err != nil {
				return err
			}
			result := &types.Result{Name: algo.Name(), Outcome: outcome, Duration: time.Since(start)}
			if outcome.Policy != nil && cfg.EvalEpisodes > 0 {
				evalEnv, err := grid.NewGridEnvironment(cfg.Grid, rand.New(rand.NewSource(cfg.Seed+2)))
				if err != nil {
					return err
				}
				stats := types.EvaluateRollouts(evalEnv, outcome.Policy, cfg.EvalEpisodes, cfg.Horizon, rand.New(rand.NewSource(cfg.Seed)))
				result.Stats = &stats
				logger.Info().
					Float64("avg_reward", stats.AvgReward).
					Float64("avg_length", stats.AvgLength).
					Float64("success_rate", stats.SuccessRate).
					Dur("duration", result.Duration).
					Msg("evaluated")
			}
			return renderResults(cfg, cfg.SaveDir, []*types.Result{result})
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "q", "Algorithm to train ("+strings.Join(algorithmNames(), ", ")+")")
	prof.addFlags(cmd)
	return cmd
}
