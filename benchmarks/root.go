package benchmarks

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeu5/thief-gridworld/grid"
	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
)

var configFile string

// flag name to configuration key
var flagKeys = map[string][]string{
	"log-level":     {"log_level"},
	"seed":          {"seed"},
	"save":          {"save"},
	"eval-episodes": {"eval_episodes"},
	"horizon":       {"horizon"},
	"colors":        {"colors"},
	"episodes":      {"learner.episodes"},
	"alpha":         {"learner.alpha"},
	"gamma":         {"learner.gamma", "dp.gamma"},
	"epsilon":       {"learner.epsilon"},
	"epsilon-decay": {"learner.epsilon_decay"},
	"epsilon-min":   {"learner.epsilon_min"},
	"theta":         {"dp.theta"},
	"step-noise":    {"grid.step_noise"},
	"model-noise":   {"grid.model_noise"},
	"max-steps":     {"grid.max_steps"},
}

func GetRootCommand() *cobra.Command {
	defaults := DefaultConfig()
	rootCommand := &cobra.Command{
		Use:           "thief",
		Short:         "Tabular reinforcement learning on the thief grid world",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Configuration file (yaml, json or toml)")
	flags.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	flags.Uint64("seed", defaults.Seed, "Seed of every random source")
	flags.StringP("save", "s", defaults.SaveDir, "Save the result data in the specified folder")
	flags.Int("eval-episodes", defaults.EvalEpisodes, "Episodes used to evaluate each policy")
	flags.Int("horizon", defaults.Horizon, "Step cap of an evaluation episode")
	flags.Bool("colors", defaults.Colors, "Colour the terminal output")
	flags.IntP("episodes", "e", defaults.Learner.Episodes, "Base number of training episodes")
	flags.Float64("alpha", defaults.Learner.Alpha, "Learning rate")
	flags.Float64("gamma", defaults.Learner.Gamma, "Discount factor")
	flags.Float64("epsilon", defaults.Learner.Epsilon, "Exploration rate")
	flags.Float64("epsilon-decay", defaults.Learner.EpsilonDecay, "Multiplicative epsilon decay per episode")
	flags.Float64("epsilon-min", defaults.Learner.EpsilonMin, "Lower bound of the decayed epsilon")
	flags.Float64("theta", defaults.DP.Theta, "Convergence threshold of policy evaluation")
	flags.Float64("step-noise", defaults.Grid.StepNoise, "Probability of replacing the chosen action when stepping")
	flags.Float64("model-noise", defaults.Grid.ModelNoise, "Probability mass of the unintended actions in the planning model")
	flags.Int("max-steps", defaults.Grid.MaxSteps, "Step cap of an episode")

	rootCommand.AddCommand(CompareCommand())
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}

// loadConfig layers flags, THIEF_ prefixed environment variables and the
// optional config file over the defaults, then runs validate on the result
func loadConfig(cmd *cobra.Command, validate func(*Config) error) (*Config, error) {
	v := viper.New()
	for flag, keys := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		for _, key := range keys {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	if f := cmd.Flags().Lookup("addr"); f != nil {
		if err := v.BindPFlag("addr", f); err != nil {
			return nil, err
		}
	}
	v.SetEnvPrefix("THIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", configFile, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
}

// gridFactory builds environments with distinct, reproducible seeds
func gridFactory(cfg *Config) types.EnvironmentFactory {
	next := cfg.Seed
	return func() (types.ModelEnvironment, error) {
		next++
		return grid.NewGridEnvironment(cfg.Grid, rand.New(rand.NewSource(next)))
	}
}
