package benchmarks

import (
	"os"
	"path"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/thief-gridworld/grid"
	"github.com/zeu5/thief-gridworld/policies"
)

func subcommand(t *testing.T, name string, args ...string) *cobra.Command {
	t.Helper()
	configFile = ""
	t.Cleanup(func() { configFile = "" })
	cmd, _, err := GetRootCommand().Find([]string{name})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"log level": func(c *Config) { c.LogLevel = "loud" },
		"horizon":   func(c *Config) { c.Horizon = 0 },
		"eval":      func(c *Config) { c.EvalEpisodes = -1 },
		"grid":      func(c *Config) { c.Grid.Trap = c.Grid.Treasure },
		"learner":   func(c *Config) { c.Learner.Alpha = 2 },
		"dp":        func(c *Config) { c.DP.Theta = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFromFlags(t *testing.T) {
	cmd := subcommand(t, "train", "--episodes", "50", "--gamma", "0.8", "--step-noise", "0", "--seed", "9")
	cfg, err := loadConfig(cmd, (*Config).Validate)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Learner.Episodes)
	assert.Equal(t, 0.8, cfg.Learner.Gamma)
	assert.Equal(t, 0.8, cfg.DP.Gamma)
	assert.Zero(t, cfg.Grid.StepNoise)
	assert.Equal(t, uint64(9), cfg.Seed)
	// untouched values keep their defaults
	assert.Equal(t, grid.DefaultConfig().Walls, cfg.Grid.Walls)
	assert.Equal(t, 0.1, cfg.Learner.Alpha)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("THIEF_LEARNER_ALPHA", "0.5")
	t.Setenv("THIEF_LOG_LEVEL", "debug")
	cfg, err := loadConfig(subcommand(t, "compare"), (*Config).Validate)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Learner.Alpha)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	file := path.Join(t.TempDir(), "thief.yaml")
	content := `
learner:
  episodes: 123
grid:
  walls:
    - row: 0
      col: 2
    - row: 4
      col: 0
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	cfg, err := loadConfig(subcommand(t, "serve", "--config", file, "--addr", "localhost:9999"), (*Config).Validate)
	require.NoError(t, err)
	assert.Equal(t, 123, cfg.Learner.Episodes)
	assert.Equal(t, []grid.Position{{Row: 0, Col: 2}, {Row: 4, Col: 0}}, cfg.Grid.Walls)
	assert.Equal(t, "localhost:9999", cfg.Addr)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	_, err := loadConfig(subcommand(t, "train", "--alpha", "0"), (*Config).Validate)
	assert.Error(t, err)
}

func TestValidateForAlgorithm(t *testing.T) {
	// gamma 0 is fine for the learners but not for dynamic programming
	cfg, err := loadConfig(subcommand(t, "train", "--gamma", "0"), func(c *Config) error {
		return c.ValidateFor("q")
	})
	require.NoError(t, err)
	assert.Zero(t, cfg.Learner.Gamma)
	assert.Error(t, cfg.ValidateFor("pi"))
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Learner.Alpha = 0
	assert.NoError(t, cfg.ValidateFor("pi"))
	assert.Error(t, cfg.ValidateFor("sarsa"))
}

func TestNewThiefComparisonBudgets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SaveDir = ""
	c := NewThiefComparison(cfg, newLogger(cfg))

	type budget struct {
		episodes int
		epsilon  float64
	}
	expected := map[string]budget{
		"MonteCarlo":      {20000, 0.2},
		"TD0":             {5000, 0.1},
		"SARSA":           {20000, 0.1},
		"QLearning":       {20000, 0.1},
		"DoubleQLearning": {20000, 0.1},
	}

	names := make([]string, 0)
	for _, e := range c.Experiments {
		names = append(names, e.Name)
		learner, ok := e.Algorithm().(interface{ Config() policies.Config })
		if e.Name == "PolicyIteration" {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok, e.Name)
		want := expected[e.Name]
		assert.Equal(t, want.episodes, learner.Config().Episodes, e.Name)
		assert.Equal(t, want.epsilon, learner.Config().Epsilon, e.Name)
	}
	assert.Equal(t, []string{"PolicyIteration", "MonteCarlo", "TD0", "SARSA", "QLearning", "DoubleQLearning"}, names)
}
