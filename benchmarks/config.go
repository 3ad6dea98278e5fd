package benchmarks

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zeu5/thief-gridworld/grid"
	"github.com/zeu5/thief-gridworld/policies"
)

// Config holds everything a command needs
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Seed     uint64 `mapstructure:"seed"`
	// folder of the recorded runs, empty disables recording
	SaveDir      string `mapstructure:"save"`
	EvalEpisodes int    `mapstructure:"eval_episodes"`
	Horizon      int    `mapstructure:"horizon"`
	Colors       bool   `mapstructure:"colors"`
	Addr         string `mapstructure:"addr"`

	Grid    grid.Config       `mapstructure:"grid"`
	Learner policies.Config   `mapstructure:"learner"`
	DP      policies.DPConfig `mapstructure:"dp"`
}

// DefaultConfig returns a config with the classic thief grid
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		Seed:         42,
		SaveDir:      "results",
		EvalEpisodes: 1000,
		Horizon:      100,
		Colors:       true,
		Addr:         "localhost:8080",
		Grid:         grid.DefaultConfig(),
		Learner:      policies.DefaultConfig(),
		DP:           policies.DefaultDPConfig(),
	}
}

func (c *Config) validateCommon() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.EvalEpisodes < 0 {
		return fmt.Errorf("eval_episodes must not be negative")
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive")
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	return nil
}

// Validate checks the whole configuration, every algorithm included
func (c *Config) Validate() error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if err := c.Learner.Validate(); err != nil {
		return fmt.Errorf("learner: %w", err)
	}
	if err := c.DP.Validate(); err != nil {
		return fmt.Errorf("dp: %w", err)
	}
	return nil
}

// ValidateFor only checks the algorithm section the named algorithm reads.
// --gamma feeds both sections, so a value only the learners accept is fine here.
func (c *Config) ValidateFor(algorithm string) error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if algorithm == "pi" {
		if err := c.DP.Validate(); err != nil {
			return fmt.Errorf("dp: %w", err)
		}
		return nil
	}
	if err := c.Learner.Validate(); err != nil {
		return fmt.Errorf("learner: %w", err)
	}
	return nil
}
