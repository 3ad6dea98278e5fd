package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/thief-gridworld/types"
)

func TestAlgorithmsRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Episodes = 50

	for key, build := range Algorithms {
		t.Run(key, func(t *testing.T) {
			algo := build(cfg, DefaultDPConfig(), seeded(2))
			assert.NotEmpty(t, algo.Name())

			if reporter, ok := algo.(types.ProgressReporter); ok {
				calls := 0
				reporter.SetProgress(func(_, _ int) { calls++ })
				defer func() { assert.Equal(t, cfg.Episodes, calls) }()
			}

			env := newGrid(t)
			outcome, err := algo.Run(env)
			require.NoError(t, err)
			assert.Len(t, outcome.Values, env.NumStates())
			if key == "td0" {
				assert.Nil(t, outcome.Policy)
				return
			}
			require.NotNil(t, outcome.Policy)
			assert.Equal(t, env.NumStates(), outcome.Policy.NumStates())
		})
	}
}

func TestAlgorithmRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alpha = 0
	_, err := NewSarsaAlgorithm(cfg, nil).Run(newGrid(t))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
