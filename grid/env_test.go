package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
)

func newTestEnv(t *testing.T, mutate func(*Config)) *GridEnvironment {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	env, err := NewGridEnvironment(cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	return env
}

func TestStatePositionBijection(t *testing.T) {
	env := newTestEnv(t, nil)
	for row := 0; row < env.Size(); row++ {
		for col := 0; col < env.Size(); col++ {
			p := Position{Row: row, Col: col}
			assert.Equal(t, p, env.StateToPos(env.PosToState(p)))
		}
	}
	for s := 0; s < env.NumStates(); s++ {
		assert.Equal(t, types.State(s), env.PosToState(env.StateToPos(types.State(s))))
	}
	assert.Equal(t, types.State(0), env.PosToState(Position{0, 0}))
	assert.Equal(t, types.State(24), env.PosToState(Position{4, 4}))
}

func TestResetReturnsStart(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.StepNoise = 0 })
	env.Step(Right)
	env.Step(Right)
	assert.Equal(t, types.State(0), env.Reset())
	assert.Equal(t, Position{0, 0}, env.Position())
	assert.False(t, env.Done())
}

func TestStepFromTerminalIsNoop(t *testing.T) {
	for _, terminal := range []Position{{4, 4}, {2, 2}} {
		env := newTestEnv(t, func(c *Config) {
			c.StepNoise = 0
			c.Start = Position{4, 3}
			if terminal == (Position{2, 2}) {
				c.Start = Position{2, 1}
			}
		})
		env.Reset()
		s, _, done, _ := env.Step(Right)
		require.True(t, done)
		require.Equal(t, env.PosToState(terminal), s)

		for _, a := range AllActions {
			next, reward, done, _ := env.Step(a)
			assert.Equal(t, s, next)
			assert.Zero(t, reward)
			assert.True(t, done)
			assert.Equal(t, terminal, env.Position())
		}
	}
}

func TestRewards(t *testing.T) {
	env := newTestEnv(t, func(c *Config) {
		c.StepNoise = 0
		c.Start = Position{4, 3}
	})
	_, reward, done, _ := env.Step(Right)
	assert.Equal(t, 10.0, reward)
	assert.True(t, done)

	env = newTestEnv(t, func(c *Config) {
		c.StepNoise = 0
		c.Start = Position{2, 1}
	})
	_, reward, done, _ = env.Step(Right)
	assert.Equal(t, -10.0, reward)
	assert.True(t, done)

	env = newTestEnv(t, func(c *Config) { c.StepNoise = 0 })
	_, reward, done, _ = env.Step(Down)
	assert.Zero(t, reward)
	assert.False(t, done)
}

func TestMovingIntoWallKeepsPosition(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, wall := range env.Walls() {
		for _, a := range AllActions {
			// the neighbour from which a moves into the wall
			from := Position{Row: wall.Row - deltas[a].Row, Col: wall.Col - deltas[a].Col}
			if !env.cfg.inBounds(from) || env.IsWall(from) || env.IsTerminalPos(from) {
				continue
			}
			assert.Equal(t, from, env.Move(from, a), "moving %s from %s", ActionName(a), from)
		}
	}
}

func TestMovingIntoWallWhileStepping(t *testing.T) {
	env := newTestEnv(t, func(c *Config) {
		c.StepNoise = 0
		c.Start = Position{0, 1}
	})
	s, reward, done, info := env.Step(Down)
	assert.Equal(t, env.PosToState(Position{0, 1}), s)
	assert.Zero(t, reward)
	assert.False(t, done)
	assert.Equal(t, 1, info.Steps)
}

func TestMoveClampsToGrid(t *testing.T) {
	env := newTestEnv(t, nil)
	assert.Equal(t, Position{0, 0}, env.Move(Position{0, 0}, Up))
	assert.Equal(t, Position{0, 0}, env.Move(Position{0, 0}, Left))
	assert.Equal(t, Position{4, 0}, env.Move(Position{4, 0}, Down))
	assert.Equal(t, Position{0, 4}, env.Move(Position{0, 4}, Right))
	assert.Equal(t, Position{1, 0}, env.Move(Position{0, 0}, Down))
}

func TestTimeoutAtStepCap(t *testing.T) {
	env := newTestEnv(t, func(c *Config) {
		c.StepNoise = 0
		c.MaxSteps = 100
	})
	var (
		done bool
		info types.StepInfo
		r    float64
	)
	steps := 0
	for !done {
		_, r, done, info = env.Step(Up)
		steps++
		require.LessOrEqual(t, steps, 100)
	}
	assert.Equal(t, 100, steps)
	assert.True(t, info.TimedOut)
	assert.Zero(t, r)

	s, reward, done, _ := env.Step(Down)
	assert.Equal(t, types.State(0), s)
	assert.Zero(t, reward)
	assert.True(t, done)
}

func TestNoisyActionFrequencies(t *testing.T) {
	env := newTestEnv(t, nil)
	const samples = 40000
	counts := make([]int, len(AllActions))
	for i := 0; i < samples; i++ {
		counts[env.NoisyAction(Right)]++
	}
	// 0.8 + 0.2/4 kept, 0.2/4 for every other action
	assert.InDelta(t, 0.85, float64(counts[Right])/samples, 0.01)
	for _, a := range []types.Action{Up, Down, Left} {
		assert.InDelta(t, 0.05, float64(counts[a])/samples, 0.01)
	}
}

func TestNoisyActionWithoutNoise(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.StepNoise = 0 })
	for i := 0; i < 100; i++ {
		assert.Equal(t, Left, env.NoisyAction(Left))
	}
}

func TestModelTransitions(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.PosToState(Position{2, 1})

	transitions := env.Transitions(s, Down)
	require.Len(t, transitions, 4)

	total := 0.0
	for i, tr := range transitions {
		total += tr.Prob
		if types.Action(i) == Down {
			assert.InDelta(t, 0.8, tr.Prob, 1e-12)
		} else {
			assert.InDelta(t, 0.2/3, tr.Prob, 1e-12)
		}
	}
	assert.InDelta(t, 1, total, 1e-12)

	// up is a wall, right is the trap
	assert.Equal(t, s, transitions[Up].Next)
	assert.False(t, transitions[Up].Terminal)
	assert.Equal(t, env.PosToState(Position{2, 2}), transitions[Right].Next)
	assert.True(t, transitions[Right].Terminal)
	assert.Equal(t, -10.0, transitions[Right].Reward)
	assert.Equal(t, env.PosToState(Position{3, 1}), transitions[Down].Next)
}

func TestModelTransitionsDoNotMoveTheAgent(t *testing.T) {
	env := newTestEnv(t, nil)
	before := env.Position()
	for s := 0; s < env.NumStates(); s++ {
		for _, a := range AllActions {
			env.Transitions(types.State(s), a)
		}
	}
	assert.Equal(t, before, env.Position())
}

func TestDecisionStates(t *testing.T) {
	env := newTestEnv(t, nil)
	decisions := 0
	for s := 0; s < env.NumStates(); s++ {
		if env.IsDecision(types.State(s)) {
			decisions++
		}
	}
	assert.Equal(t, 25-2-2, decisions)
	assert.False(t, env.IsDecision(env.PosToState(Position{1, 1})))
	assert.False(t, env.IsDecision(env.PosToState(Position{4, 4})))
	assert.True(t, env.IsTerminal(env.PosToState(Position{2, 2})))
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"size":           func(c *Config) { c.Size = 1 },
		"treasure bound": func(c *Config) { c.Treasure = Position{5, 5} },
		"same terminals": func(c *Config) { c.Trap = c.Treasure },
		"wall on start":  func(c *Config) { c.Walls = append(c.Walls, Position{0, 0}) },
		"wall bound":     func(c *Config) { c.Walls = []Position{{-1, 0}} },
		"start terminal": func(c *Config) { c.Start = c.Trap },
		"noise":          func(c *Config) { c.StepNoise = 1.5 },
		"model noise":    func(c *Config) { c.ModelNoise = -0.1 },
		"max steps":      func(c *Config) { c.MaxSteps = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			_, err := NewGridEnvironment(cfg, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
	require.NoError(t, DefaultConfig().Validate())
}
