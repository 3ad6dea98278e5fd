package grid

import (
	"errors"
	"fmt"

	"github.com/zeu5/thief-gridworld/types"
	"golang.org/x/exp/rand"
)

// ErrInvalidConfig is wrapped by every configuration error
var ErrInvalidConfig = errors.New("invalid grid configuration")

type Position struct {
	Row int `json:"row" mapstructure:"row"`
	Col int `json:"col" mapstructure:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

const (
	Up types.Action = iota
	Down
	Left
	Right
)

var (
	AllActions = []types.Action{Up, Down, Left, Right}
	deltas     = []Position{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	arrows     = []string{"↑", "↓", "←", "→"}
	names      = []string{"Up", "Down", "Left", "Right"}
)

// ActionName is the readable name of a grid action
func ActionName(a types.Action) string {
	if int(a) < 0 || int(a) >= len(names) {
		return fmt.Sprintf("Action(%d)", a)
	}
	return names[a]
}

type Config struct {
	Size     int        `json:"size" mapstructure:"size"`
	Walls    []Position `json:"walls" mapstructure:"walls"`
	Treasure Position   `json:"treasure" mapstructure:"treasure"`
	Trap     Position   `json:"trap" mapstructure:"trap"`
	Start    Position   `json:"start" mapstructure:"start"`
	MaxSteps int        `json:"max_steps" mapstructure:"max_steps"`
	// probability that a step replaces the action with a uniform draw over all actions
	StepNoise float64 `json:"step_noise" mapstructure:"step_noise"`
	// probability mass the model spreads evenly over the non-intended actions
	ModelNoise     float64 `json:"model_noise" mapstructure:"model_noise"`
	TreasureReward float64 `json:"treasure_reward" mapstructure:"treasure_reward"`
	TrapReward     float64 `json:"trap_reward" mapstructure:"trap_reward"`
}

// DefaultConfig is the 5x5 thief grid
func DefaultConfig() Config {
	return Config{
		Size:           5,
		Walls:          []Position{{1, 1}, {3, 3}},
		Treasure:       Position{4, 4},
		Trap:           Position{2, 2},
		Start:          Position{0, 0},
		MaxSteps:       100,
		StepNoise:      0.2,
		ModelNoise:     0.2,
		TreasureReward: 10,
		TrapReward:     -10,
	}
}

func (c Config) inBounds(p Position) bool {
	return p.Row >= 0 && p.Row < c.Size && p.Col >= 0 && p.Col < c.Size
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Size < 2 {
		return fmt.Errorf("%w: size must be at least 2 (got %d)", ErrInvalidConfig, c.Size)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("%w: max_steps must be positive (got %d)", ErrInvalidConfig, c.MaxSteps)
	}
	if c.StepNoise < 0 || c.StepNoise > 1 {
		return fmt.Errorf("%w: step_noise must be in [0, 1] (got %.2f)", ErrInvalidConfig, c.StepNoise)
	}
	if c.ModelNoise < 0 || c.ModelNoise > 1 {
		return fmt.Errorf("%w: model_noise must be in [0, 1] (got %.2f)", ErrInvalidConfig, c.ModelNoise)
	}
	special := map[string]Position{"treasure": c.Treasure, "trap": c.Trap, "start": c.Start}
	for name, p := range special {
		if !c.inBounds(p) {
			return fmt.Errorf("%w: %s %s out of bounds", ErrInvalidConfig, name, p)
		}
	}
	if c.Treasure == c.Trap {
		return fmt.Errorf("%w: treasure and trap share %s", ErrInvalidConfig, c.Trap)
	}
	if c.Start == c.Treasure || c.Start == c.Trap {
		return fmt.Errorf("%w: start %s is terminal", ErrInvalidConfig, c.Start)
	}
	for _, w := range c.Walls {
		if !c.inBounds(w) {
			return fmt.Errorf("%w: wall %s out of bounds", ErrInvalidConfig, w)
		}
		for name, p := range special {
			if w == p {
				return fmt.Errorf("%w: wall on %s %s", ErrInvalidConfig, name, p)
			}
		}
	}
	return nil
}

// GridEnvironment is the thief grid world. Only Reset and Step mutate it.
type GridEnvironment struct {
	cfg    Config
	walls  map[Position]bool
	curPos Position
	steps  int
	done   bool
	rand   *rand.Rand
}

var _ types.ModelEnvironment = &GridEnvironment{}

// NewGridEnvironment validates the configuration, r drives the step-time noise
func NewGridEnvironment(cfg Config, r *rand.Rand) (*GridEnvironment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	walls := make(map[Position]bool, len(cfg.Walls))
	for _, w := range cfg.Walls {
		walls[w] = true
	}
	cfg.Walls = append([]Position(nil), cfg.Walls...)
	g := &GridEnvironment{
		cfg:   cfg,
		walls: walls,
		rand:  r,
	}
	g.Reset()
	return g, nil
}

func (g *GridEnvironment) Config() Config {
	c := g.cfg
	c.Walls = append([]Position(nil), g.cfg.Walls...)
	return c
}

func (g *GridEnvironment) Reset() types.State {
	g.curPos = g.cfg.Start
	g.steps = 0
	g.done = false
	return g.PosToState(g.curPos)
}

func (g *GridEnvironment) Step(a types.Action) (types.State, float64, bool, types.StepInfo) {
	info := types.StepInfo{Intended: a, Taken: a, Steps: g.steps}
	if g.done {
		info.TimedOut = g.steps >= g.cfg.MaxSteps && !g.IsTerminalPos(g.curPos)
		return g.PosToState(g.curPos), 0, true, info
	}

	taken := g.NoisyAction(a)
	g.curPos = g.Move(g.curPos, taken)
	g.steps++

	reward := g.rewardAt(g.curPos)
	if g.IsTerminalPos(g.curPos) {
		g.done = true
	} else if g.steps >= g.cfg.MaxSteps {
		g.done = true
		info.TimedOut = true
	}

	info.Taken = taken
	info.Steps = g.steps
	return g.PosToState(g.curPos), reward, g.done, info
}

func (g *GridEnvironment) rewardAt(p Position) float64 {
	switch p {
	case g.cfg.Treasure:
		return g.cfg.TreasureReward
	case g.cfg.Trap:
		return g.cfg.TrapReward
	}
	return 0
}

// Position of the agent
func (g *GridEnvironment) Position() Position {
	return g.curPos
}

func (g *GridEnvironment) Done() bool {
	return g.done
}

func (g *GridEnvironment) Size() int {
	return g.cfg.Size
}

func (g *GridEnvironment) NumStates() int {
	return g.cfg.Size * g.cfg.Size
}

func (g *GridEnvironment) NumActions() int {
	return len(AllActions)
}

func (g *GridEnvironment) Actions() []types.Action {
	return append([]types.Action(nil), AllActions...)
}

func (g *GridEnvironment) Delta(a types.Action) Position {
	return deltas[a]
}

func (g *GridEnvironment) PosToState(p Position) types.State {
	return types.State(p.Row*g.cfg.Size + p.Col)
}

func (g *GridEnvironment) StateToPos(s types.State) Position {
	return Position{Row: int(s) / g.cfg.Size, Col: int(s) % g.cfg.Size}
}

func (g *GridEnvironment) Walls() []Position {
	return append([]Position(nil), g.cfg.Walls...)
}

func (g *GridEnvironment) Treasure() Position {
	return g.cfg.Treasure
}

func (g *GridEnvironment) Trap() Position {
	return g.cfg.Trap
}

func (g *GridEnvironment) Start() Position {
	return g.cfg.Start
}

func (g *GridEnvironment) Terminals() []Position {
	return []Position{g.cfg.Treasure, g.cfg.Trap}
}

func (g *GridEnvironment) IsWall(p Position) bool {
	return g.walls[p]
}

func (g *GridEnvironment) IsTerminalPos(p Position) bool {
	return p == g.cfg.Treasure || p == g.cfg.Trap
}

func (g *GridEnvironment) IsTerminal(s types.State) bool {
	return g.IsTerminalPos(g.StateToPos(s))
}

// IsDecision is true for the states where the agent has to act
func (g *GridEnvironment) IsDecision(s types.State) bool {
	p := g.StateToPos(s)
	return !g.IsTerminalPos(p) && !g.IsWall(p)
}
