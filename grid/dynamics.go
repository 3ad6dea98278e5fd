package grid

import "github.com/zeu5/thief-gridworld/types"

// The environment carries two noise models:
//
//   - NoisyAction is used when stepping: with probability StepNoise the action is
//     replaced by a uniform draw over all four actions, which may be the same one.
//   - Transitions is the model assumed by dynamic programming: the intended action
//     with probability 1-ModelNoise, each other action with ModelNoise/3.
//
// They do not describe the same dynamics and are kept apart.

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Move applies the action deterministically: the delta is clamped to the
// grid and moving into a wall leaves the position unchanged
func (g *GridEnvironment) Move(p Position, a types.Action) Position {
	next := p.Add(deltas[a])
	next.Row = clamp(next.Row, 0, g.cfg.Size-1)
	next.Col = clamp(next.Col, 0, g.cfg.Size-1)
	if g.walls[next] {
		return p
	}
	return next
}

// NoisyAction is the step-time noise model
func (g *GridEnvironment) NoisyAction(a types.Action) types.Action {
	if g.cfg.StepNoise > 0 && g.rand.Float64() < g.cfg.StepNoise {
		return AllActions[g.rand.Intn(len(AllActions))]
	}
	return a
}

// Transitions is the model-based noise model. One entry per effective
// action is returned, entries may share the same next state.
func (g *GridEnvironment) Transitions(s types.State, a types.Action) []types.Transition {
	from := g.StateToPos(s)
	others := float64(len(AllActions) - 1)
	out := make([]types.Transition, 0, len(AllActions))
	for _, taken := range AllActions {
		prob := g.cfg.ModelNoise / others
		if taken == a {
			prob = 1 - g.cfg.ModelNoise
		}
		next := g.Move(from, taken)
		out = append(out, types.Transition{
			Prob:     prob,
			Next:     g.PosToState(next),
			Reward:   g.rewardAt(next),
			Terminal: g.IsTerminalPos(next),
		})
	}
	return out
}
