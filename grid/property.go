package grid

import "github.com/zeu5/thief-gridworld/types"

// StatePredicate holds on some states of the grid
type StatePredicate func(types.State) bool

func InPosition(g *GridEnvironment, positions ...Position) StatePredicate {
	targets := make(map[types.State]bool, len(positions))
	for _, p := range positions {
		targets[g.PosToState(p)] = true
	}
	return func(s types.State) bool {
		return targets[s]
	}
}

// OnWall holds on every wall cell
func OnWall(g *GridEnvironment) StatePredicate {
	return func(s types.State) bool {
		return g.IsWall(g.StateToPos(s))
	}
}

// GreedyRollout follows the most probable action of the policy from the start
// position using the deterministic dynamics, without touching the environment.
// It stops on a terminal cell, an undefined row, or after maxSteps moves.
func GreedyRollout(g *GridEnvironment, p *types.Policy, maxSteps int) []Position {
	pos := g.cfg.Start
	path := []Position{pos}
	for i := 0; i < maxSteps && !g.IsTerminalPos(pos); i++ {
		s := g.PosToState(pos)
		if !p.Defined(s) {
			break
		}
		pos = g.Move(pos, p.Greedy(s))
		path = append(path, pos)
	}
	return path
}

// Visits counts the positions of the path satisfying the predicate
func Visits(g *GridEnvironment, path []Position, pred StatePredicate) int {
	count := 0
	for _, p := range path {
		if pred(g.PosToState(p)) {
			count++
		}
	}
	return count
}
