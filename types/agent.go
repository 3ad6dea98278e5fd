package types

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// ActionSelector picks the next action in a state.
// Returning false ends the episode early.
type ActionSelector func(State) (Action, bool)

// PolicySelector samples actions from a fixed policy
func PolicySelector(p *Policy, src rand.Source) ActionSelector {
	return func(s State) (Action, bool) {
		return p.Sample(s, src)
	}
}

// Agent drives an environment with an action selector
type Agent struct {
	environment Environment
	selector    ActionSelector
	// hard cap on the episode length on top of the environment's own cap
	horizon int
}

// Instantiates a new Agent, horizon <= 0 leaves the cap to the environment
func NewAgent(env Environment, selector ActionSelector, horizon int) *Agent {
	return &Agent{
		environment: env,
		selector:    selector,
		horizon:     horizon,
	}
}

// RunEpisode resets the environment and steps until done, the horizon,
// or an undefined action. done reports whether the environment terminated.
func (a *Agent) RunEpisode() (trace *Trace, done bool) {
	state := a.environment.Reset()
	trace = NewTrace()

	for i := 0; a.horizon <= 0 || i < a.horizon; i++ {
		action, ok := a.selector(state)
		if !ok {
			break
		}
		nextState, reward, finished, _ := a.environment.Step(action)
		trace.Append(state, action, reward)
		if finished {
			return trace, true
		}
		state = nextState
	}
	return trace, false
}

// RolloutStats summarises the evaluation of a policy over several episodes
type RolloutStats struct {
	Episodes    int     `json:"episodes"`
	AvgReward   float64 `json:"avg_reward"`
	AvgLength   float64 `json:"avg_length"`
	SuccessRate float64 `json:"success_rate"` // percentage of episodes ending on a positive reward
}

// EvaluateRollouts runs the policy for the given number of episodes of at most horizon steps
func EvaluateRollouts(env Environment, p *Policy, episodes, horizon int, src rand.Source) RolloutStats {
	if episodes <= 0 {
		return RolloutStats{}
	}
	agent := NewAgent(env, PolicySelector(p, src), horizon)

	rewards := make([]float64, episodes)
	lengths := make([]float64, episodes)
	successes := 0
	for i := 0; i < episodes; i++ {
		trace, _ := agent.RunEpisode()
		rewards[i] = trace.TotalReward()
		lengths[i] = float64(trace.Len())
		if _, _, last, ok := trace.Last(); ok && last > 0 {
			successes++
		}
	}

	return RolloutStats{
		Episodes:    episodes,
		AvgReward:   stat.Mean(rewards, nil),
		AvgLength:   stat.Mean(lengths, nil),
		SuccessRate: float64(successes) / float64(episodes) * 100,
	}
}
