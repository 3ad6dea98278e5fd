package types

// State index of a finite environment, in [0, NumStates)
type State int

// Action index of a finite environment, in [0, NumActions)
type Action int

// StepInfo carries auxiliary information about a transition
type StepInfo struct {
	Intended Action // action requested by the agent
	Taken    Action // action applied after step-time noise
	Steps    int    // steps taken in the current episode
	TimedOut bool   // episode ended because the step cap was reached
}

// Environment is driven by the model-free learners through reset/step cycles
type Environment interface {
	// Reset called at the start of each episode
	Reset() State
	// Step applies one transition. Stepping a finished episode returns
	// the current state, zero reward and done=true without side effects
	Step(Action) (State, float64, bool, StepInfo)
	NumStates() int
	NumActions() int
}

// Transition is one outcome of the model-based dynamics
type Transition struct {
	Prob     float64
	Next     State
	Reward   float64
	Terminal bool
}

// Model exposes the transition probabilities for dynamic programming
type Model interface {
	NumStates() int
	NumActions() int
	// IsDecision is false for terminal and wall states
	IsDecision(State) bool
	Transitions(State, Action) []Transition
}

// ModelEnvironment is an environment that also exposes its model
type ModelEnvironment interface {
	Environment
	Model
}
