package core

// Info carries auxiliary data an environment returns alongside a state.
type Info map[string]any

// Transition is one (state, action, reward, done, next state) record
type Transition[S, A any] struct {
	State     S
	Action    A
	Reward    float64
	Done      bool
	NextState S
}

// StepResult is what an environment returns after a single step
type StepResult[S any] struct {
	NextState S
	Reward    float64
	Done      bool
	Truncated bool // reported by the environment, does not end an episode
	Info      Info
}

// EpisodeResult summarises one finished episode
type EpisodeResult struct {
	Steps       int
	TotalReward float64
}

// RewardContext is the full step context handed to a RewardShaper
type RewardContext[S any] struct {
	Step      int
	State     S
	NextState S
	Reward    float64
	Done      bool
	Info      Info
}

// Mode is the agent's current operating mode
type Mode int

const (
	ModeTrain Mode = iota
	ModeEval
)

func (m Mode) String() string {
	switch m {
	case ModeTrain:
		return "train"
	case ModeEval:
		return "eval"
	default:
		return "unknown"
	}
}
