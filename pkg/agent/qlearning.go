package agent

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/boristopalov/rlloop/pkg/core"
	"github.com/boristopalov/rlloop/pkg/memory"
)

// QConfig holds the Q-learning hyperparameters
type QConfig struct {
	Alpha        float64 `yaml:"alpha"`
	Gamma        float64 `yaml:"gamma"`
	Epsilon      float64 `yaml:"epsilon"`
	EpsilonMin   float64 `yaml:"epsilon_min"`
	EpsilonDecay float64 `yaml:"epsilon_decay"` // applied at the end of every training episode
	BatchSize    int     `yaml:"batch_size"`
}

func DefaultQConfig() QConfig {
	return QConfig{
		Alpha:        0.2,
		Gamma:        0.95,
		Epsilon:      0.5,
		EpsilonMin:   0.05,
		EpsilonDecay: 0.99,
		BatchSize:    32,
	}
}

func (c QConfig) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha %v not in (0, 1]", c.Alpha)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("gamma %v not in [0, 1]", c.Gamma)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 || c.EpsilonMin < 0 || c.EpsilonMin > 1 {
		return fmt.Errorf("epsilon values must be in [0, 1]")
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("epsilon decay %v not in (0, 1]", c.EpsilonDecay)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive")
	}
	return nil
}

// QLearning is a tabular epsilon-greedy Q-learning agent with a replay buffer.
// States and actions are indices.
type QLearning struct {
	id      string
	cfg     QConfig
	q       [][]float64
	replay  *memory.Buffer[core.Transition[int, int]]
	rng     *rand.Rand
	epsilon float64
	mode    core.Mode
	logger  *zap.Logger
}

func NewQLearning(numStates, numActions int, cfg QConfig, opts ...AgentOption) (*QLearning, error) {
	if numStates < 1 || numActions < 1 {
		return nil, fmt.Errorf("invalid table size %dx%d", numStates, numActions)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params := buildParams(opts)

	q := make([][]float64, numStates)
	for s := range q {
		q[s] = make([]float64, numActions)
	}

	return &QLearning{
		id:      params.AgentID,
		cfg:     cfg,
		q:       q,
		replay:  memory.NewBuffer[core.Transition[int, int]](params.MemoryCapacity),
		rng:     rand.New(rand.NewSource(params.Seed)),
		epsilon: cfg.Epsilon,
		mode:    core.ModeTrain,
		logger:  params.Logger.Named("qlearning").With(zap.String("agent_id", params.AgentID)),
	}, nil
}

func (a *QLearning) GetID() string {
	return a.id
}

func (a *QLearning) Mode() core.Mode {
	return a.mode
}

func (a *QLearning) Epsilon() float64 {
	return a.epsilon
}

// Values returns a copy of the action values for state
func (a *QLearning) Values(state int) []float64 {
	values := make([]float64, len(a.q[state]))
	copy(values, a.q[state])
	return values
}

// ReplaySize is the number of transitions currently held for replay
func (a *QLearning) ReplaySize() int {
	return a.replay.Len()
}

// ChooseAction is epsilon-greedy while training and greedy while evaluating
func (a *QLearning) ChooseAction(ctx context.Context, state int) (int, error) {
	if err := a.checkState(state); err != nil {
		return 0, err
	}
	if a.mode == core.ModeTrain && a.rng.Float64() < a.epsilon {
		return a.rng.Intn(len(a.q[state])), nil
	}
	return argmax(a.q[state]), nil
}

func (a *QLearning) Store(t core.Transition[int, int]) error {
	if err := a.checkState(t.State); err != nil {
		return err
	}
	if err := a.checkState(t.NextState); err != nil {
		return err
	}
	if t.Action < 0 || t.Action >= len(a.q[t.State]) {
		return fmt.Errorf("action %d out of range", t.Action)
	}

	a.replay.Store(t)
	if t.Done && a.mode == core.ModeTrain {
		a.epsilon = math.Max(a.cfg.EpsilonMin, a.epsilon*a.cfg.EpsilonDecay)
	}
	return nil
}

// Update replays one sampled batch. It reports no loss until the buffer
// holds at least one batch. The loss is the mean absolute TD error.
func (a *QLearning) Update(ctx context.Context) (float64, bool, error) {
	if a.replay.Len() < a.cfg.BatchSize {
		return 0, false, nil
	}

	batch := a.replay.Sample(a.rng, a.cfg.BatchSize)
	errs := make([]float64, 0, len(batch))
	for _, t := range batch {
		target := t.Reward
		if !t.Done {
			target += a.cfg.Gamma * lo.Max(a.q[t.NextState])
		}
		td := target - a.q[t.State][t.Action]
		a.q[t.State][t.Action] += a.cfg.Alpha * td
		errs = append(errs, math.Abs(td))
	}

	loss := lo.Sum(errs) / float64(len(errs))
	a.logger.Debug("update", zap.Float64("loss", loss), zap.Float64("epsilon", a.epsilon))
	return loss, true, nil
}

func (a *QLearning) TrainMode() {
	a.mode = core.ModeTrain
}

func (a *QLearning) EvalMode() {
	a.mode = core.ModeEval
}

func (a *QLearning) checkState(state int) error {
	if state < 0 || state >= len(a.q) {
		return fmt.Errorf("state %d out of range", state)
	}
	return nil
}

// argmax returns the first index holding the largest value
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
