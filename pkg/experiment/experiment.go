package experiment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boristopalov/rlloop/pkg/core"
)

// ErrAlreadyRunning is returned when Run is called on a running experiment
var ErrAlreadyRunning = errors.New("experiment is already running")

// Status is a snapshot of an experiment's lifecycle
type Status struct {
	Running   bool
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

// Experiment binds an environment, an agent and a plan into one runnable unit
type Experiment[S, A any] struct {
	id     string
	name   string
	env    core.Environment[S, A]
	agent  core.Agent[S, A]
	plan   Plan[S]
	logger *zap.Logger

	mu     sync.RWMutex
	status Status
}

type experimentParams struct {
	ID     string
	Logger *zap.Logger
}

type Option func(*experimentParams)

// WithID overrides the generated run ID
func WithID(id string) Option {
	return func(p *experimentParams) {
		p.ID = id
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *experimentParams) {
		p.Logger = logger
	}
}

func NewExperiment[S, A any](name string, env core.Environment[S, A], agent core.Agent[S, A], plan Plan[S], opts ...Option) *Experiment[S, A] {
	params := &experimentParams{
		ID:     "run-" + uuid.New().String(),
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(params)
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}

	return &Experiment[S, A]{
		id:     params.ID,
		name:   name,
		env:    env,
		agent:  agent,
		plan:   plan,
		logger: params.Logger.Named("experiment").With(zap.String("run_id", params.ID), zap.String("name", name)),
	}
}

func (e *Experiment[S, A]) ID() string {
	return e.id
}

func (e *Experiment[S, A]) Name() string {
	return e.name
}

func (e *Experiment[S, A]) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Run trains then evaluates the agent. It returns ErrAlreadyRunning if a run
// is in progress.
func (e *Experiment[S, A]) Run(ctx context.Context) (err error) {
	e.mu.Lock()
	if e.status.Running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.status = Status{
		Running:   true,
		StartTime: time.Now(),
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.status.Running = false
		e.status.EndTime = time.Now()
		e.status.Err = err
		elapsed := e.status.EndTime.Sub(e.status.StartTime)
		e.mu.Unlock()

		if err != nil {
			e.logger.Error("experiment failed", zap.Duration("elapsed", elapsed), zap.Error(err))
			return
		}
		e.logger.Info("experiment finished", zap.Duration("elapsed", elapsed))
	}()

	e.logger.Info("starting experiment",
		zap.Int("train_episodes", e.plan.TrainEpisodes),
		zap.Int("eval_episodes", e.plan.EvalEpisodes),
		zap.Int("updates_per_episode", e.plan.UpdatesPerEpisode),
		zap.Int("warmup_episodes", e.plan.WarmupEpisodes),
		zap.Int("max_steps", e.plan.MaxSteps),
	)

	return TrainThenEvaluate(ctx, e.env, e.agent, e.plan)
}
