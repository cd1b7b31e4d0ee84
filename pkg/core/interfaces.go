package core

import (
	"context"
)

// Environment is a stateful simulator an agent interacts with
type Environment[S, A any] interface {
	// Reset starts a new episode and returns its initial state
	Reset(ctx context.Context) (S, Info, error)
	// Step advances the environment by one timestep
	Step(ctx context.Context, action A) (StepResult[S], error)
	// Render draws the current state; output is a side effect
	Render() error
}

// Agent is a learning policy driven by the experiment loop
type Agent[S, A any] interface {
	// ChooseAction picks the action to take in state
	ChooseAction(ctx context.Context, state S) (A, error)
	// Store hands a transition over to the agent's own storage
	Store(t Transition[S, A]) error
	// Update runs one learning step. ok is false when the update produced no
	// usable loss, e.g. because there is not enough data yet.
	Update(ctx context.Context) (loss float64, ok bool, err error)
	// TrainMode switches the agent to training behaviour
	TrainMode()
	// EvalMode switches the agent to evaluation behaviour
	EvalMode()
}

// RewardShaper remaps a raw reward given the step context. It must be pure.
type RewardShaper[S any] func(ctx RewardContext[S]) float64
