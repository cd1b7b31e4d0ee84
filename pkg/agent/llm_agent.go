package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/boristopalov/rlloop/pkg/core"
	"github.com/boristopalov/rlloop/pkg/memory"
)

// recent memories included in every prompt
const promptMemory = 20

var answerPattern = regexp.MustCompile(`(?i)ANSWER:\s*([A-Za-z_\-]+|\d+)`)

// LLMAgent lets a language model choose actions. It keeps the latest
// transitions as textual memory and has no optimiser, so Update never
// reports a loss.
type LLMAgent[S any] struct {
	id       string
	model    ModelInfo
	client   Client
	memory   *memory.Buffer[string]
	actions  []string
	describe func(S) string
	mode     core.Mode
	logger   *zap.Logger
}

// Client is the completion capability the agent needs
type Client interface {
	Complete(ctx context.Context, model string, prompt string, systemPrompt string, history []string) (string, error)
}

// NewLLMAgent creates an agent choosing among actionNames. describe renders a
// state for the prompt; nil uses fmt's %v.
func NewLLMAgent[S any](actionNames []string, describe func(S) string, opts ...AgentOption) (*LLMAgent[S], error) {
	if len(actionNames) == 0 {
		return nil, fmt.Errorf("llm agent needs at least one action")
	}
	params := buildParams(opts)
	if params.Client == nil {
		return nil, fmt.Errorf("llm agent %s has no client", params.AgentID)
	}
	if describe == nil {
		describe = func(s S) string { return fmt.Sprintf("%v", s) }
	}
	capacity := params.MemoryCapacity
	if capacity > 100 {
		capacity = 100 // short term memory
	}

	return &LLMAgent[S]{
		id:       params.AgentID,
		model:    params.Model,
		client:   params.Client,
		memory:   memory.NewBuffer[string](capacity),
		actions:  actionNames,
		describe: describe,
		mode:     core.ModeTrain,
		logger:   params.Logger.Named("llm_agent").With(zap.String("agent_id", params.AgentID)),
	}, nil
}

func (a *LLMAgent[S]) GetID() string {
	return a.id
}

func (a *LLMAgent[S]) GetModel() ModelInfo {
	return a.model
}

func (a *LLMAgent[S]) GetMemory() *memory.Buffer[string] {
	return a.memory
}

func (a *LLMAgent[S]) Mode() core.Mode {
	return a.mode
}

// ChooseAction asks the model for an action, retrying once if the answer
// cannot be parsed
func (a *LLMAgent[S]) ChooseAction(ctx context.Context, state S) (int, error) {
	allowed := strings.Join(a.actions, ", ")
	prompt := fmt.Sprintf(ACTION_PROMPT_TEMPLATE, a.id, a.describe(state), allowed)

	response, err := a.client.Complete(ctx, a.model.Id, prompt, SYSTEM_PROMPT, a.memory.Last(promptMemory))
	if err != nil {
		return 0, fmt.Errorf("failed to generate response: %w", err)
	}
	a.logger.Debug("action response", zap.String("response", response))

	action, err := a.parseAction(response)
	if err == nil {
		return action, nil
	}

	retryPrompt := fmt.Sprintf(RETRY_PROMPT_TEMPLATE, response, allowed)
	response, err = a.client.Complete(ctx, a.model.Id, retryPrompt, SYSTEM_PROMPT, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to generate response on retry: %w", err)
	}
	return a.parseAction(response)
}

func (a *LLMAgent[S]) Store(t core.Transition[S, int]) error {
	if t.Action < 0 || t.Action >= len(a.actions) {
		return fmt.Errorf("action %d out of range", t.Action)
	}
	entry := fmt.Sprintf(TRANSITION_MEMORY_TEMPLATE,
		a.describe(t.State),
		a.actions[t.Action],
		t.Reward,
		a.describe(t.NextState),
	)
	if t.Done {
		entry += " " + EPISODE_END_MEMORY
	}
	a.memory.Store(entry)
	return nil
}

// Update is a no-op: the model is not trained.
func (a *LLMAgent[S]) Update(ctx context.Context) (float64, bool, error) {
	return 0, false, nil
}

func (a *LLMAgent[S]) TrainMode() {
	a.mode = core.ModeTrain
}

func (a *LLMAgent[S]) EvalMode() {
	a.mode = core.ModeEval
}

// parseAction accepts either an action name or its index after "ANSWER:"
func (a *LLMAgent[S]) parseAction(response string) (int, error) {
	matches := answerPattern.FindStringSubmatch(response)
	if len(matches) < 2 {
		return 0, fmt.Errorf("could not find answer in response: %s", response)
	}

	answer := strings.ToLower(matches[1])
	for i, name := range a.actions {
		if strings.ToLower(name) == answer {
			return i, nil
		}
	}

	index, err := strconv.Atoi(answer)
	if err != nil || index < 0 || index >= len(a.actions) {
		return 0, fmt.Errorf("unknown action %q in response", matches[1])
	}
	return index, nil
}
