package agent

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ModelInfo struct {
	Id     string         // e.g. "gpt-4o-mini"
	Config map[string]any // model-specific configuration
}

// AgentParams holds the settings shared by the bundled agents
type AgentParams struct {
	AgentID        string
	Seed           int64
	MemoryCapacity int
	Logger         *zap.Logger
	Model          ModelInfo
	Client         Client
}

type AgentOption func(*AgentParams)

func WithAgentId(id string) AgentOption {
	return func(p *AgentParams) {
		p.AgentID = id
	}
}

func WithSeed(seed int64) AgentOption {
	return func(p *AgentParams) {
		p.Seed = seed
	}
}

// WithMemoryCapacity bounds the replay buffer or the LLM memory
func WithMemoryCapacity(capacity int) AgentOption {
	return func(p *AgentParams) {
		p.MemoryCapacity = capacity
	}
}

func WithLogger(logger *zap.Logger) AgentOption {
	return func(p *AgentParams) {
		p.Logger = logger
	}
}

func WithModel(model ModelInfo) AgentOption {
	return func(p *AgentParams) {
		p.Model = model
	}
}

func WithClient(client Client) AgentOption {
	return func(p *AgentParams) {
		p.Client = client
	}
}

func defaultAgentParams() *AgentParams {
	return &AgentParams{
		AgentID:        "agent-" + uuid.New().String(),
		Seed:           1,
		MemoryCapacity: 10000,
		Logger:         zap.NewNop(),
		Model: ModelInfo{
			Id:     "gpt-4o-mini",
			Config: make(map[string]any),
		},
	}
}

func buildParams(opts []AgentOption) *AgentParams {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return params
}
