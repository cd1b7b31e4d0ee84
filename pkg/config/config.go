package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/boristopalov/rlloop/pkg/agent"
	"github.com/boristopalov/rlloop/pkg/environment"
	"github.com/boristopalov/rlloop/pkg/shaping"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid experiment config")

// Agent types
const (
	AgentQLearning = "qlearning"
	AgentLLM       = "llm"
)

// Environment types
const (
	EnvGridWorld = "gridworld"
)

// Metric sinks
const (
	SinkLog    = "log"
	SinkCSV    = "csv"
	SinkSQLite = "sqlite"
	SinkChart  = "chart"
)

type ExperimentConfig struct {
	Name        string         `yaml:"name"`
	Train       TrainConfig    `yaml:"train"`
	Eval        EvalConfig     `yaml:"eval"`
	MaxSteps    int            `yaml:"max_steps"` // 0 disables the cap
	Agent       AgentConfig    `yaml:"agent"`
	Environment EnvConfig      `yaml:"environment"`
	Shaping     []shaping.Spec `yaml:"shaping"`
	Logging     LogConfig      `yaml:"logging"`
}

type TrainConfig struct {
	Episodes          int `yaml:"episodes"`
	UpdatesPerEpisode int `yaml:"updates_per_episode"`
	WarmupEpisodes    int `yaml:"warmup_episodes"`
}

type EvalConfig struct {
	Episodes int `yaml:"episodes"`
}

type LogConfig struct {
	Level   string   `yaml:"level"`
	Path    string   `yaml:"path"` // empty logs to stderr
	Metrics []string `yaml:"metrics"`
	Dir     string   `yaml:"dir"` // where metric files are written
}

type AgentConfig struct {
	Type           string         `yaml:"type"`
	Seed           int64          `yaml:"seed"`
	MemoryCapacity int            `yaml:"memory_capacity"`
	QLearning      agent.QConfig  `yaml:"qlearning"`
	Provider       string         `yaml:"provider"`
	Model          string         `yaml:"model"`
	BaseURL        string         `yaml:"base_url"`
	Config         map[string]any `yaml:"config"`
}

type EnvConfig struct {
	Type      string                      `yaml:"type"`
	GridWorld environment.GridWorldConfig `yaml:"gridworld"`
}

// Default returns a config that trains a Q-learning agent on the default grid
func Default() *ExperimentConfig {
	return &ExperimentConfig{
		Name: "gridworld",
		Train: TrainConfig{
			Episodes:          300,
			UpdatesPerEpisode: 10,
			WarmupEpisodes:    1,
		},
		Eval: EvalConfig{
			Episodes: 3,
		},
		MaxSteps: 200,
		Agent: AgentConfig{
			Type:           AgentQLearning,
			Seed:           1,
			MemoryCapacity: 10000,
			QLearning:      agent.DefaultQConfig(),
			Provider:       "openai",
			Model:          "gpt-4o-mini",
		},
		Environment: EnvConfig{
			Type:      EnvGridWorld,
			GridWorld: environment.DefaultGridWorldConfig(),
		},
		Logging: LogConfig{
			Level:   "info",
			Metrics: []string{SinkLog, SinkCSV},
			Dir:     "runs",
		},
	}
}

// LoadConfig reads a YAML file on top of Default and validates the result
func LoadConfig(path string) (*ExperimentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*ExperimentConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ExperimentConfig) Validate() error {
	if c.Name == "" {
		return invalid("name is required")
	}
	if c.Train.Episodes < 0 || c.Train.UpdatesPerEpisode < 0 || c.Train.WarmupEpisodes < 0 {
		return invalid("train counts must not be negative")
	}
	if c.Eval.Episodes < 0 {
		return invalid("eval episodes must not be negative")
	}
	if c.MaxSteps < 0 {
		return invalid("max_steps must not be negative")
	}

	switch c.Environment.Type {
	case EnvGridWorld:
		if err := c.Environment.GridWorld.Validate(); err != nil {
			return invalid("%v", err)
		}
	default:
		return invalid("unknown environment type %q", c.Environment.Type)
	}

	switch c.Agent.Type {
	case AgentQLearning:
		if err := c.Agent.QLearning.Validate(); err != nil {
			return invalid("qlearning: %v", err)
		}
	case AgentLLM:
		if c.Agent.Provider == "" || c.Agent.Model == "" {
			return invalid("llm agent needs a provider and a model")
		}
	default:
		return invalid("unknown agent type %q", c.Agent.Type)
	}

	if _, err := shaping.FromSpecs[any](c.Shaping); err != nil {
		return invalid("%v", err)
	}

	for _, m := range c.Logging.Metrics {
		switch strings.ToLower(m) {
		case SinkLog, SinkCSV, SinkSQLite, SinkChart:
		default:
			return invalid("unknown metrics sink %q", m)
		}
	}
	return nil
}

// HasSink reports whether the named metrics sink is enabled
func (c *ExperimentConfig) HasSink(name string) bool {
	for _, m := range c.Logging.Metrics {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
