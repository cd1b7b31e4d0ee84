package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boristopalov/rlloop/pkg/environment"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.HasSink(SinkCSV))
	assert.False(t, cfg.HasSink(SinkSQLite))
}

func TestLoadConfig(t *testing.T) {
	source := `
name: walled
train:
  episodes: 50
  updates_per_episode: 4
  warmup_episodes: 2
eval:
  episodes: 1
max_steps: 64
agent:
  type: qlearning
  seed: 9
  qlearning:
    alpha: 0.1
    gamma: 0.9
    epsilon: 0.3
    epsilon_min: 0.01
    epsilon_decay: 0.95
    batch_size: 8
environment:
  type: gridworld
  gridworld:
    rows: 5
    cols: 5
    start: {row: 0, col: 0}
    goal: {row: 4, col: 4}
    walls:
      - {row: 1, col: 1}
      - {row: 2, col: 2}
    step_reward: -0.05
    goal_reward: 2
shaping:
  - type: terminal_bonus
    value: 1
logging:
  level: debug
  metrics: [log, sqlite, chart]
  dir: out
`
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "walled", cfg.Name)
	assert.Equal(t, TrainConfig{Episodes: 50, UpdatesPerEpisode: 4, WarmupEpisodes: 2}, cfg.Train)
	assert.Equal(t, 1, cfg.Eval.Episodes)
	assert.Equal(t, 64, cfg.MaxSteps)
	assert.Equal(t, int64(9), cfg.Agent.Seed)
	assert.Equal(t, 8, cfg.Agent.QLearning.BatchSize)
	assert.Equal(t, 0.9, cfg.Agent.QLearning.Gamma)
	assert.Equal(t, 5, cfg.Environment.GridWorld.Rows)
	assert.Equal(t, []environment.Cell{{Row: 1, Col: 1}, {Row: 2, Col: 2}}, cfg.Environment.GridWorld.Walls)
	assert.Equal(t, environment.Cell{Row: 4, Col: 4}, cfg.Environment.GridWorld.Goal)
	require.Len(t, cfg.Shaping, 1)
	assert.Equal(t, "terminal_bonus", cfg.Shaping[0].Type)
	assert.True(t, cfg.HasSink(SinkSQLite))
	assert.Equal(t, "out", cfg.Logging.Dir)
	// untouched fields keep their defaults
	assert.Equal(t, 10000, cfg.Agent.MemoryCapacity)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":          "train: [",
		"empty name":        `name: ""`,
		"negative episode":  "train: {episodes: -1}",
		"negative cap":      "max_steps: -3",
		"unknown agent":     "agent: {type: sarsa}",
		"unknown env":       "environment: {type: cartpole}",
		"bad grid":          "environment: {gridworld: {rows: 0}}",
		"bad qlearning":     "agent: {qlearning: {alpha: 2}}",
		"llm without model": `agent: {type: llm, model: ""}`,
		"bad shaper":        "shaping: [{type: nope}]",
		"bad sink":          "logging: {metrics: [kafka]}",
	}
	for name, source := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(source))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("agent: {type: sarsa}"))
	assert.ErrorIs(t, err, ErrInvalid)
}
