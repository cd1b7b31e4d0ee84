package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boristopalov/rlloop/pkg/agent"
	"github.com/boristopalov/rlloop/pkg/config"
	"github.com/boristopalov/rlloop/pkg/environment"
	"github.com/boristopalov/rlloop/pkg/metrics"
)

func testConfig(t *testing.T) *config.ExperimentConfig {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Name = "smoke"
	cfg.Train.Episodes = 30
	cfg.Eval.Episodes = 1
	cfg.MaxSteps = 50
	cfg.Logging.Path = filepath.Join(dir, "rlloop.log")
	cfg.Logging.Dir = filepath.Join(dir, "runs")
	cfg.Logging.Metrics = []string{config.SinkLog, config.SinkCSV, config.SinkSQLite, config.SinkChart}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunExperimentWritesMetrics(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	runID, err := runExperiment(context.Background(), cfg, &out)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(runID, "run-"))

	runDir := filepath.Join(cfg.Logging.Dir, runID)

	csvData, err := os.ReadFile(filepath.Join(runDir, "metrics.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csvData), "tag,step,value\n"))
	assert.Contains(t, string(csvData), metrics.TagTrainReward+",29,")
	assert.Contains(t, string(csvData), metrics.TagEvalStep+",0,")

	html, err := os.ReadFile(filepath.Join(runDir, "metrics.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "echarts")

	db, err := metrics.NewSQLiteSink(filepath.Join(cfg.Logging.Dir, "metrics.db"), "reader", "reader")
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.Runs()
	require.NoError(t, err)
	ids := make([]string, 0, len(runs))
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, runID)

	logData, err := os.ReadFile(cfg.Logging.Path)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "experiment finished")

	// progress for both phases and the rendered eval episode
	assert.Contains(t, out.String(), "train 30/30")
	assert.Contains(t, out.String(), "eval 1/1")
	assert.Contains(t, out.String(), "episode ")
}

func TestRunExperimentCancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runID, err := runExperiment(ctx, cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEmpty(t, runID)
}

func TestBuildAgent(t *testing.T) {
	cfg := config.Default()
	env, err := environment.NewGridWorld(cfg.Environment.GridWorld, &bytes.Buffer{})
	require.NoError(t, err)
	ctx := context.Background()

	a, err := buildAgent(ctx, cfg, env, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &agent.QLearning{}, a)

	t.Setenv("OPENAI_API_KEY", "test-key")
	cfg.Agent.Type = config.AgentLLM
	cfg.Agent.Provider = "openai"
	a, err = buildAgent(ctx, cfg, env, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &agent.LLMAgent[int]{}, a)

	t.Setenv("GEMINI_API_KEY", "")
	cfg.Agent.Provider = "gemini"
	_, err = buildAgent(ctx, cfg, env, zap.NewNop())
	assert.Error(t, err)

	cfg.Agent.Type = "sarsa"
	_, err = buildAgent(ctx, cfg, env, zap.NewNop())
	assert.Error(t, err)
}

func TestDescribeCell(t *testing.T) {
	grid := environment.DefaultGridWorldConfig()
	env, err := environment.NewGridWorld(grid, &bytes.Buffer{})
	require.NoError(t, err)

	text := describeCell(env, grid)(env.Index(environment.Cell{Row: 1, Col: 2}))
	assert.Contains(t, text, "row 1, column 2 of a 4x4 grid")
	assert.Contains(t, text, "goal is at row 3, column 3")
}

func TestProgressEvery(t *testing.T) {
	assert.Equal(t, 1, progressEvery(0))
	assert.Equal(t, 1, progressEvery(19))
	assert.Equal(t, 5, progressEvery(100))
}
