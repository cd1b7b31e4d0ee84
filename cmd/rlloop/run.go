package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boristopalov/rlloop/internal/console"
	"github.com/boristopalov/rlloop/internal/logging"
	"github.com/boristopalov/rlloop/pkg/agent"
	"github.com/boristopalov/rlloop/pkg/config"
	"github.com/boristopalov/rlloop/pkg/core"
	"github.com/boristopalov/rlloop/pkg/environment"
	"github.com/boristopalov/rlloop/pkg/experiment"
	"github.com/boristopalov/rlloop/pkg/metrics"
	"github.com/boristopalov/rlloop/pkg/providers"
	"github.com/boristopalov/rlloop/pkg/shaping"
)

// runExperiment wires the configured environment, agent, shaper and sinks and
// runs one experiment. Metric files land in <logging.dir>/<run id>/.
func runExperiment(ctx context.Context, cfg *config.ExperimentConfig, out io.Writer) (string, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Path)
	if err != nil {
		return "", err
	}
	defer logger.Sync()

	env, err := environment.NewGridWorld(cfg.Environment.GridWorld, out)
	if err != nil {
		return "", err
	}

	a, err := buildAgent(ctx, cfg, env, logger)
	if err != nil {
		return "", err
	}

	shaper, err := shaping.FromSpecs[int](cfg.Shaping)
	if err != nil {
		return "", err
	}

	runID := "run-" + uuid.NewString()
	runDir := filepath.Join(cfg.Logging.Dir, runID)
	sink, rec, err := buildSinks(cfg, runID, runDir, logger)
	if err != nil {
		return runID, err
	}

	plan := experiment.Plan[int]{
		TrainEpisodes:     cfg.Train.Episodes,
		EvalEpisodes:      cfg.Eval.Episodes,
		UpdatesPerEpisode: cfg.Train.UpdatesPerEpisode,
		WarmupEpisodes:    cfg.Train.WarmupEpisodes,
		Shaper:            shaper,
		MaxSteps:          cfg.MaxSteps,
		Sink:              sink,
		Progress:          console.New(out, cfg.Environment.GridWorld.ColorOutput, progressEvery(cfg.Train.Episodes)),
	}

	exp := experiment.NewExperiment[int, int](cfg.Name, env, a, plan,
		experiment.WithID(runID),
		experiment.WithLogger(logger),
	)
	runErr := exp.Run(ctx)

	if rec != nil {
		path := filepath.Join(runDir, "metrics.html")
		if err := metrics.WriteChartFile(path, cfg.Name, rec); err != nil {
			runErr = errors.Join(runErr, err)
		} else {
			logger.Info("wrote metric charts", zap.String("path", path))
		}
	}
	return runID, errors.Join(runErr, sink.Close())
}

func buildAgent(ctx context.Context, cfg *config.ExperimentConfig, env *environment.GridWorld, logger *zap.Logger) (core.Agent[int, int], error) {
	opts := []agent.AgentOption{
		agent.WithSeed(cfg.Agent.Seed),
		agent.WithMemoryCapacity(cfg.Agent.MemoryCapacity),
		agent.WithLogger(logger),
	}

	switch cfg.Agent.Type {
	case config.AgentQLearning:
		q, err := agent.NewQLearning(env.NumStates(), env.NumActions(), cfg.Agent.QLearning, opts...)
		if err != nil {
			return nil, err
		}
		return q, nil
	case config.AgentLLM:
		client, err := providers.New(ctx, cfg.Agent.Provider, providers.WithBaseURL(cfg.Agent.BaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
		opts = append(opts,
			agent.WithClient(client),
			agent.WithModel(agent.ModelInfo{Id: cfg.Agent.Model, Config: cfg.Agent.Config}),
		)
		llm, err := agent.NewLLMAgent(environment.ActionNames, describeCell(env, cfg.Environment.GridWorld), opts...)
		if err != nil {
			return nil, err
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unknown agent type %q", cfg.Agent.Type)
	}
}

// describeCell tells the model where it stands relative to the goal
func describeCell(env *environment.GridWorld, grid environment.GridWorldConfig) func(int) string {
	return func(state int) string {
		c := env.Cell(state)
		return fmt.Sprintf("You are at row %d, column %d of a %dx%d grid. The goal is at row %d, column %d. Walls: %v.",
			c.Row, c.Col, grid.Rows, grid.Cols, grid.Goal.Row, grid.Goal.Col, grid.Walls)
	}
}

// buildSinks returns the fan-out sink for the configured metric outputs and
// the recorder backing the chart, if charts are enabled
func buildSinks(cfg *config.ExperimentConfig, runID string, runDir string, logger *zap.Logger) (*metrics.MultiSink, *metrics.Recorder, error) {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	var (
		sinks []metrics.Sink
		rec   *metrics.Recorder
	)
	fail := func(err error) (*metrics.MultiSink, *metrics.Recorder, error) {
		return nil, nil, errors.Join(err, metrics.Multi(sinks...).Close())
	}

	if cfg.HasSink(config.SinkLog) {
		sinks = append(sinks, metrics.NewLogSink(logger))
	}
	if cfg.HasSink(config.SinkCSV) {
		csvSink, err := metrics.NewCSVSink(filepath.Join(runDir, "metrics.csv"))
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, csvSink)
	}
	if cfg.HasSink(config.SinkSQLite) {
		dbSink, err := metrics.NewSQLiteSink(filepath.Join(cfg.Logging.Dir, "metrics.db"), runID, cfg.Name)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, dbSink)
	}
	if cfg.HasSink(config.SinkChart) {
		rec = metrics.NewRecorder()
		sinks = append(sinks, rec)
	}
	return metrics.Multi(sinks...), rec, nil
}

// progressEvery keeps long runs to roughly twenty progress lines
func progressEvery(episodes int) int {
	if episodes < 20 {
		return 1
	}
	return episodes / 20
}
