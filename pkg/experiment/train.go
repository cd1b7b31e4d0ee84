package experiment

import (
	"context"

	"github.com/samber/lo"

	"github.com/boristopalov/rlloop/pkg/core"
	"github.com/boristopalov/rlloop/pkg/metrics"
)

// TrainOptions configures the training loop
type TrainOptions[S any] struct {
	Episodes          int
	UpdatesPerEpisode int
	// WarmupEpisodes are played without any agent updates
	WarmupEpisodes int
	Shaper         core.RewardShaper[S]
	Render         bool
	MaxSteps       int
	Sink           metrics.Sink
	Progress       Progress
}

// EvalOptions configures the evaluation loop
type EvalOptions[S any] struct {
	Episodes int
	Shaper   core.RewardShaper[S]
	Render   bool
	MaxSteps int
	Sink     metrics.Sink
	Progress Progress
}

// Plan describes a full train-then-evaluate run
type Plan[S any] struct {
	TrainEpisodes     int
	EvalEpisodes      int
	UpdatesPerEpisode int
	WarmupEpisodes    int
	Shaper            core.RewardShaper[S]
	MaxSteps          int
	Sink              metrics.Sink
	Progress          Progress
}

// Train switches the agent to training mode and plays opts.Episodes episodes.
// After warmup, every episode is followed by UpdatesPerEpisode calls to
// agent.Update; the mean of the usable losses is reported as train/loss.
func Train[S, A any](ctx context.Context, env core.Environment[S, A], agent core.Agent[S, A], opts TrainOptions[S]) error {
	sink := sinkOrDiscard(opts.Sink)
	progress := progressOrNop(opts.Progress)

	agent.TrainMode()
	progress.Start(PhaseTrain, opts.Episodes)
	defer progress.Finish(PhaseTrain)

	for epi := 0; epi < opts.Episodes; epi++ {
		result, err := RunEpisode(ctx, env, agent, EpisodeOptions[S]{
			Shaper:   opts.Shaper,
			Render:   opts.Render,
			MaxSteps: opts.MaxSteps,
		})
		if err != nil {
			return err
		}

		if epi >= opts.WarmupEpisodes {
			losses := make([]float64, 0, opts.UpdatesPerEpisode)
			for i := 0; i < opts.UpdatesPerEpisode; i++ {
				loss, ok, err := agent.Update(ctx)
				if err != nil {
					return err
				}
				if ok {
					losses = append(losses, loss)
				}
			}
			if len(losses) > 0 {
				mean := lo.Sum(losses) / float64(len(losses))
				if err := sink.AddScalar(metrics.TagTrainLoss, mean, epi); err != nil {
					return err
				}
			}
		}

		if err := sink.AddScalar(metrics.TagTrainReward, result.TotalReward, epi); err != nil {
			return err
		}
		if err := sink.AddScalar(metrics.TagTrainStep, float64(result.Steps), epi); err != nil {
			return err
		}

		progress.Episode(PhaseTrain, epi, result)
	}

	return nil
}

// Evaluate switches the agent to evaluation mode and plays opts.Episodes
// episodes without learning updates.
func Evaluate[S, A any](ctx context.Context, env core.Environment[S, A], agent core.Agent[S, A], opts EvalOptions[S]) error {
	sink := sinkOrDiscard(opts.Sink)
	progress := progressOrNop(opts.Progress)

	agent.EvalMode()
	progress.Start(PhaseEval, opts.Episodes)
	defer progress.Finish(PhaseEval)

	for epi := 0; epi < opts.Episodes; epi++ {
		result, err := RunEpisode(ctx, env, agent, EpisodeOptions[S]{
			Shaper:   opts.Shaper,
			Render:   opts.Render,
			MaxSteps: opts.MaxSteps,
		})
		if err != nil {
			return err
		}

		if err := sink.AddScalar(metrics.TagEvalReward, result.TotalReward, epi); err != nil {
			return err
		}
		if err := sink.AddScalar(metrics.TagEvalStep, float64(result.Steps), epi); err != nil {
			return err
		}

		progress.Episode(PhaseEval, epi, result)
	}

	return nil
}

// TrainThenEvaluate trains without rendering, then evaluates with rendering.
func TrainThenEvaluate[S, A any](ctx context.Context, env core.Environment[S, A], agent core.Agent[S, A], plan Plan[S]) error {
	if err := Train(ctx, env, agent, TrainOptions[S]{
		Episodes:          plan.TrainEpisodes,
		UpdatesPerEpisode: plan.UpdatesPerEpisode,
		WarmupEpisodes:    plan.WarmupEpisodes,
		Shaper:            plan.Shaper,
		Render:            false,
		MaxSteps:          plan.MaxSteps,
		Sink:              plan.Sink,
		Progress:          plan.Progress,
	}); err != nil {
		return err
	}

	return Evaluate(ctx, env, agent, EvalOptions[S]{
		Episodes: plan.EvalEpisodes,
		Shaper:   plan.Shaper,
		Render:   true,
		MaxSteps: plan.MaxSteps,
		Sink:     plan.Sink,
		Progress: plan.Progress,
	})
}

func sinkOrDiscard(s metrics.Sink) metrics.Sink {
	if s == nil {
		return metrics.Discard
	}
	return s
}
