package experiment

import (
	"context"

	"github.com/boristopalov/rlloop/pkg/core"
)

// EpisodeOptions configures a single episode
type EpisodeOptions[S any] struct {
	// Shaper, when set, replaces every raw reward with its output
	Shaper core.RewardShaper[S]
	// Render draws the environment before every action
	Render bool
	// MaxSteps caps the episode length. The transition at 0-based index
	// MaxSteps is forced to be terminal, so a capped episode has MaxSteps+1
	// steps. Zero disables the cap.
	MaxSteps int
}

// RunEpisode plays one episode from reset until the environment reports done
// or the step cap is hit. Every transition is handed to agent.Store as soon as
// it is produced. Errors from the environment or agent are returned as-is.
func RunEpisode[S, A any](
	ctx context.Context,
	env core.Environment[S, A],
	agent core.Agent[S, A],
	opts EpisodeOptions[S],
) (core.EpisodeResult, error) {
	state, _, err := env.Reset(ctx)
	if err != nil {
		return core.EpisodeResult{}, err
	}

	var result core.EpisodeResult
	for done := false; !done; {
		if err := ctx.Err(); err != nil {
			return core.EpisodeResult{}, err
		}

		if opts.Render {
			if err := env.Render(); err != nil {
				return core.EpisodeResult{}, err
			}
		}

		action, err := agent.ChooseAction(ctx, state)
		if err != nil {
			return core.EpisodeResult{}, err
		}

		out, err := env.Step(ctx, action)
		if err != nil {
			return core.EpisodeResult{}, err
		}

		done = out.Done
		if opts.MaxSteps > 0 && result.Steps >= opts.MaxSteps {
			done = true
		}

		reward := out.Reward
		if opts.Shaper != nil {
			reward = opts.Shaper(core.RewardContext[S]{
				Step:      result.Steps,
				State:     state,
				NextState: out.NextState,
				Reward:    out.Reward,
				Done:      done,
				Info:      out.Info,
			})
		}

		if err := agent.Store(core.Transition[S, A]{
			State:     state,
			Action:    action,
			Reward:    reward,
			Done:      done,
			NextState: out.NextState,
		}); err != nil {
			return core.EpisodeResult{}, err
		}

		state = out.NextState
		result.Steps++
		result.TotalReward += reward
	}

	return result, nil
}
