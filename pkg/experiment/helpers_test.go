package experiment

import (
	"context"
	"fmt"

	"github.com/boristopalov/rlloop/pkg/core"
)

// journal is an ordered log of calls shared by the test doubles
type journal struct {
	entries []string
}

func (j *journal) add(format string, args ...any) {
	if j == nil {
		return
	}
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

// countPerEpisode returns, for each reset, how many entries equal name follow it
// before the next reset
func (j *journal) countPerEpisode(name string) []int {
	counts := []int{}
	for _, e := range j.entries {
		switch e {
		case "reset":
			counts = append(counts, 0)
		case name:
			if len(counts) > 0 {
				counts[len(counts)-1]++
			}
		}
	}
	return counts
}

// lineEnv walks along a line: the state is the number of steps taken so far.
// The episode ends after length steps; length 0 never ends on its own.
type lineEnv struct {
	length int
	reward func(step int) float64
	log    *journal

	state   int
	resets  int
	renders int

	resetErr  error
	stepErr   error
	renderErr error
	block     chan struct{}
}

func newLineEnv(length int, reward float64) *lineEnv {
	return &lineEnv{
		length: length,
		reward: func(int) float64 { return reward },
	}
}

func (e *lineEnv) Reset(ctx context.Context) (int, core.Info, error) {
	if e.block != nil {
		<-e.block
	}
	e.log.add("reset")
	e.resets++
	e.state = 0
	return 0, core.Info{"episode": e.resets}, e.resetErr
}

func (e *lineEnv) Step(ctx context.Context, action int) (core.StepResult[int], error) {
	e.log.add("step")
	if e.stepErr != nil {
		return core.StepResult[int]{}, e.stepErr
	}
	r := e.reward(e.state)
	e.state++
	return core.StepResult[int]{
		NextState: e.state,
		Reward:    r,
		Done:      e.length > 0 && e.state >= e.length,
		Info:      core.Info{"action": action},
	}, nil
}

func (e *lineEnv) Render() error {
	e.log.add("render")
	e.renders++
	return e.renderErr
}

type updateResult struct {
	loss float64
	ok   bool
	err  error
}

// recordingAgent always picks action 1 and remembers everything it is told
type recordingAgent struct {
	log     *journal
	stored  []core.Transition[int, int]
	updates []updateResult

	updateCalls int
	trainModes  int
	evalModes   int

	chooseErr error
	storeErr  error
}

func (a *recordingAgent) ChooseAction(ctx context.Context, state int) (int, error) {
	a.log.add("choose")
	return 1, a.chooseErr
}

func (a *recordingAgent) Store(t core.Transition[int, int]) error {
	a.log.add("store")
	if a.storeErr != nil {
		return a.storeErr
	}
	a.stored = append(a.stored, t)
	return nil
}

// Update cycles through the scripted results; with none it reports no loss
func (a *recordingAgent) Update(ctx context.Context) (float64, bool, error) {
	a.log.add("update")
	defer func() { a.updateCalls++ }()
	if len(a.updates) == 0 {
		return 0, false, nil
	}
	u := a.updates[a.updateCalls%len(a.updates)]
	return u.loss, u.ok, u.err
}

func (a *recordingAgent) TrainMode() {
	a.log.add("train_mode")
	a.trainModes++
}

func (a *recordingAgent) EvalMode() {
	a.log.add("eval_mode")
	a.evalModes++
}

type progressEvent struct {
	kind    string
	phase   string
	episode int
	result  core.EpisodeResult
}

type recordingProgress struct {
	events []progressEvent
}

func (p *recordingProgress) Start(phase string, total int) {
	p.events = append(p.events, progressEvent{kind: "start", phase: phase, episode: total})
}

func (p *recordingProgress) Episode(phase string, episode int, result core.EpisodeResult) {
	p.events = append(p.events, progressEvent{kind: "episode", phase: phase, episode: episode, result: result})
}

func (p *recordingProgress) Finish(phase string) {
	p.events = append(p.events, progressEvent{kind: "finish", phase: phase})
}

type failingSink struct {
	err error
}

func (f failingSink) AddScalar(string, float64, int) error { return f.err }
