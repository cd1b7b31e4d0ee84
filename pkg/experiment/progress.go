package experiment

import "github.com/boristopalov/rlloop/pkg/core"

const (
	PhaseTrain = "train"
	PhaseEval  = "eval"
)

// Progress receives presentation-only updates from the loops
type Progress interface {
	Start(phase string, total int)
	Episode(phase string, episode int, result core.EpisodeResult)
	Finish(phase string)
}

type nopProgress struct{}

func (nopProgress) Start(string, int)                       {}
func (nopProgress) Episode(string, int, core.EpisodeResult) {}
func (nopProgress) Finish(string)                           {}

func progressOrNop(p Progress) Progress {
	if p == nil {
		return nopProgress{}
	}
	return p
}
