package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/logrusorgru/aurora"

	"github.com/boristopalov/rlloop/pkg/core"
)

// Progress prints a running episode counter with the latest reward
type Progress struct {
	out   io.Writer
	au    aurora.Aurora
	every int

	mu      sync.Mutex
	total   int
	started time.Time
	reward  float64
}

// New returns a Progress printing every n episodes (and always the last one)
func New(out io.Writer, color bool, every int) *Progress {
	if out == nil {
		out = os.Stdout
	}
	if every < 1 {
		every = 1
	}
	return &Progress{
		out:   out,
		au:    aurora.NewAurora(color),
		every: every,
	}
}

func (p *Progress) Start(phase string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.started = time.Now()
	p.reward = 0
	fmt.Fprintf(p.out, "%s %s episodes\n", p.au.Bold(p.au.Cyan(phase)), humanize.Comma(int64(total)))
}

func (p *Progress) Episode(phase string, episode int, result core.EpisodeResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reward = result.TotalReward
	done := episode + 1
	if done%p.every != 0 && done != p.total {
		return
	}

	reward := p.au.Green(fmt.Sprintf("%.2f", result.TotalReward))
	if result.TotalReward < 0 {
		reward = p.au.Red(fmt.Sprintf("%.2f", result.TotalReward))
	}
	fmt.Fprintf(p.out, "%s %s/%s r: %s steps: %s\n",
		phase,
		humanize.Comma(int64(done)),
		humanize.Comma(int64(p.total)),
		reward,
		humanize.Comma(int64(result.Steps)),
	)
}

func (p *Progress) Finish(phase string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.started).Round(time.Millisecond)
	fmt.Fprintf(p.out, "%s done in %s, last reward %s\n",
		p.au.Bold(p.au.Cyan(phase)), elapsed, humanize.Ftoa(p.reward))
}
