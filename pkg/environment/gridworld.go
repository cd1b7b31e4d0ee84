package environment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/logrusorgru/aurora"

	"github.com/boristopalov/rlloop/pkg/core"
)

// Grid actions
const (
	Up = iota
	Down
	Left
	Right
)

// ActionNames maps grid actions to their names
var ActionNames = []string{"up", "down", "left", "right"}

// ErrNotReset is returned by Step before the first Reset or after the episode ended
var ErrNotReset = errors.New("gridworld: step called before reset")

// Cell is a grid position
type Cell struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// GridWorldConfig describes the grid layout and its rewards
type GridWorldConfig struct {
	Rows        int     `yaml:"rows"`
	Cols        int     `yaml:"cols"`
	Start       Cell    `yaml:"start"`
	Goal        Cell    `yaml:"goal"`
	Walls       []Cell  `yaml:"walls"`
	StepReward  float64 `yaml:"step_reward"`
	GoalReward  float64 `yaml:"goal_reward"`
	SlipProb    float64 `yaml:"slip_prob"` // chance the action is replaced by a random one
	Seed        int64   `yaml:"seed"`
	ColorOutput bool    `yaml:"color"`
}

// DefaultGridWorldConfig is a 4x4 grid from the top-left to the bottom-right corner
func DefaultGridWorldConfig() GridWorldConfig {
	return GridWorldConfig{
		Rows:       4,
		Cols:       4,
		Start:      Cell{0, 0},
		Goal:       Cell{3, 3},
		StepReward: -0.01,
		GoalReward: 1,
		Seed:       1,
	}
}

func (c GridWorldConfig) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("gridworld: invalid size %dx%d", c.Rows, c.Cols)
	}
	if !c.inside(c.Start) {
		return fmt.Errorf("gridworld: start %v outside grid", c.Start)
	}
	if !c.inside(c.Goal) {
		return fmt.Errorf("gridworld: goal %v outside grid", c.Goal)
	}
	for _, w := range c.Walls {
		if w == c.Start || w == c.Goal {
			return fmt.Errorf("gridworld: wall %v on start or goal", w)
		}
	}
	if c.SlipProb < 0 || c.SlipProb > 1 {
		return fmt.Errorf("gridworld: slip probability %v not in [0, 1]", c.SlipProb)
	}
	return nil
}

func (c GridWorldConfig) inside(cell Cell) bool {
	return cell.Row >= 0 && cell.Row < c.Rows && cell.Col >= 0 && cell.Col < c.Cols
}

// GridWorld is a deterministic-by-seed grid navigation task. States are cell
// indices (row*cols + col) and actions are Up, Down, Left and Right.
type GridWorld struct {
	cfg   GridWorldConfig
	walls map[Cell]bool
	rng   *rand.Rand
	out   io.Writer
	au    aurora.Aurora

	pos   Cell
	state State
	mu    sync.RWMutex
}

// NewGridWorld creates a grid world rendering to out (stdout when nil)
func NewGridWorld(cfg GridWorldConfig, out io.Writer) (*GridWorld, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stdout
	}

	walls := make(map[Cell]bool, len(cfg.Walls))
	for _, w := range cfg.Walls {
		walls[w] = true
	}

	return &GridWorld{
		cfg:   cfg,
		walls: walls,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		out:   out,
		au:    aurora.NewAurora(cfg.ColorOutput),
		state: newState(),
	}, nil
}

// NumStates is the number of cells in the grid
func (g *GridWorld) NumStates() int {
	return g.cfg.Rows * g.cfg.Cols
}

// NumActions is the size of the action space
func (g *GridWorld) NumActions() int {
	return len(ActionNames)
}

func (g *GridWorld) Index(c Cell) int {
	return c.Row*g.cfg.Cols + c.Col
}

func (g *GridWorld) Cell(index int) Cell {
	return Cell{Row: index / g.cfg.Cols, Col: index % g.cfg.Cols}
}

// GetState returns the episode bookkeeping
func (g *GridWorld) GetState() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *GridWorld) Reset(ctx context.Context) (int, core.Info, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pos = g.cfg.Start
	g.state.reset()
	return g.Index(g.pos), core.Info{"episode": g.state.Episode}, nil
}

func (g *GridWorld) Step(ctx context.Context, action int) (core.StepResult[int], error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Status != StatusRunning {
		return core.StepResult[int]{}, ErrNotReset
	}
	if action < 0 || action >= len(ActionNames) {
		return core.StepResult[int]{}, fmt.Errorf("gridworld: invalid action %d", action)
	}

	taken := action
	slipped := false
	if g.cfg.SlipProb > 0 && g.rng.Float64() < g.cfg.SlipProb {
		taken = g.rng.Intn(len(ActionNames))
		slipped = taken != action
	}

	next := g.move(g.pos, taken)
	bumped := next == g.pos
	g.pos = next

	done := g.pos == g.cfg.Goal
	reward := g.cfg.StepReward
	if done {
		reward = g.cfg.GoalReward
	}
	g.state.advance(done)

	return core.StepResult[int]{
		NextState: g.Index(g.pos),
		Reward:    reward,
		Done:      done,
		Info: core.Info{
			"action":  ActionNames[taken],
			"slipped": slipped,
			"bumped":  bumped,
		},
	}, nil
}

func (g *GridWorld) move(from Cell, action int) Cell {
	to := from
	switch action {
	case Up:
		to.Row--
	case Down:
		to.Row++
	case Left:
		to.Col--
	case Right:
		to.Col++
	}
	if !g.cfg.inside(to) || g.walls[to] {
		return from
	}
	return to
}

// Render draws the grid: A is the agent, G the goal and # a wall.
func (g *GridWorld) Render() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "episode %d step %d\n", g.state.Episode, g.state.Step)
	for r := 0; r < g.cfg.Rows; r++ {
		for c := 0; c < g.cfg.Cols; c++ {
			cell := Cell{Row: r, Col: c}
			switch {
			case cell == g.pos:
				b.WriteString(g.au.Green("A ").String())
			case cell == g.cfg.Goal:
				b.WriteString(g.au.Yellow("G ").String())
			case g.walls[cell]:
				b.WriteString(g.au.Red("# ").String())
			default:
				b.WriteString(g.au.Blue(". ").String())
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(g.out, b.String())
	return err
}
