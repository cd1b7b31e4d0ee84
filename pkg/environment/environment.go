package environment

import (
	"time"
)

// Status values reported by State
const (
	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusDone    = "done"
)

// State is the bookkeeping every bundled environment keeps about its episode
type State struct {
	Status    string
	Episode   int
	Step      int
	Timestamp time.Time
}

func newState() State {
	return State{
		Status:    StatusIdle,
		Timestamp: time.Now(),
	}
}

func (s *State) reset() {
	s.Status = StatusRunning
	s.Episode++
	s.Step = 0
	s.Timestamp = time.Now()
}

func (s *State) advance(done bool) {
	s.Step++
	s.Timestamp = time.Now()
	if done {
		s.Status = StatusDone
	}
}
