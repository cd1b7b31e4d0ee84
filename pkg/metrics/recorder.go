package metrics

import (
	"sync"

	"github.com/samber/lo"
)

// Scalar is a single recorded metric point
type Scalar struct {
	Tag   string
	Value float64
	Step  int
}

// Recorder keeps every scalar in memory, in the order it was added.
type Recorder struct {
	scalars []Scalar
	mu      sync.RWMutex
}

func NewRecorder() *Recorder {
	return &Recorder{scalars: make([]Scalar, 0)}
}

func (r *Recorder) AddScalar(tag string, value float64, step int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scalars = append(r.scalars, Scalar{Tag: tag, Value: value, Step: step})
	return nil
}

// All returns a copy of every recorded scalar
func (r *Recorder) All() []Scalar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	scalars := make([]Scalar, len(r.scalars))
	copy(scalars, r.scalars)
	return scalars
}

// Series returns the scalars recorded under tag
func (r *Recorder) Series(tag string) []Scalar {
	return lo.Filter(r.All(), func(s Scalar, _ int) bool {
		return s.Tag == tag
	})
}

// Tags returns the distinct tags in first-seen order
func (r *Recorder) Tags() []string {
	return lo.Uniq(lo.Map(r.All(), func(s Scalar, _ int) string {
		return s.Tag
	}))
}
