// Package metrics holds the scalar sinks an experiment reports to.
package metrics

import (
	"errors"
	"io"
)

// Tags emitted by the experiment loops.
const (
	TagTrainLoss   = "train/loss"
	TagTrainReward = "train/reward"
	TagTrainStep   = "train/step"
	TagEvalReward  = "eval/reward"
	TagEvalStep    = "eval/step"
)

// Sink accepts scalar metrics keyed by tag and step
type Sink interface {
	AddScalar(tag string, value float64, step int) error
}

type discard struct{}

func (discard) AddScalar(string, float64, int) error { return nil }

// Discard drops every scalar.
var Discard Sink = discard{}

// MultiSink fans each scalar out to several sinks in order.
type MultiSink struct {
	sinks []Sink
}

// Multi returns a sink writing to all of sinks. Nil entries are skipped.
func Multi(sinks ...Sink) *MultiSink {
	m := &MultiSink{sinks: make([]Sink, 0, len(sinks))}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// AddScalar stops at the first sink that fails.
func (m *MultiSink) AddScalar(tag string, value float64, step int) error {
	for _, s := range m.sinks {
		if err := s.AddScalar(tag, value, step); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink that implements io.Closer.
func (m *MultiSink) Close() error {
	var err error
	for _, s := range m.sinks {
		err = errors.Join(err, Close(s))
	}
	return err
}

// Close closes s if it holds resources.
func Close(s Sink) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
