package metrics

import (
	"go.uber.org/zap"
)

// LogSink writes each scalar as a structured log entry.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("metrics")}
}

func (s *LogSink) AddScalar(tag string, value float64, step int) error {
	s.logger.Info("scalar",
		zap.String("tag", tag),
		zap.Int("step", step),
		zap.Float64("value", value),
	)
	return nil
}
