package logging

import (
	"io"

	"go.uber.org/zap"
)

// Sink receives fully formatted log lines. The level is passed along so
// leveled backends can route the line; stream backends ignore it.
type Sink interface {
	WriteLine(level Level, line string)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(level Level, line string)

// WriteLine calls f(level, line).
func (f SinkFunc) WriteLine(level Level, line string) {
	f(level, line)
}

type writerSink struct {
	w io.Writer
}

// NewWriterSink writes each line to w followed by a newline.
func NewWriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) WriteLine(_ Level, line string) {
	// Write errors are dropped; a broken log stream must not break the caller.
	_, _ = io.WriteString(s.w, line+"\n")
}

type zapSink struct {
	logger *zap.Logger
}

// NewZapSink routes lines to a zap logger. Error and warn lines keep their
// severity, every other level is written at info.
func NewZapSink(logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapSink{logger: logger}
}

func (s *zapSink) WriteLine(level Level, line string) {
	switch level {
	case LevelError:
		s.logger.Error(line)
	case LevelWarn:
		s.logger.Warn(line)
	default:
		s.logger.Info(line)
	}
}
