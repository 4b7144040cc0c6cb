package logging

import (
	"fmt"
)

// DefaultPrefix is prepended to every line unless a different prefix is set.
const DefaultPrefix = "[librato-rack] "

// Option configures a Logger.
type Option func(*Logger)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.prefix = prefix
	}
}

// WithLevel sets the initial level. Invalid levels are ignored and the
// default level is kept; use SetLogLevel to get an error instead.
func WithLevel(level Level) Option {
	return func(l *Logger) {
		if level.Valid() {
			l.level = level
		}
	}
}

// WithRateLimit drops lines once more than burst lines arrive faster than
// linesPerSecond. A non-positive rate disables limiting.
func WithRateLimit(linesPerSecond float64, burst int) Option {
	return func(l *Logger) {
		if linesPerSecond <= 0 {
			l.limiter = nil
			return
		}
		l.limiter = newTokenBucketLimiter(linesPerSecond, burst)
	}
}

// withLimiter overrides the line limiter (tests).
func withLimiter(limiter rateLimiter) Option {
	return func(l *Logger) {
		l.limiter = limiter
	}
}

// Logger writes prefixed lines to a Sink, filtered by a six-step verbosity level.
// It is not safe for concurrent mutation.
type Logger struct {
	sink    Sink
	prefix  string
	level   Level
	limiter rateLimiter
}

// New creates a Logger writing to sink at DefaultLevel with DefaultPrefix.
func New(sink Sink, opts ...Option) *Logger {
	if sink == nil {
		sink = SinkFunc(func(Level, string) {})
	}
	l := &Logger{
		sink:   sink,
		prefix: DefaultPrefix,
		level:  DefaultLevel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log writes prefix+message when level is enabled.
//
//	logger.Log(logging.LevelDebug, "this is a debug message")
func (l *Logger) Log(level Level, message string) {
	if !l.Enabled(level) {
		return
	}
	if l.limiter != nil && !l.limiter.Allow() {
		return
	}
	l.sink.WriteLine(level, l.prefix+message)
}

// Logf formats according to a format specifier and logs the result.
// Arguments are only formatted when level is enabled.
func (l *Logger) Logf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.Log(level, fmt.Sprintf(format, args...))
}

// Enabled reports whether a message at level would be written. Messages at
// LevelOff are never written.
func (l *Logger) Enabled(level Level) bool {
	if level == LevelOff || !level.Valid() {
		return false
	}
	return l.level >= level
}

// Level returns the configured level.
func (l *Logger) Level() Level {
	return l.level
}

// SetLogLevel changes the level. An undeclared level leaves the logger
// unchanged and returns ErrInvalidLogLevel.
func (l *Logger) SetLogLevel(level Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidLogLevel, level.String())
	}
	l.level = level
	return nil
}

// SetLevel parses name and changes the level.
func (l *Logger) SetLevel(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	l.level = level
	return nil
}

// Prefix returns the current line prefix.
func (l *Logger) Prefix() string {
	return l.prefix
}

// SetPrefix replaces the line prefix. It lets a Logger follow configuration
// prefix changes as a listener.
func (l *Logger) SetPrefix(prefix string) {
	l.prefix = prefix
}
