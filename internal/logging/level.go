package logging

import (
	"errors"
	"fmt"
)

// ErrInvalidLogLevel is returned when a log level is not one of the six recognised levels.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Level orders log verbosity from LevelOff (nothing) to LevelTrace (everything).
type Level int8

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// DefaultLevel is used when no level has been configured.
const DefaultLevel = LevelInfo

var levelNames = [...]string{
	LevelOff:   "off",
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
	LevelTrace: "trace",
}

// Levels returns all levels from least to most verbose.
func Levels() []Level {
	return []Level{LevelOff, LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}
}

// ParseLevel resolves a level name. Only the exact lowercase names are
// accepted: "INFO" and " info" are invalid.
func ParseLevel(raw string) (Level, error) {
	for lvl, candidate := range levelNames {
		if candidate == raw {
			return Level(lvl), nil
		}
	}
	return LevelOff, fmt.Errorf("%w %q", ErrInvalidLogLevel, raw)
}

// Valid reports whether l is one of the declared levels.
func (l Level) Valid() bool {
	return l >= LevelOff && l <= LevelTrace
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int8(l))
	}
	return levelNames[l]
}
