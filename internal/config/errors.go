package config

import (
	"errors"

	"github.com/eugenenazirov/librato-rack/internal/logging"
)

var (
	// ErrInvalidLogLevel is returned when log_level is not one of off, error,
	// warn, info, debug or trace.
	ErrInvalidLogLevel = logging.ErrInvalidLogLevel
	// ErrInvalidFlushInterval is returned when flush_interval is not positive.
	ErrInvalidFlushInterval = errors.New("flush interval must be positive")
)
