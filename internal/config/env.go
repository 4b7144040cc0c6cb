package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Env maps environment variable names to values. Unset variables are absent.
type Env map[string]string

// OSEnv returns a snapshot of the process environment.
func OSEnv() Env {
	return env.ToMap(os.Environ())
}

// envVars lists every variable read by Load. Legacy names are kept apart so
// the current name can take precedence.
type envVars struct {
	User         string `env:"LIBRATO_USER"`
	Token        string `env:"LIBRATO_TOKEN"`
	Source       string `env:"LIBRATO_SOURCE"`
	Prefix       string `env:"LIBRATO_PREFIX"`
	Suites       string `env:"LIBRATO_SUITES"`
	SuitesExcept string `env:"LIBRATO_SUITES_EXCEPT"`
	LogLevel     string `env:"LIBRATO_LOG_LEVEL"`
	EventMode    string `env:"LIBRATO_EVENT_MODE"`

	LegacyUser   string `env:"LIBRATO_METRICS_USER"`
	LegacyToken  string `env:"LIBRATO_METRICS_TOKEN"`
	LegacySource string `env:"LIBRATO_METRICS_SOURCE"`
}

// parseEnv decodes e into settings. The second result names the legacy
// variables that supplied a value.
func parseEnv(e Env) (settings, []string, error) {
	if e == nil {
		// A nil Environment makes the env library fall back to os.Environ.
		e = Env{}
	}

	var vars envVars
	if err := env.ParseWithOptions(&vars, env.Options{Environment: e}); err != nil {
		return settings{}, nil, fmt.Errorf("error getting env configs: %w", err)
	}

	var deprecated []string
	pick := func(current, legacy, legacyName string) string {
		if current != "" {
			return current
		}
		if legacy != "" {
			deprecated = append(deprecated, legacyName)
		}
		return legacy
	}

	s := settings{
		User:         pick(vars.User, vars.LegacyUser, "LIBRATO_METRICS_USER"),
		Token:        pick(vars.Token, vars.LegacyToken, "LIBRATO_METRICS_TOKEN"),
		Source:       pick(vars.Source, vars.LegacySource, "LIBRATO_METRICS_SOURCE"),
		Prefix:       vars.Prefix,
		Suites:       vars.Suites,
		SuitesExcept: vars.SuitesExcept,
		LogLevel:     vars.LogLevel,
		EventMode:    vars.EventMode,
	}
	return s, deprecated, nil
}
