package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/eugenenazirov/librato-rack/internal/logging"
	"github.com/eugenenazirov/librato-rack/internal/metrics"
)

// Configuration holds the resolved librato-rack settings. It is built once
// per process and changed only through its setters. It performs no locking.
type Configuration struct {
	user          string
	token         string
	source        string
	prefix        string
	flushInterval time.Duration
	apiEndpoint   string
	logLevel      logging.Level
	eventMode     EventMode
	suites        SuiteSet
	deprecations  []string

	listeners  []listenerEntry
	lastHandle ListenerHandle
}

// Snapshot is a plain copy of the resolved settings.
type Snapshot struct {
	User           string        `yaml:"user"`
	Token          string        `yaml:"token"`
	Source         string        `yaml:"source"`
	ExplicitSource bool          `yaml:"explicit_source"`
	Prefix         string        `yaml:"prefix"`
	LogLevel       string        `yaml:"log_level"`
	EventMode      string        `yaml:"event_mode"`
	Suites         string        `yaml:"suites"`
	APIEndpoint    string        `yaml:"api_endpoint"`
	FlushInterval  time.Duration `yaml:"flush_interval"`
}

// New resolves a Configuration from environment variables and defaults only.
func New(e Env) (*Configuration, error) {
	return Load(e, nil)
}

// Load resolves a Configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(e Env, overrides *Overrides) (*Configuration, error) {
	layers := make([]settings, 0, 4)

	if overrides != nil {
		layers = append(layers, overrides.settings())
		if overrides.ConfigFile != "" {
			fileSettings, err := loadFromFile(overrides.ConfigFile)
			if err != nil {
				return nil, fmt.Errorf("load YAML config: %w", err)
			}
			layers = append(layers, fileSettings)
		}
	}

	envSettings, deprecated, err := parseEnv(e)
	if err != nil {
		return nil, err
	}
	layers = append(layers, envSettings, defaultSettings())

	merged, err := mergeSettings(layers...)
	if err != nil {
		return nil, err
	}

	cfg, err := fromSettings(merged)
	if err != nil {
		return nil, err
	}
	cfg.deprecations = deprecated
	return cfg, nil
}

func fromSettings(s settings) (*Configuration, error) {
	cfg := &Configuration{
		user:        s.User,
		token:       s.Token,
		source:      s.Source,
		prefix:      s.Prefix,
		apiEndpoint: s.APIEndpoint,
		eventMode:   ParseEventMode(s.EventMode),
		suites:      resolveSuites(s.Suites, s.SuitesExcept),
	}
	if err := cfg.SetLogLevel(s.LogLevel); err != nil {
		return nil, fmt.Errorf("resolve log_level: %w", err)
	}
	if err := cfg.SetFlushInterval(s.FlushInterval); err != nil {
		return nil, fmt.Errorf("resolve flush_interval: %w", err)
	}
	return cfg, nil
}

// User returns the Librato account user, empty when unset.
func (c *Configuration) User() string { return c.user }

// SetUser replaces the account user.
func (c *Configuration) SetUser(user string) { c.user = user }

// Token returns the Librato API token, empty when unset.
func (c *Configuration) Token() string { return c.token }

// SetToken replaces the API token.
func (c *Configuration) SetToken(token string) { c.token = token }

// Source returns the metric source, empty when unset.
func (c *Configuration) Source() string { return c.source }

// SetSource replaces the metric source. An empty source is not explicit.
func (c *Configuration) SetSource(source string) { c.source = source }

// ExplicitSource reports whether a non-empty source was configured.
func (c *Configuration) ExplicitSource() bool { return c.source != "" }

// Prefix returns the current prefix.
func (c *Configuration) Prefix() string { return c.prefix }

// SetPrefix stores prefix and passes it to every registered listener before returning.
func (c *Configuration) SetPrefix(prefix string) {
	c.prefix = prefix
	c.notifyPrefix(prefix)
}

// FlushInterval returns how often collected metrics are reported.
func (c *Configuration) FlushInterval() time.Duration { return c.flushInterval }

// SetFlushInterval changes the reporting cadence. Non-positive values are rejected.
func (c *Configuration) SetFlushInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFlushInterval, d)
	}
	c.flushInterval = d
	return nil
}

// APIEndpoint returns the metrics API base URL.
func (c *Configuration) APIEndpoint() string { return c.apiEndpoint }

// SetAPIEndpoint replaces the API endpoint. A blank value restores the client default.
func (c *Configuration) SetAPIEndpoint(endpoint string) {
	if endpoint = strings.TrimSpace(endpoint); endpoint == "" {
		endpoint = metrics.DefaultAPIEndpoint
	}
	c.apiEndpoint = endpoint
}

// LogLevel returns the configured log level.
func (c *Configuration) LogLevel() logging.Level { return c.logLevel }

// SetLogLevel parses and stores a level. On error the previous level is kept.
func (c *Configuration) SetLogLevel(name string) error {
	level, err := logging.ParseLevel(name)
	if err != nil {
		return err
	}
	c.logLevel = level
	return nil
}

// EventMode returns the event loop mode, EventModeNone when unset.
func (c *Configuration) EventMode() EventMode { return c.eventMode }

// SetEventMode stores the parsed mode. Unknown modes reset it to EventModeNone.
func (c *Configuration) SetEventMode(mode string) { c.eventMode = ParseEventMode(mode) }

// Suites returns the active instrumentation suites.
func (c *Configuration) Suites() SuiteSet { return c.suites }

// Deprecations lists the legacy environment variables that supplied a value.
func (c *Configuration) Deprecations() []string {
	return append([]string(nil), c.deprecations...)
}

// Snapshot returns a copy of the current settings.
func (c *Configuration) Snapshot() Snapshot {
	return Snapshot{
		User:           c.user,
		Token:          c.token,
		Source:         c.source,
		ExplicitSource: c.ExplicitSource(),
		Prefix:         c.prefix,
		LogLevel:       c.logLevel.String(),
		EventMode:      string(c.eventMode),
		Suites:         c.suites.String(),
		APIEndpoint:    c.apiEndpoint,
		FlushInterval:  c.flushInterval,
	}
}
