package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/librato-rack/internal/logging"
	"github.com/eugenenazirov/librato-rack/internal/metrics"
)

const defaultFlushInterval = 60 * time.Second

// settings is one unresolved layer of configuration. Empty fields are unset
// and get filled from lower precedence layers.
type settings struct {
	User          string
	Token         string
	Source        string
	Prefix        string
	Suites        string
	SuitesExcept  string
	LogLevel      string
	EventMode     string
	APIEndpoint   string
	FlushInterval time.Duration
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	User          string `yaml:"user"`
	Token         string `yaml:"token"`
	Source        string `yaml:"source"`
	Prefix        string `yaml:"prefix"`
	Suites        string `yaml:"suites"`
	SuitesExcept  string `yaml:"suites_except"`
	LogLevel      string `yaml:"log_level"`
	EventMode     string `yaml:"event_mode"`
	APIEndpoint   string `yaml:"api_endpoint"`
	FlushInterval string `yaml:"flush_interval"`
}

// Overrides holds command-line flag overrides. Nil fields are not set.
type Overrides struct {
	ConfigFile    string
	Source        *string
	Prefix        *string
	Suites        *string
	SuitesExcept  *string
	LogLevel      *string
	EventMode     *string
	APIEndpoint   *string
	FlushInterval *time.Duration
}

// defaultSettings returns the lowest precedence layer.
func defaultSettings() settings {
	return settings{
		Prefix:        logging.DefaultPrefix,
		LogLevel:      logging.DefaultLevel.String(),
		APIEndpoint:   metrics.DefaultAPIEndpoint,
		FlushInterval: defaultFlushInterval,
	}
}

// loadFromFile loads a settings layer from a YAML file.
func loadFromFile(path string) (settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return settings{}, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return settings{}, fmt.Errorf("parse YAML: %w", err)
	}

	s := settings{
		User:         yamlCfg.User,
		Token:        yamlCfg.Token,
		Source:       yamlCfg.Source,
		Prefix:       yamlCfg.Prefix,
		Suites:       yamlCfg.Suites,
		SuitesExcept: yamlCfg.SuitesExcept,
		LogLevel:     yamlCfg.LogLevel,
		EventMode:    yamlCfg.EventMode,
		APIEndpoint:  yamlCfg.APIEndpoint,
	}
	if raw := strings.TrimSpace(yamlCfg.FlushInterval); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return settings{}, fmt.Errorf("parse flush_interval: %w", err)
		}
		s.FlushInterval = d
	}
	return s, nil
}

func (o *Overrides) settings() settings {
	var s settings
	if o == nil {
		return s
	}
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	s.Source = deref(o.Source)
	s.Prefix = deref(o.Prefix)
	s.Suites = deref(o.Suites)
	s.SuitesExcept = deref(o.SuitesExcept)
	s.LogLevel = deref(o.LogLevel)
	s.EventMode = deref(o.EventMode)
	s.APIEndpoint = deref(o.APIEndpoint)
	if o.FlushInterval != nil {
		s.FlushInterval = *o.FlushInterval
	}
	return s
}

// mergeSettings collapses layers ordered from highest to lowest precedence.
// Suites and SuitesExcept are taken together from the highest layer that sets
// either of them.
func mergeSettings(layers ...settings) (settings, error) {
	var merged settings
	suitesResolved := false
	for _, layer := range layers {
		if !suitesResolved && (layer.Suites != "" || layer.SuitesExcept != "") {
			merged.Suites, merged.SuitesExcept = layer.Suites, layer.SuitesExcept
			suitesResolved = true
		}
		layer.Suites, layer.SuitesExcept = "", ""

		if err := mergo.Merge(&merged, layer); err != nil {
			return settings{}, fmt.Errorf("error merging configs: %w", err)
		}
	}
	return merged, nil
}
