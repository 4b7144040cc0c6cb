package config

import (
	"slices"
	"strings"
)

// DefaultSuites are active when neither LIBRATO_SUITES nor
// LIBRATO_SUITES_EXCEPT is set.
var DefaultSuites = []string{"rack"}

type suiteMode uint8

const (
	suitesListed suiteMode = iota
	suitesAll
	suitesNone
)

// SuiteSet answers whether a named instrumentation suite is active. Besides an
// explicit list it can match every name ("all") or no name ("none").
type SuiteSet struct {
	mode  suiteMode
	names map[string]struct{}
}

// AllSuites returns a set that includes every suite.
func AllSuites() SuiteSet {
	return SuiteSet{mode: suitesAll}
}

// NoSuites returns a set that includes no suite.
func NoSuites() SuiteSet {
	return SuiteSet{mode: suitesNone}
}

// NewSuiteSet returns a set containing exactly names, normalised.
func NewSuiteSet(names ...string) SuiteSet {
	set := SuiteSet{mode: suitesListed, names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name = normalizeSuite(name); name != "" {
			set.names[name] = struct{}{}
		}
	}
	return set
}

// Includes reports whether name is active. Case and surrounding whitespace are ignored.
func (s SuiteSet) Includes(name string) bool {
	switch s.mode {
	case suitesAll:
		return true
	case suitesNone:
		return false
	}
	_, ok := s.names[normalizeSuite(name)]
	return ok
}

// Names returns the listed suites in sorted order. It is nil for the "all" and "none" sets.
func (s SuiteSet) Names() []string {
	if s.mode != suitesListed {
		return nil
	}
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (s SuiteSet) String() string {
	switch s.mode {
	case suitesAll:
		return "all"
	case suitesNone:
		return "none"
	}
	return strings.Join(s.Names(), ",")
}

func (s SuiteSet) without(names []string) SuiteSet {
	out := NewSuiteSet(s.Names()...)
	for _, name := range names {
		delete(out.names, name)
	}
	return out
}

// resolveSuites applies, in order: "all", "none", an explicit inclusion list,
// the defaults minus an exclusion list, and finally the defaults.
func resolveSuites(include, except string) SuiteSet {
	switch strings.ToLower(strings.TrimSpace(include)) {
	case "all":
		return AllSuites()
	case "none":
		return NoSuites()
	}

	if names := parseSuiteList(include); len(names) > 0 {
		return NewSuiteSet(names...)
	}

	defaults := NewSuiteSet(DefaultSuites...)
	if names := parseSuiteList(except); len(names) > 0 {
		return defaults.without(names)
	}
	return defaults
}

// parseSuiteList splits a comma-separated list, dropping blank entries.
func parseSuiteList(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = normalizeSuite(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

func normalizeSuite(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
