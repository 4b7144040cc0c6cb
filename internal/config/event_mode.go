package config

import "strings"

// EventMode names the event loop the middleware reports from.
type EventMode string

const (
	// EventModeNone means no event loop integration.
	EventModeNone         EventMode = ""
	EventModeSynchrony    EventMode = "synchrony"
	EventModeEventMachine EventMode = "eventmachine"
)

// ParseEventMode resolves raw case-insensitively. Unrecognised input yields
// EventModeNone rather than an error.
func ParseEventMode(raw string) EventMode {
	switch mode := EventMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case EventModeSynchrony, EventModeEventMachine:
		return mode
	default:
		return EventModeNone
	}
}
