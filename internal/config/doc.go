// Package config resolves librato-rack settings from an injected environment,
// an optional YAML file and command-line overrides, with precedence:
// CLI flags > YAML config > Environment variables > Defaults.
//
// Current variable names (LIBRATO_USER) win over their deprecated forms
// (LIBRATO_METRICS_USER). A Configuration pushes prefix changes to registered
// listeners synchronously, in registration order.
package config
