package application

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/librato-rack/internal/config"
	"github.com/eugenenazirov/librato-rack/internal/logging"
	"github.com/eugenenazirov/librato-rack/internal/metrics"
)

const maskedToken = "redacted"

// App encapsulates the configuration and the collaborators that follow it.
type App struct {
	config *config.Configuration
	logger *logging.Logger
	client *metrics.Client
	host   *zap.Logger

	listeners []config.ListenerHandle
}

// New wires a Logger writing to out and a metrics Client from cfg and
// registers both as prefix listeners. Deprecated variables in use are
// reported on host.
func New(cfg *config.Configuration, out io.Writer, host *zap.Logger, opts ...logging.Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if host == nil {
		host = zap.NewNop()
	}

	loggerOpts := append([]logging.Option{
		logging.WithPrefix(cfg.Prefix()),
		logging.WithLevel(cfg.LogLevel()),
	}, opts...)
	logger := logging.New(logging.NewWriterSink(out), loggerOpts...)

	client := metrics.NewClient(
		metrics.WithEndpoint(cfg.APIEndpoint()),
		metrics.WithCredentials(metrics.Credentials{User: cfg.User(), Token: cfg.Token()}),
		metrics.WithSource(cfg.Source()),
	)
	client.SetPrefix(cfg.Prefix())

	app := &App{
		config: cfg,
		logger: logger,
		client: client,
		host:   host,
	}
	app.listeners = append(app.listeners,
		cfg.RegisterListener(logger),
		cfg.RegisterListener(client),
	)

	for _, name := range cfg.Deprecations() {
		host.Warn("deprecated environment variable in use", zap.String("variable", name))
	}
	if !client.Credentials().Complete() {
		logger.Log(logging.LevelWarn, "user and token are not set, metrics will not be reported")
	}

	return app, nil
}

// Config returns the underlying configuration.
func (a *App) Config() *config.Configuration {
	return a.config
}

// Logger returns the prefixed diagnostic logger.
func (a *App) Logger() *logging.Logger {
	return a.logger
}

// Client returns the metrics client descriptor.
func (a *App) Client() *metrics.Client {
	return a.client
}

// SetLogLevel updates the configured level and the logger together.
func (a *App) SetLogLevel(name string) error {
	if err := a.config.SetLogLevel(name); err != nil {
		return err
	}
	return a.logger.SetLogLevel(a.config.LogLevel())
}

// TraceSettings logs the resolved settings at info with the token masked.
func (a *App) TraceSettings() error {
	if !a.logger.Enabled(logging.LevelInfo) {
		return nil
	}

	snap := a.config.Snapshot()
	if snap.Token != "" {
		snap.Token = maskedToken
	}
	out, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	a.logger.Log(logging.LevelInfo, "Settings:\n"+string(out))
	return nil
}

// ReportSuites logs whether each named suite is active.
func (a *App) ReportSuites(names ...string) map[string]bool {
	active := make(map[string]bool, len(names))
	for _, name := range names {
		enabled := a.config.Suites().Includes(name)
		active[name] = enabled
		a.logger.Logf(logging.LevelInfo, "suite %s active=%t", name, enabled)
	}
	return active
}

// Close detaches the collaborators from configuration changes.
func (a *App) Close() {
	for _, handle := range a.listeners {
		a.config.UnregisterListener(handle)
	}
	a.listeners = nil
}
