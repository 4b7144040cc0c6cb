package application

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/librato-rack/internal/config"
	"github.com/eugenenazirov/librato-rack/internal/logging"
	"github.com/eugenenazirov/librato-rack/internal/metrics"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := testConfig(t, config.Env{
		"LIBRATO_USER":      "foo@bar.com",
		"LIBRATO_TOKEN":     "api_key",
		"LIBRATO_SOURCE":    "web.1",
		"LIBRATO_LOG_LEVEL": "debug",
	})
	var out bytes.Buffer

	app, err := New(cfg, &out, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer app.Close()

	if app.Config() != cfg {
		t.Fatalf("Config accessor did not return underlying instance")
	}
	if app.Logger().Level() != logging.LevelDebug {
		t.Fatalf("expected logger level debug, got %s", app.Logger().Level())
	}
	if app.Logger().Prefix() != cfg.Prefix() || app.Client().Prefix() != cfg.Prefix() {
		t.Fatalf("expected collaborators to start with configured prefix")
	}
	if app.Client().APIEndpoint() != metrics.DefaultAPIEndpoint {
		t.Fatalf("unexpected endpoint %s", app.Client().APIEndpoint())
	}
	if got := app.Client().Credentials(); got.User != "foo@bar.com" || got.Token != "api_key" {
		t.Fatalf("unexpected credentials %+v", got)
	}
	if app.Client().Source() != "web.1" {
		t.Fatalf("unexpected source %q", app.Client().Source())
	}
	if out.Len() != 0 {
		t.Fatalf("expected no warnings with complete credentials, got %q", out.String())
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	if _, err := New(nil, &bytes.Buffer{}, nil); err == nil {
		t.Fatalf("expected error for nil configuration")
	}
}

func TestNewWarnsAboutMissingCredentials(t *testing.T) {
	cfg := testConfig(t, config.Env{})
	var out bytes.Buffer

	app, err := New(cfg, &out, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer app.Close()

	want := "[librato-rack] user and token are not set, metrics will not be reported\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestNewReportsDeprecatedVariables(t *testing.T) {
	cfg := testConfig(t, config.Env{
		"LIBRATO_METRICS_USER":  "foo@bar.com",
		"LIBRATO_METRICS_TOKEN": "api_key",
	})
	core, logs := observer.New(zapcore.WarnLevel)

	app, err := New(cfg, &bytes.Buffer{}, zap.New(core))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer app.Close()

	entries := logs.FilterMessage("deprecated environment variable in use").AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("expected 2 deprecation warnings, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["variable"]; got != "LIBRATO_METRICS_USER" {
		t.Fatalf("unexpected variable %v", got)
	}
}

func TestPrefixChangesReachCollaborators(t *testing.T) {
	cfg := testConfig(t, config.Env{"LIBRATO_USER": "u", "LIBRATO_TOKEN": "t"})
	var out bytes.Buffer

	app, err := New(cfg, &out, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	cfg.SetPrefix("[app] ")
	if app.Logger().Prefix() != "[app] " || app.Client().Prefix() != "[app] " {
		t.Fatalf("expected prefix to propagate, got logger=%q client=%q", app.Logger().Prefix(), app.Client().Prefix())
	}
	app.Logger().Log(logging.LevelInfo, "ready")
	if out.String() != "[app] ready\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	app.Close()
	cfg.SetPrefix("[detached] ")
	if app.Logger().Prefix() != "[app] " {
		t.Fatalf("expected closed app to stop following prefix, got %q", app.Logger().Prefix())
	}
}

func TestSetLogLevel(t *testing.T) {
	cfg := testConfig(t, config.Env{})
	app, err := New(cfg, &bytes.Buffer{}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer app.Close()

	if err := app.SetLogLevel("trace"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel() != logging.LevelTrace || app.Logger().Level() != logging.LevelTrace {
		t.Fatalf("expected both levels to be trace")
	}

	if err := app.SetLogLevel("chatty"); !errors.Is(err, logging.ErrInvalidLogLevel) {
		t.Fatalf("expected ErrInvalidLogLevel, got %v", err)
	}
	if app.Logger().Level() != logging.LevelTrace {
		t.Fatalf("invalid level must not change logger")
	}
}

func TestTraceSettingsMasksToken(t *testing.T) {
	cfg := testConfig(t, config.Env{
		"LIBRATO_USER":   "foo@bar.com",
		"LIBRATO_TOKEN":  "secret-token",
		"LIBRATO_SUITES": "rack,sidekiq",
	})
	var out bytes.Buffer

	app, err := New(cfg, &out, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer app.Close()

	if err := app.TraceSettings(); err != nil {
		t.Fatalf("TraceSettings returned error: %v", err)
	}
	dump := out.String()
	if strings.Contains(dump, "secret-token") {
		t.Fatalf("token leaked into settings dump: %s", dump)
	}
	for _, want := range []string{"[librato-rack] Settings:", "user: foo@bar.com", "token: " + maskedToken, "suites: rack,sidekiq", "flush_interval: 1m0s"} {
		if !strings.Contains(dump, want) {
			t.Fatalf("expected %q in dump:\n%s", want, dump)
		}
	}
}

func TestTraceSettingsSilentWhenOff(t *testing.T) {
	cfg := testConfig(t, config.Env{"LIBRATO_LOG_LEVEL": "off"})
	var out bytes.Buffer

	app, err := New(cfg, &out, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer app.Close()

	if err := app.TraceSettings(); err != nil {
		t.Fatalf("TraceSettings returned error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestReportSuites(t *testing.T) {
	cfg := testConfig(t, config.Env{"LIBRATO_USER": "u", "LIBRATO_TOKEN": "t", "LIBRATO_SUITES_EXCEPT": "rack"})
	var out bytes.Buffer

	app, err := New(cfg, &out, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer app.Close()

	got := app.ReportSuites("rack", "sidekiq")
	if got["rack"] || got["sidekiq"] {
		t.Fatalf("expected both suites inactive, got %v", got)
	}
	want := "[librato-rack] suite rack active=false\n[librato-rack] suite sidekiq active=false\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func testConfig(t *testing.T, env config.Env) *config.Configuration {
	t.Helper()
	cfg, err := config.New(env)
	if err != nil {
		t.Fatalf("config.New returned error: %v", err)
	}
	return cfg
}
