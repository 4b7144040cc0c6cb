package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/librato-rack/internal/application"
	"github.com/eugenenazirov/librato-rack/internal/config"
	"github.com/eugenenazirov/librato-rack/internal/logging"
)

var (
	signalNotify = signal.Notify
	lookupEnv    = config.OSEnv
)

type cliOptions struct {
	configFile    string
	source        string
	prefix        string
	logLevel      string
	eventMode     string
	suites        string
	suitesExcept  string
	apiEndpoint   string
	flushInterval time.Duration
	logRateLimit  float64
	checks        []string
	watch         bool
	verbose       bool
}

func newCLI() (*kingpin.Application, *cliOptions) {
	opts := &cliOptions{}

	app := kingpin.New("librato-config", "Resolve and inspect librato-rack settings from the environment")
	app.Flag("config", "Path to YAML configuration file").StringVar(&opts.configFile)
	app.Flag("source", "Source metrics are attributed to").StringVar(&opts.source)
	app.Flag("prefix", "Prefix for log lines and metric names").StringVar(&opts.prefix)
	app.Flag("log-level", "One of off, error, warn, info, debug, trace").StringVar(&opts.logLevel)
	app.Flag("event-mode", "Event loop integration: synchrony or eventmachine").StringVar(&opts.eventMode)
	app.Flag("suites", "Comma-separated suites to enable, or all/none").StringVar(&opts.suites)
	app.Flag("suites-except", "Comma-separated suites to disable from the defaults").StringVar(&opts.suitesExcept)
	app.Flag("api-endpoint", "Metrics API base URL").StringVar(&opts.apiEndpoint)
	app.Flag("flush-interval", "Reporting interval, e.g. 30s").DurationVar(&opts.flushInterval)
	app.Flag("log-rate-limit", "Maximum log lines per second (0 disables)").Default("0").Float64Var(&opts.logRateLimit)
	app.Flag("check", "Suite to test for membership (repeatable)").StringsVar(&opts.checks)
	app.Flag("watch", "Keep running and re-resolve settings on SIGHUP").BoolVar(&opts.watch)
	app.Flag("verbose", "Enable debug output on the host logger").Short('v').BoolVar(&opts.verbose)

	return app, opts
}

func (o *cliOptions) overrides() *config.Overrides {
	overrides := &config.Overrides{
		ConfigFile: o.configFile,
	}

	optional := func(value string) *string {
		if value == "" {
			return nil
		}
		return &value
	}
	overrides.Source = optional(o.source)
	overrides.Prefix = optional(o.prefix)
	overrides.LogLevel = optional(o.logLevel)
	overrides.EventMode = optional(o.eventMode)
	overrides.Suites = optional(o.suites)
	overrides.SuitesExcept = optional(o.suitesExcept)
	overrides.APIEndpoint = optional(o.apiEndpoint)

	if o.flushInterval != 0 {
		interval := o.flushInterval
		overrides.FlushInterval = &interval
	}

	return overrides
}

func main() {
	cli, opts := newCLI()
	kingpin.MustParse(cli.Parse(os.Args[1:]))

	logger, err := logging.NewZap(opts.verbose)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(opts, os.Stdout, logger); err != nil {
		logger.Fatal("librato-config failed", zap.Error(err))
	}
}

func run(opts *cliOptions, stdout io.Writer, logger *zap.Logger) error {
	overrides := opts.overrides()
	cfg, err := config.Load(lookupEnv(), overrides)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var loggerOpts []logging.Option
	if opts.logRateLimit > 0 {
		loggerOpts = append(loggerOpts, logging.WithRateLimit(opts.logRateLimit, int(opts.logRateLimit)+1))
	}

	app, err := application.New(cfg, stdout, logger, loggerOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()

	if err := app.TraceSettings(); err != nil {
		return err
	}
	app.ReportSuites(opts.checks...)

	if opts.watch {
		watch(app, overrides, logger)
	}
	return nil
}

func watch(app *application.App, overrides *config.Overrides, logger *zap.Logger) {
	sig := make(chan os.Signal, 1)
	signalNotify(sig, syscall.SIGHUP, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	logger.Info("watching for SIGHUP")
	for s := range sig {
		if s != syscall.SIGHUP {
			logger.Info("stopping watch", zap.String("signal", s.String()))
			return
		}
		if err := reload(app, overrides); err != nil {
			logger.Warn("reload failed", zap.Error(err))
			continue
		}
		logger.Info("configuration reloaded", zap.String("prefix", app.Config().Prefix()))
	}
}

// reload re-resolves settings and applies the mutable ones to the live
// configuration. Credentials, endpoint and suites keep their startup values.
func reload(app *application.App, overrides *config.Overrides) error {
	fresh, err := config.Load(lookupEnv(), overrides)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	live := app.Config()
	if fresh.Prefix() != live.Prefix() {
		live.SetPrefix(fresh.Prefix())
	}
	if err := app.SetLogLevel(fresh.LogLevel().String()); err != nil {
		return err
	}
	live.SetEventMode(string(fresh.EventMode()))
	return live.SetFlushInterval(fresh.FlushInterval())
}
