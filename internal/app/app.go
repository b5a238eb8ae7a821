// Package app provides the application context for ranfuzz-ctl.
// It allows dependency injection for testing.
package app

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ranfuzz/ranfuzz-ctl/internal/audit"
	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
	"github.com/ranfuzz/ranfuzz-ctl/internal/generator"
	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
	"github.com/ranfuzz/ranfuzz-ctl/internal/metrics"
	"github.com/ranfuzz/ranfuzz-ctl/internal/runtime"
	"github.com/ranfuzz/ranfuzz-ctl/internal/system"
)

// App holds the application dependencies
type App struct {
	// Config is the resolved run configuration
	Config config.Config

	// Runtime is the compose runtime
	Runtime runtime.Runtime

	// FS is used for descriptors and log archives
	FS system.FileSystem

	// Executor runs compose commands when Runtime is detected
	Executor system.CommandExecutor

	// Audit records per-index lifecycle events
	Audit *audit.Logger

	// Metrics is set when a metrics file is configured
	Metrics *metrics.RunCollector
}

// Option is a function that configures the App
type Option func(*App)

// WithRuntime sets a custom runtime
func WithRuntime(r runtime.Runtime) Option {
	return func(a *App) {
		a.Runtime = r
	}
}

// WithFileSystem sets a custom file system
func WithFileSystem(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithAudit sets a custom audit logger
func WithAudit(logger *audit.Logger) Option {
	return func(a *App) {
		a.Audit = logger
	}
}

// New creates a new App for cfg with the given options.
// If runtime is not provided via WithRuntime, the compose command is
// detected.
func New(cfg config.Config, opts ...Option) (*App, error) {
	app := &App{
		Config:   cfg,
		FS:       system.DefaultFS(),
		Executor: system.DefaultExecutor(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Audit == nil {
		app.Audit = audit.NewLogger(cfg.LogsDir)
	}

	if cfg.MetricsFile != "" {
		collector, err := metrics.NewRunCollector(prometheus.NewRegistry())
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		app.Metrics = collector
	}

	// Initialize runtime if not provided
	if app.Runtime == nil {
		rt, err := runtime.New(cfg, app.Executor)
		if err != nil {
			return nil, err
		}
		app.Runtime = rt
	}

	logging.Debug("application ready", "runtime", app.Runtime.Name(), "compose_dir", cfg.ComposeDir)
	return app, nil
}

// Layout returns the project layout for the configured compose directory
func (a *App) Layout() runtime.Layout {
	return runtime.NewLayout(a.Config)
}

// Controller builds a batch controller wired to the audit log, metrics and
// any extra hooks
func (a *App) Controller(hooks ...batch.Hook) *batch.Controller {
	opts := []batch.Option{batch.WithFileSystem(a.FS)}
	if a.Audit != nil {
		opts = append(opts, batch.WithHook(a.Audit.Hook()))
	}
	if a.Metrics != nil {
		opts = append(opts, batch.WithHook(a.Metrics.Hook()))
	}
	for _, h := range hooks {
		opts = append(opts, batch.WithHook(h))
	}
	return batch.New(a.Config, a.Runtime, opts...)
}

// Generator returns a descriptor generator using the app's file system
func (a *App) Generator() *generator.Generator {
	return generator.New(a.FS)
}

// FlushMetrics writes collected metrics to the configured metrics file
func (a *App) FlushMetrics() error {
	if a.Metrics == nil {
		return nil
	}
	path := filepath.Clean(a.Config.MetricsFile)
	if err := a.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return a.Metrics.WriteTextfile(path)
}
