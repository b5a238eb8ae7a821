package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options selects how diagnostics are rendered.
type Options struct {
	// Verbose lets debug records through; otherwise only warnings are kept.
	Verbose bool

	// JSON writes one object per record instead of key=value text.
	JSON bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// logger receives diagnostics from the library packages.
var logger = newLogger(Options{})

func (o Options) level() slog.Level {
	if o.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func newLogger(o Options) *slog.Logger {
	w := o.Output
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: o.level()}
	if o.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs the diagnostic logger for a command run. The returned
// function reinstates the previous logger.
func Setup(o Options) (restore func()) {
	prev := logger
	logger = newLogger(o)
	return func() { logger = prev }
}

// Debug records a step of a run, visible with --verbose.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Warn records a problem that does not stop the run.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}
