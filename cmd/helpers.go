package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ranfuzz/ranfuzz-ctl/internal/app"
	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
	"github.com/ranfuzz/ranfuzz-ctl/internal/errors"
	"github.com/ranfuzz/ranfuzz-ctl/internal/network"
)

// newApp builds the application for a resolved configuration.
// Tests replace it to inject a mock runtime.
var newApp = func(cfg config.Config) (*app.App, error) {
	return app.New(cfg)
}

// parseIndex parses a non-negative iteration index argument.
func parseIndex(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.ValidationError(fmt.Sprintf("invalid %s index: %q", what, s))
	}
	return n, nil
}

// parseRangeArgs reads <start> <end> [compose-dir].
func parseRangeArgs(args []string) (batch.Range, string, error) {
	start, err := parseIndex(args[0], "start")
	if err != nil {
		return batch.Range{}, "", err
	}
	end, err := parseIndex(args[1], "end")
	if err != nil {
		return batch.Range{}, "", err
	}

	composeDir := ""
	if len(args) > 2 {
		composeDir = args[2]
	}
	return batch.Range{Start: start, End: end}, composeDir, nil
}

// validateRange maps range problems to exit codes.
func validateRange(r batch.Range) error {
	if err := r.Validate(); err != nil {
		if errors.Is(err, network.ErrAddressSpaceExhausted) {
			return errors.AddressSpace(err)
		}
		return errors.ValidationError(err.Error())
	}
	return nil
}

// loadConfig reads the configuration file and applies flag overrides and
// the positional compose directory.
func loadConfig(cmd *cobra.Command, composeDir string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, errors.ConfigError("failed to load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("batch-size") {
		cfg.BatchSize = batchSize
	}
	if flags.Changed("timeout") {
		cfg.WaitTimeout = config.Duration{Duration: waitTimeout}
	}
	if flags.Changed("archive") {
		cfg.ArchiveLogs = archiveLogs
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}

	if composeDir != "" {
		logHeader("COMPOSE DIRECTORY SET: %s", composeDir)
		cfg.ComposeDir = composeDir
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.ConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// session is the state shared by commands that act on a range of groups.
type session struct {
	app   *app.App
	rng   batch.Range
	ctx   context.Context
	close context.CancelFunc
}

// openSession parses range arguments, resolves the configuration and
// builds the application. Ranges are checked before the compose runtime is
// looked up; batched limits the range to one batch. The returned context
// ends on SIGINT or SIGTERM.
func openSession(cmd *cobra.Command, args []string, batched bool) (*session, error) {
	r, composeDir, err := parseRangeArgs(args)
	if err != nil {
		return nil, err
	}
	cmd.SilenceUsage = true

	if err := validateRange(r); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, composeDir)
	if err != nil {
		return nil, err
	}
	if batched && r.Len() > cfg.BatchSize {
		return nil, errors.RangeTooLarge(r.Len(), cfg.BatchSize)
	}

	a, err := newApp(cfg)
	if err != nil {
		return nil, errors.ConfigError("failed to set up compose runtime", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return &session{app: a, rng: r, ctx: ctx, close: stop}, nil
}

// finish releases the signal handler and writes metrics.
func (s *session) finish() {
	s.close()
	if err := s.app.FlushMetrics(); err != nil {
		logWarning("failed to write metrics: %v", err)
	}
}

// outcome turns a run's report into the command's error.
// Timeouts take precedence over command failures.
func outcome(op string, report *batch.Report, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.Wrap(errors.ExitGeneralError, "interrupted", err)
		}
		return err
	}
	if report == nil {
		return nil
	}
	if n := len(report.TimedOut); n > 0 {
		return errors.WaitTimeout(n)
	}
	if n := len(report.Failed); n > 0 {
		return errors.CommandFailed(op, fmt.Errorf("%d container group(s) affected: %v", n, report.Failed))
	}
	return nil
}
