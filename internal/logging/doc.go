// Package logging provides logging utilities for ranfuzz-ctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Diagnostics go through slog. The root command installs the handler from
// the --verbose and --json flags; without --verbose only warnings are kept:
//
//	restore := logging.Setup(logging.Options{Verbose: true})
//	defer restore()
//	logging.Debug("starting compose project", "project", name)
//	logging.Warn("failed to write audit event", "index", idx, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserHeader("Fuzzing group %d", n)
//	logging.UserInfo("requested to start container %d", idx)
//	logging.UserSuccess("Containers [%d:%d] stopped", start, end)
//	logging.UserWarning("Waiting %ds for test completion on container %d", secs, idx)
//	logging.UserError("compose down failed: %v", err)
//
// Output destinations (overridable through Stdout and Stderr):
//   - UserInfo, UserSuccess, UserHeader, UserProgress: stdout
//   - UserWarning, UserError: stderr
//
// Headers, successes, warnings and errors are coloured with lipgloss, which
// drops the colour codes when the destination is not a terminal.
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
