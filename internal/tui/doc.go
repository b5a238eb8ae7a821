// Package tui provides terminal user interface components for ranfuzz-ctl.
//
// This package uses the Bubble Tea framework to show the progress of a
// fuzz run. The controller runs in a background goroutine and its events
// reach the program through Program.Send:
//
//	report, err := tui.Run(ctx, "fuzz [0:99]", 100,
//	    func(ctx context.Context, hook batch.Hook) (*batch.Report, error) {
//	        return a.Controller(hook).Fuzz(ctx, r)
//	    })
//
// The view shows the current batch with a spinner, a progress bar over
// torn-down groups, one line per group of the batch and running counters.
// Pressing q cancels the run.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - spinner and progress components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
