package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
)

// RunFunc drives a controller operation, reporting through hook
type RunFunc func(ctx context.Context, hook batch.Hook) (*batch.Report, error)

// Run executes run in the background while showing its progress.
// Quitting the view cancels the run; Run returns once run has returned.
func Run(ctx context.Context, title string, total int, run RunFunc, opts ...tea.ProgramOption) (*batch.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(title, total), opts...)

	type result struct {
		report *batch.Report
		err    error
	}
	done := make(chan result, 1)

	go func() {
		report, err := run(ctx, func(e batch.Event) {
			p.Send(EventMsg{Event: e})
		})
		p.Send(DoneMsg{Report: report, Err: err})
		done <- result{report, err}
	}()

	_, err := p.Run()
	cancel()
	res := <-done

	if err != nil {
		return res.report, fmt.Errorf("progress view failed: %w", err)
	}
	return res.report, res.err
}
