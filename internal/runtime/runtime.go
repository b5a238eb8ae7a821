// Package runtime defines the compose runtime interface for ranfuzz-ctl.
// This abstraction separates the batch controller from the container
// engine CLI and enables comprehensive testing through mocking.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
	"github.com/ranfuzz/ranfuzz-ctl/internal/system"
)

// Project identifies the compose environment of one container group.
type Project struct {
	Index int
	Name  string // compose project name, e.g. srsRAN_7
	File  string // path to docker-compose_7.yml
}

// Layout maps iteration indexes to compose projects.
type Layout struct {
	ComposeDir    string
	ProjectPrefix string
}

// NewLayout builds a Layout from the run configuration.
func NewLayout(cfg config.Config) Layout {
	return Layout{
		ComposeDir:    cfg.ComposeDir,
		ProjectPrefix: cfg.ProjectPrefix,
	}
}

// ComposeFileName returns the descriptor file name for index.
func ComposeFileName(index int) string {
	return fmt.Sprintf(config.DefaultComposeFileFmt, index)
}

// Project returns the compose project for index.
func (l Layout) Project(index int) Project {
	return Project{
		Index: index,
		Name:  fmt.Sprintf("%s%d", l.ProjectPrefix, index),
		File:  filepath.Join(l.ComposeDir, ComposeFileName(index)),
	}
}

// ProjectInfo holds the observed state of a compose project.
type ProjectInfo struct {
	Name       string
	Containers []string // IDs of the project's containers
}

// Running reports whether any container of the project exists.
func (i *ProjectInfo) Running() bool {
	return i != nil && len(i.Containers) > 0
}

// Runtime is the interface that compose backends must implement.
type Runtime interface {
	// Name returns the runtime identifier (e.g., "docker-compose")
	Name() string

	// Up starts the project detached and returns without waiting for the
	// compose CLI to exit.
	Up(ctx context.Context, p Project) (*Handle, error)

	// Down removes the project's containers and volumes, blocking until the
	// compose CLI exits.
	Down(ctx context.Context, p Project) error

	// Logs returns the project's combined log output.
	Logs(ctx context.Context, p Project) (string, error)

	// Status returns the containers currently belonging to the project.
	Status(ctx context.Context, p Project) (*ProjectInfo, error)
}

// LogSource fetches project logs. ComposeRuntime uses one when configured
// instead of running `compose logs`.
type LogSource interface {
	Logs(ctx context.Context, p Project) (string, error)
}

// Handle tracks a detached `up` invocation.
type Handle struct {
	Project Project
	args    []string
	proc    system.Process
}

// NewHandle wraps a started process. args is the full command line.
func NewHandle(p Project, proc system.Process, args []string) *Handle {
	return &Handle{Project: p, args: args, proc: proc}
}

// Wait blocks until the detached command exits and reports its status as a
// *CommandError when it failed.
func (h *Handle) Wait() error {
	if h == nil || h.proc == nil {
		return nil
	}
	if err := h.proc.Wait(); err != nil {
		return newCommandError(h.args, err)
	}
	return nil
}

// CommandError reports an external command that exited unsuccessfully.
type CommandError struct {
	Args     []string
	ExitCode int // -1 when the process did not report one
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: exit status %d", shellquote.Join(e.Args...), e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", shellquote.Join(e.Args...), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func newCommandError(args []string, err error) *CommandError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &CommandError{Args: args, ExitCode: code, Err: err}
}

// IsCommandError reports whether err carries an external command failure.
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}
