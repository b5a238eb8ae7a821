package runtime

import (
	"context"
	"strings"

	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
	"github.com/ranfuzz/ranfuzz-ctl/internal/system"
)

// ComposeRuntime implements Runtime by shelling out to the compose CLI,
// either the standalone docker-compose binary or the docker compose plugin.
type ComposeRuntime struct {
	// Command is the compose invocation, e.g. ["docker-compose"] or
	// ["docker", "compose"]
	Command []string

	// Executor runs the commands
	Executor system.CommandExecutor

	// LogSource replaces `compose logs` when set
	LogSource LogSource
}

// NewComposeRuntime creates a compose runtime for the given command.
func NewComposeRuntime(command []string, executor system.CommandExecutor) *ComposeRuntime {
	if executor == nil {
		executor = system.DefaultExecutor()
	}
	return &ComposeRuntime{
		Command:  command,
		Executor: executor,
	}
}

// Name returns the runtime identifier
func (r *ComposeRuntime) Name() string {
	return strings.Join(r.Command, " ")
}

// args returns the full argument list after the binary for a project subcommand
func (r *ComposeRuntime) args(p Project, sub ...string) []string {
	args := make([]string, 0, len(r.Command)+4+len(sub))
	args = append(args, r.Command[1:]...)
	args = append(args, "-p", p.Name, "-f", p.File)
	return append(args, sub...)
}

// commandLine returns binary plus args, for error reporting
func (r *ComposeRuntime) commandLine(args []string) []string {
	return append([]string{r.Command[0]}, args...)
}

// Up starts the project detached without waiting for compose to return
func (r *ComposeRuntime) Up(ctx context.Context, p Project) (*Handle, error) {
	args := r.args(p, "up", "-d")
	logging.Debug("starting compose project", "project", p.Name, "file", p.File)

	proc, err := r.Executor.Start(ctx, r.Command[0], args...)
	if err != nil {
		return nil, newCommandError(r.commandLine(args), err)
	}
	return NewHandle(p, proc, r.commandLine(args)), nil
}

// Down removes the project's containers and volumes
func (r *ComposeRuntime) Down(ctx context.Context, p Project) error {
	args := r.args(p, "down", "-v")
	logging.Debug("stopping compose project", "project", p.Name)

	if err := r.Executor.Run(ctx, r.Command[0], args...); err != nil {
		return newCommandError(r.commandLine(args), err)
	}
	return nil
}

// Logs returns the project's log output without colour codes
func (r *ComposeRuntime) Logs(ctx context.Context, p Project) (string, error) {
	if r.LogSource != nil {
		return r.LogSource.Logs(ctx, p)
	}

	args := r.args(p, "logs", "--no-color")
	out, err := r.Executor.Output(ctx, r.Command[0], args...)
	if err != nil {
		return string(out), newCommandError(r.commandLine(args), err)
	}
	return string(out), nil
}

// Status lists the project's container IDs
func (r *ComposeRuntime) Status(ctx context.Context, p Project) (*ProjectInfo, error) {
	args := r.args(p, "ps", "-q")
	info := &ProjectInfo{Name: p.Name}

	out, err := r.Executor.Output(ctx, r.Command[0], args...)
	if err != nil {
		return info, newCommandError(r.commandLine(args), err)
	}

	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if id := strings.TrimSpace(line); id != "" {
			info.Containers = append(info.Containers, id)
		}
	}
	return info, nil
}

// Ensure ComposeRuntime implements Runtime
var _ Runtime = (*ComposeRuntime)(nil)
