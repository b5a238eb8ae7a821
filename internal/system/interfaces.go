// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
	"io/fs"
	"os"
)

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	// ReadFile reads the named file and returns the contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// MkdirAll creates a directory named path, along with any necessary parents.
	MkdirAll(path string, perm fs.FileMode) error

	// Exists returns true if the path exists.
	Exists(path string) bool
}

// Process is a command started without waiting for it.
type Process interface {
	// Pid returns the operating system process ID.
	Pid() int

	// Wait blocks until the process exits and returns its exit error.
	Wait() error
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Run runs a command to completion, discarding its output.
	Run(ctx context.Context, name string, args ...string) error

	// Output runs a command and returns its standard output.
	// Standard error is discarded.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Start launches a command with output discarded and returns without
	// waiting for it.
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// DefaultFS returns the default FileSystem implementation using real OS operations.
func DefaultFS() FileSystem {
	return &osFileSystem{}
}

// DefaultExecutor returns the default CommandExecutor implementation.
func DefaultExecutor() CommandExecutor {
	return &osExecutor{}
}

// osFileSystem implements FileSystem using real OS operations.
type osFileSystem struct{}

func (f *osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *osFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (f *osFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (f *osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
