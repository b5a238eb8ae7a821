package errors

import (
	"errors"
	"fmt"
)

// Exit codes for ranfuzz-ctl
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitAddressSpace  = 2
	ExitTemplateError = 3
	ExitCommandFailed = 4
	ExitConfigError   = 5
	ExitWaitTimeout   = 6
)

// RanfuzzError is the base error type for ranfuzz-ctl
type RanfuzzError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RanfuzzError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RanfuzzError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *RanfuzzError) ExitCode() int {
	return e.Code
}

// New creates a new RanfuzzError
func New(code int, message string) *RanfuzzError {
	return &RanfuzzError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a RanfuzzError
func Wrap(code int, message string, cause error) *RanfuzzError {
	return &RanfuzzError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// AddressSpace returns an error for an index or offset the allocator cannot serve
func AddressSpace(cause error) *RanfuzzError {
	return Wrap(ExitAddressSpace, "address allocation failed", cause)
}

// TemplateError returns an error for compose template problems
func TemplateError(path string, cause error) *RanfuzzError {
	return Wrap(ExitTemplateError, fmt.Sprintf("compose template %s", path), cause)
}

// CommandFailed returns an error for an external runtime command that failed
func CommandFailed(op string, cause error) *RanfuzzError {
	return Wrap(ExitCommandFailed, fmt.Sprintf("compose %s failed", op), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *RanfuzzError {
	return Wrap(ExitConfigError, message, cause)
}

// WaitTimeout returns an error when one or more groups never reported completion
func WaitTimeout(count int) *RanfuzzError {
	return New(ExitWaitTimeout, fmt.Sprintf("%d container group(s) timed out waiting for completion", count))
}

// RangeTooLarge returns an error for a direct start/stop over more than one batch
func RangeTooLarge(size, batchSize int) *RanfuzzError {
	return New(ExitGeneralError, fmt.Sprintf("range too large (%d > %d), try fuzz instead of start", size, batchSize))
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *RanfuzzError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var rfErr *RanfuzzError
	if errors.As(err, &rfErr) {
		return rfErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
