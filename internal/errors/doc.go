// Package errors provides typed errors with exit codes for ranfuzz-ctl.
//
// # Error Types
//
// RanfuzzError is the base error type that wraps an error with an exit code:
//
//	type RanfuzzError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess       = 0  // Success
//	ExitGeneralError  = 1  // General errors, usage errors, range guard
//	ExitAddressSpace  = 2  // Index or offset outside the /28 scheme
//	ExitTemplateError = 3  // Compose template unreadable or malformed
//	ExitCommandFailed = 4  // External compose command failed
//	ExitConfigError   = 5  // Configuration error
//	ExitWaitTimeout   = 6  // A group never logged the completion marker
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
