package model

import "fmt"

// ExitCode defines the CLI exit codes. The installer contract is
// deliberately narrow: 0 on full success, 1 if either pip step fails.
// A redistributable failure is logged but does not affect the exit code.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an installation step failed or an
	// unspecified error occurred.
	ExitGeneralError ExitCode = 1
)

// StepResult is the outcome of a single installation step: a success flag
// plus a diagnostic string. Steps never raise errors across package
// boundaries — a missing file, a pip launch failure, and a non-zero pip
// exit all collapse into a failed StepResult whose Detail is what gets
// printed to the user.
type StepResult struct {
	// OK reports whether the step succeeded.
	OK bool

	// Detail is the human-readable diagnostic. Empty on success unless
	// the step has something informational to say (e.g., "nothing to do").
	Detail string
}

// StepOK returns a successful StepResult with no diagnostic.
func StepOK() StepResult {
	return StepResult{OK: true}
}

// StepOKf returns a successful StepResult with an informational diagnostic.
func StepOKf(format string, args ...interface{}) StepResult {
	return StepResult{OK: true, Detail: fmt.Sprintf(format, args...)}
}

// StepFailedf returns a failed StepResult with a formatted diagnostic.
func StepFailedf(format string, args ...interface{}) StepResult {
	return StepResult{OK: false, Detail: fmt.Sprintf(format, args...)}
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate command errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
