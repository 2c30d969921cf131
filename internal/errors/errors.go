// Package errors provides centralized error handling for commitkit.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
var (
	// ErrNoChanges indicates the working tree has nothing to commit.
	// It ends a run early and is reported as success.
	ErrNoChanges = errors.New("no changes to commit")

	// ErrTooManyFiles indicates the inventory exceeds the safety cap.
	// Use TooManyFilesError to carry the count and the limit.
	ErrTooManyFiles = errors.New("too many changed files")

	// ErrGitOperation indicates that a git command exited non-zero
	// or could not be started.
	ErrGitOperation = errors.New("git operation failed")

	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrParse indicates an oracle response did not decode into the
	// expected structured shape.
	ErrParse = errors.New("oracle response could not be parsed")

	// ErrOracleUnavailable indicates the text-generation backend is disabled,
	// not installed, not configured, or still provisioning.
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrOracleInvocation indicates a single oracle request failed.
	ErrOracleInvocation = errors.New("oracle invocation failed")

	// ErrCommitFailed indicates a stage or commit step failed partway
	// through applying a plan.
	ErrCommitFailed = errors.New("commit failed")

	// ErrAlreadyReported indicates an error has already been rendered to the user.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrAlreadyReported = errors.New("error already reported")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigNotFound indicates a config file named on the command line does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalidOracle indicates an invalid oracle configuration value.
	ErrConfigInvalidOracle = errors.New("invalid oracle configuration")

	// ErrConfigInvalidAuto indicates an invalid auto-commit configuration value.
	ErrConfigInvalidAuto = errors.New("invalid auto configuration")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

// TooManyFilesError reports an inventory that exceeded the configured cap.
type TooManyFilesError struct {
	Count int
	Limit int
}

// Error implements the error interface.
func (e *TooManyFilesError) Error() string {
	return fmt.Sprintf("%s: %d changed files exceeds limit of %d", ErrTooManyFiles, e.Count, e.Limit)
}

// Unwrap returns ErrTooManyFiles so errors.Is works on the sentinel.
func (e *TooManyFilesError) Unwrap() error {
	return ErrTooManyFiles
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
