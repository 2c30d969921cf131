// Package git provides the repository port used by the auto-commit pipeline.
// This file provides shared git command execution utilities.
package git

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	ckerrors "github.com/mrz1836/commitkit/internal/errors"
)

// CommandError describes a git invocation that exited non-zero.
// It unwraps to ErrGitOperation so callers can match on the sentinel.
type CommandError struct {
	Args     []string // Arguments passed to git
	ExitCode int      // Process exit code, -1 if the process never ran
	Stderr   string   // Trimmed stderr output
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	name := "git"
	if len(e.Args) > 0 {
		name = "git " + e.Args[0]
	}
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed (exit %d): %s", name, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s failed (exit %d)", name, e.ExitCode)
}

// Unwrap returns ErrGitOperation.
func (e *CommandError) Unwrap() error {
	return ckerrors.ErrGitOperation
}

// ExitCode extracts the git exit code from err, or -1 if err is not a CommandError.
func ExitCode(err error) int {
	var cmdErr *CommandError
	if stderrors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return -1
}

// runRaw executes git and returns stdout untouched.
// Both streams are collected into buffers by exec.Cmd before Wait returns,
// so large status or diff output cannot block the child process.
func runRaw(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		stderrText := strings.TrimSpace(stderr.String())
		if stderrText == "" && exitCode == -1 {
			stderrText = err.Error()
		}
		return "", &CommandError{Args: args, ExitCode: exitCode, Stderr: stderrText}
	}

	return stdout.String(), nil
}

// RunCommand executes a git command in the specified directory and returns its
// trimmed output. Failures are *CommandError values wrapping ErrGitOperation.
func RunCommand(ctx context.Context, workDir string, args ...string) (string, error) {
	out, err := runRaw(ctx, workDir, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
