package oracle

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
)

// CommandExecutor abstracts command execution for testing.
// The production implementation uses exec.Cmd to run subprocesses,
// while tests can provide a scripted implementation.
type CommandExecutor interface {
	// Execute runs the command and returns stdout, stderr, and any error.
	Execute(ctx context.Context, cmd *exec.Cmd) (stdout, stderr []byte, err error)
}

// DefaultExecutor runs commands as real subprocesses.
type DefaultExecutor struct{}

// Execute runs the command and captures both output streams.
func (e *DefaultExecutor) Execute(_ context.Context, cmd *exec.Cmd) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func defaultOptions() *options {
	return &options{
		logger:   zerolog.Nop(),
		executor: &DefaultExecutor{},
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
	}
}
