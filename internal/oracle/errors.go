package oracle

import (
	"fmt"
	"strings"

	"github.com/mrz1836/commitkit/internal/errors"
)

// CLIInfo contains agent-specific information for error messages.
type CLIInfo struct {
	Name        string // CLI command name (e.g., "claude", "gemini", "codex")
	InstallHint string // Installation instructions
	EnvVar      string // API key environment variable name
}

// WrapCLIExecutionError wraps a subprocess failure with agent-specific context.
// The result always wraps errors.ErrOracleInvocation.
func WrapCLIExecutionError(info CLIInfo, err error, stderr []byte) error {
	stderrStr := strings.TrimSpace(string(stderr))

	if strings.Contains(stderrStr, "command not found") ||
		strings.Contains(err.Error(), "executable file not found") {
		return fmt.Errorf("%w: %s CLI not found - %s", errors.ErrOracleUnavailable, info.Name, info.InstallHint)
	}

	lower := strings.ToLower(stderrStr)
	if strings.Contains(lower, "api key") ||
		strings.Contains(lower, "authentication") ||
		(info.EnvVar != "" && strings.Contains(stderrStr, info.EnvVar)) {
		return fmt.Errorf("%w: %s API key error: %s", errors.ErrOracleInvocation, info.Name, stderrStr)
	}

	if stderrStr != "" {
		return fmt.Errorf("%w: %s: %s", errors.ErrOracleInvocation, info.Name, stderrStr)
	}
	return fmt.Errorf("%w: %s: %s", errors.ErrOracleInvocation, info.Name, err.Error())
}
