package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/commitkit/internal/config"
	"github.com/mrz1836/commitkit/internal/constants"
	"github.com/mrz1836/commitkit/internal/errors"
)

// Agent names accepted by the cli backend.
const (
	AgentClaude = "claude"
	AgentGemini = "gemini"
	AgentCodex  = "codex"
)

// agentInfo maps agent names to their CLI metadata.
//
//nolint:gochecknoglobals // Constant-like lookup table
var agentInfo = map[string]CLIInfo{
	AgentClaude: {Name: "claude", InstallHint: "install with: npm install -g @anthropic-ai/claude-code", EnvVar: "ANTHROPIC_API_KEY"},
	AgentGemini: {Name: "gemini", InstallHint: "install with: npm install -g @google/gemini-cli", EnvVar: "GEMINI_API_KEY"},
	AgentCodex:  {Name: "codex", InstallHint: "install with: npm install -g @openai/codex", EnvVar: "OPENAI_API_KEY"},
}

// CLIOracle runs an agent CLI once per request.
type CLIOracle struct {
	info     CLIInfo
	model    string
	timeout  time.Duration
	executor CommandExecutor
	lookPath func(string) (string, error)
	logger   zerolog.Logger
}

func newCLIOracle(cfg config.OracleConfig, o *options) (*CLIOracle, error) {
	info, ok := agentInfo[cfg.Agent]
	if !ok {
		return nil, fmt.Errorf("%w: unknown agent %q", errors.ErrConfigInvalidOracle, cfg.Agent)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultOracleTimeout
	}
	return &CLIOracle{
		info:     info,
		model:    cfg.Model,
		timeout:  timeout,
		executor: o.executor,
		lookPath: o.lookPath,
		logger:   o.logger.With().Str("component", "oracle").Str("agent", info.Name).Logger(),
	}, nil
}

// Available reports whether the agent binary is on PATH.
func (c *CLIOracle) Available(_ context.Context) error {
	if _, err := c.lookPath(c.info.Name); err != nil {
		return fmt.Errorf("%w: %s CLI not found on PATH - %s", errors.ErrOracleUnavailable, c.info.Name, c.info.InstallHint)
	}
	return nil
}

// NewSession returns a session with a fresh id. Every Respond call starts a
// new subprocess, so sessions never share conversation state.
func (c *CLIOracle) NewSession() Session {
	return &cliSession{oracle: c, id: uuid.NewString()}
}

type cliSession struct {
	oracle *CLIOracle
	id     string
}

// Respond runs the agent with the prompt and returns its text output.
func (s *cliSession) Respond(ctx context.Context, prompt string) (string, error) {
	c := s.oracle
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := c.buildCommand(runCtx, prompt)
	start := time.Now()
	stdout, stderr, err := c.executor.Execute(runCtx, cmd)

	c.logger.Debug().
		Str("session_id", s.id).
		Int("prompt_chars", len(prompt)).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("oracle request finished")

	if err != nil {
		// The parent context wins over the per-request timeout
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if runCtx.Err() != nil {
			return "", fmt.Errorf("%w: %s timed out after %s", errors.ErrOracleInvocation, c.info.Name, c.timeout)
		}
		return "", WrapCLIExecutionError(c.info, err, stderr)
	}

	return c.extractText(stdout)
}

// buildCommand constructs the agent invocation. Claude and codex read the
// prompt from stdin; gemini takes it as a positional argument.
func (c *CLIOracle) buildCommand(ctx context.Context, prompt string) *exec.Cmd {
	var args []string
	stdin := true

	switch c.info.Name {
	case AgentClaude:
		args = []string{"-p", "--output-format", "json"}
		if c.model != "" {
			args = append(args, "--model", c.model)
		}
	case AgentGemini:
		if c.model != "" {
			args = append(args, "-m", c.model)
		}
		args = append(args, prompt)
		stdin = false
	case AgentCodex:
		args = []string{"exec"}
		if c.model != "" {
			args = append(args, "-m", c.model)
		}
		args = append(args, "-")
	}

	cmd := exec.CommandContext(ctx, c.info.Name, args...)
	if stdin {
		cmd.Stdin = strings.NewReader(prompt)
	}
	return cmd
}

// claudeResponse is the subset of `claude -p --output-format json` output we read.
type claudeResponse struct {
	Type    string `json:"type"`
	IsError bool   `json:"is_error"`
	Result  string `json:"result"`
}

// extractText turns agent stdout into the response text.
func (c *CLIOracle) extractText(stdout []byte) (string, error) {
	if c.info.Name != AgentClaude {
		return strings.TrimSpace(string(stdout)), nil
	}

	var resp claudeResponse
	if err := json.Unmarshal(stdout, &resp); err != nil {
		return "", fmt.Errorf("%w: claude returned invalid JSON: %w", errors.ErrOracleInvocation, err)
	}
	if resp.IsError {
		return "", fmt.Errorf("%w: claude: %s", errors.ErrOracleInvocation, resp.Result)
	}
	return strings.TrimSpace(resp.Result), nil
}

// Compile-time check that CLIOracle implements Oracle.
var _ Oracle = (*CLIOracle)(nil)
