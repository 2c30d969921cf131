// Package oracle provides the text-generation backends used to summarize
// file diffs and plan commit groups.
//
// Two backends exist: "cli" runs an installed agent CLI (claude, gemini or
// codex) as a subprocess, and "genai" calls the Gemini API directly.
// Callers only see the Oracle and Session interfaces.
package oracle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/commitkit/internal/config"
	"github.com/mrz1836/commitkit/internal/errors"
)

// Oracle is a text-generation backend.
type Oracle interface {
	// Available reports whether the backend can serve requests.
	// A non-nil error wraps errors.ErrOracleUnavailable.
	Available(ctx context.Context) error

	// NewSession starts a conversation with no prior context.
	NewSession() Session
}

// Session sends prompts to the backend and returns the raw response text.
type Session interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

// Option configures an oracle built by New.
type Option func(*options)

type options struct {
	logger   zerolog.Logger
	executor CommandExecutor
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// WithLogger sets the logger for the oracle.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithExecutor replaces the subprocess executor of the cli backend.
func WithExecutor(executor CommandExecutor) Option {
	return func(o *options) {
		o.executor = executor
	}
}

// WithLookPath replaces the PATH lookup used by the cli backend's availability check.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(o *options) {
		o.lookPath = fn
	}
}

// WithGetenv replaces the environment lookup used to read the genai API key.
func WithGetenv(fn func(string) string) Option {
	return func(o *options) {
		o.getenv = fn
	}
}

// New builds the backend selected by cfg.Backend.
func New(cfg config.OracleConfig, opts ...Option) (Oracle, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	switch cfg.Backend {
	case BackendCLI:
		c, err := newCLIOracle(cfg, o)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendGenAI:
		return newGenAIOracle(cfg, o), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", errors.ErrConfigInvalidOracle, cfg.Backend)
	}
}

// Backend names accepted by New.
const (
	BackendCLI   = "cli"
	BackendGenAI = "genai"
)
