// Package config provides configuration management for commitkit with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (COMMITKIT_* prefix)
//  3. Project config (.commitkit/config.yaml at the repository root)
//  4. Global config (~/.commitkit/config.yaml)
//  5. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for commitkit.
type Config struct {
	// Oracle selects and tunes the text-generation backend.
	Oracle OracleConfig `yaml:"oracle" mapstructure:"oracle"`

	// Auto contains limits for the auto-commit pipeline.
	Auto AutoConfig `yaml:"auto" mapstructure:"auto"`
}

// OracleConfig contains settings for the text-generation backend.
type OracleConfig struct {
	// Backend is "cli" (an agent CLI on PATH) or "genai" (Gemini API).
	// Default: "cli"
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Agent is the CLI used by the cli backend: "claude", "gemini" or "codex".
	// Default: "claude"
	Agent string `yaml:"agent" mapstructure:"agent"`

	// Model overrides the backend's default model. Empty uses the default.
	Model string `yaml:"model" mapstructure:"model"`

	// Timeout bounds a single oracle request.
	// Default: 2 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// APIKeyEnv names the environment variable holding the genai API key.
	// The key itself never lives in a config file.
	// Default: "GEMINI_API_KEY"
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env"`
}

// AutoConfig contains limits for the auto-commit pipeline.
type AutoConfig struct {
	// MaxFiles aborts a run whose inventory is larger than this.
	// Default: 30, Valid range: 1-500
	MaxFiles int `json:"max_files" yaml:"max_files" mapstructure:"max_files"`

	// MaxDiffChars bounds the diff excerpt sent per file.
	// Default: 6000, Valid range: 200-200000
	MaxDiffChars int `json:"max_diff_chars" yaml:"max_diff_chars" mapstructure:"max_diff_chars"`

	// SummaryRetries is how many extra attempts a per-file summary gets.
	// Default: 1, Valid range: 0-5
	SummaryRetries int `json:"summary_retries" yaml:"summary_retries" mapstructure:"summary_retries"`
}
