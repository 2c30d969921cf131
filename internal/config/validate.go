package config

import (
	"slices"

	"github.com/mrz1836/commitkit/internal/errors"
)

// Backends and agents accepted in the oracle section.
//
//nolint:gochecknoglobals // Read-only lookup tables
var (
	validBackends = []string{"cli", "genai"}
	validAgents   = []string{"claude", "gemini", "codex"}
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if err := validateOracleConfig(&cfg.Oracle); err != nil {
		return err
	}
	return validateAutoConfig(&cfg.Auto)
}

func validateOracleConfig(cfg *OracleConfig) error {
	if !slices.Contains(validBackends, cfg.Backend) {
		return errors.Wrapf(errors.ErrConfigInvalidOracle,
			"oracle.backend must be one of %v, got %q", validBackends, cfg.Backend)
	}
	if cfg.Backend == "cli" && !slices.Contains(validAgents, cfg.Agent) {
		return errors.Wrapf(errors.ErrConfigInvalidOracle,
			"oracle.agent must be one of %v, got %q", validAgents, cfg.Agent)
	}
	if cfg.Backend == "genai" && cfg.APIKeyEnv == "" {
		return errors.Wrap(errors.ErrConfigInvalidOracle,
			"oracle.api_key_env must not be empty for the genai backend")
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidOracle,
			"oracle.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}

func validateAutoConfig(cfg *AutoConfig) error {
	if cfg.MaxFiles < 1 || cfg.MaxFiles > 500 {
		return errors.Wrapf(errors.ErrConfigInvalidAuto,
			"auto.max_files must be between 1 and 500, got %d", cfg.MaxFiles)
	}
	if cfg.MaxDiffChars < 200 || cfg.MaxDiffChars > 200000 {
		return errors.Wrapf(errors.ErrConfigInvalidAuto,
			"auto.max_diff_chars must be between 200 and 200000, got %d", cfg.MaxDiffChars)
	}
	if cfg.SummaryRetries < 0 || cfg.SummaryRetries > 5 {
		return errors.Wrapf(errors.ErrConfigInvalidAuto,
			"auto.summary_retries must be between 0 and 5, got %d", cfg.SummaryRetries)
	}
	return nil
}
