package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/commitkit/internal/constants"
)

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Backend:   constants.DefaultOracleBackend,
			Agent:     constants.DefaultOracleAgent,
			Timeout:   constants.DefaultOracleTimeout,
			APIKeyEnv: constants.DefaultGenAIKeyEnv,
		},
		Auto: AutoConfig{
			MaxFiles:       constants.DefaultMaxFiles,
			MaxDiffChars:   constants.DefaultMaxDiffChars,
			SummaryRetries: constants.DefaultSummaryRetries,
		},
	}
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("oracle.backend", d.Oracle.Backend)
	v.SetDefault("oracle.agent", d.Oracle.Agent)
	v.SetDefault("oracle.model", d.Oracle.Model)
	v.SetDefault("oracle.timeout", d.Oracle.Timeout.String())
	v.SetDefault("oracle.api_key_env", d.Oracle.APIKeyEnv)

	v.SetDefault("auto.max_files", d.Auto.MaxFiles)
	v.SetDefault("auto.max_diff_chars", d.Auto.MaxDiffChars)
	v.SetDefault("auto.summary_retries", d.Auto.SummaryRetries)
}
