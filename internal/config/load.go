package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/commitkit/internal/constants"
	"github.com/mrz1836/commitkit/internal/errors"
)

// newViperInstance creates a Viper instance with defaults and COMMITKIT_ env binding.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error means the config file is absent.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound) || os.IsNotExist(err)
}

// viperDecoderOption decodes duration strings such as "90s" into time.Duration.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}

// Load reads configuration for the repository at repoRoot from all
// available sources. Missing config files are not an error.
func Load(ctx context.Context, repoRoot string) (*Config, error) {
	globalPath, err := GlobalConfigPath()
	if err != nil {
		// No home directory: run on project config, env and defaults only
		globalPath = ""
	}

	projectPath := ""
	if repoRoot != "" {
		projectPath = ProjectConfigPath(repoRoot)
	}

	cfg, err := LoadFromPaths(ctx, projectPath, globalPath)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("oracle.backend", cfg.Oracle.Backend).
		Str("oracle.agent", cfg.Oracle.Agent).
		Dur("oracle.timeout", cfg.Oracle.Timeout).
		Int("auto.max_files", cfg.Auto.MaxFiles).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, repoRoot string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, repoRoot)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// applyOverrides copies non-zero override values into cfg.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Oracle.Backend != "" {
		cfg.Oracle.Backend = overrides.Oracle.Backend
	}
	if overrides.Oracle.Agent != "" {
		cfg.Oracle.Agent = overrides.Oracle.Agent
	}
	if overrides.Oracle.Model != "" {
		cfg.Oracle.Model = overrides.Oracle.Model
	}
	if overrides.Oracle.Timeout > 0 {
		cfg.Oracle.Timeout = overrides.Oracle.Timeout
	}
	if overrides.Auto.MaxFiles > 0 {
		cfg.Auto.MaxFiles = overrides.Auto.MaxFiles
	}
}
