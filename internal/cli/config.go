package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/commitkit/internal/config"
	"github.com/mrz1836/commitkit/internal/errors"
	"github.com/mrz1836/commitkit/internal/git"
	"github.com/mrz1836/commitkit/internal/tui"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, globals *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect commitkit configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the configuration commitkit would use in the current directory.

Values are merged from, highest precedence first:
  - COMMITKIT_* environment variables (e.g. COMMITKIT_ORACLE_BACKEND)
  - .commitkit/config.yaml in the repository, or the file given by --config
  - ~/.commitkit/config.yaml (or $COMMITKIT_HOME/config.yaml)
  - built-in defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), globals, os.Getwd)
		},
	})

	root.AddCommand(cmd)
}

// configView is the document printed by config show. Durations are
// rendered as strings and the API key is reported by presence only.
type configView struct {
	Sources configSources     `json:"sources" yaml:"sources"`
	Oracle  oracleView        `json:"oracle" yaml:"oracle"`
	Auto    config.AutoConfig `json:"auto" yaml:"auto"`
}

type oracleView struct {
	Backend   string `json:"backend" yaml:"backend"`
	Agent     string `json:"agent" yaml:"agent"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout   string `json:"timeout" yaml:"timeout"`
	APIKeyEnv string `json:"api_key_env" yaml:"api_key_env"`
	APIKeySet bool   `json:"api_key_set" yaml:"api_key_set"`
}

type configSources struct {
	Global  string `json:"global,omitempty" yaml:"global,omitempty"`
	Project string `json:"project,omitempty" yaml:"project,omitempty"`
}

func runConfigShow(ctx context.Context, w io.Writer, globals *GlobalFlags, getwd func() (string, error)) error {
	ctx = GetLogger().WithContext(ctx)

	repoRoot := ""
	if dir, err := getwd(); err == nil {
		if repo, repoErr := git.NewRunner(ctx, dir); repoErr == nil {
			repoRoot = repo.WorkDir()
		}
	}

	cfg, err := loadConfig(ctx, repoRoot, globals.ConfigPath)
	if err != nil {
		return err
	}

	view := configView{
		Oracle: oracleView{
			Backend:   cfg.Oracle.Backend,
			Agent:     cfg.Oracle.Agent,
			Model:     cfg.Oracle.Model,
			Timeout:   cfg.Oracle.Timeout.String(),
			APIKeyEnv: cfg.Oracle.APIKeyEnv,
			APIKeySet: cfg.Oracle.APIKeyEnv != "" && os.Getenv(cfg.Oracle.APIKeyEnv) != "",
		},
		Auto: cfg.Auto,
	}
	if p, pathErr := config.GlobalConfigPath(); pathErr == nil && fileExists(p) {
		view.Sources.Global = p
	}
	if p := projectConfigPath(repoRoot, globals.ConfigPath); p != "" && fileExists(p) {
		view.Sources.Project = p
	}

	if globals.Output == OutputJSON {
		return tui.NewOutput(w, tui.FormatJSON).JSON(view)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// loadConfig loads configuration for repoRoot. A non-empty override
// replaces the project config file and must exist.
func loadConfig(ctx context.Context, repoRoot, override string) (*config.Config, error) {
	if override == "" {
		return config.Load(ctx, repoRoot)
	}

	if !fileExists(override) {
		return nil, errors.NewExitCode2Error(
			fmt.Errorf("%w: %s", errors.ErrConfigNotFound, override))
	}

	globalPath, err := config.GlobalConfigPath()
	if err != nil {
		globalPath = ""
	}
	return config.LoadFromPaths(ctx, override, globalPath)
}

func projectConfigPath(repoRoot, override string) string {
	if override != "" {
		return override
	}
	if repoRoot == "" {
		return ""
	}
	return config.ProjectConfigPath(repoRoot)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
