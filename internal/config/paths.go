package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/commitkit/internal/constants"
	"github.com/mrz1836/commitkit/internal/errors"
)

// HomeDir returns the commitkit data directory: $COMMITKIT_HOME if set,
// otherwise ~/.commitkit.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.HomeDir), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the project configuration file under repoRoot.
func ProjectConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, constants.HomeDir, constants.ConfigFileName)
}
