// Package constants provides centralized constant values used throughout commitkit.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory and file names used by commitkit.
const (
	// HomeDir is the hidden directory name where commitkit stores its data.
	// This directory is created in the user's home directory.
	HomeDir = ".commitkit"

	// HomeEnvVar overrides the location of HomeDir.
	HomeEnvVar = "COMMITKIT_HOME"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the name of the rotating CLI log file.
	CLILogFileName = "commitkit.log"

	// ConfigFileName is the name of both the global and project config files.
	ConfigFileName = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides (COMMITKIT_*).
	EnvPrefix = "COMMITKIT"
)

// Auto-commit pipeline limits.
const (
	// DefaultMaxFiles is the inventory size above which a run aborts
	// before any oracle call.
	DefaultMaxFiles = 30

	// DefaultMaxDiffChars bounds the per-file diff excerpt sent to the oracle.
	DefaultMaxDiffChars = 6000

	// DefaultSummaryRetries is the number of extra attempts made for a
	// per-file summary after the first response fails to parse.
	DefaultSummaryRetries = 1

	// DiffTruncationMarker is appended to diff excerpts that were cut.
	DiffTruncationMarker = "\n... [diff truncated]"

	// RootScope is the directory label used for files at the repository root.
	RootScope = "root"
)

// Oracle defaults.
const (
	// DefaultOracleTimeout bounds a single oracle request.
	DefaultOracleTimeout = 2 * time.Minute

	// DefaultOracleBackend is the backend used when none is configured.
	DefaultOracleBackend = "cli"

	// DefaultOracleAgent is the agent CLI used by the cli backend.
	DefaultOracleAgent = "claude"

	// DefaultGenAIModel is the model used by the genai backend.
	DefaultGenAIModel = "gemini-2.5-flash"

	// DefaultGenAIKeyEnv is the environment variable holding the Gemini API key.
	DefaultGenAIKeyEnv = "GEMINI_API_KEY"
)

// Log rotation settings for the CLI log file.
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 14
	LogCompress   = true
)
