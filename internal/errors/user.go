package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice (not a map) so wrapped errors can be matched with errors.Is().
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrTooManyFiles,
		info: ErrorInfo{
			Message: "Too many changed files to plan automatically.",
			Action:  "Commit part of the work manually, or use --staged to limit the scope.",
		},
	},
	{
		err: ErrNotGitRepo,
		info: ErrorInfo{
			Message: "This directory is not inside a git repository.",
			Action:  "Run commitkit from within a git working tree.",
		},
	},
	{
		err: ErrGitOperation,
		info: ErrorInfo{
			Message: "Git operation failed. Check your repository state.",
			Action:  "Ensure no other git process is running and hooks are passing.",
		},
	},
	{
		err: ErrOracleUnavailable,
		info: ErrorInfo{
			Message: "The text-generation backend is not available.",
			Action:  "Check the 'oracle' section of your config, the agent CLI install, or the API key.",
		},
	},
	{
		err: ErrParse,
		info: ErrorInfo{
			Message: "The model returned a commit plan that could not be parsed.",
			Action:  "Try again. Output is non-deterministic and usually parses on a second run.",
		},
	},
	{
		err: ErrCommitFailed,
		info: ErrorInfo{
			Message: "A commit failed partway through the plan.",
			Action:  "Fix the reported problem and rerun; commits already made are kept.",
		},
	},
	{
		err: ErrConfigInvalidOracle,
		info: ErrorInfo{
			Message: "Invalid oracle configuration.",
			Action:  "Check the 'oracle' section in .commitkit/config.yaml.",
		},
	},
	{
		err: ErrConfigInvalidAuto,
		info: ErrorInfo{
			Message: "Invalid auto-commit configuration.",
			Action:  "Check the 'auto' section in .commitkit/config.yaml.",
		},
	},
	{
		err: ErrConfigNotFound,
		info: ErrorInfo{
			Message: "The config file passed with --config does not exist.",
			Action:  "Check the path, or drop --config to use .commitkit/config.yaml.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unsupported output format.",
			Action:  "Use --output text or --output json.",
		},
	},
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
