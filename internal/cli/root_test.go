package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/commitkit/internal/errors"
)

func executeRoot(t *testing.T, info BuildInfo, args ...string) (string, error) {
	t.Helper()
	isolateHome(t)
	t.Cleanup(CloseLogFile)

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	output, err := executeRoot(t, BuildInfo{Version: "test"}, "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "commitkit")
	assert.Contains(t, output, "auto")
	assert.Contains(t, output, "config")
	for _, flag := range []string{"--output", "--verbose", "--quiet", "--config", "--version"} {
		assert.Contains(t, output, flag)
	}
}

func TestAutoCmd_Help(t *testing.T) {
	output, err := executeRoot(t, BuildInfo{}, "auto", "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "--dry-run")
	assert.Contains(t, output, "--staged")
}

func TestRootCmd_Version(t *testing.T) {
	tests := []struct {
		name           string
		info           BuildInfo
		expectContains []string
	}{
		{
			name:           "full version info",
			info:           BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-01-01"},
			expectContains: []string{"1.0.0", "abc1234", "2026-01-01"},
		},
		{
			name:           "default dev version",
			info:           BuildInfo{},
			expectContains: []string{"dev", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			output, err := executeRoot(t, tc.info, "--version")
			require.NoError(t, err)
			for _, expected := range tc.expectContains {
				assert.Contains(t, output, expected)
			}
		})
	}
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	_, err := executeRoot(t, BuildInfo{}, "--output", "yaml", "config", "show")

	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_VerboseAndQuietConflict(t *testing.T) {
	_, err := executeRoot(t, BuildInfo{}, "auto", "--verbose", "--quiet")

	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestAutoCmd_RejectsArguments(t *testing.T) {
	_, err := executeRoot(t, BuildInfo{}, "auto", "now")

	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRenderError(t *testing.T) {
	t.Run("skips already reported", func(t *testing.T) {
		var buf bytes.Buffer
		renderError(&buf, OutputText, errors.ErrAlreadyReported)
		assert.Empty(t, buf.String())
	})

	t.Run("text includes suggestion", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		var buf bytes.Buffer
		renderError(&buf, OutputText, &errors.TooManyFilesError{Count: 45, Limit: 30})
		assert.Contains(t, buf.String(), "Too many changed files")
		assert.Contains(t, buf.String(), "45")
		assert.Contains(t, buf.String(), "Try:")
	})

	t.Run("invalid format falls back to text", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		var buf bytes.Buffer
		renderError(&buf, "yaml", errors.ErrNotGitRepo)
		assert.Contains(t, buf.String(), "not inside a git repository")
	})
}
