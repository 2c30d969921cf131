package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRunConfigShow_YAML(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, home, "config.yaml", "oracle:\n  agent: gemini\n")

	dir := initRepo(t)
	writeFile(t, dir, ".commitkit/config.yaml", "auto:\n  max_files: 12\n")

	var buf bytes.Buffer
	err := runConfigShow(context.Background(), &buf, &GlobalFlags{Output: OutputText},
		func() (string, error) { return dir, nil })
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &view))

	oracleSection := view["oracle"].(map[string]any)
	assert.Equal(t, "cli", oracleSection["backend"])
	assert.Equal(t, "gemini", oracleSection["agent"])
	assert.Equal(t, "2m0s", oracleSection["timeout"])

	autoSection := view["auto"].(map[string]any)
	assert.Equal(t, 12, autoSection["max_files"])
	assert.Equal(t, 6000, autoSection["max_diff_chars"])

	sources := view["sources"].(map[string]any)
	assert.Equal(t, filepath.Join(home, "config.yaml"), sources["global"])
	assert.Contains(t, sources["project"], ".commitkit")
}

func TestRunConfigShow_JSONOutsideRepository(t *testing.T) {
	isolateHome(t)
	t.Setenv("COMMITKIT_AUTO_SUMMARY_RETRIES", "3")
	t.Setenv("GEMINI_API_KEY", "")

	var buf bytes.Buffer
	err := runConfigShow(context.Background(), &buf, &GlobalFlags{Output: OutputJSON},
		func() (string, error) { return t.TempDir(), nil })
	require.NoError(t, err)

	var view configView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, 3, view.Auto.SummaryRetries)
	assert.Equal(t, "GEMINI_API_KEY", view.Oracle.APIKeyEnv)
	assert.False(t, view.Oracle.APIKeySet)
	assert.Empty(t, view.Sources.Global)
	assert.Empty(t, view.Sources.Project)
}

func TestRunConfigShow_InvalidConfig(t *testing.T) {
	isolateHome(t)
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, filepath.Dir(cfgPath), filepath.Base(cfgPath), "oracle:\n  backend: carrier-pigeon\n")

	var buf bytes.Buffer
	err := runConfigShow(context.Background(), &buf, &GlobalFlags{Output: OutputText, ConfigPath: cfgPath},
		func() (string, error) { return t.TempDir(), nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
