package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/commitkit/internal/config"
	"github.com/mrz1836/commitkit/internal/git"
	"github.com/mrz1836/commitkit/internal/oracle"
)

// stubOracle answers every summary prompt with the same summary and
// every grouping prompt with groupResponse.
type stubOracle struct {
	mu            sync.Mutex
	availableErr  error
	summary       string
	groupResponse string
	calls         int
}

func (o *stubOracle) Available(context.Context) error { return o.availableErr }

func (o *stubOracle) NewSession() oracle.Session { return o }

func (o *stubOracle) Respond(_ context.Context, prompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if strings.Contains(prompt, "splitting a set of changed files") {
		return o.groupResponse, nil
	}
	return o.summary, nil
}

func (o *stubOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func depsFor(dir string, o oracle.Oracle) autoDeps {
	return autoDeps{
		workDir: func() (string, error) { return dir, nil },
		newOracle: func(config.OracleConfig, zerolog.Logger) (oracle.Oracle, error) {
			return o, nil
		},
	}
}

// isolateHome points COMMITKIT_HOME at an empty directory so a developer's
// global config and logs never leak into tests.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("COMMITKIT_HOME", home)
	return home
}

// initRepo creates a repository with README.md and app/main.go committed.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		_, err := git.RunCommand(ctx, dir, args...)
		require.NoError(t, err)
	}
	writeFile(t, dir, "README.md", "# demo\n")
	writeFile(t, dir, "app/main.go", "package main\n")
	gitRun(t, dir, "add", ".")
	gitRun(t, dir, "commit", "-q", "-m", "initial commit")
	return dir
}

func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := git.RunCommand(context.Background(), dir, args...)
	require.NoError(t, err)
	return out
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
