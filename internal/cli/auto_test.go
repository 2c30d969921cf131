package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/commitkit/internal/errors"
	"github.com/mrz1836/commitkit/internal/tui"
)

const mainWithGreeting = "package main\n\nfunc main() { println(\"hello\") }\n"

const greetingSummary = `{"summary":"Add greeting","category":"feat","scope":"app"}`

func commitSubjects(t *testing.T, dir string) []string {
	t.Helper()
	return strings.Split(gitRun(t, dir, "log", "--format=%s"), "\n")
}

func TestRunAuto_SingleFileCommit(t *testing.T) {
	isolateHome(t)
	dir := initRepo(t)
	writeFile(t, dir, "app/main.go", mainWithGreeting)

	o := &stubOracle{summary: greetingSummary}
	var out, errOut bytes.Buffer
	globals := &GlobalFlags{Output: OutputText}

	err := runAuto(context.Background(), &out, &errOut, globals, &AutoFlags{}, depsFor(dir, o))
	require.NoError(t, err)

	assert.Equal(t, []string{"feat(app): add greeting", "initial commit"}, commitSubjects(t, dir))
	assert.Contains(t, out.String(), "Created 1 commit(s).")
	assert.Equal(t, 1, o.callCount(), "single file needs no grouping request")
	assert.Empty(t, gitRun(t, dir, "status", "--porcelain"))
}

func TestRunAuto_GroupsIntoSeparateCommits(t *testing.T) {
	isolateHome(t)
	dir := initRepo(t)
	writeFile(t, dir, "app/main.go", mainWithGreeting)
	writeFile(t, dir, "README.md", "# demo\n\nUsage notes.\n")

	o := &stubOracle{
		summary: greetingSummary,
		groupResponse: "```json\n" + `{"commits":[
			{"files":["app/main.go"],"message":"feat(app): add entry point"},
			{"files":["README.md"],"message":"docs(root): describe usage"}
		]}` + "\n```",
	}
	var out, errOut bytes.Buffer
	globals := &GlobalFlags{Output: OutputText, Verbose: true}

	err := runAuto(context.Background(), &out, &errOut, globals, &AutoFlags{}, depsFor(dir, o))
	require.NoError(t, err)

	assert.Equal(t, []string{"docs(root): describe usage", "feat(app): add entry point", "initial commit"}, commitSubjects(t, dir))
	assert.Contains(t, out.String(), "Created 2 commit(s).")
	assert.Contains(t, errOut.String(), "[1/2] feat(app): add entry point")
	assert.Contains(t, errOut.String(), "[2/2] docs(root): describe usage")
}

func TestRunAuto_DryRunJSON(t *testing.T) {
	isolateHome(t)
	dir := initRepo(t)
	writeFile(t, dir, "app/main.go", mainWithGreeting)

	o := &stubOracle{summary: greetingSummary}
	var out, errOut bytes.Buffer
	globals := &GlobalFlags{Output: OutputJSON}

	err := runAuto(context.Background(), &out, &errOut, globals, &AutoFlags{DryRun: true}, depsFor(dir, o))
	require.NoError(t, err)

	var report tui.RunReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.DryRun)
	require.Len(t, report.Commits, 1)
	assert.Equal(t, "feat(app): add greeting", report.Commits[0].Message)
	assert.Equal(t, []string{"app/main.go"}, report.Commits[0].Files)
	assert.Equal(t, tui.StatusPlanned, report.Commits[0].Status)

	assert.Equal(t, []string{"initial commit"}, commitSubjects(t, dir))
	assert.Equal(t, "M app/main.go", gitRun(t, dir, "status", "--porcelain"))
}

func TestRunAuto_CleanTree(t *testing.T) {
	isolateHome(t)
	dir := initRepo(t)

	o := &stubOracle{}
	var out, errOut bytes.Buffer

	err := runAuto(context.Background(), &out, &errOut, &GlobalFlags{Output: OutputText}, &AutoFlags{}, depsFor(dir, o))
	require.NoError(t, err)
	assert.Equal(t, "Nothing to commit.\n", out.String())
	assert.Zero(t, o.callCount())
}

func TestRunAuto_NotARepository(t *testing.T) {
	isolateHome(t)

	var out, errOut bytes.Buffer
	err := runAuto(context.Background(), &out, &errOut, &GlobalFlags{Output: OutputText}, &AutoFlags{}, depsFor(t.TempDir(), &stubOracle{}))
	require.ErrorIs(t, err, errors.ErrNotGitRepo)
}

func TestRunAuto_TooManyFilesFromConfig(t *testing.T) {
	isolateHome(t)
	dir := initRepo(t)
	writeFile(t, dir, "app/main.go", mainWithGreeting)
	writeFile(t, dir, "README.md", "# demo\n\nUsage notes.\n")

	cfgPath := filepath.Join(t.TempDir(), "commitkit.yaml")
	writeFile(t, filepath.Dir(cfgPath), filepath.Base(cfgPath), "auto:\n  max_files: 1\n")

	o := &stubOracle{summary: greetingSummary}
	var out, errOut bytes.Buffer
	globals := &GlobalFlags{Output: OutputText, ConfigPath: cfgPath}

	err := runAuto(context.Background(), &out, &errOut, globals, &AutoFlags{}, depsFor(dir, o))

	var tooMany *errors.TooManyFilesError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Count)
	assert.Equal(t, 1, tooMany.Limit)
	assert.Zero(t, o.callCount())
	assert.Equal(t, []string{"initial commit"}, commitSubjects(t, dir))
}

func TestRunAuto_MissingConfigOverride(t *testing.T) {
	isolateHome(t)
	dir := initRepo(t)

	var out, errOut bytes.Buffer
	globals := &GlobalFlags{Output: OutputText, ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}

	err := runAuto(context.Background(), &out, &errOut, globals, &AutoFlags{}, depsFor(dir, &stubOracle{}))
	require.ErrorIs(t, err, errors.ErrConfigNotFound)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRunAuto_OracleUnavailable(t *testing.T) {
	isolateHome(t)
	dir := initRepo(t)
	writeFile(t, dir, "app/main.go", mainWithGreeting)

	o := &stubOracle{availableErr: errors.ErrOracleUnavailable}
	var out, errOut bytes.Buffer

	err := runAuto(context.Background(), &out, &errOut, &GlobalFlags{Output: OutputText}, &AutoFlags{}, depsFor(dir, o))
	require.ErrorIs(t, err, errors.ErrOracleUnavailable)
	assert.Zero(t, o.callCount())
}

func TestRunAuto_PartialFailureIsReportedOnce(t *testing.T) {
	isolateHome(t)
	dir := initRepo(t)
	writeFile(t, dir, "app/main.go", mainWithGreeting)
	writeFile(t, dir, "README.md", "# demo\n\nUsage notes.\n")

	// A commit-msg hook rejecting docs commits makes the second group fail.
	hook := filepath.Join(dir, ".git", "hooks", "commit-msg")
	writeFile(t, filepath.Dir(hook), filepath.Base(hook), "#!/bin/sh\ngrep -q '^docs' \"$1\" && exit 1\nexit 0\n")
	require.NoError(t, os.Chmod(hook, 0o700))

	o := &stubOracle{
		summary: greetingSummary,
		groupResponse: `{"commits":[
			{"files":["app/main.go"],"message":"feat(app): add entry point"},
			{"files":["README.md"],"message":"docs(root): describe usage"}
		]}`,
	}
	var out, errOut bytes.Buffer

	err := runAuto(context.Background(), &out, &errOut, &GlobalFlags{Output: OutputText}, &AutoFlags{}, depsFor(dir, o))
	require.ErrorIs(t, err, errors.ErrAlreadyReported)
	assert.Equal(t, ExitError, ExitCodeForError(err))

	assert.Equal(t, []string{"feat(app): add entry point", "initial commit"}, commitSubjects(t, dir))
	assert.Contains(t, out.String(), "✓ feat(app): add entry point")
	assert.Contains(t, out.String(), "✗ docs(root): describe usage")
	assert.Contains(t, out.String(), "Stopped after 1 commit(s); 1 group failed.")
}
