package autocommit

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/commitkit/internal/errors"
)

func runPipeline(t *testing.T, repo *fakeRepo, o *fakeOracle, opts Options) (*Outcome, error) {
	t.Helper()
	return NewPipeline(repo, o, opts, zerolog.Nop()).Run(context.Background())
}

func TestPipeline_CleanTree(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ("?? untracked.txt")

	_, err := runPipeline(t, repo, newFakeOracle(), Options{})
	require.ErrorIs(t, err, errors.ErrNoChanges)
	assert.Zero(t, repo.mutations())
}

func TestPipeline_TooManyFiles(t *testing.T) {
	records := make([]string, 31)
	for i := range records {
		records[i] = fmt.Sprintf(" M file%02d.go", i)
	}
	repo := newFakeRepo()
	repo.status = statusZ(records...)
	o := newFakeOracle()

	_, err := runPipeline(t, repo, o, Options{})
	require.ErrorIs(t, err, errors.ErrTooManyFiles)

	var tooMany *errors.TooManyFilesError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 31, tooMany.Count)
	assert.Equal(t, 30, tooMany.Limit)

	assert.Zero(t, o.calls, "no oracle request")
	assert.Zero(t, o.available, "no availability probe")
	assert.Zero(t, repo.mutations(), "no repository mutation")
}

func TestPipeline_ExactlyAtLimitProceeds(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ(" M a.go", " M b.go")
	o := newFakeOracle()
	o.summaries["a.go"] = []string{summaryJSON("a", "feat", "x")}
	o.summaries["b.go"] = []string{summaryJSON("b", "feat", "x")}
	o.grouping = []string{`{"commits":[{"files":["a.go","b.go"],"message":"feat(x): a and b"}]}`}

	_, err := runPipeline(t, repo, o, Options{MaxFiles: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"feat(x): a and b"}, repo.commits)
}

func TestPipeline_SingleFile(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ(" M internal/api/handler.go")
	o := newFakeOracle()
	o.summaries["internal/api/handler.go"] = []string{summaryJSON("Handle empty body", "fix", "api")}

	outcome, err := runPipeline(t, repo, o, Options{})
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	assert.True(t, outcome.Result.Succeeded())
	assert.Equal(t, []string{"fix(api): handle empty body"}, repo.commits)
	assert.Equal(t, [][]string{{"internal/api/handler.go"}}, repo.added)
	assert.Equal(t, 1, o.calls, "only the summary request")
}

func TestPipeline_DryRunMakesNoChanges(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ(" M a.go", " M b.go", " M logo.png")
	repo.numstat = "1\t1\ta.go\x001\t0\tb.go\x00-\t-\tlogo.png\x00"
	o := newFakeOracle()
	o.summaries["a.go"] = []string{summaryJSON("a", "feat", "x")}
	o.summaries["b.go"] = []string{summaryJSON("b", "fix", "x")}
	o.grouping = []string{`{"commits":[{"files":["a.go"],"message":"feat(x): a"},{"files":["b.go"],"message":"fix(x): b"}]}`}

	outcome, err := runPipeline(t, repo, o, Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, outcome.DryRun)
	assert.Nil(t, outcome.Result)
	assert.Len(t, outcome.Plan, 3)
	assert.Equal(t, "chore(root): update binary files", outcome.Plan[2].Message)
	assert.Zero(t, repo.mutations())
}

func TestPipeline_RenameAndBinary(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ("R  pkg/new.go", "pkg/old.go", " M pkg/util.go", " M assets/icon.png")
	repo.numstat = "0\t0\t\x00pkg/old.go\x00pkg/new.go\x002\t1\tpkg/util.go\x00-\t-\tassets/icon.png\x00"
	o := newFakeOracle()
	o.summaries["pkg/new.go"] = []string{summaryJSON("rename helper file", "refactor", "pkg")}
	o.summaries["pkg/util.go"] = []string{summaryJSON("use renamed helper", "refactor", "pkg")}
	o.grouping = []string{`{"commits":[{"files":["pkg/new.go","pkg/util.go"],"message":"refactor(pkg): rename helper"}]}`}

	outcome, err := runPipeline(t, repo, o, Options{})
	require.NoError(t, err)
	assert.Empty(t, outcome.Dropped)
	assert.Equal(t, [][]string{
		{"pkg/new.go", "pkg/old.go", "pkg/util.go"},
		{"assets/icon.png"},
	}, repo.added)
	assert.Equal(t, []string{"refactor(pkg): rename helper", "chore(assets): update binary files"}, repo.commits)
}

func TestPipeline_BinaryOnlySkipsOracle(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ(" M a.png", " M img/b.png")
	repo.numstat = "-\t-\ta.png\x00-\t-\timg/b.png\x00"
	o := newFakeOracle()
	o.unavailable = errors.ErrOracleUnavailable

	_, err := runPipeline(t, repo, o, Options{})
	require.NoError(t, err)
	assert.Zero(t, o.available)
	assert.Len(t, repo.commits, 2)
}

func TestPipeline_OracleUnavailableIsFatal(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ(" M a.go")
	o := newFakeOracle()
	o.unavailable = fmt.Errorf("%w: claude CLI not found", errors.ErrOracleUnavailable)

	_, err := runPipeline(t, repo, o, Options{})
	require.ErrorIs(t, err, errors.ErrOracleUnavailable)
	assert.Zero(t, o.calls)
	assert.Zero(t, repo.mutations())
}

func TestPipeline_GroupingParseErrorIsFatal(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ(" M a.go", " M b.go")
	o := newFakeOracle()
	o.summaries["a.go"] = []string{summaryJSON("a", "feat", "x")}
	o.summaries["b.go"] = []string{summaryJSON("b", "feat", "x")}
	o.grouping = []string{"I think you should commit everything at once."}

	_, err := runPipeline(t, repo, o, Options{})
	require.ErrorIs(t, err, errors.ErrParse)
	assert.Zero(t, repo.mutations())
}

func TestPipeline_DoubleMalformedSummaryFallsBack(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ(" M src/config.go")
	o := newFakeOracle()
	o.summaries["src/config.go"] = []string{"{oops", "still not json"}

	outcome, err := runPipeline(t, repo, o, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Fallbacks)
	assert.Equal(t, []string{"chore(src): update config.go"}, repo.commits)
}

func TestPipeline_PartialFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ(" M a.go", " M b.go", " M c.go")
	repo.commitErr[2] = stderrors.New("pre-commit hook failed")
	o := newFakeOracle()
	for _, p := range []string{"a.go", "b.go", "c.go"} {
		o.summaries[p] = []string{summaryJSON(p, "feat", "x")}
	}
	o.grouping = []string{`{"commits":[{"files":["a.go"],"message":"m1"},{"files":["b.go"],"message":"m2"},{"files":["c.go"],"message":"m3"}]}`}

	outcome, err := runPipeline(t, repo, o, Options{})
	require.ErrorIs(t, err, errors.ErrCommitFailed)
	require.NotNil(t, outcome)
	require.NotNil(t, outcome.Result)
	assert.Len(t, outcome.Result.Committed, 1)
	assert.Equal(t, 2, outcome.Result.Failed.Index)
	assert.Equal(t, 1, outcome.Result.Skipped(outcome.Plan))
	assert.Equal(t, []string{"m1"}, repo.madeCommits())
}

func TestPipeline_StagedOnly(t *testing.T) {
	repo := newFakeRepo()
	repo.status = statusZ("M  staged.go", " M unstaged.go")
	o := newFakeOracle()
	o.summaries["staged.go"] = []string{summaryJSON("stage it", "chore", "x")}

	_, err := runPipeline(t, repo, o, Options{StagedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"staged.go"}}, repo.added)
}
