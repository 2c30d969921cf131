package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	ckerrors "github.com/mrz1836/commitkit/internal/errors"
)

// emptyTreeHash is the object id of the empty tree, used as the diff base
// on a branch with no commits yet.
const emptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// exitNothingToUnstage is the exit code of `git rm --cached` on an empty index.
const exitNothingToUnstage = 128

// Compile-time interface check.
var _ Repository = (*CLIRunner)(nil)

// CLIRunner implements Repository using the git CLI.
type CLIRunner struct {
	workDir   string // Repository top-level directory
	logger    zerolog.Logger
	lockRetry LockRetryConfig
}

// RunnerOption configures a CLIRunner.
type RunnerOption func(*CLIRunner)

// WithRunnerLogger sets the logger used for lock retry messages.
func WithRunnerLogger(logger zerolog.Logger) RunnerOption {
	return func(r *CLIRunner) {
		r.logger = logger
	}
}

// WithLockRetry overrides how index.lock contention is retried.
func WithLockRetry(cfg LockRetryConfig) RunnerOption {
	return func(r *CLIRunner) {
		r.lockRetry = cfg
	}
}

// NewRunner creates a CLIRunner rooted at the top level of the repository
// containing workDir. Returns ErrNotGitRepo if workDir is not inside one.
func NewRunner(ctx context.Context, workDir string, opts ...RunnerOption) (*CLIRunner, error) {
	if workDir == "" {
		return nil, fmt.Errorf("work directory cannot be empty: %w", ckerrors.ErrEmptyValue)
	}

	top, err := RunCommand(ctx, workDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ckerrors.ErrNotGitRepo, err)
	}

	r := &CLIRunner{workDir: top, logger: zerolog.Nop(), lockRetry: DefaultLockRetryConfig()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// WorkDir returns the repository top-level directory.
func (r *CLIRunner) WorkDir() string {
	return r.workDir
}

// StatusZ returns NUL-delimited porcelain status, untracked files included
// so the caller can decide what to drop.
func (r *CLIRunner) StatusZ(ctx context.Context) (string, error) {
	out, err := runRaw(ctx, r.workDir, "status", "--porcelain", "-z", "--untracked-files=all")
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	return out, nil
}

// NumStat returns NUL-delimited numeric diff stats for the selected scope.
func (r *CLIRunner) NumStat(ctx context.Context, stagedOnly bool) (string, error) {
	args, err := r.diffArgs(ctx, stagedOnly, "--numstat", "-z")
	if err != nil {
		return "", err
	}
	out, err := runRaw(ctx, r.workDir, args...)
	if err != nil {
		return "", fmt.Errorf("failed to get numstat: %w", err)
	}
	return out, nil
}

// DiffPath returns the diff text for paths. Staged-only compares the index
// with HEAD; otherwise the working tree is compared with HEAD (or the empty
// tree when there is no commit yet).
func (r *CLIRunner) DiffPath(ctx context.Context, stagedOnly bool, paths ...string) (string, error) {
	args, err := r.diffArgs(ctx, stagedOnly)
	if err != nil {
		return "", err
	}
	args = append(args, "--")
	args = append(args, paths...)

	out, err := runRaw(ctx, r.workDir, args...)
	if err != nil {
		return "", fmt.Errorf("failed to get diff for %s: %w", strings.Join(paths, ", "), err)
	}
	return out, nil
}

// HasHead reports whether HEAD points at a commit.
func (r *CLIRunner) HasHead(ctx context.Context) (bool, error) {
	_, err := RunCommand(ctx, r.workDir, "rev-parse", "--verify", "--quiet", "HEAD")
	if err == nil {
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	// --verify --quiet exits 1 without output when the ref is missing
	if ExitCode(err) == 1 {
		return false, nil
	}
	return false, fmt.Errorf("failed to verify HEAD: %w", err)
}

// ResetIndex unstages all changes. With a HEAD commit this is `git reset HEAD`;
// on an unborn branch every path is removed from the index instead, and an
// already-empty index is not an error.
func (r *CLIRunner) ResetIndex(ctx context.Context) error {
	hasHead, err := r.HasHead(ctx)
	if err != nil {
		return err
	}

	if hasHead {
		if err := r.mutate(ctx, "reset", "-q", "HEAD"); err != nil {
			return fmt.Errorf("failed to reset staging: %w", err)
		}
		return nil
	}

	err = r.mutate(ctx, "rm", "-r", "-q", "--cached", ".")
	if err != nil && (ExitCode(err) != exitNothingToUnstage || isLockError(err)) {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	return nil
}

// Add stages exactly the given paths. -A makes deleted paths stage as removals.
func (r *CLIRunner) Add(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no paths to stage: %w", ckerrors.ErrEmptyValue)
	}

	args := append([]string{"add", "-A", "--"}, paths...)
	if err := r.mutate(ctx, args...); err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}
	return nil
}

// Commit creates a commit with the given message.
func (r *CLIRunner) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("commit message cannot be empty: %w", ckerrors.ErrEmptyValue)
	}

	// --cleanup=strip removes trailing whitespace and surrounding blank lines
	if err := r.mutate(ctx, "commit", "-q", "--cleanup=strip", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// HeadShortHash returns the short hash of HEAD.
func (r *CLIRunner) HeadShortHash(ctx context.Context) (string, error) {
	out, err := RunCommand(ctx, r.workDir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return out, nil
}

// mutate runs a command that writes the index, retrying while another
// git process holds index.lock.
func (r *CLIRunner) mutate(ctx context.Context, args ...string) error {
	return runWithLockRetry(ctx, r.lockRetry, r.logger, func(ctx context.Context) error {
		_, err := RunCommand(ctx, r.workDir, args...)
		return err
	})
}

// diffArgs builds the leading `git diff` arguments for a scope.
func (r *CLIRunner) diffArgs(ctx context.Context, stagedOnly bool, extra ...string) ([]string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	args = append(args, extra...)

	if stagedOnly {
		return append(args, "--cached"), nil
	}

	hasHead, err := r.HasHead(ctx)
	if err != nil {
		return nil, err
	}
	if hasHead {
		return append(args, "HEAD"), nil
	}
	return append(args, emptyTreeHash), nil
}
