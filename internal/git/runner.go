package git

import "context"

// Repository is the port through which the auto-commit pipeline reads and
// mutates a working tree. CLIRunner is the production implementation;
// tests provide in-memory fakes.
type Repository interface {
	// StatusZ returns raw `git status --porcelain -z` output (NUL separated).
	StatusZ(ctx context.Context) (string, error)

	// NumStat returns raw `git diff --numstat -z` output for the selected scope.
	NumStat(ctx context.Context, stagedOnly bool) (string, error)

	// DiffPath returns the textual diff for the given paths in the selected scope.
	DiffPath(ctx context.Context, stagedOnly bool, paths ...string) (string, error)

	// HasHead reports whether HEAD resolves to a commit.
	HasHead(ctx context.Context) (bool, error)

	// ResetIndex unstages everything so the index matches HEAD,
	// or is emptied on an unborn branch.
	ResetIndex(ctx context.Context) error

	// Add stages exactly the given paths, including deletions.
	Add(ctx context.Context, paths []string) error

	// Commit records the index with the given message.
	Commit(ctx context.Context, message string) error

	// HeadShortHash returns the abbreviated hash of HEAD.
	HeadShortHash(ctx context.Context) (string, error)
}
