package autocommit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/commitkit/internal/errors"
	"github.com/mrz1836/commitkit/internal/git"
)

// State is a step of the staging state machine.
type State int

// Coordinator states. A run moves Idle -> Resetting, then alternates
// Staging and Committing per group, and ends in Done or Failed.
const (
	StateIdle State = iota
	StateResetting
	StateStaging
	StateCommitting
	StateDone
	StateFailed
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateResetting:
		return "resetting"
	case StateStaging:
		return "staging"
	case StateCommitting:
		return "committing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Progress describes a state transition. Index is 1-based and zero
// outside the per-group states.
type Progress struct {
	State State
	Index int
	Total int
	Group CommitGroup
}

// ProgressFunc receives state transitions.
type ProgressFunc func(Progress)

// Coordinator applies a commit plan to the repository.
type Coordinator struct {
	repo     git.Repository
	logger   zerolog.Logger
	progress ProgressFunc
	state    State
}

// NewCoordinator creates a Coordinator. progress may be nil.
func NewCoordinator(repo git.Repository, logger zerolog.Logger, progress ProgressFunc) *Coordinator {
	return &Coordinator{repo: repo, logger: logger, progress: progress}
}

// State returns the current state.
func (c *Coordinator) State() State {
	return c.state
}

// Apply resets the index and then stages and commits each group in order.
// companions maps a path to an extra path that must be staged with it,
// which is how the old side of a rename gets recorded.
//
// A reset failure returns a nil result. Any later failure stops the loop
// and returns the result so far together with an error wrapping
// errors.ErrCommitFailed. Commits already made are kept.
func (c *Coordinator) Apply(ctx context.Context, plan CommitPlan, companions map[string]string) (*AutoResult, error) {
	total := len(plan)

	c.transition(Progress{State: StateResetting, Total: total})
	if err := c.repo.ResetIndex(ctx); err != nil {
		c.transition(Progress{State: StateFailed, Total: total})
		return nil, errors.Wrap(err, "failed to reset index")
	}

	result := &AutoResult{}
	for i, group := range plan {
		idx := i + 1

		if err := c.applyGroup(ctx, idx, total, group, companions); err != nil {
			result.Failed = &GroupFailure{Index: idx, Group: group, Err: err}
			c.transition(Progress{State: StateFailed, Index: idx, Total: total, Group: group})
			return result, fmt.Errorf("%w: group %d of %d: %w", errors.ErrCommitFailed, idx, total, err)
		}

		hash, err := c.repo.HeadShortHash(ctx)
		if err != nil {
			c.logger.Debug().Err(err).Msg("failed to read new commit hash")
			hash = ""
		}
		result.Committed = append(result.Committed, group)
		result.Hashes = append(result.Hashes, hash)
	}

	c.transition(Progress{State: StateDone, Total: total})
	return result, nil
}

func (c *Coordinator) applyGroup(ctx context.Context, idx, total int, group CommitGroup, companions map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.transition(Progress{State: StateStaging, Index: idx, Total: total, Group: group})
	if err := c.repo.Add(ctx, stagePaths(group.Files, companions)); err != nil {
		return err
	}

	c.transition(Progress{State: StateCommitting, Index: idx, Total: total, Group: group})
	return c.repo.Commit(ctx, group.Message)
}

func (c *Coordinator) transition(p Progress) {
	c.state = p.State
	c.logger.Debug().
		Str("state", p.State.String()).
		Int("group", p.Index).
		Int("total", p.Total).
		Msg("staging state changed")
	if c.progress != nil {
		c.progress(p)
	}
}

// stagePaths returns files plus their companions, without duplicates.
func stagePaths(files []string, companions map[string]string) []string {
	seen := make(map[string]bool, len(files))
	paths := make([]string, 0, len(files))
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}
	for _, f := range files {
		add(f)
		add(companions[f])
	}
	return paths
}

// Companions maps each renamed path to its original path.
func Companions(changes []FileChange) map[string]string {
	m := make(map[string]string)
	for _, c := range changes {
		if c.Kind == KindRenamed && c.OldPath != "" {
			m[c.Path] = c.OldPath
		}
	}
	return m
}
