// Package autocommit plans and applies a series of conventional commits
// from the uncommitted changes of a working tree.
//
// A run flows through inventory, binary classification, per-file analysis,
// group planning, plan validation and finally staging. Only the last step
// mutates the repository.
package autocommit

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/mrz1836/commitkit/internal/constants"
)

// ChangeKind is the kind of change recorded for a file.
type ChangeKind int

// Change kinds.
const (
	KindModified ChangeKind = iota
	KindAdded
	KindDeleted
	KindRenamed
)

// String returns the lower-case kind name.
func (k ChangeKind) String() string {
	switch k {
	case KindAdded:
		return "added"
	case KindDeleted:
		return "deleted"
	case KindRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// FileChange is one changed path in the working tree.
// OldPath is only set for renames.
type FileChange struct {
	Kind    ChangeKind
	Path    string
	OldPath string
}

// Added returns a FileChange for a new file.
func Added(p string) FileChange { return FileChange{Kind: KindAdded, Path: p} }

// Modified returns a FileChange for an edited file.
func Modified(p string) FileChange { return FileChange{Kind: KindModified, Path: p} }

// Deleted returns a FileChange for a removed file.
func Deleted(p string) FileChange { return FileChange{Kind: KindDeleted, Path: p} }

// Renamed returns a FileChange for a file moved from oldPath to newPath.
func Renamed(oldPath, newPath string) FileChange {
	return FileChange{Kind: KindRenamed, Path: newPath, OldPath: oldPath}
}

// Verb is the imperative verb used in fallback summaries.
func (c FileChange) Verb() string {
	switch c.Kind {
	case KindAdded:
		return "add"
	case KindDeleted:
		return "remove"
	case KindRenamed:
		return "rename"
	default:
		return "update"
	}
}

// Filename is the last element of the path.
func (c FileChange) Filename() string {
	return path.Base(c.Path)
}

// Dir is the name of the parent directory, or "" at the repository root.
func (c FileChange) Dir() string {
	return parentDirName(c.Path)
}

// Paths returns every path git must see for this change.
func (c FileChange) Paths() []string {
	if c.Kind == KindRenamed && c.OldPath != "" {
		return []string{c.Path, c.OldPath}
	}
	return []string{c.Path}
}

func parentDirName(p string) string {
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return ""
	}
	return path.Base(dir)
}

// Category is a conventional commit type.
type Category string

// Categories accepted from the oracle.
const (
	CategoryFeat     Category = "feat"
	CategoryFix      Category = "fix"
	CategoryRefactor Category = "refactor"
	CategoryDocs     Category = "docs"
	CategoryTest     Category = "test"
	CategoryChore    Category = "chore"
	CategoryStyle    Category = "style"
)

// AllCategories lists the accepted categories in prompt order.
func AllCategories() []Category {
	return []Category{
		CategoryFeat, CategoryFix, CategoryRefactor, CategoryDocs,
		CategoryTest, CategoryChore, CategoryStyle,
	}
}

func categoryNames() []string {
	all := AllCategories()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = string(c)
	}
	return names
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(AllCategories(), c)
}

// FileSummary is the oracle's description of a single file change.
type FileSummary struct {
	Summary  string   `json:"summary"`
	Category Category `json:"category"`
	Scope    string   `json:"scope"`
}

// Validate trims the fields and rejects blank or unknown values.
func (s *FileSummary) Validate() error {
	s.Summary = strings.TrimSpace(s.Summary)
	s.Category = Category(strings.TrimSpace(string(s.Category)))
	s.Scope = strings.TrimSpace(s.Scope)

	switch {
	case s.Summary == "":
		return errors.New("summary is required")
	case s.Category == "":
		return errors.New("category is required")
	case !s.Category.Valid():
		return fmt.Errorf("unknown category %q", s.Category)
	case s.Scope == "":
		return errors.New("scope is required")
	}
	return nil
}

// fallbackSummary describes a change without the oracle.
func fallbackSummary(c FileChange) FileSummary {
	scope := c.Dir()
	if scope == "" {
		scope = c.Filename()
	}
	return FileSummary{
		Summary:  c.Verb() + " " + c.Filename(),
		Category: CategoryChore,
		Scope:    scope,
	}
}

// AnalyzedFile pairs a change with its summary.
type AnalyzedFile struct {
	Change   FileChange
	Summary  FileSummary
	Fallback bool
}

// CommitGroup is one planned commit.
type CommitGroup struct {
	Files   []string `json:"files"`
	Message string   `json:"message"`
}

// CommitPlan is the ordered list of commits to create.
type CommitPlan []CommitGroup

// FileCount returns the number of paths across all groups.
func (p CommitPlan) FileCount() int {
	n := 0
	for _, g := range p {
		n += len(g.Files)
	}
	return n
}

// groupingResponse is the decoded grouping answer.
type groupingResponse struct {
	Commits []CommitGroup `json:"commits"`
}

// Validate rejects an empty plan and blank messages.
func (r *groupingResponse) Validate() error {
	if len(r.Commits) == 0 {
		return errors.New("commits list is empty")
	}
	for i := range r.Commits {
		r.Commits[i].Message = strings.TrimSpace(r.Commits[i].Message)
		if r.Commits[i].Message == "" {
			return fmt.Errorf("commit %d has a blank message", i+1)
		}
	}
	return nil
}

// GroupFailure records the group that stopped a run.
type GroupFailure struct {
	Index int // 1-based position in the plan
	Group CommitGroup
	Err   error
}

// AutoResult is the outcome of applying a plan.
type AutoResult struct {
	Committed []CommitGroup
	Hashes    []string // short hash per committed group, "" when unknown
	Failed    *GroupFailure
}

// Succeeded reports whether every group was committed.
func (r *AutoResult) Succeeded() bool {
	return r.Failed == nil
}

// Skipped returns the number of groups after the failed one that were never attempted.
func (r *AutoResult) Skipped(plan CommitPlan) int {
	n := len(plan) - len(r.Committed)
	if r.Failed != nil {
		n--
	}
	return max(n, 0)
}

// binaryGroupMessage is the commit message for a directory of binary files.
func binaryGroupMessage(dir string) string {
	if dir == "" {
		dir = constants.RootScope
	}
	return fmt.Sprintf("chore(%s): update binary files", dir)
}
