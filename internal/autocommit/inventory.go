package autocommit

import (
	"context"
	"strings"

	"github.com/mrz1836/commitkit/internal/errors"
	"github.com/mrz1836/commitkit/internal/git"
)

// Inventory lists the changed tracked files of the working tree.
// With stagedOnly, only files with staged changes are returned.
func Inventory(ctx context.Context, repo git.Repository, stagedOnly bool) ([]FileChange, error) {
	raw, err := repo.StatusZ(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read working tree status")
	}
	return ParseStatusZ(raw, stagedOnly), nil
}

// ParseStatusZ parses `git status --porcelain -z` output. Each record is
// "XY path"; rename and copy records are followed by the original path.
// Untracked and ignored entries are skipped and duplicate paths collapse
// to their first occurrence.
func ParseStatusZ(raw string, stagedOnly bool) []FileChange {
	entries := strings.Split(raw, "\x00")
	changes := make([]FileChange, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if len(entry) < 4 || entry[2] != ' ' {
			continue
		}
		x, y, p := entry[0], entry[1], entry[3:]

		var oldPath string
		if isRenameCode(x) || isRenameCode(y) {
			if i+1 < len(entries) {
				i++
				oldPath = entries[i]
			}
		}

		if x == '?' || x == '!' {
			continue
		}
		if stagedOnly && x == ' ' {
			continue
		}
		if x == ' ' && y == ' ' {
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true

		code := x
		if code == ' ' {
			code = y
		}
		changes = append(changes, changeFor(code, p, oldPath))
	}
	return changes
}

func isRenameCode(c byte) bool {
	return c == 'R' || c == 'C'
}

func changeFor(code byte, p, oldPath string) FileChange {
	switch code {
	case 'A':
		return Added(p)
	case 'D':
		return Deleted(p)
	case 'R', 'C':
		if oldPath == "" {
			return Modified(p)
		}
		return Renamed(oldPath, p)
	default:
		return Modified(p)
	}
}
