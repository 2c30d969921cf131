package autocommit

import (
	"context"
	"strings"

	"github.com/mrz1836/commitkit/internal/errors"
	"github.com/mrz1836/commitkit/internal/git"
)

// ClassifyBinary returns the set of changed paths git reports as binary.
func ClassifyBinary(ctx context.Context, repo git.Repository, stagedOnly bool) (map[string]bool, error) {
	raw, err := repo.NumStat(ctx, stagedOnly)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read diff statistics")
	}
	return ParseNumStatZ(raw), nil
}

// ParseNumStatZ parses `git diff --numstat -z` output and returns the paths
// whose added and removed counts are both "-". Rename rows have an empty
// path field followed by the old and new paths; they key on the new path.
func ParseNumStatZ(raw string) map[string]bool {
	binary := make(map[string]bool)
	entries := strings.Split(raw, "\x00")

	for i := 0; i < len(entries); i++ {
		fields := strings.SplitN(entries[i], "\t", 3)
		if len(fields) != 3 {
			continue
		}
		added, removed, p := fields[0], fields[1], fields[2]

		if p == "" {
			if i+2 >= len(entries) {
				break
			}
			p = entries[i+2]
			i += 2
		}

		if added == "-" && removed == "-" && p != "" {
			binary[p] = true
		}
	}
	return binary
}

// BinaryGroups buckets binary paths by parent directory name, in order of
// first appearance, one chore commit per bucket.
func BinaryGroups(paths []string) []CommitGroup {
	var groups []CommitGroup
	index := make(map[string]int)

	for _, p := range paths {
		dir := parentDirName(p)
		if i, ok := index[dir]; ok {
			groups[i].Files = append(groups[i].Files, p)
			continue
		}
		index[dir] = len(groups)
		groups = append(groups, CommitGroup{
			Files:   []string{p},
			Message: binaryGroupMessage(dir),
		})
	}
	return groups
}
