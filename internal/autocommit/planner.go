package autocommit

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/mrz1836/commitkit/internal/errors"
	"github.com/mrz1836/commitkit/internal/oracle"
	"github.com/mrz1836/commitkit/internal/prompts"
)

// Planner turns analyzed files into an ordered commit plan.
type Planner struct {
	oracle oracle.Oracle
	logger zerolog.Logger
}

// NewPlanner creates a Planner.
func NewPlanner(o oracle.Oracle, logger zerolog.Logger) *Planner {
	return &Planner{oracle: o, logger: logger}
}

// Plan groups the analyzed files and appends one group per binary directory.
// It returns the plan and the analyzed paths the oracle left out.
// With a single analyzed file no oracle request is made.
func (p *Planner) Plan(ctx context.Context, analyzed []AnalyzedFile, binaryPaths []string) (CommitPlan, []string, error) {
	var plan CommitPlan
	var dropped []string

	switch len(analyzed) {
	case 0:
	case 1:
		f := analyzed[0]
		plan = CommitPlan{{
			Files:   []string{f.Change.Path},
			Message: SingleFileMessage(f.Summary),
		}}
	default:
		groups, err := p.requestGroups(ctx, analyzed)
		if err != nil {
			return nil, nil, err
		}
		known := make([]string, len(analyzed))
		for i, f := range analyzed {
			known[i] = f.Change.Path
		}
		plan, dropped = ValidatePlan(groups, known)
		if len(dropped) > 0 {
			p.logger.Warn().Strs("dropped", dropped).Msg("oracle left files out of the commit plan")
		}
	}

	plan = append(plan, BinaryGroups(binaryPaths)...)
	return plan, dropped, nil
}

func (p *Planner) requestGroups(ctx context.Context, analyzed []AnalyzedFile) ([]CommitGroup, error) {
	files := make([]prompts.SummarizedFile, len(analyzed))
	for i, f := range analyzed {
		files[i] = prompts.SummarizedFile{
			Path:     f.Change.Path,
			Summary:  f.Summary.Summary,
			Category: string(f.Summary.Category),
			Scope:    f.Summary.Scope,
		}
	}

	prompt, err := prompts.Render(prompts.GroupCommits, prompts.GroupCommitsData{
		Files:      files,
		Categories: categoryNames(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render grouping prompt")
	}

	raw, err := p.oracle.NewSession().Respond(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(err, "grouping request failed")
	}

	resp, err := oracle.DecodeStrict[groupingResponse](raw)
	if err != nil {
		p.logger.Debug().Str("response", raw).Msg("grouping response rejected")
		return nil, errors.Wrap(err, "invalid grouping response")
	}

	p.logger.Debug().Int("groups", len(resp.Commits)).Msg("grouping response decoded")
	return resp.Commits, nil
}

// SingleFileMessage formats "category(scope): description" with the
// first rune of the description lower-cased.
func SingleFileMessage(s FileSummary) string {
	return fmt.Sprintf("%s(%s): %s", s.Category, s.Scope, lowerFirst(s.Summary))
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
