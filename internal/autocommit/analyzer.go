package autocommit

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/mrz1836/commitkit/internal/constants"
	"github.com/mrz1836/commitkit/internal/git"
	"github.com/mrz1836/commitkit/internal/oracle"
	"github.com/mrz1836/commitkit/internal/prompts"
)

// Analyzer summarizes each text file change through the oracle.
type Analyzer struct {
	repo         git.Repository
	oracle       oracle.Oracle
	stagedOnly   bool
	maxDiffChars int
	retries      int
	logger       zerolog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithAnalyzerLogger sets the logger for the Analyzer.
func WithAnalyzerLogger(logger zerolog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithMaxDiffChars sets the rune limit for the diff excerpt sent per file.
func WithMaxDiffChars(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxDiffChars = n
		}
	}
}

// WithSummaryRetries sets how many extra attempts a summary gets after a failure.
func WithSummaryRetries(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n >= 0 {
			a.retries = n
		}
	}
}

// NewAnalyzer creates an Analyzer reading diffs from repo.
func NewAnalyzer(repo git.Repository, o oracle.Oracle, stagedOnly bool, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		repo:         repo,
		oracle:       o,
		stagedOnly:   stagedOnly,
		maxDiffChars: constants.DefaultMaxDiffChars,
		retries:      constants.DefaultSummaryRetries,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze summarizes every non-binary change in order. Failures for a
// single file fall back to a generated summary; only context cancellation
// is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, changes []FileChange, binary map[string]bool) ([]AnalyzedFile, error) {
	analyzed := make([]AnalyzedFile, 0, len(changes))
	for _, change := range changes {
		if binary[change.Path] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary, ok, err := a.summarize(ctx, change)
		if err != nil {
			return nil, err
		}
		if !ok {
			summary = fallbackSummary(change)
		}
		analyzed = append(analyzed, AnalyzedFile{Change: change, Summary: summary, Fallback: !ok})
	}
	return analyzed, nil
}

// summarize returns ok=false when the fallback should be used.
func (a *Analyzer) summarize(ctx context.Context, change FileChange) (FileSummary, bool, error) {
	log := a.logger.With().Str("path", change.Path).Logger()

	diff, err := a.repo.DiffPath(ctx, a.stagedOnly, change.Paths()...)
	if err != nil {
		if ctx.Err() != nil {
			return FileSummary{}, false, ctx.Err()
		}
		log.Warn().Err(err).Msg("failed to read diff, using fallback summary")
		return FileSummary{}, false, nil
	}
	if strings.TrimSpace(diff) == "" {
		log.Debug().Msg("empty diff, using fallback summary")
		return FileSummary{}, false, nil
	}

	prompt, err := prompts.Render(prompts.FileSummary, prompts.FileSummaryData{
		Path:       change.Path,
		OldPath:    change.OldPath,
		Verb:       change.Verb(),
		Diff:       TruncateDiff(diff, a.maxDiffChars),
		Categories: categoryNames(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to render summary prompt")
		return FileSummary{}, false, nil
	}

	for attempt := 1; attempt <= a.retries+1; attempt++ {
		raw, err := a.oracle.NewSession().Respond(ctx, prompt)
		if ctx.Err() != nil {
			return FileSummary{}, false, ctx.Err()
		}
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("summary request failed")
			continue
		}

		summary, err := oracle.DecodeStrict[FileSummary](raw)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("summary response rejected")
			continue
		}
		return *summary, true, nil
	}

	log.Info().Msg("summary attempts exhausted, using fallback summary")
	return FileSummary{}, false, nil
}

// TruncateDiff cuts diff to limit runes and appends the truncation marker.
func TruncateDiff(diff string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(diff) <= limit {
		return diff
	}
	n := 0
	for i := range diff {
		if n == limit {
			return diff[:i] + constants.DiffTruncationMarker
		}
		n++
	}
	return diff
}
