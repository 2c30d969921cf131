package autocommit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/commitkit/internal/constants"
	"github.com/mrz1836/commitkit/internal/errors"
	"github.com/mrz1836/commitkit/internal/git"
	"github.com/mrz1836/commitkit/internal/oracle"
)

// Options controls a pipeline run.
type Options struct {
	DryRun         bool
	StagedOnly     bool
	MaxFiles       int
	MaxDiffChars   int
	SummaryRetries int
	Progress       ProgressFunc
}

// Outcome is everything a reporter needs to describe a run.
type Outcome struct {
	DryRun    bool
	Plan      CommitPlan
	Dropped   []string
	Fallbacks int
	Result    *AutoResult // nil for dry runs
}

// Pipeline runs inventory, analysis, planning and staging against one repository.
type Pipeline struct {
	repo   git.Repository
	oracle oracle.Oracle
	opts   Options
	logger zerolog.Logger
}

// NewPipeline creates a Pipeline. Zero limits fall back to the defaults.
func NewPipeline(repo git.Repository, o oracle.Oracle, opts Options, logger zerolog.Logger) *Pipeline {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = constants.DefaultMaxFiles
	}
	if opts.MaxDiffChars <= 0 {
		opts.MaxDiffChars = constants.DefaultMaxDiffChars
	}
	if opts.SummaryRetries < 0 {
		opts.SummaryRetries = constants.DefaultSummaryRetries
	}
	return &Pipeline{
		repo:   repo,
		oracle: o,
		opts:   opts,
		logger: logger.With().Str("component", "autocommit").Logger(),
	}
}

// Run executes one auto-commit pass.
//
// It returns errors.ErrNoChanges for a clean tree and a
// *errors.TooManyFilesError before any oracle request when the inventory
// exceeds the limit. After a partial failure the Outcome is still returned
// alongside an error wrapping errors.ErrCommitFailed.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	start := time.Now()

	changes, err := Inventory(ctx, p.repo, p.opts.StagedOnly)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, errors.ErrNoChanges
	}
	if len(changes) > p.opts.MaxFiles {
		return nil, &errors.TooManyFilesError{Count: len(changes), Limit: p.opts.MaxFiles}
	}
	p.logger.Debug().Int("files", len(changes)).Bool("staged_only", p.opts.StagedOnly).Msg("inventory collected")

	binary, err := ClassifyBinary(ctx, p.repo, p.opts.StagedOnly)
	if err != nil {
		return nil, err
	}

	var binaryPaths []string
	textCount := 0
	for _, c := range changes {
		if binary[c.Path] {
			binaryPaths = append(binaryPaths, c.Path)
		} else {
			textCount++
		}
	}

	if textCount > 0 {
		if err := p.oracle.Available(ctx); err != nil {
			return nil, err
		}
	}

	analyzer := NewAnalyzer(p.repo, p.oracle, p.opts.StagedOnly,
		WithAnalyzerLogger(p.logger),
		WithMaxDiffChars(p.opts.MaxDiffChars),
		WithSummaryRetries(p.opts.SummaryRetries),
	)
	analyzed, err := analyzer.Analyze(ctx, changes, binary)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{DryRun: p.opts.DryRun}
	for _, f := range analyzed {
		if f.Fallback {
			outcome.Fallbacks++
		}
	}

	plan, dropped, err := NewPlanner(p.oracle, p.logger).Plan(ctx, analyzed, binaryPaths)
	if err != nil {
		return nil, err
	}
	outcome.Plan = plan
	outcome.Dropped = dropped

	p.logger.Info().
		Int("files", len(changes)).
		Int("binary", len(binaryPaths)).
		Int("groups", len(plan)).
		Int("fallbacks", outcome.Fallbacks).
		Dur("duration", time.Since(start)).
		Msg("commit plan ready")

	if p.opts.DryRun || len(plan) == 0 {
		return outcome, nil
	}

	coordinator := NewCoordinator(p.repo, p.logger, p.opts.Progress)
	result, err := coordinator.Apply(ctx, plan, Companions(changes))
	outcome.Result = result
	if err != nil {
		if result == nil {
			return nil, err
		}
		p.logger.Error().Err(err).Int("committed", len(result.Committed)).Msg("auto-commit stopped early")
		return outcome, err
	}

	p.logger.Info().Int("commits", len(result.Committed)).Dur("duration", time.Since(start)).Msg("auto-commit complete")
	return outcome, nil
}
