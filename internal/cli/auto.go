package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/commitkit/internal/autocommit"
	"github.com/mrz1836/commitkit/internal/config"
	"github.com/mrz1836/commitkit/internal/errors"
	"github.com/mrz1836/commitkit/internal/git"
	"github.com/mrz1836/commitkit/internal/oracle"
	"github.com/mrz1836/commitkit/internal/signal"
	"github.com/mrz1836/commitkit/internal/tui"
)

// AutoFlags holds flags specific to the auto command.
type AutoFlags struct {
	// DryRun prints the plan without staging or committing.
	DryRun bool
	// Staged limits the run to changes already in the index.
	Staged bool
}

// autoDeps are the collaborators runAuto builds on. Tests replace them.
type autoDeps struct {
	workDir   func() (string, error)
	newOracle func(cfg config.OracleConfig, logger zerolog.Logger) (oracle.Oracle, error)
}

func defaultAutoDeps() autoDeps {
	return autoDeps{
		workDir: os.Getwd,
		newOracle: func(cfg config.OracleConfig, logger zerolog.Logger) (oracle.Oracle, error) {
			return oracle.New(cfg, oracle.WithLogger(logger))
		},
	}
}

// AddAutoCommand adds the auto command to the root command.
func AddAutoCommand(root *cobra.Command, globals *GlobalFlags) {
	flags := &AutoFlags{}

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Plan and create commits from uncommitted changes",
		Long: `Summarize every changed file, group the files into logical commits and
create those commits one at a time.

Binary files are committed per directory without consulting the model.
If a commit fails the run stops; commits already created are kept.

Examples:
  commitkit auto --dry-run          # Preview the plan
  commitkit auto                    # Create the commits
  commitkit auto --staged           # Only consider staged changes
  commitkit auto --output json      # Machine-readable report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAuto(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), globals, flags, defaultAutoDeps())
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "show the commit plan without staging or committing")
	cmd.Flags().BoolVar(&flags.Staged, "staged", false, "only consider changes already staged in the index")

	root.AddCommand(cmd)
}

func runAuto(ctx context.Context, w, errW io.Writer, globals *GlobalFlags, flags *AutoFlags, deps autoDeps) error {
	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	h := signal.NewHandler(ctx)
	defer h.Stop()
	ctx = h.Context()

	dir, err := deps.workDir()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	repo, err := git.NewRunner(ctx, dir, git.WithRunnerLogger(logger))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, repo.WorkDir(), globals.ConfigPath)
	if err != nil {
		return err
	}

	o, err := deps.newOracle(cfg.Oracle, logger)
	if err != nil {
		return err
	}

	width := 0
	if globals.Output == OutputText {
		width = tui.TerminalWidth()
	}
	reporter := tui.NewReporter(w, globals.Output, width)

	opts := autocommit.Options{
		DryRun:         flags.DryRun,
		StagedOnly:     flags.Staged,
		MaxFiles:       cfg.Auto.MaxFiles,
		MaxDiffChars:   cfg.Auto.MaxDiffChars,
		SummaryRetries: cfg.Auto.SummaryRetries,
	}
	if globals.Verbose && globals.Output == OutputText {
		opts.Progress = progressPrinter(tui.NewOutput(errW, globals.Output))
	}

	logger.Debug().
		Str("repo", repo.WorkDir()).
		Bool("dry_run", flags.DryRun).
		Bool("staged", flags.Staged).
		Str("backend", cfg.Oracle.Backend).
		Msg("starting auto-commit")

	outcome, err := autocommit.NewPipeline(repo, o, opts, logger).Run(ctx)
	switch {
	case stderrors.Is(err, errors.ErrNoChanges):
		return reporter.NothingToCommit()
	case err != nil && outcome != nil:
		if reportErr := reporter.Report(outcome); reportErr != nil {
			logger.Warn().Err(reportErr).Msg("failed to render report")
		}
		if h.WasInterrupted() {
			logger.Warn().Stringer("signal", h.Received()).Msg("auto-commit interrupted")
		}
		return errors.ErrAlreadyReported
	case err != nil:
		return err
	}

	return reporter.Report(outcome)
}

// progressPrinter prints one line per group as it is staged.
func progressPrinter(out tui.Output) autocommit.ProgressFunc {
	return func(p autocommit.Progress) {
		switch p.State {
		case autocommit.StateResetting:
			out.Info("Resetting index")
		case autocommit.StateStaging:
			out.Info(fmt.Sprintf("[%d/%d] %s (%d file(s))", p.Index, p.Total, p.Group.Message, len(p.Group.Files)))
		case autocommit.StateIdle, autocommit.StateCommitting, autocommit.StateDone, autocommit.StateFailed:
		}
	}
}
