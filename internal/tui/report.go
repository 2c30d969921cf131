package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrz1836/commitkit/internal/autocommit"
)

// Commit statuses used in JSON reports.
const (
	StatusPlanned   = "planned"
	StatusCommitted = "committed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Reporter renders the outcome of an auto-commit run.
type Reporter struct {
	w      io.Writer
	format string
	width  int
	styles *OutputStyles
}

// NewReporter creates a Reporter. width limits message length in text
// output; zero disables truncation.
func NewReporter(w io.Writer, format string, width int) *Reporter {
	if format != FormatJSON {
		CheckNoColor()
	}
	return &Reporter{w: w, format: format, width: width, styles: NewOutputStyles()}
}

// CommitReport is one group in a JSON report.
type CommitReport struct {
	Message string   `json:"message"`
	Files   []string `json:"files"`
	Status  string   `json:"status"`
	Hash    string   `json:"hash,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// RunReport is the JSON document for a run.
type RunReport struct {
	DryRun    bool           `json:"dry_run"`
	Commits   []CommitReport `json:"commits"`
	Dropped   []string       `json:"dropped,omitempty"`
	Fallbacks int            `json:"fallback_summaries"`
	Created   int            `json:"created"`
	Failed    bool           `json:"failed"`
}

// BuildRunReport flattens an outcome into a RunReport.
func BuildRunReport(outcome *autocommit.Outcome) RunReport {
	report := RunReport{
		DryRun:    outcome.DryRun,
		Commits:   make([]CommitReport, 0, len(outcome.Plan)),
		Dropped:   outcome.Dropped,
		Fallbacks: outcome.Fallbacks,
	}

	result := outcome.Result
	for i, g := range outcome.Plan {
		c := CommitReport{Message: g.Message, Files: g.Files, Status: StatusPlanned}
		switch {
		case result == nil:
		case i < len(result.Committed):
			c.Status = StatusCommitted
			if i < len(result.Hashes) {
				c.Hash = result.Hashes[i]
			}
		case result.Failed != nil && i == result.Failed.Index-1:
			c.Status = StatusFailed
			if result.Failed.Err != nil {
				c.Error = result.Failed.Err.Error()
			}
		default:
			c.Status = StatusSkipped
		}
		report.Commits = append(report.Commits, c)
	}

	if result != nil {
		report.Created = len(result.Committed)
		report.Failed = !result.Succeeded()
	}
	return report
}

// Report renders the outcome in the configured format.
func (r *Reporter) Report(outcome *autocommit.Outcome) error {
	if r.format == FormatJSON {
		return encodeJSON(r.w, BuildRunReport(outcome))
	}

	switch {
	case outcome.DryRun:
		r.dryRun(outcome)
	case outcome.Result == nil:
		r.dropped(outcome.Dropped)
		r.line(r.styles.Warning.Render("No commits created."))
	default:
		r.dropped(outcome.Dropped)
		r.result(outcome.Plan, outcome.Result)
	}
	return nil
}

// NothingToCommit renders the clean-tree message.
func (r *Reporter) NothingToCommit() error {
	if r.format == FormatJSON {
		return encodeJSON(r.w, RunReport{Commits: []CommitReport{}})
	}
	r.line("Nothing to commit.")
	return nil
}

func (r *Reporter) dryRun(outcome *autocommit.Outcome) {
	r.line(r.styles.Header.Render(fmt.Sprintf("Planned %d commit(s):", len(outcome.Plan))))
	for _, g := range outcome.Plan {
		r.line("")
		r.line("• " + r.truncate(g.Message, 2))
		for _, f := range g.Files {
			r.line(r.styles.Dim.Render("    " + f))
		}
	}
	r.line("")
	r.dropped(outcome.Dropped)
	r.line(r.styles.Dim.Render("Run without --dry-run to create these commits."))
}

func (r *Reporter) result(plan autocommit.CommitPlan, result *autocommit.AutoResult) {
	for i, g := range result.Committed {
		msg := r.styles.Success.Render("✓ " + r.truncate(g.Message, 12))
		if i < len(result.Hashes) && result.Hashes[i] != "" {
			msg += " " + r.styles.Dim.Render(result.Hashes[i])
		}
		r.line(msg)
	}

	if result.Succeeded() {
		r.line(fmt.Sprintf("Created %d commit(s).", len(result.Committed)))
		return
	}

	failed := result.Failed
	errText := "unknown error"
	if failed.Err != nil {
		errText = failed.Err.Error()
	}
	r.line(r.styles.Error.Render(fmt.Sprintf("✗ %s: %s", failed.Group.Message, errText)))
	if skipped := result.Skipped(plan); skipped > 0 {
		r.line(r.styles.Warning.Render(fmt.Sprintf("Skipped %d remaining group(s).", skipped)))
	}
	r.line(fmt.Sprintf("Stopped after %d commit(s); 1 group failed.", len(result.Committed)))
}

func (r *Reporter) dropped(paths []string) {
	if len(paths) == 0 {
		return
	}
	r.line(r.styles.Warning.Render(fmt.Sprintf("⚠ %d file(s) left out of the plan: %s",
		len(paths), strings.Join(paths, ", "))))
}

// truncate fits s into the terminal width after reserving prefix cells.
func (r *Reporter) truncate(s string, prefix int) string {
	if r.width <= 0 {
		return s
	}
	return Truncate(s, max(r.width-prefix, 10))
}

func (r *Reporter) line(s string) {
	_, _ = fmt.Fprintln(r.w, s)
}
