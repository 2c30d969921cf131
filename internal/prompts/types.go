package prompts

// PromptID identifies a specific prompt template.
type PromptID string

// Prompt identifiers for the auto-commit pipeline.
const (
	FileSummary  PromptID = "auto/file_summary"
	GroupCommits PromptID = "auto/group_commits"
)

// FileSummaryData is the input for the per-file summary prompt.
type FileSummaryData struct {
	// Path is the current path of the file.
	Path string
	// OldPath is set for renames.
	OldPath string
	// Verb is the change kind: add, update, remove or rename.
	Verb string
	// Diff is the (possibly truncated) diff of the file.
	Diff string
	// Categories lists the allowed commit categories.
	Categories []string
}

// SummarizedFile is one line of the grouping prompt.
type SummarizedFile struct {
	Path     string
	Summary  string
	Category string
	Scope    string
}

// GroupCommitsData is the input for the commit grouping prompt.
type GroupCommitsData struct {
	Files      []SummarizedFile
	Categories []string
}
