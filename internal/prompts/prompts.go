// Package prompts holds the oracle prompts used by commitkit.
// All prompts are stored as text/template files and embedded at compile time.
package prompts

import (
	"bytes"
	"errors"
	"fmt"
)

// Render executes a prompt template with the provided data and returns the result.
// The data type must match the expected type for the given prompt ID.
//
// Example:
//
//	prompt, err := prompts.Render(prompts.FileSummary, prompts.FileSummaryData{
//	    Path: "internal/git/runner.go",
//	    Verb: "update",
//	    Diff: diff,
//	})
func Render(id PromptID, data any) (string, error) {
	if err := ValidateData(id, data); err != nil {
		return "", err
	}

	tmpl, err := globalRegistry.get(id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Join(ErrRender, fmt.Errorf("prompt %s: %w", id, err))
	}

	return buf.String(), nil
}

// MustRender executes a prompt template and panics on error.
// Use this only when template execution should never fail (e.g., with known-good data).
func MustRender(id PromptID, data any) string {
	result, err := Render(id, data)
	if err != nil {
		panic(fmt.Sprintf("prompts.MustRender(%s): %v", id, err))
	}
	return result
}

// List returns all registered prompt IDs.
func List() []PromptID {
	return globalRegistry.list()
}

// Exists checks if a prompt ID is registered.
func Exists(id PromptID) bool {
	_, err := globalRegistry.get(id)
	return err == nil
}

// ValidateData checks that data has the type the prompt expects.
func ValidateData(id PromptID, data any) error {
	switch id {
	case FileSummary:
		if _, ok := data.(FileSummaryData); !ok {
			return fmt.Errorf("%w: expected FileSummaryData, got %T", ErrPromptData, data)
		}
	case GroupCommits:
		if _, ok := data.(GroupCommitsData); !ok {
			return fmt.Errorf("%w: expected GroupCommitsData, got %T", ErrPromptData, data)
		}
	}
	return nil
}
