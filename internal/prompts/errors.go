package prompts

import "errors"

var (
	// ErrUnknownPrompt is returned for a PromptID with no embedded template.
	ErrUnknownPrompt = errors.New("unknown prompt")

	// ErrRender wraps text/template execution failures.
	ErrRender = errors.New("prompt render failed")

	// ErrPromptData means the data value does not match the prompt's expected type.
	ErrPromptData = errors.New("wrong data type for prompt")
)
