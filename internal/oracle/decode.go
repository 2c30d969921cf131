package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrz1836/commitkit/internal/errors"
)

// fencePattern matches an optional ```lang opener or a bare ``` closer on its own line.
//
//nolint:gochecknoglobals // Compiled regex
var fencePattern = regexp.MustCompile("(?m)^\\s*```[a-zA-Z0-9_-]*\\s*$")

// Validator is implemented by response types that check their own required fields.
type Validator interface {
	Validate() error
}

// StripFences removes Markdown code fences around a response.
// Text without fences is returned trimmed and otherwise unchanged.
func StripFences(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(s, ""))
}

// extractObject returns the text from the first '{' to the last '}'.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// DecodeStrict parses an oracle response into T. Fences and any prose around
// the outermost JSON object are ignored. When *T implements Validator its
// Validate method must pass. Every failure wraps errors.ErrParse.
func DecodeStrict[T any](raw string) (*T, error) {
	body, ok := extractObject(StripFences(raw))
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in response", errors.ErrParse)
	}

	var v T
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrParse, err)
	}

	if val, ok := any(&v).(Validator); ok {
		if err := val.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrParse, err)
		}
	}
	return &v, nil
}
