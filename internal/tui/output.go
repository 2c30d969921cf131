package tui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrz1836/commitkit/internal/errors"
)

// Output formats supported by NewOutput.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output provides methods for structured output to a terminal.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error message.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// JSON outputs a value as formatted JSON.
	JSON(v any) error
}

// TTYOutput provides styled output for terminal displays.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a new TTYOutput. Respects NO_COLOR via CheckNoColor.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()
	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
	}
}

// Success prints a success message.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints the user-facing message for err, the underlying detail when
// it adds information, and a suggested action when one is known.
//
// Format: ✗ <message>\n  <detail>\n  ▸ Try: <suggestion>
func (o *TTYOutput) Error(err error) {
	msg, action := errors.Actionable(err)
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+msg))
	if detail := err.Error(); detail != msg {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  "+detail))
	}
	if action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning prints a warning message.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// JSON outputs a value as formatted JSON.
func (o *TTYOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

// JSONOutput provides plain JSON output without styling.
type JSONOutput struct {
	w io.Writer
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w}
}

// jsonMessage is the structured format for Success/Warning/Info messages.
type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// jsonError is the structured format for Error messages.
type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Success outputs a success message as JSON.
func (o *JSONOutput) Success(msg string) {
	_ = encodeJSON(o.w, jsonMessage{Type: "success", Message: msg})
}

// Error outputs the error as JSON.
func (o *JSONOutput) Error(err error) {
	msg, action := errors.Actionable(err)
	_ = encodeJSON(o.w, jsonError{
		Type:       "error",
		Message:    msg,
		Details:    err.Error(),
		Suggestion: action,
	})
}

// Warning outputs a warning message as JSON.
func (o *JSONOutput) Warning(msg string) {
	_ = encodeJSON(o.w, jsonMessage{Type: "warning", Message: msg})
}

// Info outputs an informational message as JSON.
func (o *JSONOutput) Info(msg string) {
	_ = encodeJSON(o.w, jsonMessage{Type: "info", Message: msg})
}

// JSON outputs a value as formatted JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// NewOutput creates the appropriate output based on format.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
