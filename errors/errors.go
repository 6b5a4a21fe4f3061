// Package errors defines the diagnostics reported by the lexer, parser and
// compiler, along with the collector that carries them to the driver.
package errors

import (
	"fmt"
	"strings"
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// Severity indicates whether a diagnostic blocks later pipeline stages.
type Severity int

const (
	// SeverityError diagnostics are counted and stop the pipeline.
	SeverityError Severity = iota
	// SeverityWarning diagnostics are reported but never counted.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single report from the lexer, parser or compiler.
type Diagnostic struct {
	Code        ErrorCode
	Severity    Severity
	Message     string
	Location    SourceLocation
	Suggestions []Suggestion
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	if !d.Location.IsZero() || d.Location.Filename != "" {
		b.WriteString(d.Location.String())
		b.WriteString(": ")
	}
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// IsWarning returns true if the diagnostic does not block execution.
func (d *Diagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

// FriendlyErrorMessage returns the diagnostic rendered with source context
// and hints, without color.
func (d *Diagnostic) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(d.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (d *Diagnostic) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     d.Code,
		Kind:     d.Severity.String(),
		Message:  d.Message,
		Filename: d.Location.Filename,
		Line:     d.Location.Line,
		Column:   d.Location.Column,
	}
	if d.Location.Source != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: d.Location.Line, Text: d.Location.Source, IsMain: true},
		}
	}
	if len(d.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(d.Suggestions)
	}
	if d.Code != "" {
		fe.Note = d.Code.Description()
	}
	return fe
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}
