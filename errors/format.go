package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats diagnostics with colors, Rust-style.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new diagnostic formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Colors used for diagnostic formatting
var (
	colorError     = color.New(color.FgRed)
	colorErrorBold = color.New(color.FgHiRed, color.Bold)
	colorWarning   = color.New(color.FgHiYellow, color.Bold)
	colorCode      = color.New(color.FgHiBlack)
	colorLocation  = color.New(color.FgCyan)
	colorPipe      = color.New(color.FgHiBlack)
	colorCaret     = color.New(color.FgHiRed)
	colorHint      = color.New(color.FgHiYellow)
	colorNote      = color.New(color.FgHiBlue)
)

// FormattedError represents a diagnostic ready for display.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "error" or "warning"
	Message     string
	Filename    string
	Line        int
	Column      int
	SourceLines []SourceLineEntry
	Hint        string // "Did you mean?" suggestion
	Note        string // Additional context
}

// SourceLineEntry represents a line of source code with its number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // True if this is the line with the error
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format formats a single diagnostic.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the diagnostic with an optional prefix like "1/5"
// shown when the diagnostic has no code.
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder

	lineNumWidth := 2
	if err.Line >= 100 {
		lineNumWidth = len(fmt.Sprintf("%d", err.Line))
	}
	padding := strings.Repeat(" ", lineNumWidth)

	// Header: "error[E2001]: message"
	label := err.Kind
	if label == "" {
		label = "error"
	}
	if label == "warning" {
		b.WriteString(f.paint(colorWarning, label))
	} else {
		b.WriteString(f.paint(colorErrorBold, label))
	}
	if err.Code != "" {
		b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", err.Code)))
	} else if prefix != "" {
		b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", prefix)))
	}
	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")

	// Location arrow: "  --> file.ivy:10:5"
	if err.Line > 0 || err.Filename != "" {
		loc := err.Filename
		if err.Line > 0 {
			if loc != "" {
				loc += ":"
			}
			loc += fmt.Sprintf("%d:%d", err.Line, err.Column)
		}
		b.WriteString(padding)
		b.WriteString(f.paint(colorLocation, "-->"))
		b.WriteString(" ")
		b.WriteString(f.paint(colorLocation, loc))
		b.WriteString("\n")
	}

	if len(err.SourceLines) > 0 {
		b.WriteString(padding)
		b.WriteString(f.paint(colorPipe, " |\n"))
		for _, line := range err.SourceLines {
			b.WriteString(f.paint(colorPipe, fmt.Sprintf("%*d | ", lineNumWidth, line.Number)))
			b.WriteString(line.Text)
			b.WriteString("\n")
			if line.IsMain && err.Column > 0 {
				b.WriteString(padding)
				b.WriteString(f.paint(colorPipe, " | "))
				b.WriteString(strings.Repeat(" ", err.Column-1))
				b.WriteString(f.paint(colorCaret, "^"))
				b.WriteString("\n")
			}
		}
	}

	if err.Hint != "" {
		b.WriteString(padding)
		b.WriteString(f.paint(colorPipe, " = "))
		b.WriteString(f.paint(colorHint, "hint: "))
		b.WriteString(err.Hint)
		b.WriteString("\n")
	}
	if err.Note != "" {
		b.WriteString(padding)
		b.WriteString(f.paint(colorPipe, " = "))
		b.WriteString(f.paint(colorNote, "note: "))
		b.WriteString(err.Note)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatDiagnostics formats a list of diagnostics followed by a summary
// line counting errors and warnings.
func (f *Formatter) FormatDiagnostics(diags []*Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	var errs, warns int
	for i, d := range diags {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.Format(d.ToFormatted()))
		if d.IsWarning() {
			warns++
		} else {
			errs++
		}
	}
	if len(diags) > 1 {
		b.WriteString("\n")
		summary := fmt.Sprintf("found %d errors and %d warnings", errs, warns)
		if errs > 0 {
			b.WriteString(f.paint(colorErrorBold, summary))
		} else {
			b.WriteString(f.paint(colorWarning, summary))
		}
		b.WriteString("\n")
	}
	return b.String()
}
