package errors

import (
	goerrors "errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/ivylang/ivy/source"
	"github.com/ivylang/ivy/token"
)

// Diagnostics collects reports from every stage of the front end. One
// collector is passed by pointer through the lexer, parser and compiler, and
// the driver decides whether to continue from its error count.
type Diagnostics struct {
	file       *source.File
	items      []*Diagnostic
	errorCount int
	warnCount  int
}

// NewDiagnostics returns an empty collector for the given file. The file is
// used to resolve byte offsets to line and column numbers.
func NewDiagnostics(file *source.File) *Diagnostics {
	return &Diagnostics{file: file}
}

// File returns the source file diagnostics are resolved against.
func (d *Diagnostics) File() *source.File {
	return d.file
}

// Errorf records an error at the given position.
func (d *Diagnostics) Errorf(pos token.Pos, code ErrorCode, format string, args ...any) *Diagnostic {
	return d.add(pos, code, SeverityError, fmt.Sprintf(format, args...))
}

// Warnf records a warning at the given position. Warnings do not count
// toward ErrorCount.
func (d *Diagnostics) Warnf(pos token.Pos, code ErrorCode, format string, args ...any) *Diagnostic {
	return d.add(pos, code, SeverityWarning, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) add(pos token.Pos, code ErrorCode, sev Severity, msg string) *Diagnostic {
	diag := &Diagnostic{
		Code:     code,
		Severity: sev,
		Message:  msg,
		Location: d.Locate(pos),
	}
	d.items = append(d.items, diag)
	if sev == SeverityError {
		d.errorCount++
	} else {
		d.warnCount++
	}
	return diag
}

// Locate resolves a byte offset into a SourceLocation using the file's
// newline table.
func (d *Diagnostics) Locate(pos token.Pos) SourceLocation {
	if d.file == nil {
		return SourceLocation{}
	}
	loc := SourceLocation{Filename: d.file.DisplayPath()}
	if !pos.IsValid() {
		return loc
	}
	loc.Line, loc.Column = d.file.Position(pos)
	loc.Source = d.file.Line(loc.Line)
	return loc
}

// ErrorCount returns the number of errors reported so far.
func (d *Diagnostics) ErrorCount() int {
	return d.errorCount
}

// WarningCount returns the number of warnings reported so far.
func (d *Diagnostics) WarningCount() int {
	return d.warnCount
}

// HasErrors returns true if there are any errors.
func (d *Diagnostics) HasErrors() bool {
	return d.errorCount > 0
}

// All returns every diagnostic in the order it was reported.
func (d *Diagnostics) All() []*Diagnostic {
	return d.items
}

// Warnings returns only the warnings, in report order.
func (d *Diagnostics) Warnings() []*Diagnostic {
	var out []*Diagnostic
	for _, item := range d.items {
		if item.IsWarning() {
			out = append(out, item)
		}
	}
	return out
}

// Err returns the errors as a single *multierror.Error, or nil if none were
// reported. Warnings are never included.
func (d *Diagnostics) Err() error {
	if d.errorCount == 0 {
		return nil
	}
	var result *multierror.Error
	for _, item := range d.items {
		if !item.IsWarning() {
			result = multierror.Append(result, item)
		}
	}
	result.ErrorFormat = formatList
	return result
}

// Merge appends the diagnostics of another collector to this one.
func (d *Diagnostics) Merge(other *Diagnostics) {
	for _, item := range other.items {
		d.items = append(d.items, item)
		if item.IsWarning() {
			d.warnCount++
		} else {
			d.errorCount++
		}
	}
}

func formatList(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", errs[0].Error(), len(errs)-1)
}

// AsDiagnostics extracts the individual diagnostics from an error returned
// by Diagnostics.Err, unwrapping as needed. Any other error yields nil.
func AsDiagnostics(err error) []*Diagnostic {
	var merr *multierror.Error
	if !goerrors.As(err, &merr) {
		var diag *Diagnostic
		if goerrors.As(err, &diag) {
			return []*Diagnostic{diag}
		}
		return nil
	}
	var out []*Diagnostic
	for _, e := range merr.Errors {
		if diag, ok := e.(*Diagnostic); ok {
			out = append(out, diag)
		}
	}
	return out
}
