package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	ivyerrors "github.com/ivylang/ivy/errors"
	"github.com/mattn/go-isatty"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}

// reportedError is returned by commands that already wrote the details of a
// failure to stderr. main exits with status 1 without printing it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// printDiagnostics writes every diagnostic in diags, warnings included.
func printDiagnostics(w io.Writer, diags *ivyerrors.Diagnostics) {
	if diags == nil {
		return
	}
	all := diags.All()
	if len(all) == 0 {
		return
	}
	formatter := ivyerrors.NewFormatter(!color.NoColor)
	fmt.Fprint(w, formatter.FormatDiagnostics(all))
}

// report writes a failed compilation or run to w. Compile errors are shown
// with their source excerpts; runtime faults with the faulting source line.
// The returned error is a *reportedError unless err is of neither kind.
func report(w io.Writer, err error, diags *ivyerrors.Diagnostics) error {
	if err == nil {
		return nil
	}
	if diags != nil && diags.HasErrors() {
		printDiagnostics(w, diags)
		return &reportedError{err: err}
	}
	var friendly ivyerrors.FriendlyError
	if errors.As(err, &friendly) {
		fmt.Fprint(w, red(friendly.FriendlyErrorMessage()))
		return &reportedError{err: err}
	}
	return err
}

func writeJSON(w io.Writer, value any, noColor bool) error {
	var data []byte
	var err error
	if noColor {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = prettyjson.Marshal(value)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
