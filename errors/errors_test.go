package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ivylang/ivy/source"
	"github.com/ivylang/ivy/token"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	tests := []struct {
		name     string
		loc      SourceLocation
		expected string
	}{
		{"with filename", SourceLocation{Filename: "main.ivy", Line: 10, Column: 5}, "main.ivy:10:5"},
		{"without filename", SourceLocation{Line: 10, Column: 5}, "10:5"},
		{"zero location", SourceLocation{}, "0:0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.loc.String())
		})
	}
}

func TestDiagnosticsCounting(t *testing.T) {
	file := source.FromString("t.ivy", "let x = y;\nprint x;")
	diags := NewDiagnostics(file)
	require.Nil(t, diags.Err())

	diags.Warnf(4, W2001, "name %q shadows an earlier declaration", "x")
	require.Equal(t, 0, diags.ErrorCount())
	require.Equal(t, 1, diags.WarningCount())
	require.Nil(t, diags.Err())

	d := diags.Errorf(8, E2001, "undefined variable %q", "y")
	require.Equal(t, 1, diags.ErrorCount())
	require.True(t, diags.HasErrors())
	require.Equal(t, SourceLocation{Filename: "t.ivy", Line: 1, Column: 9, Source: "let x = y;"}, d.Location)
	require.Equal(t, `t.ivy:1:9: error: undefined variable "y"`, d.Error())
	require.Len(t, diags.All(), 2)
	require.Len(t, diags.Warnings(), 1)

	err := diags.Err()
	require.NotNil(t, err)
	require.Equal(t, `t.ivy:1:9: error: undefined variable "y"`, err.Error())
	require.Equal(t, []*Diagnostic{d}, AsDiagnostics(err))
}

func TestDiagnosticsMultipleErrors(t *testing.T) {
	diags := NewDiagnostics(source.FromString("t.ivy", "a; b; c;"))
	diags.Errorf(0, E2001, "undefined variable %q", "a")
	diags.Errorf(3, E2001, "undefined variable %q", "b")
	diags.Errorf(6, E2001, "undefined variable %q", "c")
	err := diags.Err()
	require.Equal(t, `t.ivy:1:1: error: undefined variable "a" (and 2 more errors)`, err.Error())

	wrapped := fmt.Errorf("compile failed: %w", err)
	require.Len(t, AsDiagnostics(wrapped), 3)
	require.Nil(t, AsDiagnostics(goerrors.New("other")))
}

func TestDiagnosticsMerge(t *testing.T) {
	file := source.FromString("t.ivy", "x;")
	a := NewDiagnostics(file)
	b := NewDiagnostics(file)
	a.Errorf(0, E1003, "bad")
	b.Warnf(0, W2001, "meh")
	b.Errorf(1, E1001, "worse")
	a.Merge(b)
	require.Equal(t, 2, a.ErrorCount())
	require.Equal(t, 1, a.WarningCount())
	require.Len(t, a.All(), 3)
}

func TestLocateWithoutPosition(t *testing.T) {
	diags := NewDiagnostics(source.FromString("t.ivy", ""))
	loc := diags.Locate(token.NoPos)
	require.Equal(t, "t.ivy", loc.Filename)
	require.True(t, loc.IsZero())

	var empty Diagnostics
	require.Equal(t, SourceLocation{}, empty.Locate(3))
}

func TestFriendlyErrorMessage(t *testing.T) {
	file := source.FromString("t.ivy", "let count = 1;\nprint cuont;")
	diags := NewDiagnostics(file)
	d := diags.Errorf(21, E2001, "undefined variable %q", "cuont")
	d.Suggestions = SuggestSimilar("cuont", []string{"count"})

	expected := strings.Join([]string{
		`error[E2001]: undefined variable "cuont"`,
		`  --> t.ivy:2:7`,
		`   |`,
		` 2 | print cuont;`,
		`   |       ^`,
		`   = hint: did you mean 'count'?`,
		`   = note: undefined variable`,
		``,
	}, "\n")
	require.Equal(t, expected, d.FriendlyErrorMessage())
}

func TestFormatDiagnosticsSummary(t *testing.T) {
	diags := NewDiagnostics(source.FromString("t.ivy", "x;"))
	diags.Errorf(0, E2001, "undefined variable %q", "x")
	diags.Warnf(0, W2001, "shadowed")
	out := NewFormatter(false).FormatDiagnostics(diags.All())
	require.True(t, strings.HasSuffix(out, "found 1 errors and 1 warnings\n"))
	require.Contains(t, out, "warning[W2001]: shadowed")
	require.Equal(t, "", NewFormatter(false).FormatDiagnostics(nil))
}

func TestSuggestSimilar(t *testing.T) {
	tests := []struct {
		target     string
		candidates []string
		expected   []string
	}{
		{"cuont", []string{"count", "total", "amount"}, []string{"count"}},
		{"x", []string{"y", "xx", "abc"}, []string{"xx", "y"}},
		{"value", []string{"value"}, nil},
		{"", []string{"a"}, nil},
		{"idx", []string{"idx2", "idx2", "i"}, []string{"idx2"}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var got []string
			for _, s := range SuggestSimilar(tt.target, tt.candidates) {
				got = append(got, s.Value)
			}
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatSuggestions(t *testing.T) {
	require.Equal(t, "", FormatSuggestions(nil))
	require.Equal(t, "did you mean 'a'?", FormatSuggestions([]Suggestion{{Value: "a"}}))
	require.Equal(t, "did you mean one of: 'a', 'b'?",
		FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}}))
}

func TestEditDistance(t *testing.T) {
	require.Equal(t, 0, editDistance("abc", "abc"))
	require.Equal(t, 3, editDistance("", "abc"))
	require.Equal(t, 1, editDistance("abc", "abd"))
	require.Equal(t, 3, editDistance("kitten", "sitting"))
}

func TestErrorCodeHelpers(t *testing.T) {
	require.True(t, W2001.IsWarning())
	require.False(t, E2001.IsWarning())
	require.Equal(t, "undefined variable", E2001.Description())
}
