// Package source holds program text along with a precomputed table of
// newline offsets, so byte offsets can be resolved to line and column
// numbers without rescanning the input.
package source

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ivylang/ivy/token"
)

// File represents a source file with its content and metadata
type File struct {
	Name     string // Display name (e.g., "script.ivy", "<stdin>", "<repl>")
	Path     string // Full file path (empty for REPL/eval)
	Content  string
	newlines []int // byte offsets of every '\n' in Content
}

// NewFile creates a new source file and builds its newline table.
func NewFile(name, path, content string) *File {
	f := &File{Name: name, Path: path, Content: content}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			f.newlines = append(f.newlines, i)
		}
	}
	return f
}

// FromFile creates a File from a file path and content
func FromFile(filePath, content string) *File {
	return NewFile(filepath.Base(filePath), filePath, content)
}

// FromString creates a File for code that did not come from disk.
func FromString(name, content string) *File {
	return NewFile(name, "", content)
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (f *File) DisplayPath() string {
	if f.Path != "" {
		return f.Path
	}
	return f.Name
}

// LineCount returns the number of lines in the file. An empty file has one
// (empty) line.
func (f *File) LineCount() int {
	return len(f.newlines) + 1
}

// Position resolves a byte offset to a 1-based line and column. Offsets past
// the end of the content resolve against the last line.
func (f *File) Position(pos token.Pos) (line, column int) {
	offset := int(pos)
	if offset < 0 {
		return 0, 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	// Number of newlines strictly before offset == zero-based line index
	idx := sort.SearchInts(f.newlines, offset)
	lineStart := 0
	if idx > 0 {
		lineStart = f.newlines[idx-1] + 1
	}
	return idx + 1, offset - lineStart + 1
}

// Line returns the text of the given 1-based line without its trailing
// newline, or "" if the line does not exist.
func (f *File) Line(line int) string {
	if line < 1 || line > f.LineCount() {
		return ""
	}
	start := 0
	if line > 1 {
		start = f.newlines[line-2] + 1
	}
	end := len(f.Content)
	if line-1 < len(f.newlines) {
		end = f.newlines[line-1]
	}
	return strings.TrimSuffix(f.Content[start:end], "\r")
}
