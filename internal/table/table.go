// Package table renders rows of text as an ASCII table. Column widths are
// measured in terminal cells, ignoring ANSI color sequences, so colored and
// wide-rune content stays aligned.
package table

import (
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment controls how a cell is padded within its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Table accumulates a header and rows and writes them on Render.
type Table struct {
	w            io.Writer
	header       []string
	rows         [][]string
	columnAlign  []Alignment
	headerAlign  []Alignment
	widths       []int
	columnsCount int
}

// NewTable returns an empty table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// WithHeader sets the header row.
func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

// WithColumnAlignment sets the alignment of body cells, per column.
// Columns without an entry are left aligned.
func (t *Table) WithColumnAlignment(align []Alignment) *Table {
	t.columnAlign = align
	return t
}

// WithHeaderAlignment sets the alignment of header cells, per column.
func (t *Table) WithHeaderAlignment(align []Alignment) *Table {
	t.headerAlign = align
	return t
}

// WithRows appends several rows.
func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

// Append adds one row.
func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

// Render writes the table. Errors from the writer are returned.
func (t *Table) Render() error {
	t.measure()
	var b strings.Builder
	t.writeBorder(&b)
	if len(t.header) > 0 {
		t.writeRow(&b, t.header, t.headerAlign)
		t.writeBorder(&b)
	}
	for _, row := range t.rows {
		t.writeRow(&b, row, t.columnAlign)
	}
	if len(t.rows) > 0 {
		t.writeBorder(&b)
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Table) measure() {
	t.columnsCount = len(t.header)
	for _, row := range t.rows {
		t.columnsCount = max(t.columnsCount, len(row))
	}
	t.widths = make([]int, t.columnsCount)
	grow := func(row []string) {
		for i, cell := range row {
			t.widths[i] = max(t.widths[i], Width(cell))
		}
	}
	grow(t.header)
	for _, row := range t.rows {
		grow(row)
	}
}

func (t *Table) writeBorder(b *strings.Builder) {
	b.WriteByte('+')
	for _, w := range t.widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
}

func (t *Table) writeRow(b *strings.Builder, row []string, align []Alignment) {
	b.WriteByte('|')
	for i, w := range t.widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		a := AlignLeft
		if i < len(align) {
			a = align[i]
		}
		b.WriteByte(' ')
		b.WriteString(pad(cell, w, a))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}

func pad(cell string, width int, align Alignment) string {
	gap := width - Width(cell)
	if gap <= 0 {
		return cell
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + cell
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}

// Width returns the number of terminal cells s occupies once ANSI color
// sequences are removed.
func Width(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}

// StripANSI removes ANSI color sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
