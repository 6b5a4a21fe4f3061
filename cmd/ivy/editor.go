package main

import (
	"bytes"
	"fmt"
	"io"

	"atomicgo.dev/keyboard/keys"
	"github.com/mattn/go-runewidth"
)

type keyAction int

const (
	actionNone keyAction = iota
	actionSubmit
	actionQuit
)

// lineEditor is a single line input buffer with a cursor and history,
// driven by key presses from a terminal in raw mode.
type lineEditor struct {
	prompt  string
	buf     []rune
	cursor  int
	history []string
	histPos int    // index into history while browsing, len(history) otherwise
	draft   []rune // the unsubmitted line saved when browsing starts
}

func newLineEditor(prompt string) *lineEditor {
	return &lineEditor{prompt: prompt}
}

// handle applies a key press to the buffer.
func (e *lineEditor) handle(key keys.Key) keyAction {
	switch key.Code {
	case keys.RuneKey:
		e.insert(key.Runes...)
	case keys.Space:
		e.insert(' ')
	case keys.Tab:
		e.insert(' ', ' ')
	case keys.Enter:
		return actionSubmit
	case keys.Backspace, keys.CtrlH:
		if e.cursor > 0 {
			e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
			e.cursor--
		}
	case keys.Delete:
		if e.cursor < len(e.buf) {
			e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
		}
	case keys.Left, keys.CtrlB:
		if e.cursor > 0 {
			e.cursor--
		}
	case keys.Right, keys.CtrlF:
		if e.cursor < len(e.buf) {
			e.cursor++
		}
	case keys.Home, keys.CtrlA:
		e.cursor = 0
	case keys.End, keys.CtrlE:
		e.cursor = len(e.buf)
	case keys.CtrlU:
		e.buf = e.buf[:0]
		e.cursor = 0
	case keys.CtrlK:
		e.buf = e.buf[:e.cursor]
	case keys.Up:
		e.recall(-1)
	case keys.Down:
		e.recall(1)
	case keys.CtrlC:
		if len(e.buf) == 0 {
			return actionQuit
		}
		e.buf = e.buf[:0]
		e.cursor = 0
	case keys.CtrlD:
		if len(e.buf) == 0 {
			return actionQuit
		}
	}
	return actionNone
}

func (e *lineEditor) insert(runes ...rune) {
	tail := append([]rune{}, e.buf[e.cursor:]...)
	e.buf = append(append(e.buf[:e.cursor], runes...), tail...)
	e.cursor += len(runes)
}

// recall replaces the buffer with an older (dir < 0) or newer history entry.
func (e *lineEditor) recall(dir int) {
	pos := e.histPos + dir
	if pos < 0 || pos > len(e.history) {
		return
	}
	if e.histPos == len(e.history) {
		e.draft = append([]rune{}, e.buf...)
	}
	e.histPos = pos
	if pos == len(e.history) {
		e.buf = append([]rune{}, e.draft...)
	} else {
		e.buf = []rune(e.history[pos])
	}
	e.cursor = len(e.buf)
}

// take returns the current line and clears the buffer. Non-blank lines are
// added to the history.
func (e *lineEditor) take() string {
	line := string(e.buf)
	if len(bytes.TrimSpace([]byte(line))) > 0 {
		if n := len(e.history); n == 0 || e.history[n-1] != line {
			e.history = append(e.history, line)
		}
	}
	e.buf = e.buf[:0]
	e.cursor = 0
	e.histPos = len(e.history)
	e.draft = nil
	return line
}

// render redraws the prompt and buffer on the current terminal line and
// places the cursor.
func (e *lineEditor) render(w io.Writer) {
	fmt.Fprintf(w, "\r\x1b[K%s%s", e.prompt, string(e.buf))
	if back := runewidth.StringWidth(string(e.buf[e.cursor:])); back > 0 {
		fmt.Fprintf(w, "\x1b[%dD", back)
	}
}

// crlfWriter translates line feeds for a terminal in raw mode, where output
// post-processing is off.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
