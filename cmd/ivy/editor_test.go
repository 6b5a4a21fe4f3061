package main

import (
	"bytes"
	"testing"

	"atomicgo.dev/keyboard/keys"
	"github.com/stretchr/testify/require"
)

func typeText(e *lineEditor, s string) {
	for _, r := range s {
		if r == ' ' {
			e.handle(keys.Key{Code: keys.Space})
			continue
		}
		e.handle(keys.Key{Code: keys.RuneKey, Runes: []rune{r}})
	}
}

func press(e *lineEditor, codes ...keys.KeyCode) keyAction {
	var action keyAction
	for _, code := range codes {
		action = e.handle(keys.Key{Code: code})
	}
	return action
}

func TestEditorTyping(t *testing.T) {
	e := newLineEditor("> ")
	typeText(e, "print 1")
	require.Equal(t, actionSubmit, press(e, keys.Enter))
	require.Equal(t, "print 1", e.take())
	require.Empty(t, e.buf)
	require.Equal(t, 0, e.cursor)
}

func TestEditorCursor(t *testing.T) {
	e := newLineEditor("> ")
	typeText(e, "prnt")
	press(e, keys.Left, keys.Left)
	typeText(e, "i")
	require.Equal(t, "print", string(e.buf))
	require.Equal(t, 3, e.cursor)

	press(e, keys.CtrlA)
	press(e, keys.Delete)
	require.Equal(t, "rint", string(e.buf))

	press(e, keys.End, keys.Backspace)
	require.Equal(t, "rin", string(e.buf))

	press(e, keys.Home, keys.Right, keys.CtrlK)
	require.Equal(t, "r", string(e.buf))

	press(e, keys.CtrlU)
	require.Empty(t, e.buf)
	press(e, keys.Backspace, keys.Left)
	require.Equal(t, 0, e.cursor)
}

func TestEditorHistory(t *testing.T) {
	e := newLineEditor("> ")
	typeText(e, "let x = 1")
	e.take()
	typeText(e, "print x")
	e.take()
	e.take()

	typeText(e, "dra")
	press(e, keys.Up)
	require.Equal(t, "print x", string(e.buf))
	press(e, keys.Up, keys.Up)
	require.Equal(t, "let x = 1", string(e.buf))
	require.Equal(t, len("let x = 1"), e.cursor)
	press(e, keys.Down, keys.Down)
	require.Equal(t, "dra", string(e.buf))
	press(e, keys.Down)
	require.Equal(t, "dra", string(e.buf))
	require.Equal(t, []string{"let x = 1", "print x"}, e.history)
}

func TestEditorQuit(t *testing.T) {
	e := newLineEditor("> ")
	typeText(e, "let")
	require.Equal(t, actionNone, press(e, keys.CtrlD))
	require.Equal(t, actionNone, press(e, keys.CtrlC))
	require.Empty(t, e.buf)
	require.Equal(t, actionQuit, press(e, keys.CtrlC))
	require.Equal(t, actionQuit, press(e, keys.CtrlD))
}

func TestEditorRender(t *testing.T) {
	e := newLineEditor("> ")
	typeText(e, "print 1")
	press(e, keys.Left, keys.Left)

	var out bytes.Buffer
	e.render(&out)
	require.Equal(t, "\r\x1b[K> print 1\x1b[2D", out.String())

	out.Reset()
	press(e, keys.End)
	e.render(&out)
	require.Equal(t, "\r\x1b[K> print 1", out.String())
}

func TestCRLFWriter(t *testing.T) {
	var out bytes.Buffer
	w := crlfWriter{w: &out}
	n, err := w.Write([]byte("1\n2\n"))
	require.Nil(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "1\r\n2\r\n", out.String())
}
