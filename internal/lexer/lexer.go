// Package lexer converts Ivy source text into tokens.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/ivylang/ivy/token"
)

// Error describes a character the lexer could not turn into a token. The
// lexer returns an ILLEGAL token alongside the error and keeps going, so the
// caller may report it and continue.
type Error struct {
	Pos     token.Pos
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Lexer tokenizes Ivy source code.
type Lexer struct {
	input   string
	pos     int  // offset of ch
	readPos int  // offset after ch
	ch      rune // current character, 0 at end of input
}

// New returns a lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// Next returns the next token. At the end of input it returns EOF tokens
// indefinitely.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespaceAndComments()

	pos := token.Pos(l.pos)
	if l.atEnd() {
		return token.Token{Type: token.EOF, Pos: pos}, nil
	}

	switch ch := l.ch; {
	case ch == '<' && l.peekChar() == '<':
		return l.two(token.LT_LT), nil
	case ch == '>' && l.peekChar() == '>':
		return l.two(token.GT_GT), nil
	case isDigit(ch):
		return l.readNumber(), nil
	case isLetter(ch):
		return l.readIdentifier(), nil
	default:
		if typ, ok := singleChar[ch]; ok {
			l.readChar()
			return token.Token{Type: typ, Literal: string(ch), Pos: pos}, nil
		}
		l.readChar()
		tok := token.Token{Type: token.ILLEGAL, Literal: string(ch), Pos: pos}
		return tok, &Error{Pos: pos, Message: fmt.Sprintf("invalid character %q", ch)}
	}
}

var singleChar = map[rune]token.Type{
	'*': token.ASTERISK,
	':': token.COLON,
	'=': token.ASSIGN,
	'-': token.MINUS,
	';': token.SEMICOLON,
	'/': token.SLASH,
	'+': token.PLUS,
	'<': token.LT,
	'>': token.GT,
	'(': token.LPAREN,
	')': token.RPAREN,
}

func (l *Lexer) two(typ token.Type) token.Token {
	pos := l.pos
	l.readChar()
	l.readChar()
	return token.Token{Type: typ, Literal: l.input[pos:l.pos], Pos: token.Pos(pos)}
}

// skipWhitespaceAndComments skips whitespace and '#' line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '#':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readNumber() token.Token {
	start := l.pos
	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}
	return token.Token{Type: token.INT, Literal: l.input[start:l.pos], Pos: token.Pos(start)}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.pos
	for !l.atEnd() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	literal := l.input[start:l.pos]
	return token.Token{Type: token.LookupIdentifier(literal), Literal: literal, Pos: token.Pos(start)}
}

// Tokenize scans the whole input. Lexical errors are collected rather than
// stopping the scan. The returned slice always ends with an EOF token.
func Tokenize(input string) ([]token.Token, []error) {
	l := New(input)
	var tokens []token.Token
	var errs []error
	for {
		tok, err := l.Next()
		if err != nil {
			errs = append(errs, err)
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, errs
		}
	}
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}
