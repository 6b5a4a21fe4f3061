// Package token defines language keywords and tokens used when lexing source code.
package token

// Type describes the type of a token as a string.
type Type string

// Pos is a byte offset into a source file. Line and column are resolved on
// demand through the newline table held by source.File.
type Pos int

// NoPos is the zero value Pos. Offset zero is also a valid position, so
// NoPos is only used where a node has no meaningful location.
const NoPos Pos = -1

// IsValid returns true if this position has been set.
func (p Pos) IsValid() bool {
	return p >= 0
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type    Type
	Literal string
	Pos     Pos
}

// End returns the offset of the first byte after the token.
func (t Token) End() Pos {
	return t.Pos + Pos(len(t.Literal))
}

// Token types
const (
	ASSIGN    Type = "="
	ASTERISK  Type = "*"
	COLON     Type = ":"
	ELSE      Type = "ELSE"
	END       Type = "END"
	EOF       Type = "EOF"
	GT        Type = ">"
	GT_GT     Type = ">>"
	IDENT     Type = "IDENT"
	IF        Type = "IF"
	ILLEGAL   Type = "ILLEGAL"
	INT       Type = "INT"
	LET       Type = "LET"
	LPAREN    Type = "("
	LT        Type = "<"
	LT_LT     Type = "<<"
	MINUS     Type = "-"
	PLUS      Type = "+"
	PRINT     Type = "PRINT"
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	SLASH     Type = "/"
	UNTIL     Type = "UNTIL"
	WHILE     Type = "WHILE"
)

// Reserved keywords
var keywords = map[string]Type{
	"else":  ELSE,
	"end":   END,
	"if":    IF,
	"let":   LET,
	"print": PRINT,
	"until": UNTIL,
	"while": WHILE,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words of the language in no particular order.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	return names
}

// String returns a human friendly name for the token type, as used in
// parser diagnostics.
func (t Type) String() string {
	switch t {
	case EOF:
		return "end of file"
	case IDENT:
		return "identifier"
	case INT:
		return "integer"
	case ILLEGAL:
		return "illegal character"
	}
	for word, typ := range keywords {
		if typ == t {
			return "'" + word + "'"
		}
	}
	return "'" + string(t) + "'"
}
