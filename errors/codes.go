package errors

// ErrorCode represents a unique identifier for diagnostic types.
// Codes are organized by category:
//   - E1xxx: Lexical and parse errors
//   - E2xxx: Compile errors
//   - W2xxx: Compile warnings
type ErrorCode string

const (
	// Lexical and parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Invalid character
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Invalid assignment target
	E1006 ErrorCode = "E1006" // Expected identifier
	E1007 ErrorCode = "E1007" // Unterminated block
	E1008 ErrorCode = "E1008" // Invalid number literal

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Undefined variable

	// Compile warnings (W2xxx)
	W2001 ErrorCode = "W2001" // Shadowed binding
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "invalid character",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1005: "invalid assignment target",
	E1006: "expected identifier",
	E1007: "block is missing its closing 'end'",
	E1008: "invalid number literal",
	E2001: "undefined variable",
	W2001: "later declarations of a name are stored but never read; lookups resolve to the first declaration",
}

// Description returns a short description of the error code.
func (c ErrorCode) Description() string {
	return codeDescriptions[c]
}

// IsWarning reports whether the code identifies a warning.
func (c ErrorCode) IsWarning() bool {
	return len(c) > 0 && c[0] == 'W'
}
