package parser

import "github.com/ivylang/ivy/token"

// Precedence order for operators. All binary operators are left-associative.
const (
	LOWEST      = 0
	LESSGREATER = 10 // > or <
	SHIFT       = 15 // << or >>
	SUM         = 20 // + or -
	PRODUCT     = 40 // * or /
	PREFIX      = 50 // -X
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LT_LT:    SHIFT,
	token.GT_GT:    SHIFT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
}
