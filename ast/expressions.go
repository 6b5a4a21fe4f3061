package ast

import (
	"strconv"

	"github.com/ivylang/ivy/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Pos // position of identifier
	Name    string    // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Pos { return x.NamePos }
func (x *Ident) End() token.Pos { return x.NamePos + token.Pos(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Int is an integer literal.
type Int struct {
	ValuePos token.Pos // position of the literal
	Literal  string    // literal text
	Value    int64
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Pos { return x.ValuePos }
func (x *Int) End() token.Pos { return x.ValuePos + token.Pos(len(x.Literal)) }

func (x *Int) String() string {
	if x.Literal != "" {
		return x.Literal
	}
	return strconv.FormatInt(x.Value, 10)
}

// Prefix is an operator expression where the operator precedes the operand.
// The only prefix operator is "-".
type Prefix struct {
	OpPos token.Pos // position of operator
	Op    string    // operator
	X     Expr      // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Pos { return x.OpPos }
func (x *Prefix) End() token.Pos { return x.X.End() }

func (x *Prefix) String() string {
	return "(" + x.Op + x.X.String() + ")"
}

// Infix is a binary operator expression such as "a - b" or "x << 2".
type Infix struct {
	X     Expr      // left operand
	OpPos token.Pos // position of operator
	Op    string    // operator
	Y     Expr      // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Pos { return x.X.Pos() }
func (x *Infix) End() token.Pos { return x.Y.End() }

func (x *Infix) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Paren is a parenthesized expression. It is kept in the tree so positions
// and printing reflect the source.
type Paren struct {
	Lparen token.Pos
	X      Expr
	Rparen token.Pos
}

func (x *Paren) exprNode() {}

func (x *Paren) Pos() token.Pos { return x.Lparen }
func (x *Paren) End() token.Pos { return x.Rparen + 1 }

func (x *Paren) String() string { return x.X.String() }

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*Paren)
		if !ok {
			return e
		}
		e = p.X
	}
}
