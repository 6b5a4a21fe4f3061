package ast

import (
	"strings"

	"github.com/ivylang/ivy/token"
)

// Let is a statement that declares a new variable: "let x = 1;".
type Let struct {
	Let   token.Pos // position of "let" keyword
	Name  *Ident    // variable name
	Value Expr      // initial value
	Semi  token.Pos // position of ";"
}

func (s *Let) stmtNode() {}

func (s *Let) Pos() token.Pos { return s.Let }
func (s *Let) End() token.Pos { return s.Semi + 1 }

func (s *Let) String() string {
	return "let " + s.Name.String() + " = " + s.Value.String() + ";"
}

// Assign stores a value into an existing variable: "x = x + 1;". The
// target is any expression; the compiler rejects targets that are not a bare
// identifier.
type Assign struct {
	Target Expr      // assignment target
	EqPos  token.Pos // position of "="
	Value  Expr      // assigned value
	Semi   token.Pos // position of ";"
}

func (s *Assign) stmtNode() {}

func (s *Assign) Pos() token.Pos { return s.Target.Pos() }
func (s *Assign) End() token.Pos { return s.Semi + 1 }

func (s *Assign) String() string {
	return s.Target.String() + " = " + s.Value.String() + ";"
}

// Print writes the value of an expression followed by a newline.
type Print struct {
	Print token.Pos // position of "print" keyword
	Value Expr
	Semi  token.Pos // position of ";"
}

func (s *Print) stmtNode() {}

func (s *Print) Pos() token.Pos { return s.Print }
func (s *Print) End() token.Pos { return s.Semi + 1 }

func (s *Print) String() string {
	return "print " + s.Value.String() + ";"
}

// ExprStmt evaluates an expression and discards its value.
type ExprStmt struct {
	X    Expr
	Semi token.Pos // position of ";"
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Pos { return s.X.Pos() }
func (s *ExprStmt) End() token.Pos { return s.Semi + 1 }

func (s *ExprStmt) String() string { return s.X.String() + ";" }

// Block is a sequence of statements inside an if or loop body.
type Block struct {
	Stmts []Stmt
}

// If is a conditional statement with an optional else branch. Else is nil
// when the statement has no else clause.
type If struct {
	If     token.Pos // position of "if" keyword
	Cond   Expr
	Then   *Block
	Else   *Block
	EndPos token.Pos // position of "end" keyword
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Pos { return s.If }
func (s *If) End() token.Pos { return s.EndPos + 3 }

func (s *If) String() string {
	var out strings.Builder
	out.WriteString("if ")
	out.WriteString(s.Cond.String())
	out.WriteString(":\n")
	writeBlock(&out, s.Then)
	if s.Else != nil {
		out.WriteString("else:\n")
		writeBlock(&out, s.Else)
	}
	out.WriteString("end")
	return out.String()
}

// LoopKind selects the sense of a loop condition.
type LoopKind int

const (
	// While repeats the body as long as the condition is nonzero.
	While LoopKind = iota
	// Until repeats the body as long as the condition is zero.
	Until
)

func (k LoopKind) String() string {
	if k == Until {
		return "until"
	}
	return "while"
}

// Loop is a "while" or "until" loop. The condition is evaluated before each
// iteration.
type Loop struct {
	Keyword token.Pos // position of "while" or "until"
	Kind    LoopKind
	Cond    Expr
	Body    *Block
	EndPos  token.Pos // position of "end" keyword
}

func (s *Loop) stmtNode() {}

func (s *Loop) Pos() token.Pos { return s.Keyword }
func (s *Loop) End() token.Pos { return s.EndPos + 3 }

func (s *Loop) String() string {
	var out strings.Builder
	out.WriteString(s.Kind.String())
	out.WriteString(" ")
	out.WriteString(s.Cond.String())
	out.WriteString(":\n")
	writeBlock(&out, s.Body)
	out.WriteString("end")
	return out.String()
}

func writeBlock(out *strings.Builder, b *Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Stmts {
		for _, line := range strings.Split(stmt.String(), "\n") {
			out.WriteString("  ")
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
}

func joinStmts(stmts []Stmt, sep string) string {
	parts := make([]string, len(stmts))
	for i, stmt := range stmts {
		parts[i] = stmt.String()
	}
	return strings.Join(parts, sep)
}
