package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of the tree rooted at node, one node per
// line.
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	Inspect(node, p.visit)
	return p.err
}

// Sprint returns the output of Fprint as a string.
func Sprint(node Node) string {
	var b strings.Builder
	_ = Fprint(&b, node)
	return b.String()
}

type printer struct {
	w     io.Writer
	depth int
	err   error
}

func (p *printer) visit(n Node) bool {
	if n == nil {
		p.depth--
		return false
	}
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.depth), describe(n))
	}
	p.depth++
	return true
}

func describe(n Node) string {
	switch n := n.(type) {
	case *Program:
		return fmt.Sprintf("Program (%d statements)", len(n.Stmts))
	case *Let:
		return "Let"
	case *Assign:
		return "Assign"
	case *Print:
		return "Print"
	case *ExprStmt:
		return "ExprStmt"
	case *If:
		if n.Else != nil {
			return "If (with else)"
		}
		return "If"
	case *Loop:
		return "Loop " + n.Kind.String()
	case *Prefix:
		return "Prefix " + n.Op
	case *Infix:
		return "Infix " + n.Op
	case *Paren:
		return "Paren"
	case *Ident:
		return "Ident " + n.Name
	case *Int:
		return "Int " + n.String()
	default:
		return n.String()
	}
}
