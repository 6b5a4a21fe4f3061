package ast

import (
	"testing"

	"github.com/ivylang/ivy/token"
	"github.com/stretchr/testify/require"
)

// let x = 1 + 2;
func letProgram() *Program {
	return &Program{
		Stmts: []Stmt{
			&Let{
				Let:  0,
				Name: &Ident{NamePos: 4, Name: "x"},
				Value: &Infix{
					X:     &Int{ValuePos: 8, Literal: "1", Value: 1},
					OpPos: 10,
					Op:    "+",
					Y:     &Int{ValuePos: 12, Literal: "2", Value: 2},
				},
				Semi: 13,
			},
		},
	}
}

func TestString(t *testing.T) {
	program := letProgram()
	require.Equal(t, "let x = (1 + 2);", program.String())

	loop := &Loop{
		Kind: Until,
		Cond: &Ident{Name: "done"},
		Body: &Block{Stmts: []Stmt{
			&Print{Value: &Prefix{Op: "-", X: &Ident{Name: "n"}}},
		}},
	}
	require.Equal(t, "until done:\n  print (-n);\nend", loop.String())

	ifStmt := &If{
		Cond: &Int{Value: 1},
		Then: &Block{Stmts: []Stmt{&ExprStmt{X: &Int{Value: 2}}}},
		Else: &Block{Stmts: []Stmt{&Assign{Target: &Ident{Name: "a"}, Value: &Int{Value: 3}}}},
	}
	require.Equal(t, "if 1:\n  2;\nelse:\n  a = 3;\nend", ifStmt.String())
}

func TestPositions(t *testing.T) {
	program := letProgram()
	let := program.Stmts[0].(*Let)
	require.Equal(t, token.Pos(0), program.Pos())
	require.Equal(t, token.Pos(14), program.End())
	require.Equal(t, token.Pos(8), let.Value.Pos())
	require.Equal(t, token.Pos(13), let.Value.End())
	require.Equal(t, token.Pos(5), let.Name.End())

	empty := &Program{}
	require.Equal(t, token.NoPos, empty.Pos())
	require.Equal(t, token.NoPos, empty.End())

	loop := &Loop{Keyword: 0, EndPos: 20}
	require.Equal(t, token.Pos(23), loop.End())
}

func TestBadNodes(t *testing.T) {
	bad := &BadExpr{From: 3, To: 7}
	require.Equal(t, token.Pos(3), bad.Pos())
	require.Equal(t, token.Pos(7), bad.End())
	require.Equal(t, "<bad expression>", bad.String())

	var stmt Stmt = &BadStmt{From: 1, To: 2}
	require.Equal(t, "<bad statement>", stmt.String())
}

func TestUnparen(t *testing.T) {
	inner := &Ident{Name: "x"}
	wrapped := &Paren{X: &Paren{X: inner}}
	require.Same(t, inner, Unparen(wrapped))
	require.Same(t, inner, Unparen(inner))
}

func TestInspect(t *testing.T) {
	program := &Program{Stmts: []Stmt{
		letProgram().Stmts[0],
		&If{
			Cond: &Ident{Name: "x"},
			Then: &Block{Stmts: []Stmt{&Print{Value: &Ident{Name: "x"}}}},
		},
	}}

	var visited []string
	Inspect(program, func(n Node) bool {
		switch node := n.(type) {
		case *Program:
			visited = append(visited, "Program")
		case *Let:
			visited = append(visited, "Let")
		case *If:
			visited = append(visited, "If")
		case *Print:
			visited = append(visited, "Print")
		case *Infix:
			visited = append(visited, "Infix:"+node.Op)
		case *Ident:
			visited = append(visited, "Ident:"+node.Name)
		case *Int:
			visited = append(visited, "Int:"+node.Literal)
		}
		return true
	})
	require.Equal(t, []string{
		"Program", "Let", "Ident:x", "Infix:+", "Int:1", "Int:2",
		"If", "Ident:x", "Print", "Ident:x",
	}, visited)
}

func TestInspectSkipsChildren(t *testing.T) {
	var count int
	Inspect(letProgram(), func(n Node) bool {
		if n == nil {
			return false
		}
		count++
		_, isLet := n.(*Let)
		return !isLet
	})
	require.Equal(t, 2, count)
}

func TestSprint(t *testing.T) {
	expected := `Program (1 statements)
  Let
    Ident x
    Infix +
      Int 1
      Int 2
`
	require.Equal(t, expected, Sprint(letProgram()))
}
