package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(v, n.Stmts)

	// Statements
	case *Let:
		Walk(v, n.Name)
		Walk(v, n.Value)
	case *Assign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *Print:
		Walk(v, n.Value)
	case *ExprStmt:
		Walk(v, n.X)
	case *If:
		Walk(v, n.Cond)
		walkBlock(v, n.Then)
		walkBlock(v, n.Else)
	case *Loop:
		Walk(v, n.Cond)
		walkBlock(v, n.Body)

	// Expressions
	case *Prefix:
		Walk(v, n.X)
	case *Infix:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *Paren:
		Walk(v, n.X)

	case *Ident, *Int, *BadExpr, *BadStmt:
		// leaves
	}

	v.Visit(nil)
}

func walkBlock(v Visitor, b *Block) {
	if b != nil {
		walkStmts(v, b.Stmts)
	}
}

func walkStmts(v Visitor, stmts []Stmt) {
	for _, stmt := range stmts {
		Walk(v, stmt)
	}
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect continues with the node's children. After
// the children, f is called with nil.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
