// Package compiler is used to compile an Ivy abstract syntax tree (AST) into
// the corresponding bytecode.
//
// # Code Generation
//
// The compiler makes a single pass over the tree. Each statement and
// expression compiles into its own bytecode.Chunk, and the caller splices
// the chunks together. Because every jump offset is relative to the end of
// the jump instruction, a chunk can be appended anywhere without fixing up
// the jumps inside it.
//
// Binary expressions push the right operand first, then the left operand,
// then emit the operator. The virtual machine pops the left operand first,
// so "a - b" computes a minus b.
//
// Control flow is laid out as follows, where JZ is JUMP_IF_ZERO, JNZ is
// JUMP_IF_NOT_ZERO and JMP is JUMP_RELATIVE:
//
//	if c: T end              c; JZ L; T; L:
//	if c: T else E end       c; JZ L1; T; JMP L2; L1: E; L2:
//	while c: B end           L1: c; JZ L2; B; JMP L1; L2:
//	until c: B end           L1: c; JNZ L2; B; JMP L1; L2:
//
// # Diagnostics
//
// Semantic errors (an undefined variable, an invalid assignment target) are
// reported to an errors.Diagnostics collector and compilation continues, so a
// single run surfaces as many problems as possible. Code compiled while the
// collector holds errors must not be executed.
package compiler

import (
	"github.com/ivylang/ivy/ast"
	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/op"
	"github.com/ivylang/ivy/token"
	"github.com/rs/zerolog"
)

// Compiler is used to compile Ivy AST into its corresponding bytecode.
type Compiler struct {
	symbols  *SymbolTable
	diags    *errors.Diagnostics
	filename string
	logger   zerolog.Logger
	debug    *bytecode.DebugInfo
}

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the file name recorded in debug info.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithSymbols compiles against an existing symbol table. New bindings are
// added to it. This is used for REPL-style incremental compilation.
func WithSymbols(symbols *SymbolTable) Option {
	return func(c *Compiler) {
		c.symbols = symbols
	}
}

// WithDiagnostics sets the collector that semantic errors are reported to.
// Its source file is used to resolve line numbers for debug info.
func WithDiagnostics(diags *errors.Diagnostics) Option {
	return func(c *Compiler) {
		c.diags = diags
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{logger: zerolog.Nop()}
	for _, opt := range options {
		opt(c)
	}
	if c.symbols == nil {
		c.symbols = NewSymbolTable()
	}
	if c.diags == nil {
		c.diags = errors.NewDiagnostics(nil)
	}
	if c.filename == "" {
		if file := c.diags.File(); file != nil {
			c.filename = file.DisplayPath()
		}
	}
	return c
}

// Compile compiles a program and returns its bytecode. If any diagnostics
// are errors, the code is nil and the error is the collector's aggregate
// error, which errors.AsDiagnostics can unpack.
func Compile(program *ast.Program, options ...Option) (*bytecode.Code, error) {
	c := New(options...)
	code := c.CompileProgram(program)
	if err := c.diags.Err(); err != nil {
		return nil, err
	}
	return code, nil
}

// Symbols returns the symbol table the compiler binds variables in.
func (c *Compiler) Symbols() *SymbolTable {
	return c.symbols
}

// Diagnostics returns the collector errors are reported to.
func (c *Compiler) Diagnostics() *errors.Diagnostics {
	return c.diags
}

// DebugInfo returns metadata for the most recently compiled program.
func (c *Compiler) DebugInfo() *bytecode.DebugInfo {
	return c.debug
}

// CompileProgram compiles every statement of the program, in order, into one
// buffer. It always returns code; check the diagnostics before running it.
func (c *Compiler) CompileProgram(program *ast.Program) *bytecode.Code {
	errorsBefore := c.diags.ErrorCount()
	chunk := bytecode.NewChunk()
	for _, stmt := range program.Stmts {
		chunk.Append(c.compileStmt(stmt))
	}
	code := chunk.Code()
	c.debug = &bytecode.DebugInfo{
		Filename: c.filename,
		Locals:   c.symbols.Names(),
		Lines:    chunk.Lines(),
	}
	c.logger.Debug().
		Str("file", c.filename).
		Int("statements", len(program.Stmts)).
		Int("bytes", code.Len()).
		Int("locals", c.symbols.Len()).
		Int("errors", c.diags.ErrorCount()-errorsBefore).
		Msg("compiled program")
	return code
}

func (c *Compiler) compileStmt(stmt ast.Stmt) *bytecode.Chunk {
	chunk := bytecode.NewChunk()
	if line := c.line(stmt.Pos()); line > 0 {
		chunk.MarkLine(line)
	}
	switch stmt := stmt.(type) {
	case *ast.Let:
		c.compileLet(chunk, stmt)
	case *ast.Assign:
		c.compileAssign(chunk, stmt)
	case *ast.Print:
		chunk.Append(c.compileExpr(stmt.Value))
		chunk.Emit(op.Print)
	case *ast.ExprStmt:
		chunk.Append(c.compileExpr(stmt.X))
		chunk.Emit(op.Pop)
	case *ast.If:
		c.compileIf(chunk, stmt)
	case *ast.Loop:
		c.compileLoop(chunk, stmt)
	case *ast.BadStmt:
		// Reported by the parser.
	}
	return chunk
}

func (c *Compiler) compileBlock(block *ast.Block) *bytecode.Chunk {
	chunk := bytecode.NewChunk()
	if block == nil {
		return chunk
	}
	for _, stmt := range block.Stmts {
		chunk.Append(c.compileStmt(stmt))
	}
	return chunk
}

// compileLet stores the initializer in a fresh slot. The name is bound only
// after the initializer is compiled, so "let x = x;" does not see itself.
func (c *Compiler) compileLet(chunk *bytecode.Chunk, stmt *ast.Let) {
	chunk.Append(c.compileExpr(stmt.Value))
	if first, ok := c.symbols.Resolve(stmt.Name.Name); ok {
		c.diags.Warnf(stmt.Name.Pos(), errors.W2001,
			"%q is already declared in slot %d; later reads still use that slot",
			stmt.Name.Name, first.Slot())
	}
	sym := c.symbols.Define(stmt.Name.Name)
	chunk.EmitUint(op.StoreLocal, sym.Slot())
}

func (c *Compiler) compileAssign(chunk *bytecode.Chunk, stmt *ast.Assign) {
	ident, ok := stmt.Target.(*ast.Ident)
	if !ok {
		c.diags.Errorf(stmt.Target.Pos(), errors.E1005,
			"cannot assign to %s; the target must be a variable name", stmt.Target)
		return
	}
	sym, ok := c.resolve(ident)
	if !ok {
		return
	}
	chunk.Append(c.compileExpr(stmt.Value))
	chunk.EmitUint(op.StoreLocal, sym.Slot())
}

func (c *Compiler) compileIf(chunk *bytecode.Chunk, stmt *ast.If) {
	chunk.Append(c.compileExpr(stmt.Cond))
	skipThen := chunk.EmitJump(op.JumpIfZero)
	chunk.Append(c.compileBlock(stmt.Then))
	if stmt.Else == nil {
		chunk.PatchHere(skipThen)
		return
	}
	skipElse := chunk.EmitJump(op.JumpRelative)
	chunk.PatchHere(skipThen)
	chunk.Append(c.compileBlock(stmt.Else))
	chunk.PatchHere(skipElse)
}

// compileLoop re-evaluates the condition on every iteration. A while loop
// exits when the condition is zero, an until loop when it is nonzero.
func (c *Compiler) compileLoop(chunk *bytecode.Chunk, stmt *ast.Loop) {
	exitOp := op.JumpIfZero
	if stmt.Kind == ast.Until {
		exitOp = op.JumpIfNotZero
	}
	head := chunk.Len()
	chunk.Append(c.compileExpr(stmt.Cond))
	exit := chunk.EmitJump(exitOp)
	chunk.Append(c.compileBlock(stmt.Body))
	// The back edge belongs to the loop header, not the last body statement.
	if line := c.line(stmt.Pos()); line > 0 {
		chunk.MarkLine(line)
	}
	chunk.EmitJumpTo(op.JumpRelative, head)
	chunk.PatchHere(exit)
}

var binaryOps = map[string]op.Code{
	"+":  op.Add,
	"-":  op.Sub,
	"*":  op.Mul,
	"/":  op.Div,
	"<":  op.CmpLess,
	">":  op.CmpGreater,
	"<<": op.ShiftLeft,
	">>": op.ShiftRight,
}

func (c *Compiler) compileExpr(expr ast.Expr) *bytecode.Chunk {
	chunk := bytecode.NewChunk()
	switch expr := expr.(type) {
	case *ast.Int:
		chunk.EmitInt(op.PushInt, expr.Value)
	case *ast.Ident:
		if sym, ok := c.resolve(expr); ok {
			chunk.EmitUint(op.LoadLocal, sym.Slot())
		}
	case *ast.Paren:
		return c.compileExpr(expr.X)
	case *ast.Prefix:
		// -x compiles as 0 - x.
		chunk.Append(c.compileExpr(expr.X))
		chunk.EmitInt(op.PushInt, 0)
		chunk.Emit(op.Sub)
	case *ast.Infix:
		code, ok := binaryOps[expr.Op]
		if !ok {
			c.diags.Errorf(expr.OpPos, errors.E1003, "unknown operator %q", expr.Op)
			return chunk
		}
		chunk.Append(c.compileExpr(expr.Y))
		chunk.Append(c.compileExpr(expr.X))
		chunk.Emit(code)
	case *ast.BadExpr:
		// Reported by the parser.
	}
	return chunk
}

// resolve looks up an identifier and reports it if it is not bound.
func (c *Compiler) resolve(ident *ast.Ident) (*Symbol, bool) {
	sym, ok := c.symbols.Resolve(ident.Name)
	if !ok {
		d := c.diags.Errorf(ident.Pos(), errors.E2001, "undefined variable %q", ident.Name)
		d.Suggestions = errors.SuggestSimilar(ident.Name, c.symbols.Names())
	}
	return sym, ok
}

func (c *Compiler) line(pos token.Pos) int {
	file := c.diags.File()
	if file == nil || !pos.IsValid() {
		return 0
	}
	line, _ := file.Position(pos)
	return line
}
