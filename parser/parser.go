// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
//
// The parser does not stop at the first syntax error. Each error is reported
// to an errors.Diagnostics collector, the parser skips ahead to the next
// statement boundary, and parsing continues. The returned program then holds
// ast.BadStmt nodes where statements could not be parsed.
package parser

import (
	"context"
	"fmt"

	"github.com/ivylang/ivy/ast"
	"github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/internal/lexer"
	"github.com/ivylang/ivy/source"
	"github.com/ivylang/ivy/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parse the provided input as Ivy source code and return the AST. This is
// shorthand way to create a Lexer and Parser and then call Parse on that.
// When no Diagnostics collector is supplied, one is created for the input.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	probe := &Parser{filename: defaultFilename}
	for _, opt := range options {
		opt(probe)
	}
	if probe.diags == nil {
		file := source.FromString(probe.filename, input)
		options = append(options, WithDiagnostics(errors.NewDiagnostics(file)))
	}
	return New(lexer.New(input), options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in diagnostics when Parse creates the
// collector itself.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithDiagnostics sets the collector that syntax errors are reported to.
func WithDiagnostics(diags *errors.Diagnostics) Option {
	return func(p *Parser) {
		p.diags = diags
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

const defaultFilename = "<input>"

// Parser object
type Parser struct {
	ctx context.Context

	l *lexer.Lexer

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	diags *errors.Diagnostics

	// hold keeps curToken in place for the next statement after error
	// recovery stopped on a token that begins a statement or closes a block.
	hold bool

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	filename string
	depth    int
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		filename:       defaultFilename,
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.diags == nil {
		p.diags = errors.NewDiagnostics(nil)
	}

	// Prime the token pump
	p.nextToken()
	p.nextToken()

	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.ILLEGAL, p.illegalToken)

	for _, typ := range []token.Type{
		token.LT, token.GT, token.LT_LT, token.GT_GT,
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH,
	} {
		p.registerInfix(typ, p.parseInfixExpr)
	}
	return p
}

// Diagnostics returns the collector that syntax errors were reported to.
func (p *Parser) Diagnostics() *errors.Diagnostics {
	return p.diags
}

// nextToken moves to the next token from the lexer. Lexer errors are
// reported as soon as the offending token is read.
func (p *Parser) nextToken() {
	var err error
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	if lexErr, ok := err.(*lexer.Error); ok {
		p.diags.Errorf(lexErr.Pos, errors.E1002, "%s", lexErr.Message)
	}
}

// advance moves past the current statement, unless error recovery asked to
// keep the current token.
func (p *Parser) advance() {
	if p.hold {
		p.hold = false
		return
	}
	p.nextToken()
}

// Parse the program that is provided via the lexer.
// Returns the AST and any errors encountered. If there are errors, the AST
// holds ast.BadStmt nodes for the statements that failed.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		if err := p.cancelled(); err != nil {
			return program, err
		}
		if stmt := p.parseStatement(); stmt != nil {
			program.Stmts = append(program.Stmts, stmt)
		}
		p.advance()
	}
	return program, p.diags.Err()
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// cancelled checks if the parsing context has been cancelled.
func (p *Parser) cancelled() error {
	if p.ctx == nil {
		return nil
	}
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	default:
		return nil
	}
}

// isBoundary reports whether a token starts a statement or closes a block.
func isBoundary(t token.Type) bool {
	switch t {
	case token.LET, token.PRINT, token.IF, token.WHILE, token.UNTIL,
		token.ELSE, token.END, token.EOF:
		return true
	}
	return false
}

// synchronize skips tokens until a statement boundary is reached, leaving
// curToken on the last token that belongs to the failed statement. If the
// failure happened on a token that begins the next statement or closes the
// enclosing block, that token is kept for the statement loop.
func (p *Parser) synchronize(start token.Pos) {
	if isBoundary(p.curToken.Type) && p.curToken.Pos != start {
		p.hold = true
		return
	}
	for !p.curTokenIs(token.SEMICOLON) && !isBoundary(p.peekToken.Type) {
		p.nextToken()
	}
}

func (p *Parser) errorf(tok token.Token, code errors.ErrorCode, format string, args ...any) {
	p.diags.Errorf(tok.Pos, code, format, args...)
}

// expectPeek advances if the next token has the given type, and reports an
// error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	code := errors.E1001
	if t == token.IDENT {
		code = errors.E1006
	}
	p.errorf(p.peekToken, code, "unexpected %s while parsing %s (expected %s)",
		describe(p.peekToken), context, t)
	return false
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT, token.INT, token.ILLEGAL:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	}
	return tok.Type.String()
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) currentPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}
