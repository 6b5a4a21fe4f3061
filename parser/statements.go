package parser

import (
	"github.com/ivylang/ivy/ast"
	"github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/token"
)

// parseStatement parses one statement starting at curToken and leaves
// curToken on its last token. A statement that fails to parse is returned as
// an *ast.BadStmt after skipping to the next statement boundary.
func (p *Parser) parseStatement() ast.Stmt {
	start := p.curToken
	var stmt ast.Stmt
	switch p.curToken.Type {
	case token.LET:
		stmt = p.parseLet()
	case token.PRINT:
		stmt = p.parsePrint()
	case token.IF:
		stmt = p.parseIf()
	case token.WHILE, token.UNTIL:
		stmt = p.parseLoop()
	case token.ELSE, token.END:
		p.errorf(p.curToken, errors.E1001, "unexpected %s outside of a block", describe(p.curToken))
	default:
		stmt = p.parseExpressionStatement()
	}
	if stmt != nil {
		return stmt
	}
	p.synchronize(start.Pos)
	return &ast.BadStmt{From: start.Pos, To: p.curToken.End()}
}

func (p *Parser) parseLet() ast.Stmt {
	letPos := p.curToken.Pos
	if !p.expectPeek("let statement", token.IDENT) {
		return nil
	}
	name := p.newIdent(p.curToken)
	if !p.expectPeek("let statement", token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if !p.expectPeek("let statement", token.SEMICOLON) {
		return nil
	}
	return &ast.Let{Let: letPos, Name: name, Value: value, Semi: p.curToken.Pos}
}

func (p *Parser) parsePrint() ast.Stmt {
	printPos := p.curToken.Pos
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if !p.expectPeek("print statement", token.SEMICOLON) {
		return nil
	}
	return &ast.Print{Print: printPos, Value: value, Semi: p.curToken.Pos}
}

// parseExpressionStatement parses "expr;" and "target = value;".
func (p *Parser) parseExpressionStatement() ast.Stmt {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		eqPos := p.curToken.Pos
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		if !p.expectPeek("assignment", token.SEMICOLON) {
			return nil
		}
		return &ast.Assign{Target: expr, EqPos: eqPos, Value: value, Semi: p.curToken.Pos}
	}
	if !p.expectPeek("expression statement", token.SEMICOLON) {
		return nil
	}
	return &ast.ExprStmt{X: expr, Semi: p.curToken.Pos}
}

func (p *Parser) parseIf() ast.Stmt {
	ifTok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek("if statement", token.COLON) {
		return nil
	}
	stmt := &ast.If{If: ifTok.Pos, Cond: cond}
	var ok bool
	if stmt.Then, ok = p.parseBlock(ifTok, token.ELSE, token.END); !ok {
		return nil
	}
	if p.curTokenIs(token.ELSE) {
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
		}
		if stmt.Else, ok = p.parseBlock(ifTok, token.END); !ok {
			return nil
		}
	}
	stmt.EndPos = p.curToken.Pos
	return stmt
}

func (p *Parser) parseLoop() ast.Stmt {
	loopTok := p.curToken
	kind := ast.While
	if loopTok.Type == token.UNTIL {
		kind = ast.Until
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(kind.String()+" loop", token.COLON) {
		return nil
	}
	body, ok := p.parseBlock(loopTok, token.END)
	if !ok {
		return nil
	}
	return &ast.Loop{
		Keyword: loopTok.Pos,
		Kind:    kind,
		Cond:    cond,
		Body:    body,
		EndPos:  p.curToken.Pos,
	}
}

// parseBlock parses statements after the token at curToken until one of the
// terminators, leaving curToken on the terminator. Reaching the end of the
// input first is reported against the statement that opened the block.
func (p *Parser) parseBlock(opener token.Token, terminators ...token.Type) (*ast.Block, bool) {
	block := &ast.Block{}
	p.nextToken()
	for !p.curTokenIsAny(terminators...) {
		if p.curTokenIs(token.EOF) {
			line, _ := p.position(opener.Pos)
			p.errorf(p.curToken, errors.E1007, "expected 'end' to close %s started on line %d",
				opener.Literal, line)
			return block, false
		}
		if err := p.cancelled(); err != nil {
			return block, false
		}
		if stmt := p.parseStatement(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.advance()
	}
	return block, true
}

func (p *Parser) curTokenIsAny(types ...token.Type) bool {
	for _, t := range types {
		if p.curToken.Type == t {
			return true
		}
	}
	return false
}

func (p *Parser) position(pos token.Pos) (int, int) {
	if file := p.diags.File(); file != nil {
		return file.Position(pos)
	}
	return 0, 0
}
