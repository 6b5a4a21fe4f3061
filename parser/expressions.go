package parser

import (
	"math"
	"strconv"

	"github.com/ivylang/ivy/ast"
	"github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/token"
)

// parseExpression parses an expression using precedence climbing. Operators
// binding tighter than precedence are folded into the result; curToken is
// left on the last token of the expression.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.errorf(p.curToken, errors.E1003, "maximum nesting depth exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		if left = infix(left); left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	switch t.Type {
	case token.SEMICOLON, token.RPAREN, token.EOF, token.END, token.ELSE, token.COLON:
		p.errorf(t, errors.E1004, "expected an expression, found %s", describe(t))
	default:
		p.errorf(t, errors.E1003, "invalid syntax (unexpected %s)", describe(t))
	}
}

// illegalToken fails the expression. The lexer has already reported the
// character.
func (p *Parser) illegalToken() ast.Expr {
	return nil
}

func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.Pos, Name: tok.Literal}
}

func (p *Parser) parseIdent() ast.Expr {
	return p.newIdent(p.curToken)
}

func (p *Parser) parseInt() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorf(tok, errors.E1008, "integer literal %s does not fit in 64 bits", tok.Literal)
		return nil
	}
	return &ast.Int{ValuePos: tok.Pos, Literal: tok.Literal, Value: value}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	opTok := p.curToken
	// The smallest int64 has no positive counterpart, so "-9223372036854775808"
	// is read as a single literal.
	if p.peekTokenIs(token.INT) && p.peekToken.Pos == opTok.End() {
		if value, err := strconv.ParseInt("-"+p.peekToken.Literal, 10, 64); err == nil && value == math.MinInt64 {
			p.nextToken()
			return &ast.Int{ValuePos: opTok.Pos, Literal: "-" + p.curToken.Literal, Value: value}
		}
	}
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.Prefix{OpPos: opTok.Pos, Op: opTok.Literal, X: operand}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	opTok := p.curToken
	precedence := p.currentPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.Infix{X: left, OpPos: opTok.Pos, Op: opTok.Literal, Y: right}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	lparen := p.curToken.Pos
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek("grouped expression", token.RPAREN) {
		return nil
	}
	return &ast.Paren{Lparen: lparen, X: expr, Rparen: p.curToken.Pos}
}
