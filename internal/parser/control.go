package parser

import (
	"vlangc/internal/ast"
	"vlangc/internal/lexer"
)

func (p *Parser) parseIf(scope *ast.Scope) *ast.IfStatement {
	node := ast.NewIfStatement(scope)
	p.expect(lexer.TokenLParen)
	node.Condition = p.parseExpression(scope)
	if node.Condition == nil {
		p.fail("expected condition in if statement")
	}
	p.expect(lexer.TokenRParen)
	p.expect(lexer.TokenLBrace)
	for !p.check(lexer.TokenRBrace) {
		node.Then = append(node.Then, p.parseTop(node.ScopeThen))
	}
	p.expect(lexer.TokenRBrace)

	if p.match(lexer.TokenElse) {
		p.expect(lexer.TokenLBrace)
		for !p.check(lexer.TokenRBrace) {
			node.Else = append(node.Else, p.parseTop(node.ScopeElse))
		}
		p.expect(lexer.TokenRBrace)
	}
	return node
}

func (p *Parser) parseWhile(scope *ast.Scope) *ast.WhileStatement {
	node := ast.NewWhileStatement(scope)
	p.expect(lexer.TokenLParen)
	node.Condition = p.parseExpression(scope)
	if node.Condition == nil {
		p.fail("expected condition in while statement")
	}
	p.expect(lexer.TokenRParen)
	p.expect(lexer.TokenLBrace)
	for !p.check(lexer.TokenRBrace) {
		node.Body = append(node.Body, p.parseTop(node.Scope))
	}
	p.expect(lexer.TokenRBrace)
	return node
}

// parseFor lowers a for loop onto a WhileStatement: the initializer
// lives in the loop's own scope (invisible outside it), a missing
// condition becomes an unconditional "true", and the step statement is
// appended as the body's last entry.
func (p *Parser) parseFor(scope *ast.Scope) *ast.WhileStatement {
	node := ast.NewWhileStatement(scope)
	p.expect(lexer.TokenLParen)

	if !p.check(lexer.TokenSemi) {
		node.Initializer = p.parseDeclOrLabelOrExpr(node.Scope)
	} else {
		p.advance()
	}

	if !p.check(lexer.TokenSemi) {
		node.Condition = p.parseExpression(node.Scope)
	}
	p.match(lexer.TokenSemi)
	if node.Condition == nil {
		node.Condition = ast.NewBoolConstant(true)
	}

	var step ast.Node
	if !p.check(lexer.TokenRParen) {
		step = p.parseExpression(node.Scope)
	}
	p.expect(lexer.TokenRParen)

	p.expect(lexer.TokenLBrace)
	for !p.check(lexer.TokenRBrace) {
		node.Body = append(node.Body, p.parseTop(node.Scope))
	}
	p.expect(lexer.TokenRBrace)
	if step != nil {
		node.Body = append(node.Body, step)
	}
	return node
}
