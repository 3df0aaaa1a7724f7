package parser

import (
	"vlangc/internal/ast"
	"vlangc/internal/lexer"
)

// rank orders a binary operator's primary byte for the rotation climb.
// Values and ordering come straight from the reference parser; only
// their relative order matters.
func rank(op byte) int {
	switch op {
	case '=':
		return -2
	case '<', '>':
		return -1
	case '-':
		return 0
	case '+':
		return 1
	case '*':
		return 2
	case '/':
		return 3
	}
	return 0
}

// parseExpression parses one full expression: a primary, then as many
// trailing operators/calls as chain onto it.
func (p *Parser) parseExpression(scope *ast.Scope) ast.Expr {
	prim := p.parsePrimary(scope)
	if prim == nil {
		return nil
	}
	return p.continueExpression(scope, prim)
}

func (p *Parser) parsePrimary(scope *ast.Scope) ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		return ast.NewIntConstant(atoi32(tok.Lexeme))
	case lexer.TokenTrue:
		p.advance()
		return ast.NewBoolConstant(true)
	case lexer.TokenFalse:
		p.advance()
		return ast.NewBoolConstant(false)
	case lexer.TokenIdent:
		p.advance()
		return ast.NewVariableReference(scope, tok.Lexeme)
	case lexer.TokenLParen:
		p.advance()
		sub := p.parseExpression(scope)
		if sub == nil {
			p.fail("expected expression after '('")
		}
		p.expect(lexer.TokenRParen)
		if bexp, ok := sub.(*ast.BinaryExpression); ok {
			bexp.Parenthesized = true
		}
		return sub
	case lexer.TokenStar, lexer.TokenAmp:
		p.advance()
		operand := p.parsePrimary(scope)
		if operand == nil {
			p.fail("expected operand after '%s'", tok.Lexeme)
		}
		return ast.NewUnaryExpression(tok.Lexeme[0], 0, operand)
	}
	return nil
}

// continueExpression implements the rotation-based precedence climb:
// each binary operator found after prev is parsed with its own
// right-hand side, then rotated left if that right-hand side is a
// lower-ranked, unparenthesized binary expression — preserving
// left-associativity without a precedence table driving recursion
// depth.
func (p *Parser) continueExpression(scope *ast.Scope, prev ast.Expr) ast.Expr {
	tok := p.peek()
	switch {
	case tok.Type == lexer.TokenLParen:
		callee, ok := prev.(*ast.VariableReference)
		if !ok {
			p.fail("cannot call a non-function expression")
		}
		p.advance()
		call := ast.NewFunctionCall(callee)
		for !p.check(lexer.TokenRParen) {
			arg := p.parseExpression(scope)
			if arg == nil {
				p.fail("expected argument expression")
			}
			call.Args = append(call.Args, arg)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.expect(lexer.TokenRParen)
		return p.continueExpression(scope, call)

	case tok.Type == lexer.TokenSemi:
		p.advance()
		return prev

	case tok.Type == lexer.TokenPlusPlus || tok.Type == lexer.TokenMinusMinus:
		p.advance()
		op := tok.Lexeme[0]
		return ast.NewUnaryExpression(op, op, prev)

	case isBinaryOpToken(tok.Type):
		op, op2 := opBytes(tok.Lexeme)
		p.advance()
		rhs := p.parseExpression(scope)
		if rhs == nil {
			p.fail("expected right-hand side of '%s'", tok.Lexeme)
		}
		bexp := ast.NewBinaryExpression(op, op2, prev, rhs)
		if rnode, ok := bexp.RHS.(*ast.BinaryExpression); ok {
			if rank(rnode.Op) < rank(bexp.Op) && !rnode.Parenthesized {
				// rnode IS bexp.RHS, so a simultaneous swap of the two
				// nodes' fields aliases through that shared pointer.
				// Stage every new value in a local first: bexp keeps
				// rnode as its LHS (now the tighter sub-expression),
				// and only the RHS/LHS values that actually move get
				// written.
				bexp.Op, rnode.Op = rnode.Op, bexp.Op
				bexp.Op2, rnode.Op2 = rnode.Op2, bexp.Op2

				newRnodeLHS := bexp.LHS
				newRnodeRHS := rnode.LHS
				newBexpRHS := rnode.RHS
				rnode.LHS, rnode.RHS = newRnodeLHS, newRnodeRHS
				bexp.RHS = newBexpRHS
				bexp.LHS = rnode
			}
		}
		return bexp
	}
	return prev
}

func isBinaryOpToken(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenStar, lexer.TokenSlash, lexer.TokenEqual,
		lexer.TokenLT, lexer.TokenGT, lexer.TokenLE, lexer.TokenGE, lexer.TokenPlusEq, lexer.TokenMinusEq:
		return true
	}
	return false
}

// opBytes splits a combined operator lexeme (">=", "+=", ...) into its
// primary and secondary bytes; single-character operators carry op2 == 0.
func opBytes(lexeme string) (op, op2 byte) {
	op = lexeme[0]
	if len(lexeme) > 1 {
		op2 = lexeme[1]
	}
	return
}

func atoi32(s string) int32 {
	var v int32
	for _, c := range s {
		v = v*10 + int32(c-'0')
	}
	return v
}
