package parser

import (
	"vlangc/internal/ast"
	"vlangc/internal/lexer"
)

// parseTop parses one top-level item or statement in scope: a class,
// function, goto, alias, control-flow form, label, declaration, or
// bare expression statement.
func (p *Parser) parseTop(scope *ast.Scope) ast.Node {
	if p.match(lexer.TokenSemi) {
		return ast.NewNop()
	}

	switch p.peek().Type {
	case lexer.TokenClass:
		p.advance()
		return p.parseClass(scope)
	case lexer.TokenGoto:
		p.advance()
		return p.parseGoto()
	case lexer.TokenExtern:
		return p.parseFunction(scope)
	case lexer.TokenAlias:
		p.advance()
		return p.parseAlias(scope)
	case lexer.TokenIf:
		p.advance()
		return p.parseIf(scope)
	case lexer.TokenWhile:
		p.advance()
		return p.parseWhile(scope)
	case lexer.TokenFor:
		p.advance()
		return p.parseFor(scope)
	case lexer.TokenReturn:
		p.advance()
		return p.parseReturn(scope)
	}

	if p.check(lexer.TokenIdent) {
		if fn := p.tryParseFunction(scope); fn != nil {
			return fn
		}
		return p.parseDeclOrLabelOrExpr(scope)
	}

	e := p.parseExpression(scope)
	if e == nil {
		p.fail("expected a statement")
	}
	return e
}

// tryParseFunction speculatively attempts a function header+body,
// starting from either "rettype name(" or a bare "name(" with no
// return type. On any parse failure it rewinds to the starting
// position and returns nil so the caller can fall back to a
// declaration, label, or expression statement — the same
// speculative-then-rewind pattern the reference parser uses to decide
// whether an identifier begins a function.
func (p *Parser) tryParseFunction(scope *ast.Scope) (fn *ast.Function) {
	mark := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseFailure); ok {
				p.pos = mark
				fn = nil
				return
			}
			panic(r)
		}
	}()
	return p.parseFunctionHeaderAndBody(scope, false)
}

func (p *Parser) parseGoto() *ast.Goto {
	name := p.expectToken()
	p.expect(lexer.TokenSemi)
	return ast.NewGoto(name)
}

func (p *Parser) parseAlias(scope *ast.Scope) *ast.Alias {
	name := p.expectToken()
	dest := p.expectToken()
	p.expect(lexer.TokenSemi)
	val := ast.NewAlias(dest)
	if !scope.Add(name, val) {
		p.fail("%q is already declared in this scope", name)
	}
	return val
}

func (p *Parser) parseReturn(scope *ast.Scope) *ast.ReturnStatement {
	var val ast.Expr
	if !p.check(lexer.TokenSemi) {
		val = p.parseExpression(scope)
	} else {
		p.advance()
	}
	return ast.NewReturnStatement(val)
}

func (p *Parser) parseDeclOrLabelOrExpr(scope *ast.Scope) ast.Node {
	mark := p.pos
	typeName, ptrLevels := p.parseTypeName()
	if p.check(lexer.TokenIdent) {
		name := p.peek().Lexeme
		p.advance()
		switch {
		case p.match(lexer.TokenEqual):
			rhs := p.parseExpression(scope)
			if rhs == nil {
				p.fail("expected initializer expression for %q", name)
			}
			vardec := ast.NewVariableDeclaration(typeName, name, ptrLevels)
			varref := ast.NewVariableReference(scope, name)
			varref.Variable = vardec
			assign := ast.NewBinaryExpression('=', 0, varref, rhs)
			vardec.Assignment = assign
			if !scope.Add(name, vardec) {
				p.fail("%q is already declared in this scope", name)
			}
			return vardec
		case p.match(lexer.TokenSemi):
			vardec := ast.NewVariableDeclaration(typeName, name, ptrLevels)
			if !scope.Add(name, vardec) {
				p.fail("%q is already declared in this scope", name)
			}
			return vardec
		}
	}
	// Not a declaration: rewind and parse a label or an expression
	// statement instead.
	p.pos = mark
	if p.peekAt(1).Type == lexer.TokenColon {
		name := p.expectToken()
		p.expect(lexer.TokenColon)
		label := ast.NewLabel(name)
		if !scope.Add(name, label) {
			p.fail("%q is already declared in this scope", name)
		}
		return label
	}
	e := p.parseExpression(scope)
	if e == nil {
		p.fail("expected a statement")
	}
	return e
}
