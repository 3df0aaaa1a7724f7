package parser

import (
	"vlangc/internal/ast"
	"vlangc/internal/lexer"
)

// parseFunctionHeaderAndBody parses a full function: an optional
// "extern" marker, a return type (or none, when the name is
// immediately followed by "("), a parenthesized argument list of
// "type name" pairs, and either a ";" (for an extern declaration) or a
// brace-delimited body. forceExtern lets the explicit "extern"
// top-level case reuse this routine.
func (p *Parser) parseFunctionHeaderAndBody(scope *ast.Scope, forceExtern bool) *ast.Function {
	isExtern := forceExtern
	if p.match(lexer.TokenExtern) {
		isExtern = true
	}

	first := p.expectToken()
	var name, returnType string
	returnPointerLevels := 0
	for p.match(lexer.TokenStar) {
		returnPointerLevels++
	}
	if p.check(lexer.TokenLParen) {
		name = first
	} else {
		returnType = first
		name = p.expectToken()
	}

	fn := ast.NewFunction(name, scope)
	fn.IsExtern = isExtern
	fn.ReturnTypeName = returnType
	fn.ReturnPointerLevels = returnPointerLevels

	p.expect(lexer.TokenLParen)
	for !p.check(lexer.TokenRParen) {
		vartype, ptrLevels := p.parseTypeName()
		argName := p.expectToken()
		vardec := ast.NewVariableDeclaration(vartype, argName, ptrLevels)
		vardec.Owner = fn
		if !fn.Scope.Add(argName, vardec) {
			p.fail("duplicate argument name %q", argName)
		}
		fn.Args = append(fn.Args, vardec)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRParen)

	if isExtern && p.match(lexer.TokenSemi) {
		registerOverload(scope, name, fn)
		return fn
	}

	p.expect(lexer.TokenLBrace)
	for !p.check(lexer.TokenRBrace) {
		fn.Body = append(fn.Body, p.parseTop(fn.Scope))
	}
	p.expect(lexer.TokenRBrace)

	registerOverload(scope, name, fn)
	return fn
}

func (p *Parser) parseFunction(scope *ast.Scope) *ast.Function {
	return p.parseFunctionHeaderAndBody(scope, true)
}

// registerOverload binds fn into scope under name, chaining it onto an
// existing overload set's NextOverload list when the name is already
// bound to a function.
func registerOverload(scope *ast.Scope, name string, fn *ast.Function) {
	if scope.Add(name, fn) {
		return
	}
	existing := scope.Resolve(name)
	head, ok := existing.(*ast.Function)
	if !ok {
		return
	}
	fn.NextOverload = head.NextOverload
	head.NextOverload = fn
}
