package parser

import (
	"vlangc/internal/ast"
	"vlangc/internal/lexer"
)

// parseClass parses a class name, optional ".align N"/".size N"
// directives, and a brace-delimited member list. A method member has
// an implicit "this" argument of pointer-to-this-class synthesized
// and appended after its declared arguments.
func (p *Parser) parseClass(parent *ast.Scope) *ast.Class {
	name := p.expectToken()
	align, size := 0, 0
	for p.match(lexer.TokenDot) {
		keyword := p.expectToken()
		switch keyword {
		case "align":
			align = atoi32i(p.expect(lexer.TokenNumber).Lexeme)
		case "size":
			size = atoi32i(p.expect(lexer.TokenNumber).Lexeme)
		default:
			p.fail("unknown class directive %q", keyword)
		}
	}

	node := ast.NewClass(name, parent)
	p.expect(lexer.TokenLBrace)
	for !p.check(lexer.TokenRBrace) {
		inst := p.parseTop(node.Scope)
		if fn, ok := inst.(*ast.Function); ok {
			fn.ThisType = node
			vardec := ast.NewVariableDeclaration(name, "this", 1)
			vardec.RClass = node
			vardec.SkipValidateClassName = true
			vardec.Owner = fn
			fn.Scope.Add("this", vardec)
			fn.Args = append(fn.Args, vardec)
		}
		node.Members = append(node.Members, inst)
	}
	p.expect(lexer.TokenRBrace)
	node.Align = align
	node.Size = size
	if !parent.Add(name, node) {
		p.fail("%q is already declared in this scope", name)
	}
	return node
}

func atoi32i(s string) int {
	v := 0
	for _, c := range s {
		v = v*10 + int(c-'0')
	}
	return v
}
