// Package parser builds an ast.Node arena from a token stream using a
// recursive-descent parser whose binary-expression precedence climb
// works by rotation rather than a classic minimum-precedence
// threshold: a freshly parsed binary node's right-hand side is rotated
// left when it was built with a lower-ranked, non-parenthesized
// operator.
package parser

import (
	"fmt"

	"vlangc/internal/ast"
	"vlangc/internal/errors"
	"vlangc/internal/lexer"
)

// parseFailure is the panic payload a failed parse uses to unwind to
// Parse's recover. It is never exposed outside this package.
type parseFailure struct{ err *errors.CompileError }

type Parser struct {
	tokens []lexer.Token
	pos    int
	file   string
}

func New(tokens []lexer.Token, file string) *Parser {
	return &Parser{tokens: tokens, file: file}
}

// Parse runs the full top-level grammar against scope (the program's
// global scope) until the token stream is exhausted, or the first
// parse failure, matching the reference implementation's
// stop-at-first-error behavior. It never panics; failures are reported
// through the returned error.
func (p *Parser) Parse(scope *ast.Scope) (items []ast.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pf, ok := r.(parseFailure); ok {
				err = pf.err
				return
			}
			panic(r)
		}
	}()
	for !p.atEnd() {
		items = append(items, p.parseTop(scope))
	}
	return items, nil
}

func (p *Parser) fail(format string, args ...interface{}) {
	loc := errors.Location{File: p.file, Line: p.curLine()}
	panic(parseFailure{errors.NewParseError(loc, format, args...)})
}

func (p *Parser) curLine() int {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].Line
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Line
	}
	return 0
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens) || p.tokens[p.pos].Type == lexer.TokenEOF
}

func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Type: lexer.TokenEOF}
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx < len(p.tokens) {
		return p.tokens[idx]
	}
	return lexer.Token{Type: lexer.TokenEOF}
}

func (p *Parser) advance() lexer.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) check(t lexer.TokenType) bool { return p.peek().Type == t }

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if !p.check(t) {
		p.fail("expected %s, got %s", t, p.peek().Type)
	}
	return p.advance()
}

// isOperatorToken reports whether t can name an overloaded operator
// method, so expectToken can accept it in that position.
func isOperatorToken(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenStar, lexer.TokenSlash,
		lexer.TokenEqual, lexer.TokenLT, lexer.TokenGT, lexer.TokenLE, lexer.TokenGE,
		lexer.TokenPlusEq, lexer.TokenMinusEq, lexer.TokenPlusPlus, lexer.TokenMinusMinus:
		return true
	}
	return false
}

// expectToken consumes an identifier, keyword-as-name, or operator
// lexeme and returns its text — the Go analogue of the reference
// parser's expectToken, which reads either an alnum run or a packed
// operator pair.
func (p *Parser) expectToken() string {
	tok := p.peek()
	if tok.Type == lexer.TokenIdent || isOperatorToken(tok.Type) {
		p.advance()
		return tok.Lexeme
	}
	if isKeywordToken(tok.Type) {
		p.advance()
		return tok.Lexeme
	}
	p.fail("expected a name, got %s", tok.Type)
	return ""
}

func isKeywordToken(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenClass, lexer.TokenGoto, lexer.TokenExtern, lexer.TokenAlias,
		lexer.TokenIf, lexer.TokenElse, lexer.TokenWhile, lexer.TokenFor,
		lexer.TokenReturn, lexer.TokenTrue, lexer.TokenFalse:
		return true
	}
	return false
}

// parseTypeName reads a base type name followed by zero or more '*'
// pointer markers.
func (p *Parser) parseTypeName() (name string, pointerLevels int) {
	name = p.expectToken()
	for p.match(lexer.TokenStar) {
		pointerLevels++
	}
	return name, pointerLevels
}

func (p *Parser) String() string { return fmt.Sprintf("parser@%d", p.pos) }
