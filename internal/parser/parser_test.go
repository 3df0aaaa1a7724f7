package parser

import (
	"testing"

	"vlangc/internal/ast"
	"vlangc/internal/lexer"
)

func parseSource(t *testing.T, src string) []ast.Node {
	t.Helper()
	toks := lexer.NewScanner([]byte(src)).ScanTokens()
	scope := ast.NewScope(nil, "")
	items, err := New(toks, "test.vlang").Parse(scope)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return items
}

// TestBinaryRotationPrecedence exercises the rotation-based precedence
// climb: a right-hand side parsed with a looser-ranked operator is
// rotated, so the tighter-ranked operator's sub-expression ends up as
// the tree's left child under the looser top-level operator.
func TestBinaryRotationPrecedence(t *testing.T) {
	items := parseSource(t, "1*2+3;")
	if len(items) != 1 {
		t.Fatalf("want 1 item, got %d", len(items))
	}
	top, ok := items[0].(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("want *ast.BinaryExpression, got %T", items[0])
	}
	if top.Op != '+' {
		t.Fatalf("top operator = %q, want '+'", top.Op)
	}
	rhs, ok := top.RHS.(*ast.Constant)
	if !ok || rhs.I32 != 3 {
		t.Fatalf("top.RHS = %#v, want Constant(3)", top.RHS)
	}
	lhs, ok := top.LHS.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("top.LHS = %T, want *ast.BinaryExpression", top.LHS)
	}
	if lhs.Op != '*' {
		t.Fatalf("top.LHS operator = %q, want '*'", lhs.Op)
	}
	lc, ok1 := lhs.LHS.(*ast.Constant)
	rc, ok2 := lhs.RHS.(*ast.Constant)
	if !ok1 || !ok2 || lc.I32 != 1 || rc.I32 != 2 {
		t.Fatalf("top.LHS children = %#v, %#v, want Constant(1), Constant(2)", lhs.LHS, lhs.RHS)
	}
}

// TestBinaryRotationLeavesHigherRankAlone confirms a right-hand side
// built from a tighter-ranked operator is left exactly where it was
// parsed — only a looser-ranked rhs triggers a rotation.
func TestBinaryRotationLeavesHigherRankAlone(t *testing.T) {
	items := parseSource(t, "1+2*3;")
	top, ok := items[0].(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("want *ast.BinaryExpression, got %T", items[0])
	}
	if top.Op != '+' {
		t.Fatalf("top operator = %q, want '+'", top.Op)
	}
	if _, ok := top.LHS.(*ast.Constant); !ok {
		t.Fatalf("top.LHS = %T, want *ast.Constant", top.LHS)
	}
	rhs, ok := top.RHS.(*ast.BinaryExpression)
	if !ok || rhs.Op != '*' {
		t.Fatalf("top.RHS = %#v, want Binary('*', ...)", top.RHS)
	}
}

// TestParenthesizedSubtreeNeverRotates confirms a parenthesized
// sub-expression survives untouched even though the enclosing operator
// outranks its own.
func TestParenthesizedSubtreeNeverRotates(t *testing.T) {
	items := parseSource(t, "(1+2)*3;")
	top, ok := items[0].(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("want *ast.BinaryExpression, got %T", items[0])
	}
	if top.Op != '*' {
		t.Fatalf("top operator = %q, want '*'", top.Op)
	}
	lhs, ok := top.LHS.(*ast.BinaryExpression)
	if !ok || lhs.Op != '+' || !lhs.Parenthesized {
		t.Fatalf("top.LHS = %#v, want parenthesized Binary('+', ...)", top.LHS)
	}
}

// TestClassAppendsImplicitThisLast confirms a method's synthesized
// "this" argument is appended after any declared arguments, not
// prepended before them.
func TestClassAppendsImplicitThisLast(t *testing.T) {
	items := parseSource(t, "class Point { int add(int n) { return n; } }")
	cls, ok := items[0].(*ast.Class)
	if !ok {
		t.Fatalf("want *ast.Class, got %T", items[0])
	}
	var fn *ast.Function
	for _, m := range cls.Members {
		if f, ok := m.(*ast.Function); ok {
			fn = f
		}
	}
	if fn == nil {
		t.Fatalf("class has no method member")
	}
	if len(fn.Args) != 2 {
		t.Fatalf("method has %d args, want 2 (n, this)", len(fn.Args))
	}
	if fn.Args[0].Name != "n" {
		t.Fatalf("args[0] = %q, want \"n\"", fn.Args[0].Name)
	}
	if fn.Args[1].Name != "this" || fn.Args[1].RClass != cls {
		t.Fatalf("args[1] = %+v, want synthesized \"this\" of class %v", fn.Args[1], cls.Name)
	}
}

// TestOverloadChainSplicesAfterHead confirms a second declaration of
// the same function name is linked onto the existing head's
// NextOverload chain rather than replacing or shadowing it.
func TestOverloadChainSplicesAfterHead(t *testing.T) {
	items := parseSource(t, `
		extern int add(int a, int b);
		extern int add(int a, int b, int c);
	`)
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}
	head, ok := items[0].(*ast.Function)
	if !ok {
		t.Fatalf("want *ast.Function, got %T", items[0])
	}
	if head.NextOverload == nil {
		t.Fatalf("head.NextOverload is nil, want second declaration spliced on")
	}
	if len(head.NextOverload.Args) != 3 {
		t.Fatalf("NextOverload has %d args, want 3", len(head.NextOverload.Args))
	}
}

// TestForLoweredOntoWhile confirms a for-loop is rewritten as a
// WhileStatement: the initializer becomes its Initializer, the loop
// condition its Condition, and the step expression is appended as the
// body's final statement.
func TestForLoweredOntoWhile(t *testing.T) {
	items := parseSource(t, "for (int i = 0; i < 10; i++) { }")
	w, ok := items[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("want *ast.WhileStatement, got %T", items[0])
	}
	if w.Initializer == nil {
		t.Fatalf("Initializer is nil")
	}
	if _, ok := w.Initializer.(*ast.VariableDeclaration); !ok {
		t.Fatalf("Initializer = %T, want *ast.VariableDeclaration", w.Initializer)
	}
	cond, ok := w.Condition.(*ast.BinaryExpression)
	if !ok || cond.Op != '<' {
		t.Fatalf("Condition = %#v, want Binary('<', ...)", w.Condition)
	}
	if len(w.Body) != 1 {
		t.Fatalf("Body has %d statements, want 1 (the appended step)", len(w.Body))
	}
	if _, ok := w.Body[0].(*ast.UnaryExpression); !ok {
		t.Fatalf("Body[0] = %T, want *ast.UnaryExpression (i++)", w.Body[0])
	}
}

func TestForWithoutConditionDefaultsTrue(t *testing.T) {
	items := parseSource(t, "for (;;) { }")
	w, ok := items[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("want *ast.WhileStatement, got %T", items[0])
	}
	c, ok := w.Condition.(*ast.Constant)
	if !ok || c.CType != ast.Boolean || c.I32 != 1 {
		t.Fatalf("Condition = %#v, want Constant(true)", w.Condition)
	}
}

// TestDeclarationWithAssignmentBuildsBinary confirms "type name = rhs;"
// synthesizes both a VariableDeclaration and its backing "=" binary
// expression bound to a matching VariableReference.
func TestDeclarationWithAssignmentBuildsBinary(t *testing.T) {
	items := parseSource(t, "int x = 5;")
	vardec, ok := items[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("want *ast.VariableDeclaration, got %T", items[0])
	}
	if vardec.Assignment == nil {
		t.Fatalf("Assignment is nil")
	}
	if vardec.Assignment.Op != '=' {
		t.Fatalf("Assignment.Op = %q, want '='", vardec.Assignment.Op)
	}
	ref, ok := vardec.Assignment.LHS.(*ast.VariableReference)
	if !ok || ref.Variable != vardec {
		t.Fatalf("Assignment.LHS = %#v, want VariableReference bound to vardec", vardec.Assignment.LHS)
	}
}

func TestDuplicateDeclarationFails(t *testing.T) {
	toks := lexer.NewScanner([]byte("int x; int x;")).ScanTokens()
	scope := ast.NewScope(nil, "")
	_, err := New(toks, "test.vlang").Parse(scope)
	if err == nil {
		t.Fatalf("want a parse error for a duplicate declaration, got nil")
	}
}

func TestLabelAndGoto(t *testing.T) {
	items := parseSource(t, "start: goto start;")
	if _, ok := items[0].(*ast.Label); !ok {
		t.Fatalf("items[0] = %T, want *ast.Label", items[0])
	}
	g, ok := items[1].(*ast.Goto)
	if !ok {
		t.Fatalf("items[1] = %T, want *ast.Goto", items[1])
	}
	if g.Target != "start" {
		t.Fatalf("Goto.Target = %q, want \"start\"", g.Target)
	}
}
