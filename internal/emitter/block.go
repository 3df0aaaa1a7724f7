package emitter

import "vlangc/internal/ast"

// genBlock emits every statement in nodes in order.
func (e *Emitter) genBlock(nodes []ast.Node) {
	for _, n := range nodes {
		e.genStatement(n)
	}
}

func (e *Emitter) genStatement(n ast.Node) {
	switch node := n.(type) {
	case *ast.VariableDeclaration:
		if node.Assignment != nil {
			e.genBinary(node.Assignment)
		}
	case *ast.BinaryExpression:
		e.genBinary(node)
	case *ast.UnaryExpression:
		e.genUnary(node)
	case *ast.FunctionCall:
		e.genCall(node)
	case *ast.IfStatement:
		e.genIf(node)
	case *ast.WhileStatement:
		e.genWhile(node)
	case *ast.Label:
		e.l.AddLabel(node)
	case *ast.Goto:
		e.pushTrue()
		e.l.Branch(e.gotoTarget(node))
	case *ast.ReturnStatement:
		e.genReturn(node)
	case *ast.Nop:
		// no code
	}
}

// gotoTarget resolves a Goto's label through the scope chain rooted at
// the enclosing function, falling back to the target name itself (an
// unresolved goto is a verifier-caught error, never reached here).
func (e *Emitter) gotoTarget(g *ast.Goto) interface{} {
	if l := g.Resolve(e.currentScope); l != nil {
		return l
	}
	return g.Target
}

// genIf pushes the condition and branches to LabelTrue on it; the
// fallthrough path is an unconditional jump to LabelFalse, since
// branch only ever acts on a true top-of-stack value.
func (e *Emitter) genIf(n *ast.IfStatement) {
	e.genExpr(n.Condition)
	e.l.Branch(n.LabelTrue)
	e.pushTrue()
	e.l.Branch(n.LabelFalse)

	e.l.AddLabel(n.LabelTrue)
	prevScope := e.currentScope
	e.currentScope = n.ScopeThen
	e.genBlock(n.Then)
	e.pushTrue()
	e.l.Branch(n.LabelEnd)

	e.l.AddLabel(n.LabelFalse)
	e.currentScope = n.ScopeElse
	e.genBlock(n.Else)
	e.currentScope = prevScope

	e.l.AddLabel(n.LabelEnd)
}

// genWhile negates the evaluated condition via the not intrinsic and
// branches out on that negation, so the loop continues only while the
// source condition holds.
func (e *Emitter) genWhile(n *ast.WhileStatement) {
	if n.Initializer != nil {
		e.genStatement(n.Initializer)
	}
	e.l.AddLabel(n.LabelCheck)
	e.genExpr(n.Condition)
	e.l.Call(notIntrinsic)
	e.l.Branch(n.LabelEnd)

	e.l.AddLabel(n.LabelBegin)
	prevScope := e.currentScope
	e.currentScope = n.Scope
	e.genBlock(n.Body)
	e.currentScope = prevScope
	e.pushTrue()
	e.l.Branch(n.LabelCheck)

	e.l.AddLabel(n.LabelEnd)
}

func (e *Emitter) pushTrue() {
	e.l.Assembler.Push([]byte{1})
}

func (e *Emitter) genReturn(n *ast.ReturnStatement) {
	if n.RetVal != nil {
		e.genExpr(n.RetVal)
	}
	e.genEpilogue(n.Function)
}
