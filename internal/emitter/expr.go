package emitter

import "vlangc/internal/ast"

const (
	ptradd       = "__uvm_intrinsic_ptradd"
	notIntrinsic = "__uvm_intrinsic_not"
)

func int32Bytes(v int32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func int64Bytes(v int64) []byte {
	return []byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}
}

// genExpr generates code for expression exp. A value-producing
// expression leaves its value on the stack; an implicit "=" store
// consumes its operands and leaves nothing.
func (e *Emitter) genExpr(exp ast.Expr) {
	switch n := exp.(type) {
	case *ast.BinaryExpression:
		e.genBinary(n)
	case *ast.UnaryExpression:
		e.genUnary(n)
	case *ast.FunctionCall:
		e.genCall(n)
	case *ast.Constant:
		e.genConstant(n)
	case *ast.VariableReference:
		e.genVariableRef(n)
	}
}

func (e *Emitter) genBinary(b *ast.BinaryExpression) {
	if b.Function == nil {
		e.genExpr(b.RHS)
		e.genExpr(b.LHS)
		if b.Op == '=' {
			e.l.Assembler.Store()
		}
		return
	}
	e.genExpr(b.Function)
}

func (e *Emitter) genUnary(u *ast.UnaryExpression) {
	if u.Function != nil {
		e.genExpr(u.Function)
		return
	}
	switch u.Op {
	case '&':
		setIsReference(u.Operand, true)
		e.genExpr(u.Operand)
	case '*':
		sz := pointerWordSize
		if retType := returnTypeOf(u.Operand); retType != nil && retType.PointerLevels == 0 {
			sz = retType.Type.Size
		}
		e.genExpr(u.Operand)
		if !u.IsReference {
			e.l.Assembler.Push(int64Bytes(int64(sz)))
			e.l.Assembler.Load()
		}
	}
}

func (e *Emitter) genCall(call *ast.FunctionCall) {
	fn := call.Callee.Function
	for i := len(call.Args) - 1; i >= 0; i-- {
		e.genExpr(call.Args[i])
	}
	if fn.LambdaCapture != nil {
		members := fn.LambdaCapture.Members
		for i := len(members) - 1; i >= 0; i-- {
			vardec := members[i].(*ast.VariableDeclaration)
			e.l.Assembler.GetRSP()
			e.l.Assembler.Push(int64Bytes(int64(vardec.LambdaRef.StackOffset)))
			e.l.Call(ptradd)
		}
	}
	e.l.Call(fn.Mangle())
}

func (e *Emitter) genConstant(c *ast.Constant) {
	switch c.CType {
	case ast.Boolean:
		e.l.Assembler.Push([]byte{byte(c.I32)})
	case ast.Integer:
		e.l.Assembler.Push(int32Bytes(c.I32))
	}
	if c.IsReference {
		e.l.Assembler.VRef()
	}
}

func (e *Emitter) genVariableRef(ref *ast.VariableReference) {
	v := ref.Variable
	e.l.Assembler.GetRSP()
	e.l.Assembler.Push(int64Bytes(int64(v.StackOffset)))
	e.l.Call(ptradd)

	if v.IsReference {
		e.l.Assembler.Push(int64Bytes(pointerWordSize))
		e.l.Assembler.Load()
	}
	if !ref.IsReference {
		size := pointerWordSize
		if v.PointerLevels == 0 {
			size = v.RClass.Size
		}
		e.l.Assembler.Push(int64Bytes(int64(size)))
		e.l.Assembler.Load()
	}
}

func returnTypeOf(e ast.Expr) *ast.TypeInfo {
	switch v := e.(type) {
	case *ast.Constant:
		return v.ReturnType
	case *ast.BinaryExpression:
		return v.ReturnType
	case *ast.UnaryExpression:
		return v.ReturnType
	case *ast.VariableReference:
		return v.ReturnType
	case *ast.FunctionCall:
		return v.ReturnType
	}
	return nil
}

func setIsReference(e ast.Expr, v bool) {
	switch x := e.(type) {
	case *ast.Constant:
		x.IsReference = v
	case *ast.BinaryExpression:
		x.IsReference = v
	case *ast.UnaryExpression:
		x.IsReference = v
	case *ast.VariableReference:
		x.IsReference = v
	case *ast.FunctionCall:
		x.IsReference = v
	}
}
