// Package verifier performs semantic analysis over an ast.Node arena
// built by the parser: name resolution, literal typing, operator
// lowering to method calls, function-overload resolution, class
// layout, and lambda-capture synthesis. It mutates nodes in place and
// sets Validated once a node's analysis succeeds, exactly as the
// reference verifier does; the emitter only ever sees validated nodes.
package verifier

import (
	"vlangc/internal/ast"
	"vlangc/internal/errors"
)

// pointerWordSize is the machine word size the target VM uses for any
// pointer or reference slot, independent of the pointee's own size.
const pointerWordSize = 8

type Verifier struct {
	rootScope *ast.Scope
	current   *ast.Scope
	currentFn *ast.Function

	silent bool
	Errors errors.List
}

func New(rootScope *ast.Scope) *Verifier {
	return &Verifier{rootScope: rootScope, current: rootScope}
}

func (v *Verifier) error(format string, args ...interface{}) {
	if v.silent {
		return
	}
	v.Errors = append(v.Errors, errors.New(errors.TypeError, errors.Location{}, format, args...))
}

func (v *Verifier) errorKind(kind errors.Kind, format string, args ...interface{}) {
	if v.silent {
		return
	}
	v.Errors = append(v.Errors, errors.New(kind, errors.Location{}, format, args...))
}

// Validate runs validateNode over every top-level item, stopping at
// the first failure exactly as the reference implementation does.
func (v *Verifier) Validate(items []ast.Node) bool {
	return v.validateAll(items)
}

func (v *Verifier) validateAll(items []ast.Node) bool {
	for _, n := range items {
		if !v.validateNode(n) {
			return false
		}
	}
	return true
}

func (v *Verifier) validateNode(node ast.Node) bool {
	if node == nil {
		return false
	}
	if node.IsValidated() {
		return true
	}
	switch n := node.(type) {
	case *ast.Constant, *ast.UnaryExpression, *ast.VariableReference:
		return v.validateExpression(n.(ast.Expr))
	case *ast.BinaryExpression:
		return v.validateExpression(n)
	case *ast.Class:
		return v.validateClass(n)
	case *ast.Function:
		return v.validateFunction(n)
	case *ast.VariableDeclaration:
		return v.validateDeclaration(n)
	case *ast.FunctionCall:
		return v.validateFunctionCall(n)
	case *ast.Alias:
		n.SetValidated(true)
		return true
	case *ast.IfStatement:
		return v.validateIf(n)
	case *ast.WhileStatement:
		return v.validateWhile(n)
	case *ast.Nop, *ast.Label:
		node.SetValidated(true)
		return true
	case *ast.Goto:
		return v.validateGoto(n)
	case *ast.ReturnStatement:
		return v.validateReturn(n)
	}
	v.errorKind(errors.StructuralError, "unsupported node kind %v", node.NodeKind())
	return false
}

func (v *Verifier) resolveClass(scope *ast.Scope, name string) *ast.Class {
	n := scope.Resolve(name)
	if n == nil {
		v.errorKind(errors.NameResolutionError, "unable to resolve type named %q", name)
		return nil
	}
	cls, ok := n.(*ast.Class)
	if !ok {
		v.errorKind(errors.NameResolutionError, "unable to resolve type named %q", name)
		return nil
	}
	return cls
}

func (v *Verifier) validateExpression(exp ast.Expr) bool {
	switch e := exp.(type) {
	case *ast.Constant:
		return v.validateConstant(e)
	case *ast.BinaryExpression:
		return v.validateBinary(e)
	case *ast.UnaryExpression:
		return v.validateUnary(e)
	case *ast.VariableReference:
		return v.validateVariableReference(e)
	}
	v.errorKind(errors.StructuralError, "unsupported expression type")
	return false
}

func (v *Verifier) validateConstant(c *ast.Constant) bool {
	var typeName string
	isPtr := 0
	switch c.CType {
	case ast.Character:
		typeName = "char"
	case ast.Integer:
		typeName = "int"
	case ast.String:
		typeName = "char"
		isPtr = 1
	case ast.Boolean:
		typeName = "bool"
	}
	cls := v.rootScope.Resolve(typeName)
	class, _ := cls.(*ast.Class)
	if class == nil {
		v.errorKind(errors.EnvironmentError, "build environment has no primitive class %q", typeName)
		return false
	}
	c.ReturnType = &ast.TypeInfo{Type: class, PointerLevels: isPtr}
	c.SetValidated(true)
	return true
}

func (v *Verifier) validateBinary(b *ast.BinaryExpression) bool {
	if !v.validateNode(b.LHS) || !v.validateNode(b.RHS) {
		return false
	}
	lhsType := returnTypeOf(b.LHS)
	rhsType := returnTypeOf(b.RHS)
	if lhsType == nil || rhsType == nil {
		v.errorKind(errors.TypeError, "operand has no resolved type")
		return false
	}
	if lhsType.PointerLevels != rhsType.PointerLevels {
		v.errorKind(errors.TypeError, "cannot perform %s on %s", b.OpString(), lhsType.Type.Name)
		return false
	}

	setIsReference(b.LHS, true)
	opName := b.OpString()
	m := lhsType.Type.Scope.Resolve(opName)
	if m == nil {
		if b.Op == '=' {
			b.Function = nil
			b.SetValidated(true)
			b.ReturnType = rhsType
			return true
		}
		v.errorKind(errors.OperatorResolutionError, "unable to resolve operator %s on %s", opName, lhsType.Type.Name)
		return false
	}
	fn, ok := m.(*ast.Function)
	if !ok {
		v.errorKind(errors.StructuralError, "compiler bug: function call overloading not yet supported")
		return false
	}
	varref := ast.NewVariableReference(lhsType.Type.Scope, fn.Name)
	varref.Function = fn
	call := ast.NewFunctionCall(varref)
	call.Args = []ast.Expr{b.RHS, b.LHS}
	if !v.validateNode(call) {
		return false
	}
	b.Function = call
	b.ReturnType = returnTypeOf(call)
	b.SetValidated(true)
	return true
}

func (v *Verifier) validateUnary(u *ast.UnaryExpression) bool {
	setIsReference(u.Operand, true)
	if !v.validateNode(u.Operand) {
		return false
	}
	baseInfo := returnTypeOf(u.Operand)
	opName := u.OpString()

	varref := ast.NewVariableReference(baseInfo.Type.Scope, opName)
	call := ast.NewFunctionCall(varref)
	call.Args = []ast.Expr{u.Operand}

	v.silent = true
	ok := v.validateNode(call)
	v.silent = false
	if !ok {
		setIsReference(u.Operand, false)
		call = nil
	}

	if call == nil {
		if u.Op == '&' {
			if _, ok := u.Operand.(*ast.VariableReference); ok {
				u.Function = nil
				u.ReturnType = &ast.TypeInfo{Type: baseInfo.Type, PointerLevels: 1}
				u.SetValidated(true)
				return true
			}
		}
		if u.Op == '*' && baseInfo.PointerLevels > 0 {
			u.Function = nil
			u.ReturnType = &ast.TypeInfo{Type: baseInfo.Type, PointerLevels: baseInfo.PointerLevels - 1}
			u.SetValidated(true)
			return true
		}
		v.errorKind(errors.OperatorResolutionError, "unable to resolve %s on %s", opName, baseInfo.Type.Name)
		return false
	}
	u.ReturnType = returnTypeOf(call)
	u.Function = call
	u.SetValidated(true)
	return true
}

func (v *Verifier) validateVariableReference(ref *ast.VariableReference) bool {
	if !ref.Resolve() {
		v.errorKind(errors.NameResolutionError, "unable to resolve %q", ref.ID)
		return false
	}
	if ref.Function != nil {
		ref.ReturnType = &ast.TypeInfo{Type: ref.Function.ReturnType.Type, PointerLevels: ref.Function.ReturnType.PointerLevels}
		ref.SetValidated(true)
		return true
	}
	v.validateNode(ref.Variable)
	ref.ReturnType = &ast.TypeInfo{Type: ref.Variable.RClass, PointerLevels: ref.Variable.PointerLevels}

	if v.currentFn != ref.Variable.Owner {
		v.captureForLambda(ref)
	}
	ref.SetValidated(true)
	return true
}

// captureForLambda rewrites ref.Variable to point at a synthetic
// by-reference member of the current function's (lazily allocated)
// anonymous capture class, the first time a given outer variable is
// referenced from inside that function.
func (v *Verifier) captureForLambda(ref *ast.VariableReference) {
	if v.currentFn.LambdaCapture == nil {
		v.currentFn.LambdaCapture = ast.NewLambdaCapture(v.currentFn.Scope)
	}
	capture := v.currentFn.LambdaCapture
	if existing, ok := capture.LambdaRemap[ref.Variable]; ok {
		ref.Variable = existing
		return
	}
	vardec := ast.NewVariableDeclaration("", "", ref.Variable.PointerLevels)
	vardec.RClass = ref.Variable.RClass
	vardec.SkipValidateClassName = true
	vardec.Owner = v.currentFn
	vardec.IsReference = true
	vardec.LambdaRef = ref.Variable
	capture.Members = append(capture.Members, vardec)
	capture.LambdaRemap[ref.Variable] = vardec
	ref.Variable = vardec
}

func (v *Verifier) validateDeclaration(d *ast.VariableDeclaration) bool {
	if !d.SkipValidateClassName {
		cls := v.resolveClass(v.current, d.VarTypeName)
		if cls == nil {
			return false
		}
		d.RClass = cls
	}
	if d.Assignment != nil && !d.IsValidatingAssignment {
		d.IsValidatingAssignment = true
		ok := v.validateNode(d.Assignment)
		d.IsValidatingAssignment = false
		d.SetValidated(ok)
		return ok
	}
	d.SetValidated(true)
	return true
}

// resolveOverload walks a function's overload chain to find one whose
// argument count and types match the call site. On total failure — no
// chain member both type-checks and matches — it returns the LAST
// candidate examined, not nil, so the caller reports a message about
// that specific signature.
func (v *Verifier) resolveOverload(call *ast.FunctionCall) *ast.Function {
	fn := call.Callee.Function
	for {
		if !v.validateNode(fn) {
			return fn
		}
		if len(fn.Args) != len(call.Args) {
			if fn.NextOverload == nil {
				return fn
			}
			fn = fn.NextOverload
			continue
		}
		matched := true
		for i, arg := range call.Args {
			if !v.validateNode(arg) {
				return fn
			}
			argType := returnTypeOf(arg)
			want := fn.Args[i]
			if want.RClass != argType.Type || want.PointerLevels != argType.PointerLevels+refInt(arg) {
				matched = false
				break
			}
		}
		if matched {
			return fn
		}
		if fn.NextOverload == nil {
			return fn
		}
		fn = fn.NextOverload
	}
}

func (v *Verifier) validateFunctionCall(call *ast.FunctionCall) bool {
	if !v.validateNode(call.Callee) {
		return false
	}
	function := v.resolveOverload(call)
	if !v.validateNode(function) {
		return false
	}
	call.Callee.Function = function
	if len(call.Args) != len(function.Args) {
		v.errorKind(errors.TypeError, "invalid number of arguments to %s: expected %d, got %d",
			function.Name, len(function.Args), len(call.Args))
		return false
	}
	for _, arg := range call.Args {
		if !v.validateNode(arg) {
			return false
		}
	}
	for i, arg := range call.Args {
		want := function.Args[i]
		argType := returnTypeOf(arg)
		if want.RClass != argType.Type || want.PointerLevels != argType.PointerLevels+refInt(arg) {
			v.errorKind(errors.TypeError, "invalid argument type: expected %s, got %s", want.RClass.Name, argType.Type.Name)
			return false
		}
	}
	call.ReturnType = function.ReturnType
	call.SetValidated(true)
	return true
}

func (v *Verifier) validateClass(cls *ast.Class) bool {
	init := ast.NewFunction(".init", cls.Scope)
	init.IsExtern = false
	init.Body = cls.Members
	cls.Init = init
	v.current = cls.Scope

	// Resolve member types before computing layout below. The reference
	// computes layout first and validates second, reading each member's
	// resolved class off of an as-yet-unvalidated declaration; ported
	// literally that is a nil dereference the moment a class has a
	// plain (non-pointer, non-reference) member, so member resolution
	// runs first here instead.
	if !v.validateNode(init) {
		return false
	}

	if cls.Align == 0 {
		cls.Align = 1
	}
	minSize := 0
	for _, inst := range cls.Members {
		vdec, ok := inst.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		size, align := pointerWordSize, pointerWordSize
		if vdec.PointerLevels == 0 && !vdec.IsReference {
			size = vdec.RClass.Size
			align = vdec.RClass.Align
		}
		minSize += size
		// This mirrors the reference layout rule verbatim: alignment is
		// multiplied in only when it does not already divide evenly,
		// which is not the same as taking an LCM.
		if cls.Align%align != 0 {
			cls.Align *= align
		}
	}
	if cls.Size < minSize {
		cls.Size = minSize
	}
	if cls.Size == 0 {
		cls.Size = 1
	}

	cls.SetValidated(true)
	return true
}

func (v *Verifier) validateFunction(fn *ast.Function) bool {
	prevFn := v.currentFn
	prevScope := v.current
	v.current = fn.Scope
	v.currentFn = fn

	if fn.ReturnTypeName != "" && fn.ReturnType == nil {
		cls := v.resolveClass(fn.Scope, fn.ReturnTypeName)
		if cls == nil {
			v.currentFn = prevFn
			v.current = prevScope
			return false
		}
		fn.ReturnType = &ast.TypeInfo{Type: cls, PointerLevels: fn.ReturnPointerLevels}
	}

	for _, arg := range fn.Args {
		if !v.validateNode(arg) {
			v.currentFn = prevFn
			v.current = prevScope
			return false
		}
	}

	for _, op := range fn.Body {
		switch n := op.(type) {
		case *ast.ReturnStatement:
			n.Function = fn
		case *ast.VariableDeclaration:
			n.Owner = fn
			fn.Vars = append(fn.Vars, n)
		}
	}

	rval := v.validateAll(fn.Body)
	if fn.LambdaCapture != nil {
		rval = rval && v.validateNode(fn.LambdaCapture)
	}
	v.currentFn = prevFn
	v.current = prevScope
	fn.SetValidated(rval)
	return rval
}

func (v *Verifier) validateIf(n *ast.IfStatement) bool {
	if !v.validateNode(n.Condition) {
		return false
	}
	if !v.validateAll(n.Then) {
		return false
	}
	if !v.validateAll(n.Else) {
		return false
	}
	n.SetValidated(true)
	return true
}

func (v *Verifier) validateWhile(n *ast.WhileStatement) bool {
	if !v.validateNode(n.Condition) {
		return false
	}
	if !v.validateAll(n.Body) {
		return false
	}
	n.SetValidated(true)
	return true
}

func (v *Verifier) validateGoto(g *ast.Goto) bool {
	if g.Resolve(v.current) == nil {
		v.errorKind(errors.NameResolutionError, "unable to find %q", g.Target)
	}
	g.SetValidated(true)
	return true
}

func (v *Verifier) validateReturn(r *ast.ReturnStatement) bool {
	if r.Function == nil {
		v.errorKind(errors.StructuralError, "cannot return outside of a function")
		return false
	}
	if r.RetVal == nil {
		r.SetValidated(true)
		return true
	}
	if !v.validateExpression(r.RetVal) {
		return false
	}
	retType := returnTypeOf(r.RetVal)
	want := r.Function.ReturnType
	if want == nil || retType.PointerLevels != want.PointerLevels || retType.Type != want.Type {
		v.errorKind(errors.TypeError, "return type mismatch in %s", r.Function.Name)
		return false
	}
	r.SetValidated(true)
	return true
}

func returnTypeOf(e ast.Node) *ast.TypeInfo {
	switch n := e.(type) {
	case *ast.Constant:
		return n.ReturnType
	case *ast.BinaryExpression:
		return n.ReturnType
	case *ast.UnaryExpression:
		return n.ReturnType
	case *ast.VariableReference:
		return n.ReturnType
	case *ast.FunctionCall:
		return n.ReturnType
	}
	return nil
}

func setIsReference(e ast.Node, v bool) {
	switch n := e.(type) {
	case *ast.Constant:
		n.IsReference = v
	case *ast.BinaryExpression:
		n.IsReference = v
	case *ast.UnaryExpression:
		n.IsReference = v
	case *ast.VariableReference:
		n.IsReference = v
	case *ast.FunctionCall:
		n.IsReference = v
	}
}

func refInt(e ast.Node) int {
	switch n := e.(type) {
	case *ast.Constant:
		return boolToInt(n.IsReference)
	case *ast.BinaryExpression:
		return boolToInt(n.IsReference)
	case *ast.UnaryExpression:
		return boolToInt(n.IsReference)
	case *ast.VariableReference:
		return boolToInt(n.IsReference)
	case *ast.FunctionCall:
		return boolToInt(n.IsReference)
	}
	return 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
