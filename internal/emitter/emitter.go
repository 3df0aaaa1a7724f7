// Package emitter walks a verified program tree and produces a linked
// bytecode image for it, mirroring the three-phase structure of the
// reference code generator: a memory-usage pass that assigns every
// variable a stack-frame offset, a prologue/epilogue pair that
// allocates and releases that frame, and per-statement codegen in
// between.
package emitter

import (
	"vlangc/internal/ast"
	"vlangc/internal/bytecode"
)

// Emitter holds the codegen cursor: the linker code is appended to,
// and the lexical scope currently in effect (needed to resolve a
// Goto's label, since the reference implementation threads the same
// scope pointer through recursive codegen calls).
type Emitter struct {
	l            *bytecode.Linker
	currentScope *ast.Scope
}

// Emit registers the two host intrinsics every program depends on and
// generates code for the top-level items, recursing into every class
// initializer and function body it finds along the way.
func Emit(items []ast.Node, rootScope *ast.Scope, l *bytecode.Linker) {
	l.AddExtern(ptradd, 2, -1)
	l.AddExtern(notIntrinsic, 1, 1)
	e := &Emitter{l: l, currentScope: rootScope}
	e.genFunction(items, nil, nil)
}

// genFunction is the shared routine behind the top-level program, a
// named function's body, and a class's synthesized initializer: it
// computes the frame layout, emits the prologue, loads arguments and
// captured values, generates the body, emits the epilogue, and then
// recurses into any nested class/function declarations.
func (e *Emitter) genFunction(nodes []ast.Node, args []*ast.VariableDeclaration, fn *ast.Function) {
	memAlign := 1
	stackSize := 0
	if args != nil {
		blockMemUsage(declsAsNodes(args), &memAlign, &stackSize)
	}
	blockMemUsage(nodes, &memAlign, &stackSize)
	if fn != nil && fn.LambdaCapture != nil {
		blockMemUsage(fn.LambdaCapture.Members, &memAlign, &stackSize)
	}
	if fn != nil {
		fn.StackSize = stackSize
	}

	e.l.Assembler.GetRSP()
	e.l.Assembler.Push(int64Bytes(int64(stackSize)))
	e.l.Call(ptradd)
	e.l.Assembler.SetRSP()

	for _, a := range args {
		e.l.Assembler.GetRSP()
		e.l.Assembler.Push(int64Bytes(int64(a.StackOffset)))
		e.l.Call(ptradd)
		e.l.Assembler.Store()
	}

	if fn != nil && fn.LambdaCapture != nil {
		for _, m := range fn.LambdaCapture.Members {
			vardec := m.(*ast.VariableDeclaration)
			e.l.Assembler.GetRSP()
			e.l.Assembler.Push(int64Bytes(int64(vardec.StackOffset)))
			e.l.Call(ptradd)
			e.l.Assembler.Store()
		}
	}

	e.genBlock(nodes)
	e.genEpilogueRaw(stackSize)

	for _, n := range nodes {
		switch node := n.(type) {
		case *ast.Class:
			if node.Init != nil && len(node.Init.Body) > 0 {
				prevScope := e.currentScope
				e.currentScope = node.Scope
				e.genFunctionHeader(node.Init)
				e.currentScope = prevScope
			}
		case *ast.Function:
			e.genFunctionHeader(node)
		}
	}
}

// genFunctionHeader registers fn's mangled name at its current code
// offset (or as a host extern) and, for a non-extern function,
// recurses into genFunction for its body.
func (e *Emitter) genFunctionHeader(fn *ast.Function) {
	var returnSize int32
	if fn.ReturnType != nil {
		if fn.ReturnType.PointerLevels > 0 {
			returnSize = -1
		} else {
			returnSize = int32(fn.ReturnType.Type.Size)
		}
	}
	if fn.IsExtern {
		e.l.AddExtern(fn.Mangle(), int32(len(fn.Args)), returnSize)
		return
	}
	e.l.AddLocal(fn.Mangle(), int32(len(fn.Args)), returnSize)

	prevScope := e.currentScope
	e.currentScope = fn.Scope
	e.genFunction(fn.Body, fn.Args, fn)
	e.currentScope = prevScope
}

// genEpilogue releases fn's frame and returns to the caller.
func (e *Emitter) genEpilogue(fn *ast.Function) {
	e.genEpilogueRaw(fn.StackSize)
}

func (e *Emitter) genEpilogueRaw(stackSize int) {
	e.l.Assembler.GetRSP()
	e.l.Assembler.Push(int64Bytes(int64(-stackSize)))
	e.l.Call(ptradd)
	e.l.Assembler.SetRSP()
	e.l.Assembler.Ret()
}
