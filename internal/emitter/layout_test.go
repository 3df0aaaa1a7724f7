package emitter

import (
	"testing"

	"vlangc/internal/ast"
)

func newSizedClass(name string, size, align int) *ast.Class {
	c := ast.NewClass(name, nil)
	c.Size = size
	c.Align = align
	return c
}

func TestSlotSizeAlignPointerIsAlwaysWordSized(t *testing.T) {
	small := newSizedClass("char", 1, 1)
	d := ast.NewVariableDeclaration("char", "p", 1)
	d.RClass = small
	size, align := slotSizeAlign(d)
	if size != pointerWordSize || align != pointerWordSize {
		t.Fatalf("slotSizeAlign(pointer) = %d/%d, want %d/%d", size, align, pointerWordSize, pointerWordSize)
	}
}

func TestSlotSizeAlignReferenceIsAlwaysWordSized(t *testing.T) {
	small := newSizedClass("char", 1, 1)
	d := ast.NewVariableDeclaration("char", "r", 0)
	d.RClass = small
	d.IsReference = true
	size, align := slotSizeAlign(d)
	if size != pointerWordSize || align != pointerWordSize {
		t.Fatalf("slotSizeAlign(reference) = %d/%d, want %d/%d", size, align, pointerWordSize, pointerWordSize)
	}
}

func TestSlotSizeAlignValueUsesClassLayout(t *testing.T) {
	intClass := newSizedClass("int", 4, 4)
	d := ast.NewVariableDeclaration("int", "x", 0)
	d.RClass = intClass
	size, align := slotSizeAlign(d)
	if size != 4 || align != 4 {
		t.Fatalf("slotSizeAlign(value) = %d/%d, want 4/4", size, align)
	}
}

// TestBlockMemUsagePadsForAlignment confirms a 1-byte char followed by
// a 4-byte-aligned int pads the char's slot up to the int's alignment
// before placing it, and that memAlign tracks the widest alignment
// seen.
func TestBlockMemUsagePadsForAlignment(t *testing.T) {
	charClass := newSizedClass("char", 1, 1)
	intClass := newSizedClass("int", 4, 4)

	a := ast.NewVariableDeclaration("char", "a", 0)
	a.RClass = charClass
	b := ast.NewVariableDeclaration("int", "b", 0)
	b.RClass = intClass

	memAlign, stackSize := 1, 0
	blockMemUsage([]ast.Node{a, b}, &memAlign, &stackSize)

	if a.StackOffset != 0 {
		t.Fatalf("a.StackOffset = %d, want 0", a.StackOffset)
	}
	if b.StackOffset != 4 {
		t.Fatalf("b.StackOffset = %d, want 4 (padded up to int's 4-byte alignment)", b.StackOffset)
	}
	if stackSize != 8 {
		t.Fatalf("stackSize = %d, want 8", stackSize)
	}
	if memAlign != 4 {
		t.Fatalf("memAlign = %d, want 4", memAlign)
	}
}

// TestBlockMemUsageIfBranchesDoNotOverlap confirms the then/else
// branches of an if statement are walked sequentially against the
// same running stackSize, so a local declared in Then and one
// declared in Else never share a stack slot even though only one
// branch executes at runtime.
func TestBlockMemUsageIfBranchesDoNotOverlap(t *testing.T) {
	intClass := newSizedClass("int", 4, 4)

	thenVar := ast.NewVariableDeclaration("int", "t", 0)
	thenVar.RClass = intClass
	elseVar := ast.NewVariableDeclaration("int", "e", 0)
	elseVar.RClass = intClass

	ifs := ast.NewIfStatement(nil)
	ifs.Then = []ast.Node{thenVar}
	ifs.Else = []ast.Node{elseVar}

	memAlign, stackSize := 1, 0
	blockMemUsage([]ast.Node{ifs}, &memAlign, &stackSize)

	if thenVar.StackOffset == elseVar.StackOffset {
		t.Fatalf("Then and Else locals share offset %d, want distinct offsets", thenVar.StackOffset)
	}
	if thenVar.StackOffset != 0 || elseVar.StackOffset != 4 {
		t.Fatalf("offsets = %d/%d, want 0/4", thenVar.StackOffset, elseVar.StackOffset)
	}
	if stackSize != 8 {
		t.Fatalf("stackSize = %d, want 8 (both branches' locals reserved)", stackSize)
	}
}

// TestBlockMemUsageWhileInitializerCounted confirms a for-loop's
// lowered initializer (WhileStatement.Initializer) is counted before
// the loop body.
func TestBlockMemUsageWhileInitializerCounted(t *testing.T) {
	intClass := newSizedClass("int", 4, 4)
	initVar := ast.NewVariableDeclaration("int", "i", 0)
	initVar.RClass = intClass
	bodyVar := ast.NewVariableDeclaration("int", "b", 0)
	bodyVar.RClass = intClass

	w := ast.NewWhileStatement(nil)
	w.Initializer = initVar
	w.Body = []ast.Node{bodyVar}

	memAlign, stackSize := 1, 0
	blockMemUsage([]ast.Node{w}, &memAlign, &stackSize)

	if initVar.StackOffset != 0 {
		t.Fatalf("initVar.StackOffset = %d, want 0", initVar.StackOffset)
	}
	if bodyVar.StackOffset != 4 {
		t.Fatalf("bodyVar.StackOffset = %d, want 4", bodyVar.StackOffset)
	}
}

func TestBlockMemUsageSkipsNestedFunctionAndClassDeclarations(t *testing.T) {
	fn := ast.NewFunction("inner", nil)
	cls := ast.NewClass("Nested", nil)

	memAlign, stackSize := 1, 0
	blockMemUsage([]ast.Node{fn, cls}, &memAlign, &stackSize)

	if stackSize != 0 {
		t.Fatalf("stackSize = %d, want 0 (nested function/class get their own frame)", stackSize)
	}
}
