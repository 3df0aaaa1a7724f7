package ast

// Class carries a name, an inner scope, its ordered member
// declarations, a synthesized initializer function, and the layout
// fields the verifier computes (or the programmer declares via
// ".align"/".size").
type Class struct {
	Base
	Name    string
	Scope   *Scope
	Members []Node // ordered member declarations and method definitions
	Init    *Function
	Align   int // 0 until declared or computed
	Size    int // 0 until declared or computed

	// LambdaRemap maps an outer-scope VariableDeclaration to the
	// synthetic by-reference member the verifier created for it. Only
	// populated on a function's anonymous lambda-capture class.
	LambdaRemap map[*VariableDeclaration]*VariableDeclaration
}

func NewClass(name string, parent *Scope) *Class {
	return &Class{
		Base:  Base{Kind: KindClass},
		Name:  name,
		Scope: NewScope(parent, name),
	}
}

// NewLambdaCapture creates the anonymous class a function's first
// outside-scope variable reference lazily allocates.
func NewLambdaCapture(parent *Scope) *Class {
	c := NewClass("", parent)
	c.LambdaRemap = make(map[*VariableDeclaration]*VariableDeclaration)
	return c
}
