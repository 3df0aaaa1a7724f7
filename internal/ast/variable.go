package ast

// VariableDeclaration binds a name to a resolved Class at a given
// pointer depth. IsReference distinguishes a by-reference binding
// (lambda capture) from an ordinary value binding; a by-reference
// binding occupies a single machine word on the stack, a value binding
// its class's size (or a word, when it is a pointer).
type VariableDeclaration struct {
	Base
	VarTypeName string
	Name        string
	Assignment  *BinaryExpression // optional "=" initializer

	RClass        *Class
	PointerLevels int
	IsReference   bool

	// SkipValidateClassName is set on synthetic lambda-capture members,
	// whose RClass is already known and must not be re-resolved against
	// a (possibly shadowed) scope name.
	SkipValidateClassName  bool
	IsValidatingAssignment bool // guards against re-entrant validation

	// LambdaRef points back at the outer variable this declaration
	// stands in for, when synthesized as a capture.
	LambdaRef *VariableDeclaration

	Owner       *Function // function this declaration lives in
	StackOffset int       // assigned once, during emission
}

func NewVariableDeclaration(vartype, name string, pointerLevels int) *VariableDeclaration {
	return &VariableDeclaration{
		Base:          Base{Kind: KindVariableDeclaration},
		VarTypeName:   vartype,
		Name:          name,
		PointerLevels: pointerLevels,
	}
}
