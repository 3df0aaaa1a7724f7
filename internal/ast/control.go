package ast

// IfStatement carries two inner scopes, one per branch, and three
// labels the emitter patches: the true branch, the false branch
// (falling through to the end when there is no else), and the join
// point.
type IfStatement struct {
	Base
	Condition  Expr
	Then       []Node
	Else       []Node
	ScopeThen  *Scope
	ScopeElse  *Scope
	LabelTrue  *Label
	LabelFalse *Label
	LabelEnd   *Label
}

func NewIfStatement(parent *Scope) *IfStatement {
	return &IfStatement{
		Base:       Base{Kind: KindIfStatement},
		ScopeThen:  NewScope(parent, ""),
		ScopeElse:  NewScope(parent, ""),
		LabelTrue:  NewLabel("true"),
		LabelFalse: NewLabel("false"),
		LabelEnd:   NewLabel("end"),
	}
}

// WhileStatement also represents a lowered "for" loop: Initializer is
// the for-loop's init statement (nil for a bare while), and the loop
// body has the for-loop's step statement appended as its last entry
// by the parser.
type WhileStatement struct {
	Base
	Condition   Expr
	Initializer Node
	Body        []Node
	Scope       *Scope
	LabelCheck  *Label
	LabelBegin  *Label
	LabelEnd    *Label
}

func NewWhileStatement(parent *Scope) *WhileStatement {
	return &WhileStatement{
		Base:       Base{Kind: KindWhileStatement},
		Scope:      NewScope(parent, ""),
		LabelCheck: NewLabel("check"),
		LabelBegin: NewLabel("begin"),
		LabelEnd:   NewLabel("end"),
	}
}

// ReturnStatement must appear inside a function; Function is set by
// the verifier while walking that function's body.
type ReturnStatement struct {
	Base
	RetVal   Expr
	Function *Function
}

func NewReturnStatement(retval Expr) *ReturnStatement {
	return &ReturnStatement{Base: Base{Kind: KindReturnStatement}, RetVal: retval}
}
