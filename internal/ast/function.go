package ast

// Function holds a declaration's signature, body, and the bookkeeping
// the verifier and emitter need: its own scope, the resolved return
// type, an optional synthesized lambda-capture class, and the
// singly-linked overload chain rooted at the first binder of its
// simple name.
type Function struct {
	Base
	Name     string
	IsExtern bool

	ReturnTypeName      string
	ReturnPointerLevels int
	ReturnType          *TypeInfo // nil until resolved; nil return name means void

	Scope *Scope
	Args  []*VariableDeclaration
	Vars  []*VariableDeclaration // every declaration directly in this function's body
	Body  []Node                 // operations, in source order

	ThisType      *Class // non-nil for class methods; "this" is the last entry of Args
	LambdaCapture *Class // anonymous capture class, allocated lazily

	NextOverload *Function

	mangled   string
	StackSize int
}

func NewFunction(name string, parent *Scope) *Function {
	return &Function{
		Base:  Base{Kind: KindFunction},
		Name:  name,
		Scope: NewScope(parent, name),
	}
}

// Mangle returns the cached mangled name, computing it on first call:
// <scope mangle>(<arg type mangle>*<pointer stars>\ ...)<return type mangle>
func (f *Function) Mangle() string {
	if f.mangled != "" {
		return f.mangled
	}
	var buf []byte
	buf = append(buf, f.Scope.Mangle()...)
	buf = append(buf, '(')
	for _, arg := range f.Args {
		buf = append(buf, arg.RClass.Scope.Mangle()...)
		for i := 0; i < arg.PointerLevels; i++ {
			buf = append(buf, '*')
		}
		buf = append(buf, '\\')
	}
	buf = append(buf, ')')
	if f.ReturnType != nil {
		buf = append(buf, f.ReturnType.Type.Scope.Mangle()...)
	}
	f.mangled = string(buf)
	return f.mangled
}
