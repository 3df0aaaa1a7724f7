// Package ast defines the arena of nodes shared by the parser, the
// verifier and the emitter. Every node carries a Kind tag and a
// Validated flag set by the verifier once analysis of that node has
// succeeded; the emitter never sees an unvalidated node.
package ast

// Kind tags every node in the arena. Downcasting in the reference
// implementation is replaced here by a type switch on the concrete
// pointer type; Kind exists so callers can branch without importing
// reflect.
type Kind int

const (
	KindClass Kind = iota
	KindScope
	KindVariableDeclaration
	KindConstant
	KindBinaryExpression
	KindUnaryExpression
	KindVariableReference
	KindFunctionCall
	KindFunction
	KindGoto
	KindLabel
	KindAlias
	KindIfStatement
	KindWhileStatement
	KindReturnStatement
	KindNop
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindScope:
		return "Scope"
	case KindVariableDeclaration:
		return "VariableDeclaration"
	case KindConstant:
		return "Constant"
	case KindBinaryExpression:
		return "BinaryExpression"
	case KindUnaryExpression:
		return "UnaryExpression"
	case KindVariableReference:
		return "VariableReference"
	case KindFunctionCall:
		return "FunctionCall"
	case KindFunction:
		return "Function"
	case KindGoto:
		return "Goto"
	case KindLabel:
		return "Label"
	case KindAlias:
		return "Alias"
	case KindIfStatement:
		return "IfStatement"
	case KindWhileStatement:
		return "WhileStatement"
	case KindReturnStatement:
		return "ReturnStatement"
	case KindNop:
		return "Nop"
	}
	return "Unknown"
}

// Node is implemented by every member of the arena.
type Node interface {
	NodeKind() Kind
	IsValidated() bool
	SetValidated(bool)
}

// Base is embedded by every concrete node and supplies the kind tag
// and the validated flag the verifier flips once analysis succeeds.
type Base struct {
	Kind      Kind
	Validated bool
}

func (b *Base) NodeKind() Kind        { return b.Kind }
func (b *Base) IsValidated() bool     { return b.Validated }
func (b *Base) SetValidated(v bool)   { b.Validated = v }

// Expr is the subset of Node the verifier annotates with a return
// type and that a parent expression may request an address from.
type Expr interface {
	Node
	exprNode()
}

// ExprBase is embedded by every expression-producing node.
type ExprBase struct {
	Base
	ReturnType  *TypeInfo
	IsReference bool
}

func (*ExprBase) exprNode() {}

// ConstantKind distinguishes the literal forms the grammar reserves.
// Only Integer and Boolean are exercised by the parser; String and
// Character are reserved for future lexer work (see spec Open
// Questions).
type ConstantKind int

const (
	Integer ConstantKind = iota
	String
	Character
	Boolean
)

// TypeInfo pairs a resolved Class with a pointer depth. A non-zero
// PointerLevels denotes a pointer whose runtime representation is a
// single machine word regardless of the pointee's own layout.
type TypeInfo struct {
	Type          *Class
	PointerLevels int
}

// Scope maps identifiers to nodes and chains to an enclosing scope.
// Lookup walks the chain; a name already bound in the local scope
// cannot be rebound.
type Scope struct {
	Base
	Parent  *Scope
	Name    string // optional, used for mangling
	tokens  map[string]Node
	mangled string
}

func NewScope(parent *Scope, name string) *Scope {
	return &Scope{
		Base:   Base{Kind: KindScope},
		Parent: parent,
		Name:   name,
		tokens: make(map[string]Node),
	}
}

// Add binds name to value in this scope. It fails if the name is
// already bound locally; shadowing an outer scope is fine.
func (s *Scope) Add(name string, value Node) bool {
	if _, exists := s.tokens[name]; exists {
		return false
	}
	s.tokens[name] = value
	return true
}

// Resolve walks the scope chain, transparently following Alias nodes.
func (s *Scope) Resolve(name string) Node {
	if n, ok := s.tokens[name]; ok {
		if alias, ok := n.(*Alias); ok {
			return s.Resolve(alias.Dest)
		}
		return n
	}
	if s.Parent != nil {
		return s.Parent.Resolve(name)
	}
	return nil
}

func (s *Scope) mangleInto(out *[]byte) {
	if s.Parent != nil {
		s.Parent.mangleInto(out)
	}
	if s.Name == "" {
		*out = append(*out, '.')
	} else {
		*out = append(*out, s.Name...)
		*out = append(*out, '\\')
	}
}

// Mangle returns this scope's mangled path, computing and caching it
// on first use. A leading "." marker stands in for an anonymous scope.
func (s *Scope) Mangle() string {
	if s.mangled != "" {
		return s.mangled
	}
	var buf []byte
	s.mangleInto(&buf)
	s.mangled = string(buf)
	return s.mangled
}

// Alias redirects lookup of its own name to Dest, resolved
// transparently by Scope.Resolve.
type Alias struct {
	Base
	Dest string
}

func NewAlias(dest string) *Alias {
	return &Alias{Base: Base{Kind: KindAlias}, Dest: dest}
}

// Label marks a branch target; its code offset is recorded by the
// emitter during emission.
type Label struct {
	Base
	Name string
}

func NewLabel(name string) *Label {
	return &Label{Base: Base{Kind: KindLabel}, Name: name}
}

// Goto transfers control unconditionally to a Label resolved through
// the enclosing scope chain.
type Goto struct {
	Base
	Target string
}

func NewGoto(target string) *Goto {
	return &Goto{Base: Base{Kind: KindGoto}, Target: target}
}

// Resolve looks up Target as a Label starting at scope. It returns nil
// if the name does not resolve or resolves to something other than a
// label; the caller is responsible for reporting that as an error.
func (g *Goto) Resolve(scope *Scope) *Label {
	n := scope.Resolve(g.Target)
	if n == nil {
		return nil
	}
	if l, ok := n.(*Label); ok {
		return l
	}
	return nil
}

// Nop is produced by a bare ";" with no other content.
type Nop struct {
	Base
}

func NewNop() *Nop { return &Nop{Base: Base{Kind: KindNop}} }
