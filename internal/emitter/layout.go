package emitter

import "vlangc/internal/ast"

const pointerWordSize = 8

// slotSizeAlign returns the stack footprint of a variable declaration:
// any pointer or by-reference binding always occupies one machine
// word, regardless of its pointee's own layout.
func slotSizeAlign(d *ast.VariableDeclaration) (size, align int) {
	if d.PointerLevels > 0 || d.IsReference {
		return pointerWordSize, pointerWordSize
	}
	return d.RClass.Size, d.RClass.Align
}

// blockMemUsage walks nodes (recursing into if/while bodies, but not
// into nested function or class declarations — those get their own
// independent frame) assigning each variable declaration a padded
// stack offset and growing memAlign/stackSize in place.
func blockMemUsage(nodes []ast.Node, memAlign, stackSize *int) {
	for _, n := range nodes {
		switch node := n.(type) {
		case *ast.VariableDeclaration:
			size, align := slotSizeAlign(node)
			if *memAlign%align != 0 {
				if align%*memAlign != 0 {
					*memAlign = align * *memAlign
				} else {
					*memAlign = align
				}
			}
			if *stackSize%align != 0 {
				*stackSize += align - (*stackSize % align)
			}
			node.StackOffset = *stackSize
			*stackSize += size
		case *ast.IfStatement:
			blockMemUsage(node.Then, memAlign, stackSize)
			blockMemUsage(node.Else, memAlign, stackSize)
		case *ast.WhileStatement:
			if node.Initializer != nil {
				blockMemUsage([]ast.Node{node.Initializer}, memAlign, stackSize)
			}
			blockMemUsage(node.Body, memAlign, stackSize)
		}
	}
}

func declsAsNodes(decls []*ast.VariableDeclaration) []ast.Node {
	nodes := make([]ast.Node, len(decls))
	for i, d := range decls {
		nodes[i] = d
	}
	return nodes
}
