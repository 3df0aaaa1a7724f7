// Package bytecode defines the stack-machine instruction surface the
// emitter targets and the assembler/image-linking machinery used to
// produce a final [import table][code] byte image, in the
// length-prefixed binary style the toolchain uses elsewhere for
// serialization.
package bytecode

// OpCode is a single instruction in the target host VM's surface. The
// VM itself is external to this toolchain — these are the instructions
// the emitter is obligated to produce, not ones this module executes.
type OpCode byte

const (
	// OpPush pushes an immediate payload (1, 4, or 8 raw bytes,
	// length-prefixed) onto the value stack.
	OpPush OpCode = iota
	// OpLoad pops a size (bytes) then an address, and pushes the value
	// read from that address.
	OpLoad
	// OpStore pops an address then a value, and writes the value at
	// that address.
	OpStore
	// OpGetRSP pushes the current stack-frame base address.
	OpGetRSP
	// OpSetRSP pops an address and makes it the stack-frame base.
	OpSetRSP
	// OpCall invokes the import-table entry named by its 4-byte
	// immediate operand, passing already-pushed arguments.
	OpCall
	// OpRet returns from the current function.
	OpRet
	// OpBranch pops a 4-byte code offset then a 1-byte condition, and
	// jumps to that offset if the condition is non-zero.
	OpBranch
	// OpVRef promotes the top-of-stack value into a reference (used
	// when a constant feeds a by-reference call argument).
	OpVRef
)

func (o OpCode) String() string {
	switch o {
	case OpPush:
		return "push"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpGetRSP:
		return "getrsp"
	case OpSetRSP:
		return "setrsp"
	case OpCall:
		return "call"
	case OpRet:
		return "ret"
	case OpBranch:
		return "branch"
	case OpVRef:
		return "vref"
	}
	return "unknown"
}
