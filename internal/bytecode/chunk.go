package bytecode

// Assembler accumulates raw instruction bytes for a single translation
// unit's code section. It is deliberately low-level — callers choose
// operand sizes and encode immediates themselves — mirroring the
// reference implementation's Assembly buffer rather than a
// higher-level register chunk.
type Assembler struct {
	Code []byte
}

func NewAssembler() *Assembler { return &Assembler{} }

// Len is the current write position, used by callers to record
// relocation-slot offsets before they are known.
func (a *Assembler) Len() int { return len(a.Code) }

func (a *Assembler) writeByte(b byte) { a.Code = append(a.Code, b) }

func (a *Assembler) writeBytes(b []byte) { a.Code = append(a.Code, b...) }

// Push emits OpPush with a length-prefixed immediate payload.
func (a *Assembler) Push(payload []byte) {
	a.writeByte(byte(OpPush))
	a.writeByte(byte(len(payload)))
	a.writeBytes(payload)
}

func (a *Assembler) Load()   { a.writeByte(byte(OpLoad)) }
func (a *Assembler) Store()  { a.writeByte(byte(OpStore)) }
func (a *Assembler) GetRSP() { a.writeByte(byte(OpGetRSP)) }
func (a *Assembler) SetRSP() { a.writeByte(byte(OpSetRSP)) }
func (a *Assembler) Ret()    { a.writeByte(byte(OpRet)) }
func (a *Assembler) VRef()   { a.writeByte(byte(OpVRef)) }

// Call writes OpCall followed by a 4-byte placeholder, returning the
// offset of that placeholder so the caller can record it for later
// relocation.
func (a *Assembler) Call() (operandOffset int) {
	a.writeByte(byte(OpCall))
	operandOffset = a.Len()
	a.writeBytes([]byte{0, 0, 0, 0})
	return operandOffset
}

// Branch writes OpBranch with no inline operand; the jump offset is
// expected to already be on the value stack (pushed by the caller via
// Push before calling Branch).
func (a *Assembler) Branch() { a.writeByte(byte(OpBranch)) }

// PatchInt32 overwrites the 4 bytes at offset with v, little-endian —
// used by the linker to resolve pending call and branch targets.
func (a *Assembler) PatchInt32(offset int, v int32) {
	a.Code[offset] = byte(v)
	a.Code[offset+1] = byte(v >> 8)
	a.Code[offset+2] = byte(v >> 16)
	a.Code[offset+3] = byte(v >> 24)
}
