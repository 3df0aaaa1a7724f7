package bytecode

import (
	"bytes"
	"encoding/binary"
)

// ImportRecord describes one entry of the image's import table: either
// a host-provided extern function the code calls into, or a
// locally-defined function recorded so other code can call it by
// index.
type ImportRecord struct {
	Name       string
	ArgCount   int32
	OutSize    int32
	IsExternal bool
	IsVarArgs  bool
	Offset     int32 // local entries: assembler position at registration minus 4 (see AddLocal)
}

// pendingCall is a not-yet-resolved call-site: the mangled callee name
// and the offset of its 4-byte operand placeholder in the
// pre-relocation code buffer.
type pendingCall struct {
	name   string
	offset int
}

// pendingBranch is a not-yet-resolved branch target: the label's
// identity and the offset of its 4-byte operand placeholder.
type pendingBranch struct {
	label  interface{}
	offset int
}

// Linker collects an import table, an assembler's code, and the
// relocation sites the emitter recorded while walking the program, and
// produces the final [import table][code] image.
type Linker struct {
	Imports     []ImportRecord
	importIndex map[string]int
	Assembler   *Assembler

	pendingCalls   []pendingCall
	pendingBranch  []pendingBranch
	labelOffsets   map[interface{}]int
}

func NewLinker() *Linker {
	return &Linker{
		importIndex:  make(map[string]int),
		Assembler:    NewAssembler(),
		labelOffsets: make(map[interface{}]int),
	}
}

// AddExtern registers a host-provided intrinsic or extern function.
func (l *Linker) AddExtern(name string, argCount, outSize int32) int {
	idx := len(l.Imports)
	l.Imports = append(l.Imports, ImportRecord{Name: name, ArgCount: argCount, OutSize: outSize, IsExternal: true})
	l.importIndex[name] = idx
	return idx
}

// AddLocal registers a locally-defined function at the assembler's
// current write position.
func (l *Linker) AddLocal(name string, argCount, outSize int32) int {
	idx := len(l.Imports)
	// Matches the reference linker's off-by-four bookkeeping: the
	// recorded offset trails the assembler's position at registration
	// time by 4 bytes.
	offset := int32(l.Assembler.Len() - 4)
	l.Imports = append(l.Imports, ImportRecord{Name: name, ArgCount: argCount, OutSize: outSize, Offset: offset})
	l.importIndex[name] = idx
	return idx
}

// AddLabel records a label's current code offset.
func (l *Linker) AddLabel(label interface{}) {
	l.labelOffsets[label] = l.Assembler.Len()
}

// Call emits a call instruction to mangledName, recording the
// relocation site for Link to patch once the whole import table is
// known.
func (l *Linker) Call(mangledName string) {
	offset := l.Assembler.Call()
	l.pendingCalls = append(l.pendingCalls, pendingCall{name: mangledName, offset: offset})
}

// Branch emits a conditional branch to label, pushing a 4-byte
// placeholder offset (the condition itself must already be on the
// stack) and recording the relocation site.
func (l *Linker) Branch(label interface{}) {
	l.Assembler.Push([]byte{0, 0, 0, 0})
	offset := l.Assembler.Len() - 4
	l.Assembler.Branch()
	l.pendingBranch = append(l.pendingBranch, pendingBranch{label: label, offset: offset})
}

// Link serializes the import table, prepends it to the code, and
// patches every pending call site with its callee's import index (-1
// when the name is not registered) and every pending branch site with
// its label's offset plus the table length.
func (l *Linker) Link() ([]byte, error) {
	table, err := serializeImportTable(l.Imports)
	if err != nil {
		return nil, err
	}
	globalOffset := len(table)

	for _, pc := range l.pendingCalls {
		idx, ok := l.importIndex[pc.name]
		if !ok {
			idx = -1
		}
		l.Assembler.PatchInt32(pc.offset, int32(idx))
	}
	for _, pb := range l.pendingBranch {
		target := l.labelOffsets[pb.label]
		l.Assembler.PatchInt32(pb.offset, int32(target+globalOffset))
	}

	image := make([]byte, 0, len(table)+len(l.Assembler.Code))
	image = append(image, table...)
	image = append(image, l.Assembler.Code...)
	return image, nil
}

// serializeImportTable encodes records in the wire order the
// assembler library expects: argcount, outsize, the two flag bytes,
// then the length-prefixed name, then the local offset.
func serializeImportTable(imports []ImportRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, int32(len(imports))); err != nil {
		return nil, err
	}
	for _, rec := range imports {
		if err := binary.Write(&buf, binary.LittleEndian, rec.ArgCount); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, rec.OutSize); err != nil {
			return nil, err
		}
		if err := buf.WriteByte(boolByte(rec.IsExternal)); err != nil {
			return nil, err
		}
		if err := buf.WriteByte(boolByte(rec.IsVarArgs)); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint32(len(rec.Name))); err != nil {
			return nil, err
		}
		buf.WriteString(rec.Name)
		if err := binary.Write(&buf, binary.LittleEndian, uint32(rec.Offset)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
