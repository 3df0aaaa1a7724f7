package bytecode

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestAddLocalRecordsOffsetTrailingAssemblerByFour(t *testing.T) {
	l := NewLinker()
	l.Assembler.Push([]byte{1, 2, 3, 4}) // 6 bytes written: opcode, length, 4 payload
	before := l.Assembler.Len()
	l.AddLocal("f", 0, 4)
	if l.Imports[0].Offset != int32(before-4) {
		t.Fatalf("Offset = %d, want %d (assembler position trailing by 4)", l.Imports[0].Offset, before-4)
	}
}

func TestCallRelocationPatchesImportIndex(t *testing.T) {
	l := NewLinker()
	l.AddExtern("puts", 1, -1)
	l.Call("puts")
	l.AddLocal("main", 0, -1)
	l.Assembler.Ret()

	img, err := l.Link()
	if err != nil {
		t.Fatalf("Link: %v", err)
	}

	table, err := serializeImportTable(l.Imports)
	if err != nil {
		t.Fatalf("serializeImportTable: %v", err)
	}
	code := img[len(table):]

	// code layout: OpCall(1 byte), 4-byte operand (patched import index)
	if OpCode(code[0]) != OpCall {
		t.Fatalf("code[0] = %v, want OpCall", OpCode(code[0]))
	}
	idx := int32(binary.LittleEndian.Uint32(code[1:5]))
	if idx != 0 {
		t.Fatalf("patched call operand = %d, want 0 (puts's import index)", idx)
	}
}

func TestCallToUnknownNameRelocatesToMinusOne(t *testing.T) {
	l := NewLinker()
	l.Call("nonexistent")
	l.Assembler.Ret()
	img, err := l.Link()
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	table, _ := serializeImportTable(l.Imports)
	code := img[len(table):]
	idx := int32(binary.LittleEndian.Uint32(code[1:5]))
	if idx != -1 {
		t.Fatalf("patched call operand = %d, want -1 for an unresolved name", idx)
	}
}

func TestBranchRelocationTargetsLabelOffsetPlusGlobalOffset(t *testing.T) {
	l := NewLinker()
	l.Assembler.Push([]byte{1})
	label := "loop"
	l.Branch(label) // targets a label recorded further down
	l.Assembler.Push([]byte{1})
	l.AddLabel(label)
	labelOffset := l.labelOffsets[label]
	l.Assembler.Ret()

	if len(l.pendingBranch) != 1 {
		t.Fatalf("pendingBranch has %d entries, want 1", len(l.pendingBranch))
	}
	branchOperandOffset := l.pendingBranch[0].offset

	img, err := l.Link()
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	table, _ := serializeImportTable(l.Imports)
	globalOffset := len(table)

	target := int32(binary.LittleEndian.Uint32(img[globalOffset+branchOperandOffset : globalOffset+branchOperandOffset+4]))
	wantTarget := int32(labelOffset + globalOffset)
	if target != wantTarget {
		t.Fatalf("branch target = %d, want %d", target, wantTarget)
	}
}

func TestSerializeImportTableFieldOrder(t *testing.T) {
	imports := []ImportRecord{
		{Name: "f", ArgCount: 2, OutSize: -1, IsExternal: true, IsVarArgs: false},
	}
	table, err := serializeImportTable(imports)
	if err != nil {
		t.Fatalf("serializeImportTable: %v", err)
	}

	r := bytes.NewReader(table)
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		t.Fatalf("read count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	var argCount, outSize int32
	binary.Read(r, binary.LittleEndian, &argCount)
	binary.Read(r, binary.LittleEndian, &outSize)
	if argCount != 2 || outSize != -1 {
		t.Fatalf("argCount/outSize = %d/%d, want 2/-1", argCount, outSize)
	}

	flags := make([]byte, 2)
	r.Read(flags)
	if flags[0] != 1 || flags[1] != 0 {
		t.Fatalf("isExternal/isVarArgs = %d/%d, want 1/0", flags[0], flags[1])
	}

	var nameLen uint32
	binary.Read(r, binary.LittleEndian, &nameLen)
	if nameLen != 1 {
		t.Fatalf("nameLen = %d, want 1", nameLen)
	}
	name := make([]byte, nameLen)
	r.Read(name)
	if string(name) != "f" {
		t.Fatalf("name = %q, want \"f\"", name)
	}

	var offset uint32
	binary.Read(r, binary.LittleEndian, &offset)
	if offset != 0 {
		t.Fatalf("offset = %d, want 0", offset)
	}
}

func TestAssemblerPushLengthPrefixesPayload(t *testing.T) {
	a := NewAssembler()
	a.Push([]byte{0xAA, 0xBB})
	want := []byte{byte(OpPush), 2, 0xAA, 0xBB}
	if !bytes.Equal(a.Code, want) {
		t.Fatalf("Code = %v, want %v", a.Code, want)
	}
}

func TestPatchInt32WritesLittleEndian(t *testing.T) {
	a := NewAssembler()
	a.writeBytes([]byte{0, 0, 0, 0})
	a.PatchInt32(0, -2)
	got := int32(binary.LittleEndian.Uint32(a.Code))
	if got != -2 {
		t.Fatalf("patched value = %d, want -2", got)
	}
}
