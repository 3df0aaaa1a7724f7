// Package buildutil wraps a linked code image with a small file header
// (magic number, format version) so a compiled image can round-trip
// through disk, in the length-prefixed binary.Write style used
// throughout this toolchain for serialization.
package buildutil

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	ImageVersion = 1
	MagicNumber  = 0x564c4e47 // "VLNG"
)

// Image is a linked code image (import table + code, as produced by
// bytecode.Linker.Link) plus the header a loader checks before
// trusting the bytes that follow.
type Image struct {
	Version uint32
	Code    []byte
}

func NewImage(code []byte) *Image {
	return &Image{Version: ImageVersion, Code: code}
}

// Write serializes the header followed by the raw code bytes.
func (img *Image) Write(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(MagicNumber)); err != nil {
		return fmt.Errorf("write magic number: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, img.Version); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(img.Code))); err != nil {
		return fmt.Errorf("write code length: %w", err)
	}
	if _, err := w.Write(img.Code); err != nil {
		return fmt.Errorf("write code: %w", err)
	}
	return nil
}

// Read parses a header-prefixed image previously produced by Write.
func Read(r io.Reader) (*Image, error) {
	img := &Image{}

	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("read magic number: %w", err)
	}
	if magic != MagicNumber {
		return nil, fmt.Errorf("not a compiled image: bad magic number %#x", magic)
	}

	if err := binary.Read(r, binary.LittleEndian, &img.Version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if img.Version > ImageVersion {
		return nil, fmt.Errorf("unsupported image version: %d", img.Version)
	}

	var codeLen uint32
	if err := binary.Read(r, binary.LittleEndian, &codeLen); err != nil {
		return nil, fmt.Errorf("read code length: %w", err)
	}
	img.Code = make([]byte, codeLen)
	if _, err := io.ReadFull(r, img.Code); err != nil {
		return nil, fmt.Errorf("read code: %w", err)
	}

	return img, nil
}
