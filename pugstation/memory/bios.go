package memory

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/valerio/go-pugstation/pugstation/addr"
)

// BIOS is the boot ROM image.
type BIOS struct {
	data []byte
}

// NewBIOS creates a BIOS from a raw image. The image must be exactly
// addr.BIOSSize bytes long.
func NewBIOS(data []byte) (*BIOS, error) {
	if len(data) != addr.BIOSSize {
		return nil, fmt.Errorf("invalid BIOS size: got %d bytes, expected %d", len(data), addr.BIOSSize)
	}

	b := &BIOS{data: make([]byte, addr.BIOSSize)}
	copy(b.data, data)
	return b, nil
}

// LoadBIOS reads a BIOS image from disk.
func LoadBIOS(path string) (*BIOS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read BIOS: %w", err)
	}
	return NewBIOS(data)
}

// NewBIOSWithProgram builds a BIOS image holding the given instruction
// words at its start, the rest zero filled (NOP).
func NewBIOSWithProgram(program []uint32) (*BIOS, error) {
	if len(program)*4 > addr.BIOSSize {
		return nil, fmt.Errorf("program does not fit in BIOS: %d words", len(program))
	}

	data := make([]byte, addr.BIOSSize)
	for i, word := range program {
		binary.LittleEndian.PutUint32(data[i*4:], word)
	}
	return &BIOS{data: data}, nil
}

func (b *BIOS) Load8(offset uint32) uint8 {
	return b.data[offset]
}

func (b *BIOS) Load16(offset uint32) uint16 {
	return binary.LittleEndian.Uint16(b.data[offset:])
}

func (b *BIOS) Load32(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(b.data[offset:])
}
