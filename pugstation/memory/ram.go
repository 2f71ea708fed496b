package memory

import (
	"encoding/binary"

	"github.com/valerio/go-pugstation/pugstation/addr"
)

// ramFill is the content of RAM at power on. Real RAM holds garbage; a
// recognizable pattern makes reads of uninitialized memory easy to spot.
const ramFill = 0xca

// RAM is the 2MiB main memory. Offsets are wrapped to the RAM size.
type RAM struct {
	data []byte
}

// NewRAM creates a RAM block filled with the power-on pattern.
func NewRAM() *RAM {
	data := make([]byte, addr.RAMSize)
	for i := range data {
		data[i] = ramFill
	}
	return &RAM{data: data}
}

const ramMask = addr.RAMSize - 1

func (r *RAM) Load8(offset uint32) uint8 {
	return r.data[offset&ramMask]
}

func (r *RAM) Load16(offset uint32) uint16 {
	return binary.LittleEndian.Uint16(r.data[offset&(ramMask&^1):])
}

func (r *RAM) Load32(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(r.data[offset&(ramMask&^3):])
}

func (r *RAM) Store8(offset uint32, value uint8) {
	r.data[offset&ramMask] = value
}

func (r *RAM) Store16(offset uint32, value uint16) {
	binary.LittleEndian.PutUint16(r.data[offset&(ramMask&^1):], value)
}

func (r *RAM) Store32(offset uint32, value uint32) {
	binary.LittleEndian.PutUint32(r.data[offset&(ramMask&^3):], value)
}
