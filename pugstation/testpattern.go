package pugstation

import "github.com/valerio/go-pugstation/pugstation/asm"

// Register block offsets from the I/O base loaded into t0 (0x1f800000).
const (
	ioBase      = 0x1f80
	regDMA2Base = 0x10a0
	regDMA2Ctrl = 0x10a8
	regDPCR     = 0x10f0
	regGP0      = 0x1810
	regGP1      = 0x1814
)

// The display list lives at the start of the second RAM page, addressed
// through KSEG0.
const (
	displayList      = 0x80001000
	displayListPhys  = 0x00001000
	secondPacketPhys = 0x00001020
	linkedListEnd    = 0x00ffffff

	// FromRAM, linked list sync, enable.
	dmaLinkedListStart = 0x01000401
	dpcrGPUEnable      = 0x00000800
)

// Test pattern primitives, in GP0 words.
var (
	monochromeQuad = []uint32{
		0x280000ff, // red
		vertexWord(16, 16),
		vertexWord(144, 16),
		vertexWord(16, 112),
		vertexWord(144, 112),
	}

	shadedTriangle = []uint32{
		0x300000ff,
		vertexWord(176, 16),
		0x0000ff00,
		vertexWord(304, 16),
		0x00ff0000,
		vertexWord(240, 112),
	}

	texturedQuad = []uint32{
		0x2d808080,
		vertexWord(96, 128),
		0x7f000000, // clut, uv 0,0
		vertexWord(224, 128),
		0x0005007f, // texpage, uv 127,0
		vertexWord(96, 224),
		0x00007f00,
		vertexWord(224, 224),
		0x00007f7f,
	}
)

func vertexWord(x, y uint16) uint32 {
	return uint32(y)<<16 | uint32(x)
}

// packetHeader builds a linked list node header: word count and the
// physical address of the next node.
func packetHeader(words []uint32, next uint32) uint32 {
	return uint32(len(words))<<24 | next&0xffffff
}

type program struct {
	words []uint32
}

func (p *program) emit(words ...uint32) {
	p.words = append(p.words, words...)
}

// store writes a 32-bit constant to base+offset through t1.
func (p *program) store(value uint32, offset int16, base uint32) {
	p.emit(asm.LI(asm.T1, value)...)
	p.emit(asm.SW(asm.T1, offset, base))
}

// TestPatternProgram returns a BIOS program that draws a monochrome quad
// through GP0 writes, then a shaded triangle and a textured quad from a DMA
// linked list, and flushes a frame by setting the draw offset. It repeats
// the frame forever.
func TestPatternProgram() []uint32 {
	p := &program{}

	p.emit(asm.LUI(asm.T0, ioBase))
	p.emit(asm.SW(asm.Zero, regGP1, asm.T0)) // soft reset
	p.store(0x08000001, regGP1, asm.T0)      // 320x240 NTSC
	p.store(0x03000000, regGP1, asm.T0)      // display on
	p.store(0xe3000000, regGP0, asm.T0)
	p.store(0xe4000000|239<<10|319, regGP0, asm.T0)
	p.store(dpcrGPUEnable, regDPCR, asm.T0)

	p.emit(asm.LI(asm.T2, displayList)...)
	offset := int16(0)
	writeList := func(words ...uint32) {
		for _, w := range words {
			p.store(w, offset, asm.T2)
			offset += 4
		}
	}
	writeList(packetHeader(shadedTriangle, secondPacketPhys))
	writeList(shadedTriangle...)
	offset = secondPacketPhys - displayListPhys
	writeList(packetHeader(texturedQuad, linkedListEnd))
	writeList(texturedQuad...)

	frame := uint32(len(p.words))
	for _, w := range monochromeQuad {
		p.store(w, regGP0, asm.T0)
	}
	p.store(displayListPhys, regDMA2Base, asm.T0)
	p.store(dmaLinkedListStart, regDMA2Ctrl, asm.T0)
	p.store(0xe5000000, regGP0, asm.T0)
	p.emit(asm.J(0xbfc00000 + frame*4))
	p.emit(asm.NOP())

	return p.words
}
