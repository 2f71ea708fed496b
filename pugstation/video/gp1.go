package video

import (
	"github.com/valerio/go-pugstation/pugstation/bit"
	"github.com/valerio/go-pugstation/pugstation/fault"
)

// GP1 handles a word written to the GP1 port.
func (g *GPU) GP1(word uint32) error {
	opcode := word >> 24

	switch opcode {
	case 0x00:
		g.softReset()
	case 0x01:
		g.resetCommandBuffer()
	case 0x02:
		g.interrupt = false
	case 0x03:
		g.displayDisabled = bit.IsSet(0, word)
	case 0x04:
		g.dmaDirection = DMADirection(bit.Extract(word, 1, 0))
	case 0x05:
		g.displayVRAMX = uint16(bit.Extract(word, 9, 0))
		g.displayVRAMY = uint16(bit.Extract(word, 18, 10))
	case 0x06:
		g.displayHorizStart = uint16(bit.Extract(word, 11, 0))
		g.displayHorizEnd = uint16(bit.Extract(word, 23, 12))
	case 0x07:
		g.displayLineStart = uint16(bit.Extract(word, 9, 0))
		g.displayLineEnd = uint16(bit.Extract(word, 19, 10))
	case 0x08:
		return g.setDisplayMode(word)
	default:
		return fault.Unsupportedf("gpu", "GP1 command", word)
	}
	return nil
}

func (g *GPU) softReset() {
	g.logger.Debug("GP1 soft reset")
	g.defaults()
	g.renderer.SetDrawOffset(g.drawOffsetX, g.drawOffsetY)
	g.renderer.Display()
}

func (g *GPU) setDisplayMode(word uint32) error {
	if bit.IsSet(7, word) {
		return fault.Unsupportedf("gpu", "reverse display flag", word)
	}

	hr1 := uint8(bit.Extract(word, 1, 0))
	hr2 := uint8(bit.Extract(word, 6, 6))
	g.hres = HorizontalResFromFields(hr1, hr2)
	g.vres = VerticalRes(bit.Extract(word, 2, 2))
	g.videoMode = VideoMode(bit.Extract(word, 3, 3))
	g.displayDepth = DisplayDepth(bit.Extract(word, 4, 4))
	g.interlaced = bit.IsSet(5, word)
	return nil
}
