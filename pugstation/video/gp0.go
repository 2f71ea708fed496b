package video

import (
	"fmt"

	"github.com/valerio/go-pugstation/pugstation/bit"
	"github.com/valerio/go-pugstation/pugstation/fault"
)

// Polygon opcode bits, opcodes 0x20-0x3F.
const (
	polyRawTexture = 1 << 0
	polySemiTrans  = 1 << 1
	polyTextured   = 1 << 2
	polyQuad       = 1 << 3
	polyShaded     = 1 << 4
)

// GP0 handles a word written to the GP0 port.
func (g *GPU) GP0(word uint32) error {
	switch {
	case g.requestsMissing > 1:
		g.buffer = append(g.buffer, word)
		g.requestsMissing--
		return nil
	case g.requestsMissing == 1:
		g.buffer = append(g.buffer, word)
		g.requestsMissing = 0

		complete := g.pending
		g.pending = nil
		// complete may queue a follow-up payload (image load)
		err := complete(g.buffer)
		g.buffer = g.buffer[:0]
		return err
	}

	opcode := word >> 24
	switch {
	case opcode == 0x00:
		// NOP
	case opcode == 0x01:
		g.logger.Debug("GP0 clear cache")
	case opcode >= 0x20 && opcode <= 0x3f:
		g.beginPolygon(word)
	case opcode == 0xa0:
		g.begin(word, 2, g.copyRectangle)
	case opcode == 0xc0:
		g.begin(word, 2, g.imageStore)
	case opcode == 0xe1:
		g.setDrawMode(word)
	case opcode == 0xe2:
		g.setTextureWindow(word)
	case opcode == 0xe3:
		g.drawAreaLeft = uint16(bit.Extract(word, 9, 0))
		g.drawAreaTop = uint16(bit.Extract(word, 18, 10))
	case opcode == 0xe4:
		g.drawAreaRight = uint16(bit.Extract(word, 9, 0))
		g.drawAreaBottom = uint16(bit.Extract(word, 18, 10))
	case opcode == 0xe5:
		g.setDrawOffset(word)
	case opcode == 0xe6:
		g.forceSetMaskBit = bit.IsSet(0, word)
		g.preserveMaskedPixels = bit.IsSet(1, word)
	default:
		return fault.Unsupportedf("gpu", "GP0 command", word)
	}
	return nil
}

// begin starts a command that needs more words. The first word is kept in
// the buffer so complete sees the whole command.
func (g *GPU) begin(word uint32, extra int, complete func(words []uint32) error) {
	g.buffer = append(g.buffer[:0], word)
	g.requestsMissing = extra
	g.pending = complete
}

// polygonWords returns the number of words following the command word.
// The first color is part of the command word; shaded polygons carry one
// more color per extra vertex and textured ones a texcoord per vertex.
func polygonWords(opcode uint32) (vertices, extra int) {
	vertices = 3
	if opcode&polyQuad != 0 {
		vertices = 4
	}
	extra = vertices
	if opcode&polyTextured != 0 {
		extra += vertices
	}
	if opcode&polyShaded != 0 {
		extra += vertices - 1
	}
	return vertices, extra
}

func (g *GPU) beginPolygon(word uint32) {
	opcode := word >> 24
	vertices, extra := polygonWords(opcode)

	g.begin(word, extra, func(words []uint32) error {
		g.renderer.PushPolygon(decodePolygon(opcode, vertices, words))
		return nil
	})
}

func decodePolygon(opcode uint32, vertices int, words []uint32) Polygon {
	p := Polygon{
		Vertices:        make([]Vertex, vertices),
		Shaded:          opcode&polyShaded != 0,
		Textured:        opcode&polyTextured != 0,
		SemiTransparent: opcode&polySemiTrans != 0,
	}
	p.RawTexture = p.Textured && opcode&polyRawTexture != 0

	color := ColorFromGP0(words[0])
	i := 1
	for v := range p.Vertices {
		if p.Shaded && v > 0 {
			color = ColorFromGP0(words[i])
			i++
		}
		p.Vertices[v].Color = color
		p.Vertices[v].Position = PositionFromGP0(words[i])
		i++

		if p.Textured {
			p.Vertices[v].TexCoord = TexCoordFromGP0(words[i])
			switch v {
			case 0:
				p.Clut = bit.High(words[i])
			case 1:
				p.TexPage = bit.High(words[i])
			}
			i++
		}
	}
	return p
}

// rectangleWords returns the number of pixel words of a w x h transfer.
// Pixels are 16 bits and a transfer always ends on a whole word.
func rectangleWords(size uint32) (w, h uint16, words int) {
	w = bit.Low(size)
	h = bit.High(size)
	pixels := int(w) * int(h)
	return w, h, (pixels + 1) / 2
}

func (g *GPU) copyRectangle(words []uint32) error {
	x, y := bit.Low(words[1]), bit.High(words[1])
	w, h, n := rectangleWords(words[2])

	g.logger.Debug("GP0 copy rectangle to VRAM",
		"x", x, "y", y, "width", w, "height", h, "words", n)

	if n == 0 {
		return nil
	}
	g.requestsMissing = n
	g.pending = func(pixels []uint32) error {
		g.vram.Upload(x, y, w, h, pixels)
		return nil
	}
	return nil
}

func (g *GPU) imageStore(words []uint32) error {
	x, y := bit.Low(words[1]), bit.High(words[1])
	w, h, n := rectangleWords(words[2])

	g.logger.Debug("GP0 image store",
		"x", x, "y", y, "width", w, "height", h, "words", n)

	if n == 0 {
		return nil
	}
	g.requestsMissing = n
	g.pending = func(pixels []uint32) error {
		g.logger.Debug("GP0 image store payload dropped", "words", len(pixels))
		return nil
	}
	return nil
}

func (g *GPU) setDrawMode(word uint32) {
	g.pageBaseX = uint8(bit.Extract(word, 3, 0))
	g.pageBaseY = uint8(bit.Extract(word, 4, 4))
	g.semiTransparency = uint8(bit.Extract(word, 6, 5))
	g.textureDepth = TextureDepth(bit.Extract(word, 8, 7))
	g.dithering = bit.IsSet(9, word)
	g.drawToDisplay = bit.IsSet(10, word)
	g.textureDisable = bit.IsSet(11, word)
	g.rectXFlip = bit.IsSet(12, word)
	g.rectYFlip = bit.IsSet(13, word)
}

func (g *GPU) setTextureWindow(word uint32) {
	g.texWindowMaskX = uint8(bit.Extract(word, 4, 0))
	g.texWindowMaskY = uint8(bit.Extract(word, 9, 5))
	g.texWindowOffsetX = uint8(bit.Extract(word, 14, 10))
	g.texWindowOffsetY = uint8(bit.Extract(word, 19, 15))
}

// setDrawOffset updates the offset and flushes the renderer.
func (g *GPU) setDrawOffset(word uint32) {
	g.drawOffsetX = int16(bit.SignExtend(bit.Extract(word, 10, 0), 11))
	g.drawOffsetY = int16(bit.SignExtend(bit.Extract(word, 21, 11), 11))

	g.renderer.SetDrawOffset(g.drawOffsetX, g.drawOffsetY)
	g.renderer.Display()
}

func (g *GPU) resetCommandBuffer() {
	g.buffer = g.buffer[:0]
	g.requestsMissing = 0
	g.pending = nil
}

// String describes the command assembly state.
func (g *GPU) String() string {
	return fmt.Sprintf("GPU{missing: %d, buffered: %d}", g.requestsMissing, len(g.buffer))
}
