// Package video implements the GPU command interface: GP0 drawing and
// configuration commands, GP1 display control and the GPUSTAT register.
// Rasterization is left to a Renderer.
package video

import (
	"log/slog"

	"github.com/valerio/go-pugstation/pugstation/bit"
)

// TextureDepth is the texel format of the texture page.
type TextureDepth uint8

const (
	Texture4Bit TextureDepth = iota
	Texture8Bit
	Texture15Bit
)

// HorizontalRes is the 3-bit GPUSTAT encoding of the display width.
type HorizontalRes uint8

// HorizontalResFromFields combines the two GP1(0x08) width fields.
func HorizontalResFromFields(hr1, hr2 uint8) HorizontalRes {
	return HorizontalRes(hr2&1 | (hr1&3)<<1)
}

// Width returns the display width in pixels.
func (h HorizontalRes) Width() int {
	if h&1 != 0 {
		return 368
	}
	return [4]int{256, 320, 512, 640}[h>>1]
}

type VerticalRes uint8

const (
	Vertical240 VerticalRes = iota
	Vertical480
)

type VideoMode uint8

const (
	NTSC VideoMode = iota
	PAL
)

type DisplayDepth uint8

const (
	Display15Bit DisplayDepth = iota
	Display24Bit
)

// DMADirection is the GP1(0x04) data transfer direction.
type DMADirection uint8

const (
	DMAOff DMADirection = iota
	DMAFifo
	DMACPUToGP0
	DMAVRAMToCPU
)

// GPU holds the GPU registers and the GP0 command assembly state.
type GPU struct {
	renderer Renderer
	vram     *VRAM
	logger   *slog.Logger

	// draw mode, GP0(0xE1)
	pageBaseX        uint8
	pageBaseY        uint8
	semiTransparency uint8
	textureDepth     TextureDepth
	dithering        bool
	drawToDisplay    bool
	textureDisable   bool
	rectXFlip        bool
	rectYFlip        bool

	// texture window, GP0(0xE2)
	texWindowMaskX   uint8
	texWindowMaskY   uint8
	texWindowOffsetX uint8
	texWindowOffsetY uint8

	// drawing area, GP0(0xE3) and GP0(0xE4)
	drawAreaLeft   uint16
	drawAreaTop    uint16
	drawAreaRight  uint16
	drawAreaBottom uint16

	// GP0(0xE5)
	drawOffsetX int16
	drawOffsetY int16

	// GP0(0xE6)
	forceSetMaskBit      bool
	preserveMaskedPixels bool

	interrupt         bool
	displayDisabled   bool
	dmaDirection      DMADirection
	displayVRAMX      uint16
	displayVRAMY      uint16
	hres              HorizontalRes
	vres              VerticalRes
	videoMode         VideoMode
	displayDepth      DisplayDepth
	interlaced        bool
	displayHorizStart uint16
	displayHorizEnd   uint16
	displayLineStart  uint16
	displayLineEnd    uint16

	// GP0 command assembly
	buffer          []uint32
	requestsMissing int
	pending         func(words []uint32) error
}

// Option configures a GPU.
type Option func(*GPU)

// WithLogger sets the logger used for command tracing.
func WithLogger(l *slog.Logger) Option {
	return func(g *GPU) { g.logger = l }
}

// New creates a GPU in its power-on state, drawing to renderer.
func New(renderer Renderer, opts ...Option) *GPU {
	g := &GPU{
		renderer: renderer,
		vram:     NewVRAM(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.defaults()
	return g
}

// defaults applies the reset value of every register.
func (g *GPU) defaults() {
	g.resetCommandBuffer()
	g.interrupt = false

	g.pageBaseX = 0
	g.pageBaseY = 0
	g.semiTransparency = 0
	g.textureDepth = Texture4Bit
	g.dithering = false
	g.drawToDisplay = false
	g.textureDisable = false
	g.rectXFlip = false
	g.rectYFlip = false

	g.texWindowMaskX = 0
	g.texWindowMaskY = 0
	g.texWindowOffsetX = 0
	g.texWindowOffsetY = 0

	g.drawAreaLeft = 0
	g.drawAreaTop = 0
	g.drawAreaRight = 0
	g.drawAreaBottom = 0

	g.drawOffsetX = 0
	g.drawOffsetY = 0

	g.forceSetMaskBit = false
	g.preserveMaskedPixels = false

	g.displayDisabled = true
	g.dmaDirection = DMAOff
	g.displayVRAMX = 0
	g.displayVRAMY = 0
	g.displayHorizStart = 0x200
	g.displayHorizEnd = 0xc00
	g.displayLineStart = 0x10
	g.displayLineEnd = 0x100
	g.hres = HorizontalResFromFields(0, 0)
	g.vres = Vertical240
	g.videoMode = NTSC
	g.displayDepth = Display15Bit
	g.interlaced = true
}

// VRAM returns the GPU frame memory.
func (g *GPU) VRAM() *VRAM {
	return g.vram
}

// Read returns GPUREAD. VRAM to CPU transfers are not emulated.
func (g *GPU) Read() uint32 {
	g.logger.Debug("GPUREAD")
	return 0
}

// Status returns GPUSTAT.
func (g *GPU) Status() uint32 {
	var v uint32
	v |= uint32(g.pageBaseX)
	v |= uint32(g.pageBaseY) << 4
	v |= uint32(g.semiTransparency) << 5
	v |= uint32(g.textureDepth) << 7
	v = bit.SetTo(9, v, g.dithering)
	v = bit.SetTo(10, v, g.drawToDisplay)
	v = bit.SetTo(11, v, g.forceSetMaskBit)
	v = bit.SetTo(12, v, g.preserveMaskedPixels)
	// bit 13 interlace field and bit 14 reverse flag stay 0
	v = bit.SetTo(15, v, g.textureDisable)
	v |= uint32(g.hres) << 16
	// Bit 19 is reported as 240 lines: with 480 lines the BIOS waits on
	// bit 31 toggling, which needs a timing model.
	v |= uint32(g.videoMode) << 20
	v |= uint32(g.displayDepth) << 21
	v = bit.SetTo(22, v, g.interlaced)
	v = bit.SetTo(23, v, g.displayDisabled)
	v = bit.SetTo(24, v, g.interrupt)

	// always ready to receive commands, send VRAM and receive DMA blocks
	v = bit.Set(26, v)
	v = bit.Set(27, v)
	v = bit.Set(28, v)

	v |= uint32(g.dmaDirection) << 29

	var dmaRequest bool
	switch g.dmaDirection {
	case DMAOff:
		dmaRequest = false
	case DMAFifo:
		dmaRequest = true
	case DMACPUToGP0:
		dmaRequest = bit.IsSet(28, v)
	case DMAVRAMToCPU:
		dmaRequest = bit.IsSet(27, v)
	}
	v = bit.SetTo(25, v, dmaRequest)

	return v
}

// DisplayArea describes the region of VRAM sent to the video output.
type DisplayArea struct {
	X, Y       uint16
	Width      int
	Lines      int
	HorizStart uint16
	HorizEnd   uint16
	LineStart  uint16
	LineEnd    uint16
	PAL        bool
	Depth24    bool
	Interlaced bool
	Disabled   bool
}

// DisplayArea returns the current display configuration.
func (g *GPU) DisplayArea() DisplayArea {
	lines := 240
	if g.vres == Vertical480 {
		lines = 480
	}
	return DisplayArea{
		X:          g.displayVRAMX,
		Y:          g.displayVRAMY,
		Width:      g.hres.Width(),
		Lines:      lines,
		HorizStart: g.displayHorizStart,
		HorizEnd:   g.displayHorizEnd,
		LineStart:  g.displayLineStart,
		LineEnd:    g.displayLineEnd,
		PAL:        g.videoMode == PAL,
		Depth24:    g.displayDepth == Display24Bit,
		Interlaced: g.interlaced,
		Disabled:   g.displayDisabled,
	}
}

// DrawingArea returns the clip rectangle as left, top, right, bottom.
func (g *GPU) DrawingArea() (left, top, right, bottom uint16) {
	return g.drawAreaLeft, g.drawAreaTop, g.drawAreaRight, g.drawAreaBottom
}

// DrawOffset returns the drawing offset.
func (g *GPU) DrawOffset() (x, y int16) {
	return g.drawOffsetX, g.drawOffsetY
}

// TextureWindow returns mask x, mask y, offset x and offset y.
func (g *GPU) TextureWindow() (maskX, maskY, offsetX, offsetY uint8) {
	return g.texWindowMaskX, g.texWindowMaskY, g.texWindowOffsetX, g.texWindowOffsetY
}

// RectangleFlip returns the textured rectangle flip flags.
func (g *GPU) RectangleFlip() (x, y bool) {
	return g.rectXFlip, g.rectYFlip
}

// PendingWords returns how many GP0 words the current command still needs.
func (g *GPU) PendingWords() int {
	return g.requestsMissing
}

// BufferedWords returns how many GP0 words are waiting for completion.
func (g *GPU) BufferedWords() int {
	return len(g.buffer)
}
