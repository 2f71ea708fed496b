package video

import "github.com/valerio/go-pugstation/pugstation/addr"

// VRAM is the GPU's 1MiB frame memory, 1024x512 16-bit pixels.
type VRAM struct {
	width  uint
	height uint
	pixels []uint16
}

func NewVRAM() *VRAM {
	return &VRAM{
		width:  addr.VRAMWidth,
		height: addr.VRAMHeight,
		pixels: make([]uint16, addr.VRAMWidth*addr.VRAMHeight),
	}
}

// Pixel returns the pixel at x, y. Coordinates wrap around.
func (v *VRAM) Pixel(x, y uint) uint16 {
	return v.pixels[(y%v.height)*v.width+x%v.width]
}

func (v *VRAM) SetPixel(x, y uint, value uint16) {
	v.pixels[(y%v.height)*v.width+x%v.width] = value
}

// Upload writes a w x h rectangle at x, y from packed pixel words, low
// halfword first.
func (v *VRAM) Upload(x, y, w, h uint16, words []uint32) {
	var i uint
	for row := uint(0); row < uint(h); row++ {
		for col := uint(0); col < uint(w); col++ {
			word := words[i/2]
			pixel := uint16(word)
			if i%2 == 1 {
				pixel = uint16(word >> 16)
			}
			v.SetPixel(uint(x)+col, uint(y)+row, pixel)
			i++
		}
	}
}
