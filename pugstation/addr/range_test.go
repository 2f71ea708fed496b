package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeContains(t *testing.T) {
	testCases := []struct {
		desc     string
		r        Range
		address  uint32
		contains bool
		offset   uint32
	}{
		{desc: "start", r: BIOS, address: 0x1fc00000, contains: true, offset: 0},
		{desc: "last byte", r: BIOS, address: 0x1fc7ffff, contains: true, offset: 0x7ffff},
		{desc: "past end", r: BIOS, address: 0x1fc80000, contains: false},
		{desc: "before start", r: GPU, address: 0x1f80180f, contains: false},
		{desc: "gp1", r: GPU, address: 0x1f801814, contains: true, offset: GP1},
		{desc: "top of address space", r: CacheControl, address: 0xfffe0130, contains: true, offset: 0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.contains, tC.r.Contains(tC.address))
			if tC.contains {
				assert.Equal(t, tC.offset, tC.r.Offset(tC.address))
			}
		})
	}
}

func TestMaskRegion(t *testing.T) {
	testCases := []struct {
		desc     string
		address  uint32
		physical uint32
	}{
		{desc: "kuseg", address: 0x00001234, physical: 0x00001234},
		{desc: "kseg0", address: 0x80001234, physical: 0x00001234},
		{desc: "kseg1 bios", address: 0xbfc00000, physical: 0x1fc00000},
		{desc: "kseg1 io", address: 0xbf801810, physical: 0x1f801810},
		{desc: "kseg2", address: 0xfffe0130, physical: 0xfffe0130},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.physical, MaskRegion(tC.address))
		})
	}
}

func TestRangesDoNotOverlap(t *testing.T) {
	ranges := []Range{RAM, BIOS, MemControl, RAMSizeReg, CacheControl, IRQControl, DMA, GPU, Timers, SPU, Expansion1, Expansion2, CDROM}
	for i, a := range ranges {
		for j, b := range ranges {
			if i == j {
				continue
			}
			assert.False(t, a.Contains(b.Start), "range %d contains start of range %d", i, j)
		}
	}
}
