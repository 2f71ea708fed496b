package addr

// Range is a memory mapped region of the physical address space.
type Range struct {
	Start  uint32
	Length uint32
}

// Contains reports whether the physical address falls inside the range.
func (r Range) Contains(address uint32) bool {
	return address >= r.Start && address-r.Start < r.Length
}

// Offset returns the offset of address relative to the start of the range.
// The result is only meaningful when Contains(address) is true.
func (r Range) Offset(address uint32) uint32 {
	return address - r.Start
}

// End returns the last address covered by the range.
func (r Range) End() uint32 {
	return r.Start + r.Length - 1
}

// regionMask is indexed by the top 3 bits of an address: KUSEG (2GB) is
// passed through, KSEG0 drops bit 31, KSEG1 drops bits 31:29 and KSEG2 is
// passed through.
var regionMask = [8]uint32{
	0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff,
	0x7fffffff,
	0x1fffffff,
	0xffffffff, 0xffffffff,
}

// MaskRegion maps a CPU address to its physical address.
func MaskRegion(address uint32) uint32 {
	return address & regionMask[address>>29]
}
