package addr

// Memory map, physical addresses.
// Reference: https://psx-spx.consoledev.net/memorymap/
const (
	// BIOSSize is the size of the BIOS ROM image.
	BIOSSize = 512 * 1024
	// RAMSize is the size of main RAM.
	RAMSize = 2 * 1024 * 1024
	// VRAMWidth and VRAMHeight are the GPU VRAM dimensions in 16-bit pixels.
	VRAMWidth  = 1024
	VRAMHeight = 512
	// MemControlLength is the size of the memory control register block.
	MemControlLength = 36
)

var (
	RAM          = Range{Start: 0x00000000, Length: RAMSize}
	BIOS         = Range{Start: 0x1fc00000, Length: BIOSSize}
	MemControl   = Range{Start: 0x1f801000, Length: MemControlLength}
	RAMSizeReg   = Range{Start: 0x1f801060, Length: 4}
	CacheControl = Range{Start: 0xfffe0130, Length: 4}
	IRQControl   = Range{Start: 0x1f801070, Length: 8}
	DMA          = Range{Start: 0x1f801080, Length: 0x80}
	GPU          = Range{Start: 0x1f801810, Length: 8}
	Timers       = Range{Start: 0x1f801100, Length: 0x30}
	SPU          = Range{Start: 0x1f801c00, Length: 640}
	Expansion1   = Range{Start: 0x1f000000, Length: 512 * 1024}
	Expansion2   = Range{Start: 0x1f802000, Length: 66}
	CDROM        = Range{Start: 0x1f801800, Length: 4}
)

// Fixed base addresses the BIOS writes into the memory control registers.
const (
	Expansion1Base uint32 = 0x1f000000
	Expansion2Base uint32 = 0x1f802000
)

// Memory control register offsets.
const (
	MemControlExpansion1Base uint32 = 0
	MemControlExpansion2Base uint32 = 4
)

// GPU register offsets.
const (
	GP0 uint32 = 0 // write: GP0 command, read: GPUREAD
	GP1 uint32 = 4 // write: GP1 command, read: GPUSTAT
)

// CPU vectors.
const (
	ResetVector         uint32 = 0xbfc00000
	ExceptionVectorBoot uint32 = 0xbfc00180
	ExceptionVectorRAM  uint32 = 0x80000080
)
