package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-pugstation/pugstation/addr"
	"github.com/valerio/go-pugstation/pugstation/dma"
	"github.com/valerio/go-pugstation/pugstation/fault"
	"github.com/valerio/go-pugstation/pugstation/video"
)

type stubRegion struct {
	r    addr.Range
	stub *Stub
}

// Interconnect is the system bus. It maps CPU addresses to RAM, the BIOS
// and the memory mapped devices.
type Interconnect struct {
	bios *BIOS
	ram  *RAM
	dma  *dma.DMA
	gpu  *video.GPU

	memControl   [addr.MemControlLength / 4]uint32
	ramSize      uint32
	cacheControl uint32

	stubs  []stubRegion
	logger *slog.Logger
}

type InterconnectOption func(*Interconnect)

// WithLogger sets the logger used by the bus and every device on it.
func WithLogger(l *slog.Logger) InterconnectOption {
	return func(i *Interconnect) { i.logger = l }
}

// NewInterconnect builds the bus and its devices. The GPU draws to renderer.
func NewInterconnect(bios *BIOS, renderer video.Renderer, opts ...InterconnectOption) *Interconnect {
	i := &Interconnect{
		bios:   bios,
		ram:    NewRAM(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}

	i.gpu = video.New(renderer, video.WithLogger(i.logger))
	i.dma = dma.New(i.ram, i.gpu, dma.WithLogger(i.logger))

	stubLogger := WithStubLogger(i.logger)
	i.stubs = []stubRegion{
		{addr.IRQControl, NewStub("irq", 0x00, stubLogger)},
		{addr.Timers, NewStub("timers", 0x00, stubLogger)},
		{addr.SPU, NewStub("spu", 0x00, stubLogger)},
		{addr.Expansion1, NewStub("expansion1", 0xff, stubLogger)},
		{addr.Expansion2, NewStub("expansion2", 0xff, stubLogger)},
		{addr.CDROM, NewStub("cdrom", 0x00, stubLogger)},
	}
	return i
}

func (i *Interconnect) BIOS() *BIOS     { return i.bios }
func (i *Interconnect) RAM() *RAM       { return i.ram }
func (i *Interconnect) DMA() *dma.DMA   { return i.dma }
func (i *Interconnect) GPU() *video.GPU { return i.gpu }

// Stubs returns the placeholder devices in dispatch order.
func (i *Interconnect) Stubs() []*Stub {
	out := make([]*Stub, len(i.stubs))
	for n, s := range i.stubs {
		out[n] = s.stub
	}
	return out
}

func (i *Interconnect) Load8(address uint32) (uint8, error) {
	v, err := i.load(address, Byte)
	return uint8(v), err
}

func (i *Interconnect) Load16(address uint32) (uint16, error) {
	v, err := i.load(address, Half)
	return uint16(v), err
}

func (i *Interconnect) Load32(address uint32) (uint32, error) {
	return i.load(address, Word)
}

func (i *Interconnect) Store8(address uint32, value uint8) error {
	return i.store(address, uint32(value), Byte)
}

func (i *Interconnect) Store16(address uint32, value uint16) error {
	return i.store(address, uint32(value), Half)
}

func (i *Interconnect) Store32(address uint32, value uint32) error {
	return i.store(address, value, Word)
}

func (i *Interconnect) load(address uint32, size AccessSize) (uint32, error) {
	phys := addr.MaskRegion(address)

	switch {
	case addr.RAM.Contains(phys):
		off := addr.RAM.Offset(phys)
		switch size {
		case Byte:
			return uint32(i.ram.Load8(off)), nil
		case Half:
			return uint32(i.ram.Load16(off)), nil
		}
		return i.ram.Load32(off), nil

	case addr.BIOS.Contains(phys):
		off := addr.BIOS.Offset(phys)
		switch size {
		case Byte:
			return uint32(i.bios.Load8(off)), nil
		case Half:
			return uint32(i.bios.Load16(off)), nil
		}
		return i.bios.Load32(off), nil

	case addr.MemControl.Contains(phys):
		return i.memControl[addr.MemControl.Offset(phys)/4] & size.mask(), nil

	case addr.RAMSizeReg.Contains(phys):
		return i.ramSize & size.mask(), nil

	case addr.CacheControl.Contains(phys):
		return i.cacheControl & size.mask(), nil

	case addr.DMA.Contains(phys):
		if size != Word {
			return 0, fault.Unsupportedf("bus", fmt.Sprintf("%d-byte DMA load", size), address)
		}
		return i.dma.Load32(addr.DMA.Offset(phys))

	case addr.GPU.Contains(phys):
		if size != Word {
			return 0, fault.Unsupportedf("bus", fmt.Sprintf("%d-byte GPU load", size), address)
		}
		switch addr.GPU.Offset(phys) {
		case addr.GP0:
			return i.gpu.Read(), nil
		case addr.GP1:
			return i.gpu.Status(), nil
		}
		return 0, fault.Unsupportedf("bus", "GPU load", address)
	}

	for _, s := range i.stubs {
		if s.r.Contains(phys) {
			return s.stub.Load(s.r.Offset(phys), size), nil
		}
	}

	return 0, fault.Unsupportedf("bus", "load from unmapped address", address)
}

func (i *Interconnect) store(address, value uint32, size AccessSize) error {
	phys := addr.MaskRegion(address)

	switch {
	case addr.RAM.Contains(phys):
		off := addr.RAM.Offset(phys)
		switch size {
		case Byte:
			i.ram.Store8(off, uint8(value))
		case Half:
			i.ram.Store16(off, uint16(value))
		default:
			i.ram.Store32(off, value)
		}
		return nil

	case addr.BIOS.Contains(phys):
		i.logger.Warn("store to BIOS dropped",
			"address", fmt.Sprintf("0x%08X", address), "value", fmt.Sprintf("0x%08X", value))
		return nil

	case addr.MemControl.Contains(phys):
		return i.storeMemControl(addr.MemControl.Offset(phys), value)

	case addr.RAMSizeReg.Contains(phys):
		i.logger.Debug("RAM size register", "value", fmt.Sprintf("0x%08X", value))
		i.ramSize = value
		return nil

	case addr.CacheControl.Contains(phys):
		i.logger.Debug("cache control register", "value", fmt.Sprintf("0x%08X", value))
		i.cacheControl = value
		return nil

	case addr.DMA.Contains(phys):
		if size != Word {
			return fault.Unsupportedf("bus", fmt.Sprintf("%d-byte DMA store", size), address)
		}
		return i.dma.Store32(addr.DMA.Offset(phys), value)

	case addr.GPU.Contains(phys):
		if size != Word {
			return fault.Unsupportedf("bus", fmt.Sprintf("%d-byte GPU store", size), address)
		}
		switch addr.GPU.Offset(phys) {
		case addr.GP0:
			return i.gpu.GP0(value)
		case addr.GP1:
			return i.gpu.GP1(value)
		}
		return fault.Unsupportedf("bus", "GPU store", address)
	}

	for _, s := range i.stubs {
		if s.r.Contains(phys) {
			s.stub.Store(s.r.Offset(phys), value, size)
			return nil
		}
	}

	return fault.Unsupportedf("bus", "store to unmapped address", address)
}

// storeMemControl accepts the expansion base addresses only at their
// hardware values; the remaining delay/size registers are kept as written.
func (i *Interconnect) storeMemControl(offset, value uint32) error {
	switch offset {
	case addr.MemControlExpansion1Base:
		if value != addr.Expansion1Base {
			return fault.Unsupportedf("bus", "expansion 1 base address", value)
		}
	case addr.MemControlExpansion2Base:
		if value != addr.Expansion2Base {
			return fault.Unsupportedf("bus", "expansion 2 base address", value)
		}
	default:
		i.logger.Debug("memory control register",
			"offset", fmt.Sprintf("0x%02X", offset), "value", fmt.Sprintf("0x%08X", value))
	}
	i.memControl[offset/4] = value
	return nil
}
