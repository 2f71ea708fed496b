// Package dma implements the DMA controller: seven channels moving words
// between RAM and devices, plus the global control and interrupt registers.
package dma

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-pugstation/pugstation/bit"
	"github.com/valerio/go-pugstation/pugstation/fault"
)

// Memory is the RAM side of a transfer. Offsets are RAM offsets.
type Memory interface {
	Load32(offset uint32) uint32
	Store32(offset uint32, value uint32)
}

// CommandSink receives GPU command words.
type CommandSink interface {
	GP0(word uint32) error
}

const (
	resetControl = 0x07654321

	// RAM addresses wrap at 2MiB and are always word aligned.
	addressMask = 0x1ffffc

	linkedListEnd = 0x800000
	// OTC writes this marker in the last entry of the ordering table.
	otcEnd = 0xffffff
)

// Global register offsets (major 7).
const (
	regControl   = 0x70
	regInterrupt = 0x74
)

// DMA is the DMA controller.
type DMA struct {
	control  uint32
	channels [portCount]Channel

	irqDummy     uint32 // bits 0-5 of DICR, read/write without effect
	forceIRQ     bool
	channelIRQEn uint32
	irqEn        bool
	channelFlags uint32

	ram    Memory
	gpu    CommandSink
	logger *slog.Logger
}

// Option configures a DMA controller.
type Option func(*DMA)

// WithLogger sets the logger used for transfer tracing.
func WithLogger(l *slog.Logger) Option {
	return func(d *DMA) { d.logger = l }
}

// New creates a DMA controller transferring between ram and gpu.
func New(ram Memory, gpu CommandSink, opts ...Option) *DMA {
	d := &DMA{
		control: resetControl,
		ram:     ram,
		gpu:     gpu,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Channel returns a copy of the registers of a channel.
func (d *DMA) Channel(p Port) Channel {
	return d.channels[p]
}

// Control returns DPCR.
func (d *DMA) Control() uint32 {
	return d.control
}

// Interrupt returns DICR.
func (d *DMA) Interrupt() uint32 {
	v := d.irqDummy
	v = bit.SetTo(15, v, d.forceIRQ)
	v |= d.channelIRQEn << 16
	v = bit.SetTo(23, v, d.irqEn)
	v |= d.channelFlags << 24
	v = bit.SetTo(31, v, d.irqActive())
	return v
}

func (d *DMA) setInterrupt(value uint32) {
	d.irqDummy = value & 0x3f
	d.forceIRQ = bit.IsSet(15, value)
	d.channelIRQEn = bit.Extract(value, 22, 16)
	d.irqEn = bit.IsSet(23, value)
	// writing 1 acknowledges a flag
	d.channelFlags &^= bit.Extract(value, 30, 24)
}

func (d *DMA) irqActive() bool {
	return d.forceIRQ || (d.irqEn && d.channelIRQEn&d.channelFlags != 0)
}

// Load32 reads a register at the given offset inside the DMA window.
func (d *DMA) Load32(offset uint32) (uint32, error) {
	major := (offset & 0x70) >> 4
	minor := offset & 0xf

	if major < uint32(portCount) {
		ch := &d.channels[major]
		switch minor {
		case 0:
			return ch.Base(), nil
		case 4:
			return ch.BlockControl(), nil
		case 8:
			return ch.Control(), nil
		}
		return 0, fault.Unsupportedf("dma", "register read", offset)
	}

	switch offset {
	case regControl:
		return d.control, nil
	case regInterrupt:
		return d.Interrupt(), nil
	}
	return 0, fault.Unsupportedf("dma", "register read", offset)
}

// Store32 writes a register. A write that leaves a channel active runs the
// transfer to completion before returning.
func (d *DMA) Store32(offset, value uint32) error {
	major := (offset & 0x70) >> 4
	minor := offset & 0xf

	if major < uint32(portCount) {
		port := Port(major)
		ch := &d.channels[port]
		switch minor {
		case 0:
			ch.SetBase(value)
		case 4:
			ch.SetBlockControl(value)
		case 8:
			ch.SetControl(value)
		default:
			return fault.Unsupportedf("dma", "register write", offset)
		}

		if ch.Active() {
			return d.run(port)
		}
		return nil
	}

	switch offset {
	case regControl:
		d.control = value
	case regInterrupt:
		d.setInterrupt(value)
	default:
		return fault.Unsupportedf("dma", "register write", offset)
	}
	return nil
}

func (d *DMA) run(port Port) error {
	ch := &d.channels[port]

	d.logger.Debug("DMA transfer",
		"port", port,
		"direction", ch.Direction(),
		"sync", ch.Sync(),
		"base", fmt.Sprintf("0x%06X", ch.Base()),
		"block", fmt.Sprintf("0x%08X", ch.BlockControl()))

	var err error
	switch ch.Sync() {
	case SyncManual, SyncRequest:
		err = d.blockCopy(port)
	case SyncLinkedList:
		err = d.linkedListCopy(port)
	default:
		err = fault.Unsupportedf("dma", "sync mode", uint32(ch.Sync()))
	}
	if err != nil {
		return fmt.Errorf("dma %s: %w", port, err)
	}

	d.finish(port)
	return nil
}

func (d *DMA) finish(port Port) {
	d.channels[port].done()
	if bit.IsSet(uint8(port), d.channelIRQEn) {
		d.channelFlags = bit.Set(uint8(port), d.channelFlags)
	}
}

func (d *DMA) blockCopy(port Port) error {
	ch := &d.channels[port]
	direction := ch.Direction()

	switch {
	case direction == FromRAM && port != PortGPU:
		return fault.Unsupportedf("dma", "FromRAM port", uint32(port))
	case direction == ToRAM && port != PortOTC:
		return fault.Unsupportedf("dma", "ToRAM port", uint32(port))
	}

	step := uint32(4)
	if ch.Decrement() {
		step = ^uint32(3) // -4
	}

	size, _ := ch.TransferSize()
	address := ch.Base()

	for remaining := size; remaining > 0; remaining-- {
		current := address & addressMask

		if direction == FromRAM {
			if err := d.gpu.GP0(d.ram.Load32(current)); err != nil {
				return err
			}
		} else {
			word := (address - 4) & 0x1fffff
			if remaining == 1 {
				word = otcEnd
			}
			d.ram.Store32(current, word)
		}

		address += step
	}

	return nil
}

func (d *DMA) linkedListCopy(port Port) error {
	ch := &d.channels[port]

	if port != PortGPU || ch.Direction() != FromRAM {
		return fault.Unsupportedf("dma", "linked list port", uint32(port))
	}

	address := ch.Base() & addressMask
	for {
		header := d.ram.Load32(address)

		for count := header >> 24; count > 0; count-- {
			address = (address + 4) & addressMask
			if err := d.gpu.GP0(d.ram.Load32(address)); err != nil {
				return err
			}
		}

		if header&linkedListEnd != 0 {
			return nil
		}
		address = header & addressMask
	}
}
