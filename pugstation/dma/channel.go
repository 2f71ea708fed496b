package dma

import (
	"fmt"

	"github.com/valerio/go-pugstation/pugstation/bit"
)

// Port identifies one of the seven DMA channels.
type Port uint8

const (
	PortMdecIn Port = iota
	PortMdecOut
	PortGPU
	PortCDROM
	PortSPU
	PortPIO
	PortOTC
	portCount
)

var portNames = [...]string{"MDECin", "MDECout", "GPU", "CDROM", "SPU", "PIO", "OTC"}

func (p Port) String() string {
	if p < portCount {
		return portNames[p]
	}
	return fmt.Sprintf("Port(%d)", uint8(p))
}

// Direction of a transfer, seen from RAM.
type Direction uint8

const (
	ToRAM Direction = iota
	FromRAM
)

func (d Direction) String() string {
	if d == FromRAM {
		return "FromRAM"
	}
	return "ToRAM"
}

// Sync is the transfer synchronisation mode.
type Sync uint8

const (
	// SyncManual transfers everything at once, started by the trigger bit.
	SyncManual Sync = iota
	// SyncRequest transfers in blocks when the device requests them.
	SyncRequest
	// SyncLinkedList follows a list of command packets in RAM.
	SyncLinkedList
	syncReserved
)

func (s Sync) String() string {
	switch s {
	case SyncManual:
		return "Manual"
	case SyncRequest:
		return "Request"
	case SyncLinkedList:
		return "LinkedList"
	}
	return "Reserved"
}

// Channel control bits.
const (
	ctrlDirection = 0
	ctrlStep      = 1
	ctrlChop      = 8
	ctrlEnable    = 24
	ctrlTrigger   = 28
)

// Channel holds the registers of a single DMA channel.
type Channel struct {
	base         uint32
	blockControl uint32
	control      uint32
}

// Base returns the 24-bit start address.
func (c Channel) Base() uint32 { return c.base }

func (c *Channel) SetBase(value uint32) { c.base = value & 0xffffff }

// BlockControl returns the raw block control register.
func (c Channel) BlockControl() uint32 { return c.blockControl }

func (c *Channel) SetBlockControl(value uint32) { c.blockControl = value }

// Control returns the raw channel control register.
func (c Channel) Control() uint32 { return c.control }

func (c *Channel) SetControl(value uint32) { c.control = value }

func (c Channel) Direction() Direction {
	return Direction(bit.Extract(c.control, ctrlDirection, ctrlDirection))
}

// Decrement reports whether the RAM address walks backwards.
func (c Channel) Decrement() bool {
	return bit.IsSet(ctrlStep, c.control)
}

func (c Channel) Chopping() bool {
	return bit.IsSet(ctrlChop, c.control)
}

func (c Channel) Sync() Sync {
	return Sync(bit.Extract(c.control, 10, 9))
}

// ChopDMAWindow and ChopCPUWindow are log2 of the chopping window sizes.
func (c Channel) ChopDMAWindow() uint32 { return bit.Extract(c.control, 18, 16) }
func (c Channel) ChopCPUWindow() uint32 { return bit.Extract(c.control, 22, 20) }

func (c Channel) Enabled() bool {
	return bit.IsSet(ctrlEnable, c.control)
}

func (c Channel) Triggered() bool {
	return bit.IsSet(ctrlTrigger, c.control)
}

// Active reports whether the channel is ready to transfer. Manual mode
// additionally waits for the trigger bit.
func (c Channel) Active() bool {
	if !c.Enabled() {
		return false
	}
	return c.Sync() != SyncManual || c.Triggered()
}

// TransferSize returns the number of words of a block transfer. Linked
// list transfers have no size and return false.
func (c Channel) TransferSize() (uint32, bool) {
	blockSize := bit.Extract(c.blockControl, 15, 0)
	blockCount := bit.Extract(c.blockControl, 31, 16)

	switch c.Sync() {
	case SyncManual:
		return blockSize, true
	case SyncRequest:
		return blockSize * blockCount, true
	}
	return 0, false
}

// done marks the transfer as finished.
func (c *Channel) done() {
	c.control = bit.Clear(ctrlEnable, c.control)
	c.control = bit.Clear(ctrlTrigger, c.control)
}
