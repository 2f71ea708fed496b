// Package cop0 implements the system control coprocessor: status, cause
// and exception program counter registers.
package cop0

import (
	"github.com/valerio/go-pugstation/pugstation/addr"
	"github.com/valerio/go-pugstation/pugstation/bit"
	"github.com/valerio/go-pugstation/pugstation/fault"
)

// Register indices addressed by MFC0/MTC0.
const (
	RegBPC      = 3
	RegBDA      = 5
	RegJumpDest = 6
	RegDCIC     = 7
	RegBadVaddr = 8
	RegBDAM     = 9
	RegBPCM     = 11
	RegSR       = 12
	RegCause    = 13
	RegEPC      = 14
)

// Status register bits.
const (
	srIEc = 0  // interrupt enable, current
	srKUc = 1  // kernel/user mode, current
	srIsc = 16 // isolate cache
	srBEV = 22 // boot exception vectors
)

const (
	causeBD = 31
	// software interrupt bits are the only writable part of Cause
	causeWritable = 0x300
)

// Cop0 holds the coprocessor 0 registers.
type Cop0 struct {
	sr    uint32
	cause uint32
	epc   uint32
}

func New() *Cop0 {
	return &Cop0{}
}

// SR returns the raw status register.
func (c *Cop0) SR() uint32 { return c.sr }

// SetSR replaces the status register.
func (c *Cop0) SetSR(value uint32) { c.sr = value }

// Cause returns the raw cause register.
func (c *Cop0) Cause() uint32 { return c.cause }

// SetCause writes the software interrupt bits of the cause register.
func (c *Cop0) SetCause(value uint32) {
	c.cause = c.cause&^causeWritable | value&causeWritable
}

// EPC returns the exception program counter.
func (c *Cop0) EPC() uint32 { return c.epc }

// SetEPC replaces the exception program counter.
func (c *Cop0) SetEPC(value uint32) { c.epc = value }

// CacheIsolated reports whether loads and stores target the data cache
// instead of memory.
func (c *Cop0) CacheIsolated() bool {
	return bit.IsSet(srIsc, c.sr)
}

// BootExceptionVectors reports whether exceptions jump to the BIOS.
func (c *Cop0) BootExceptionVectors() bool {
	return bit.IsSet(srBEV, c.sr)
}

// InterruptsEnabled reports the current interrupt enable bit.
func (c *Cop0) InterruptsEnabled() bool {
	return bit.IsSet(srIEc, c.sr)
}

// UserMode reports the current kernel/user bit.
func (c *Cop0) UserMode() bool {
	return bit.IsSet(srKUc, c.sr)
}

// ExceptionCode returns the code of the last exception.
func (c *Cop0) ExceptionCode() fault.Exception {
	return fault.Exception(bit.Extract(c.cause, 6, 2))
}

// BranchDelay reports whether the last exception happened in a delay slot.
func (c *Cop0) BranchDelay() bool {
	return bit.IsSet(causeBD, c.cause)
}

// EnterException records an exception and returns the handler address.
// pc is the address of the faulting instruction.
func (c *Cop0) EnterException(e fault.Exception, pc uint32, delaySlot bool) uint32 {
	// push the mode stack: old <- previous, previous <- current,
	// current <- kernel mode with interrupts off
	mode := c.sr & 0x3f
	c.sr = c.sr&^0x3f | (mode<<2)&0x3f

	c.cause = bit.Insert(c.cause, uint32(e), 6, 2)

	if delaySlot {
		c.epc = pc - 4
		c.cause = bit.Set(causeBD, c.cause)
	} else {
		c.epc = pc
		c.cause = bit.Clear(causeBD, c.cause)
	}

	if c.BootExceptionVectors() {
		return addr.ExceptionVectorBoot
	}
	return addr.ExceptionVectorRAM
}

// ReturnFromException pops the mode stack: current <- previous,
// previous <- old. The old pair is left untouched.
func (c *Cop0) ReturnFromException() {
	mode := c.sr & 0x3f
	c.sr = c.sr&^0xf | mode>>2
}
