package cpu

import (
	"fmt"

	"github.com/valerio/go-pugstation/pugstation/bit"
	"github.com/valerio/go-pugstation/pugstation/cop0"
	"github.com/valerio/go-pugstation/pugstation/fault"
)

// execute runs a single decoded instruction. A *fault.Fault result is a
// CPU exception, anything else is fatal.
func (c *CPU) execute(i Instruction) error {
	s, t, d := i.S(), i.T(), i.D()

	switch op := Decode(i); op {
	case OpSLL:
		c.setReg(d, c.reg(t)<<i.Shift())
	case OpSRL:
		c.setReg(d, c.reg(t)>>i.Shift())
	case OpSRA:
		c.setReg(d, uint32(int32(c.reg(t))>>i.Shift()))
	case OpSLLV:
		c.setReg(d, c.reg(t)<<(c.reg(s)&0x1f))
	case OpSRLV:
		c.setReg(d, c.reg(t)>>(c.reg(s)&0x1f))
	case OpSRAV:
		c.setReg(d, uint32(int32(c.reg(t))>>(c.reg(s)&0x1f)))

	case OpJR:
		c.nextIp = c.reg(s)
		c.branching = true
	case OpJALR:
		ra := c.nextIp
		c.nextIp = c.reg(s)
		c.setReg(d, ra)
		c.branching = true

	case OpSYSCALL:
		return fault.Raise(fault.SysCall, c.currentIp)
	case OpBREAK:
		return fault.Raise(fault.Break, c.currentIp)

	case OpMFHI:
		c.setReg(d, c.hi)
	case OpMTHI:
		c.hi = c.reg(s)
	case OpMFLO:
		c.setReg(d, c.lo)
	case OpMTLO:
		c.lo = c.reg(s)
	case OpMULT:
		v := uint64(int64(int32(c.reg(s))) * int64(int32(c.reg(t))))
		c.hi, c.lo = uint32(v>>32), uint32(v)
	case OpMULTU:
		v := uint64(c.reg(s)) * uint64(c.reg(t))
		c.hi, c.lo = uint32(v>>32), uint32(v)
	case OpDIV:
		c.div(c.reg(s), c.reg(t))
	case OpDIVU:
		c.divu(c.reg(s), c.reg(t))

	case OpADD:
		v, overflow := bit.CheckedAdd(c.reg(s), c.reg(t))
		if overflow {
			return fault.Raise(fault.Overflow, c.currentIp)
		}
		c.setReg(d, v)
	case OpADDU:
		c.setReg(d, c.reg(s)+c.reg(t))
	case OpSUB:
		v, overflow := bit.CheckedSub(c.reg(s), c.reg(t))
		if overflow {
			return fault.Raise(fault.Overflow, c.currentIp)
		}
		c.setReg(d, v)
	case OpSUBU:
		c.setReg(d, c.reg(s)-c.reg(t))
	case OpAND:
		c.setReg(d, c.reg(s)&c.reg(t))
	case OpOR:
		c.setReg(d, c.reg(s)|c.reg(t))
	case OpXOR:
		c.setReg(d, c.reg(s)^c.reg(t))
	case OpNOR:
		c.setReg(d, ^(c.reg(s) | c.reg(t)))
	case OpSLT:
		c.setReg(d, bit.FromBool(int32(c.reg(s)) < int32(c.reg(t))))
	case OpSLTU:
		c.setReg(d, bit.FromBool(c.reg(s) < c.reg(t)))

	case OpBLTZ, OpBGEZ, OpBLTZAL, OpBGEZAL:
		v := int32(c.reg(s))
		taken := v < 0
		if op == OpBGEZ || op == OpBGEZAL {
			taken = v >= 0
		}
		if op == OpBLTZAL || op == OpBGEZAL {
			c.setReg(31, c.nextIp)
		}
		c.branch(i.ImmSE(), taken)

	case OpJ:
		c.jump(i.Target())
	case OpJAL:
		c.setReg(31, c.nextIp)
		c.jump(i.Target())
	case OpBEQ:
		c.branch(i.ImmSE(), c.reg(s) == c.reg(t))
	case OpBNE:
		c.branch(i.ImmSE(), c.reg(s) != c.reg(t))
	case OpBLEZ:
		c.branch(i.ImmSE(), int32(c.reg(s)) <= 0)
	case OpBGTZ:
		c.branch(i.ImmSE(), int32(c.reg(s)) > 0)

	case OpADDI:
		v, overflow := bit.CheckedAdd(c.reg(s), i.ImmSE())
		if overflow {
			return fault.Raise(fault.Overflow, c.currentIp)
		}
		c.setReg(t, v)
	case OpADDIU:
		c.setReg(t, c.reg(s)+i.ImmSE())
	case OpSLTI:
		c.setReg(t, bit.FromBool(int32(c.reg(s)) < int32(i.ImmSE())))
	case OpSLTIU:
		c.setReg(t, bit.FromBool(c.reg(s) < i.ImmSE()))
	case OpANDI:
		c.setReg(t, c.reg(s)&i.Imm())
	case OpORI:
		c.setReg(t, c.reg(s)|i.Imm())
	case OpXORI:
		c.setReg(t, c.reg(s)^i.Imm())
	case OpLUI:
		c.setReg(t, i.Imm()<<16)

	case OpMFC0:
		return c.mfc0(t, d)
	case OpMTC0:
		return c.mtc0(t, d)
	case OpRFE:
		c.cop0.ReturnFromException()
	case OpCOP0:
		return fault.Unsupportedf("cpu", "cop0 instruction", uint32(i))

	case OpCOP1, OpCOP3, OpLWC0, OpLWC1, OpLWC3, OpSWC0, OpSWC1, OpSWC3:
		return fault.Raise(fault.CoprocessorError, c.currentIp)
	case OpCOP2, OpLWC2, OpSWC2:
		return fault.Unsupportedf("cpu", "GTE instruction", uint32(i))

	case OpLB, OpLBU, OpLH, OpLHU, OpLW:
		return c.loadOp(op, c.reg(s)+i.ImmSE(), t)
	case OpLWL, OpLWR:
		return c.loadUnaligned(op, c.reg(s)+i.ImmSE(), t)
	case OpSB, OpSH, OpSW:
		return c.storeOp(op, c.reg(s)+i.ImmSE(), c.reg(t))
	case OpSWL, OpSWR:
		return c.storeUnaligned(op, c.reg(s)+i.ImmSE(), c.reg(t))

	case OpIllegal:
		c.logger.Warn("illegal instruction",
			"instruction", fmt.Sprintf("0x%08X", uint32(i)),
			"pc", fmt.Sprintf("0x%08X", c.currentIp))
		return fault.Raise(fault.IllegalInstruction, c.currentIp)

	default:
		return fault.Unsupportedf("cpu", "operation "+op.String(), uint32(i))
	}
	return nil
}

// branch schedules a relative jump from the delay slot. The instruction
// after a branch is a delay slot whether or not the branch is taken.
func (c *CPU) branch(offset uint32, taken bool) {
	c.branching = true
	if !taken {
		return
	}
	// nextIp already points past the delay slot
	c.nextIp += offset << 2
	c.nextIp -= 4
}

// jump replaces the low 28 bits of the delay slot address.
func (c *CPU) jump(target uint32) {
	c.nextIp = c.ip&0xf0000000 | target<<2
	c.branching = true
}

func (c *CPU) div(s, t uint32) {
	n, d := int32(s), int32(t)

	switch {
	case d == 0:
		c.hi = s
		if n >= 0 {
			c.lo = 0xffffffff
		} else {
			c.lo = 1
		}
	case s == 0x80000000 && d == -1:
		c.hi = 0
		c.lo = 0x80000000
	default:
		c.hi = uint32(n % d)
		c.lo = uint32(n / d)
	}
}

func (c *CPU) divu(n, d uint32) {
	if d == 0 {
		c.hi = n
		c.lo = 0xffffffff
		return
	}
	c.hi = n % d
	c.lo = n / d
}

func (c *CPU) mfc0(t, d uint32) error {
	var v uint32
	switch d {
	case cop0.RegSR:
		v = c.cop0.SR()
	case cop0.RegCause:
		v = c.cop0.Cause()
	case cop0.RegEPC:
		v = c.cop0.EPC()
	default:
		return fault.Unsupportedf("cpu", "cop0 register read", d)
	}
	c.load = pendingLoad{index: t, value: v}
	return nil
}

func (c *CPU) mtc0(t, d uint32) error {
	v := c.reg(t)

	switch d {
	case cop0.RegBPC, cop0.RegBDA, cop0.RegJumpDest, cop0.RegDCIC, cop0.RegBDAM, cop0.RegBPCM:
		// breakpoint registers, the BIOS clears them
		if v != 0 {
			return fault.Unsupportedf("cpu", fmt.Sprintf("cop0 register %d write", d), v)
		}
	case cop0.RegSR:
		c.cop0.SetSR(v)
	case cop0.RegCause:
		c.cop0.SetCause(v)
	case cop0.RegEPC:
		c.cop0.SetEPC(v)
	default:
		return fault.Unsupportedf("cpu", "cop0 register write", d)
	}
	return nil
}

func (c *CPU) loadOp(op Op, address, t uint32) error {
	if c.cop0.CacheIsolated() {
		return nil
	}

	var v uint32
	switch op {
	case OpLB, OpLBU:
		b, err := c.bus.Load8(address)
		if err != nil {
			return err
		}
		v = uint32(b)
		if op == OpLB {
			v = uint32(int8(b))
		}
	case OpLH, OpLHU:
		if address%2 != 0 {
			return fault.Raise(fault.LoadAddressError, address)
		}
		h, err := c.bus.Load16(address)
		if err != nil {
			return err
		}
		v = uint32(h)
		if op == OpLH {
			v = uint32(int16(h))
		}
	default:
		if address%4 != 0 {
			return fault.Raise(fault.LoadAddressError, address)
		}
		w, err := c.bus.Load32(address)
		if err != nil {
			return err
		}
		v = w
	}

	c.load = pendingLoad{index: t, value: v}
	return nil
}

// loadUnaligned merges the bytes of an unaligned word into rt. The merge
// starts from the value rt will hold after any pending load.
func (c *CPU) loadUnaligned(op Op, address, t uint32) error {
	if c.cop0.CacheIsolated() {
		return nil
	}

	w, err := c.bus.Load32(address &^ 3)
	if err != nil {
		return err
	}

	cur := c.outRegs[t]
	var v uint32
	if op == OpLWL {
		switch address & 3 {
		case 0:
			v = cur&0x00ffffff | w<<24
		case 1:
			v = cur&0x0000ffff | w<<16
		case 2:
			v = cur&0x000000ff | w<<8
		case 3:
			v = w
		}
	} else {
		switch address & 3 {
		case 0:
			v = w
		case 1:
			v = cur&0xff000000 | w>>8
		case 2:
			v = cur&0xffff0000 | w>>16
		case 3:
			v = cur&0xffffff00 | w>>24
		}
	}

	c.load = pendingLoad{index: t, value: v}
	return nil
}

func (c *CPU) storeOp(op Op, address, value uint32) error {
	if c.cop0.CacheIsolated() {
		return nil
	}

	switch op {
	case OpSB:
		return c.bus.Store8(address, uint8(value))
	case OpSH:
		if address%2 != 0 {
			return fault.Raise(fault.StoreAddressError, address)
		}
		return c.bus.Store16(address, uint16(value))
	}

	if address%4 != 0 {
		return fault.Raise(fault.StoreAddressError, address)
	}
	return c.bus.Store32(address, value)
}

func (c *CPU) storeUnaligned(op Op, address, value uint32) error {
	if c.cop0.CacheIsolated() {
		return nil
	}

	aligned := address &^ 3
	mem, err := c.bus.Load32(aligned)
	if err != nil {
		return err
	}

	var v uint32
	if op == OpSWL {
		switch address & 3 {
		case 0:
			v = mem&0xffffff00 | value>>24
		case 1:
			v = mem&0xffff0000 | value>>16
		case 2:
			v = mem&0xff000000 | value>>8
		case 3:
			v = value
		}
	} else {
		switch address & 3 {
		case 0:
			v = value
		case 1:
			v = mem&0x000000ff | value<<8
		case 2:
			v = mem&0x0000ffff | value<<16
		case 3:
			v = mem&0x00ffffff | value<<24
		}
	}

	return c.bus.Store32(aligned, v)
}
