package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-pugstation/pugstation/addr"
	"github.com/valerio/go-pugstation/pugstation/cop0"
	"github.com/valerio/go-pugstation/pugstation/fault"
)

// Bus provides the interface for memory and device access.
type Bus interface {
	Load8(address uint32) (uint8, error)
	Load16(address uint32) (uint16, error)
	Load32(address uint32) (uint32, error)
	Store8(address uint32, value uint8) error
	Store16(address uint32, value uint16) error
	Store32(address uint32, value uint32) error
}

// resetValue fills registers that have not been written yet.
const resetValue = 0xdeadbeef

// pendingLoad is a register write delayed by one instruction.
// Index 0 means no load is pending.
type pendingLoad struct {
	index uint32
	value uint32
}

// CPU is the main struct holding MIPS R3000A state
type CPU struct {
	// regs is read by the current instruction, outRegs receives its
	// writes and becomes regs for the next one.
	regs    [32]uint32
	outRegs [32]uint32
	load    pendingLoad
	hi      uint32
	lo      uint32

	// currentIp is the address of the instruction being executed, ip of
	// the next one (the delay slot after a branch) and nextIp the one after.
	currentIp uint32
	ip        uint32
	nextIp    uint32

	// branching is set by a taken or untaken branch; the following
	// instruction runs with delaySlot set.
	branching bool
	delaySlot bool

	instruction  Instruction
	instructions uint64

	cop0   *cop0.Cop0
	bus    Bus
	logger *slog.Logger
}

// Option configures a CPU.
type Option func(*CPU)

// WithLogger sets the logger used for exceptions and unusual instructions.
func WithLogger(l *slog.Logger) Option {
	return func(c *CPU) { c.logger = l }
}

// New returns a CPU at the reset vector.
func New(bus Bus, opts ...Option) *CPU {
	c := &CPU{
		bus:    bus,
		cop0:   cop0.New(),
		hi:     resetValue,
		lo:     resetValue,
		ip:     addr.ResetVector,
		nextIp: addr.ResetVector + 4,
		logger: slog.Default(),
	}
	for i := 1; i < len(c.regs); i++ {
		c.regs[i] = resetValue
	}
	c.outRegs = c.regs

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunNextInstruction executes a single instruction. CPU exceptions are
// handled internally; the returned error is always fatal.
func (c *CPU) RunNextInstruction() error {
	pc := c.ip

	c.delaySlot = c.branching
	c.branching = false

	c.currentIp = pc
	c.ip = c.nextIp

	if pc%4 != 0 {
		c.exception(fault.LoadAddressError)
		return nil
	}

	word, err := c.bus.Load32(pc)
	if err != nil {
		return fmt.Errorf("instruction fetch at 0x%08X: %w", pc, err)
	}
	c.instruction = Instruction(word)
	c.nextIp += 4

	c.setReg(c.load.index, c.load.value)
	c.load = pendingLoad{}

	err = c.execute(c.instruction)
	if f, ok := fault.AsFault(err); ok {
		c.exception(f.Exception)
		err = nil
	}

	c.outRegs[0] = 0
	c.regs = c.outRegs
	c.instructions++

	if err != nil {
		return fmt.Errorf("%s (0x%08X) at 0x%08X: %w", Decode(c.instruction), word, pc, err)
	}
	return nil
}

func (c *CPU) exception(e fault.Exception) {
	handler := c.cop0.EnterException(e, c.currentIp, c.delaySlot)

	c.logger.Debug("CPU exception",
		"kind", e,
		"pc", fmt.Sprintf("0x%08X", c.currentIp),
		"delay_slot", c.delaySlot,
		"handler", fmt.Sprintf("0x%08X", handler))

	c.ip = handler
	c.nextIp = handler + 4
}

func (c *CPU) reg(index uint32) uint32 {
	return c.regs[index]
}

func (c *CPU) setReg(index, value uint32) {
	c.outRegs[index] = value
	c.outRegs[0] = 0
}

// Reg returns the value of a general purpose register.
func (c *CPU) Reg(index int) uint32 {
	return c.regs[index]
}

// Registers returns a copy of the register file.
func (c *CPU) Registers() [32]uint32 {
	return c.regs
}

// PC returns the address of the next instruction to execute.
func (c *CPU) PC() uint32 {
	return c.ip
}

// CurrentPC returns the address of the last executed instruction.
func (c *CPU) CurrentPC() uint32 {
	return c.currentIp
}

// Instruction returns the last executed instruction.
func (c *CPU) Instruction() Instruction {
	return c.instruction
}

// Instructions returns the number of instructions executed.
func (c *CPU) Instructions() uint64 {
	return c.instructions
}

func (c *CPU) HI() uint32 { return c.hi }
func (c *CPU) LO() uint32 { return c.lo }

// InDelaySlot reports whether the next instruction is a branch delay slot.
func (c *CPU) InDelaySlot() bool {
	return c.branching
}

// PendingLoad returns the register and value of a load that has not
// reached the register file yet.
func (c *CPU) PendingLoad() (index, value uint32, ok bool) {
	return c.load.index, c.load.value, c.load.index != 0
}

func (c *CPU) Cop0() *cop0.Cop0 {
	return c.cop0
}
