package cpu

import "github.com/valerio/go-pugstation/pugstation/bit"

// Instruction is a raw 32-bit MIPS instruction word.
type Instruction uint32

// Primary returns the primary opcode, bits 31:26.
func (i Instruction) Primary() uint32 { return uint32(i) >> 26 }

// Secondary returns the SPECIAL function field, bits 5:0.
func (i Instruction) Secondary() uint32 { return uint32(i) & 0x3f }

// S returns the source register index, bits 25:21.
func (i Instruction) S() uint32 { return bit.Extract(uint32(i), 25, 21) }

// T returns the target register index, bits 20:16.
func (i Instruction) T() uint32 { return bit.Extract(uint32(i), 20, 16) }

// D returns the destination register index, bits 15:11.
func (i Instruction) D() uint32 { return bit.Extract(uint32(i), 15, 11) }

// Shift returns the shift amount, bits 10:6.
func (i Instruction) Shift() uint32 { return bit.Extract(uint32(i), 10, 6) }

// Imm returns the 16-bit immediate, zero extended.
func (i Instruction) Imm() uint32 { return uint32(i) & 0xffff }

// ImmSE returns the 16-bit immediate, sign extended.
func (i Instruction) ImmSE() uint32 { return uint32(int32(int16(i))) }

// Target returns the 26-bit jump target.
func (i Instruction) Target() uint32 { return uint32(i) & 0x3ffffff }

// CopOpcode returns the coprocessor sub-opcode, bits 25:21.
func (i Instruction) CopOpcode() uint32 { return i.S() }
