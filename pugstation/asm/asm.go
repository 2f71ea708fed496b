// Package asm encodes MIPS R3000A instructions. It is used to build test
// programs and the built-in test pattern BIOS.
package asm

// General purpose register numbers.
const (
	Zero uint32 = iota
	AT
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	GP
	SP
	FP
	RA
)

// Cop0 register numbers.
const (
	SR    uint32 = 12
	Cause uint32 = 13
	EPC   uint32 = 14
)

func special(funct, s, t, d, shift uint32) uint32 {
	return (s&0x1f)<<21 | (t&0x1f)<<16 | (d&0x1f)<<11 | (shift&0x1f)<<6 | funct&0x3f
}

func immediate(op, s, t uint32, imm uint16) uint32 {
	return op<<26 | (s&0x1f)<<21 | (t&0x1f)<<16 | uint32(imm)
}

func jump(op, target uint32) uint32 {
	return op<<26 | (target>>2)&0x3ffffff
}

func NOP() uint32 { return 0 }

func SLL(d, t, shift uint32) uint32 { return special(0x00, 0, t, d, shift) }
func SRL(d, t, shift uint32) uint32 { return special(0x02, 0, t, d, shift) }
func SRA(d, t, shift uint32) uint32 { return special(0x03, 0, t, d, shift) }
func SLLV(d, t, s uint32) uint32    { return special(0x04, s, t, d, 0) }
func SRLV(d, t, s uint32) uint32    { return special(0x06, s, t, d, 0) }
func SRAV(d, t, s uint32) uint32    { return special(0x07, s, t, d, 0) }
func JR(s uint32) uint32            { return special(0x08, s, 0, 0, 0) }
func JALR(d, s uint32) uint32       { return special(0x09, s, 0, d, 0) }
func MFHI(d uint32) uint32          { return special(0x10, 0, 0, d, 0) }
func MTHI(s uint32) uint32          { return special(0x11, s, 0, 0, 0) }
func MFLO(d uint32) uint32          { return special(0x12, 0, 0, d, 0) }
func MTLO(s uint32) uint32          { return special(0x13, s, 0, 0, 0) }
func MULT(s, t uint32) uint32       { return special(0x18, s, t, 0, 0) }
func MULTU(s, t uint32) uint32      { return special(0x19, s, t, 0, 0) }
func DIV(s, t uint32) uint32        { return special(0x1a, s, t, 0, 0) }
func DIVU(s, t uint32) uint32       { return special(0x1b, s, t, 0, 0) }
func ADD(d, s, t uint32) uint32     { return special(0x20, s, t, d, 0) }
func ADDU(d, s, t uint32) uint32    { return special(0x21, s, t, d, 0) }
func SUB(d, s, t uint32) uint32     { return special(0x22, s, t, d, 0) }
func SUBU(d, s, t uint32) uint32    { return special(0x23, s, t, d, 0) }
func AND(d, s, t uint32) uint32     { return special(0x24, s, t, d, 0) }
func OR(d, s, t uint32) uint32      { return special(0x25, s, t, d, 0) }
func XOR(d, s, t uint32) uint32     { return special(0x26, s, t, d, 0) }
func NOR(d, s, t uint32) uint32     { return special(0x27, s, t, d, 0) }
func SLT(d, s, t uint32) uint32     { return special(0x2a, s, t, d, 0) }
func SLTU(d, s, t uint32) uint32    { return special(0x2b, s, t, d, 0) }

// SYSCALL and BREAK carry a 20-bit code that the CPU ignores.
func SYSCALL(code uint32) uint32 { return (code&0xfffff)<<6 | 0x0c }
func BREAK(code uint32) uint32   { return (code&0xfffff)<<6 | 0x0d }

// Branch offsets are counted in instructions, relative to the delay slot.
func BLTZ(s uint32, offset int16) uint32   { return immediate(0x01, s, 0x00, uint16(offset)) }
func BGEZ(s uint32, offset int16) uint32   { return immediate(0x01, s, 0x01, uint16(offset)) }
func BLTZAL(s uint32, offset int16) uint32 { return immediate(0x01, s, 0x10, uint16(offset)) }
func BGEZAL(s uint32, offset int16) uint32 { return immediate(0x01, s, 0x11, uint16(offset)) }
func BEQ(s, t uint32, offset int16) uint32 { return immediate(0x04, s, t, uint16(offset)) }
func BNE(s, t uint32, offset int16) uint32 { return immediate(0x05, s, t, uint16(offset)) }
func BLEZ(s uint32, offset int16) uint32   { return immediate(0x06, s, 0, uint16(offset)) }
func BGTZ(s uint32, offset int16) uint32   { return immediate(0x07, s, 0, uint16(offset)) }

// J and JAL take the absolute target address; only its low 28 bits are kept.
func J(target uint32) uint32   { return jump(0x02, target) }
func JAL(target uint32) uint32 { return jump(0x03, target) }

func ADDI(t, s uint32, imm int16) uint32  { return immediate(0x08, s, t, uint16(imm)) }
func ADDIU(t, s uint32, imm int16) uint32 { return immediate(0x09, s, t, uint16(imm)) }
func SLTI(t, s uint32, imm int16) uint32  { return immediate(0x0a, s, t, uint16(imm)) }
func SLTIU(t, s uint32, imm int16) uint32 { return immediate(0x0b, s, t, uint16(imm)) }
func ANDI(t, s uint32, imm uint16) uint32 { return immediate(0x0c, s, t, imm) }
func ORI(t, s uint32, imm uint16) uint32  { return immediate(0x0d, s, t, imm) }
func XORI(t, s uint32, imm uint16) uint32 { return immediate(0x0e, s, t, imm) }
func LUI(t uint32, imm uint16) uint32     { return immediate(0x0f, 0, t, imm) }

func MFC0(t, d uint32) uint32 { return 0x10<<26 | (t&0x1f)<<16 | (d&0x1f)<<11 }
func MTC0(t, d uint32) uint32 { return 0x10<<26 | 0x04<<21 | (t&0x1f)<<16 | (d&0x1f)<<11 }
func RFE() uint32             { return 0x10<<26 | 0x10<<21 | 0x10 }

// COP encodes a coprocessor operation with an arbitrary 25-bit payload.
func COP(n, payload uint32) uint32 { return (0x10+n&3)<<26 | 1<<25 | payload&0x1ffffff }

func LB(t uint32, offset int16, base uint32) uint32  { return immediate(0x20, base, t, uint16(offset)) }
func LH(t uint32, offset int16, base uint32) uint32  { return immediate(0x21, base, t, uint16(offset)) }
func LWL(t uint32, offset int16, base uint32) uint32 { return immediate(0x22, base, t, uint16(offset)) }
func LW(t uint32, offset int16, base uint32) uint32  { return immediate(0x23, base, t, uint16(offset)) }
func LBU(t uint32, offset int16, base uint32) uint32 { return immediate(0x24, base, t, uint16(offset)) }
func LHU(t uint32, offset int16, base uint32) uint32 { return immediate(0x25, base, t, uint16(offset)) }
func LWR(t uint32, offset int16, base uint32) uint32 { return immediate(0x26, base, t, uint16(offset)) }
func SB(t uint32, offset int16, base uint32) uint32  { return immediate(0x28, base, t, uint16(offset)) }
func SH(t uint32, offset int16, base uint32) uint32  { return immediate(0x29, base, t, uint16(offset)) }
func SWL(t uint32, offset int16, base uint32) uint32 { return immediate(0x2a, base, t, uint16(offset)) }
func SW(t uint32, offset int16, base uint32) uint32  { return immediate(0x2b, base, t, uint16(offset)) }
func SWR(t uint32, offset int16, base uint32) uint32 { return immediate(0x2e, base, t, uint16(offset)) }

// LWC and SWC encode coprocessor n loads and stores.
func LWC(n, t uint32, offset int16, base uint32) uint32 {
	return immediate(0x30+n&3, base, t, uint16(offset))
}

func SWC(n, t uint32, offset int16, base uint32) uint32 {
	return immediate(0x38+n&3, base, t, uint16(offset))
}

// LI loads a full 32-bit constant with LUI and ORI.
func LI(t, value uint32) []uint32 {
	return []uint32{LUI(t, uint16(value>>16)), ORI(t, t, uint16(value))}
}
