package disasm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-pugstation/pugstation/asm"
	"github.com/valerio/go-pugstation/pugstation/cpu"
)

type words map[uint32]uint32

func (w words) Load32(address uint32) (uint32, error) {
	v, ok := w[address]
	if !ok {
		return 0, errors.New("unmapped")
	}
	return v, nil
}

func TestDisassemble(t *testing.T) {
	const pc = 0xbfc00000

	testCases := []struct {
		desc string
		word uint32
		want string
	}{
		{desc: "nop", word: asm.NOP(), want: "nop"},
		{desc: "shift", word: asm.SLL(asm.T0, asm.T1, 4), want: "sll t0, t1, 4"},
		{desc: "register shift", word: asm.SRAV(asm.T0, asm.T1, asm.T2), want: "srav t0, t1, t2"},
		{desc: "lui", word: asm.LUI(asm.T0, 0x1f80), want: "lui t0, 0x1F80"},
		{desc: "ori", word: asm.ORI(asm.T0, asm.T0, 0x1810), want: "ori t0, t0, 0x1810"},
		{desc: "addiu", word: asm.ADDIU(asm.SP, asm.SP, -8), want: "addiu sp, sp, -8"},
		{desc: "three registers", word: asm.ADDU(asm.V0, asm.A0, asm.A1), want: "addu v0, a0, a1"},
		{desc: "load", word: asm.LW(asm.T1, -4, asm.SP), want: "lw t1, -4(sp)"},
		{desc: "store", word: asm.SB(asm.Zero, 16, asm.A0), want: "sb zero, 16(a0)"},
		{desc: "beq", word: asm.BEQ(asm.T0, asm.Zero, 3), want: "beq t0, zero, 0xBFC00010"},
		{desc: "bgezal", word: asm.BGEZAL(asm.A0, -1), want: "bgezal a0, 0xBFC00000"},
		{desc: "jal", word: asm.JAL(0xbfc00480), want: "jal 0xBFC00480"},
		{desc: "jr", word: asm.JR(asm.RA), want: "jr ra"},
		{desc: "mtc0", word: asm.MTC0(asm.T4, asm.SR), want: "mtc0 t4, cop0r12"},
		{desc: "mult", word: asm.MULT(asm.T0, asm.T1), want: "mult t0, t1"},
		{desc: "mflo", word: asm.MFLO(asm.T2), want: "mflo t2"},
		{desc: "syscall", word: asm.SYSCALL(5), want: "syscall 0x5"},
		{desc: "rfe", word: asm.RFE(), want: "rfe"},
		{desc: "illegal", word: 0xfc000000, want: ".word 0xFC000000"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, Disassemble(pc, cpu.Instruction(tC.word)))
		})
	}
}

func TestDisassembleAround(t *testing.T) {
	mem := words{
		0x1000: asm.NOP(),
		0x1004: asm.ADDIU(asm.T0, asm.T0, 1),
		0x1008: asm.JR(asm.RA),
	}

	lines := DisassembleAround(0x1004, 1, 2, mem)

	assert.Len(t, lines, 4)
	assert.Equal(t, uint32(0x1000), lines[0].Address)
	assert.Equal(t, "addiu t0, t0, 1", lines[1].Instruction)
	assert.True(t, lines[2].Valid)
	assert.False(t, lines[3].Valid)

	assert.Equal(t, ">0x00001004: 25080001  addiu t0, t0, 1", FormatDisassemblyLine(lines[1], true))
	assert.Equal(t, " 0x0000100C: ????????  ??", FormatDisassemblyLine(lines[3], false))
}

func TestDisassembleAroundStartOfMemory(t *testing.T) {
	mem := words{0x0: asm.NOP(), 0x4: asm.NOP()}

	lines := DisassembleAround(0x4, 4, 0, mem)

	assert.Len(t, lines, 2)
	assert.Equal(t, uint32(0), lines[0].Address)
}

func TestRegisterName(t *testing.T) {
	assert.Equal(t, "zero", RegisterName(0))
	assert.Equal(t, "ra", RegisterName(31))
	assert.Equal(t, "k0", RegisterName(26))
}
