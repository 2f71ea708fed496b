package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodings(t *testing.T) {
	testCases := []struct {
		desc string
		got  uint32
		want uint32
	}{
		{desc: "lui t0, 0x13", got: LUI(T0, 0x13), want: 0x3c080013},
		{desc: "ori t0, t0, 0x243f", got: ORI(T0, T0, 0x243f), want: 0x3508243f},
		{desc: "sw t0, 0x1010(at)", got: SW(T0, 0x1010, AT), want: 0xac281010},
		{desc: "addiu negative", got: ADDIU(SP, SP, -8), want: 0x27bdfff8},
		{desc: "sll", got: SLL(T0, T0, 2), want: 0x00084080},
		{desc: "jr ra", got: JR(RA), want: 0x03e00008},
		{desc: "jal", got: JAL(0xbfc00480), want: 0x0ff00120},
		{desc: "bne backwards", got: BNE(T0, T1, -1), want: 0x1509ffff},
		{desc: "mtc0 sr", got: MTC0(T4, SR), want: 0x408c6000},
		{desc: "mfc0 cause", got: MFC0(K0, Cause), want: 0x401a6800},
		{desc: "rfe", got: RFE(), want: 0x42000010},
		{desc: "syscall", got: SYSCALL(0), want: 0x0000000c},
		{desc: "lwc2", got: LWC(2, 0, 4, T0), want: 0xc9000004},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, tC.got, "0x%08X", tC.got)
		})
	}
}

func TestLI(t *testing.T) {
	assert.Equal(t, []uint32{0x3c081f80, 0x35081810}, LI(T0, 0x1f801810))
}
