package cop0

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-pugstation/pugstation/fault"
)

func TestEnterException(t *testing.T) {
	testCases := []struct {
		desc      string
		sr        uint32
		delaySlot bool
		handler   uint32
		epc       uint32
		bd        bool
		mode      uint32
	}{
		{
			desc:    "ram vector",
			sr:      0b000011,
			handler: 0x80000080,
			epc:     0x80001000,
			mode:    0b001100,
		},
		{
			desc:    "boot vector",
			sr:      1<<22 | 0b000001,
			handler: 0xbfc00180,
			epc:     0x80001000,
			mode:    0b000100,
		},
		{
			desc:      "delay slot",
			sr:        0b001101,
			delaySlot: true,
			handler:   0x80000080,
			epc:       0x80000ffc,
			bd:        true,
			mode:      0b110100,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := New()
			c.SetSR(tC.sr)

			handler := c.EnterException(fault.SysCall, 0x80001000, tC.delaySlot)

			assert.Equal(t, tC.handler, handler)
			assert.Equal(t, tC.epc, c.EPC())
			assert.Equal(t, tC.bd, c.BranchDelay())
			assert.Equal(t, fault.SysCall, c.ExceptionCode())
			assert.Equal(t, tC.mode, c.SR()&0x3f)
			assert.Equal(t, tC.sr&^0x3f, c.SR()&^0x3f, "non-mode bits must be preserved")
		})
	}
}

func TestBranchDelayFlagIsCleared(t *testing.T) {
	c := New()
	c.EnterException(fault.Break, 0x1000, true)
	assert.True(t, c.BranchDelay())

	c.EnterException(fault.Break, 0x2000, false)
	assert.False(t, c.BranchDelay())
	assert.Equal(t, uint32(0x2000), c.EPC())
}

func TestReturnFromException(t *testing.T) {
	c := New()
	// old = 0b11, previous = 0b10, current = 0b01
	c.SetSR(0xff00 | 0b111001)

	c.ReturnFromException()

	// current <- previous, previous <- old, old untouched
	assert.Equal(t, uint32(0b111110), c.SR()&0x3f)
	assert.Equal(t, uint32(0xff00), c.SR()&^0x3f)
}

func TestExceptionThenReturnRestoresMode(t *testing.T) {
	c := New()
	c.SetSR(0b000011)

	c.EnterException(fault.Overflow, 0, false)
	assert.False(t, c.InterruptsEnabled())
	assert.False(t, c.UserMode())

	c.ReturnFromException()
	assert.True(t, c.InterruptsEnabled())
	assert.True(t, c.UserMode())
}

func TestStatusFlags(t *testing.T) {
	c := New()
	assert.False(t, c.CacheIsolated())
	assert.False(t, c.BootExceptionVectors())

	c.SetSR(1<<16 | 1<<22)
	assert.True(t, c.CacheIsolated())
	assert.True(t, c.BootExceptionVectors())
}

func TestSetCauseOnlyTouchesSoftwareInterrupts(t *testing.T) {
	c := New()
	c.EnterException(fault.IllegalInstruction, 0, true)

	c.SetCause(0xffffffff)

	assert.Equal(t, uint32(0x300), c.Cause()&0x300)
	assert.Equal(t, fault.IllegalInstruction, c.ExceptionCode())
	assert.True(t, c.BranchDelay())
}
