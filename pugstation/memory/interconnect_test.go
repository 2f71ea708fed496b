package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pugstation/pugstation/fault"
	"github.com/valerio/go-pugstation/pugstation/video"
)

func newTestBus(t *testing.T) (*Interconnect, *video.Recorder) {
	t.Helper()
	bios, err := NewBIOSWithProgram([]uint32{0x3c080013, 0x3508243f})
	require.NoError(t, err)
	r := video.NewRecorder()
	return NewInterconnect(bios, r), r
}

func TestRAMThroughSegments(t *testing.T) {
	bus, _ := newTestBus(t)

	require.NoError(t, bus.Store32(0x00000100, 0xcafebabe))

	for _, address := range []uint32{0x00000100, 0x80000100, 0xa0000100} {
		v, err := bus.Load32(address)
		require.NoError(t, err)
		assert.Equal(t, uint32(0xcafebabe), v, "address 0x%08X", address)
	}
}

func TestRAMRoundTripWidths(t *testing.T) {
	testCases := []struct {
		desc    string
		address uint32
	}{
		{desc: "start", address: 0x00000000},
		{desc: "middle kseg0", address: 0x80100000},
		{desc: "last word kseg1", address: 0xa01ffffc},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			bus, _ := newTestBus(t)

			require.NoError(t, bus.Store32(tC.address, 0x11223344))
			w, err := bus.Load32(tC.address)
			require.NoError(t, err)
			assert.Equal(t, uint32(0x11223344), w)

			require.NoError(t, bus.Store16(tC.address, 0xa1b2))
			b0, err := bus.Load8(tC.address)
			require.NoError(t, err)
			b1, err := bus.Load8(tC.address + 1)
			require.NoError(t, err)
			assert.Equal(t, uint16(0xa1b2), uint16(b0)|uint16(b1)<<8)

			h, err := bus.Load16(tC.address + 2)
			require.NoError(t, err)
			assert.Equal(t, uint16(0x1122), h, "upper half untouched")
		})
	}
}

func TestBIOSLoadAndStore(t *testing.T) {
	bus, _ := newTestBus(t)

	v, err := bus.Load32(0xbfc00000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3c080013), v)

	v, err = bus.Load32(0x9fc00004)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3508243f), v)

	require.NoError(t, bus.Store32(0xbfc00000, 0))
	v, err = bus.Load32(0xbfc00000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3c080013), v, "BIOS is read only")
}

func TestStubPeripherals(t *testing.T) {
	testCases := []struct {
		desc    string
		address uint32
		size    AccessSize
		want    uint32
	}{
		{desc: "expansion 1", address: 0x1f000084, size: Byte, want: 0xff},
		{desc: "expansion 2", address: 0x1f802041, size: Byte, want: 0xff},
		{desc: "cdrom", address: 0x1f801800, size: Byte, want: 0},
		{desc: "spu", address: 0x1f801daa, size: Half, want: 0},
		{desc: "timers", address: 0x1f801110, size: Word, want: 0},
		{desc: "irq mask", address: 0x1f801074, size: Word, want: 0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			bus, _ := newTestBus(t)

			v, err := bus.load(tC.address, tC.size)
			require.NoError(t, err)
			assert.Equal(t, tC.want, v)

			assert.NoError(t, bus.store(tC.address, 0x1234, tC.size))
		})
	}
}

func TestMemControl(t *testing.T) {
	bus, _ := newTestBus(t)

	require.NoError(t, bus.Store32(0x1f801000, 0x1f000000))
	require.NoError(t, bus.Store32(0x1f801004, 0x1f802000))
	require.NoError(t, bus.Store32(0x1f801008, 0x0013243f))

	v, err := bus.Load32(0x1f801008)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0013243f), v)

	err = bus.Store32(0x1f801000, 0x1f800000)
	assert.True(t, errors.Is(err, fault.ErrUnsupported))

	err = bus.Store32(0x1f801004, 0)
	assert.True(t, errors.Is(err, fault.ErrUnsupported))
}

func TestSystemControlRegisters(t *testing.T) {
	bus, _ := newTestBus(t)

	require.NoError(t, bus.Store32(0x1f801060, 0x00000b88))
	require.NoError(t, bus.Store32(0xfffe0130, 0x0001e988))

	v, err := bus.Load32(0x1f801060)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00000b88), v)

	v, err = bus.Load32(0xfffe0130)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0001e988), v)
}

func TestUnmappedAddress(t *testing.T) {
	bus, _ := newTestBus(t)

	_, err := bus.Load32(0x1f900000)
	var u *fault.Unsupported
	require.True(t, errors.As(err, &u))
	assert.Equal(t, uint32(0x1f900000), u.Value)

	err = bus.Store8(0x00400000, 1)
	assert.True(t, errors.Is(err, fault.ErrUnsupported))
}

func TestDeviceWindowsNeedWordAccess(t *testing.T) {
	bus, _ := newTestBus(t)

	_, err := bus.Load16(0x1f801814)
	assert.True(t, errors.Is(err, fault.ErrUnsupported))

	err = bus.Store8(0x1f8010f0, 0)
	assert.True(t, errors.Is(err, fault.ErrUnsupported))
}

func TestGPUStatusRead(t *testing.T) {
	bus, _ := newTestBus(t)

	v, err := bus.Load32(0x1f801814)
	require.NoError(t, err)
	assert.Equal(t, bus.GPU().Status(), v)

	v, err = bus.Load32(0x1f801810)
	require.NoError(t, err)
	assert.Zero(t, v, "GPUREAD")
}

func TestGP0ThroughBus(t *testing.T) {
	bus, r := newTestBus(t)

	for _, w := range []uint32{0x20ff0000, 0, 0x00100000, 0x00000010} {
		require.NoError(t, bus.Store32(0x1f801810, w))
	}

	assert.Equal(t, 1, r.Pushes)
}

func TestDMAToGPUThroughBus(t *testing.T) {
	bus, r := newTestBus(t)

	// single node list at 0x1000 holding a monochrome triangle
	words := []uint32{4<<24 | 0xffffff, 0x20ff0000, 0, 0x00100000, 0x00000010}
	for n, w := range words {
		require.NoError(t, bus.Store32(0x1000+uint32(n)*4, w))
	}

	require.NoError(t, bus.Store32(0x1f8010a0, 0x1000))
	require.NoError(t, bus.Store32(0x1f8010a8, 0x01000401))

	assert.Equal(t, 1, r.Pushes)
	ctrl, err := bus.Load32(0x1f8010a8)
	require.NoError(t, err)
	assert.Zero(t, ctrl&(1<<24), "channel disabled after transfer")
}

func TestDMAOrderingTableThroughBus(t *testing.T) {
	bus, _ := newTestBus(t)

	require.NoError(t, bus.Store32(0x1f8010e0, 0x2000))
	require.NoError(t, bus.Store32(0x1f8010e4, 2))
	require.NoError(t, bus.Store32(0x1f8010e8, 0x11000002))

	v, err := bus.Load32(0x2000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1ffc), v)
	v, err = bus.Load32(0x1ffc)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xffffff), v)
}
