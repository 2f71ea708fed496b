package pugstation

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pugstation/pugstation/addr"
	"github.com/valerio/go-pugstation/pugstation/asm"
	"github.com/valerio/go-pugstation/pugstation/backend"
	"github.com/valerio/go-pugstation/pugstation/backend/headless"
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/fault"
	"github.com/valerio/go-pugstation/pugstation/memory"
	"github.com/valerio/go-pugstation/pugstation/timing"
	"github.com/valerio/go-pugstation/pugstation/video"
)

func newTestEmulator(t *testing.T, program []uint32, opts ...Option) (*Emulator, *video.Recorder) {
	t.Helper()
	bios, err := memory.NewBIOSWithProgram(program)
	require.NoError(t, err)

	recorder := video.NewRecorder()
	return New(bios, recorder, opts...), recorder
}

// scriptedBackend returns one entry of script per Update and remembers the
// debugger state of every snapshot it was given.
type scriptedBackend struct {
	recorder *video.Recorder
	script   [][]backend.Action
	states   []debug.DebuggerState
}

func (s *scriptedBackend) Init(backend.Config) error { return nil }
func (s *scriptedBackend) Renderer() video.Renderer  { return s.recorder }
func (s *scriptedBackend) Cleanup() error            { return nil }

func (s *scriptedBackend) Update(snapshot *debug.Snapshot) ([]backend.Action, error) {
	s.states = append(s.states, snapshot.DebuggerState)
	if len(s.script) == 0 {
		return []backend.Action{backend.ActionQuit}, nil
	}
	actions := s.script[0]
	s.script = s.script[1:]
	return actions, nil
}

func TestExtractDebugData_NilComponents(t *testing.T) {
	e := &Emulator{}
	assert.Nil(t, e.ExtractDebugData(), "Should return nil when components are not initialized")
}

func TestTestPatternDrawCalls(t *testing.T) {
	recorder := video.NewRecorder()
	e, err := NewTestPattern(recorder)
	require.NoError(t, err)

	require.NoError(t, e.RunInstructions(2000))

	require.GreaterOrEqual(t, recorder.Displays, 2, "reset and at least one full frame")
	require.Len(t, recorder.LastFrame, 3)

	mono := recorder.LastFrame[0]
	assert.Len(t, mono.Vertices, 4)
	assert.False(t, mono.Shaded)
	assert.False(t, mono.Textured)
	for _, v := range mono.Vertices {
		assert.Equal(t, video.Color{R: 0xff}, v.Color)
	}
	assert.Equal(t, video.Position{X: 16, Y: 16}, mono.Vertices[0].Position)
	assert.Equal(t, video.Position{X: 144, Y: 112}, mono.Vertices[3].Position)

	shaded := recorder.LastFrame[1]
	assert.Len(t, shaded.Vertices, 3)
	assert.True(t, shaded.Shaded)
	assert.Equal(t, video.Color{R: 0xff}, shaded.Vertices[0].Color)
	assert.Equal(t, video.Color{G: 0xff}, shaded.Vertices[1].Color)
	assert.Equal(t, video.Color{B: 0xff}, shaded.Vertices[2].Color)
	assert.Equal(t, video.Position{X: 240, Y: 112}, shaded.Vertices[2].Position)

	textured := recorder.LastFrame[2]
	assert.Len(t, textured.Vertices, 4)
	assert.True(t, textured.Textured)
	assert.True(t, textured.RawTexture)
	assert.Equal(t, uint16(0x7f00), textured.Clut)
	assert.Equal(t, uint16(0x0005), textured.TexPage)
	assert.Equal(t, video.TexCoord{U: 0x7f, V: 0x7f}, textured.Vertices[3].TexCoord)

	snapshot := e.ExtractDebugData()
	require.NotNil(t, snapshot.Render)
	assert.Equal(t, 3, snapshot.Render.FramePolygons)
	assert.Equal(t, recorder.Displays, snapshot.Render.Frames)
	assert.Equal(t, recorder.Pushes, snapshot.Render.Polygons)

	gpu := e.Bus().GPU()
	assert.Equal(t, 320, gpu.DisplayArea().Width)
	assert.False(t, gpu.DisplayArea().Disabled)
	assert.False(t, e.Bus().DMA().Channel(2).Enabled(), "linked list transfer finished")
}

func TestExtractDebugData(t *testing.T) {
	program := [][]uint32{
		asm.LI(asm.T0, 0x12345678),
		{asm.MTC0(asm.T0, asm.SR)},
	}
	var words []uint32
	for _, p := range program {
		words = append(words, p...)
	}
	e, _ := newTestEmulator(t, words)
	require.NoError(t, e.RunInstructions(3))

	snapshot := e.ExtractDebugData()
	require.NotNil(t, snapshot)

	assert.Equal(t, uint32(0x12345678), snapshot.CPU.Registers[asm.T0])
	assert.Equal(t, addr.ResetVector+12, snapshot.CPU.PC)
	assert.Equal(t, addr.ResetVector+8, snapshot.CPU.CurrentPC)
	assert.Equal(t, uint64(3), snapshot.CPU.Instructions)
	assert.Equal(t, uint32(0x12345678), snapshot.CPU.SR)
	assert.Equal(t, debug.DebuggerRunning, snapshot.DebuggerState)

	require.Len(t, snapshot.Disassembly, 9)
	current := snapshot.Disassembly[4]
	assert.Equal(t, snapshot.CPU.PC, current.Address)
	assert.Equal(t, "nop", current.Instruction)
	assert.Equal(t, "mtc0 t0, cop0r12", snapshot.Disassembly[3].Instruction)

	require.Len(t, snapshot.DMA.Channels, 7)
	assert.Equal(t, "GPU", snapshot.DMA.Channels[2].Port)
	assert.Equal(t, 256, snapshot.GPU.DisplayWidth)
	assert.True(t, snapshot.GPU.DisplayOff)
}

func TestRunHeadlessBudget(t *testing.T) {
	h := headless.New(500)
	require.NoError(t, h.Init(backend.Config{Title: "test"}))

	bios, err := memory.NewBIOSWithProgram([]uint32{asm.J(addr.ResetVector), asm.NOP()})
	require.NoError(t, err)
	e := New(bios, h.Renderer())

	require.NoError(t, e.Run(h, 100, timing.NewNoOpLimiter()))
	assert.Equal(t, uint64(500), e.CPU().Instructions())
}

func TestRunPauseAndStep(t *testing.T) {
	e, recorder := newTestEmulator(t, []uint32{asm.J(addr.ResetVector), asm.NOP()})
	b := &scriptedBackend{
		recorder: recorder,
		script: [][]backend.Action{
			{backend.ActionPauseToggle},
			{backend.ActionStep},
			{backend.ActionStep},
			{backend.ActionPauseToggle},
		},
	}

	require.NoError(t, e.Run(b, 10, timing.NewNoOpLimiter()))

	// 10, paused, step, step, resume, 10, quit
	assert.Equal(t, uint64(22), e.CPU().Instructions())
	assert.Equal(t, []debug.DebuggerState{
		debug.DebuggerRunning,
		debug.DebuggerPaused,
		debug.DebuggerPaused,
		debug.DebuggerPaused,
		debug.DebuggerRunning,
	}, b.states)
}

func TestRunStopsOnFatalError(t *testing.T) {
	e, recorder := newTestEmulator(t, []uint32{asm.NOP(), asm.COP(2, 0)})
	b := &scriptedBackend{recorder: recorder}

	err := e.Run(b, 10, timing.NewNoOpLimiter())

	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrUnsupported))
	assert.Equal(t, uint64(2), e.CPU().Instructions())
	require.Len(t, b.states, 1, "final state is shown to the frontend")
	assert.Equal(t, debug.DebuggerPaused, b.states[0])
}

func TestRunRejectsInvalidBatch(t *testing.T) {
	e, recorder := newTestEmulator(t, nil)
	assert.Error(t, e.Run(&scriptedBackend{recorder: recorder}, 0, timing.NewNoOpLimiter()))
}

func TestTraceLogsDisassembly(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e, _ := newTestEmulator(t, []uint32{asm.LUI(asm.T0, 0x1f80)}, WithLogger(logger), WithTrace(true))
	require.NoError(t, e.RunNextInstruction())

	assert.Contains(t, buf.String(), `asm="lui t0, 0x1F80"`)
	assert.Contains(t, buf.String(), "pc=0xBFC00000")
}

func TestNewWithFile(t *testing.T) {
	dir := t.TempDir()

	_, err := NewWithFile(filepath.Join(dir, "missing.bin"), video.NewRecorder())
	assert.Error(t, err)

	short := filepath.Join(dir, "short.bin")
	require.NoError(t, os.WriteFile(short, make([]byte, 1024), 0o644))
	_, err = NewWithFile(short, video.NewRecorder())
	assert.Error(t, err, "BIOS images must be exactly 512 KiB")

	valid := filepath.Join(dir, "bios.bin")
	require.NoError(t, os.WriteFile(valid, make([]byte, addr.BIOSSize), 0o644))
	e, err := NewWithFile(valid, video.NewRecorder())
	require.NoError(t, err)
	require.NoError(t, e.RunNextInstruction())
}
