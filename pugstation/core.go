package pugstation

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-pugstation/pugstation/cpu"
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/disasm"
	"github.com/valerio/go-pugstation/pugstation/dma"
	"github.com/valerio/go-pugstation/pugstation/memory"
	"github.com/valerio/go-pugstation/pugstation/video"
)

// Disassembly window around the current instruction in debug snapshots.
const (
	disasmBefore = 4
	disasmAfter  = 4
)

// Emulator represents the root struct and entry point for running the emulation
type Emulator struct {
	cpu   *cpu.CPU
	bus   *memory.Interconnect
	stats *statsRenderer

	logger *slog.Logger
	trace  bool
	state  debug.DebuggerState
}

// Option configures an Emulator.
type Option func(*Emulator)

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(e *Emulator) { e.logger = l }
}

// WithTrace logs every executed instruction at Debug level.
func WithTrace(enabled bool) Option {
	return func(e *Emulator) { e.trace = enabled }
}

// New creates a machine that boots from bios and draws to renderer.
func New(bios *memory.BIOS, renderer video.Renderer, opts ...Option) *Emulator {
	e := &Emulator{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	e.stats = &statsRenderer{next: renderer}
	e.bus = memory.NewInterconnect(bios, e.stats, memory.WithLogger(e.logger))
	e.cpu = cpu.New(e.bus, cpu.WithLogger(e.logger))
	return e
}

// NewWithFile creates a new emulator instance and loads the BIOS image at path into it.
func NewWithFile(path string, renderer video.Renderer, opts ...Option) (*Emulator, error) {
	bios, err := memory.LoadBIOS(path)
	if err != nil {
		return nil, err
	}

	e := New(bios, renderer, opts...)
	e.logger.Info("Loaded BIOS", "path", path)
	return e, nil
}

// NewTestPattern creates a machine running the built-in test pattern program.
func NewTestPattern(renderer video.Renderer, opts ...Option) (*Emulator, error) {
	bios, err := memory.NewBIOSWithProgram(TestPatternProgram())
	if err != nil {
		return nil, fmt.Errorf("test pattern: %w", err)
	}
	return New(bios, renderer, opts...), nil
}

// RunNextInstruction executes one instruction. A returned error is fatal.
func (e *Emulator) RunNextInstruction() error {
	if err := e.cpu.RunNextInstruction(); err != nil {
		return err
	}
	if e.trace {
		e.logger.Debug("exec",
			"pc", fmt.Sprintf("0x%08X", e.cpu.CurrentPC()),
			"instr", fmt.Sprintf("0x%08X", uint32(e.cpu.Instruction())),
			"asm", disasm.Disassemble(e.cpu.CurrentPC(), e.cpu.Instruction()))
	}
	return nil
}

// RunInstructions executes up to n instructions, stopping at the first error.
func (e *Emulator) RunInstructions(n int) error {
	for i := 0; i < n; i++ {
		if err := e.RunNextInstruction(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

func (e *Emulator) Bus() *memory.Interconnect {
	return e.bus
}

// SetDebuggerState records the run loop state reported in snapshots.
func (e *Emulator) SetDebuggerState(state debug.DebuggerState) {
	e.state = state
}

// ExtractDebugData captures the current machine state for frontends.
func (e *Emulator) ExtractDebugData() *debug.Snapshot {
	if e.cpu == nil || e.bus == nil {
		return nil
	}

	c := e.cpu
	cp0 := c.Cop0()
	pc := c.PC()

	return &debug.Snapshot{
		CPU: &debug.CPUState{
			Registers:    c.Registers(),
			PC:           pc,
			CurrentPC:    c.CurrentPC(),
			HI:           c.HI(),
			LO:           c.LO(),
			InDelaySlot:  c.InDelaySlot(),
			Instructions: c.Instructions(),
			SR:           cp0.SR(),
			Cause:        cp0.Cause(),
			EPC:          cp0.EPC(),
		},
		DMA:           e.dmaState(),
		GPU:           e.gpuState(),
		Render:        e.stats.snapshot(),
		Disassembly:   disasm.DisassembleAround(pc, disasmBefore, disasmAfter, e.bus),
		DebuggerState: e.state,
	}
}

func (e *Emulator) dmaState() *debug.DMAState {
	d := e.bus.DMA()
	state := &debug.DMAState{
		Control:   d.Control(),
		Interrupt: d.Interrupt(),
	}
	for p := dma.PortMdecIn; p <= dma.PortOTC; p++ {
		ch := d.Channel(p)
		state.Channels = append(state.Channels, debug.DMAChannelState{
			Port:         p.String(),
			Base:         ch.Base(),
			BlockControl: ch.BlockControl(),
			Control:      ch.Control(),
			Active:       ch.Active(),
		})
	}
	return state
}

func (e *Emulator) gpuState() *debug.GPUState {
	g := e.bus.GPU()
	left, top, right, bottom := g.DrawingArea()
	x, y := g.DrawOffset()
	display := g.DisplayArea()

	return &debug.GPUState{
		Status:        g.Status(),
		DrawingArea:   [4]uint16{left, top, right, bottom},
		DrawOffset:    [2]int16{x, y},
		DisplayWidth:  display.Width,
		DisplayLines:  display.Lines,
		DisplayOff:    display.Disabled,
		PendingWords:  g.PendingWords(),
		BufferedWords: g.BufferedWords(),
	}
}

// statsRenderer counts draw calls on their way to the frontend renderer.
type statsRenderer struct {
	next          video.Renderer
	polygons      int
	frames        int
	framePolygons int
	current       int
}

func (s *statsRenderer) PushPolygon(p video.Polygon) {
	s.polygons++
	s.current++
	s.next.PushPolygon(p)
}

func (s *statsRenderer) SetDrawOffset(x, y int16) {
	s.next.SetDrawOffset(x, y)
}

func (s *statsRenderer) Display() {
	s.frames++
	s.framePolygons = s.current
	s.current = 0
	s.next.Display()
}

func (s *statsRenderer) snapshot() *debug.RenderStats {
	return &debug.RenderStats{
		Polygons:      s.polygons,
		Frames:        s.frames,
		FramePolygons: s.framePolygons,
	}
}
