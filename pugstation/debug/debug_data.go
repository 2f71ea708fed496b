package debug

import (
	"github.com/valerio/go-pugstation/pugstation/disasm"
)

// CPUState contains all CPU register information for debugging
type CPUState struct {
	Registers    [32]uint32 `yaml:"registers,flow"`
	PC           uint32     `yaml:"pc"`
	CurrentPC    uint32     `yaml:"current_pc"`
	HI           uint32     `yaml:"hi"`
	LO           uint32     `yaml:"lo"`
	InDelaySlot  bool       `yaml:"in_delay_slot"`
	Instructions uint64     `yaml:"instructions"`

	SR    uint32 `yaml:"sr"`
	Cause uint32 `yaml:"cause"`
	EPC   uint32 `yaml:"epc"`
}

// DMAChannelState is the register state of one DMA port.
type DMAChannelState struct {
	Port         string `yaml:"port"`
	Base         uint32 `yaml:"base"`
	BlockControl uint32 `yaml:"block_control"`
	Control      uint32 `yaml:"control"`
	Active       bool   `yaml:"active"`
}

type DMAState struct {
	Control   uint32            `yaml:"control"`
	Interrupt uint32            `yaml:"interrupt"`
	Channels  []DMAChannelState `yaml:"channels"`
}

// GPUState holds the GPU registers shown by the monitors.
type GPUState struct {
	Status        uint32    `yaml:"status"`
	DrawingArea   [4]uint16 `yaml:"drawing_area,flow"`
	DrawOffset    [2]int16  `yaml:"draw_offset,flow"`
	DisplayWidth  int       `yaml:"display_width"`
	DisplayLines  int       `yaml:"display_lines"`
	DisplayOff    bool      `yaml:"display_off"`
	PendingWords  int       `yaml:"pending_words"`
	BufferedWords int       `yaml:"buffered_words"`
}

// RenderStats counts what reached the renderer.
type RenderStats struct {
	Polygons      int `yaml:"polygons"`
	Frames        int `yaml:"frames"`
	FramePolygons int `yaml:"frame_polygons"`
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepInstruction:
		return "step"
	}
	return "unknown"
}

// Snapshot contains all debug information needed by debug displays
type Snapshot struct {
	CPU           *CPUState                `yaml:"cpu"`
	DMA           *DMAState                `yaml:"dma"`
	GPU           *GPUState                `yaml:"gpu"`
	Render        *RenderStats             `yaml:"render,omitempty"`
	Disassembly   []disasm.DisassemblyLine `yaml:"-"`
	DebuggerState DebuggerState            `yaml:"-"`
}
