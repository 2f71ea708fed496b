package debug

import (
	"fmt"
	"strings"

	"github.com/valerio/go-pugstation/pugstation/disasm"
)

// RegisterLines formats the general purpose registers four per line.
func (s *CPUState) RegisterLines() []string {
	lines := make([]string, 0, 8)
	for row := 0; row < 8; row++ {
		var b strings.Builder
		for col := 0; col < 4; col++ {
			i := row*4 + col
			if col > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-4s %08X", disasm.RegisterName(uint32(i)), s.Registers[i])
		}
		lines = append(lines, b.String())
	}
	return lines
}

// StatusLine summarizes program counter and cop0 state.
func (s *CPUState) StatusLine() string {
	return fmt.Sprintf("PC %08X  HI %08X  LO %08X  SR %08X  CAUSE %08X  EPC %08X",
		s.PC, s.HI, s.LO, s.SR, s.Cause, s.EPC)
}

func (c DMAChannelState) String() string {
	state := "idle"
	if c.Active {
		state = "active"
	}
	return fmt.Sprintf("%-7s base %06X  block %08X  ctrl %08X  %s",
		c.Port, c.Base, c.BlockControl, c.Control, state)
}

func (g *GPUState) String() string {
	display := "on"
	if g.DisplayOff {
		display = "off"
	}
	return fmt.Sprintf("GPUSTAT %08X  area %d,%d-%d,%d  offset %d,%d  display %dx%d %s",
		g.Status,
		g.DrawingArea[0], g.DrawingArea[1], g.DrawingArea[2], g.DrawingArea[3],
		g.DrawOffset[0], g.DrawOffset[1],
		g.DisplayWidth, g.DisplayLines, display)
}
