package disasm

import (
	"fmt"

	"github.com/valerio/go-pugstation/pugstation/cpu"
)

var registerNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// RegisterName returns the conventional name of a general purpose register.
func RegisterName(index uint32) string {
	return registerNames[index&0x1f]
}

// WordReader reads instruction words for disassembly.
type WordReader interface {
	Load32(address uint32) (uint32, error)
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint32
	Word        uint32
	Instruction string
	Valid       bool
}

// Disassemble renders one instruction located at pc.
func Disassemble(pc uint32, i cpu.Instruction) string {
	op := cpu.Decode(i)
	name := op.String()
	s, t, d := RegisterName(i.S()), RegisterName(i.T()), RegisterName(i.D())
	branch := pc + 4 + i.ImmSE()<<2

	switch op {
	case cpu.OpSLL:
		if i == 0 {
			return "nop"
		}
		fallthrough
	case cpu.OpSRL, cpu.OpSRA:
		return fmt.Sprintf("%s %s, %s, %d", name, d, t, i.Shift())
	case cpu.OpSLLV, cpu.OpSRLV, cpu.OpSRAV:
		return fmt.Sprintf("%s %s, %s, %s", name, d, t, s)
	case cpu.OpJR, cpu.OpMTHI, cpu.OpMTLO:
		return fmt.Sprintf("%s %s", name, s)
	case cpu.OpJALR:
		return fmt.Sprintf("%s %s, %s", name, d, s)
	case cpu.OpSYSCALL, cpu.OpBREAK:
		return fmt.Sprintf("%s 0x%X", name, uint32(i)>>6&0xfffff)
	case cpu.OpMFHI, cpu.OpMFLO:
		return fmt.Sprintf("%s %s", name, d)
	case cpu.OpMULT, cpu.OpMULTU, cpu.OpDIV, cpu.OpDIVU:
		return fmt.Sprintf("%s %s, %s", name, s, t)
	case cpu.OpADD, cpu.OpADDU, cpu.OpSUB, cpu.OpSUBU, cpu.OpAND, cpu.OpOR,
		cpu.OpXOR, cpu.OpNOR, cpu.OpSLT, cpu.OpSLTU:
		return fmt.Sprintf("%s %s, %s, %s", name, d, s, t)
	case cpu.OpBLTZ, cpu.OpBGEZ, cpu.OpBLTZAL, cpu.OpBGEZAL, cpu.OpBLEZ, cpu.OpBGTZ:
		return fmt.Sprintf("%s %s, 0x%08X", name, s, branch)
	case cpu.OpBEQ, cpu.OpBNE:
		return fmt.Sprintf("%s %s, %s, 0x%08X", name, s, t, branch)
	case cpu.OpJ, cpu.OpJAL:
		return fmt.Sprintf("%s 0x%08X", name, (pc+4)&0xf0000000|i.Target()<<2)
	case cpu.OpADDI, cpu.OpADDIU, cpu.OpSLTI, cpu.OpSLTIU:
		return fmt.Sprintf("%s %s, %s, %d", name, t, s, int32(i.ImmSE()))
	case cpu.OpANDI, cpu.OpORI, cpu.OpXORI:
		return fmt.Sprintf("%s %s, %s, 0x%04X", name, t, s, i.Imm())
	case cpu.OpLUI:
		return fmt.Sprintf("%s %s, 0x%04X", name, t, i.Imm())
	case cpu.OpMFC0, cpu.OpMTC0:
		return fmt.Sprintf("%s %s, cop0r%d", name, t, i.D())
	case cpu.OpLB, cpu.OpLBU, cpu.OpLH, cpu.OpLHU, cpu.OpLW, cpu.OpLWL, cpu.OpLWR,
		cpu.OpSB, cpu.OpSH, cpu.OpSW, cpu.OpSWL, cpu.OpSWR:
		return fmt.Sprintf("%s %s, %d(%s)", name, t, int32(i.ImmSE()), s)
	case cpu.OpLWC0, cpu.OpLWC1, cpu.OpLWC2, cpu.OpLWC3,
		cpu.OpSWC0, cpu.OpSWC1, cpu.OpSWC2, cpu.OpSWC3:
		return fmt.Sprintf("%s $%d, %d(%s)", name, i.T(), int32(i.ImmSE()), s)
	case cpu.OpIllegal:
		return fmt.Sprintf(".word 0x%08X", uint32(i))
	}
	return name
}

// DisassembleAt disassembles the instruction at the given address.
func DisassembleAt(pc uint32, r WordReader) DisassemblyLine {
	word, err := r.Load32(pc)
	if err != nil {
		return DisassemblyLine{Address: pc, Instruction: "??"}
	}
	return DisassemblyLine{
		Address:     pc,
		Word:        word,
		Instruction: Disassemble(pc, cpu.Instruction(word)),
		Valid:       true,
	}
}

// DisassembleAround disassembles before instructions preceding pc, the
// instruction at pc and after instructions following it.
func DisassembleAround(pc uint32, before, after int, r WordReader) []DisassemblyLine {
	pc &^= 3
	start := pc - uint32(before)*4
	if start > pc {
		start = 0
	}

	count := int((pc-start)/4) + after + 1
	lines := make([]DisassemblyLine, 0, count)
	for n := 0; n < count; n++ {
		lines = append(lines, DisassembleAt(start+uint32(n)*4, r))
	}
	return lines
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = ">"
	}
	if !line.Valid {
		return fmt.Sprintf("%s0x%08X: ????????  %s", prefix, line.Address, line.Instruction)
	}
	return fmt.Sprintf("%s0x%08X: %08X  %s", prefix, line.Address, line.Word, line.Instruction)
}
