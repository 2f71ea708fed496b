package cpu

// Op identifies a decoded instruction.
type Op uint8

const (
	OpIllegal Op = iota

	// SPECIAL
	OpSLL
	OpSRL
	OpSRA
	OpSLLV
	OpSRLV
	OpSRAV
	OpJR
	OpJALR
	OpSYSCALL
	OpBREAK
	OpMFHI
	OpMTHI
	OpMFLO
	OpMTLO
	OpMULT
	OpMULTU
	OpDIV
	OpDIVU
	OpADD
	OpADDU
	OpSUB
	OpSUBU
	OpAND
	OpOR
	OpXOR
	OpNOR
	OpSLT
	OpSLTU

	// BcondZ
	OpBLTZ
	OpBGEZ
	OpBLTZAL
	OpBGEZAL

	OpJ
	OpJAL
	OpBEQ
	OpBNE
	OpBLEZ
	OpBGTZ
	OpADDI
	OpADDIU
	OpSLTI
	OpSLTIU
	OpANDI
	OpORI
	OpXORI
	OpLUI

	// COP0
	OpMFC0
	OpMTC0
	OpRFE
	OpCOP0

	OpCOP1
	OpCOP2
	OpCOP3

	OpLB
	OpLH
	OpLWL
	OpLW
	OpLBU
	OpLHU
	OpLWR
	OpSB
	OpSH
	OpSWL
	OpSW
	OpSWR

	OpLWC0
	OpLWC1
	OpLWC2
	OpLWC3
	OpSWC0
	OpSWC1
	OpSWC2
	OpSWC3

	opCount
)

var opNames = [opCount]string{
	OpIllegal: "illegal", OpSLL: "sll", OpSRL: "srl", OpSRA: "sra",
	OpSLLV: "sllv", OpSRLV: "srlv", OpSRAV: "srav",
	OpJR: "jr", OpJALR: "jalr",
	OpSYSCALL: "syscall", OpBREAK: "break",
	OpMFHI: "mfhi", OpMTHI: "mthi", OpMFLO: "mflo", OpMTLO: "mtlo",
	OpMULT: "mult", OpMULTU: "multu", OpDIV: "div", OpDIVU: "divu",
	OpADD: "add", OpADDU: "addu", OpSUB: "sub", OpSUBU: "subu",
	OpAND: "and", OpOR: "or", OpXOR: "xor", OpNOR: "nor",
	OpSLT: "slt", OpSLTU: "sltu",
	OpBLTZ: "bltz", OpBGEZ: "bgez", OpBLTZAL: "bltzal", OpBGEZAL: "bgezal",
	OpJ: "j", OpJAL: "jal", OpBEQ: "beq", OpBNE: "bne", OpBLEZ: "blez", OpBGTZ: "bgtz",
	OpADDI: "addi", OpADDIU: "addiu", OpSLTI: "slti", OpSLTIU: "sltiu",
	OpANDI: "andi", OpORI: "ori", OpXORI: "xori", OpLUI: "lui",
	OpMFC0: "mfc0", OpMTC0: "mtc0", OpRFE: "rfe", OpCOP0: "cop0",
	OpCOP1: "cop1", OpCOP2: "cop2", OpCOP3: "cop3",
	OpLB: "lb", OpLH: "lh", OpLWL: "lwl", OpLW: "lw", OpLBU: "lbu", OpLHU: "lhu", OpLWR: "lwr",
	OpSB: "sb", OpSH: "sh", OpSWL: "swl", OpSW: "sw", OpSWR: "swr",
	OpLWC0: "lwc0", OpLWC1: "lwc1", OpLWC2: "lwc2", OpLWC3: "lwc3",
	OpSWC0: "swc0", OpSWC1: "swc1", OpSWC2: "swc2", OpSWC3: "swc3",
}

func (o Op) String() string {
	if o < opCount {
		return opNames[o]
	}
	return "unknown"
}

// specialOps is indexed by the function field of SPECIAL instructions.
var specialOps = [64]Op{
	0x00: OpSLL,
	0x02: OpSRL,
	0x03: OpSRA,
	0x04: OpSLLV,
	0x06: OpSRLV,
	0x07: OpSRAV,
	0x08: OpJR,
	0x09: OpJALR,
	0x0c: OpSYSCALL,
	0x0d: OpBREAK,
	0x10: OpMFHI,
	0x11: OpMTHI,
	0x12: OpMFLO,
	0x13: OpMTLO,
	0x18: OpMULT,
	0x19: OpMULTU,
	0x1a: OpDIV,
	0x1b: OpDIVU,
	0x20: OpADD,
	0x21: OpADDU,
	0x22: OpSUB,
	0x23: OpSUBU,
	0x24: OpAND,
	0x25: OpOR,
	0x26: OpXOR,
	0x27: OpNOR,
	0x2a: OpSLT,
	0x2b: OpSLTU,
}

// primaryOps is indexed by the primary opcode. SPECIAL, BcondZ and COP0
// need a second level of decoding.
var primaryOps = [64]Op{
	0x02: OpJ,
	0x03: OpJAL,
	0x04: OpBEQ,
	0x05: OpBNE,
	0x06: OpBLEZ,
	0x07: OpBGTZ,
	0x08: OpADDI,
	0x09: OpADDIU,
	0x0a: OpSLTI,
	0x0b: OpSLTIU,
	0x0c: OpANDI,
	0x0d: OpORI,
	0x0e: OpXORI,
	0x0f: OpLUI,
	0x11: OpCOP1,
	0x12: OpCOP2,
	0x13: OpCOP3,
	0x20: OpLB,
	0x21: OpLH,
	0x22: OpLWL,
	0x23: OpLW,
	0x24: OpLBU,
	0x25: OpLHU,
	0x26: OpLWR,
	0x28: OpSB,
	0x29: OpSH,
	0x2a: OpSWL,
	0x2b: OpSW,
	0x2e: OpSWR,
	0x30: OpLWC0,
	0x31: OpLWC1,
	0x32: OpLWC2,
	0x33: OpLWC3,
	0x38: OpSWC0,
	0x39: OpSWC1,
	0x3a: OpSWC2,
	0x3b: OpSWC3,
}

// Decode maps an instruction word to its operation. Encodings that do not
// exist decode to OpIllegal.
func Decode(i Instruction) Op {
	switch i.Primary() {
	case 0x00:
		return specialOps[i.Secondary()]
	case 0x01:
		return decodeBcondZ(i)
	case 0x10:
		return decodeCop0(i)
	}
	return primaryOps[i.Primary()]
}

// decodeBcondZ decodes the sign comparison branches. Bit 16 selects
// "greater or equal" and rt values 0x10/0x11 select the linking forms; the
// other rt encodings alias the plain forms.
func decodeBcondZ(i Instruction) Op {
	t := i.T()
	gez := t&1 != 0
	link := t&0x1e == 0x10

	switch {
	case gez && link:
		return OpBGEZAL
	case gez:
		return OpBGEZ
	case link:
		return OpBLTZAL
	}
	return OpBLTZ
}

func decodeCop0(i Instruction) Op {
	switch i.CopOpcode() {
	case 0x00:
		return OpMFC0
	case 0x04:
		return OpMTC0
	case 0x10:
		if i.Secondary() == 0x10 {
			return OpRFE
		}
	}
	return OpCOP0
}
