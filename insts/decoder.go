package insts

// Decoder decodes 32-bit instruction words into instructions.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word. It never fails: a word whose
// opcode is not defined for its category yields an inert instruction with
// Op == OpUnknown and no operands.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Word:     word,
		Category: Category(word&0x3) + 1, // bits [1:0]
	}

	opcode := (word >> 2) & 0x1F // bits [6:2]

	switch inst.Category {
	case CategoryBranchStore:
		inst.Op = branchStoreOps[opcode]
		if inst.Op != OpUnknown {
			inst.Operands = d.decodeBranchStore(word)
		}
	case CategoryRegister:
		inst.Op = registerOps[opcode]
		if inst.Op != OpUnknown {
			inst.Operands = d.decodeRegister(word)
		}
	case CategoryImmediate:
		inst.Op = immediateOps[opcode]
		if inst.Op != OpUnknown {
			inst.Operands = d.decodeImmediate(word)
		}
	case CategoryJump:
		inst.Op = jumpOps[opcode]
		if inst.Op != OpUnknown {
			inst.Operands = d.decodeJump(word)
		}
	}

	return inst
}

var (
	branchStoreOps = map[uint32]Op{0b00000: OpBEQ, 0b00001: OpBNE, 0b00010: OpBLT, 0b00011: OpSW}
	registerOps    = map[uint32]Op{0b00000: OpADD, 0b00001: OpSUB, 0b00010: OpAND, 0b00011: OpOR}
	immediateOps   = map[uint32]Op{
		0b00000: OpADDI,
		0b00001: OpANDI,
		0b00010: OpORI,
		0b00011: OpSLL,
		0b00100: OpSRA,
		0b00101: OpLW,
	}
	jumpOps = map[uint32]Op{0b00000: OpJAL, 0b11111: OpBREAK}
)

// decodeBranchStore decodes category 1 operands.
// Format: imm[11:5] | rs2 | rs1 | 000 | imm[4:0] | opcode | 00
func (d *Decoder) decodeBranchStore(word uint32) BranchStoreOperands {
	hi := (word >> 25) & 0x7F // bits [31:25]
	lo := (word >> 7) & 0x1F  // bits [11:7]

	return BranchStoreOperands{
		Rs1: uint8((word >> 15) & 0x1F), // bits [19:15]
		Rs2: uint8((word >> 20) & 0x1F), // bits [24:20]
		Imm: SignExtend(hi<<5|lo, 12),
	}
}

// decodeRegister decodes category 2 operands.
// Format: 0000000 | rs2 | rs1 | 000 | rd | opcode | 01
func (d *Decoder) decodeRegister(word uint32) RegisterOperands {
	return RegisterOperands{
		Rd:  uint8((word >> 7) & 0x1F),
		Rs1: uint8((word >> 15) & 0x1F),
		Rs2: uint8((word >> 20) & 0x1F),
	}
}

// decodeImmediate decodes category 3 operands.
// Format: imm[11:0] | rs1 | 000 | rd | opcode | 10
func (d *Decoder) decodeImmediate(word uint32) ImmediateOperands {
	return ImmediateOperands{
		Rd:  uint8((word >> 7) & 0x1F),
		Rs1: uint8((word >> 15) & 0x1F),
		Imm: SignExtend(word>>20, 12),
	}
}

// decodeJump decodes category 4 operands.
// Format: imm[19:0] | rd | opcode | 11
func (d *Decoder) decodeJump(word uint32) JumpOperands {
	return JumpOperands{
		Rd:  uint8((word >> 7) & 0x1F),
		Imm: SignExtend(word>>12, 20),
	}
}

// SignExtend interprets the low width bits of v as a two's-complement
// number.
func SignExtend(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift
}
