package insts

import "fmt"

var opcodes = map[Op]struct {
	category Category
	opcode   uint32
}{
	OpBEQ:   {CategoryBranchStore, 0b00000},
	OpBNE:   {CategoryBranchStore, 0b00001},
	OpBLT:   {CategoryBranchStore, 0b00010},
	OpSW:    {CategoryBranchStore, 0b00011},
	OpADD:   {CategoryRegister, 0b00000},
	OpSUB:   {CategoryRegister, 0b00001},
	OpAND:   {CategoryRegister, 0b00010},
	OpOR:    {CategoryRegister, 0b00011},
	OpADDI:  {CategoryImmediate, 0b00000},
	OpANDI:  {CategoryImmediate, 0b00001},
	OpORI:   {CategoryImmediate, 0b00010},
	OpSLL:   {CategoryImmediate, 0b00011},
	OpSRA:   {CategoryImmediate, 0b00100},
	OpLW:    {CategoryImmediate, 0b00101},
	OpJAL:   {CategoryJump, 0b00000},
	OpBREAK: {CategoryJump, 0b11111},
}

// Encode packs an operation and its operands into an instruction word.
// Register fields are truncated to 5 bits and immediates to their field
// width.
func Encode(op Op, operands Operands) (uint32, error) {
	info, ok := opcodes[op]
	if !ok {
		return 0, fmt.Errorf("cannot encode %v", op)
	}
	if operands == nil || operands.category() != info.category {
		return 0, fmt.Errorf("%v requires category %d operands", op, info.category)
	}

	word := info.opcode<<2 | uint32(info.category-1)

	switch o := operands.(type) {
	case BranchStoreOperands:
		imm := uint32(o.Imm) & 0xFFF
		word |= (imm >> 5) << 25
		word |= (imm & 0x1F) << 7
		word |= reg(o.Rs1) << 15
		word |= reg(o.Rs2) << 20
	case RegisterOperands:
		word |= reg(o.Rd) << 7
		word |= reg(o.Rs1) << 15
		word |= reg(o.Rs2) << 20
	case ImmediateOperands:
		word |= reg(o.Rd) << 7
		word |= reg(o.Rs1) << 15
		word |= (uint32(o.Imm) & 0xFFF) << 20
	case JumpOperands:
		word |= reg(o.Rd) << 7
		word |= (uint32(o.Imm) & 0xFFFFF) << 12
	}

	return word, nil
}

func reg(r uint8) uint32 {
	return uint32(r) & 0x1F
}

// MustEncode is like Encode but panics on an invalid op/operand pairing.
// It is intended for building fixed programs.
func MustEncode(op Op, operands Operands) uint32 {
	word, err := Encode(op, operands)
	if err != nil {
		panic(err)
	}
	return word
}

// EncodeBranch encodes BEQ, BNE or BLT.
func EncodeBranch(op Op, rs1, rs2 uint8, imm int32) uint32 {
	return MustEncode(op, BranchStoreOperands{Rs1: rs1, Rs2: rs2, Imm: imm})
}

// EncodeSW encodes "sw xValue, imm(xBase)".
func EncodeSW(value, base uint8, imm int32) uint32 {
	return MustEncode(OpSW, BranchStoreOperands{Rs1: value, Rs2: base, Imm: imm})
}

// EncodeReg encodes a register-register operation.
func EncodeReg(op Op, rd, rs1, rs2 uint8) uint32 {
	return MustEncode(op, RegisterOperands{Rd: rd, Rs1: rs1, Rs2: rs2})
}

// EncodeImm encodes a register-immediate operation.
func EncodeImm(op Op, rd, rs1 uint8, imm int32) uint32 {
	return MustEncode(op, ImmediateOperands{Rd: rd, Rs1: rs1, Imm: imm})
}

// EncodeLW encodes "lw xRd, imm(xBase)".
func EncodeLW(rd, base uint8, imm int32) uint32 {
	return EncodeImm(OpLW, rd, base, imm)
}

// EncodeJAL encodes "jal xRd, #imm".
func EncodeJAL(rd uint8, imm int32) uint32 {
	return MustEncode(OpJAL, JumpOperands{Rd: rd, Imm: imm})
}

// EncodeBreak encodes the program terminator.
func EncodeBreak() uint32 {
	return MustEncode(OpBREAK, JumpOperands{})
}
