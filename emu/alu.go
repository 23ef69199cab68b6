package emu

import (
	"fmt"

	"github.com/sarchlab/ooosim/insts"
)

// ALU implements the arithmetic and logical operations. Results wrap as
// 32-bit two's complement values.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Execute computes the result of an arithmetic or logical instruction from
// the current register values.
func (a *ALU) Execute(inst *insts.Instruction) (int32, error) {
	switch o := inst.Operands.(type) {
	case insts.RegisterOperands:
		return Compute(inst.Op, a.regFile.ReadReg(o.Rs1), a.regFile.ReadReg(o.Rs2))
	case insts.ImmediateOperands:
		return Compute(inst.Op, a.regFile.ReadReg(o.Rs1), o.Imm)
	}
	return 0, fmt.Errorf("%v is not an ALU operation", inst)
}

// Compute applies op to two operands. For register-immediate ops, b is the
// immediate. Shift amounts use the low 5 bits of b.
func Compute(op insts.Op, a, b int32) (int32, error) {
	switch op {
	case insts.OpADD, insts.OpADDI:
		return a + b, nil
	case insts.OpSUB:
		return a - b, nil
	case insts.OpAND, insts.OpANDI:
		return a & b, nil
	case insts.OpOR, insts.OpORI:
		return a | b, nil
	case insts.OpSLL:
		return a << (uint32(b) & 0x1F), nil
	case insts.OpSRA:
		return a >> (uint32(b) & 0x1F), nil
	}
	return 0, fmt.Errorf("%v is not an ALU operation", op)
}
