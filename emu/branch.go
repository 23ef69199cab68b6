package emu

import "github.com/sarchlab/ooosim/insts"

// BranchUnit resolves branches and jumps against the register file.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// Resolve computes the next PC for a branch or jump located at pc.
// Offsets are immediate*2 bytes, relative to the branch itself. JAL writes
// pc+4 to its destination register before jumping. Resolve returns
// pc+4 and false for anything that is not a branch.
func (b *BranchUnit) Resolve(inst *insts.Instruction, pc uint32) (next uint32, taken bool) {
	fallthroughPC := pc + 4

	switch o := inst.Operands.(type) {
	case insts.JumpOperands:
		if inst.Op != insts.OpJAL {
			return fallthroughPC, false
		}
		b.regFile.WriteReg(o.Rd, int32(pc+4))
		return target(pc, o.Imm), true
	case insts.BranchStoreOperands:
		lhs := b.regFile.ReadReg(o.Rs1)
		rhs := b.regFile.ReadReg(o.Rs2)

		switch inst.Op {
		case insts.OpBEQ:
			taken = lhs == rhs
		case insts.OpBNE:
			taken = lhs != rhs
		case insts.OpBLT:
			taken = lhs < rhs
		}

		if taken {
			return target(pc, o.Imm), true
		}
	}

	return fallthroughPC, false
}

func target(pc uint32, imm int32) uint32 {
	return uint32(int32(pc) + imm*2)
}
