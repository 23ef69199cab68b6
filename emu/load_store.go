package emu

import "github.com/sarchlab/ooosim/insts"

// LoadStoreUnit implements LW and SW against data memory.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// EffectiveAddress returns base-register value + immediate for LW and SW.
func (lsu *LoadStoreUnit) EffectiveAddress(inst *insts.Instruction) (uint32, bool) {
	switch o := inst.Operands.(type) {
	case insts.ImmediateOperands:
		if inst.Op == insts.OpLW {
			return uint32(o.Imm + lsu.regFile.ReadReg(o.Rs1)), true
		}
	case insts.BranchStoreOperands:
		if inst.Op == insts.OpSW {
			return uint32(o.Imm + lsu.regFile.ReadReg(o.Rs2)), true
		}
	}
	return 0, false
}

// Load reads the word an LW refers to: mem[imm + x(rs1)].
func (lsu *LoadStoreUnit) Load(inst *insts.Instruction) (int32, bool) {
	addr, ok := lsu.EffectiveAddress(inst)
	if !ok || !inst.IsLoad() {
		return 0, false
	}
	return lsu.memory.Read(addr), true
}

// Store performs an SW: mem[imm + x(rs2)] = x(rs1).
func (lsu *LoadStoreUnit) Store(inst *insts.Instruction) bool {
	addr, ok := lsu.EffectiveAddress(inst)
	if !ok || !inst.IsStore() {
		return false
	}
	o := inst.Operands.(insts.BranchStoreOperands)
	lsu.memory.Write(addr, lsu.regFile.ReadReg(o.Rs1))
	return true
}
