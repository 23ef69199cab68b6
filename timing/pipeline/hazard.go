package pipeline

import "github.com/sarchlab/ooosim/insts"

// HazardUnit detects data and structural hazards for a candidate
// instruction.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// DataHazard reports whether candidate conflicts with any of the in-flight
// entries. A conflict is any of:
//   - RAW: a candidate source is an in-flight destination
//   - WAW: the candidate destination is an in-flight destination
//   - WAR: the candidate destination is an in-flight source
//
// Absent operands never match.
func (h *HazardUnit) DataHazard(candidate *insts.Instruction, inFlight ...[]*Entry) bool {
	for _, group := range inFlight {
		for _, e := range group {
			if h.conflicts(candidate, e.Inst) {
				return true
			}
		}
	}
	return false
}

func (h *HazardUnit) conflicts(candidate, other *insts.Instruction) bool {
	if dest, ok := other.Dest(); ok {
		if matches(candidate.Src1, dest) || matches(candidate.Src2, dest) || matches(candidate.Dest, dest) {
			return true
		}
	}

	if dest, ok := candidate.Dest(); ok {
		if matches(other.Src1, dest) || matches(other.Src2, dest) {
			return true
		}
	}

	return false
}

func matches(operand func() (uint8, bool), reg uint8) bool {
	r, ok := operand()
	return ok && r == reg
}

// FunctionalUnit identifies the unit an instruction executes on.
type FunctionalUnit int

const (
	// UnitNone is used by branches, BREAK and inert instructions.
	UnitNone FunctionalUnit = iota
	// UnitMemory computes load/store addresses (ALU1).
	UnitMemory
	// UnitArithmetic executes ADD, SUB, ADDI (ALU2).
	UnitArithmetic
	// UnitLogical executes AND, OR, ANDI, ORI, SLL, SRA (ALU3).
	UnitLogical
)

// String returns the unit's queue label.
func (u FunctionalUnit) String() string {
	switch u {
	case UnitMemory:
		return "ALU1"
	case UnitArithmetic:
		return "ALU2"
	case UnitLogical:
		return "ALU3"
	}
	return "none"
}

// UnitFor returns the functional unit that executes inst.
func UnitFor(inst *insts.Instruction) FunctionalUnit {
	switch {
	case inst.IsMemory():
		return UnitMemory
	case inst.IsArithmetic():
		return UnitArithmetic
	case inst.IsLogical():
		return UnitLogical
	}
	return UnitNone
}

// StructuralHazard reports whether the input queue of the unit candidate
// targets is full. inputs maps each unit to the queue its issue stage
// checks.
func (h *HazardUnit) StructuralHazard(
	candidate *insts.Instruction,
	inputs map[FunctionalUnit]*Buffer,
) bool {
	in, ok := inputs[UnitFor(candidate)]
	return ok && in.IsFull()
}
