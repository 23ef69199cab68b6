// Package insts provides instruction definitions and decoding for the
// simulated 32-bit instruction set.
//
// Every word carries a 2-bit category in bits [1:0] and a 5-bit opcode in
// bits [6:2]. The remaining bits hold operand fields whose layout depends on
// the category:
//   - Category 1: BEQ, BNE, BLT, SW (two sources, split 12-bit immediate)
//   - Category 2: ADD, SUB, AND, OR (register-register)
//   - Category 3: ADDI, ANDI, ORI, SLL, SRA, LW (register-immediate)
//   - Category 4: JAL, BREAK (20-bit immediate)
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00500082) // addi x1, x0, #5
//	fmt.Println(inst) // addi x1, x0, #5
package insts

import "fmt"

// Category is the top-level instruction class held in bits [1:0].
type Category uint8

// Instruction categories.
const (
	CategoryUnknown     Category = iota
	CategoryBranchStore          // 00: control flow and store word
	CategoryRegister             // 01: register-register ALU
	CategoryImmediate            // 10: register-immediate ALU and load word
	CategoryJump                 // 11: jump-and-link and break
)

// Op represents an opcode within a category.
type Op uint8

// Opcodes.
const (
	OpUnknown Op = iota
	OpBEQ
	OpBNE
	OpBLT
	OpSW
	OpADD
	OpSUB
	OpAND
	OpOR
	OpADDI
	OpANDI
	OpORI
	OpSLL
	OpSRA
	OpLW
	OpJAL
	OpBREAK
)

var opNames = map[Op]string{
	OpBEQ:   "beq",
	OpBNE:   "bne",
	OpBLT:   "blt",
	OpSW:    "sw",
	OpADD:   "add",
	OpSUB:   "sub",
	OpAND:   "and",
	OpOR:    "or",
	OpADDI:  "addi",
	OpANDI:  "andi",
	OpORI:   "ori",
	OpSLL:   "sll",
	OpSRA:   "sra",
	OpLW:    "lw",
	OpJAL:   "jal",
	OpBREAK: "break",
}

// String returns the assembler mnemonic, or "unknown".
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Operands is the category-specific operand payload of an instruction.
// Exactly one of BranchStoreOperands, RegisterOperands, ImmediateOperands
// or JumpOperands backs a decoded instruction.
type Operands interface {
	category() Category
}

// BranchStoreOperands holds the fields of category 1 instructions.
type BranchStoreOperands struct {
	Rs1 uint8 // Compared register, or the value register for SW
	Rs2 uint8 // Compared register, or the base register for SW
	Imm int32
}

// RegisterOperands holds the fields of category 2 instructions.
type RegisterOperands struct {
	Rd  uint8
	Rs1 uint8
	Rs2 uint8
}

// ImmediateOperands holds the fields of category 3 instructions.
type ImmediateOperands struct {
	Rd  uint8
	Rs1 uint8 // Source register, or the base register for LW
	Imm int32
}

// JumpOperands holds the fields of category 4 instructions.
type JumpOperands struct {
	Rd  uint8
	Imm int32
}

func (BranchStoreOperands) category() Category { return CategoryBranchStore }
func (RegisterOperands) category() Category    { return CategoryRegister }
func (ImmediateOperands) category() Category   { return CategoryImmediate }
func (JumpOperands) category() Category        { return CategoryJump }

// Instruction represents a decoded instruction. It is immutable once
// produced by the decoder.
type Instruction struct {
	Word     uint32   // Raw instruction word
	Category Category // Top-level class
	Op       Op       // Operation, OpUnknown for undecodable words

	// Operands is nil for undecodable words, which makes them inert.
	Operands Operands
}

// Src1 returns the first source register, if the instruction has one.
func (i *Instruction) Src1() (uint8, bool) {
	switch o := i.Operands.(type) {
	case BranchStoreOperands:
		return o.Rs1, true
	case RegisterOperands:
		return o.Rs1, true
	case ImmediateOperands:
		return o.Rs1, true
	}
	return 0, false
}

// Src2 returns the second source register, if the instruction has one.
func (i *Instruction) Src2() (uint8, bool) {
	switch o := i.Operands.(type) {
	case BranchStoreOperands:
		return o.Rs2, true
	case RegisterOperands:
		return o.Rs2, true
	}
	return 0, false
}

// Dest returns the destination register, if the instruction has one.
func (i *Instruction) Dest() (uint8, bool) {
	switch o := i.Operands.(type) {
	case RegisterOperands:
		return o.Rd, true
	case ImmediateOperands:
		return o.Rd, true
	case JumpOperands:
		return o.Rd, true
	}
	return 0, false
}

// Imm returns the sign-extended immediate, if the instruction has one.
func (i *Instruction) Imm() (int32, bool) {
	switch o := i.Operands.(type) {
	case BranchStoreOperands:
		return o.Imm, true
	case ImmediateOperands:
		return o.Imm, true
	case JumpOperands:
		return o.Imm, true
	}
	return 0, false
}

// IsBranch reports whether the instruction is resolved at fetch (BEQ, BNE,
// BLT, JAL).
func (i *Instruction) IsBranch() bool {
	switch i.Op {
	case OpBEQ, OpBNE, OpBLT, OpJAL:
		return true
	}
	return false
}

// IsArithmetic reports whether the instruction executes on the arithmetic
// unit.
func (i *Instruction) IsArithmetic() bool {
	switch i.Op {
	case OpADD, OpSUB, OpADDI:
		return true
	}
	return false
}

// IsLogical reports whether the instruction executes on the logical unit.
func (i *Instruction) IsLogical() bool {
	switch i.Op {
	case OpAND, OpOR, OpANDI, OpORI, OpSLL, OpSRA:
		return true
	}
	return false
}

// IsMemory reports whether the instruction is a load or a store.
func (i *Instruction) IsMemory() bool {
	return i.Op == OpLW || i.Op == OpSW
}

// IsLoad reports whether the instruction is LW.
func (i *Instruction) IsLoad() bool {
	return i.Op == OpLW
}

// IsStore reports whether the instruction is SW.
func (i *Instruction) IsStore() bool {
	return i.Op == OpSW
}

// IsBreak reports whether the instruction is the program terminator.
func (i *Instruction) IsBreak() bool {
	return i.Op == OpBREAK
}

// IsInert reports whether the word did not decode to a known operation.
func (i *Instruction) IsInert() bool {
	return i.Op == OpUnknown
}

// String returns the disassembly text of the instruction.
func (i *Instruction) String() string {
	switch o := i.Operands.(type) {
	case BranchStoreOperands:
		if i.Op == OpSW {
			return fmt.Sprintf("sw x%d, %d(x%d)", o.Rs1, o.Imm, o.Rs2)
		}
		return fmt.Sprintf("%s x%d, x%d, #%d", i.Op, o.Rs1, o.Rs2, o.Imm)
	case RegisterOperands:
		return fmt.Sprintf("%s x%d, x%d, x%d", i.Op, o.Rd, o.Rs1, o.Rs2)
	case ImmediateOperands:
		if i.Op == OpLW {
			return fmt.Sprintf("lw x%d, %d(x%d)", o.Rd, o.Imm, o.Rs1)
		}
		return fmt.Sprintf("%s x%d, x%d, #%d", i.Op, o.Rd, o.Rs1, o.Imm)
	case JumpOperands:
		if i.Op == OpBREAK {
			return "break"
		}
		return fmt.Sprintf("jal x%d, #%d", o.Rd, o.Imm)
	}
	return "unknown"
}
