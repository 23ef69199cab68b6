package emu

import (
	"fmt"

	"github.com/sarchlab/ooosim/insts"
)

// DefaultEntry is the byte address of the first instruction.
const DefaultEntry uint32 = 256

// InstructionSource supplies instruction words by byte address.
type InstructionSource interface {
	// Word returns the word at addr and whether addr holds one.
	Word(addr uint32) (uint32, bool)
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true once BREAK has executed.
	Halted bool

	// Err is set if an error occurred during execution.
	Err error
}

// Emulator executes instructions functionally, one at a time and in program
// order. It is the reference the pipelined model must agree with.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder
	source  InstructionSource

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	// Execution state
	pc               uint32
	halted           bool
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMemory sets the data memory the program runs against.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// WithEntry sets the address of the first instruction.
func WithEntry(pc uint32) EmulatorOption {
	return func(e *Emulator) {
		e.pc = pc
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new emulator reading instructions from source.
func NewEmulator(source InstructionSource, opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
		source:  source,
		pc:      DefaultEntry,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// PC returns the address of the next instruction.
func (e *Emulator) PC() uint32 {
	return e.pc
}

// Halted returns true once BREAK has executed.
func (e *Emulator) Halted() bool {
	return e.halted
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Halted: true}
	}

	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: fmt.Errorf("max instructions reached")}
	}

	word, ok := e.source.Word(e.pc)
	if !ok {
		return StepResult{Err: fmt.Errorf("no instruction at address %d", e.pc)}
	}

	inst := e.decoder.Decode(word)
	result := e.execute(inst)
	e.instructionCount++

	return result
}

// Run executes instructions until BREAK or an error.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Halted {
			return nil
		}
	}
}

func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	switch {
	case inst.IsBreak():
		e.halted = true
		return StepResult{Halted: true}
	case inst.IsBranch():
		e.pc, _ = e.branchUnit.Resolve(inst, e.pc)
		return StepResult{}
	case inst.IsLoad():
		value, _ := e.lsu.Load(inst)
		rd, _ := inst.Dest()
		e.regFile.WriteReg(rd, value)
	case inst.IsStore():
		e.lsu.Store(inst)
	case inst.IsArithmetic(), inst.IsLogical():
		value, err := e.alu.Execute(inst)
		if err != nil {
			return StepResult{Err: err}
		}
		rd, _ := inst.Dest()
		e.regFile.WriteReg(rd, value)
	}

	// Inert instructions fall through as no-ops.
	e.pc += 4
	return StepResult{}
}
