// Package pipeline provides a cycle-accurate model of an out-of-order
// superscalar pipeline with separate memory, arithmetic and logical units.
//
// Every stage boundary is a Latch: work a stage produces in cycle N is
// staged on the latch's write side and only becomes visible to the
// consumer in cycle N+1. Within a cycle the stages run in the order
// fetch, issue, ALU1, ALU2, ALU3, MEM, WB; writeback advances every latch
// last.
package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/insts"
	"github.com/sarchlab/ooosim/timing/config"
)

var (
	// ErrNoInstruction is returned when the PC points outside the program.
	ErrNoInstruction = errors.New("no instruction at pc")
	// ErrCycleLimit is returned when the run exceeds the configured cycle
	// limit without reaching BREAK.
	ErrCycleLimit = errors.New("cycle limit reached")
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Fetched is the number of instructions taken from the program.
	Fetched uint64
	// Issued is the number of instructions dispatched to functional units.
	Issued uint64
	// Retired counts committed results, completed stores, resolved
	// branches and dropped inert instructions.
	Retired uint64
	// Stores is the number of completed stores.
	Stores uint64
	// BranchesResolved is the number of branches and jumps resolved.
	BranchesResolved uint64
	// BranchesTaken is the number of resolved branches that redirected
	// the PC.
	BranchesTaken uint64
	// WaitCycles is the number of cycles a branch sat blocked in the
	// wait slot.
	WaitCycles uint64
	// StructuralStalls counts issue attempts rejected for a busy unit,
	// a full unit queue or memory ordering.
	StructuralStalls uint64
	// DataStalls counts issue attempts rejected for a register hazard.
	DataStalls uint64
}

// IPC returns the retired instructions per cycle.
func (s Statistics) IPC() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Retired) / float64(s.Cycles)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithConfig sets the pipeline sizing.
func WithConfig(cfg *config.Config) PipelineOption {
	return func(p *Pipeline) {
		p.config = cfg.Clone()
	}
}

// WithLogger sets the logger pipeline events are reported to.
func WithLogger(logger logrus.FieldLogger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline holds the complete simulation state: architectural state,
// every stage buffer and the set of in-flight instructions.
type Pipeline struct {
	config *config.Config
	logger logrus.FieldLogger

	// Shared resources
	source  emu.InstructionSource
	regFile *emu.RegFile
	memory  *emu.Memory

	decoder    *insts.Decoder
	hazardUnit *HazardUnit
	alu        *emu.ALU
	lsu        *emu.LoadStoreUnit
	branchUnit *emu.BranchUnit

	// IF unit slots
	waiting  *Buffer
	executed *Buffer

	// Stage boundaries
	preIssue *Latch
	preALU1  *Latch
	preMem   *Latch
	postMem  *Latch
	preALU2  *Latch
	postALU2 *Latch
	preALU3  *Latch
	postALU3 *Latch

	// active holds instructions between issue and commit.
	active []*Entry

	// alu2Ready/alu3Ready are false for the cycle after the unit accepted
	// an instruction.
	alu2Ready bool
	alu3Ready bool

	pc       uint32
	cycle    uint64
	stopping bool
	halted   bool
	err      error

	stats Statistics
}

// NewPipeline creates a pipeline that fetches from source and operates on
// the given register file and data memory.
func NewPipeline(
	source emu.InstructionSource,
	regFile *emu.RegFile,
	memory *emu.Memory,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		config:     config.DefaultConfig(),
		logger:     logrus.StandardLogger(),
		source:     source,
		regFile:    regFile,
		memory:     memory,
		decoder:    insts.NewDecoder(),
		hazardUnit: NewHazardUnit(),
		alu:        emu.NewALU(regFile),
		lsu:        emu.NewLoadStoreUnit(regFile, memory),
		branchUnit: emu.NewBranchUnit(regFile),
	}

	for _, opt := range opts {
		opt(p)
	}

	unit := p.config.UnitBufferSize
	p.waiting = NewBuffer("Waiting", 1)
	p.executed = NewBuffer("Executed", 1)
	p.preIssue = NewLatch("Pre-Issue", p.config.PreIssueSize)
	p.preALU1 = NewLatch("Pre-ALU1", p.config.PreMemUnitSize)
	p.preMem = NewLatch("Pre-MEM", unit)
	p.postMem = NewLatch("Post-MEM", unit)
	p.preALU2 = NewLatch("Pre-ALU2", unit)
	p.postALU2 = NewLatch("Post-ALU2", unit)
	p.preALU3 = NewLatch("Pre-ALU3", unit)
	p.postALU3 = NewLatch("Post-ALU3", unit)

	p.Reset()

	return p
}

// Reset empties every buffer and rewinds the PC to the base address. The
// register file and memory are left untouched.
func (p *Pipeline) Reset() {
	p.waiting.Clear()
	p.executed.Clear()
	for _, l := range p.latches() {
		l.Reset()
	}
	p.active = nil
	p.alu2Ready = true
	p.alu3Ready = true
	p.pc = p.config.BaseAddress
	p.cycle = 0
	p.stopping = false
	p.halted = false
	p.err = nil
	p.stats = Statistics{}
}

func (p *Pipeline) latches() []*Latch {
	return []*Latch{
		p.preIssue,
		p.preALU1,
		p.preMem,
		p.postMem,
		p.preALU2,
		p.postALU2,
		p.preALU3,
		p.postALU3,
	}
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint32 {
	return p.pc
}

// Cycle returns the number of completed cycles.
func (p *Pipeline) Cycle() uint64 {
	return p.cycle
}

// RegFile returns the register file.
func (p *Pipeline) RegFile() *emu.RegFile {
	return p.regFile
}

// Memory returns the data memory.
func (p *Pipeline) Memory() *emu.Memory {
	return p.memory
}

// Config returns a copy of the pipeline configuration.
func (p *Pipeline) Config() *config.Config {
	return p.config.Clone()
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Halted returns true once BREAK has been fetched or a cycle failed.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Err returns the error that stopped the pipeline, if any.
func (p *Pipeline) Err() error {
	return p.err
}

// ActiveCount returns the number of instructions between issue and commit.
func (p *Pipeline) ActiveCount() int {
	return len(p.active)
}

// Drained reports whether no instruction remains anywhere in the pipeline.
func (p *Pipeline) Drained() bool {
	if !p.waiting.IsEmpty() || !p.executed.IsEmpty() || len(p.active) > 0 {
		return false
	}
	for _, l := range p.latches() {
		if !l.IsEmpty() {
			return false
		}
	}
	return true
}

// Run executes cycles until the pipeline halts.
func (p *Pipeline) Run() error {
	for !p.halted {
		if err := p.Tick(); err != nil {
			return err
		}
	}
	return p.err
}

// RunCycles executes at most the given number of cycles.
// Returns true if still running, false if halted.
func (p *Pipeline) RunCycles(cycles uint64) (bool, error) {
	for i := uint64(0); i < cycles && !p.halted; i++ {
		if err := p.Tick(); err != nil {
			return false, err
		}
	}
	return !p.halted, nil
}

// Tick executes one pipeline cycle.
//
// All stages observe the state as it was at the start of the cycle: results
// produced this cycle sit on latch write sides until writeback advances
// them. The first stage error halts the pipeline and is returned from this
// and every later call.
func (p *Pipeline) Tick() error {
	if p.halted {
		return p.err
	}

	if p.config.MaxCycles > 0 && p.cycle >= p.config.MaxCycles {
		return p.fail(fmt.Errorf("%w after %d cycles", ErrCycleLimit, p.cycle))
	}

	p.cycle++
	p.stats.Cycles++

	stages := []struct {
		name string
		run  func() error
	}{
		{"fetch", p.fetch},
		{"issue", p.issue},
		{"ALU1", p.executeMemoryUnit},
		{"ALU2", func() error { return p.executeALU(p.preALU2, p.postALU2) }},
		{"ALU3", func() error { return p.executeALU(p.preALU3, p.postALU3) }},
		{"MEM", p.accessMemory},
		{"WB", p.writeback},
	}

	for _, stage := range stages {
		if err := stage.run(); err != nil {
			return p.fail(fmt.Errorf("cycle %d: %s: %w", p.cycle, stage.name, err))
		}
	}

	if p.stopping {
		p.halted = true
		p.logger.WithField("cycle", p.cycle).Debug("halt")
	}

	return nil
}

func (p *Pipeline) fail(err error) error {
	p.halted = true
	p.err = err
	p.logger.WithField("cycle", p.cycle).WithError(err).Error("pipeline stopped")
	return err
}

// retire removes e from the active set. Identity, not encoding, decides:
// two in-flight copies of the same word are distinct entries.
func (p *Pipeline) retire(e *Entry) {
	p.active = slices.DeleteFunc(p.active, func(a *Entry) bool { return a == e })
	p.stats.Retired++
}

func (p *Pipeline) event(e *Entry, msg string) {
	p.logger.WithFields(logrus.Fields{
		"cycle": p.cycle,
		"pc":    e.PC,
		"inst":  e.Inst.String(),
	}).Debug(msg)
}
