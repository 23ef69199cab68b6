// Package core provides the cycle driver of the out-of-order CPU model.
// It wraps the pipeline, steps it one cycle at a time and hands the state
// at the end of every cycle to the attached recorders.
package core

import (
	"fmt"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/timing/pipeline"
)

// Recorder receives the pipeline state at the end of every cycle.
type Recorder interface {
	Record(snap *pipeline.Snapshot) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(snap *pipeline.Snapshot) error

// Record calls f(snap).
func (f RecorderFunc) Record(snap *pipeline.Snapshot) error {
	return f(snap)
}

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Stalls counts issue attempts rejected for hazards plus cycles a
	// branch spent waiting.
	Stalls uint64
	// Branches is the number of resolved branches and jumps.
	Branches uint64
	// BranchesTaken is the number of resolved branches that redirected
	// fetch.
	BranchesTaken uint64
}

// IPC returns the retired instructions per cycle.
func (s Stats) IPC() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Instructions) / float64(s.Cycles)
}

// Core represents the cycle-accurate CPU core model.
type Core struct {
	// Pipeline is the underlying out-of-order pipeline.
	Pipeline *pipeline.Pipeline

	recorders []Recorder

	// Shared resources
	regFile *emu.RegFile
	memory  *emu.Memory
}

// NewCore creates a new Core that runs the program in source against the
// given register file and memory.
func NewCore(
	source emu.InstructionSource,
	regFile *emu.RegFile,
	memory *emu.Memory,
	opts ...pipeline.PipelineOption,
) *Core {
	return &Core{
		Pipeline: pipeline.NewPipeline(source, regFile, memory, opts...),
		regFile:  regFile,
		memory:   memory,
	}
}

// AddRecorder attaches a recorder. Recorders are called in the order they
// were added.
func (c *Core) AddRecorder(r Recorder) {
	c.recorders = append(c.recorders, r)
}

// RegFile returns the register file.
func (c *Core) RegFile() *emu.RegFile {
	return c.regFile
}

// Memory returns the data memory.
func (c *Core) Memory() *emu.Memory {
	return c.memory
}

// Tick executes one cycle and records its end state.
func (c *Core) Tick() error {
	if c.Pipeline.Halted() {
		return c.Pipeline.Err()
	}

	if err := c.Pipeline.Tick(); err != nil {
		return err
	}

	if len(c.recorders) == 0 {
		return nil
	}

	snap := c.Pipeline.Snapshot()
	for _, r := range c.recorders {
		if err := r.Record(&snap); err != nil {
			return fmt.Errorf("failed to record cycle %d: %w", snap.Cycle, err)
		}
	}

	return nil
}

// Halted returns true once the core has executed BREAK or failed.
func (c *Core) Halted() bool {
	return c.Pipeline.Halted()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.Pipeline.Stats()
	return Stats{
		Cycles:        pipeStats.Cycles,
		Instructions:  pipeStats.Retired,
		Stalls:        pipeStats.StructuralStalls + pipeStats.DataStalls + pipeStats.WaitCycles,
		Branches:      pipeStats.BranchesResolved,
		BranchesTaken: pipeStats.BranchesTaken,
	}
}

// Run executes the core until it halts.
func (c *Core) Run() (Stats, error) {
	for !c.Halted() {
		if err := c.Tick(); err != nil {
			return c.Stats(), err
		}
	}
	return c.Stats(), nil
}

// RunCycles executes the core for at most the specified number of cycles.
// Returns true if still running, false if halted.
func (c *Core) RunCycles(cycles uint64) (bool, error) {
	for i := uint64(0); i < cycles && !c.Halted(); i++ {
		if err := c.Tick(); err != nil {
			return false, err
		}
	}
	return !c.Halted(), nil
}

// Reset clears all pipeline state. Registers and memory are kept.
func (c *Core) Reset() {
	c.Pipeline.Reset()
}
