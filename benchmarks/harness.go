// Package benchmarks provides canned programs and a harness that runs them
// on the pipeline, checks the outcome against the sequential emulator and
// reports cycle counts.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/loader"
	"github.com/sarchlab/ooosim/timing/config"
	"github.com/sarchlab/ooosim/timing/core"
	"github.com/sarchlab/ooosim/timing/pipeline"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the pipeline
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// EmulatedInstructions is the dynamic instruction count of the
	// sequential emulator, BREAK included
	EmulatedInstructions uint64 `json:"emulated_instructions"`

	// IPC is instructions retired per cycle
	IPC float64 `json:"ipc"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// Stalls counts rejected issue attempts and wait-slot cycles
	Stalls uint64 `json:"stalls"`

	// Branches is the number of resolved branches and jumps
	Branches uint64 `json:"branches"`

	// BranchesTaken is the number of branches that redirected fetch
	BranchesTaken uint64 `json:"branches_taken"`

	// Matches is true when the pipeline's final state equals the
	// emulator's and every expectation holds
	Matches bool `json:"matches"`

	// Mismatch describes the first difference found
	Mismatch string `json:"mismatch,omitempty"`

	// Err is set when the run itself failed
	Err string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Program holds the instruction words, BREAK last
	Program []uint32

	// Data is the initial data memory
	Data map[uint32]int32

	// ExpectedRegs and ExpectedData are checked after the run
	ExpectedRegs map[uint8]int32
	ExpectedData map[uint32]int32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Pipeline sizes the simulated machine
	Pipeline *config.Config

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose logs every pipeline event
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Pipeline: config.DefaultConfig(),
		Output:   os.Stdout,
	}
}

// Harness runs benchmarks and collects results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
	logger     *logrus.Logger
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if config.Verbose {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	}

	return &Harness{
		config: config,
		logger: logger,
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll runs all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))
	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}
	return results
}

func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	base := h.config.Pipeline.BaseAddress
	prog := loader.FromWords(base, bench.Program...)

	memory := emu.NewMemory()
	for addr, v := range bench.Data {
		memory.Write(addr, v)
	}
	reference := memory.Clone()

	regFile := &emu.RegFile{}
	c := core.NewCore(prog, regFile, memory,
		pipeline.WithConfig(h.config.Pipeline),
		pipeline.WithLogger(h.logger.WithField("benchmark", bench.Name)),
	)

	start := time.Now()
	stats, err := c.Run()
	result.WallTime = time.Since(start)

	result.SimulatedCycles = stats.Cycles
	result.InstructionsRetired = stats.Instructions
	result.IPC = stats.IPC()
	if stats.Instructions > 0 {
		result.CPI = float64(stats.Cycles) / float64(stats.Instructions)
	}
	result.Stalls = stats.Stalls
	result.Branches = stats.Branches
	result.BranchesTaken = stats.BranchesTaken

	if err != nil {
		result.Err = err.Error()
		return result
	}

	emulator := emu.NewEmulator(prog,
		emu.WithEntry(base),
		emu.WithMemory(reference),
		emu.WithMaxInstructions(h.config.Pipeline.MaxCycles),
	)
	if err := emulator.Run(); err != nil {
		result.Err = fmt.Sprintf("emulator: %v", err)
		return result
	}
	result.EmulatedInstructions = emulator.InstructionCount()

	result.Mismatch = compare(bench, regFile, memory, emulator)
	result.Matches = result.Mismatch == ""

	return result
}

func compare(bench Benchmark, regFile *emu.RegFile, memory *emu.Memory, reference *emu.Emulator) string {
	if diff := cmp.Diff(reference.RegFile().X, regFile.X); diff != "" {
		return "registers (-emulator +pipeline):\n" + diff
	}
	if diff := cmp.Diff(reference.Memory().Words(), memory.Words()); diff != "" {
		return "memory (-emulator +pipeline):\n" + diff
	}
	for reg, want := range bench.ExpectedRegs {
		if got := regFile.ReadReg(reg); got != want {
			return fmt.Sprintf("x%d = %d, expected %d", reg, got, want)
		}
	}
	for addr, want := range bench.ExpectedData {
		if got := memory.Read(addr); got != want {
			return fmt.Sprintf("mem[%d] = %d, expected %d", addr, got, want)
		}
	}
	return ""
}

// PrintResults prints benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		if r.Err != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Err)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  IPC:                  %.3f\n", r.IPC)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Stalls:               %d\n", r.Stalls)
		_, _ = fmt.Fprintf(h.config.Output, "  Branches (taken):     %d (%d)\n", r.Branches, r.BranchesTaken)
		_, _ = fmt.Fprintf(h.config.Output, "  Matches Emulator:     %v\n", r.Matches)
		if r.Mismatch != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Mismatch: %s\n", r.Mismatch)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV prints benchmark results in CSV format.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,emulated,ipc,cpi,stalls,branches,branches_taken,matches")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%.3f,%.3f,%d,%d,%d,%v\n",
			r.Name,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.EmulatedInstructions,
			r.IPC,
			r.CPI,
			r.Stalls,
			r.Branches,
			r.BranchesTaken,
			r.Matches,
		)
	}
}

// PrintJSON prints benchmark results as a JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
