// Package main provides a profiling wrapper for ooosim to identify
// simulator hot spots.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/loader"
	"github.com/sarchlab/ooosim/timing/config"
	"github.com/sarchlab/ooosim/timing/core"
	"github.com/sarchlab/ooosim/timing/pipeline"
)

var (
	emulate    = flag.Bool("emulate", false, "Profile the sequential emulator instead of the pipeline")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	duration   = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	repeat     = flag.Int("n", 100, "number of times to run the program")
	maxCycles  = flag.Uint64("max-cycles", 1000000, "cycle limit per run (0 = unlimited)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.txt>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	programPath := flag.Arg(0)

	cfg := config.DefaultConfig()
	cfg.MaxCycles = *maxCycles

	prog, err := loader.Load(programPath, cfg.BaseAddress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s\n", programPath)
	fmt.Printf("Words: %d\n", len(prog.Lines))

	start := time.Now()

	// Set timeout
	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	var cycles, instrCount uint64
	for i := 0; i < *repeat; i++ {
		var c, n uint64
		if *emulate {
			n, err = runEmulationProfile(prog, cfg)
		} else {
			c, n, err = runTimingProfile(prog, cfg)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cycles += c
		instrCount += n
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Runs: %d\n", *repeat)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	if !*emulate {
		fmt.Printf("Cycles simulated: %d\n", cycles)
	}
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
	if cycles > 0 {
		fmt.Printf("Cycles/second: %.0f\n", float64(cycles)/elapsed.Seconds())
	}
}

// runEmulationProfile runs the program in functional emulation mode.
func runEmulationProfile(prog *loader.Program, cfg *config.Config) (uint64, error) {
	emulator := emu.NewEmulator(prog,
		emu.WithEntry(cfg.BaseAddress),
		emu.WithMemory(prog.NewMemory()),
		emu.WithMaxInstructions(cfg.MaxCycles),
	)
	err := emulator.Run()
	return emulator.InstructionCount(), err
}

// runTimingProfile runs the program on the pipeline without a trace.
func runTimingProfile(prog *loader.Program, cfg *config.Config) (uint64, uint64, error) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := core.NewCore(prog, &emu.RegFile{}, prog.NewMemory(),
		pipeline.WithConfig(cfg),
		pipeline.WithLogger(logger),
	)
	stats, err := c.Run()
	return stats.Cycles, stats.Instructions, err
}
