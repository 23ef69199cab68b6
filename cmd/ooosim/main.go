// Package main provides the entry point for ooosim, a cycle-accurate
// simulator of an out-of-order superscalar pipeline.
//
// Usage:
//
//	ooosim [options] <program.txt>
//
// The program file holds one 32-digit binary word per line. The simulator
// writes disassembly.txt and simulation.txt into the output directory.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/loader"
	"github.com/sarchlab/ooosim/report"
	"github.com/sarchlab/ooosim/timing/config"
	"github.com/sarchlab/ooosim/timing/core"
	"github.com/sarchlab/ooosim/timing/pipeline"
)

const (
	disassemblyFile = "disassembly.txt"
	simulationFile  = "simulation.txt"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	configPath  string
	outputDir   string
	verbose     bool
	maxCycles   uint64
	emulate     bool
	stats       bool
	programPath string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("ooosim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to pipeline configuration JSON file")
	fs.StringVar(&opts.outputDir, "o", ".", "Directory for disassembly.txt and simulation.txt")
	fs.BoolVar(&opts.verbose, "v", false, "Log every pipeline event")
	fs.Uint64Var(&opts.maxCycles, "max-cycles", 0, "Override the configured cycle limit (0 keeps it)")
	fs.BoolVar(&opts.emulate, "emulate", false, "Run the sequential emulator instead of the pipeline")
	fs.BoolVar(&opts.stats, "stats", false, "Print pipeline statistics")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ooosim [options] <program.txt>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected one program file, got %d arguments", fs.NArg())
	}
	opts.programPath = fs.Arg(0)

	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := simulate(opts, stdout, logger); err != nil {
		logger.WithError(err).Error("simulation failed")
		return 1
	}
	return 0
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}
	if opts.maxCycles > 0 {
		cfg.MaxCycles = opts.maxCycles
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func simulate(opts *options, stdout io.Writer, logger *logrus.Logger) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	prog, err := loader.Load(opts.programPath, cfg.BaseAddress)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"program": opts.programPath,
		"words":   len(prog.Lines),
		"data":    len(prog.Data()),
	}).Debug("loaded")

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeFile(filepath.Join(opts.outputDir, disassemblyFile), func(w io.Writer) error {
		return report.WriteDisassembly(w, prog)
	}); err != nil {
		return err
	}

	if opts.emulate {
		return runEmulation(prog, cfg, stdout)
	}

	return writeFile(filepath.Join(opts.outputDir, simulationFile), func(w io.Writer) error {
		return runTiming(prog, cfg, w, stdout, logger, opts.stats)
	})
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return write(f)
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(prog *loader.Program, cfg *config.Config, stdout io.Writer) error {
	emulator := emu.NewEmulator(prog,
		emu.WithEntry(cfg.BaseAddress),
		emu.WithMemory(prog.NewMemory()),
		emu.WithMaxInstructions(cfg.MaxCycles),
	)
	if err := emulator.Run(); err != nil {
		return fmt.Errorf("emulation failed: %w", err)
	}

	fmt.Fprintf(stdout, "Instructions executed: %d\n", emulator.InstructionCount())
	for i, v := range emulator.RegFile().X {
		if v != 0 {
			fmt.Fprintf(stdout, "x%02d = %d\n", i, v)
		}
	}
	return nil
}

// runTiming runs the program on the pipeline and writes the trace to trace.
func runTiming(
	prog *loader.Program,
	cfg *config.Config,
	trace, stdout io.Writer,
	logger *logrus.Logger,
	printStats bool,
) error {
	c := core.NewCore(prog, &emu.RegFile{}, prog.NewMemory(),
		pipeline.WithConfig(cfg),
		pipeline.WithLogger(logger),
	)
	c.AddRecorder(report.NewTraceWriter(trace))

	stats, err := c.Run()
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"cycles":       stats.Cycles,
		"instructions": stats.Instructions,
	}).Info("simulation complete")

	if printStats {
		fmt.Fprintf(stdout, "Total Cycles: %d\n", stats.Cycles)
		fmt.Fprintf(stdout, "Total Instructions: %d\n", stats.Instructions)
		fmt.Fprintf(stdout, "IPC: %.3f\n", stats.IPC())
		fmt.Fprintf(stdout, "Stalls: %d\n", stats.Stalls)
		fmt.Fprintf(stdout, "Branches: %d (taken %d)\n", stats.Branches, stats.BranchesTaken)
	}

	return nil
}
