// Command benchmark runs the ooosim benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv     Output results in CSV format (default: human-readable)
//	-json    Output results as JSON
//	-core    Run only the core benchmark subset
//	-config  Path to pipeline configuration JSON file
//	-v       Log every pipeline event
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
//
// Every benchmark is also run on the sequential emulator; the command exits
// non-zero when the two disagree.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/ooosim/benchmarks"
	"github.com/sarchlab/ooosim/timing/config"
)

func main() {
	// Parse flags
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	coreOnly := flag.Bool("core", false, "Run only the core benchmark subset")
	configPath := flag.String("config", "", "Path to pipeline configuration JSON file")
	verbose := flag.Bool("v", false, "Log every pipeline event")
	flag.Parse()

	// Configure harness
	cfg := benchmarks.DefaultConfig()
	cfg.Output = os.Stdout
	cfg.Verbose = *verbose
	if *configPath != "" {
		pipeCfg, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg.Pipeline = pipeCfg
	}

	// Create harness and add benchmarks
	harness := benchmarks.NewHarness(cfg)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("ooosim Benchmark Harness")
		fmt.Println("========================")
		fmt.Printf("Fetch width: %d\n", cfg.Pipeline.FetchWidth)
		fmt.Printf("Pre-Issue entries: %d\n", cfg.Pipeline.PreIssueSize)
		fmt.Println("")
	}

	// Run benchmarks
	results := harness.RunAll()

	// Output results
	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Matches {
			os.Exit(1)
		}
	}
}
