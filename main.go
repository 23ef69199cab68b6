// Package main provides the entry point for ooosim.
// ooosim is a cycle-accurate simulator of an out-of-order superscalar
// pipeline with separate memory, arithmetic and logical units.
//
// For the full CLI, use: go run ./cmd/ooosim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("ooosim - out-of-order pipeline simulator")
	fmt.Println("")
	fmt.Println("Usage: ooosim [options] <program.txt>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config      Path to pipeline configuration JSON file")
	fmt.Println("  -o           Output directory (default .)")
	fmt.Println("  -v           Log every pipeline event")
	fmt.Println("  -max-cycles  Override the configured cycle limit")
	fmt.Println("  -emulate     Run the sequential emulator instead")
	fmt.Println("  -stats       Print pipeline statistics")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ooosim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ooosim' instead.")
	}
}
