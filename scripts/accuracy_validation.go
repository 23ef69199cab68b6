// Package main provides accuracy validation for the pipeline model.
// It checks that the decoder and the pipeline agree with the reference
// encoder and the sequential emulator.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ooosim/benchmarks"
	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/insts"
	"github.com/sarchlab/ooosim/loader"
	"github.com/sarchlab/ooosim/timing/core"
	"github.com/sarchlab/ooosim/timing/pipeline"
)

// testInstructionDecoding validates that decoding inverts encoding for
// every operation.
func testInstructionDecoding() bool {
	fmt.Println("Testing instruction decoder accuracy...")

	decoder := insts.NewDecoder()
	cases := []struct {
		op       insts.Op
		operands insts.Operands
	}{
		{insts.OpBEQ, insts.BranchStoreOperands{Rs1: 1, Rs2: 2, Imm: -4}},
		{insts.OpBNE, insts.BranchStoreOperands{Rs1: 3, Rs2: 0, Imm: 100}},
		{insts.OpBLT, insts.BranchStoreOperands{Rs1: 31, Rs2: 30, Imm: -2048}},
		{insts.OpSW, insts.BranchStoreOperands{Rs1: 3, Rs2: 0, Imm: 308}},
		{insts.OpADD, insts.RegisterOperands{Rd: 3, Rs1: 1, Rs2: 2}},
		{insts.OpSUB, insts.RegisterOperands{Rd: 4, Rs1: 5, Rs2: 6}},
		{insts.OpAND, insts.RegisterOperands{Rd: 7, Rs1: 8, Rs2: 9}},
		{insts.OpOR, insts.RegisterOperands{Rd: 10, Rs1: 11, Rs2: 12}},
		{insts.OpADDI, insts.ImmediateOperands{Rd: 1, Rs1: 0, Imm: 5}},
		{insts.OpANDI, insts.ImmediateOperands{Rd: 2, Rs1: 1, Imm: 2047}},
		{insts.OpORI, insts.ImmediateOperands{Rd: 3, Rs1: 2, Imm: -1}},
		{insts.OpSLL, insts.ImmediateOperands{Rd: 4, Rs1: 3, Imm: 31}},
		{insts.OpSRA, insts.ImmediateOperands{Rd: 5, Rs1: 4, Imm: 1}},
		{insts.OpLW, insts.ImmediateOperands{Rd: 4, Rs1: 5, Imm: 296}},
		{insts.OpJAL, insts.JumpOperands{Rd: 1, Imm: -2}},
		{insts.OpBREAK, insts.JumpOperands{}},
	}

	ok := true
	for i, tc := range cases {
		word, err := insts.Encode(tc.op, tc.operands)
		if err != nil {
			fmt.Printf("❌ Test case %d failed: %v\n", i, err)
			ok = false
			continue
		}

		inst := decoder.Decode(word)
		if inst.Op != tc.op || inst.Operands != tc.operands {
			fmt.Printf("❌ Test case %d failed: Decode mismatch\n", i)
			fmt.Printf("  Encoded:  %v %+v\n", tc.op, tc.operands)
			fmt.Printf("  Decoded:  %v %+v\n", inst.Op, inst.Operands)
			ok = false
			continue
		}
		fmt.Printf("✅ Test case %d: Instruction 0x%08X decoded as %s\n", i, word, inst)
	}

	return ok
}

// testPipelineExecution validates every microbenchmark against the
// sequential emulator.
func testPipelineExecution() bool {
	fmt.Println("\nTesting pipeline execution accuracy...")

	cfg := benchmarks.DefaultConfig()
	cfg.Output = io.Discard
	harness := benchmarks.NewHarness(cfg)
	harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

	ok := true
	for i, r := range harness.RunAll() {
		if !r.Matches {
			fmt.Printf("❌ Test case %d (%s) failed:\n", i, r.Name)
			if r.Err != "" {
				fmt.Printf("  Error: %s\n", r.Err)
			}
			fmt.Printf("  %s\n", r.Mismatch)
			ok = false
			continue
		}
		fmt.Printf("✅ Test case %d: %s matches in %d cycles (IPC %.2f)\n",
			i, r.Name, r.SimulatedCycles, r.IPC)
	}

	return ok
}

// testResetDeterminism validates that a reset core replays the same run.
func testResetDeterminism() bool {
	fmt.Println("\nTesting reset determinism...")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ok := true
	for _, bench := range benchmarks.GetCoreBenchmarks() {
		prog := loader.FromWords(emu.DefaultEntry, bench.Program...)

		run := func() uint64 {
			memory := emu.NewMemory()
			for addr, v := range bench.Data {
				memory.Write(addr, v)
			}
			c := core.NewCore(prog, &emu.RegFile{}, memory, pipeline.WithLogger(logger))
			stats, err := c.Run()
			if err != nil {
				fmt.Printf("❌ %s: %v\n", bench.Name, err)
				ok = false
			}
			return stats.Cycles
		}

		first, second := run(), run()
		if first != second {
			fmt.Printf("❌ %s: cycle counts differ (%d vs %d)\n", bench.Name, first, second)
			ok = false
			continue
		}
		fmt.Printf("✅ %s: %d cycles on both runs\n", bench.Name, first)
	}

	return ok
}

func main() {
	fmt.Println("ooosim Accuracy Validation")
	fmt.Println("==========================")

	passed := testInstructionDecoding()
	passed = testPipelineExecution() && passed
	passed = testResetDeterminism() && passed

	fmt.Println()
	if !passed {
		fmt.Println("❌ Validation FAILED")
		os.Exit(1)
	}
	fmt.Println("✅ All validations passed")
}
