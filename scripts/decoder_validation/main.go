// Validate decoder throughput - measures allocations per decoded word
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/ooosim/insts"
)

func main() {
	decoder := insts.NewDecoder()

	words := []uint32{
		insts.EncodeImm(insts.OpADDI, 1, 0, 42),   // addi x1, x0, #42
		insts.EncodeReg(insts.OpADD, 3, 1, 2),     // add x3, x1, x2
		insts.EncodeLW(4, 5, 296),                 // lw x4, 296(x5)
		insts.EncodeBranch(insts.OpBNE, 2, 0, -8), // bne x2, x0, #-8
	}

	// Warm up
	for i := 0; i < 1000; i++ {
		decoder.Decode(words[0])
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	// Decode a fetch group of four words per iteration
	for i := 0; i < iterations; i++ {
		for _, w := range words {
			decoder.Decode(w)
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * len(words)
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))
	fmt.Printf("Bytes per decode: %.1f\n", float64(allocatedBytes)/float64(totalDecodes))

	// Each decode returns a fresh *Instruction plus its boxed operands.
	if float64(allocations)/float64(totalDecodes) <= 2.0 {
		fmt.Printf("\n✅ GOOD: at most two allocations per decode\n")
	} else {
		fmt.Printf("\n⚠️  WARNING: High allocation rate detected\n")
	}
}
