package benchmarks

import "github.com/sarchlab/ooosim/insts"

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each benchmark targets a specific pipeline characteristic.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		independentALU(),
		dependencyChain(),
		memorySum(),
		branchMix(),
		logicalMix(),
		storeLoad(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: a loop,
// branch-heavy code and memory traffic.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		memorySum(),
		branchMix(),
		storeLoad(),
	}
}

func addi(rd, rs1 uint8, imm int32) uint32 {
	return insts.EncodeImm(insts.OpADDI, rd, rs1, imm)
}

// 1. Independent ALU - arithmetic and logical work with no dependences
func independentALU() Benchmark {
	return Benchmark{
		Name:        "independent_alu",
		Description: "12 independent arithmetic/logical ops - measures dual-unit issue",
		Program: []uint32{
			addi(1, 0, 1),
			insts.EncodeImm(insts.OpORI, 2, 0, 2),
			addi(3, 0, 3),
			insts.EncodeImm(insts.OpANDI, 4, 0, 4),
			addi(5, 0, 5),
			insts.EncodeImm(insts.OpORI, 6, 0, 6),
			addi(7, 0, 7),
			insts.EncodeImm(insts.OpANDI, 8, 0, 8),
			addi(9, 0, 9),
			insts.EncodeImm(insts.OpORI, 10, 0, 10),
			addi(11, 0, 11),
			insts.EncodeImm(insts.OpORI, 12, 0, 12),
			insts.EncodeBreak(),
		},
		ExpectedRegs: map[uint8]int32{1: 1, 2: 2, 4: 0, 11: 11, 12: 12},
	}
}

// 2. Dependency Chain - every instruction reads the previous result
func dependencyChain() Benchmark {
	words := make([]uint32, 0, 11)
	for i := 0; i < 10; i++ {
		words = append(words, addi(1, 1, 3))
	}
	words = append(words, insts.EncodeBreak())

	return Benchmark{
		Name:         "dependency_chain",
		Description:  "10 chained ADDIs - exposes RAW serialisation",
		Program:      words,
		ExpectedRegs: map[uint8]int32{1: 30},
	}
}

// 3. Memory Sum - load/accumulate loop over a five word array
func memorySum() Benchmark {
	return Benchmark{
		Name:        "memory_sum",
		Description: "loop summing 5 words and storing the total - loads, stores and a backward branch",
		Program: []uint32{
			addi(2, 0, 5),                             // x2 = count
			addi(3, 0, 0),                             // x3 = sum
			addi(5, 0, 0),                             // x5 = offset
			insts.EncodeLW(4, 5, 400),                 // loop: x4 = a[x5]
			insts.EncodeReg(insts.OpADD, 3, 3, 4),     // sum += x4
			addi(5, 5, 4),                             // next word
			addi(2, 2, -1),                            // count--
			insts.EncodeBranch(insts.OpBNE, 2, 0, -8), // back to loop
			insts.EncodeSW(3, 0, 420),                 // store total
			insts.EncodeBreak(),
		},
		Data:         map[uint32]int32{400: 1, 404: -2, 408: 30, 412: 400, 416: 5000},
		ExpectedRegs: map[uint8]int32{3: 5429},
		ExpectedData: map[uint32]int32{420: 5429},
	}
}

// 4. Branch Mix - counted loop with BLT, a skipped block and JAL
func branchMix() Benchmark {
	return Benchmark{
		Name:        "branch_mix",
		Description: "counted loop using BLT, BEQ skip and JAL - exercises the wait slot",
		Program: []uint32{
			addi(1, 0, 0),                            // 256: i = 0
			addi(2, 0, 6),                            // 260: n = 6
			addi(1, 1, 1),                            // 264: loop: i++
			insts.EncodeBranch(insts.OpBEQ, 1, 2, 6), // 268: if i == n goto 280
			addi(3, 3, 2),                            // 272: x3 += 2
			insts.EncodeJAL(4, -6),                   // 276: goto 264, x4 = 280
			addi(5, 1, 100),                          // 280: x5 = i + 100
			insts.EncodeBranch(insts.OpBLT, 5, 1, 4), // 284: never taken
			insts.EncodeBreak(),                      // 288
		},
		ExpectedRegs: map[uint8]int32{1: 6, 3: 10, 4: 280, 5: 106},
	}
}

// 5. Logical Mix - shifts and bitwise operations on the logical unit
func logicalMix() Benchmark {
	return Benchmark{
		Name:        "logical_mix",
		Description: "dependent shifts and masks - logical unit occupancy",
		Program: []uint32{
			addi(1, 0, -64),
			insts.EncodeImm(insts.OpSRA, 2, 1, 2),
			insts.EncodeImm(insts.OpSLL, 3, 2, 4),
			insts.EncodeImm(insts.OpORI, 4, 3, 7),
			insts.EncodeReg(insts.OpAND, 5, 4, 1),
			insts.EncodeReg(insts.OpOR, 6, 5, 2),
			insts.EncodeReg(insts.OpSUB, 7, 6, 1),
			insts.EncodeBreak(),
		},
		ExpectedRegs: map[uint8]int32{2: -16, 3: -256, 4: -249, 5: -256, 6: -16, 7: 48},
	}
}

// 6. Store/Load - memory ordering through the single memory pipe
func storeLoad() Benchmark {
	return Benchmark{
		Name:        "store_load",
		Description: "stores followed by reloads of the same addresses - memory ordering",
		Program: []uint32{
			addi(1, 0, 11),
			addi(2, 0, 22),
			insts.EncodeSW(1, 0, 500),
			insts.EncodeSW(2, 0, 504),
			insts.EncodeLW(3, 0, 504),
			insts.EncodeLW(4, 0, 500),
			insts.EncodeReg(insts.OpSUB, 5, 3, 4),
			insts.EncodeSW(5, 0, 508),
			insts.EncodeBreak(),
		},
		ExpectedRegs: map[uint8]int32{3: 22, 4: 11, 5: 11},
		ExpectedData: map[uint32]int32{500: 11, 504: 22, 508: 11},
	}
}
