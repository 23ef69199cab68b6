package benchmarks_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ooosim/benchmarks"
	"github.com/sarchlab/ooosim/insts"
)

var _ = Describe("Harness", func() {
	var (
		output  *bytes.Buffer
		harness *benchmarks.Harness
	)

	BeforeEach(func() {
		output = &bytes.Buffer{}
		config := benchmarks.DefaultConfig()
		config.Output = output
		harness = benchmarks.NewHarness(config)
	})

	byName := func(results []benchmarks.BenchmarkResult) map[string]benchmarks.BenchmarkResult {
		m := map[string]benchmarks.BenchmarkResult{}
		for _, r := range results {
			m[r.Name] = r
		}
		return m
	}

	It("should agree with the emulator on every microbenchmark", func() {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
		results := harness.RunAll()

		Expect(results).To(HaveLen(6))
		for _, r := range results {
			Expect(r.Err).To(BeEmpty(), r.Name)
			Expect(r.Matches).To(BeTrue(), "%s: %s", r.Name, r.Mismatch)
			Expect(r.SimulatedCycles).To(BeNumerically(">", 0), r.Name)
			// The emulator also counts BREAK.
			Expect(r.InstructionsRetired).To(Equal(r.EmulatedInstructions-1), r.Name)
		}
	})

	It("should show dependences lowering IPC", func() {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
		results := byName(harness.RunAll())

		Expect(results["independent_alu"].IPC).To(BeNumerically(">", results["dependency_chain"].IPC))
	})

	It("should count loop branches", func() {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
		results := byName(harness.RunAll())

		Expect(results["memory_sum"].Branches).To(Equal(uint64(5)))
		Expect(results["memory_sum"].BranchesTaken).To(Equal(uint64(4)))
	})

	It("should flag a wrong expectation", func() {
		harness.AddBenchmark(benchmarks.Benchmark{
			Name:         "wrong",
			Program:      []uint32{insts.EncodeImm(insts.OpADDI, 1, 0, 1), insts.EncodeBreak()},
			ExpectedRegs: map[uint8]int32{1: 2},
		})

		r := harness.RunAll()[0]
		Expect(r.Matches).To(BeFalse())
		Expect(r.Mismatch).To(Equal("x1 = 1, expected 2"))
	})

	It("should report a program that runs off the end", func() {
		harness.AddBenchmark(benchmarks.Benchmark{
			Name:    "no_break",
			Program: []uint32{insts.EncodeImm(insts.OpADDI, 1, 0, 1)},
		})

		r := harness.RunAll()[0]
		Expect(r.Err).To(ContainSubstring("no instruction"))
		Expect(r.Matches).To(BeFalse())
	})

	Describe("output", func() {
		var results []benchmarks.BenchmarkResult

		BeforeEach(func() {
			harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
			results = harness.RunAll()
		})

		It("should print human-readable results", func() {
			harness.PrintResults(results)
			Expect(output.String()).To(ContainSubstring("Benchmark: memory_sum"))
			Expect(output.String()).To(ContainSubstring("Matches Emulator:     true"))
		})

		It("should print one CSV row per benchmark", func() {
			harness.PrintCSV(results)
			lines := strings.Split(strings.TrimSpace(output.String()), "\n")
			Expect(lines).To(HaveLen(4))
			Expect(lines[0]).To(HavePrefix("name,cycles"))
			Expect(lines[1]).To(HavePrefix("memory_sum,"))
		})

		It("should print JSON", func() {
			Expect(harness.PrintJSON(results)).To(Succeed())

			var decoded []benchmarks.BenchmarkResult
			Expect(json.Unmarshal(output.Bytes(), &decoded)).To(Succeed())
			Expect(decoded).To(HaveLen(3))
			Expect(decoded[0].Name).To(Equal("memory_sum"))
		})
	})
})
