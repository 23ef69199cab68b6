package report_test

import (
	"bytes"
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/insts"
	"github.com/sarchlab/ooosim/loader"
	"github.com/sarchlab/ooosim/report"
	"github.com/sarchlab/ooosim/timing/core"
	"github.com/sarchlab/ooosim/timing/pipeline"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

var _ = Describe("Report", func() {
	var prog *loader.Program

	BeforeEach(func() {
		prog = loader.FromWords(256,
			insts.EncodeImm(insts.OpADDI, 1, 0, 5),
			insts.EncodeImm(insts.OpADDI, 2, 0, 3),
			insts.EncodeReg(insts.OpADD, 3, 1, 2),
			insts.EncodeBreak(),
			0xFFFFFFFD,
		)
	})

	Describe("WriteDisassembly", func() {
		It("should list code and data words", func() {
			var buf bytes.Buffer
			Expect(report.WriteDisassembly(&buf, prog)).To(Succeed())

			Expect(buf.String()).To(Equal(
				"00000000010100000000000010000010\t256\taddi x1, x0, #5\n" +
					"00000000001100000000000100000010\t260\taddi x2, x0, #3\n" +
					"00000000001000001000000110000001\t264\tadd x3, x1, x2\n" +
					"00000000000000000000000001111111\t268\tbreak\n" +
					"11111111111111111111111111111101\t272\t-3\n"))
		})

		It("should report write failures", func() {
			Expect(report.WriteDisassembly(failingWriter{}, prog)).To(MatchError(ContainSubstring("closed")))
		})
	})

	Describe("TraceWriter", func() {
		var trace string

		BeforeEach(func() {
			logger := logrus.New()
			logger.SetOutput(io.Discard)

			var buf bytes.Buffer
			c := core.NewCore(prog, &emu.RegFile{}, prog.NewMemory(), pipeline.WithLogger(logger))
			c.AddRecorder(report.NewTraceWriter(&buf))

			_, err := c.Run()
			Expect(err).NotTo(HaveOccurred())
			trace = buf.String()
		})

		It("should render the first cycle", func() {
			zeros := "\t0\t0\t0\t0\t0\t0\t0\t0"
			first := strings.Repeat("-", 20) + "\n" +
				"Cycle 1:\n" +
				"\n" +
				"IF Unit:\n" +
				"\tWaiting:\n" +
				"\tExecuted:\n" +
				"Pre-Issue Queue:\n" +
				"\tEntry 0: [addi x1, x0, #5]\n" +
				"\tEntry 1: [addi x2, x0, #3]\n" +
				"\tEntry 2:\n" +
				"\tEntry 3:\n" +
				"Pre-ALU1 Queue:\n" +
				"\tEntry 0:\n" +
				"\tEntry 1:\n" +
				"Pre-MEM Queue:\n" +
				"Post-MEM Queue:\n" +
				"Pre-ALU2 Queue:\n" +
				"Post-ALU2 Queue:\n" +
				"Pre-ALU3 Queue:\n" +
				"Post-ALU3 Queue:\n" +
				"\n" +
				"Registers\n" +
				"x00:" + zeros + "\n" +
				"x08:" + zeros + "\n" +
				"x16:" + zeros + "\n" +
				"x24:" + zeros + "\n" +
				"Data\n" +
				"272:\t-3\n"

			Expect(trace).To(HavePrefix(first + strings.Repeat("-", 20) + "\nCycle 2:"))
		})

		It("should write every cycle and end without a newline", func() {
			Expect(strings.Count(trace, "Cycle ")).To(Equal(10))
			Expect(trace).To(HaveSuffix("Data\n272:\t-3"))
		})

		It("should show the final state", func() {
			last := trace[strings.LastIndex(trace, "Cycle 10:"):]
			Expect(last).To(ContainSubstring("\tExecuted: [break]\n"))
			Expect(last).To(ContainSubstring("x00:\t0\t5\t3\t8\t0"))
			Expect(last).To(ContainSubstring("Pre-ALU2 Queue:\n"))
		})
	})

	Describe("FormatCycle", func() {
		It("should wrap data rows every eight words", func() {
			snap := &pipeline.Snapshot{Cycle: 3}
			for i := 0; i < 9; i++ {
				snap.Data = append(snap.Data, emu.Word{Addr: 400 + uint32(4*i), Value: int32(i)})
			}

			var sb strings.Builder
			report.FormatCycle(&sb, snap)

			Expect(sb.String()).To(HaveSuffix("Data\n400:\t0\t1\t2\t3\t4\t5\t6\t7\n432:\t8"))
		})

		It("should list multi-entry unit queues", func() {
			snap := &pipeline.Snapshot{
				PreMem: pipeline.QueueView{Name: "Pre-MEM", Capacity: 2},
			}

			var sb strings.Builder
			report.FormatCycle(&sb, snap)

			Expect(sb.String()).To(ContainSubstring("Pre-MEM Queue:\n\tEntry 0:\n\tEntry 1:\n"))
		})
	})
})
