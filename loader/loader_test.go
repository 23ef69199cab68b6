package loader_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/insts"
	"github.com/sarchlab/ooosim/loader"
)

const source = `00000000010100000000000010000010
00000000001100000000000100000010

00000000001000001000000110000001
00000000000000000000000001111111
00000000000000000000000000001010
11111111111111111111111111111101
`

var _ = Describe("Loader", func() {
	Describe("Parse", func() {
		var prog *loader.Program

		BeforeEach(func() {
			var err error
			prog, err = loader.Parse(strings.NewReader(source), 256)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should place instructions from the base address", func() {
			w, ok := prog.Word(256)
			Expect(ok).To(BeTrue())
			Expect(w).To(Equal(insts.EncodeImm(insts.OpADDI, 1, 0, 5)))

			w, ok = prog.Word(264)
			Expect(ok).To(BeTrue())
			Expect(w).To(Equal(insts.EncodeReg(insts.OpADD, 3, 1, 2)))

			w, ok = prog.Word(268)
			Expect(ok).To(BeTrue())
			Expect(w).To(Equal(insts.EncodeBreak()))
		})

		It("should skip blank lines", func() {
			Expect(prog.Lines).To(HaveLen(6))
			Expect(prog.Lines[2].Addr).To(Equal(uint32(264)))
		})

		It("should treat words after break as signed data", func() {
			_, ok := prog.Word(272)
			Expect(ok).To(BeFalse())

			Expect(prog.Data()).To(Equal([]emu.Word{
				{Addr: 272, Value: 10},
				{Addr: 276, Value: -3},
			}))
			Expect(prog.Lines[4].Data).To(BeTrue())
			Expect(prog.Lines[3].Data).To(BeFalse())
		})

		It("should build the initial data memory", func() {
			mem := prog.NewMemory()
			Expect(mem.Read(272)).To(Equal(int32(10)))
			Expect(mem.Read(276)).To(Equal(int32(-3)))
			Expect(mem.Len()).To(Equal(2))
		})

		It("should keep the original text of every line", func() {
			Expect(prog.Lines[0].Bits).To(Equal("00000000010100000000000010000010"))
		})

		It("should reject lines of the wrong length", func() {
			_, err := loader.Parse(strings.NewReader("0101\n"), 256)
			Expect(err).To(MatchError(loader.ErrMalformedLine))
			Expect(err.Error()).To(ContainSubstring("line 1"))
		})

		It("should reject non-binary digits", func() {
			_, err := loader.Parse(strings.NewReader(strings.Repeat("2", 32)), 256)
			Expect(err).To(MatchError(loader.ErrMalformedLine))
		})
	})

	Describe("FromWords", func() {
		It("should match parsing the same words", func() {
			prog := loader.FromWords(256,
				insts.EncodeImm(insts.OpADDI, 1, 0, 5),
				insts.EncodeBreak(),
				0xFFFFFFFF,
			)

			Expect(prog.Lines[0].Bits).To(Equal("00000000010100000000000010000010"))
			Expect(prog.Data()).To(Equal([]emu.Word{{Addr: 264, Value: -1}}))
		})
	})

	Describe("Load", func() {
		It("should read a program file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "sample.txt")
			Expect(os.WriteFile(path, []byte(source), 0644)).To(Succeed())

			prog, err := loader.Load(path, 256)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Base).To(Equal(uint32(256)))
			Expect(prog.Lines).To(HaveLen(6))
		})

		It("should return error for non-existent file", func() {
			_, err := loader.Load("/nonexistent/path/to/program.txt", 256)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to open"))
		})
	})
})
