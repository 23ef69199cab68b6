package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/insts"
)

var _ = Describe("ALU", func() {
	DescribeTable("Compute",
		func(op insts.Op, a, b, expected int32) {
			result, err := emu.Compute(op, a, b)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(expected))
		},
		Entry("add", insts.OpADD, int32(5), int32(3), int32(8)),
		Entry("add wraps", insts.OpADD, int32(math.MaxInt32), int32(1), int32(math.MinInt32)),
		Entry("sub", insts.OpSUB, int32(5), int32(8), int32(-3)),
		Entry("addi negative", insts.OpADDI, int32(10), int32(-1), int32(9)),
		Entry("and", insts.OpAND, int32(0b1100), int32(0b1010), int32(0b1000)),
		Entry("or", insts.OpOR, int32(0b1100), int32(0b1010), int32(0b1110)),
		Entry("andi with sign-extended imm", insts.OpANDI, int32(0x1234), int32(-1), int32(0x1234)),
		Entry("ori", insts.OpORI, int32(1), int32(6), int32(7)),
		Entry("sll", insts.OpSLL, int32(3), int32(4), int32(48)),
		Entry("sll uses low 5 bits", insts.OpSLL, int32(1), int32(33), int32(2)),
		Entry("sra keeps sign", insts.OpSRA, int32(-16), int32(2), int32(-4)),
		Entry("sra positive", insts.OpSRA, int32(16), int32(2), int32(4)),
	)

	It("should reject non-ALU ops", func() {
		_, err := emu.Compute(insts.OpLW, 1, 2)
		Expect(err).To(HaveOccurred())
	})

	It("should read operands from the register file", func() {
		regFile := &emu.RegFile{}
		regFile.WriteReg(1, 40)
		regFile.WriteReg(2, 2)
		alu := emu.NewALU(regFile)
		decoder := insts.NewDecoder()

		result, err := alu.Execute(decoder.Decode(insts.EncodeReg(insts.OpADD, 3, 1, 2)))
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int32(42)))

		result, err = alu.Execute(decoder.Decode(insts.EncodeImm(insts.OpADDI, 3, 1, -50)))
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int32(-10)))
	})
})

var _ = Describe("Memory", func() {
	It("should read unset locations as zero", func() {
		Expect(emu.NewMemory().Read(300)).To(Equal(int32(0)))
	})

	It("should list words sorted by address", func() {
		m := emu.NewMemory()
		m.Write(308, 3)
		m.Write(300, 1)
		m.Write(304, -2)

		Expect(m.Words()).To(Equal([]emu.Word{
			{Addr: 300, Value: 1},
			{Addr: 304, Value: -2},
			{Addr: 308, Value: 3},
		}))
		Expect(m.Len()).To(Equal(3))
	})

	It("should clone independently", func() {
		m := emu.NewMemory()
		m.Write(300, 1)
		c := m.Clone()
		c.Write(300, 2)

		Expect(m.Read(300)).To(Equal(int32(1)))
	})
})

var _ = Describe("LoadStoreUnit", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		lsu     *emu.LoadStoreUnit
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewMemory()
		lsu = emu.NewLoadStoreUnit(regFile, memory)
		decoder = insts.NewDecoder()
	})

	It("should load from imm + base", func() {
		regFile.WriteReg(5, 8)
		memory.Write(304, 99)

		value, ok := lsu.Load(decoder.Decode(insts.EncodeLW(4, 5, 296)))
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal(int32(99)))
	})

	It("should store source-1 to imm + source-2", func() {
		regFile.WriteReg(1, 77)
		regFile.WriteReg(2, 4)

		Expect(lsu.Store(decoder.Decode(insts.EncodeSW(1, 2, 300)))).To(BeTrue())
		Expect(memory.Read(304)).To(Equal(int32(77)))
	})

	It("should refuse non-memory instructions", func() {
		_, ok := lsu.Load(decoder.Decode(insts.EncodeImm(insts.OpADDI, 1, 0, 1)))
		Expect(ok).To(BeFalse())
	})
})
