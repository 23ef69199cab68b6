package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/insts"
)

var _ = Describe("Emulator", func() {
	Describe("NewEmulator", func() {
		It("should start at the default entry", func() {
			e := emu.NewEmulator(program())

			Expect(e.PC()).To(Equal(emu.DefaultEntry))
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Memory()).NotTo(BeNil())
			Expect(e.Halted()).To(BeFalse())
		})
	})

	It("should run straight-line code to break", func() {
		e := emu.NewEmulator(program(
			insts.EncodeImm(insts.OpADDI, 1, 0, 5),
			insts.EncodeImm(insts.OpADDI, 2, 0, 3),
			insts.EncodeReg(insts.OpADD, 3, 1, 2),
			insts.EncodeBreak(),
		))

		Expect(e.Run()).To(Succeed())
		Expect(e.Halted()).To(BeTrue())
		Expect(e.InstructionCount()).To(Equal(uint64(4)))
		Expect(e.RegFile().ReadReg(3)).To(Equal(int32(8)))
	})

	It("should run a counted loop over data memory", func() {
		memory := emu.NewMemory()
		memory.Write(296, 10)
		memory.Write(300, 20)
		memory.Write(304, 30)

		e := emu.NewEmulator(program(
			insts.EncodeImm(insts.OpADDI, 2, 0, 3),   // 256
			insts.EncodeImm(insts.OpADDI, 3, 0, 0),   // 260
			insts.EncodeImm(insts.OpADDI, 5, 0, 0),   // 264
			insts.EncodeLW(4, 5, 296),                // 268
			insts.EncodeReg(insts.OpADD, 3, 3, 4),    // 272
			insts.EncodeImm(insts.OpADDI, 5, 5, 4),   // 276
			insts.EncodeImm(insts.OpADDI, 2, 2, -1),  // 280
			insts.EncodeBranch(insts.OpBNE, 2, 0, -8), // 284 -> 268
			insts.EncodeSW(3, 0, 308),                // 288
			insts.EncodeBreak(),                      // 292
		), emu.WithMemory(memory))

		Expect(e.Run()).To(Succeed())
		Expect(e.RegFile().ReadReg(3)).To(Equal(int32(60)))
		Expect(memory.Read(308)).To(Equal(int32(60)))
	})

	It("should treat undecodable words as no-ops", func() {
		e := emu.NewEmulator(program(
			uint32(5<<2|0b01),
			insts.EncodeImm(insts.OpADDI, 1, 0, 1),
			insts.EncodeBreak(),
		))

		Expect(e.Run()).To(Succeed())
		Expect(e.RegFile().ReadReg(1)).To(Equal(int32(1)))
	})

	It("should fail when the PC leaves the program", func() {
		e := emu.NewEmulator(program(insts.EncodeJAL(0, 100)))

		Expect(e.Run()).To(MatchError(ContainSubstring("no instruction")))
	})

	It("should stop at the instruction limit", func() {
		e := emu.NewEmulator(
			program(insts.EncodeJAL(0, 0)),
			emu.WithMaxInstructions(10),
		)

		Expect(e.Run()).To(MatchError("max instructions reached"))
		Expect(e.InstructionCount()).To(Equal(uint64(10)))
	})
})
