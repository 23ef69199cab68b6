package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ooosim/insts"
	"github.com/sarchlab/ooosim/timing/pipeline"
)

var _ = Describe("HazardUnit", func() {
	var (
		hu      *pipeline.HazardUnit
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		hu = pipeline.NewHazardUnit()
		decoder = insts.NewDecoder()
	})

	inflight := func(words ...uint32) []*pipeline.Entry {
		out := make([]*pipeline.Entry, 0, len(words))
		for _, w := range words {
			out = append(out, entry(w))
		}
		return out
	}

	Describe("DataHazard", func() {
		It("should detect read-after-write", func() {
			cand := decoder.Decode(insts.EncodeReg(insts.OpADD, 3, 1, 2))
			Expect(hu.DataHazard(cand, inflight(addi(2, 0, 7)))).To(BeTrue())
		})

		It("should detect write-after-write", func() {
			cand := decoder.Decode(addi(4, 0, 1))
			Expect(hu.DataHazard(cand, inflight(andi(4, 5, 1)))).To(BeTrue())
		})

		It("should detect write-after-read", func() {
			cand := decoder.Decode(addi(5, 0, 1))
			Expect(hu.DataHazard(cand, inflight(andi(4, 5, 1)))).To(BeTrue())
		})

		It("should see store sources as reads", func() {
			cand := decoder.Decode(addi(9, 0, 1))
			Expect(hu.DataHazard(cand, inflight(insts.EncodeSW(9, 0, 8)))).To(BeTrue())
		})

		It("should ignore independent instructions", func() {
			cand := decoder.Decode(andi(2, 0, 3))
			Expect(hu.DataHazard(cand, inflight(addi(1, 0, 1)))).To(BeFalse())
		})

		It("should never match absent operands", func() {
			// The store has no destination, so its register 0 fields
			// cannot collide with a missing destination.
			cand := decoder.Decode(insts.EncodeSW(1, 2, 0))
			Expect(hu.DataHazard(cand, inflight(insts.EncodeSW(3, 4, 0)))).To(BeFalse())

			Expect(hu.DataHazard(decoder.Decode(0x10), inflight(addi(0, 0, 1)))).To(BeFalse())
		})

		It("should check every group", func() {
			cand := decoder.Decode(insts.EncodeBranch(insts.OpBEQ, 1, 0, 4))
			Expect(hu.DataHazard(cand, nil, inflight(andi(7, 7, 1)), inflight(addi(1, 0, 1)))).To(BeTrue())
		})
	})

	Describe("UnitFor", func() {
		It("should map each class to its unit", func() {
			Expect(pipeline.UnitFor(decoder.Decode(insts.EncodeLW(1, 2, 0)))).To(Equal(pipeline.UnitMemory))
			Expect(pipeline.UnitFor(decoder.Decode(insts.EncodeSW(1, 2, 0)))).To(Equal(pipeline.UnitMemory))
			Expect(pipeline.UnitFor(decoder.Decode(insts.EncodeReg(insts.OpSUB, 1, 2, 3)))).To(Equal(pipeline.UnitArithmetic))
			Expect(pipeline.UnitFor(decoder.Decode(insts.EncodeImm(insts.OpSRA, 1, 2, 3)))).To(Equal(pipeline.UnitLogical))
			Expect(pipeline.UnitFor(decoder.Decode(insts.EncodeBreak()))).To(Equal(pipeline.UnitNone))
		})
	})

	Describe("StructuralHazard", func() {
		It("should report a full target queue", func() {
			full := pipeline.NewBuffer("Pre-ALU2", 1)
			Expect(full.Enqueue(entry(addi(1, 0, 1)))).To(Succeed())
			inputs := map[pipeline.FunctionalUnit]*pipeline.Buffer{
				pipeline.UnitArithmetic: full,
				pipeline.UnitLogical:    pipeline.NewBuffer("Pre-ALU3", 1),
			}

			Expect(hu.StructuralHazard(decoder.Decode(addi(2, 0, 1)), inputs)).To(BeTrue())
			Expect(hu.StructuralHazard(decoder.Decode(andi(2, 0, 1)), inputs)).To(BeFalse())
		})
	})
})
