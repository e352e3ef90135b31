package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvcore/insts"
)

var _ = Describe("Disassembly", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	DescribeTable("String",
		func(word uint32, text string) {
			Expect(decoder.Decode(word).String()).To(Equal(text))
		},
		Entry("R-type", uint32(0x402081B3), "sub gp, ra, sp"),
		Entry("I-type", uint32(0xFFF00093), "addi ra, zero, -1"),
		Entry("shift", uint32(0x40315093), "srai ra, sp, 3"),
		Entry("load", uint32(0x00812283), "lw t0, 8(sp)"),
		Entry("store", uint32(0x00512623), "sw t0, 12(sp)"),
		Entry("branch", uint32(0xFE009EE3), "bne ra, zero, -4"),
		Entry("jal", uint32(0x010000EF), "jal ra, 16"),
		Entry("jalr", uint32(0x000500E7), "jalr ra, 0(a0)"),
		Entry("lui", uint32(0x12345537), "lui a0, 0x12345"),
		Entry("blank", uint32(0x00000000), "blank"),
		Entry("unknown", uint32(0x00000073), ".word 0x00000073"),
	)

	It("should name registers by ABI name", func() {
		Expect(insts.RegName(0)).To(Equal("zero"))
		Expect(insts.RegName(2)).To(Equal("sp"))
		Expect(insts.RegName(31)).To(Equal("t6"))
	})
})
