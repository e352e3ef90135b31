package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvcore/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should read back written values", func() {
		for r := uint8(1); r < 32; r++ {
			regFile.WriteReg(r, uint32(r)*0x01010101)
		}

		for r := uint8(1); r < 32; r++ {
			Expect(regFile.ReadReg(r)).To(Equal(uint32(r) * 0x01010101))
		}
	})

	It("should discard writes to x0", func() {
		regFile.WriteReg(0, 0xDEADBEEF)

		Expect(regFile.ReadReg(0)).To(BeZero())
		Expect(regFile.X[0]).To(BeZero())
	})

	It("should read x0 as zero even if the slot was poked", func() {
		regFile.X[0] = 7

		Expect(regFile.ReadReg(0)).To(BeZero())
	})

	It("should use only the low five bits of a register number", func() {
		regFile.WriteReg(33, 5)

		Expect(regFile.ReadReg(1)).To(Equal(uint32(5)))
	})

	It("should clear registers but keep the PC", func() {
		regFile.WriteReg(5, 9)
		regFile.PC = 0x40

		regFile.Clear()

		Expect(regFile.ReadReg(5)).To(BeZero())
		Expect(regFile.PC).To(Equal(uint32(0x40)))
	})
})
