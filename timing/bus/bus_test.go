package bus_test

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/pins"
	"github.com/sarchlab/rvcore/timing/bus"
)

func command(cmd pins.Command, addr, data uint32) pins.Outputs {
	var out pins.Outputs
	out.SetAddress(addr)
	out.SetData(data)
	out.Assert(cmd)
	return out
}

var _ = Describe("Memory", func() {
	var (
		storage *emu.Memory
		device  *bus.Memory
		logBuf  *bytes.Buffer
	)

	BeforeEach(func() {
		storage = emu.NewMemoryWithSize(0x1000)
		logBuf = &bytes.Buffer{}
		device = bus.NewMemory(storage,
			bus.WithName("RAM"),
			bus.WithLogger(slog.New(slog.NewTextHandler(logBuf, nil))))

		storage.Write32(0x100, 0x8899AABB)
	})

	It("should satisfy the Device interface", func() {
		var _ bus.Device = device
		Expect(device.Storage()).To(BeIdenticalTo(storage))
	})

	DescribeTable("reads are zero-extended",
		func(cmd pins.Command, addr, expected uint32) {
			Expect(device.Respond(command(cmd, addr, 0xFFFFFFFF))).To(Equal(expected))
		},
		Entry("RB", pins.CmdRB, uint32(0x100), uint32(0xBB)),
		Entry("RB high byte", pins.CmdRB, uint32(0x103), uint32(0x88)),
		Entry("RH", pins.CmdRH, uint32(0x102), uint32(0x8899)),
		Entry("RW", pins.CmdRW, uint32(0x100), uint32(0x8899AABB)),
	)

	DescribeTable("writes store the low bytes",
		func(cmd pins.Command, expected uint32) {
			Expect(device.Respond(command(cmd, 0x100, 0x11223344))).To(BeZero())
			Expect(storage.Read32(0x100)).To(Equal(expected))
		},
		Entry("WB", pins.CmdWB, uint32(0x8899AA44)),
		Entry("WH", pins.CmdWH, uint32(0x88993344)),
		Entry("WW", pins.CmdWW, uint32(0x11223344)),
	)

	It("should ignore outputs without a command", func() {
		var out pins.Outputs
		out.SetAddress(0x100)

		Expect(device.Respond(out)).To(BeZero())
		Expect(device.Stats()).To(Equal(bus.Stats{}))
	})

	It("should ignore conflicting command lines", func() {
		out := command(pins.CmdWW, 0x100, 0)
		out.SetCommand(pins.CmdRW, true)

		Expect(device.Respond(out)).To(BeZero())
		Expect(storage.Read32(0x100)).To(Equal(uint32(0x8899AABB)))
	})

	It("should read 0 and warn outside the memory", func() {
		Expect(device.Respond(command(pins.CmdRW, 0xFFFFFFF0, 0))).To(BeZero())

		Expect(device.Stats().OutOfRange).To(Equal(uint64(1)))
		Expect(logBuf.String()).To(ContainSubstring("memory access out of range"))
		Expect(logBuf.String()).To(ContainSubstring("device=RAM"))
	})

	It("should drop writes outside the memory", func() {
		Expect(device.Respond(command(pins.CmdWH, 0xFFF, 0xFFFF))).To(BeZero())

		Expect(device.Stats().Writes).To(BeZero())
		Expect(device.Stats().OutOfRange).To(Equal(uint64(1)))
	})

	It("should count transactions", func() {
		device.Respond(command(pins.CmdRW, 0x0, 0))
		device.Respond(command(pins.CmdRB, 0x0, 0))
		device.Respond(command(pins.CmdWH, 0x0, 0))

		Expect(device.Stats()).To(Equal(bus.Stats{
			Reads:        2,
			Writes:       1,
			BytesRead:    5,
			BytesWritten: 2,
		}))
	})
})
