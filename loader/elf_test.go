package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/insts"
	"github.com/sarchlab/rvcore/loader"
)

const (
	emRISCV = 243
	em386   = 3
)

// elfSegment describes one PT_LOAD program header.
type elfSegment struct {
	vaddr   uint32
	data    []byte
	memSize uint32
	flags   uint32
}

// writeELF32 writes a minimal ELF32 executable with the given segments.
func writeELF32(path string, order binary.ByteOrder, machine uint16, entry uint32, segs []elfSegment) {
	const ehsize, phentsize = 52, 32

	header := make([]byte, ehsize)
	copy(header[0:4], []byte{0x7f, 'E', 'L', 'F'})
	header[4] = 1 // ELFCLASS32
	header[5] = 1 // little endian
	if order == binary.BigEndian {
		header[5] = 2
	}
	header[6] = 1 // version

	order.PutUint16(header[16:18], 2) // executable
	order.PutUint16(header[18:20], machine)
	order.PutUint32(header[20:24], 1) // version
	order.PutUint32(header[24:28], entry)
	order.PutUint32(header[28:32], ehsize) // phoff
	order.PutUint16(header[40:42], ehsize)
	order.PutUint16(header[42:44], phentsize)
	order.PutUint16(header[44:46], uint16(len(segs)))
	order.PutUint16(header[46:48], 40) // shentsize

	offset := uint32(ehsize + phentsize*len(segs))
	progHeaders := make([]byte, 0, phentsize*len(segs))
	var contents []byte

	for _, seg := range segs {
		ph := make([]byte, phentsize)
		order.PutUint32(ph[0:4], 1) // PT_LOAD
		order.PutUint32(ph[4:8], offset)
		order.PutUint32(ph[8:12], seg.vaddr)
		order.PutUint32(ph[12:16], seg.vaddr)
		order.PutUint32(ph[16:20], uint32(len(seg.data)))
		order.PutUint32(ph[20:24], seg.memSize)
		order.PutUint32(ph[24:28], seg.flags)
		order.PutUint32(ph[28:32], 4)

		progHeaders = append(progHeaders, ph...)
		contents = append(contents, seg.data...)
		offset += uint32(len(seg.data))
	}

	file, err := os.Create(path)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = file.Close() }()

	_, _ = file.Write(header)
	_, _ = file.Write(progHeaders)
	_, _ = file.Write(contents)
}

func words(ws ...uint32) []byte {
	buf := make([]byte, 4*len(ws))
	for i, w := range ws {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

var _ = Describe("Loader", func() {
	var tempDir string

	code := words(
		0x02A00513, // addi a0, zero, 42
		0x00000073, // ecall
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("with a valid RV32 ELF executable", func() {
			var elfPath string

			BeforeEach(func() {
				elfPath = filepath.Join(tempDir, "test.elf")
				writeELF32(elfPath, binary.LittleEndian, emRISCV, 0x1000, []elfSegment{
					{vaddr: 0x1000, data: code, memSize: uint32(len(code)), flags: 0x5},
				})
			})

			It("should extract the entry point", func() {
				prog, err := loader.Load(elfPath)

				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint32(0x1000)))
			})

			It("should read the segment", func() {
				prog, err := loader.Load(elfPath)

				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(HaveLen(1))
				Expect(prog.Segments[0].VirtAddr).To(Equal(uint32(0x1000)))
				Expect(prog.Segments[0].Data).To(Equal(code))
				Expect(prog.Segments[0].Flags).To(Equal(loader.SegmentFlagRead | loader.SegmentFlagExecute))
			})
		})

		It("should load multiple segments with BSS", func() {
			elfPath := filepath.Join(tempDir, "multi.elf")
			data := []byte{1, 2, 3, 4}
			writeELF32(elfPath, binary.LittleEndian, emRISCV, 0, []elfSegment{
				{vaddr: 0, data: code, memSize: uint32(len(code)), flags: 0x5},
				{vaddr: 0x800, data: data, memSize: 0x100, flags: 0x6},
			})

			prog, err := loader.Load(elfPath)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(HaveLen(2))
			Expect(prog.Segments[1].MemSize).To(Equal(uint32(0x100)))
			Expect(prog.Segments[1].Flags).To(Equal(loader.SegmentFlagRead | loader.SegmentFlagWrite))
		})

		It("should return an error for a missing file", func() {
			_, err := loader.Load("/nonexistent/path/to/file.elf")

			Expect(err).To(MatchError(ContainSubstring("failed to open ELF file")))
		})

		It("should return an error for a non-ELF file", func() {
			path := filepath.Join(tempDir, "not-elf.bin")
			Expect(os.WriteFile(path, []byte("not an elf file"), 0644)).To(Succeed())

			_, err := loader.Load(path)

			Expect(err).To(MatchError(ContainSubstring("ELF")))
		})

		It("should reject other machines", func() {
			path := filepath.Join(tempDir, "x86.elf")
			writeELF32(path, binary.LittleEndian, em386, 0, nil)

			_, err := loader.Load(path)

			Expect(err).To(MatchError(ContainSubstring("not a RISC-V")))
		})

		It("should reject big-endian files", func() {
			path := filepath.Join(tempDir, "be.elf")
			writeELF32(path, binary.BigEndian, emRISCV, 0, nil)

			_, err := loader.Load(path)

			Expect(err).To(MatchError(ContainSubstring("little-endian")))
		})

		It("should reject 64-bit files", func() {
			path := filepath.Join(tempDir, "elf64.elf")
			header := make([]byte, 64)
			copy(header[0:4], []byte{0x7f, 'E', 'L', 'F'})
			header[4] = 2 // ELFCLASS64
			header[5] = 1
			header[6] = 1
			binary.LittleEndian.PutUint16(header[16:18], 2)
			binary.LittleEndian.PutUint16(header[18:20], emRISCV)
			binary.LittleEndian.PutUint32(header[20:24], 1)
			binary.LittleEndian.PutUint16(header[52:54], 64)
			Expect(os.WriteFile(path, header, 0644)).To(Succeed())

			_, err := loader.Load(path)

			Expect(err).To(MatchError(ContainSubstring("not a 32-bit")))
		})
	})

	Describe("LoadRaw", func() {
		It("should place the image at the base address", func() {
			path := filepath.Join(tempDir, "image.bin")
			Expect(os.WriteFile(path, code, 0644)).To(Succeed())

			prog, err := loader.LoadRaw(path, 0x200)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.EntryPoint).To(Equal(uint32(0x200)))
			Expect(prog.Segments).To(HaveLen(1))
			Expect(prog.Segments[0].VirtAddr).To(Equal(uint32(0x200)))
			Expect(prog.Segments[0].Data).To(Equal(code))
		})

		It("should reject an empty image", func() {
			path := filepath.Join(tempDir, "empty.bin")
			Expect(os.WriteFile(path, nil, 0644)).To(Succeed())

			_, err := loader.LoadRaw(path, 0)

			Expect(err).To(MatchError(ContainSubstring("empty")))
		})

		It("should fail for a missing file", func() {
			_, err := loader.LoadRaw(filepath.Join(tempDir, "missing.bin"), 0)

			Expect(err).To(MatchError(ContainSubstring("failed to read raw image")))
		})
	})

	Describe("BootStub", func() {
		It("should be empty for entry 0", func() {
			Expect((&loader.Program{}).BootStub()).To(BeEmpty())
		})

		It("should use one JAL for a near entry point", func() {
			stub := (&loader.Program{EntryPoint: 0x1000}).BootStub()

			Expect(stub).To(Equal([]uint32{insts.Encode(insts.OpJAL, 0, 0, 0, 0x1000)}))
		})

		DescribeTable("far entry points reached through LUI and JALR",
			func(entry uint32) {
				memory := emu.NewMemoryWithSize(1 << 23)
				prog := &loader.Program{EntryPoint: entry}
				Expect(prog.LoadInto(memory)).To(Succeed())

				e := emu.NewEmulator(emu.WithMemory(memory))
				e.Step()
				e.Step()

				Expect(prog.BootStub()).To(HaveLen(2))
				Expect(e.RegFile().PC).To(Equal(entry))
			},
			Entry("low half", uint32(0x00200400)),
			Entry("negative low part", uint32(0x00200C00)),
			Entry("page aligned", uint32(0x00400000)),
		)
	})

	Describe("LoadInto", func() {
		var memory *emu.Memory

		BeforeEach(func() {
			memory = emu.NewMemoryWithSize(0x10000)
		})

		It("should copy segments, clear BSS and write the boot stub", func() {
			memory.Write32(0x2004, 0xFFFFFFFF)
			prog := &loader.Program{
				EntryPoint: 0x1000,
				Segments: []loader.Segment{
					{VirtAddr: 0x1000, Data: code, MemSize: uint32(len(code))},
					{VirtAddr: 0x2000, Data: []byte{9, 9, 9, 9}, MemSize: 0x10},
				},
			}

			Expect(prog.LoadInto(memory)).To(Succeed())

			Expect(memory.Read32(0x1000)).To(Equal(uint32(0x02A00513)))
			Expect(memory.Read32(0x2000)).To(Equal(uint32(0x09090909)))
			Expect(memory.Read32(0x2004)).To(BeZero())
			Expect(memory.Read32(0)).To(Equal(insts.Encode(insts.OpJAL, 0, 0, 0, 0x1000)))
		})

		It("should run the program from reset", func() {
			prog := &loader.Program{
				EntryPoint: 0x1000,
				Segments:   []loader.Segment{{VirtAddr: 0x1000, Data: code, MemSize: uint32(len(code))}},
			}
			Expect(prog.LoadInto(memory)).To(Succeed())

			e := emu.NewEmulator(emu.WithMemory(memory))
			Expect(e.Run()).To(Succeed())

			Expect(e.RegFile().ReadReg(10)).To(Equal(uint32(42)))
			Expect(e.RegFile().PC).To(Equal(uint32(0x1004)))
		})

		It("should refuse a boot stub over a segment", func() {
			prog := &loader.Program{
				EntryPoint: 0x10,
				Segments:   []loader.Segment{{VirtAddr: 0, Data: code, MemSize: 0x20}},
			}

			Expect(prog.LoadInto(memory)).To(MatchError(ContainSubstring("boot stub")))
		})

		It("should fail for a segment outside memory", func() {
			prog := &loader.Program{
				Segments: []loader.Segment{{VirtAddr: 0xFFF0, Data: make([]byte, 0x20), MemSize: 0x20}},
			}

			Expect(prog.LoadInto(memory)).To(MatchError(ContainSubstring("failed to load segment")))
		})
	})

	Describe("StackTop", func() {
		It("should align to 16 bytes", func() {
			Expect(loader.StackTop(0x10008)).To(Equal(uint32(0x10000)))
		})

		It("should stay inside a 4 GiB memory", func() {
			Expect(loader.StackTop(1 << 32)).To(Equal(uint32(0xFFFFFFF0)))
		})
	})
})
