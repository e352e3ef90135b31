// Package loader reads RV32 program images: ELF executables and flat
// binaries.
package loader

import (
	"debug/elf"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/insts"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment represents a loadable piece of a program image.
type Segment struct {
	// VirtAddr is the address where this segment should be loaded.
	VirtAddr uint32
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint32
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Program represents a loaded program ready for execution.
type Program struct {
	// EntryPoint is the address where execution should begin.
	EntryPoint uint32
	// Segments contains all loadable segments.
	Segments []Segment
}

// Load parses an RV32 little-endian ELF executable.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open ELF file")
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS32 {
		return nil, errors.New("not a 32-bit ELF file")
	}

	if f.Data != elf.ELFDATA2LSB {
		return nil, errors.New("not a little-endian ELF file")
	}

	if f.Machine != elf.EM_RISCV {
		return nil, errors.Errorf("not a RISC-V ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{
		EntryPoint: uint32(f.Entry),
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, errors.Wrapf(err, "failed to read segment at 0x%x", phdr.Vaddr)
			}
			if uint64(n) != phdr.Filesz {
				return nil, errors.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: uint32(phdr.Vaddr),
			Data:     data,
			MemSize:  uint32(phdr.Memsz),
			Flags:    flags,
		})
	}

	return prog, nil
}

// LoadRaw reads a flat binary to be placed at base. Execution begins at base.
func LoadRaw(path string, base uint32) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read raw image")
	}

	if len(data) == 0 {
		return nil, errors.Errorf("raw image %s is empty", path)
	}

	return &Program{
		EntryPoint: base,
		Segments: []Segment{{
			VirtAddr: base,
			Data:     data,
			MemSize:  uint32(len(data)),
			Flags:    SegmentFlagRead | SegmentFlagWrite | SegmentFlagExecute,
		}},
	}, nil
}

// BootStub returns the words to place at address 0 so that a core coming
// out of reset reaches the entry point. It is empty when the entry point is
// 0 itself.
func (p *Program) BootStub() []uint32 {
	entry := p.EntryPoint
	if entry == 0 {
		return nil
	}

	// JAL reaches +/-1 MiB.
	if entry < 1<<20 {
		return []uint32{insts.Encode(insts.OpJAL, 0, 0, 0, int32(entry))}
	}

	lo := insts.SignExtend(entry&0xFFF, 12)
	hi := (entry - uint32(lo)) >> 12

	return []uint32{
		insts.Encode(insts.OpLUI, 5, 0, 0, int32(hi)),
		insts.Encode(insts.OpJALR, 0, 5, 0, lo),
	}
}

// LoadInto copies every segment into memory, zero-fills BSS and writes the
// boot stub.
func (p *Program) LoadInto(m *emu.Memory) error {
	for _, seg := range p.Segments {
		if err := m.LoadBytes(seg.VirtAddr, seg.Data); err != nil {
			return errors.Wrapf(err, "failed to load segment at 0x%x", seg.VirtAddr)
		}

		if seg.MemSize > uint32(len(seg.Data)) {
			bss := make([]byte, seg.MemSize-uint32(len(seg.Data)))
			bssAddr := seg.VirtAddr + uint32(len(seg.Data))
			if err := m.LoadBytes(bssAddr, bss); err != nil {
				return errors.Wrapf(err, "failed to clear BSS at 0x%x", bssAddr)
			}
		}
	}

	stub := p.BootStub()
	if len(stub) == 0 {
		return nil
	}

	if p.occupied(0, uint32(4*len(stub))) {
		return errors.Errorf("entry point 0x%x needs a boot stub at address 0, "+
			"which a segment already occupies", p.EntryPoint)
	}

	for i, word := range stub {
		if err := m.Write(uint32(4*i), 4, word); err != nil {
			return errors.Wrap(err, "failed to write boot stub")
		}
	}

	return nil
}

func (p *Program) occupied(addr, size uint32) bool {
	for _, seg := range p.Segments {
		start, end := uint64(seg.VirtAddr), uint64(seg.VirtAddr)+uint64(seg.MemSize)
		if uint64(addr) < end && start < uint64(addr)+uint64(size) {
			return true
		}
	}
	return false
}

// StackTop returns a 16-byte aligned initial stack pointer for a memory of
// the given size.
func StackTop(memSize uint64) uint32 {
	if memSize > 1<<32-16 {
		memSize = 1<<32 - 16
	}
	return uint32(memSize) &^ 0xF
}
