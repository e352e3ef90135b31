// Package main provides rvdis, a disassembler for RV32I program images.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/rvcore/insts"
	"github.com/sarchlab/rvcore/loader"
)

var (
	raw  = flag.Bool("raw", false, "Treat the program as a flat binary instead of ELF")
	base = flag.Uint("base", 0, "Load address of a flat binary")
	all  = flag.Bool("all", false, "Also disassemble segments that are not executable")
	stub = flag.Bool("stub", true, "Show the boot stub placed at address 0")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rvdis [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	var (
		prog *loader.Program
		err  error
	)
	if *raw {
		prog, err = loader.LoadRaw(flag.Arg(0), uint32(*base))
	} else {
		prog, err = loader.Load(flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		atexit.Exit(1)
	}

	disassemble(os.Stdout, prog, *all, *stub)

	atexit.Exit(0)
}

// disassemble prints one line per word: address, raw word and assembler
// text. A trailing partial word is skipped.
func disassemble(w io.Writer, prog *loader.Program, all, withStub bool) {
	decoder := insts.NewDecoder()

	fmt.Fprintf(w, "entry 0x%08x\n", prog.EntryPoint)

	if withStub {
		if words := prog.BootStub(); len(words) > 0 {
			fmt.Fprintf(w, "\n<boot stub>:\n")
			for i, word := range words {
				printWord(w, decoder, uint32(4*i), word)
			}
		}
	}

	for _, seg := range prog.Segments {
		if !all && seg.Flags&loader.SegmentFlagExecute == 0 {
			continue
		}

		fmt.Fprintf(w, "\n<segment 0x%08x>:\n", seg.VirtAddr)
		for off := 0; off+4 <= len(seg.Data); off += 4 {
			word := binary.LittleEndian.Uint32(seg.Data[off:])
			printWord(w, decoder, seg.VirtAddr+uint32(off), word)
		}
	}
}

func printWord(w io.Writer, decoder *insts.Decoder, addr, word uint32) {
	fmt.Fprintf(w, "%8x:\t%08x\t%s\n", addr, word, decoder.Decode(word))
}
