package insts

import "fmt"

// ABI register names, indexed by register number.
var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegName returns the ABI name of register r.
func RegName(r uint8) string {
	return regNames[r&0x1F]
}

// String renders the instruction in assembler syntax. Branch and jump
// targets are printed as PC-relative byte offsets.
func (i *Instruction) String() string {
	if i.Op == OpUnknown {
		return fmt.Sprintf(".word 0x%08x", i.Raw)
	}

	rd, rs1, rs2 := RegName(i.Rd), RegName(i.Rs1), RegName(i.Rs2)

	switch i.Format {
	case FormatBlank:
		return "blank"
	case FormatOp:
		return fmt.Sprintf("%s %s, %s, %s", i.Op, rd, rs1, rs2)
	case FormatOpImm:
		switch i.Op {
		case OpSLLI, OpSRLI, OpSRAI:
			return fmt.Sprintf("%s %s, %s, %d", i.Op, rd, rs1, i.Imm&0x1F)
		}
		return fmt.Sprintf("%s %s, %s, %d", i.Op, rd, rs1, i.Imm)
	case FormatLoad, FormatJALR:
		return fmt.Sprintf("%s %s, %d(%s)", i.Op, rd, i.Imm, rs1)
	case FormatStore:
		return fmt.Sprintf("%s %s, %d(%s)", i.Op, rs2, i.Imm, rs1)
	case FormatBranch:
		return fmt.Sprintf("%s %s, %s, %d", i.Op, rs1, rs2, i.Imm)
	case FormatJAL:
		return fmt.Sprintf("%s %s, %d", i.Op, rd, i.Imm)
	case FormatLUI, FormatAUIPC:
		return fmt.Sprintf("%s %s, 0x%x", i.Op, rd, uint32(i.Imm)>>12)
	}

	return fmt.Sprintf(".word 0x%08x", i.Raw)
}
