// Package emu provides functional RV32I emulation.
package emu

import "github.com/sarchlab/rvcore/insts"

// ALU implements RV32I register-register and register-immediate arithmetic.
type ALU struct {
	regFile *RegFile
	quirks  Quirks
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile, quirks Quirks) *ALU {
	return &ALU{regFile: regFile, quirks: quirks}
}

// Execute performs an OP or OP-IMM instruction: rd = rs1 <op> (rs2 | imm).
// It returns false, leaving rd untouched, if the instruction is not an
// implemented arithmetic operation.
func (a *ALU) Execute(inst *insts.Instruction) bool {
	lhs := a.regFile.ReadReg(inst.Rs1)

	var rhs uint32
	switch inst.Format {
	case insts.FormatOp:
		rhs = a.regFile.ReadReg(inst.Rs2)
	case insts.FormatOpImm:
		rhs = uint32(inst.Imm)
	default:
		return false
	}

	result, ok := a.Compute(inst.Op, lhs, rhs)
	if !ok {
		return false
	}

	a.regFile.WriteReg(inst.Rd, result)
	return true
}

// Compute evaluates one arithmetic operation. Shift amounts use the low five
// bits of rhs.
func (a *ALU) Compute(op insts.Op, lhs, rhs uint32) (uint32, bool) {
	shamt := rhs & 0x1F

	switch op {
	case insts.OpADD, insts.OpADDI:
		return lhs + rhs, true
	case insts.OpSUB:
		return lhs - rhs, true
	case insts.OpSLL, insts.OpSLLI:
		return lhs << shamt, true
	case insts.OpSLT, insts.OpSLTI:
		return boolToWord(int32(lhs) < int32(rhs)), true
	case insts.OpSLTU, insts.OpSLTIU:
		return boolToWord(lhs < rhs), true
	case insts.OpXOR, insts.OpXORI:
		return lhs ^ rhs, true
	case insts.OpSRL, insts.OpSRLI:
		if a.quirks.ArithmeticSRL {
			return uint32(int32(lhs) >> shamt), true
		}
		return lhs >> shamt, true
	case insts.OpSRA, insts.OpSRAI:
		return uint32(int32(lhs) >> shamt), true
	case insts.OpOR, insts.OpORI:
		if a.quirks.SwapAndOr {
			return lhs & rhs, true
		}
		return lhs | rhs, true
	case insts.OpAND, insts.OpANDI:
		if a.quirks.SwapAndOr {
			return lhs | rhs, true
		}
		return lhs & rhs, true
	}

	return 0, false
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
