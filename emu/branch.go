// Package emu provides functional RV32I emulation.
package emu

import "github.com/sarchlab/rvcore/insts"

// BranchUnit implements RV32I conditional branches and jumps. It computes
// link values and targets but leaves the PC update to the caller, which may
// be a single-step emulator or a multi-phase core.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// Taken evaluates the branch condition of inst against rs1 and rs2.
// Unimplemented branch encodings are never taken.
func (b *BranchUnit) Taken(inst *insts.Instruction) bool {
	return CheckCondition(inst.Op,
		b.regFile.ReadReg(inst.Rs1),
		b.regFile.ReadReg(inst.Rs2))
}

// Branch returns the PC delta of a conditional branch: the immediate when
// taken, 4 otherwise.
func (b *BranchUnit) Branch(inst *insts.Instruction) int32 {
	if b.Taken(inst) {
		return inst.Imm
	}
	return 4
}

// JAL links rd to PC+4 and returns the PC-relative jump offset.
func (b *BranchUnit) JAL(inst *insts.Instruction) int32 {
	b.regFile.WriteReg(inst.Rd, b.regFile.PC+4)
	return inst.Imm
}

// JALR links rd to PC+4 and returns the absolute target (rs1+imm) with
// bit 0 cleared.
func (b *BranchUnit) JALR(inst *insts.Instruction) uint32 {
	// Read the base first in case rd == rs1.
	target := (b.regFile.ReadReg(inst.Rs1) + uint32(inst.Imm)) &^ 1

	b.regFile.WriteReg(inst.Rd, b.regFile.PC+4)

	return target
}

// CheckCondition evaluates a branch operation on two register values.
func CheckCondition(op insts.Op, rs1, rs2 uint32) bool {
	switch op {
	case insts.OpBEQ:
		return rs1 == rs2
	case insts.OpBNE:
		return rs1 != rs2
	case insts.OpBLT:
		return int32(rs1) < int32(rs2)
	case insts.OpBGE:
		return int32(rs1) >= int32(rs2)
	case insts.OpBLTU:
		return rs1 < rs2
	case insts.OpBGEU:
		return rs1 >= rs2
	default:
		return false
	}
}
