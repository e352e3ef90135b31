package core

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/rvcore/insts"
)

// HookPosRetire marks when an instruction completes and the PC moves on.
var HookPosRetire = &sim.HookPos{Name: "Core Retire"}

// HookPosReset marks every tick on which the reset line is held.
var HookPosReset = &sim.HookPos{Name: "Core Reset"}

// RetireEvent is the hook item at HookPosRetire.
type RetireEvent struct {
	PC     uint32
	NextPC uint32
	Inst   *insts.Instruction
}

// Stats holds performance statistics for the core.
type Stats struct {
	// RisingEdges is the number of rising clock edges seen outside reset.
	RisingEdges uint64
	// Retired is the number of instructions completed.
	Retired uint64
	// Loads is the number of completed loads.
	Loads uint64
	// Stores is the number of stores issued.
	Stores uint64
	// TakenBranches counts conditional branches that were taken.
	TakenBranches uint64
	// StallEdges is the number of rising edges spent stalled on an
	// unrecognized opcode.
	StallEdges uint64
	// ResetTicks is the number of updates made with reset held.
	ResetTicks uint64
}

// CPI returns rising edges per retired instruction, or 0 before the first
// retirement.
func (s Stats) CPI() float64 {
	if s.Retired == 0 {
		return 0
	}
	return float64(s.RisingEdges) / float64(s.Retired)
}
