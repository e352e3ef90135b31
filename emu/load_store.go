// Package emu provides functional RV32I emulation.
package emu

import (
	"log/slog"

	"github.com/sarchlab/rvcore/insts"
	"github.com/sarchlab/rvcore/pins"
)

// LoadStoreUnit implements RV32I load and store operations.
//
// The address, width and extension helpers are shared by the functional
// emulator and the pin-level core; only Load and Store touch memory, so a
// unit built with a nil memory serves the core.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
	quirks  Quirks
	logger  *slog.Logger

	outOfRange uint64
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory, quirks Quirks) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
		quirks:  quirks,
		logger:  slog.Default(),
	}
}

// SetLogger sets where out-of-range accesses are reported.
func (lsu *LoadStoreUnit) SetLogger(logger *slog.Logger) {
	lsu.logger = logger
}

// OutOfRange returns the number of accesses that fell outside memory.
func (lsu *LoadStoreUnit) OutOfRange() uint64 {
	return lsu.outOfRange
}

// Address returns the effective address rs1 + imm.
func (lsu *LoadStoreUnit) Address(inst *insts.Instruction) uint32 {
	return lsu.regFile.ReadReg(inst.Rs1) + uint32(inst.Imm)
}

// StoreData returns the value a store drives onto the data lines.
func (lsu *LoadStoreUnit) StoreData(inst *insts.Instruction) uint32 {
	return lsu.regFile.ReadReg(inst.Rs2)
}

// ReadCommand returns the memory command line a load asserts.
func ReadCommand(op insts.Op) (pins.Command, bool) {
	switch op {
	case insts.OpLB, insts.OpLBU:
		return pins.CmdRB, true
	case insts.OpLH, insts.OpLHU:
		return pins.CmdRH, true
	case insts.OpLW:
		return pins.CmdRW, true
	}
	return 0, false
}

// WriteCommand returns the memory command line a store asserts.
func WriteCommand(op insts.Op) (pins.Command, bool) {
	switch op {
	case insts.OpSB:
		return pins.CmdWB, true
	case insts.OpSH:
		return pins.CmdWH, true
	case insts.OpSW:
		return pins.CmdWW, true
	}
	return 0, false
}

// Extend widens raw load data to a register value. Byte and halfword loads
// keep only their low bits; LB and LH sign-extend, LBU and LHU zero-extend,
// LW passes the word through.
func (lsu *LoadStoreUnit) Extend(op insts.Op, raw uint32) uint32 {
	switch op {
	case insts.OpLB:
		return uint32(int32(int8(raw)))
	case insts.OpLH:
		return uint32(int32(int16(raw)))
	case insts.OpLBU:
		if lsu.quirks.SignExtendUnsignedLoads {
			return uint32(int32(int8(raw)))
		}
		return raw & 0xFF
	case insts.OpLHU:
		if lsu.quirks.SignExtendUnsignedLoads {
			return uint32(int32(int16(raw)))
		}
		return raw & 0xFFFF
	}
	return raw
}

// Load performs a load against memory in one step: rd = extend(mem[rs1+imm]).
func (lsu *LoadStoreUnit) Load(inst *insts.Instruction) bool {
	cmd, ok := ReadCommand(inst.Op)
	if !ok {
		return false
	}

	addr := lsu.Address(inst)
	raw, err := lsu.memory.Read(addr, cmd.Size())
	if err != nil {
		lsu.reportOutOfRange(cmd, addr, err)
	}
	lsu.regFile.WriteReg(inst.Rd, lsu.Extend(inst.Op, raw))

	return true
}

// Store performs a store against memory: mem[rs1+imm] = rs2 (low bytes).
func (lsu *LoadStoreUnit) Store(inst *insts.Instruction) bool {
	cmd, ok := WriteCommand(inst.Op)
	if !ok {
		return false
	}

	addr := lsu.Address(inst)
	if err := lsu.memory.Write(addr, cmd.Size(), lsu.StoreData(inst)); err != nil {
		lsu.reportOutOfRange(cmd, addr, err)
	}

	return true
}

// reportOutOfRange logs an access outside memory. Such loads read 0 and
// such stores are dropped, as on the bus.
func (lsu *LoadStoreUnit) reportOutOfRange(cmd pins.Command, addr uint32, err error) {
	lsu.outOfRange++
	lsu.logger.Warn("memory access out of range",
		"command", cmd.String(),
		"address", addr,
		"error", err)
}
