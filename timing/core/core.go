// Package core provides the pin-level, edge-triggered RV32I core model.
//
// The core is reactive: the host calls Update once per tick with the level
// of every input line and gets back the level of every output line. Work
// happens only on rising clock edges; a fetch takes two edges and a load
// three.
package core

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/insts"
	"github.com/sarchlab/rvcore/pins"
)

// Core represents one RV32I core seen through its pins.
type Core struct {
	*sim.HookableBase

	name    string
	state   State
	out     pins.Outputs
	stats   Stats
	decoder *insts.Decoder
	logger  *slog.Logger

	quirks               emu.Quirks
	resetClearsRegisters bool

	// Execution units
	alu        *emu.ALU
	lsu        *emu.LoadStoreUnit
	branchUnit *emu.BranchUnit
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithName sets the name used in log records.
func WithName(name string) Option {
	return func(c *Core) {
		c.name = name
	}
}

// WithLogger sets the logger for trace records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Core) {
		c.logger = logger
	}
}

// WithQuirks enables behaviors of the original component.
func WithQuirks(q emu.Quirks) Option {
	return func(c *Core) {
		c.quirks = q
	}
}

// WithResetClearsRegisters makes reset zero x1-x31 as well as the PC.
func WithResetClearsRegisters(clear bool) Option {
	return func(c *Core) {
		c.resetClearsRegisters = clear
	}
}

// NewCore creates a core in phase 0 with PC 0, every register 0 and every
// output line low.
func NewCore(opts ...Option) *Core {
	c := &Core{
		HookableBase: sim.NewHookableBase(),
		name:         "Core",
		decoder:      insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	// The LSU only computes addresses and extends data here; memory is on
	// the far side of the pins.
	c.alu = emu.NewALU(&c.state.Regs, c.quirks)
	c.lsu = emu.NewLoadStoreUnit(&c.state.Regs, nil, c.quirks)
	c.branchUnit = emu.NewBranchUnit(&c.state.Regs)

	return c
}

// Name returns the name of the core.
func (c *Core) Name() string {
	return c.name
}

// RegFile returns the core's register file. Hosts use it to seed registers
// before a run and to inspect them afterwards.
func (c *Core) RegFile() *emu.RegFile {
	return &c.state.Regs
}

// PC returns the program counter.
func (c *Core) PC() uint32 {
	return c.state.Regs.PC
}

// Phase returns the current instruction cycle phase.
func (c *Core) Phase() Phase {
	return c.state.Phase
}

// State returns a copy of the core state.
func (c *Core) State() State {
	return c.state
}

// Outputs returns the levels currently driven on the output lines.
func (c *Core) Outputs() pins.Outputs {
	return c.out
}

// Stalled reports whether the core is stuck on an unrecognized opcode.
func (c *Core) Stalled() bool {
	return c.state.Stalled
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Update advances the core by one tick.
//
// A held reset line wins over everything else. Otherwise only a change of
// the clock level does anything, and only a rising edge does work; the
// outputs are returned unchanged for every other tick.
func (c *Core) Update(in pins.Inputs) pins.Outputs {
	if in.Reset() {
		c.reset()
		return c.out
	}

	clock := in.Clock()
	if clock == c.state.LastClock {
		return c.out
	}
	c.state.LastClock = clock

	if clock {
		c.onRisingEdge(in)
	} else {
		c.onFallingEdge(in)
	}

	return c.out
}

// reset returns to phase 0 at address 0 with all lines low. The last seen
// clock level is kept.
func (c *Core) reset() {
	c.state.Regs.PC = 0
	c.state.Phase = PhaseAddressOut
	c.state.Pending = nil
	c.state.Stalled = false
	c.out = pins.Outputs{}

	if c.resetClearsRegisters {
		c.state.Regs.Clear()
	}

	c.stats.ResetTicks++

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosReset,
	})
}

func (c *Core) onRisingEdge(in pins.Inputs) {
	c.stats.RisingEdges++

	switch c.state.Phase {
	case PhaseAddressOut:
		c.addressOut()
	case PhaseFetch:
		c.fetch(in.Data())
	case PhaseLoadWait:
		c.completeLoad(in.Data())
	}
}

// onFallingEdge does nothing; the core works on rising edges only.
func (c *Core) onFallingEdge(pins.Inputs) {}

func (c *Core) addressOut() {
	c.out.SetAddress(c.state.Regs.PC)
	c.out.SetData(0)
	c.out.Assert(pins.CmdRW)
	c.state.Phase = PhaseFetch
}

func (c *Core) fetch(word uint32) {
	c.out.SetCommand(pins.CmdRW, false)

	inst := c.decoder.Decode(word)
	if !inst.Recognized() {
		if !c.state.Stalled {
			c.logger.Warn("unrecognized opcode, core stalled",
				"core", c.name,
				"pc", hex(c.state.Regs.PC),
				"word", hex(word))
		}
		c.state.Stalled = true
		c.stats.StallEdges++
		return
	}

	c.state.Stalled = false
	c.execute(inst)
}

// execute runs a recognized instruction. Unimplemented operations inside a
// known class retire without effect.
func (c *Core) execute(inst *insts.Instruction) {
	regs := &c.state.Regs

	switch inst.Format {
	case insts.FormatOp, insts.FormatOpImm:
		c.alu.Execute(inst)
	case insts.FormatLoad:
		if cmd, ok := emu.ReadCommand(inst.Op); ok {
			c.issueLoad(inst, cmd)
			return
		}
	case insts.FormatStore:
		if cmd, ok := emu.WriteCommand(inst.Op); ok {
			c.issueStore(inst, cmd)
		}
	case insts.FormatBranch:
		if c.branchUnit.Taken(inst) {
			c.stats.TakenBranches++
			c.retire(inst, regs.PC+uint32(inst.Imm))
			return
		}
	case insts.FormatJAL:
		c.retire(inst, regs.PC+uint32(c.branchUnit.JAL(inst)))
		return
	case insts.FormatJALR:
		if inst.Implemented() {
			c.retire(inst, c.branchUnit.JALR(inst))
			return
		}
	case insts.FormatLUI:
		regs.WriteReg(inst.Rd, uint32(inst.Imm))
	case insts.FormatAUIPC:
		regs.WriteReg(inst.Rd, regs.PC+uint32(inst.Imm))
	}

	c.retire(inst, regs.PC+4)
}

func (c *Core) issueLoad(inst *insts.Instruction, cmd pins.Command) {
	c.out.SetAddress(c.lsu.Address(inst))
	c.out.Assert(cmd)
	c.state.Pending = inst
	c.state.Phase = PhaseLoadWait
}

// issueStore drives a write. The write line stays up until the next
// address-out phase replaces it with RW.
func (c *Core) issueStore(inst *insts.Instruction, cmd pins.Command) {
	c.out.SetAddress(c.lsu.Address(inst))
	c.out.SetData(c.lsu.StoreData(inst))
	c.out.Assert(cmd)
	c.stats.Stores++
}

func (c *Core) completeLoad(data uint32) {
	inst := c.state.Pending
	c.state.Pending = nil
	c.out.ClearCommands()

	if inst == nil {
		c.state.Phase = PhaseAddressOut
		return
	}

	c.state.Regs.WriteReg(inst.Rd, c.lsu.Extend(inst.Op, data))
	c.stats.Loads++
	c.retire(inst, c.state.Regs.PC+4)
}

// retire moves the PC to next and starts the following instruction cycle.
func (c *Core) retire(inst *insts.Instruction, next uint32) {
	pc := c.state.Regs.PC
	c.state.Regs.PC = next
	c.state.Phase = PhaseAddressOut
	c.stats.Retired++

	Trace(c.logger, "retire",
		"core", c.name,
		"pc", hex(pc),
		"inst", inst.String(),
		"next_pc", hex(next))

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosRetire,
		Item:   RetireEvent{PC: pc, NextPC: next, Inst: inst},
	})
}
