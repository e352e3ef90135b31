// Package board wires a pin-level core to a memory device and drives its
// clock and reset lines from an Akita engine.
package board

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rvcore/pins"
	"github.com/sarchlab/rvcore/timing/bus"
	"github.com/sarchlab/rvcore/timing/core"
)

// HookPosStop marks the tick on which the board stops.
var HookPosStop = &sim.HookPos{Name: "Board Stop"}

// StopReason tells why a run ended.
type StopReason int

// Stop reasons.
const (
	StopNone StopReason = iota
	StopStalled
	StopCycleBudget
	StopEngineError
)

func (r StopReason) String() string {
	switch r {
	case StopStalled:
		return "stalled"
	case StopCycleBudget:
		return "cycle budget"
	case StopEngineError:
		return "engine error"
	}
	return "running"
}

// Result summarizes a run.
type Result struct {
	Reason StopReason
	Ticks  uint64
	Cycles uint64
	PC     uint32
	Time   sim.VTimeInSec
	Stats  core.Stats
	Err    error
}

// Board is a TickingComponent that ticks twice per clock period. On every
// tick it sets the clock and reset lines, updates the core, and lets the
// device answer whatever command the core now drives, so that read data is
// on the data-in lines before the next edge.
type Board struct {
	*sim.TickingComponent

	core   *core.Core
	device bus.Device
	logger *slog.Logger

	in         pins.Inputs
	ticks      uint64
	resetTicks uint64
	maxCycles  uint64
	reason     StopReason
}

// Core returns the core on the board.
func (b *Board) Core() *core.Core {
	return b.core
}

// Inputs returns the levels the board last drove into the core.
func (b *Board) Inputs() pins.Inputs {
	return b.in
}

// Ticks returns the number of ticks run so far.
func (b *Board) Ticks() uint64 {
	return b.ticks
}

// Cycles returns the number of completed clock periods.
func (b *Board) Cycles() uint64 {
	return b.ticks / 2
}

// Tick runs one half clock period.
func (b *Board) Tick() (madeProgress bool) {
	if b.reason != StopNone {
		return false
	}

	if b.maxCycles > 0 && b.Cycles() >= b.maxCycles {
		b.stop(StopCycleBudget)
		return false
	}

	b.in.SetReset(b.ticks < b.resetTicks)
	b.in.SetClock(b.ticks%2 == 0)

	out := b.core.Update(b.in)
	if b.in.Clock() && !b.in.Reset() {
		b.serve(out)
	}

	b.ticks++

	if b.core.Stalled() {
		b.stop(StopStalled)
		return false
	}

	return true
}

// serve lets the device answer the command the core drives after a rising
// edge. Commands are held for a whole clock period, so the falling-edge tick
// does not serve them again.
func (b *Board) serve(out pins.Outputs) {
	cmd, ok := out.ActiveCommand()
	if !ok {
		return
	}

	data := b.device.Respond(out)
	if cmd.IsRead() {
		b.in.SetData(data)
	}
}

func (b *Board) stop(reason StopReason) {
	b.reason = reason

	core.Trace(b.logger, "board stopped",
		"board", b.Name(),
		"reason", reason.String(),
		"cycles", b.Cycles())

	b.InvokeHook(sim.HookCtx{
		Domain: b,
		Pos:    HookPosStop,
		Item:   reason,
	})
}

// Run ticks the board until the core stalls or the cycle budget is spent.
func (b *Board) Run() Result {
	b.TickNow()

	if err := b.Engine.Run(); err != nil {
		b.reason = StopEngineError
		return b.result(err)
	}

	return b.result(nil)
}

func (b *Board) result(err error) Result {
	return Result{
		Reason: b.reason,
		Ticks:  b.ticks,
		Cycles: b.Cycles(),
		PC:     b.core.PC(),
		Time:   b.Engine.CurrentTime(),
		Stats:  b.core.Stats(),
		Err:    err,
	}
}
