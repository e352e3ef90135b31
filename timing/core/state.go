package core

import (
	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/insts"
)

// Phase is the position of the core within the instruction cycle.
type Phase uint8

// Instruction cycle phases. Every instruction passes through PhaseAddressOut
// and PhaseFetch; loads add PhaseLoadWait.
const (
	PhaseAddressOut Phase = iota // drive PC onto the address lines, request a word
	PhaseFetch                   // latch, decode and execute
	PhaseLoadWait                // latch load data and write it back
)

func (p Phase) String() string {
	switch p {
	case PhaseAddressOut:
		return "address-out"
	case PhaseFetch:
		return "fetch"
	case PhaseLoadWait:
		return "load-wait"
	}
	return "unknown"
}

// State is everything the core remembers between ticks, apart from the
// levels it holds on its output lines.
type State struct {
	Regs  emu.RegFile
	Phase Phase

	// LastClock is the clock level seen on the previous non-reset tick.
	LastClock bool

	// Pending is the load waiting for its data in PhaseLoadWait.
	Pending *insts.Instruction

	// Stalled is set when the last fetched word had an opcode the core does
	// not execute. The core stays in PhaseFetch until reset.
	Stalled bool
}
