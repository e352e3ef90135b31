// Package emu provides functional RV32I emulation.
package emu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/rvcore/insts"
)

// ErrMaxInstructions is returned once the instruction budget is spent.
var ErrMaxInstructions = errors.New("max instructions reached")

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Stalled is true if the fetched word has an opcode the core does not
	// execute. The PC is left pointing at it and every later step stalls
	// again.
	Stalled bool

	// Inst is the instruction that was executed or stalled on.
	Inst *insts.Instruction

	// Err is set if an error occurred during execution.
	Err error
}

// Emulator executes RV32I instructions functionally, one instruction per
// step. It is the reference the pin-level core is checked against.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder
	quirks  Quirks
	logger  *slog.Logger

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit

	resetClearsRegisters bool
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithQuirks enables legacy decode and execute behaviors.
func WithQuirks(q Quirks) EmulatorOption {
	return func(e *Emulator) {
		e.quirks = q
	}
}

// WithLogger sets the logger that receives out-of-range memory accesses.
func WithLogger(logger *slog.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithMemory makes the emulator run against an existing memory.
func WithMemory(m *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = m
	}
}

// WithResetClearsRegisters makes Reset zero x1-x31 as well as the PC.
func WithResetClearsRegisters(clear bool) EmulatorOption {
	return func(e *Emulator) {
		e.resetClearsRegisters = clear
	}
}

// NewEmulator creates a new RV32I emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		decoder: insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.memory == nil {
		e.memory = NewMemory()
	}

	e.buildUnits()

	return e
}

func (e *Emulator) buildUnits() {
	e.alu = NewALU(e.regFile, e.quirks)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory, e.quirks)
	if e.logger != nil {
		e.lsu.SetLogger(e.logger)
	}
	e.branchUnit = NewBranchUnit(e.regFile)
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// OutOfRange returns the number of loads and stores that fell outside
// memory.
func (e *Emulator) OutOfRange() uint64 {
	return e.lsu.OutOfRange()
}

// LoadProgram loads a program into memory and sets the entry point.
// The program can be either a []byte or a *Memory.
func (e *Emulator) LoadProgram(entry uint32, program interface{}) error {
	switch p := program.(type) {
	case []byte:
		if err := e.memory.LoadBytes(entry, p); err != nil {
			return err
		}
	case *Memory:
		e.memory = p
		e.buildUnits()
	default:
		return fmt.Errorf("unsupported program type %T", program)
	}

	e.regFile.PC = entry

	return nil
}

// Reset moves the PC to address 0 and clears the instruction count.
// Registers survive unless WithResetClearsRegisters was given. Memory is
// untouched.
func (e *Emulator) Reset() {
	e.regFile.PC = 0
	e.instructionCount = 0

	if e.resetClearsRegisters {
		e.regFile.Clear()
	}
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution can continue.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	// Fetch. Words outside memory read as 0, the blank opcode.
	word := e.memory.Read32(e.regFile.PC)

	inst := e.decoder.Decode(word)
	if !inst.Recognized() {
		return StepResult{Stalled: true, Inst: inst}
	}

	e.execute(inst)
	e.instructionCount++

	return StepResult{Inst: inst}
}

// Run executes instructions until the emulator stalls or the instruction
// budget is spent. A stall is a normal end of program and returns nil.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Stalled {
			return nil
		}
	}
}

// execute dispatches a recognized instruction and updates the PC.
// Unimplemented operations within a known class only advance the PC.
func (e *Emulator) execute(inst *insts.Instruction) {
	pc := e.regFile.PC
	next := pc + 4

	switch inst.Format {
	case insts.FormatOp, insts.FormatOpImm:
		e.alu.Execute(inst)
	case insts.FormatLoad:
		e.lsu.Load(inst)
	case insts.FormatStore:
		e.lsu.Store(inst)
	case insts.FormatBranch:
		next = pc + uint32(e.branchUnit.Branch(inst))
	case insts.FormatJAL:
		next = pc + uint32(e.branchUnit.JAL(inst))
	case insts.FormatJALR:
		if inst.Implemented() {
			next = e.branchUnit.JALR(inst)
		}
	case insts.FormatLUI:
		e.regFile.WriteReg(inst.Rd, uint32(inst.Imm))
	case insts.FormatAUIPC:
		e.regFile.WriteReg(inst.Rd, pc+uint32(inst.Imm))
	}

	e.regFile.PC = next
}
