// Package emu provides functional RV32I emulation.
package emu

// RegFile represents the RV32I integer register file.
// It contains 32 general-purpose registers (x0-x31) and the program counter.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	// X[0] is hard-wired to zero: writes are discarded and reads return 0
	// whatever the slot holds.
	X [32]uint32

	// PC is the program counter, a byte address.
	PC uint32
}

// ReadReg reads a register value. Register 0 always returns 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	reg &= 0x1F
	if reg == 0 {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to register 0 are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	reg &= 0x1F
	if reg == 0 {
		return
	}
	r.X[reg] = value
}

// Clear zeroes every register. The PC is left alone.
func (r *RegFile) Clear() {
	r.X = [32]uint32{}
}
