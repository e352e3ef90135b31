// Package pins describes the discrete signal lines of the core and converts
// between individual boolean lines and the 32-bit words they carry.
//
// Only the adapters in this package touch single lines. Everything above it
// works on whole words:
//
//	var in pins.Inputs
//	in.SetData(0x00000013)
//	in.SetClock(true)
//	word := in.Data() // 0x00000013
package pins

// Input pin indices.
const (
	DataInBase    = 0  // inputs 0-31: memory data-in lines
	ClockPin      = 32 // clock
	ResetPin      = 33 // synchronous reset
	InterruptBase = 34 // inputs 34-37: interrupt lines (reserved, unused)

	NumInterrupts = 4
	NumInputs     = 38
)

// Output pin indices.
const (
	DataOutBase = 0  // outputs 0-31: memory data-out lines
	AddressBase = 32 // outputs 32-63: memory address lines
	CommandBase = 64 // outputs 64-69: RB, RH, RW, WB, WH, WW

	NumOutputs = 70
)

// BusWidth is the number of lines in the data and address buses.
const BusWidth = 32

// WordToPins drives lines[0:32] with the bits of word, bit i on line i.
func WordToPins(word uint32, lines []bool) {
	for i := 0; i < BusWidth; i++ {
		lines[i] = word&(1<<uint(i)) != 0
	}
}

// PinsToWord reads lines[0:32] back into a word, line i as bit i.
func PinsToWord(lines []bool) uint32 {
	var word uint32
	for i := 0; i < BusWidth; i++ {
		if lines[i] {
			word |= 1 << uint(i)
		}
	}
	return word
}

// Inputs holds the level of every input line for one tick.
type Inputs [NumInputs]bool

// Data returns the word on the data-in lines.
func (in *Inputs) Data() uint32 {
	return PinsToWord(in[DataInBase : DataInBase+BusWidth])
}

// SetData drives the data-in lines.
func (in *Inputs) SetData(word uint32) {
	WordToPins(word, in[DataInBase:DataInBase+BusWidth])
}

// Clock returns the clock level.
func (in *Inputs) Clock() bool { return in[ClockPin] }

// SetClock sets the clock level.
func (in *Inputs) SetClock(level bool) { in[ClockPin] = level }

// Reset returns the reset level.
func (in *Inputs) Reset() bool { return in[ResetPin] }

// SetReset sets the reset level.
func (in *Inputs) SetReset(level bool) { in[ResetPin] = level }

// Interrupt returns the level of interrupt line i (0-3).
func (in *Inputs) Interrupt(i int) bool { return in[InterruptBase+i] }

// SetInterrupt sets interrupt line i (0-3).
func (in *Inputs) SetInterrupt(i int, level bool) { in[InterruptBase+i] = level }

// Outputs holds the level of every output line. The core keeps one Outputs
// value alive across ticks; lines it does not touch hold their level.
type Outputs [NumOutputs]bool

// Data returns the word on the data-out lines.
func (out *Outputs) Data() uint32 {
	return PinsToWord(out[DataOutBase : DataOutBase+BusWidth])
}

// SetData drives the data-out lines.
func (out *Outputs) SetData(word uint32) {
	WordToPins(word, out[DataOutBase:DataOutBase+BusWidth])
}

// Address returns the word on the address lines.
func (out *Outputs) Address() uint32 {
	return PinsToWord(out[AddressBase : AddressBase+BusWidth])
}

// SetAddress drives the address lines.
func (out *Outputs) SetAddress(addr uint32) {
	WordToPins(addr, out[AddressBase:AddressBase+BusWidth])
}

// Command reports whether memory command line c is asserted.
func (out *Outputs) Command(c Command) bool {
	return out[c.Pin()]
}

// SetCommand sets memory command line c.
func (out *Outputs) SetCommand(c Command, on bool) {
	out[c.Pin()] = on
}

// ClearCommands deasserts all six memory command lines.
func (out *Outputs) ClearCommands() {
	for c := CmdRB; c < NumCommands; c++ {
		out[c.Pin()] = false
	}
}

// Assert asserts c and deasserts every other command line.
func (out *Outputs) Assert(c Command) {
	out.ClearCommands()
	out[c.Pin()] = true
}

// ActiveCommands returns every asserted command line in pin order.
func (out *Outputs) ActiveCommands() []Command {
	var active []Command
	for c := CmdRB; c < NumCommands; c++ {
		if out[c.Pin()] {
			active = append(active, c)
		}
	}
	return active
}

// ActiveCommand returns the asserted command line. ok is false when no
// line, or more than one line, is asserted.
func (out *Outputs) ActiveCommand() (c Command, ok bool) {
	active := out.ActiveCommands()
	if len(active) != 1 {
		return 0, false
	}
	return active[0], true
}
