package pins

// Command is one of the six memory command lines.
type Command uint8

// Memory command lines, in output pin order.
const (
	CmdRB Command = iota // read byte
	CmdRH                // read halfword
	CmdRW                // read word
	CmdWB                // write byte
	CmdWH                // write halfword
	CmdWW                // write word

	NumCommands
)

var commandNames = [NumCommands]string{"RB", "RH", "RW", "WB", "WH", "WW"}

// Pin returns the output pin index of the command line.
func (c Command) Pin() int {
	return CommandBase + int(c)
}

// IsRead reports whether c is RB, RH or RW.
func (c Command) IsRead() bool {
	return c <= CmdRW
}

// IsWrite reports whether c is WB, WH or WW.
func (c Command) IsWrite() bool {
	return c >= CmdWB && c < NumCommands
}

// Size returns the access width in bytes.
func (c Command) Size() int {
	switch c {
	case CmdRB, CmdWB:
		return 1
	case CmdRH, CmdWH:
		return 2
	default:
		return 4
	}
}

func (c Command) String() string {
	if c >= NumCommands {
		return "CMD?"
	}
	return commandNames[c]
}
