package insts

type encoding struct {
	format Format
	opcode uint8
	funct3 uint8
	funct7 uint8
}

var encodings = map[Op]encoding{
	OpADD:  {FormatOp, OpcodeOp, 0x0, 0x00},
	OpSUB:  {FormatOp, OpcodeOp, 0x0, 0x20},
	OpSLL:  {FormatOp, OpcodeOp, 0x1, 0x00},
	OpSLT:  {FormatOp, OpcodeOp, 0x2, 0x00},
	OpSLTU: {FormatOp, OpcodeOp, 0x3, 0x00},
	OpXOR:  {FormatOp, OpcodeOp, 0x4, 0x00},
	OpSRL:  {FormatOp, OpcodeOp, 0x5, 0x00},
	OpSRA:  {FormatOp, OpcodeOp, 0x5, 0x20},
	OpOR:   {FormatOp, OpcodeOp, 0x6, 0x00},
	OpAND:  {FormatOp, OpcodeOp, 0x7, 0x00},

	OpADDI:  {FormatOpImm, OpcodeOpImm, 0x0, 0},
	OpSLTI:  {FormatOpImm, OpcodeOpImm, 0x2, 0},
	OpSLTIU: {FormatOpImm, OpcodeOpImm, 0x3, 0},
	OpXORI:  {FormatOpImm, OpcodeOpImm, 0x4, 0},
	OpORI:   {FormatOpImm, OpcodeOpImm, 0x6, 0},
	OpANDI:  {FormatOpImm, OpcodeOpImm, 0x7, 0},
	OpSLLI:  {FormatOpImm, OpcodeOpImm, 0x1, 0x00},
	OpSRLI:  {FormatOpImm, OpcodeOpImm, 0x5, 0x00},
	OpSRAI:  {FormatOpImm, OpcodeOpImm, 0x5, 0x20},

	OpLB:  {FormatLoad, OpcodeLoad, 0x0, 0},
	OpLH:  {FormatLoad, OpcodeLoad, 0x1, 0},
	OpLW:  {FormatLoad, OpcodeLoad, 0x2, 0},
	OpLBU: {FormatLoad, OpcodeLoad, 0x4, 0},
	OpLHU: {FormatLoad, OpcodeLoad, 0x5, 0},

	OpSB: {FormatStore, OpcodeStore, 0x0, 0},
	OpSH: {FormatStore, OpcodeStore, 0x1, 0},
	OpSW: {FormatStore, OpcodeStore, 0x2, 0},

	OpBEQ:  {FormatBranch, OpcodeBranch, 0x0, 0},
	OpBNE:  {FormatBranch, OpcodeBranch, 0x1, 0},
	OpBLT:  {FormatBranch, OpcodeBranch, 0x4, 0},
	OpBGE:  {FormatBranch, OpcodeBranch, 0x5, 0},
	OpBLTU: {FormatBranch, OpcodeBranch, 0x6, 0},
	OpBGEU: {FormatBranch, OpcodeBranch, 0x7, 0},

	OpJAL:   {FormatJAL, OpcodeJAL, 0, 0},
	OpJALR:  {FormatJALR, OpcodeJALR, 0x0, 0},
	OpLUI:   {FormatLUI, OpcodeLUI, 0, 0},
	OpAUIPC: {FormatAUIPC, OpcodeAUIPC, 0, 0},
}

// Encode assembles one instruction word. Operands that the operation's
// format does not use are ignored. For shifts by immediate, imm is the shift
// amount. For LUI and AUIPC, imm is the 20-bit upper value (imm<<12 is
// loaded). Encode returns 0 for OpUnknown and OpBlank.
func Encode(op Op, rd, rs1, rs2 uint8, imm int32) uint32 {
	enc, ok := encodings[op]
	if !ok {
		return 0
	}

	word := uint32(enc.opcode) | uint32(enc.funct3)<<12
	r := func(reg uint8) uint32 { return uint32(reg & 0x1F) }
	u := uint32(imm)

	switch enc.format {
	case FormatOp:
		word |= r(rd)<<7 | r(rs1)<<15 | r(rs2)<<20 | uint32(enc.funct7)<<25
	case FormatOpImm, FormatLoad, FormatJALR:
		if op == OpSLLI || op == OpSRLI || op == OpSRAI {
			u = u&0x1F | uint32(enc.funct7)<<5
		}
		word |= r(rd)<<7 | r(rs1)<<15 | (u&0xFFF)<<20
	case FormatStore:
		word |= (u&0x1F)<<7 | r(rs1)<<15 | r(rs2)<<20 | (u>>5&0x7F)<<25
	case FormatBranch:
		word |= (u>>11&0x1)<<7 | (u>>1&0xF)<<8 | r(rs1)<<15 | r(rs2)<<20 |
			(u>>5&0x3F)<<25 | (u>>12&0x1)<<31
	case FormatJAL:
		word |= r(rd)<<7 | (u>>12&0xFF)<<12 | (u>>11&0x1)<<20 |
			(u>>1&0x3FF)<<21 | (u>>20&0x1)<<31
	case FormatLUI, FormatAUIPC:
		word |= r(rd)<<7 | (u&0xFFFFF)<<12
	}

	return word
}
