// Package insts provides RV32I instruction definitions and decoding.
package insts

// Major opcodes (bits [6:0]) of the RV32I base encoding.
const (
	OpcodeBlank  uint8 = 0b0000000 // all-zero word, e.g. uninitialized memory
	OpcodeLoad   uint8 = 0b0000011
	OpcodeOpImm  uint8 = 0b0010011
	OpcodeAUIPC  uint8 = 0b0010111
	OpcodeStore  uint8 = 0b0100011
	OpcodeOp     uint8 = 0b0110011
	OpcodeLUI    uint8 = 0b0110111
	OpcodeBranch uint8 = 0b1100011
	OpcodeJALR   uint8 = 0b1100111
	OpcodeJAL    uint8 = 0b1101111
)

// Op identifies one RV32I operation.
type Op uint8

// RV32I operations.
const (
	OpUnknown Op = iota
	OpBlank

	// Register-Register
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND

	// Register-Immediate
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI

	// Loads
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU

	// Stores
	OpSB
	OpSH
	OpSW

	// Branches
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	OpJAL
	OpJALR
	OpLUI
	OpAUIPC
)

var opNames = map[Op]string{
	OpUnknown: "unknown", OpBlank: "blank",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt", OpSLTU: "sltu",
	OpXOR: "xor", OpSRL: "srl", OpSRA: "sra", OpOR: "or", OpAND: "and",
	OpADDI: "addi", OpSLTI: "slti", OpSLTIU: "sltiu", OpXORI: "xori",
	OpORI: "ori", OpANDI: "andi", OpSLLI: "slli", OpSRLI: "srli", OpSRAI: "srai",
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLBU: "lbu", OpLHU: "lhu",
	OpSB: "sb", OpSH: "sh", OpSW: "sw",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge", OpBLTU: "bltu", OpBGEU: "bgeu",
	OpJAL: "jal", OpJALR: "jalr", OpLUI: "lui", OpAUIPC: "auipc",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Format is the opcode class of an instruction. It selects both the
// immediate encoding and the executor routine.
type Format uint8

// Opcode classes.
const (
	FormatUnknown Format = iota
	FormatBlank          // opcode 0x00
	FormatOp             // R-type
	FormatOpImm          // I-type arithmetic
	FormatLoad           // I-type loads
	FormatStore          // S-type
	FormatBranch         // B-type
	FormatJAL            // J-type
	FormatJALR           // I-type jump
	FormatLUI            // U-type
	FormatAUIPC          // U-type
)

// Instruction represents a decoded RV32I instruction.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Opcode class

	Raw    uint32 // The instruction word
	Opcode uint8  // bits [6:0]
	Funct3 uint8  // bits [14:12]
	Funct7 uint8  // bits [31:25]
	Rd     uint8  // bits [11:7]
	Rs1    uint8  // bits [19:15]
	Rs2    uint8  // bits [24:20]

	// Imm is the immediate of the instruction's format, sign-extended to
	// 32 bits. R-type instructions have Imm == 0.
	Imm int32
}

// Recognized reports whether the opcode belongs to a class the core
// executes (the blank opcode included).
func (i *Instruction) Recognized() bool {
	return i.Format != FormatUnknown
}

// Implemented reports whether the funct3/funct7 combination maps to an
// operation within the instruction's class.
func (i *Instruction) Implemented() bool {
	return i.Op != OpUnknown
}

// Decoder decodes RV32I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RV32I instruction word. Decoding is total: every
// word yields an instruction, possibly with FormatUnknown or OpUnknown.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Op:     OpUnknown,
		Format: FormatUnknown,
		Raw:    word,
		Opcode: uint8(word & 0x7F),         // bits [6:0]
		Rd:     uint8((word >> 7) & 0x1F),  // bits [11:7]
		Funct3: uint8((word >> 12) & 0x7),  // bits [14:12]
		Rs1:    uint8((word >> 15) & 0x1F), // bits [19:15]
		Rs2:    uint8((word >> 20) & 0x1F), // bits [24:20]
		Funct7: uint8(word >> 25),          // bits [31:25]
	}

	switch inst.Opcode {
	case OpcodeOp:
		d.decodeOp(inst)
	case OpcodeOpImm:
		d.decodeOpImm(word, inst)
	case OpcodeLoad:
		d.decodeLoad(word, inst)
	case OpcodeStore:
		d.decodeStore(word, inst)
	case OpcodeBranch:
		d.decodeBranch(word, inst)
	case OpcodeJAL:
		inst.Format = FormatJAL
		inst.Op = OpJAL
		inst.Imm = ImmJ(word)
	case OpcodeJALR:
		inst.Format = FormatJALR
		inst.Imm = ImmI(word)
		if inst.Funct3 == 0 {
			inst.Op = OpJALR
		}
	case OpcodeLUI:
		inst.Format = FormatLUI
		inst.Op = OpLUI
		inst.Imm = ImmU(word)
	case OpcodeAUIPC:
		inst.Format = FormatAUIPC
		inst.Op = OpAUIPC
		inst.Imm = ImmU(word)
	case OpcodeBlank:
		inst.Format = FormatBlank
		inst.Op = OpBlank
	}

	return inst
}

// decodeOp decodes register-register arithmetic.
// Format: funct7 | rs2 | rs1 | funct3 | rd | 0110011
func (d *Decoder) decodeOp(inst *Instruction) {
	inst.Format = FormatOp

	switch inst.Funct7 {
	case 0x00:
		inst.Op = [8]Op{OpADD, OpSLL, OpSLT, OpSLTU, OpXOR, OpSRL, OpOR, OpAND}[inst.Funct3]
	case 0x20:
		switch inst.Funct3 {
		case 0x0:
			inst.Op = OpSUB
		case 0x5:
			inst.Op = OpSRA
		}
	}
}

// decodeOpImm decodes register-immediate arithmetic.
// Format: imm[11:0] | rs1 | funct3 | rd | 0010011
// Shifts reuse imm[11:5] as funct7 and imm[4:0] as the shift amount.
func (d *Decoder) decodeOpImm(word uint32, inst *Instruction) {
	inst.Format = FormatOpImm
	inst.Imm = ImmI(word)

	switch inst.Funct3 {
	case 0x0:
		inst.Op = OpADDI
	case 0x2:
		inst.Op = OpSLTI
	case 0x3:
		inst.Op = OpSLTIU
	case 0x4:
		inst.Op = OpXORI
	case 0x6:
		inst.Op = OpORI
	case 0x7:
		inst.Op = OpANDI
	case 0x1:
		if inst.Funct7 == 0x00 {
			inst.Op = OpSLLI
		}
	case 0x5:
		switch inst.Funct7 {
		case 0x00:
			inst.Op = OpSRLI
		case 0x20:
			inst.Op = OpSRAI
		}
	}
}

// decodeLoad decodes loads.
// Format: imm[11:0] | rs1 | funct3 | rd | 0000011
func (d *Decoder) decodeLoad(word uint32, inst *Instruction) {
	inst.Format = FormatLoad
	inst.Imm = ImmI(word)

	switch inst.Funct3 {
	case 0x0:
		inst.Op = OpLB
	case 0x1:
		inst.Op = OpLH
	case 0x2:
		inst.Op = OpLW
	case 0x4:
		inst.Op = OpLBU
	case 0x5:
		inst.Op = OpLHU
	}
}

// decodeStore decodes stores.
// Format: imm[11:5] | rs2 | rs1 | funct3 | imm[4:0] | 0100011
func (d *Decoder) decodeStore(word uint32, inst *Instruction) {
	inst.Format = FormatStore
	inst.Imm = ImmS(word)

	switch inst.Funct3 {
	case 0x0:
		inst.Op = OpSB
	case 0x1:
		inst.Op = OpSH
	case 0x2:
		inst.Op = OpSW
	}
}

// decodeBranch decodes conditional branches.
// Format: imm[12|10:5] | rs2 | rs1 | funct3 | imm[4:1|11] | 1100011
func (d *Decoder) decodeBranch(word uint32, inst *Instruction) {
	inst.Format = FormatBranch
	inst.Imm = ImmB(word)

	switch inst.Funct3 {
	case 0x0:
		inst.Op = OpBEQ
	case 0x1:
		inst.Op = OpBNE
	case 0x4:
		inst.Op = OpBLT
	case 0x5:
		inst.Op = OpBGE
	case 0x6:
		inst.Op = OpBLTU
	case 0x7:
		inst.Op = OpBGEU
	}
}
