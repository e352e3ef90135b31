// Package insts provides RV32I instruction definitions and decoding.
//
// This package turns 32-bit RISC-V machine words into structured
// instruction values. It supports the nine base integer opcode classes:
//   - Register-Register (OP): ADD, SUB, SLL, SLT, SLTU, XOR, SRL, SRA, OR, AND
//   - Register-Immediate (OP-IMM): ADDI, SLTI, SLTIU, XORI, ORI, ANDI, SLLI, SRLI, SRAI
//   - Loads and stores: LB, LH, LW, LBU, LHU, SB, SH, SW
//   - Branches: BEQ, BNE, BLT, BGE, BLTU, BGEU
//   - Jumps and upper immediates: JAL, JALR, LUI, AUIPC
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x02A00513) // ADDI a0, zero, 42
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts
