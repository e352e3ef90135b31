package benchmarks

import "github.com/sarchlab/rvcore/insts"

// ecall ends every benchmark. SYSTEM is not an opcode class the core
// executes, so it stalls there with the result in a0.
const ecall uint32 = 0x00000073

// ABI register numbers used by the programs below.
const (
	zero uint8 = 0
	ra   uint8 = 1
	t0   uint8 = 5
	t1   uint8 = 6
	t2   uint8 = 7
	a0   uint8 = 10
	a1   uint8 = 11
	a2   uint8 = 12
	a3   uint8 = 13
	a4   uint8 = 14
	t3   uint8 = 28
	t4   uint8 = 29
)

func enc(op insts.Op, rd, rs1, rs2 uint8, imm int32) uint32 {
	return insts.Encode(op, rd, rs1, rs2, imm)
}

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each one
// targets a specific part of the core and leaves a known value in a0.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		functionCalls(),
		branchLoop(),
		byteAccess(),
		shiftLogic(),
		upperImmediates(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: a loop,
// memory traffic and calls.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		branchLoop(),
		memorySequential(),
		functionCalls(),
	}
}

// 1. Arithmetic Sequential - independent ALU operations
func arithmeticSequential() Benchmark {
	regs := []uint8{t0, t1, t2, t3, t4}
	words := make([]uint32, 0, 22)
	for i := 0; i < 20; i++ {
		r := regs[i%len(regs)]
		words = append(words, enc(insts.OpADDI, r, r, 0, 1))
	}
	words = append(words, enc(insts.OpADDI, a0, t4, 0, 0), ecall)

	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "20 independent ADDIs over 5 registers",
		Program:     words,
		Expected:    4,
	}
}

// 2. Dependency Chain - every instruction reads the previous result
func dependencyChain() Benchmark {
	words := make([]uint32, 0, 21)
	for i := 0; i < 20; i++ {
		words = append(words, enc(insts.OpADDI, a0, a0, 0, 1))
	}
	words = append(words, ecall)

	return Benchmark{
		Name:        "dependency_chain",
		Description: "20 dependent ADDIs (a0 = a0 + 1)",
		Program:     words,
		Expected:    20,
	}
}

// 3. Memory Sequential - word stores followed by loads of the same words
func memorySequential() Benchmark {
	return Benchmark{
		Name:        "memory_sequential",
		Description: "4 word stores and 4 word loads at 0x1000",
		Program: []uint32{
			enc(insts.OpLUI, t0, 0, 0, 1), // t0 = 0x1000
			enc(insts.OpADDI, t1, zero, 0, 10),
			enc(insts.OpSW, 0, t0, t1, 0),
			enc(insts.OpADDI, t1, zero, 0, 20),
			enc(insts.OpSW, 0, t0, t1, 4),
			enc(insts.OpADDI, t1, zero, 0, 30),
			enc(insts.OpSW, 0, t0, t1, 8),
			enc(insts.OpADDI, t1, zero, 0, 40),
			enc(insts.OpSW, 0, t0, t1, 12),
			enc(insts.OpLW, a1, t0, 0, 0),
			enc(insts.OpLW, a2, t0, 0, 4),
			enc(insts.OpLW, a3, t0, 0, 8),
			enc(insts.OpLW, a4, t0, 0, 12),
			enc(insts.OpADD, a0, a1, a2, 0),
			enc(insts.OpADD, a0, a0, a3, 0),
			enc(insts.OpADD, a0, a0, a4, 0),
			ecall,
		},
		Expected: 100,
	}
}

// 4. Function Calls - JAL into a leaf that returns through JALR
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "3 calls to a leaf that adds 5 to a0",
		Program: []uint32{
			enc(insts.OpADDI, a0, zero, 0, 0), // 0x00
			enc(insts.OpJAL, ra, 0, 0, 16),    // 0x04 -> 0x14
			enc(insts.OpJAL, ra, 0, 0, 12),    // 0x08 -> 0x14
			enc(insts.OpJAL, ra, 0, 0, 8),     // 0x0C -> 0x14
			ecall,                             // 0x10
			enc(insts.OpADDI, a0, a0, 0, 5),   // 0x14
			enc(insts.OpJALR, zero, ra, 0, 0), // 0x18
		},
		Expected: 15,
	}
}

// 5. Branch Loop - for i := 0; i < 10; i++ { sum += i }
func branchLoop() Benchmark {
	return Benchmark{
		Name:        "branch_loop",
		Description: "10-iteration counted loop closed by BLT",
		Program: []uint32{
			enc(insts.OpADDI, a0, zero, 0, 0),
			enc(insts.OpADDI, t0, zero, 0, 0),
			enc(insts.OpADDI, t1, zero, 0, 10),
			enc(insts.OpADD, a0, a0, t0, 0), // loop:
			enc(insts.OpADDI, t0, t0, 0, 1),
			enc(insts.OpBLT, 0, t0, t1, -8),
			ecall,
		},
		Expected: 45,
	}
}

// 6. Byte Access - narrow loads with and without sign extension
func byteAccess() Benchmark {
	return Benchmark{
		Name:        "byte_access",
		Description: "SB/SH stores read back through LB, LBU, LH and LHU",
		Program: []uint32{
			enc(insts.OpLUI, t0, 0, 0, 1),
			enc(insts.OpADDI, t1, zero, 0, -1),
			enc(insts.OpSB, 0, t0, t1, 0),
			enc(insts.OpLB, a1, t0, 0, 0),  // -1
			enc(insts.OpLBU, a2, t0, 0, 0), // 255
			enc(insts.OpADD, a0, a1, a2, 0),
			enc(insts.OpSH, 0, t0, t1, 4),
			enc(insts.OpLHU, a3, t0, 0, 4), // 65535
			enc(insts.OpLH, a4, t0, 0, 4),  // -1
			enc(insts.OpADD, a3, a3, a4, 0),
			enc(insts.OpADD, a0, a0, a3, 0),
			ecall,
		},
		Expected: 254 + 65534,
	}
}

// 7. Shift Logic - shifts, XOR, OR and set-less-than
func shiftLogic() Benchmark {
	return Benchmark{
		Name:        "shift_logic",
		Description: "logical and arithmetic shifts mixed with logic ops",
		Program: []uint32{
			enc(insts.OpADDI, a0, zero, 0, 1),
			enc(insts.OpSLLI, a0, a0, 0, 10), // 1024
			enc(insts.OpADDI, t0, zero, 0, -16),
			enc(insts.OpSRAI, t1, t0, 0, 2),  // -4
			enc(insts.OpSRLI, t2, t0, 0, 28), // 15
			enc(insts.OpSUB, a0, a0, t1, 0),  // 1028
			enc(insts.OpADD, a0, a0, t2, 0),  // 1043
			enc(insts.OpXORI, a0, a0, 0, 3),  // 1040
			enc(insts.OpSLTI, t3, t0, 0, 0),  // 1
			enc(insts.OpOR, a0, a0, t3, 0),   // 1041
			ecall,
		},
		Expected: 1041,
	}
}

// 8. Upper Immediates - LUI and AUIPC address building
func upperImmediates() Benchmark {
	return Benchmark{
		Name:        "upper_immediates",
		Description: "LUI/ADDI constant and AUIPC at address 8",
		Program: []uint32{
			enc(insts.OpLUI, a0, 0, 0, 0x12345),
			enc(insts.OpADDI, a0, a0, 0, 0x678),
			enc(insts.OpAUIPC, t0, 0, 0, 0),
			enc(insts.OpADD, a0, a0, t0, 0),
			ecall,
		},
		Expected: 0x12345680,
	}
}
