package insts

// SignExtend treats the low bits of value as a two's complement number and
// widens it to 32 bits: if bit (bits-1) is set every higher bit becomes 1,
// otherwise 0.
func SignExtend(value uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(value<<shift) >> shift
}

// ImmI returns the I-type immediate: bits [31:20], sign-extended.
func ImmI(word uint32) int32 {
	return SignExtend(word>>20, 12)
}

// ImmS returns the S-type immediate: bits [31:25] and [11:7], sign-extended.
func ImmS(word uint32) int32 {
	imm := (word>>25)<<5 | (word>>7)&0x1F
	return SignExtend(imm, 12)
}

// ImmB returns the B-type immediate. The encoding scatters a 13-bit even
// offset as imm[12|10:5] in bits [31:25] and imm[4:1|11] in bits [11:7];
// bit 0 of the result is always 0.
func ImmB(word uint32) int32 {
	imm := (word>>31&0x1)<<12 |
		(word>>7&0x1)<<11 |
		(word>>25&0x3F)<<5 |
		(word>>8&0xF)<<1
	return SignExtend(imm, 13)
}

// ImmJ returns the J-type immediate. The encoding scatters a 21-bit even
// offset as imm[20|10:1|11|19:12] in bits [31:12].
func ImmJ(word uint32) int32 {
	imm := (word>>31&0x1)<<20 |
		(word>>12&0xFF)<<12 |
		(word>>20&0x1)<<11 |
		(word>>21&0x3FF)<<1
	return SignExtend(imm, 21)
}

// ImmU returns the U-type immediate: bits [31:12] in place, low 12 bits zero.
func ImmU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}
