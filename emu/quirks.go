package emu

// Quirks selects legacy behaviors of earlier revisions of this core that differ
// from the RV32I specification. The zero value is ISA-conformant.
type Quirks struct {
	// SwapAndOr makes funct3 0x6 compute AND and funct3 0x7 compute OR, in
	// both the register and the immediate forms.
	SwapAndOr bool `json:"swap_and_or" yaml:"swap_and_or"`

	// SignExtendUnsignedLoads makes LBU and LHU sign-extend like LB and LH.
	SignExtendUnsignedLoads bool `json:"sign_extend_unsigned_loads" yaml:"sign_extend_unsigned_loads"`

	// ArithmeticSRL makes SRL and SRLI shift in copies of the sign bit.
	ArithmeticSRL bool `json:"arithmetic_srl" yaml:"arithmetic_srl"`
}

// LegacyQuirks returns the quirk set with every legacy behavior enabled.
func LegacyQuirks() Quirks {
	return Quirks{
		SwapAndOr:               true,
		SignExtendUnsignedLoads: true,
		ArithmeticSRL:           true,
	}
}

// Any reports whether at least one quirk is enabled.
func (q Quirks) Any() bool {
	return q.SwapAndOr || q.SignExtendUnsignedLoads || q.ArithmeticSRL
}
