package core

// Instruction is a raw 32-bit R3000 instruction word.
type Instruction uint32

// Opcode returns bits [31:26].
func (in Instruction) Opcode() uint32 {
	return uint32(in) >> 26
}

// Funct returns bits [5:0], the SPECIAL sub-opcode.
func (in Instruction) Funct() uint32 {
	return uint32(in) & 0x3F
}

// S returns the rs register index in bits [25:21].
func (in Instruction) S() uint32 {
	return (uint32(in) >> 21) & 0x1F
}

// T returns the rt register index in bits [20:16]. For REGIMM it selects
// the branch kind.
func (in Instruction) T() uint32 {
	return (uint32(in) >> 16) & 0x1F
}

// D returns the rd register index in bits [15:11].
func (in Instruction) D() uint32 {
	return (uint32(in) >> 11) & 0x1F
}

// Shift returns the shift amount in bits [10:6].
func (in Instruction) Shift() uint32 {
	return (uint32(in) >> 6) & 0x1F
}

// Imm returns the 16-bit immediate, zero extended.
func (in Instruction) Imm() uint32 {
	return uint32(in) & 0xFFFF
}

// ImmSE returns the 16-bit immediate, sign extended.
func (in Instruction) ImmSE() int32 {
	return int32(int16(uint32(in) & 0xFFFF))
}

// Target returns the 26-bit jump target field.
func (in Instruction) Target() uint32 {
	return uint32(in) & 0x3FFFFFF
}

// Code returns the 20-bit code field in bits [25:6] of syscall and break.
func (in Instruction) Code() uint32 {
	return (uint32(in) >> 6) & 0xFFFFF
}

// BranchTarget returns the destination of a relative branch at address.
// The offset counts from the delay slot.
func (in Instruction) BranchTarget(address uint32) uint32 {
	return uint32(in.ImmSE())*4 + address + 4
}

// JumpTarget returns the destination of an absolute jump at address.
func (in Instruction) JumpTarget(address uint32) uint32 {
	return in.Target()*4 | address&0xF0000000
}
