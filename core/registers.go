package core

import "github.com/sarchlab/psxdecomp/instr"

// RegisterNames maps register indices to their conventional names.
var RegisterNames = [32]string{
	"$r0", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

// Names of the always-zero register, the link register and the
// multiply/divide result registers.
const (
	ZeroRegister = "$r0"
	LinkRegister = "$ra"
	HIRegister   = "$HI"
	LORegister   = "$LO"
)

func register(name string) *instr.Register {
	return &instr.Register{Name: name}
}

func gpr(i uint32) *instr.Register {
	return register(RegisterNames[i])
}

func hiLo() *instr.MultiRegister {
	return &instr.MultiRegister{Registers: []instr.Command{register(HIRegister), register(LORegister)}}
}
