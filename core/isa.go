package core

import (
	"fmt"
	"strings"

	"github.com/sarchlab/psxdecomp/instr"
)

// Primary opcodes the rest of the pipeline refers to.
const (
	OpSPECIAL uint32 = 0x00
	OpREGIMM  uint32 = 0x01
	OpADDIU   uint32 = 0x09
	OpORI     uint32 = 0x0D
	OpLUI     uint32 = 0x0F
)

type decodeFunc func(in Instruction, address uint32) (instr.Command, string)

// ISA maps the opcode fields of an instruction word to the routine that
// decodes it.
type ISA struct {
	isaName string
	primary [64]decodeFunc
	special [64]decodeFunc
	regimm  [32]decodeFunc
}

// NewISA creates an empty ISA.
func NewISA(name string) *ISA {
	return &ISA{isaName: name}
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

func (isa *ISA) registerPrimary(opcode uint32, f decodeFunc) {
	if isa.primary[opcode] != nil {
		panic(fmt.Sprintf("primary opcode 0x%02X registered twice", opcode))
	}
	isa.primary[opcode] = f
}

func (isa *ISA) registerSpecial(funct uint32, f decodeFunc) {
	if isa.special[funct] != nil {
		panic(fmt.Sprintf("special function 0x%02X registered twice", funct))
	}
	isa.special[funct] = f
}

func (isa *ISA) registerRegimm(rt uint32, f decodeFunc) {
	if isa.regimm[rt] != nil {
		panic(fmt.Sprintf("regimm kind 0x%02X registered twice", rt))
	}
	isa.regimm[rt] = f
}

// Decode translates one word at address into a command and its mnemonic.
// Encodings the ISA does not implement decode to instr.Unrecognized.
func (isa *ISA) Decode(word, address uint32) (instr.Command, string) {
	if word == 0 {
		return instr.NopCommand, "nop"
	}

	in := Instruction(word)

	var f decodeFunc
	switch in.Opcode() {
	case OpSPECIAL:
		f = isa.special[in.Funct()]
	case OpREGIMM:
		f = isa.regimm[in.T()]
	default:
		f = isa.primary[in.Opcode()]
	}

	if f == nil {
		return &instr.Unrecognized{}, "ERROR"
	}

	return f(in, address)
}

// Recognizes reports whether word has a decoding in the ISA.
func (isa *ISA) Recognizes(word uint32) bool {
	c, _ := isa.Decode(word, 0)
	_, bad := c.(*instr.Unrecognized)
	return !bad
}

var psxISA = newPSXISA()

// PSX returns the R3000 integer instruction set used by the PlayStation.
func PSX() *ISA {
	return psxISA
}

// Decode translates one word at address with the PSX instruction set.
func Decode(word, address uint32) (instr.Command, string) {
	return psxISA.Decode(word, address)
}

func mnemonic(name string, operands ...string) string {
	if len(operands) == 0 {
		return name
	}

	return fmt.Sprintf("%-5s %s", name, strings.Join(operands, ", "))
}

func hex(v uint32) string {
	return fmt.Sprintf("0x%X", v)
}

func memOperand(offset int32, base uint32) string {
	return hex(uint32(offset)) + "(" + RegisterNames[base] + ")"
}
