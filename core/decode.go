package core

import "github.com/sarchlab/psxdecomp/instr"

func newPSXISA() *ISA {
	isa := NewISA("PSX R3000")

	isa.registerSpecial(0x00, shiftImm("sll", instr.OpShiftLeft))
	isa.registerSpecial(0x02, shiftImm("srl", instr.OpShiftRightLogical))
	isa.registerSpecial(0x03, shiftImm("sra", instr.OpShiftRightArith))
	isa.registerSpecial(0x04, shiftVar("sllv", instr.OpShiftLeft))
	isa.registerSpecial(0x06, shiftVar("srlv", instr.OpShiftRightLogical))
	isa.registerSpecial(0x07, shiftVar("srav", instr.OpShiftRightArith))
	isa.registerSpecial(0x08, decodeJR)
	isa.registerSpecial(0x09, decodeJALR)
	isa.registerSpecial(0x0C, trap("syscall"))
	isa.registerSpecial(0x0D, trap("break"))
	isa.registerSpecial(0x10, moveFrom("mfhi", HIRegister))
	isa.registerSpecial(0x11, moveTo("mthi", HIRegister))
	isa.registerSpecial(0x12, moveFrom("mflo", LORegister))
	isa.registerSpecial(0x13, moveTo("mtlo", LORegister))
	isa.registerSpecial(0x18, multiply("mult", instr.OpMulSigned))
	isa.registerSpecial(0x19, multiply("multu", instr.OpMulUnsigned))
	isa.registerSpecial(0x1A, divide("div", instr.OpDivSigned, instr.OpModSigned))
	isa.registerSpecial(0x1B, divide("divu", instr.OpDivUnsigned, instr.OpModUnsigned))
	isa.registerSpecial(0x20, threeReg("add", instr.OpAddSigned))
	isa.registerSpecial(0x21, decodeADDU)
	isa.registerSpecial(0x22, threeReg("sub", instr.OpSubSigned))
	isa.registerSpecial(0x23, threeReg("subu", instr.OpSubUnsigned))
	isa.registerSpecial(0x24, threeReg("and", instr.OpAnd))
	isa.registerSpecial(0x25, threeReg("or", instr.OpOr))
	isa.registerSpecial(0x26, threeReg("xor", instr.OpXor))
	isa.registerSpecial(0x27, decodeNOR)
	isa.registerSpecial(0x2A, threeReg("slt", instr.OpLessSigned))
	isa.registerSpecial(0x2B, threeReg("sltu", instr.OpLessUnsigned))

	isa.registerRegimm(0x00, branchZero("bltz", instr.OpLessSigned))
	isa.registerRegimm(0x01, branchZero("bgez", instr.OpGreaterEqualSigned))
	isa.registerRegimm(0x10, branchZeroLink("bltzal", instr.OpLessSigned))
	isa.registerRegimm(0x11, branchZeroLink("bgezal", instr.OpGreaterEqualSigned))

	isa.registerPrimary(0x02, decodeJ)
	isa.registerPrimary(0x03, decodeJAL)
	isa.registerPrimary(0x04, decodeBEQ)
	isa.registerPrimary(0x05, decodeBNE)
	isa.registerPrimary(0x06, branchZero("blez", instr.OpLessEqualSigned))
	isa.registerPrimary(0x07, branchZero("bgtz", instr.OpGreaterSigned))
	isa.registerPrimary(0x08, immArith("addi", instr.OpAddSigned))
	isa.registerPrimary(OpADDIU, decodeADDIU)
	isa.registerPrimary(0x0A, immArith("slti", instr.OpLessSigned))
	isa.registerPrimary(0x0B, immArith("sltiu", instr.OpLessUnsigned))
	isa.registerPrimary(0x0C, immLogic("andi", instr.OpAnd))
	isa.registerPrimary(OpORI, decodeORI)
	isa.registerPrimary(0x0E, immLogic("xori", instr.OpXor))
	isa.registerPrimary(OpLUI, decodeLUI)
	isa.registerPrimary(0x20, load("lb", instr.OpIndexSigned, 1))
	isa.registerPrimary(0x21, load("lh", instr.OpIndexSigned, 2))
	isa.registerPrimary(0x23, load("lw", instr.OpIndexSigned, 4))
	isa.registerPrimary(0x24, load("lbu", instr.OpIndexUnsigned, 1))
	isa.registerPrimary(0x25, load("lhu", instr.OpIndexUnsigned, 2))
	isa.registerPrimary(0x28, store("sb", 1))
	isa.registerPrimary(0x29, store("sh", 2))
	isa.registerPrimary(0x2B, store("sw", 4))

	return isa
}

func lit(v int32) *instr.HardcodeValue {
	return &instr.HardcodeValue{Value: v}
}

func operation(l instr.Command, op instr.Operator, r instr.Command) *instr.Operation {
	return &instr.Operation{Left: l, Op: op, Right: r}
}

func assign(dst, src instr.Command) *instr.Operation {
	return instr.NewAssignment(dst, src)
}

func shiftImm(name string, op instr.Operator) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return assign(gpr(in.D()), operation(gpr(in.T()), op, lit(int32(in.Shift())))),
			mnemonic(name, RegisterNames[in.D()], RegisterNames[in.T()], hex(in.Shift()))
	}
}

func shiftVar(name string, op instr.Operator) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return assign(gpr(in.D()), operation(gpr(in.T()), op, gpr(in.S()))),
			mnemonic(name, RegisterNames[in.D()], RegisterNames[in.T()], RegisterNames[in.S()])
	}
}

func decodeJR(in Instruction, _ uint32) (instr.Command, string) {
	return &instr.Goto{Target: gpr(in.S())}, mnemonic("jr", RegisterNames[in.S()])
}

func decodeJALR(in Instruction, _ uint32) (instr.Command, string) {
	return &instr.JumpSubroutine{Target: gpr(in.S()), Return: gpr(in.D())},
		mnemonic("jalr", RegisterNames[in.D()], RegisterNames[in.S()])
}

func trap(name string) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return &instr.CustomCall{Name: name, Param: int32(in.Code())}, mnemonic(name, hex(in.Code()))
	}
}

func moveFrom(name, src string) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return assign(gpr(in.D()), register(src)), mnemonic(name, RegisterNames[in.D()])
	}
}

func moveTo(name, dst string) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return assign(register(dst), gpr(in.S())), mnemonic(name, RegisterNames[in.S()])
	}
}

func multiply(name string, op instr.Operator) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return assign(hiLo(), operation(gpr(in.S()), op, gpr(in.T()))),
			mnemonic(name, RegisterNames[in.S()], RegisterNames[in.T()])
	}
}

// divide expands into the quotient and remainder assignments, which the
// generic pass later splits into separate lines.
func divide(name string, quot, rem instr.Operator) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return &instr.MultipleCommands{Commands: []instr.Command{
				assign(register(LORegister), operation(gpr(in.S()), quot, gpr(in.T()))),
				assign(register(HIRegister), operation(gpr(in.S()), rem, gpr(in.T()))),
			}},
			mnemonic(name, RegisterNames[in.S()], RegisterNames[in.T()])
	}
}

func threeReg(name string, op instr.Operator) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return assign(gpr(in.D()), operation(gpr(in.S()), op, gpr(in.T()))),
			mnemonic(name, RegisterNames[in.D()], RegisterNames[in.S()], RegisterNames[in.T()])
	}
}

func decodeADDU(in Instruction, address uint32) (instr.Command, string) {
	var src uint32
	switch {
	case in.S() == 0:
		src = in.T()
	case in.T() == 0:
		src = in.S()
	default:
		return threeReg("addu", instr.OpAddUnsigned)(in, address)
	}

	return assign(gpr(in.D()), gpr(src)), mnemonic("move", RegisterNames[in.D()], RegisterNames[src])
}

func decodeNOR(in Instruction, _ uint32) (instr.Command, string) {
	var src uint32
	switch {
	case in.S() == 0:
		src = in.T()
	case in.T() == 0:
		src = in.S()
	default:
		return assign(gpr(in.D()), &instr.Not{Target: operation(gpr(in.S()), instr.OpOr, gpr(in.T()))}),
			mnemonic("nor", RegisterNames[in.D()], RegisterNames[in.S()], RegisterNames[in.T()])
	}

	return assign(gpr(in.D()), &instr.Not{Target: gpr(src)}),
		mnemonic("not", RegisterNames[in.D()], RegisterNames[src])
}

func ifGoto(cond instr.Command, target uint32) *instr.If {
	return &instr.If{Cond: cond, Body: instr.NewLiteralGoto(target)}
}

func branchZero(name string, op instr.Operator) decodeFunc {
	return func(in Instruction, address uint32) (instr.Command, string) {
		target := in.BranchTarget(address)
		return ifGoto(operation(gpr(in.S()), op, lit(0)), target),
			mnemonic(name, RegisterNames[in.S()], hex(target))
	}
}

func branchZeroLink(name string, op instr.Operator) decodeFunc {
	return func(in Instruction, address uint32) (instr.Command, string) {
		target := in.BranchTarget(address)
		call := &instr.JumpSubroutine{Target: lit(int32(target)), Return: register(LinkRegister)}
		return &instr.If{Cond: operation(gpr(in.S()), op, lit(0)), Body: call},
			mnemonic(name, RegisterNames[in.S()], hex(target))
	}
}

func decodeJ(in Instruction, address uint32) (instr.Command, string) {
	target := in.JumpTarget(address)
	return instr.NewLiteralGoto(target), mnemonic("j", hex(target))
}

func decodeJAL(in Instruction, address uint32) (instr.Command, string) {
	target := in.JumpTarget(address)
	return &instr.JumpSubroutine{Target: lit(int32(target)), Return: register(LinkRegister)},
		mnemonic("jal", hex(target))
}

func decodeBEQ(in Instruction, address uint32) (instr.Command, string) {
	target := in.BranchTarget(address)

	switch {
	case in.S() == 0 && in.T() == 0:
		return instr.NewLiteralGoto(target), mnemonic("b", hex(target))
	case in.S() == 0:
		return ifGoto(operation(gpr(in.T()), instr.OpEqual, lit(0)), target),
			mnemonic("bez", RegisterNames[in.T()], hex(target))
	case in.T() == 0:
		return ifGoto(operation(gpr(in.S()), instr.OpEqual, lit(0)), target),
			mnemonic("bez", RegisterNames[in.S()], hex(target))
	default:
		return ifGoto(operation(gpr(in.S()), instr.OpEqual, gpr(in.T())), target),
			mnemonic("beq", RegisterNames[in.S()], RegisterNames[in.T()], hex(target))
	}
}

func decodeBNE(in Instruction, address uint32) (instr.Command, string) {
	target := in.BranchTarget(address)

	switch {
	case in.T() == 0:
		return ifGoto(operation(gpr(in.S()), instr.OpNotEqual, lit(0)), target),
			mnemonic("bnz", RegisterNames[in.S()], hex(target))
	case in.S() == 0:
		return ifGoto(operation(gpr(in.T()), instr.OpNotEqual, lit(0)), target),
			mnemonic("bnz", RegisterNames[in.T()], hex(target))
	default:
		return ifGoto(operation(gpr(in.S()), instr.OpNotEqual, gpr(in.T())), target),
			mnemonic("bne", RegisterNames[in.S()], RegisterNames[in.T()], hex(target))
	}
}

// immArith decodes the forms whose immediate is sign extended.
func immArith(name string, op instr.Operator) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		imm := in.ImmSE()
		return assign(gpr(in.T()), operation(gpr(in.S()), op, lit(imm))),
			mnemonic(name, RegisterNames[in.T()], RegisterNames[in.S()], hex(uint32(imm)))
	}
}

// immLogic decodes the bitwise forms, whose immediate is zero extended.
func immLogic(name string, op instr.Operator) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return assign(gpr(in.T()), operation(gpr(in.S()), op, lit(int32(in.Imm())))),
			mnemonic(name, RegisterNames[in.T()], RegisterNames[in.S()], hex(in.Imm()))
	}
}

func decodeADDIU(in Instruction, address uint32) (instr.Command, string) {
	switch {
	case in.S() == 0:
		imm := in.ImmSE()
		return assign(gpr(in.T()), lit(imm)), mnemonic("li", RegisterNames[in.T()], hex(uint32(imm)))
	case in.Imm() == 0:
		return assign(gpr(in.T()), gpr(in.S())), mnemonic("move", RegisterNames[in.T()], RegisterNames[in.S()])
	default:
		return immArith("addiu", instr.OpAddUnsigned)(in, address)
	}
}

func decodeORI(in Instruction, address uint32) (instr.Command, string) {
	if in.S() == 0 {
		return assign(gpr(in.T()), lit(int32(in.Imm()))), mnemonic("li", RegisterNames[in.T()], hex(in.Imm()))
	}

	return immLogic("ori", instr.OpOr)(in, address)
}

func decodeLUI(in Instruction, _ uint32) (instr.Command, string) {
	return assign(gpr(in.T()), lit(int32(in.Imm()<<16))), mnemonic("lui", RegisterNames[in.T()], hex(in.Imm()))
}

func memory(size int, base uint32, op instr.Operator, offset int32) *instr.ByteTruncation {
	return &instr.ByteTruncation{Size: size, Inner: operation(gpr(base), op, lit(offset))}
}

func load(name string, op instr.Operator, size int) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return assign(gpr(in.T()), memory(size, in.S(), op, in.ImmSE())),
			mnemonic(name, RegisterNames[in.T()], memOperand(in.ImmSE(), in.S()))
	}
}

func store(name string, size int) decodeFunc {
	return func(in Instruction, _ uint32) (instr.Command, string) {
		return assign(memory(size, in.S(), instr.OpIndexSigned, in.ImmSE()), gpr(in.T())),
			mnemonic(name, RegisterNames[in.T()], memOperand(in.ImmSE(), in.S()))
	}
}
