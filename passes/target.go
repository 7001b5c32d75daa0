package passes

import (
	"github.com/sarchlab/psxdecomp/core"
	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// TargetPeephole applies the rewrites that depend on the PSX encoding:
// the always-zero register and lui/addiu or lui/ori constant pairs.
func TargetPeephole(p *program.Program) {
	foldZeroRegister(p)
	fuseUpperImmediates(p)
}

func foldZeroRegister(p *program.Program) {
	zero := &instr.Register{Name: core.ZeroRegister}
	value := &instr.HardcodeValue{Value: 0}

	for i, l := range p.Lines() {
		if a, ok := instr.AsAssignment(l.Command); ok && instr.Equal(a.Left, zero) {
			l.Neutralize()
			traceLine(passTarget, "zero register write dropped", p, i)

			continue
		}

		if instr.Contains(l.Command, zero) {
			l.Command = instr.Swap(l.Command, zero, value)
		}
	}
}

// fuseUpperImmediates merges `lui rX, hi` with an immediately following
// `addiu rX, rX, lo` or `ori rX, rX, lo` into a single constant load.
func fuseUpperImmediates(p *program.Program) {
	for i := 0; i+1 < p.Len(); i++ {
		upper, lower := p.At(i), p.At(i+1)
		if !isEncoded(upper, core.OpLUI) || lower.IsSynthetic() {
			continue
		}

		if inDelaySlot(p, i) {
			continue
		}

		hi, ok := instr.AsAssignment(upper.Command)
		if !ok {
			continue
		}

		value, ok := hi.Right.(*instr.HardcodeValue)
		if !ok {
			continue
		}

		imm, op, ok := lowerHalf(lower, hi.Left)
		if !ok {
			continue
		}

		if op == instr.OpOr {
			value.Value |= imm
		} else {
			value.Value += imm
		}

		lower.Neutralize()
		traceLine(passTarget, "upper immediate fused", p, i, "value", instr.FormatValue(value.Value))
	}
}

// lowerHalf matches `dst = dst + imm` decoded from addiu, or
// `dst = dst | imm` decoded from ori.
func lowerHalf(l *program.Line, dst instr.Command) (int32, instr.Operator, bool) {
	if !isEncoded(l, core.OpADDIU) && !isEncoded(l, core.OpORI) {
		return 0, 0, false
	}

	a, ok := instr.AsAssignment(l.Command)
	if !ok || !instr.Equal(a.Left, dst) {
		return 0, 0, false
	}

	r, ok := a.Right.(*instr.Operation)
	if !ok || !instr.Equal(r.Left, dst) {
		return 0, 0, false
	}

	if !r.Op.IsAdd() && r.Op != instr.OpOr {
		return 0, 0, false
	}

	imm, ok := r.Right.(*instr.HardcodeValue)
	if !ok {
		return 0, 0, false
	}

	return imm.Value, r.Op, true
}

func isEncoded(l *program.Line, opcode uint32) bool {
	return !l.IsSynthetic() && core.Instruction(l.Word).Opcode() == opcode
}

// inDelaySlot reports whether the decoded line at pos follows a branch.
func inDelaySlot(p *program.Program, pos int) bool {
	for k := pos - 1; k >= 0; k-- {
		l := p.At(k)
		if l.IsLabel() {
			continue
		}

		return !l.IsSynthetic() && isBranch(l.Command)
	}

	return false
}
