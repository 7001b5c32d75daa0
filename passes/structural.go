package passes

import (
	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// StructuralSimplify removes dead lines and labels, inverts
// `if (C) goto X; goto Y; X:` into `if (!C) goto Y`, and propagates
// register assignments forward into their single use. It reports whether
// it changed p.
func StructuralSimplify(p *program.Program) bool {
	changed := false

	for i := 0; i < p.Len(); i++ {
		l := p.At(i)

		switch {
		case l.IsSynthetic() && l.IsNop():
			p.Remove(i)
			i--
			changed = true

		case l.IsLabel() && i != 0 && !labelUsed(p, l.Command.(*instr.Label).Location):
			traceLine(passStructural, "unused label removed", p, i, "label", instr.Display(l.Command))
			p.Remove(i)
			i--
			changed = true

		case invertIfGotoGoto(p, i):
			i--
			changed = true

		case propagateAssignment(p, i):
			i--
			changed = true
		}
	}

	return changed
}

func labelUsed(p *program.Program, location uint32) bool {
	return len(p.BranchesTargeting(location)) > 0
}

// invertIfGotoGoto rewrites `if (C) goto X; goto Y; X:` at pos into
// `if (!C) goto Y; X:`. Nops between the lines are skipped.
func invertIfGotoGoto(p *program.Program, pos int) bool {
	target, ok := ifGotoTarget(p.At(pos).Command)
	if !ok {
		return false
	}

	next := p.NextNonNop(pos)
	if next >= p.Len() {
		return false
	}

	jump, ok := p.At(next).Command.(*instr.Goto)
	if !ok {
		return false
	}

	after := p.NextNonNop(next)
	if after >= p.Len() {
		return false
	}

	label, ok := p.At(after).Command.(*instr.Label)
	if !ok || label.Location != target {
		return false
	}

	branch := p.At(pos).Command.(*instr.If)
	branch.Cond = &instr.Not{Target: branch.Cond}
	branch.Body = jump
	p.At(next).Neutralize()

	traceLine(passStructural, "branch inverted", p, pos)

	return true
}
