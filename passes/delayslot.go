package passes

import (
	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// FixDelaySlots reorders every decoded branch after the instruction in
// its delay slot, which the processor executes before the branch takes
// effect.
//
// When a label sits between the branch and its delay slot, or when the
// delay slot writes a register the branch condition reads, a plain swap
// would change behavior. The branch is then rewritten so the delay slot
// runs on both paths:
//
//	if (C) goto B      if (!C) goto L
//	L: D          =>   D'
//	                   goto B
//	                   L: D
//
// A branch in a delay slot is an invariant violation.
func FixDelaySlots(p *program.Program) {
	for i := 0; i < p.Len(); i++ {
		i = fixDelaySlot(p, i)
	}
}

// delaySlot describes the lines a branch at pos delays.
type delaySlot struct {
	pos   int // the branch
	label int // an intervening label, or -1
	start int // first line of the delay group
	end   int // one past the last line of the delay group
}

func (d delaySlot) size() int {
	return d.end - d.start
}

// fixDelaySlot handles the line at pos and returns the last position it
// consumed.
func fixDelaySlot(p *program.Program, pos int) int {
	l := p.At(pos)
	if l.IsSynthetic() || !isBranch(l.Command) {
		return pos
	}

	d, ok := findDelaySlot(p, pos)
	if !ok {
		return pos
	}

	for k := d.start; k < d.end; k++ {
		if isBranch(p.At(k).Command) {
			instr.Violation(k, "branch at 0x%08X in the delay slot of the branch at 0x%08X",
				p.At(d.start).Address, l.Address)
		}
	}

	if d.size() == 1 && p.At(d.start).IsNop() {
		return pos
	}

	if d.label < 0 && !conditionConflicts(p, d) {
		return rotate(p, d)
	}

	switch c := l.Command.(type) {
	case *instr.If:
		if _, ok := c.Body.(*instr.Goto); ok {
			return splitConditionalGoto(p, d)
		}
		return splitConditionalCall(p, d)
	case *instr.JumpSubroutine:
		return duplicateBeforeCall(p, d)
	default:
		return duplicateBeforeGoto(p, d)
	}
}

func findDelaySlot(p *program.Program, pos int) (delaySlot, bool) {
	d := delaySlot{pos: pos, label: -1, start: pos + 1}

	if d.start < p.Len() && p.At(d.start).IsLabel() {
		d.label = d.start
		d.start++
	}

	if d.start >= p.Len() || p.At(d.start).IsSynthetic() {
		return d, false
	}

	d.end = d.start + 1
	for d.end < p.Len() && p.At(d.end).IsSynthetic() && !p.At(d.end).IsLabel() {
		d.end++
	}

	return d, true
}

// conditionConflicts reports whether the delay group writes a register
// the branch condition reads.
func conditionConflicts(p *program.Program, d delaySlot) bool {
	branch, ok := p.At(d.pos).Command.(*instr.If)
	if !ok {
		return false
	}

	for _, r := range instr.RegistersInvolved(branch.Cond) {
		for k := d.start; k < d.end; k++ {
			if instr.Writes(p.At(k).Command, r) {
				return true
			}
		}
	}

	return false
}

func groupClones(p *program.Program, d delaySlot) []*program.Line {
	lines := make([]*program.Line, 0, d.size())
	for k := d.start; k < d.end; k++ {
		lines = append(lines, program.NewSyntheticLine(instr.Clone(p.At(k).Command)))
	}

	return lines
}

// rotate moves the branch command below the delay group and the group's
// commands up one line each. Rows keep their address.
func rotate(p *program.Program, d delaySlot) int {
	branch := p.At(d.pos).Command
	for k := d.pos; k < d.end-1; k++ {
		p.At(k).Command = p.At(k + 1).Command
	}
	p.At(d.end - 1).Command = branch

	traceLine(passDelaySlots, "delay slot swapped", p, d.pos)

	return d.end - 1
}

// splitConditionalGoto rewrites `if (C) goto B; D` into
// `if (!C) goto L; D'; goto B; L: D`.
func splitConditionalGoto(p *program.Program, d delaySlot) int {
	branch := p.At(d.pos).Command.(*instr.If)
	taken := instr.Clone(branch.Body)
	branch.Cond = &instr.Not{Target: branch.Cond}

	at := d.pos + 1
	for _, l := range groupClones(p, d) {
		p.Insert(at, l)
		at++
	}
	p.Insert(at, program.NewSyntheticLine(taken))
	at++

	location, inserted := ensureLabel(p, at, d)
	branch.Body = instr.NewLiteralGoto(location)

	traceLine(passDelaySlots, "delay slot split", p, d.pos, "label", instr.LabelName(location))

	return d.end - 1 + d.size() + 1 + inserted
}

// splitConditionalCall rewrites `if (C) call; D` into
// `if (!C) goto L; D'; call; goto M; L: D; M:`, where M is the address
// execution resumes at after the call returns.
func splitConditionalCall(p *program.Program, d delaySlot) int {
	branch := p.At(d.pos).Command.(*instr.If)
	call := branch.Body
	resume, resumeInserted := resumeLabel(p, d)

	branch.Cond = &instr.Not{Target: branch.Cond}

	at := d.pos + 1
	for _, l := range groupClones(p, d) {
		p.Insert(at, l)
		at++
	}
	p.Insert(at, program.NewSyntheticLine(call))
	p.Insert(at+1, program.NewSyntheticLine(instr.NewLiteralGoto(resume)))
	at += 2

	location, inserted := ensureLabel(p, at, d)
	branch.Body = instr.NewLiteralGoto(location)

	traceLine(passDelaySlots, "delay slot split", p, d.pos, "label", instr.LabelName(location),
		"resume", instr.LabelName(resume))

	return d.end - 1 + d.size() + 2 + inserted + resumeInserted
}

// duplicateBeforeGoto handles `goto B; L: D`: the copy of D executes
// before the jump and the original stays for code entering through L.
func duplicateBeforeGoto(p *program.Program, d delaySlot) int {
	clones := groupClones(p, d)
	for k, l := range clones {
		p.Insert(d.pos+k, l)
	}

	traceLine(passDelaySlots, "delay slot duplicated", p, d.pos)

	return d.end - 1 + len(clones)
}

// duplicateBeforeCall handles `call; L: D`. The call returns past D, so a
// jump over the original D follows it.
func duplicateBeforeCall(p *program.Program, d delaySlot) int {
	resume, resumeInserted := resumeLabel(p, d)

	// Cloned before the goto goes in, while d still indexes the group.
	clones := groupClones(p, d)

	p.Insert(d.pos+1, program.NewSyntheticLine(instr.NewLiteralGoto(resume)))

	for k, l := range clones {
		p.Insert(d.pos+k, l)
	}

	traceLine(passDelaySlots, "delay slot duplicated", p, d.pos, "resume", instr.LabelName(resume))

	return d.end - 1 + 1 + len(clones) + resumeInserted
}

// ensureLabel returns the location of the label in front of the delay
// group, whose first line is now at pos. When the branch had no
// intervening label, one is inserted at pos and the second result is 1.
func ensureLabel(p *program.Program, pos int, d delaySlot) (uint32, int) {
	if d.label >= 0 {
		return p.At(pos).Command.(*instr.Label).Location, 0
	}

	location := p.At(pos).Address
	p.Insert(pos, program.NewSyntheticLine(&instr.Label{Location: location}))

	return location, 1
}

// resumeLabel returns the location right after the delay group, placing
// a label there unless one exists. The second result is 1 when a label
// was inserted.
func resumeLabel(p *program.Program, d delaySlot) (uint32, int) {
	location := p.At(d.start).Address + program.WordSize
	if _, found := p.FindLabel(location); found {
		return location, 0
	}

	p.Insert(d.end, program.NewSyntheticLine(&instr.Label{Location: location}))

	return location, 1
}
