package passes

import (
	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// Structurize moves code so conditional branches read like if/else
// blocks. For every `if (C) goto X` it tries, in order:
//
//   - hoisting the lines between the If and a following `goto L` to just
//     after L, when that goto is the only way into L;
//   - dropping those lines when they repeat the lines right before L, and
//     jumping to the first repeat instead;
//   - merging it with an adjacent If that jumps to the same place.
//
// The first line is never examined. Structurize reports whether it
// changed p.
func Structurize(p *program.Program) bool {
	changed := false

	for i := 1; i < p.Len(); i++ {
		if _, ok := p.At(i).Command.(*instr.If); !ok {
			continue
		}

		if hoistIntoLabel(p, i) || collapseDuplicate(p, i) || mergeAdjacentIfs(p, i) {
			changed = true
			i--
		}
	}

	return changed
}

// gotoRun finds the unconditional goto ending the straight run of lines
// after the If at pos. The run may not contain labels or other Ifs.
func gotoRun(p *program.Program, pos int) (gotoPos int, location uint32, ok bool) {
	for k := pos + 1; k < p.Len(); k++ {
		c := p.At(k).Command
		switch c.(type) {
		case *instr.Label, *instr.If:
			return 0, 0, false
		case *instr.Goto:
			location, ok := instr.LiteralTarget(c)
			return k, location, ok
		}
	}

	return 0, 0, false
}

// runCommands returns the non-Nop commands strictly between from and to.
func runCommands(p *program.Program, from, to int) []instr.Command {
	var cs []instr.Command
	for k := from + 1; k < to; k++ {
		if l := p.At(k); !l.IsNop() {
			cs = append(cs, l.Command)
		}
	}

	return cs
}

func neutralizeRange(p *program.Program, from, to int) {
	for k := from + 1; k < to; k++ {
		p.At(k).Neutralize()
	}
}

// singleEntryLabel returns the position of the label for location when
// exactly one branch targets it.
func singleEntryLabel(p *program.Program, location uint32) (int, bool) {
	if len(p.BranchesTargeting(location)) != 1 {
		return 0, false
	}

	return p.FindLabel(location)
}

func hoistIntoLabel(p *program.Program, pos int) bool {
	gotoPos, location, ok := gotoRun(p, pos)
	if !ok {
		return false
	}

	run := runCommands(p, pos, gotoPos)
	if len(run) == 0 {
		return false
	}

	label, ok := singleEntryLabel(p, location)
	if !ok {
		return false
	}

	prev := p.PrevNonNop(label)
	if prev < 0 {
		return false
	}
	if _, ok := p.At(prev).Command.(*instr.Goto); !ok {
		return false
	}

	neutralizeRange(p, pos, gotoPos)
	for k, c := range run {
		p.Insert(label+1+k, program.NewSyntheticLine(instr.Clone(c)))
	}

	traceLine(passStructurize, "block hoisted", p, pos, "label", instr.LabelName(location), "lines", len(run))

	return true
}

func collapseDuplicate(p *program.Program, pos int) bool {
	gotoPos, location, ok := gotoRun(p, pos)
	if !ok {
		return false
	}

	run := runCommands(p, pos, gotoPos)
	if len(run) == 0 {
		return false
	}

	label, ok := singleEntryLabel(p, location)
	if !ok {
		return false
	}

	first, ok := matchBefore(p, label, run)
	if !ok {
		return false
	}

	// The jump must land on the first repeated line.
	var entry uint32
	insert := false
	if first > 0 && p.At(first-1).IsLabel() {
		entry = p.At(first - 1).Command.(*instr.Label).Location
	} else {
		l := p.At(first)
		if l.IsSynthetic() {
			return false
		}
		if _, exists := p.FindLabel(l.Address); exists {
			return false
		}
		entry = l.Address
		insert = true
	}

	neutralizeRange(p, pos, gotoPos)
	p.At(gotoPos).Command = instr.NewLiteralGoto(entry)
	if insert {
		p.Insert(first, program.NewSyntheticLine(&instr.Label{Location: entry}))
	}

	traceLine(passStructurize, "duplicate block removed", p, pos, "label", instr.LabelName(entry), "lines", len(run))

	return true
}

// matchBefore checks that the non-Nop lines right before the label at
// pos equal cs, and returns the position of the first of them.
func matchBefore(p *program.Program, pos int, cs []instr.Command) (int, bool) {
	k := pos
	for i := len(cs) - 1; i >= 0; i-- {
		k = p.PrevNonNop(k)
		if k < 0 || !instr.Equal(p.At(k).Command, cs[i]) {
			return 0, false
		}
	}

	return k, true
}

// mergeAdjacentIfs turns `if (A) goto L; if (B) goto L` into
// `if (A || B) goto L`.
func mergeAdjacentIfs(p *program.Program, pos int) bool {
	target, ok := ifGotoTarget(p.At(pos).Command)
	if !ok {
		return false
	}

	next := p.NextNonNop(pos)
	if next >= p.Len() {
		return false
	}

	other, ok := ifGotoTarget(p.At(next).Command)
	if !ok || other != target {
		return false
	}

	first := p.At(pos).Command.(*instr.If)
	second := p.At(next).Command.(*instr.If)
	first.Cond = &instr.Operation{Left: first.Cond, Op: instr.OpLogicalOr, Right: second.Cond}
	p.At(next).Neutralize()

	traceLine(passStructurize, "conditions merged", p, pos, "label", instr.LabelName(target))

	return true
}
