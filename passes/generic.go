package passes

import (
	"slices"

	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// GenericSimplify splits every multi-statement line into one line per
// statement and, when insertLabels is set, places a Label before every
// line that some branch targets plus an anchor Label on the first line.
func GenericSimplify(p *program.Program, insertLabels bool) {
	splitMultipleCommands(p)

	if insertLabels {
		insertTargetLabels(p)
	}
}

func splitMultipleCommands(p *program.Program) {
	for i := 0; i < p.Len(); i++ {
		l := p.At(i)

		mc, ok := l.Command.(*instr.MultipleCommands)
		if !ok {
			continue
		}

		if len(mc.Commands) == 0 {
			l.Neutralize()
			continue
		}

		l.Command = mc.Commands[0]
		for k, c := range mc.Commands[1:] {
			p.Insert(i+1+k, program.NewSyntheticLine(c))
		}

		traceLine(passGeneric, "split", p, i, "statements", len(mc.Commands))
		i += len(mc.Commands) - 1
	}
}

func insertTargetLabels(p *program.Program) {
	targets := branchTargets(p)
	if len(targets) == 0 {
		return
	}

	for i := 0; i < p.Len(); i++ {
		l := p.At(i)
		if l.IsSynthetic() {
			continue
		}

		if _, found := slices.BinarySearch(targets, l.Address); found {
			p.Insert(i, program.NewSyntheticLine(&instr.Label{Location: l.Address}))
			i++
		}
	}

	if p.Len() > 0 && !p.At(0).IsLabel() {
		anchor := p.At(0).Address
		p.Insert(0, program.NewSyntheticLine(&instr.Label{Location: anchor}))
	}
}

// branchTargets returns the sorted, distinct literal branch targets of p.
func branchTargets(p *program.Program) []uint32 {
	var targets []uint32
	for _, l := range p.Lines() {
		targets = append(targets, instr.HardcodedLabels(l.Command)...)
	}

	slices.Sort(targets)

	return slices.Compact(targets)
}
