package passes

import (
	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// Snapshot records a copy of every decoded line's command as the
// pre-rewrite rendering shown in the listing.
func Snapshot(p *program.Program) {
	for _, l := range p.Lines() {
		if l.IsSynthetic() {
			continue
		}

		l.Original = instr.Clone(l.Command)
	}
}
