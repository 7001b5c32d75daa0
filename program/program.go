package program

import (
	"slices"
	"strings"

	"github.com/sarchlab/psxdecomp/instr"
)

// Program is an ordered, mutable sequence of lines. Line order is
// program order.
type Program struct {
	lines []*Line
}

// New creates a program holding lines.
func New(lines ...*Line) *Program {
	return &Program{lines: lines}
}

// Len returns the number of lines.
func (p *Program) Len() int {
	return len(p.lines)
}

// At returns the line at pos.
func (p *Program) At(pos int) *Line {
	return p.lines[pos]
}

// Lines returns the lines in order. The slice must not be modified.
func (p *Program) Lines() []*Line {
	return p.lines
}

// Append adds a line at the end.
func (p *Program) Append(l *Line) {
	p.lines = append(p.lines, l)
}

// Insert places l at pos, shifting the line at pos and everything after it.
func (p *Program) Insert(pos int, l *Line) {
	p.lines = slices.Insert(p.lines, pos, l)
}

// Remove deletes the line at pos. Decoded lines must be neutralized
// instead, since their address and size feed the listing.
func (p *Program) Remove(pos int) {
	if !p.lines[pos].IsSynthetic() {
		instr.Violation(pos, "removing decoded line at 0x%08X", p.lines[pos].Address)
	}

	p.lines = slices.Delete(p.lines, pos, pos+1)
}

// FindLabel returns the position of the first Label line for location.
func (p *Program) FindLabel(location uint32) (int, bool) {
	for i, l := range p.lines {
		if lab, ok := l.Command.(*instr.Label); ok && lab.Location == location {
			return i, true
		}
	}

	return -1, false
}

// LabelPositionOf returns the position of the Label line for location. It
// panics with an invariant error unless exactly one such line exists.
func (p *Program) LabelPositionOf(location uint32) int {
	pos, count := -1, 0
	for i, l := range p.lines {
		if lab, ok := l.Command.(*instr.Label); ok && lab.Location == location {
			if count == 0 {
				pos = i
			}
			count++
		}
	}

	if count != 1 {
		instr.Violation(pos, "expected one label %s, found %d",
			instr.LabelName(location), count)
	}

	return pos
}

// BranchesTargeting returns the positions of the lines that branch to the
// literal location.
func (p *Program) BranchesTargeting(location uint32) []int {
	var positions []int
	for i, l := range p.lines {
		if slices.Contains(instr.HardcodedLabels(l.Command), location) {
			positions = append(positions, i)
		}
	}

	return positions
}

// PrevNonNop returns the position of the closest line before pos whose
// command is not a Nop, or -1.
func (p *Program) PrevNonNop(pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if !p.lines[i].IsNop() {
			return i
		}
	}

	return -1
}

// NextNonNop returns the position of the closest line after pos whose
// command is not a Nop, or Len().
func (p *Program) NextNonNop(pos int) int {
	for i := pos + 1; i < len(p.lines); i++ {
		if !p.lines[i].IsNop() {
			return i
		}
	}

	return len(p.lines)
}

// Cursor returns a cursor positioned at pos.
func (p *Program) Cursor(pos int) Cursor {
	return Cursor{prog: p, pos: pos}
}

// Render joins the non-empty renderings of the live commands, one per
// line.
func (p *Program) Render() string {
	var out []string
	for _, l := range p.lines {
		if s := instr.Display(l.Command); s != "" {
			out = append(out, s)
		}
	}

	return strings.Join(out, "\n")
}
