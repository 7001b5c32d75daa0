package passes

import (
	"slices"

	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// propagation is one forward scan from a register assignment looking for
// the single place its value can be substituted into.
type propagation struct {
	p      *program.Program
	origin int
	assign *instr.Operation

	// members holds the registers of a tuple destination. Tuple values are
	// never substituted; the assignment can only be dropped when a later
	// line overwrites the whole tuple.
	members []instr.Command

	deps    []instr.Command
	memory  bool
	visited []bool
}

// propagateAssignment tries to substitute the assignment at pos into its
// only use, or to drop it when its value is dead. It reports whether the
// assignment line was removed.
func propagateAssignment(p *program.Program, pos int) bool {
	a, ok := instr.AsAssignment(p.At(pos).Command)
	if !ok || !instr.IsRegisterLike(a.Left) {
		return false
	}

	s := &propagation{
		p:       p,
		origin:  pos,
		assign:  a,
		deps:    instr.RegistersInvolved(a.Right),
		memory:  readsMemory(a.Right),
		visited: make([]bool, p.Len()),
	}
	if mr, ok := a.Left.(*instr.MultiRegister); ok {
		s.members = mr.Registers
	}
	s.visited[pos] = true

	return s.scan()
}

func (s *propagation) scan() bool {
	for i := s.origin + 1; i < s.p.Len(); i++ {
		if s.visited[i] {
			return false
		}
		s.visited[i] = true

		c := s.p.At(i).Command
		if isBarrier(c) {
			return false
		}

		if _, ok := c.(*instr.Label); ok {
			return false
		}

		if location, ok := instr.LiteralTarget(c); ok {
			label, found := s.p.FindLabel(location)
			switch {
			case !found:
				return false
			case s.soleEntry(location, label):
				i = label
				continue
			case !s.usedFrom(label+1, false):
				s.drop("dead assignment removed")
				return true
			default:
				return false
			}
		}

		if touched, done := s.visit(i, c); touched {
			return done
		}

		if instr.IsAssignedToOneOf(c, s.deps) {
			return false
		}

		if s.memory && writesMemory(c) {
			return false
		}

		if location, ok := ifGotoTarget(c); ok {
			label, found := s.p.FindLabel(location)
			if !found || s.usedFrom(label+1, false) {
				return false
			}
		}
	}

	return false
}

// visit handles a line that mentions the destination. touched is false
// when the line does not; otherwise done reports whether the origin was
// removed.
func (s *propagation) visit(pos int, c instr.Command) (touched, done bool) {
	if !s.touches(c) {
		return false, false
	}

	if s.members != nil {
		if s.kills(c) {
			s.drop("dead assignment removed")
			return true, true
		}
		return true, false
	}

	if instr.Writes(c, s.assign.Left) {
		next, ok := c.(*instr.Operation)
		if !ok {
			return true, false
		}

		instr.SwapRightOnly(next, s.assign.Left, s.assign.Right)
		s.drop("assignment merged into redefinition")

		return true, true
	}

	_, isIf := c.(*instr.If)
	var used bool
	if isIf {
		used = s.usedFrom(pos, true)
	} else {
		used = s.usedFrom(pos+1, false)
	}
	if used {
		return true, false
	}

	s.p.At(pos).Command = instr.Swap(c, s.assign.Left, s.assign.Right)
	s.drop("copy propagated")

	return true, true
}

// soleEntry reports whether the goto being followed is the only way into
// the label at pos: no other branch targets it and control cannot fall
// into it.
func (s *propagation) soleEntry(location uint32, pos int) bool {
	if len(s.p.BranchesTargeting(location)) != 1 {
		return false
	}

	prev := s.p.PrevNonNop(pos)
	if prev < 0 {
		return false
	}

	_, ok := s.p.At(prev).Command.(*instr.Goto)

	return ok
}

func (s *propagation) drop(msg string) {
	traceLine(passStructural, msg, s.p, s.origin, "assignment", instr.Display(s.assign))
	s.p.At(s.origin).Neutralize()
}

// touches reports whether c mentions the destination or, for a tuple,
// any of its registers.
func (s *propagation) touches(c instr.Command) bool {
	if s.members == nil {
		return instr.Contains(c, s.assign.Left)
	}

	for _, m := range s.members {
		if instr.Contains(c, m) {
			return true
		}
	}

	return false
}

// kills reports whether c overwrites the destination without reading it.
func (s *propagation) kills(c instr.Command) bool {
	if s.members == nil {
		return instr.Writes(c, s.assign.Left) && !instr.IsReadFrom(c, s.assign.Left)
	}

	if !instr.IsAssignedTo(c, s.assign.Left) {
		return false
	}

	for _, m := range s.members {
		if instr.IsReadFrom(c, m) {
			return false
		}
	}

	return true
}

// usedFrom reports whether the destination may be read, on any path
// starting at pos, before it is overwritten. Lines the scan already
// passed are not examined again, except the origin, whose own read of
// the destination counts.
func (s *propagation) usedFrom(pos int, skipFirst bool) bool {
	return s.used(slices.Clone(s.visited), pos, skipFirst)
}

func (s *propagation) used(seen []bool, pos int, skipFirst bool) bool {
	for i := pos; i < s.p.Len(); i++ {
		c := s.p.At(i).Command

		if seen[i] && !skipFirst {
			if i != s.origin {
				return false
			}
			return s.touches(c) && !s.kills(c)
		}
		seen[i] = true

		if isBarrier(c) {
			return true
		}

		if location, ok := instr.LiteralTarget(c); ok {
			label, found := s.p.FindLabel(location)
			if !found {
				return true
			}
			i = label
			skipFirst = false
			continue
		}

		if skipFirst {
			skipFirst = false
		} else if s.touches(c) {
			return !s.kills(c)
		}

		if location, ok := ifGotoTarget(c); ok {
			label, found := s.p.FindLabel(location)
			if !found {
				return true
			}
			return s.used(seen, label+1, false) || s.used(seen, i+1, false)
		}
	}

	return false
}

func readsMemory(c instr.Command) bool {
	found := false
	instr.Inspect(c, func(n instr.Command) bool {
		if o, ok := n.(*instr.Operation); ok && o.Op.IsIndex() {
			found = true
		}
		return !found
	})

	return found
}

func writesMemory(c instr.Command) bool {
	a, ok := instr.AsAssignment(c)
	return ok && !instr.IsRegisterLike(a.Left)
}
