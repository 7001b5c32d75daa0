// Package passes implements the rewrite passes that turn decoded
// instruction lines into readable pseudo-code. Each pass mutates a
// program in place; the fixed-point passes report whether they changed
// anything.
package passes

import (
	"fmt"

	"github.com/sarchlab/psxdecomp/core"
	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// isBranch reports whether c transfers control and therefore owns a
// delay slot.
func isBranch(c instr.Command) bool {
	switch c := c.(type) {
	case *instr.Goto, *instr.JumpSubroutine:
		return true
	case *instr.If:
		switch c.Body.(type) {
		case *instr.Goto, *instr.JumpSubroutine:
			return true
		}
	}

	return false
}

// isBarrier reports whether nothing can be known about register values
// after c: calls, traps, unknown words and computed jumps, whether
// conditional or not.
func isBarrier(c instr.Command) bool {
	switch c := c.(type) {
	case *instr.JumpSubroutine, *instr.CustomCall, *instr.Unrecognized:
		return true
	case *instr.Goto:
		_, literal := instr.LiteralTarget(c)
		return !literal
	case *instr.If:
		switch body := c.Body.(type) {
		case *instr.JumpSubroutine:
			return true
		case *instr.Goto:
			_, literal := instr.LiteralTarget(body)
			return !literal
		}
	}

	return false
}

// ifGotoTarget returns the literal location of an `if (C) goto L` line.
func ifGotoTarget(c instr.Command) (uint32, bool) {
	i, ok := c.(*instr.If)
	if !ok {
		return 0, false
	}

	return instr.LiteralTarget(i.Body)
}

// Pass names used in trace records.
const (
	passGeneric     = "generic-simplify"
	passTarget      = "target-peephole"
	passDelaySlots  = "delay-slots"
	passStructural  = "structural-simplify"
	passStructurize = "structurize"
	passExpression  = "expression-peephole"
)

// traceLine logs a rewrite pass made at pos, with the address of the
// line when it has one.
func traceLine(pass, msg string, p *program.Program, pos int, args ...any) {
	addr := "-"
	if pos >= 0 && pos < p.Len() && !p.At(pos).IsSynthetic() {
		addr = fmt.Sprintf("0x%08X", p.At(pos).Address)
	}

	core.Trace(pass, msg, append([]any{"pos", pos, "addr", addr}, args...)...)
}
