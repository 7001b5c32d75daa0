package verify

import (
	"fmt"

	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// RunLint performs static lint checks on a decoded program. Only decoded
// lines are inspected; synthetic lines carry no encoding to check.
// Returns a list of issues found in line order, or an empty list if no
// issues.
func RunLint(p *program.Program) []Issue {
	var issues []Issue

	decoded := decodedPositions(p)
	if len(decoded) == 0 {
		return issues
	}

	first := p.At(decoded[0]).Address
	last := p.At(decoded[len(decoded)-1]).Address

	for i, pos := range decoded {
		l := p.At(pos)

		if _, ok := l.Command.(*instr.Unrecognized); ok {
			issues = append(issues, Issue{
				Type:     IssueUnrecognized,
				Position: pos,
				Address:  l.Address,
				Message:  fmt.Sprintf("Unrecognized instruction word 0x%08X", l.Word),
				Details:  map[string]interface{}{"word": l.Word},
			})
			continue
		}

		if !isBranch(l.Command) {
			continue
		}

		for _, target := range instr.HardcodedLabels(l.Command) {
			if target < first || target > last {
				issues = append(issues, Issue{
					Type:     IssueExternal,
					Position: pos,
					Address:  l.Address,
					Message: fmt.Sprintf("Branch target 0x%X is outside 0x%X-0x%X",
						target, first, last),
					Details: map[string]interface{}{"target": target},
				})
			}
		}

		if i == len(decoded)-1 {
			issues = append(issues, Issue{
				Type:     IssueDelay,
				Position: pos,
				Address:  l.Address,
				Message:  "Branch in the last word has no delay slot",
			})
			continue
		}

		next := p.At(decoded[i+1])
		if isBranch(next.Command) {
			issues = append(issues, Issue{
				Type:     IssueDelay,
				Position: pos,
				Address:  l.Address,
				Message: fmt.Sprintf("Delay slot at 0x%X holds another branch",
					next.Address),
				Details: map[string]interface{}{"delay_address": next.Address},
			})
		}
	}

	return issues
}

func decodedPositions(p *program.Program) []int {
	var out []int
	for pos, l := range p.Lines() {
		if !l.IsSynthetic() {
			out = append(out, pos)
		}
	}

	return out
}

// isBranch reports whether c transfers control and so owns a delay slot.
func isBranch(c instr.Command) bool {
	switch c := c.(type) {
	case *instr.Goto, *instr.JumpSubroutine:
		return true
	case *instr.If:
		return isBranch(c.Body)
	default:
		return false
	}
}
