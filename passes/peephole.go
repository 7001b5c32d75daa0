package passes

import (
	"math"

	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

// ExpressionPeephole simplifies the expressions inside every line,
// bottom-up. Each node is rewritten at most once per call, so repeated
// calls are needed to reach a fixed point. It reports whether it changed
// p.
func ExpressionPeephole(p *program.Program) bool {
	changed := false

	for i, l := range p.Lines() {
		if l.IsNop() || l.IsLabel() {
			continue
		}

		rewrites := 0
		l.Command = instr.Walk(l.Command, func(node, parent instr.Command) instr.Command {
			if out, ok := simplifyNode(node, parent); ok {
				rewrites++
				return out
			}
			return node
		})

		if rewrites > 0 {
			changed = true
			traceLine(passExpression, "expression simplified", p, i, "rewrites", rewrites, "result", instr.Display(l.Command))
		}
	}

	return changed
}

type rule func(node, parent instr.Command) (instr.Command, bool)

var rules = []rule{
	removeDoubleNot,
	pushNotIntoComparison,
	collapseBooleanCompare,
	foldConstants,
	normalizeNegativeLiteral,
	collectShiftMultiply,
	combineOffsets,
	literalToRight,
}

func simplifyNode(node, parent instr.Command) (instr.Command, bool) {
	for _, r := range rules {
		if out, ok := r(node, parent); ok {
			return out, true
		}
	}

	return node, false
}

func literal(c instr.Command) (int32, bool) {
	v, ok := c.(*instr.HardcodeValue)
	if !ok {
		return 0, false
	}

	return v.Value, true
}

// !!x => x
func removeDoubleNot(node, _ instr.Command) (instr.Command, bool) {
	outer, ok := node.(*instr.Not)
	if !ok {
		return nil, false
	}

	inner, ok := outer.Target.(*instr.Not)
	if !ok {
		return nil, false
	}

	return inner.Target, true
}

// !(a < b) => a >= b, where the result is used as a condition.
func pushNotIntoComparison(node, parent instr.Command) (instr.Command, bool) {
	n, ok := node.(*instr.Not)
	if !ok || !isConditionContext(parent) {
		return nil, false
	}

	cmp, ok := n.Target.(*instr.Operation)
	if !ok {
		return nil, false
	}

	negated, ok := cmp.Op.Negate()
	if !ok {
		return nil, false
	}

	cmp.Op = negated

	return cmp, true
}

func isConditionContext(parent instr.Command) bool {
	switch parent := parent.(type) {
	case *instr.If:
		return true
	case *instr.Operation:
		return parent.Op == instr.OpLogicalAnd || parent.Op == instr.OpLogicalOr
	}

	return false
}

// (a < b) != 0 => a < b, (a < b) == 0 => a >= b, and likewise against 1.
func collapseBooleanCompare(node, _ instr.Command) (instr.Command, bool) {
	o, ok := node.(*instr.Operation)
	if !ok || (o.Op != instr.OpEqual && o.Op != instr.OpNotEqual) {
		return nil, false
	}

	cmp, ok := o.Left.(*instr.Operation)
	if !ok || !cmp.Op.IsComparison() {
		return nil, false
	}

	v, ok := literal(o.Right)
	if !ok || (v != 0 && v != 1) {
		return nil, false
	}

	keep := (o.Op == instr.OpNotEqual) == (v == 0)
	if !keep {
		negated, _ := cmp.Op.Negate()
		cmp.Op = negated
	}

	return cmp, true
}

// a + -k => a - k and a - -k => a + k. Negative values that look like
// KSEG0 addresses are left alone.
func normalizeNegativeLiteral(node, _ instr.Command) (instr.Command, bool) {
	o, ok := node.(*instr.Operation)
	if !ok {
		return nil, false
	}

	opposite, ok := o.Op.Opposite()
	if !ok {
		return nil, false
	}

	v, ok := literal(o.Right)
	if !ok || v >= 0 || v == math.MinInt32 || instr.IsHighMemory(v) {
		return nil, false
	}

	o.Op = opposite
	o.Right = &instr.HardcodeValue{Value: -v}

	return o, true
}

// k1 op k2 => k
func foldConstants(node, _ instr.Command) (instr.Command, bool) {
	o, ok := node.(*instr.Operation)
	if !ok {
		return nil, false
	}

	a, ok := literal(o.Left)
	if !ok {
		return nil, false
	}

	b, ok := literal(o.Right)
	if !ok {
		return nil, false
	}

	v, ok := evaluate(o.Op, a, b)
	if !ok {
		return nil, false
	}

	return &instr.HardcodeValue{Value: v}, true
}

// evaluate computes a op b with 32-bit wraparound. Comparisons, memory
// accesses, assignments and division by zero are not evaluated.
func evaluate(op instr.Operator, a, b int32) (int32, bool) {
	ua, ub := uint32(a), uint32(b)

	switch op {
	case instr.OpAddSigned, instr.OpAddUnsigned:
		return a + b, true
	case instr.OpSubSigned, instr.OpSubUnsigned:
		return a - b, true
	case instr.OpMulSigned, instr.OpMulUnsigned:
		return a * b, true
	case instr.OpDivSigned:
		if b == 0 || (a == math.MinInt32 && b == -1) {
			return 0, false
		}
		return a / b, true
	case instr.OpDivUnsigned:
		if b == 0 {
			return 0, false
		}
		return int32(ua / ub), true
	case instr.OpModSigned:
		if b == 0 || (a == math.MinInt32 && b == -1) {
			return 0, false
		}
		return a % b, true
	case instr.OpModUnsigned:
		if b == 0 {
			return 0, false
		}
		return int32(ua % ub), true
	case instr.OpAnd:
		return a & b, true
	case instr.OpOr:
		return a | b, true
	case instr.OpXor:
		return a ^ b, true
	case instr.OpShiftLeft:
		return int32(ua << (ub & 31)), true
	case instr.OpShiftRightArith:
		return a >> (ub & 31), true
	case instr.OpShiftRightLogical:
		return int32(ua >> (ub & 31)), true
	default:
		return 0, false
	}
}

// (a << k) + a => a * ((1 << k) + 1), and likewise for subtraction.
func collectShiftMultiply(node, _ instr.Command) (instr.Command, bool) {
	o, ok := node.(*instr.Operation)
	if !ok || !o.Op.IsAdditive() {
		return nil, false
	}

	shift, ok := o.Left.(*instr.Operation)
	if !ok || shift.Op != instr.OpShiftLeft || !instr.Equal(shift.Left, o.Right) {
		return nil, false
	}

	k, ok := literal(shift.Right)
	if !ok || k < 0 || k > 30 {
		return nil, false
	}

	factor := int32(1) << k
	if o.Op.IsAdd() {
		factor++
	} else {
		factor--
	}

	mul := instr.OpMulUnsigned
	if o.Op == instr.OpAddSigned || o.Op == instr.OpSubSigned {
		mul = instr.OpMulSigned
	}

	return &instr.Operation{Left: shift.Left, Op: mul, Right: &instr.HardcodeValue{Value: factor}}, true
}

// (a + k1) - k2 => a + (k1 - k2)
func combineOffsets(node, _ instr.Command) (instr.Command, bool) {
	o, ok := node.(*instr.Operation)
	if !ok || !o.Op.IsAdditive() {
		return nil, false
	}

	k2, ok := literal(o.Right)
	if !ok {
		return nil, false
	}

	inner, ok := o.Left.(*instr.Operation)
	if !ok || !inner.Op.IsAdditive() {
		return nil, false
	}

	k1, ok := literal(inner.Right)
	if !ok {
		return nil, false
	}

	if !inner.Op.IsAdd() {
		k1 = -k1
	}
	if !o.Op.IsAdd() {
		k2 = -k2
	}

	total := k1 + k2
	if total == 0 {
		return inner.Left, true
	}

	add := instr.OpAddUnsigned
	if inner.Op == instr.OpAddSigned || inner.Op == instr.OpSubSigned {
		add = instr.OpAddSigned
	}

	return &instr.Operation{Left: inner.Left, Op: add, Right: &instr.HardcodeValue{Value: total}}, true
}

// 4 + a => a + 4, 4 < a => a > 4
func literalToRight(node, _ instr.Command) (instr.Command, bool) {
	o, ok := node.(*instr.Operation)
	if !ok || o.Op == instr.OpAssign || o.Op.IsIndex() {
		return nil, false
	}

	if _, ok := literal(o.Left); !ok {
		return nil, false
	}
	if _, ok := literal(o.Right); ok {
		return nil, false
	}

	switch {
	case o.Op.Commutative():
	case o.Op.IsComparison():
		o.Op, _ = o.Op.Mirror()
	default:
		return nil, false
	}

	o.Left, o.Right = o.Right, o.Left

	return o, true
}

