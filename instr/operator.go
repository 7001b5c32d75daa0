package instr

import "fmt"

// Operator is the operator of an Operation.
type Operator int

// Operators. Signed and unsigned forms render the same way; the
// distinction only matters to constant folding.
const (
	OpAssign Operator = iota
	OpAddSigned
	OpAddUnsigned
	OpSubSigned
	OpSubUnsigned
	OpMulSigned
	OpMulUnsigned
	OpDivSigned
	OpDivUnsigned
	OpModSigned
	OpModUnsigned
	OpAnd
	OpOr
	OpXor
	OpShiftLeft
	OpShiftRightArith
	OpShiftRightLogical
	OpEqual
	OpNotEqual
	OpLessSigned
	OpLessUnsigned
	OpLessEqualSigned
	OpLessEqualUnsigned
	OpGreaterSigned
	OpGreaterUnsigned
	OpGreaterEqualSigned
	OpGreaterEqualUnsigned
	OpLogicalAnd
	OpLogicalOr
	OpIndexSigned
	OpIndexUnsigned
	numOperators
)

type operatorInfo struct {
	name        string
	symbol      string
	compound    bool
	commutative bool
	negation    Operator
	mirror      Operator
	comparison  bool
}

const none Operator = -1

var operatorTable = [numOperators]operatorInfo{
	OpAssign:               {"Assign", "=", false, false, none, none, false},
	OpAddSigned:            {"AddSigned", "+", true, true, none, none, false},
	OpAddUnsigned:          {"AddUnsigned", "+", true, true, none, none, false},
	OpSubSigned:            {"SubSigned", "-", true, false, none, none, false},
	OpSubUnsigned:          {"SubUnsigned", "-", true, false, none, none, false},
	OpMulSigned:            {"MulSigned", "*", true, true, none, none, false},
	OpMulUnsigned:          {"MulUnsigned", "*", true, true, none, none, false},
	OpDivSigned:            {"DivSigned", "/", true, false, none, none, false},
	OpDivUnsigned:          {"DivUnsigned", "/", true, false, none, none, false},
	OpModSigned:            {"ModSigned", "%", true, false, none, none, false},
	OpModUnsigned:          {"ModUnsigned", "%", true, false, none, none, false},
	OpAnd:                  {"And", "&", true, true, none, none, false},
	OpOr:                   {"Or", "|", true, true, none, none, false},
	OpXor:                  {"Xor", "^", true, true, none, none, false},
	OpShiftLeft:            {"ShiftLeft", "<<", true, false, none, none, false},
	OpShiftRightArith:      {"ShiftRightArith", ">>", true, false, none, none, false},
	OpShiftRightLogical:    {"ShiftRightLogical", ">>>", true, false, none, none, false},
	OpEqual:                {"Equal", "==", false, true, OpNotEqual, OpEqual, true},
	OpNotEqual:             {"NotEqual", "!=", false, true, OpEqual, OpNotEqual, true},
	OpLessSigned:           {"LessSigned", "<", false, false, OpGreaterEqualSigned, OpGreaterSigned, true},
	OpLessUnsigned:         {"LessUnsigned", "<", false, false, OpGreaterEqualUnsigned, OpGreaterUnsigned, true},
	OpLessEqualSigned:      {"LessEqualSigned", "<=", false, false, OpGreaterSigned, OpGreaterEqualSigned, true},
	OpLessEqualUnsigned:    {"LessEqualUnsigned", "<=", false, false, OpGreaterUnsigned, OpGreaterEqualUnsigned, true},
	OpGreaterSigned:        {"GreaterSigned", ">", false, false, OpLessEqualSigned, OpLessSigned, true},
	OpGreaterUnsigned:      {"GreaterUnsigned", ">", false, false, OpLessEqualUnsigned, OpLessUnsigned, true},
	OpGreaterEqualSigned:   {"GreaterEqualSigned", ">=", false, false, OpLessSigned, OpLessEqualSigned, true},
	OpGreaterEqualUnsigned: {"GreaterEqualUnsigned", ">=", false, false, OpLessUnsigned, OpLessEqualUnsigned, true},
	OpLogicalAnd:           {"LogicalAnd", "&&", false, true, none, none, false},
	OpLogicalOr:            {"LogicalOr", "||", false, true, none, none, false},
	OpIndexSigned:          {"IndexSigned", "[]", false, false, none, none, false},
	OpIndexUnsigned:        {"IndexUnsigned", "[]", false, false, none, none, false},
}

func (o Operator) info() operatorInfo {
	if o < 0 || o >= numOperators {
		panic(fmt.Sprintf("unknown operator %d", int(o)))
	}

	return operatorTable[o]
}

func (o Operator) String() string {
	return o.info().name
}

// Symbol is the text the operator renders as.
func (o Operator) Symbol() string {
	return o.info().symbol
}

// Compound reports whether `A = A op B` may render as `A op= B`.
func (o Operator) Compound() bool {
	return o.info().compound
}

// Commutative reports whether the operands may be exchanged.
func (o Operator) Commutative() bool {
	return o.info().commutative
}

// IsComparison reports whether the operator yields 0 or 1.
func (o Operator) IsComparison() bool {
	return o.info().comparison
}

// IsIndex reports whether the operator is a memory access.
func (o Operator) IsIndex() bool {
	return o == OpIndexSigned || o == OpIndexUnsigned
}

// Negate returns the comparison that holds exactly when o does not.
func (o Operator) Negate() (Operator, bool) {
	n := o.info().negation
	return n, n != none
}

// Mirror returns the comparison with its operands exchanged, so that
// `a op b` equals `b o.Mirror() a`.
func (o Operator) Mirror() (Operator, bool) {
	m := o.info().mirror
	return m, m != none
}

// Opposite maps addition to subtraction and back, keeping signedness.
func (o Operator) Opposite() (Operator, bool) {
	switch o {
	case OpAddSigned:
		return OpSubSigned, true
	case OpAddUnsigned:
		return OpSubUnsigned, true
	case OpSubSigned:
		return OpAddSigned, true
	case OpSubUnsigned:
		return OpAddUnsigned, true
	default:
		return o, false
	}
}

// IsAdditive reports whether o is an addition or a subtraction.
func (o Operator) IsAdditive() bool {
	_, ok := o.Opposite()
	return ok
}

// IsAdd reports whether o is an addition.
func (o Operator) IsAdd() bool {
	return o == OpAddSigned || o == OpAddUnsigned
}
