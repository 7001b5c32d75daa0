// Package instr defines the pseudo-code command tree that the decoder
// produces for every instruction word and that the rewrite passes mutate.
//
// The set of Command implementations is closed. Every structural
// operation in this package is a free function that switches over the
// concrete types and panics when it meets a type it does not know, so a
// new variant cannot be added without touching each operation.
package instr

// Command is a node of a pseudo-code tree.
type Command interface {
	command()
}

// Register names a machine register, e.g. "$a0" or "$HI".
type Register struct {
	Name string
}

// HardcodeValue is a literal. Passes may update Value in place.
type HardcodeValue struct {
	Value int32
}

// Operation is a binary operation. With Op == OpAssign it is a statement.
type Operation struct {
	Left  Command
	Op    Operator
	Right Command
}

// If executes Body when Cond holds. Body is a Goto or a JumpSubroutine.
type If struct {
	Cond Command
	Body Command
}

// Goto transfers control to Target, a literal address or an expression.
type Goto struct {
	Target Command
}

// JumpSubroutine calls Target and stores the return address in Return.
type JumpSubroutine struct {
	Target Command
	Return Command
}

// Label marks the position a branch to Location lands on.
type Label struct {
	Location uint32
}

// Nop does nothing. Use NopCommand rather than allocating new values.
type Nop struct{}

// Not negates Target.
type Not struct {
	Target Command
}

// ByteTruncation narrows Inner to Size bytes (1, 2 or 4).
type ByteTruncation struct {
	Size  int
	Inner Command
}

// CustomCall is a system trap such as syscall or break.
type CustomCall struct {
	Name  string
	Param int32
}

// MultiRegister is a tuple destination such as $HI:$LO.
type MultiRegister struct {
	Registers []Command
}

// MultipleCommands is produced by the decoder for instructions that
// expand into several statements. It must be split into separate lines
// before any pass other than display looks at it.
type MultipleCommands struct {
	Commands []Command
}

// Unrecognized marks an instruction word the decoder does not implement.
type Unrecognized struct{}

// NopCommand is the shared Nop value.
var NopCommand = &Nop{}

func (*Register) command()         {}
func (*HardcodeValue) command()    {}
func (*Operation) command()        {}
func (*If) command()               {}
func (*Goto) command()             {}
func (*JumpSubroutine) command()   {}
func (*Label) command()            {}
func (*Nop) command()              {}
func (*Not) command()              {}
func (*ByteTruncation) command()   {}
func (*CustomCall) command()       {}
func (*MultiRegister) command()    {}
func (*MultipleCommands) command() {}
func (*Unrecognized) command()     {}

// NewAssignment builds `left = right`.
func NewAssignment(left, right Command) *Operation {
	return &Operation{Left: left, Op: OpAssign, Right: right}
}

// NewLiteralGoto builds a goto to a literal address.
func NewLiteralGoto(location uint32) *Goto {
	return &Goto{Target: &HardcodeValue{Value: int32(location)}}
}

// AsAssignment returns c as an assignment, if it is one.
func AsAssignment(c Command) (*Operation, bool) {
	op, ok := c.(*Operation)
	if !ok || op.Op != OpAssign {
		return nil, false
	}

	return op, true
}

// IsRegisterLike reports whether c is a Register or a MultiRegister.
func IsRegisterLike(c Command) bool {
	switch c.(type) {
	case *Register, *MultiRegister:
		return true
	default:
		return false
	}
}

// LiteralTarget returns the literal location a Goto jumps to.
func LiteralTarget(c Command) (uint32, bool) {
	g, ok := c.(*Goto)
	if !ok {
		return 0, false
	}

	v, ok := g.Target.(*HardcodeValue)
	if !ok {
		return 0, false
	}

	return uint32(v.Value), true
}
