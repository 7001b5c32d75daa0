package instr

// Equal reports whether a and b have the same shape and content.
func Equal(a, b Command) bool {
	if a == nil || b == nil {
		return a == b
	}

	switch a := a.(type) {
	case *Register:
		b, ok := b.(*Register)
		return ok && a.Name == b.Name
	case *HardcodeValue:
		b, ok := b.(*HardcodeValue)
		return ok && a.Value == b.Value
	case *Operation:
		b, ok := b.(*Operation)
		return ok && a.Op == b.Op && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *If:
		b, ok := b.(*If)
		return ok && Equal(a.Cond, b.Cond) && Equal(a.Body, b.Body)
	case *Goto:
		b, ok := b.(*Goto)
		return ok && Equal(a.Target, b.Target)
	case *JumpSubroutine:
		b, ok := b.(*JumpSubroutine)
		return ok && Equal(a.Target, b.Target) && Equal(a.Return, b.Return)
	case *Label:
		b, ok := b.(*Label)
		return ok && a.Location == b.Location
	case *Nop:
		_, ok := b.(*Nop)
		return ok
	case *Not:
		b, ok := b.(*Not)
		return ok && Equal(a.Target, b.Target)
	case *ByteTruncation:
		b, ok := b.(*ByteTruncation)
		return ok && a.Size == b.Size && Equal(a.Inner, b.Inner)
	case *CustomCall:
		b, ok := b.(*CustomCall)
		return ok && a.Name == b.Name && a.Param == b.Param
	case *MultiRegister:
		b, ok := b.(*MultiRegister)
		return ok && equalAll(a.Registers, b.Registers)
	case *MultipleCommands:
		b, ok := b.(*MultipleCommands)
		return ok && equalAll(a.Commands, b.Commands)
	case *Unrecognized:
		_, ok := b.(*Unrecognized)
		return ok
	default:
		panic(unknownCommand(a))
	}
}

func equalAll(a, b []Command) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

// Contains reports whether c or any of its descendants equals sub.
func Contains(c, sub Command) bool {
	if _, ok := c.(*MultipleCommands); ok {
		panic(unsplit("Contains"))
	}

	found := false
	Inspect(c, func(n Command) bool {
		if found {
			return false
		}
		if Equal(n, sub) {
			found = true
			return false
		}
		return true
	})

	return found
}

// IsAssignedTo reports whether c stores into x. Only an assignment whose
// destination equals x, a call whose return slot equals x, or an If
// wrapping one of those qualifies.
func IsAssignedTo(c, x Command) bool {
	switch c := c.(type) {
	case *Operation:
		return c.Op == OpAssign && Equal(c.Left, x)
	case *If:
		return IsAssignedTo(c.Body, x)
	case *JumpSubroutine:
		return Equal(c.Return, x)
	case *MultipleCommands:
		panic(unsplit("IsAssignedTo"))
	default:
		return false
	}
}

// Writes reports whether c stores into x, including partial writes
// through a tuple destination such as $HI:$LO.
func Writes(c, x Command) bool {
	if IsAssignedTo(c, x) {
		return true
	}

	var dest Command
	switch c := c.(type) {
	case *Operation:
		if c.Op == OpAssign {
			dest = c.Left
		}
	case *If:
		return Writes(c.Body, x)
	case *JumpSubroutine:
		dest = c.Return
	}

	if mr, ok := dest.(*MultiRegister); ok {
		for _, r := range mr.Registers {
			if Equal(r, x) {
				return true
			}
		}
	}

	return false
}

// IsAssignedToOneOf reports whether c writes any of xs.
func IsAssignedToOneOf(c Command, xs []Command) bool {
	for _, x := range xs {
		if Writes(c, x) {
			return true
		}
	}

	return false
}

// IsReadFrom reports whether x is read by c. The destination of an
// assignment is write-only when it is a register or a register tuple;
// any other destination, such as a memory index, reads its address
// operands.
func IsReadFrom(c, x Command) bool {
	switch c := c.(type) {
	case *Operation:
		if c.Op == OpAssign {
			if !IsRegisterLike(c.Left) && IsReadFrom(c.Left, x) {
				return true
			}
			return IsReadFrom(c.Right, x)
		}
		return Equal(c, x) || IsReadFrom(c.Left, x) || IsReadFrom(c.Right, x)
	case *JumpSubroutine:
		return IsReadFrom(c.Target, x)
	case *MultipleCommands:
		panic(unsplit("IsReadFrom"))
	default:
		if Equal(c, x) {
			return true
		}
		for _, child := range Children(c) {
			if IsReadFrom(child, x) {
				return true
			}
		}
		return false
	}
}

// Swap replaces every subtree of c equal to from with a copy of to and
// returns the new root. Replacements are not searched again.
func Swap(c, from, to Command) Command {
	if _, ok := c.(*MultipleCommands); ok {
		panic(unsplit("Swap"))
	}

	if Equal(c, from) {
		return Clone(to)
	}

	rewriteChildren(c, func(child Command) Command {
		return Swap(child, from, to)
	})

	return c
}

// SwapRightOnly applies Swap to the right operand of op only.
func SwapRightOnly(op *Operation, from, to Command) {
	op.Right = Swap(op.Right, from, to)
}

// HardcodedLabels returns the literal locations c may branch to.
// Calls do not count: a call target is not a label in this program.
func HardcodedLabels(c Command) []uint32 {
	switch c := c.(type) {
	case *Goto:
		if v, ok := c.Target.(*HardcodeValue); ok {
			return []uint32{uint32(v.Value)}
		}
		return nil
	case *If:
		return append(HardcodedLabels(c.Cond), HardcodedLabels(c.Body)...)
	case *MultipleCommands:
		panic(unsplit("HardcodedLabels"))
	default:
		return nil
	}
}

// RegistersInvolved returns every register leaf of c in tree order,
// with tuples flattened into their members.
func RegistersInvolved(c Command) []Command {
	if _, ok := c.(*MultipleCommands); ok {
		panic(unsplit("RegistersInvolved"))
	}

	var regs []Command
	Inspect(c, func(n Command) bool {
		if r, ok := n.(*Register); ok {
			regs = append(regs, r)
		}
		return true
	})

	return regs
}

// Clone returns a deep copy of c. Nop stays the shared value.
func Clone(c Command) Command {
	switch c := c.(type) {
	case nil:
		return nil
	case *Register:
		return &Register{Name: c.Name}
	case *HardcodeValue:
		return &HardcodeValue{Value: c.Value}
	case *Operation:
		return &Operation{Left: Clone(c.Left), Op: c.Op, Right: Clone(c.Right)}
	case *If:
		return &If{Cond: Clone(c.Cond), Body: Clone(c.Body)}
	case *Goto:
		return &Goto{Target: Clone(c.Target)}
	case *JumpSubroutine:
		return &JumpSubroutine{Target: Clone(c.Target), Return: Clone(c.Return)}
	case *Label:
		return &Label{Location: c.Location}
	case *Nop:
		return NopCommand
	case *Not:
		return &Not{Target: Clone(c.Target)}
	case *ByteTruncation:
		return &ByteTruncation{Size: c.Size, Inner: Clone(c.Inner)}
	case *CustomCall:
		return &CustomCall{Name: c.Name, Param: c.Param}
	case *MultiRegister:
		return &MultiRegister{Registers: cloneAll(c.Registers)}
	case *MultipleCommands:
		return &MultipleCommands{Commands: cloneAll(c.Commands)}
	case *Unrecognized:
		return &Unrecognized{}
	default:
		panic(unknownCommand(c))
	}
}

func cloneAll(cs []Command) []Command {
	out := make([]Command, len(cs))
	for i, c := range cs {
		out[i] = Clone(c)
	}

	return out
}
