package instr

// Children returns the direct sub-commands of c in tree order.
func Children(c Command) []Command {
	switch c := c.(type) {
	case *Register, *HardcodeValue, *Label, *Nop, *CustomCall, *Unrecognized:
		return nil
	case *Operation:
		return []Command{c.Left, c.Right}
	case *If:
		return []Command{c.Cond, c.Body}
	case *Goto:
		return []Command{c.Target}
	case *JumpSubroutine:
		return []Command{c.Target, c.Return}
	case *Not:
		return []Command{c.Target}
	case *ByteTruncation:
		return []Command{c.Inner}
	case *MultiRegister:
		return c.Registers
	case *MultipleCommands:
		return c.Commands
	default:
		panic(unknownCommand(c))
	}
}

// rewriteChildren replaces every direct child of c with f(child).
func rewriteChildren(c Command, f func(Command) Command) {
	switch c := c.(type) {
	case *Register, *HardcodeValue, *Label, *Nop, *CustomCall, *Unrecognized:
	case *Operation:
		c.Left = f(c.Left)
		c.Right = f(c.Right)
	case *If:
		c.Cond = f(c.Cond)
		c.Body = f(c.Body)
	case *Goto:
		c.Target = f(c.Target)
	case *JumpSubroutine:
		c.Target = f(c.Target)
		c.Return = f(c.Return)
	case *Not:
		c.Target = f(c.Target)
	case *ByteTruncation:
		c.Inner = f(c.Inner)
	case *MultiRegister:
		for i := range c.Registers {
			c.Registers[i] = f(c.Registers[i])
		}
	case *MultipleCommands:
		for i := range c.Commands {
			c.Commands[i] = f(c.Commands[i])
		}
	default:
		panic(unknownCommand(c))
	}
}

// Inspect visits c and its descendants in pre-order. Returning false
// from fn skips the children of the node just visited.
func Inspect(c Command, fn func(Command) bool) {
	if c == nil || !fn(c) {
		return
	}

	for _, child := range Children(c) {
		Inspect(child, fn)
	}
}

// Visitor rewrites a node given its parent, which is nil at the root.
// It returns the node to keep in place of node, possibly node itself.
type Visitor func(node, parent Command) Command

// Walk rewrites c bottom-up: children are visited before their parent,
// and the parent sees the already rewritten children. It returns the
// new root.
func Walk(c Command, visit Visitor) Command {
	return walk(c, nil, visit)
}

func walk(c, parent Command, visit Visitor) Command {
	if c == nil {
		return nil
	}

	rewriteChildren(c, func(child Command) Command {
		return walk(child, c, visit)
	})

	return visit(c, parent)
}
