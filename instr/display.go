package instr

import (
	"fmt"
	"strings"
)

// Display renders c as pseudo-C.
func Display(c Command) string {
	switch c := c.(type) {
	case *Register:
		return c.Name
	case *HardcodeValue:
		return FormatValue(c.Value)
	case *Operation:
		return displayOperation(c)
	case *If:
		return "if " + Display(c.Cond) + " " + Display(c.Body)
	case *Goto:
		if loc, ok := LiteralTarget(c); ok {
			return "goto " + LabelName(loc)
		}
		return "goto " + Display(c.Target)
	case *JumpSubroutine:
		return Display(c.Return) + " <- " + Display(c.Target) + "()"
	case *Label:
		return LabelName(c.Location)
	case *Nop:
		return ""
	case *Not:
		return "!(" + stripOuterParens(Display(c.Target)) + ")"
	case *ByteTruncation:
		return "((" + truncationType(c.Size) + ") " + Display(c.Inner) + ")"
	case *CustomCall:
		return c.Name + "(" + FormatValue(c.Param) + ")"
	case *MultiRegister:
		return joinDisplays(c.Registers, ":")
	case *MultipleCommands:
		return joinDisplays(c.Commands, "; ")
	case *Unrecognized:
		return "/* unrecognized */"
	default:
		panic(unknownCommand(c))
	}
}

func displayOperation(c *Operation) string {
	switch {
	case c.Op.IsIndex():
		return Display(c.Left) + "[" + Display(c.Right) + "]"
	case c.Op == OpAssign:
		if r, ok := c.Right.(*Operation); ok && r.Op.Compound() && Equal(r.Left, c.Left) {
			return Display(c.Left) + " " + r.Op.Symbol() + "= " + Display(r.Right)
		}
		return Display(c.Left) + " = " + stripOuterParens(Display(c.Right))
	default:
		return "(" + Display(c.Left) + " " + c.Op.Symbol() + " " + Display(c.Right) + ")"
	}
}

// FormatValue renders a literal: small values in decimal, negative
// values as -0x.., and everything else, including pointer-shaped values
// in the 0x80 segment, as unsigned hex.
func FormatValue(v int32) string {
	switch {
	case v >= -9 && v <= 9:
		return fmt.Sprintf("%d", v)
	case v < 0 && !IsHighMemory(v):
		return fmt.Sprintf("-0x%X", -int64(v))
	default:
		return fmt.Sprintf("0x%X", uint32(v))
	}
}

// IsHighMemory reports whether the top byte of v is 0x80, the KSEG0
// segment most program addresses live in.
func IsHighMemory(v int32) bool {
	return uint32(v)>>24 == 0x80
}

// LabelName is the name a label at location renders as.
func LabelName(location uint32) string {
	return fmt.Sprintf("LAB_%X", location)
}

func truncationType(size int) string {
	switch size {
	case 1:
		return "byte"
	case 2:
		return "short"
	case 4:
		return "long"
	default:
		panic(fmt.Sprintf("invalid truncation size %d", size))
	}
}

func joinDisplays(cs []Command, sep string) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = Display(c)
	}

	return strings.Join(parts, sep)
}

// stripOuterParens removes one pair of parentheses when it encloses the
// whole string.
func stripOuterParens(s string) string {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}

	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}

	return s[1 : len(s)-1]
}
