package instr

import "fmt"

// InvariantError reports a violated structural invariant, such as a
// missing label or a branch in a delay slot. It is raised with panic by
// the code that detects it and recovered into an error at the pipeline
// boundary.
type InvariantError struct {
	Pass     string
	Position int
	Message  string
}

func (e *InvariantError) Error() string {
	if e.Pass == "" {
		return fmt.Sprintf("line %d: %s", e.Position, e.Message)
	}

	return fmt.Sprintf("%s: line %d: %s", e.Pass, e.Position, e.Message)
}

// Violation panics with an InvariantError for the line at position.
// Position is -1 when no line is involved.
func Violation(position int, format string, args ...any) {
	panic(&InvariantError{
		Position: position,
		Message:  fmt.Sprintf(format, args...),
	})
}

func unsplit(op string) *InvariantError {
	return &InvariantError{
		Position: -1,
		Message:  op + " on MultipleCommands, which must be split first",
	}
}

func unknownCommand(c Command) string {
	return fmt.Sprintf("unknown command type %T", c)
}
