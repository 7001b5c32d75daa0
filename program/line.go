// Package program holds the decoded instruction sequence that the rewrite
// passes operate on, and the cursor used to walk it.
package program

import "github.com/sarchlab/psxdecomp/instr"

// WordSize is the encoded size of a decoded line.
const WordSize = 4

// Line is one decoded instruction word or one line inserted by a pass.
type Line struct {
	Address  uint32
	Word     uint32
	Size     int
	Mnemonic string

	// Command is the live tree that passes rewrite.
	Command instr.Command

	// Original is the snapshot taken before structural rewriting starts.
	// It is nil until the snapshot is taken and for synthetic lines.
	Original instr.Command
}

// NewLine creates a line decoded from word at address.
func NewLine(address, word uint32, mnemonic string, c instr.Command) *Line {
	return &Line{
		Address:  address,
		Word:     word,
		Size:     WordSize,
		Mnemonic: mnemonic,
		Command:  c,
	}
}

// NewSyntheticLine creates a line that does not correspond to any bytes.
func NewSyntheticLine(c instr.Command) *Line {
	return &Line{Command: c}
}

// IsSynthetic reports whether the line was inserted by a pass. The encoded
// size, not the address, decides this.
func (l *Line) IsSynthetic() bool {
	return l.Size == 0
}

// IsLabel reports whether the live command is a Label.
func (l *Line) IsLabel() bool {
	_, ok := l.Command.(*instr.Label)
	return ok
}

// IsNop reports whether the live command is a Nop.
func (l *Line) IsNop() bool {
	_, ok := l.Command.(*instr.Nop)
	return ok
}

// Neutralize replaces the live command with Nop.
func (l *Line) Neutralize() {
	l.Command = instr.NopCommand
}

// Bytes returns the encoded bytes of the line in memory order.
func (l *Line) Bytes() []byte {
	b := make([]byte, l.Size)
	for i := range b {
		b[i] = byte(l.Word >> (8 * i))
	}

	return b
}
