// Package report writes a processed program out as a text listing or a
// table.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

const (
	mnemonicColumn = 40
	originalColumn = 50
	lineEnd        = "\r\n"
)

// syntheticIndent replaces the address and byte columns of a line that
// has no encoding.
var syntheticIndent = strings.Repeat(" ", 21)

// Header describes the job a listing was produced from.
type Header struct {
	File   string
	Start  uint32
	End    uint32
	Offset uint32
}

// WriteHeader writes the block that precedes the listing rows.
func WriteHeader(w io.Writer, h Header) error {
	_, err := fmt.Fprintf(w,
		"File:   %s"+lineEnd+
			"Start:  0x%X"+lineEnd+
			"End:    0x%X"+lineEnd+
			"Offset: 0x%X"+lineEnd+
			"-----------------"+lineEnd,
		h.File, h.Start, h.End, h.Offset)
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	return nil
}

// WriteListing writes one row per line of p. A row shows the address and
// encoded bytes, the mnemonic, the rendering saved before rewriting and
// the final rendering. Synthetic lines that render to nothing are left
// out.
func WriteListing(w io.Writer, p *program.Program) error {
	for pos, l := range p.Lines() {
		row, ok := listingRow(l)
		if !ok {
			continue
		}

		if _, err := io.WriteString(w, row); err != nil {
			return fmt.Errorf("failed to write listing row %d: %w", pos, err)
		}
	}

	return nil
}

func listingRow(l *program.Line) (string, bool) {
	original, final := renderings(l)

	var sb strings.Builder

	if l.IsSynthetic() {
		if original == "" && final == "" {
			return "", false
		}
		sb.WriteString(syntheticIndent)
	} else {
		writeEncoding(&sb, l)
	}

	if !l.IsLabel() {
		sb.WriteString("     ")
		sb.WriteString(l.Mnemonic)
	}

	if original == "" && final == "" {
		sb.WriteString(lineEnd)
		return sb.String(), true
	}

	if !l.IsLabel() {
		pad(&sb, mnemonicColumn-len(l.Mnemonic))
	}

	sb.WriteString(original)

	if final != "" {
		pad(&sb, originalColumn-len(original))
		sb.WriteString(final)
	}

	sb.WriteString(lineEnd)

	return sb.String(), true
}

// renderings returns the text of the pre-rewrite and final columns. A
// label goes into the pre-rewrite column.
func renderings(l *program.Line) (original, final string) {
	if l.IsLabel() {
		return instr.Display(l.Command), ""
	}

	if l.Original != nil {
		original = instr.Display(l.Original)
	}

	return original, instr.Display(l.Command)
}

func writeEncoding(sb *strings.Builder, l *program.Line) {
	fmt.Fprintf(sb, "%08X ", l.Address)

	b := l.Bytes()
	for _, x := range b {
		fmt.Fprintf(sb, " %02X", x)
	}

	for i := len(b); i < program.WordSize; i++ {
		sb.WriteString("   ")
	}
}

func pad(sb *strings.Builder, n int) {
	sb.WriteString(strings.Repeat(" ", max(n, 1)))
}
