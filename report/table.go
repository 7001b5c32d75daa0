package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/psxdecomp/program"
)

// WriteTable writes p as a bordered table with the same columns as the
// listing. Rows the listing suppresses are suppressed here too.
func WriteTable(w io.Writer, p *program.Program) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Address", "Bytes", "Mnemonic", "Original", "Final"})

	for _, l := range p.Lines() {
		original, final := renderings(l)

		if l.IsSynthetic() {
			if original == "" && final == "" {
				continue
			}
			t.AppendRow(table.Row{"", "", "", original, final})
			continue
		}

		t.AppendRow(table.Row{
			fmt.Sprintf("%08X", l.Address),
			hexBytes(l.Bytes()),
			l.Mnemonic,
			original,
			final,
		})
	}

	if _, err := io.WriteString(w, t.Render()+"\n"); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	return nil
}

func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, x := range b {
		parts[i] = fmt.Sprintf("%02X", x)
	}

	return strings.Join(parts, " ")
}
