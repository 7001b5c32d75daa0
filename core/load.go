package core

import (
	"encoding/binary"
	"log/slog"

	"github.com/sarchlab/psxdecomp/program"
)

// DecodeBuffer decodes buf as little-endian instruction words. The first
// word sits at address startPosition+loadBias. A trailing partial word is
// not decoded.
func DecodeBuffer(buf []byte, startPosition, loadBias uint32) *program.Program {
	return DecodeBufferWith(PSX(), buf, startPosition, loadBias)
}

// DecodeBufferWith is DecodeBuffer with an explicit instruction set.
func DecodeBufferWith(isa *ISA, buf []byte, startPosition, loadBias uint32) *program.Program {
	p := program.New()
	address := startPosition + loadBias

	n := len(buf) / program.WordSize * program.WordSize
	for pos := 0; pos < n; pos += program.WordSize {
		word := binary.LittleEndian.Uint32(buf[pos:])
		c, text := isa.Decode(word, address)
		p.Append(program.NewLine(address, word, text, c))
		address += program.WordSize
	}

	if n != len(buf) {
		slog.Warn("buffer does not end on a word boundary",
			"isa", isa.Name(), "length", len(buf), "ignored", len(buf)-n)
	}

	slog.Debug("decoded buffer", "isa", isa.Name(), "lines", p.Len(),
		"start", startPosition, "bias", loadBias)

	return p
}
