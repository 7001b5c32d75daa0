// Some helpers using closures to generate instruction words
package valgen

import (
	"encoding/binary"
	"math/rand/v2"
)

// MakeConstGen returns a generator that always yields word.
func MakeConstGen(word uint32) func() uint32 {
	return func() uint32 {
		return word
	}
}

// MakeIncreasingGen returns a generator yielding start+1, start+2, ...
func MakeIncreasingGen(start uint32) func() uint32 {
	current := start
	return func() uint32 {
		current++
		return current
	}
}

// MakeEncodingGen returns a generator of pseudo-random words whose
// primary opcode is drawn from opcodes. The remaining 26 bits are random.
// The same seed always yields the same sequence.
func MakeEncodingGen(seed uint64, opcodes []uint32) func() uint32 {
	r := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	return func() uint32 {
		op := opcodes[r.IntN(len(opcodes))]
		return op<<26 | r.Uint32()&0x03FFFFFF
	}
}

// Buffer draws n words from gen and lays them out little-endian.
func Buffer(gen func() uint32, n int) []byte {
	buf := make([]byte, 4*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[4*i:], gen())
	}

	return buf
}
