package api

import "github.com/sarchlab/psxdecomp/core"

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	isa           *core.ISA
	startPosition uint32
	loadBias      uint32
	skipAll       bool
	maxRounds     int
}

// MakeDriverBuilder creates a builder with default parameters: the PSX
// instruction set, a zero start position and bias, and every rewrite
// enabled.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{
		isa: core.PSX(),
	}
}

// WithISA sets the instruction set words are decoded with.
func (b DriverBuilder) WithISA(isa *core.ISA) DriverBuilder {
	b.isa = isa
	return b
}

// WithStartPosition sets the file offset the buffer was read from.
func (b DriverBuilder) WithStartPosition(pos uint32) DriverBuilder {
	b.startPosition = pos
	return b
}

// WithLoadBias sets the value added to file offsets to obtain memory
// addresses.
func (b DriverBuilder) WithLoadBias(bias uint32) DriverBuilder {
	b.loadBias = bias
	return b
}

// WithSkipAll disables every rewrite after decoding and statement
// splitting.
func (b DriverBuilder) WithSkipAll(skip bool) DriverBuilder {
	b.skipAll = skip
	return b
}

// WithMaxRounds bounds the number of fixed-point rounds. Zero or less
// picks a bound from the program size.
func (b DriverBuilder) WithMaxRounds(n int) DriverBuilder {
	b.maxRounds = n
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build(name string) *Driver {
	isa := b.isa
	if isa == nil {
		isa = core.PSX()
	}

	return &Driver{
		name:          name,
		isa:           isa,
		startPosition: b.startPosition,
		loadBias:      b.loadBias,
		skipAll:       b.skipAll,
		maxRounds:     b.maxRounds,
	}
}
