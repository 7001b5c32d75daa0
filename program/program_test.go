package program_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
)

func reg(name string) *instr.Register {
	return &instr.Register{Name: name}
}

func assign(dst string, v int32) instr.Command {
	return instr.NewAssignment(reg(dst), &instr.HardcodeValue{Value: v})
}

func label(loc uint32) *program.Line {
	return program.NewSyntheticLine(&instr.Label{Location: loc})
}

var _ = Describe("Program", func() {
	var p *program.Program

	BeforeEach(func() {
		p = program.New(
			label(0x100),
			program.NewLine(0x100, 0x24040001, "li    $a0, 0x1", assign("$a0", 1)),
			program.NewLine(0x104, 0, "nop", instr.NopCommand),
			program.NewLine(0x108, 0x1000FFFD, "b     0x100", instr.NewLiteralGoto(0x100)),
			program.NewLine(0x10C, 0x24050002, "li    $a1, 0x2", assign("$a1", 2)),
		)
	})

	It("should render non-empty commands one per line", func() {
		Expect(p.Render()).To(Equal("LAB_100\n$a0 = 1\ngoto LAB_100\n$a1 = 2"))
	})

	It("should find labels and the branches targeting them", func() {
		pos, ok := p.FindLabel(0x100)
		Expect(ok).To(BeTrue())
		Expect(pos).To(Equal(0))
		Expect(p.LabelPositionOf(0x100)).To(Equal(0))
		Expect(p.BranchesTargeting(0x100)).To(Equal([]int{3}))

		_, ok = p.FindLabel(0x104)
		Expect(ok).To(BeFalse())
	})

	It("should fail when a label is missing or duplicated", func() {
		Expect(func() { p.LabelPositionOf(0x104) }).
			To(PanicWith(BeAssignableToTypeOf(&instr.InvariantError{})))

		p.Insert(2, label(0x100))
		Expect(func() { p.LabelPositionOf(0x100) }).To(Panic())
	})

	It("should skip Nops when looking for neighbours", func() {
		Expect(p.PrevNonNop(3)).To(Equal(1))
		Expect(p.NextNonNop(1)).To(Equal(3))
		Expect(p.PrevNonNop(0)).To(Equal(-1))
		Expect(p.NextNonNop(4)).To(Equal(5))
	})

	It("should refuse to remove decoded lines", func() {
		Expect(func() { p.Remove(1) }).To(Panic())

		p.Remove(0)
		Expect(p.Len()).To(Equal(4))
	})

	It("should expose the encoded bytes in memory order", func() {
		Expect(p.At(1).Bytes()).To(Equal([]byte{0x01, 0x00, 0x04, 0x24}))
		Expect(p.At(0).Bytes()).To(BeEmpty())
	})
})
