package passes_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/passes"
	"github.com/sarchlab/psxdecomp/program"
)

var _ = Describe("Structurize", func() {
	isZero := func(name string) *instr.Operation {
		return op(reg(name), instr.OpEqual, lit(0))
	}

	It("should merge adjacent branches to the same label", func() {
		p := program.New(
			label(0),
			word(0, ifGoto(isZero("$a0"), 0x10)),
			word(4, instr.NopCommand),
			word(8, ifGoto(isZero("$a1"), 0x10)),
			label(0x10),
			word(0x10, assign(reg("$v0"), lit(1))),
		)

		Expect(passes.Structurize(p)).To(BeTrue())

		Expect(p.Render()).To(Equal(
			"LAB_0\nif (($a0 == 0) || ($a1 == 0)) goto LAB_10\nLAB_10\n$v0 = 1"))
	})

	It("should hoist a block into a label only its goto reaches", func() {
		p := program.New(
			label(0),
			word(0, ifGoto(isZero("$a0"), 0x20)),
			word(4, assign(reg("$v0"), lit(1))),
			word(8, instr.NewLiteralGoto(0x18)),
			word(0xC, &instr.Goto{Target: reg("$ra")}),
			label(0x18),
			word(0x18, assign(reg("$v1"), reg("$v0"))),
		)

		Expect(passes.Structurize(p)).To(BeTrue())

		Expect(p.At(2).IsNop()).To(BeTrue())
		Expect(p.Render()).To(Equal(
			"LAB_0\nif ($a0 == 0) goto LAB_20\ngoto LAB_18\ngoto $ra\nLAB_18\n$v0 = 1\n$v1 = $v0"))
		Expect(passes.Structurize(p)).To(BeFalse())
	})

	It("should not hoist into a label that code falls into", func() {
		p := program.New(
			label(0),
			word(0, ifGoto(isZero("$a0"), 0x20)),
			word(4, assign(reg("$v0"), lit(1))),
			word(8, instr.NewLiteralGoto(0x10)),
			word(0xC, assign(reg("$v1"), lit(2))),
			label(0x10),
			word(0x10, assign(reg("$a1"), reg("$v0"))),
		)

		Expect(passes.Structurize(p)).To(BeFalse())
	})

	It("should jump to an existing copy of a block instead of repeating it", func() {
		p := program.New(
			label(0),
			word(0, ifGoto(isZero("$a0"), 0x20)),
			word(4, assign(reg("$v0"), lit(1))),
			word(8, instr.NewLiteralGoto(0x14)),
			word(0xC, assign(reg("$v1"), lit(2))),
			word(0x10, assign(reg("$v0"), lit(1))),
			label(0x14),
			word(0x14, assign(reg("$a1"), reg("$v0"))),
		)

		Expect(passes.Structurize(p)).To(BeTrue())

		Expect(p.Render()).To(Equal(
			"LAB_0\nif ($a0 == 0) goto LAB_20\ngoto LAB_10\n$v1 = 2\nLAB_10\n$v0 = 1\nLAB_14\n$a1 = $v0"))
	})

	It("should never touch the first line", func() {
		p := program.New(
			word(0, ifGoto(isZero("$a0"), 0x10)),
			word(4, ifGoto(isZero("$a1"), 0x10)),
		)

		Expect(passes.Structurize(p)).To(BeFalse())
		Expect(p.Render()).To(Equal("if ($a0 == 0) goto LAB_10\nif ($a1 == 0) goto LAB_10"))
	})
})
