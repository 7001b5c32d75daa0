package instr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxdecomp/instr"
)

func reg(name string) *instr.Register {
	return &instr.Register{Name: name}
}

func lit(v int32) *instr.HardcodeValue {
	return &instr.HardcodeValue{Value: v}
}

func op(l instr.Command, o instr.Operator, r instr.Command) *instr.Operation {
	return &instr.Operation{Left: l, Op: o, Right: r}
}

var _ = Describe("Command", func() {
	Context("Equal", func() {
		It("should compare by structure rather than identity", func() {
			a := op(reg("$a0"), instr.OpAddUnsigned, lit(4))
			b := op(reg("$a0"), instr.OpAddUnsigned, lit(4))

			Expect(a).NotTo(BeIdenticalTo(b))
			Expect(instr.Equal(a, b)).To(BeTrue())
		})

		It("should tell operators and variants apart", func() {
			Expect(instr.Equal(op(reg("$a0"), instr.OpAddUnsigned, lit(4)),
				op(reg("$a0"), instr.OpSubUnsigned, lit(4)))).To(BeFalse())
			Expect(instr.Equal(reg("$a0"), lit(0))).To(BeFalse())
			Expect(instr.Equal(instr.NopCommand, &instr.Nop{})).To(BeTrue())
			Expect(instr.Equal(&instr.Label{Location: 4}, &instr.Label{Location: 8})).To(BeFalse())
		})
	})

	Context("Contains", func() {
		It("should find nested sub-terms", func() {
			c := instr.NewAssignment(reg("$v0"),
				&instr.ByteTruncation{Size: 4, Inner: op(reg("$gp"), instr.OpIndexSigned, lit(0x270))})

			Expect(instr.Contains(c, reg("$gp"))).To(BeTrue())
			Expect(instr.Contains(c, lit(0x270))).To(BeTrue())
			Expect(instr.Contains(c, reg("$a0"))).To(BeFalse())
		})

		It("should panic on an unsplit MultipleCommands", func() {
			m := &instr.MultipleCommands{Commands: []instr.Command{instr.NopCommand}}

			Expect(func() { instr.Contains(m, reg("$a0")) }).To(Panic())
		})
	})

	Context("IsAssignedTo and IsReadFrom", func() {
		It("should treat a register destination as write-only", func() {
			c := instr.NewAssignment(reg("$a0"), op(reg("$a1"), instr.OpAddUnsigned, lit(1)))

			Expect(instr.IsAssignedTo(c, reg("$a0"))).To(BeTrue())
			Expect(instr.IsReadFrom(c, reg("$a0"))).To(BeFalse())
			Expect(instr.IsReadFrom(c, reg("$a1"))).To(BeTrue())
		})

		It("should count a self-referencing right side as a read", func() {
			c := instr.NewAssignment(reg("$a0"), op(reg("$a0"), instr.OpAddUnsigned, lit(4)))

			Expect(instr.IsAssignedTo(c, reg("$a0"))).To(BeTrue())
			Expect(instr.IsReadFrom(c, reg("$a0"))).To(BeTrue())
		})

		It("should count the address of a store as a read", func() {
			store := instr.NewAssignment(
				&instr.ByteTruncation{Size: 4, Inner: op(reg("$sp"), instr.OpIndexSigned, lit(16))},
				reg("$v0"))

			Expect(instr.IsReadFrom(store, reg("$sp"))).To(BeTrue())
			Expect(instr.IsAssignedTo(store, reg("$sp"))).To(BeFalse())
		})

		It("should see calls as assigning their return slot", func() {
			call := &instr.JumpSubroutine{Target: lit(0x1000), Return: reg("$ra")}

			Expect(instr.IsAssignedTo(call, reg("$ra"))).To(BeTrue())
			Expect(instr.IsAssignedTo(&instr.If{Cond: reg("$a0"), Body: call}, reg("$ra"))).To(BeTrue())
		})

		It("should see tuple destinations writing each member", func() {
			c := instr.NewAssignment(&instr.MultiRegister{Registers: []instr.Command{reg("$HI"), reg("$LO")}},
				op(reg("$a0"), instr.OpMulSigned, reg("$a1")))

			Expect(instr.IsAssignedTo(c, reg("$LO"))).To(BeFalse())
			Expect(instr.Writes(c, reg("$LO"))).To(BeTrue())
			Expect(instr.IsAssignedToOneOf(c, []instr.Command{reg("$t0"), reg("$HI")})).To(BeTrue())
		})
	})

	Context("Swap", func() {
		It("should replace every occurrence with its own copy", func() {
			c := op(reg("$a0"), instr.OpAddUnsigned, reg("$a0"))
			to := op(reg("$v0"), instr.OpShiftLeft, lit(2))

			out := instr.Swap(c, reg("$a0"), to)

			Expect(instr.Display(out)).To(Equal("(($v0 << 2) + ($v0 << 2))"))
			o := out.(*instr.Operation)
			Expect(o.Left).NotTo(BeIdenticalTo(o.Right))
			Expect(o.Left).NotTo(BeIdenticalTo(to))
		})

		It("should not swap inside the replacement", func() {
			c := instr.NewAssignment(reg("$v0"), reg("$a0"))

			out := instr.Swap(c, reg("$a0"), op(reg("$a0"), instr.OpAddUnsigned, lit(1)))

			Expect(instr.Display(out)).To(Equal("$v0 = $a0 + 1"))
		})

		It("should replace the root itself", func() {
			Expect(instr.Display(instr.Swap(reg("$r0"), reg("$r0"), lit(0)))).To(Equal("0"))
		})

		It("should limit SwapRightOnly to the right operand", func() {
			c := instr.NewAssignment(reg("$a0"), op(reg("$a0"), instr.OpAddUnsigned, lit(1)))

			instr.SwapRightOnly(c, reg("$a0"), lit(7))

			Expect(instr.Display(c)).To(Equal("$a0 = 7 + 1"))
		})
	})

	Context("HardcodedLabels", func() {
		It("should collect literal goto targets only", func() {
			Expect(instr.HardcodedLabels(instr.NewLiteralGoto(0x10))).To(Equal([]uint32{0x10}))
			Expect(instr.HardcodedLabels(&instr.Goto{Target: reg("$ra")})).To(BeEmpty())
			Expect(instr.HardcodedLabels(&instr.If{Cond: reg("$a0"), Body: instr.NewLiteralGoto(8)})).
				To(Equal([]uint32{8}))
			Expect(instr.HardcodedLabels(&instr.JumpSubroutine{Target: lit(0x100), Return: reg("$ra")})).
				To(BeEmpty())
		})

		It("should panic on an unsplit MultipleCommands", func() {
			Expect(func() {
				instr.HardcodedLabels(&instr.MultipleCommands{Commands: []instr.Command{instr.NopCommand}})
			}).To(PanicWith(BeAssignableToTypeOf(&instr.InvariantError{})))
		})
	})

	Context("RegistersInvolved", func() {
		It("should flatten tuples", func() {
			c := op(&instr.MultiRegister{Registers: []instr.Command{reg("$HI"), reg("$LO")}},
				instr.OpAddUnsigned, reg("$a0"))

			names := []string{}
			for _, r := range instr.RegistersInvolved(c) {
				names = append(names, r.(*instr.Register).Name)
			}

			Expect(names).To(Equal([]string{"$HI", "$LO", "$a0"}))
		})
	})

	Context("Clone", func() {
		It("should produce an equal but independent tree", func() {
			c := &instr.If{Cond: op(reg("$v0"), instr.OpEqual, lit(0)), Body: instr.NewLiteralGoto(4)}

			d := instr.Clone(c).(*instr.If)
			Expect(instr.Equal(c, d)).To(BeTrue())

			d.Cond.(*instr.Operation).Right.(*instr.HardcodeValue).Value = 1
			Expect(instr.Equal(c, d)).To(BeFalse())
		})

		It("should keep Nop shared", func() {
			Expect(instr.Clone(instr.NopCommand)).To(BeIdenticalTo(instr.NopCommand))
		})
	})
})
