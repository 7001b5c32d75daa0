package report_test

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/program"
	"github.com/sarchlab/psxdecomp/report"
)

func spaces(n int) string {
	return strings.Repeat(" ", n)
}

func addA0() instr.Command {
	return instr.NewAssignment(&instr.Register{Name: "$a0"},
		&instr.Operation{
			Left:  &instr.Register{Name: "$a0"},
			Op:    instr.OpAddUnsigned,
			Right: &instr.HardcodeValue{Value: 4},
		})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

var _ = Describe("Listing", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("should write the header block", func() {
		err := report.WriteHeader(buf, report.Header{
			File:   "game.exe",
			Start:  0x800,
			End:    0x8FF,
			Offset: 0x8000F800,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(Equal(
			"File:   game.exe\r\n" +
				"Start:  0x800\r\n" +
				"End:    0x8FF\r\n" +
				"Offset: 0x8000F800\r\n" +
				"-----------------\r\n"))
	})

	It("should align the mnemonic and both renderings", func() {
		l := program.NewLine(0x80010000, 0x24840004, "addiu $a0, $a0, 0x4", addA0())
		l.Original = addA0()

		err := report.WriteListing(buf, program.New(l))

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(Equal(
			"80010000  04 00 84 24     addiu $a0, $a0, 0x4" + spaces(21) +
				"$a0 += 4" + spaces(42) + "$a0 += 4\r\n"))
	})

	It("should put labels in the original column", func() {
		p := program.New(program.NewSyntheticLine(&instr.Label{Location: 0x10}))

		Expect(report.WriteListing(buf, p)).To(Succeed())
		Expect(buf.String()).To(Equal(spaces(21) + "LAB_10\r\n"))
	})

	It("should end a row after the mnemonic when nothing renders", func() {
		p := program.New(program.NewLine(4, 0, "nop", instr.NopCommand))

		Expect(report.WriteListing(buf, p)).To(Succeed())
		Expect(buf.String()).To(Equal("00000004  00 00 00 00     nop\r\n"))
	})

	It("should keep the original rendering of a removed line", func() {
		l := program.NewLine(0, 0x24840004, "addiu $a0, $a0, 0x4", instr.NopCommand)
		l.Original = addA0()

		Expect(report.WriteListing(buf, program.New(l))).To(Succeed())
		Expect(buf.String()).To(Equal(
			"00000000  04 00 84 24     addiu $a0, $a0, 0x4" + spaces(21) + "$a0 += 4\r\n"))
	})

	It("should indent synthetic lines and drop empty ones", func() {
		p := program.New(
			program.NewSyntheticLine(instr.NopCommand),
			program.NewSyntheticLine(instr.NewLiteralGoto(4)),
		)

		Expect(report.WriteListing(buf, p)).To(Succeed())
		Expect(buf.String()).To(Equal(
			spaces(21) + spaces(5) + spaces(40) + spaces(50) + "goto LAB_4\r\n"))
	})

	It("should pad a long mnemonic by one space", func() {
		mnemonic := strings.Repeat("m", 45)
		p := program.New(program.NewLine(0, 0, mnemonic, addA0()))

		Expect(report.WriteListing(buf, p)).To(Succeed())
		Expect(buf.String()).To(HaveSuffix(mnemonic + " " + spaces(50) + "$a0 += 4\r\n"))
	})

	It("should report write failures", func() {
		p := program.New(program.NewLine(0, 0, "nop", instr.NopCommand))

		err := report.WriteListing(failingWriter{}, p)

		Expect(err).To(MatchError(ContainSubstring("disk full")))
	})
})

var _ = Describe("Table", func() {
	It("should list every visible line", func() {
		l := program.NewLine(0x80010000, 0x24840004, "addiu $a0, $a0, 0x4", addA0())
		p := program.New(
			program.NewSyntheticLine(&instr.Label{Location: 0x80010000}),
			l,
			program.NewSyntheticLine(instr.NopCommand),
		)
		buf := &bytes.Buffer{}

		Expect(report.WriteTable(buf, p)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("ADDRESS"))
		Expect(out).To(ContainSubstring("LAB_80010000"))
		Expect(out).To(ContainSubstring("80010000"))
		Expect(out).To(ContainSubstring("04 00 84 24"))
		Expect(out).To(ContainSubstring("$a0 += 4"))
		Expect(out).To(HaveSuffix("\n"))
	})
})
