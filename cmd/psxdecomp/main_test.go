package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxdecomp/config"
)

var _ = Describe("psxdecomp", func() {
	var (
		dir   string
		input string
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		input = filepath.Join(dir, "game.bin")

		// Four bytes of padding, then lui $a0, 0x8010 and ori $a0, $a0, 0x6200.
		data := []byte{
			0xAA, 0xAA, 0xAA, 0xAA,
			0x10, 0x80, 0x04, 0x3C,
			0x00, 0x62, 0x84, 0x34,
		}
		Expect(os.WriteFile(input, data, 0o644)).To(Succeed())
	})

	Context("parseJob", func() {
		It("should read flags", func() {
			job, err := parseJob([]string{
				"-i", input, "-start", "0x4", "-end", "11",
				"-offset", "0x80010000", "-skipAllSimplifies", "-format", "table",
			}, io.Discard)

			Expect(err).NotTo(HaveOccurred())
			Expect(job.Input).To(Equal(input))
			Expect(job.Start).To(Equal(config.Address(4)))
			Expect(job.End).To(Equal(config.Address(11)))
			Expect(job.Offset).To(Equal(config.Address(0x80010000)))
			Expect(job.SkipAllSimplifies).To(BeTrue())
			Expect(job.Format).To(Equal(config.FormatTable))
		})

		It("should let flags override the job file", func() {
			path := filepath.Join(dir, "job.yaml")
			Expect(os.WriteFile(path, []byte("input: other.bin\nstart: 0x4\nend: 0xB\nlint: true\n"), 0o644)).
				To(Succeed())

			job, err := parseJob([]string{"-config", path, "-i", input}, io.Discard)

			Expect(err).NotTo(HaveOccurred())
			Expect(job.Input).To(Equal(input))
			Expect(job.Start).To(Equal(config.Address(4)))
			Expect(job.End).To(Equal(config.Address(0xB)))
			Expect(job.Lint).To(BeTrue())
		})

		It("should reject malformed addresses", func() {
			_, err := parseJob([]string{"-start", "start"}, io.Discard)

			Expect(err).To(HaveOccurred())
		})
	})

	Context("run", func() {
		var job config.Job

		BeforeEach(func() {
			job = config.Default()
			job.Input = input
			job.Start = 4
			job.End = 11
		})

		It("should write the header and the listing", func() {
			var out bytes.Buffer

			Expect(run(job, &out)).To(Succeed())

			lines := strings.Split(out.String(), "\r\n")
			Expect(lines[0]).To(Equal("File:   " + input))
			Expect(lines[1]).To(Equal("Start:  0x4"))
			Expect(lines[2]).To(Equal("End:    0xB"))
			Expect(lines[3]).To(Equal("Offset: 0x0"))
			Expect(lines[4]).To(Equal("-----------------"))
			Expect(lines[5]).To(HavePrefix("00000004  10 80 04 3C     lui   $a0, 0x8010"))
			Expect(lines[5]).To(HaveSuffix("$a0 = 0x80106200"))
			Expect(lines[6]).To(Equal("00000008  00 62 84 34     ori   $a0, $a0, 0x6200"))
		})

		It("should append the lint report", func() {
			var out bytes.Buffer
			job.Lint = true

			Expect(run(job, &out)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("No lint issues found in 2 lines"))
		})

		It("should cut a range running past the end of the file", func() {
			var out bytes.Buffer
			job.End = 0x40

			Expect(run(job, &out)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("ori   $a0, $a0, 0x6200"))
		})

		It("should size the read by the file for a far end address", func() {
			job.End = 0xFFFFFFFF

			buf, err := readInput(job)

			Expect(err).NotTo(HaveOccurred())
			Expect(buf).To(Equal([]byte{0x10, 0x80, 0x04, 0x3C, 0x00, 0x62, 0x84, 0x34}))
		})

		It("should read nothing when the start is past the end of the file", func() {
			job.Start = 0x100
			job.End = 0xFFFFFFFF

			buf, err := readInput(job)

			Expect(err).NotTo(HaveOccurred())
			Expect(buf).To(BeEmpty())
		})

		It("should report a pipeline failure", func() {
			path := filepath.Join(dir, "bad.bin")
			Expect(os.WriteFile(path, []byte{0x03, 0x00, 0x00, 0x10, 0x03, 0x00, 0x00, 0x10}, 0o644)).
				To(Succeed())
			job.Input = path
			job.Start = 0
			job.End = 7

			err := run(job, io.Discard)

			Expect(err).To(MatchError(ContainSubstring("delay-slots")))
		})
	})
})
