package config_test

import (
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxdecomp/config"
	"github.com/sarchlab/psxdecomp/core"
)

var _ = Describe("Job", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	Context("Load", func() {
		It("should read hex and decimal addresses", func() {
			path := write("job.yaml", `
input: game.exe
output: game.txt
start: 0x800
end: 2303
offset: "0x8000F800"
format: table
log_level: trace
max_rounds: 50
lint: true
`)

			job, err := config.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(job.Input).To(Equal("game.exe"))
			Expect(job.Start).To(Equal(config.Address(0x800)))
			Expect(job.End).To(Equal(config.Address(0x8FF)))
			Expect(job.Offset).To(Equal(config.Address(0x8000F800)))
			Expect(job.Format).To(Equal(config.FormatTable))
			Expect(job.MaxRounds).To(Equal(50))
			Expect(job.Lint).To(BeTrue())
			Expect(job.Length()).To(Equal(0x100))
		})

		It("should keep defaults for missing fields", func() {
			job, err := config.Load(write("job.yaml", "input: a.bin\n"))

			Expect(err).NotTo(HaveOccurred())
			Expect(job.AssemblyType).To(Equal("psx"))
			Expect(job.Format).To(Equal(config.FormatListing))
			Expect(job.LogLevel).To(Equal("warn"))
		})

		It("should reject a malformed address", func() {
			_, err := config.Load(write("job.yaml", "start: 0xZZ\n"))

			Expect(err).To(MatchError(ContainSubstring("invalid address")))
		})

		It("should report a missing file", func() {
			_, err := config.Load(filepath.Join(dir, "missing.yaml"))

			Expect(err).To(MatchError(ContainSubstring("failed to read job file")))
		})
	})

	Context("Address", func() {
		It("should work as a flag value", func() {
			var a config.Address

			Expect(a.Set("0x8000F800")).To(Succeed())
			Expect(a.String()).To(Equal("0x8000F800"))
			Expect(a.Set("0x100000000")).NotTo(Succeed())
		})
	})

	Context("Validate", func() {
		It("should accept a runnable job", func() {
			job := config.Default()
			job.Input = write("in.bin", "\x00\x00\x00\x00")
			job.Output = filepath.Join(dir, "out.txt")
			job.End = 3

			Expect(job.Validate()).To(BeEmpty())
		})

		It("should list every problem in order", func() {
			job := config.Default()
			job.Input = filepath.Join(dir, "missing.bin")
			job.Output = dir
			job.Start = 8
			job.End = 4

			Expect(job.Validate()).To(Equal([]string{
				"Input file must exist",
				"Input file must be a file",
				"Start position must come after the end position",
				"Output file must be a file",
			}))
		})

		It("should reject a directory as input", func() {
			job := config.Default()
			job.Input = dir

			Expect(job.Validate()).To(Equal([]string{"Input file must be a file"}))
		})

		It("should reject unknown formats and types", func() {
			job := config.Default()
			job.Input = write("in.bin", "")
			job.Format = "html"
			job.AssemblyType = "n64"
			job.LogLevel = "loud"

			Expect(job.Validate()).To(HaveLen(3))
		})
	})

	Context("Level", func() {
		It("should map trace to the rewrite level", func() {
			job := config.Default()
			job.LogLevel = "trace"

			Expect(job.Level()).To(Equal(core.LevelTrace))
		})

		It("should parse standard levels", func() {
			job := config.Default()
			job.LogLevel = "debug"

			Expect(job.Level()).To(Equal(slog.LevelDebug))
		})
	})
})
