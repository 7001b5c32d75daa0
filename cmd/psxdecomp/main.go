// Command psxdecomp decompiles a range of a PlayStation executable into
// C-like pseudo-code.
//
//	psxdecomp -i game.exe -o game.txt -start 0x800 -end 0x8FF -offset 0x8000F800
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/psxdecomp/api"
	"github.com/sarchlab/psxdecomp/config"
	"github.com/sarchlab/psxdecomp/report"
	"github.com/sarchlab/psxdecomp/verify"
)

func main() {
	job, err := parseJob(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		atexit.Exit(0)
	}
	if err != nil {
		log.Fatalf("psxdecomp: %v", err)
	}

	if messages := job.Validate(); len(messages) > 0 {
		for _, m := range messages {
			fmt.Fprintln(os.Stderr, m)
		}
		atexit.Exit(2)
	}

	level, _ := job.Level()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	out, err := openOutput(job.Output)
	if err != nil {
		log.Fatalf("psxdecomp: %v", err)
	}

	if err := run(job, out); err != nil {
		slog.Error("decompilation failed", "input", job.Input, "error", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// parseJob builds the job from the command line. When -config names a
// job file, the file is loaded first and the flags given on the command
// line are applied on top of it.
func parseJob(args []string, stderr io.Writer) (config.Job, error) {
	job := config.Default()
	configPath := ""

	fs := newFlagSet(&job, &configPath, stderr)
	if err := fs.Parse(args); err != nil {
		return job, err
	}

	if configPath == "" {
		return job, nil
	}

	job, err := config.Load(configPath)
	if err != nil {
		return job, err
	}

	fs = newFlagSet(&job, &configPath, stderr)
	if err := fs.Parse(args); err != nil {
		return job, err
	}

	return job, nil
}

func newFlagSet(job *config.Job, configPath *string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("psxdecomp", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&job.Input, "i", job.Input, "Specifies the file to use as input.")
	fs.StringVar(&job.Output, "o", job.Output, "Specifies the file to output to. Defaults to standard output.")
	fs.StringVar(&job.AssemblyType, "t", job.AssemblyType, "Specifies the type of assembly. Available options are: psx")
	fs.Var(&job.Start, "start", "Start file location of the assembly.")
	fs.Var(&job.End, "end", "End file location of the assembly, inclusive.")
	fs.Var(&job.Offset, "offset", "Offset to convert file location to memory address.")
	fs.BoolVar(&job.SkipAllSimplifies, "skipAllSimplifies", job.SkipAllSimplifies,
		"Only decode; skip every rewrite pass.")
	fs.StringVar(&job.Format, "format", job.Format, "Output format: listing or table.")
	fs.IntVar(&job.MaxRounds, "maxRounds", job.MaxRounds,
		"Bound on rewrite rounds. 0 derives the bound from the input size.")
	fs.BoolVar(&job.Lint, "lint", job.Lint, "Append a lint report of the decoded input.")
	fs.BoolVar(&job.Trace, "trace", job.Trace, "Log every pass the pipeline applies.")
	fs.StringVar(&job.LogLevel, "v", job.LogLevel, "Log level: trace, debug, info, warn or error.")
	fs.StringVar(configPath, "config", *configPath, "YAML job file. Flags override its values.")

	return fs
}

// openOutput opens path for writing, or standard output when path is
// empty. The returned writer is flushed and closed on exit.
func openOutput(path string) (io.Writer, error) {
	var f *os.File
	if path == "" {
		f = os.Stdout
	} else {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
	}

	w := bufio.NewWriter(f)
	atexit.Register(func() {
		if err := w.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "psxdecomp: failed to flush output: %v\n", err)
		}
		if f != os.Stdout {
			f.Close()
		}
	})

	return w, nil
}

func run(job config.Job, out io.Writer) error {
	buf, err := readInput(job)
	if err != nil {
		return err
	}

	driver := api.MakeDriverBuilder().
		WithStartPosition(uint32(job.Start)).
		WithLoadBias(uint32(job.Offset)).
		WithSkipAll(job.SkipAllSimplifies).
		WithMaxRounds(job.MaxRounds).
		Build("Driver")
	if job.Trace {
		driver.AcceptHook(api.PassLogger{})
	}

	p, err := driver.Process(buf)
	if err != nil {
		return fmt.Errorf("failed to decompile %s: %w", job.Input, err)
	}

	err = report.WriteHeader(out, report.Header{
		File:   job.Input,
		Start:  uint32(job.Start),
		End:    uint32(job.End),
		Offset: uint32(job.Offset),
	})
	if err != nil {
		return err
	}

	if job.Format == config.FormatTable {
		err = report.WriteTable(out, p)
	} else {
		err = report.WriteListing(out, p)
	}
	if err != nil {
		return err
	}

	if !job.Lint {
		return nil
	}

	return writeLint(job, buf, out)
}

// writeLint decodes buf again without rewriting and reports on it.
func writeLint(job config.Job, buf []byte, out io.Writer) error {
	raw, err := api.MakeDriverBuilder().
		WithStartPosition(uint32(job.Start)).
		WithLoadBias(uint32(job.Offset)).
		WithSkipAll(true).
		Build("Lint").
		Process(buf)
	if err != nil {
		return fmt.Errorf("failed to decode %s for lint: %w", job.Input, err)
	}

	return verify.GenerateReport(raw).WriteReport(out)
}

// readInput reads the inclusive byte range [Start, End] of the input.
// A range running past the end of the file is cut short.
func readInput(job config.Job) ([]byte, error) {
	f, err := os.Open(job.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}

	// The range is cut at the end of the file.
	length := min(int64(job.Length()), info.Size()-int64(job.Start))
	if length <= 0 {
		return nil, nil
	}

	if _, err := f.Seek(int64(job.Start), io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek input: %w", err)
	}

	buf := make([]byte, length)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return buf[:n], nil
}
