// Package config loads the description of a decompilation job.
//
// A job file is YAML. Every field can also be given on the command line,
// where it overrides the file:
//
//	input: game.exe
//	output: game.txt
//	start: 0x800
//	end: 0x8FF
//	offset: 0x8000F800
//	format: listing
//	log_level: trace
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/psxdecomp/core"
)

// Output formats.
const (
	FormatListing = "listing"
	FormatTable   = "table"
)

// Address is a 32-bit value written in decimal or with a 0x prefix.
type Address uint32

// String formats the address in hex.
func (a Address) String() string {
	return fmt.Sprintf("0x%X", uint32(a))
}

// Set parses s, so an Address can be used as a flag.Value.
func (a *Address) Set(s string) error {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", s, err)
	}

	*a = Address(v)

	return nil
}

// UnmarshalYAML accepts both integer and string scalars.
func (a *Address) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: address must be a scalar", value.Line)
	}

	if err := a.Set(value.Value); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	return nil
}

// Job describes one decompilation run.
type Job struct {
	Input             string  `yaml:"input"`
	Output            string  `yaml:"output"`
	AssemblyType      string  `yaml:"type"`
	Start             Address `yaml:"start"`
	End               Address `yaml:"end"`
	Offset            Address `yaml:"offset"`
	SkipAllSimplifies bool    `yaml:"skip_all_simplifies"`
	Format            string  `yaml:"format"`
	LogLevel          string  `yaml:"log_level"`
	MaxRounds         int     `yaml:"max_rounds"`
	Lint              bool    `yaml:"lint"`
	Trace             bool    `yaml:"trace"`
}

// Default returns a job with every optional field at its default.
func Default() Job {
	return Job{
		AssemblyType: "psx",
		Format:       FormatListing,
		LogLevel:     "warn",
	}
}

// Load reads a job file on top of the defaults.
func Load(path string) (Job, error) {
	job := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("failed to read job file: %w", err)
	}

	if err := yaml.Unmarshal(data, &job); err != nil {
		return job, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}

	return job, nil
}

// Validate returns the problems that prevent the job from running, in
// the order they are reported to the user.
func (j Job) Validate() []string {
	var messages []string

	info, err := os.Stat(j.Input)
	if err != nil {
		messages = append(messages, "Input file must exist")
	}
	if err != nil || !info.Mode().IsRegular() {
		messages = append(messages, "Input file must be a file")
	}
	if j.End < j.Start {
		messages = append(messages, "Start position must come after the end position")
	}
	if info, err := os.Stat(j.Output); j.Output != "" && err == nil && info.IsDir() {
		messages = append(messages, "Output file must be a file")
	}
	if !strings.EqualFold(j.AssemblyType, "psx") {
		messages = append(messages, fmt.Sprintf("Unknown assembly type %q", j.AssemblyType))
	}
	if j.Format != FormatListing && j.Format != FormatTable {
		messages = append(messages, fmt.Sprintf("Unknown output format %q", j.Format))
	}
	if _, err := j.Level(); err != nil {
		messages = append(messages, err.Error())
	}

	return messages
}

// Level maps LogLevel to a slog level. "trace" selects the level the
// rewrite passes log at.
func (j Job) Level() (slog.Level, error) {
	if strings.EqualFold(j.LogLevel, "trace") {
		return core.LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(j.LogLevel)); err != nil {
		return level, fmt.Errorf("unknown log level %q", j.LogLevel)
	}

	return level, nil
}

// Length is the number of bytes between Start and End, both inclusive.
func (j Job) Length() int {
	return int(j.End-j.Start) + 1
}
