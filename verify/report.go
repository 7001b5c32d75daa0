package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/psxdecomp/program"
)

const lineEnd = "\r\n"

// VerificationReport represents a complete lint report
type VerificationReport struct {
	LineCount int
	Issues    []Issue
}

// GenerateReport runs lint over p and returns a report
func GenerateReport(p *program.Program) *VerificationReport {
	return &VerificationReport{
		LineCount: p.Len(),
		Issues:    RunLint(p),
	}
}

// ByType returns the issues of type t in line order.
func (r *VerificationReport) ByType(t IssueType) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Type == t {
			out = append(out, issue)
		}
	}

	return out
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) error {
	var sb strings.Builder

	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format+lineEnd, args...)
	}

	line("%s", separator)
	line("LINT REPORT")
	line("%s", separator)

	if len(r.Issues) == 0 {
		line("No lint issues found in %d lines", r.LineCount)
	} else {
		line("Found %d lint issues in %d lines", len(r.Issues), r.LineCount)

		for _, t := range []IssueType{IssueUnrecognized, IssueExternal, IssueDelay} {
			issues := r.ByType(t)
			if len(issues) == 0 {
				continue
			}

			line("")
			line("%s ISSUES (%d):", t, len(issues))
			line("%s", dash)
			for _, issue := range issues {
				line("  [%08X pos=%d] %s", issue.Address, issue.Position, issue.Message)
			}
		}
	}

	line("%s", separator)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write lint report: %w", err)
	}

	return nil
}
