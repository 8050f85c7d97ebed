// Package report renders grading reports for people and for CI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mind-engage/mindengage-autograder/internal/grading"
)

// Exit statuses, shared with the CLI.
const (
	ExitPass      = 0 // total met the threshold
	ExitFail      = 1 // graded, below threshold
	ExitLoadError = 2 // nothing was graded
)

const (
	defaultTitle = "Auto-Grading Report"
	rule         = "-----------------------------------------------"
)

// ExitCode maps a report to the process exit status.
func ExitCode(r grading.Report) int {
	if r.Passed {
		return ExitPass
	}
	return ExitFail
}

// Formatter writes a report in one output format.
type Formatter interface {
	Format(w io.Writer, r grading.Report) error
}

// Text renders every criterion in rubric order, then the total and verdict.
type Text struct{}

func (Text) Format(w io.Writer, r grading.Report) error {
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = defaultTitle
	}
	fmt.Fprintf(&b, "========== %s ==========\n", title)
	for _, res := range r.Results {
		b.WriteString(Line(res))
		b.WriteByte('\n')
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "TOTAL SCORE: %d / %d\n", r.Total, r.Max)
	verdict := "FAIL"
	if r.Passed {
		verdict = "PASS"
	}
	fmt.Fprintf(&b, "RESULT: %s (threshold %d)\n", verdict, r.Threshold)
	_, err := io.WriteString(w, b.String())
	return err
}

// Line renders one criterion, e.g. "Part 3 (Update): FAIL [0/15] (missing: replaceOne)".
func Line(res grading.Result) string {
	status := "FAIL"
	if res.Passed {
		status = "PASS"
	}
	s := fmt.Sprintf("%s: %s [%d/%d]", res.Label, status, res.Awarded, res.Points)
	if res.Message != "" {
		s += " (" + res.Message + ")"
	}
	return s
}

// JSON renders the report as a single indented JSON document.
type JSON struct{}

func (JSON) Format(w io.Writer, r grading.Report) error {
	if r.Results == nil {
		r.Results = []grading.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// For returns the formatter for a format name.
func For(format string) (Formatter, error) {
	switch format {
	case "", "text":
		return Text{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
