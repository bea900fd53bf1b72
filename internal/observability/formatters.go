// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/text-reviewer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAssessment outputs a human-readable summary of a completed review.
func (p *Printer) PrintAssessment(a *types.Assessment) {
	if a == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Errors found:     %d\n", len(a.Errors)))
	sb.WriteString(fmt.Sprintf("Tokens used:      %d\n", a.TokensUsed))
	sb.WriteString(fmt.Sprintf("Processing time:  %.2fs\n", a.ProcessingTime))
	if a.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(a.Summary)
	}

	p.printBox("REVIEW SUMMARY", strings.TrimSuffix(sb.String(), "\n"))

	if len(a.Errors) > 0 {
		p.printErrors(a.Errors)
	}
}

// printErrors outputs the first few reported errors with their positions.
func (p *Printer) printErrors(errs []types.ErrorDetail) {
	var sb strings.Builder

	count := min(len(errs), maxItemsToShow)
	for i := 0; i < count; i++ {
		e := errs[i]
		sb.WriteString(fmt.Sprintf("#%d  [%s] at %d\n", i+1, e.Category, e.Position))
		sb.WriteString(fmt.Sprintf("    %q", e.TextOriginal))
		if e.TextCorrected != "" {
			sb.WriteString(fmt.Sprintf(" -> %q", e.TextCorrected))
		}
		sb.WriteString("\n")
		if e.Description != "" {
			desc := e.Description
			if len(desc) > 40 {
				desc = desc[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s\n", desc))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(errs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more errors", len(errs)-maxItemsToShow))
	}

	p.printBox("REPORTED ERRORS", strings.TrimSuffix(sb.String(), "\n"))
}
