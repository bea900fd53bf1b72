package observability

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/jonathan/text-reviewer/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintAssessment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	a := &types.Assessment{
		Errors: []types.ErrorDetail{
			{
				TextOriginal:  "teh",
				TextCorrected: "the",
				Category:      types.CategorySpelling,
				Description:   "Misspelled word",
				Position:      4,
				Context:       "saw teh cat",
			},
		},
		Summary:        "One spelling error found.",
		TokensUsed:     120,
		ProcessingTime: 0.42,
	}

	p.PrintAssessment(a)
	output := buf.String()

	assert.Contains(t, output, "REVIEW SUMMARY")
	assert.Contains(t, output, "Errors found:     1")
	assert.Contains(t, output, "One spelling error found.")
	assert.Contains(t, output, "REPORTED ERRORS")
	assert.Contains(t, output, `"teh" -> "the"`)
	assert.Contains(t, output, "[spelling] at 4")
}

func TestPrintAssessment_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAssessment_NoErrors(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment(&types.Assessment{Summary: "No errors found."})
	output := buf.String()

	assert.Contains(t, output, "Errors found:     0")
	assert.NotContains(t, output, "REPORTED ERRORS")
}

func TestPrintAssessment_TruncatesErrorList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	a := &types.Assessment{Summary: "Many errors."}
	for i := 0; i < 8; i++ {
		a.Errors = append(a.Errors, types.ErrorDetail{
			TextOriginal: fmt.Sprintf("wrd%d", i),
			Category:     types.CategorySpelling,
			Context:      fmt.Sprintf("wrd%d here", i),
		})
	}

	p.PrintAssessment(a)
	output := buf.String()

	assert.Contains(t, output, "... and 3 more errors")
	assert.NotContains(t, output, "wrd7")
}
