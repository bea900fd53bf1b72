// Package types provides type definitions for structured data used throughout the text-reviewer system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrorCategory is the closed set of error kinds the model may report.
type ErrorCategory string

// Error categories. These serialize as lowercase strings.
const (
	CategorySpelling ErrorCategory = "spelling"
	CategoryGrammar  ErrorCategory = "grammar"
	CategoryStyle    ErrorCategory = "style"
)

// IsValid reports whether the category is one of the known values.
func (c ErrorCategory) IsValid() bool {
	switch c {
	case CategorySpelling, CategoryGrammar, CategoryStyle:
		return true
	}
	return false
}

// ErrorDetail represents a single error found in submitted text.
//
// As produced by the model, Position and Context are claims and may be
// wrong; after reconciliation Position is verified, meaning
// text[Position:Position+len(TextOriginal)] == TextOriginal.
type ErrorDetail struct {
	TextOriginal  string        `json:"text_original" validate:"required,min=1"`
	TextCorrected string        `json:"text_corrected"`
	Category      ErrorCategory `json:"category" validate:"required,oneof=spelling grammar style"`
	Description   string        `json:"description" validate:"max=500"`
	Position      int           `json:"position" validate:"min=0"`
	Context       string        `json:"context" validate:"required,max=200"`
}

// AnalysisResult is the payload shape returned by the model: the raw error
// list plus an overall quality summary.
type AnalysisResult struct {
	Errors  []ErrorDetail `json:"errors"`
	Summary string        `json:"summary" validate:"max=1000"`
}

// Assessment is an AnalysisResult enriched with the submitted text and
// request metadata. It is assembled once per analysis and not mutated after
// reconciliation.
type Assessment struct {
	Errors         []ErrorDetail `json:"errors"`
	Summary        string        `json:"summary"`
	TextSubmitted  string        `json:"text_submitted"`
	ProcessingTime float64       `json:"processing_time"`
	TokensUsed     int           `json:"tokens_used"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Validate validates the ErrorDetail using the validator.
func (e *ErrorDetail) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}

// Validate validates the AnalysisResult and each of its errors.
func (r *AnalysisResult) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	for i := range r.Errors {
		if err := validate.Struct(&r.Errors[i]); err != nil {
			return err
		}
	}
	return nil
}
