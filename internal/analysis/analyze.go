// Package analysis orchestrates the model-backed text review: prompt the
// model, validate its payload, reconcile error positions and assemble the
// final assessment.
package analysis

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/text-reviewer/internal/llm"
	"github.com/jonathan/text-reviewer/internal/prompts"
	"github.com/jonathan/text-reviewer/internal/reconcile"
	"github.com/jonathan/text-reviewer/internal/schemas"
	"github.com/jonathan/text-reviewer/internal/types"
)

//go:embed analysis_result.schema.json
var analysisResultSchema string

// Analyzer runs text reviews against a model client.
type Analyzer struct {
	client llm.Client
}

// New creates an Analyzer using the given model client.
func New(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Review analyzes text for spelling, grammar and style errors.
//
// The model call is the only suspension point; cancelling ctx abandons the
// in-flight request. The returned assessment contains only errors whose
// positions were verified against text, in the order the model reported
// them; a review with zero errors is a normal outcome.
func (a *Analyzer) Review(ctx context.Context, text string) (*types.Assessment, error) {
	prompt := prompts.MustGet("review.json", "identify_errors")

	start := time.Now()
	res, err := a.client.GenerateJSON(ctx, prompt, text)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start).Seconds()

	result, err := parseResult(res.Text)
	if err != nil {
		return nil, &llm.APIError{Reason: llm.ReasonUnknown, Err: err}
	}

	return &types.Assessment{
		Errors:         reconcile.Reconcile(text, result.Errors),
		Summary:        result.Summary,
		TextSubmitted:  text,
		ProcessingTime: elapsed,
		TokensUsed:     res.TokensUsed,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// parseResult decodes and validates the model's JSON payload.
func parseResult(payload string) (*types.AnalysisResult, error) {
	if err := schemas.ValidateString(analysisResultSchema, payload); err != nil {
		return nil, fmt.Errorf("invalid response from model: %w", err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid response from model: %w", err)
	}
	return &result, nil
}
