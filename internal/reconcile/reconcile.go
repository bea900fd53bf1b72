// Package reconcile recovers the true character offsets of model-reported
// errors. The model reports each error with a claimed position and a
// surrounding context string; claimed positions are frequently shifted or
// invented, so they are never trusted. Instead the error is re-located by
// anchoring its context inside the source text and verifying the result
// byte for byte.
package reconcile

import (
	"log"
	"strings"

	"github.com/jonathan/text-reviewer/internal/types"
)

// Drop reasons reported when a candidate error cannot be located.
const (
	dropNotInContext  = "original text not found in its context"
	dropNoAnchor      = "context not found in source text"
	dropNoValidAnchor = "no context occurrence yields a verifiable position"
)

// Reconcile recomputes the position of every candidate error against source
// and returns the errors that could be located, in their original order.
// Candidates that cannot be verified are dropped and logged; dropping is not
// an error, and an empty result is a valid outcome.
//
// Every returned error satisfies
// source[e.Position:e.Position+len(e.TextOriginal)] == e.TextOriginal.
func Reconcile(source string, candidates []types.ErrorDetail) []types.ErrorDetail {
	validated := make([]types.ErrorDetail, 0, len(candidates))
	for _, e := range candidates {
		pos, reason := locate(source, e)
		if reason != "" {
			log.Printf("[reconcile] dropped error %q (claimed position %d): %s",
				e.TextOriginal, e.Position, reason)
			continue
		}
		e.Position = pos
		validated = append(validated, e)
	}
	return validated
}

// locate finds the verified offset of e.TextOriginal in source, or returns a
// non-empty drop reason.
//
// The context may legitimately repeat within the source, and may itself be
// subtly wrong, so every occurrence is tried. The first occurrence (in source
// order) whose implied position passes the byte-equality check wins; claimed
// positions are too unreliable to use as a tie-break.
func locate(source string, e types.ErrorDetail) (int, string) {
	localOffset := strings.Index(e.Context, e.TextOriginal)
	if localOffset < 0 {
		return 0, dropNotInContext
	}

	anchors := allIndexes(source, e.Context)
	if len(anchors) == 0 {
		return 0, dropNoAnchor
	}

	for _, anchor := range anchors {
		pos := anchor + localOffset
		end := pos + len(e.TextOriginal)
		if end <= len(source) && source[pos:end] == e.TextOriginal {
			return pos, ""
		}
	}
	return 0, dropNoValidAnchor
}

// allIndexes returns every offset at which substr occurs in s, ascending.
// The scan resumes one byte past each hit, so overlapping occurrences are
// all reported.
func allIndexes(s, substr string) []int {
	if substr == "" {
		return nil
	}
	var indexes []int
	start := 0
	for start <= len(s)-len(substr) {
		i := strings.Index(s[start:], substr)
		if i < 0 {
			break
		}
		indexes = append(indexes, start+i)
		start += i + 1
	}
	return indexes
}
