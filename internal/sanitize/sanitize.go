// Package sanitize normalizes raw input text before analysis.
package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidText indicates the input was rejected by a sanitization check.
var ErrInvalidText = errors.New("invalid text content")

var (
	// Control characters to remove (keep \t, \n, \r)
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	// Zero-width and other problematic Unicode
	zeroWidthChars = regexp.MustCompile("[\u200B-\u200D\uFEFF]")

	// Runs of whitespace collapse to a single space
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// guardMinLength is the input length above which the retention heuristic
// applies; shorter inputs are allowed to shrink arbitrarily.
const guardMinLength = 100

// Clean sanitizes input text for safe processing: strips control characters
// (tab, newline and carriage return survive until whitespace collapsing),
// strips zero-width runes, collapses whitespace runs to a single space and
// trims the result.
//
// Inputs longer than guardMinLength characters that retain less than half
// their length after cleaning are rejected; that much loss means the input
// was mostly garbage or binary. A maxLength of 0 means no length bound.
//
// Empty input passes through unchanged. Callers must reject empty or
// whitespace-only text themselves before analysis.
func Clean(text string, maxLength int) (string, error) {
	if text == "" {
		return text, nil
	}

	originalLength := utf8.RuneCountInString(text)

	cleaned := controlChars.ReplaceAllString(text, "")
	cleaned = zeroWidthChars.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	cleanedLength := utf8.RuneCountInString(cleaned)

	if originalLength > guardMinLength && cleanedLength*2 < originalLength {
		return "", fmt.Errorf("%w: text contains too many invalid characters", ErrInvalidText)
	}

	if maxLength > 0 && cleanedLength > maxLength {
		return "", fmt.Errorf("%w: text exceeds maximum length of %d", ErrInvalidText, maxLength)
	}

	return cleaned, nil
}
