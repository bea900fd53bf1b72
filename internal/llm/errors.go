package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Reason is a stable classification of an upstream model failure.
type Reason string

// Failure reasons. These are part of the API surface: callers and clients
// match on them, so the values must stay stable.
const (
	ReasonRateLimit  Reason = "rate_limit_exceeded"
	ReasonTimeout    Reason = "request_timeout"
	ReasonAuthFailed Reason = "authentication_failed"
	ReasonNetwork    Reason = "network_error"
	ReasonInvalidKey Reason = "invalid_api_key"
	ReasonOverloaded Reason = "model_overloaded"
	ReasonUnknown    Reason = "unknown_api_error"
)

// APIError wraps a provider failure with its classified reason. The core
// treats any APIError as fatal for the request; retries are the caller's
// decision.
type APIError struct {
	Reason Reason
	Err    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model API call failed (%s): %v", e.Reason, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Classify maps a provider error onto the failure taxonomy by keyword
// matching against the lowercased message. The keyword chain is heuristic:
// provider-specific codes that match nothing fall through to ReasonUnknown,
// which is intentional but lossy.
func Classify(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var reason Reason
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "rate limit", "quota"):
		reason = ReasonRateLimit
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout"):
		reason = ReasonTimeout
	case containsAny(msg, "authentication", "unauthorized"):
		reason = ReasonAuthFailed
	case containsAny(msg, "network", "connection"):
		reason = ReasonNetwork
	case strings.Contains(msg, "invalid") && strings.Contains(msg, "key"):
		reason = ReasonInvalidKey
	case containsAny(msg, "overloaded", "unavailable"):
		reason = ReasonOverloaded
	default:
		reason = ReasonUnknown
	}

	return &APIError{Reason: reason, Err: err}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
