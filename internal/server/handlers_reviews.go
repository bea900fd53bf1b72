package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jonathan/text-reviewer/internal/llm"
	"github.com/jonathan/text-reviewer/internal/sanitize"
)

// CreateReviewRequest is the payload for submitting text for review.
type CreateReviewRequest struct {
	Text string `json:"text"`
}

// handleCreateReview sanitizes the submitted text, runs the model review and
// persists the resulting assessment.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if utf8.RuneCountInString(req.Text) > maxTextLength {
		s.errorResponse(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("Text exceeds maximum length of %d characters", maxTextLength))
		return
	}

	text, err := sanitize.Clean(req.Text, maxTextLength)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Text contains invalid content")
		return
	}
	if text == "" {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Text cannot be empty or contain only whitespace")
		return
	}

	assessment, err := s.reviewer.Review(r.Context(), text)
	if err != nil {
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			log.Printf("Review failed (%s): %v", apiErr.Reason, apiErr)
			s.errorResponse(w, http.StatusServiceUnavailable,
				fmt.Sprintf("Text analysis failed: %s", apiErr.Reason))
			return
		}
		log.Printf("Review failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to analyze text")
		return
	}

	id, err := s.store.SaveAssessment(r.Context(), assessment)
	if err != nil {
		log.Printf("Error saving assessment: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save review")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"id":         id,
		"assessment": assessment,
	})
}

// handleGetReview returns a stored assessment by ID.
func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	record, err := s.store.GetAssessment(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching assessment %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch review")
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "Review not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleListReviews returns stored assessments, newest first.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 100, 1000)

	records, err := s.store.ListAssessments(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing assessments: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list reviews")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"reviews": records,
		"count":   len(records),
	})
}
