package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/text-reviewer/internal/db"
	"github.com/jonathan/text-reviewer/internal/llm"
	"github.com/jonathan/text-reviewer/internal/server/ratelimit"
	"github.com/jonathan/text-reviewer/internal/types"
)

const testAPIKey = "test-api-key"

type fakeStore struct {
	saved     []*types.Assessment
	saveErr   error
	records   map[uuid.UUID]*db.AssessmentRecord
	listed    []db.AssessmentRecord
	lastLimit int
}

func (f *fakeStore) SaveAssessment(_ context.Context, a *types.Assessment) (uuid.UUID, error) {
	if f.saveErr != nil {
		return uuid.Nil, f.saveErr
	}
	f.saved = append(f.saved, a)
	return uuid.New(), nil
}

func (f *fakeStore) GetAssessment(_ context.Context, id uuid.UUID) (*db.AssessmentRecord, error) {
	return f.records[id], nil
}

func (f *fakeStore) ListAssessments(_ context.Context, limit int) ([]db.AssessmentRecord, error) {
	f.lastLimit = limit
	return f.listed, nil
}

type fakeReviewer struct {
	lastText   string
	assessment *types.Assessment
	err        error
}

func (f *fakeReviewer) Review(_ context.Context, text string) (*types.Assessment, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	a := *f.assessment
	a.TextSubmitted = text
	return &a, nil
}

func newTestServer(store *fakeStore, reviewer *fakeReviewer) *Server {
	return &Server{
		store:       store,
		reviewer:    reviewer,
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	w := httptest.NewRecorder()
	s.handler(testAPIKey).ServeHTTP(w, req)
	return w
}

func sampleAssessment() *types.Assessment {
	return &types.Assessment{
		Errors: []types.ErrorDetail{
			{
				TextOriginal:  "teh",
				TextCorrected: "the",
				Category:      types.CategorySpelling,
				Description:   "Misspelled word",
				Position:      0,
				Context:       "teh cat",
			},
		},
		Summary:        "One spelling error found.",
		ProcessingTime: 0.42,
		TokensUsed:     120,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestCreateReview(t *testing.T) {
	store := &fakeStore{}
	reviewer := &fakeReviewer{assessment: sampleAssessment()}
	s := newTestServer(store, reviewer)

	w := doRequest(s, http.MethodPost, "/reviews", `{"text": "teh cat sat"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID         uuid.UUID        `json:"id"`
		Assessment types.Assessment `json:"assessment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "One spelling error found.", resp.Assessment.Summary)
	require.Len(t, resp.Assessment.Errors, 1)
	assert.Equal(t, "teh", resp.Assessment.Errors[0].TextOriginal)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "teh cat sat", reviewer.lastText)
}

func TestCreateReview_SanitizesBeforeReview(t *testing.T) {
	store := &fakeStore{}
	reviewer := &fakeReviewer{assessment: sampleAssessment()}
	s := newTestServer(store, reviewer)

	w := doRequest(s, http.MethodPost, "/reviews", `{"text": "teh   cat\u200b sat  "}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "teh cat sat", reviewer.lastText)
}

func TestCreateReview_InvalidJSON(t *testing.T) {
	s := newTestServer(&fakeStore{}, &fakeReviewer{assessment: sampleAssessment()})

	w := doRequest(s, http.MethodPost, "/reviews", `{"text": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReview_EmptyText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty string", `{"text": ""}`},
		{"whitespace only", `{"text": "   \n\t  "}`},
		{"missing field", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeStore{}, &fakeReviewer{assessment: sampleAssessment()})
			w := doRequest(s, http.MethodPost, "/reviews", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), "empty")
		})
	}
}

func TestCreateReview_TooLong(t *testing.T) {
	s := newTestServer(&fakeStore{}, &fakeReviewer{assessment: sampleAssessment()})

	body, err := json.Marshal(map[string]string{"text": strings.Repeat("a", maxTextLength+1)})
	require.NoError(t, err)

	w := doRequest(s, http.MethodPost, "/reviews", string(body))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "maximum length")
}

func TestCreateReview_ModelFailure(t *testing.T) {
	reviewer := &fakeReviewer{err: &llm.APIError{
		Reason: llm.ReasonRateLimit,
		Err:    errors.New("quota exceeded"),
	}}
	s := newTestServer(&fakeStore{}, reviewer)

	w := doRequest(s, http.MethodPost, "/reviews", `{"text": "some text"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), string(llm.ReasonRateLimit))
}

func TestCreateReview_SaveFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("connection reset")}
	s := newTestServer(store, &fakeReviewer{assessment: sampleAssessment()})

	w := doRequest(s, http.MethodPost, "/reviews", `{"text": "some text"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetReview(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{records: map[uuid.UUID]*db.AssessmentRecord{
		id: {ID: id, Assessment: *sampleAssessment()},
	}}
	s := newTestServer(store, &fakeReviewer{})

	w := doRequest(s, http.MethodGet, "/reviews/"+id.String(), "")

	require.Equal(t, http.StatusOK, w.Code)

	var rec db.AssessmentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "One spelling error found.", rec.Summary)
}

func TestGetReview_NotFound(t *testing.T) {
	s := newTestServer(&fakeStore{records: map[uuid.UUID]*db.AssessmentRecord{}}, &fakeReviewer{})

	w := doRequest(s, http.MethodGet, "/reviews/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetReview_InvalidID(t *testing.T) {
	s := newTestServer(&fakeStore{}, &fakeReviewer{})

	w := doRequest(s, http.MethodGet, "/reviews/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListReviews(t *testing.T) {
	store := &fakeStore{listed: []db.AssessmentRecord{
		{ID: uuid.New(), Assessment: *sampleAssessment()},
		{ID: uuid.New(), Assessment: *sampleAssessment()},
	}}
	s := newTestServer(store, &fakeReviewer{})

	w := doRequest(s, http.MethodGet, "/reviews", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, store.lastLimit)

	var resp struct {
		Reviews []db.AssessmentRecord `json:"reviews"`
		Count   int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Reviews, 2)
}

func TestListReviews_LimitBounds(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"explicit limit", "?limit=5", 5},
		{"clamped to max", "?limit=5000", 1000},
		{"zero falls back", "?limit=0", 100},
		{"garbage falls back", "?limit=abc", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			s := newTestServer(store, &fakeReviewer{})
			w := doRequest(s, http.MethodGet, "/reviews"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, store.lastLimit)
		})
	}
}

func TestReviewsRequireAPIKey(t *testing.T) {
	s := newTestServer(&fakeStore{}, &fakeReviewer{assessment: sampleAssessment()})
	h := s.handler(testAPIKey)

	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(`{"text": "hi"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Health stays open.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeStore{}, &fakeReviewer{})

	w := doRequest(s, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
