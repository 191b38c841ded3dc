package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kiruba11k/lead-scoring-llm/internal/linkedin"
	"github.com/kiruba11k/lead-scoring-llm/internal/logging"
	"github.com/kiruba11k/lead-scoring-llm/internal/pipeline"
	"github.com/kiruba11k/lead-scoring-llm/internal/scoring"
)

type profilesStub struct {
	profile *linkedin.ProfileRecord
	found   bool
}

func (s *profilesStub) FetchProfile(ctx context.Context, username string) (*linkedin.ProfileRecord, bool) {
	return s.profile, s.found
}

type postsStub struct{}

func (s *postsStub) FetchRecentPosts(ctx context.Context, profileURL string, limit int) ([]linkedin.PostRecord, bool) {
	return []linkedin.PostRecord{}, true
}

type scorerStub struct {
	result *scoring.ScoreResult
	err    error
	calls  int
}

func (s *scorerStub) Score(ctx context.Context, payload scoring.ScoringPayload) (*scoring.ScoreResult, error) {
	s.calls++
	return s.result, s.err
}

type sessionHarness struct {
	router   *gin.Engine
	store    *pipeline.Store
	profiles *profilesStub
	scorer   *scorerStub
}

func setupSessionHandler() *sessionHarness {
	gin.SetMode(gin.TestMode)

	logger := logging.NewLogger()
	profiles := &profilesStub{
		profile: &linkedin.ProfileRecord{
			BasicInfo: linkedin.BasicInfo{FullName: "Jane Doe", Headline: "VP Sales"},
		},
		found: true,
	}
	scorer := &scorerStub{}
	store := pipeline.NewStore()
	runner := pipeline.NewRunner(profiles, &postsStub{}, scorer, 2, logger)

	router := gin.New()
	NewSessionHandler(runner, store, logger).RegisterRoutes(router)

	return &sessionHarness{router: router, store: store, profiles: profiles, scorer: scorer}
}

func (h *sessionHarness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)
	return resp
}

func (h *sessionHarness) extract(t *testing.T, id, url string) *httptest.ResponseRecorder {
	t.Helper()
	return h.do(t, http.MethodPost, "/v1/sessions/"+id+"/extract", map[string]interface{}{
		"linkedin_url": url,
		"company":      map[string]string{"company_name": "Acme"},
	})
}

func TestExtractRejectsMalformedJSON(t *testing.T) {
	harness := setupSessionHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/s1/extract", bytes.NewBufferString("{bad json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	harness.router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestExtractRejectsNonProfileURL(t *testing.T) {
	harness := setupSessionHandler()

	resp := harness.extract(t, "s1", "https://example.com/jane")

	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Contains(t, resp.Body.String(), "Not a LinkedIn profile URL")
}

func TestExtractProfileNotFound(t *testing.T) {
	harness := setupSessionHandler()
	harness.profiles.found = false

	resp := harness.extract(t, "s1", "https://linkedin.com/in/ghost")

	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Contains(t, resp.Body.String(), "Could not extract")
}

func TestExtractSuccess(t *testing.T) {
	harness := setupSessionHandler()

	resp := harness.extract(t, "s1", "https://linkedin.com/in/jdoe")

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success bool `json:"success"`
		Session struct {
			ID      string                  `json:"id"`
			Payload *scoring.ScoringPayload `json:"payload"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "s1", body.Session.ID)
	require.NotNil(t, body.Session.Payload)
	require.Equal(t, "Jane Doe", body.Session.Payload.Prospect.Name)
}

func TestScoreBeforeExtract(t *testing.T) {
	harness := setupSessionHandler()
	harness.store.GetOrCreate("s1")

	resp := harness.do(t, http.MethodPost, "/v1/sessions/s1/score", nil)

	require.Equal(t, http.StatusConflict, resp.Code)
	require.Zero(t, harness.scorer.calls)
}

func TestScoreUnknownSession(t *testing.T) {
	harness := setupSessionHandler()

	resp := harness.do(t, http.MethodPost, "/v1/sessions/missing/score", nil)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestScoreSuccess(t *testing.T) {
	harness := setupSessionHandler()
	harness.scorer.result = &scoring.ScoreResult{
		Priority:   scoring.PriorityHot,
		Score:      90,
		Confidence: 85,
		Reasons:    []string{"decision maker"},
	}

	require.Equal(t, http.StatusOK, harness.extract(t, "s1", "https://linkedin.com/in/jdoe").Code)
	resp := harness.do(t, http.MethodPost, "/v1/sessions/s1/score", nil)

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success bool                 `json:"success"`
		Result  *scoring.ScoreResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, scoring.PriorityHot, body.Result.Priority)
	require.InDelta(t, 90, body.Result.Score, 0.001)
}

func TestScoreProviderFailure(t *testing.T) {
	harness := setupSessionHandler()
	harness.scorer.err = &scoring.ScoringError{StatusCode: 500, Message: "boom", Raw: "upstream exploded"}

	require.Equal(t, http.StatusOK, harness.extract(t, "s1", "https://linkedin.com/in/jdoe").Code)
	resp := harness.do(t, http.MethodPost, "/v1/sessions/s1/score", nil)

	require.Equal(t, http.StatusBadGateway, resp.Code)
	require.Contains(t, resp.Body.String(), "upstream exploded")

	// The extracted payload must survive so scoring can be retried.
	session, ok := harness.store.Get("s1")
	require.True(t, ok)
	require.NotNil(t, session.Payload)
	require.Nil(t, session.Result)
}

func TestGetSessionSnapshot(t *testing.T) {
	harness := setupSessionHandler()

	resp := harness.do(t, http.MethodGet, "/v1/sessions/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)

	require.Equal(t, http.StatusOK, harness.extract(t, "s1", "https://linkedin.com/in/jdoe").Code)
	resp = harness.do(t, http.MethodGet, "/v1/sessions/s1", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"profile_url":"https://linkedin.com/in/jdoe"`)
}
