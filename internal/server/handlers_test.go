package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/farewelly/farewelly/internal/analysis"
	"github.com/farewelly/farewelly/internal/heygen"
	"github.com/farewelly/farewelly/internal/hrflow"
	"github.com/farewelly/farewelly/internal/video"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubLister struct {
	jobs     []hrflow.JobSummary
	profiles []hrflow.ProfileSummary
	err      error
}

func (s *stubLister) ListJobs() ([]hrflow.JobSummary, error) {
	return s.jobs, s.err
}

func (s *stubLister) ListProfiles() ([]hrflow.ProfileSummary, error) {
	return s.profiles, s.err
}

type stubAnalyzer struct {
	result *analysis.Result
	err    error
}

func (s *stubAnalyzer) Analyze(context.Context, string, string, bool) (*analysis.Result, error) {
	return s.result, s.err
}

type stubAvatars struct {
	avatars []heygen.Avatar
	err     error
}

func (s *stubAvatars) ListAvatars(context.Context) ([]heygen.Avatar, error) {
	return s.avatars, s.err
}

type stubRenderer struct {
	url string
	err error
}

func (s *stubRenderer) Generate(context.Context, string, string) (string, error) {
	return s.url, s.err
}

func testServer(lister Lister, analyzer Analyzer, renderer video.Renderer) *Server {
	gin.SetMode(gin.TestMode)

	if lister == nil {
		lister = &stubLister{}
	}
	if analyzer == nil {
		analyzer = &stubAnalyzer{}
	}
	if renderer == nil {
		renderer = &stubRenderer{url: "https://x/v.mp4"}
	}

	tracker := video.NewTracker(renderer, zap.NewNop())

	return New(lister, analyzer, tracker, &stubAvatars{}, zap.NewNop())
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	s.Router().ServeHTTP(recorder, req)

	return recorder
}

func TestListJobsHandler(t *testing.T) {
	lister := &stubLister{jobs: []hrflow.JobSummary{{Key: "j1", Title: "Go Developer", Company: "Acme", Location: "Paris"}}}

	resp := doRequest(t, testServer(lister, nil, nil), http.MethodGet, "/api/jobs", "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Jobs []hrflow.JobSummary `json:"jobs"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Jobs) != 1 || body.Jobs[0].Title != "Go Developer" {
		t.Fatalf("unexpected jobs: %+v", body.Jobs)
	}
}

func TestListJobsHandlerUpstreamFailure(t *testing.T) {
	lister := &stubLister{err: errors.New("hrflow responded with code 500: boom")}

	resp := doRequest(t, testServer(lister, nil, nil), http.MethodGet, "/api/jobs", "")

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestAnalyzeHandler(t *testing.T) {
	analyzer := &stubAnalyzer{result: &analysis.Result{
		Score:     0.91,
		Threshold: analysis.MatchThreshold,
		Matched:   true,
		Email:     "dear candidate",
	}}

	resp := doRequest(t, testServer(nil, analyzer, nil), http.MethodPost, "/api/analyze",
		`{"profile_key": "p1", "job_key": "j1", "roast_mode": true}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result analysis.Result
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Email != "dear candidate" || !result.Matched {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAnalyzeHandlerValidation(t *testing.T) {
	resp := doRequest(t, testServer(nil, nil, nil), http.MethodPost, "/api/analyze", `{"profile_key": "p1"}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing job_key, got %d", resp.Code)
	}
}

func TestAnalyzeHandlerNotFound(t *testing.T) {
	analyzer := &stubAnalyzer{err: fmt.Errorf("%w: profile %q", analysis.ErrNotFound, "nope")}

	resp := doRequest(t, testServer(nil, analyzer, nil), http.MethodPost, "/api/analyze",
		`{"profile_key": "nope", "job_key": "j1"}`)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestAnalyzeHandlerUpstreamFailure(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("generating rejection email: model overloaded")}

	resp := doRequest(t, testServer(nil, analyzer, nil), http.MethodPost, "/api/analyze",
		`{"profile_key": "p1", "job_key": "j1"}`)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestGenerateVideoHandler(t *testing.T) {
	resp := doRequest(t, testServer(nil, nil, nil), http.MethodPost, "/api/generate-video",
		`{"email_content": "hello there", "language": "fr"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.JobID == "" {
		t.Fatal("expected a job id")
	}
	if body.Status != "pending" {
		t.Fatalf("expected pending, got %q", body.Status)
	}
}

func TestGenerateVideoHandlerValidation(t *testing.T) {
	resp := doRequest(t, testServer(nil, nil, nil), http.MethodPost, "/api/generate-video", `{"language": "en"}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email_content, got %d", resp.Code)
	}
}

func TestVideoStatusHandlerUnknownJob(t *testing.T) {
	resp := doRequest(t, testServer(nil, nil, nil), http.MethodGet, "/api/video-status/stale-id", "")

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["error"] != "Job not found" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestVideoStatusHandlerKnownJob(t *testing.T) {
	server := testServer(nil, nil, &stubRenderer{url: "https://x/v.mp4"})

	jobID := server.tracker.Create()

	resp := doRequest(t, server, http.MethodGet, "/api/video-status/"+jobID, "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["job_id"] != jobID || body["status"] != "pending" {
		t.Fatalf("unexpected body: %+v", body)
	}
	// Not-yet-populated fields stay out of the body entirely.
	if _, ok := body["video_url"]; ok {
		t.Fatal("pending job must not carry video_url")
	}
	if _, ok := body["error"]; ok {
		t.Fatal("pending job must not carry error")
	}
}

func TestHealthz(t *testing.T) {
	resp := doRequest(t, testServer(nil, nil, nil), http.MethodGet, "/healthz", "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
