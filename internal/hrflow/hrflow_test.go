package hrflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(context.Background(), zap.NewNop(), "test-key", "me@example.com", Keys{
		SourceKey: "src-1",
		BoardKey:  "board-1",
	})
	c.APIURL = srv.URL

	return c
}

func TestListJobsReshapesEntries(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "test-key" || r.Header.Get("X-USER-EMAIL") != "me@example.com" {
			t.Fatalf("auth headers missing")
		}
		if !strings.Contains(r.URL.Query().Get("board_keys"), "board-1") {
			t.Fatalf("board key not sent: %s", r.URL.RawQuery)
		}

		fmt.Fprint(w, `{"code": 200, "message": "ok", "data": [
			{"key": "j1", "name": "Go Developer", "tags": [{"name": "company", "value": "Acme"}],
			 "location": {"text": "Paris"}},
			{"key": "j2"}
		]}`)
	}))

	jobs, err := c.ListJobs()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Title != "Go Developer" || jobs[0].Company != "Acme" || jobs[0].Location != "Paris" {
		t.Fatalf("unexpected first job: %+v", jobs[0])
	}
	if jobs[1].Title != "Untitled" || jobs[1].Location != "Remote" || jobs[1].Company != "" {
		t.Fatalf("defaults not applied: %+v", jobs[1])
	}
}

func TestListProfilesNameFallbacks(t *testing.T) {
	longSummary := strings.Repeat("s", 80)

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"code": 200, "message": "ok", "data": [
			{"key": "p1", "info": {"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com"}},
			{"key": "p2", "info": {"summary": %q}},
			{"key": "p3", "info": {}}
		]}`, longSummary)
	}))

	profiles, err := c.ListProfiles()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if profiles[0].Name != "Ada Lovelace" || profiles[0].Email != "ada@example.com" {
		t.Fatalf("unexpected first profile: %+v", profiles[0])
	}
	if len(profiles[1].Name) != 50 {
		t.Fatalf("summary fallback not truncated to 50: %d", len(profiles[1].Name))
	}
	if profiles[2].Name != "Candidate" {
		t.Fatalf("expected Candidate fallback, got %q", profiles[2].Name)
	}
}

func TestGetProfileUpstreamError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": 400, "message": "profile does not exist", "data": null}`)
	}))

	_, err := c.GetProfile("missing")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Code != 400 || upstream.Message != "profile does not exist" {
		t.Fatalf("unexpected upstream error: %+v", upstream)
	}
}

func TestGetJobDecodesSkills(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "j1" {
			t.Fatalf("job key not sent: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"code": 200, "message": "ok", "data":
			{"key": "j1", "name": "Backend Engineer", "skills": [{"name": "Go"}, {"name": "SQL"}]}}`)
	}))

	job, err := c.GetJob("j1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if job.Title() != "Backend Engineer" {
		t.Fatalf("unexpected title: %q", job.Title())
	}
	if len(job.Skills) != 2 || job.Skills[0].Name != "Go" {
		t.Fatalf("skills not decoded: %+v", job.Skills)
	}
}

func TestScoreProfileExtractsPrediction(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": 200, "message": "ok", "data": {
			"profiles": [{"key": "other"}, {"key": "p1"}],
			"predictions": [[0.9, 0.1], [0.128, 0.8734]]
		}}`)
	}))

	score := c.ScoreProfile("p1", "j1")
	if score != 0.87 {
		t.Fatalf("expected rounded score 0.87, got %v", score)
	}
}

func TestScoreProfileFallsBackOnError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": 500, "message": "scoring unavailable", "data": null}`)
	}))

	if score := c.ScoreProfile("p1", "j1"); score != DefaultScore {
		t.Fatalf("expected default score, got %v", score)
	}
}

func TestScoreProfileFallsBackWhenProfileAbsent(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": 200, "message": "ok", "data": {"profiles": [], "predictions": []}}`)
	}))

	if score := c.ScoreProfile("p1", "j1"); score != DefaultScore {
		t.Fatalf("expected default score, got %v", score)
	}
}

func TestProfileFullName(t *testing.T) {
	p := &Profile{Info: ProfileInfo{FirstName: " Grace ", LastName: ""}}
	if got := p.FullName(); got != "Grace" {
		t.Fatalf("expected trimmed name, got %q", got)
	}

	p = &Profile{}
	if got := p.FullName(); got != "Candidate" {
		t.Fatalf("expected Candidate, got %q", got)
	}
}
