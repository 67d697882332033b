package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/search"
	"github.com/jimezsa/jobassist/internal/session"
	"github.com/rs/zerolog"
)

type fakeSearcher struct {
	outcome  search.Outcome
	err      error
	criteria []models.SearchCriteria
}

func (f *fakeSearcher) Run(_ context.Context, criteria models.SearchCriteria) (search.Outcome, error) {
	f.criteria = append(f.criteria, criteria)
	if f.err != nil {
		return search.Outcome{}, f.err
	}
	return f.outcome, nil
}

func newTestServer(searcher *fakeSearcher) *Server {
	return New(searcher, session.NewStore(0), zerolog.Nop(), Options{})
}

func sampleOutcome() search.Outcome {
	return search.Outcome{
		Query: "go developer",
		Listings: []models.JobListing{
			{Title: "A", Company: "zeta", Platform: "LinkedIn", DatePosted: "1 day ago", IsRealJob: true},
			{Title: "B", Company: "Acme", Platform: "Indeed", DatePosted: "3 hours ago", IsRealJob: true},
			{Title: "C", Company: "beta", Platform: "LinkedIn", DatePosted: "2 weeks ago", IsRealJob: true},
		},
	}
}

func do(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestSearchCreatesSessionAndRanks(t *testing.T) {
	searcher := &fakeSearcher{outcome: sampleOutcome()}
	handler := newTestServer(searcher).Handler()

	rec := do(t, handler, http.MethodPost, "/api/search", map[string]any{
		"keywords": "go developer",
		"sort":     "company",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decode[searchResponse](t, rec)
	if resp.SessionID == "" {
		t.Fatalf("expected session id")
	}
	if len(resp.Listings) != 3 || resp.Listings[0].Company != "Acme" || resp.Listings[2].Company != "zeta" {
		t.Fatalf("unexpected listings: %+v", resp.Listings)
	}
	if len(resp.Platforms) != 3 || resp.Platforms[0] != "All Platforms" {
		t.Fatalf("Platforms = %v", resp.Platforms)
	}
	if resp.Warnings == nil {
		t.Fatalf("warnings must be an array")
	}
	if !searcher.criteria[0].UseAPI {
		t.Fatalf("use_api should default to true")
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	handler := newTestServer(&fakeSearcher{err: search.ErrMissingKeywords}).Handler()

	cases := []struct {
		name string
		body any
	}{
		{"missing keywords", map[string]any{"keywords": ""}},
		{"bad sort", map[string]any{"keywords": "go", "sort": "salary"}},
		{"bad experience", map[string]any{"keywords": "go", "experience": "7"}},
		{"not json", "plain"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, handler, http.MethodPost, "/api/search", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSearchHonoursUseAPIFalse(t *testing.T) {
	searcher := &fakeSearcher{outcome: sampleOutcome()}
	handler := newTestServer(searcher).Handler()

	rec := do(t, handler, http.MethodPost, "/api/search", map[string]any{"keywords": "go", "use_api": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if searcher.criteria[0].UseAPI {
		t.Fatalf("expected use_api=false to pass through")
	}
}

func TestSessionListingsAndDetail(t *testing.T) {
	searcher := &fakeSearcher{outcome: sampleOutcome()}
	handler := newTestServer(searcher).Handler()

	created := decode[searchResponse](t, do(t, handler, http.MethodPost, "/api/search", map[string]any{"keywords": "go"}))

	rec := do(t, handler, http.MethodGet, "/api/sessions/"+created.SessionID+"/listings?platform=linkedin&sort=company", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	view := decode[listingsResponse](t, rec)
	if len(view.Listings) != 2 || view.Listings[0].Title != "C" || view.Total != 3 {
		t.Fatalf("unexpected view: %+v", view)
	}

	rec = do(t, handler, http.MethodGet, "/api/sessions/"+created.SessionID+"/listings/1?platform=linkedin&sort=company", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := decode[models.JobListing](t, rec); got.Title != "A" {
		t.Fatalf("selected = %+v, want A", got)
	}

	rec = do(t, handler, http.MethodGet, "/api/sessions/"+created.SessionID+"/listings/5", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("out of range status = %d, want 404", rec.Code)
	}
	rec = do(t, handler, http.MethodGet, "/api/sessions/"+created.SessionID+"/listings/x", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad index status = %d, want 400", rec.Code)
	}
}

func TestNewSearchReplacesSessionResults(t *testing.T) {
	searcher := &fakeSearcher{outcome: sampleOutcome()}
	server := newTestServer(searcher)
	handler := server.Handler()

	created := decode[searchResponse](t, do(t, handler, http.MethodPost, "/api/search", map[string]any{"keywords": "go"}))

	searcher.outcome = search.Outcome{Listings: []models.JobListing{{Title: "only", Platform: "Glassdoor"}}}
	again := decode[searchResponse](t, do(t, handler, http.MethodPost, "/api/search", map[string]any{
		"keywords":   "rust",
		"session_id": created.SessionID,
	}))
	if again.SessionID != created.SessionID {
		t.Fatalf("session id changed: %s != %s", again.SessionID, created.SessionID)
	}
	if again.Total != 1 || again.Listings[0].Title != "only" {
		t.Fatalf("results not replaced: %+v", again)
	}
}

func TestUnknownSessionAndHealth(t *testing.T) {
	handler := newTestServer(&fakeSearcher{}).Handler()

	rec := do(t, handler, http.MethodGet, "/api/sessions/missing/listings", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = do(t, handler, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	health := decode[map[string]any](t, rec)
	if health["status"] != "ok" {
		t.Fatalf("unexpected health: %v", health)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := New(&fakeSearcher{}, session.NewStore(0), zerolog.Nop(), Options{AllowOrigins: []string{"http://localhost:5173"}}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Allow-Origin = %q", got)
	}
}
