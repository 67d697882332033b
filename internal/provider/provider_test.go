package provider

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/normalize"
	"github.com/rs/zerolog"
)

type fakeDoer struct {
	status int
	body   string
	err    error
	calls  []*fhttp.Request
}

func (f *fakeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &fhttp.Response{
		StatusCode: f.status,
		Header:     fhttp.Header{},
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

const twoResults = `{
  "jobs_results": [
    {
      "title": "Data Scientist",
      "company_name": "Acme",
      "location": "Austin, TX",
      "description": "Build models",
      "via": "LinkedIn",
      "detected_extensions": {"posted_at": "2 days ago", "schedule_type": "Full-time"},
      "apply_options": [{"link": "https://acme.example.com/apply"}]
    },
    {
      "title": "ML Engineer",
      "company_name": "Beta",
      "via": "via Indeed",
      "job_id": "b-1"
    }
  ]
}`

func newClient(doer *fakeDoer) *Client {
	return New(doer, Options{APIKey: "secret"}, zerolog.Nop())
}

func TestSearchNormalizesEveryEntry(t *testing.T) {
	doer := &fakeDoer{status: 200, body: twoResults}
	got := newClient(doer).Search(context.Background(), models.SearchParams{
		Query: "data scientist", Location: "usa", Limit: 10, DaysAgo: 7,
	})

	if len(got) != 2 {
		t.Fatalf("len(Search()) = %d, want 2", len(got))
	}
	if got[0].Description != "Build models" || got[0].ApplyURL != "https://acme.example.com/apply" {
		t.Fatalf("unexpected first listing: %+v", got[0])
	}
	if got[1].Description != normalize.DefaultDescription {
		t.Fatalf("Description = %q, want default", got[1].Description)
	}
	if got[1].ApplyURL != "https://www.google.com/search?q=b-1" {
		t.Fatalf("ApplyURL = %q", got[1].ApplyURL)
	}
	for _, listing := range got {
		if !listing.IsRealJob {
			t.Fatalf("expected provider listings to be real: %+v", listing)
		}
	}
}

func TestSearchRequestParameters(t *testing.T) {
	doer := &fakeDoer{status: 200, body: `{"jobs_results": []}`}
	newClient(doer).Search(context.Background(), models.SearchParams{
		Query: "golang", Location: "Berlin", Platform: "LinkedIn", DaysAgo: 3,
	})

	if len(doer.calls) != 1 {
		t.Fatalf("expected one request, got %d", len(doer.calls))
	}
	req := doer.calls[0]
	if req.Method != fhttp.MethodGet {
		t.Fatalf("Method = %s, want GET", req.Method)
	}
	if !strings.HasPrefix(req.URL.String(), ScrapingDogEndpoint+"?") {
		t.Fatalf("unexpected endpoint: %s", req.URL)
	}
	query := req.URL.Query()
	want := map[string]string{
		"api_key":  "secret",
		"query":    "golang jobs in Berlin",
		"language": "en_us",
		"chips":    "date_posted:3d",
	}
	for key, value := range want {
		if got := query.Get(key); got != value {
			t.Fatalf("param %s = %q, want %q", key, got, value)
		}
	}
}

func TestBuildURLSerpAPI(t *testing.T) {
	client := New(&fakeDoer{}, Options{APIKey: "k", Flavor: FlavorSerpAPI}, zerolog.Nop())
	raw := client.BuildURL(models.SearchParams{Query: "sre", Location: "Denver", Platform: "Indeed", DaysAgo: 14})

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}
	query := parsed.Query()
	if query.Get("engine") != "google_jobs" || query.Get("hl") != "en" {
		t.Fatalf("unexpected serpapi params: %s", raw)
	}
	if query.Get("q") != "sre jobs in Denver Indeed" {
		t.Fatalf("q = %q", query.Get("q"))
	}
	if query.Get("chips") != "date_posted:14d" {
		t.Fatalf("chips = %q", query.Get("chips"))
	}
}

func TestSearchSwallowsFailures(t *testing.T) {
	cases := []struct {
		name string
		doer *fakeDoer
	}{
		{"transport error", &fakeDoer{err: errors.New("dial tcp: refused")}},
		{"non-success status", &fakeDoer{status: 500, body: twoResults}},
		{"api error field", &fakeDoer{status: 200, body: `{"error": "Invalid API key", "jobs_results": [{"title": "x"}]}`}},
		{"missing jobs_results", &fakeDoer{status: 200, body: `{"search_metadata": {}}`}},
		{"invalid json", &fakeDoer{status: 200, body: `{"jobs_results": [`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := newClient(tc.doer).Search(context.Background(), models.SearchParams{Query: "x", Limit: 5})
			if got == nil || len(got) != 0 {
				t.Fatalf("Search() = %#v, want empty non-nil slice", got)
			}
		})
	}
}

func TestSearchCapsRawEntriesBeforePlatformFilter(t *testing.T) {
	body := `{"jobs_results": [
		{"title": "1", "via": "Indeed"},
		{"title": "2", "via": "LinkedIn"},
		{"title": "3", "via": "LinkedIn"}
	]}`
	doer := &fakeDoer{status: 200, body: body}
	got := newClient(doer).Search(context.Background(), models.SearchParams{
		Query: "x", Platform: "linkedin", Limit: 2,
	})

	if len(got) != 1 || got[0].Title != "2" {
		t.Fatalf("Search() = %+v, want only entry 2", got)
	}
}

func TestSearchSkipsMalformedEntries(t *testing.T) {
	body := `{"jobs_results": ["bad", {"title": "ok"}]}`
	got := newClient(&fakeDoer{status: 200, body: body}).Search(context.Background(), models.SearchParams{Query: "x"})
	if len(got) != 1 || got[0].Title != "ok" {
		t.Fatalf("Search() = %+v, want the one valid entry", got)
	}
}

func TestSearchUsesRelatedLinks(t *testing.T) {
	body := `{
		"jobs_results": [{"title": "t", "job_id": "j"}],
		"related_links": [{"text": "Apply directly", "link": "https://apply.example.com"}]
	}`
	got := newClient(&fakeDoer{status: 200, body: body}).Search(context.Background(), models.SearchParams{Query: "x"})
	if len(got) != 1 || got[0].ApplyURL != "https://apply.example.com" {
		t.Fatalf("Search() = %+v", got)
	}
}

func TestMatchesPlatform(t *testing.T) {
	listing := models.JobListing{Platform: "via LinkedIn"}
	cases := map[string]bool{
		"":         true,
		"all":      true,
		"ALL":      true,
		"linkedin": true,
		"LinkedIn": true,
		"Indeed":   false,
	}
	for platform, want := range cases {
		if got := MatchesPlatform(listing, platform); got != want {
			t.Fatalf("MatchesPlatform(%q) = %v, want %v", platform, got, want)
		}
	}
}

func TestParseFlavor(t *testing.T) {
	if got, err := ParseFlavor(""); err != nil || got != FlavorScrapingDog {
		t.Fatalf("ParseFlavor(\"\") = %q, %v", got, err)
	}
	if got, err := ParseFlavor("SerpAPI"); err != nil || got != FlavorSerpAPI {
		t.Fatalf("ParseFlavor(SerpAPI) = %q, %v", got, err)
	}
	if _, err := ParseFlavor("bing"); err == nil {
		t.Fatalf("ParseFlavor(bing) error = nil")
	}
}
