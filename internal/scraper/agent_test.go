package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/normalize"
	"github.com/rs/zerolog"
)

type stubScraper struct {
	name   string
	jobs   []models.JobListing
	err    error
	params []models.SearchParams
}

func (s *stubScraper) Name() string { return s.name }

func (s *stubScraper) Search(_ context.Context, params models.SearchParams) ([]models.JobListing, error) {
	s.params = append(s.params, params)
	return s.jobs, s.err
}

func TestAgentSearchFillsDefaultsAndMarksUnverified(t *testing.T) {
	linkedIn := &stubScraper{name: SiteLinkedIn, jobs: []models.JobListing{
		{Title: "SRE", Platform: SiteLinkedIn, ApplyURL: "https://example.com/1"},
		{Title: "DevOps", Platform: SiteLinkedIn},
		{Title: "Over the limit", Platform: SiteLinkedIn},
	}}
	agent := NewAgent(map[string]Scraper{"linkedin": linkedIn}, zerolog.Nop())

	got := agent.Search(context.Background(), models.SearchParams{Query: "sre", Limit: 2}, []string{"LinkedIn"})
	if len(got) != 2 {
		t.Fatalf("len(Search()) = %d, want 2", len(got))
	}
	for _, listing := range got {
		if listing.IsRealJob {
			t.Fatalf("fallback listing marked real: %+v", listing)
		}
		if listing.Company != normalize.DefaultCompany || listing.DatePosted != normalize.DefaultDatePosted {
			t.Fatalf("defaults not applied: %+v", listing)
		}
	}
	if linkedIn.params[0].Platform != SiteLinkedIn {
		t.Fatalf("Platform param = %q", linkedIn.params[0].Platform)
	}
}

func TestAgentSearchSkipsFailuresAndUnknownPlatforms(t *testing.T) {
	indeed := &stubScraper{name: SiteIndeed, err: errors.New("http 403")}
	glassdoor := &stubScraper{name: SiteGlassdoor, jobs: []models.JobListing{{Title: "Dev", Platform: SiteGlassdoor}}}
	agent := NewAgent(map[string]Scraper{"indeed": indeed, "glassdoor": glassdoor}, zerolog.Nop())

	got := agent.Search(context.Background(), models.SearchParams{Query: "dev"}, []string{"Indeed", "ZipRecruiter", "Glassdoor"})
	if len(got) != 1 || got[0].Platform != SiteGlassdoor {
		t.Fatalf("Search() = %+v, want only the glassdoor listing", got)
	}
	if len(indeed.params) != 1 {
		t.Fatalf("expected indeed to be tried once, got %d", len(indeed.params))
	}
}

func TestAgentSearchAllPlatforms(t *testing.T) {
	a := &stubScraper{name: "A", jobs: []models.JobListing{{Title: "a"}}}
	b := &stubScraper{name: "B", jobs: []models.JobListing{{Title: "b"}}}
	agent := NewAgent(map[string]Scraper{"b": b, "a": a}, zerolog.Nop())

	got := agent.Search(context.Background(), models.SearchParams{}, nil)
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "b" {
		t.Fatalf("Search() = %+v, want both boards in name order", got)
	}

	none := NewAgent(map[string]Scraper{}, zerolog.Nop()).Search(context.Background(), models.SearchParams{}, []string{"all"})
	if none == nil || len(none) != 0 {
		t.Fatalf("Search() with no scrapers = %#v, want empty slice", none)
	}
}
