package scraper

import (
	"strings"
	"testing"

	"github.com/jimezsa/jobassist/internal/models"
)

func TestParseZipRecruiterJobs(t *testing.T) {
	html := `
<article class="job_result">
  <a class="job_link" href="/c/example/job/123">Platform Engineer</a>
  <a class="t_org_link">Zip Co</a>
  <div class="location">Remote</div>
  <div class="job_snippet">Build systems</div>
  <span class="job_age">5 days ago</span>
</article>
<article class="job_result">
  <a class="job_link" href="">No link</a>
</article>`

	jobs := parseZipRecruiterJobs(mustDoc(t, html), testNow)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	want := models.JobListing{
		Platform:    SiteZipRecruiter,
		Title:       "Platform Engineer",
		Company:     "Zip Co",
		Location:    "Remote",
		Description: "Build systems",
		ApplyURL:    "https://www.ziprecruiter.com/c/example/job/123",
		DatePosted:  "5 days ago",
	}
	if jobs[0] != want {
		t.Fatalf("unexpected job:\n got %+v\nwant %+v", jobs[0], want)
	}
}

func TestBuildZipRecruiterURL(t *testing.T) {
	got := buildZipRecruiterURL(models.SearchParams{Query: "go developer", Location: "Austin, TX", DaysAgo: 3})
	for _, part := range []string{"/jobs-search?", "search=go+developer", "location=Austin%2C+TX", "days=3"} {
		if !strings.Contains(got, part) {
			t.Fatalf("URL %q missing %q", got, part)
		}
	}
}
