package scraper

import (
	"strings"
	"testing"

	"github.com/jimezsa/jobassist/internal/models"
)

func TestBuildIndeedURL(t *testing.T) {
	url := buildIndeedURL(models.SearchParams{Query: "golang", Location: "New York, NY", DaysAgo: 7})
	if !containsAll(url, []string{"q=golang", "l=New+York%2C+NY", "fromage=7"}) {
		t.Fatalf("unexpected indeed url: %s", url)
	}
}

func TestParseIndeedJobs(t *testing.T) {
	html := `
<div>
  <a class="tapItem" href="/rc/clk?jk=1">
    <h2 class="jobTitle"><span>Backend Engineer</span></h2>
    <span class="companyName">Initech</span>
    <div class="companyLocation">Remote</div>
    <div class="job-snippet">  Build   services  </div>
    <span class="date">PostedPosted 30+ days ago</span>
  </a>
  <a class="tapItem" href="/rc/clk?jk=2"><span class="companyName">Untitled</span></a>
</div>`

	jobs := parseIndeedJobs(mustDoc(t, html), testNow)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.ApplyURL != "https://www.indeed.com/rc/clk?jk=1" {
		t.Fatalf("ApplyURL = %q", job.ApplyURL)
	}
	if job.Description != "Build services" {
		t.Fatalf("Description = %q", job.Description)
	}
	if job.DatePosted != "30+ days ago" {
		t.Fatalf("DatePosted = %q", job.DatePosted)
	}
}

func TestIndeedPosted(t *testing.T) {
	cases := map[string]string{
		"Posted 3 days ago":         "3 days ago",
		"EmployerActive 2 days ago": "2 days ago",
		"Just posted":               "Just posted",
		"":                          "",
	}
	for input, want := range cases {
		if got := indeedPosted(input); got != want {
			t.Fatalf("indeedPosted(%q) = %q, want %q", input, got, want)
		}
	}
}

func containsAll(value string, parts []string) bool {
	for _, part := range parts {
		if !strings.Contains(value, part) {
			return false
		}
	}
	return true
}
