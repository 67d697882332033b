package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/network"
)

const glassdoorBaseURL = "https://www.glassdoor.com"

type Glassdoor struct {
	client network.Doer
}

func NewGlassdoor(client network.Doer) *Glassdoor {
	return &Glassdoor{client: client}
}

func (g *Glassdoor) Name() string {
	return SiteGlassdoor
}

func (g *Glassdoor) Search(ctx context.Context, params models.SearchParams) ([]models.JobListing, error) {
	doc, err := fetchDocument(ctx, g.client, buildGlassdoorURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("glassdoor: %w", err)
	}

	now := time.Now()
	jobs := parseJSONLDJobs(doc, SiteGlassdoor, now)
	jobs = append(jobs, parseGlassdoorJobs(doc, now)...)
	return limitJobs(dedupeJobs(jobs), params.Limit), nil
}

func buildGlassdoorURL(params models.SearchParams) string {
	values := url.Values{}
	values.Set("sc.keyword", params.Query)
	if params.Location != "" {
		values.Set("locKeyword", params.Location)
	}
	if params.DaysAgo > 0 {
		values.Set("fromAge", fmt.Sprintf("%d", params.DaysAgo))
	}
	return fmt.Sprintf("%s/Job/jobs.htm?%s", glassdoorBaseURL, values.Encode())
}

func parseGlassdoorJobs(doc *goquery.Document, now time.Time) []models.JobListing {
	var jobs []models.JobListing

	doc.Find(".react-job-listing, [data-test='jobListing']").Each(func(_ int, s *goquery.Selection) {
		title := firstText(s, ".jobLink", "[data-test='job-title']")
		link := absoluteURL(glassdoorBaseURL, s.Find("a.jobLink, a[data-test='job-title']").First().AttrOr("href", ""))
		if title == "" || link == "" {
			return
		}

		jobs = append(jobs, models.JobListing{
			Platform:   SiteGlassdoor,
			Title:      title,
			Company:    firstText(s, ".jobEmployerName", "[data-test='employer-name']", "[data-test='job-link']"),
			Location:   firstText(s, ".jobLocation", "[data-test='emp-location']"),
			ApplyURL:   link,
			DatePosted: postedText(glassdoorAge(firstText(s, "[data-test='job-age']", ".listing-age")), now),
		})
	})

	return jobs
}

// firstText returns the text of the first selector that matches something non-blank.
func firstText(s *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := cleanText(s.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// glassdoorAge expands the compact "24h" / "3d" / "30d+" badges.
func glassdoorAge(value string) string {
	compact := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), "+")
	if len(compact) < 2 {
		return value
	}
	n := compact[:len(compact)-1]
	if _, err := strconv.Atoi(n); err != nil {
		return value
	}
	switch compact[len(compact)-1] {
	case 'h':
		return n + " hours ago"
	case 'd':
		return n + " days ago"
	}
	return value
}
