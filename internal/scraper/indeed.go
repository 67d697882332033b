package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/network"
)

const indeedBaseURL = "https://www.indeed.com"

type Indeed struct {
	client network.Doer
}

func NewIndeed(client network.Doer) *Indeed {
	return &Indeed{client: client}
}

func (i *Indeed) Name() string {
	return SiteIndeed
}

func (i *Indeed) Search(ctx context.Context, params models.SearchParams) ([]models.JobListing, error) {
	doc, err := fetchDocument(ctx, i.client, buildIndeedURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("indeed: %w", err)
	}

	now := time.Now()
	jobs := parseIndeedJobs(doc, now)
	jobs = append(jobs, parseJSONLDJobs(doc, SiteIndeed, now)...)
	return limitJobs(dedupeJobs(jobs), params.Limit), nil
}

func buildIndeedURL(params models.SearchParams) string {
	values := url.Values{}
	values.Set("q", params.Query)
	if params.Location != "" {
		values.Set("l", params.Location)
	}
	if params.DaysAgo > 0 {
		values.Set("fromage", fmt.Sprintf("%d", params.DaysAgo))
	}
	return fmt.Sprintf("%s/jobs?%s", indeedBaseURL, values.Encode())
}

func parseIndeedJobs(doc *goquery.Document, now time.Time) []models.JobListing {
	var jobs []models.JobListing

	doc.Find("a.tapItem").Each(func(_ int, s *goquery.Selection) {
		title := cleanText(s.Find("h2.jobTitle span").First().Text())
		link := absoluteURL(indeedBaseURL, s.AttrOr("href", ""))
		if title == "" || link == "" {
			return
		}

		jobs = append(jobs, models.JobListing{
			Platform:    SiteIndeed,
			Title:       title,
			Company:     cleanText(s.Find("span.companyName").First().Text()),
			Location:    cleanText(s.Find("div.companyLocation").First().Text()),
			Description: cleanText(s.Find("div.job-snippet").Text()),
			ApplyURL:    link,
			DatePosted:  postedText(indeedPosted(s.Find("span.date").Text()), now),
		})
	})

	return jobs
}

// indeedPosted drops the "Posted"/"Active"/"Employer" lead-ins Indeed puts before the age.
func indeedPosted(value string) string {
	value = cleanText(value)
	for trimmed := true; trimmed; {
		trimmed = false
		for _, prefix := range []string{"posted", "active", "employer"} {
			if len(value) > len(prefix) && strings.EqualFold(value[:len(prefix)], prefix) {
				value = strings.TrimSpace(value[len(prefix):])
				trimmed = true
			}
		}
	}
	return value
}
