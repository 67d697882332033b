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

const linkedInSearchURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

type LinkedIn struct {
	client network.Doer
}

func NewLinkedIn(client network.Doer) *LinkedIn {
	return &LinkedIn{client: client}
}

func (l *LinkedIn) Name() string {
	return SiteLinkedIn
}

func (l *LinkedIn) Search(ctx context.Context, params models.SearchParams) ([]models.JobListing, error) {
	doc, err := fetchDocument(ctx, l.client, buildLinkedInURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin: %w", err)
	}
	jobs := dedupeJobs(parseLinkedInJobs(doc, time.Now()))
	return limitJobs(jobs, params.Limit), nil
}

func buildLinkedInURL(params models.SearchParams) string {
	values := url.Values{}
	values.Set("keywords", params.Query)
	if params.Location != "" {
		values.Set("location", params.Location)
	}
	if params.DaysAgo > 0 {
		values.Set("f_TPR", fmt.Sprintf("r%d", params.DaysAgo*24*60*60))
	}
	values.Set("start", "0")
	return fmt.Sprintf("%s?%s", linkedInSearchURL, values.Encode())
}

func parseLinkedInJobs(doc *goquery.Document, now time.Time) []models.JobListing {
	var jobs []models.JobListing

	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		link := strings.TrimSpace(s.Find("a.base-card__full-link").First().AttrOr("href", ""))
		title := cleanText(s.Find(".base-search-card__title").First().Text())
		if title == "" || link == "" {
			return
		}
		if idx := strings.Index(link, "?"); idx > 0 {
			link = link[:idx]
		}

		posted := cleanText(s.Find("time").First().Text())
		if posted == "" {
			posted = postedText(s.Find("time").First().AttrOr("datetime", ""), now)
		}

		jobs = append(jobs, models.JobListing{
			Platform:    SiteLinkedIn,
			Title:       title,
			Company:     cleanText(s.Find(".base-search-card__subtitle").First().Text()),
			Location:    cleanText(s.Find(".job-search-card__location").First().Text()),
			Description: cleanText(s.Find(".job-search-card__snippet").First().Text()),
			ApplyURL:    link,
			DatePosted:  posted,
		})
	})

	return jobs
}
