package scraper

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/network"
)

const zipRecruiterBaseURL = "https://www.ziprecruiter.com"

type ZipRecruiter struct {
	client network.Doer
}

func NewZipRecruiter(client network.Doer) *ZipRecruiter {
	return &ZipRecruiter{client: client}
}

func (z *ZipRecruiter) Name() string {
	return SiteZipRecruiter
}

func (z *ZipRecruiter) Search(ctx context.Context, params models.SearchParams) ([]models.JobListing, error) {
	doc, err := fetchDocument(ctx, z.client, buildZipRecruiterURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("ziprecruiter: %w", err)
	}

	now := time.Now()
	jobs := parseJSONLDJobs(doc, SiteZipRecruiter, now)
	jobs = append(jobs, parseZipRecruiterJobs(doc, now)...)
	return limitJobs(dedupeJobs(jobs), params.Limit), nil
}

func buildZipRecruiterURL(params models.SearchParams) string {
	values := url.Values{}
	values.Set("search", params.Query)
	if params.Location != "" {
		values.Set("location", params.Location)
	}
	if params.DaysAgo > 0 {
		values.Set("days", fmt.Sprintf("%d", params.DaysAgo))
	}
	return fmt.Sprintf("%s/jobs-search?%s", zipRecruiterBaseURL, values.Encode())
}

func parseZipRecruiterJobs(doc *goquery.Document, now time.Time) []models.JobListing {
	var jobs []models.JobListing

	doc.Find("article.job_result, div.job_content").Each(func(_ int, s *goquery.Selection) {
		anchor := s.Find("a.job_link").First()
		title := cleanText(anchor.Text())
		link := absoluteURL(zipRecruiterBaseURL, anchor.AttrOr("href", ""))
		if title == "" || link == "" {
			return
		}

		jobs = append(jobs, models.JobListing{
			Platform:    SiteZipRecruiter,
			Title:       title,
			Company:     firstText(s, "a.t_org_link", ".hiring_company"),
			Location:    firstText(s, ".location", ".job_location"),
			Description: truncate(firstText(s, ".job_snippet", ".job_description"), snippetLength),
			ApplyURL:    link,
			DatePosted:  postedText(firstText(s, ".job_age", "time"), now),
		})
	})

	return jobs
}
