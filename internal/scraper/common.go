package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/network"
	"github.com/jimezsa/jobassist/internal/normalize"
	"github.com/jimezsa/jobassist/internal/recency"
)

const snippetLength = 240

func fetchDocument(ctx context.Context, client network.Doer, target string, headers map[string]string) (*goquery.Document, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	applyHeaders(req, headers)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: http %d", network.ErrRequestFailed, resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func applyHeaders(req *fhttp.Request, headers map[string]string) {
	if headers == nil {
		headers = map[string]string{}
	}
	if _, ok := headers["accept"]; !ok {
		headers["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	}
	if _, ok := headers["accept-language"]; !ok {
		headers["accept-language"] = "en-US,en;q=0.9"
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func parsePostedAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	layouts := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02",
		"2006-01-02T15:04:05-0700",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %s", value)
}

// postedText turns an absolute posting date into the relative wording the
// ranker understands. Relative text is passed through.
func postedText(value string, now time.Time) string {
	value = cleanText(value)
	if ts, err := parsePostedAt(value); err == nil {
		return recency.Describe(ts, now)
	}
	return value
}

func parseJSONLDJobs(doc *goquery.Document, site string, now time.Time) []models.JobListing {
	var jobs []models.JobListing
	seen := map[string]struct{}{}

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}

		for _, job := range extractJobsFromJSONLD(data, site, now) {
			key := listingKey(job)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			jobs = append(jobs, job)
		}
	})

	return jobs
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func extractJobsFromJSONLD(data any, site string, now time.Time) []models.JobListing {
	var jobs []models.JobListing

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			jobs = append(jobs, extractJobsFromJSONLD(item, site, now)...)
		}
	case map[string]any:
		switch strings.ToLower(textOf(value["@type"], value["type"])) {
		case "jobposting":
			return append(jobs, listingFromJobPosting(value, site, now))
		case "itemlist":
			jobs = append(jobs, extractJobsFromJSONLD(value["itemListElement"], site, now)...)
		}
		if graph, ok := value["@graph"]; ok {
			jobs = append(jobs, extractJobsFromJSONLD(graph, site, now)...)
		}
		if main, ok := value["mainEntity"]; ok {
			jobs = append(jobs, extractJobsFromJSONLD(main, site, now)...)
		}
	}

	return jobs
}

func listingFromJobPosting(value map[string]any, site string, now time.Time) models.JobListing {
	return models.JobListing{
		Platform:    site,
		Title:       textOf(value["title"], value["name"]),
		Company:     textOf(normalize.Lookup(value["hiringOrganization"], "name"), value["hiringOrganization"]),
		ApplyURL:    textOf(value["url"], value["@id"]),
		JobType:     employmentType(value["employmentType"]),
		DatePosted:  postedText(textOf(value["datePosted"]), now),
		Location:    locationFromJSONLD(value["jobLocation"]),
		Description: truncate(cleanText(textOf(value["description"])), snippetLength),
	}
}

// employmentType reads schema.org employmentType, which is either a string or a list.
func employmentType(value any) string {
	if list, ok := value.([]any); ok {
		var parts []string
		for _, item := range list {
			if text := textOf(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", ")
	}
	return textOf(value)
}

func locationFromJSONLD(value any) string {
	switch v := value.(type) {
	case []any:
		var parts []string
		for _, item := range v {
			if loc := locationFromJSONLD(item); loc != "" {
				parts = append(parts, loc)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if address, ok := v["address"].(map[string]any); ok {
			return joinAddress(address)
		}
		return joinAddress(v)
	case string:
		return strings.TrimSpace(v)
	}
	return ""
}

func joinAddress(value map[string]any) string {
	keys := []string{"streetAddress", "addressLocality", "addressRegion", "postalCode", "addressCountry"}
	var cleaned []string
	for _, key := range keys {
		if part := textOf(value[key]); part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return strings.Join(cleaned, ", ")
}

// textOf returns the first value that reads as text. Objects contribute their "name".
func textOf(values ...any) string {
	for _, value := range values {
		if m, ok := value.(map[string]any); ok {
			value = m["name"]
		}
		if text, ok := normalize.Text(value); ok {
			return text
		}
	}
	return ""
}

func truncate(value string, max int) string {
	if max <= 0 {
		return value
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	return strings.TrimSpace(value[:max]) + "..."
}

func listingKey(job models.JobListing) string {
	if job.ApplyURL != "" {
		return job.ApplyURL
	}
	if job.Title == "" && job.Company == "" && job.Location == "" {
		return ""
	}
	return strings.ToLower(job.Title + "|" + job.Company + "|" + job.Location)
}

func dedupeJobs(jobs []models.JobListing) []models.JobListing {
	seen := map[string]struct{}{}
	out := make([]models.JobListing, 0, len(jobs))
	for _, job := range jobs {
		key := listingKey(job)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, job)
	}
	return out
}

func limitJobs(jobs []models.JobListing, limit int) []models.JobListing {
	if limit <= 0 || len(jobs) <= limit {
		return jobs
	}
	return jobs[:limit]
}
