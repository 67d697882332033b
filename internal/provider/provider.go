// Package provider calls a Google Jobs style search API and returns
// normalized listings. Failures never reach the caller: they are logged and
// an empty result is returned.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/network"
	"github.com/jimezsa/jobassist/internal/normalize"
	"github.com/rs/zerolog"
)

type Flavor string

const (
	FlavorScrapingDog Flavor = "scrapingdog"
	FlavorSerpAPI     Flavor = "serpapi"
)

const (
	ScrapingDogEndpoint = "https://api.scrapingdog.com/google_jobs"
	SerpAPIEndpoint     = "https://serpapi.com/search"
)

// Options configures the endpoint and credentials.
type Options struct {
	APIKey   string
	Flavor   Flavor
	Endpoint string
	Language string
}

type Client struct {
	doer   network.Doer
	opts   Options
	logger zerolog.Logger
}

func New(doer network.Doer, opts Options, logger zerolog.Logger) *Client {
	if opts.Flavor == "" {
		opts.Flavor = FlavorScrapingDog
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint(opts.Flavor)
	}
	return &Client{
		doer:   doer,
		opts:   opts,
		logger: logger.With().Str("provider", string(opts.Flavor)).Logger(),
	}
}

// ParseFlavor maps a config value to a Flavor.
func ParseFlavor(value string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FlavorScrapingDog):
		return FlavorScrapingDog, nil
	case string(FlavorSerpAPI):
		return FlavorSerpAPI, nil
	default:
		return "", fmt.Errorf("unknown provider: %s", value)
	}
}

func DefaultEndpoint(flavor Flavor) string {
	if flavor == FlavorSerpAPI {
		return SerpAPIEndpoint
	}
	return ScrapingDogEndpoint
}

// Search issues one GET for params and returns at most params.Limit listings.
// The limit caps how many raw entries are examined, so platform filtering can
// return fewer. Limit <= 0 examines every entry.
func (c *Client) Search(ctx context.Context, params models.SearchParams) []models.JobListing {
	logger := c.logger.With().Str("query", params.Query).Str("platform", params.Platform).Logger()

	payload, err := c.fetch(ctx, params)
	if err != nil {
		logger.Warn().Err(err).Msg("jobs search failed")
		return []models.JobListing{}
	}

	if apiErr, ok := payload["error"]; ok {
		logger.Warn().Interface("api_error", apiErr).Msg("jobs search api reported an error")
		return []models.JobListing{}
	}

	results, ok := payload["jobs_results"].([]any)
	if !ok {
		logger.Info().Msg("no job results found in response")
		return []models.JobListing{}
	}
	related, _ := payload["related_links"].([]any)

	if params.Limit > 0 && len(results) > params.Limit {
		results = results[:params.Limit]
	}
	listings := make([]models.JobListing, 0, len(results))
	for _, listing := range normalize.All(results, related, logger) {
		if MatchesPlatform(listing, params.Platform) {
			listings = append(listings, listing)
		}
	}

	logger.Debug().Int("results", len(results)).Int("kept", len(listings)).Msg("jobs search complete")
	return listings
}

// MatchesPlatform reports whether listing was reported by platform, using a
// case-insensitive substring match. Empty and "all" match everything.
func MatchesPlatform(listing models.JobListing, platform string) bool {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" || platform == "all" {
		return true
	}
	return strings.Contains(strings.ToLower(listing.Platform), platform)
}

func (c *Client) fetch(ctx context.Context, params models.SearchParams) (map[string]any, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, c.BuildURL(params), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: http %d", network.ErrRequestFailed, resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// BuildURL renders the request URL for params.
func (c *Client) BuildURL(params models.SearchParams) string {
	values := url.Values{}
	chips := fmt.Sprintf("date_posted:%dd", params.DaysAgo)
	phrase := queryPhrase(params.Query, params.Location)

	switch c.opts.Flavor {
	case FlavorSerpAPI:
		if p := strings.TrimSpace(params.Platform); p != "" && !strings.EqualFold(p, "all") {
			phrase += " " + p
		}
		values.Set("engine", "google_jobs")
		values.Set("q", phrase)
		values.Set("api_key", c.opts.APIKey)
		values.Set("hl", languageOr(c.opts.Language, "en"))
		values.Set("chips", chips)
	default:
		values.Set("api_key", c.opts.APIKey)
		values.Set("query", phrase)
		values.Set("language", languageOr(c.opts.Language, "en_us"))
		values.Set("chips", chips)
	}

	return fmt.Sprintf("%s?%s", c.opts.Endpoint, values.Encode())
}

func queryPhrase(query, location string) string {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if location == "" {
		return query + " jobs"
	}
	return fmt.Sprintf("%s jobs in %s", query, location)
}

func languageOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
