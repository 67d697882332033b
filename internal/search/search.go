// Package search turns user criteria into provider calls and falls back to
// scraping when the jobs API comes back empty.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/rs/zerolog"
)

const (
	DefaultExperience      = "1-3"
	DefaultRecency         = "1 week"
	DefaultJobsPerPlatform = 5

	WarnAPIEmpty      = "No jobs found via the jobs API. Falling back to standard search."
	WarnAPIDisabled   = "Jobs API is not configured. Using standard search."
	WarnNoResults     = "No jobs found. Try broader keywords, another location, or a longer time window."
	defaultRecencyDay = 7
)

var ErrMissingKeywords = errors.New("keywords are required")

// Recency labels offered to the user and the API recency chip they map to.
var recencyDays = map[string]int{
	"1 day":    1,
	"3 days":   3,
	"1 week":   7,
	"2 weeks":  14,
	"1 month":  30,
	"any time": 365,
}

// RecencyLabels lists the accepted recency labels in display order.
var RecencyLabels = []string{"1 day", "3 days", "1 week", "2 weeks", "1 month", "Any time"}

// ExperienceLevels lists the accepted experience bands.
var ExperienceLevels = []string{"0-1", "1-3", "3-5", "5-10", "10+"}

// Provider is the jobs API client.
type Provider interface {
	Search(ctx context.Context, params models.SearchParams) []models.JobListing
}

// Fallback is the standard search used when the API yields nothing.
type Fallback interface {
	Search(ctx context.Context, params models.SearchParams, platforms []string) []models.JobListing
}

type Service struct {
	provider Provider
	fallback Fallback
	logger   zerolog.Logger
}

// Outcome is the aggregated result of one search.
type Outcome struct {
	Query        string              `json:"query"`
	DaysAgo      int                 `json:"days_ago"`
	Listings     []models.JobListing `json:"listings"`
	UsedFallback bool                `json:"used_fallback"`
	Warnings     []string            `json:"warnings,omitempty"`
}

// NewService wires the collaborators. provider may be nil when no API key is
// configured; fallback may be nil to disable standard search.
func NewService(provider Provider, fallback Fallback, logger zerolog.Logger) *Service {
	return &Service{provider: provider, fallback: fallback, logger: logger}
}

// Run executes one search. Platforms are queried one after another; a slow
// platform delays the rest. Only invalid criteria produce an error.
func (s *Service) Run(ctx context.Context, criteria models.SearchCriteria) (Outcome, error) {
	if strings.TrimSpace(criteria.Keywords) == "" {
		return Outcome{}, ErrMissingKeywords
	}

	platforms := criteria.Platforms
	if len(platforms) == 0 {
		platforms = []string{"all"}
	}

	params := models.SearchParams{
		Query:    BuildQuery(criteria),
		Location: strings.TrimSpace(criteria.Location),
		Limit:    criteria.JobsPerPlatform,
		DaysAgo:  DaysAgo(criteria.Recency),
	}
	if params.Limit <= 0 {
		params.Limit = DefaultJobsPerPlatform
	}

	outcome := Outcome{Query: params.Query, DaysAgo: params.DaysAgo, Listings: []models.JobListing{}}
	logger := s.logger.With().Str("query", params.Query).Str("location", params.Location).Logger()

	runFallback := !criteria.UseAPI
	if criteria.UseAPI {
		if s.provider == nil {
			outcome.Warnings = append(outcome.Warnings, WarnAPIDisabled)
			runFallback = true
		} else {
			for _, platform := range platforms {
				if err := ctx.Err(); err != nil {
					logger.Warn().Err(err).Msg("search cancelled")
					break
				}
				platformParams := params
				platformParams.Platform = platform
				listings := s.provider.Search(ctx, platformParams)
				logger.Debug().Str("platform", platform).Int("listings", len(listings)).Msg("platform searched")
				outcome.Listings = append(outcome.Listings, listings...)
			}
			if len(outcome.Listings) == 0 {
				outcome.Warnings = append(outcome.Warnings, WarnAPIEmpty)
				runFallback = true
			}
		}
	}

	if runFallback && s.fallback != nil {
		outcome.UsedFallback = true
		outcome.Listings = append(outcome.Listings, s.fallback.Search(ctx, params, platforms)...)
	}

	if len(outcome.Listings) == 0 {
		outcome.Warnings = append(outcome.Warnings, WarnNoResults)
	}
	logger.Info().Int("listings", len(outcome.Listings)).Bool("fallback", outcome.UsedFallback).Msg("search finished")
	return outcome, nil
}

// BuildQuery appends job types and a non-default experience band to the keywords.
func BuildQuery(criteria models.SearchCriteria) string {
	parts := []string{strings.TrimSpace(criteria.Keywords)}
	for _, jobType := range criteria.JobTypes {
		if jobType = strings.TrimSpace(jobType); jobType != "" {
			parts = append(parts, jobType)
		}
	}
	if experience := strings.TrimSpace(criteria.Experience); experience != "" && experience != DefaultExperience {
		parts = append(parts, fmt.Sprintf("%s years", experience))
	}
	return strings.Join(parts, " ")
}

// DaysAgo maps a recency label to the API's posted-within window. Unknown
// labels use one week.
func DaysAgo(label string) int {
	if days, ok := recencyDays[strings.ToLower(strings.TrimSpace(label))]; ok {
		return days
	}
	return defaultRecencyDay
}

// ValidExperience reports whether value is one of ExperienceLevels (or empty).
func ValidExperience(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	for _, level := range ExperienceLevels {
		if level == value {
			return true
		}
	}
	return false
}
