package scraper

import (
	"context"
	"errors"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/normalize"
	"github.com/rs/zerolog"
)

// Agent is the standard search used when the jobs API returns nothing. It
// scrapes each requested board in turn.
type Agent struct {
	scrapers map[string]Scraper
	logger   zerolog.Logger
}

func NewAgent(scrapers map[string]Scraper, logger zerolog.Logger) *Agent {
	return &Agent{
		scrapers: scrapers,
		logger:   logger.With().Str("component", "fallback").Logger(),
	}
}

// Search runs the scrapers for platforms sequentially. An empty list or "all"
// means every registered board. Failing boards are logged and skipped.
// Listings are filled with defaults and are never marked as real jobs.
func (a *Agent) Search(ctx context.Context, params models.SearchParams, platforms []string) []models.JobListing {
	sites := NormalizeSites(platforms)
	if len(sites) == 0 || (len(sites) == 1 && sites[0] == "all") {
		sites = sortedSites(a.scrapers)
	}

	var listings []models.JobListing
	for _, site := range sites {
		sc, ok := a.scrapers[site]
		if !ok {
			a.logger.Debug().Str("platform", site).Msg("no scraper for platform")
			continue
		}

		siteParams := params
		siteParams.Platform = sc.Name()
		jobs, err := sc.Search(ctx, siteParams)
		if errors.Is(err, ErrNotImplemented) {
			a.logger.Debug().Str("platform", sc.Name()).Msg("scraper not implemented")
			continue
		}
		if err != nil {
			a.logger.Warn().Err(err).Str("platform", sc.Name()).Msg("scraper failed")
			continue
		}

		for _, job := range limitJobs(jobs, params.Limit) {
			job = normalize.Fill(job)
			job.IsRealJob = false
			listings = append(listings, job)
		}
	}

	if listings == nil {
		listings = []models.JobListing{}
	}
	return listings
}
