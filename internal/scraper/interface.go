package scraper

import (
	"context"
	"errors"

	"github.com/jimezsa/jobassist/internal/models"
)

var ErrNotImplemented = errors.New("scraper not implemented")

// Scraper fetches listings straight from a job board. Name is the platform
// label stamped on every listing it returns.
type Scraper interface {
	Name() string
	Search(ctx context.Context, params models.SearchParams) ([]models.JobListing, error)
}
