// Package rank filters and orders normalized listings for display.
package rank

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/recency"
)

type SortKey string

const (
	MostRecent SortKey = "most-recent"
	Relevance  SortKey = "relevance"
	Company    SortKey = "company"
	Location   SortKey = "location"
)

// AllPlatforms is the filter value that keeps every listing.
const AllPlatforms = "All Platforms"

var ErrUnknownSortKey = errors.New("unknown sort key")

// ParseSortKey accepts the CLI/API spellings of a sort key.
func ParseSortKey(value string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "most-recent", "most recent", "recent", "most_recent":
		return MostRecent, nil
	case "relevance", "":
		return Relevance, nil
	case "company", "company name", "company-name":
		return Company, nil
	case "location":
		return Location, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownSortKey, value)
	}
}

// IsAllPlatforms reports whether filter disables platform filtering.
func IsAllPlatforms(filter string) bool {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", "all", strings.ToLower(AllPlatforms):
		return true
	}
	return false
}

// Ranker orders listings. Now is consulted once per Rank call.
type Ranker struct {
	Now func() time.Time
}

// Rank uses the wall clock for recency ordering.
func Rank(listings []models.JobListing, platformFilter string, key SortKey) []models.JobListing {
	return Ranker{Now: time.Now}.Rank(listings, platformFilter, key)
}

// Rank keeps listings whose platform equals platformFilter case-insensitively
// and orders them stably by key. The input slice is never reordered.
//
// MostRecent orders ascending by resolved timestamp, so the oldest listings come first.
func (r Ranker) Rank(listings []models.JobListing, platformFilter string, key SortKey) []models.JobListing {
	filtered := Filter(listings, platformFilter)

	switch key {
	case MostRecent:
		return byRecency(filtered, r.now())
	case Company:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Company) < strings.ToLower(filtered[j].Company)
		})
	case Location:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Location) < strings.ToLower(filtered[j].Location)
		})
	}
	return filtered
}

// Filter returns a copy of listings restricted to one platform (exact,
// case-insensitive match).
func Filter(listings []models.JobListing, platformFilter string) []models.JobListing {
	out := make([]models.JobListing, 0, len(listings))
	all := IsAllPlatforms(platformFilter)
	for _, listing := range listings {
		if !all && !strings.EqualFold(listing.Platform, strings.TrimSpace(platformFilter)) {
			continue
		}
		out = append(out, listing)
	}
	return out
}

type dated struct {
	listing  models.JobListing
	sortDate time.Time
}

func byRecency(listings []models.JobListing, now time.Time) []models.JobListing {
	annotated := make([]dated, len(listings))
	for i, listing := range listings {
		annotated[i] = dated{listing: listing, sortDate: recency.Resolve(listing.DatePosted, now)}
	}

	sort.SliceStable(annotated, func(i, j int) bool {
		return annotated[i].sortDate.Before(annotated[j].sortDate)
	})

	out := make([]models.JobListing, len(annotated))
	for i, item := range annotated {
		out[i] = item.listing
	}
	return out
}

func (r Ranker) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
