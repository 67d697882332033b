// Package session holds the result set of a user's latest search and the
// listing they are looking at.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/rank"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrIndexOutOfRange = errors.New("listing index out of range")
)

// Session is the per-user context between requests. A new search replaces
// Results wholesale; views never mutate them.
type Session struct {
	ID        string                `json:"id"`
	Criteria  models.SearchCriteria `json:"criteria"`
	Results   []models.JobListing   `json:"results"`
	Warnings  []string              `json:"warnings,omitempty"`
	Selected  int                   `json:"selected"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// New returns an empty session with nothing selected.
func New(id string) *Session {
	return &Session{ID: id, Results: []models.JobListing{}, Selected: -1}
}

// Replace stores the results of a new search and clears the selection.
func (s *Session) Replace(criteria models.SearchCriteria, results []models.JobListing, warnings []string, now time.Time) {
	if results == nil {
		results = []models.JobListing{}
	}
	s.Criteria = criteria
	s.Results = results
	s.Warnings = warnings
	s.Selected = -1
	s.UpdatedAt = now
}

// View ranks the current results for display.
func (s *Session) View(ranker rank.Ranker, platformFilter string, key rank.SortKey) []models.JobListing {
	return ranker.Rank(s.Results, platformFilter, key)
}

// Select marks the listing at index within view as selected and returns it.
// The index refers to the ranked view the user saw, not to Results.
func (s *Session) Select(view []models.JobListing, index int) (models.JobListing, error) {
	if index < 0 || index >= len(view) {
		return models.JobListing{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(view))
	}
	s.Selected = index
	return view[index], nil
}
