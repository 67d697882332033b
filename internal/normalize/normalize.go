// Package normalize maps raw jobs-search API entries into models.JobListing.
//
// Every field is resolved by an ordered list of rules. Each rule is a pure
// function over the raw entry; the first one that yields a non-blank value
// wins and the field default applies when none do.
package normalize

import (
	"net/url"
	"strings"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/rs/zerolog"
)

const (
	DefaultTitle       = "Unknown Title"
	DefaultCompany     = "Unknown Company"
	DefaultLocation    = "Unknown Location"
	DefaultDescription = "No available description"
	DefaultDatePosted  = "Recent"
	DefaultPlatform    = "unknown"
	DefaultJobType     = "Not Specified"
)

const searchURLPrefix = "https://www.google.com/search?q="

// Rule extracts one candidate value from a raw entry.
type Rule func(raw models.RawEntry) (string, bool)

var (
	TitleRules       = []Rule{Field("title")}
	CompanyRules     = []Rule{Field("company_name")}
	LocationRules    = []Rule{Field("location")}
	DescriptionRules = []Rule{Field("description"), Field("snippet")}
	JobTypeRules     = []Rule{
		Field("detected_extensions", "schedule_type"),
		Field("detected_extensions", "employment_type"),
	}
	DatePostedRules = []Rule{Field("detected_extensions", "posted_at")}
	PlatformRules   = []Rule{Field("via")}
	ApplyURLRules   = []Rule{
		Field("apply_link", "link"),
		firstApplyOption,
		relatedApplyLink,
		searchByJobID,
	}
)

// Field reads a (possibly nested) key of the entry.
func Field(path ...string) Rule {
	return func(raw models.RawEntry) (string, bool) {
		return Text(Lookup(raw.Fields, path...))
	}
}

func firstApplyOption(raw models.RawEntry) (string, bool) {
	return Text(Lookup(First(raw.Fields["apply_options"]), "link"))
}

// relatedApplyLink only applies to entries carrying a job_id. Only the first
// related link whose text mentions "apply" is considered.
func relatedApplyLink(raw models.RawEntry) (string, bool) {
	if _, ok := Text(raw.Fields["job_id"]); !ok {
		return "", false
	}
	for _, item := range raw.RelatedLinks {
		text, _ := Text(Lookup(item, "text"))
		if strings.Contains(strings.ToLower(text), "apply") {
			return Text(Lookup(item, "link"))
		}
	}
	return "", false
}

func searchByJobID(raw models.RawEntry) (string, bool) {
	id, ok := Text(raw.Fields["job_id"])
	if !ok {
		return "", false
	}
	return searchURLPrefix + url.QueryEscape(id), true
}

// Resolve applies rules in order and falls back to def.
func Resolve(raw models.RawEntry, rules []Rule, def string) string {
	for _, rule := range rules {
		if value, ok := rule(raw); ok {
			return value
		}
	}
	return def
}

// Normalize builds a listing from one raw entry. It never fails: each field
// falls back to its default independently.
func Normalize(raw models.RawEntry) models.JobListing {
	return models.JobListing{
		Title:       Resolve(raw, TitleRules, DefaultTitle),
		Company:     Resolve(raw, CompanyRules, DefaultCompany),
		Location:    Resolve(raw, LocationRules, DefaultLocation),
		Description: Resolve(raw, DescriptionRules, DefaultDescription),
		ApplyURL:    Resolve(raw, ApplyURLRules, ""),
		DatePosted:  Resolve(raw, DatePostedRules, DefaultDatePosted),
		Platform:    Resolve(raw, PlatformRules, DefaultPlatform),
		JobType:     Resolve(raw, JobTypeRules, DefaultJobType),
		IsRealJob:   true,
	}
}

// Entry wraps a decoded jobs_results element. ok is false when the element is
// not a JSON object.
func Entry(value any, relatedLinks []any) (models.RawEntry, bool) {
	fields, ok := value.(map[string]any)
	if !ok {
		return models.RawEntry{}, false
	}
	return models.RawEntry{Fields: fields, RelatedLinks: relatedLinks}, true
}

// All normalizes a batch of decoded elements. Elements that are not objects
// are skipped and logged; the rest of the batch continues.
func All(values []any, relatedLinks []any, logger zerolog.Logger) []models.JobListing {
	listings := make([]models.JobListing, 0, len(values))
	for idx, value := range values {
		raw, ok := Entry(value, relatedLinks)
		if !ok {
			logger.Warn().Int("index", idx).Msg("skipping malformed job entry")
			continue
		}
		listings = append(listings, Normalize(raw))
	}
	return listings
}

// Fill applies field defaults to a listing built outside the rule chain.
// IsRealJob is left untouched and an empty ApplyURL stays absent.
func Fill(listing models.JobListing) models.JobListing {
	listing.Title = orDefault(listing.Title, DefaultTitle)
	listing.Company = orDefault(listing.Company, DefaultCompany)
	listing.Location = orDefault(listing.Location, DefaultLocation)
	listing.Description = orDefault(listing.Description, DefaultDescription)
	listing.DatePosted = orDefault(listing.DatePosted, DefaultDatePosted)
	listing.Platform = orDefault(listing.Platform, DefaultPlatform)
	listing.JobType = orDefault(listing.JobType, DefaultJobType)
	listing.ApplyURL = strings.TrimSpace(listing.ApplyURL)
	return listing
}

func orDefault(value, def string) string {
	if value = strings.TrimSpace(value); value == "" {
		return def
	}
	return value
}
