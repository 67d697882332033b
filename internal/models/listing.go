package models

// JobListing is the canonical record every provider and scraper result is mapped into.
type JobListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ApplyURL    string `json:"apply_url,omitempty"`
	DatePosted  string `json:"date_posted"`
	Platform    string `json:"platform"`
	JobType     string `json:"job_type"`
	IsRealJob   bool   `json:"is_real_job"`
}

// RawEntry is one decoded jobs_results element together with the
// response-level related_links array some extraction rules consult.
type RawEntry struct {
	Fields       map[string]any
	RelatedLinks []any
}
